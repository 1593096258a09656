package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/urfave/cli/v2"

	"github.com/chainvm/nvm/vm"
)

// demoSyscalls is the small registry nvmrun runs every script against. A
// real embedder supplies its own; this one exists so --list-syscalls and
// the SYSCALL opcode have something to dispatch to outside of tests.
func demoSyscalls() *vm.SyscallTable {
	t := vm.NewSyscallTable()
	t.Register(0x00000001, func(e *vm.Engine) bool {
		item, ok := e.CurrentContext().Evaluation.Pop()
		if !ok {
			return false
		}
		fmt.Println("log:", item)
		return true
	})
	return t
}

func main() {
	app := &cli.App{
		Name:  "nvmrun",
		Usage: "run a single script against the virtual machine core",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "hex",
				Usage: "script to execute, as a hex string",
			},
			&cli.IntFlag{
				Name:  "max-stack-size",
				Usage: "override Limits.MaxStackSize",
				Value: vm.DefaultLimits().MaxStackSize,
			},
			&cli.IntFlag{
				Name:  "max-item-size",
				Usage: "override Limits.MaxItemSize",
				Value: vm.DefaultLimits().MaxItemSize,
			},
			&cli.IntFlag{
				Name:  "max-invocation-stack-size",
				Usage: "override Limits.MaxInvocationStackSize",
				Value: vm.DefaultLimits().MaxInvocationStackSize,
			},
			&cli.IntFlag{
				Name:  "max-array-size",
				Usage: "override Limits.MaxArraySize",
				Value: vm.DefaultLimits().MaxArraySize,
			},
			&cli.BoolFlag{
				Name:  "dump",
				Usage: "print the final engine snapshot as JSON",
			},
			&cli.BoolFlag{
				Name:  "list-syscalls",
				Usage: "print the registered syscall ids and exit, without running a script",
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	syscalls := demoSyscalls()

	if c.Bool("list-syscalls") {
		ids := syscalls.IDs()
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		for _, id := range ids {
			fmt.Printf("0x%08x\n", id)
		}
		return nil
	}

	if !c.IsSet("hex") {
		return fmt.Errorf("--hex is required unless --list-syscalls is given")
	}
	raw, err := hex.DecodeString(c.String("hex"))
	if err != nil {
		return fmt.Errorf("invalid --hex script: %w", err)
	}

	limits := vm.Limits{
		MaxStackSize:           c.Int("max-stack-size"),
		MaxItemSize:            c.Int("max-item-size"),
		MaxInvocationStackSize: c.Int("max-invocation-stack-size"),
		MaxArraySize:           c.Int("max-array-size"),
		MaxSizeForBigInteger:   vm.DefaultLimits().MaxSizeForBigInteger,
		MaxShiftSize:           vm.DefaultLimits().MaxShiftSize,
		MinShiftSize:           vm.DefaultLimits().MinShiftSize,
	}

	script, err := vm.DecodeScript(raw)
	if err != nil {
		return fmt.Errorf("could not decode script: %w", err)
	}

	engine := vm.NewEngine(limits)
	engine.Logger = vm.NewLogger("nvmrun: ")
	engine.Syscalls = syscalls
	if _, err := engine.LoadScript(script, -1); err != nil {
		return fmt.Errorf("could not load script: %w", err)
	}

	state := engine.Execute()
	fmt.Printf("final state: %s\n", state)
	if state == vm.FAULT {
		fmt.Printf("fault cause: %v\n", engine.LastError)
	}

	if c.Bool("dump") {
		out, err := json.MarshalIndent(vm.DumpEngine(engine), "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
	}

	if state == vm.FAULT {
		return cli.Exit("", 1)
	}
	return nil
}
