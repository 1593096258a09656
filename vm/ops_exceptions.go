package vm

import "fmt"

// registerExceptionOps wires THROW/THROWIFNOT. The core implements no
// try/catch opcodes (spec §1 Non-goals), so both always terminate execution
// in FAULT; an embedder layering structured exception handling on top would
// intercept the thrown value through Context.Caller before it reaches here.
func registerExceptionOps(t map[OpCode]opHandler) {
	t[THROW] = opThrow
	t[THROWIFNOT] = opThrowIfNot
}

func opThrow(e *Engine, ctx *Context, instr Instruction) error {
	value, err := popEval(ctx)
	if err != nil {
		return err
	}
	return fmt.Errorf("%w: %s", ErrThrow, value.String())
}

func opThrowIfNot(e *Engine, ctx *Context, instr Instruction) error {
	cond, err := popEval(ctx)
	if err != nil {
		return err
	}
	if !cond.ToBoolean() {
		return ErrThrow
	}
	return nil
}
