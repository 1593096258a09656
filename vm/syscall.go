package vm

import (
	"fmt"

	"golang.org/x/exp/maps"
)

// HostFunc is a single registered syscall implementation. It receives the
// engine so it can pop arguments off CurrentContext().Evaluation and push a
// result, and reports success the same way every other opcode does: a
// return of false (or a panic, which Dispatch recovers) turns into a FAULT.
type HostFunc func(e *Engine) bool

// SyscallTable is the host-call registry the embedder populates before
// running a script (spec §1: registry policy itself is an embedder concern,
// the core only defines the dispatch contract).
type SyscallTable struct {
	funcs map[uint32]HostFunc
}

// NewSyscallTable returns an empty registry.
func NewSyscallTable() *SyscallTable {
	return &SyscallTable{funcs: map[uint32]HostFunc{}}
}

// Register binds id to fn, overwriting any previous binding.
func (t *SyscallTable) Register(id uint32, fn HostFunc) {
	t.funcs[id] = fn
}

// Lookup reports whether id has a registered handler.
func (t *SyscallTable) Lookup(id uint32) (HostFunc, bool) {
	fn, ok := t.funcs[id]
	return fn, ok
}

// IDs returns every registered syscall id, in no particular order; the CLI
// front end uses it to print the active registry for --list-syscalls.
func (t *SyscallTable) IDs() []uint32 {
	return maps.Keys(t.funcs)
}

// Dispatch runs the handler registered for id. A host function that panics
// is treated the same as one that returns false: the engine FAULTs instead
// of the panic unwinding through the interpreter loop (SPEC_FULL.md §9
// decision 3).
func (t *SyscallTable) Dispatch(e *Engine, id uint32) (ok bool) {
	fn, found := t.Lookup(id)
	if !found {
		e.LastError = fmt.Errorf("%w: id 0x%08x", ErrHostCallUnregistred, id)
		return false
	}
	defer func() {
		if r := recover(); r != nil {
			if e.Logger != nil {
				e.Logger.Faultf("syscall 0x%08x panicked: %v", id, r)
			}
			ok = false
		}
	}()
	return fn(e)
}
