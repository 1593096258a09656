package vm

// State is one of the four states the interpreter's state machine can be in.
type State byte

const (
	// NONE is the running state: Execute keeps stepping while in this state.
	NONE State = iota
	// BREAK is the initial state, before Execute has been called once.
	BREAK
	// HALT is reached when the invocation stack empties via a normal RET.
	HALT
	// FAULT is reached on any limit violation, decode failure, invalid
	// operand, type mismatch, out-of-range pop, host-call failure, or
	// uncaught THROW.
	FAULT
)

func (s State) String() string {
	switch s {
	case NONE:
		return "NONE"
	case BREAK:
		return "BREAK"
	case HALT:
		return "HALT"
	case FAULT:
		return "FAULT"
	default:
		return "UNKNOWN"
	}
}

// Engine is a single, non-reentrant virtual machine instance. All of its
// mutable state (stacks, reference tracker) is owned exclusively by this
// value; a process may construct as many independent Engines as it likes.
type Engine struct {
	limits  Limits
	state   State
	tracker *ReferenceTracker

	invocation *RandomAccessStack[*Context]
	result     *ValueStack
	entry      *Context

	LastError error
	Logger    *Logger

	// Syscalls is the host-call registry consulted by the SYSCALL opcode.
	// OnSysCall remains available as a lighter-weight alternative for
	// embedders that want a single dispatch function instead of a table.
	Syscalls *SyscallTable

	// Extension points. All are optional (nil-safe); the core never reaches
	// outside of these hooks to interact with the embedder.
	OnSysCall              func(id uint32) bool
	PreExecuteInstruction  func() bool
	PostExecuteInstruction func(Instruction) bool
	ContextUnloaded        func(*Context)
	LoadContext            func(*Context)
}

// NewEngine constructs an Engine with the given resource limits and an
// empty invocation stack, ready to load scripts.
func NewEngine(limits Limits) *Engine {
	tracker := NewReferenceTracker()
	return &Engine{
		limits:     limits,
		state:      BREAK,
		tracker:    tracker,
		invocation: NewRandomAccessStack[*Context](),
		result:     newValueStack(tracker),
	}
}

// State returns the current state of the interpreter.
func (e *Engine) State() State { return e.state }

// Limits returns the engine's resource limits.
func (e *Engine) Limits() Limits { return e.limits }

// StackItemCount returns the aggregate slot count (spec §4.5/§8 invariant 2).
func (e *Engine) StackItemCount() int { return e.tracker.StackItemCount() }

// InvocationStack exposes the frame stack for read-only inspection.
func (e *Engine) InvocationStack() *RandomAccessStack[*Context] { return e.invocation }

// ResultStack exposes the final values produced by a HALTed script.
func (e *Engine) ResultStack() *ValueStack { return e.result }

// CurrentContext returns the top of the invocation stack, or nil if empty.
func (e *Engine) CurrentContext() *Context {
	ctx, ok := e.invocation.Peek(0)
	if !ok {
		return nil
	}
	return ctx
}

// EntryContext returns the first context ever loaded, even after it has
// been popped and the engine has HALTed.
func (e *Engine) EntryContext() *Context { return e.entry }

// LoadScript appends a new execution context to the invocation stack.
func (e *Engine) LoadScript(script *Script, rvcount int) (*Context, error) {
	if e.invocation.Count() >= e.limits.MaxInvocationStackSize {
		e.fault(ErrInvocationOverflow)
		return nil, ErrInvocationOverflow
	}
	ctx := newContext(script, e.tracker, rvcount)
	e.invocation.Push(ctx)
	if e.entry == nil {
		e.entry = ctx
	}
	if e.LoadContext != nil {
		e.LoadContext(ctx)
	}
	return ctx, nil
}

// pushCall is LoadScript's counterpart for CALL: it clones the caller's
// frame instead of wrapping a fresh script.
func (e *Engine) pushCall(ctx *Context) error {
	if e.invocation.Count() >= e.limits.MaxInvocationStackSize {
		return ErrInvocationOverflow
	}
	e.invocation.Push(ctx)
	if e.LoadContext != nil {
		e.LoadContext(ctx)
	}
	return nil
}

func (e *Engine) popContext() (*Context, bool) {
	ctx, ok := e.invocation.Pop()
	if ok {
		ctx.Evaluation.Clear()
		ctx.Alt.Clear()
		if e.ContextUnloaded != nil {
			e.ContextUnloaded(ctx)
		}
	}
	return ctx, ok
}

func (e *Engine) fault(err error) {
	e.state = FAULT
	e.LastError = err
	if e.Logger != nil {
		e.Logger.Faultf("vm fault: %v", err)
	}
}

// Execute drives the machine to HALT or FAULT and returns the terminal
// state.
func (e *Engine) Execute() State {
	if e.state == BREAK {
		e.state = NONE
	}
	for e.state != HALT && e.state != FAULT {
		e.Step()
	}
	return e.state
}

// Step executes a single instruction. Once the engine has reached HALT or
// FAULT, Step is a no-op (spec §8 property 3).
func (e *Engine) Step() {
	if e.state == HALT || e.state == FAULT {
		return
	}

	ctx := e.CurrentContext()
	if ctx == nil {
		e.state = HALT
		return
	}

	if e.PreExecuteInstruction != nil && !e.PreExecuteInstruction() {
		e.fault(ErrHostCallFailed)
		return
	}

	var instr Instruction
	if ctx.Script.AtEnd(ctx.ip) {
		// Running off the end of the script behaves like an implicit RET
		// (see SPEC_FULL.md §9 decision 1: JMP may legally target scriptLen).
		instr = Instruction{Opcode: RET, Size: 0}
		if err := opRet(e, ctx, instr); err != nil {
			e.fault(err)
			return
		}
	} else {
		decoded, err := ctx.NextInstruction()
		if err != nil {
			e.fault(err)
			return
		}
		instr = decoded
		e.dispatch(ctx, instr)
	}

	if e.state == FAULT || e.state == HALT {
		return
	}

	e.tracker.Sweep()
	if e.tracker.StackItemCount() > e.limits.MaxStackSize {
		e.fault(ErrStackOverflow)
		return
	}
	if e.PostExecuteInstruction != nil && !e.PostExecuteInstruction(instr) {
		e.fault(ErrHostCallFailed)
	}
}

func (e *Engine) dispatch(ctx *Context, instr Instruction) {
	handler, ok := opcodeTable[instr.Opcode]
	if !ok {
		e.fault(ErrUnknownOpcode)
		return
	}
	if err := handler(e, ctx, instr); err != nil {
		e.fault(err)
		return
	}
	if e.state == FAULT || e.state == HALT {
		return
	}
	if !controlsOwnIP(instr.Opcode) {
		ctx.ip += instr.Size
	}
}

func controlsOwnIP(op OpCode) bool {
	switch op {
	case JMP, JMPIF, JMPIFNOT, CALL, CALLA, RET:
		return true
	default:
		return false
	}
}
