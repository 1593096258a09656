package vm

// registerControlOps wires NOP, the three jump variants, CALL, CALLA, RET and
// SYSCALL. All of them except NOP and SYSCALL move the instruction pointer
// themselves rather than letting the dispatcher advance it by
// Instruction.Size.
func registerControlOps(t map[OpCode]opHandler) {
	t[NOP] = func(e *Engine, ctx *Context, instr Instruction) error { return nil }
	t[JMP] = opJmp
	t[JMPIF] = opJmpIf
	t[JMPIFNOT] = opJmpIfNot
	t[CALL] = opCall
	t[CALLA] = opCallA
	t[RET] = opRet
	t[SYSCALL] = opSyscall
}

func jumpTarget(ctx *Context, offset int16) (int, error) {
	target := ctx.ip + int(offset)
	if target < 0 || target > ctx.Script.Len() {
		return 0, ErrInvalidJumpTarget
	}
	return target, nil
}

func opJmp(e *Engine, ctx *Context, instr Instruction) error {
	target, err := jumpTarget(ctx, instr.JumpOffset)
	if err != nil {
		return err
	}
	ctx.ip = target
	return nil
}

func opJmpIf(e *Engine, ctx *Context, instr Instruction) error {
	cond, err := popEval(ctx)
	if err != nil {
		return err
	}
	if cond.ToBoolean() {
		return opJmp(e, ctx, instr)
	}
	ctx.ip += instr.Size
	return nil
}

func opJmpIfNot(e *Engine, ctx *Context, instr Instruction) error {
	cond, err := popEval(ctx)
	if err != nil {
		return err
	}
	if !cond.ToBoolean() {
		return opJmp(e, ctx, instr)
	}
	ctx.ip += instr.Size
	return nil
}

// opCall pushes a fresh frame sharing ctx's script, positioned at the call
// target, with an unconstrained (-1) return count: the callee's RET hands
// back whatever it leaves on its evaluation stack. The caller's own ip is
// advanced past the CALL instruction immediately, so execution resumes
// there once the callee returns.
func opCall(e *Engine, ctx *Context, instr Instruction) error {
	target, err := jumpTarget(ctx, instr.JumpOffset)
	if err != nil {
		return err
	}
	ctx.ip += instr.Size
	callee := ctx.clone(e.tracker, target, -1)
	return e.pushCall(callee)
}

// opCallA is CALL's call-by-value counterpart: it pops a Pointer instead of
// reading a relative immediate. The Pointer must target the currently
// executing script (a Pointer is only meaningful within the script that
// produced it via PUSHA); anything else, including a non-Pointer operand,
// faults rather than silently coercing.
func opCallA(e *Engine, ctx *Context, instr Instruction) error {
	value, err := popEval(ctx)
	if err != nil {
		return err
	}
	target, ok := value.(Pointer)
	if !ok {
		return ErrTypeMismatch
	}
	if target.Script != ctx.Script {
		return ErrInvalidJumpTarget
	}
	ctx.ip += instr.Size
	callee := ctx.clone(e.tracker, target.Position, -1)
	return e.pushCall(callee)
}

// opRet pops the current frame. If RVCount is non-negative, the evaluation
// stack must hold exactly that many values or the frame faults; -1 means
// "hand back everything currently on the evaluation stack", and additionally
// carries the popped frame's alt stack over to the caller's alt stack (spec
// §4.4.2). Values move to the caller's evaluation stack, or to the engine's
// result stack and a HALT transition when no caller remains.
func opRet(e *Engine, ctx *Context, instr Instruction) error {
	n := ctx.Evaluation.Count()
	if ctx.RVCount >= 0 && n != ctx.RVCount {
		return ErrReturnCountMismatch
	}
	values := make([]StackItem, n)
	for i := n - 1; i >= 0; i-- {
		v, _ := ctx.Evaluation.Pop()
		values[i] = v
	}
	var alt []StackItem
	if ctx.RVCount == -1 {
		alt = append([]StackItem{}, ctx.Alt.Items()...)
	}
	if _, ok := e.popContext(); !ok {
		return ErrNotOnStack
	}
	dest := e.CurrentContext()
	if dest == nil {
		for _, v := range values {
			e.result.Push(v)
		}
		e.state = HALT
		return nil
	}
	for _, v := range values {
		dest.Evaluation.Push(v)
	}
	for _, v := range alt {
		dest.Alt.Push(v)
	}
	return nil
}

func opSyscall(e *Engine, ctx *Context, instr Instruction) error {
	if e.Syscalls != nil {
		if e.Syscalls.Dispatch(e, instr.SyscallID) {
			return nil
		}
		if e.LastError != nil {
			return e.LastError
		}
		return ErrHostCallFailed
	}
	if e.OnSysCall != nil {
		ok := func() (ok bool) {
			defer func() {
				if r := recover(); r != nil {
					ok = false
				}
			}()
			return e.OnSysCall(instr.SyscallID)
		}()
		if ok {
			return nil
		}
		return ErrHostCallFailed
	}
	return ErrHostCallUnregistred
}
