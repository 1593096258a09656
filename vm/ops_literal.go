package vm

// registerLiteralOps wires PUSH0..PUSH16, PUSHM1, PUSHBYTESn, PUSHDATA1/2/4
// and PUSHNULL: every opcode whose only effect is placing one new literal
// value on the evaluation stack.
func registerLiteralOps(t map[OpCode]opHandler) {
	t[PUSH0] = pushSmallInt(0)
	t[PUSHM1] = pushSmallInt(-1)
	for n := int64(1); n <= 16; n++ {
		t[OpCode(int(PUSH1)+int(n)-1)] = pushSmallInt(n)
	}
	t[PUSHNULL] = func(e *Engine, ctx *Context, instr Instruction) error {
		ctx.Evaluation.Push(Null)
		return nil
	}
	for op := pushBytesMin; op <= pushBytesMax; op++ {
		t[op] = pushLiteralBytes
	}
	t[PUSHDATA1] = pushLiteralBytes
	t[PUSHDATA2] = pushLiteralBytes
	t[PUSHDATA4] = pushLiteralBytes
	t[PUSHA] = opPushA
}

func pushSmallInt(n int64) opHandler {
	return func(e *Engine, ctx *Context, instr Instruction) error {
		ctx.Evaluation.Push(NewIntegerFromInt64(n))
		return nil
	}
}

func pushLiteralBytes(e *Engine, ctx *Context, instr Instruction) error {
	if err := checkItemSize(e, len(instr.Operand)); err != nil {
		return err
	}
	ctx.Evaluation.Push(ByteString(append([]byte{}, instr.Operand...)))
	return nil
}

// opPushA pushes a Pointer (the sole call-by-value target opcode) bound to
// the current script and an absolute offset carried in the instruction's
// 4-byte immediate. The target is bounds-checked the same as a jump target;
// CALLA later rejects a Pointer whose Script doesn't match the caller's.
func opPushA(e *Engine, ctx *Context, instr Instruction) error {
	target := int(instr.PointerTarget)
	if target < 0 || target > ctx.Script.Len() {
		return ErrInvalidJumpTarget
	}
	ctx.Evaluation.Push(Pointer{Script: ctx.Script, Position: target})
	return nil
}
