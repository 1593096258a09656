package vm

// registerStackOps wires the pure stack-shuffling opcode family. Apart from
// ISNULL's Null test and the integer index operands some of them pop, none
// of these inspect a value's type; they only move references around, so
// every handler here goes through ValueStack so invariants 1/2 keep holding
// without each handler having to think about the reference tracker.
func registerStackOps(t map[OpCode]opHandler) {
	t[DROP] = opDrop
	t[DUP] = opDup
	t[NIP] = opNip
	t[OVER] = opOver
	t[SWAP] = opSwap
	t[TUCK] = opTuck
	t[ROT] = opRot
	t[DEPTH] = opDepth
	t[XDROP] = opXDrop
	t[XSWAP] = opXSwap
	t[XTUCK] = opXTuck
	t[PICK] = opPick
	t[ROLL] = opRoll
	t[TOALTSTACK] = opToAltStack
	t[FROMALTSTACK] = opFromAltStack
	t[DUPFROMALTSTACK] = opDupFromAltStack
	t[DUPFROMALTSTACKBOTTOM] = opDupFromAltStackBottom
	t[ISNULL] = opIsNull
}

func opDrop(e *Engine, ctx *Context, instr Instruction) error {
	if _, err := popEval(ctx); err != nil {
		return err
	}
	return nil
}

func opDup(e *Engine, ctx *Context, instr Instruction) error {
	item, err := peekEval(ctx, 0)
	if err != nil {
		return err
	}
	ctx.Evaluation.Push(item)
	return nil
}

func opNip(e *Engine, ctx *Context, instr Instruction) error {
	if _, ok := ctx.Evaluation.Discard(1); !ok {
		return ErrStackUnderflow
	}
	return nil
}

func opOver(e *Engine, ctx *Context, instr Instruction) error {
	item, err := peekEval(ctx, 1)
	if err != nil {
		return err
	}
	ctx.Evaluation.Push(item)
	return nil
}

func opSwap(e *Engine, ctx *Context, instr Instruction) error {
	if !ctx.Evaluation.Swap(0, 1) {
		return ErrStackUnderflow
	}
	return nil
}

func opTuck(e *Engine, ctx *Context, instr Instruction) error {
	top, err := peekEval(ctx, 0)
	if err != nil {
		return err
	}
	if !ctx.Evaluation.InsertNewReference(2, top) {
		return ErrStackUnderflow
	}
	return nil
}

func opRot(e *Engine, ctx *Context, instr Instruction) error {
	if _, err := peekEval(ctx, 2); err != nil {
		return err
	}
	if !ctx.Evaluation.Reposition(2, 0) {
		return ErrStackUnderflow
	}
	return nil
}

func opDepth(e *Engine, ctx *Context, instr Instruction) error {
	ctx.Evaluation.Push(NewIntegerFromInt64(int64(ctx.Evaluation.Count())))
	return nil
}

func opXDrop(e *Engine, ctx *Context, instr Instruction) error {
	n, err := popIndex(ctx)
	if err != nil {
		return err
	}
	if _, ok := ctx.Evaluation.Discard(n); !ok {
		return ErrStackUnderflow
	}
	return nil
}

func opXSwap(e *Engine, ctx *Context, instr Instruction) error {
	n, err := popIndex(ctx)
	if err != nil {
		return err
	}
	if !ctx.Evaluation.Swap(0, n) {
		return ErrStackUnderflow
	}
	return nil
}

func opXTuck(e *Engine, ctx *Context, instr Instruction) error {
	n, err := popIndex(ctx)
	if err != nil {
		return err
	}
	top, err := peekEval(ctx, 0)
	if err != nil {
		return err
	}
	if !ctx.Evaluation.InsertNewReference(n+1, top) {
		return ErrStackUnderflow
	}
	return nil
}

func opPick(e *Engine, ctx *Context, instr Instruction) error {
	n, err := popIndex(ctx)
	if err != nil {
		return err
	}
	item, err := peekEval(ctx, n)
	if err != nil {
		return err
	}
	ctx.Evaluation.Push(item)
	return nil
}

func opRoll(e *Engine, ctx *Context, instr Instruction) error {
	n, err := popIndex(ctx)
	if err != nil {
		return err
	}
	if n == 0 {
		return nil
	}
	if _, err := peekEval(ctx, n); err != nil {
		return err
	}
	if !ctx.Evaluation.Reposition(n, 0) {
		return ErrStackUnderflow
	}
	return nil
}

func opToAltStack(e *Engine, ctx *Context, instr Instruction) error {
	item, err := popEval(ctx)
	if err != nil {
		return err
	}
	ctx.Alt.Push(item)
	return nil
}

func opFromAltStack(e *Engine, ctx *Context, instr Instruction) error {
	item, ok := ctx.Alt.Pop()
	if !ok {
		return ErrStackUnderflow
	}
	ctx.Evaluation.Push(item)
	return nil
}

func opDupFromAltStack(e *Engine, ctx *Context, instr Instruction) error {
	item, ok := ctx.Alt.Peek(0)
	if !ok {
		return ErrStackUnderflow
	}
	ctx.Evaluation.Push(item)
	return nil
}

func opDupFromAltStackBottom(e *Engine, ctx *Context, instr Instruction) error {
	item, ok := ctx.Alt.PeekFromBottom(0)
	if !ok {
		return ErrStackUnderflow
	}
	ctx.Evaluation.Push(item)
	return nil
}

func opIsNull(e *Engine, ctx *Context, instr Instruction) error {
	item, err := popEval(ctx)
	if err != nil {
		return err
	}
	pushBool(ctx, item.Type() == TypeNull)
	return nil
}
