package vm

import "math/big"

// registerNumericOps wires the arithmetic, shift and comparison opcode
// family. Unary/binary numeric opcodes work over the Integer domain via the
// implicit ConvertTo(TypeInteger) conversion (popInteger); BOOLAND/BOOLOR
// instead use each operand's own ToBoolean(), since those are logical, not
// numeric, combinators.
func registerNumericOps(t map[OpCode]opHandler) {
	t[INC] = unary(func(v *big.Int) *big.Int { return new(big.Int).Add(v, big.NewInt(1)) })
	t[DEC] = unary(func(v *big.Int) *big.Int { return new(big.Int).Sub(v, big.NewInt(1)) })
	t[NEGATE] = unary(func(v *big.Int) *big.Int { return new(big.Int).Neg(v) })
	t[ABS] = unary(func(v *big.Int) *big.Int { return new(big.Int).Abs(v) })
	t[SIGN] = opSign
	t[NOT] = opNot
	t[NZ] = opNz
	t[ADD] = binary(func(a, b *big.Int) *big.Int { return new(big.Int).Add(a, b) })
	t[SUB] = binary(func(a, b *big.Int) *big.Int { return new(big.Int).Sub(a, b) })
	t[MUL] = binary(func(a, b *big.Int) *big.Int { return new(big.Int).Mul(a, b) })
	t[DIV] = opDiv
	t[MOD] = opMod
	t[SHL] = opShl
	t[SHR] = opShr
	t[BOOLAND] = opBoolAnd
	t[BOOLOR] = opBoolOr
	t[NUMEQUAL] = compare(func(c int) bool { return c == 0 })
	t[NUMNOTEQUAL] = compare(func(c int) bool { return c != 0 })
	t[LT] = compare(func(c int) bool { return c < 0 })
	t[GT] = compare(func(c int) bool { return c > 0 })
	t[LTE] = compare(func(c int) bool { return c <= 0 })
	t[GTE] = compare(func(c int) bool { return c >= 0 })
	t[MIN] = binary(func(a, b *big.Int) *big.Int {
		if a.Cmp(b) <= 0 {
			return a
		}
		return b
	})
	t[MAX] = binary(func(a, b *big.Int) *big.Int {
		if a.Cmp(b) >= 0 {
			return a
		}
		return b
	})
	t[WITHIN] = opWithin
}

func unary(f func(*big.Int) *big.Int) opHandler {
	return func(e *Engine, ctx *Context, instr Instruction) error {
		v, err := popInteger(ctx)
		if err != nil {
			return err
		}
		return pushBigInt(e, ctx, f(v))
	}
}

func binary(f func(a, b *big.Int) *big.Int) opHandler {
	return func(e *Engine, ctx *Context, instr Instruction) error {
		b, err := popInteger(ctx)
		if err != nil {
			return err
		}
		a, err := popInteger(ctx)
		if err != nil {
			return err
		}
		return pushBigInt(e, ctx, f(a, b))
	}
}

func compare(f func(cmp int) bool) opHandler {
	return func(e *Engine, ctx *Context, instr Instruction) error {
		b, err := popInteger(ctx)
		if err != nil {
			return err
		}
		a, err := popInteger(ctx)
		if err != nil {
			return err
		}
		pushBool(ctx, f(a.Cmp(b)))
		return nil
	}
}

func opSign(e *Engine, ctx *Context, instr Instruction) error {
	v, err := popInteger(ctx)
	if err != nil {
		return err
	}
	ctx.Evaluation.Push(NewIntegerFromInt64(int64(v.Sign())))
	return nil
}

func opNot(e *Engine, ctx *Context, instr Instruction) error {
	item, err := popEval(ctx)
	if err != nil {
		return err
	}
	pushBool(ctx, !item.ToBoolean())
	return nil
}

func opNz(e *Engine, ctx *Context, instr Instruction) error {
	v, err := popInteger(ctx)
	if err != nil {
		return err
	}
	pushBool(ctx, v.Sign() != 0)
	return nil
}

func opBoolAnd(e *Engine, ctx *Context, instr Instruction) error {
	b, err := popEval(ctx)
	if err != nil {
		return err
	}
	a, err := popEval(ctx)
	if err != nil {
		return err
	}
	pushBool(ctx, a.ToBoolean() && b.ToBoolean())
	return nil
}

func opBoolOr(e *Engine, ctx *Context, instr Instruction) error {
	b, err := popEval(ctx)
	if err != nil {
		return err
	}
	a, err := popEval(ctx)
	if err != nil {
		return err
	}
	pushBool(ctx, a.ToBoolean() || b.ToBoolean())
	return nil
}

func opDiv(e *Engine, ctx *Context, instr Instruction) error {
	b, err := popInteger(ctx)
	if err != nil {
		return err
	}
	a, err := popInteger(ctx)
	if err != nil {
		return err
	}
	if b.Sign() == 0 {
		return ErrDivideByZero
	}
	return pushBigInt(e, ctx, new(big.Int).Quo(a, b))
}

func opMod(e *Engine, ctx *Context, instr Instruction) error {
	b, err := popInteger(ctx)
	if err != nil {
		return err
	}
	a, err := popInteger(ctx)
	if err != nil {
		return err
	}
	if b.Sign() == 0 {
		return ErrDivideByZero
	}
	return pushBigInt(e, ctx, new(big.Int).Rem(a, b))
}

func shiftAmount(e *Engine, ctx *Context) (int, error) {
	v, err := popInteger(ctx)
	if err != nil {
		return 0, err
	}
	if !v.IsInt64() {
		return 0, ErrShiftOutOfRange
	}
	n := v.Int64()
	if n < int64(e.limits.MinShiftSize) || n > int64(e.limits.MaxShiftSize) {
		return 0, ErrShiftOutOfRange
	}
	return int(n), nil
}

func opShl(e *Engine, ctx *Context, instr Instruction) error {
	n, err := shiftAmount(e, ctx)
	if err != nil {
		return err
	}
	v, err := popInteger(ctx)
	if err != nil {
		return err
	}
	var result *big.Int
	if n >= 0 {
		result = new(big.Int).Lsh(v, uint(n))
	} else {
		result = new(big.Int).Rsh(v, uint(-n))
	}
	return pushBigInt(e, ctx, result)
}

func opShr(e *Engine, ctx *Context, instr Instruction) error {
	n, err := shiftAmount(e, ctx)
	if err != nil {
		return err
	}
	v, err := popInteger(ctx)
	if err != nil {
		return err
	}
	var result *big.Int
	if n >= 0 {
		result = new(big.Int).Rsh(v, uint(n))
	} else {
		result = new(big.Int).Lsh(v, uint(-n))
	}
	return pushBigInt(e, ctx, result)
}

func opWithin(e *Engine, ctx *Context, instr Instruction) error {
	max, err := popInteger(ctx)
	if err != nil {
		return err
	}
	min, err := popInteger(ctx)
	if err != nil {
		return err
	}
	x, err := popInteger(ctx)
	if err != nil {
		return err
	}
	pushBool(ctx, min.Cmp(x) <= 0 && x.Cmp(max) < 0)
	return nil
}
