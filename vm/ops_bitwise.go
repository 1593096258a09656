package vm

import "math/big"

// registerBitwiseOps wires INVERT/AND/OR/XOR/EQUAL. The bitwise opcodes
// operate on the Integer domain using math/big's two's-complement-correct
// And/Or/Xor/Not, which already implement infinite-precision bitwise
// arithmetic the way the value domain's signed Integer requires.
func registerBitwiseOps(t map[OpCode]opHandler) {
	t[INVERT] = opInvert
	t[AND] = bitwiseOp(func(a, b *big.Int) *big.Int { return new(big.Int).And(a, b) })
	t[OR] = bitwiseOp(func(a, b *big.Int) *big.Int { return new(big.Int).Or(a, b) })
	t[XOR] = bitwiseOp(func(a, b *big.Int) *big.Int { return new(big.Int).Xor(a, b) })
	t[EQUAL] = opEqual
}

func opInvert(e *Engine, ctx *Context, instr Instruction) error {
	v, err := popInteger(ctx)
	if err != nil {
		return err
	}
	return pushBigInt(e, ctx, new(big.Int).Not(v))
}

func bitwiseOp(f func(a, b *big.Int) *big.Int) opHandler {
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

// opEqual applies the value domain's equality rule directly (spec §3):
// primitives by canonical byte span across types, compounds by identity,
// Null only to Null.
func opEqual(e *Engine, ctx *Context, instr Instruction) error {
	b, err := popEval(ctx)
	if err != nil {
		return err
	}
	a, err := popEval(ctx)
	if err != nil {
		return err
	}
	pushBool(ctx, a.Equals(b))
	return nil
}
