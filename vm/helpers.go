package vm

import "math/big"

// popEval pops the top of ctx's evaluation stack, turning stack underflow
// into the sentinel error every opcode handler reports through.
func popEval(ctx *Context) (StackItem, error) {
	item, ok := ctx.Evaluation.Pop()
	if !ok {
		return nil, ErrStackUnderflow
	}
	return item, nil
}

func peekEval(ctx *Context, i int) (StackItem, error) {
	item, ok := ctx.Evaluation.Peek(i)
	if !ok {
		return nil, ErrStackUnderflow
	}
	return item, nil
}

// popInteger pops the top item and applies the value domain's implicit
// conversion to Integer (spec §2 conversion table), so numeric opcodes work
// uniformly across Integer/Boolean/ByteString/Buffer operands.
func popInteger(ctx *Context) (*big.Int, error) {
	item, err := popEval(ctx)
	if err != nil {
		return nil, err
	}
	return itemToBigInt(item)
}

func itemToBigInt(item StackItem) (*big.Int, error) {
	conv, err := item.ConvertTo(TypeInteger)
	if err != nil {
		return nil, ErrTypeMismatch
	}
	return conv.(Integer).BigInt(), nil
}

// popBytes pops the top item and applies the implicit conversion to
// ByteString, for the byte-string/bitwise opcode families.
func popBytes(ctx *Context) ([]byte, error) {
	item, err := popEval(ctx)
	if err != nil {
		return nil, err
	}
	conv, err := item.ConvertTo(TypeByteString)
	if err != nil {
		return nil, ErrTypeMismatch
	}
	return []byte(conv.(ByteString)), nil
}

// popIndex pops an Integer operand used as an index/count and validates it
// fits a non-negative machine int.
func popIndex(ctx *Context) (int, error) {
	v, err := popInteger(ctx)
	if err != nil {
		return 0, err
	}
	if !v.IsInt64() || v.Sign() < 0 {
		return 0, ErrIndexOutOfRange
	}
	return int(v.Int64()), nil
}

// indexFromItem extracts a non-negative machine int from an already-popped
// item, for opcodes that pop index/key before deciding which container kind
// they're indexing into (PICKITEM, SETITEM, REMOVE, HASKEY).
func indexFromItem(item StackItem) (int, error) {
	v, err := itemToBigInt(item)
	if err != nil {
		return 0, err
	}
	if !v.IsInt64() || v.Sign() < 0 {
		return 0, ErrIndexOutOfRange
	}
	return int(v.Int64()), nil
}

func pushBigInt(e *Engine, ctx *Context, v *big.Int) error {
	if !CheckBigInteger(v, e.limits.MaxSizeForBigInteger) {
		return ErrBigIntegerTooLarge
	}
	ctx.Evaluation.Push(NewInteger(v))
	return nil
}

func pushBool(ctx *Context, b bool) {
	ctx.Evaluation.Push(Boolean(b))
}

// checkItemSize enforces MaxItemSize on any byte payload about to land on a
// stack (PUSHBYTES/PUSHDATA literals and the result of CAT; SUBSTR clamps its
// count to MaxItemSize itself).
func checkItemSize(e *Engine, n int) error {
	if n > e.limits.MaxItemSize {
		return ErrItemTooLarge
	}
	return nil
}

// cloneForStorage implements the Struct-is-by-value rule: assigning a
// Struct into a container (APPEND, SETITEM) hands the container a deep
// copy so later mutation through one handle is invisible through the
// other, while Array and Map keep reference semantics. Plain stack
// duplication (DUP, OVER, TUCK, ...) does not go through here: those
// opcodes only move references around, matching every other stack item.
func cloneForStorage(e *Engine, item StackItem) StackItem {
	s, ok := item.(*Array)
	if !ok || !s.isStruct {
		return item
	}
	return deepCloneStruct(e, s, map[compoundID]*Array{})
}

func deepCloneStruct(e *Engine, s *Array, seen map[compoundID]*Array) *Array {
	if clone, ok := seen[s.cid]; ok {
		return clone
	}
	clone := newAggregate(e.tracker, true)
	seen[s.cid] = clone
	elems := make([]StackItem, len(s.elems))
	for i, el := range s.elems {
		if childStruct, ok := el.(*Array); ok && childStruct.isStruct {
			elems[i] = deepCloneStruct(e, childStruct, seen)
		} else {
			elems[i] = el
		}
	}
	clone.elems = elems
	for _, el := range elems {
		e.tracker.AttachToParent(clone, el)
	}
	return clone
}
