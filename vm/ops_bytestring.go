package vm

// registerByteStringOps wires CAT/SUBSTR/LEFT/RIGHT/SIZE. CAT/SUBSTR/LEFT/
// RIGHT implicitly convert their string-shaped operand via the value
// domain's ConvertTo(TypeByteString), so Integer/Boolean/Buffer operands
// work the same as ByteString ones; SIZE additionally accepts any compound.
func registerByteStringOps(t map[OpCode]opHandler) {
	t[CAT] = opCat
	t[SUBSTR] = opSubstr
	t[LEFT] = opLeft
	t[RIGHT] = opRight
	t[SIZE] = opSize
}

func opCat(e *Engine, ctx *Context, instr Instruction) error {
	b, err := popBytes(ctx)
	if err != nil {
		return err
	}
	a, err := popBytes(ctx)
	if err != nil {
		return err
	}
	result := append(append([]byte{}, a...), b...)
	if err := checkItemSize(e, len(result)); err != nil {
		return err
	}
	ctx.Evaluation.Push(ByteString(result))
	return nil
}

func opSubstr(e *Engine, ctx *Context, instr Instruction) error {
	count, err := popIndex(ctx)
	if err != nil {
		return err
	}
	index, err := popIndex(ctx)
	if err != nil {
		return err
	}
	data, err := popBytes(ctx)
	if err != nil {
		return err
	}
	if index > len(data) {
		return ErrIndexOutOfRange
	}
	if max := len(data) - index; count > max {
		count = max
	}
	if count > e.limits.MaxItemSize {
		count = e.limits.MaxItemSize
	}
	ctx.Evaluation.Push(ByteString(append([]byte{}, data[index:index+count]...)))
	return nil
}

func opLeft(e *Engine, ctx *Context, instr Instruction) error {
	count, err := popIndex(ctx)
	if err != nil {
		return err
	}
	data, err := popBytes(ctx)
	if err != nil {
		return err
	}
	if count > len(data) {
		return ErrIndexOutOfRange
	}
	ctx.Evaluation.Push(ByteString(append([]byte{}, data[:count]...)))
	return nil
}

func opRight(e *Engine, ctx *Context, instr Instruction) error {
	count, err := popIndex(ctx)
	if err != nil {
		return err
	}
	data, err := popBytes(ctx)
	if err != nil {
		return err
	}
	if count > len(data) {
		return ErrIndexOutOfRange
	}
	ctx.Evaluation.Push(ByteString(append([]byte{}, data[len(data)-count:]...)))
	return nil
}

func opSize(e *Engine, ctx *Context, instr Instruction) error {
	item, err := popEval(ctx)
	if err != nil {
		return err
	}
	switch v := item.(type) {
	case ByteString:
		ctx.Evaluation.Push(NewIntegerFromInt64(int64(len(v))))
	case *Buffer:
		ctx.Evaluation.Push(NewIntegerFromInt64(int64(len(v.byteView()))))
	case *Array:
		ctx.Evaluation.Push(NewIntegerFromInt64(int64(v.Count())))
	case *Map:
		ctx.Evaluation.Push(NewIntegerFromInt64(int64(v.Count())))
	case primitive:
		ctx.Evaluation.Push(NewIntegerFromInt64(int64(len(v.byteView()))))
	default:
		return ErrTypeMismatch
	}
	return nil
}
