package vm

// registerAggregateOps wires the Array/Struct/Map opcode family. SETITEM and
// APPEND route the stored value, and VALUES each extracted element, through
// cloneForStorage, so a Struct operand is copied rather than aliased
// (spec §4.6); Array and Map values keep reference semantics. PACK, KEYS and
// the NEWARRAY/NEWSTRUCT conversion form copy element references as they are.
func registerAggregateOps(t map[OpCode]opHandler) {
	t[ARRAYSIZE] = opArraySize
	t[PACK] = opPack
	t[UNPACK] = opUnpack
	t[PICKITEM] = opPickItem
	t[SETITEM] = opSetItem
	t[NEWARRAY] = newAggregateOp(false)
	t[NEWSTRUCT] = newAggregateOp(true)
	t[NEWMAP] = opNewMap
	t[APPEND] = opAppend
	t[REVERSE] = opReverse
	t[REMOVE] = opRemove
	t[HASKEY] = opHasKey
	t[KEYS] = opKeys
	t[VALUES] = opValues
}

func opArraySize(e *Engine, ctx *Context, instr Instruction) error {
	item, err := popEval(ctx)
	if err != nil {
		return err
	}
	switch c := item.(type) {
	case *Array:
		ctx.Evaluation.Push(NewIntegerFromInt64(int64(c.Count())))
	case *Map:
		ctx.Evaluation.Push(NewIntegerFromInt64(int64(c.Count())))
	default:
		return ErrTypeMismatch
	}
	return nil
}

// opPack pops n, then n items off the evaluation stack, and collects them
// into a new Array: the item that was on top becomes the array's last
// element.
func opPack(e *Engine, ctx *Context, instr Instruction) error {
	n, err := popIndex(ctx)
	if err != nil {
		return err
	}
	if n > e.limits.MaxArraySize {
		return ErrArrayTooLarge
	}
	items := make([]StackItem, n)
	for i := 0; i < n; i++ {
		v, err := popEval(ctx)
		if err != nil {
			return err
		}
		items[n-1-i] = v
	}
	arr := newAggregate(e.tracker, false)
	for _, v := range items {
		e.tracker.AttachToParent(arr, v)
	}
	arr.elems = items
	ctx.Evaluation.Push(arr)
	return nil
}

// opUnpack is PACK's inverse: it pushes every element back (lowest index
// first) and finishes with the element count on top.
func opUnpack(e *Engine, ctx *Context, instr Instruction) error {
	item, err := popEval(ctx)
	if err != nil {
		return err
	}
	arr, ok := item.(*Array)
	if !ok {
		return ErrTypeMismatch
	}
	for _, v := range arr.elems {
		e.tracker.DetachFromParent(arr, v)
		ctx.Evaluation.Push(v)
	}
	n := len(arr.elems)
	arr.clearElements()
	ctx.Evaluation.Push(NewIntegerFromInt64(int64(n)))
	return nil
}

func opPickItem(e *Engine, ctx *Context, instr Instruction) error {
	key, err := popEval(ctx)
	if err != nil {
		return err
	}
	container, err := popEval(ctx)
	if err != nil {
		return err
	}
	switch c := container.(type) {
	case *Array:
		i, err := indexFromItem(key)
		if err != nil {
			return err
		}
		if i >= c.Count() {
			return ErrIndexOutOfRange
		}
		ctx.Evaluation.Push(c.elems[i])
	case *Map:
		idx, found, err := c.find(key)
		if err != nil {
			return err
		}
		if !found {
			return ErrKeyNotFound
		}
		ctx.Evaluation.Push(c.entries[idx].value)
	case primitive:
		i, err := indexFromItem(key)
		if err != nil {
			return err
		}
		view := c.byteView()
		if i >= len(view) {
			return ErrIndexOutOfRange
		}
		ctx.Evaluation.Push(NewIntegerFromInt64(int64(view[i])))
	default:
		return ErrTypeMismatch
	}
	return nil
}

func opSetItem(e *Engine, ctx *Context, instr Instruction) error {
	value, err := popEval(ctx)
	if err != nil {
		return err
	}
	key, err := popEval(ctx)
	if err != nil {
		return err
	}
	container, err := popEval(ctx)
	if err != nil {
		return err
	}
	switch c := container.(type) {
	case *Array:
		i, err := indexFromItem(key)
		if err != nil {
			return err
		}
		if i >= c.Count() {
			return ErrIndexOutOfRange
		}
		stored := cloneForStorage(e, value)
		e.tracker.DetachFromParent(c, c.elems[i])
		e.tracker.AttachToParent(c, stored)
		c.elems[i] = stored
	case *Map:
		stored := cloneForStorage(e, value)
		idx, found, err := c.find(key)
		if err != nil {
			return err
		}
		if found {
			e.tracker.DetachFromParent(c, c.entries[idx].value)
			e.tracker.AttachToParent(c, stored)
			c.entries[idx].value = stored
			return nil
		}
		if len(c.entries) >= e.limits.MaxArraySize {
			return ErrArrayTooLarge
		}
		ks, err := mapKeyString(key)
		if err != nil {
			return err
		}
		e.tracker.AttachToParent(c, key)
		e.tracker.AttachToParent(c, stored)
		c.entries = append(c.entries, mapEntry{key: key, value: stored})
		c.index[ks] = len(c.entries) - 1
	default:
		return ErrTypeMismatch
	}
	return nil
}

// newAggregateOp implements NEWARRAY/NEWSTRUCT's two input forms: applied to
// an existing Array or Struct it converts in place, copying element
// references into a freshly allocated compound of the requested kind;
// applied to an integer n it allocates n Null elements.
func newAggregateOp(isStruct bool) opHandler {
	return func(e *Engine, ctx *Context, instr Instruction) error {
		item, err := popEval(ctx)
		if err != nil {
			return err
		}
		if src, ok := item.(*Array); ok {
			arr := newAggregate(e.tracker, isStruct)
			elems := append([]StackItem{}, src.elems...)
			arr.elems = elems
			for _, v := range elems {
				e.tracker.AttachToParent(arr, v)
			}
			ctx.Evaluation.Push(arr)
			return nil
		}

		n, err := indexFromItem(item)
		if err != nil {
			return err
		}
		if n > e.limits.MaxArraySize {
			return ErrArrayTooLarge
		}
		arr := newAggregate(e.tracker, isStruct)
		elems := make([]StackItem, n)
		for i := range elems {
			elems[i] = Null
		}
		arr.elems = elems
		for _, v := range elems {
			e.tracker.AttachToParent(arr, v)
		}
		ctx.Evaluation.Push(arr)
		return nil
	}
}

func opNewMap(e *Engine, ctx *Context, instr Instruction) error {
	ctx.Evaluation.Push(newMap(e.tracker))
	return nil
}

func opAppend(e *Engine, ctx *Context, instr Instruction) error {
	value, err := popEval(ctx)
	if err != nil {
		return err
	}
	item, err := popEval(ctx)
	if err != nil {
		return err
	}
	arr, ok := item.(*Array)
	if !ok {
		return ErrTypeMismatch
	}
	if arr.Count() >= e.limits.MaxArraySize {
		return ErrArrayTooLarge
	}
	stored := cloneForStorage(e, value)
	e.tracker.AttachToParent(arr, stored)
	arr.elems = append(arr.elems, stored)
	return nil
}

func opReverse(e *Engine, ctx *Context, instr Instruction) error {
	item, err := popEval(ctx)
	if err != nil {
		return err
	}
	arr, ok := item.(*Array)
	if !ok {
		return ErrTypeMismatch
	}
	for i, j := 0, len(arr.elems)-1; i < j; i, j = i+1, j-1 {
		arr.elems[i], arr.elems[j] = arr.elems[j], arr.elems[i]
	}
	return nil
}

func opRemove(e *Engine, ctx *Context, instr Instruction) error {
	key, err := popEval(ctx)
	if err != nil {
		return err
	}
	container, err := popEval(ctx)
	if err != nil {
		return err
	}
	switch c := container.(type) {
	case *Array:
		i, err := indexFromItem(key)
		if err != nil {
			return err
		}
		if i >= c.Count() {
			return ErrIndexOutOfRange
		}
		e.tracker.DetachFromParent(c, c.elems[i])
		c.elems = append(c.elems[:i], c.elems[i+1:]...)
	case *Map:
		idx, found, err := c.find(key)
		if err != nil {
			return err
		}
		if !found {
			return nil
		}
		removed := c.entries[idx]
		e.tracker.DetachFromParent(c, removed.key)
		e.tracker.DetachFromParent(c, removed.value)
		c.entries = append(c.entries[:idx], c.entries[idx+1:]...)
		c.index = map[string]int{}
		for i, entry := range c.entries {
			ks, err := mapKeyString(entry.key)
			if err != nil {
				return err
			}
			c.index[ks] = i
		}
	default:
		return ErrTypeMismatch
	}
	return nil
}

func opHasKey(e *Engine, ctx *Context, instr Instruction) error {
	key, err := popEval(ctx)
	if err != nil {
		return err
	}
	container, err := popEval(ctx)
	if err != nil {
		return err
	}
	switch c := container.(type) {
	case *Array:
		i, err := indexFromItem(key)
		if err != nil {
			return err
		}
		pushBool(ctx, i < c.Count())
	case *Map:
		_, found, err := c.find(key)
		if err != nil {
			return err
		}
		pushBool(ctx, found)
	default:
		return ErrTypeMismatch
	}
	return nil
}

func opKeys(e *Engine, ctx *Context, instr Instruction) error {
	item, err := popEval(ctx)
	if err != nil {
		return err
	}
	m, ok := item.(*Map)
	if !ok {
		return ErrTypeMismatch
	}
	arr := newAggregate(e.tracker, false)
	keys := make([]StackItem, len(m.entries))
	for i, entry := range m.entries {
		keys[i] = entry.key
	}
	arr.elems = keys
	for _, k := range keys {
		e.tracker.AttachToParent(arr, k)
	}
	ctx.Evaluation.Push(arr)
	return nil
}

// opValues collects a Map's values or an Array's elements into a fresh
// Array. Struct elements are deep-cloned (spec §4.4.7): VALUES hands the
// caller independent copies, never aliases into the source container.
func opValues(e *Engine, ctx *Context, instr Instruction) error {
	item, err := popEval(ctx)
	if err != nil {
		return err
	}
	var source []StackItem
	switch c := item.(type) {
	case *Map:
		source = make([]StackItem, len(c.entries))
		for i, entry := range c.entries {
			source[i] = entry.value
		}
	case *Array:
		source = c.elems
	default:
		return ErrTypeMismatch
	}
	arr := newAggregate(e.tracker, false)
	values := make([]StackItem, len(source))
	for i, v := range source {
		values[i] = cloneForStorage(e, v)
	}
	arr.elems = values
	for _, v := range values {
		e.tracker.AttachToParent(arr, v)
	}
	ctx.Evaluation.Push(arr)
	return nil
}
