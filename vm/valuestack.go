package vm

// ValueStack is the evaluation or alt stack of a single execution context.
// It wraps a RandomAccessStack[StackItem] and routes every operation that
// changes which items are reachable from a stack through the reference
// tracker's AttachToStack/DetachFromStack hooks, so invariant 1 and 2 of
// SPEC_FULL.md §3 hold automatically no matter which opcode touches it.
//
// Operations that only reorder existing elements (SWAP, ROT, ROLL) do not
// change the multiset of items reachable from the stack, so they bypass the
// tracker entirely.
type ValueStack struct {
	data    *RandomAccessStack[StackItem]
	tracker *ReferenceTracker
}

func newValueStack(rt *ReferenceTracker) *ValueStack {
	return &ValueStack{data: NewRandomAccessStack[StackItem](), tracker: rt}
}

func (vs *ValueStack) Count() int { return vs.data.Count() }

// Push adds a new reference to item at the top of the stack.
func (vs *ValueStack) Push(item StackItem) {
	vs.data.Push(item)
	vs.tracker.AttachToStack(item)
}

// Pop removes and returns the top item.
func (vs *ValueStack) Pop() (StackItem, bool) {
	item, ok := vs.data.Pop()
	if ok {
		vs.tracker.DetachFromStack(item)
	}
	return item, ok
}

// Peek returns the i-th item from the top without changing reachability.
func (vs *ValueStack) Peek(i int) (StackItem, bool) { return vs.data.Peek(i) }

// PeekFromBottom returns the k-th item from the bottom.
func (vs *ValueStack) PeekFromBottom(k int) (StackItem, bool) { return vs.data.PeekFromBottom(k) }

// Discard removes and returns the item at position i (XDROP); unlike
// Reposition this drops the reference entirely.
func (vs *ValueStack) Discard(i int) (StackItem, bool) {
	item, ok := vs.data.Remove(i)
	if ok {
		vs.tracker.DetachFromStack(item)
	}
	return item, ok
}

// InsertNewReference inserts a fresh reference to item at position i
// (used by TUCK/XTUCK, which duplicate the top item into a deeper slot).
func (vs *ValueStack) InsertNewReference(i int, item StackItem) bool {
	ok := vs.data.Insert(i, item)
	if ok {
		vs.tracker.AttachToStack(item)
	}
	return ok
}

// Reposition moves the item at position from to position to without
// changing how many stack slots reference it (used by ROT/ROLL).
func (vs *ValueStack) Reposition(from, to int) bool {
	item, ok := vs.data.Remove(from)
	if !ok {
		return false
	}
	return vs.data.Insert(to, item)
}

// Swap exchanges the items at positions i and j (used by SWAP/XSWAP).
func (vs *ValueStack) Swap(i, j int) bool { return vs.data.Swap(i, j) }

// Set overwrites the item at position i, detaching the old occupant and
// attaching the new one.
func (vs *ValueStack) Set(i int, item StackItem) bool {
	old, ok := vs.data.Peek(i)
	if !ok {
		return false
	}
	vs.data.Set(i, item)
	vs.tracker.DetachFromStack(old)
	vs.tracker.AttachToStack(item)
	return true
}

// Items returns a bottom-to-top snapshot of the stack's contents, for the
// debug/snapshot surface; it never changes reachability.
func (vs *ValueStack) Items() []StackItem { return vs.data.Items() }

// Clear pops every item, detaching each from the tracker.
func (vs *ValueStack) Clear() {
	for {
		item, ok := vs.data.Pop()
		if !ok {
			break
		}
		vs.tracker.DetachFromStack(item)
	}
}
