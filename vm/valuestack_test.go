package vm

import "testing"

func TestValueStack_PushPop_UpdatesTrackerItemCount(t *testing.T) {
	rt := NewReferenceTracker()
	vs := newValueStack(rt)

	vs.Push(NewIntegerFromInt64(1))
	vs.Push(NewIntegerFromInt64(2))
	if got := rt.StackItemCount(); got != 2 {
		t.Fatalf("StackItemCount() = %d, want 2", got)
	}

	if _, ok := vs.Pop(); !ok {
		t.Fatalf("Pop() failed on a non-empty stack")
	}
	if got := rt.StackItemCount(); got != 1 {
		t.Errorf("StackItemCount() after Pop() = %d, want 1", got)
	}
}

func TestValueStack_Push_AttachesCompoundStackReference(t *testing.T) {
	rt := NewReferenceTracker()
	vs := newValueStack(rt)

	arr := newAggregate(rt, false)
	vs.Push(arr)

	if !rt.Live(arr) {
		t.Fatalf("array must still be live immediately after being pushed")
	}
	vs.Pop()
	rt.Sweep()
	if rt.Live(arr) {
		t.Errorf("array with no remaining references must be reclaimed by Sweep")
	}
}

func TestValueStack_Discard_DetachesArbitraryPosition(t *testing.T) {
	rt := NewReferenceTracker()
	vs := newValueStack(rt)
	vs.Push(NewIntegerFromInt64(1))
	vs.Push(NewIntegerFromInt64(2))
	vs.Push(NewIntegerFromInt64(3))

	item, ok := vs.Discard(1)
	if !ok {
		t.Fatalf("Discard(1) failed")
	}
	if item.(Integer).BigInt().Int64() != 2 {
		t.Errorf("Discard(1) returned %v, want 2", item)
	}
	if got := rt.StackItemCount(); got != 2 {
		t.Errorf("StackItemCount() after Discard = %d, want 2", got)
	}
}

func TestValueStack_Clear_DetachesEverything(t *testing.T) {
	rt := NewReferenceTracker()
	vs := newValueStack(rt)
	vs.Push(NewIntegerFromInt64(1))
	vs.Push(NewIntegerFromInt64(2))
	vs.Clear()
	if got := rt.StackItemCount(); got != 0 {
		t.Errorf("StackItemCount() after Clear = %d, want 0", got)
	}
}
