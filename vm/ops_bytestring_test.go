package vm

import "testing"

func TestOpSubstr_ClampsCountToRemainingLength(t *testing.T) {
	e := NewEngine(DefaultLimits())
	ctx, _ := e.LoadScript(mustScript(t, []byte{byte(NOP)}), -1)

	ctx.Evaluation.Push(ByteString([]byte("hello world")))
	ctx.Evaluation.Push(NewIntegerFromInt64(6))  // index
	ctx.Evaluation.Push(NewIntegerFromInt64(99)) // count, far past the end

	if err := opSubstr(e, ctx, Instruction{}); err != nil {
		t.Fatalf("opSubstr failed: %v", err)
	}
	item, ok := ctx.Evaluation.Pop()
	if !ok {
		t.Fatalf("expected a result on the evaluation stack")
	}
	if got := string(item.(ByteString)); got != "world" {
		t.Errorf("SUBSTR(%q, 6, 99) = %q, want clamped %q", "hello world", got, "world")
	}
}

func TestOpSubstr_ClampsToMaxItemSize(t *testing.T) {
	limits := DefaultLimits()
	limits.MaxItemSize = 3
	e := NewEngine(limits)
	ctx, _ := e.LoadScript(mustScript(t, []byte{byte(NOP)}), -1)

	ctx.Evaluation.Push(ByteString([]byte("abcdef")))
	ctx.Evaluation.Push(NewIntegerFromInt64(0))
	ctx.Evaluation.Push(NewIntegerFromInt64(6))

	if err := opSubstr(e, ctx, Instruction{}); err != nil {
		t.Fatalf("opSubstr failed: %v", err)
	}
	item, ok := ctx.Evaluation.Pop()
	if !ok || string(item.(ByteString)) != "abc" {
		t.Errorf("SUBSTR must clamp count to MaxItemSize, got %v (ok=%v)", item, ok)
	}
}

func TestOpSubstr_FaultsOnlyWhenIndexExceedsLength(t *testing.T) {
	e := NewEngine(DefaultLimits())
	ctx, _ := e.LoadScript(mustScript(t, []byte{byte(NOP)}), -1)

	ctx.Evaluation.Push(ByteString([]byte("abc")))
	ctx.Evaluation.Push(NewIntegerFromInt64(4)) // index past len("abc")
	ctx.Evaluation.Push(NewIntegerFromInt64(1))

	if err := opSubstr(e, ctx, Instruction{}); err != ErrIndexOutOfRange {
		t.Errorf("opSubstr with index > len(data) = %v, want ErrIndexOutOfRange", err)
	}
}
