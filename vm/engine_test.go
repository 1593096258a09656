package vm

import (
	"errors"
	"testing"
)

func mustScript(t *testing.T, raw []byte) *Script {
	t.Helper()
	s, err := DecodeScript(raw)
	if err != nil {
		t.Fatalf("DecodeScript failed: %v", err)
	}
	return s
}

func TestEngine_SimpleArithmetic_HaltsWithResult(t *testing.T) {
	raw := []byte{byte(PUSH1), byte(PUSH2), byte(ADD), byte(RET)}
	e := NewEngine(DefaultLimits())
	if _, err := e.LoadScript(mustScript(t, raw), -1); err != nil {
		t.Fatalf("LoadScript failed: %v", err)
	}

	if state := e.Execute(); state != HALT {
		t.Fatalf("Execute() = %v, want HALT (fault: %v)", state, e.LastError)
	}
	item, ok := e.ResultStack().Pop()
	if !ok {
		t.Fatalf("expected one value on the result stack")
	}
	if got := item.(Integer).BigInt().Int64(); got != 3 {
		t.Errorf("result = %d, want 3", got)
	}
}

func TestEngine_RunningOffScriptEnd_ActsAsImplicitRet(t *testing.T) {
	raw := []byte{byte(PUSH1), byte(PUSH2), byte(ADD)} // no explicit RET
	e := NewEngine(DefaultLimits())
	if _, err := e.LoadScript(mustScript(t, raw), -1); err != nil {
		t.Fatalf("LoadScript failed: %v", err)
	}
	if state := e.Execute(); state != HALT {
		t.Fatalf("Execute() = %v, want HALT (fault: %v)", state, e.LastError)
	}
	item, ok := e.ResultStack().Pop()
	if !ok || item.(Integer).BigInt().Int64() != 3 {
		t.Errorf("expected implicit RET to hand back 3, got %v (ok=%v)", item, ok)
	}
}

func TestEngine_CallAndReturn_CrossesFrames(t *testing.T) {
	// main: CALL(+4) RET
	// sub (at offset 4): PUSH5 DUP ADD RET
	// The callee starts with an empty evaluation stack, so it pushes its own
	// operand; the doubled value crosses back into the caller via RET.
	raw := []byte{
		byte(CALL), 0x04, 0x00,
		byte(RET),
		byte(PUSH5),
		byte(DUP),
		byte(ADD),
		byte(RET),
	}
	e := NewEngine(DefaultLimits())
	if _, err := e.LoadScript(mustScript(t, raw), -1); err != nil {
		t.Fatalf("LoadScript failed: %v", err)
	}
	if state := e.Execute(); state != HALT {
		t.Fatalf("Execute() = %v, want HALT (fault: %v)", state, e.LastError)
	}
	item, ok := e.ResultStack().Pop()
	if !ok || item.(Integer).BigInt().Int64() != 10 {
		t.Errorf("expected CALL'd subroutine to double 5 into 10, got %v (ok=%v)", item, ok)
	}
}

func TestEngine_StackOverflow_Faults(t *testing.T) {
	limits := DefaultLimits()
	limits.MaxStackSize = 2
	raw := []byte{byte(PUSH1), byte(PUSH1), byte(PUSH1)}
	e := NewEngine(limits)
	if _, err := e.LoadScript(mustScript(t, raw), -1); err != nil {
		t.Fatalf("LoadScript failed: %v", err)
	}
	if state := e.Execute(); state != FAULT {
		t.Fatalf("Execute() = %v, want FAULT", state)
	}
	if !errors.Is(e.LastError, ErrStackOverflow) {
		t.Errorf("LastError = %v, want ErrStackOverflow", e.LastError)
	}
}

func TestEngine_BigIntegerTooLarge_Faults(t *testing.T) {
	limits := DefaultLimits()
	limits.MaxSizeForBigInteger = 1
	raw := []byte{byte(OpCode(1)), 0x7F, byte(OpCode(1)), 0x7F, byte(ADD)}
	e := NewEngine(limits)
	if _, err := e.LoadScript(mustScript(t, raw), -1); err != nil {
		t.Fatalf("LoadScript failed: %v", err)
	}
	if state := e.Execute(); state != FAULT {
		t.Fatalf("Execute() = %v, want FAULT", state)
	}
	if !errors.Is(e.LastError, ErrBigIntegerTooLarge) {
		t.Errorf("LastError = %v, want ErrBigIntegerTooLarge", e.LastError)
	}
}

func TestEngine_UncaughtThrow_Faults(t *testing.T) {
	raw := []byte{byte(PUSH1), byte(THROW)}
	e := NewEngine(DefaultLimits())
	if _, err := e.LoadScript(mustScript(t, raw), -1); err != nil {
		t.Fatalf("LoadScript failed: %v", err)
	}
	if state := e.Execute(); state != FAULT {
		t.Fatalf("Execute() = %v, want FAULT", state)
	}
	if !errors.Is(e.LastError, ErrThrow) {
		t.Errorf("LastError = %v, want ErrThrow", e.LastError)
	}
}

func TestEngine_Step_IsNoOpAfterTerminalState(t *testing.T) {
	raw := []byte{byte(PUSH1), byte(THROW)}
	e := NewEngine(DefaultLimits())
	e.LoadScript(mustScript(t, raw), -1)
	e.Execute()
	if e.State() != FAULT {
		t.Fatalf("precondition failed: expected FAULT")
	}
	before := e.LastError
	e.Step()
	if e.LastError != before || e.State() != FAULT {
		t.Errorf("Step() on a terminal engine must be a no-op")
	}
}

func TestEngine_Syscall_DispatchesThroughTable(t *testing.T) {
	table := NewSyscallTable()
	called := false
	table.Register(0x01020304, func(e *Engine) bool {
		called = true
		e.CurrentContext().Evaluation.Push(NewIntegerFromInt64(42))
		return true
	})

	raw := []byte{byte(SYSCALL), 0x04, 0x03, 0x02, 0x01}
	e := NewEngine(DefaultLimits())
	e.Syscalls = table
	e.LoadScript(mustScript(t, raw), -1)

	if state := e.Execute(); state != HALT {
		t.Fatalf("Execute() = %v, want HALT (fault: %v)", state, e.LastError)
	}
	if !called {
		t.Errorf("registered syscall handler was never invoked")
	}
	item, ok := e.ResultStack().Pop()
	if !ok || item.(Integer).BigInt().Int64() != 42 {
		t.Errorf("expected the syscall's pushed value to surface in the result, got %v (ok=%v)", item, ok)
	}
}

func TestEngine_UnregisteredSyscall_Faults(t *testing.T) {
	raw := []byte{byte(SYSCALL), 0x00, 0x00, 0x00, 0x00}
	e := NewEngine(DefaultLimits())
	e.Syscalls = NewSyscallTable()
	e.LoadScript(mustScript(t, raw), -1)
	if state := e.Execute(); state != FAULT {
		t.Fatalf("Execute() = %v, want FAULT", state)
	}
	if !errors.Is(e.LastError, ErrHostCallUnregistred) {
		t.Errorf("LastError = %v, want ErrHostCallUnregistred", e.LastError)
	}
}

func TestEngine_PushaCalla_CallsThroughPointer(t *testing.T) {
	// offset0: PUSHA 7  (absolute target, 5 bytes)
	// offset5: CALLA
	// offset6: RET
	// offset7: PUSH0
	// offset8: RET
	raw := []byte{
		byte(PUSHA), 0x07, 0x00, 0x00, 0x00,
		byte(CALLA),
		byte(RET),
		byte(PUSH0),
		byte(RET),
	}
	e := NewEngine(DefaultLimits())
	if _, err := e.LoadScript(mustScript(t, raw), -1); err != nil {
		t.Fatalf("LoadScript failed: %v", err)
	}
	if state := e.Execute(); state != HALT {
		t.Fatalf("Execute() = %v, want HALT (fault: %v)", state, e.LastError)
	}
	item, ok := e.ResultStack().Pop()
	if !ok || item.(Integer).BigInt().Int64() != 0 {
		t.Errorf("PUSHA;CALLA into PUSH0;RET should hand back Integer(0), got %v (ok=%v)", item, ok)
	}
}

func TestEngine_CallaOnNonPointer_Faults(t *testing.T) {
	raw := []byte{byte(PUSH2), byte(CALLA)}
	e := NewEngine(DefaultLimits())
	if _, err := e.LoadScript(mustScript(t, raw), -1); err != nil {
		t.Fatalf("LoadScript failed: %v", err)
	}
	if state := e.Execute(); state != FAULT {
		t.Fatalf("Execute() = %v, want FAULT", state)
	}
	if !errors.Is(e.LastError, ErrTypeMismatch) {
		t.Errorf("LastError = %v, want ErrTypeMismatch", e.LastError)
	}
}

func TestEngine_Ret_CopiesCalleeAltStackToCaller(t *testing.T) {
	// offset0: CALL +5 (3 bytes, target = 0+5 = 5)
	// offset3: FROMALTSTACK
	// offset4: RET
	// offset5: PUSH9
	// offset6: TOALTSTACK
	// offset7: RET
	raw := []byte{
		byte(CALL), 0x05, 0x00,
		byte(FROMALTSTACK),
		byte(RET),
		byte(PUSH9),
		byte(TOALTSTACK),
		byte(RET),
	}
	e := NewEngine(DefaultLimits())
	if _, err := e.LoadScript(mustScript(t, raw), -1); err != nil {
		t.Fatalf("LoadScript failed: %v", err)
	}
	if state := e.Execute(); state != HALT {
		t.Fatalf("Execute() = %v, want HALT (fault: %v)", state, e.LastError)
	}
	item, ok := e.ResultStack().Pop()
	if !ok || item.(Integer).BigInt().Int64() != 9 {
		t.Errorf("expected the callee's alt-stack value to survive RET into the caller's alt stack, got %v (ok=%v)", item, ok)
	}
}

func TestOpDup_ArrayIsSharedNotCloned(t *testing.T) {
	e := NewEngine(DefaultLimits())
	ctx, _ := e.LoadScript(mustScript(t, []byte{byte(NOP)}), -1)
	arr := newAggregate(e.tracker, false)
	ctx.Evaluation.Push(arr)

	if err := opDup(e, ctx, Instruction{}); err != nil {
		t.Fatalf("opDup failed: %v", err)
	}
	top, _ := ctx.Evaluation.Peek(0)
	second, _ := ctx.Evaluation.Peek(1)
	if top.(*Array) != second.(*Array) {
		t.Errorf("DUP of an Array must duplicate the reference, not clone the value")
	}
}

func TestCloneForStorage_StructCopiesAreIndependent(t *testing.T) {
	e := NewEngine(DefaultLimits())

	s := newAggregate(e.tracker, true)
	s.elems = []StackItem{NewIntegerFromInt64(1)}
	e.tracker.AttachToParent(s, s.elems[0])

	clone1 := cloneForStorage(e, s).(*Array)
	clone2 := cloneForStorage(e, s).(*Array)

	if clone1 == clone2 {
		t.Fatalf("two independent clone-for-storage calls must not return the same instance")
	}

	clone1.elems[0] = NewIntegerFromInt64(99)

	if got := clone2.elems[0].(Integer).BigInt().Int64(); got != 1 {
		t.Errorf("mutating one Struct clone must not affect the other, got %d, want 1", got)
	}
}

func TestCloneForStorage_ArrayIsNotCloned(t *testing.T) {
	e := NewEngine(DefaultLimits())
	arr := newAggregate(e.tracker, false)
	if cloneForStorage(e, arr) != StackItem(arr) {
		t.Errorf("cloneForStorage must leave Array values untouched: they keep reference semantics")
	}
}
