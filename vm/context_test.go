package vm

import "testing"

func TestContext_Clone_SharesScriptButNotStacks(t *testing.T) {
	rt := NewReferenceTracker()
	script, _ := DecodeScript([]byte{byte(NOP), byte(NOP), byte(NOP)})
	parent := newContext(script, rt, -1)
	parent.Evaluation.Push(NewIntegerFromInt64(1))

	child := parent.clone(rt, 1, 0)

	if child.Script != parent.Script {
		t.Errorf("clone must share the same Script")
	}
	if child.InstructionPointer() != 1 {
		t.Errorf("InstructionPointer() = %d, want 1", child.InstructionPointer())
	}
	if child.Evaluation.Count() != 0 {
		t.Errorf("a cloned frame must start with an empty evaluation stack")
	}
	if child.Caller != parent {
		t.Errorf("clone must record parent as Caller")
	}
}

func TestContext_NextInstruction(t *testing.T) {
	rt := NewReferenceTracker()
	script, _ := DecodeScript([]byte{byte(PUSH1)})
	ctx := newContext(script, rt, -1)

	instr, err := ctx.NextInstruction()
	if err != nil {
		t.Fatalf("NextInstruction() failed: %v", err)
	}
	if instr.Opcode != PUSH1 {
		t.Errorf("Opcode = %v, want PUSH1", instr.Opcode)
	}
}
