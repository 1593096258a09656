package vm

import "fmt"

// ItemSnapshot is the JSON-serializable rendering of a single StackItem,
// tagged with its value-domain type name so a debugger or golden test can
// tell an Integer "0" apart from a ByteString "00".
type ItemSnapshot struct {
	Type  string      `json:"type"`
	Value interface{} `json:"value,omitempty"`
}

// KeyValueSnapshot renders one Map entry.
type KeyValueSnapshot struct {
	Key   ItemSnapshot `json:"key"`
	Value ItemSnapshot `json:"value"`
}

// DumpItem renders a single StackItem as a tagged, JSON-serializable tree.
// It is read-only: it never touches the reference tracker.
func DumpItem(item StackItem) ItemSnapshot {
	switch v := item.(type) {
	case nullItem:
		return ItemSnapshot{Type: v.Type().String()}
	case Boolean:
		return ItemSnapshot{Type: v.Type().String(), Value: bool(v)}
	case Integer:
		return ItemSnapshot{Type: v.Type().String(), Value: v.String()}
	case ByteString:
		return ItemSnapshot{Type: v.Type().String(), Value: fmt.Sprintf("%x", []byte(v))}
	case *Buffer:
		return ItemSnapshot{Type: v.Type().String(), Value: fmt.Sprintf("%x", v.byteView())}
	case Pointer:
		return ItemSnapshot{Type: v.Type().String(), Value: v.Position}
	case InteropInterface:
		return ItemSnapshot{Type: v.Type().String(), Value: fmt.Sprintf("%v", v.Value)}
	case *Array:
		children := make([]ItemSnapshot, v.Count())
		for i := 0; i < v.Count(); i++ {
			children[i] = DumpItem(v.At(i))
		}
		return ItemSnapshot{Type: v.Type().String(), Value: children}
	case *Map:
		entries := make([]KeyValueSnapshot, len(v.entries))
		for i, e := range v.entries {
			entries[i] = KeyValueSnapshot{Key: DumpItem(e.key), Value: DumpItem(e.value)}
		}
		return ItemSnapshot{Type: v.Type().String(), Value: entries}
	default:
		return ItemSnapshot{Type: "unknown"}
	}
}

func dumpStack(vs *ValueStack) []ItemSnapshot {
	items := vs.Items()
	out := make([]ItemSnapshot, len(items))
	for i, item := range items {
		out[i] = DumpItem(item)
	}
	return out
}

// FrameSnapshot is the debug-dump rendering of a single execution context.
type FrameSnapshot struct {
	InstructionPointer int            `json:"instructionPointer"`
	NextInstruction    string         `json:"nextInstruction,omitempty"`
	EvaluationStack    []ItemSnapshot `json:"evaluationStack"`
	AltStack           []ItemSnapshot `json:"altStack"`
}

// DumpContext renders ctx's cursor and both of its stacks.
func DumpContext(ctx *Context) FrameSnapshot {
	next := ""
	if instr, err := ctx.NextInstruction(); err == nil {
		next = instr.String()
	}
	return FrameSnapshot{
		InstructionPointer: ctx.InstructionPointer(),
		NextInstruction:    next,
		EvaluationStack:    dumpStack(ctx.Evaluation),
		AltStack:           dumpStack(ctx.Alt),
	}
}

// EngineSnapshot is the full read-only debug surface of spec §6: every
// frame on the invocation stack, the result stack, and the aggregate slot
// count the reference tracker is enforcing MaxStackSize against.
type EngineSnapshot struct {
	State           string          `json:"state"`
	InvocationStack []FrameSnapshot `json:"invocationStack"`
	ResultStack     []ItemSnapshot  `json:"resultStack"`
	StackItemCount  int             `json:"stackItemCount"`
}

// DumpEngine renders the engine's full state for a debugger or golden test.
func DumpEngine(e *Engine) EngineSnapshot {
	frames := e.invocation.Items()
	out := make([]FrameSnapshot, len(frames))
	for i, f := range frames {
		out[i] = DumpContext(f)
	}
	return EngineSnapshot{
		State:           e.State().String(),
		InvocationStack: out,
		ResultStack:     dumpStack(e.result),
		StackItemCount:  e.StackItemCount(),
	}
}
