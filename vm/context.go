package vm

// Context is a single call frame: an immutable script, a cursor into it, an
// evaluation stack, an alt stack, and the number of values the frame's RET
// must hand back to its caller (-1 means unconstrained: hand back whatever
// is on the evaluation stack).
type Context struct {
	Script *Script
	ip     int

	Evaluation *ValueStack
	Alt        *ValueStack

	RVCount int

	// Caller links to the context that issued the CALL creating this frame.
	// The core does not implement structured exception (try/catch) opcodes,
	// so this is informational bookkeeping only, kept because the spec
	// reserves it for an embedder that layers such opcodes on top.
	Caller *Context
}

func newContext(script *Script, rt *ReferenceTracker, rvcount int) *Context {
	return &Context{
		Script:     script,
		Evaluation: newValueStack(rt),
		Alt:        newValueStack(rt),
		RVCount:    rvcount,
	}
}

// InstructionPointer returns the frame's current cursor.
func (c *Context) InstructionPointer() int { return c.ip }

// NextInstruction decodes the instruction the frame is currently parked on,
// for the read-only snapshot/debug surface (spec §6).
func (c *Context) NextInstruction() (Instruction, error) {
	return c.Script.InstructionAt(c.ip)
}

// clone produces a new frame sharing the same script, positioned at ip, with
// fresh empty stacks; this is what CALL uses to create the callee frame.
func (c *Context) clone(rt *ReferenceTracker, ip int, rvcount int) *Context {
	return &Context{
		Script:     c.Script,
		ip:         ip,
		Evaluation: newValueStack(rt),
		Alt:        newValueStack(rt),
		RVCount:    rvcount,
		Caller:     c,
	}
}
