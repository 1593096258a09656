package vm

// opHandler executes one decoded instruction against the frame it was
// fetched from. A non-nil error always transitions the engine to FAULT;
// handlers that need to push a new frame or pop the current one mutate
// e.InvocationStack directly rather than signaling through the return value.
type opHandler func(e *Engine, ctx *Context, instr Instruction) error

// opcodeTable is assembled once at package init from the per-family tables
// defined alongside each ops_*.go file, mirroring the way the reference
// interpreter keeps one switch-free jump table instead of a giant switch
// statement.
var opcodeTable = buildOpcodeTable()

func buildOpcodeTable() map[OpCode]opHandler {
	t := map[OpCode]opHandler{}
	registerLiteralOps(t)
	registerControlOps(t)
	registerStackOps(t)
	registerByteStringOps(t)
	registerBitwiseOps(t)
	registerNumericOps(t)
	registerAggregateOps(t)
	registerExceptionOps(t)
	return t
}
