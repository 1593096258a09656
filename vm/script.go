package vm

import (
	"encoding/binary"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Instruction is one decoded opcode plus whatever immediate operand its
// encoding carries.
type Instruction struct {
	Opcode        OpCode
	Operand       []byte // literal payload for PUSHBYTES*/PUSHDATA*
	JumpOffset    int16  // for JMP/JMPIF/JMPIFNOT/CALL
	SyscallID     uint32 // for SYSCALL
	PointerTarget int32  // absolute script offset, for PUSHA
	Size          int    // total encoded length, including the opcode byte
}

func (i Instruction) String() string {
	switch {
	case isPushBytes(i.Opcode), i.Opcode == PUSHDATA1, i.Opcode == PUSHDATA2, i.Opcode == PUSHDATA4:
		return fmt.Sprintf("%v 0x%x", i.Opcode, i.Operand)
	case i.Opcode == JMP, i.Opcode == JMPIF, i.Opcode == JMPIFNOT, i.Opcode == CALL:
		return fmt.Sprintf("%v %d", i.Opcode, i.JumpOffset)
	case i.Opcode == SYSCALL:
		return fmt.Sprintf("%v 0x%08x", i.Opcode, i.SyscallID)
	case i.Opcode == PUSHA:
		return fmt.Sprintf("%v %d", i.Opcode, i.PointerTarget)
	default:
		return i.Opcode.String()
	}
}

// Script is an immutable byte sequence interpreted as instructions. It is
// opaque: the interpreter decodes one instruction at a time through
// InstructionAt rather than building a full instruction array up front, so
// a single Script can be shared by many execution contexts cheaply.
type Script struct {
	raw   []byte
	cache *lru.Cache[int, Instruction]
}

// instructionCacheSize bounds the per-script decode cache; it exists purely
// as a performance aid for scripts that loop (CALL/JMP revisiting the same
// offsets repeatedly) and has no effect on behavior.
const instructionCacheSize = 4096

// DecodeScript wraps raw bytes as a Script. This is the minimal decoding the
// core needs to drive itself; a richer bytecode-authoring/assembler toolchain
// is explicitly out of scope (spec §1).
func DecodeScript(raw []byte) (*Script, error) {
	cache, err := lru.New[int, Instruction](instructionCacheSize)
	if err != nil {
		return nil, err
	}
	return &Script{raw: append([]byte{}, raw...), cache: cache}, nil
}

// Len returns the number of bytes in the script.
func (s *Script) Len() int { return len(s.raw) }

// InstructionAt decodes the instruction at byte offset ip, per the wire
// format in SPEC_FULL.md §6. ip == Len() is a valid jump target (see the §9
// decision on JMP targeting exactly scriptLen), but there is no instruction
// to decode there, so InstructionAt returns ErrInvalidJumpTarget for it;
// Engine.Step checks AtEnd first and treats that position as an implicit RET.
func (s *Script) InstructionAt(ip int) (Instruction, error) {
	if ip < 0 || ip > len(s.raw) {
		return Instruction{}, ErrInvalidJumpTarget
	}
	if instr, ok := s.cache.Get(ip); ok {
		return instr, nil
	}
	instr, err := s.decodeAt(ip)
	if err != nil {
		return Instruction{}, err
	}
	s.cache.Add(ip, instr)
	return instr, nil
}

// AtEnd reports whether ip has run off the end of the script.
func (s *Script) AtEnd(ip int) bool { return ip >= len(s.raw) }

func (s *Script) decodeAt(ip int) (Instruction, error) {
	if ip >= len(s.raw) {
		return Instruction{}, ErrInvalidJumpTarget
	}
	op := OpCode(s.raw[ip])
	rest := s.raw[ip+1:]

	switch {
	case isPushBytes(op):
		n := int(op)
		if len(rest) < n {
			return Instruction{}, ErrDecodeInstruction
		}
		return Instruction{Opcode: op, Operand: rest[:n], Size: 1 + n}, nil

	case op == PUSHDATA1:
		if len(rest) < 1 {
			return Instruction{}, ErrDecodeInstruction
		}
		n := int(rest[0])
		if len(rest) < 1+n {
			return Instruction{}, ErrDecodeInstruction
		}
		return Instruction{Opcode: op, Operand: rest[1 : 1+n], Size: 2 + n}, nil

	case op == PUSHDATA2:
		if len(rest) < 2 {
			return Instruction{}, ErrDecodeInstruction
		}
		n := int(binary.LittleEndian.Uint16(rest[:2]))
		if len(rest) < 2+n {
			return Instruction{}, ErrDecodeInstruction
		}
		return Instruction{Opcode: op, Operand: rest[2 : 2+n], Size: 3 + n}, nil

	case op == PUSHDATA4:
		if len(rest) < 4 {
			return Instruction{}, ErrDecodeInstruction
		}
		n := int(binary.LittleEndian.Uint32(rest[:4]))
		if n < 0 || len(rest) < 4+n {
			return Instruction{}, ErrDecodeInstruction
		}
		return Instruction{Opcode: op, Operand: rest[4 : 4+n], Size: 5 + n}, nil

	case op == JMP || op == JMPIF || op == JMPIFNOT || op == CALL:
		if len(rest) < 2 {
			return Instruction{}, ErrDecodeInstruction
		}
		off := int16(binary.LittleEndian.Uint16(rest[:2]))
		return Instruction{Opcode: op, JumpOffset: off, Size: 3}, nil

	case op == SYSCALL:
		if len(rest) < 4 {
			return Instruction{}, ErrDecodeInstruction
		}
		id := binary.LittleEndian.Uint32(rest[:4])
		return Instruction{Opcode: op, SyscallID: id, Size: 5}, nil

	case op == PUSHA:
		if len(rest) < 4 {
			return Instruction{}, ErrDecodeInstruction
		}
		target := int32(binary.LittleEndian.Uint32(rest[:4]))
		return Instruction{Opcode: op, PointerTarget: target, Size: 5}, nil

	default:
		return Instruction{Opcode: op, Size: 1}, nil
	}
}
