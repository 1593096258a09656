package vm

import (
	"fmt"
	"math/big"
)

// Type is the tag of a StackItem variant.
type Type byte

const (
	TypeInteger Type = iota
	TypeBoolean
	TypeByteString
	TypeBuffer
	TypeArray
	TypeStruct
	TypeMap
	TypeInteropInterface
	TypePointer
	TypeNull
)

func (t Type) String() string {
	switch t {
	case TypeInteger:
		return "integer"
	case TypeBoolean:
		return "boolean"
	case TypeByteString:
		return "bytestring"
	case TypeBuffer:
		return "buffer"
	case TypeArray:
		return "array"
	case TypeStruct:
		return "struct"
	case TypeMap:
		return "map"
	case TypeInteropInterface:
		return "interop"
	case TypePointer:
		return "pointer"
	case TypeNull:
		return "null"
	default:
		return "unknown"
	}
}

// StackItem is the tagged sum of every run-time value the interpreter can
// hold on a stack or store inside an aggregate.
type StackItem interface {
	fmt.Stringer
	Type() Type
	ToBoolean() bool
	ConvertTo(Type) (StackItem, error)
	Equals(other StackItem) bool
}

// primitive is implemented by the four variants that share a byte-view.
type primitive interface {
	StackItem
	byteView() []byte
}

// compoundItem is implemented by Array, Struct and Map, the three variants
// with object identity that the reference tracker follows.
type compoundItem interface {
	StackItem
	id() compoundID
	children() []StackItem
	entryCount() int
	clearElements()
}

func asCompound(item StackItem) (compoundItem, bool) {
	c, ok := item.(compoundItem)
	return c, ok
}

// ---------------------------------------------------------------- Null

type nullItem struct{}

// Null is the singleton absent value.
var Null StackItem = nullItem{}

func (nullItem) Type() Type             { return TypeNull }
func (nullItem) ToBoolean() bool        { return false }
func (nullItem) String() string         { return "Null" }
func (nullItem) Equals(o StackItem) bool {
	_, ok := o.(nullItem)
	return ok
}
func (nullItem) ConvertTo(t Type) (StackItem, error) {
	if t == TypeNull {
		return Null, nil
	}
	return nil, ErrInvalidConversion
}

// ---------------------------------------------------------------- Boolean

// Boolean is a two-valued primitive.
type Boolean bool

func NewBoolean(b bool) Boolean { return Boolean(b) }

func (b Boolean) Type() Type      { return TypeBoolean }
func (b Boolean) ToBoolean() bool { return bool(b) }
func (b Boolean) String() string {
	if b {
		return "true"
	}
	return "false"
}
func (b Boolean) byteView() []byte {
	if b {
		return []byte{1}
	}
	return []byte{0}
}
// Equals compares by canonical byte span against any other primitive (spec
// §3): Boolean(true) equals ByteString(0x01) and Integer(1), not just
// another Boolean.
func (b Boolean) Equals(o StackItem) bool {
	p, ok := o.(primitive)
	return ok && bytesEqual(b.byteView(), p.byteView())
}
func (b Boolean) ConvertTo(t Type) (StackItem, error) {
	switch t {
	case TypeBoolean:
		return b, nil
	case TypeInteger:
		if b {
			return NewInteger(big.NewInt(1)), nil
		}
		return NewInteger(big.NewInt(0)), nil
	case TypeByteString:
		return ByteString(append([]byte{}, b.byteView()...)), nil
	case TypeBuffer:
		return NewBuffer(append([]byte{}, b.byteView()...)), nil
	default:
		return nil, ErrInvalidConversion
	}
}

// ---------------------------------------------------------------- Integer

// Integer is an arbitrary-precision signed integer. Every Integer that
// participates in a numeric opcode must satisfy CheckBigInteger against
// MaxSizeForBigInteger (32 bytes); literal pushes and conversions enforce
// this at creation time, so any Integer instance already on a stack is
// guaranteed to be within bound.
type Integer struct {
	value *big.Int
}

func NewInteger(v *big.Int) Integer { return Integer{value: new(big.Int).Set(v)} }
func NewIntegerFromInt64(v int64) Integer { return Integer{value: big.NewInt(v)} }

func (i Integer) BigInt() *big.Int { return new(big.Int).Set(i.value) }

func (i Integer) Type() Type      { return TypeInteger }
func (i Integer) ToBoolean() bool { return i.value.Sign() != 0 }
func (i Integer) String() string  { return i.value.String() }
func (i Integer) byteView() []byte {
	return encodeInteger(i.value)
}
// Equals compares by canonical byte span against any other primitive (spec
// §3): the Integer side is always normalized to its minimal two's-complement
// form first, so Integer(1) equals ByteString(0x01).
func (i Integer) Equals(o StackItem) bool {
	p, ok := o.(primitive)
	return ok && bytesEqual(i.byteView(), p.byteView())
}
func (i Integer) ConvertTo(t Type) (StackItem, error) {
	switch t {
	case TypeInteger:
		return i, nil
	case TypeBoolean:
		return Boolean(i.ToBoolean()), nil
	case TypeByteString:
		return ByteString(i.byteView()), nil
	case TypeBuffer:
		return NewBuffer(append([]byte{}, i.byteView()...)), nil
	default:
		return nil, ErrInvalidConversion
	}
}

// ---------------------------------------------------------------- ByteString

// ByteString is an immutable byte sequence.
type ByteString []byte

func (s ByteString) Type() Type      { return TypeByteString }
func (s ByteString) ToBoolean() bool { return anyNonZero(s) }
func (s ByteString) String() string  { return fmt.Sprintf("%x", []byte(s)) }
func (s ByteString) byteView() []byte { return []byte(s) }
// Equals compares by canonical byte span against any other primitive
// (spec §3).
func (s ByteString) Equals(o StackItem) bool {
	p, ok := o.(primitive)
	return ok && bytesEqual(s.byteView(), p.byteView())
}
func (s ByteString) ConvertTo(t Type) (StackItem, error) {
	switch t {
	case TypeByteString:
		return s, nil
	case TypeBuffer:
		return NewBuffer(append([]byte{}, s...)), nil
	case TypeBoolean:
		return Boolean(s.ToBoolean()), nil
	case TypeInteger:
		if len(s) > maxSizeForBigIntegerDefault {
			return nil, ErrInvalidConversion
		}
		return NewInteger(decodeInteger(s)), nil
	default:
		return nil, ErrInvalidConversion
	}
}

// ---------------------------------------------------------------- Buffer

// Buffer is a mutable byte sequence; this deployment always enables it as a
// distinct variant from ByteString (see SPEC_FULL.md §9 decision 2).
type Buffer struct {
	data []byte
}

func NewBuffer(b []byte) *Buffer { return &Buffer{data: b} }

func (b *Buffer) Type() Type      { return TypeBuffer }
func (b *Buffer) ToBoolean() bool { return anyNonZero(b.data) }
func (b *Buffer) String() string  { return fmt.Sprintf("%x", b.data) }
func (b *Buffer) byteView() []byte { return b.data }
// Equals compares by canonical byte span against any other primitive (spec
// §3, §262): Buffer is a primitive like the other three, so EQUAL reads its
// current contents the same way SIZE/CAT do, mutation and all.
func (b *Buffer) Equals(o StackItem) bool {
	p, ok := o.(primitive)
	return ok && bytesEqual(b.byteView(), p.byteView())
}
func (b *Buffer) ConvertTo(t Type) (StackItem, error) {
	switch t {
	case TypeBuffer:
		return b, nil
	case TypeByteString:
		return ByteString(append([]byte{}, b.data...)), nil
	case TypeBoolean:
		return Boolean(b.ToBoolean()), nil
	case TypeInteger:
		if len(b.data) > maxSizeForBigIntegerDefault {
			return nil, ErrInvalidConversion
		}
		return NewInteger(decodeInteger(b.data)), nil
	default:
		return nil, ErrInvalidConversion
	}
}

// maxSizeForBigIntegerDefault mirrors Limits.MaxSizeForBigInteger for the
// conversion bound; ConvertTo has no engine context, so it uses the spec's
// fixed default (32) rather than a virtualized limit.
const maxSizeForBigIntegerDefault = 32

// ---------------------------------------------------------------- Pointer

// Pointer is a (script-identity, offset) pair used by call-by-value opcodes.
type Pointer struct {
	Script   *Script
	Position int
}

func (p Pointer) Type() Type      { return TypePointer }
func (p Pointer) ToBoolean() bool { return true }
func (p Pointer) String() string  { return fmt.Sprintf("Pointer(%d)", p.Position) }
func (p Pointer) Equals(o StackItem) bool {
	op, ok := o.(Pointer)
	return ok && op.Script == p.Script && op.Position == p.Position
}
func (p Pointer) ConvertTo(t Type) (StackItem, error) {
	if t == TypePointer {
		return p, nil
	}
	return nil, ErrInvalidConversion
}

// ---------------------------------------------------------------- InteropInterface

// InteropInterface is an opaque host-owned handle.
type InteropInterface struct {
	id    uint64
	Value interface{}
}

var nextInteropID uint64

func NewInteropInterface(v interface{}) InteropInterface {
	nextInteropID++
	return InteropInterface{id: nextInteropID, Value: v}
}

func (n InteropInterface) Type() Type      { return TypeInteropInterface }
func (n InteropInterface) ToBoolean() bool { return true }
func (n InteropInterface) String() string  { return fmt.Sprintf("InteropInterface(%v)", n.Value) }
func (n InteropInterface) Equals(o StackItem) bool {
	on, ok := o.(InteropInterface)
	return ok && on.id == n.id
}
func (n InteropInterface) ConvertTo(t Type) (StackItem, error) {
	if t == TypeInteropInterface {
		return n, nil
	}
	return nil, ErrInvalidConversion
}

func anyNonZero(b []byte) bool {
	if len(b) > maxSizeForBigIntegerDefault {
		return true
	}
	for _, v := range b {
		if v != 0 {
			return true
		}
	}
	return false
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
