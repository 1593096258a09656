package vm

import (
	"math/big"
	"testing"
)

func TestBoolean_ConvertTo(t *testing.T) {
	b := Boolean(true)
	conv, err := b.ConvertTo(TypeInteger)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := conv.(Integer).BigInt(); got.Cmp(big.NewInt(1)) != 0 {
		t.Errorf("Boolean(true).ConvertTo(Integer) = %s, want 1", got)
	}
}

func TestInteger_Equals_ComparesCanonicalByteSpanAcrossPrimitiveTypes(t *testing.T) {
	i := NewIntegerFromInt64(1)
	b := Boolean(true)
	bs := ByteString([]byte{0x01})
	if !i.Equals(b) {
		t.Errorf("Integer(1) must equal Boolean(true): both have canonical byte span 0x01")
	}
	if !i.Equals(bs) {
		t.Errorf("Integer(1) must equal ByteString(0x01): same canonical byte span")
	}
	if i.Equals(ByteString([]byte{0x00, 0x01})) {
		t.Errorf("Integer(1) must not equal ByteString(0x0001): byte spans differ")
	}
	if i.Equals(NewIntegerFromInt64(2)) {
		t.Errorf("Integer(1) must not equal Integer(2)")
	}
}

func TestByteString_ConvertTo_Integer_RejectsOversizedInput(t *testing.T) {
	s := ByteString(make([]byte, maxSizeForBigIntegerDefault+1))
	if _, err := s.ConvertTo(TypeInteger); err != ErrInvalidConversion {
		t.Errorf("expected ErrInvalidConversion for an oversized ByteString, got %v", err)
	}
}

func TestBuffer_Equals_ComparesCurrentByteContents(t *testing.T) {
	a := NewBuffer([]byte{1, 2, 3})
	b := NewBuffer([]byte{1, 2, 3})
	if !a.Equals(b) {
		t.Errorf("two Buffers with identical contents must compare equal, like any other primitive")
	}
	if !a.Equals(a) {
		t.Errorf("a Buffer must compare equal to itself")
	}
	b.data[0] = 0xFF
	if a.Equals(b) {
		t.Errorf("Buffer equality must reflect current contents: mutating b must break equality with a")
	}
	if !a.Equals(ByteString([]byte{1, 2, 3})) {
		t.Errorf("Buffer must equal a ByteString with the same canonical byte span")
	}
}

func TestNull_EqualsOnlyNull(t *testing.T) {
	if !Null.Equals(Null) {
		t.Errorf("Null must equal Null")
	}
	if Null.Equals(Boolean(false)) {
		t.Errorf("Null must not equal Boolean(false)")
	}
}

func TestAnyNonZero_TreatsOversizedAsTruthy(t *testing.T) {
	big := make([]byte, maxSizeForBigIntegerDefault+1)
	if !anyNonZero(big) {
		t.Errorf("a byte slice longer than the big-integer bound must be treated as truthy regardless of contents")
	}
}
