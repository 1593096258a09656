package vm

import (
	"math/big"
	"testing"
)

func TestEncodeInteger_RoundTrips(t *testing.T) {
	cases := []int64{0, 1, -1, 127, 128, -128, -129, 255, 256, 65535, -65536}
	for _, v := range cases {
		b := big.NewInt(v)
		enc := encodeInteger(b)
		dec := decodeInteger(enc)
		if dec.Cmp(b) != 0 {
			t.Errorf("round trip failed for %d: encoded %x, decoded %s", v, enc, dec)
		}
	}
}

func TestEncodeInteger_MinimalForm(t *testing.T) {
	cases := map[int64]int{
		0:    0,
		1:    1,
		-1:   1,
		127:  1,
		128:  2,
		-128: 1,
		-129: 2,
	}
	for v, wantLen := range cases {
		enc := encodeInteger(big.NewInt(v))
		if len(enc) != wantLen {
			t.Errorf("encodeInteger(%d) = %x, want length %d, got %d", v, enc, wantLen, len(enc))
		}
	}
}

func TestCheckBigInteger_EnforcesMaxBytes(t *testing.T) {
	small := big.NewInt(42)
	if !CheckBigInteger(small, 32) {
		t.Errorf("expected 42 to fit in 32 bytes")
	}

	huge := new(big.Int).Lsh(big.NewInt(1), 8*33) // needs 34 bytes
	if CheckBigInteger(huge, 32) {
		t.Errorf("expected a 2^264 value to exceed a 32 byte bound")
	}
}

func TestDecodeInteger_EmptyIsZero(t *testing.T) {
	if got := decodeInteger(nil); got.Sign() != 0 {
		t.Errorf("decodeInteger(nil) = %s, want 0", got)
	}
}
