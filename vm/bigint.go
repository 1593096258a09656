package vm

import "math/big"

// CheckBigInteger reports whether b fits in the minimal two's-complement
// little-endian encoding bounded by maxBytes. Every Integer that reaches the
// top of an evaluation stack as the result of an arithmetic opcode must pass
// this check (spec property 6); the value domain uses math/big because it is
// the vetted arbitrary-precision library in the standard toolchain and no
// example in the corpus ships an alternative signed arbitrary-precision
// integer package (the only bigint-shaped dependency in the retrieved pack,
// holiman/uint256, is a fixed-width *unsigned* 256-bit type and cannot
// represent this value domain).
func CheckBigInteger(b *big.Int, maxBytes int) bool {
	if b == nil {
		return false
	}
	return len(encodeInteger(b)) <= maxBytes
}

// encodeInteger returns the minimal two's-complement little-endian encoding
// of b. Zero encodes as an empty slice.
func encodeInteger(b *big.Int) []byte {
	switch b.Sign() {
	case 0:
		return []byte{}
	case 1:
		be := b.Bytes()
		if be[0]&0x80 != 0 {
			be = append([]byte{0}, be...)
		}
		return reverseBytes(be)
	default:
		abs := new(big.Int).Neg(b)
		abs.Sub(abs, big.NewInt(1))
		nBytes := abs.BitLen()/8 + 1
		mod := new(big.Int).Lsh(big.NewInt(1), uint(nBytes)*8)
		twos := new(big.Int).Add(b, mod)
		be := twos.Bytes()
		if len(be) < nBytes {
			pad := make([]byte, nBytes-len(be))
			be = append(pad, be...)
		}
		return reverseBytes(be)
	}
}

// decodeInteger interprets data verbatim as a little-endian two's-complement
// signed integer, exactly as the spec requires when a ByteString/Buffer is
// read as an Integer. The input need not be in minimal form.
func decodeInteger(data []byte) *big.Int {
	if len(data) == 0 {
		return big.NewInt(0)
	}
	be := reverseBytes(data)
	v := new(big.Int).SetBytes(be)
	if be[0]&0x80 != 0 {
		mod := new(big.Int).Lsh(big.NewInt(1), uint(8*len(data)))
		v.Sub(v, mod)
	}
	return v
}

func reverseBytes(b []byte) []byte {
	out := make([]byte, len(b))
	for i, v := range b {
		out[len(b)-1-i] = v
	}
	return out
}
