package cql

import "math/big"

// Decimal is the Go representation of CQL's decimal type: an arbitrary
// precision unscaled value together with a base-10 scale, matching Java's
// BigDecimal semantics (value == Unscaled * 10^-Scale) since that's what a
// Cassandra server's decimal column is defined against.
type Decimal struct {
	Unscaled *big.Int
	Scale    int32
}

// encodeVarint writes v as a two's-complement, minimal-length, big-endian
// byte string -- the wire format CQL calls [varint] and reuses (with an
// added [int] scale prefix) for [decimal].
func encodeVarint(v *big.Int) []byte {
	if v.Sign() == 0 {
		return []byte{0}
	}
	if v.Sign() > 0 {
		b := v.Bytes()
		if b[0]&0x80 != 0 {
			b = append([]byte{0}, b...)
		}
		return b
	}
	// negative: two's complement of the smallest byte width that fits.
	// -v-1 carries the magnitude bits; one more bit is needed for the sign.
	bitLen := new(big.Int).Not(v).BitLen()
	nbytes := bitLen/8 + 1
	mod := new(big.Int).Lsh(big.NewInt(1), uint(nbytes*8))
	twos := new(big.Int).Add(mod, v)
	b := twos.Bytes()
	for len(b) < nbytes {
		b = append([]byte{0}, b...)
	}
	return b
}

// decodeVarint is the inverse of encodeVarint: it interprets b as a
// two's-complement big-endian integer of arbitrary width.
func decodeVarint(b []byte) *big.Int {
	if len(b) == 0 {
		return big.NewInt(0)
	}
	v := new(big.Int).SetBytes(b)
	if b[0]&0x80 != 0 {
		mod := new(big.Int).Lsh(big.NewInt(1), uint(len(b)*8))
		v.Sub(v, mod)
	}
	return v
}

func encodeDecimal(d Decimal) []byte {
	unscaled := encodeVarint(d.Unscaled)
	out := make([]byte, 4+len(unscaled))
	out[0] = byte(d.Scale >> 24)
	out[1] = byte(d.Scale >> 16)
	out[2] = byte(d.Scale >> 8)
	out[3] = byte(d.Scale)
	copy(out[4:], unscaled)
	return out
}

func decodeDecimal(b []byte) (Decimal, error) {
	if len(b) < 4 {
		return Decimal{}, errWireFormat("decimal: body too short")
	}
	scale := int32(uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3]))
	return Decimal{Unscaled: decodeVarint(b[4:]), Scale: scale}, nil
}
