package gf

// Block128 is a 128-bit value in the big-endian, MSB-first convention
// NIST SP 800-38D uses for GCM: byte[0] holds the most significant 8
// bits, and within byte[0] bit 0x80 is the most significant bit of the
// whole block.
type Block128 [16]byte

// reducingBlock128 is R = 11100001 || 0^120, the GCM field's reduction
// constant.
var reducingBlock128 = Block128{0xe1}

// Xor returns a ^ b.
func (a Block128) Xor(b Block128) Block128 {
	var out Block128
	for i := range out {
		out[i] = a[i] ^ b[i]
	}
	return out
}

// bit reports whether bit index i (0 = most significant bit of byte 0)
// is set.
func (b Block128) bit(i int) bool {
	return b[i/8]&(0x80>>uint(i%8)) != 0
}

// shiftRight1 returns b shifted right by one bit; the vacated top bit
// becomes 0.
func (b Block128) shiftRight1() Block128 {
	var out Block128
	var carry byte
	for i := 0; i < 16; i++ {
		nextCarry := b[i] & 1
		out[i] = (b[i] >> 1) | (carry << 7)
		carry = nextCarry
	}
	return out
}

// Mul128 multiplies X and Y in GF(2**128) per NIST SP 800-38D section
// 6.3: shift-and-add over Y, reducing by R whenever a bit is shifted
// off the bottom.
func Mul128(x, y Block128) Block128 {
	var z Block128
	v := y
	for i := 0; i < 128; i++ {
		if x.bit(i) {
			z = z.Xor(v)
		}
		if v[15]&1 != 0 {
			v = v.shiftRight1().Xor(reducingBlock128)
		} else {
			v = v.shiftRight1()
		}
	}
	return z
}
