package aes

import "github.com/anvilcrypt/aesdh/gf"

var sBox, invSBox [256]byte

func init() {
	for x := 0; x < 256; x++ {
		b := byte(x)
		s := affineForward(gf.Inverse256(b))
		sBox[x] = s
		invSBox[s] = b
	}
}

func bitAt(x byte, k uint) byte {
	return (x >> (k % 8)) & 1
}

// affineForward applies the S-box affine transform:
// r_k = i_k ^ i_{k+4} ^ i_{k+5} ^ i_{k+6} ^ i_{k+7} ^ c_k  (indices mod 8)
func affineForward(i byte) byte {
	const c = 0x63
	var r byte
	for k := uint(0); k < 8; k++ {
		bit := bitAt(i, k) ^ bitAt(i, k+4) ^ bitAt(i, k+5) ^ bitAt(i, k+6) ^ bitAt(i, k+7) ^ bitAt(c, k)
		r |= bit << k
	}
	return r
}

func rotl8(b byte, n uint) byte {
	n %= 8
	return (b << n) | (b >> (8 - n))
}

// SubByte applies the forward S-box to a single byte.
func SubByte(b byte) byte { return sBox[b] }

// InvSubByte applies the inverse S-box to a single byte:
// invert the affine transform, then take the GF(2**8) inverse.
func InvSubByte(b byte) byte {
	pre := rotl8(b, 1) ^ rotl8(b, 3) ^ rotl8(b, 6) ^ 0x05
	return gf.Inverse256(pre)
}
