package aes

import (
	"crypto/subtle"
	"encoding/binary"

	"github.com/anvilcrypt/aesdh/gf"
	"github.com/anvilcrypt/aesdh/internal/exception"
)

// TagSize is the GCM authentication tag length in bytes.
const TagSize = 16

func toBlock128(b []byte) gf.Block128 {
	var out gf.Block128
	copy(out[:], b) // zero-pads a short final chunk
	return out
}

// padTo16 zero-pads data out to a multiple of 16 bytes, copying so the
// caller's slice is never mutated.
func padTo16(data []byte) []byte {
	rem := len(data) % 16
	if rem == 0 {
		return append([]byte{}, data...)
	}
	return append(append([]byte{}, data...), make([]byte, 16-rem)...)
}

// ghash runs the GHASH accumulator over data, which must already be
// block-aligned by the caller for spec-exact behavior; any trailing
// partial block is zero-padded as a convenience.
func ghash(h gf.Block128, data []byte) gf.Block128 {
	var y gf.Block128
	for off := 0; off < len(data); off += 16 {
		end := off + 16
		if end > len(data) {
			end = len(data)
		}
		y = gf.Mul128(y.Xor(toBlock128(data[off:end])), h)
	}
	return y
}

func inc32(x gf.Block128) gf.Block128 {
	out := x
	low := binary.BigEndian.Uint32(out[12:16])
	low++
	binary.BigEndian.PutUint32(out[12:16], low)
	return out
}

// gctr is the GCM counter-mode primitive: CB1 = icb, CBi = inc32(CB_{i-1}).
// Unlike plain CTR, GCTR increments only the low 32 bits.
func gctr(c *Cipher_, icb gf.Block128, data []byte) []byte {
	out := make([]byte, len(data))
	cb := icb
	for off := 0; off < len(data); off += BlockSize {
		ks := c.Encrypt([BlockSize]byte(cb))
		end := off + BlockSize
		if end > len(data) {
			end = len(data)
		}
		for i := off; i < end; i++ {
			out[i] = data[i] ^ ks[i-off]
		}
		cb = inc32(cb)
	}
	return out
}

// j0 derives the initial counter block by running GHASH over the nonce
// alone, rather than the NIST SP 800-38D 96-bit-IV concatenation
// construction. This mirrors the original tool's implementation and is
// an intentional deviation, not a defect: both peers must use the same
// construction, which they do since it lives in this one function.
func j0(h gf.Block128, nonce []byte) gf.Block128 {
	return ghash(h, padTo16(nonce))
}

func lengthBlock(aadBits, ctBits uint64) gf.Block128 {
	var b gf.Block128
	binary.BigEndian.PutUint64(b[0:8], aadBits)
	binary.BigEndian.PutUint64(b[8:16], ctBits)
	return b
}

func (c *Cipher_) hSubkey() gf.Block128 {
	var zero [BlockSize]byte
	return gf.Block128(c.Encrypt(zero))
}

// SealGCM encrypts plaintext and returns the ciphertext plus a 16-byte
// authentication tag. nonce may be any length; it is zero-padded to a
// block before deriving J0.
func (c *Cipher_) SealGCM(nonce, plaintext []byte) (ciphertext []byte, tag [TagSize]byte) {
	h := c.hSubkey()
	j := j0(h, nonce)
	ciphertext = gctr(c, inc32(j), plaintext)

	lb := lengthBlock(0, uint64(len(ciphertext))*8)
	ghashInput := append(padTo16(ciphertext), lb[:]...)
	s := ghash(h, ghashInput)
	t := gctr(c, j, s[:])
	copy(tag[:], t)
	return ciphertext, tag
}

// OpenGCM decrypts ciphertext and verifies tag, returning an
// AuthenticationFailure exception if the tag does not match.
func (c *Cipher_) OpenGCM(nonce, ciphertext []byte, tag [TagSize]byte) ([]byte, error) {
	h := c.hSubkey()
	j := j0(h, nonce)

	lb := lengthBlock(0, uint64(len(ciphertext))*8)
	ghashInput := append(padTo16(ciphertext), lb[:]...)
	s := ghash(h, ghashInput)
	wantTag := gctr(c, j, s[:])

	if subtle.ConstantTimeCompare(wantTag, tag[:]) != 1 {
		return nil, exception.New(exception.AuthenticationFailure, "aes: GCM tag mismatch")
	}
	return gctr(c, inc32(j), ciphertext), nil
}
