package aes

import "encoding/binary"

// counterBlock builds the 16-byte CTR input: an 8-byte little-endian
// nonce followed by an 8-byte little-endian counter.
func counterBlock(nonce, counter uint64) [BlockSize]byte {
	var b [BlockSize]byte
	binary.LittleEndian.PutUint64(b[0:8], nonce)
	binary.LittleEndian.PutUint64(b[8:16], counter)
	return b
}

// CTR XORs data with the AES-CTR keystream generated from nonce. CTR is
// its own inverse: calling it again with the same nonce recovers the
// original input. The final partial block's keystream is truncated to
// fit, so no padding is introduced.
func (c *Cipher_) CTR(data []byte, nonce uint64) []byte {
	out := make([]byte, len(data))
	var counter uint64
	for off := 0; off < len(data); off += BlockSize {
		ks := c.Encrypt(counterBlock(nonce, counter))
		counter++
		end := off + BlockSize
		if end > len(data) {
			end = len(data)
		}
		for i := off; i < end; i++ {
			out[i] = data[i] ^ ks[i-off]
		}
	}
	return out
}
