package aes

import "github.com/anvilcrypt/aesdh/internal/exception"

// Cipher encrypts a single 16-byte block using the given key schedule
// (Nr rounds) and returns the result.
func Cipher(in [BlockSize]byte, w []uint32, nr int) [BlockSize]byte {
	s := BlockFromBytes(in[:])
	s.AddRoundKey(w, 0)
	for round := 1; round < nr; round++ {
		s.SubBytes()
		s.ShiftRows()
		s.MixColumns()
		s.AddRoundKey(w, round)
	}
	s.SubBytes()
	s.ShiftRows()
	s.AddRoundKey(w, nr)
	return s.Bytes()
}

// InvCipher decrypts a single 16-byte block using the given key schedule.
func InvCipher(in [BlockSize]byte, w []uint32, nr int) [BlockSize]byte {
	s := BlockFromBytes(in[:])
	s.AddRoundKey(w, nr)
	for round := nr - 1; round >= 1; round-- {
		s.InvShiftRows()
		s.InvSubBytes()
		s.AddRoundKey(w, round)
		s.InvMixColumns()
	}
	s.InvShiftRows()
	s.InvSubBytes()
	s.AddRoundKey(w, 0)
	return s.Bytes()
}

// Cipher_ wraps a key schedule for repeated use across blocks and modes.
type Cipher_ struct {
	w  []uint32
	nr int
}

// New builds a Cipher_ from a raw AES key (16, 24 or 32 bytes).
func New(key []byte) (*Cipher_, error) {
	w, nr, err := ExpandKey(key)
	if err != nil {
		return nil, err
	}
	return &Cipher_{w: w, nr: nr}, nil
}

func (c *Cipher_) Encrypt(block [BlockSize]byte) [BlockSize]byte {
	return Cipher(block, c.w, c.nr)
}

func (c *Cipher_) Decrypt(block [BlockSize]byte) [BlockSize]byte {
	return InvCipher(block, c.w, c.nr)
}

// EncryptECB encrypts data block-by-block, zero-padding the final block
// out to a multiple of BlockSize. Not authenticated: callers wanting
// integrity should use GCM instead.
func (c *Cipher_) EncryptECB(data []byte) []byte {
	padded := padZero(data)
	out := make([]byte, len(padded))
	for i := 0; i < len(padded); i += BlockSize {
		var in [BlockSize]byte
		copy(in[:], padded[i:i+BlockSize])
		ct := c.Encrypt(in)
		copy(out[i:i+BlockSize], ct[:])
	}
	return out
}

// DecryptECB decrypts data that was produced by EncryptECB. The caller is
// responsible for knowing the original (unpadded) length; DecryptECB
// returns the full zero-padded plaintext.
func (c *Cipher_) DecryptECB(data []byte) ([]byte, error) {
	if len(data)%BlockSize != 0 {
		return nil, exception.New(exception.ArgumentError, "aes: ECB ciphertext length must be a multiple of the block size")
	}
	out := make([]byte, len(data))
	for i := 0; i < len(data); i += BlockSize {
		var in [BlockSize]byte
		copy(in[:], data[i:i+BlockSize])
		pt := c.Decrypt(in)
		copy(out[i:i+BlockSize], pt[:])
	}
	return out, nil
}

func padZero(data []byte) []byte {
	rem := len(data) % BlockSize
	if rem == 0 {
		return data
	}
	return append(append([]byte{}, data...), make([]byte, BlockSize-rem)...)
}
