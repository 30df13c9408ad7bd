package aes

import (
	"encoding/binary"

	"github.com/anvilcrypt/aesdh/internal/exception"
)

// rcon holds the round constants used by the key schedule, one per round
// (index 0 is unused; Rcon[1] is the first constant applied).
var rcon = [11]uint32{
	0x00000000,
	0x01000000, 0x02000000, 0x04000000, 0x08000000,
	0x10000000, 0x20000000, 0x40000000, 0x80000000,
	0x1b000000, 0x36000000,
}

// KeyParams returns (Nk, Nr) for a raw AES key length in bytes.
func KeyParams(keyLen int) (nk, nr int, err error) {
	switch keyLen {
	case 16:
		return 4, 10, nil
	case 24:
		return 6, 12, nil
	case 32:
		return 8, 14, nil
	default:
		return 0, 0, exception.New(exception.ArgumentError, "aes: key must be 16, 24 or 32 bytes").Apply(keyLen)
	}
}

func rotWord(w uint32) uint32 {
	return (w << 8) | (w >> 24)
}

func subWord(w uint32) uint32 {
	b0 := SubByte(byte(w >> 24))
	b1 := SubByte(byte(w >> 16))
	b2 := SubByte(byte(w >> 8))
	b3 := SubByte(byte(w))
	return uint32(b0)<<24 | uint32(b1)<<16 | uint32(b2)<<8 | uint32(b3)
}

// ExpandKey derives the W[] round-key schedule (length 4*(Nr+1)) from a
// raw AES key.
func ExpandKey(key []byte) ([]uint32, int, error) {
	nk, nr, err := KeyParams(len(key))
	if err != nil {
		return nil, 0, err
	}
	total := 4 * (nr + 1)
	w := make([]uint32, total)
	for i := 0; i < nk; i++ {
		w[i] = binary.BigEndian.Uint32(key[4*i : 4*i+4])
	}
	for i := nk; i < total; i++ {
		temp := w[i-1]
		switch {
		case i%nk == 0:
			temp = subWord(rotWord(temp)) ^ rcon[i/nk]
		case nk > 6 && i%nk == 4:
			temp = subWord(temp)
		}
		w[i] = w[i-nk] ^ temp
	}
	return w, nr, nil
}
