package aes

import "github.com/anvilcrypt/aesdh/gf"

// BlockSize is the AES block size in bytes, fixed regardless of key size.
const BlockSize = 16

// Block is the 4x4 byte state matrix, indexed [row][col]. Bytes are laid
// out column-first: input byte i lands at row i%4, column i/4.
type Block [4][4]byte

// BlockFromBytes fills a Block from a 16-byte slice in column-major order.
func BlockFromBytes(b []byte) Block {
	var s Block
	for i := 0; i < BlockSize; i++ {
		s[i%4][i/4] = b[i]
	}
	return s
}

// Bytes serializes the state back to 16 bytes in column-major order.
func (s Block) Bytes() [BlockSize]byte {
	var b [BlockSize]byte
	for i := 0; i < BlockSize; i++ {
		b[i] = s[i%4][i/4]
	}
	return b
}

// AddRoundKey XORs each state column with the corresponding key schedule
// word, most significant byte first.
func (s *Block) AddRoundKey(w []uint32, round int) {
	for c := 0; c < 4; c++ {
		word := w[4*round+c]
		s[0][c] ^= byte(word >> 24)
		s[1][c] ^= byte(word >> 16)
		s[2][c] ^= byte(word >> 8)
		s[3][c] ^= byte(word)
	}
}

func (s *Block) SubBytes() {
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			s[r][c] = SubByte(s[r][c])
		}
	}
}

func (s *Block) InvSubBytes() {
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			s[r][c] = InvSubByte(s[r][c])
		}
	}
}

// ShiftRows cyclically shifts row r left by r positions.
func (s *Block) ShiftRows() {
	var out Block
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			out[r][c] = s[r][(c+r)%4]
		}
	}
	*s = out
}

func (s *Block) InvShiftRows() {
	var out Block
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			out[r][c] = s[r][(c-r+4)%4]
		}
	}
	*s = out
}

func (s *Block) MixColumns() {
	for c := 0; c < 4; c++ {
		a0, a1, a2, a3 := s[0][c], s[1][c], s[2][c], s[3][c]
		s[0][c] = gf.Mul256(a0, 2) ^ gf.Mul256(a1, 3) ^ a2 ^ a3
		s[1][c] = a0 ^ gf.Mul256(a1, 2) ^ gf.Mul256(a2, 3) ^ a3
		s[2][c] = a0 ^ a1 ^ gf.Mul256(a2, 2) ^ gf.Mul256(a3, 3)
		s[3][c] = gf.Mul256(a0, 3) ^ a1 ^ a2 ^ gf.Mul256(a3, 2)
	}
}

func (s *Block) InvMixColumns() {
	for c := 0; c < 4; c++ {
		a0, a1, a2, a3 := s[0][c], s[1][c], s[2][c], s[3][c]
		s[0][c] = gf.Mul256(a0, 0x0e) ^ gf.Mul256(a1, 0x0b) ^ gf.Mul256(a2, 0x0d) ^ gf.Mul256(a3, 0x09)
		s[1][c] = gf.Mul256(a0, 0x09) ^ gf.Mul256(a1, 0x0e) ^ gf.Mul256(a2, 0x0b) ^ gf.Mul256(a3, 0x0d)
		s[2][c] = gf.Mul256(a0, 0x0d) ^ gf.Mul256(a1, 0x09) ^ gf.Mul256(a2, 0x0e) ^ gf.Mul256(a3, 0x0b)
		s[3][c] = gf.Mul256(a0, 0x0b) ^ gf.Mul256(a1, 0x0d) ^ gf.Mul256(a2, 0x09) ^ gf.Mul256(a3, 0x0e)
	}
}
