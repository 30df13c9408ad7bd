package tunnel

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
)

// wordsForNr returns how many of the shared key's four 64-bit words are
// "active" for a given round count — the key size in words, per §4.9
// step 7 (2/3/4 words for Nr=10/12/14).
func wordsForNr(nr int) int {
	switch nr {
	case 10:
		return 2
	case 12:
		return 3
	default:
		return 4
	}
}

// activeKeyBytes serializes the shared key's active prefix to bytes,
// little-endian per word — the same convention used for the CTR nonce.
func activeKeyBytes(sk SharedKey, nr int) []byte {
	n := wordsForNr(nr)
	buf := make([]byte, 8*n)
	for i := 0; i < n; i++ {
		binary.LittleEndian.PutUint64(buf[i*8:i*8+8], sk[i])
	}
	return buf
}

// computeHMAC is the external HMAC-SHA-256 collaborator the core calls
// into for ECB/CTR message authentication; it does not implement SHA-256
// itself.
func computeHMAC(sk SharedKey, nr int, ciphertext []byte) []byte {
	mac := hmac.New(sha256.New, activeKeyBytes(sk, nr))
	mac.Write(ciphertext)
	return mac.Sum(nil)
}

func verifyHMAC(sk SharedKey, nr int, ciphertext, tag []byte) bool {
	return hmac.Equal(computeHMAC(sk, nr, ciphertext), tag)
}
