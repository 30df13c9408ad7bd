package tunnel

import (
	"encoding/binary"
	"strconv"
	"strings"
)

// nonceText renders a 64-bit nonce as the decimal text the wire protocol
// uses for all integer payloads.
func nonceText(nonce uint64) string {
	return strconv.FormatUint(nonce, 10)
}

// parseNonceText parses a nonce packet's zero-padded decimal payload. A
// malformed payload decodes to 0 rather than panicking. For GCM the tag
// check then fails, since the nonce is bound through J0; the HMAC used
// for CTR covers only the ciphertext, so a CTR nonce that decodes wrongly
// is not detected and yields wrong plaintext.
func parseNonceText(payload []byte) uint64 {
	text := strings.TrimRight(string(payload), "\x00")
	v, _ := strconv.ParseUint(text, 10, 64)
	return v
}

// nonceBytes serializes a 64-bit nonce little-endian, matching the CTR
// block's own nonce convention, for use as a GCM nonce.
func nonceBytes(nonce uint64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, nonce)
	return b
}
