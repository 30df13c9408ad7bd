package aes

import (
	"bytes"
	"encoding/hex"
	"testing"
)

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	if err != nil {
		t.Fatalf("bad hex %q: %v", s, err)
	}
	return b
}

// TestAES128Vector is the FIPS-197 Appendix C.1 example vector.
func TestAES128Vector(t *testing.T) {
	key := mustHex(t, "000102030405060708090a0b0c0d0e0f")
	plain := mustHex(t, "00112233445566778899aabbccddeeff")
	wantCipher := mustHex(t, "69c4e0d86a7b0430d8cdb78070b4c55a")

	c, err := New(key)
	if err != nil {
		t.Fatal(err)
	}
	var in [BlockSize]byte
	copy(in[:], plain)
	got := c.Encrypt(in)
	if !bytes.Equal(got[:], wantCipher) {
		t.Fatalf("Encrypt = %x, want %x", got, wantCipher)
	}
	back := c.Decrypt(got)
	if !bytes.Equal(back[:], plain) {
		t.Fatalf("Decrypt(Encrypt(p)) = %x, want %x", back, plain)
	}
}

// TestAES256Vector is the FIPS-197 Appendix C.3 worked example.
func TestAES256Vector(t *testing.T) {
	key := mustHex(t, "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f")
	plain := mustHex(t, "00112233445566778899aabbccddeeff")
	wantCipher := mustHex(t, "8ea2b7ca516745bfeafc49904b496089")

	c, err := New(key)
	if err != nil {
		t.Fatal(err)
	}
	var in [BlockSize]byte
	copy(in[:], plain)
	got := c.Encrypt(in)
	if !bytes.Equal(got[:], wantCipher) {
		t.Fatalf("Encrypt = %x, want %x", got, wantCipher)
	}
}

func TestNewRejectsBadKeyLength(t *testing.T) {
	if _, err := New(make([]byte, 10)); err == nil {
		t.Fatal("expected error for invalid key length")
	}
}

func TestECBRoundTrip(t *testing.T) {
	c, _ := New(mustHex(t, "000102030405060708090a0b0c0d0e0f"))
	data := []byte("this message spans more than one AES block for sure")
	ct := c.EncryptECB(data)
	if len(ct)%BlockSize != 0 {
		t.Fatalf("ciphertext length %d not block aligned", len(ct))
	}
	pt, err := c.DecryptECB(ct)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(pt[:len(data)], data) {
		t.Fatalf("round trip mismatch: got %q", pt[:len(data)])
	}
}
