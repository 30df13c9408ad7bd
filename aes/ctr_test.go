package aes

import (
	"bytes"
	"testing"
)

func TestCTRSelfInverse(t *testing.T) {
	c, err := New([]byte("sixteen byte key"))
	if err != nil {
		t.Fatal(err)
	}
	plain := []byte("the quick brown fox jumps over the lazy dog, twice for good measure")
	const nonce = 0x0102030405060708

	ct := c.CTR(plain, nonce)
	if bytes.Equal(ct, plain) {
		t.Fatal("ciphertext must differ from plaintext")
	}
	pt := c.CTR(ct, nonce)
	if !bytes.Equal(pt, plain) {
		t.Fatalf("CTR is not self-inverse: got %q, want %q", pt, plain)
	}
}

func TestCTRDifferentNoncesDiffer(t *testing.T) {
	c, _ := New([]byte("sixteen byte key"))
	plain := []byte("identical plaintext, different nonce")
	a := c.CTR(plain, 1)
	b := c.CTR(plain, 2)
	if bytes.Equal(a, b) {
		t.Fatal("distinct nonces produced identical keystreams")
	}
}

func TestCTRHandlesPartialFinalBlock(t *testing.T) {
	c, _ := New([]byte("sixteen byte key"))
	for n := 1; n <= 33; n++ {
		plain := bytes.Repeat([]byte{0x42}, n)
		ct := c.CTR(plain, 7)
		pt := c.CTR(ct, 7)
		if !bytes.Equal(pt, plain) {
			t.Fatalf("length %d: round trip failed", n)
		}
	}
}
