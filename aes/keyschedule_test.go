package aes

import "testing"

func TestKeyParams(t *testing.T) {
	cases := []struct {
		keyLen     int
		wantNk     int
		wantNr     int
		wantErrNil bool
	}{
		{16, 4, 10, true},
		{24, 6, 12, true},
		{32, 8, 14, true},
		{20, 0, 0, false},
	}
	for _, c := range cases {
		nk, nr, err := KeyParams(c.keyLen)
		if (err == nil) != c.wantErrNil {
			t.Fatalf("KeyParams(%d) err = %v", c.keyLen, err)
		}
		if err == nil && (nk != c.wantNk || nr != c.wantNr) {
			t.Fatalf("KeyParams(%d) = (%d,%d), want (%d,%d)", c.keyLen, nk, nr, c.wantNk, c.wantNr)
		}
	}
}

func TestExpandKeyLength(t *testing.T) {
	key := make([]byte, 16)
	w, nr, err := ExpandKey(key)
	if err != nil {
		t.Fatal(err)
	}
	if nr != 10 {
		t.Fatalf("nr = %d, want 10", nr)
	}
	if len(w) != 4*(nr+1) {
		t.Fatalf("len(w) = %d, want %d", len(w), 4*(nr+1))
	}
}

// TestKeyScheduleFirstWords checks the schedule reproduces the well-known
// FIPS-197 Appendix A.1 first few expanded words for a 128-bit key.
func TestKeyScheduleFirstWords(t *testing.T) {
	key := mustHex(t, "2b7e151628aed2a6abf7158809cf4f3c")
	w, _, err := ExpandKey(key)
	if err != nil {
		t.Fatal(err)
	}
	want := []uint32{0x2b7e1516, 0x28aed2a6, 0xabf71588, 0x09cf4f3c, 0xa0fafe17}
	for i, wv := range want {
		if w[i] != wv {
			t.Errorf("w[%d] = %#08x, want %#08x", i, w[i], wv)
		}
	}
}
