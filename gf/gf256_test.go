package gf

import "testing"

func TestMul256KnownVectors(t *testing.T) {
	// from the FIPS-197 MixColumns worked example
	cases := []struct{ a, b, want byte }{
		{0x57, 0x83, 0xc1},
		{0x57, 0x01, 0x57},
		{0x00, 0xff, 0x00},
	}
	for _, c := range cases {
		if got := Mul256(c.a, c.b); got != c.want {
			t.Errorf("Mul256(%#x,%#x) = %#x, want %#x", c.a, c.b, got, c.want)
		}
	}
}

func TestMul256Commutative(t *testing.T) {
	for a := 0; a < 256; a += 17 {
		for b := 0; b < 256; b += 23 {
			if Mul256(byte(a), byte(b)) != Mul256(byte(b), byte(a)) {
				t.Fatalf("Mul256 not commutative for %#x,%#x", a, b)
			}
		}
	}
}

func TestInverse256(t *testing.T) {
	if Inverse256(0) != 0 {
		t.Fatal("inverse of 0 must be 0 by convention")
	}
	for a := 1; a < 256; a++ {
		inv := Inverse256(byte(a))
		if Mul256(byte(a), inv) != 1 {
			t.Fatalf("Mul256(%#x, inverse=%#x) != 1", a, inv)
		}
	}
}
