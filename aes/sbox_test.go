package aes

import "testing"

func TestSBoxKnownValues(t *testing.T) {
	cases := []struct{ in, want byte }{
		{0x00, 0x63},
		{0x53, 0xed},
		{0xff, 0x16},
	}
	for _, c := range cases {
		if got := SubByte(c.in); got != c.want {
			t.Errorf("SubByte(%#x) = %#x, want %#x", c.in, got, c.want)
		}
	}
}

func TestSBoxIsInvolutionPair(t *testing.T) {
	for x := 0; x < 256; x++ {
		b := byte(x)
		if got := InvSubByte(SubByte(b)); got != b {
			t.Fatalf("InvSubByte(SubByte(%#x)) = %#x, want %#x", b, got, b)
		}
	}
}
