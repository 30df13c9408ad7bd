package dh

import "testing"

func TestIsPrimeKnownValues(t *testing.T) {
	primes := []uint64{2, 3, 5, 7, 11, 97, 7919, 1000003}
	for _, p := range primes {
		if !IsPrime(p) {
			t.Errorf("IsPrime(%d) = false, want true", p)
		}
	}
	composites := []uint64{0, 1, 4, 6, 9, 100, 7921, 1000002}
	for _, c := range composites {
		if IsPrime(c) {
			t.Errorf("IsPrime(%d) = true, want false", c)
		}
	}
}

func TestNextPrime(t *testing.T) {
	cases := []struct{ in, want uint64 }{
		{0, 3},
		{1, 3},
		{8, 11},
		{14, 17},
	}
	for _, c := range cases {
		if got := NextPrime(c.in); got != c.want {
			t.Errorf("NextPrime(%d) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestModExpKnownValues(t *testing.T) {
	// 4**13 mod 497 = 445, the textbook RSA worked example.
	if got := ModExp(4, 13, 497); got != 445 {
		t.Fatalf("ModExp(4,13,497) = %d, want 445", got)
	}
	if got := ModExp(5, 0, 97); got != 1 {
		t.Fatalf("ModExp(5,0,97) = %d, want 1", got)
	}
}

func TestModExpAgainstLargeModulus(t *testing.T) {
	// A 33-bit prime (not a safe prime), well within the range GenerateSafePrime produces.
	const p = 4294967311 // prime
	got := ModExp(123456789, 987654321, p)
	if got >= p {
		t.Fatalf("ModExp result %d not reduced mod %d", got, p)
	}
}

// fixedRand cycles through a seed sequence so GenerateSafePrime's retry
// loop never runs out of values.
type fixedRand struct {
	vals []uint64
	i    int
}

func (f *fixedRand) Uint64() uint64 {
	v := f.vals[f.i%len(f.vals)]
	f.i++
	return v + uint64(f.i) // vary each cycle so retries aren't stuck on one seed
}

func TestGenerateSafePrimeProducesSafePrime(t *testing.T) {
	r := &fixedRand{vals: []uint64{5, 100, 1000, 65537, 7}}
	sp := GenerateSafePrime(r)
	if !IsPrime(sp.Q) {
		t.Fatalf("q=%d is not prime", sp.Q)
	}
	if !IsPrime(sp.P) {
		t.Fatalf("p=%d is not prime", sp.P)
	}
	if sp.P != 2*sp.Q+1 {
		t.Fatalf("p=%d != 2*q+1 (q=%d)", sp.P, sp.Q)
	}
}
