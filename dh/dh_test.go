package dh

import "testing"

func TestFullExchangeAgreesOnSharedKey(t *testing.T) {
	// A small known safe prime (p=23=2*11+1, q=11) with a generator of
	// the order-11 subgroup, so the whole exchange can be hand-verified.
	const p, q = 23, 11
	g := GenerateGenerator(p, q)

	serverRand := &fixedRand{vals: []uint64{999999}}
	clientRand := &fixedRand{vals: []uint64{12345}}
	serverKey := NewPrivateKey(serverRand)
	clientKey := NewPrivateKey(clientRand)

	serverIntermediary := ComputeIntermediary(p, g, serverKey)
	clientIntermediary := ComputeIntermediary(p, g, clientKey)

	serverShared := ComputeSharedKey(clientIntermediary, serverKey, p)
	clientShared := ComputeSharedKey(serverIntermediary, clientKey, p)

	if serverShared != clientShared {
		t.Fatalf("shared keys disagree: server=%d client=%d", serverShared, clientShared)
	}
}

func TestGenerateGeneratorHasFullOrder(t *testing.T) {
	const p, q = 23, 11
	g := GenerateGenerator(p, q)
	if ModExp(g, q, p) != 1 {
		t.Fatalf("g=%d does not have order dividing q=%d mod p=%d", g, q, p)
	}
	if g <= 1 {
		t.Fatalf("g=%d should exceed 1", g)
	}
}

func TestComputeIntermediaryReductionMatchesDirectExponent(t *testing.T) {
	const p, g = 23, 4
	k := uint64(37) // > p-1, exercises the Fermat reduction path
	got := ComputeIntermediary(p, g, k)
	want := ModExp(g, k, p) // unreduced exponent must agree by Fermat's little theorem
	if got != want {
		t.Fatalf("ComputeIntermediary = %d, want %d", got, want)
	}
}
