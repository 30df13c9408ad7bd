package dh

// Params is the public material one side of a Diffie-Hellman exchange
// sends to its peer: a safe prime modulus P and a generator G.
type Params struct {
	P, G uint64
}

// GenerateGenerator finds a generator g of the order-q subgroup of
// Z_p^*, by brute-forcing the smallest h for which h**((p-1)/q) mod p
// exceeds 1, then using that same exponentiation to produce g. This
// relies on p being a safe prime (p = 2q+1).
func GenerateGenerator(p, q uint64) uint64 {
	exp := (p - 1) / q
	var h uint64 = 1
	for {
		h++
		if ModExp(h, exp, p) > 1 {
			break
		}
	}
	return ModExp(h, exp, p)
}

// NewPrivateKey draws a private exponent from r. Any 64-bit value works;
// ComputeIntermediary reduces it modulo p-1 before use.
func NewPrivateKey(r randSource) uint64 {
	return r.Uint64()
}

// ComputeIntermediary computes g**k mod p, the value a peer sends across
// the wire. Since g**(p-1) = 1 mod p by Fermat's little theorem whenever
// p is prime and g is not a multiple of p, the exponent is first reduced
// modulo p-1 so ModExp has less work to do.
func ComputeIntermediary(p, g, k uint64) uint64 {
	r := k % (p - 1)
	return ModExp(g, r, p)
}

// ComputeSharedKey computes peerIntermediary**privateKey mod p, which
// both sides arrive at independently once they've exchanged
// intermediaries.
func ComputeSharedKey(peerIntermediary, privateKey, p uint64) uint64 {
	return ModExp(peerIntermediary, privateKey, p)
}
