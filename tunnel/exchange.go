package tunnel

import (
	"encoding/binary"
	"math/rand"
	"net"
	"time"

	"github.com/dchest/siphash"

	"github.com/anvilcrypt/aesdh/dh"
	"github.com/anvilcrypt/aesdh/internal/exception"
)

// SharedKey is the four-word secret produced by four independent DH
// exchanges; it is the only persistent secret the orchestrator carries.
type SharedKey [4]uint64

// Zero overwrites sk in place, per Terminate's "clear sk" requirement.
func (sk *SharedKey) Zero() {
	*sk = SharedKey{}
}

// serverExchangeRound runs one DH round as the parameter-generating
// side: generate a safe prime and generator, send (p, g, A), receive the
// peer's intermediary, and derive the shared value.
func serverExchangeRound(conn net.Conn, rnd *rand.Rand, timeout time.Duration) (uint64, error) {
	sp := dh.GenerateSafePrime(rnd)
	g := dh.GenerateGenerator(sp.P, sp.Q)
	a := dh.NewPrivateKey(rnd)
	A := dh.ComputeIntermediary(sp.P, g, a)

	if err := SendValue(conn, sp.P, TagData, timeout); err != nil {
		return 0, err
	}
	if err := SendValue(conn, g, TagData, timeout); err != nil {
		return 0, err
	}
	if err := SendValue(conn, A, TagData, timeout); err != nil {
		return 0, err
	}
	peerIntermediary, _, err := RecvValue(conn, timeout)
	if err != nil {
		return 0, err
	}
	return dh.ComputeSharedKey(peerIntermediary, a, sp.P), nil
}

// clientExchangeRound runs one DH round as the responding side: receive
// (p, g, A_s), send A_c, and derive the shared value.
func clientExchangeRound(conn net.Conn, rnd *rand.Rand, timeout time.Duration) (uint64, error) {
	p, _, err := RecvValue(conn, timeout)
	if err != nil {
		return 0, err
	}
	g, _, err := RecvValue(conn, timeout)
	if err != nil {
		return 0, err
	}
	As, _, err := RecvValue(conn, timeout)
	if err != nil {
		return 0, err
	}

	a := dh.NewPrivateKey(rnd)
	Ac := dh.ComputeIntermediary(p, g, a)
	if err := SendValue(conn, Ac, TagData, timeout); err != nil {
		return 0, err
	}
	return dh.ComputeSharedKey(As, a, p), nil
}

// ServerKeyExchange runs the four-round server-side protocol of §4.7,
// producing the four-word shared key, then confirms both sides landed on
// the same value before returning it.
func ServerKeyExchange(conn net.Conn, rnd *rand.Rand, timeout time.Duration) (SharedKey, error) {
	var sk SharedKey
	for i := range sk {
		v, err := serverExchangeRound(conn, rnd, timeout)
		if err != nil {
			return SharedKey{}, err
		}
		sk[i] = v
	}
	if err := confirmSharedKey(conn, sk, timeout, true); err != nil {
		return SharedKey{}, err
	}
	return sk, nil
}

// ClientKeyExchange runs the four-round client-side protocol of §4.7,
// then confirms the transcript digest.
func ClientKeyExchange(conn net.Conn, rnd *rand.Rand, timeout time.Duration) (SharedKey, error) {
	var sk SharedKey
	for i := range sk {
		v, err := clientExchangeRound(conn, rnd, timeout)
		if err != nil {
			return SharedKey{}, err
		}
		sk[i] = v
	}
	if err := confirmSharedKey(conn, sk, timeout, false); err != nil {
		return SharedKey{}, err
	}
	return sk, nil
}

// transcriptDigest keys a SipHash-2-4 MAC with the first two shared-key
// words and covers the other two, giving both peers a cheap way to
// notice a derailed exchange (e.g. an off-by-one round, or a peer that
// silently reset its exponent) before any traffic is sent under the key.
func transcriptDigest(sk SharedKey) uint64 {
	var msg [16]byte
	binary.LittleEndian.PutUint64(msg[0:8], sk[2])
	binary.LittleEndian.PutUint64(msg[8:16], sk[3])
	return siphash.Hash(sk[0], sk[1], msg[:])
}

// confirmSharedKey exchanges transcriptDigest(sk) with the peer and fails
// closed on any mismatch. weGoFirst breaks the symmetry so both sides
// don't block on a simultaneous send.
func confirmSharedKey(conn net.Conn, sk SharedKey, timeout time.Duration, weGoFirst bool) error {
	digest := transcriptDigest(sk)
	if weGoFirst {
		if err := SendValue(conn, digest, TagVerify, timeout); err != nil {
			return err
		}
	}
	peerDigest, tag, err := RecvValue(conn, timeout)
	if err != nil {
		return err
	}
	if tag != TagVerify {
		return exception.New(exception.ProtocolError, "tunnel: expected a VERIFY packet, got").Apply(tag)
	}
	if !weGoFirst {
		if err := SendValue(conn, digest, TagVerify, timeout); err != nil {
			return err
		}
	}
	if peerDigest != digest {
		return exception.New(exception.AuthenticationFailure, "tunnel: key exchange transcripts disagree")
	}
	return nil
}
