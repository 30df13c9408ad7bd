package tunnel

import "testing"

func TestNonceGuardRejectsReuse(t *testing.T) {
	g := NewNonceGuard()
	if err := g.CheckAndRemember(ModeCTR, 42); err != nil {
		t.Fatalf("first use should be accepted: %v", err)
	}
	if err := g.CheckAndRemember(ModeCTR, 42); err == nil {
		t.Fatal("expected reuse of the same (mode, nonce) to be rejected")
	}
}

func TestNonceGuardDistinguishesModes(t *testing.T) {
	g := NewNonceGuard()
	if err := g.CheckAndRemember(ModeCTR, 1); err != nil {
		t.Fatal(err)
	}
	if err := g.CheckAndRemember(ModeGCM, 1); err != nil {
		t.Fatalf("same nonce under a different mode should be accepted: %v", err)
	}
}
