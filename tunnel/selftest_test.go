package tunnel

import (
	"strings"
	"testing"
)

func TestSelfTestSucceeds(t *testing.T) {
	sk := SharedKey{0x0102030405060708, 0x1112131415161718, 0, 0}
	report := SelfTest(sk)
	if !strings.Contains(report, "ECB ok") || !strings.Contains(report, "GCM ok") {
		t.Fatalf("unexpected self-test report: %s", report)
	}
}
