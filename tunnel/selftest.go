package tunnel

import (
	"fmt"
	"strings"

	aescore "github.com/anvilcrypt/aesdh/aes"
)

// selfTestMessages are the three short strings round-tripped through
// ECB, CTR, and GCM before the session tool enters its menu loop — a
// quick sanity check that this build's AES/CTR/GCM agree with
// themselves, carried over from the original tool's startup banner.
var selfTestMessages = [3]string{
	"the quick brown fox",
	"ECB/CTR/GCM self-test",
	"shared key material ok",
}

// SelfTest round-trips selfTestMessages through all three modes using
// sk's active 128-bit prefix, and returns a human-readable report. It
// never returns an error: a failure here is a programming bug, not a
// recoverable runtime condition, so SelfTest panics instead of
// propagating an error the caller has no sane way to act on.
func SelfTest(sk SharedKey) string {
	cipher, err := aescore.New(activeKeyBytes(sk, 10))
	if err != nil {
		panic(err)
	}

	var lines []string
	for i, msg := range selfTestMessages {
		plain := []byte(msg)
		nonce := uint64(i + 1)

		ecbCt := cipher.EncryptECB(plain)
		ecbPt, err := cipher.DecryptECB(ecbCt)
		if err != nil || !strings.HasPrefix(string(ecbPt), msg) {
			panic("tunnel: ECB self-test failed")
		}

		ctrCt := cipher.CTR(plain, nonce)
		ctrPt := cipher.CTR(ctrCt, nonce)
		if string(ctrPt) != msg {
			panic("tunnel: CTR self-test failed")
		}

		gcmCt, tag := cipher.SealGCM(nonceBytes(nonce), plain)
		gcmPt, err := cipher.OpenGCM(nonceBytes(nonce), gcmCt, tag)
		if err != nil || string(gcmPt) != msg {
			panic("tunnel: GCM self-test failed")
		}

		lines = append(lines, fmt.Sprintf("  [%d] %-24q ECB ok  CTR ok  GCM ok", i, msg))
	}
	return "AES self-test:\n" + strings.Join(lines, "\n")
}
