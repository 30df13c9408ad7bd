package tunnel

import (
	"math/rand"
	"net"
	"testing"
	"time"
)

// TestKeyExchangeProducesMatchingSharedKeys is scenario S6: server and
// client run the four-round protocol over an in-memory transport and
// must end up with byte-identical shared keys.
func TestKeyExchangeProducesMatchingSharedKeys(t *testing.T) {
	server, client := net.Pipe()
	defer server.Close()
	defer client.Close()

	serverRnd := rand.New(rand.NewSource(1))
	clientRnd := rand.New(rand.NewSource(2))

	type result struct {
		sk  SharedKey
		err error
	}
	serverCh := make(chan result, 1)
	clientCh := make(chan result, 1)

	go func() {
		sk, err := ServerKeyExchange(server, serverRnd, 5*time.Second)
		serverCh <- result{sk, err}
	}()
	go func() {
		sk, err := ClientKeyExchange(client, clientRnd, 5*time.Second)
		clientCh <- result{sk, err}
	}()

	sr := <-serverCh
	cr := <-clientCh
	if sr.err != nil {
		t.Fatalf("server exchange failed: %v", sr.err)
	}
	if cr.err != nil {
		t.Fatalf("client exchange failed: %v", cr.err)
	}
	if sr.sk != cr.sk {
		t.Fatalf("shared keys disagree: server=%v client=%v", sr.sk, cr.sk)
	}
}
