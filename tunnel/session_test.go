package tunnel

import (
	"bytes"
	"math/rand"
	"net"
	"strconv"
	"testing"
	"time"
)

func TestSessionHandshakeAndMessageRoundTrip(t *testing.T) {
	server := NewSession(rand.New(rand.NewSource(1)))
	client := NewSession(rand.New(rand.NewSource(2)))
	defer server.Close()
	defer client.Close()

	listenErrCh := make(chan error, 1)
	readyCh := make(chan net.Addr, 1)
	go func() {
		// Bind on an ephemeral port so the test doesn't depend on a fixed one.
		err := server.Listen(Peer{Scheme: "tcp", Host: "", Port: "0"})
		if err == nil {
			readyCh <- server.ListenAddr()
		} else {
			readyCh <- nil
		}
		listenErrCh <- err
	}()

	// Listen binds before Accept blocks, but we need the ephemeral port
	// before dialing; poll the session briefly.
	var addr net.Addr
	deadline := time.Now().Add(2 * time.Second)
	for addr == nil && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
		addr = server.ListenAddr()
	}
	if addr == nil {
		t.Fatal("server never bound a listening address")
	}

	_, portStr, err := net.SplitHostPort(addr.String())
	if err != nil {
		t.Fatal(err)
	}
	_, err = strconv.Atoi(portStr)
	if err != nil {
		t.Fatal(err)
	}

	clientErrCh := make(chan error, 1)
	go func() {
		clientErrCh <- client.Initialize(Peer{Scheme: "tcp", Host: "127.0.0.1", Port: portStr})
	}()

	if err := <-listenErrCh; err != nil {
		t.Fatalf("Listen: %v", err)
	}
	if err := <-clientErrCh; err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	if server.State() != StateConnected || client.State() != StateConnected {
		t.Fatalf("expected both sides CONNECTED, got server=%v client=%v", server.State(), client.State())
	}
	if server.sk != client.sk {
		t.Fatal("server and client shared keys disagree after handshake")
	}

	plain := []byte("hello over a real loopback socket")
	recvCh := make(chan []byte, 1)
	recvErrCh := make(chan error, 1)
	go func() {
		event, data, err := server.Request()
		if err != nil {
			recvErrCh <- err
			return
		}
		if event != EventMessage {
			recvErrCh <- nil
			recvCh <- nil
			return
		}
		recvCh <- data
		recvErrCh <- nil
	}()

	if err := client.Send(10, ModeCTR, plain); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if err := <-recvErrCh; err != nil {
		t.Fatalf("Request: %v", err)
	}
	got := <-recvCh
	if !bytes.Equal(got, plain) {
		t.Fatalf("got %q, want %q", got, plain)
	}

	if err := client.Terminate(); err != nil {
		t.Fatalf("Terminate: %v", err)
	}
	if client.State() != StateIdle {
		t.Fatal("Terminate must return to IDLE")
	}
	if client.sk != (SharedKey{}) {
		t.Fatal("Terminate must zero the shared key")
	}
}
