package tunnel

import (
	"bytes"
	"net"
	"testing"
	"time"
)

func TestSendRecvPacketRoundTrip(t *testing.T) {
	a, b := net.Pipe()
	defer a.Close()
	defer b.Close()

	var want Packet
	want.Tag = TagAck
	copy(want.Payload[:], "hello")

	go SendPacket(a, want, time.Second)
	got := RecvPacket(b, time.Second)
	if got.Tag != want.Tag {
		t.Fatalf("tag = %v, want %v", got.Tag, want.Tag)
	}
	if !bytes.Equal(got.Payload[:5], []byte("hello")) {
		t.Fatalf("payload mismatch: %q", got.Payload[:5])
	}
}

func TestRecvPacketTimesOutWithErrorTag(t *testing.T) {
	a, b := net.Pipe()
	defer a.Close()
	defer b.Close()
	_ = a

	p := RecvPacket(b, 10*time.Millisecond)
	if p.Tag != TagError {
		t.Fatalf("tag = %v, want ERROR on timeout", p.Tag)
	}
}

func TestSendRecvValueRoundTrip(t *testing.T) {
	a, b := net.Pipe()
	defer a.Close()
	defer b.Close()

	go SendValue(a, 123456789, TagData, time.Second)
	v, tag, err := RecvValue(b, time.Second)
	if err != nil {
		t.Fatal(err)
	}
	if v != 123456789 || tag != TagData {
		t.Fatalf("got (%d,%v), want (123456789,DATA)", v, tag)
	}
}

func TestSendRecvStringRoundTripVariousLengths(t *testing.T) {
	lengths := []int{0, 1, 1023, 1024, 1025, 1024 * 3, 1024*2 + 7}
	for _, n := range lengths {
		n := n
		t.Run("", func(t *testing.T) {
			a, b := net.Pipe()
			defer a.Close()
			defer b.Close()

			msg := bytes.Repeat([]byte{0xab, 0xcd}, n/2+1)[:n]
			errCh := make(chan error, 1)
			go func() { errCh <- SendString(a, msg, TagData, time.Second) }()

			got, err := RecvString(b, time.Second)
			if err != nil {
				t.Fatal(err)
			}
			if sendErr := <-errCh; sendErr != nil {
				t.Fatal(sendErr)
			}
			if !bytes.Equal(got, msg) {
				t.Fatalf("length %d: round trip mismatch, got %d bytes want %d", n, len(got), len(msg))
			}
		})
	}
}
