package tunnel

import (
	"math/rand"
	"net"
	"time"

	"github.com/anvilcrypt/aesdh/internal/exception"
	"github.com/anvilcrypt/aesdh/internal/glog"
)

// State is the orchestrator's connection state.
type State int

const (
	StateIdle State = iota
	StateConnected
)

func (s State) String() string {
	if s == StateConnected {
		return "CONNECTED"
	}
	return "IDLE"
}

// requestTimeout bounds how long Session.Request waits for the next
// packet; it is the same as the default protocol timeout.
const requestTimeout = defaultTimeout

// Session is the single-threaded state machine described in §4.9: it
// carries the one connection, the four-word shared key, and the
// listening socket (created once, reused across Listen calls).
type Session struct {
	state    State
	conn     net.Conn
	listener net.Listener
	sk       SharedKey
	guard    *NonceGuard
	rnd      *rand.Rand
	timeout  time.Duration
}

// NewSession builds an IDLE session. rnd is the pseudo-random source for
// private exponents and nonces; a non-cryptographic source is
// acceptable per this protocol's Non-goals.
func NewSession(rnd *rand.Rand) *Session {
	return &Session{state: StateIdle, rnd: rnd, timeout: defaultTimeout}
}

func (s *Session) State() State { return s.state }

// ListenAddr reports the bound address after a successful Listen, for
// callers that asked for an ephemeral port.
func (s *Session) ListenAddr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

func (s *Session) requireState(want State) error {
	if s.state != want {
		return exception.New(exception.ProtocolError, "tunnel: action requires state").Apply(want)
	}
	return nil
}

// Initialize is the client-role IDLE action: dial the peer and run the
// four-round client key exchange.
func (s *Session) Initialize(peer Peer) error {
	if err := s.requireState(StateIdle); err != nil {
		return err
	}
	conn, err := Dial(peer)
	if err != nil {
		return exception.New(exception.IoError, "tunnel: dial failed").Apply(err)
	}
	sk, err := ClientKeyExchange(conn, s.rnd, s.timeout)
	if err != nil {
		conn.Close()
		return err
	}
	s.conn, s.sk, s.guard, s.state = conn, sk, NewNonceGuard(), StateConnected
	return nil
}

// Listen is the server-role IDLE action: bind (once) and accept exactly
// one connection, then run the four-round server key exchange.
func (s *Session) Listen(peer Peer) error {
	if err := s.requireState(StateIdle); err != nil {
		return err
	}
	if s.listener == nil {
		ln, err := Listen(peer)
		if err != nil {
			return exception.New(exception.IoError, "tunnel: listen failed").Apply(err)
		}
		s.listener = ln
	}
	conn, err := s.listener.Accept()
	if err != nil {
		return exception.New(exception.IoError, "tunnel: accept failed").Apply(err)
	}
	sk, err := ServerKeyExchange(conn, s.rnd, s.timeout)
	if err != nil {
		conn.Close()
		return err
	}
	s.conn, s.sk, s.guard, s.state = conn, sk, NewNonceGuard(), StateConnected
	return nil
}

// RequestEvent describes what Request observed.
type RequestEvent int

const (
	EventMessage RequestEvent = iota
	EventReexchanged
	EventError
)

// Request receives one packet and dispatches on its tag, per §4.9's
// CONNECTED/Request action.
func (s *Session) Request() (RequestEvent, []byte, error) {
	if err := s.requireState(StateConnected); err != nil {
		return EventError, nil, err
	}
	p := RecvPacket(s.conn, requestTimeout)
	switch p.Tag {
	case TagReexchange:
		var ack Packet
		ack.Tag = TagAck
		if err := SendPacket(s.conn, ack, s.timeout); err != nil {
			return EventError, nil, err
		}
		sk, err := ServerKeyExchange(s.conn, s.rnd, s.timeout)
		if err != nil {
			return EventError, nil, err
		}
		s.sk = sk
		return EventReexchanged, nil, nil

	case TagMessage:
		data, err := ReceiveMessage(s.conn, s.sk, s.guard, s.timeout)
		if err != nil {
			return EventError, nil, err
		}
		return EventMessage, data, nil

	case TagError:
		return EventError, nil, exception.New(exception.IoError, "tunnel: timed out waiting for a request")

	default:
		return EventError, nil, exception.New(exception.ProtocolError, "tunnel: unexpected request tag").Apply(p.Tag)
	}
}

// Send runs the message-send sub-protocol.
func (s *Session) Send(nr int, mode Mode, plaintext []byte) error {
	if err := s.requireState(StateConnected); err != nil {
		return err
	}
	return SendMessage(s.conn, s.sk, nr, mode, plaintext, s.rnd, s.timeout)
}

// Reexchange is the client-role CONNECTED action: offer a re-key and run
// it if the peer accepts.
func (s *Session) Reexchange() error {
	if err := s.requireState(StateConnected); err != nil {
		return err
	}
	var req Packet
	req.Tag = TagReexchange
	if err := SendPacket(s.conn, req, s.timeout); err != nil {
		return err
	}
	reply := RecvPacket(s.conn, ackTimeout)
	switch reply.Tag {
	case TagAck:
		sk, err := ClientKeyExchange(s.conn, s.rnd, s.timeout)
		if err != nil {
			return err
		}
		s.sk = sk
		return nil
	case TagRefused:
		glog.Infoln("Reexchange refused by peer")
		return nil
	case TagReexchange:
		return exception.New(exception.ProtocolError, "tunnel: both peers offered REEXCHANGE simultaneously; one side must Listen")
	default:
		return exception.New(exception.ProtocolError, "tunnel: unexpected reply to REEXCHANGE").Apply(reply.Tag)
	}
}

// Terminate closes the connection, zeroes the shared key, and returns to
// IDLE unconditionally.
func (s *Session) Terminate() error {
	s.sk.Zero()
	var err error
	if s.conn != nil {
		err = s.conn.Close()
		s.conn = nil
	}
	s.state = StateIdle
	return err
}

// Close additionally releases the listening socket, for process exit.
func (s *Session) Close() error {
	err := s.Terminate()
	if s.listener != nil {
		if lerr := s.listener.Close(); lerr != nil && err == nil {
			err = lerr
		}
		s.listener = nil
	}
	return err
}
