package tunnel

import (
	"fmt"
	"net"
	"net/url"
	"time"

	kcp "github.com/xtaci/kcp-go/v5"

	"github.com/anvilcrypt/aesdh/internal/exception"
	"github.com/anvilcrypt/aesdh/internal/glog"
)

// dialTimeout bounds how long a TCP/KCP dial may take before giving up.
const dialTimeout = 10 * time.Second

const (
	kcpFecDataShard   = 0
	kcpFecParityShard = 0
	dscpEF            = 46
)

// Peer is a parsed endpoint address of the form "tcp://host:port",
// "kcp://host:port", or a bare "host:port" (treated as TCP, a shorthand
// the wire protocol itself never sees).
type Peer struct {
	Scheme string // "tcp" or "kcp"
	Host   string
	Port   string
}

// ParsePeer parses a peer address string.
func ParsePeer(s string) (Peer, error) {
	if host, port, err := net.SplitHostPort(s); err == nil {
		return Peer{Scheme: "tcp", Host: host, Port: port}, nil
	}
	u, err := url.Parse(s)
	if err != nil {
		return Peer{}, exception.New(exception.ArgumentError, "tunnel: invalid peer address").Apply(s)
	}
	switch u.Scheme {
	case "tcp", "kcp":
	default:
		return Peer{}, exception.New(exception.ArgumentError, "tunnel: unsupported transport scheme").Apply(u.Scheme)
	}
	return Peer{Scheme: u.Scheme, Host: u.Hostname(), Port: u.Port()}, nil
}

func (p Peer) addr() string {
	return net.JoinHostPort(p.Host, p.Port)
}

// Dial connects to a peer over the scheme-selected transport.
func Dial(p Peer) (net.Conn, error) {
	switch p.Scheme {
	case "kcp":
		conn, err := kcp.DialWithOptions(p.addr(), nil, kcpFecDataShard, kcpFecParityShard)
		if err != nil {
			return nil, err
		}
		tuneKcpConn(conn)
		return conn, nil
	default:
		return net.DialTimeout("tcp", p.addr(), dialTimeout)
	}
}

// Listen opens a listener on the scheme-selected transport.
func Listen(p Peer) (net.Listener, error) {
	switch p.Scheme {
	case "kcp":
		ln, err := kcp.ListenWithOptions(net.JoinHostPort("", p.Port), nil, kcpFecDataShard, kcpFecParityShard)
		if err != nil {
			return nil, err
		}
		if err := ln.SetDSCP(dscpEF); err != nil {
			glog.Warningln("SetDSCP:", err)
		}
		return ln, nil
	default:
		return net.Listen("tcp", net.JoinHostPort("", p.Port))
	}
}

func tuneKcpConn(conn *kcp.UDPSession) {
	// "fast" profile: nodelay, 20ms interval, 2-ACK fast resend, no congestion control.
	conn.SetNoDelay(1, 20, 2, 1)
	conn.SetACKNoDelay(true)
	conn.SetStreamMode(true)
	conn.SetWriteDelay(false)
	if err := conn.SetDSCP(dscpEF); err != nil {
		glog.Warningln("SetDSCP:", err)
	}
}

func (p Peer) String() string {
	return fmt.Sprintf("%s://%s", p.Scheme, p.addr())
}
