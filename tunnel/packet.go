package tunnel

import (
	"io"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/anvilcrypt/aesdh/internal/exception"
)

// PacketSize is the fixed payload size of every frame on the wire.
const PacketSize = 1024

// Tag identifies what a packet's payload means.
type Tag byte

const (
	TagError Tag = iota
	TagEmpty
	TagData
	TagHMAC
	TagNonce
	TagIV
	TagFinal
	TagMessage
	TagAck
	TagRefused
	TagReexchange
	TagVerify
)

func (t Tag) String() string {
	switch t {
	case TagError:
		return "ERROR"
	case TagEmpty:
		return "EMPTY"
	case TagData:
		return "DATA"
	case TagHMAC:
		return "HMAC"
	case TagNonce:
		return "NONCE"
	case TagIV:
		return "IV"
	case TagFinal:
		return "FINAL"
	case TagMessage:
		return "MESSAGE"
	case TagAck:
		return "ACK"
	case TagRefused:
		return "REFUSED"
	case TagReexchange:
		return "REEXCHANGE"
	case TagVerify:
		return "VERIFY"
	default:
		return "UNKNOWN"
	}
}

// Packet is the fixed-size frame exchanged between peers.
type Packet struct {
	Tag     Tag
	Payload [PacketSize]byte
}

// defaultTimeout is the wait applied where the caller doesn't name one
// (§5: "default 5 s; 30 s where noted").
const defaultTimeout = 5 * time.Second

// SendPacket waits up to timeout for the connection to be writable and
// transmits the whole fixed-size frame.
func SendPacket(conn net.Conn, p Packet, timeout time.Duration) error {
	if err := conn.SetWriteDeadline(time.Now().Add(timeout)); err != nil {
		return exception.New(exception.IoError, "tunnel: set write deadline").Apply(err)
	}
	defer conn.SetWriteDeadline(time.Time{})

	var buf [1 + PacketSize]byte
	buf[0] = byte(p.Tag)
	copy(buf[1:], p.Payload[:])
	if _, err := conn.Write(buf[:]); err != nil {
		return exception.New(exception.IoError, "tunnel: send_packet failed").Apply(err)
	}
	return nil
}

// RecvPacket waits up to timeout for the connection to be readable. On
// timeout or any read failure it returns a packet tagged ERROR rather
// than an error value, matching the wire protocol's own error signaling.
func RecvPacket(conn net.Conn, timeout time.Duration) Packet {
	if err := conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		return Packet{Tag: TagError}
	}
	defer conn.SetReadDeadline(time.Time{})

	var buf [1 + PacketSize]byte
	if _, err := io.ReadFull(conn, buf[:]); err != nil {
		return Packet{Tag: TagError}
	}
	var p Packet
	p.Tag = Tag(buf[0])
	copy(p.Payload[:], buf[1:])
	return p
}

// SendValue renders v as decimal text, zero-padded/truncated to
// PacketSize, and sends it under tag.
func SendValue(conn net.Conn, v uint64, tag Tag, timeout time.Duration) error {
	var p Packet
	p.Tag = tag
	text := strconv.FormatUint(v, 10)
	copy(p.Payload[:], text)
	return SendPacket(conn, p, timeout)
}

// RecvValue reads one packet and parses its payload as a decimal uint64.
func RecvValue(conn net.Conn, timeout time.Duration) (uint64, Tag, error) {
	p := RecvPacket(conn, timeout)
	if p.Tag == TagError {
		return 0, TagError, exception.New(exception.ProtocolError, "tunnel: recv_value timed out or failed")
	}
	text := strings.TrimRight(string(p.Payload[:]), "\x00")
	v, err := strconv.ParseUint(text, 10, 64)
	if err != nil {
		return 0, p.Tag, exception.New(exception.ProtocolError, "tunnel: recv_value malformed payload").Apply(err)
	}
	return v, p.Tag, nil
}

// SendString sends msg's length as a DATA value, then the message bytes
// split across ceil(len/PacketSize) packets tagged with dataTag, the
// last one tagged FINAL instead. An empty message is sent as a single
// empty FINAL packet.
func SendString(conn net.Conn, msg []byte, dataTag Tag, timeout time.Duration) error {
	if err := SendValue(conn, uint64(len(msg)), TagData, timeout); err != nil {
		return err
	}
	if len(msg) == 0 {
		var p Packet
		p.Tag = TagFinal
		return SendPacket(conn, p, timeout)
	}
	for off := 0; off < len(msg); off += PacketSize {
		end := off + PacketSize
		if end > len(msg) {
			end = len(msg)
		}
		var p Packet
		if end >= len(msg) {
			p.Tag = TagFinal
		} else {
			p.Tag = dataTag
		}
		copy(p.Payload[:], msg[off:end])
		if err := SendPacket(conn, p, timeout); err != nil {
			return err
		}
	}
	return nil
}

// RecvString reads a length value followed by packets until one tagged
// FINAL, concatenating and truncating to the announced length.
func RecvString(conn net.Conn, timeout time.Duration) ([]byte, error) {
	length, tag, err := RecvValue(conn, timeout)
	if err != nil {
		return nil, err
	}
	if tag != TagData {
		return nil, exception.New(exception.ProtocolError, "tunnel: recv_string expected a DATA length packet, got").Apply(tag)
	}

	buf := make([]byte, 0, length)
	for {
		p := RecvPacket(conn, timeout)
		if p.Tag == TagError {
			return nil, exception.New(exception.ProtocolError, "tunnel: recv_string timed out or failed")
		}
		buf = append(buf, p.Payload[:]...)
		if p.Tag == TagFinal {
			break
		}
	}
	if uint64(len(buf)) > length {
		buf = buf[:length]
	}
	return buf, nil
}
