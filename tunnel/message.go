package tunnel

import (
	"math/rand"
	"net"
	"time"

	aescore "github.com/anvilcrypt/aesdh/aes"
	"github.com/anvilcrypt/aesdh/internal/exception"
)

// Mode selects which AES mode of operation a message is encrypted under.
type Mode int

const (
	ModeECB Mode = iota
	ModeCTR
	ModeGCM
)

// ackTimeout is the 30s wait named explicitly in §4.9 for MESSAGE/ACK and
// REEXCHANGE/ACK handshakes.
const ackTimeout = 30 * time.Second

// SendMessage runs the message-send sub-protocol of §4.9: announce
// MESSAGE, await ACK, send the round count, encrypt under mode with a
// fresh nonce, send the ciphertext, send the nonce packet, and (for ECB
// and CTR) an HMAC tag.
func SendMessage(conn net.Conn, sk SharedKey, nr int, mode Mode, plaintext []byte, rnd *rand.Rand, timeout time.Duration) error {
	var hello Packet
	hello.Tag = TagMessage
	if err := SendPacket(conn, hello, timeout); err != nil {
		return err
	}
	ack := RecvPacket(conn, ackTimeout)
	if ack.Tag != TagAck {
		return exception.New(exception.ProtocolError, "tunnel: peer did not ACK MESSAGE, got").Apply(ack.Tag)
	}

	if err := SendValue(conn, uint64(nr), TagData, timeout); err != nil {
		return err
	}

	cipher, err := aescore.New(activeKeyBytes(sk, nr))
	if err != nil {
		return err
	}
	nonce := rnd.Uint64()

	var wire []byte
	switch mode {
	case ModeECB:
		wire = cipher.EncryptECB(plaintext)
	case ModeCTR:
		wire = cipher.CTR(plaintext, nonce)
	case ModeGCM:
		ct, tag := cipher.SealGCM(nonceBytes(nonce), plaintext)
		wire = append(ct, tag[:]...)
	default:
		return exception.New(exception.ArgumentError, "tunnel: unknown mode")
	}

	if err := SendString(conn, wire, TagData, timeout); err != nil {
		return err
	}

	var noncePacket Packet
	switch mode {
	case ModeECB:
		noncePacket.Tag = TagEmpty
	case ModeCTR:
		noncePacket.Tag = TagNonce
		copy(noncePacket.Payload[:], nonceText(nonce))
	case ModeGCM:
		noncePacket.Tag = TagIV
		copy(noncePacket.Payload[:], nonceText(nonce))
	}
	if err := SendPacket(conn, noncePacket, timeout); err != nil {
		return err
	}

	if mode == ModeECB || mode == ModeCTR {
		tag := computeHMAC(sk, nr, wire)
		if err := SendString(conn, tag, TagHMAC, timeout); err != nil {
			return err
		}
	}
	return nil
}

// ReceiveMessage runs the message-receive sub-protocol, mirroring
// SendMessage exactly. The caller has already consumed the MESSAGE tag
// packet that triggered this call. guard may be nil to skip nonce-reuse
// checking.
func ReceiveMessage(conn net.Conn, sk SharedKey, guard *NonceGuard, timeout time.Duration) ([]byte, error) {
	var ack Packet
	ack.Tag = TagAck
	if err := SendPacket(conn, ack, timeout); err != nil {
		return nil, err
	}

	nrVal, _, err := RecvValue(conn, timeout)
	if err != nil {
		return nil, err
	}
	nr := int(nrVal)
	if nr != 10 && nr != 12 && nr != 14 {
		return nil, exception.New(exception.CryptoInvariant, "tunnel: received Nr outside {10,12,14}").Apply(nr)
	}

	wire, err := RecvString(conn, timeout)
	if err != nil {
		return nil, err
	}

	noncePacket := RecvPacket(conn, timeout)
	if noncePacket.Tag == TagError {
		return nil, exception.New(exception.ProtocolError, "tunnel: failed to receive nonce packet")
	}

	cipher, err := aescore.New(activeKeyBytes(sk, nr))
	if err != nil {
		return nil, err
	}

	if noncePacket.Tag == TagIV {
		nonce := parseNonceText(noncePacket.Payload[:])
		if guard != nil {
			if err := guard.CheckAndRemember(ModeGCM, nonce); err != nil {
				return nil, err
			}
		}
		if len(wire) < aescore.TagSize {
			return nil, exception.New(exception.ProtocolError, "tunnel: GCM wire payload shorter than tag size")
		}
		ct := wire[:len(wire)-aescore.TagSize]
		var tag [aescore.TagSize]byte
		copy(tag[:], wire[len(wire)-aescore.TagSize:])
		return cipher.OpenGCM(nonceBytes(nonce), ct, tag)
	}

	hmacTag, err := RecvString(conn, timeout)
	if err != nil {
		return nil, err
	}
	if !verifyHMAC(sk, nr, wire, hmacTag) {
		return nil, exception.New(exception.AuthenticationFailure, "tunnel: HMAC verification failed")
	}

	switch noncePacket.Tag {
	case TagEmpty:
		pt, err := cipher.DecryptECB(wire)
		if err != nil {
			return nil, err
		}
		return pt, nil
	case TagNonce:
		nonce := parseNonceText(noncePacket.Payload[:])
		if guard != nil {
			if err := guard.CheckAndRemember(ModeCTR, nonce); err != nil {
				return nil, err
			}
		}
		return cipher.CTR(wire, nonce), nil
	default:
		return nil, exception.New(exception.ProtocolError, "tunnel: unexpected nonce packet tag").Apply(noncePacket.Tag)
	}
}
