package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

const (
	Magic   uint32 = 0x52494246 // "RIBF"
	Version uint16 = 1

	headerLen = 12
)

var (
	ErrShortHeader     = errors.New("wire: short frame header")
	ErrBadMagic        = errors.New("wire: bad magic")
	ErrBadVersion      = errors.New("wire: unsupported version")
	ErrPayloadTooLarge = errors.New("wire: payload too large")
)

// Header is the fixed per-command frame header.
type Header struct {
	Magic      uint32
	Version    uint16
	Op         uint16
	PayloadLen uint32
}

// Limits constrains frame decode memory use.
type Limits struct {
	MaxPayloadBytes uint32
}

func DefaultLimits() Limits {
	return Limits{MaxPayloadBytes: 16 * 1024 * 1024}
}

func EncodeHeader(h Header) []byte {
	buf := make([]byte, headerLen)
	binary.BigEndian.PutUint32(buf[0:4], h.Magic)
	binary.BigEndian.PutUint16(buf[4:6], h.Version)
	binary.BigEndian.PutUint16(buf[6:8], h.Op)
	binary.BigEndian.PutUint32(buf[8:12], h.PayloadLen)
	return buf
}

func DecodeHeader(b []byte) (Header, error) {
	if len(b) != headerLen {
		return Header{}, fmt.Errorf("%w: %d bytes", ErrShortHeader, len(b))
	}
	return Header{
		Magic:      binary.BigEndian.Uint32(b[0:4]),
		Version:    binary.BigEndian.Uint16(b[4:6]),
		Op:         binary.BigEndian.Uint16(b[6:8]),
		PayloadLen: binary.BigEndian.Uint32(b[8:12]),
	}, nil
}

// ReadFrame reads one frame. Returns io.EOF cleanly at end of stream.
func ReadFrame(r io.Reader, limits Limits) (Header, []byte, error) {
	var fixed [headerLen]byte
	if _, err := io.ReadFull(r, fixed[:]); err != nil {
		if errors.Is(err, io.EOF) {
			return Header{}, nil, io.EOF
		}
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return Header{}, nil, ErrShortHeader
		}
		return Header{}, nil, err
	}
	h, err := DecodeHeader(fixed[:])
	if err != nil {
		return Header{}, nil, err
	}
	if h.Magic != Magic {
		return Header{}, nil, fmt.Errorf("%w: 0x%08x", ErrBadMagic, h.Magic)
	}
	if h.Version != Version {
		return Header{}, nil, fmt.Errorf("%w: %d", ErrBadVersion, h.Version)
	}
	if h.PayloadLen > limits.MaxPayloadBytes {
		return Header{}, nil, ErrPayloadTooLarge
	}
	payload := make([]byte, h.PayloadLen)
	if h.PayloadLen > 0 {
		if _, err := io.ReadFull(r, payload); err != nil {
			return Header{}, nil, err
		}
	}
	return h, payload, nil
}

// WriteFrame writes one frame for op with payload.
func WriteFrame(w io.Writer, op uint16, payload []byte, limits Limits) error {
	if uint32(len(payload)) > limits.MaxPayloadBytes {
		return ErrPayloadTooLarge
	}
	h := Header{Magic: Magic, Version: Version, Op: op, PayloadLen: uint32(len(payload))}
	if _, err := w.Write(EncodeHeader(h)); err != nil {
		return err
	}
	if len(payload) > 0 {
		if _, err := w.Write(payload); err != nil {
			return err
		}
	}
	return nil
}
