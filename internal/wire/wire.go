// Package wire implements the binary protocol spoken between the
// controller and a worker process.
//
// Every value has a deterministic encoding. Discriminated unions are a
// single tag byte followed by the active variant's fields in
// declaration order; an unrecognized tag is a hard decode error, never
// a default case. Text is raw UTF-8 behind a uvarint length prefix.
// Sequences are a uvarint count followed by each element in order.
// Multisets are encoded as ascending-sorted sequences with duplicates
// preserved. Durations are encoded as an exact rational so the
// round-trip is lossless across platforms with differing float formats.
//
// Encode functions append to a byte slice; Decode functions consume a
// prefix and return the remainder. decode(encode(x)) == x for every
// modeled value x.
package wire

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"time"
)

// maxFrame bounds a single protocol frame. A frame larger than this is
// treated as corruption.
const maxFrame = 64 << 20

// DecodeError reports malformed or unrecognized bytes on the wire.
// Partial protocol corruption cannot be resynchronized, so callers must
// treat it as fatal to the worker session.
type DecodeError struct {
	msg string
}

func (e *DecodeError) Error() string {
	return "wire: " + e.msg
}

func decodeErrf(format string, args ...any) error {
	return &DecodeError{msg: fmt.Sprintf(format, args...)}
}

// IsDecodeError reports whether err is a protocol decode error.
func IsDecodeError(err error) bool {
	var de *DecodeError
	return errors.As(err, &de)
}

// Trailing builds the decode error for bytes left over after a
// complete message.
func Trailing(n int) error {
	return decodeErrf("%d trailing bytes after message", n)
}

func appendUvarint(b []byte, v uint64) []byte {
	return binary.AppendUvarint(b, v)
}

func decodeUvarint(b []byte, what string) (uint64, []byte, error) {
	v, n := binary.Uvarint(b)
	if n <= 0 {
		return 0, nil, decodeErrf("truncated varint in %s", what)
	}

	return v, b[n:], nil
}

func appendVarint(b []byte, v int64) []byte {
	return binary.AppendVarint(b, v)
}

func decodeVarint(b []byte, what string) (int64, []byte, error) {
	v, n := binary.Varint(b)
	if n <= 0 {
		return 0, nil, decodeErrf("truncated varint in %s", what)
	}

	return v, b[n:], nil
}

// AppendBool encodes a boolean as a single byte.
func AppendBool(b []byte, v bool) []byte {
	if v {
		return append(b, 1)
	}

	return append(b, 0)
}

// DecodeBool decodes a boolean. Any byte other than 0 or 1 is a decode
// error.
func DecodeBool(b []byte) (bool, []byte, error) {
	if len(b) == 0 {
		return false, nil, decodeErrf("truncated bool")
	}

	switch b[0] {
	case 0:
		return false, b[1:], nil
	case 1:
		return true, b[1:], nil
	default:
		return false, nil, decodeErrf("invalid bool byte 0x%02x", b[0])
	}
}

// AppendString encodes text as a uvarint length prefix followed by raw
// UTF-8 bytes.
func AppendString(b []byte, s string) []byte {
	b = appendUvarint(b, uint64(len(s)))
	return append(b, s...)
}

// DecodeString decodes a length-prefixed string.
func DecodeString(b []byte) (string, []byte, error) {
	n, rest, err := decodeUvarint(b, "string length")
	if err != nil {
		return "", nil, err
	}

	if uint64(len(rest)) < n {
		return "", nil, decodeErrf("string of %d bytes exceeds remaining %d", n, len(rest))
	}

	return string(rest[:n]), rest[n:], nil
}

// AppendStrings encodes an ordered sequence of strings.
func AppendStrings(b []byte, ss []string) []byte {
	b = appendUvarint(b, uint64(len(ss)))
	for _, s := range ss {
		b = AppendString(b, s)
	}

	return b
}

// DecodeStrings decodes an ordered sequence of strings. An empty
// sequence decodes as nil.
func DecodeStrings(b []byte) ([]string, []byte, error) {
	n, rest, err := decodeUvarint(b, "sequence length")
	if err != nil {
		return nil, nil, err
	}

	var ss []string
	for i := uint64(0); i < n; i++ {
		var s string
		s, rest, err = DecodeString(rest)
		if err != nil {
			return nil, nil, err
		}

		ss = append(ss, s)
	}

	return ss, rest, nil
}

// AppendDuration encodes a duration as an exact rational number of
// seconds: a varint numerator and a uvarint denominator, reduced so the
// denominator always divides nanosecondsPerSecond.
func AppendDuration(b []byte, d time.Duration) []byte {
	num := int64(d)
	den := int64(time.Second)

	g := gcd(num, den)
	if g > 1 {
		num /= g
		den /= g
	}

	b = appendVarint(b, num)
	return appendUvarint(b, uint64(den))
}

// DecodeDuration decodes a rational duration.
func DecodeDuration(b []byte) (time.Duration, []byte, error) {
	num, rest, err := decodeVarint(b, "duration numerator")
	if err != nil {
		return 0, nil, err
	}

	den, rest, err := decodeUvarint(rest, "duration denominator")
	if err != nil {
		return 0, nil, err
	}

	if den == 0 || int64(time.Second)%int64(den) != 0 {
		return 0, nil, decodeErrf("invalid duration denominator %d", den)
	}

	return time.Duration(num * (int64(time.Second) / int64(den))), rest, nil
}

func gcd(a, b int64) int64 {
	if a < 0 {
		a = -a
	}

	for b != 0 {
		a, b = b, a%b
	}

	return a
}

// WriteFrame writes a length-prefixed frame to w.
func WriteFrame(w io.Writer, payload []byte) error {
	header := binary.AppendUvarint(nil, uint64(len(payload)))
	if _, err := w.Write(header); err != nil {
		return err
	}

	_, err := w.Write(payload)
	return err
}

// ReadFrame reads one length-prefixed frame from r.
func ReadFrame(r *bufio.Reader) ([]byte, error) {
	n, err := binary.ReadUvarint(r)
	if err != nil {
		return nil, err
	}

	if n > maxFrame {
		return nil, decodeErrf("frame of %d bytes exceeds limit", n)
	}

	payload := make([]byte, n)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, err
	}

	return payload, nil
}
