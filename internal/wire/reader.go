// Package wire implements the binary framing codec and packet catalogue for
// the pitwall control (TCP) and position (UDP) transports.
package wire

import (
	"encoding/binary"
	"errors"
	"math"
)

// ErrShortBuffer is returned when a primitive read runs past the end of the
// bounded view handed to it.
var ErrShortBuffer = errors.New("wire: short buffer")

// ErrMalformed is returned for values that decode but violate a wire
// invariant (bad bool, oversized vector, invalid code point, unknown id).
var ErrMalformed = errors.New("wire: malformed packet")

// MaxVectorLen bounds every length-prefixed vector on the wire.
const MaxVectorLen = 1 << 20

// Reader decodes primitives from a bounded byte slice. It never reads past
// the slice it was constructed with — callers hand it exactly one frame's
// (or one datagram's) payload, which is what makes the length-to-end
// decoding used by Checksum and RaceOver possible.
type Reader struct {
	buf []byte
	pos int
}

func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// Remaining returns the number of unread bytes in the bounded view.
func (r *Reader) Remaining() int { return len(r.buf) - r.pos }

// Tail returns the unread portion of the view without advancing it.
func (r *Reader) Tail() []byte { return r.buf[r.pos:] }

func (r *Reader) take(n int) ([]byte, error) {
	if r.Remaining() < n {
		return nil, ErrShortBuffer
	}
	b := r.buf[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

func (r *Reader) U8() (uint8, error) {
	b, err := r.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *Reader) I8() (int8, error) {
	v, err := r.U8()
	return int8(v), err
}

func (r *Reader) U16() (uint16, error) {
	b, err := r.take(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (r *Reader) I16() (int16, error) {
	v, err := r.U16()
	return int16(v), err
}

func (r *Reader) U32() (uint32, error) {
	b, err := r.take(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (r *Reader) I32() (int32, error) {
	v, err := r.U32()
	return int32(v), err
}

func (r *Reader) U64() (uint64, error) {
	b, err := r.take(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

func (r *Reader) I64() (int64, error) {
	v, err := r.U64()
	return int64(v), err
}

func (r *Reader) F32() (float32, error) {
	v, err := r.U32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

func (r *Reader) F64() (float64, error) {
	v, err := r.U64()
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(v), nil
}

func (r *Reader) Bool() (bool, error) {
	v, err := r.U8()
	if err != nil {
		return false, err
	}
	switch v {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, ErrMalformed
	}
}

// ASCIIString reads a u8-length-prefixed byte string.
func (r *Reader) ASCIIString() (string, error) {
	n, err := r.U8()
	if err != nil {
		return "", err
	}
	b, err := r.take(int(n))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// WideString reads a u8-char-count-prefixed sequence of UTF-32LE code
// points.
func (r *Reader) WideString() (string, error) {
	n, err := r.U8()
	if err != nil {
		return "", err
	}
	return r.wideRunes(int(n))
}

// BigWideString is WideString with a u16 length prefix, used only by the
// welcome message.
func (r *Reader) BigWideString() (string, error) {
	n, err := r.U16()
	if err != nil {
		return "", err
	}
	return r.wideRunes(int(n))
}

func (r *Reader) wideRunes(n int) (string, error) {
	runes := make([]rune, 0, n)
	for i := 0; i < n; i++ {
		cp, err := r.U32()
		if err != nil {
			return "", err
		}
		if cp > 0x10FFFF || (cp >= 0xD800 && cp <= 0xDFFF) {
			return "", ErrMalformed
		}
		runes = append(runes, rune(cp))
	}
	return string(runes), nil
}

func (r *Reader) MD5() ([16]byte, error) {
	var out [16]byte
	b, err := r.take(16)
	if err != nil {
		return out, err
	}
	copy(out[:], b)
	return out, nil
}

// ReadVecU8 reads a u8-length-prefixed vector of T.
func ReadVecU8[T any](r *Reader, elem func(*Reader) (T, error)) ([]T, error) {
	n, err := r.U8()
	if err != nil {
		return nil, err
	}
	return readVec(r, int(n), elem)
}

// ReadVecU16 reads a u16-length-prefixed vector of T.
func ReadVecU16[T any](r *Reader, elem func(*Reader) (T, error)) ([]T, error) {
	n, err := r.U16()
	if err != nil {
		return nil, err
	}
	return readVec(r, int(n), elem)
}

func readVec[T any](r *Reader, n int, elem func(*Reader) (T, error)) ([]T, error) {
	if n > MaxVectorLen {
		return nil, ErrMalformed
	}
	out := make([]T, 0, n)
	for i := 0; i < n; i++ {
		v, err := elem(r)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// ReadOptional reads a boolean presence flag followed by T when true.
func ReadOptional[T any](r *Reader, elem func(*Reader) (T, error)) (*T, error) {
	present, err := r.Bool()
	if err != nil {
		return nil, err
	}
	if !present {
		return nil, nil
	}
	v, err := elem(r)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// RemainingMD5s decodes every whole 16-byte group left in the view; used by
// Checksum, which carries no explicit count.
func (r *Reader) RemainingMD5s() ([][16]byte, error) {
	count := r.Remaining() / 16
	out := make([][16]byte, 0, count)
	for i := 0; i < count; i++ {
		v, err := r.MD5()
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
