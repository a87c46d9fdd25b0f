package wire

import (
	"encoding/binary"
	"math"
)

// Writer accumulates an encoded packet body. Zero value is ready to use.
type Writer struct {
	buf []byte
}

func NewWriter() *Writer { return &Writer{} }

func (w *Writer) Bytes() []byte { return w.buf }

func (w *Writer) U8(v uint8) { w.buf = append(w.buf, v) }

func (w *Writer) I8(v int8) { w.buf = append(w.buf, byte(v)) }

func (w *Writer) U16(v uint16) { w.buf = binary.LittleEndian.AppendUint16(w.buf, v) }

func (w *Writer) I16(v int16) { w.U16(uint16(v)) }

func (w *Writer) U32(v uint32) { w.buf = binary.LittleEndian.AppendUint32(w.buf, v) }

func (w *Writer) I32(v int32) { w.U32(uint32(v)) }

func (w *Writer) U64(v uint64) { w.buf = binary.LittleEndian.AppendUint64(w.buf, v) }

func (w *Writer) I64(v int64) { w.U64(uint64(v)) }

func (w *Writer) F32(v float32) { w.U32(math.Float32bits(v)) }

func (w *Writer) F64(v float64) { w.U64(math.Float64bits(v)) }

func (w *Writer) Bool(v bool) {
	if v {
		w.U8(1)
	} else {
		w.U8(0)
	}
}

// ASCIIString writes a u8-length-prefixed byte string. Callers are
// responsible for keeping strings short enough to fit in a byte.
func (w *Writer) ASCIIString(s string) {
	w.U8(uint8(len(s)))
	w.buf = append(w.buf, s...)
}

// WideString writes a u8-char-count-prefixed sequence of UTF-32LE code
// points.
func (w *Writer) WideString(s string) {
	runes := []rune(s)
	w.U8(uint8(len(runes)))
	for _, r := range runes {
		w.U32(uint32(r))
	}
}

// BigWideString is WideString with a u16 length prefix.
func (w *Writer) BigWideString(s string) {
	runes := []rune(s)
	w.U16(uint16(len(runes)))
	for _, r := range runes {
		w.U32(uint32(r))
	}
}

func (w *Writer) MD5(b [16]byte) { w.buf = append(w.buf, b[:]...) }

// WriteVecU8 writes a u8-length-prefixed vector of T.
func WriteVecU8[T any](w *Writer, items []T, elem func(*Writer, T)) {
	w.U8(uint8(len(items)))
	for _, it := range items {
		elem(w, it)
	}
}

// WriteVecU16 writes a u16-length-prefixed vector of T.
func WriteVecU16[T any](w *Writer, items []T, elem func(*Writer, T)) {
	w.U16(uint16(len(items)))
	for _, it := range items {
		elem(w, it)
	}
}

// WriteOptional writes a boolean presence flag followed by T when non-nil.
func WriteOptional[T any](w *Writer, v *T, elem func(*Writer, T)) {
	if v == nil {
		w.Bool(false)
		return
	}
	w.Bool(true)
	elem(w, *v)
}
