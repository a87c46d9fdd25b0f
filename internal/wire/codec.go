package wire

import "encoding/binary"

// Codec accumulates bytes read off a TCP stream in short, arbitrarily-sized
// chunks and yields complete frames as they become available. It holds a
// residual receive buffer so a frame split across reads is never lost —
// callers feed it with Accept and drain with NextFrame until it returns nil.
type Codec struct {
	recv []byte
}

func NewCodec() *Codec { return &Codec{} }

// Accept appends newly-read bytes to the residual buffer.
func (c *Codec) Accept(b []byte) {
	c.recv = append(c.recv, b...)
}

// NextFrame extracts the next complete length-prefixed frame's payload, or
// (nil, nil) if the buffer doesn't yet hold a whole frame.
func (c *Codec) NextFrame() ([]byte, error) {
	if len(c.recv) < 2 {
		return nil, nil
	}
	length := binary.LittleEndian.Uint16(c.recv[:2])
	total := 2 + int(length)
	if len(c.recv) < total {
		return nil, nil
	}
	payload := make([]byte, length)
	copy(payload, c.recv[2:total])
	rest := make([]byte, len(c.recv)-total)
	copy(rest, c.recv[total:])
	c.recv = rest
	return payload, nil
}

// EncodeFrame prefixes payload with its little-endian u16 length for TCP.
func EncodeFrame(payload []byte) []byte {
	out := make([]byte, 2+len(payload))
	binary.LittleEndian.PutUint16(out, uint16(len(payload)))
	copy(out[2:], payload)
	return out
}
