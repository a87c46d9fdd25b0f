package wire

import (
	"bytes"
	"testing"
)

func TestCodecHandlesSplitReads(t *testing.T) {
	payload := EncodePayload(IDPulse, Pulse{})
	frame := EncodeFrame(payload)

	c := NewCodec()
	// Feed one byte at a time to exercise the residual buffer.
	var got [][]byte
	for i := 0; i < len(frame); i++ {
		c.Accept(frame[i : i+1])
		for {
			f, err := c.NextFrame()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if f == nil {
				break
			}
			got = append(got, f)
		}
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 frame, got %d", len(got))
	}
	if !bytes.Equal(got[0], payload) {
		t.Errorf("frame payload mismatch: got %v want %v", got[0], payload)
	}
}

func TestCodecYieldsSamePacketSequenceForAnyPartitioning(t *testing.T) {
	var stream []byte
	want := []PacketID{IDPulse, IDDisconnect, IDPing}
	for _, id := range want {
		var body []byte
		switch id {
		case IDPulse:
			body = EncodePayload(IDPulse, Pulse{})
		case IDDisconnect:
			body = EncodePayload(IDDisconnect, Disconnect{})
		case IDPing:
			body = EncodePayload(IDPing, Ping{SentTimeUnixMs: 42})
		}
		stream = append(stream, EncodeFrame(body)...)
	}

	// Partition the full stream into 3-byte chunks; arbitrary w.r.t. frame
	// boundaries.
	c := NewCodec()
	var ids []PacketID
	for i := 0; i < len(stream); i += 3 {
		end := i + 3
		if end > len(stream) {
			end = len(stream)
		}
		c.Accept(stream[i:end])
		for {
			f, err := c.NextFrame()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if f == nil {
				break
			}
			id, _, err := DecodePayload(f)
			if err != nil {
				t.Fatalf("decode payload: %v", err)
			}
			ids = append(ids, id)
		}
	}

	if len(ids) != len(want) {
		t.Fatalf("got %d packets, want %d", len(ids), len(want))
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("packet %d: got %v want %v", i, ids[i], want[i])
		}
	}
}

func TestEncodeFrameRoundTrip(t *testing.T) {
	payload := []byte{1, 2, 3, 4, 5}
	frame := EncodeFrame(payload)
	c := NewCodec()
	c.Accept(frame)
	got, err := c.NextFrame()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("got %v want %v", got, payload)
	}
	if next, _ := c.NextFrame(); next != nil {
		t.Errorf("expected no further frames, got %v", next)
	}
}
