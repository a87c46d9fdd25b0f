package testbot

import (
	"net"
	"testing"
	"time"

	"pitwall/server/internal/wire"
)

// TestHandshakeParsesWelcome verifies the bot's handshake reader against a
// scripted server side speaking the real frame format.
func TestHandshakeParsesWelcome(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	go func() {
		buf := make([]byte, 512)
		n, _ := server.Read(buf)
		_, _, _ = wire.DecodePayload(buf[2:n]) // consume the JoinRequest frame

		welcome := wire.NewCarConnection{ServerName: "test server", Track: "monza"}
		frame := wire.EncodeFrame(wire.EncodePayload(wire.IDNewCarConnection, welcome))
		server.Write(frame)
	}()

	cfg := Config{GUID: "guid-1", DriverName: "Driver One", CarModel: "ks_ferrari_sf70h"}
	welcome, err := handshake(client, cfg)
	if err != nil {
		t.Fatalf("handshake: %v", err)
	}
	if welcome.ServerName != "test server" || welcome.Track != "monza" {
		t.Errorf("unexpected welcome: %+v", welcome)
	}
}

// TestHandshakeRejectsWrongPassword verifies a rejection reply surfaces as
// an error instead of hanging.
func TestHandshakeRejectsWrongPassword(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	go func() {
		buf := make([]byte, 512)
		server.Read(buf)
		frame := wire.EncodeFrame(wire.EncodePayload(wire.IDWrongPassword, wire.WrongPassword{}))
		server.Write(frame)
	}()

	cfg := Config{GUID: "guid-1", DriverName: "Driver One", CarModel: "ks_ferrari_sf70h", Password: "wrong"}
	_, err := handshake(client, cfg)
	if err == nil {
		t.Fatal("expected an error for a wrong-password rejection")
	}
}

// TestSendCarUpdateProducesDecodableFrame confirms the synthesized motion
// packet round-trips through the real decoder.
func TestSendCarUpdateProducesDecodableFrame(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	received := make(chan wire.CarUpdate, 1)
	go func() {
		buf := make([]byte, 2048)
		n, err := server.Read(buf)
		if err != nil {
			return
		}
		_, decoded, err := wire.DecodePayload(buf[:n])
		if err != nil {
			return
		}
		received <- decoded.(wire.CarUpdate)
	}()

	sendCarUpdate(client, 0, 7, time.Now())

	select {
	case got := <-received:
		if got.Sequence != 7 {
			t.Errorf("expected sequence 7, got %d", got.Sequence)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for CarUpdate frame")
	}
}
