package server

import (
	"net"
	"testing"

	"pitwall/server/internal/config"
	"pitwall/server/internal/wire"
	"pitwall/server/internal/world"
)

func testServerAndConn(t *testing.T) (*Server, *tcpConn) {
	t.Helper()
	cfg := &config.Config{
		Server: config.Server{Name: "test", ClientSendHz: 60},
		Game:   config.Game{ResultScreenTimeSec: 15, RaceOverTimeSec: 60},
		Weather: []config.WeatherTemplate{{Graphics: "3_clear"}},
		Sessions: []config.SessionConfig{{Name: "Practice", Type: 1, TimeMin: 10}},
		Cars:     []string{"ks_ferrari_sf70h", "ks_ferrari_sf70h"},
	}
	s := New(cfg, nil)
	client := world.NewClient(0, "guid-1", world.Driver{Name: "Driver One"}, net.ParseIP("127.0.0.1"))
	s.registry.Insert(client)

	serverSide, _ := net.Pipe()
	tc := &tcpConn{
		raw:      serverSide,
		client:   client,
		inbound:  make(chan inboundItem, 32),
		outbound: newOutboundQueue(),
		done:     make(chan struct{}),
	}
	s.conns[client.CarID] = tc
	return s, tc
}

func TestP2PCountProbeRepliesWithCurrentValue(t *testing.T) {
	s, tc := testServerAndConn(t)
	s.handleTCPPacket(tc, inboundItem{id: wire.IDP2PCount, pkt: wire.P2PCount{CarID: 0, Count: -1}})

	frame, ok := tc.outbound.Pop()
	if !ok {
		t.Fatal("expected a reply frame")
	}
	id, decoded, err := wire.DecodePayload(frame[2:])
	if err != nil || id != wire.IDP2PCount {
		t.Fatalf("expected P2PCount reply, got id=%v err=%v", id, err)
	}
	if decoded.(wire.P2PCount).Count != -1 {
		t.Errorf("expected probe to echo -1, got %d", decoded.(wire.P2PCount).Count)
	}
}

func TestChatRebroadcastsWithSenderCarID(t *testing.T) {
	s, tc := testServerAndConn(t)
	s.handleTCPPacket(tc, inboundItem{id: wire.IDChat, pkt: wire.Chat{Message: "hello"}})

	frame, ok := tc.outbound.Pop()
	if !ok {
		t.Fatal("expected a broadcast frame")
	}
	_, decoded, err := wire.DecodePayload(frame[2:])
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	chat := decoded.(wire.Chat)
	if chat.CarID != 0 || chat.Message != "hello" {
		t.Errorf("unexpected chat broadcast: %+v", chat)
	}
}

func TestDamageUpdateStampsCarIDAndUpdatesClient(t *testing.T) {
	s, tc := testServerAndConn(t)
	s.handleTCPPacket(tc, inboundItem{id: wire.IDDamageUpdate, pkt: wire.DamageUpdate{Engine: 5.8, RearSuspension: 5.8}})

	frame, ok := tc.outbound.Pop()
	if !ok {
		t.Fatal("expected a broadcast frame")
	}
	_, decoded, err := wire.DecodePayload(frame[2:])
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	dmg := decoded.(wire.DamageUpdate)
	if dmg.CarID != 0 {
		t.Errorf("expected CarID stamped to 0, got %d", dmg.CarID)
	}
	if tc.client.Damage.Engine != 5.8 || tc.client.Damage.RearSuspension != 5.8 {
		t.Errorf("expected client damage updated, got %+v", tc.client.Damage)
	}
	if snap := tc.client.SnapshotMotion(); snap.Gear != 0 {
		t.Errorf("unrelated field mutated unexpectedly")
	}
}

func TestCarlistRequestReturnsSlotsFromIndex(t *testing.T) {
	s, tc := testServerAndConn(t)
	s.handleTCPPacket(tc, inboundItem{id: wire.IDCarlistRequest, pkt: wire.CarlistRequest{Index: 1}})

	frame, ok := tc.outbound.Pop()
	if !ok {
		t.Fatal("expected a CarList reply")
	}
	_, decoded, err := wire.DecodePayload(frame[2:])
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	list := decoded.(wire.CarList)
	if len(list.Cars) != 1 || list.Cars[0].Index != 1 {
		t.Errorf("expected one car starting at index 1, got %+v", list.Cars)
	}
}
