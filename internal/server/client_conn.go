package server

import (
	"context"
	"log/slog"
	"net"
	"strings"
	"time"

	"pitwall/server/internal/metrics"
	"pitwall/server/internal/wire"
	"pitwall/server/internal/world"
)

const (
	readScratch    = 512
	readTimeout    = 10 * time.Second
	inboundQueueCap = 32
)

// inboundItem is one decoded TCP packet handed to the tick loop.
type inboundItem struct {
	id  wire.PacketID
	pkt any
}

// tcpConn is a single accepted TCP stream, from handshake to teardown. The
// reader and writer halves run as independent goroutines per §4.3; either's
// failure cancels the other.
type tcpConn struct {
	raw      net.Conn
	client   *world.Client
	inbound  chan inboundItem // bounded 32, backpressures the reader
	outbound *outboundQueue   // unbounded
	done     chan struct{}
	met      *metrics.Registry
}

// handshake reads exactly one frame (must be JoinRequest), validates it,
// reserves a slot, and on success hands the new connection to the tick
// loop. A wrong protocol, wrong password, or missing slot gets the matching
// typed rejection before the close; a read or decode failure, or a first
// frame that is not JoinRequest, closes with no reply.
func (s *Server) handshake(ctx context.Context, conn net.Conn) {
	conn.SetReadDeadline(time.Now().Add(readTimeout))
	codec := wire.NewCodec()
	buf := make([]byte, readScratch)

	var payload []byte
	for payload == nil {
		n, err := conn.Read(buf)
		if err != nil {
			slog.Debug("handshake read error", "remote", conn.RemoteAddr(), "err", err)
			conn.Close()
			return
		}
		codec.Accept(buf[:n])
		payload, err = codec.NextFrame()
		if err != nil {
			conn.Close()
			return
		}
	}

	id, decoded, err := wire.DecodePayload(payload)
	if err != nil || id != wire.IDJoinRequest {
		slog.Warn("handshake: first frame was not JoinRequest", "remote", conn.RemoteAddr())
		conn.Close()
		return
	}
	join := decoded.(wire.JoinRequest)

	if join.ProtocolVersion != protocolVersion {
		writeOne(conn, wire.IDWrongProtocol, wire.WrongProtocol{ExpectedVersion: protocolVersion})
		conn.Close()
		return
	}

	isAdmin := s.cfg.Server.AdminPassword != "" && join.Password == s.cfg.Server.AdminPassword
	if !isAdmin && s.cfg.Server.Password != "" && join.Password != s.cfg.Server.Password {
		writeOne(conn, wire.IDWrongPassword, wire.WrongPassword{})
		conn.Close()
		return
	}

	driver := world.Driver{GUID: join.GUID, Name: join.DriverName, Nation: join.DriverNation}
	carID, ok := s.slots.TryAdd(join.CarModel, driver)
	if !ok {
		writeOne(conn, wire.IDNoSlotsForCarModel, wire.NoSlotsForCarModel{})
		conn.Close()
		return
	}

	if prior := s.registry.ByGUID(join.GUID); prior != nil {
		s.evict(prior, wire.KickReasonGeneric)
	}

	host, _, _ := net.SplitHostPort(conn.RemoteAddr().String())
	client := world.NewClient(carID, join.GUID, driver, net.ParseIP(host))
	client.IsAdmin = isAdmin

	for _, entry := range s.cfg.Game.Bops {
		if entry.CarModel == join.CarModel {
			bop := world.Bop{Ballast: entry.Ballast, Restrictor: entry.Restrictor}
			client.SetBop(bop)
			s.bops.Set(carID, bop)
			break
		}
	}

	tc := &tcpConn{
		raw:      conn,
		client:   client,
		inbound:  make(chan inboundItem, inboundQueueCap),
		outbound: newOutboundQueue(),
		done:     make(chan struct{}),
		met:      s.met,
	}

	welcome := s.buildWelcome(carID, join)
	writeOne(conn, wire.IDNewCarConnection, welcome)

	go tc.writeLoop()
	go tc.readLoop(codec)

	select {
	case s.handshaked <- &handshakeResult{client: client, conn: tc}:
	case <-ctx.Done():
		conn.Close()
	}
}

// parseAssist maps a config string ("off", "factory", "on") to the wire's
// three-way assist setting. Anything unrecognized is treated as off.
func parseAssist(s string) wire.OnOffFactory {
	switch {
	case strings.EqualFold(s, "factory"):
		return wire.AssistFactory
	case strings.EqualFold(s, "on"):
		return wire.AssistOn
	default:
		return wire.AssistOff
	}
}

// buildWelcome snapshots the server's immutable parameters plus the current
// session descriptor into a NewCarConnection frame (§4.2).
func (s *Server) buildWelcome(carID uint8, join wire.JoinRequest) wire.NewCarConnection {
	cfg := s.cfg
	sessions := make([]wire.SessionEntry, len(s.sessions.All()))
	for i, sd := range s.sessions.All() {
		sessions[i] = wire.SessionEntry{Kind: sd.Kind, DurationSec: sd.DurationSec, Laps: sd.Laps}
	}
	cur := s.sessions.CurrentSession()
	slot, _ := s.slots.Get(carID)

	return wire.NewCarConnection{
		ServerName:           cfg.Server.Name,
		ServerPort:           uint16(cfg.Server.TCPPort),
		TickRateHz:           uint8(cfg.Server.ClientSendHz),
		Track:                cfg.Track,
		TrackConfig:          cfg.TrackConfig,
		CarModel:             join.CarModel,
		CarSkin:              slot.Skin,
		SunAngle:             cfg.SunAngle,
		TCAllowed:            parseAssist(cfg.Game.TCAllowed),
		ABSAllowed:           parseAssist(cfg.Game.ABSAllowed),
		TyreBlanketsAllowed:  cfg.Game.TyreBlanketsAllowed,
		StabilityAllowed:     cfg.Game.StabilityAllowed,
		AutoClutchAllowed:    cfg.Game.AutoClutchAllowed,
		StartRule:            uint8(cfg.Game.StartRule),
		DamageMultiplier:     cfg.Game.DamageMultiplier,
		FuelRate:             cfg.Game.FuelRate,
		TyreWearRate:         cfg.Game.TyreWearRate,
		ForceVirtualMirror:   cfg.Game.ForceVirtualMirror,
		MaxContactsPerKm:     uint8(cfg.Game.MaxContactsPerKm),
		RaceOverTimeSec:      uint32(cfg.Game.RaceOverTimeSec),
		ResultScreenTimeSec:  uint32(cfg.Game.ResultScreenTimeSec),
		HasExtraLap:          cfg.Game.HasExtraLap,
		GasPenaltyDisabled:   cfg.Game.GasPenaltyDisabled,
		PitWindowStart:       uint16(cfg.Game.PitWindowStartMin),
		PitWindowEnd:         uint16(cfg.Game.PitWindowEndMin),
		InvertedGridPosition: int16(cfg.Game.InvertedGridPositions),
		SessionID:            uint8(s.sessions.Current()),
		Sessions:             sessions,
		SessionName:          cur.Name,
		SessionIndex:         uint8(s.sessions.Current()),
		SessionKindCur:       cur.Kind,
		SessionDurationSec:   cur.DurationSec,
		SessionLaps:          cur.Laps,
		GripLevel:            s.grip.Current(),
		GridPosition:         carID,
		SessionStartTimeUnix: s.sessions.StartTime().Unix(),
	}
}

// readLoop feeds the codec from the socket and publishes decoded packets to
// the bounded inbound queue, backpressuring the socket when the tick loop
// falls behind.
func (tc *tcpConn) readLoop(codec *wire.Codec) {
	defer close(tc.done)
	buf := make([]byte, readScratch)
	for {
		tc.raw.SetReadDeadline(time.Now().Add(readTimeout))
		n, err := tc.raw.Read(buf)
		if err != nil {
			slog.Debug("tcp read ended", "car_id", tc.client.CarID, "err", err)
			return
		}
		codec.Accept(buf[:n])
		for {
			payload, err := codec.NextFrame()
			if err != nil {
				slog.Warn("tcp decode error, closing stream", "car_id", tc.client.CarID, "err", err)
				return
			}
			if payload == nil {
				break
			}
			id, pkt, err := wire.DecodePayload(payload)
			if err != nil {
				slog.Warn("tcp decode error, closing stream", "car_id", tc.client.CarID, "err", err)
				if tc.met != nil {
					tc.met.DecodeErrors.Inc()
				}
				return
			}
			if tc.met != nil {
				tc.met.FramesIn.Inc()
			}
			tc.inbound <- inboundItem{id: id, pkt: pkt}
		}
	}
}

// writeLoop drains the outbound queue and writes each frame until the queue
// is closed or the socket errors.
func (tc *tcpConn) writeLoop() {
	for {
		frame, ok := tc.outbound.Pop()
		if !ok {
			return
		}
		if _, err := tc.raw.Write(frame); err != nil {
			slog.Debug("tcp write ended", "car_id", tc.client.CarID, "err", err)
			tc.outbound.Close()
			tc.raw.Close()
			return
		}
		if tc.met != nil {
			tc.met.FramesOut.Inc()
		}
	}
}

// Send enqueues a packet for asynchronous delivery.
func (tc *tcpConn) Send(id wire.PacketID, p wire.Packet) {
	tc.outbound.Push(wire.EncodeFrame(wire.EncodePayload(id, p)))
}

// writeOne synchronously writes a single framed packet, used only during
// the handshake before a writer goroutine exists.
func writeOne(conn net.Conn, id wire.PacketID, p wire.Packet) {
	conn.SetWriteDeadline(time.Now().Add(readTimeout))
	conn.Write(wire.EncodeFrame(wire.EncodePayload(id, p)))
}

// evict closes a prior connection under the same GUID with a typed Kick.
func (s *Server) evict(c *world.Client, reason wire.KickReason) {
	s.connMu.Lock()
	tc := s.conns[c.CarID]
	s.connMu.Unlock()
	if tc == nil {
		return
	}
	tc.Send(wire.IDKick, wire.Kick{SessionID: c.CarID, Reason: reason})
	tc.outbound.Close()
	tc.raw.Close()
}
