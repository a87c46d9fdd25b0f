package server

import (
	"context"
	"log/slog"
	"time"

	"pitwall/server/internal/wire"
)

const (
	pongTimeout  = 10 * time.Second
	pingInterval = 1 * time.Second
)

// runTick drives the fixed-rate tick described in §4.8. It is the sole
// mutator of the Client Registry, Session Ledger, Car Slot Table, and
// per-client state; every other goroutine only enqueues work for it.
func (s *Server) runTick(ctx context.Context) error {
	hz := s.cfg.Server.ClientSendHz
	if hz <= 0 {
		hz = 60
	}
	period := time.Second / time.Duration(hz)
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	var lastPing time.Time

	for {
		select {
		case <-ctx.Done():
			return nil
		case start := <-ticker.C:
			s.drainUDP()
			s.acceptHandshaked()
			s.drainTCP()

			if start.Sub(lastPing) >= pingInterval {
				s.broadcastPing(start)
				lastPing = start
			}
			s.broadcastMegaPacket()
			s.evictStale(start)
			s.advanceSessionIfOver(start)

			if s.met != nil {
				s.met.TickDuration.Observe(time.Since(start).Seconds())
				if time.Since(start) > period {
					s.met.TickOverruns.Inc()
					slog.Warn("tick overrun", "elapsed", time.Since(start), "period", period)
				}
			}
		}
	}
}

// drainUDP processes every datagram currently queued, non-blocking.
func (s *Server) drainUDP() {
	for {
		select {
		case item := <-s.udpInbound:
			s.handleUDPPacket(item)
		default:
			return
		}
	}
}

// acceptHandshaked registers every client the handshake workers have
// produced since the last tick.
func (s *Server) acceptHandshaked() {
	for {
		select {
		case hr := <-s.handshaked:
			s.registry.Insert(hr.client)
			s.connMu.Lock()
			s.conns[hr.client.CarID] = hr.conn
			s.connMu.Unlock()
			if s.met != nil {
				s.met.ConnectedClients.Set(float64(s.registry.Count()))
			}
			s.broadcastCarList()
			s.sendDRSZones(hr.conn)
			slog.Info("client connected", "car_id", hr.client.CarID, "guid", hr.client.GUID)
		default:
			return
		}
	}
}

// drainTCP processes every queued packet from every connected client,
// non-blocking per connection.
func (s *Server) drainTCP() {
	s.connMu.Lock()
	conns := make([]*tcpConn, 0, len(s.conns))
	for _, tc := range s.conns {
		conns = append(conns, tc)
	}
	s.connMu.Unlock()

	for _, tc := range conns {
		select {
		case <-tc.done:
			s.disconnectClient(tc, "stream closed")
			continue
		default:
		}
	drain:
		for {
			select {
			case item := <-tc.inbound:
				s.handleTCPPacket(tc, item)
			default:
				break drain
			}
		}
	}
}

// broadcastPing sends a Ping to every bound client at most once per
// pingInterval.
func (s *Server) broadcastPing(now time.Time) {
	for _, c := range s.registry.All() {
		c.RecordPing(now)
		s.sendUDP(c, wire.IDPing, wire.Ping{SentTimeUnixMs: uint32(now.UnixMilli())})
	}
}

// broadcastMegaPacket sends every car's position snapshot to every client
// that has completed its first update.
func (s *Server) broadcastMegaPacket() {
	clients := s.registry.All()
	cars := make([]wire.CarPosition, 0, len(clients))
	for _, c := range clients {
		cars = append(cars, wire.CarPosition{CarID: c.CarID, CarUpdate: c.SnapshotMotion().ToWire()})
	}
	mega := wire.MegaPacket{Cars: cars}
	for _, c := range clients {
		if c.HasSentFirstUpdate() {
			s.sendUDP(c, wire.IDMegaPacket, mega)
		}
	}
}

// evictStale disconnects any client whose pong silence has reached
// pongTimeout.
func (s *Server) evictStale(now time.Time) {
	for _, c := range s.registry.All() {
		if c.IsStale(now, pongTimeout) {
			s.connMu.Lock()
			tc := s.conns[c.CarID]
			s.connMu.Unlock()
			if tc != nil {
				s.disconnectClient(tc, "pong timeout")
			}
		}
	}
}

// advanceSessionIfOver sends RaceOver (for Race sessions) and advances the
// ledger once its duration has elapsed.
func (s *Server) advanceSessionIfOver(now time.Time) {
	if !s.sessions.IsOver(now) {
		return
	}
	cur := s.sessions.CurrentSession()
	if cur.Kind == wire.SessionRace {
		bests := s.sessions.Bests()
		s.broadcastAll(wire.IDRaceOver, wire.RaceOver{Bests: bests, InvertGrid: s.cfg.Game.InvertedGridPositions != 0})
	}
	next := s.sessions.NextSession(now)
	s.grip.OnSessionAdvance()
	resolved := s.weather.Rotate()
	s.broadcastAll(wire.IDUpdateSession, wire.UpdateSession{
		SessionName:      next.Name,
		SessionIndex:     uint8(s.sessions.Current()),
		Kind:             next.Kind,
		DurationSec:      next.DurationSec,
		Laps:             next.Laps,
		GripLevel:        s.grip.Current(),
		GridPosition:     0,
		SessionStartUnix: s.sessions.StartTime().Unix(),
	})
	s.broadcastAll(wire.IDWeather, resolved.ToWire())
}

// disconnectClient tears down one client: releases its slot, removes it
// from the registry, closes its connection, and broadcasts ClientDisconnect
// to the remaining peers (§4.3, §7).
func (s *Server) disconnectClient(tc *tcpConn, reason string) {
	carID := tc.client.CarID
	s.connMu.Lock()
	delete(s.conns, carID)
	s.connMu.Unlock()

	s.registry.Remove(carID)
	s.slots.Remove(carID)
	s.bops.Clear(carID)
	tc.outbound.Close()
	tc.raw.Close()

	if s.met != nil {
		s.met.ConnectedClients.Set(float64(s.registry.Count()))
		s.met.Disconnects.Inc()
	}
	slog.Info("client disconnected", "car_id", carID, "reason", reason)
	s.broadcastAll(wire.IDClientDisconnect, wire.ClientDisconnect{CarID: carID})
}

// broadcastAll enqueues p on every live TCP connection.
func (s *Server) broadcastAll(id wire.PacketID, p wire.Packet) {
	s.connMu.Lock()
	defer s.connMu.Unlock()
	for _, tc := range s.conns {
		tc.Send(id, p)
	}
}

// broadcastCarList sends the full slot table to every connected client.
// Used after a client connects; a disconnect is announced with
// ClientDisconnect only.
func (s *Server) broadcastCarList() {
	slots := s.slots.Snapshot()
	cars := make([]wire.Car, len(slots))
	for i, slot := range slots {
		c := wire.Car{Index: uint8(i), CarModel: slot.Model, CarSkin: slot.Skin, IsSpectator: slot.Driver == nil}
		if slot.Driver != nil {
			c.DriverName = slot.Driver.Name
			c.DriverTeam = slot.Driver.Team
			c.DriverNation = slot.Driver.Nation
		}
		cars[i] = c
	}
	s.broadcastAll(wire.IDCarList, wire.CarList{FromSessionID: 0, Cars: cars})
}

// sendDRSZones sends the track's DRS zone list once, at handshake
// completion.
func (s *Server) sendDRSZones(tc *tcpConn) {
	zones := make([]wire.DRSZone, len(s.drs.Zones))
	for i, z := range s.drs.Zones {
		zones[i] = wire.DRSZone{DetectionPoint: z.DetectionPoint, ActivationStartPoint: z.ActivationStartPoint}
	}
	tc.Send(wire.IDDRSZones, wire.DRSZones{Zones: zones})
}
