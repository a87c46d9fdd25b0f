package server

import (
	"encoding/hex"
	"log/slog"
	"sync"
	"time"

	"pitwall/server/internal/wire"
	"pitwall/server/internal/world"
)

// handleTCPPacket applies the inbound→outbound mapping of §4.9 (TCP half).
func (s *Server) handleTCPPacket(tc *tcpConn, item inboundItem) {
	c := tc.client
	switch p := item.pkt.(type) {
	case wire.P2PCount:
		if p.Count == -1 {
			tc.Send(wire.IDP2PCount, wire.P2PCount{CarID: c.CarID, Count: c.P2PCount()})
			return
		}
		count := c.DecrementP2P()
		s.broadcastAll(wire.IDP2PCount, wire.P2PCount{CarID: c.CarID, Count: count})

	case wire.CarlistRequest:
		slots := s.slots.Snapshot()
		if int(p.Index) > len(slots) {
			return
		}
		cars := make([]wire.Car, 0, len(slots)-int(p.Index))
		for i := int(p.Index); i < len(slots); i++ {
			slot := slots[i]
			car := wire.Car{Index: uint8(i), CarModel: slot.Model, CarSkin: slot.Skin, IsSpectator: slot.Driver == nil}
			if slot.Driver != nil {
				car.DriverName = slot.Driver.Name
				car.DriverTeam = slot.Driver.Team
				car.DriverNation = slot.Driver.Nation
			}
			cars = append(cars, car)
		}
		tc.Send(wire.IDCarList, wire.CarList{FromSessionID: p.Index, Cars: cars})

	case wire.Disconnect:
		s.disconnectClient(tc, "client requested disconnect")

	case wire.Checksum:
		for _, h := range p.Hashes {
			slog.Debug("checksum received", "car_id", c.CarID, "md5", hex.EncodeToString(h[:]))
		}
		c.SetChecksumValid()

	case wire.Chat:
		s.broadcastAll(wire.IDChat, wire.Chat{CarID: c.CarID, Message: p.Message})

	case wire.LapCompleted:
		s.grip.OnLapCompleted()
		s.sessions.AddLap(world.LapRecord{CarID: c.CarID, LaptimeMs: p.LaptimeMs, Cuts: p.Cuts, LapNumber: uint16(c.IncrementLaps())})
		laps := s.sessions.Laps()
		wireLaps := make([]wire.LapRecordWire, len(laps))
		for i, l := range laps {
			wireLaps[i] = wire.LapRecordWire{CarID: l.CarID, LaptimeMs: l.LaptimeMs, Cuts: l.Cuts, LapNumber: l.LapNumber, HasCompletedLastLap: l.HasCompletedLastLap}
		}
		s.broadcastAll(wire.IDLapCompleted, wire.LapCompleted{
			CarID:     c.CarID,
			LaptimeMs: p.LaptimeMs,
			Splits:    p.Splits,
			Cuts:      p.Cuts,
			GripLevel: s.grip.Current(),
			Laps:      wireLaps,
		})

	case wire.ChangeTireCompound:
		c.SetCompound(p.Compound)
		s.broadcastAll(wire.IDChangeTireCompound, wire.ChangeTireCompound{CarID: c.CarID, Compound: p.Compound})

	case wire.DamageUpdate:
		c.SetDamage(world.Damage{Engine: p.Engine, Gearbox: p.Gearbox, FrontSuspension: p.FrontSuspension, Steering: p.Steering, RearSuspension: p.RearSuspension})
		p.CarID = c.CarID
		s.broadcastAll(wire.IDDamageUpdate, p)

	case wire.SectorSplit:
		p.CarID = c.CarID
		s.broadcastAll(wire.IDSectorSplit, p)

	case wire.Event:
		s.broadcastAll(wire.IDEvent, p)

	case wire.VoteCast:
		s.castVote(item.id, c.CarID, p)

	default:
		slog.Debug("tcp packet not handled", "car_id", c.CarID, "id", item.id)
	}
}

// handleUDPPacket applies the inbound→outbound mapping of §4.9 (UDP half).
func (s *Server) handleUDPPacket(item udpInboundItem) {
	var c *world.Client
	if _, ok := item.pkt.(wire.UpdateUdpAddress); !ok {
		c = s.registry.ByUDPAddr(item.addr)
	}
	if c == nil {
		c = s.registry.ByIP(item.addr.IP)
	}
	if c == nil {
		slog.Debug("udp packet from unknown client, dropping", "addr", item.addr, "id", item.id)
		return
	}

	switch p := item.pkt.(type) {
	case wire.CarUpdate:
		var m world.MotionSnapshot
		m.FromWire(p)
		c.UpdateMotion(m)
		if c.MarkFirstUpdate() {
			s.sendFirstUpdateBurst(c)
		}

	case wire.UpdateUdpAddress:
		if p.CarID != c.CarID {
			slog.Warn("udp address binding car_id mismatch", "claimed", p.CarID, "actual", c.CarID)
			return
		}
		c.BindUDP(item.addr)
		s.sendUDP(c, wire.IDUpdateUdpAddress, wire.UpdateUdpAddress{CarID: 0})

	case wire.LobbyCheckMessage:
		s.sendUDP(c, wire.IDLobbyCheckMessage, wire.LobbyCheckMessage{HTTPPort: uint16(s.cfg.Server.HTTPPort)})

	case wire.Pong:
		now := time.Now()
		pingMs := int64(uint32(now.UnixMilli()) - p.SentTimeUnixMs)
		c.RecordPong(now, pingMs, p.TimeOffsetMs)

	case wire.SessionRequest:
		cur := s.sessions.CurrentSession()
		if cur.Kind != p.Kind {
			s.sendUDP(c, wire.IDUpdateSession, wire.UpdateSession{
				SessionName:      cur.Name,
				SessionIndex:     uint8(s.sessions.Current()),
				Kind:             cur.Kind,
				DurationSec:      cur.DurationSec,
				Laps:             cur.Laps,
				GripLevel:        s.grip.Current(),
				GridPosition:     c.CarID,
				SessionStartUnix: s.sessions.StartTime().Unix(),
			})
		}

	case wire.Pulse:
		// Keepalive only; liveness is tracked via Ping/Pong.

	default:
		slog.Debug("udp packet not handled", "addr", item.addr, "id", item.id)
	}
}

// sendFirstUpdateBurst sends the one-shot sequence described in §4.9 and
// §8 scenario 5 to a client on its first CarUpdate.
func (s *Server) sendFirstUpdateBurst(c *world.Client) {
	clients := s.registry.All()
	cars := make([]wire.CarPosition, 0, len(clients))
	for _, peer := range clients {
		cars = append(cars, wire.CarPosition{CarID: peer.CarID, CarUpdate: peer.SnapshotMotion().ToWire()})
	}
	s.sendUDP(c, wire.IDMegaPacket, wire.MegaPacket{Cars: cars})
	s.sendUDP(c, wire.IDWelcomeMessage, wire.WelcomeMessage{Text: s.cfg.Server.WelcomeMessage})

	resolved := s.weather.Current()
	s.sendUDP(c, wire.IDWeather, resolved.ToWire())

	for _, peer := range clients {
		if peer.CarID == c.CarID {
			continue
		}
		s.sendUDP(c, wire.IDChangeTireCompound, wire.ChangeTireCompound{CarID: peer.CarID, Compound: peer.CompoundSnapshot()})
		s.sendUDP(c, wire.IDMandatoryPit, wire.MandatoryPit{CarID: peer.CarID, Satisfied: peer.MandatoryPitSatisfied()})
		s.sendUDP(c, wire.IDP2PCount, wire.P2PCount{CarID: peer.CarID, Count: peer.P2PCount()})
	}

	bops := s.bops.Snapshot()
	entries := make([]wire.Bop, 0, len(bops))
	for carID, b := range bops {
		entries = append(entries, wire.Bop{CarID: carID, Ballast: b.Ballast, Restrictor: b.Restrictor})
	}
	s.sendUDP(c, wire.IDBops, wire.Bops{Entries: entries})
}

// voteTally aggregates votes for one supplemented session/kick vote,
// cleared once it resolves.
type voteTally struct {
	mu      sync.Mutex
	voters  map[uint8]bool
	targets map[uint8]int // KickVote only: votes per target car id
}

func newVoteTally() *voteTally {
	return &voteTally{voters: make(map[uint8]bool), targets: make(map[uint8]int)}
}

// castVote tallies one vote and, once at least half of the connected
// clients (rounded up) have voted the same way, triggers the effect and
// resets the tally. Pending tallies are not cleared on a session change. This is a supplemented feature absent from the distilled
// protocol's decode-only treatment of vote packets.
func (s *Server) castVote(id wire.PacketID, voter uint8, v wire.VoteCast) {
	s.voteMu.Lock()
	defer s.voteMu.Unlock()
	if s.votes == nil {
		s.votes = make(map[wire.PacketID]*voteTally)
	}
	t, ok := s.votes[id]
	if !ok {
		t = newVoteTally()
		s.votes[id] = t
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.voters[voter] {
		return
	}
	t.voters[voter] = true
	needed := (s.registry.Count() + 1) / 2

	switch id {
	case wire.IDKickVote:
		t.targets[v.Target]++
		if t.targets[v.Target] >= needed {
			if target := s.registry.Get(v.Target); target != nil {
				s.evict(target, wire.KickReasonVote)
			}
			delete(t.targets, v.Target)
			t.voters = make(map[uint8]bool)
		}
	case wire.IDNextSessionVote:
		if len(t.voters) >= needed {
			now := time.Now()
			next := s.sessions.NextSession(now)
			s.grip.OnSessionAdvance()
			s.broadcastAll(wire.IDUpdateSession, wire.UpdateSession{
				SessionName: next.Name, SessionIndex: uint8(s.sessions.Current()), Kind: next.Kind,
				DurationSec: next.DurationSec, Laps: next.Laps, GripLevel: s.grip.Current(),
				SessionStartUnix: s.sessions.StartTime().Unix(),
			})
			t.voters = make(map[uint8]bool)
		}
	case wire.IDRestartSessionVote:
		if len(t.voters) >= needed {
			s.sessions.RestartSession(time.Now())
			t.voters = make(map[uint8]bool)
		}
	}
}
