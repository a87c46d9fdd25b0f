package world

import (
	"sync"
	"time"

	"pitwall/server/internal/wire"
)

// SessionDescriptor is an immutable session configuration entry.
type SessionDescriptor struct {
	Name        string
	Kind        wire.SessionKind
	DurationSec uint16
	Laps        uint16
}

// SessionLedger holds the configured session list, the current index, a
// monotonic start time for the current session, and its lap ledger.
type SessionLedger struct {
	mu       sync.RWMutex
	sessions []SessionDescriptor
	current  int
	start    time.Time
	laps     []LapRecord
}

// NewSessionLedger builds a ledger from the session list, starting at index
// 0. An empty list is replaced by a single 600-second Practice session.
func NewSessionLedger(sessions []SessionDescriptor) *SessionLedger {
	if len(sessions) == 0 {
		sessions = []SessionDescriptor{{Name: "Practice", Kind: wire.SessionPractice, DurationSec: 600}}
	}
	return &SessionLedger{sessions: sessions, start: time.Now()}
}

// Current returns the current session index.
func (s *SessionLedger) Current() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// CurrentSession returns a copy of the current session's descriptor.
func (s *SessionLedger) CurrentSession() SessionDescriptor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessions[s.current]
}

// All returns every configured session descriptor.
func (s *SessionLedger) All() []SessionDescriptor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]SessionDescriptor, len(s.sessions))
	copy(out, s.sessions)
	return out
}

// Elapsed returns time since the current session's start.
func (s *SessionLedger) Elapsed(now time.Time) time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return now.Sub(s.start)
}

// Left returns the remaining time in the current session, clamped at zero.
func (s *SessionLedger) Left(now time.Time) time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d := time.Duration(s.sessions[s.current].DurationSec) * time.Second
	left := d - now.Sub(s.start)
	if left < 0 {
		return 0
	}
	return left
}

// IsOver reports whether the current session's elapsed time has reached its
// configured duration.
func (s *SessionLedger) IsOver(now time.Time) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d := time.Duration(s.sessions[s.current].DurationSec) * time.Second
	return now.Sub(s.start) >= d
}

// StartTime returns the current session's monotonic start timestamp.
func (s *SessionLedger) StartTime() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.start
}

// NextSession advances the index modulo the session count and resets the
// start time and lap ledger. Returns the new descriptor.
func (s *SessionLedger) NextSession(now time.Time) SessionDescriptor {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = (s.current + 1) % len(s.sessions)
	s.start = now
	s.laps = nil
	return s.sessions[s.current]
}

// RestartSession resets the start time and lap ledger without advancing the
// index.
func (s *SessionLedger) RestartSession(now time.Time) SessionDescriptor {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.start = now
	s.laps = nil
	return s.sessions[s.current]
}

// AddLap appends a record to the current session's lap ledger.
func (s *SessionLedger) AddLap(entry LapRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.laps = append(s.laps, entry)
}

// Laps returns a copy of the current session's lap ledger.
func (s *SessionLedger) Laps() []LapRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]LapRecord, len(s.laps))
	copy(out, s.laps)
	return out
}

// SessionLapCount returns how many laps have been recorded in the current
// session. Dynamic grip keeps its own session lap counter and does not read
// this.
func (s *SessionLedger) SessionLapCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.laps)
}

// Bests computes the cumulative per-car best laptime, used to populate
// RaceOver.
func (s *SessionLedger) Bests() []wire.RaceBest {
	s.mu.RLock()
	defer s.mu.RUnlock()
	best := make(map[uint8]uint32)
	order := make([]uint8, 0)
	for _, l := range s.laps {
		if cur, ok := best[l.CarID]; !ok || l.LaptimeMs < cur {
			if !ok {
				order = append(order, l.CarID)
			}
			best[l.CarID] = l.LaptimeMs
		}
	}
	out := make([]wire.RaceBest, 0, len(order))
	for _, id := range order {
		out = append(out, wire.RaceBest{CarID: id, BestLapMs: best[id]})
	}
	return out
}
