package world

import (
	"testing"
	"time"

	"pitwall/server/internal/wire"
)

func TestSessionLedgerAdvanceWrapsAndResetsLaps(t *testing.T) {
	l := NewSessionLedger([]SessionDescriptor{
		{Name: "Practice", Kind: wire.SessionPractice, DurationSec: 600},
		{Name: "Race", Kind: wire.SessionRace, DurationSec: 1200, Laps: 10},
	})
	l.AddLap(LapRecord{CarID: 0, LaptimeMs: 90000, LapNumber: 1})
	if len(l.Laps()) != 1 {
		t.Fatalf("expected 1 lap recorded")
	}

	now := time.Now()
	next := l.NextSession(now)
	if next.Name != "Race" {
		t.Errorf("expected Race session, got %s", next.Name)
	}
	if len(l.Laps()) != 0 {
		t.Errorf("laps should reset on session advance")
	}

	wrapped := l.NextSession(now)
	if wrapped.Name != "Practice" {
		t.Errorf("expected wrap to Practice, got %s", wrapped.Name)
	}
}

func TestSessionLedgerIsOver(t *testing.T) {
	l := NewSessionLedger([]SessionDescriptor{{Name: "Short", DurationSec: 0}})
	if !l.IsOver(time.Now()) {
		t.Error("zero-duration session should be immediately over")
	}
}

func TestSessionLedgerBestsPicksMinimumPerCar(t *testing.T) {
	l := NewSessionLedger([]SessionDescriptor{{Name: "Race", DurationSec: 600}})
	l.AddLap(LapRecord{CarID: 0, LaptimeMs: 92000})
	l.AddLap(LapRecord{CarID: 0, LaptimeMs: 91000})
	l.AddLap(LapRecord{CarID: 1, LaptimeMs: 95000})

	bests := l.Bests()
	found := map[uint8]uint32{}
	for _, b := range bests {
		found[b.CarID] = b.BestLapMs
	}
	if found[0] != 91000 {
		t.Errorf("car 0 best = %v, want 91000", found[0])
	}
	if found[1] != 95000 {
		t.Errorf("car 1 best = %v, want 95000", found[1])
	}
}
