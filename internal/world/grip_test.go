package world

import "testing"

func TestGripDisabledAlwaysFull(t *testing.T) {
	g := NewGrip(GripConfig{Enabled: false})
	if g.Current() != 1.0 {
		t.Errorf("disabled grip = %v, want 1.0", g.Current())
	}
}

func TestGripClampedAndMonotonicWithinSession(t *testing.T) {
	g := NewGrip(GripConfig{Enabled: true, BaseGrip: 0.9, GripPerLap: 0.01, SessionTransfer: 0.1})
	prev := g.Current()
	for i := 0; i < 20; i++ {
		g.OnLapCompleted()
		cur := g.Current()
		if cur < prev {
			t.Fatalf("grip decreased within session: %v -> %v", prev, cur)
		}
		if cur < 0 || cur > 1 {
			t.Fatalf("grip out of [0,1]: %v", cur)
		}
		prev = cur
	}
}

func TestGripResetsSessionLapsOnAdvance(t *testing.T) {
	g := NewGrip(GripConfig{Enabled: true, BaseGrip: 0.8, GripPerLap: 0.05, SessionTransfer: 0.5})
	g.OnLapCompleted()
	g.OnLapCompleted()
	before := g.Current()
	g.OnSessionAdvance()
	if g.sessionLaps != 0 {
		t.Errorf("session laps not reset, got %d", g.sessionLaps)
	}
	after := g.Current()
	if after > before {
		t.Errorf("grip should not jump above pre-advance value immediately: before=%v after=%v", before, after)
	}
}
