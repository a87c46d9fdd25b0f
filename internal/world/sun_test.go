package world

import (
	"testing"
	"time"
)

func TestSunAngleClampedToRange(t *testing.T) {
	start := time.Now().Add(-10000 * time.Hour)
	angle := SunAngle(0, 10, start, time.Now())
	if angle != sunAngleClamp {
		t.Errorf("expected clamp at %v, got %v", sunAngleClamp, angle)
	}

	angle = SunAngle(0, -10, start, time.Now())
	if angle != -sunAngleClamp {
		t.Errorf("expected clamp at %v, got %v", -sunAngleClamp, angle)
	}
}

func TestSunAngleAtStartEqualsBase(t *testing.T) {
	now := time.Now()
	angle := SunAngle(15, 1, now, now)
	if angle != 15 {
		t.Errorf("expected base angle 15, got %v", angle)
	}
}
