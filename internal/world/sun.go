package world

import "time"

const (
	sunDegreesPerSecond = 0.044
	sunAngleClamp       = 80.0
)

// SunAngle recomputes the current sun angle from a session start time,
// elapsed seconds, and the configured time-of-day multiplier, clamped to
// [-80, 80] degrees.
func SunAngle(baseAngle, timeOfDayMultiplier float32, start time.Time, now time.Time) float32 {
	elapsed := now.Sub(start).Seconds()
	angle := baseAngle + float32(elapsed)*sunDegreesPerSecond*timeOfDayMultiplier
	if angle > sunAngleClamp {
		return sunAngleClamp
	}
	if angle < -sunAngleClamp {
		return -sunAngleClamp
	}
	return angle
}
