// Package world holds the authoritative server-side state: car slots,
// connected clients, the session ledger, and environmental simulation
// (weather, sun angle, dynamic grip, BoP, DRS zones). Per the tick-engine
// single-writer discipline, callers outside the tick loop should treat
// mutation methods as handshake-time-only unless noted.
package world

import "pitwall/server/internal/wire"

// Driver is the occupant of a car slot.
type Driver struct {
	GUID   string
	Name   string
	Team   string
	Nation string
}

// Damage holds the five tracked damage zones, each a cumulative f32.
type Damage struct {
	Engine          float32
	Gearbox         float32
	FrontSuspension float32
	Steering        float32
	RearSuspension  float32
}

// Bop is a car's ballast/restrictor pair.
type Bop struct {
	Ballast    float32
	Restrictor float32
}

// MotionSnapshot is the last-known position/velocity/status of a car,
// overwritten on every CarUpdate with no interpolation.
type MotionSnapshot struct {
	Sequence         uint8
	Timestamp        uint32
	Position         wire.Vec3f
	Rotation         wire.Vec3f
	Velocity         wire.Vec3f
	TyreAngularSpeed [4]uint8
	SteerAngle       uint8
	WheelAngle       uint8
	EngineRPM        uint16
	Gear             uint8
	StatusBits       uint32
	PerformanceDelta int16
	Gas              uint8
	NormalizedLapPos float32
}

// FromWire copies the fields of a decoded wire.CarUpdate into the snapshot.
func (m *MotionSnapshot) FromWire(u wire.CarUpdate) {
	m.Sequence = u.Sequence
	m.Timestamp = u.Timestamp
	m.Position = u.Position
	m.Rotation = u.Rotation
	m.Velocity = u.Velocity
	m.TyreAngularSpeed = u.TyreAngularSpeed
	m.SteerAngle = u.SteerAngle
	m.WheelAngle = u.WheelAngle
	m.EngineRPM = u.EngineRPM
	m.Gear = u.Gear
	m.StatusBits = u.StatusBits
	m.PerformanceDelta = u.PerformanceDelta
	m.Gas = u.Gas
	m.NormalizedLapPos = u.NormalizedLapPos
}

// ToWire produces the wire.CarUpdate equivalent of this snapshot, used when
// re-broadcasting positions in a MegaPacket.
func (m MotionSnapshot) ToWire() wire.CarUpdate {
	return wire.CarUpdate{
		Sequence:         m.Sequence,
		Timestamp:        m.Timestamp,
		Position:         m.Position,
		Rotation:         m.Rotation,
		Velocity:         m.Velocity,
		TyreAngularSpeed: m.TyreAngularSpeed,
		SteerAngle:       m.SteerAngle,
		WheelAngle:       m.WheelAngle,
		EngineRPM:        m.EngineRPM,
		Gear:             m.Gear,
		StatusBits:       m.StatusBits,
		PerformanceDelta: m.PerformanceDelta,
		Gas:              m.Gas,
		NormalizedLapPos: m.NormalizedLapPos,
	}
}

// LapRecord is one append-only row of the session's lap ledger.
type LapRecord struct {
	CarID               uint8
	LaptimeMs           uint32
	Cuts                uint8
	LapNumber           uint16
	HasCompletedLastLap bool
}
