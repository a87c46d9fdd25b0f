package world

// DRSZone is one detection/activation marker pair along the lap, expressed
// as normalized lap position (0..1).
type DRSZone struct {
	DetectionPoint       float32
	ActivationStartPoint float32
}

// DRSZones is the track-level zone list, immutable after load. Dropped by
// the spec's distillation but present upstream; carried in config and sent
// over TCP once to each client when the tick registers it.
type DRSZones struct {
	Zones []DRSZone
}
