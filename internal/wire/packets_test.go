package wire

import (
	"bytes"
	"math"
	"testing"
)

func TestDamageUpdateScenario(t *testing.T) {
	raw := []byte{
		187, 200, 186, 64, // 5.837...
		0, 0, 0, 0,
		0, 0, 0, 0,
		0, 0, 0, 0,
		187, 200, 186, 64, // 5.837...
	}
	r := NewReader(raw)
	p, err := DecodeDamageUpdate(r)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if math.Abs(float64(p.Engine)-5.837) > 0.001 {
		t.Errorf("engine = %v, want ~5.837", p.Engine)
	}
	if p.Gearbox != 0 || p.FrontSuspension != 0 || p.Steering != 0 {
		t.Errorf("middle zones should be zero, got %+v", p)
	}
	if math.Abs(float64(p.RearSuspension)-5.837) > 0.001 {
		t.Errorf("rear suspension = %v, want ~5.837", p.RearSuspension)
	}

	w := NewWriter()
	p.Encode(w)
	if !bytes.Equal(w.Bytes(), raw) {
		t.Errorf("re-encode mismatch: got %v, want %v", w.Bytes(), raw)
	}
}

func TestChecksumRoundTrip(t *testing.T) {
	hashes := [][16]byte{
		{0x41, 0x94, 0x9b, 0x9f},
		{0x7a, 0x95, 0x62, 0x7e},
		{0xb4, 0x2c, 0xd4, 0x9a},
		{0xd6, 0xd7, 0x18, 0xec},
	}
	w := NewWriter()
	Checksum{Hashes: hashes}.Encode(w)
	if len(w.Bytes()) != 64 {
		t.Fatalf("expected 64 bytes, got %d", len(w.Bytes()))
	}

	r := NewReader(w.Bytes())
	got, err := DecodeChecksum(r)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got.Hashes) != 4 {
		t.Fatalf("expected 4 hashes, got %d", len(got.Hashes))
	}
	for i, h := range got.Hashes {
		if h != hashes[i] {
			t.Errorf("hash %d mismatch: got %x, want %x", i, h, hashes[i])
		}
	}
}

func TestCarUpdateRoundTrip(t *testing.T) {
	p := CarUpdate{
		Sequence:         7,
		Timestamp:        123456,
		Position:         Vec3f{X: 1.5, Y: -2.25, Z: 3.0},
		Rotation:         Vec3f{X: 0, Y: 90, Z: 0},
		Velocity:         Vec3f{X: 10, Y: 0, Z: 0},
		TyreAngularSpeed: [4]uint8{10, 11, 12, 13},
		SteerAngle:       128,
		WheelAngle:       200,
		EngineRPM:        8500,
		Gear:             4,
		StatusBits:       0xDEADBEEF,
		PerformanceDelta: -500,
		Gas:              255,
		NormalizedLapPos: 0.42,
	}
	w := NewWriter()
	p.Encode(w)
	r := NewReader(w.Bytes())
	got, err := DecodeCarUpdate(r)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != p {
		t.Errorf("round trip mismatch:\n got  %+v\n want %+v", got, p)
	}
	if r.Remaining() != 0 {
		t.Errorf("expected fully consumed reader, %d bytes left", r.Remaining())
	}
}

func TestJoinRequestRoundTrip(t *testing.T) {
	p := JoinRequest{
		ProtocolVersion: 202,
		GUID:            "76561198000000000",
		DriverName:      "Räikkönen",
		DriverNation:    "FI",
		CarModel:        "ks_ferrari_sf70h",
		Password:        "secret",
	}
	w := NewWriter()
	p.Encode(w)
	r := NewReader(w.Bytes())
	got, err := DecodeJoinRequest(r)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != p {
		t.Errorf("round trip mismatch:\n got  %+v\n want %+v", got, p)
	}
}

func TestBoolRejectsNonCanonical(t *testing.T) {
	r := NewReader([]byte{2})
	if _, err := r.Bool(); err != ErrMalformed {
		t.Errorf("expected ErrMalformed, got %v", err)
	}
}

func TestVectorOversizeRejected(t *testing.T) {
	// No u8 or u16 prefix can exceed MaxVectorLen, so the length check is
	// exercised on the shared vector reader directly.
	r := NewReader(nil)
	_, err := readVec(r, MaxVectorLen+1, func(r *Reader) (uint8, error) { return r.U8() })
	if err != ErrMalformed {
		t.Errorf("expected ErrMalformed, got %v", err)
	}
}

func TestRaceOverScenario(t *testing.T) {
	p := RaceOver{
		Bests: []RaceBest{
			{CarID: 0, BestLapMs: 91234},
			{CarID: 1, BestLapMs: 92001},
		},
		InvertGrid: true,
	}
	w := NewWriter()
	p.Encode(w)
	r := NewReader(w.Bytes())
	got, err := DecodeRaceOver(r)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got.Bests) != 2 || got.InvertGrid != true {
		t.Errorf("mismatch: %+v", got)
	}
}

func TestEventVariantControlledOptional(t *testing.T) {
	other := uint8(3)
	p := Event{EventType: 1, OtherCar: &other, ImpactSpeed: 12.5, WorldPos: Vec3f{1, 2, 3}, RealPos: Vec3f{4, 5, 6}}
	w := NewWriter()
	p.Encode(w)
	r := NewReader(w.Bytes())
	got, err := DecodeEvent(r)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.OtherCar == nil || *got.OtherCar != 3 {
		t.Errorf("expected other car 3, got %v", got.OtherCar)
	}

	// Car-to-environment collision: no other car present.
	p2 := Event{EventType: 2, OtherCar: nil, ImpactSpeed: 5, WorldPos: Vec3f{}, RealPos: Vec3f{}}
	w2 := NewWriter()
	p2.Encode(w2)
	r2 := NewReader(w2.Bytes())
	got2, err := DecodeEvent(r2)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got2.OtherCar != nil {
		t.Errorf("expected nil other car, got %v", got2.OtherCar)
	}
}

func TestDecodePayloadDispatchesByID(t *testing.T) {
	payload := EncodePayload(IDJoinRequest, JoinRequest{ProtocolVersion: 202, GUID: "x", DriverName: "y", DriverNation: "z", CarModel: "m", Password: ""})
	id, v, err := DecodePayload(payload)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if id != IDJoinRequest {
		t.Errorf("expected IDJoinRequest, got %v", id)
	}
	jr, ok := v.(JoinRequest)
	if !ok || jr.GUID != "x" {
		t.Errorf("unexpected decoded value: %+v", v)
	}
}

func TestDecodePayloadUnknownIDIsFatal(t *testing.T) {
	_, _, err := DecodePayload([]byte{0xFF})
	if err != ErrMalformed {
		t.Errorf("expected ErrMalformed for unknown id, got %v", err)
	}
}

func TestWeatherRoundTrip(t *testing.T) {
	p := Weather{AmbientTemp: 22, RoadTemp: 31, Graphics: "3_clear", WindSpeed: 45, WindDirection: 270}
	w := NewWriter()
	p.Encode(w)
	r := NewReader(w.Bytes())
	got, err := DecodeWeather(r)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != p {
		t.Errorf("round trip mismatch:\n got  %+v\n want %+v", got, p)
	}
	if r.Remaining() != 0 {
		t.Errorf("expected fully consumed reader, %d bytes left", r.Remaining())
	}
}

func TestPingRoundTripIsSixBytes(t *testing.T) {
	p := Ping{SentTimeUnixMs: 1234567890, Unknown: 0}
	w := NewWriter()
	p.Encode(w)
	if len(w.Bytes()) != 6 {
		t.Fatalf("expected 6-byte Ping body, got %d", len(w.Bytes()))
	}
	r := NewReader(w.Bytes())
	got, err := DecodePing(r)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != p {
		t.Errorf("round trip mismatch:\n got  %+v\n want %+v", got, p)
	}
}

func TestPongRoundTripIsEightBytes(t *testing.T) {
	p := Pong{SentTimeUnixMs: 1234567890, TimeOffsetMs: 42}
	w := NewWriter()
	p.Encode(w)
	if len(w.Bytes()) != 8 {
		t.Fatalf("expected 8-byte Pong body, got %d", len(w.Bytes()))
	}
	r := NewReader(w.Bytes())
	got, err := DecodePong(r)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != p {
		t.Errorf("round trip mismatch:\n got  %+v\n want %+v", got, p)
	}
}

func TestSectorSplitFieldOrder(t *testing.T) {
	p := SectorSplit{CarID: 5, SplitMs: 91234, SectorIdx: 2}
	w := NewWriter()
	p.Encode(w)
	raw := w.Bytes()
	if len(raw) != 6 {
		t.Fatalf("expected 6-byte SectorSplit body, got %d", len(raw))
	}
	if raw[0] != 5 || raw[5] != 2 {
		t.Errorf("expected car id first and sector index last, got %v", raw)
	}
	r := NewReader(raw)
	got, err := DecodeSectorSplit(r)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != p {
		t.Errorf("round trip mismatch:\n got  %+v\n want %+v", got, p)
	}
}

func TestVoteCastNextSessionIsOneByte(t *testing.T) {
	p := VoteCast{CarID: 3}
	w := NewWriter()
	p.Encode1(w)
	if len(w.Bytes()) != 1 {
		t.Fatalf("expected 1-byte NextSessionVote body, got %d", len(w.Bytes()))
	}
	r := NewReader(w.Bytes())
	got, err := DecodeVoteCast1(r)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.CarID != p.CarID {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, p)
	}
	if r.Remaining() != 0 {
		t.Errorf("expected fully consumed reader, %d bytes left", r.Remaining())
	}
}

func TestVoteCastKickIsTwoBytes(t *testing.T) {
	p := VoteCast{CarID: 3, Target: 7}
	w := NewWriter()
	p.Encode2(w)
	if len(w.Bytes()) != 2 {
		t.Fatalf("expected 2-byte KickVote body, got %d", len(w.Bytes()))
	}
	r := NewReader(w.Bytes())
	got, err := DecodeVoteCast2(r)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != p {
		t.Errorf("round trip mismatch:\n got  %+v\n want %+v", got, p)
	}
}

func TestDecodePayloadVoteCastDispatchesByByteWidth(t *testing.T) {
	w := NewWriter()
	w.U8(uint8(IDNextSessionVote))
	VoteCast{CarID: 9}.Encode1(w)
	id, v, err := DecodePayload(w.Bytes())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if id != IDNextSessionVote {
		t.Errorf("expected IDNextSessionVote, got %v", id)
	}
	if vc, ok := v.(VoteCast); !ok || vc.CarID != 9 {
		t.Errorf("unexpected decoded value: %+v", v)
	}

	w2 := NewWriter()
	w2.U8(uint8(IDKickVote))
	VoteCast{CarID: 9, Target: 4}.Encode2(w2)
	id2, v2, err := DecodePayload(w2.Bytes())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if id2 != IDKickVote {
		t.Errorf("expected IDKickVote, got %v", id2)
	}
	if vc, ok := v2.(VoteCast); !ok || vc.Target != 4 {
		t.Errorf("unexpected decoded value: %+v", v2)
	}
}
