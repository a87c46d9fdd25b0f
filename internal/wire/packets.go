package wire

// Each packet type below owns its Decode/Encode pair. Bidirectional packets
// (marked ⇄ in the catalogue) share one struct for both directions since the
// wire shape is identical either way.

// JoinRequest is the single frame a freshly-accepted TCP stream must send.
type JoinRequest struct {
	ProtocolVersion uint16
	GUID            string
	DriverName      string
	Reserved        uint8 // meaning unconfirmed in the reference client
	DriverNation    string
	CarModel        string
	Password        string
}

func DecodeJoinRequest(r *Reader) (JoinRequest, error) {
	var p JoinRequest
	var err error
	if p.ProtocolVersion, err = r.U16(); err != nil {
		return p, err
	}
	if p.GUID, err = r.ASCIIString(); err != nil {
		return p, err
	}
	if p.DriverName, err = r.WideString(); err != nil {
		return p, err
	}
	if p.Reserved, err = r.U8(); err != nil {
		return p, err
	}
	if p.DriverNation, err = r.ASCIIString(); err != nil {
		return p, err
	}
	if p.CarModel, err = r.ASCIIString(); err != nil {
		return p, err
	}
	if p.Password, err = r.ASCIIString(); err != nil {
		return p, err
	}
	return p, nil
}

func (p JoinRequest) Encode(w *Writer) {
	w.U16(p.ProtocolVersion)
	w.ASCIIString(p.GUID)
	w.WideString(p.DriverName)
	w.U8(p.Reserved)
	w.ASCIIString(p.DriverNation)
	w.ASCIIString(p.CarModel)
	w.ASCIIString(p.Password)
}

// WrongProtocol carries the server's expected protocol version.
type WrongProtocol struct {
	ExpectedVersion uint16
}

func DecodeWrongProtocol(r *Reader) (WrongProtocol, error) {
	v, err := r.U16()
	return WrongProtocol{ExpectedVersion: v}, err
}

func (p WrongProtocol) Encode(w *Writer) { w.U16(p.ExpectedVersion) }

// WrongPassword / UdpError carries no body.
type WrongPassword struct{}

func DecodeWrongPassword(r *Reader) (WrongPassword, error) { return WrongPassword{}, nil }
func (p WrongPassword) Encode(w *Writer)                   {}

// NoSlotsForCarModel carries no body.
type NoSlotsForCarModel struct{}

func DecodeNoSlotsForCarModel(r *Reader) (NoSlotsForCarModel, error) {
	return NoSlotsForCarModel{}, nil
}
func (p NoSlotsForCarModel) Encode(w *Writer) {}

// Banned carries no body.
type Banned struct{}

func DecodeBanned(r *Reader) (Banned, error) { return Banned{}, nil }
func (p Banned) Encode(w *Writer)            {}

// SessionEntry is the compact per-session row embedded in NewCarConnection.
type SessionEntry struct {
	Kind        SessionKind
	DurationSec uint16
	Laps        uint16
}

func readSessionEntry(r *Reader) (SessionEntry, error) {
	k, err := r.U8()
	if err != nil {
		return SessionEntry{}, err
	}
	d, err := r.U16()
	if err != nil {
		return SessionEntry{}, err
	}
	l, err := r.U16()
	if err != nil {
		return SessionEntry{}, err
	}
	return SessionEntry{Kind: SessionKind(k), DurationSec: d, Laps: l}, nil
}

func writeSessionEntry(w *Writer, e SessionEntry) {
	w.U8(uint8(e.Kind))
	w.U16(e.DurationSec)
	w.U16(e.Laps)
}

// NewCarConnection is the welcome frame sent once handshake succeeds. Field
// order matches the reference server's packet layout.
type NewCarConnection struct {
	ServerName           string
	ServerPort           uint16
	TickRateHz           uint8
	Track                string
	TrackConfig          string
	CarModel             string
	CarSkin              string
	SunAngle             float32
	AllowedTyresOut      int16
	TyreBlanketsAllowed  bool
	TCAllowed            OnOffFactory
	ABSAllowed           OnOffFactory
	StabilityAllowed     bool
	AutoClutchAllowed    bool
	StartRule            uint8
	DamageMultiplier     float32
	FuelRate             float32
	TyreWearRate         float32
	ForceVirtualMirror   bool
	MaxContactsPerKm     uint8
	RaceOverTimeSec      uint32
	ResultScreenTimeSec  uint32
	HasExtraLap          bool
	GasPenaltyDisabled   bool
	PitWindowStart       uint16
	PitWindowEnd         uint16
	InvertedGridPosition int16
	SessionID            uint8
	Sessions             []SessionEntry
	SessionName          string
	SessionIndex         uint8
	SessionKindCur       SessionKind
	SessionDurationSec   uint16
	SessionLaps          uint16
	GripLevel            float32
	GridPosition         uint8
	SessionStartTimeUnix int64
	ChecksumFiles        []string
	RandomSeed           uint32
	LegalTyresMask       uint32
}

func DecodeNewCarConnection(r *Reader) (NewCarConnection, error) {
	var p NewCarConnection
	var err error
	var u8 uint8
	var b bool
	var i8 int8

	if p.ServerName, err = r.WideString(); err != nil {
		return p, err
	}
	if p.ServerPort, err = r.U16(); err != nil {
		return p, err
	}
	if p.TickRateHz, err = r.U8(); err != nil {
		return p, err
	}
	if p.Track, err = r.ASCIIString(); err != nil {
		return p, err
	}
	if p.TrackConfig, err = r.ASCIIString(); err != nil {
		return p, err
	}
	if p.CarModel, err = r.ASCIIString(); err != nil {
		return p, err
	}
	if p.CarSkin, err = r.ASCIIString(); err != nil {
		return p, err
	}
	if p.SunAngle, err = r.F32(); err != nil {
		return p, err
	}
	if p.AllowedTyresOut, err = r.I16(); err != nil {
		return p, err
	}
	if p.TyreBlanketsAllowed, err = r.Bool(); err != nil {
		return p, err
	}
	if i8, err = r.I8(); err != nil {
		return p, err
	}
	p.TCAllowed = OnOffFactory(i8)
	if i8, err = r.I8(); err != nil {
		return p, err
	}
	p.ABSAllowed = OnOffFactory(i8)
	if p.StabilityAllowed, err = r.Bool(); err != nil {
		return p, err
	}
	if p.AutoClutchAllowed, err = r.Bool(); err != nil {
		return p, err
	}
	if p.StartRule, err = r.U8(); err != nil {
		return p, err
	}
	if p.DamageMultiplier, err = r.F32(); err != nil {
		return p, err
	}
	if p.FuelRate, err = r.F32(); err != nil {
		return p, err
	}
	if p.TyreWearRate, err = r.F32(); err != nil {
		return p, err
	}
	if p.ForceVirtualMirror, err = r.Bool(); err != nil {
		return p, err
	}
	if p.MaxContactsPerKm, err = r.U8(); err != nil {
		return p, err
	}
	if p.RaceOverTimeSec, err = r.U32(); err != nil {
		return p, err
	}
	if p.ResultScreenTimeSec, err = r.U32(); err != nil {
		return p, err
	}
	if p.HasExtraLap, err = r.Bool(); err != nil {
		return p, err
	}
	if p.GasPenaltyDisabled, err = r.Bool(); err != nil {
		return p, err
	}
	if p.PitWindowStart, err = r.U16(); err != nil {
		return p, err
	}
	if p.PitWindowEnd, err = r.U16(); err != nil {
		return p, err
	}
	if p.InvertedGridPosition, err = r.I16(); err != nil {
		return p, err
	}
	if p.SessionID, err = r.U8(); err != nil {
		return p, err
	}
	if p.Sessions, err = ReadVecU8(r, readSessionEntry); err != nil {
		return p, err
	}
	if p.SessionName, err = r.ASCIIString(); err != nil {
		return p, err
	}
	if p.SessionIndex, err = r.U8(); err != nil {
		return p, err
	}
	if u8, err = r.U8(); err != nil {
		return p, err
	}
	p.SessionKindCur = SessionKind(u8)
	if p.SessionDurationSec, err = r.U16(); err != nil {
		return p, err
	}
	if p.SessionLaps, err = r.U16(); err != nil {
		return p, err
	}
	if p.GripLevel, err = r.F32(); err != nil {
		return p, err
	}
	if p.GridPosition, err = r.U8(); err != nil {
		return p, err
	}
	if p.SessionStartTimeUnix, err = r.I64(); err != nil {
		return p, err
	}
	if p.ChecksumFiles, err = readASCIIVec(r); err != nil {
		return p, err
	}
	if p.RandomSeed, err = r.U32(); err != nil {
		return p, err
	}
	if p.LegalTyresMask, err = r.U32(); err != nil {
		return p, err
	}
	_ = b
	return p, nil
}

func (p NewCarConnection) Encode(w *Writer) {
	w.WideString(p.ServerName)
	w.U16(p.ServerPort)
	w.U8(p.TickRateHz)
	w.ASCIIString(p.Track)
	w.ASCIIString(p.TrackConfig)
	w.ASCIIString(p.CarModel)
	w.ASCIIString(p.CarSkin)
	w.F32(p.SunAngle)
	w.I16(p.AllowedTyresOut)
	w.Bool(p.TyreBlanketsAllowed)
	w.I8(int8(p.TCAllowed))
	w.I8(int8(p.ABSAllowed))
	w.Bool(p.StabilityAllowed)
	w.Bool(p.AutoClutchAllowed)
	w.U8(p.StartRule)
	w.F32(p.DamageMultiplier)
	w.F32(p.FuelRate)
	w.F32(p.TyreWearRate)
	w.Bool(p.ForceVirtualMirror)
	w.U8(p.MaxContactsPerKm)
	w.U32(p.RaceOverTimeSec)
	w.U32(p.ResultScreenTimeSec)
	w.Bool(p.HasExtraLap)
	w.Bool(p.GasPenaltyDisabled)
	w.U16(p.PitWindowStart)
	w.U16(p.PitWindowEnd)
	w.I16(p.InvertedGridPosition)
	w.U8(p.SessionID)
	WriteVecU8(w, p.Sessions, writeSessionEntry)
	w.ASCIIString(p.SessionName)
	w.U8(p.SessionIndex)
	w.U8(uint8(p.SessionKindCur))
	w.U16(p.SessionDurationSec)
	w.U16(p.SessionLaps)
	w.F32(p.GripLevel)
	w.U8(p.GridPosition)
	w.I64(p.SessionStartTimeUnix)
	writeASCIIVec(w, p.ChecksumFiles)
	w.U32(p.RandomSeed)
	w.U32(p.LegalTyresMask)
}

// Car is one row of a CarList packet.
type Car struct {
	Index            uint8
	CarModel         string
	CarSkin          string
	DriverName       string
	DriverTeam       string
	DriverNation     string
	IsSpectator      bool
	EngineDamage     float32
	GearboxDamage    float32
	FrontSuspDamage  float32
	SteeringDamage   float32
	RearSuspDamage   float32
}

func readCar(r *Reader) (Car, error) {
	var c Car
	var err error
	if c.Index, err = r.U8(); err != nil {
		return c, err
	}
	if c.CarModel, err = r.ASCIIString(); err != nil {
		return c, err
	}
	if c.CarSkin, err = r.ASCIIString(); err != nil {
		return c, err
	}
	if c.DriverName, err = r.ASCIIString(); err != nil {
		return c, err
	}
	if c.DriverTeam, err = r.ASCIIString(); err != nil {
		return c, err
	}
	if c.DriverNation, err = r.ASCIIString(); err != nil {
		return c, err
	}
	if c.IsSpectator, err = r.Bool(); err != nil {
		return c, err
	}
	if c.EngineDamage, err = r.F32(); err != nil {
		return c, err
	}
	if c.GearboxDamage, err = r.F32(); err != nil {
		return c, err
	}
	if c.FrontSuspDamage, err = r.F32(); err != nil {
		return c, err
	}
	if c.SteeringDamage, err = r.F32(); err != nil {
		return c, err
	}
	if c.RearSuspDamage, err = r.F32(); err != nil {
		return c, err
	}
	return c, nil
}

func writeCar(w *Writer, c Car) {
	w.U8(c.Index)
	w.ASCIIString(c.CarModel)
	w.ASCIIString(c.CarSkin)
	w.ASCIIString(c.DriverName)
	w.ASCIIString(c.DriverTeam)
	w.ASCIIString(c.DriverNation)
	w.Bool(c.IsSpectator)
	w.F32(c.EngineDamage)
	w.F32(c.GearboxDamage)
	w.F32(c.FrontSuspDamage)
	w.F32(c.SteeringDamage)
	w.F32(c.RearSuspDamage)
}

// CarList answers a CarlistRequest starting at FromSessionID.
type CarList struct {
	FromSessionID uint8
	Cars          []Car
}

func DecodeCarList(r *Reader) (CarList, error) {
	var p CarList
	var err error
	if p.FromSessionID, err = r.U8(); err != nil {
		return p, err
	}
	if p.Cars, err = ReadVecU8(r, readCar); err != nil {
		return p, err
	}
	return p, nil
}

func (p CarList) Encode(w *Writer) {
	w.U8(p.FromSessionID)
	WriteVecU8(w, p.Cars, writeCar)
}

// CarlistRequest asks for slots from Index onward.
type CarlistRequest struct {
	Index uint8
}

func DecodeCarlistRequest(r *Reader) (CarlistRequest, error) {
	v, err := r.U8()
	return CarlistRequest{Index: v}, err
}
func (p CarlistRequest) Encode(w *Writer) { w.U8(p.Index) }

// Disconnect carries no body.
type Disconnect struct{}

func DecodeDisconnect(r *Reader) (Disconnect, error) { return Disconnect{}, nil }
func (p Disconnect) Encode(w *Writer)                {}

// ClientDisconnect announces a car id has left.
type ClientDisconnect struct {
	CarID uint8
}

func DecodeClientDisconnect(r *Reader) (ClientDisconnect, error) {
	v, err := r.U8()
	return ClientDisconnect{CarID: v}, err
}
func (p ClientDisconnect) Encode(w *Writer) { w.U8(p.CarID) }

// Checksum carries no explicit count; the decoder consumes every whole
// 16-byte group left in the frame.
type Checksum struct {
	Hashes [][16]byte
}

func DecodeChecksum(r *Reader) (Checksum, error) {
	h, err := r.RemainingMD5s()
	return Checksum{Hashes: h}, err
}

func (p Checksum) Encode(w *Writer) {
	for _, h := range p.Hashes {
		w.MD5(h)
	}
}

// CarUpdate is the UDP motion snapshot. Field order matches the reference
// client's wire layout (sequence byte and timestamp lead the payload).
type CarUpdate struct {
	Sequence          uint8
	Timestamp         uint32
	Position          Vec3f
	Rotation          Vec3f
	Velocity          Vec3f
	TyreAngularSpeed  [4]uint8
	SteerAngle        uint8
	WheelAngle        uint8
	EngineRPM         uint16
	Gear              uint8
	StatusBits        uint32
	PerformanceDelta  int16
	Gas               uint8
	NormalizedLapPos  float32
}

func DecodeCarUpdate(r *Reader) (CarUpdate, error) {
	var p CarUpdate
	var err error
	if p.Sequence, err = r.U8(); err != nil {
		return p, err
	}
	if p.Timestamp, err = r.U32(); err != nil {
		return p, err
	}
	if p.Position, err = readVec3f(r); err != nil {
		return p, err
	}
	if p.Rotation, err = readVec3f(r); err != nil {
		return p, err
	}
	if p.Velocity, err = readVec3f(r); err != nil {
		return p, err
	}
	for i := range p.TyreAngularSpeed {
		if p.TyreAngularSpeed[i], err = r.U8(); err != nil {
			return p, err
		}
	}
	if p.SteerAngle, err = r.U8(); err != nil {
		return p, err
	}
	if p.WheelAngle, err = r.U8(); err != nil {
		return p, err
	}
	if p.EngineRPM, err = r.U16(); err != nil {
		return p, err
	}
	if p.Gear, err = r.U8(); err != nil {
		return p, err
	}
	if p.StatusBits, err = r.U32(); err != nil {
		return p, err
	}
	if p.PerformanceDelta, err = r.I16(); err != nil {
		return p, err
	}
	if p.Gas, err = r.U8(); err != nil {
		return p, err
	}
	if p.NormalizedLapPos, err = r.F32(); err != nil {
		return p, err
	}
	return p, nil
}

func (p CarUpdate) Encode(w *Writer) {
	w.U8(p.Sequence)
	w.U32(p.Timestamp)
	writeVec3f(w, p.Position)
	writeVec3f(w, p.Rotation)
	writeVec3f(w, p.Velocity)
	for _, v := range p.TyreAngularSpeed {
		w.U8(v)
	}
	w.U8(p.SteerAngle)
	w.U8(p.WheelAngle)
	w.U16(p.EngineRPM)
	w.U8(p.Gear)
	w.U32(p.StatusBits)
	w.I16(p.PerformanceDelta)
	w.U8(p.Gas)
	w.F32(p.NormalizedLapPos)
}

// CarPosition is one row inside a MegaPacket.
type CarPosition struct {
	CarID uint8
	CarUpdate
}

func readCarPosition(r *Reader) (CarPosition, error) {
	id, err := r.U8()
	if err != nil {
		return CarPosition{}, err
	}
	u, err := DecodeCarUpdate(r)
	if err != nil {
		return CarPosition{}, err
	}
	return CarPosition{CarID: id, CarUpdate: u}, nil
}

func writeCarPosition(w *Writer, c CarPosition) {
	w.U8(c.CarID)
	c.CarUpdate.Encode(w)
}

// MegaPacket is the UDP position fan-out sent once per tick to every
// connected client that has completed its first update.
type MegaPacket struct {
	Cars []CarPosition
}

func DecodeMegaPacket(r *Reader) (MegaPacket, error) {
	cars, err := ReadVecU8(r, readCarPosition)
	return MegaPacket{Cars: cars}, err
}

func (p MegaPacket) Encode(w *Writer) {
	WriteVecU8(w, p.Cars, writeCarPosition)
}

// Chat is rebroadcast to peers with the sender's car id attached.
type Chat struct {
	CarID   uint8
	Message string
}

func DecodeChat(r *Reader) (Chat, error) {
	var p Chat
	var err error
	if p.CarID, err = r.U8(); err != nil {
		return p, err
	}
	if p.Message, err = r.WideString(); err != nil {
		return p, err
	}
	return p, nil
}

func (p Chat) Encode(w *Writer) {
	w.U8(p.CarID)
	w.WideString(p.Message)
}

// LapCompleted doubles as the inbound report and outbound broadcast; the
// outbound form additionally carries the full lap ledger and current grip.
type LapCompleted struct {
	CarID      uint8
	LaptimeMs  uint32
	Splits     []uint32
	Cuts       uint8
	GripLevel  float32
	Laps       []LapRecordWire
}

// LapRecordWire is one row of the lap ledger echoed in LapCompleted's
// outbound form.
type LapRecordWire struct {
	CarID              uint8
	LaptimeMs          uint32
	Cuts               uint8
	LapNumber          uint16
	HasCompletedLastLap bool
}

func readLapRecordWire(r *Reader) (LapRecordWire, error) {
	var l LapRecordWire
	var err error
	if l.CarID, err = r.U8(); err != nil {
		return l, err
	}
	if l.LaptimeMs, err = r.U32(); err != nil {
		return l, err
	}
	if l.Cuts, err = r.U8(); err != nil {
		return l, err
	}
	if l.LapNumber, err = r.U16(); err != nil {
		return l, err
	}
	if l.HasCompletedLastLap, err = r.Bool(); err != nil {
		return l, err
	}
	return l, nil
}

func writeLapRecordWire(w *Writer, l LapRecordWire) {
	w.U8(l.CarID)
	w.U32(l.LaptimeMs)
	w.U8(l.Cuts)
	w.U16(l.LapNumber)
	w.Bool(l.HasCompletedLastLap)
}

func DecodeLapCompleted(r *Reader) (LapCompleted, error) {
	var p LapCompleted
	var err error
	if p.CarID, err = r.U8(); err != nil {
		return p, err
	}
	if p.LaptimeMs, err = r.U32(); err != nil {
		return p, err
	}
	if p.Splits, err = ReadVecU8(r, func(r *Reader) (uint32, error) { return r.U32() }); err != nil {
		return p, err
	}
	if p.Cuts, err = r.U8(); err != nil {
		return p, err
	}
	return p, nil
}

func (p LapCompleted) Encode(w *Writer) {
	w.U8(p.CarID)
	w.U32(p.LaptimeMs)
	WriteVecU8(w, p.Splits, func(w *Writer, v uint32) { w.U32(v) })
	w.U8(p.Cuts)
	w.F32(p.GripLevel)
	WriteVecU8(w, p.Laps, writeLapRecordWire)
}

// RaceBest is one cumulative best-lap row in RaceOver.
type RaceBest struct {
	CarID     uint8
	BestLapMs uint32
}

// RaceOver carries no internal count either; the decoder reads as many
// RaceBest rows as fit before the trailing InvertGrid boolean.
type RaceOver struct {
	Bests       []RaceBest
	InvertGrid  bool
}

func DecodeRaceOver(r *Reader) (RaceOver, error) {
	var p RaceOver
	for r.Remaining() > 5 {
		var rb RaceBest
		var err error
		if rb.CarID, err = r.U8(); err != nil {
			return p, err
		}
		if rb.BestLapMs, err = r.U32(); err != nil {
			return p, err
		}
		p.Bests = append(p.Bests, rb)
	}
	var err error
	if p.InvertGrid, err = r.Bool(); err != nil {
		return p, err
	}
	return p, nil
}

func (p RaceOver) Encode(w *Writer) {
	for _, rb := range p.Bests {
		w.U8(rb.CarID)
		w.U32(rb.BestLapMs)
	}
	w.Bool(p.InvertGrid)
}

// UpdateSession broadcasts the current session descriptor to a client whose
// SessionRequest didn't match.
type UpdateSession struct {
	SessionName        string
	SessionIndex       uint8
	Kind               SessionKind
	DurationSec        uint16
	Laps               uint16
	GripLevel          float32
	GridPosition       uint8
	SessionStartUnix   int64
}

func DecodeUpdateSession(r *Reader) (UpdateSession, error) {
	var p UpdateSession
	var err error
	var u8 uint8
	if p.SessionName, err = r.ASCIIString(); err != nil {
		return p, err
	}
	if p.SessionIndex, err = r.U8(); err != nil {
		return p, err
	}
	if u8, err = r.U8(); err != nil {
		return p, err
	}
	p.Kind = SessionKind(u8)
	if p.DurationSec, err = r.U16(); err != nil {
		return p, err
	}
	if p.Laps, err = r.U16(); err != nil {
		return p, err
	}
	if p.GripLevel, err = r.F32(); err != nil {
		return p, err
	}
	if p.GridPosition, err = r.U8(); err != nil {
		return p, err
	}
	if p.SessionStartUnix, err = r.I64(); err != nil {
		return p, err
	}
	return p, nil
}

func (p UpdateSession) Encode(w *Writer) {
	w.ASCIIString(p.SessionName)
	w.U8(p.SessionIndex)
	w.U8(uint8(p.Kind))
	w.U16(p.DurationSec)
	w.U16(p.Laps)
	w.F32(p.GripLevel)
	w.U8(p.GridPosition)
	w.I64(p.SessionStartUnix)
}

// Pulse is a UDP keepalive with no body.
type Pulse struct{}

func DecodePulse(r *Reader) (Pulse, error) { return Pulse{}, nil }
func (p Pulse) Encode(w *Writer)           {}

// UpdateUdpAddress both asserts the sender's car id (client→server) and
// acknowledges the binding (server→client, empty CarID=0 body).
type UpdateUdpAddress struct {
	CarID uint8
}

func DecodeUpdateUdpAddress(r *Reader) (UpdateUdpAddress, error) {
	v, err := r.U8()
	return UpdateUdpAddress{CarID: v}, err
}
func (p UpdateUdpAddress) Encode(w *Writer) { w.U8(p.CarID) }

// SessionRequest asks the server to confirm the current session kind.
type SessionRequest struct {
	Kind SessionKind
}

func DecodeSessionRequest(r *Reader) (SessionRequest, error) {
	v, err := r.U8()
	return SessionRequest{Kind: SessionKind(v)}, err
}
func (p SessionRequest) Encode(w *Writer) { w.U8(uint8(p.Kind)) }

// ChangeTireCompound both reports a client's chosen compound and
// rebroadcasts it tagged with car id.
type ChangeTireCompound struct {
	CarID    uint8
	Compound string
}

func DecodeChangeTireCompound(r *Reader) (ChangeTireCompound, error) {
	var p ChangeTireCompound
	var err error
	if p.CarID, err = r.U8(); err != nil {
		return p, err
	}
	if p.Compound, err = r.ASCIIString(); err != nil {
		return p, err
	}
	return p, nil
}

func (p ChangeTireCompound) Encode(w *Writer) {
	w.U8(p.CarID)
	w.ASCIIString(p.Compound)
}

// MandatoryPit reports a car's mandatory-pit status, part of the first
// UDP-update burst.
type MandatoryPit struct {
	CarID     uint8
	Satisfied bool
}

func DecodeMandatoryPit(r *Reader) (MandatoryPit, error) {
	var p MandatoryPit
	var err error
	if p.CarID, err = r.U8(); err != nil {
		return p, err
	}
	if p.Satisfied, err = r.Bool(); err != nil {
		return p, err
	}
	return p, nil
}

func (p MandatoryPit) Encode(w *Writer) {
	w.U8(p.CarID)
	w.Bool(p.Satisfied)
}

// WelcomeMessage is the free-text MOTD, sent once per first UDP update.
type WelcomeMessage struct {
	Text string
}

func DecodeWelcomeMessage(r *Reader) (WelcomeMessage, error) {
	v, err := r.BigWideString()
	return WelcomeMessage{Text: v}, err
}
func (p WelcomeMessage) Encode(w *Writer) { w.BigWideString(p.Text) }

// Bop is a single car's ballast/restrictor pair.
type Bop struct {
	CarID      uint8
	Ballast    float32
	Restrictor float32
}

func readBop(r *Reader) (Bop, error) {
	var b Bop
	var err error
	if b.CarID, err = r.U8(); err != nil {
		return b, err
	}
	if b.Ballast, err = r.F32(); err != nil {
		return b, err
	}
	if b.Restrictor, err = r.F32(); err != nil {
		return b, err
	}
	return b, nil
}

func writeBop(w *Writer, b Bop) {
	w.U8(b.CarID)
	w.F32(b.Ballast)
	w.F32(b.Restrictor)
}

// Bops is the aggregated BoP table broadcast at the end of the first
// UDP-update burst.
type Bops struct {
	Entries []Bop
}

func DecodeBops(r *Reader) (Bops, error) {
	e, err := ReadVecU8(r, readBop)
	return Bops{Entries: e}, err
}

func (p Bops) Encode(w *Writer) { WriteVecU8(w, p.Entries, writeBop) }

// CarSetup carries per-car setup immutables. The server decodes and encodes
// it but never sends it. Non-goals exclude physics simulation, so this is a
// thin fixed-field shape rather than a tunable setup model.
type CarSetup struct {
	CarID        uint8
	FuelRate     float32
	TyreWearRate float32
}

func DecodeCarSetup(r *Reader) (CarSetup, error) {
	var p CarSetup
	var err error
	if p.CarID, err = r.U8(); err != nil {
		return p, err
	}
	if p.FuelRate, err = r.F32(); err != nil {
		return p, err
	}
	if p.TyreWearRate, err = r.F32(); err != nil {
		return p, err
	}
	return p, nil
}

func (p CarSetup) Encode(w *Writer) {
	w.U8(p.CarID)
	w.F32(p.FuelRate)
	w.F32(p.TyreWearRate)
}

// DRSZone is a single zone's detection/activation markers along the lap.
type DRSZone struct {
	DetectionPoint float32
	ActivationStartPoint float32
}

func readDRSZone(r *Reader) (DRSZone, error) {
	var z DRSZone
	var err error
	if z.DetectionPoint, err = r.F32(); err != nil {
		return z, err
	}
	if z.ActivationStartPoint, err = r.F32(); err != nil {
		return z, err
	}
	return z, nil
}

func writeDRSZone(w *Writer, z DRSZone) {
	w.F32(z.DetectionPoint)
	w.F32(z.ActivationStartPoint)
}

// DRSZones is sent once per handshake completion, populated from config.
type DRSZones struct {
	Zones []DRSZone
}

func DecodeDRSZones(r *Reader) (DRSZones, error) {
	z, err := ReadVecU8(r, readDRSZone)
	return DRSZones{Zones: z}, err
}

func (p DRSZones) Encode(w *Writer) { WriteVecU8(w, p.Zones, writeDRSZone) }

// DamageUpdate carries the five damage zone values, client-report and
// server-broadcast alike. CarID is not part of the wire body: Encode and
// Decode skip it, so a broadcast copy does not identify the car.
type DamageUpdate struct {
	CarID           uint8
	Engine          float32
	Gearbox         float32
	FrontSuspension float32
	Steering        float32
	RearSuspension  float32
}

func DecodeDamageUpdate(r *Reader) (DamageUpdate, error) {
	var p DamageUpdate
	var err error
	if p.Engine, err = r.F32(); err != nil {
		return p, err
	}
	if p.Gearbox, err = r.F32(); err != nil {
		return p, err
	}
	if p.FrontSuspension, err = r.F32(); err != nil {
		return p, err
	}
	if p.Steering, err = r.F32(); err != nil {
		return p, err
	}
	if p.RearSuspension, err = r.F32(); err != nil {
		return p, err
	}
	return p, nil
}

func (p DamageUpdate) Encode(w *Writer) {
	w.F32(p.Engine)
	w.F32(p.Gearbox)
	w.F32(p.FrontSuspension)
	w.F32(p.Steering)
	w.F32(p.RearSuspension)
}

// SectorSplit both reports and rebroadcasts a sector split time. The
// reference client's SectorSplit body is car id, split time, then sector
// index, in that order.
type SectorSplit struct {
	CarID     uint8
	SplitMs   uint32
	SectorIdx uint8
}

func DecodeSectorSplit(r *Reader) (SectorSplit, error) {
	var p SectorSplit
	var err error
	if p.CarID, err = r.U8(); err != nil {
		return p, err
	}
	if p.SplitMs, err = r.U32(); err != nil {
		return p, err
	}
	if p.SectorIdx, err = r.U8(); err != nil {
		return p, err
	}
	return p, nil
}

func (p SectorSplit) Encode(w *Writer) {
	w.U8(p.CarID)
	w.U32(p.SplitMs)
	w.U8(p.SectorIdx)
}

// VoteCast is the shape shared by NextSessionVote, RestartSessionVote, and
// KickVote: the voting car id, and for KickVote only, the target car id.
// NextSessionVote and RestartSessionVote carry a single byte on the wire;
// KickVote carries two.
type VoteCast struct {
	CarID  uint8
	Target uint8 // only meaningful for KickVote
}

// DecodeVoteCast1 decodes the one-byte NextSessionVote/RestartSessionVote
// body.
func DecodeVoteCast1(r *Reader) (VoteCast, error) {
	var p VoteCast
	var err error
	if p.CarID, err = r.U8(); err != nil {
		return p, err
	}
	return p, nil
}

// DecodeVoteCast2 decodes the two-byte KickVote body.
func DecodeVoteCast2(r *Reader) (VoteCast, error) {
	var p VoteCast
	var err error
	if p.CarID, err = r.U8(); err != nil {
		return p, err
	}
	if p.Target, err = r.U8(); err != nil {
		return p, err
	}
	return p, nil
}

// Encode1 writes the one-byte NextSessionVote/RestartSessionVote body.
func (p VoteCast) Encode1(w *Writer) {
	w.U8(p.CarID)
}

// Encode2 writes the two-byte KickVote body.
func (p VoteCast) Encode2(w *Writer) {
	w.U8(p.CarID)
	w.U8(p.Target)
}

// Kick notifies a client it is being removed.
type Kick struct {
	SessionID uint8
	Reason    KickReason
}

func DecodeKick(r *Reader) (Kick, error) {
	var p Kick
	var err error
	if p.SessionID, err = r.U8(); err != nil {
		return p, err
	}
	var u8 uint8
	if u8, err = r.U8(); err != nil {
		return p, err
	}
	p.Reason = KickReason(u8)
	return p, nil
}

func (p Kick) Encode(w *Writer) {
	w.U8(p.SessionID)
	w.U8(uint8(p.Reason))
}

// Weather is the current resolved weather broadcast once per rotation.
// Temperatures are whole degrees and wind speed and direction are whole
// numbers, matching the reference client's integer-only Weather layout.
type Weather struct {
	AmbientTemp   uint8
	RoadTemp      uint8
	Graphics      string
	WindSpeed     int16
	WindDirection int16
}

func DecodeWeather(r *Reader) (Weather, error) {
	var p Weather
	var err error
	if p.AmbientTemp, err = r.U8(); err != nil {
		return p, err
	}
	if p.RoadTemp, err = r.U8(); err != nil {
		return p, err
	}
	if p.Graphics, err = r.WideString(); err != nil {
		return p, err
	}
	if p.WindSpeed, err = r.I16(); err != nil {
		return p, err
	}
	if p.WindDirection, err = r.I16(); err != nil {
		return p, err
	}
	return p, nil
}

func (p Weather) Encode(w *Writer) {
	w.U8(p.AmbientTemp)
	w.U8(p.RoadTemp)
	w.WideString(p.Graphics)
	w.I16(p.WindSpeed)
	w.I16(p.WindDirection)
}

// Event is a collision report. Resolves the spec's open question in favor
// of the variant-controlled optional: OtherCar is present only when the
// collision was car-to-car rather than car-to-environment.
type Event struct {
	EventType    uint16
	OtherCar     *uint8
	ImpactSpeed  float32
	WorldPos     Vec3f
	RealPos      Vec3f
}

func DecodeEvent(r *Reader) (Event, error) {
	var p Event
	var err error
	if p.EventType, err = r.U16(); err != nil {
		return p, err
	}
	if p.OtherCar, err = ReadOptional(r, func(r *Reader) (uint8, error) { return r.U8() }); err != nil {
		return p, err
	}
	if p.ImpactSpeed, err = r.F32(); err != nil {
		return p, err
	}
	if p.WorldPos, err = readVec3f(r); err != nil {
		return p, err
	}
	if p.RealPos, err = readVec3f(r); err != nil {
		return p, err
	}
	return p, nil
}

func (p Event) Encode(w *Writer) {
	w.U16(p.EventType)
	WriteOptional(w, p.OtherCar, func(w *Writer, v uint8) { w.U8(v) })
	w.F32(p.ImpactSpeed)
	writeVec3f(w, p.WorldPos)
	writeVec3f(w, p.RealPos)
}

// LobbyCheckMessage is a UDP probe; the reply carries the server's HTTP
// port so lobby browsers can locate the JSON endpoint.
type LobbyCheckMessage struct {
	HTTPPort uint16
}

func DecodeLobbyCheckMessage(r *Reader) (LobbyCheckMessage, error) {
	v, err := r.U16()
	return LobbyCheckMessage{HTTPPort: v}, err
}
func (p LobbyCheckMessage) Encode(w *Writer) { w.U16(p.HTTPPort) }

// Ping is sent by the server once per second to each bound client. The
// reference client's Ping body is a u32 timestamp plus a u16 field whose
// meaning is unconfirmed upstream; the server leaves it zero.
type Ping struct {
	SentTimeUnixMs uint32
	Unknown        uint16
}

func DecodePing(r *Reader) (Ping, error) {
	var p Ping
	var err error
	if p.SentTimeUnixMs, err = r.U32(); err != nil {
		return p, err
	}
	if p.Unknown, err = r.U16(); err != nil {
		return p, err
	}
	return p, nil
}

func (p Ping) Encode(w *Writer) {
	w.U32(p.SentTimeUnixMs)
	w.U16(p.Unknown)
}

// Pong is the client's liveness reply: two u32 fields, both of unconfirmed
// meaning upstream. The server treats the first as the echoed timestamp.
type Pong struct {
	SentTimeUnixMs uint32
	TimeOffsetMs   uint32
}

func DecodePong(r *Reader) (Pong, error) {
	var p Pong
	var err error
	if p.SentTimeUnixMs, err = r.U32(); err != nil {
		return p, err
	}
	if p.TimeOffsetMs, err = r.U32(); err != nil {
		return p, err
	}
	return p, nil
}

func (p Pong) Encode(w *Writer) {
	w.U32(p.SentTimeUnixMs)
	w.U32(p.TimeOffsetMs)
}

// ClientFirstUpdateUdp has no body. The server decodes it but never sends
// it; a UDP address binding is acknowledged with UpdateUdpAddress instead.
type ClientFirstUpdateUdp struct{}

func DecodeClientFirstUpdateUdp(r *Reader) (ClientFirstUpdateUdp, error) {
	return ClientFirstUpdateUdp{}, nil
}
func (p ClientFirstUpdateUdp) Encode(w *Writer) {}

// P2PCount both probes (Count == -1) and broadcasts the current remaining
// push-to-pass count for a car.
type P2PCount struct {
	CarID uint8
	Count int16
}

func DecodeP2PCount(r *Reader) (P2PCount, error) {
	var p P2PCount
	var err error
	if p.CarID, err = r.U8(); err != nil {
		return p, err
	}
	if p.Count, err = r.I16(); err != nil {
		return p, err
	}
	return p, nil
}

func (p P2PCount) Encode(w *Writer) {
	w.U8(p.CarID)
	w.I16(p.Count)
}
