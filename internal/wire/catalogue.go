package wire

// Packet is any payload type capable of encoding its body (without the
// leading id byte).
type Packet interface {
	Encode(w *Writer)
}

// EncodePayload writes id || body, the on-wire payload for one packet. For
// TCP this is handed to EncodeFrame; for UDP it is sent as-is.
func EncodePayload(id PacketID, p Packet) []byte {
	w := NewWriter()
	w.U8(uint8(id))
	p.Encode(w)
	return w.Bytes()
}

// DecodePayload dispatches on the leading id byte and decodes the
// corresponding packet. An unrecognized id is a fatal decode error, never a
// silent drop.
func DecodePayload(payload []byte) (PacketID, any, error) {
	r := NewReader(payload)
	idByte, err := r.U8()
	if err != nil {
		return 0, nil, err
	}
	id := PacketID(idByte)
	switch id {
	case IDJoinRequest:
		v, err := DecodeJoinRequest(r)
		return id, v, err
	case IDNewCarConnection:
		v, err := DecodeNewCarConnection(r)
		return id, v, err
	case IDClientFirstUpdateUdp:
		v, err := DecodeClientFirstUpdateUdp(r)
		return id, v, err
	case IDBanned:
		v, err := DecodeBanned(r)
		return id, v, err
	case IDWrongPassword:
		v, err := DecodeWrongPassword(r)
		return id, v, err
	case IDCarList:
		v, err := DecodeCarList(r)
		return id, v, err
	case IDCarlistRequest:
		v, err := DecodeCarlistRequest(r)
		return id, v, err
	case IDWrongProtocol:
		v, err := DecodeWrongProtocol(r)
		return id, v, err
	case IDDisconnect:
		v, err := DecodeDisconnect(r)
		return id, v, err
	case IDChecksum:
		v, err := DecodeChecksum(r)
		return id, v, err
	case IDNoSlotsForCarModel:
		v, err := DecodeNoSlotsForCarModel(r)
		return id, v, err
	case IDCarUpdate:
		v, err := DecodeCarUpdate(r)
		return id, v, err
	case IDChat:
		v, err := DecodeChat(r)
		return id, v, err
	case IDMegaPacket:
		v, err := DecodeMegaPacket(r)
		return id, v, err
	case IDLapCompleted:
		v, err := DecodeLapCompleted(r)
		return id, v, err
	case IDUpdateSession:
		v, err := DecodeUpdateSession(r)
		return id, v, err
	case IDRaceOver:
		v, err := DecodeRaceOver(r)
		return id, v, err
	case IDPulse:
		v, err := DecodePulse(r)
		return id, v, err
	case IDClientDisconnect:
		v, err := DecodeClientDisconnect(r)
		return id, v, err
	case IDUpdateUdpAddress:
		v, err := DecodeUpdateUdpAddress(r)
		return id, v, err
	case IDSessionRequest:
		v, err := DecodeSessionRequest(r)
		return id, v, err
	case IDChangeTireCompound:
		v, err := DecodeChangeTireCompound(r)
		return id, v, err
	case IDWelcomeMessage:
		v, err := DecodeWelcomeMessage(r)
		return id, v, err
	case IDCarSetup:
		v, err := DecodeCarSetup(r)
		return id, v, err
	case IDDRSZones:
		v, err := DecodeDRSZones(r)
		return id, v, err
	case IDDamageUpdate:
		v, err := DecodeDamageUpdate(r)
		return id, v, err
	case IDSectorSplit:
		v, err := DecodeSectorSplit(r)
		return id, v, err
	case IDP2PCount:
		v, err := DecodeP2PCount(r)
		return id, v, err
	case IDMandatoryPit:
		v, err := DecodeMandatoryPit(r)
		return id, v, err
	case IDNextSessionVote, IDRestartSessionVote:
		v, err := DecodeVoteCast1(r)
		return id, v, err
	case IDKickVote:
		v, err := DecodeVoteCast2(r)
		return id, v, err
	case IDKick:
		v, err := DecodeKick(r)
		return id, v, err
	case IDBops:
		v, err := DecodeBops(r)
		return id, v, err
	case IDWeather:
		v, err := DecodeWeather(r)
		return id, v, err
	case IDEvent:
		v, err := DecodeEvent(r)
		return id, v, err
	case IDLobbyCheckMessage:
		v, err := DecodeLobbyCheckMessage(r)
		return id, v, err
	case IDPong:
		v, err := DecodePong(r)
		return id, v, err
	case IDPing:
		v, err := DecodePing(r)
		return id, v, err
	default:
		return id, nil, ErrMalformed
	}
}
