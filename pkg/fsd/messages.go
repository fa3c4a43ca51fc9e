package fsd

import (
	"strings"
)

// PDU prefixes. A line's prefix selects the message kind; the rest of the
// line is the colon-separated token payload.
const (
	PDUAddAtc                  = "#AA"
	PDUAddPilot                = "#AP"
	PDUAtcDataUpdate           = "%"
	PDUAuthChallenge           = "$ZC"
	PDUAuthResponse            = "$ZR"
	PDUClientIdentification    = "$ID"
	PDUClientQuery             = "$CQ"
	PDUClientResponse          = "$CR"
	PDUDeleteAtc               = "#DA"
	PDUDeletePilot             = "#DP"
	PDUFlightPlan              = "$FP"
	PDUProController           = "#PC"
	PDUServerIdentification    = "$DI"
	PDUKillRequest             = "$!!"
	PDUPilotDataUpdate         = "@"
	PDUVisualPilotDataUpdate   = "^"
	PDUVisualPilotDataPeriodic = "#SL"
	PDUVisualPilotDataStopped  = "#ST"
	PDUVisualPilotDataToggle   = "$SF"
	PDUPing                    = "$PI"
	PDUPong                    = "$PO"
	PDUServerError             = "$ER"
	PDUServerHeartbeat         = "#DL"
	PDUTextMessage             = "#TM"
	PDUPilotClientCom          = "#SB"
	PDURehost                  = "$XX"
	PDUMute                    = "#MU"
	PDUEuroscopeSimData        = "SIMDATA"
)

// Sub-discriminators inside #SB payloads.
const (
	comPlaneInfoRequest      = "PIR"
	comPlaneInfo             = "PI"
	comPlaneInfoGeneric      = "GEN"
	comInterimPilotData      = "VI"
	comPlaneInfoRequestFsinn = "FSIPIR"
	comPlaneInfoFsinn        = "FSIPI"
)

// ServerCallsign addresses messages to the server itself rather than to a
// connected client.
const ServerCallsign = "SERVER"

// Broadcast receiver tokens for text messages.
const (
	ReceiverBroadcastAll         = "*"
	ReceiverBroadcastATC         = "*A"
	ReceiverBroadcastPilots      = "*P"
	ReceiverBroadcastSupervisors = "*S"
)

// Message is a decoded or to-be-encoded FSD message. Tokens returns the
// payload tokens in wire order, without the PDU prefix or line ending.
type Message interface {
	PDU() string
	Tokens() []string
}

// EncodeLine renders a message as a complete wire line including the
// terminating line ending.
func EncodeLine(m Message) string {
	return m.PDU() + JoinTokens(m.Tokens()) + LineEnding
}

// MessageHeader carries the addressing common to most message kinds.
type MessageHeader struct {
	Sender   string
	Receiver string
}

// AddAtc is the ATC login request.
type AddAtc struct {
	MessageHeader
	RealName         string
	CID              string
	Password         string
	Rating           AtcRating
	ProtocolRevision int
}

func NewAddAtc(callsign, realName, cid, password string, rating AtcRating, protocolRevision int) AddAtc {
	return AddAtc{
		MessageHeader:    MessageHeader{Sender: callsign, Receiver: ServerCallsign},
		RealName:         realName,
		CID:              cid,
		Password:         password,
		Rating:           rating,
		ProtocolRevision: protocolRevision,
	}
}

func (m AddAtc) PDU() string { return PDUAddAtc }

func (m AddAtc) Tokens() []string {
	return []string{
		m.Sender, m.Receiver, m.RealName, m.CID, m.Password,
		m.Rating.Token(), intToken(m.ProtocolRevision),
	}
}

func AddAtcFromTokens(tokens []string) (AddAtc, error) {
	if len(tokens) < 7 {
		return AddAtc{}, tokenCountError(PDUAddAtc, len(tokens), 7)
	}
	return AddAtc{
		MessageHeader:    MessageHeader{Sender: tokens[0], Receiver: tokens[1]},
		RealName:         tokens[2],
		CID:              tokens[3],
		Password:         tokens[4],
		Rating:           AtcRatingFromToken(tokens[5]),
		ProtocolRevision: toInt(tokens[6]),
	}, nil
}

// AddPilot is the pilot login request.
type AddPilot struct {
	MessageHeader
	CID              string
	Password         string
	Rating           PilotRating
	ProtocolRevision int
	SimType          SimType
	RealName         string
}

func NewAddPilot(callsign, cid, password string, rating PilotRating, protocolRevision int, simType SimType, realName string) AddPilot {
	return AddPilot{
		MessageHeader:    MessageHeader{Sender: callsign, Receiver: ServerCallsign},
		CID:              cid,
		Password:         password,
		Rating:           rating,
		ProtocolRevision: protocolRevision,
		SimType:          simType,
		RealName:         realName,
	}
}

func (m AddPilot) PDU() string { return PDUAddPilot }

func (m AddPilot) Tokens() []string {
	return []string{
		m.Sender, m.Receiver, m.CID, m.Password,
		m.Rating.Token(), intToken(m.ProtocolRevision), m.SimType.Token(), m.RealName,
	}
}

func AddPilotFromTokens(tokens []string) (AddPilot, error) {
	if len(tokens) < 8 {
		return AddPilot{}, tokenCountError(PDUAddPilot, len(tokens), 8)
	}
	return AddPilot{
		MessageHeader:    MessageHeader{Sender: tokens[0], Receiver: tokens[1]},
		CID:              tokens[2],
		Password:         tokens[3],
		Rating:           PilotRatingFromToken(tokens[4]),
		ProtocolRevision: toInt(tokens[5]),
		SimType:          SimTypeFromToken(tokens[6]),
		RealName:         tokens[7],
	}, nil
}

// DeleteAtc announces an ATC logoff.
type DeleteAtc struct {
	MessageHeader
	CID string
}

func NewDeleteAtc(callsign, cid string) DeleteAtc {
	return DeleteAtc{MessageHeader: MessageHeader{Sender: callsign}, CID: cid}
}

func (m DeleteAtc) PDU() string { return PDUDeleteAtc }

func (m DeleteAtc) Tokens() []string {
	return []string{m.Sender, m.CID}
}

func DeleteAtcFromTokens(tokens []string) (DeleteAtc, error) {
	if len(tokens) < 1 {
		return DeleteAtc{}, tokenCountError(PDUDeleteAtc, len(tokens), 1)
	}
	d := DeleteAtc{MessageHeader: MessageHeader{Sender: tokens[0]}}
	if len(tokens) > 1 {
		d.CID = tokens[1]
	}
	return d, nil
}

// DeletePilot announces a pilot logoff.
type DeletePilot struct {
	MessageHeader
	CID string
}

func NewDeletePilot(callsign, cid string) DeletePilot {
	return DeletePilot{MessageHeader: MessageHeader{Sender: callsign}, CID: cid}
}

func (m DeletePilot) PDU() string { return PDUDeletePilot }

func (m DeletePilot) Tokens() []string {
	return []string{m.Sender, m.CID}
}

func DeletePilotFromTokens(tokens []string) (DeletePilot, error) {
	if len(tokens) < 1 {
		return DeletePilot{}, tokenCountError(PDUDeletePilot, len(tokens), 1)
	}
	d := DeletePilot{MessageHeader: MessageHeader{Sender: tokens[0]}}
	if len(tokens) > 1 {
		d.CID = tokens[1]
	}
	return d, nil
}

// AtcDataUpdate is the periodic controller position report. The frequency is
// carried offset on the wire.
type AtcDataUpdate struct {
	MessageHeader
	FrequencyKHz int
	Facility     FacilityType
	VisibleRange int
	Rating       AtcRating
	Latitude     float64
	Longitude    float64
	ElevationFt  int
}

func (m AtcDataUpdate) PDU() string { return PDUAtcDataUpdate }

func (m AtcDataUpdate) Tokens() []string {
	return []string{
		m.Sender,
		intToken(m.FrequencyKHz - FrequencyOffsetKHz),
		m.Facility.Token(),
		intToken(m.VisibleRange),
		m.Rating.Token(),
		fixedToken(m.Latitude, 5),
		fixedToken(m.Longitude, 5),
		intToken(m.ElevationFt),
	}
}

func AtcDataUpdateFromTokens(tokens []string) (AtcDataUpdate, error) {
	if len(tokens) < 8 {
		return AtcDataUpdate{}, tokenCountError(PDUAtcDataUpdate, len(tokens), 8)
	}
	return AtcDataUpdate{
		MessageHeader: MessageHeader{Sender: tokens[0]},
		FrequencyKHz:  toInt(tokens[1]) + FrequencyOffsetKHz,
		Facility:      FacilityTypeFromToken(tokens[2]),
		VisibleRange:  toInt(tokens[3]),
		Rating:        AtcRatingFromToken(tokens[4]),
		Latitude:      toFloat(tokens[5]),
		Longitude:     toFloat(tokens[6]),
		ElevationFt:   toInt(tokens[7]),
	}, nil
}

// Equal compares two updates with positional tolerance.
func (m AtcDataUpdate) Equal(o AtcDataUpdate) bool {
	return m.MessageHeader == o.MessageHeader &&
		m.FrequencyKHz == o.FrequencyKHz &&
		m.Facility == o.Facility &&
		m.VisibleRange == o.VisibleRange &&
		m.Rating == o.Rating &&
		epsilonEqual(m.Latitude, o.Latitude, 1e-5) &&
		epsilonEqual(m.Longitude, o.Longitude, 1e-5) &&
		m.ElevationFt == o.ElevationFt
}

// PilotDataUpdate is the standard pilot position report. The wire carries
// true altitude plus the pressure/true delta as separate tokens.
type PilotDataUpdate struct {
	MessageHeader
	Transponder      TransponderMode
	TransponderCode  int
	Rating           PilotRating
	Latitude         float64
	Longitude        float64
	AltitudeTrueFt   int
	AltitudePressure int
	GroundSpeedKts   int
	Pitch            float64
	Bank             float64
	Heading          float64
	OnGround         bool
}

func (m PilotDataUpdate) PDU() string { return PDUPilotDataUpdate }

func (m PilotDataUpdate) Tokens() []string {
	return []string{
		m.Transponder.Token(),
		m.Sender,
		intToken(m.TransponderCode),
		m.Rating.Token(),
		fixedToken(m.Latitude, 5),
		fixedToken(m.Longitude, 5),
		intToken(m.AltitudeTrueFt),
		intToken(m.GroundSpeedKts),
		uintToken(PackPBH(m.Pitch, m.Bank, m.Heading, m.OnGround)),
		intToken(m.AltitudePressure - m.AltitudeTrueFt),
	}
}

func PilotDataUpdateFromTokens(tokens []string) (PilotDataUpdate, error) {
	if len(tokens) < 10 {
		return PilotDataUpdate{}, tokenCountError(PDUPilotDataUpdate, len(tokens), 10)
	}
	m := PilotDataUpdate{
		MessageHeader:   MessageHeader{Sender: tokens[1]},
		Transponder:     TransponderModeFromToken(tokens[0]),
		TransponderCode: toInt(tokens[2]),
		Rating:          PilotRatingFromToken(tokens[3]),
		Latitude:        toFloat(tokens[4]),
		Longitude:       toFloat(tokens[5]),
		AltitudeTrueFt:  toInt(tokens[6]),
		GroundSpeedKts:  toInt(tokens[7]),
	}
	m.Pitch, m.Bank, m.Heading, m.OnGround = UnpackPBH(toUint(tokens[8]))
	m.AltitudePressure = m.AltitudeTrueFt + toInt(tokens[9])
	return m, nil
}

// Equal compares with positional tolerance and the packed-attitude
// quantization step as the angle tolerance.
func (m PilotDataUpdate) Equal(o PilotDataUpdate) bool {
	return m.MessageHeader == o.MessageHeader &&
		m.Transponder == o.Transponder &&
		m.TransponderCode == o.TransponderCode &&
		m.Rating == o.Rating &&
		epsilonEqual(m.Latitude, o.Latitude, 1e-5) &&
		epsilonEqual(m.Longitude, o.Longitude, 1e-5) &&
		m.AltitudeTrueFt == o.AltitudeTrueFt &&
		m.AltitudePressure == o.AltitudePressure &&
		m.GroundSpeedKts == o.GroundSpeedKts &&
		epsilonEqual(m.Pitch, o.Pitch, PBHAngleStep) &&
		epsilonEqual(m.Bank, o.Bank, PBHAngleStep) &&
		epsilonEqual(m.Heading, o.Heading, PBHAngleStep) &&
		m.OnGround == o.OnGround
}

// InterimPilotDataUpdate is the fast position report addressed to a single
// peer, carried as an #SB sub-message.
type InterimPilotDataUpdate struct {
	MessageHeader
	Latitude       float64
	Longitude      float64
	AltitudeTrueFt int
	GroundSpeedKts int
	Pitch          float64
	Bank           float64
	Heading        float64
	OnGround       bool
}

func (m InterimPilotDataUpdate) PDU() string { return PDUPilotClientCom }

func (m InterimPilotDataUpdate) Tokens() []string {
	return []string{
		m.Sender, m.Receiver, comInterimPilotData,
		fixedToken(m.Latitude, 5),
		fixedToken(m.Longitude, 5),
		intToken(m.AltitudeTrueFt),
		intToken(m.GroundSpeedKts),
		uintToken(PackPBH(m.Pitch, m.Bank, m.Heading, m.OnGround)),
	}
}

func InterimPilotDataUpdateFromTokens(tokens []string) (InterimPilotDataUpdate, error) {
	if len(tokens) < 8 {
		return InterimPilotDataUpdate{}, tokenCountError(PDUPilotClientCom, len(tokens), 8)
	}
	m := InterimPilotDataUpdate{
		MessageHeader:  MessageHeader{Sender: tokens[0], Receiver: tokens[1]},
		Latitude:       toFloat(tokens[3]),
		Longitude:      toFloat(tokens[4]),
		AltitudeTrueFt: toInt(tokens[5]),
		GroundSpeedKts: toInt(tokens[6]),
	}
	m.Pitch, m.Bank, m.Heading, m.OnGround = UnpackPBH(toUint(tokens[7]))
	return m, nil
}

func (m InterimPilotDataUpdate) Equal(o InterimPilotDataUpdate) bool {
	return m.MessageHeader == o.MessageHeader &&
		epsilonEqual(m.Latitude, o.Latitude, 1e-5) &&
		epsilonEqual(m.Longitude, o.Longitude, 1e-5) &&
		m.AltitudeTrueFt == o.AltitudeTrueFt &&
		m.GroundSpeedKts == o.GroundSpeedKts &&
		epsilonEqual(m.Pitch, o.Pitch, PBHAngleStep) &&
		epsilonEqual(m.Bank, o.Bank, PBHAngleStep) &&
		epsilonEqual(m.Heading, o.Heading, PBHAngleStep) &&
		m.OnGround == o.OnGround
}

// VisualMode selects which of the three visual-update PDUs a
// VisualPilotDataUpdate encodes to.
type VisualMode int

const (
	VisualFull VisualMode = iota
	VisualPeriodic
	VisualStopped
)

// VisualPilotDataUpdate is the high-rate visual position report with full
// velocity state. The same token layout is shared by the fast, periodic
// slow-fast and stopped variants; only the PDU prefix differs.
type VisualPilotDataUpdate struct {
	Mode VisualMode
	MessageHeader
	Latitude         float64
	Longitude        float64
	AltitudeTrueFt   float64
	HeightAglFt      float64
	Pitch            float64
	Bank             float64
	Heading          float64
	XVelocity        float64
	YVelocity        float64
	ZVelocity        float64
	PitchRadPerSec   float64
	BankRadPerSec    float64
	HeadingRadPerSec float64
	NoseGearAngle    float64
}

func (m VisualPilotDataUpdate) PDU() string {
	switch m.Mode {
	case VisualPeriodic:
		return PDUVisualPilotDataPeriodic
	case VisualStopped:
		return PDUVisualPilotDataStopped
	default:
		return PDUVisualPilotDataUpdate
	}
}

func (m VisualPilotDataUpdate) Tokens() []string {
	return []string{
		m.Sender,
		fixedToken(m.Latitude, 7),
		fixedToken(m.Longitude, 7),
		fixedToken(m.AltitudeTrueFt, 2),
		fixedToken(m.HeightAglFt, 2),
		uintToken(PackPBH(m.Pitch, m.Bank, m.Heading, false)),
		fixedToken(m.XVelocity, 4),
		fixedToken(m.YVelocity, 4),
		fixedToken(m.ZVelocity, 4),
		fixedToken(m.PitchRadPerSec, 4),
		fixedToken(m.HeadingRadPerSec, 4),
		fixedToken(m.BankRadPerSec, 4),
		fixedToken(m.NoseGearAngle, 2),
	}
}

func VisualPilotDataUpdateFromTokens(mode VisualMode, tokens []string) (VisualPilotDataUpdate, error) {
	if len(tokens) < 13 {
		return VisualPilotDataUpdate{}, tokenCountError(PDUVisualPilotDataUpdate, len(tokens), 13)
	}
	m := VisualPilotDataUpdate{
		Mode:             mode,
		MessageHeader:    MessageHeader{Sender: tokens[0]},
		Latitude:         toFloat(tokens[1]),
		Longitude:        toFloat(tokens[2]),
		AltitudeTrueFt:   toFloat(tokens[3]),
		HeightAglFt:      toFloat(tokens[4]),
		XVelocity:        toFloat(tokens[6]),
		YVelocity:        toFloat(tokens[7]),
		ZVelocity:        toFloat(tokens[8]),
		PitchRadPerSec:   toFloat(tokens[9]),
		HeadingRadPerSec: toFloat(tokens[10]),
		BankRadPerSec:    toFloat(tokens[11]),
		NoseGearAngle:    toFloat(tokens[12]),
	}
	m.Pitch, m.Bank, m.Heading, _ = UnpackPBH(toUint(tokens[5]))
	return m, nil
}

func (m VisualPilotDataUpdate) Equal(o VisualPilotDataUpdate) bool {
	return m.Mode == o.Mode &&
		m.MessageHeader == o.MessageHeader &&
		epsilonEqual(m.Latitude, o.Latitude, 1e-7) &&
		epsilonEqual(m.Longitude, o.Longitude, 1e-7) &&
		epsilonEqual(m.AltitudeTrueFt, o.AltitudeTrueFt, 1e-2) &&
		epsilonEqual(m.HeightAglFt, o.HeightAglFt, 1e-2) &&
		epsilonEqual(m.Pitch, o.Pitch, PBHAngleStep) &&
		epsilonEqual(m.Bank, o.Bank, PBHAngleStep) &&
		epsilonEqual(m.Heading, o.Heading, PBHAngleStep) &&
		epsilonEqual(m.XVelocity, o.XVelocity, 1e-4) &&
		epsilonEqual(m.YVelocity, o.YVelocity, 1e-4) &&
		epsilonEqual(m.ZVelocity, o.ZVelocity, 1e-4) &&
		epsilonEqual(m.PitchRadPerSec, o.PitchRadPerSec, 1e-4) &&
		epsilonEqual(m.BankRadPerSec, o.BankRadPerSec, 1e-4) &&
		epsilonEqual(m.HeadingRadPerSec, o.HeadingRadPerSec, 1e-4) &&
		epsilonEqual(m.NoseGearAngle, o.NoseGearAngle, 1e-2)
}

// VisualPilotDataToggle tells a client to start or stop sending fast visual
// updates.
type VisualPilotDataToggle struct {
	MessageHeader
	Active bool
}

func (m VisualPilotDataToggle) PDU() string { return PDUVisualPilotDataToggle }

func (m VisualPilotDataToggle) Tokens() []string {
	return []string{m.Sender, m.Receiver, boolToken(m.Active)}
}

func VisualPilotDataToggleFromTokens(tokens []string) (VisualPilotDataToggle, error) {
	if len(tokens) < 3 {
		return VisualPilotDataToggle{}, tokenCountError(PDUVisualPilotDataToggle, len(tokens), 3)
	}
	return VisualPilotDataToggle{
		MessageHeader: MessageHeader{Sender: tokens[0], Receiver: tokens[1]},
		Active:        toBool(tokens[2]),
	}, nil
}

// AuthChallenge carries a challenge string either direction.
type AuthChallenge struct {
	MessageHeader
	Challenge string
}

func (m AuthChallenge) PDU() string { return PDUAuthChallenge }

func (m AuthChallenge) Tokens() []string {
	return []string{m.Sender, m.Receiver, m.Challenge}
}

func AuthChallengeFromTokens(tokens []string) (AuthChallenge, error) {
	if len(tokens) < 3 {
		return AuthChallenge{}, tokenCountError(PDUAuthChallenge, len(tokens), 3)
	}
	return AuthChallenge{
		MessageHeader: MessageHeader{Sender: tokens[0], Receiver: tokens[1]},
		Challenge:     tokens[2],
	}, nil
}

// AuthResponse answers an AuthChallenge with the keyed digest.
type AuthResponse struct {
	MessageHeader
	Response string
}

func (m AuthResponse) PDU() string { return PDUAuthResponse }

func (m AuthResponse) Tokens() []string {
	return []string{m.Sender, m.Receiver, m.Response}
}

func AuthResponseFromTokens(tokens []string) (AuthResponse, error) {
	if len(tokens) < 3 {
		return AuthResponse{}, tokenCountError(PDUAuthResponse, len(tokens), 3)
	}
	return AuthResponse{
		MessageHeader: MessageHeader{Sender: tokens[0], Receiver: tokens[1]},
		Response:      tokens[2],
	}, nil
}

// ClientIdentification introduces the client software to the server before
// login on authenticated protocol revisions.
type ClientIdentification struct {
	MessageHeader
	ClientID         uint16
	ClientName       string
	VersionMajor     int
	VersionMinor     int
	CID              string
	SystemUID        string
	InitialChallenge string
}

func (m ClientIdentification) PDU() string { return PDUClientIdentification }

func (m ClientIdentification) Tokens() []string {
	return []string{
		m.Sender, m.Receiver,
		hexToken(m.ClientID),
		m.ClientName,
		intToken(m.VersionMajor),
		intToken(m.VersionMinor),
		m.CID,
		m.SystemUID,
		m.InitialChallenge,
	}
}

func ClientIdentificationFromTokens(tokens []string) (ClientIdentification, error) {
	if len(tokens) < 8 {
		return ClientIdentification{}, tokenCountError(PDUClientIdentification, len(tokens), 8)
	}
	m := ClientIdentification{
		MessageHeader: MessageHeader{Sender: tokens[0], Receiver: tokens[1]},
		ClientID:      toHex(tokens[2]),
		ClientName:    tokens[3],
		VersionMajor:  toInt(tokens[4]),
		VersionMinor:  toInt(tokens[5]),
		CID:           tokens[6],
		SystemUID:     tokens[7],
	}
	if len(tokens) > 8 {
		m.InitialChallenge = tokens[8]
	}
	return m, nil
}

// ServerIdentification is the server's greeting on authenticated protocol
// revisions. It carries the server's initial challenge.
type ServerIdentification struct {
	MessageHeader
	ServerVersion    string
	InitialChallenge string
}

func (m ServerIdentification) PDU() string { return PDUServerIdentification }

func (m ServerIdentification) Tokens() []string {
	return []string{m.Sender, m.Receiver, m.ServerVersion, m.InitialChallenge}
}

func ServerIdentificationFromTokens(tokens []string) (ServerIdentification, error) {
	if len(tokens) < 4 {
		return ServerIdentification{}, tokenCountError(PDUServerIdentification, len(tokens), 4)
	}
	return ServerIdentification{
		MessageHeader:    MessageHeader{Sender: tokens[0], Receiver: tokens[1]},
		ServerVersion:    tokens[2],
		InitialChallenge: tokens[3],
	}, nil
}

// ClientQuery asks a peer or the server a question identified by Type.
// Payload semantics depend on the query type.
type ClientQuery struct {
	MessageHeader
	Type    ClientQueryType
	Payload []string
}

func (m ClientQuery) PDU() string { return PDUClientQuery }

func (m ClientQuery) Tokens() []string {
	tokens := []string{m.Sender, m.Receiver, m.Type.Token()}
	return append(tokens, m.Payload...)
}

func ClientQueryFromTokens(tokens []string) (ClientQuery, error) {
	if len(tokens) < 3 {
		return ClientQuery{}, tokenCountError(PDUClientQuery, len(tokens), 3)
	}
	m := ClientQuery{
		MessageHeader: MessageHeader{Sender: tokens[0], Receiver: tokens[1]},
		Type:          ClientQueryTypeFromToken(tokens[2]),
	}
	if len(tokens) > 3 {
		m.Payload = append([]string(nil), tokens[3:]...)
	}
	return m, nil
}

// ClientResponse answers a ClientQuery.
type ClientResponse struct {
	MessageHeader
	Type    ClientQueryType
	Payload []string
}

func (m ClientResponse) PDU() string { return PDUClientResponse }

func (m ClientResponse) Tokens() []string {
	tokens := []string{m.Sender, m.Receiver, m.Type.Token()}
	return append(tokens, m.Payload...)
}

func ClientResponseFromTokens(tokens []string) (ClientResponse, error) {
	if len(tokens) < 3 {
		return ClientResponse{}, tokenCountError(PDUClientResponse, len(tokens), 3)
	}
	m := ClientResponse{
		MessageHeader: MessageHeader{Sender: tokens[0], Receiver: tokens[1]},
		Type:          ClientQueryTypeFromToken(tokens[2]),
	}
	if len(tokens) > 3 {
		m.Payload = append([]string(nil), tokens[3:]...)
	}
	return m, nil
}

// FlightPlan files or relays a flight plan. The token layout is fixed at 17
// positions; route is the final token and may itself have contained colons
// before filing, so the decoder re-joins any surplus tokens into it.
type FlightPlan struct {
	MessageHeader
	FlightType       FlightType
	AircraftICAOType string
	CruiseSpeedKts   int
	DepAirport       string
	EstimatedDepTime int
	ActualDepTime    int
	CruiseAltitude   string
	DestAirport      string
	HoursEnroute     int
	MinutesEnroute   int
	FuelHours        int
	FuelMinutes      int
	AltAirport       string
	Remarks          string
	Route            string
}

func (m FlightPlan) PDU() string { return PDUFlightPlan }

func (m FlightPlan) Tokens() []string {
	return []string{
		m.Sender, m.Receiver,
		m.FlightType.Token(),
		m.AircraftICAOType,
		intToken(m.CruiseSpeedKts),
		m.DepAirport,
		intToken(m.EstimatedDepTime),
		intToken(m.ActualDepTime),
		m.CruiseAltitude,
		m.DestAirport,
		intToken(m.HoursEnroute),
		intToken(m.MinutesEnroute),
		intToken(m.FuelHours),
		intToken(m.FuelMinutes),
		m.AltAirport,
		noColons(m.Remarks),
		noColons(m.Route),
	}
}

func FlightPlanFromTokens(tokens []string) (FlightPlan, error) {
	if len(tokens) < 17 {
		return FlightPlan{}, tokenCountError(PDUFlightPlan, len(tokens), 17)
	}
	return FlightPlan{
		MessageHeader:    MessageHeader{Sender: tokens[0], Receiver: tokens[1]},
		FlightType:       FlightTypeFromToken(tokens[2]),
		AircraftICAOType: tokens[3],
		CruiseSpeedKts:   toInt(tokens[4]),
		DepAirport:       tokens[5],
		EstimatedDepTime: toInt(tokens[6]),
		ActualDepTime:    toInt(tokens[7]),
		CruiseAltitude:   tokens[8],
		DestAirport:      tokens[9],
		HoursEnroute:     toInt(tokens[10]),
		MinutesEnroute:   toInt(tokens[11]),
		FuelHours:        toInt(tokens[12]),
		FuelMinutes:      toInt(tokens[13]),
		AltAirport:       tokens[14],
		Remarks:          tokens[15],
		Route:            JoinTokens(tokens[16:]),
	}, nil
}

// Ping requests an echo; the timestamp is opaque and returned verbatim.
type Ping struct {
	MessageHeader
	Timestamp string
}

func (m Ping) PDU() string { return PDUPing }

func (m Ping) Tokens() []string {
	return []string{m.Sender, m.Receiver, m.Timestamp}
}

func PingFromTokens(tokens []string) (Ping, error) {
	if len(tokens) < 3 {
		return Ping{}, tokenCountError(PDUPing, len(tokens), 3)
	}
	return Ping{
		MessageHeader: MessageHeader{Sender: tokens[0], Receiver: tokens[1]},
		Timestamp:     tokens[2],
	}, nil
}

// Pong answers a Ping, echoing its timestamp.
type Pong struct {
	MessageHeader
	Timestamp string
}

func (m Pong) PDU() string { return PDUPong }

func (m Pong) Tokens() []string {
	return []string{m.Sender, m.Receiver, m.Timestamp}
}

func PongFromTokens(tokens []string) (Pong, error) {
	if len(tokens) < 3 {
		return Pong{}, tokenCountError(PDUPong, len(tokens), 3)
	}
	return Pong{
		MessageHeader: MessageHeader{Sender: tokens[0], Receiver: tokens[1]},
		Timestamp:     tokens[2],
	}, nil
}

// KillRequest forcibly disconnects a client, optionally with a reason.
type KillRequest struct {
	MessageHeader
	Reason string
}

func (m KillRequest) PDU() string { return PDUKillRequest }

func (m KillRequest) Tokens() []string {
	return []string{m.Sender, m.Receiver, m.Reason}
}

func KillRequestFromTokens(tokens []string) (KillRequest, error) {
	if len(tokens) < 2 {
		return KillRequest{}, tokenCountError(PDUKillRequest, len(tokens), 2)
	}
	m := KillRequest{MessageHeader: MessageHeader{Sender: tokens[0], Receiver: tokens[1]}}
	if len(tokens) > 2 {
		m.Reason = JoinTokens(tokens[2:])
	}
	return m, nil
}

// ServerError reports a protocol or login failure from the server.
type ServerError struct {
	MessageHeader
	Code             ServerErrorCode
	CausingParameter string
	Description      string
}

func (m ServerError) PDU() string { return PDUServerError }

func (m ServerError) Tokens() []string {
	return []string{m.Sender, m.Receiver, m.Code.Token(), m.CausingParameter, m.Description}
}

func ServerErrorFromTokens(tokens []string) (ServerError, error) {
	if len(tokens) < 5 {
		return ServerError{}, tokenCountError(PDUServerError, len(tokens), 5)
	}
	return ServerError{
		MessageHeader:    MessageHeader{Sender: tokens[0], Receiver: tokens[1]},
		Code:             ServerErrorCodeFromToken(tokens[2]),
		CausingParameter: tokens[3],
		Description:      JoinTokens(tokens[4:]),
	}, nil
}

// DescriptionText never returns an empty string so log lines stay readable.
func (m ServerError) DescriptionText() string {
	if m.Description == "" {
		return "no description"
	}
	return m.Description
}

// CausingParameterText never returns an empty string.
func (m ServerError) CausingParameterText() string {
	if m.CausingParameter == "" {
		return "no details"
	}
	return m.CausingParameter
}

// Fatal reports whether the session must be torn down.
func (m ServerError) Fatal() bool {
	return m.Code.Fatal()
}

// ServerHeartbeat is the periodic server keep-alive. The payload after the
// sender is server specific and kept opaque.
type ServerHeartbeat struct {
	MessageHeader
	Data []string
}

func (m ServerHeartbeat) PDU() string { return PDUServerHeartbeat }

func (m ServerHeartbeat) Tokens() []string {
	return append([]string{m.Sender}, m.Data...)
}

func ServerHeartbeatFromTokens(tokens []string) (ServerHeartbeat, error) {
	if len(tokens) < 1 {
		return ServerHeartbeat{}, tokenCountError(PDUServerHeartbeat, len(tokens), 1)
	}
	m := ServerHeartbeat{MessageHeader: MessageHeader{Sender: tokens[0]}}
	if len(tokens) > 1 {
		m.Data = append([]string(nil), tokens[1:]...)
	}
	return m, nil
}

// TextMessageType classifies how a text message is addressed.
type TextMessageType int

const (
	TextMessagePrivate TextMessageType = iota
	TextMessageRadio
	TextMessageBroadcast
)

// TextMessage is a private, radio or broadcast chat message. Radio messages
// address one or more frequencies through the receiver token; the message
// body may contain colons and is re-joined on decode.
type TextMessage struct {
	MessageHeader
	Type           TextMessageType
	FrequenciesKHz []int
	Text           string
}

// NewPrivateTextMessage addresses a single callsign.
func NewPrivateTextMessage(sender, receiver, text string) TextMessage {
	return TextMessage{
		MessageHeader: MessageHeader{Sender: sender, Receiver: receiver},
		Type:          TextMessagePrivate,
		Text:          text,
	}
}

// NewRadioTextMessage addresses one or more COM frequencies.
func NewRadioTextMessage(sender string, frequenciesKHz []int, text string) TextMessage {
	return TextMessage{
		MessageHeader:  MessageHeader{Sender: sender},
		Type:           TextMessageRadio,
		FrequenciesKHz: append([]int(nil), frequenciesKHz...),
		Text:           text,
	}
}

func (m TextMessage) PDU() string { return PDUTextMessage }

func (m TextMessage) Tokens() []string {
	receiver := m.Receiver
	if m.Type == TextMessageRadio {
		parts := make([]string, len(m.FrequenciesKHz))
		for i, f := range m.FrequenciesKHz {
			parts[i] = "@" + intToken(f-FrequencyOffsetKHz)
		}
		receiver = strings.Join(parts, "&")
	}
	return []string{m.Sender, receiver, m.Text}
}

func TextMessageFromTokens(tokens []string) (TextMessage, error) {
	if len(tokens) < 3 {
		return TextMessage{}, tokenCountError(PDUTextMessage, len(tokens), 3)
	}
	m := TextMessage{
		MessageHeader: MessageHeader{Sender: tokens[0], Receiver: tokens[1]},
		Text:          JoinTokens(tokens[2:]),
	}
	switch {
	case strings.HasPrefix(m.Receiver, "@"):
		m.Type = TextMessageRadio
		for _, part := range strings.Split(m.Receiver, "&") {
			m.FrequenciesKHz = append(m.FrequenciesKHz, toInt(strings.TrimPrefix(part, "@"))+FrequencyOffsetKHz)
		}
	case m.Receiver == ReceiverBroadcastAll,
		m.Receiver == ReceiverBroadcastATC,
		m.Receiver == ReceiverBroadcastPilots,
		m.Receiver == ReceiverBroadcastSupervisors:
		m.Type = TextMessageBroadcast
	default:
		m.Type = TextMessagePrivate
	}
	return m, nil
}

// PlaneInfoRequest asks a peer for its aircraft model description.
type PlaneInfoRequest struct {
	MessageHeader
}

func (m PlaneInfoRequest) PDU() string { return PDUPilotClientCom }

func (m PlaneInfoRequest) Tokens() []string {
	return []string{m.Sender, m.Receiver, comPlaneInfoRequest}
}

func PlaneInfoRequestFromTokens(tokens []string) (PlaneInfoRequest, error) {
	if len(tokens) < 3 {
		return PlaneInfoRequest{}, tokenCountError(PDUPilotClientCom, len(tokens), 3)
	}
	return PlaneInfoRequest{MessageHeader{Sender: tokens[0], Receiver: tokens[1]}}, nil
}

// PlaneInformation answers a PlaneInfoRequest with key=value pairs. Empty
// attributes are omitted on the wire.
type PlaneInformation struct {
	MessageHeader
	Aircraft string
	Airline  string
	Livery   string
}

func (m PlaneInformation) PDU() string { return PDUPilotClientCom }

func (m PlaneInformation) Tokens() []string {
	tokens := []string{m.Sender, m.Receiver, comPlaneInfo, comPlaneInfoGeneric}
	if m.Aircraft != "" {
		tokens = append(tokens, "EQUIPMENT="+m.Aircraft)
	}
	if m.Airline != "" {
		tokens = append(tokens, "AIRLINE="+m.Airline)
	}
	if m.Livery != "" {
		tokens = append(tokens, "LIVERY="+m.Livery)
	}
	return tokens
}

func PlaneInformationFromTokens(tokens []string) (PlaneInformation, error) {
	if len(tokens) < 4 {
		return PlaneInformation{}, tokenCountError(PDUPilotClientCom, len(tokens), 4)
	}
	m := PlaneInformation{MessageHeader: MessageHeader{Sender: tokens[0], Receiver: tokens[1]}}
	for _, t := range tokens[4:] {
		key, value, ok := strings.Cut(t, "=")
		if !ok {
			continue
		}
		switch key {
		case "EQUIPMENT":
			m.Aircraft = value
		case "AIRLINE":
			m.Airline = value
		case "LIVERY":
			m.Livery = value
		}
	}
	return m, nil
}

// PlaneInfoRequestFsinn is the FSInn flavored model request. It carries the
// requester's own model data so the exchange resolves in one round trip.
type PlaneInfoRequestFsinn struct {
	MessageHeader
	AirlineICAO  string
	AircraftICAO string
	CombinedType string
	ModelString  string
}

func (m PlaneInfoRequestFsinn) PDU() string { return PDUPilotClientCom }

func (m PlaneInfoRequestFsinn) Tokens() []string {
	return []string{
		m.Sender, m.Receiver, comPlaneInfoRequestFsinn, "0",
		m.AirlineICAO, m.AircraftICAO, "", "", "", "",
		m.CombinedType, m.ModelString,
	}
}

func PlaneInfoRequestFsinnFromTokens(tokens []string) (PlaneInfoRequestFsinn, error) {
	if len(tokens) < 12 {
		return PlaneInfoRequestFsinn{}, tokenCountError(PDUPilotClientCom, len(tokens), 12)
	}
	return PlaneInfoRequestFsinn{
		MessageHeader: MessageHeader{Sender: tokens[0], Receiver: tokens[1]},
		AirlineICAO:   tokens[4],
		AircraftICAO:  tokens[5],
		CombinedType:  tokens[10],
		ModelString:   tokens[11],
	}, nil
}

// PlaneInformationFsinn answers a PlaneInfoRequestFsinn.
type PlaneInformationFsinn struct {
	MessageHeader
	AirlineICAO  string
	AircraftICAO string
	CombinedType string
	ModelString  string
}

func (m PlaneInformationFsinn) PDU() string { return PDUPilotClientCom }

func (m PlaneInformationFsinn) Tokens() []string {
	return []string{
		m.Sender, m.Receiver, comPlaneInfoFsinn, "0",
		m.AirlineICAO, m.AircraftICAO, "", "", "", "",
		m.CombinedType, m.ModelString,
	}
}

func PlaneInformationFsinnFromTokens(tokens []string) (PlaneInformationFsinn, error) {
	if len(tokens) < 12 {
		return PlaneInformationFsinn{}, tokenCountError(PDUPilotClientCom, len(tokens), 12)
	}
	return PlaneInformationFsinn{
		MessageHeader: MessageHeader{Sender: tokens[0], Receiver: tokens[1]},
		AirlineICAO:   tokens[4],
		AircraftICAO:  tokens[5],
		CombinedType:  tokens[10],
		ModelString:   tokens[11],
	}, nil
}

// CustomPilotPacket is any #SB sub-message this client does not model.
// Sessions forward it to the application unparsed.
type CustomPilotPacket struct {
	MessageHeader
	Subtype string
	Data    []string
}

func (m CustomPilotPacket) PDU() string { return PDUPilotClientCom }

func (m CustomPilotPacket) Tokens() []string {
	return append([]string{m.Sender, m.Receiver, m.Subtype}, m.Data...)
}

func CustomPilotPacketFromTokens(tokens []string) (CustomPilotPacket, error) {
	if len(tokens) < 3 {
		return CustomPilotPacket{}, tokenCountError(PDUPilotClientCom, len(tokens), 3)
	}
	m := CustomPilotPacket{
		MessageHeader: MessageHeader{Sender: tokens[0], Receiver: tokens[1]},
		Subtype:       tokens[2],
	}
	if len(tokens) > 3 {
		m.Data = append([]string(nil), tokens[3:]...)
	}
	return m, nil
}

// Rehost instructs the client to reconnect to a different server host.
type Rehost struct {
	MessageHeader
	Hostname string
}

func (m Rehost) PDU() string { return PDURehost }

func (m Rehost) Tokens() []string {
	return []string{m.Sender, m.Receiver, m.Hostname}
}

func RehostFromTokens(tokens []string) (Rehost, error) {
	if len(tokens) < 3 {
		return Rehost{}, tokenCountError(PDURehost, len(tokens), 3)
	}
	return Rehost{
		MessageHeader: MessageHeader{Sender: tokens[0], Receiver: tokens[1]},
		Hostname:      tokens[2],
	}, nil
}

// Mute toggles the supervisor mute flag for the addressed client.
type Mute struct {
	MessageHeader
	Muted bool
}

func (m Mute) PDU() string { return PDUMute }

func (m Mute) Tokens() []string {
	return []string{m.Sender, m.Receiver, boolToken(m.Muted)}
}

func MuteFromTokens(tokens []string) (Mute, error) {
	if len(tokens) < 3 {
		return Mute{}, tokenCountError(PDUMute, len(tokens), 3)
	}
	return Mute{
		MessageHeader: MessageHeader{Sender: tokens[0], Receiver: tokens[1]},
		Muted:         toBool(tokens[2]),
	}, nil
}

// EuroscopeSimData is the simulator state broadcast used by Euroscope based
// sweatbox sessions. Several positions are reserved and encode fixed values.
type EuroscopeSimData struct {
	MessageHeader
	Model          string
	Livery         string
	Latitude       float64
	Longitude      float64
	AltitudeTrueFt float64
	Heading        float64
	Bank           int
	Pitch          int
	GroundSpeedKts int
	OnGround       bool
	GearPercent    int
	ThrustPercent  int
	Lights         uint32
}

func (m EuroscopeSimData) PDU() string { return PDUEuroscopeSimData }

func (m EuroscopeSimData) Tokens() []string {
	return []string{
		"", m.Sender, m.Model, m.Livery, "0",
		fixedToken(m.Latitude, 7),
		fixedToken(m.Longitude, 7),
		fixedToken(m.AltitudeTrueFt, 1),
		fixedToken(m.Heading, 2),
		intToken(m.Bank),
		intToken(m.Pitch),
		intToken(m.GroundSpeedKts),
		boolToken(m.OnGround),
		intToken(m.GearPercent),
		intToken(m.ThrustPercent),
		uintToken(m.Lights),
		"0.0", "0",
	}
}

func EuroscopeSimDataFromTokens(tokens []string) (EuroscopeSimData, error) {
	if len(tokens) < 16 {
		return EuroscopeSimData{}, tokenCountError(PDUEuroscopeSimData, len(tokens), 16)
	}
	return EuroscopeSimData{
		MessageHeader:  MessageHeader{Sender: tokens[1]},
		Model:          tokens[2],
		Livery:         tokens[3],
		Latitude:       toFloat(tokens[5]),
		Longitude:      toFloat(tokens[6]),
		AltitudeTrueFt: toFloat(tokens[7]),
		Heading:        toFloat(tokens[8]),
		Bank:           toInt(tokens[9]),
		Pitch:          toInt(tokens[10]),
		GroundSpeedKts: toInt(tokens[11]),
		OnGround:       toBool(tokens[12]),
		GearPercent:    toInt(tokens[13]),
		ThrustPercent:  toInt(tokens[14]),
		Lights:         toUint(tokens[15]),
	}, nil
}
