package fsd

// Enumerated wire values. Every enum carries an Unknown sentinel: decoding an
// unrecognized wire string maps to Unknown instead of failing the whole line.

// AtcRating is the controller network rating.
type AtcRating int

const (
	AtcRatingUnknown AtcRating = iota
	AtcRatingObserver
	AtcRatingStudent1
	AtcRatingStudent2
	AtcRatingStudent3
	AtcRatingController1
	AtcRatingController2
	AtcRatingController3
	AtcRatingInstructor1
	AtcRatingInstructor2
	AtcRatingInstructor3
	AtcRatingSupervisor
	AtcRatingAdministrator
)

// Token returns the numeric wire string for the rating.
func (r AtcRating) Token() string {
	if r < AtcRatingUnknown || r > AtcRatingAdministrator {
		return "0"
	}
	return intToken(int(r))
}

// AtcRatingFromToken decodes a numeric rating token.
func AtcRatingFromToken(s string) AtcRating {
	v := toInt(s)
	if v < int(AtcRatingUnknown) || v > int(AtcRatingAdministrator) {
		return AtcRatingUnknown
	}
	return AtcRating(v)
}

// PilotRating is the pilot network rating.
type PilotRating int

const (
	PilotRatingUnknown PilotRating = iota
	PilotRatingStudent
	PilotRatingVFR
	PilotRatingIFR
	PilotRatingInstructor
	PilotRatingSupervisor
)

func (r PilotRating) Token() string {
	if r < PilotRatingUnknown || r > PilotRatingSupervisor {
		return "0"
	}
	return intToken(int(r))
}

func PilotRatingFromToken(s string) PilotRating {
	v := toInt(s)
	if v < int(PilotRatingUnknown) || v > int(PilotRatingSupervisor) {
		return PilotRatingUnknown
	}
	return PilotRating(v)
}

// SimType identifies the flight simulator feeding the connection. Only the
// historical set has assigned wire numbers; newer simulators encode "0".
type SimType int

const (
	SimTypeUnknown SimType = iota
	SimTypeMSFS95
	SimTypeMSFS98
	SimTypeMSCFS
	SimTypeMSFS2000
	SimTypeMSCFS2
	SimTypeMSFS2002
	SimTypeMSCFS3
	SimTypeMSFS2004
	SimTypeMSFSX
	SimTypeMSFS
	SimTypeMSFS2024
	SimTypeXPlane8
	SimTypeXPlane9
	SimTypeXPlane10
	SimTypeXPlane11
	SimTypeXPlane12
	SimTypeFlightGear
	SimTypeP3Dv1
	SimTypeP3Dv2
	SimTypeP3Dv3
	SimTypeP3Dv4
	SimTypeP3Dv5
)

var simTypeTokens = map[SimType]string{
	SimTypeMSFS95:     "1",
	SimTypeMSFS98:     "2",
	SimTypeMSCFS:      "3",
	SimTypeMSFS2000:   "4",
	SimTypeMSCFS2:     "5",
	SimTypeMSFS2002:   "6",
	SimTypeMSCFS3:     "7",
	SimTypeMSFS2004:   "8",
	SimTypeMSFSX:      "9",
	SimTypeXPlane8:    "12",
	SimTypeXPlane9:    "13",
	SimTypeXPlane10:   "14",
	SimTypeXPlane11:   "16",
	SimTypeFlightGear: "25",
	SimTypeP3Dv1:      "30",
	SimTypeP3Dv2:      "30",
	SimTypeP3Dv3:      "30",
	SimTypeP3Dv4:      "30",
	SimTypeP3Dv5:      "30",
}

var simTypeFromToken = map[string]SimType{
	"1":  SimTypeMSFS95,
	"2":  SimTypeMSFS98,
	"3":  SimTypeMSCFS,
	"4":  SimTypeMSFS2000,
	"5":  SimTypeMSCFS2,
	"6":  SimTypeMSFS2002,
	"7":  SimTypeMSCFS3,
	"8":  SimTypeMSFS2004,
	"9":  SimTypeMSFSX,
	"12": SimTypeXPlane8,
	"13": SimTypeXPlane9,
	"14": SimTypeXPlane10,
	"16": SimTypeXPlane11,
	"25": SimTypeFlightGear,
	"30": SimTypeP3Dv4,
}

// Token returns the wire number for the simulator. Simulators without an
// assigned number encode "0" so peers treat them as unknown rather than
// misidentifying them.
func (s SimType) Token() string {
	if t, ok := simTypeTokens[s]; ok {
		return t
	}
	return "0"
}

func SimTypeFromToken(s string) SimType {
	if v, ok := simTypeFromToken[s]; ok {
		return v
	}
	return SimTypeUnknown
}

// FacilityType is the ATC facility class.
type FacilityType int

const (
	FacilityUnknown FacilityType = iota - 1
	FacilityOBS
	FacilityFSS
	FacilityDEL
	FacilityGND
	FacilityTWR
	FacilityAPP
	FacilityCTR
)

// Token encodes the facility. Unknown encodes as an empty token.
func (f FacilityType) Token() string {
	if f < FacilityOBS || f > FacilityCTR {
		return ""
	}
	return intToken(int(f))
}

func FacilityTypeFromToken(s string) FacilityType {
	if s == "" {
		return FacilityUnknown
	}
	v := toInt(s)
	if v < int(FacilityOBS) || v > int(FacilityCTR) {
		return FacilityUnknown
	}
	return FacilityType(v)
}

// ClientQueryType discriminates $CQ/$CR payloads. Only codes a pilot client
// handles are modeled; ATC-only codes decode to Unknown and are dropped
// without a warning since they are routine on shared servers.
type ClientQueryType int

const (
	ClientQueryUnknown ClientQueryType = iota
	ClientQueryIsValidATC
	ClientQueryCapabilities
	ClientQueryCom1Freq
	ClientQueryRealName
	ClientQueryServer
	ClientQueryATIS
	ClientQueryPublicIP
	ClientQueryINF
	ClientQueryFlightPlan
	ClientQueryAircraftConfig
)

var clientQueryTokens = map[ClientQueryType]string{
	ClientQueryIsValidATC:     "ATC",
	ClientQueryCapabilities:   "CAPS",
	ClientQueryCom1Freq:       "C?",
	ClientQueryRealName:       "RN",
	ClientQueryServer:         "SV",
	ClientQueryATIS:           "ATIS",
	ClientQueryPublicIP:       "IP",
	ClientQueryINF:            "INF",
	ClientQueryFlightPlan:     "FP",
	ClientQueryAircraftConfig: "ACC",
}

var clientQueryFromToken = func() map[string]ClientQueryType {
	m := make(map[string]ClientQueryType, len(clientQueryTokens))
	for k, v := range clientQueryTokens {
		m[v] = k
	}
	return m
}()

func (q ClientQueryType) Token() string {
	return clientQueryTokens[q]
}

func ClientQueryTypeFromToken(s string) ClientQueryType {
	return clientQueryFromToken[s]
}

// FlightType is the flight rules declaration in a flight plan.
type FlightType int

const (
	FlightTypeIFR FlightType = iota
	FlightTypeVFR
	FlightTypeSVFR
	FlightTypeDVFR
)

func (f FlightType) Token() string {
	switch f {
	case FlightTypeVFR:
		return "V"
	case FlightTypeSVFR:
		return "S"
	case FlightTypeDVFR:
		return "D"
	default:
		return "I"
	}
}

// FlightTypeFromToken decodes flight rules. Unrecognized values fall back to
// IFR, the conservative interpretation.
func FlightTypeFromToken(s string) FlightType {
	switch s {
	case "V":
		return FlightTypeVFR
	case "S":
		return FlightTypeSVFR
	case "D":
		return FlightTypeDVFR
	default:
		return FlightTypeIFR
	}
}

// TransponderMode is the transponder state carried in position updates.
type TransponderMode int

const (
	TransponderStandby TransponderMode = iota
	TransponderModeC
	TransponderIdent
)

func (t TransponderMode) Token() string {
	switch t {
	case TransponderModeC:
		return "N"
	case TransponderIdent:
		return "Y"
	default:
		return "S"
	}
}

func TransponderModeFromToken(s string) TransponderMode {
	switch s {
	case "N":
		return TransponderModeC
	case "Y":
		return TransponderIdent
	default:
		return TransponderStandby
	}
}

// Capability flags exchanged during capability negotiation.
type Capability int

const (
	CapabilityUnknown Capability = iota
	CapabilityAtcInfo
	CapabilitySecondaryPos
	CapabilityModelDesc
	CapabilityOngoingCoord
	CapabilityInterimPos
	CapabilityFastPos
	CapabilityVisualPos
	CapabilityStealth
	CapabilityAircraftConfig
)

var capabilityTokens = map[Capability]string{
	CapabilityAtcInfo:        "ATCINFO",
	CapabilitySecondaryPos:   "SECPOS",
	CapabilityModelDesc:      "MODELDESC",
	CapabilityOngoingCoord:   "ONGOINGCOORD",
	CapabilityInterimPos:     "INTERIMPOS",
	CapabilityFastPos:        "FASTPOS",
	CapabilityVisualPos:      "VISUPDATE",
	CapabilityStealth:        "STEALTH",
	CapabilityAircraftConfig: "ACCONFIG",
}

var capabilityFromToken = func() map[string]Capability {
	m := make(map[string]Capability, len(capabilityTokens))
	for k, v := range capabilityTokens {
		m[v] = k
	}
	return m
}()

func (c Capability) Token() string {
	return capabilityTokens[c]
}

func CapabilityFromToken(s string) Capability {
	return capabilityFromToken[s]
}

// AtisLineType classifies the lines of a multi-line ATIS reply.
type AtisLineType int

const (
	AtisLineUnknown AtisLineType = iota
	AtisLineVoiceRoom
	AtisLineZuluLogoff
	AtisLineText
	AtisLineLineCount
)

func AtisLineTypeFromToken(s string) AtisLineType {
	switch s {
	case "V":
		return AtisLineVoiceRoom
	case "Z":
		return AtisLineZuluLogoff
	case "T":
		return AtisLineText
	case "E":
		return AtisLineLineCount
	default:
		return AtisLineUnknown
	}
}

// ServerErrorCode enumerates $ER error numbers.
type ServerErrorCode int

const (
	ServerErrorNone ServerErrorCode = iota
	ServerErrorCallsignInUse
	ServerErrorCallsignInvalid
	ServerErrorAlreadyRegistered
	ServerErrorSyntax
	ServerErrorSourceCallsignInvalid
	ServerErrorCidPasswordInvalid
	ServerErrorNoSuchCallsign
	ServerErrorNoFlightPlan
	ServerErrorNoWeatherProfile
	ServerErrorRevisionInvalid
	ServerErrorLevelTooHigh
	ServerErrorServerFull
	ServerErrorCidSuspended
	ServerErrorInvalidControl
	ServerErrorRatingTooLow
	ServerErrorClientUnauthorized
	ServerErrorAuthTimeout
	ServerErrorUnknown
)

func (c ServerErrorCode) Token() string {
	if c < ServerErrorNone || c >= ServerErrorUnknown {
		return intToken(int(ServerErrorUnknown))
	}
	return intToken(int(c))
}

func ServerErrorCodeFromToken(s string) ServerErrorCode {
	v := toInt(s)
	if v < int(ServerErrorNone) || v >= int(ServerErrorUnknown) {
		return ServerErrorUnknown
	}
	return ServerErrorCode(v)
}

// Fatal reports whether the error terminates the session. The server drops
// the connection after sending any of these, so the client must stop the
// login attempt instead of retrying blindly.
func (c ServerErrorCode) Fatal() bool {
	switch c {
	case ServerErrorCallsignInUse,
		ServerErrorCallsignInvalid,
		ServerErrorAlreadyRegistered,
		ServerErrorCidPasswordInvalid,
		ServerErrorRevisionInvalid,
		ServerErrorLevelTooHigh,
		ServerErrorServerFull,
		ServerErrorCidSuspended,
		ServerErrorRatingTooLow,
		ServerErrorClientUnauthorized,
		ServerErrorAuthTimeout:
		return true
	}
	return false
}

func (c ServerErrorCode) String() string {
	switch c {
	case ServerErrorNone:
		return "no error"
	case ServerErrorCallsignInUse:
		return "callsign in use"
	case ServerErrorCallsignInvalid:
		return "invalid callsign"
	case ServerErrorAlreadyRegistered:
		return "already registered"
	case ServerErrorSyntax:
		return "syntax error"
	case ServerErrorSourceCallsignInvalid:
		return "invalid source callsign"
	case ServerErrorCidPasswordInvalid:
		return "invalid CID or password"
	case ServerErrorNoSuchCallsign:
		return "no such callsign"
	case ServerErrorNoFlightPlan:
		return "no flight plan"
	case ServerErrorNoWeatherProfile:
		return "no such weather profile"
	case ServerErrorRevisionInvalid:
		return "invalid protocol revision"
	case ServerErrorLevelTooHigh:
		return "requested level too high"
	case ServerErrorServerFull:
		return "server full"
	case ServerErrorCidSuspended:
		return "CID suspended"
	case ServerErrorInvalidControl:
		return "invalid control"
	case ServerErrorRatingTooLow:
		return "rating too low for position"
	case ServerErrorClientUnauthorized:
		return "unauthorized client software"
	case ServerErrorAuthTimeout:
		return "authentication response timeout"
	default:
		return "unknown error"
	}
}
