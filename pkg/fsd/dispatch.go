package fsd

import (
	"errors"
	"fmt"
	"strings"
)

// MessageType identifies the decoded kind of a wire line.
type MessageType int

const (
	TypeUnknown MessageType = iota
	TypeAddAtc
	TypeAddPilot
	TypeAtcDataUpdate
	TypeAuthChallenge
	TypeAuthResponse
	TypeClientIdentification
	TypeClientQuery
	TypeClientResponse
	TypeDeleteAtc
	TypeDeletePilot
	TypeFlightPlan
	TypeServerIdentification
	TypeKillRequest
	TypePilotDataUpdate
	TypeInterimPilotDataUpdate
	TypeVisualPilotDataUpdate
	TypeVisualPilotDataPeriodic
	TypeVisualPilotDataStopped
	TypeVisualPilotDataToggle
	TypePing
	TypePong
	TypeServerError
	TypeServerHeartbeat
	TypeTextMessage
	TypePlaneInfoRequest
	TypePlaneInformation
	TypePlaneInfoRequestFsinn
	TypePlaneInformationFsinn
	TypeCustomPilotPacket
	TypeRehost
	TypeMute
	TypeEuroscopeSimData
	TypeIgnored
)

func (t MessageType) String() string {
	if name, ok := messageTypeNames[t]; ok {
		return name
	}
	return "Unknown"
}

var messageTypeNames = map[MessageType]string{
	TypeAddAtc:                  "AddAtc",
	TypeAddPilot:                "AddPilot",
	TypeAtcDataUpdate:           "AtcDataUpdate",
	TypeAuthChallenge:           "AuthChallenge",
	TypeAuthResponse:            "AuthResponse",
	TypeClientIdentification:    "ClientIdentification",
	TypeClientQuery:             "ClientQuery",
	TypeClientResponse:          "ClientResponse",
	TypeDeleteAtc:               "DeleteAtc",
	TypeDeletePilot:             "DeletePilot",
	TypeFlightPlan:              "FlightPlan",
	TypeServerIdentification:    "ServerIdentification",
	TypeKillRequest:             "KillRequest",
	TypePilotDataUpdate:         "PilotDataUpdate",
	TypeInterimPilotDataUpdate:  "InterimPilotDataUpdate",
	TypeVisualPilotDataUpdate:   "VisualPilotDataUpdate",
	TypeVisualPilotDataPeriodic: "VisualPilotDataPeriodic",
	TypeVisualPilotDataStopped:  "VisualPilotDataStopped",
	TypeVisualPilotDataToggle:   "VisualPilotDataToggle",
	TypePing:                    "Ping",
	TypePong:                    "Pong",
	TypeServerError:             "ServerError",
	TypeServerHeartbeat:         "ServerHeartbeat",
	TypeTextMessage:             "TextMessage",
	TypePlaneInfoRequest:        "PlaneInfoRequest",
	TypePlaneInformation:        "PlaneInformation",
	TypePlaneInfoRequestFsinn:   "PlaneInfoRequestFsinn",
	TypePlaneInformationFsinn:   "PlaneInformationFsinn",
	TypeCustomPilotPacket:       "CustomPilotPacket",
	TypeRehost:                  "Rehost",
	TypeMute:                    "Mute",
	TypeEuroscopeSimData:        "EuroscopeSimData",
	TypeIgnored:                 "Ignored",
}

// ErrUnknownPDU is returned by Dispatch for lines whose prefix matches no
// registered message kind. Callers log once per prefix and drop the line.
var ErrUnknownPDU = errors.New("unknown PDU prefix")

// #SB discriminators that are received on busy servers but carry nothing a
// pilot client acts on.
var ignoredPilotComSubtypes = map[string]bool{
	"I": true,
	"X": true,
}

// Ignored prefixes seen on live servers that carry no pilot client payload.
var ignoredPrefixes = []string{PDUProController, "!R", "-MD", "-PD"}

type decodeFunc func(tokens []string) (MessageType, Message, error)

func plainDecoder[T Message](t MessageType, decode func([]string) (T, error)) decodeFunc {
	return func(tokens []string) (MessageType, Message, error) {
		m, err := decode(tokens)
		if err != nil {
			return t, nil, err
		}
		return t, m, nil
	}
}

var decoders = map[string]decodeFunc{
	PDUAddAtc:               plainDecoder(TypeAddAtc, AddAtcFromTokens),
	PDUAddPilot:             plainDecoder(TypeAddPilot, AddPilotFromTokens),
	PDUAtcDataUpdate:        plainDecoder(TypeAtcDataUpdate, AtcDataUpdateFromTokens),
	PDUAuthChallenge:        plainDecoder(TypeAuthChallenge, AuthChallengeFromTokens),
	PDUAuthResponse:         plainDecoder(TypeAuthResponse, AuthResponseFromTokens),
	PDUClientIdentification: plainDecoder(TypeClientIdentification, ClientIdentificationFromTokens),
	PDUClientQuery:          plainDecoder(TypeClientQuery, ClientQueryFromTokens),
	PDUClientResponse:       plainDecoder(TypeClientResponse, ClientResponseFromTokens),
	PDUDeleteAtc:            plainDecoder(TypeDeleteAtc, DeleteAtcFromTokens),
	PDUDeletePilot:          plainDecoder(TypeDeletePilot, DeletePilotFromTokens),
	PDUFlightPlan:           plainDecoder(TypeFlightPlan, FlightPlanFromTokens),
	PDUServerIdentification: plainDecoder(TypeServerIdentification, ServerIdentificationFromTokens),
	PDUKillRequest:          plainDecoder(TypeKillRequest, KillRequestFromTokens),
	PDUPilotDataUpdate:      plainDecoder(TypePilotDataUpdate, PilotDataUpdateFromTokens),
	PDUVisualPilotDataUpdate: func(tokens []string) (MessageType, Message, error) {
		m, err := VisualPilotDataUpdateFromTokens(VisualFull, tokens)
		if err != nil {
			return TypeVisualPilotDataUpdate, nil, err
		}
		return TypeVisualPilotDataUpdate, m, nil
	},
	PDUVisualPilotDataPeriodic: func(tokens []string) (MessageType, Message, error) {
		m, err := VisualPilotDataUpdateFromTokens(VisualPeriodic, tokens)
		if err != nil {
			return TypeVisualPilotDataPeriodic, nil, err
		}
		return TypeVisualPilotDataPeriodic, m, nil
	},
	PDUVisualPilotDataStopped: func(tokens []string) (MessageType, Message, error) {
		m, err := VisualPilotDataUpdateFromTokens(VisualStopped, tokens)
		if err != nil {
			return TypeVisualPilotDataStopped, nil, err
		}
		return TypeVisualPilotDataStopped, m, nil
	},
	PDUVisualPilotDataToggle: plainDecoder(TypeVisualPilotDataToggle, VisualPilotDataToggleFromTokens),
	PDUPing:                  plainDecoder(TypePing, PingFromTokens),
	PDUPong:                  plainDecoder(TypePong, PongFromTokens),
	PDUServerError:           plainDecoder(TypeServerError, ServerErrorFromTokens),
	PDUServerHeartbeat:       plainDecoder(TypeServerHeartbeat, ServerHeartbeatFromTokens),
	PDUTextMessage:           plainDecoder(TypeTextMessage, TextMessageFromTokens),
	PDUPilotClientCom:        decodePilotClientCom,
	PDURehost:                plainDecoder(TypeRehost, RehostFromTokens),
	PDUMute:                  plainDecoder(TypeMute, MuteFromTokens),
	PDUEuroscopeSimData:      plainDecoder(TypeEuroscopeSimData, EuroscopeSimDataFromTokens),
}

// decodePilotClientCom resolves the #SB sub-discriminator at token position
// two and decodes the concrete sub-message.
func decodePilotClientCom(tokens []string) (MessageType, Message, error) {
	if len(tokens) < 3 {
		return TypeCustomPilotPacket, nil, tokenCountError(PDUPilotClientCom, len(tokens), 3)
	}
	switch tokens[2] {
	case comPlaneInfoRequest:
		return plainDecoder(TypePlaneInfoRequest, PlaneInfoRequestFromTokens)(tokens)
	case comPlaneInfo:
		if len(tokens) > 3 && tokens[3] == comPlaneInfoGeneric {
			return plainDecoder(TypePlaneInformation, PlaneInformationFromTokens)(tokens)
		}
		return plainDecoder(TypeCustomPilotPacket, CustomPilotPacketFromTokens)(tokens)
	case comInterimPilotData:
		return plainDecoder(TypeInterimPilotDataUpdate, InterimPilotDataUpdateFromTokens)(tokens)
	case comPlaneInfoRequestFsinn:
		return plainDecoder(TypePlaneInfoRequestFsinn, PlaneInfoRequestFsinnFromTokens)(tokens)
	case comPlaneInfoFsinn:
		return plainDecoder(TypePlaneInformationFsinn, PlaneInformationFsinnFromTokens)(tokens)
	default:
		if ignoredPilotComSubtypes[tokens[2]] {
			return TypeIgnored, nil, nil
		}
		return plainDecoder(TypeCustomPilotPacket, CustomPilotPacketFromTokens)(tokens)
	}
}

// Dispatch decodes one raw line (line ending already stripped) into its
// message kind. Prefixes are matched longest first so that multi-character
// PDUs win over the single-character position update prefixes. A nil message
// with a nil error means the line is recognized but intentionally ignored.
func Dispatch(line string) (MessageType, Message, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return TypeIgnored, nil, nil
	}
	for _, prefix := range ignoredPrefixes {
		if strings.HasPrefix(line, prefix) {
			return TypeIgnored, nil, nil
		}
	}
	for _, n := range []int{len(PDUEuroscopeSimData), 3, 2, 1} {
		if len(line) < n {
			continue
		}
		decode, ok := decoders[line[:n]]
		if !ok {
			continue
		}
		return decode(SplitTokens(line[n:]))
	}
	return TypeUnknown, nil, fmt.Errorf("%w: %q", ErrUnknownPDU, truncateForLog(line))
}

// truncateForLog keeps unknown line reports bounded.
func truncateForLog(line string) string {
	const max = 64
	if len(line) <= max {
		return line
	}
	return line[:max] + "..."
}
