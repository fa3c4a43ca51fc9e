package fsd

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestPBHRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		pitch := rapid.Float64Range(-90, 90).Draw(t, "pitch")
		bank := rapid.Float64Range(-180, 179.9).Draw(t, "bank")
		heading := rapid.Float64Range(0, 359.9).Draw(t, "heading")
		onGround := rapid.Bool().Draw(t, "onGround")

		packed := PackPBH(pitch, bank, heading, onGround)
		gotPitch, gotBank, gotHeading, gotGround := UnpackPBH(packed)

		assert.InDelta(t, pitch, gotPitch, PBHAngleStep)
		assert.InDelta(t, bank, gotBank, PBHAngleStep)
		assert.InDelta(t, heading, gotHeading, PBHAngleStep)
		assert.Equal(t, onGround, gotGround)
	})
}

func TestPBHRepackIsStable(t *testing.T) {
	// Quantization happens exactly once: packing the unpacked values again
	// must produce the identical integer.
	rapid.Check(t, func(t *rapid.T) {
		packed := rapid.Uint32().Draw(t, "packed") &^ 1

		pitch, bank, heading, onGround := UnpackPBH(packed)
		repacked := PackPBH(pitch, bank, heading, onGround)

		assert.Equal(t, packed, repacked)
	})
}

func TestPilotDataUpdateRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		msg := PilotDataUpdate{
			MessageHeader:   MessageHeader{Sender: callsignGen().Draw(t, "sender")},
			Transponder:     TransponderMode(rapid.IntRange(0, 2).Draw(t, "mode")),
			TransponderCode: rapid.IntRange(0, 7777).Draw(t, "code"),
			Rating:          PilotRating(rapid.IntRange(0, 5).Draw(t, "rating")),
			Latitude:        rapid.Float64Range(-90, 90).Draw(t, "lat"),
			Longitude:       rapid.Float64Range(-180, 180).Draw(t, "lon"),
			AltitudeTrueFt:  rapid.IntRange(-1000, 60000).Draw(t, "alt"),
			GroundSpeedKts:  rapid.IntRange(0, 800).Draw(t, "gs"),
			Pitch:           rapid.Float64Range(-90, 90).Draw(t, "pitch"),
			Bank:            rapid.Float64Range(-180, 179.9).Draw(t, "bank"),
			Heading:         rapid.Float64Range(0, 359.9).Draw(t, "heading"),
			OnGround:        rapid.Bool().Draw(t, "onGround"),
		}
		msg.AltitudePressure = msg.AltitudeTrueFt + rapid.IntRange(-500, 500).Draw(t, "delta")

		decoded, err := PilotDataUpdateFromTokens(msg.Tokens())
		require.NoError(t, err)
		// Positions survive within the 5 decimal wire precision, angles
		// within one quantization step.
		assert.InDelta(t, msg.Latitude, decoded.Latitude, 1e-5)
		assert.InDelta(t, msg.Longitude, decoded.Longitude, 1e-5)
		assert.InDelta(t, msg.Pitch, decoded.Pitch, PBHAngleStep)
		assert.InDelta(t, msg.Bank, decoded.Bank, PBHAngleStep)
		assert.InDelta(t, msg.Heading, decoded.Heading, PBHAngleStep)
		assert.Equal(t, msg.AltitudeTrueFt, decoded.AltitudeTrueFt)
		assert.Equal(t, msg.AltitudePressure, decoded.AltitudePressure)
		assert.Equal(t, msg.OnGround, decoded.OnGround)
	})
}

func TestFrequencyOffsetRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		freq := rapid.IntRange(118000, 137000).Draw(t, "freq")

		msg := AtcDataUpdate{
			MessageHeader: MessageHeader{Sender: "EGLL_TWR"},
			FrequencyKHz:  freq,
		}
		decoded, err := AtcDataUpdateFromTokens(msg.Tokens())
		require.NoError(t, err)
		assert.Equal(t, freq, decoded.FrequencyKHz)

		radio := NewRadioTextMessage("ABCD", []int{freq}, "msg")
		decodedRadio, err := TextMessageFromTokens(radio.Tokens())
		require.NoError(t, err)
		assert.Equal(t, []int{freq}, decodedRadio.FrequenciesKHz)
	})
}

func TestFrequency118025OnTheWire(t *testing.T) {
	msg := NewRadioTextMessage("ABCD", []int{118025}, "contact tower")
	assert.Equal(t, "#TMABCD:@18025:contact tower\r\n", EncodeLine(msg))

	decoded, err := TextMessageFromTokens(msg.Tokens())
	require.NoError(t, err)
	assert.Equal(t, []int{118025}, decoded.FrequenciesKHz)
}

func TestDispatchRoundTripAll(t *testing.T) {
	// Every encodable kind must dispatch back to a message whose re-encoding
	// is byte identical to the first.
	messages := []Message{
		NewAddAtc("EGLL_TWR", "Jane Roe", "1000001", "secret", AtcRatingController2, 100),
		NewAddPilot("BAW123", "1000001", "secret", PilotRatingIFR, 101, SimTypeXPlane11, "Jane Roe"),
		AtcDataUpdate{MessageHeader: MessageHeader{Sender: "EGLL_TWR"}, FrequencyKHz: 118500, Facility: FacilityTWR, VisibleRange: 50, Rating: AtcRatingController2, Latitude: 51.4775, Longitude: -0.46138, ElevationFt: 83},
		AuthChallenge{MessageHeader: MessageHeader{Sender: "SERVER", Receiver: "BAW123"}, Challenge: "0123456789abcdef"},
		AuthResponse{MessageHeader: MessageHeader{Sender: "BAW123", Receiver: "SERVER"}, Response: "d41d8cd98f00b204e9800998ecf8427e"},
		ClientQuery{MessageHeader: MessageHeader{Sender: "BAW123", Receiver: ServerCallsign}, Type: ClientQueryCapabilities},
		ClientResponse{MessageHeader: MessageHeader{Sender: "BAW123", Receiver: "EGLL_TWR"}, Type: ClientQueryRealName, Payload: []string{"Jane Roe", "EGLL", "2"}},
		NewDeleteAtc("EGLL_TWR", "1000001"),
		NewDeletePilot("BAW123", "1000001"),
		ServerIdentification{MessageHeader: MessageHeader{Sender: "SERVER", Receiver: "CLIENT"}, ServerVersion: "FSD V3.43", InitialChallenge: "c0ffee"},
		KillRequest{MessageHeader: MessageHeader{Sender: "SERVER", Receiver: "BAW123"}, Reason: "inactive"},
		Ping{MessageHeader: MessageHeader{Sender: "BAW123", Receiver: "SERVER"}, Timestamp: "1693514000"},
		Pong{MessageHeader: MessageHeader{Sender: "SERVER", Receiver: "BAW123"}, Timestamp: "1693514000"},
		ServerHeartbeat{MessageHeader: MessageHeader{Sender: "SERVER"}, Data: []string{"80"}},
		NewPrivateTextMessage("BAW123", "EGLL_TWR", "with you"),
		PlaneInfoRequest{MessageHeader{Sender: "BAW123", Receiver: "DLH456"}},
		PlaneInformation{MessageHeader: MessageHeader{Sender: "DLH456", Receiver: "BAW123"}, Aircraft: "A320", Airline: "DLH"},
		Rehost{MessageHeader: MessageHeader{Sender: "SERVER", Receiver: "BAW123"}, Hostname: "fsd2.example.net"},
		Mute{MessageHeader: MessageHeader{Sender: "SERVER", Receiver: "BAW123"}, Muted: true},
		VisualPilotDataToggle{MessageHeader: MessageHeader{Sender: "SERVER", Receiver: "BAW123"}, Active: true},
	}

	for _, msg := range messages {
		line := EncodeLine(msg)
		kind, decoded, err := Dispatch(strings.TrimSuffix(line, LineEnding))
		require.NoError(t, err, line)
		require.NotNil(t, decoded, line)
		assert.NotEqual(t, TypeUnknown, kind, line)
		assert.Equal(t, line, EncodeLine(decoded), "re-encode of %s", kind)
	}
}

func callsignGen() *rapid.Generator[string] {
	return rapid.StringMatching(`[A-Z]{3}[0-9]{1,4}`)
}
