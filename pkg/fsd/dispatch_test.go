package fsd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatchSelectsKindByPrefix(t *testing.T) {
	tests := []struct {
		name string
		line string
		kind MessageType
	}{
		{"pilot position", "@N:ABCD:7000:1:43.12578:-72.15841:12000:125:25132146:8", TypePilotDataUpdate},
		{"atc position", "%EGLL_TWR:18500:4:50:5:51.47750:-0.46138:83", TypeAtcDataUpdate},
		{"visual position", "^ABCD:43.1257891:-72.1584142:12000.12:1404.00:25132144:-1.0001:2.0001:3.0001:-0.0349:0.0175:0.0524:0.00", TypeVisualPilotDataUpdate},
		{"visual periodic", "#SLABCD:43.1257891:-72.1584142:12000.12:1404.00:25132144:-1.0001:2.0001:3.0001:-0.0349:0.0175:0.0524:0.00", TypeVisualPilotDataPeriodic},
		{"visual stopped", "#STABCD:43.1257891:-72.1584142:12000.12:1404.00:25132144:-1.0001:2.0001:3.0001:-0.0349:0.0175:0.0524:0.00", TypeVisualPilotDataStopped},
		{"server identification", "$DISERVER:CLIENT:FSD V3.43:c0ffee", TypeServerIdentification},
		{"client identification", "$IDABCD:SERVER:e410:Client:1:5:1234567:1108540872:29bbc8b1398eb38e0139", TypeClientIdentification},
		{"server error", "$ERSERVER:ABCD:9:EGLL:No such weather profile", TypeServerError},
		{"server heartbeat", "#DLSERVER:80", TypeServerHeartbeat},
		{"text message", "#TMABCD:XYZ:hello", TypeTextMessage},
		{"kill request", "$!!SERVER:ABCD:bye", TypeKillRequest},
		{"rehost", "$XXSERVER:ABCD:fsd2.example.net", TypeRehost},
		{"mute", "#MUSERVER:ABCD:1", TypeMute},
		{"euroscope simdata", "SIMDATA:ABCD:A320:DLH:0:43.1257800:-72.1584100:12000.0:180.00:10:-10:250:0:0:50:0:0.0:0", TypeEuroscopeSimData},
		{"plane info request", "#SBABCD:XYZ:PIR", TypePlaneInfoRequest},
		{"plane information", "#SBABCD:XYZ:PI:GEN:EQUIPMENT=B744", TypePlaneInformation},
		{"interim position", "#SBABCD:XYZ:VI:43.12578:-72.15841:12008:400:25132146", TypeInterimPilotDataUpdate},
		{"fsinn request", "#SBABCD:XYZ:FSIPIR:0:DLH:A320:::::L2J:AIRBUS A320", TypePlaneInfoRequestFsinn},
		{"fsinn information", "#SBABCD:XYZ:FSIPI:0:DLH:A320:::::L2J:AIRBUS A320", TypePlaneInformationFsinn},
		{"custom pilot packet", "#SBABCD:XYZ:WHOSONLINE:data", TypeCustomPilotPacket},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, msg, err := Dispatch(tt.line)
			require.NoError(t, err)
			require.NotNil(t, msg)
			assert.Equal(t, tt.kind, kind)
		})
	}
}

func TestDispatchIgnoresNoiseLines(t *testing.T) {
	lines := []string{
		"",
		"   ",
		"#PCEGLL_TWR:EGLL_APP:CCP:data",
		"!Rsomething",
		"-MDwhatever",
		"-PDwhatever",
		"#SBABCD:XYZ:I:0:1:2",
		"#SBABCD:XYZ:X:oldstyle",
	}

	for _, line := range lines {
		kind, msg, err := Dispatch(line)
		require.NoError(t, err, line)
		assert.Nil(t, msg, line)
		assert.Equal(t, TypeIgnored, kind, line)
	}
}

func TestDispatchUnknownPrefix(t *testing.T) {
	kind, msg, err := Dispatch("$QQABCD:SERVER:whatever")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownPDU)
	assert.Nil(t, msg)
	assert.Equal(t, TypeUnknown, kind)
}

func TestDispatchShortLineReportsTokenCount(t *testing.T) {
	_, msg, err := Dispatch("$ERSERVER:ABCD")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTokenCount)
	assert.Nil(t, msg)
}

func TestDispatchTrimsTrailingWhitespace(t *testing.T) {
	kind, msg, err := Dispatch("#TMABCD:XYZ:hello\r")
	require.NoError(t, err)
	require.NotNil(t, msg)
	assert.Equal(t, TypeTextMessage, kind)
	assert.Equal(t, "hello", msg.(TextMessage).Text)
}
