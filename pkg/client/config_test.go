package client

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/aerolink/fsdpilot/pkg/fsd"
)

func TestLoadClientConfigCreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	config, err := LoadClientConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if config.Connection.Port != 6809 {
		t.Errorf("expected default port 6809, got %d", config.Connection.Port)
	}
	if config.Connection.ProtocolRevision != ProtocolRevisionAuth {
		t.Errorf("expected default revision %d, got %d", ProtocolRevisionAuth, config.Connection.ProtocolRevision)
	}

	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected default config file to be written: %v", err)
	}
}

func TestLoadClientConfigParseError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	broken := "[connection]\nserver = \"fsd.example.com\"\nport = not-a-number\n"
	if err := os.WriteFile(path, []byte(broken), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadClientConfig(path)
	if err == nil {
		t.Fatal("expected parse error")
	}

	var configErr *ConfigError
	if !errors.As(err, &configErr) {
		t.Fatalf("expected ConfigError, got %T", err)
	}
	if configErr.LineNumber != 3 {
		t.Errorf("expected line number 3, got %d", configErr.LineNumber)
	}
}

func TestLoadClientConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "bad port",
			content: "[connection]\nport = 70000\n[local]\nstate_db = \"state.db\"\n",
			wantErr: "invalid port",
		},
		{
			name:    "bad revision",
			content: "[connection]\nport = 6809\nprotocol_revision = 42\n[local]\nstate_db = \"state.db\"\n",
			wantErr: "protocol revision",
		},
		{
			name:    "bad sim type",
			content: "[connection]\nport = 6809\n[identity]\nsim_type = \"msdos\"\n[local]\nstate_db = \"state.db\"\n",
			wantErr: "sim type",
		},
		{
			name:    "bad client id",
			content: "[connection]\nport = 6809\n[client]\nid = \"zzzz\"\n[local]\nstate_db = \"state.db\"\n",
			wantErr: "16-bit hex",
		},
		{
			name:    "missing state db",
			content: "[connection]\nport = 6809\n",
			wantErr: "state database",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}

			_, err := LoadClientConfig(path)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %q", tt.wantErr, err.Error())
			}
		})
	}
}

func TestGetServerAddress(t *testing.T) {
	config := DefaultTOMLConfig()
	config.Connection.Server = "fsd.example.com"

	if got := config.GetServerAddress(); got != "fsd.example.com:6809" {
		t.Errorf("expected fsd.example.com:6809, got %s", got)
	}

	config.Connection.Server = "wss://fsd.example.com"
	if got := config.GetServerAddress(); got != "wss://fsd.example.com" {
		t.Errorf("expected scheme address passed through, got %s", got)
	}

	config.Connection.Server = ""
	if got := config.GetServerAddress(); got != "" {
		t.Errorf("expected empty address, got %s", got)
	}
}

func TestBuildIdentityPilot(t *testing.T) {
	config := DefaultTOMLConfig()
	config.Identity.Callsign = "dlh123"
	config.Identity.RealName = "Test Pilot"
	config.Identity.CID = "1234567"
	config.Identity.Rating = int(fsd.PilotRatingIFR)
	config.Identity.SimType = "xplane12"
	config.Client.ID = "88e4"

	identity := config.BuildIdentity()

	if identity.Callsign != "DLH123" {
		t.Errorf("expected callsign uppercased, got %s", identity.Callsign)
	}
	if identity.PilotRating != fsd.PilotRatingIFR {
		t.Errorf("expected pilot rating %d, got %d", fsd.PilotRatingIFR, identity.PilotRating)
	}
	if identity.SimType != fsd.SimTypeXPlane12 {
		t.Errorf("expected X-Plane 12, got %d", identity.SimType)
	}
	if identity.ClientID != 0x88e4 {
		t.Errorf("expected client id 0x88e4, got %x", identity.ClientID)
	}
	if identity.ProtocolRevision != ProtocolRevisionAuth {
		t.Errorf("expected revision %d, got %d", ProtocolRevisionAuth, identity.ProtocolRevision)
	}
	if len(identity.Capabilities) == 0 {
		t.Error("expected default capabilities")
	}
}

func TestBuildIdentityATC(t *testing.T) {
	config := DefaultTOMLConfig()
	config.Identity.Callsign = "EGLL_TWR"
	config.Identity.IsATC = true
	config.Identity.Rating = int(fsd.AtcRatingController1)

	identity := config.BuildIdentity()

	if !identity.IsATC {
		t.Fatal("expected ATC identity")
	}
	if identity.AtcRating != fsd.AtcRatingController1 {
		t.Errorf("expected ATC rating %d, got %d", fsd.AtcRatingController1, identity.AtcRating)
	}
	if identity.PilotRating != 0 {
		t.Errorf("expected pilot rating unset, got %d", identity.PilotRating)
	}
}

func TestBuildIdentitySystemUID(t *testing.T) {
	config := DefaultTOMLConfig()
	config.Client.SystemUID = "1108540872"

	identity := config.BuildIdentity()
	if identity.SystemUID != "1108540872" {
		t.Errorf("expected configured system UID, got %q", identity.SystemUID)
	}

	config.Client.SystemUID = ""
	identity = config.BuildIdentity()
	if identity.SystemUID == "" {
		t.Fatal("expected a derived system UID when none is configured")
	}
	if _, err := strconv.ParseInt(identity.SystemUID, 10, 64); err != nil {
		t.Errorf("derived system UID is not decimal: %q", identity.SystemUID)
	}
	if identity.Com1FrequencyKHz != 122800 {
		t.Errorf("expected default COM1 122800 kHz, got %d", identity.Com1FrequencyKHz)
	}
}
