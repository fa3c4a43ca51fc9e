package client

import (
	"path/filepath"
	"testing"
	"time"
)

func openTestState(t *testing.T) *State {
	t.Helper()
	state, err := OpenState(filepath.Join(t.TempDir(), "state.db"))
	if err != nil {
		t.Fatalf("failed to open state: %v", err)
	}
	t.Cleanup(func() { state.Close() })
	return state
}

func TestStateConfigRoundTrip(t *testing.T) {
	state := openTestState(t)

	if err := state.SetConfig("theme", "dark"); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	value, err := state.GetConfig("theme")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if value != "dark" {
		t.Errorf("expected dark, got %q", value)
	}
}

func TestStateConfigMissingKey(t *testing.T) {
	state := openTestState(t)

	value, err := state.GetConfig("nonexistent")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if value != "" {
		t.Errorf("expected empty value, got %q", value)
	}
}

func TestStateLastCallsign(t *testing.T) {
	state := openTestState(t)

	if got := state.GetLastCallsign(); got != "" {
		t.Errorf("expected empty initial callsign, got %q", got)
	}

	if err := state.SetLastCallsign("DLH123"); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if got := state.GetLastCallsign(); got != "DLH123" {
		t.Errorf("expected DLH123, got %q", got)
	}
}

func TestStateConnectionHistory(t *testing.T) {
	state := openTestState(t)

	if err := state.SaveSuccessfulConnection("fsd.example.com:6809", "DLH123"); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := state.SaveSuccessfulConnection("fsd.example.com:6809", "BAW456"); err != nil {
		t.Fatalf("second save failed: %v", err)
	}

	callsign, err := state.GetLastCallsignFor("fsd.example.com:6809")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if callsign != "BAW456" {
		t.Errorf("expected most recent callsign BAW456, got %q", callsign)
	}

	callsign, err = state.GetLastCallsignFor("other.example.com:6809")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if callsign != "" {
		t.Errorf("expected no callsign for unknown server, got %q", callsign)
	}
}

func TestStateSessionStats(t *testing.T) {
	state := openTestState(t)

	first := SessionStats{
		ServerAddress:    "fsd.example.com:6809",
		Callsign:         "DLH123",
		ConnectedAt:      time.Unix(1700000000, 0),
		Duration:         90 * time.Minute,
		BytesSent:        4096,
		BytesReceived:    65536,
		DisconnectReason: "",
	}
	second := first
	second.Callsign = "BAW456"
	second.DisconnectReason = "killed by server: spam"

	if err := state.SaveSessionStats(first); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := state.SaveSessionStats(second); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	recent, err := state.RecentSessionStats(10)
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(recent))
	}

	// Newest first.
	if recent[0].Callsign != "BAW456" {
		t.Errorf("expected newest session first, got %s", recent[0].Callsign)
	}
	if recent[0].DisconnectReason != "killed by server: spam" {
		t.Errorf("unexpected reason: %q", recent[0].DisconnectReason)
	}
	if recent[1].BytesReceived != 65536 {
		t.Errorf("expected 65536 bytes received, got %d", recent[1].BytesReceived)
	}
	if !recent[1].ConnectedAt.Equal(time.Unix(1700000000, 0)) {
		t.Errorf("unexpected connect time: %v", recent[1].ConnectedAt)
	}
}

func TestStateLimitsRecentSessions(t *testing.T) {
	state := openTestState(t)

	for i := 0; i < 5; i++ {
		stats := SessionStats{
			ServerAddress: "fsd.example.com:6809",
			Callsign:      "DLH123",
			ConnectedAt:   time.Now(),
			Duration:      time.Minute,
		}
		if err := state.SaveSessionStats(stats); err != nil {
			t.Fatalf("save failed: %v", err)
		}
	}

	recent, err := state.RecentSessionStats(3)
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if len(recent) != 3 {
		t.Errorf("expected limit of 3, got %d", len(recent))
	}
}
