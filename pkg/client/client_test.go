package client

import (
	"testing"
)

func TestNewClientRequiresServer(t *testing.T) {
	config := DefaultTOMLConfig()

	if _, err := NewClient(config); err == nil {
		t.Fatal("expected error for missing server address")
	}
}

func TestNewClientWiring(t *testing.T) {
	config := DefaultTOMLConfig()
	config.Connection.Server = "fsd.example.com"
	config.Identity.Callsign = "dlh123"

	c, err := NewClient(config)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if c.State() != StateDisconnected {
		t.Errorf("expected disconnected state before Connect, got %v", c.State())
	}
	if c.Callsign() != "DLH123" {
		t.Errorf("expected uppercased callsign, got %s", c.Callsign())
	}
	if c.Handlers() == nil {
		t.Error("expected handler surface")
	}
}
