package client

import (
	"bufio"
	"net"
	"strings"
	"testing"
	"time"
)

func TestParseServerAddressTCP(t *testing.T) {
	cfg, err := parseServerAddress("fsd.example.com:6810")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.display != "fsd.example.com:6810" {
		t.Fatalf("expected display address fsd.example.com:6810, got %s", cfg.display)
	}

	if cfg.dial == nil {
		t.Fatal("expected dial function to be set")
	}
}

func TestParseServerAddressDefaultPort(t *testing.T) {
	cfg, err := parseServerAddress("fsd.example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.display != "fsd.example.com:6809" {
		t.Fatalf("expected default FSD port to be appended, got %s", cfg.display)
	}
}

func TestParseServerAddressTCPScheme(t *testing.T) {
	cfg, err := parseServerAddress("tcp://fsd.example.com:6809")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.display != "fsd.example.com:6809" {
		t.Fatalf("expected scheme to be stripped, got %s", cfg.display)
	}
}

func TestParseServerAddressWebSocket(t *testing.T) {
	cfg, err := parseServerAddress("ws://fsd.example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.display != "ws://fsd.example.com:80" {
		t.Fatalf("expected ws default port 80, got %s", cfg.display)
	}
}

func TestParseServerAddressSecureWebSocket(t *testing.T) {
	cfg, err := parseServerAddress("wss://fsd.example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.display != "wss://fsd.example.com:443" {
		t.Fatalf("expected wss default port 443, got %s", cfg.display)
	}
}

func TestParseServerAddressInvalidScheme(t *testing.T) {
	if _, err := parseServerAddress("ftp://fsd.example.com"); err == nil {
		t.Fatal("expected error for unsupported scheme")
	}
}

func TestParseServerAddressEmpty(t *testing.T) {
	if _, err := parseServerAddress("   "); err == nil {
		t.Fatal("expected error for empty address")
	}
}

// pipeConnection wires a Connection to the near end of a net.Pipe and hands
// the test the far end to script the server.
func pipeConnection(t *testing.T) (*Connection, net.Conn) {
	t.Helper()

	clientEnd, serverEnd := net.Pipe()
	conn := newConnectionWithDialer("pipe", func() (net.Conn, error) {
		return clientEnd, nil
	})
	if err := conn.Connect(); err != nil {
		t.Fatalf("connect failed: %v", err)
	}
	t.Cleanup(func() {
		serverEnd.Close()
		conn.Close()
	})
	return conn, serverEnd
}

func TestConnectionSendsLines(t *testing.T) {
	conn, serverEnd := pipeConnection(t)

	if err := conn.SendLine("#APABCD:SERVER:1234:pass:1:100:1:Test Pilot\r\n"); err != nil {
		t.Fatalf("send failed: %v", err)
	}

	serverEnd.SetReadDeadline(time.Now().Add(2 * time.Second))
	line, err := bufio.NewReader(serverEnd).ReadString('\n')
	if err != nil {
		t.Fatalf("server read failed: %v", err)
	}
	if line != "#APABCD:SERVER:1234:pass:1:100:1:Test Pilot\r\n" {
		t.Fatalf("unexpected wire line: %q", line)
	}
}

func TestConnectionReceivesLines(t *testing.T) {
	conn, serverEnd := pipeConnection(t)

	go func() {
		serverEnd.Write([]byte("#TMSERVER:ABCD:Welcome aboard\r\n"))
	}()

	select {
	case line := <-conn.Incoming():
		if line != "#TMSERVER:ABCD:Welcome aboard" {
			t.Errorf("expected line ending stripped, got %q", line)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for incoming line")
	}
}

func TestConnectionSkipsBlankLines(t *testing.T) {
	conn, serverEnd := pipeConnection(t)

	go func() {
		serverEnd.Write([]byte("\r\n\r\n#DLSERVER:0\r\n"))
	}()

	select {
	case line := <-conn.Incoming():
		if !strings.HasPrefix(line, "#DL") {
			t.Errorf("expected blank lines to be skipped, got %q", line)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for incoming line")
	}
}

func TestConnectionCountsTraffic(t *testing.T) {
	conn, serverEnd := pipeConnection(t)

	reader := bufio.NewReader(serverEnd)
	if err := conn.SendLine("$PIABCD:SERVER:12345\r\n"); err != nil {
		t.Fatalf("send failed: %v", err)
	}
	serverEnd.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, err := reader.ReadString('\n'); err != nil {
		t.Fatalf("server read failed: %v", err)
	}

	if got := conn.GetBytesSent(); got != 22 {
		t.Errorf("expected 22 bytes sent, got %d", got)
	}
}

func TestConnectionDisconnectOnServerClose(t *testing.T) {
	conn, serverEnd := pipeConnection(t)

	serverEnd.Close()

	deadline := time.After(2 * time.Second)
	for conn.IsConnected() {
		select {
		case <-deadline:
			t.Fatal("connection never noticed the server closing")
		case <-time.After(10 * time.Millisecond):
		}
	}
}
