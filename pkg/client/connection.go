package client

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aerolink/fsdpilot/pkg/fsd"
)

// ConnectionStateType represents the transport status.
type ConnectionStateType int

const (
	StateTypeConnected ConnectionStateType = iota
	StateTypeDisconnected
	StateTypeReconnecting
)

// ConnectionStateUpdate represents a transport state change.
type ConnectionStateUpdate struct {
	State   ConnectionStateType
	Attempt int
	Err     error
}

// Connection is the line transport to an FSD server. It frames the byte
// stream into protocol lines and shuttles them over channels; it knows
// nothing about message semantics.
type Connection struct {
	addr         string
	dial         func() (net.Conn, error)
	conn         net.Conn
	mu           sync.RWMutex
	connected    bool
	reconnecting bool

	// generation increments on every successful dial. Loops belonging to a
	// superseded connection compare their generation before tearing anything
	// down, so a stale readLoop cannot kill a replacement connection.
	generation uint64

	// Channels for communication. Incoming carries raw lines with the
	// line ending stripped.
	incoming    chan string
	outgoing    chan string
	errors      chan error
	stateChange chan ConnectionStateUpdate

	// Auto-reconnect settings. Off by default: the server requires a fresh
	// login after any drop, so reconnection is driven by the session.
	autoReconnect     bool
	reconnectDelay    time.Duration
	maxReconnectDelay time.Duration

	// Traffic counters (bytes on the wire)
	bytesSent     atomic.Uint64
	bytesReceived atomic.Uint64

	// Bandwidth throttling (for testing)
	throttleBytesPerSec int // 0 = no throttle

	// Logging
	logger *log.Logger

	// Shutdown
	shutdown   chan struct{}
	wg         sync.WaitGroup
	writerOnce sync.Once
	closeOnce  sync.Once
}

// maxLineLength bounds a single protocol line; anything longer is a framing
// failure, not legitimate traffic.
const maxLineLength = 4096

// NewConnection creates a connection for the given server address. Supported
// schemes are tcp (default), ws and wss.
func NewConnection(addr string) (*Connection, error) {
	cfg, err := parseServerAddress(addr)
	if err != nil {
		return nil, err
	}
	return newConnectionWithDialer(cfg.display, cfg.dial), nil
}

// newConnectionWithDialer wires a custom dial function, used by Rehost and
// by tests that script the server end of a pipe.
func newConnectionWithDialer(display string, dial func() (net.Conn, error)) *Connection {
	return &Connection{
		addr:              display,
		dial:              dial,
		incoming:          make(chan string, 100),
		outgoing:          make(chan string, 100),
		errors:            make(chan error, 10),
		stateChange:       make(chan ConnectionStateUpdate, 10),
		reconnectDelay:    1 * time.Second,
		maxReconnectDelay: 30 * time.Second,
		shutdown:          make(chan struct{}),
	}
}

// SetLogger sets a logger for debugging connection events.
func (c *Connection) SetLogger(logger *log.Logger) {
	c.logger = logger
}

// SetThrottle sets bandwidth throttling in bytes per second (0 = no
// throttle). SetThrottle(3600) simulates a 28.8kbps dial-up modem.
func (c *Connection) SetThrottle(bytesPerSec int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.throttleBytesPerSec = bytesPerSec
	if bytesPerSec > 0 {
		c.logf("Bandwidth throttling enabled: %d bytes/sec (~%.1f kbps)", bytesPerSec, float64(bytesPerSec*8)/1000)
	} else {
		c.logf("Bandwidth throttling disabled")
	}
}

// EnableAutoReconnect turns on transport-level reconnection with exponential
// backoff. The session still has to redo the login after each reconnect.
func (c *Connection) EnableAutoReconnect() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.autoReconnect = true
}

// logf logs a message if a logger is set.
func (c *Connection) logf(format string, args ...interface{}) {
	if c.logger != nil {
		c.logger.Printf(format, args...)
	}
}

// Connect establishes the transport to the server.
func (c *Connection) Connect() error {
	c.mu.Lock()
	if c.connected {
		c.mu.Unlock()
		return fmt.Errorf("already connected")
	}
	c.mu.Unlock()

	c.logf("Connecting to %s...", c.addr)

	if c.dial == nil {
		return fmt.Errorf("no dialer configured")
	}

	conn, err := c.dial()
	if err != nil {
		c.logf("Connection failed: %v", err)
		return fmt.Errorf("failed to connect: %w", err)
	}

	c.mu.Lock()
	c.conn = conn
	c.connected = true
	c.generation++
	gen := c.generation
	c.mu.Unlock()

	c.logf("Connected successfully to %s", c.addr)

	// One writer lives for the whole connection lifetime; a fresh reader is
	// bound to each dialed socket.
	c.wg.Add(1)
	go c.readLoop(conn, gen)
	c.writerOnce.Do(func() {
		c.wg.Add(1)
		go c.writeLoop()
	})

	select {
	case c.stateChange <- ConnectionStateUpdate{State: StateTypeConnected}:
	default:
	}

	return nil
}

// Redial swaps the dial target, used when the server rehosts the session.
// Takes effect on the next Connect.
func (c *Connection) Redial(addr string) error {
	cfg, err := parseServerAddress(addr)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.addr = cfg.display
	c.dial = cfg.dial
	c.mu.Unlock()
	c.logf("Dial target changed to %s", cfg.display)
	return nil
}

// Disconnect closes the transport.
func (c *Connection) Disconnect() {
	c.mu.Lock()
	if !c.connected {
		c.mu.Unlock()
		return
	}
	c.logf("Disconnecting from %s", c.addr)
	c.connected = false
	if c.conn != nil {
		c.conn.Close()
	}
	c.mu.Unlock()
}

// Close shuts down the connection permanently.
func (c *Connection) Close() {
	c.closeOnce.Do(func() {
		close(c.shutdown)
		c.Disconnect()
		c.wg.Wait()
		close(c.incoming)
		close(c.outgoing)
		close(c.errors)
		close(c.stateChange)
	})
}

// SendLine queues a complete wire line (including line ending) for
// transmission.
func (c *Connection) SendLine(line string) error {
	select {
	case c.outgoing <- line:
		return nil
	case <-c.shutdown:
		return fmt.Errorf("connection closed")
	default:
		return fmt.Errorf("outgoing queue full")
	}
}

// Send encodes and queues a message.
func (c *Connection) Send(msg fsd.Message) error {
	return c.SendLine(fsd.EncodeLine(msg))
}

// SendLineNow writes a line synchronously, bypassing the outgoing queue.
// Used for the logoff notice during shutdown, when the write loop may
// already be gone.
func (c *Connection) SendLineNow(line string) error {
	c.mu.RLock()
	conn := c.conn
	connected := c.connected
	c.mu.RUnlock()

	if !connected || conn == nil {
		return fmt.Errorf("not connected")
	}

	writer := &countingWriter{w: conn, counter: &c.bytesSent}
	_, err := io.WriteString(writer, line)
	return err
}

// Incoming returns the channel of received lines.
func (c *Connection) Incoming() <-chan string {
	return c.incoming
}

// Errors returns the channel for connection errors.
func (c *Connection) Errors() <-chan error {
	return c.errors
}

// StateChanges returns the channel for transport state updates.
func (c *Connection) StateChanges() <-chan ConnectionStateUpdate {
	return c.stateChange
}

// IsConnected returns whether the transport is up.
func (c *Connection) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}

// GetAddress returns the server address.
func (c *Connection) GetAddress() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.addr
}

// GetBytesSent returns the total bytes sent.
func (c *Connection) GetBytesSent() uint64 {
	return c.bytesSent.Load()
}

// GetBytesReceived returns the total bytes received.
func (c *Connection) GetBytesReceived() uint64 {
	return c.bytesReceived.Load()
}

// readLoop frames the byte stream into lines and forwards them.
func (c *Connection) readLoop(conn net.Conn, gen uint64) {
	defer c.wg.Done()

	c.mu.RLock()
	throttle := c.throttleBytesPerSec
	c.mu.RUnlock()

	// Build reader chain: conn -> throttle (optional) -> counter
	var reader io.Reader = conn
	if throttle > 0 {
		reader = newThrottledReader(reader, throttle)
	}
	reader = &countingReader{r: reader, counter: &c.bytesReceived}

	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 256), maxLineLength)

	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			continue
		}

		c.logf("← RECV: %s", line)

		select {
		case c.incoming <- line:
		case <-c.shutdown:
			return
		}
	}

	if err := scanner.Err(); err != nil && !errors.Is(err, net.ErrClosed) {
		c.logf("Read error: %v", err)
		select {
		case c.errors <- fmt.Errorf("read error: %w", err):
		default:
		}
	} else {
		c.logf("Connection closed by server (EOF)")
	}
	c.handleDisconnect(gen)
}

// countingReader wraps an io.Reader and counts bytes read using an atomic
// counter.
type countingReader struct {
	r       io.Reader
	counter *atomic.Uint64
}

func (cr *countingReader) Read(p []byte) (n int, err error) {
	n, err = cr.r.Read(p)
	if n > 0 && cr.counter != nil {
		cr.counter.Add(uint64(n))
	}
	return n, err
}

// countingWriter wraps an io.Writer and counts bytes written using an atomic
// counter.
type countingWriter struct {
	w       io.Writer
	counter *atomic.Uint64
}

func (cw *countingWriter) Write(p []byte) (n int, err error) {
	n, err = cw.w.Write(p)
	if n > 0 && cw.counter != nil {
		cw.counter.Add(uint64(n))
	}
	return n, err
}

// throttledReader wraps an io.Reader and limits read rate to bytesPerSec.
type throttledReader struct {
	r            io.Reader
	bytesPerSec  int
	lastReadTime time.Time
	mu           sync.Mutex
}

func newThrottledReader(r io.Reader, bytesPerSec int) *throttledReader {
	return &throttledReader{
		r:            r,
		bytesPerSec:  bytesPerSec,
		lastReadTime: time.Now(),
	}
}

func (tr *throttledReader) Read(p []byte) (n int, err error) {
	tr.mu.Lock()
	defer tr.mu.Unlock()

	// Limit read size to avoid overshooting rate
	maxChunkSize := tr.bytesPerSec / 10
	if maxChunkSize < 1 {
		maxChunkSize = 1
	}
	if len(p) > maxChunkSize {
		p = p[:maxChunkSize]
	}

	n, err = tr.r.Read(p)
	if n > 0 {
		elapsed := time.Since(tr.lastReadTime)
		expectedDuration := time.Duration(float64(n) / float64(tr.bytesPerSec) * float64(time.Second))
		if expectedDuration > elapsed {
			time.Sleep(expectedDuration - elapsed)
		}
		tr.lastReadTime = time.Now()
	}

	return n, err
}

// writeLoop sends queued lines to the connection.
func (c *Connection) writeLoop() {
	defer c.wg.Done()

	for {
		select {
		case line := <-c.outgoing:
			c.mu.RLock()
			conn := c.conn
			connected := c.connected
			gen := c.generation
			c.mu.RUnlock()

			if !connected || conn == nil {
				continue
			}

			writer := &countingWriter{w: conn, counter: &c.bytesSent}
			if _, err := io.WriteString(writer, line); err != nil {
				c.logf("Write error: %v", err)
				select {
				case c.errors <- fmt.Errorf("write error: %w", err):
				default:
				}
				c.handleDisconnect(gen)
				continue
			}

			c.logf("→ SEND: %s", strings.TrimRight(line, "\r\n"))

		case <-c.shutdown:
			return
		}
	}
}

// handleDisconnect handles unexpected disconnection. A loop whose
// connection has already been replaced must not tear down the new one, so
// the caller's generation is checked first.
func (c *Connection) handleDisconnect(gen uint64) {
	c.mu.Lock()
	if gen != c.generation {
		c.mu.Unlock()
		return
	}
	wasConnected := c.connected
	c.connected = false
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
	c.mu.Unlock()

	if !wasConnected {
		return
	}

	c.logf("Disconnected from server")

	disconnectErr := fmt.Errorf("disconnected from server")
	select {
	case c.errors <- disconnectErr:
	default:
	}

	select {
	case c.stateChange <- ConnectionStateUpdate{State: StateTypeDisconnected, Err: disconnectErr}:
	default:
	}

	c.mu.RLock()
	autoReconnect := c.autoReconnect
	c.mu.RUnlock()
	if autoReconnect {
		c.logf("Auto-reconnect enabled, starting reconnect loop")
		go c.reconnectLoop()
	}
}

// reconnectLoop attempts to reconnect with exponential backoff.
func (c *Connection) reconnectLoop() {
	c.mu.Lock()
	if c.reconnecting {
		c.mu.Unlock()
		return
	}
	c.reconnecting = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.reconnecting = false
		c.mu.Unlock()
	}()

	delay := c.reconnectDelay
	attempt := 1

	for {
		select {
		case <-c.shutdown:
			c.logf("Reconnect loop cancelled (shutdown)")
			return
		case <-time.After(delay):
			c.logf("Reconnect attempt %d to %s", attempt, c.addr)

			select {
			case c.stateChange <- ConnectionStateUpdate{State: StateTypeReconnecting, Attempt: attempt}:
			default:
			}

			if err := c.Connect(); err != nil {
				c.logf("Reconnect attempt %d failed: %v", attempt, err)

				delay = delay * 2
				if delay > c.maxReconnectDelay {
					delay = c.maxReconnectDelay
				}
				c.logf("Next reconnect attempt in %v", delay)
				attempt++
				continue
			}

			c.logf("Reconnected successfully after %d attempts", attempt)
			return
		}
	}
}

type dialConfig struct {
	display string
	dial    func() (net.Conn, error)
}

const defaultFSDPort = "6809"

// parseServerAddress resolves an address of the form host, host:port,
// tcp://host:port, ws://host[:port] or wss://host[:port] into a dialer.
func parseServerAddress(raw string) (*dialConfig, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, errors.New("server address is empty")
	}

	scheme := "tcp"
	hostPort := trimmed
	if strings.Contains(trimmed, "://") {
		u, err := url.Parse(trimmed)
		if err != nil {
			return nil, fmt.Errorf("invalid server address %q: %w", raw, err)
		}
		if u.Scheme != "" {
			scheme = strings.ToLower(u.Scheme)
		}
		if u.Host != "" {
			hostPort = u.Host
		} else if u.Path != "" {
			hostPort = u.Path
		}
		hostPort = strings.TrimPrefix(hostPort, "//")
	}

	switch scheme {
	case "tcp", "":
		host, port, err := splitHostPortWithDefault(hostPort, defaultFSDPort)
		if err != nil {
			return nil, err
		}

		address := net.JoinHostPort(host, port)
		dial := func() (net.Conn, error) {
			return net.DialTimeout("tcp", address, 10*time.Second)
		}

		return &dialConfig{display: address, dial: dial}, nil

	case "ws", "wss":
		host, port, err := splitHostPortWithDefault(hostPort, defaultWebSocketPort(scheme))
		if err != nil {
			return nil, err
		}

		address := net.JoinHostPort(host, port)
		useTLS := scheme == "wss"
		dial := func() (net.Conn, error) {
			return DialWebSocket(address, useTLS)
		}

		return &dialConfig{display: fmt.Sprintf("%s://%s", scheme, address), dial: dial}, nil

	default:
		return nil, fmt.Errorf("unsupported server scheme %q", scheme)
	}
}

func defaultWebSocketPort(scheme string) string {
	if scheme == "wss" {
		return "443"
	}
	return "80"
}

func splitHostPortWithDefault(hostPort, defaultPort string) (string, string, error) {
	hostPort = strings.TrimSpace(hostPort)
	if hostPort == "" {
		return "", "", errors.New("missing host in server address")
	}

	host, port, err := net.SplitHostPort(hostPort)
	if err == nil {
		return host, port, nil
	}

	var addrErr *net.AddrError
	if errors.As(err, &addrErr) && strings.Contains(strings.ToLower(addrErr.Err), "missing port") {
		host = hostPort
		if strings.HasPrefix(host, "[") && strings.HasSuffix(host, "]") {
			host = strings.TrimPrefix(strings.TrimSuffix(host, "]"), "[")
		}
		return host, defaultPort, nil
	}

	return "", "", err
}
