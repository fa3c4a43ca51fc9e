package client

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/aerolink/fsdpilot/pkg/fsd"
)

// SessionState is the login state of the session, layered on top of the
// transport state.
type SessionState int

const (
	StateDisconnected SessionState = iota
	StateConnecting
	StateConnected
	StateAuthenticated
)

func (s SessionState) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "disconnected"
	}
}

// Protocol revisions. Classic servers accept the login immediately after the
// socket opens; revisions 100 and up greet with $DI first and require the
// challenge-response exchange.
const (
	ProtocolRevisionClassic  = 9
	ProtocolRevisionAtc      = 10
	ProtocolRevisionAuth     = 100
	ProtocolRevisionVelocity = 101
)

// DefaultServerTimeout is how long the session tolerates silence from the
// data server before it declares the connection dead.
const DefaultServerTimeout = 45 * time.Second

// Identity is everything the session needs to log in and to answer peer
// queries about itself.
type Identity struct {
	Callsign         string
	RealName         string
	CID              string
	Password         string
	IsATC            bool
	PilotRating      fsd.PilotRating
	AtcRating        fsd.AtcRating
	SimType          fsd.SimType
	ProtocolRevision int

	// Client software identification, sent in $ID on authenticated
	// revisions.
	ClientID     uint16
	ClientKey    string
	ClientName   string
	VersionMajor int
	VersionMinor int
	SystemUID    string

	Capabilities     []fsd.Capability
	Com1FrequencyKHz int
}

// Session errors surfaced through the state-change callback.
var (
	ErrServerTimeout = errors.New("no heartbeat from server within timeout")
	ErrKilled        = errors.New("killed by server")
	ErrAuthFailed    = errors.New("server failed challenge verification")
	ErrNotConnected  = errors.New("not connected")
)

type stateEvent struct {
	state SessionState
	err   error
}

// Session drives the FSD login sequence and message exchange over a
// Connection. All session state is owned by the run goroutine; cross-thread
// reads go through the mutex.
type Session struct {
	conn     *Connection
	identity Identity
	handlers Handlers
	logger   *log.Logger
	metrics  *Metrics

	mu        sync.RWMutex
	state     SessionState
	lastError error

	clientAuth          *authState
	serverAuth          *authState
	lastServerChallenge string

	lastDataHeartbeat  time.Time
	lastVoiceHeartbeat time.Time
	connectedSince     time.Time

	serverTimeout time.Duration
	fastVisual    bool

	// Unknown prefixes and enum values are reported once, then dropped
	// silently: busy servers repeat them thousands of times.
	warnedLines map[string]bool

	stateEvents chan stateEvent

	shutdown  chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// NewSession wires a session over the given transport. The transport must
// not be started yet; Start owns the connect call.
func NewSession(conn *Connection, identity Identity) *Session {
	return &Session{
		conn:          conn,
		identity:      identity,
		serverTimeout: DefaultServerTimeout,
		warnedLines:   make(map[string]bool),
		stateEvents:   make(chan stateEvent, 16),
		shutdown:      make(chan struct{}),
		done:          make(chan struct{}),
	}
}

// SetLogger sets a logger for session events.
func (s *Session) SetLogger(logger *log.Logger) {
	s.logger = logger
}

// SetMetrics attaches a metrics registry.
func (s *Session) SetMetrics(m *Metrics) {
	s.metrics = m
}

// SetServerTimeout overrides the heartbeat timeout.
func (s *Session) SetServerTimeout(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.serverTimeout = d
}

// Handlers returns the callback registration surface.
func (s *Session) Handlers() *Handlers {
	return &s.handlers
}

func (s *Session) logf(format string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Printf(format, args...)
	}
}

// Start connects the transport and begins the login sequence. On classic
// protocol revisions the login goes out immediately; on authenticated
// revisions the session waits for the server's $DI greeting.
func (s *Session) Start() error {
	s.setState(StateConnecting, nil)

	if err := s.conn.Connect(); err != nil {
		s.setState(StateDisconnected, err)
		return err
	}

	s.mu.Lock()
	s.connectedSince = time.Now()
	s.mu.Unlock()

	if s.identity.ProtocolRevision < ProtocolRevisionAuth {
		s.sendLogin()
		s.setState(StateConnected, nil)
	}

	go s.run()
	return nil
}

// Stop logs off cleanly and shuts the session down. Safe to call more than
// once.
func (s *Session) Stop() {
	s.closeOnce.Do(func() {
		if s.State() != StateDisconnected {
			var logoff fsd.Message
			if s.identity.IsATC {
				logoff = fsd.NewDeleteAtc(s.identity.Callsign, s.identity.CID)
			} else {
				logoff = fsd.NewDeletePilot(s.identity.Callsign, s.identity.CID)
			}
			if err := s.conn.SendLineNow(fsd.EncodeLine(logoff)); err != nil {
				s.logf("Logoff notice failed: %v", err)
			}
		}
		close(s.shutdown)
		s.conn.Disconnect()
		<-s.done
		s.conn.Close()
		s.reset(nil)
	})
}

// State returns the current session state.
func (s *Session) State() SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// LastError returns the error that caused the most recent disconnect, if
// any.
func (s *Session) LastError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastError
}

// IsDataServerAlive reports whether a data-server heartbeat arrived within
// the timeout.
func (s *Session) IsDataServerAlive() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.lastDataHeartbeat.IsZero() && time.Since(s.lastDataHeartbeat) < s.serverTimeout
}

// IsVoiceServerAlive reports whether a voice-channel ack arrived within the
// timeout.
func (s *Session) IsVoiceServerAlive() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.lastVoiceHeartbeat.IsZero() && time.Since(s.lastVoiceHeartbeat) < s.serverTimeout
}

// FastVisualUpdatesEnabled reports whether the server asked for high-rate
// visual position updates.
func (s *Session) FastVisualUpdatesEnabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fastVisual
}

// Callsign returns the identity callsign.
func (s *Session) Callsign() string {
	return s.identity.Callsign
}

// send encodes and queues a message, counting it in the metrics.
func (s *Session) send(msg fsd.Message) {
	if err := s.conn.Send(msg); err != nil {
		s.logf("Send failed: %v", err)
		return
	}
	if s.metrics != nil {
		s.metrics.RecordMessageSent(msg.PDU())
	}
}

// run is the session loop. It owns all state transitions after Start.
func (s *Session) run() {
	defer close(s.done)

	s.mu.RLock()
	interval := s.serverTimeout / 4
	s.mu.RUnlock()
	if interval > 5*time.Second {
		interval = 5 * time.Second
	}
	if interval < 50*time.Millisecond {
		interval = 50 * time.Millisecond
	}
	watchdog := time.NewTicker(interval)
	defer watchdog.Stop()

	for {
		select {
		case <-s.shutdown:
			return

		case line, ok := <-s.conn.Incoming():
			if !ok {
				return
			}
			s.handleLine(line)

		case err, ok := <-s.conn.Errors():
			if !ok {
				return
			}
			s.logf("Transport error: %v", err)

		case update, ok := <-s.conn.StateChanges():
			if !ok {
				return
			}
			s.handleTransportState(update)

		case <-watchdog.C:
			s.checkHeartbeats()
		}
	}
}

func (s *Session) handleTransportState(update ConnectionStateUpdate) {
	switch update.State {
	case StateTypeDisconnected:
		// A notice from a connection that has since been replaced, as
		// happens during a rehost, is stale once the transport is back up.
		if s.conn.IsConnected() {
			return
		}
		s.reset(update.Err)
	case StateTypeConnected:
		// Reconnections redo the whole login.
		if s.State() == StateDisconnected {
			s.mu.Lock()
			s.connectedSince = time.Now()
			s.mu.Unlock()
			if s.identity.ProtocolRevision < ProtocolRevisionAuth {
				s.sendLogin()
				s.setState(StateConnected, nil)
			} else {
				s.setState(StateConnecting, nil)
			}
		}
	}
}

func (s *Session) checkHeartbeats() {
	s.mu.RLock()
	state := s.state
	lastData := s.lastDataHeartbeat
	lastVoice := s.lastVoiceHeartbeat
	timeout := s.serverTimeout
	s.mu.RUnlock()

	if state != StateAuthenticated || lastData.IsZero() {
		return
	}

	// Either channel acking within the window keeps the session alive;
	// transient jitter on one of them is not a reason to drop.
	dataStale := time.Since(lastData) >= timeout
	voiceStale := lastVoice.IsZero() || time.Since(lastVoice) >= timeout
	if dataStale && voiceStale {
		s.logf("Server silent for %v, disconnecting", time.Since(lastData).Round(time.Second))
		s.disconnectWithError(ErrServerTimeout)
	}
}

// handleLine decodes and routes one inbound line. Malformed lines are logged
// and dropped; they never terminate the session.
func (s *Session) handleLine(line string) {
	kind, msg, err := s.dispatch(line)
	if err != nil {
		s.warnOnce(err.Error())
		if s.metrics != nil {
			s.metrics.RecordDecodeError()
		}
		return
	}
	if msg == nil {
		return
	}

	if s.metrics != nil {
		s.metrics.RecordMessageReceived(kind.String())
	}

	switch m := msg.(type) {
	case fsd.ServerIdentification:
		s.handleServerIdentification(m)
	case fsd.AuthChallenge:
		s.handleAuthChallenge(m)
	case fsd.AuthResponse:
		s.handleAuthResponse(m)
	case fsd.ServerError:
		s.handleServerError(m)
	case fsd.ServerHeartbeat:
		s.touchDataHeartbeat()
	case fsd.Ping:
		s.send(fsd.Pong{
			MessageHeader: fsd.MessageHeader{Sender: s.identity.Callsign, Receiver: m.Sender},
			Timestamp:     m.Timestamp,
		})
	case fsd.Pong:
		s.mu.Lock()
		s.lastVoiceHeartbeat = time.Now()
		s.mu.Unlock()
		fire(&s.handlers, func(h *Handlers) func(fsd.Pong) { return h.pong }, m)
	case fsd.TextMessage:
		if strings.EqualFold(m.Sender, fsd.ServerCallsign) {
			s.markLoggedIn()
		}
		fire(&s.handlers, func(h *Handlers) func(fsd.TextMessage) { return h.textMessage }, m)
	case fsd.KillRequest:
		fire(&s.handlers, func(h *Handlers) func(fsd.KillRequest) { return h.kill }, m)
		reason := m.Reason
		if reason == "" {
			reason = "no reason given"
		}
		s.disconnectWithError(fmt.Errorf("%w: %s", ErrKilled, reason))
	case fsd.Rehost:
		s.handleRehost(m)
	case fsd.Mute:
		if strings.EqualFold(m.Receiver, s.identity.Callsign) {
			fire(&s.handlers, func(h *Handlers) func(bool) { return h.mute }, m.Muted)
		}
	case fsd.FlightPlan:
		m.CruiseAltitude = NormalizeFlightLevel(m.CruiseAltitude)
		fire(&s.handlers, func(h *Handlers) func(fsd.FlightPlan) { return h.flightPlan }, m)
	case fsd.ClientQuery:
		s.handleClientQuery(m)
	case fsd.ClientResponse:
		fire(&s.handlers, func(h *Handlers) func(fsd.ClientResponse) { return h.clientResponse }, m)
	case fsd.PilotDataUpdate:
		fire(&s.handlers, func(h *Handlers) func(fsd.PilotDataUpdate) { return h.pilotData }, m)
	case fsd.InterimPilotDataUpdate:
		fire(&s.handlers, func(h *Handlers) func(fsd.InterimPilotDataUpdate) { return h.interimPilotData }, m)
	case fsd.VisualPilotDataUpdate:
		fire(&s.handlers, func(h *Handlers) func(fsd.VisualPilotDataUpdate) { return h.visualPilotData }, m)
	case fsd.VisualPilotDataToggle:
		if strings.EqualFold(m.Receiver, s.identity.Callsign) {
			s.mu.Lock()
			s.fastVisual = m.Active
			s.mu.Unlock()
			fire(&s.handlers, func(h *Handlers) func(bool) { return h.visualToggle }, m.Active)
		}
	case fsd.AtcDataUpdate:
		fire(&s.handlers, func(h *Handlers) func(fsd.AtcDataUpdate) { return h.atcData }, m)
	case fsd.AddPilot:
		fire(&s.handlers, func(h *Handlers) func(fsd.AddPilot) { return h.addPilot }, m)
	case fsd.AddAtc:
		fire(&s.handlers, func(h *Handlers) func(fsd.AddAtc) { return h.addAtc }, m)
	case fsd.DeletePilot:
		fire(&s.handlers, func(h *Handlers) func(fsd.DeletePilot) { return h.deletePilot }, m)
	case fsd.DeleteAtc:
		fire(&s.handlers, func(h *Handlers) func(fsd.DeleteAtc) { return h.deleteAtc }, m)
	case fsd.PlaneInfoRequest:
		fire(&s.handlers, func(h *Handlers) func(fsd.PlaneInfoRequest) { return h.planeInfoRequest }, m)
	case fsd.PlaneInformation:
		fire(&s.handlers, func(h *Handlers) func(fsd.PlaneInformation) { return h.planeInfo }, m)
	case fsd.PlaneInfoRequestFsinn:
		fire(&s.handlers, func(h *Handlers) func(fsd.PlaneInfoRequestFsinn) { return h.fsinnInfoRequest }, m)
	case fsd.PlaneInformationFsinn:
		fire(&s.handlers, func(h *Handlers) func(fsd.PlaneInformationFsinn) { return h.fsinnInfo }, m)
	case fsd.CustomPilotPacket:
		fire(&s.handlers, func(h *Handlers) func(fsd.CustomPilotPacket) { return h.customPacket }, m)
	case fsd.EuroscopeSimData:
		fire(&s.handlers, func(h *Handlers) func(fsd.EuroscopeSimData) { return h.simData }, m)
	}
}

func (s *Session) dispatch(line string) (fsd.MessageType, fsd.Message, error) {
	return fsd.Dispatch(line)
}

// handleServerIdentification answers the $DI greeting: seed both auth
// states, identify the client software, then log in.
func (s *Session) handleServerIdentification(m fsd.ServerIdentification) {
	s.mu.Lock()
	s.clientAuth = newAuthState(s.identity.ClientKey, m.InitialChallenge)
	ownChallenge := generateChallenge()
	s.serverAuth = newAuthState(s.identity.ClientKey, ownChallenge)
	s.mu.Unlock()

	s.send(fsd.ClientIdentification{
		MessageHeader:    fsd.MessageHeader{Sender: s.identity.Callsign, Receiver: fsd.ServerCallsign},
		ClientID:         s.identity.ClientID,
		ClientName:       s.identity.ClientName,
		VersionMajor:     s.identity.VersionMajor,
		VersionMinor:     s.identity.VersionMinor,
		CID:              s.identity.CID,
		SystemUID:        s.identity.SystemUID,
		InitialChallenge: ownChallenge,
	})
	s.sendLogin()
	s.setState(StateConnected, nil)
}

func (s *Session) sendLogin() {
	if s.identity.IsATC {
		s.send(fsd.NewAddAtc(s.identity.Callsign, s.identity.RealName, s.identity.CID,
			s.identity.Password, s.identity.AtcRating, s.identity.ProtocolRevision))
	} else {
		s.send(fsd.NewAddPilot(s.identity.Callsign, s.identity.CID, s.identity.Password,
			s.identity.PilotRating, s.identity.ProtocolRevision, s.identity.SimType,
			s.identity.RealName))
	}
}

// handleAuthChallenge answers the server's challenge and issues a counter
// challenge so the client can verify it still talks to the same server.
func (s *Session) handleAuthChallenge(m fsd.AuthChallenge) {
	s.mu.Lock()
	if s.clientAuth == nil {
		s.mu.Unlock()
		s.warnOnce("auth challenge before server identification")
		return
	}
	response := s.clientAuth.Response(m.Challenge)
	counter := generateChallenge()
	s.lastServerChallenge = counter
	s.mu.Unlock()

	s.send(fsd.AuthResponse{
		MessageHeader: fsd.MessageHeader{Sender: s.identity.Callsign, Receiver: fsd.ServerCallsign},
		Response:      response,
	})
	s.send(fsd.AuthChallenge{
		MessageHeader: fsd.MessageHeader{Sender: s.identity.Callsign, Receiver: fsd.ServerCallsign},
		Challenge:     counter,
	})
}

// handleAuthResponse verifies the server's answer to our counter challenge.
// A mismatch means a hijacked session and tears the connection down.
func (s *Session) handleAuthResponse(m fsd.AuthResponse) {
	s.mu.Lock()
	if s.serverAuth == nil || s.lastServerChallenge == "" {
		s.mu.Unlock()
		return
	}
	expected := s.serverAuth.Response(s.lastServerChallenge)
	s.lastServerChallenge = ""
	s.mu.Unlock()

	if m.Response != expected {
		s.disconnectWithError(ErrAuthFailed)
	}
}

func (s *Session) handleServerError(m fsd.ServerError) {
	fire(&s.handlers, func(h *Handlers) func(fsd.ServerError) { return h.serverError }, m)
	if s.metrics != nil {
		s.metrics.RecordServerError(m.Code.String())
	}

	if m.Fatal() {
		s.logf("Fatal server error %s: %s (%s)", m.Code, m.DescriptionText(), m.CausingParameterText())
		s.disconnectWithError(fmt.Errorf("server rejected session (%s): %s", m.Code, m.DescriptionText()))
		return
	}
	s.logf("Server error %s: %s (%s)", m.Code, m.DescriptionText(), m.CausingParameterText())
}

// handleRehost moves the transport to the named host while keeping the
// session identity. The login sequence reruns against the new server.
func (s *Session) handleRehost(m fsd.Rehost) {
	if m.Hostname == "" {
		return
	}
	s.logf("Server rehosting session to %s", m.Hostname)

	if err := s.conn.Redial(m.Hostname); err != nil {
		s.logf("Rehost failed: %v", err)
		return
	}

	s.conn.Disconnect()

	// A disconnect notice from the old socket may still be queued; the
	// state handler drops it once the new transport is up.
	if err := s.conn.Connect(); err != nil {
		s.logf("Rehost connect failed: %v", err)
		s.reset(err)
		return
	}

	s.mu.Lock()
	s.connectedSince = time.Now()
	s.clientAuth = nil
	s.serverAuth = nil
	s.mu.Unlock()

	if s.identity.ProtocolRevision < ProtocolRevisionAuth {
		s.sendLogin()
		s.setState(StateConnected, nil)
	} else {
		s.setState(StateConnecting, nil)
	}
}

// handleClientQuery answers the queries the protocol obliges every client to
// answer; everything else goes to the application.
func (s *Session) handleClientQuery(m fsd.ClientQuery) {
	respond := func(t fsd.ClientQueryType, payload ...string) {
		s.send(fsd.ClientResponse{
			MessageHeader: fsd.MessageHeader{Sender: s.identity.Callsign, Receiver: m.Sender},
			Type:          t,
			Payload:       payload,
		})
	}

	switch m.Type {
	case fsd.ClientQueryCapabilities:
		payload := make([]string, 0, len(s.identity.Capabilities))
		for _, c := range s.identity.Capabilities {
			payload = append(payload, c.Token()+"=1")
		}
		respond(fsd.ClientQueryCapabilities, payload...)
	case fsd.ClientQueryRealName:
		respond(fsd.ClientQueryRealName, s.identity.RealName, "", s.identity.PilotRating.Token())
	case fsd.ClientQueryCom1Freq:
		respond(fsd.ClientQueryCom1Freq, fmt.Sprintf("%.3f", float64(s.identity.Com1FrequencyKHz)/1000))
	case fsd.ClientQueryServer:
		respond(fsd.ClientQueryServer, s.conn.GetAddress())
	case fsd.ClientQueryINF:
		info := fmt.Sprintf("%s %d.%d CID=%s %s",
			s.identity.ClientName, s.identity.VersionMajor, s.identity.VersionMinor,
			s.identity.CID, s.identity.RealName)
		s.send(fsd.NewPrivateTextMessage(s.identity.Callsign, m.Sender, info))
	default:
		fire(&s.handlers, func(h *Handlers) func(fsd.ClientQuery) { return h.clientQuery }, m)
	}
}

// markLoggedIn promotes the session once the server has demonstrably
// accepted the login (it talks to us without rejecting it).
func (s *Session) markLoggedIn() {
	s.mu.Lock()
	if s.state != StateConnected {
		s.mu.Unlock()
		return
	}
	s.state = StateAuthenticated
	now := time.Now()
	s.lastDataHeartbeat = now
	s.lastVoiceHeartbeat = now
	s.mu.Unlock()

	s.logf("Login accepted as %s", s.identity.Callsign)
	if s.metrics != nil {
		s.metrics.SetConnectionState(StateAuthenticated)
	}
	s.fireStateChange(StateAuthenticated, nil)
}

func (s *Session) touchDataHeartbeat() {
	s.mu.Lock()
	s.lastDataHeartbeat = time.Now()
	s.mu.Unlock()
	s.markLoggedIn()
}

func (s *Session) disconnectWithError(err error) {
	s.mu.Lock()
	s.lastError = err
	s.mu.Unlock()
	s.conn.Disconnect()
	s.reset(err)
}

// reset clears everything tied to the finished login. The identity survives
// so the session can reconnect.
func (s *Session) reset(err error) {
	s.mu.Lock()
	alreadyDown := s.state == StateDisconnected
	s.state = StateDisconnected
	if err != nil {
		s.lastError = err
	}
	s.clientAuth = nil
	s.serverAuth = nil
	s.lastServerChallenge = ""
	s.lastDataHeartbeat = time.Time{}
	s.lastVoiceHeartbeat = time.Time{}
	s.connectedSince = time.Time{}
	s.fastVisual = false
	s.mu.Unlock()

	if alreadyDown {
		return
	}

	s.logf("Session reset (%v)", err)
	if s.metrics != nil {
		s.metrics.SetConnectionState(StateDisconnected)
	}
	s.fireStateChange(StateDisconnected, err)
}

func (s *Session) setState(state SessionState, err error) {
	s.mu.Lock()
	if s.state == state {
		s.mu.Unlock()
		return
	}
	s.state = state
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.SetConnectionState(state)
	}
	s.fireStateChange(state, err)
}

func (s *Session) fireStateChange(state SessionState, err error) {
	select {
	case s.stateEvents <- stateEvent{state: state, err: err}:
	default:
	}
	s.handlers.mu.RLock()
	fn := s.handlers.stateChange
	s.handlers.mu.RUnlock()
	if fn != nil {
		fn(state, err)
	}
}

// WaitAuthenticated blocks until the server accepts the login, the session
// drops, or the context expires.
func (s *Session) WaitAuthenticated(ctx context.Context) error {
	if s.State() == StateAuthenticated {
		return nil
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-s.stateEvents:
			switch ev.state {
			case StateAuthenticated:
				return nil
			case StateDisconnected:
				if ev.err != nil {
					return ev.err
				}
				return ErrNotConnected
			}
		}
	}
}

// Send transmits a message on behalf of the caller. It refuses while the
// session is down so callers get an error instead of a silent drop.
func (s *Session) Send(msg fsd.Message) error {
	if s.State() == StateDisconnected {
		return ErrNotConnected
	}
	s.send(msg)
	return nil
}

// warnOnce logs a diagnostic the first time it occurs.
func (s *Session) warnOnce(msg string) {
	if s.warnedLines[msg] {
		return
	}
	s.warnedLines[msg] = true
	s.logf("Dropped line: %s", msg)
}

var plainFlightLevel = regexp.MustCompile(`^[0-9]{1,3}$`)

// NormalizeFlightLevel rewrites bare one-to-three digit cruise altitudes as
// flight levels, the way controllers expect them ("350" becomes "FL350").
// Full altitudes and already-prefixed levels pass through unchanged.
func NormalizeFlightLevel(altitude string) string {
	trimmed := strings.TrimSpace(altitude)
	if plainFlightLevel.MatchString(trimmed) {
		return "FL" + trimmed
	}
	return trimmed
}
