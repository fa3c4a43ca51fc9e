package client

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/aerolink/fsdpilot/pkg/fsd"
	"github.com/prometheus/client_golang/prometheus"
)

// Client is the high-level pilot client. It owns a Connection, a Session
// and optionally a state database, and exposes typed send methods so
// callers never touch wire text.
type Client struct {
	config   TOMLConfig
	identity Identity
	conn     *Connection
	session  *Session
	state    *State
	metrics  *Metrics
	logger   *log.Logger

	connectedAt time.Time
}

// NewClient builds a client from a loaded configuration. Nothing is
// dialled until Connect.
func NewClient(config TOMLConfig) (*Client, error) {
	conn, err := NewConnection(config.GetServerAddress())
	if err != nil {
		return nil, fmt.Errorf("invalid server address: %w", err)
	}
	if config.Connection.AutoReconnect {
		conn.EnableAutoReconnect()
	}

	identity := config.BuildIdentity()
	session := NewSession(conn, identity)
	if config.Connection.ServerTimeoutSeconds > 0 {
		session.SetServerTimeout(time.Duration(config.Connection.ServerTimeoutSeconds) * time.Second)
	}

	return &Client{
		config:   config,
		identity: identity,
		conn:     conn,
		session:  session,
	}, nil
}

// SetLogger enables debug logging on the client and its transport.
func (c *Client) SetLogger(logger *log.Logger) {
	c.logger = logger
	c.conn.SetLogger(logger)
	c.session.SetLogger(logger)
}

// EnableMetrics registers the client's Prometheus collectors.
func (c *Client) EnableMetrics(reg prometheus.Registerer) {
	c.metrics = NewMetrics(reg, c.conn)
	c.session.SetMetrics(c.metrics)
}

// AttachState connects a persistent state database. The client records
// successful logins and session summaries into it.
func (c *Client) AttachState(state *State) {
	c.state = state
}

// Handlers returns the callback registration surface. Register handlers
// before calling Connect.
func (c *Client) Handlers() *Handlers {
	return c.session.Handlers()
}

// Connect dials the server and runs the login sequence, blocking until
// the server accepts the session or ctx expires.
func (c *Client) Connect(ctx context.Context) error {
	if err := c.session.Start(); err != nil {
		return err
	}
	if err := c.session.WaitAuthenticated(ctx); err != nil {
		c.session.Stop()
		return fmt.Errorf("login failed: %w", err)
	}

	c.connectedAt = time.Now()
	if c.state != nil {
		if err := c.state.SaveSuccessfulConnection(c.config.GetServerAddress(), c.identity.Callsign); err != nil {
			c.logf("Failed to record connection: %v", err)
		}
	}
	return nil
}

// Disconnect logs off cleanly and records the session summary.
func (c *Client) Disconnect() {
	reason := ""
	if err := c.session.LastError(); err != nil {
		reason = err.Error()
	}
	c.session.Stop()

	if c.state != nil && !c.connectedAt.IsZero() {
		stats := SessionStats{
			ServerAddress:    c.config.GetServerAddress(),
			Callsign:         c.identity.Callsign,
			ConnectedAt:      c.connectedAt,
			Duration:         time.Since(c.connectedAt),
			BytesSent:        c.conn.GetBytesSent(),
			BytesReceived:    c.conn.GetBytesReceived(),
			DisconnectReason: reason,
		}
		if err := c.state.SaveSessionStats(stats); err != nil {
			c.logf("Failed to record session stats: %v", err)
		}
	}
	c.connectedAt = time.Time{}
}

// State returns the current session state.
func (c *Client) State() SessionState {
	return c.session.State()
}

// Callsign returns the configured callsign.
func (c *Client) Callsign() string {
	return c.identity.Callsign
}

// FastVisualUpdatesEnabled reports whether the server requested
// full-rate visual updates.
func (c *Client) FastVisualUpdatesEnabled() bool {
	return c.session.FastVisualUpdatesEnabled()
}

// BytesSent returns the total bytes written to the wire.
func (c *Client) BytesSent() uint64 {
	return c.conn.GetBytesSent()
}

// BytesReceived returns the total bytes read from the wire.
func (c *Client) BytesReceived() uint64 {
	return c.conn.GetBytesReceived()
}

// SendTextMessage sends a private text message to another callsign.
func (c *Client) SendTextMessage(receiver, text string) error {
	return c.session.Send(fsd.NewPrivateTextMessage(c.identity.Callsign, receiver, text))
}

// SendRadioMessage sends a text message on one or more COM frequencies,
// given in kHz (128200 for 128.200 MHz).
func (c *Client) SendRadioMessage(frequenciesKHz []int, text string) error {
	return c.session.Send(fsd.NewRadioTextMessage(c.identity.Callsign, frequenciesKHz, text))
}

// SendFlightPlan files a flight plan with the server. The sender and
// receiver are filled in, and a bare cruise altitude like "350" is
// normalized to "FL350".
func (c *Client) SendFlightPlan(plan fsd.FlightPlan) error {
	plan.Sender = c.identity.Callsign
	plan.Receiver = fsd.ServerCallsign
	plan.CruiseAltitude = NormalizeFlightLevel(plan.CruiseAltitude)
	return c.session.Send(plan)
}

// SendPilotDataUpdate sends a slow position update. Sender and rating
// are filled from the identity.
func (c *Client) SendPilotDataUpdate(update fsd.PilotDataUpdate) error {
	update.Sender = c.identity.Callsign
	update.Rating = c.identity.PilotRating
	return c.session.Send(update)
}

// SendInterimPilotDataUpdate sends a fast position update directly to
// another client.
func (c *Client) SendInterimPilotDataUpdate(receiver string, update fsd.InterimPilotDataUpdate) error {
	update.Sender = c.identity.Callsign
	update.Receiver = receiver
	return c.session.Send(update)
}

// SendVisualPilotDataUpdate sends a high-rate visual position update.
// The update's Mode selects the full, periodic or stopped variant.
func (c *Client) SendVisualPilotDataUpdate(update fsd.VisualPilotDataUpdate) error {
	update.Sender = c.identity.Callsign
	return c.session.Send(update)
}

// SendPing sends a ping carrying the current time in milliseconds; the
// answering pong is delivered through the OnPong handler.
func (c *Client) SendPing(receiver string) error {
	return c.session.Send(fsd.Ping{
		MessageHeader: fsd.MessageHeader{Sender: c.identity.Callsign, Receiver: receiver},
		Timestamp:     fmt.Sprintf("%d", time.Now().UnixMilli()),
	})
}

// SendClientQuery sends an arbitrary client query.
func (c *Client) SendClientQuery(queryType fsd.ClientQueryType, receiver string, payload ...string) error {
	return c.session.Send(fsd.ClientQuery{
		MessageHeader: fsd.MessageHeader{Sender: c.identity.Callsign, Receiver: receiver},
		Type:          queryType,
		Payload:       payload,
	})
}

// QueryRealName asks another client for its real name and rating.
func (c *Client) QueryRealName(receiver string) error {
	return c.SendClientQuery(fsd.ClientQueryRealName, receiver)
}

// QueryCapabilities asks another client for its capability list.
func (c *Client) QueryCapabilities(receiver string) error {
	return c.SendClientQuery(fsd.ClientQueryCapabilities, receiver)
}

// QueryAtis requests a controller's ATIS.
func (c *Client) QueryAtis(receiver string) error {
	return c.SendClientQuery(fsd.ClientQueryATIS, receiver)
}

// QueryCom1 asks another client for its COM1 frequency.
func (c *Client) QueryCom1(receiver string) error {
	return c.SendClientQuery(fsd.ClientQueryCom1Freq, receiver)
}

// QueryServer asks a client which server it is connected to.
func (c *Client) QueryServer(receiver string) error {
	return c.SendClientQuery(fsd.ClientQueryServer, receiver)
}

// QueryFlightPlan asks the server for another aircraft's flight plan.
func (c *Client) QueryFlightPlan(callsign string) error {
	return c.SendClientQuery(fsd.ClientQueryFlightPlan, fsd.ServerCallsign, callsign)
}

// SendPlaneInfoRequest asks another pilot for its model description.
func (c *Client) SendPlaneInfoRequest(receiver string) error {
	return c.session.Send(fsd.PlaneInfoRequest{
		MessageHeader: fsd.MessageHeader{Sender: c.identity.Callsign, Receiver: receiver},
	})
}

// SendPlaneInformation answers a model description request.
func (c *Client) SendPlaneInformation(receiver, aircraft, airline, livery string) error {
	return c.session.Send(fsd.PlaneInformation{
		MessageHeader: fsd.MessageHeader{Sender: c.identity.Callsign, Receiver: receiver},
		Aircraft:      aircraft,
		Airline:       airline,
		Livery:        livery,
	})
}

// SendPlaneInfoRequestFsinn requests a model description in the FSInn
// dialect, advertising our own model data.
func (c *Client) SendPlaneInfoRequestFsinn(receiver string, request fsd.PlaneInfoRequestFsinn) error {
	request.Sender = c.identity.Callsign
	request.Receiver = receiver
	return c.session.Send(request)
}

// SendPlaneInformationFsinn answers an FSInn model description request.
func (c *Client) SendPlaneInformationFsinn(receiver string, info fsd.PlaneInformationFsinn) error {
	info.Sender = c.identity.Callsign
	info.Receiver = receiver
	return c.session.Send(info)
}

func (c *Client) logf(format string, args ...interface{}) {
	if c.logger != nil {
		c.logger.Printf(format, args...)
	}
}
