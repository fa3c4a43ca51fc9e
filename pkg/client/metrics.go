package client

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the client.
type Metrics struct {
	// Message metrics
	messagesReceived *prometheus.CounterVec // by decoded kind
	messagesSent     *prometheus.CounterVec // by PDU prefix
	decodeErrors     prometheus.Counter
	serverErrors     *prometheus.CounterVec

	// Session metrics
	connectionState prometheus.Gauge
	logins          prometheus.Counter
	disconnects     prometheus.Counter

	// Traffic metrics
	bytesSent     prometheus.CounterFunc
	bytesReceived prometheus.CounterFunc
}

// NewMetrics creates a metrics instance registered with reg. Traffic
// counters are sourced from the connection's byte counters.
func NewMetrics(reg prometheus.Registerer, conn *Connection) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		messagesReceived: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fsdpilot_messages_received_total",
				Help: "Total number of messages received, by decoded kind",
			},
			[]string{"kind"},
		),
		messagesSent: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fsdpilot_messages_sent_total",
				Help: "Total number of messages sent, by PDU prefix",
			},
			[]string{"pdu"},
		),
		decodeErrors: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "fsdpilot_decode_errors_total",
				Help: "Total number of inbound lines dropped as malformed",
			},
		),
		serverErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fsdpilot_server_errors_total",
				Help: "Total number of $ER messages received, by error",
			},
			[]string{"code"},
		),
		connectionState: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "fsdpilot_connection_state",
				Help: "Session state (0=disconnected 1=connecting 2=connected 3=authenticated)",
			},
		),
		logins: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "fsdpilot_logins_total",
				Help: "Total number of accepted logins",
			},
		),
		disconnects: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "fsdpilot_disconnects_total",
				Help: "Total number of session resets",
			},
		),
		bytesSent: factory.NewCounterFunc(
			prometheus.CounterOpts{
				Name: "fsdpilot_bytes_sent_total",
				Help: "Total bytes written to the wire",
			},
			func() float64 { return float64(conn.GetBytesSent()) },
		),
		bytesReceived: factory.NewCounterFunc(
			prometheus.CounterOpts{
				Name: "fsdpilot_bytes_received_total",
				Help: "Total bytes read from the wire",
			},
			func() float64 { return float64(conn.GetBytesReceived()) },
		),
	}
}

// RecordMessageReceived increments the received counter for a decoded kind.
func (m *Metrics) RecordMessageReceived(kind string) {
	m.messagesReceived.WithLabelValues(kind).Inc()
}

// RecordMessageSent increments the sent counter for a PDU prefix.
func (m *Metrics) RecordMessageSent(pdu string) {
	m.messagesSent.WithLabelValues(pdu).Inc()
}

// RecordDecodeError counts a dropped malformed line.
func (m *Metrics) RecordDecodeError() {
	m.decodeErrors.Inc()
}

// RecordServerError counts a received $ER by error name.
func (m *Metrics) RecordServerError(code string) {
	m.serverErrors.WithLabelValues(code).Inc()
}

// SetConnectionState publishes the session state.
func (m *Metrics) SetConnectionState(state SessionState) {
	m.connectionState.Set(float64(state))
	switch state {
	case StateAuthenticated:
		m.logins.Inc()
	case StateDisconnected:
		m.disconnects.Inc()
	}
}
