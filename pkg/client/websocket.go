package client

import (
	"bytes"
	"fmt"
	"net"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// WebSocketConn adapts a WebSocket connection to the net.Conn interface so
// the line transport works unchanged over browser-friendly endpoints.
type WebSocketConn struct {
	ws      *websocket.Conn
	readBuf bytes.Buffer
	readMu  sync.Mutex
	writeMu sync.Mutex
	closed  bool
	closeMu sync.Mutex
	addr    string
}

// DialWebSocket connects to a WebSocket FSD gateway.
func DialWebSocket(addr string, useTLS bool) (net.Conn, error) {
	scheme := "ws"
	if useTLS {
		scheme = "wss"
	}

	u := url.URL{Scheme: scheme, Host: addr, Path: "/fsd"}

	dialer := &websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
		ReadBufferSize:   65536,
		WriteBufferSize:  65536,
	}

	ws, _, err := dialer.Dial(u.String(), nil)
	if err != nil {
		errStr := err.Error()
		if strings.Contains(errStr, "bad handshake") {
			if useTLS {
				return nil, fmt.Errorf("TLS handshake failed - gateway may not support wss (try ws:// instead): %w", err)
			}
			return nil, fmt.Errorf("handshake failed - gateway may require wss/TLS (try wss:// instead): %w", err)
		}
		return nil, err
	}

	return &WebSocketConn{ws: ws, addr: addr}, nil
}

// Read implements net.Conn. WebSocket messages may each carry one or more
// protocol lines; surplus bytes are buffered for the next call.
func (c *WebSocketConn) Read(b []byte) (int, error) {
	c.readMu.Lock()
	defer c.readMu.Unlock()

	if c.readBuf.Len() > 0 {
		return c.readBuf.Read(b)
	}

	_, data, err := c.ws.ReadMessage()
	if err != nil {
		return 0, err
	}

	n := copy(b, data)
	if n < len(data) {
		c.readBuf.Write(data[n:])
	}
	return n, nil
}

// Write implements net.Conn. Each write becomes one text message, which
// keeps whole protocol lines inside a single WebSocket frame.
func (c *WebSocketConn) Write(b []byte) (int, error) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if err := c.ws.WriteMessage(websocket.TextMessage, b); err != nil {
		return 0, err
	}
	return len(b), nil
}

// Close implements net.Conn.
func (c *WebSocketConn) Close() error {
	c.closeMu.Lock()
	defer c.closeMu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true

	// Best effort close handshake before dropping the socket.
	deadline := time.Now().Add(time.Second)
	_ = c.ws.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
	return c.ws.Close()
}

// LocalAddr implements net.Conn.
func (c *WebSocketConn) LocalAddr() net.Addr {
	return c.ws.LocalAddr()
}

// RemoteAddr implements net.Conn.
func (c *WebSocketConn) RemoteAddr() net.Addr {
	return c.ws.RemoteAddr()
}

// SetDeadline implements net.Conn.
func (c *WebSocketConn) SetDeadline(t time.Time) error {
	if err := c.ws.SetReadDeadline(t); err != nil {
		return err
	}
	return c.ws.SetWriteDeadline(t)
}

// SetReadDeadline implements net.Conn.
func (c *WebSocketConn) SetReadDeadline(t time.Time) error {
	return c.ws.SetReadDeadline(t)
}

// SetWriteDeadline implements net.Conn.
func (c *WebSocketConn) SetWriteDeadline(t time.Time) error {
	return c.ws.SetWriteDeadline(t)
}
