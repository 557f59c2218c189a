// Package wsclient implements the persistent WebSocket connection to the
// bridge: a single listener goroutine that owns all reads, a write pump that
// serializes frames and heartbeats, and a correlator that matches replies to
// in-flight requests.
package wsclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	bridgeerrors "github.com/systembridge/connector-go/pkg/errors"
	"github.com/systembridge/connector-go/pkg/event"
)

const (
	defaultHeartbeatInterval = 30 * time.Second
	defaultRequestTimeout    = 8 * time.Second
	defaultGetDataTimeout    = 10 * time.Second
	defaultHandshakeTimeout  = 15 * time.Second

	wsWriteWait      = 10 * time.Second
	sendChBufferSize = 64
)

// Config configures the bridge WebSocket client.
type Config struct {
	Host  string
	Port  int
	Token string

	// HeartbeatInterval is the delay between client pings. Defaults to 30s.
	HeartbeatInterval time.Duration
	// RequestTimeout bounds the wait for each correlated request. Defaults
	// to 8s.
	RequestTimeout time.Duration
	// GetDataTimeout is the default deadline for GetData. Defaults to 10s.
	GetDataTimeout time.Duration
	// HandshakeTimeout bounds the WebSocket dial. Defaults to 15s.
	HandshakeTimeout time.Duration
}

func (c *Config) applyDefaults() {
	if c.HeartbeatInterval <= 0 {
		c.HeartbeatInterval = defaultHeartbeatInterval
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = defaultRequestTimeout
	}
	if c.GetDataTimeout <= 0 {
		c.GetDataTimeout = defaultGetDataTimeout
	}
	if c.HandshakeTimeout <= 0 {
		c.HandshakeTimeout = defaultHandshakeTimeout
	}
}

// Response is one decoded inbound frame as delivered to waiting callers.
// Data is populated with the registry's typed value on DATA_UPDATE frames;
// Raw always carries the wire payload.
type Response struct {
	ID      string
	Type    event.Type
	SubType event.SubType
	Module  string
	Message string
	Raw     json.RawMessage
	Data    any
}

// DataHandler receives unsolicited pushes: the module name and the decoded
// payload (scalar or list, per payload shape).
type DataHandler func(module string, data any)

// listenSession tracks one run of the listener goroutine so concurrent
// callers can observe its termination and exit error.
type listenSession struct {
	done chan struct{}
	err  error
}

// Client is the WebSocket client facade.
type Client struct {
	config Config
	logger zerolog.Logger

	pending *correlator

	// Connection state (protected by mu)
	mu        sync.RWMutex
	conn      *websocket.Conn
	sendCh    chan []byte
	closed    chan struct{}
	closeOnce *sync.Once
	connected bool

	// Listener state (protected by listenMu)
	listenMu sync.Mutex
	session  *listenSession

	// Push subscribers (protected by subMu)
	subMu   sync.Mutex
	subs    map[int]DataHandler
	nextSub int
}

// NewClient creates a bridge WebSocket client. Call Connect before any
// operation.
func NewClient(config Config, logger zerolog.Logger) *Client {
	config.applyDefaults()
	return &Client{
		config:  config,
		logger:  logger.With().Str("component", "wsclient").Logger(),
		pending: newCorrelator(),
		subs:    make(map[int]DataHandler),
	}
}

// URL returns the WebSocket endpoint this client dials.
func (c *Client) URL() string {
	return fmt.Sprintf("ws://%s/api/websocket", net.JoinHostPort(c.config.Host, strconv.Itoa(c.config.Port)))
}

// Connected reports whether the connection is open.
func (c *Client) Connected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}

// Connect dials the bridge and starts the write pump. Handshake rejection,
// DNS failure and connection refusal surface as ConnectionError.
func (c *Client) Connect(ctx context.Context) error {
	url := c.URL()
	dialer := websocket.Dialer{
		HandshakeTimeout: c.config.HandshakeTimeout,
	}

	c.logger.Info().Str("url", url).Msg("Connecting to bridge")

	conn, _, err := dialer.DialContext(ctx, url, nil)
	if err != nil {
		c.logger.Warn().Err(err).Str("url", url).Msg("Failed to connect to bridge")
		return bridgeerrors.NewConnectionError("connect", err)
	}

	sendCh := make(chan []byte, sendChBufferSize)
	closed := make(chan struct{})

	c.mu.Lock()
	c.conn = conn
	c.sendCh = sendCh
	c.closed = closed
	c.closeOnce = &sync.Once{}
	c.connected = true
	c.mu.Unlock()

	go c.writePump(conn, sendCh, closed)
	return nil
}

// Close closes the connection. Pending waiters receive ConnectionClosed.
func (c *Client) Close() {
	c.logger.Info().Msg("Closing bridge connection")
	c.teardown()
}

// teardown marks the connection closed exactly once and closes the socket.
// Safe to call from any goroutine.
func (c *Client) teardown() {
	c.mu.Lock()
	conn := c.conn
	once := c.closeOnce
	closed := c.closed
	c.connected = false
	c.mu.Unlock()

	if once == nil {
		return
	}
	once.Do(func() {
		close(closed)
		if conn != nil {
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			_ = conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			_ = conn.Close()
		}
	})
}

// writePump owns all writes on the connection: queued frames and heartbeat
// pings. It exits when the connection is torn down, and tears the connection
// down itself on a write failure so the blocked reader unblocks.
func (c *Client) writePump(conn *websocket.Conn, sendCh <-chan []byte, closed <-chan struct{}) {
	ticker := time.NewTicker(c.config.HeartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-closed:
			return

		case data := <-sendCh:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				c.logger.Debug().Err(err).Msg("Write failed")
				c.teardown()
				return
			}

		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.logger.Debug().Err(err).Msg("Heartbeat ping failed")
				c.teardown()
				return
			}
		}
	}
}

// send encodes and queues one request frame. Writing to a closed connection
// surfaces ConnectionClosed.
func (c *Client) send(req event.Request) error {
	c.mu.RLock()
	sendCh := c.sendCh
	closed := c.closed
	connected := c.connected
	c.mu.RUnlock()

	if !connected || sendCh == nil {
		return bridgeerrors.NewConnectionClosed(string(req.Event), nil)
	}

	data, err := event.EncodeRequest(req)
	if err != nil {
		return err
	}

	select {
	case sendCh <- data:
		c.logger.Debug().Str("event", string(req.Event)).Str("id", req.ID).Msg("Sent message")
		return nil
	case <-closed:
		return bridgeerrors.NewConnectionClosed(string(req.Event), nil)
	}
}

// sendAndWait registers a correlator slot, sends the request and waits for
// the matching reply. A timeout produces a synthetic ERROR/TIMEOUT response,
// never an error; a connection closing mid-wait surfaces ConnectionClosed.
func (c *Client) sendAndWait(ctx context.Context, eventType event.Type, requestID string, data any, expect event.Type) (*Response, error) {
	c.mu.RLock()
	closed := c.closed
	connected := c.connected
	c.mu.RUnlock()
	if !connected {
		return nil, bridgeerrors.NewConnectionClosed(string(eventType), nil)
	}

	// A listener failure (authentication rejection, socket error) means the
	// wait can never be fulfilled; surface its exit error instead of idling
	// until the timeout.
	var sessionDone chan struct{}
	c.listenMu.Lock()
	session := c.session
	c.listenMu.Unlock()
	if session != nil {
		sessionDone = session.done
	}

	entry := c.pending.add(requestID, expect)
	defer c.pending.remove(requestID)

	if err := c.send(event.Request{
		Token: c.config.Token,
		ID:    requestID,
		Event: eventType,
		Data:  data,
	}); err != nil {
		return nil, err
	}

	c.logger.Debug().
		Str("id", requestID).
		Str("expect", string(expect)).
		Msg("Awaiting response")

	timer := time.NewTimer(c.config.RequestTimeout)
	defer timer.Stop()

	select {
	case resp := <-entry.ch:
		return resp, nil
	case <-timer.C:
		c.logger.Error().Str("id", requestID).Msg("Timeout waiting for response")
		return &Response{
			ID:      requestID,
			Type:    event.TypeError,
			SubType: event.SubTypeTimeout,
			Message: "Timeout waiting for response",
		}, nil
	case <-sessionDone:
		if session.err != nil {
			return nil, session.err
		}
		return nil, bridgeerrors.NewConnectionClosed(string(eventType), nil)
	case <-closed:
		return nil, bridgeerrors.NewConnectionClosed(string(eventType), nil)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// sendFireAndForget sends a request without registering a correlator entry
// and synthesizes a local acknowledgement.
func (c *Client) sendFireAndForget(eventType event.Type, requestID string, data any) (*Response, error) {
	if err := c.send(event.Request{
		Token: c.config.Token,
		ID:    requestID,
		Event: eventType,
		Data:  data,
	}); err != nil {
		return nil, err
	}
	return &Response{
		ID:      requestID,
		Type:    event.TypeNone,
		Message: "Message sent",
	}, nil
}

// subscribe registers an additional push handler and returns its remover.
// Used by GetData to sink module payloads while the listener runs.
func (c *Client) subscribe(handler DataHandler) func() {
	c.subMu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = handler
	c.subMu.Unlock()

	return func() {
		c.subMu.Lock()
		delete(c.subs, id)
		c.subMu.Unlock()
	}
}

// deliver fans one decoded push out to every subscriber, in arrival order.
func (c *Client) deliver(primary DataHandler, module string, data any) {
	if primary != nil {
		primary(module, data)
	}
	c.subMu.Lock()
	handlers := make([]DataHandler, 0, len(c.subs))
	for _, handler := range c.subs {
		handlers = append(handlers, handler)
	}
	c.subMu.Unlock()
	for _, handler := range handlers {
		handler(module, data)
	}
}

// RequestOption customises one operation call.
type RequestOption func(*requestOptions)

type requestOptions struct {
	requestID string
	timeout   time.Duration
}

// WithRequestID pins the correlation id instead of generating one.
func WithRequestID(id string) RequestOption {
	return func(o *requestOptions) { o.requestID = id }
}

// WithTimeout overrides the GetData deadline.
func WithTimeout(timeout time.Duration) RequestOption {
	return func(o *requestOptions) { o.timeout = timeout }
}

// resolveOptions applies options, generating a fresh request id when the
// caller did not pin one. Ids are always generated per call.
func (c *Client) resolveOptions(opts []RequestOption) requestOptions {
	options := requestOptions{timeout: c.config.GetDataTimeout}
	for _, opt := range opts {
		opt(&options)
	}
	if options.requestID == "" {
		options.requestID = uuid.NewString()
	}
	return options
}
