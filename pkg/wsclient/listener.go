package wsclient

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/gorilla/websocket"

	bridgeerrors "github.com/systembridge/connector-go/pkg/errors"
	"github.com/systembridge/connector-go/pkg/event"
	"github.com/systembridge/connector-go/pkg/models"
)

// Listen reads frames until the connection closes or a fatal frame arrives.
// It owns all reads on the socket; at most one listener runs per client.
// Every decoded DATA_UPDATE push is delivered to handler in arrival order.
// With acceptOtherTypes set, frames of other types are decoded with the
// registry decoder for their event type (falling back to the generic
// response decoder) and delivered under the event-type key.
func (c *Client) Listen(ctx context.Context, handler DataHandler, acceptOtherTypes bool) error {
	session, started := c.startSession()
	if !started {
		return fmt.Errorf("listener already running")
	}
	return c.runListener(ctx, handler, acceptOtherTypes, session)
}

// startSession claims the listener slot. It reports false when another
// listener is still active.
func (c *Client) startSession() (*listenSession, bool) {
	c.listenMu.Lock()
	defer c.listenMu.Unlock()

	if c.session != nil {
		select {
		case <-c.session.done:
		default:
			return c.session, false
		}
	}
	session := &listenSession{done: make(chan struct{})}
	c.session = session
	return session, true
}

// ensureListener returns the active listener session, starting a background
// listener when none is running. GetData uses this so module pushes flow
// into its aggregate without requiring the caller to run Listen itself.
func (c *Client) ensureListener() *listenSession {
	session, started := c.startSession()
	if started {
		go func() {
			if err := c.runListener(context.Background(), nil, false, session); err != nil {
				c.logger.Debug().Err(err).Msg("Background listener exited")
			}
		}()
	}
	return session
}

func (c *Client) runListener(ctx context.Context, handler DataHandler, acceptOtherTypes bool, session *listenSession) error {
	err := c.readLoop(ctx, handler, acceptOtherTypes)
	session.err = err
	close(session.done)
	return err
}

func (c *Client) readLoop(ctx context.Context, handler DataHandler, acceptOtherTypes bool) error {
	c.mu.RLock()
	conn := c.conn
	connected := c.connected
	c.mu.RUnlock()

	if !connected || conn == nil {
		return bridgeerrors.NewConnectionClosed("listen", nil)
	}

	c.logger.Info().Msg("Listening for messages")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		messageType, raw, err := conn.ReadMessage()
		if err != nil {
			c.teardown()
			return classifyReadError(err)
		}

		if messageType != websocket.TextMessage {
			return bridgeerrors.NewBadMessage("listen",
				fmt.Sprintf("unexpected message type %d", messageType), nil)
		}

		frame, err := event.DecodeResponse(raw)
		if err != nil {
			return bridgeerrors.NewBadMessage("listen", "malformed frame", err)
		}

		// Authentication errors short-circuit everything, including a
		// matched correlated response.
		if frame.IsAuthError() {
			c.logger.Error().Str("subtype", string(frame.SubType)).Msg("Authentication rejected by bridge")
			return bridgeerrors.NewAuthentication("listen", string(frame.SubType), frame.Message)
		}

		c.routeFrame(frame, raw, handler, acceptOtherTypes)
	}
}

// routeFrame classifies one inbound frame: correlator fulfillment, push
// delivery, or logging. A frame consumed by the correlator is never also
// delivered to the push handler.
func (c *Client) routeFrame(frame *event.Response, raw []byte, handler DataHandler, acceptOtherTypes bool) {
	c.logger.Debug().Str("type", string(frame.Type)).Str("id", frame.ID).Msg("New message")

	if entry := c.pending.match(frame.ID, frame.Type); entry != nil {
		resp := &Response{
			ID:      frame.ID,
			Type:    frame.Type,
			SubType: frame.SubType,
			Module:  frame.Module,
			Message: frame.Message,
			Raw:     frame.Data,
		}
		if frame.Type == event.TypeDataUpdate && frame.Module != "" && len(frame.Data) > 0 {
			decoded, err := models.Decode(frame.Module, frame.Data)
			if err != nil {
				c.logger.Warn().Err(err).Str("module", frame.Module).Msg("Unknown or undecodable module payload")
			} else {
				resp.Data = decoded
			}
		}
		if !entry.fulfill(resp) {
			c.logger.Debug().Str("id", frame.ID).Msg("Slot already fulfilled, dropping duplicate")
		}
		return
	}

	switch {
	case frame.Type == event.TypeError:
		if frame.SubType == event.SubTypeListenerAlreadyRegistered {
			c.logger.Debug().Str("message", frame.Message).Msg("Data listener already registered")
		} else {
			c.logger.Warn().
				Str("subtype", string(frame.SubType)).
				Str("message", frame.Message).
				Msg("Error message from bridge")
		}

	case frame.Type == event.TypeDataUpdate && len(frame.Data) > 0:
		decoder, ok := models.Lookup(frame.Module)
		if !ok {
			c.logger.Warn().Str("module", frame.Module).Msg("Unknown module, dropping update")
			return
		}
		decoded, err := decoder(frame.Data)
		if err != nil {
			c.logger.Warn().Err(err).Str("module", frame.Module).Msg("Undecodable module payload, dropping update")
			return
		}
		c.deliver(handler, frame.Module, decoded)

	default:
		c.logger.Debug().Str("type", string(frame.Type)).Msg("Other message")
		if !acceptOtherTypes {
			return
		}
		decoder, ok := models.Lookup(strings.ToLower(string(frame.Type)))
		if !ok {
			decoder, _ = models.Lookup(models.ModelResponse)
		}
		decoded, err := decoder(raw)
		if err != nil {
			c.logger.Warn().Err(err).Str("type", string(frame.Type)).Msg("Undecodable frame")
			return
		}
		c.deliver(handler, string(frame.Type), decoded)
	}
}

// classifyReadError maps a socket read failure onto the error taxonomy:
// close control frames and locally closed sockets surface ConnectionClosed,
// anything else ConnectionError with the underlying cause attached.
func classifyReadError(err error) error {
	if websocket.IsCloseError(err,
		websocket.CloseNormalClosure,
		websocket.CloseGoingAway,
		websocket.CloseAbnormalClosure,
		websocket.CloseNoStatusReceived) {
		return bridgeerrors.NewConnectionClosed("listen", err)
	}
	if errors.Is(err, net.ErrClosed) {
		return bridgeerrors.NewConnectionClosed("listen", err)
	}
	return bridgeerrors.NewConnectionError("listen", err)
}
