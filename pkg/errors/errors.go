// Package errors defines the failure categories surfaced by the connector.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Base error types
var (
	ErrAuthentication   = errors.New("authentication failed")
	ErrBadRequest       = errors.New("bad request")
	ErrBadMessage       = errors.New("bad message")
	ErrConnectionClosed = errors.New("connection closed")
	ErrConnectionFailed = errors.New("connection error")
	ErrDataMissing      = errors.New("data missing")
)

// Kind represents the category of a bridge error.
type Kind string

const (
	KindAuthentication   Kind = "authentication"
	KindBadRequest       Kind = "bad_request"
	KindBadMessage       Kind = "bad_message"
	KindConnectionClosed Kind = "connection_closed"
	KindConnectionError  Kind = "connection_error"
	KindDataMissing      Kind = "data_missing"
)

// BridgeError is a structured error for bridge client operations. It carries
// the attempted request (method/URL for HTTP, event for WebSocket) and either
// a numeric HTTP status or a wire status label such as "timeout".
type BridgeError struct {
	Kind    Kind
	Op      string // operation that failed (e.g. "get", "send_notification")
	Method  string // HTTP method if applicable
	URL     string // target URL if applicable
	Status  string // numeric status or label ("timeout", "connection error")
	Subtype string // wire error subtype if applicable (e.g. "BAD_TOKEN")
	Message string
	Err     error // underlying error
}

func (e *BridgeError) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Kind))
	if e.Op != "" {
		fmt.Fprintf(&b, ": %s", e.Op)
	}
	if e.Method != "" || e.URL != "" {
		fmt.Fprintf(&b, ": %s %s", e.Method, e.URL)
	}
	if e.Status != "" {
		fmt.Fprintf(&b, ": status=%s", e.Status)
	}
	if e.Subtype != "" {
		fmt.Fprintf(&b, ": subtype=%s", e.Subtype)
	}
	if e.Message != "" {
		fmt.Fprintf(&b, ": %s", e.Message)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *BridgeError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is so callers can match on the base error types.
func (e *BridgeError) Is(target error) bool {
	switch target {
	case ErrAuthentication:
		return e.Kind == KindAuthentication
	case ErrBadRequest:
		return e.Kind == KindBadRequest
	case ErrBadMessage:
		return e.Kind == KindBadMessage
	case ErrConnectionClosed:
		return e.Kind == KindConnectionClosed
	case ErrConnectionFailed:
		return e.Kind == KindConnectionError
	case ErrDataMissing:
		return e.Kind == KindDataMissing
	}
	return errors.Is(e.Err, target)
}

// NewAuthentication creates an authentication error from a wire subtype.
func NewAuthentication(op, subtype, message string) *BridgeError {
	return &BridgeError{Kind: KindAuthentication, Op: op, Subtype: subtype, Message: message}
}

// NewBadMessage reports an undecodable inbound frame.
func NewBadMessage(op, message string, err error) *BridgeError {
	return &BridgeError{Kind: KindBadMessage, Op: op, Message: message, Err: err}
}

// NewConnectionClosed reports an operation attempted on a closed connection.
func NewConnectionClosed(op string, err error) *BridgeError {
	return &BridgeError{Kind: KindConnectionClosed, Op: op, Err: err}
}

// NewConnectionError reports a transport-level failure.
func NewConnectionError(op string, err error) *BridgeError {
	return &BridgeError{Kind: KindConnectionError, Op: op, Err: err}
}

// NewDataMissing reports a GetData deadline elapsing before all requested
// modules arrived.
func NewDataMissing(modules []string, message string) *BridgeError {
	return &BridgeError{
		Kind:    KindDataMissing,
		Op:      "get_data",
		Message: fmt.Sprintf("%s: %s", message, strings.Join(modules, ", ")),
	}
}

// NewHTTPError maps an HTTP status to the matching error kind, preserving the
// attempted method and URL.
func NewHTTPError(status int, method, url string) *BridgeError {
	kind := KindConnectionError
	switch {
	case status == 400:
		kind = KindBadRequest
	case status == 401 || status == 403:
		kind = KindAuthentication
	}
	return &BridgeError{
		Kind:   kind,
		Method: method,
		URL:    url,
		Status: fmt.Sprintf("%d", status),
	}
}

// NewHTTPTransportError reports a transport-level HTTP failure with a status
// label instead of a numeric status.
func NewHTTPTransportError(method, url, label string, err error) *BridgeError {
	return &BridgeError{
		Kind:   KindConnectionError,
		Method: method,
		URL:    url,
		Status: label,
		Err:    err,
	}
}

// HTTPStatus extracts the numeric HTTP status from an error, if it carries
// one.
func HTTPStatus(err error) (int, bool) {
	var bridgeErr *BridgeError
	if !errors.As(err, &bridgeErr) {
		return 0, false
	}
	var status int
	if _, scanErr := fmt.Sscanf(bridgeErr.Status, "%d", &status); scanErr != nil {
		return 0, false
	}
	return status, true
}

// IsAuthentication checks if an error is an authentication failure.
func IsAuthentication(err error) bool {
	return errors.Is(err, ErrAuthentication)
}

// IsConnectionClosed checks if an error indicates a closed connection.
func IsConnectionClosed(err error) bool {
	return errors.Is(err, ErrConnectionClosed)
}
