package event

import (
	"encoding/json"
	"fmt"
)

// Request is one outbound frame. Every request carries the connection token
// and a client-generated correlation id.
type Request struct {
	Token string `json:"token"`
	ID    string `json:"id"`
	Event Type   `json:"event"`
	Data  any    `json:"data"`
}

// Response is one inbound frame. ID echoes the request id on solicited
// responses and is opaque on server pushes. Data stays raw until a decoder
// from the model registry is applied.
type Response struct {
	ID      string          `json:"id"`
	Type    Type            `json:"type"`
	SubType SubType         `json:"subtype,omitempty"`
	Module  string          `json:"module,omitempty"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// IsAuthError reports whether the frame is an authentication failure.
// Authentication errors short-circuit all other routing.
func (r *Response) IsAuthError() bool {
	return r.Type == TypeError && r.SubType.IsAuthFailure()
}

// EncodeRequest serializes a request frame to UTF-8 JSON. A nil Data encodes
// as an empty object so the server always sees a payload field.
func EncodeRequest(req Request) ([]byte, error) {
	if req.Data == nil {
		req.Data = map[string]any{}
	}
	data, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode %s request: %w", req.Event, err)
	}
	return data, nil
}

// DecodeResponse parses one inbound text frame. Unknown type or module
// strings are preserved verbatim for the listener to handle.
func DecodeResponse(raw []byte) (*Response, error) {
	var resp Response
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("decode response frame: %w", err)
	}
	return &resp, nil
}

// DecodePayload unmarshals a frame's raw data payload into dest.
func DecodePayload(raw json.RawMessage, dest any) error {
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}
	return nil
}

// DecodeRequest parses an outbound-shaped frame. Used by the stub server.
func DecodeRequest(raw []byte) (*Request, error) {
	var req struct {
		Token string          `json:"token"`
		ID    string          `json:"id"`
		Event Type            `json:"event"`
		Data  json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &req); err != nil {
		return nil, fmt.Errorf("decode request frame: %w", err)
	}
	var data any
	if len(req.Data) > 0 {
		if err := json.Unmarshal(req.Data, &data); err != nil {
			return nil, fmt.Errorf("decode request data: %w", err)
		}
	}
	return &Request{Token: req.Token, ID: req.ID, Event: req.Event, Data: data}, nil
}
