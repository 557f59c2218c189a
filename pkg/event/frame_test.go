package event

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeRequest(t *testing.T) {
	data, err := EncodeRequest(Request{
		Token: "secret",
		ID:    "req-1",
		Event: TypeGetData,
		Data:  map[string]any{"modules": []string{"cpu"}},
	})
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "secret", decoded["token"])
	assert.Equal(t, "req-1", decoded["id"])
	assert.Equal(t, "GET_DATA", decoded["event"])
}

func TestEncodeRequestNilData(t *testing.T) {
	data, err := EncodeRequest(Request{Token: "secret", ID: "req-2", Event: TypePowerSleep})
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	payload, ok := decoded["data"].(map[string]any)
	require.True(t, ok, "nil data should encode as an empty object")
	assert.Empty(t, payload)
}

func TestDecodeResponse(t *testing.T) {
	raw := []byte(`{"id":"req-3","type":"DATA_UPDATE","module":"cpu","data":{"usage":12.5}}`)
	resp, err := DecodeResponse(raw)
	require.NoError(t, err)

	assert.Equal(t, "req-3", resp.ID)
	assert.Equal(t, TypeDataUpdate, resp.Type)
	assert.Equal(t, "cpu", resp.Module)
	assert.NotEmpty(t, resp.Data)
}

func TestDecodeResponseMalformed(t *testing.T) {
	_, err := DecodeResponse([]byte(`{"id":`))
	assert.Error(t, err)
}

func TestDecodeResponseUnknownType(t *testing.T) {
	resp, err := DecodeResponse([]byte(`{"id":"x","type":"SOMETHING_NEW"}`))
	require.NoError(t, err)
	assert.Equal(t, Type("SOMETHING_NEW"), resp.Type)
}

func TestIsAuthError(t *testing.T) {
	tests := []struct {
		name     string
		resp     Response
		expected bool
	}{
		{"bad token", Response{Type: TypeError, SubType: SubTypeBadToken}, true},
		{"legacy bad api key", Response{Type: TypeError, SubType: SubTypeBadAPIKey}, true},
		{"other error", Response{Type: TypeError, SubType: SubTypeBadRequest}, false},
		{"non-error frame", Response{Type: TypeDataUpdate, SubType: SubTypeBadToken}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.resp.IsAuthError())
		})
	}
}

func TestDecodeRequest(t *testing.T) {
	raw := []byte(`{"token":"secret","id":"req-4","event":"GET_FILES","data":{"base":"music","path":"a"}}`)
	req, err := DecodeRequest(raw)
	require.NoError(t, err)

	assert.Equal(t, "secret", req.Token)
	assert.Equal(t, TypeGetFiles, req.Event)
	payload, ok := req.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "music", payload["base"])
}
