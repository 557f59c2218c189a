package stubserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/systembridge/connector-go/pkg/event"
	"github.com/systembridge/connector-go/pkg/models"
)

func newServer(t *testing.T, config Config) *httptest.Server {
	t.Helper()
	stub := New(config, nil, zerolog.Nop())
	server := httptest.NewServer(stub.Handler())
	t.Cleanup(server.Close)
	return server
}

func dial(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/websocket"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func sendRequest(t *testing.T, conn *websocket.Conn, req event.Request) {
	t.Helper()
	data, err := event.EncodeRequest(req)
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, data))
}

func readFrame(t *testing.T, conn *websocket.Conn) *event.Response {
	t.Helper()
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)
	resp, err := event.DecodeResponse(raw)
	require.NoError(t, err)
	return resp
}

func TestDataSystemEndpoint(t *testing.T) {
	server := newServer(t, Config{Token: "secret", Version: "4.0.2"})

	req, _ := http.NewRequest(http.MethodGet, server.URL+"/api/data/system", nil)
	req.Header.Set("token", "secret")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var system models.System
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&system))
	assert.Equal(t, "4.0.2", system.Version)
}

func TestDataSystemRejectsBadToken(t *testing.T) {
	server := newServer(t, Config{Token: "secret"})

	req, _ := http.NewRequest(http.MethodGet, server.URL+"/api/data/system", nil)
	req.Header.Set("token", "wrong")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLegacyMode(t *testing.T) {
	server := newServer(t, Config{LegacyVersion: "2.0.0"})

	resp, err := http.Get(server.URL + "/api/data/system")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err = http.Get(server.URL + "/information")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var info map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&info))
	assert.Equal(t, "2.0.0", info["version"])
}

func TestWebSocketBadToken(t *testing.T) {
	server := newServer(t, Config{Token: "secret"})
	conn := dial(t, server)

	sendRequest(t, conn, event.Request{Token: "wrong", ID: "r1", Event: event.TypeGetData})

	frame := readFrame(t, conn)
	assert.Equal(t, event.TypeError, frame.Type)
	assert.Equal(t, event.SubTypeBadToken, frame.SubType)
	assert.Equal(t, "r1", frame.ID)
}

func TestWebSocketGetData(t *testing.T) {
	server := newServer(t, Config{Token: "secret"})
	conn := dial(t, server)

	sendRequest(t, conn, event.Request{
		Token: "secret",
		ID:    "r2",
		Event: event.TypeGetData,
		Data:  map[string]any{"modules": []string{models.ModuleCPU}},
	})

	ack := readFrame(t, conn)
	assert.Equal(t, event.TypeDataGet, ack.Type)
	assert.Equal(t, "r2", ack.ID)

	push := readFrame(t, conn)
	assert.Equal(t, event.TypeDataUpdate, push.Type)
	assert.Equal(t, models.ModuleCPU, push.Module)
	assert.Equal(t, "r2", push.ID)

	_, err := models.Decode(push.Module, push.Data)
	assert.NoError(t, err)
}

func TestWebSocketListenerAlreadyRegistered(t *testing.T) {
	server := newServer(t, Config{Token: "secret"})
	conn := dial(t, server)

	register := event.Request{
		Token: "secret",
		ID:    "r3",
		Event: event.TypeRegisterDataListener,
		Data:  map[string]any{"modules": []string{models.ModuleSystem}},
	}
	sendRequest(t, conn, register)

	ack := readFrame(t, conn)
	assert.Equal(t, event.TypeDataListenerRegistered, ack.Type)

	// Drain the push that follows registration.
	push := readFrame(t, conn)
	assert.Equal(t, event.TypeDataUpdate, push.Type)

	register.ID = "r4"
	sendRequest(t, conn, register)
	dup := readFrame(t, conn)
	assert.Equal(t, event.TypeError, dup.Type)
	assert.Equal(t, event.SubTypeListenerAlreadyRegistered, dup.SubType)
}

func TestWebSocketUnknownEvent(t *testing.T) {
	server := newServer(t, Config{})
	conn := dial(t, server)

	sendRequest(t, conn, event.Request{ID: "r5", Event: "BOGUS_EVENT"})
	frame := readFrame(t, conn)
	assert.Equal(t, event.TypeError, frame.Type)
	assert.Equal(t, event.SubTypeUnknownEvent, frame.SubType)
}

func TestDefaultFixturesDecodable(t *testing.T) {
	fixtures := DefaultFixtures()
	for _, module := range models.AllModules {
		payload, ok := fixtures.moduleData(module)
		require.True(t, ok, "module %s has no fixture", module)

		raw, err := json.Marshal(payload)
		require.NoError(t, err)

		decoded, err := models.Decode(module, raw)
		require.NoError(t, err, "module %s fixture does not decode", module)

		data := &models.ModulesData{}
		require.NoError(t, data.SetModuleData(module, decoded), "module %s decode result rejected", module)
	}
}
