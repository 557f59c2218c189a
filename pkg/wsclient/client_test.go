package wsclient

import (
	"context"
	"errors"
	"net"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/systembridge/connector-go/internal/stubserver"
	bridgeerrors "github.com/systembridge/connector-go/pkg/errors"
	"github.com/systembridge/connector-go/pkg/event"
	"github.com/systembridge/connector-go/pkg/models"
)

const testToken = "test-token"

// newTestClient spins up a stub backend and a client pointed at it. The
// request timeout is short so negative paths do not stall the suite.
func newTestClient(t *testing.T, stubConfig stubserver.Config, clientToken string) (*Client, *httptest.Server) {
	t.Helper()

	stub := stubserver.New(stubConfig, nil, zerolog.Nop())
	server := httptest.NewServer(stub.Handler())
	t.Cleanup(server.Close)

	parsed, err := url.Parse(server.URL)
	require.NoError(t, err)
	host, portStr, err := net.SplitHostPort(parsed.Host)
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)

	client := NewClient(Config{
		Host:           host,
		Port:           port,
		Token:          clientToken,
		RequestTimeout: 500 * time.Millisecond,
		GetDataTimeout: 2 * time.Second,
	}, zerolog.Nop())
	t.Cleanup(client.Close)
	return client, server
}

func connect(t *testing.T, client *Client) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, client.Connect(ctx))
	require.True(t, client.Connected())
}

func TestConnectFailure(t *testing.T) {
	client := NewClient(Config{Host: "127.0.0.1", Port: 1, Token: testToken, HandshakeTimeout: time.Second}, zerolog.Nop())

	err := client.Connect(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, bridgeerrors.ErrConnectionFailed)
	assert.False(t, client.Connected())
}

func TestSendWithoutConnect(t *testing.T) {
	client := NewClient(Config{Host: "127.0.0.1", Port: 9170, Token: testToken}, zerolog.Nop())

	_, err := client.SendNotification(context.Background(), models.Notification{Title: "x"})
	require.Error(t, err)
	assert.ErrorIs(t, err, bridgeerrors.ErrConnectionClosed)
}

func TestRegisterDataListenerAndPushes(t *testing.T) {
	client, _ := newTestClient(t, stubserver.Config{Token: testToken}, testToken)
	connect(t, client)

	type update struct {
		module string
		data   any
	}
	updates := make(chan update, 16)

	listenErr := make(chan error, 1)
	go func() {
		listenErr <- client.Listen(context.Background(), func(module string, data any) {
			updates <- update{module: module, data: data}
		}, false)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	resp, err := client.RegisterDataListener(ctx, []string{models.ModuleCPU, models.ModuleSystem})
	require.NoError(t, err)
	assert.Equal(t, event.TypeDataListenerRegistered, resp.Type)

	seen := map[string]any{}
	for len(seen) < 2 {
		select {
		case u := <-updates:
			seen[u.module] = u.data
		case <-ctx.Done():
			t.Fatalf("timed out waiting for pushes, saw %v", seen)
		}
	}

	cpu, ok := seen[models.ModuleCPU].(*models.CPU)
	require.True(t, ok, "cpu push should decode to *models.CPU, got %T", seen[models.ModuleCPU])
	assert.NotNil(t, cpu.Usage)

	system, ok := seen[models.ModuleSystem].(*models.System)
	require.True(t, ok)
	assert.Equal(t, "testhost", system.Hostname)

	client.Close()
	err = <-listenErr
	assert.ErrorIs(t, err, bridgeerrors.ErrConnectionClosed)
}

func TestListenAuthFailure(t *testing.T) {
	client, _ := newTestClient(t, stubserver.Config{Token: testToken}, "wrong-token")
	connect(t, client)

	listenErr := make(chan error, 1)
	go func() {
		listenErr <- client.Listen(context.Background(), nil, false)
	}()

	require.Eventually(t, func() bool {
		client.listenMu.Lock()
		defer client.listenMu.Unlock()
		return client.session != nil
	}, time.Second, 5*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// The ERROR/BAD_TOKEN reply aborts the listener instead of fulfilling the
	// correlator slot; the pending request surfaces the listener's exit error.
	_, err := client.RegisterDataListener(ctx, []string{models.ModuleCPU})
	require.Error(t, err)
	assert.ErrorIs(t, err, bridgeerrors.ErrAuthentication)

	select {
	case err := <-listenErr:
		require.Error(t, err)
		assert.ErrorIs(t, err, bridgeerrors.ErrAuthentication)
	case <-ctx.Done():
		t.Fatal("listener did not abort on auth failure")
	}
}

func TestSecondListenerRejected(t *testing.T) {
	client, _ := newTestClient(t, stubserver.Config{Token: testToken}, testToken)
	connect(t, client)

	_, started := client.startSession()
	require.True(t, started)

	err := client.Listen(context.Background(), nil, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listener already running")
}

func TestGetData(t *testing.T) {
	client, _ := newTestClient(t, stubserver.Config{Token: testToken}, testToken)
	connect(t, client)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	data, err := client.GetData(ctx, []string{models.ModuleCPU, models.ModuleMemory})
	require.NoError(t, err)

	require.NotNil(t, data.CPU)
	assert.NotNil(t, data.CPU.Usage)
	require.NotNil(t, data.Memory)
	require.NotNil(t, data.Memory.Virtual)
	assert.Nil(t, data.System, "unrequested modules stay unset")
}

func TestGetDataAllModules(t *testing.T) {
	client, _ := newTestClient(t, stubserver.Config{Token: testToken}, testToken)
	connect(t, client)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	data, err := client.GetData(ctx, models.AllModules)
	require.NoError(t, err)
	assert.True(t, data.HasAll(models.AllModules))
}

func TestGetDataTimeout(t *testing.T) {
	client, _ := newTestClient(t, stubserver.Config{
		Token:      testToken,
		MuteEvents: []event.Type{event.TypeGetData},
	}, testToken)
	connect(t, client)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := client.GetData(ctx, []string{models.ModuleCPU}, WithTimeout(time.Second))
	require.Error(t, err)
	assert.ErrorIs(t, err, bridgeerrors.ErrDataMissing)
}

func TestGetDataDeadlineBoundsAckWait(t *testing.T) {
	// A deadline shorter than the request timeout must fire while the client
	// is still waiting for the GET_DATA acknowledgement, not after the 8s
	// request timeout.
	stub := stubserver.New(stubserver.Config{
		Token:      testToken,
		MuteEvents: []event.Type{event.TypeGetData},
	}, nil, zerolog.Nop())
	server := httptest.NewServer(stub.Handler())
	t.Cleanup(server.Close)

	parsed, err := url.Parse(server.URL)
	require.NoError(t, err)
	host, portStr, err := net.SplitHostPort(parsed.Host)
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)

	// Default RequestTimeout (8s) on purpose.
	client := NewClient(Config{Host: host, Port: port, Token: testToken}, zerolog.Nop())
	t.Cleanup(client.Close)
	connect(t, client)

	start := time.Now()
	_, err = client.GetData(context.Background(), []string{models.ModuleCPU}, WithTimeout(time.Second))
	elapsed := time.Since(start)

	require.Error(t, err)
	assert.ErrorIs(t, err, bridgeerrors.ErrDataMissing)
	assert.Less(t, elapsed, 3*time.Second, "deadline should fire before the request timeout")
}

func TestRequestTimeoutSynthesizesErrorResponse(t *testing.T) {
	client, _ := newTestClient(t, stubserver.Config{
		Token:      testToken,
		MuteEvents: []event.Type{event.TypeNotification},
	}, testToken)
	connect(t, client)

	go func() { _ = client.Listen(context.Background(), nil, false) }()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	resp, err := client.SendNotification(ctx, models.Notification{Title: "x"})
	require.NoError(t, err, "a request timeout is a synthetic response, not an error")
	assert.Equal(t, event.TypeError, resp.Type)
	assert.Equal(t, event.SubTypeTimeout, resp.SubType)
	assert.Equal(t, "Timeout waiting for response", resp.Message)
}

func TestGetDirectories(t *testing.T) {
	client, _ := newTestClient(t, stubserver.Config{Token: testToken}, testToken)
	connect(t, client)

	go func() { _ = client.Listen(context.Background(), nil, false) }()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	directories, err := client.GetDirectories(ctx)
	require.NoError(t, err)
	require.Len(t, directories, 2)
	assert.Equal(t, "documents", directories[0].Key)
}

func TestGetFilesAndFile(t *testing.T) {
	client, _ := newTestClient(t, stubserver.Config{Token: testToken}, testToken)
	connect(t, client)

	go func() { _ = client.Listen(context.Background(), nil, false) }()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	files, err := client.GetFiles(ctx, models.MediaGetFiles{Base: "music"})
	require.NoError(t, err)
	require.Len(t, files.Files, 1)
	assert.Equal(t, "track.mp3", files.Files[0].Name)

	file, err := client.GetFile(ctx, models.MediaGetFile{Base: "music", Path: "track.mp3"})
	require.NoError(t, err)
	assert.Equal(t, "track.mp3", file.Name)
	assert.False(t, file.IsDirectory)
}

func TestFireAndForget(t *testing.T) {
	client, _ := newTestClient(t, stubserver.Config{Token: testToken}, testToken)
	connect(t, client)

	resp, err := client.MediaControl(context.Background(), models.MediaControl{Action: models.MediaActionPause})
	require.NoError(t, err)
	assert.Equal(t, event.TypeNone, resp.Type)
	assert.Equal(t, "Message sent", resp.Message)
}

func TestPowerCommands(t *testing.T) {
	client, _ := newTestClient(t, stubserver.Config{Token: testToken}, testToken)
	connect(t, client)

	go func() { _ = client.Listen(context.Background(), nil, false) }()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	resp, err := client.PowerSleep(ctx)
	require.NoError(t, err)
	assert.Equal(t, event.TypePowerSleeping, resp.Type)

	resp, err = client.PowerRestart(ctx)
	require.NoError(t, err)
	assert.Equal(t, event.TypePowerRestarting, resp.Type)
}

func TestKeyboardAndOpen(t *testing.T) {
	client, _ := newTestClient(t, stubserver.Config{Token: testToken}, testToken)
	connect(t, client)

	go func() { _ = client.Listen(context.Background(), nil, false) }()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	resp, err := client.KeyboardKeypress(ctx, models.KeyboardKey{Key: "a"})
	require.NoError(t, err)
	assert.Equal(t, event.TypeKeyboardKeyPressed, resp.Type)

	resp, err = client.KeyboardText(ctx, models.KeyboardText{Text: "hello"})
	require.NoError(t, err)
	assert.Equal(t, event.TypeKeyboardTextSent, resp.Type)

	resp, err = client.OpenURL(ctx, models.OpenURL{URL: "https://example.com"})
	require.NoError(t, err)
	assert.Equal(t, event.TypeOpened, resp.Type)
}

func TestServerCloseSurfacesConnectionClosed(t *testing.T) {
	client, server := newTestClient(t, stubserver.Config{Token: testToken}, testToken)
	connect(t, client)

	listenErr := make(chan error, 1)
	go func() {
		listenErr <- client.Listen(context.Background(), nil, false)
	}()

	time.Sleep(50 * time.Millisecond)
	server.CloseClientConnections()

	select {
	case err := <-listenErr:
		require.Error(t, err)
		closedOrFailed := errors.Is(err, bridgeerrors.ErrConnectionClosed) ||
			errors.Is(err, bridgeerrors.ErrConnectionFailed)
		assert.True(t, closedOrFailed, "got %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("listener did not exit after server close")
	}

	assert.False(t, client.Connected())

	_, err := client.SendNotification(context.Background(), models.Notification{Title: "x"})
	require.Error(t, err)
	assert.ErrorIs(t, err, bridgeerrors.ErrConnectionClosed)
}

func TestWithRequestID(t *testing.T) {
	client, _ := newTestClient(t, stubserver.Config{Token: testToken}, testToken)
	connect(t, client)

	go func() { _ = client.Listen(context.Background(), nil, false) }()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	resp, err := client.KeyboardKeypress(ctx, models.KeyboardKey{Key: "a"}, WithRequestID("pinned-id"))
	require.NoError(t, err)
	assert.Equal(t, "pinned-id", resp.ID)
}
