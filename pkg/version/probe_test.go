package version

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/systembridge/connector-go/internal/stubserver"
	"github.com/systembridge/connector-go/pkg/httpclient"
)

func newTestProbe(t *testing.T, config stubserver.Config, opts ...Option) *Probe {
	t.Helper()

	stub := stubserver.New(config, nil, zerolog.Nop())
	server := httptest.NewServer(stub.Handler())
	t.Cleanup(server.Close)

	probe, err := NewProbe(clientConfig(t, server.URL, config.Token), zerolog.Nop(), opts...)
	require.NoError(t, err)
	return probe
}

func clientConfig(t *testing.T, serverURL, token string) httpclient.Config {
	t.Helper()

	parsed, err := url.Parse(serverURL)
	require.NoError(t, err)
	host, portStr, err := net.SplitHostPort(parsed.Host)
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)

	return httpclient.Config{Host: host, Port: port, Token: token}
}

func TestCheckVersionModernBackend(t *testing.T) {
	probe := newTestProbe(t, stubserver.Config{Version: "4.0.2"})

	detected, err := probe.CheckVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "4.0.2", detected)
}

func TestCheckSupported(t *testing.T) {
	tests := []struct {
		version   string
		supported bool
	}{
		{"4.0.2", true},
		{"4.1.0", true},
		{"4.0.1", false},
		{"3.5.0", false},
	}
	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			probe := newTestProbe(t, stubserver.Config{Version: tt.version})
			supported, err := probe.CheckSupported(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.supported, supported)
		})
	}
}

func TestCheckVersionLegacyBackend(t *testing.T) {
	probe := newTestProbe(t, stubserver.Config{LegacyVersion: "2.0.0"})

	detected, err := probe.CheckVersion(context.Background())
	require.NoError(t, err)
	assert.Empty(t, detected, "modern endpoint absent should not be an error")

	legacy, err := probe.CheckVersion2(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2.0.0", legacy)

	supported, err := probe.CheckSupported(context.Background())
	require.NoError(t, err)
	assert.False(t, supported, "a 2.x backend is never supported")
}

func TestCheckVersionAuthFailure(t *testing.T) {
	probe := newTestProbe(t, stubserver.Config{Version: "4.0.2", Token: "right"})

	// Probe built by helper carries the stub's token; build one with a wrong
	// token to hit the 401 path.
	stub := stubserver.New(stubserver.Config{Version: "4.0.2", Token: "right"}, nil, zerolog.Nop())
	server := httptest.NewServer(stub.Handler())
	t.Cleanup(server.Close)

	wrong, err := NewProbe(clientConfig(t, server.URL, "wrong"), zerolog.Nop())
	require.NoError(t, err)

	_, err = wrong.CheckVersion(context.Background())
	assert.Error(t, err)

	// And the correctly authenticated probe still works.
	detected, err := probe.CheckVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "4.0.2", detected)
}

func TestSupportedVersionOverride(t *testing.T) {
	probe := newTestProbe(t, stubserver.Config{Version: "3.5.0"}, WithSupportedVersion("3.0.0"))
	assert.Equal(t, "3.0.0", probe.MinimumVersion())

	supported, err := probe.CheckSupported(context.Background())
	require.NoError(t, err)
	assert.True(t, supported)

	assert.True(t, probe.Supported("3.0.0"))
	assert.False(t, probe.Supported("2.9.9"))
	assert.False(t, probe.Supported("not-a-version"))
}

func TestNewProbeRejectsUnparseableSupportedVersion(t *testing.T) {
	_, err := NewProbe(httpclient.Config{Host: "127.0.0.1", Port: 9170},
		zerolog.Nop(), WithSupportedVersion("latest"))
	assert.Error(t, err)
}

func TestSupportedComparesLocally(t *testing.T) {
	stub := stubserver.New(stubserver.Config{Version: "4.0.2"}, nil, zerolog.Nop())
	inner := stub.Handler()

	var requests atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		inner.ServeHTTP(w, r)
	}))
	t.Cleanup(server.Close)

	probe, err := NewProbe(clientConfig(t, server.URL, ""), zerolog.Nop())
	require.NoError(t, err)

	detected, err := probe.CheckVersion(context.Background())
	require.NoError(t, err)
	require.Equal(t, "4.0.2", detected)
	require.Equal(t, int64(1), requests.Load())

	assert.True(t, probe.Supported(detected))
	assert.Equal(t, int64(1), requests.Load(), "comparing a detected version must not probe again")
}
