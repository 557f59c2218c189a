// Package version probes a bridge backend for its version and decides
// whether this client supports it.
package version

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	bridgeerrors "github.com/systembridge/connector-go/pkg/errors"
	"github.com/systembridge/connector-go/pkg/httpclient"
	"github.com/systembridge/connector-go/pkg/models"
)

// DefaultSupportedVersion is the minimum backend version this client supports
// unless a probe is built with an override.
const DefaultSupportedVersion = "4.0.2"

// minModernVersion gates the modern data API: backends below 3.0.0 do not
// serve /api/data/system.
const minModernVersion = "3.0.0"

// Probe performs the one-shot startup version checks.
type Probe struct {
	client    *httpclient.Client
	logger    zerolog.Logger
	supported string
}

// Option customises a Probe.
type Option func(*Probe)

// WithSupportedVersion overrides the minimum backend version the probe treats
// as supported.
func WithSupportedVersion(version string) Option {
	return func(p *Probe) { p.supported = version }
}

// NewProbe creates a version probe against the configured backend.
func NewProbe(config httpclient.Config, logger zerolog.Logger, opts ...Option) (*Probe, error) {
	client, err := httpclient.NewClient(config, logger)
	if err != nil {
		return nil, err
	}
	probe := &Probe{
		client:    client,
		logger:    logger.With().Str("component", "version").Logger(),
		supported: DefaultSupportedVersion,
	}
	for _, opt := range opts {
		opt(probe)
	}
	if _, err := Parse(probe.supported); err != nil {
		return nil, fmt.Errorf("supported version %q: %w", probe.supported, err)
	}
	return probe, nil
}

// MinimumVersion returns the minimum backend version this probe accepts.
func (p *Probe) MinimumVersion() string {
	return p.supported
}

// Supported reports whether a detected version string meets the probe's
// minimum. No network round trip is made; an unparseable version is
// unsupported.
func (p *Probe) Supported(detected string) bool {
	reported, err := Parse(detected)
	if err != nil {
		return false
	}
	minimum, _ := Parse(p.supported)
	return reported.AtLeast(minimum)
}

// CheckVersion probes the modern endpoint. It returns the backend version if
// the backend serves /api/data/system and reports 3.0.0 or newer, and ""
// when the endpoint is absent (404). Other failures propagate.
func (p *Probe) CheckVersion(ctx context.Context) (string, error) {
	var system models.System
	if err := p.client.GetJSON(ctx, "/api/data/system", &system); err != nil {
		if status, ok := bridgeerrors.HTTPStatus(err); ok && status == http.StatusNotFound {
			p.logger.Debug().Msg("Modern data endpoint not present")
			return "", nil
		}
		return "", err
	}

	reported, err := Parse(system.Version)
	if err != nil {
		p.logger.Warn().Str("version", system.Version).Msg("Backend reported unparseable version")
		return "", nil
	}
	minimum, _ := Parse(minModernVersion)
	if !reported.AtLeast(minimum) {
		return "", nil
	}
	return system.Version, nil
}

// CheckVersion2 probes the legacy /information endpoint. It returns the
// version string when the backend is a 2.x server, and "" otherwise. A 404
// means the endpoint is absent, not an error.
func (p *Probe) CheckVersion2(ctx context.Context) (string, error) {
	value, err := p.client.Get(ctx, "/information")
	if err != nil {
		if status, ok := bridgeerrors.HTTPStatus(err); ok && status == http.StatusNotFound {
			p.logger.Debug().Msg("Legacy information endpoint not present")
			return "", nil
		}
		return "", err
	}

	information, ok := value.(map[string]any)
	if !ok {
		return "", nil
	}
	reported, _ := information["version"].(string)
	if strings.HasPrefix(reported, "2") || strings.HasPrefix(reported, "v2") {
		return reported, nil
	}
	return "", nil
}

// CheckSupported reports whether the backend runs a supported version. The
// modern endpoint is probed first; on 404 the legacy endpoint decides, and a
// 2.x server is never supported.
func (p *Probe) CheckSupported(ctx context.Context) (bool, error) {
	detected, err := p.CheckVersion(ctx)
	if err != nil {
		return false, err
	}
	if detected == "" {
		legacy, err := p.CheckVersion2(ctx)
		if err != nil {
			return false, err
		}
		if legacy != "" {
			p.logger.Info().Str("version", legacy).Msg("Detected legacy v2 backend")
		}
		return false, nil
	}

	return p.Supported(detected), nil
}
