// Package httpclient is a thin JSON wrapper around the bridge HTTP API.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	bridgeerrors "github.com/systembridge/connector-go/pkg/errors"
)

const defaultTimeout = 20 * time.Second

const maxResponseBodyBytes int64 = 4 * 1024 * 1024

// Config configures the bridge HTTP client.
type Config struct {
	Host    string
	Port    int
	Token   string
	Timeout time.Duration
}

// Client performs authenticated JSON requests against the bridge backend.
type Client struct {
	config     Config
	httpClient *http.Client
	baseURL    string
	logger     zerolog.Logger
}

// NewClient creates a bridge HTTP client. The timeout defaults to 20 seconds
// and bounds the whole request.
func NewClient(config Config, logger zerolog.Logger) (*Client, error) {
	host := strings.TrimSpace(config.Host)
	if host == "" {
		return nil, fmt.Errorf("bridge host is required")
	}
	if config.Port < 1 || config.Port > 65535 {
		return nil, fmt.Errorf("invalid bridge port %d", config.Port)
	}
	if config.Timeout <= 0 {
		config.Timeout = defaultTimeout
	}
	config.Host = host

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		baseURL: fmt.Sprintf("http://%s", net.JoinHostPort(host, strconv.Itoa(config.Port))),
		logger:  logger.With().Str("component", "httpclient").Logger(),
	}, nil
}

// Get performs a GET request against path.
func (c *Client) Get(ctx context.Context, path string) (any, error) {
	return c.request(ctx, http.MethodGet, path, nil)
}

// Post performs a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, payload any) (any, error) {
	return c.request(ctx, http.MethodPost, path, payload)
}

// Put performs a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, payload any) (any, error) {
	return c.request(ctx, http.MethodPut, path, payload)
}

// Delete performs a DELETE request with a JSON body.
func (c *Client) Delete(ctx context.Context, path string, payload any) (any, error) {
	return c.request(ctx, http.MethodDelete, path, payload)
}

// GetJSON performs a GET request and decodes the JSON response into
// destination.
func (c *Client) GetJSON(ctx context.Context, path string, destination any) error {
	value, err := c.Get(ctx, path)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("re-encode response for %s: %w", path, err)
	}
	if err := json.Unmarshal(raw, destination); err != nil {
		return fmt.Errorf("decode response for %s: %w", path, err)
	}
	return nil
}

func (c *Client) request(ctx context.Context, method, path string, payload any) (any, error) {
	url := c.endpoint(path)

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode request body for %s %s: %w", method, url, err)
		}
		body = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("build request %s %s: %w", method, url, err)
	}
	request.Header.Set("Accept", "application/json")
	request.Header.Set("token", c.config.Token)
	if payload != nil {
		request.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debug().Str("method", method).Str("url", url).Msg("Sending request")

	response, err := c.httpClient.Do(request)
	if err != nil {
		label := "connection error"
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			label = "timeout"
		} else if errors.Is(err, context.DeadlineExceeded) {
			label = "timeout"
		}
		return nil, bridgeerrors.NewHTTPTransportError(method, url, label, err)
	}
	defer func() {
		if closeErr := response.Body.Close(); closeErr != nil {
			c.logger.Debug().Err(closeErr).Str("url", url).Msg("Failed to close response body")
		}
	}()

	raw, err := io.ReadAll(io.LimitReader(response.Body, maxResponseBodyBytes))
	if err != nil {
		return nil, bridgeerrors.NewHTTPTransportError(method, url, "connection error", err)
	}

	if response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices {
		return nil, bridgeerrors.NewHTTPError(response.StatusCode, method, url)
	}

	if strings.Contains(response.Header.Get("Content-Type"), "application/json") {
		var decoded any
		if err := json.Unmarshal(raw, &decoded); err != nil {
			return nil, fmt.Errorf("decode response for %s %s: %w", method, url, err)
		}
		return decoded, nil
	}
	return string(raw), nil
}

func (c *Client) endpoint(path string) string {
	if strings.HasPrefix(path, "/") {
		return c.baseURL + path
	}
	return c.baseURL + "/" + path
}
