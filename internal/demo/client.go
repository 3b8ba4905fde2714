// Package demo proxies a fixed public API endpoint, exercising outbound
// calls without authentication.
package demo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Angelito-Alit/comments-api/internal/config"
	"github.com/Angelito-Alit/comments-api/internal/observability/tracing"
)

// ErrUpstream covers transport failures and non-200 upstream responses.
var ErrUpstream = errors.New("demo upstream unavailable")

// Client fetches a sample document from the configured public API.
type Client struct {
	url  string
	http *http.Client
	log  *zap.Logger
}

func NewClient(cfg config.Config, log *zap.Logger) *Client {
	return &Client{
		url:  cfg.DemoAPIURL,
		http: tracing.WrapHTTPClient(&http.Client{Timeout: cfg.UpstreamTimeout}),
		log:  log.Named("demo"),
	}
}

// Source names the upstream host for response attribution.
func (c *Client) Source() string {
	parsed, err := url.Parse(c.url)
	if err != nil || parsed.Host == "" {
		return c.url
	}
	return parsed.Host
}

// FetchSample retrieves the upstream document as-is.
func (c *Client) FetchSample(ctx context.Context) (map[string]any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("demo upstream call failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.log.Warn("demo upstream returned unexpected status", zap.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}

	var payload map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrUpstream, err)
	}
	return payload, nil
}

// Ping probes the upstream for health reporting.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.FetchSample(ctx)
	return err
}

var Module = fx.Module("demo",
	fx.Provide(NewClient),
)
