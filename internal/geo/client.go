package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"fraudgate/pkg/platform/circuit"
	"fraudgate/pkg/platform/sentinel"
)

// HTTPClient calls the geo service:
//
//	GET {base}/v1/country?ip=1.2.3.4 -> 200 {"country":"RUS"} | 404
type HTTPClient struct {
	base    string
	http    *http.Client
	breaker *circuit.Breaker
	logger  *slog.Logger
}

// ClientOption configures an HTTPClient.
type ClientOption func(*HTTPClient)

// WithHTTPClient overrides the transport client.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(h *HTTPClient) {
		if c != nil {
			h.http = c
		}
	}
}

// WithBreaker overrides the circuit breaker.
func WithBreaker(b *circuit.Breaker) ClientOption {
	return func(h *HTTPClient) {
		if b != nil {
			h.breaker = b
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(h *HTTPClient) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// NewHTTPClient creates a client for the service at baseURL.
func NewHTTPClient(baseURL string, opts ...ClientOption) (*HTTPClient, error) {
	if baseURL == "" {
		return nil, errors.New("geo service URL is required")
	}
	c := &HTTPClient{
		base:    strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 2 * time.Second, Transport: otelhttp.NewTransport(http.DefaultTransport)},
		breaker: circuit.New("geo-service"),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type countryResponse struct {
	Country string `json:"country"`
}

func (c *HTTPClient) ResolveCountry(ctx context.Context, ip string) (string, error) {
	if !c.breaker.Allow() {
		return "", sentinel.ErrCircuitOpen
	}
	country, err := c.fetch(ctx, ip)
	if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		if _, change := c.breaker.RecordFailure(); change.Opened {
			c.logger.WarnContext(ctx, "geo service circuit opened", "error", err)
		}
		return "", err
	}
	if _, change := c.breaker.RecordSuccess(); change.Closed {
		c.logger.InfoContext(ctx, "geo service circuit closed")
	}
	return country, err
}

func (c *HTTPClient) fetch(ctx context.Context, ip string) (string, error) {
	endpoint := c.base + "/v1/country?ip=" + url.QueryEscape(ip)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("build geo request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("geo request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return "", sentinel.ErrNotFound
	case resp.StatusCode != http.StatusOK:
		return "", fmt.Errorf("geo service returned %d: %w", resp.StatusCode, sentinel.ErrUnavailable)
	}
	var body countryResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decode geo response: %w", err)
	}
	if body.Country == "" {
		return "", sentinel.ErrNotFound
	}
	return strings.ToUpper(body.Country), nil
}
