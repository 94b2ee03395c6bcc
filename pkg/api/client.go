package api

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/valyala/fasthttp"
	"semrush-explorer/pkg/logger"
)

const (
	DefaultBaseURL = "https://api.semrush.com/"
	DefaultTimeout = 30 * time.Second
)

// Settings holds everything a call needs, read once per call
type Settings struct {
	BaseURL          string
	APIKey           string
	Database         string
	DisableTLSVerify bool
	Timeout          time.Duration
	RequestDelay     time.Duration
}

// DefaultSettings returns the provider endpoint with the stock delay and timeout
func DefaultSettings() Settings {
	return Settings{
		BaseURL:      DefaultBaseURL,
		Database:     "br",
		Timeout:      DefaultTimeout,
		RequestDelay: DefaultRequestDelay,
	}
}

// Scope returns the per-call request values of the settings
func (s Settings) Scope() Scope {
	return Scope{Database: s.Database, Key: s.APIKey}
}

// sameTransport reports whether two settings can share one client
func (s Settings) sameTransport(o Settings) bool {
	return s.BaseURL == o.BaseURL &&
		s.DisableTLSVerify == o.DisableTLSVerify &&
		s.Timeout == o.Timeout &&
		s.RequestDelay == o.RequestDelay
}

// ClientOption customizes the fasthttp client, mostly for tests
type ClientOption func(*fasthttp.Client)

// WithDial replaces the dialer of the underlying client
func WithDial(dial fasthttp.DialFunc) ClientOption {
	return func(c *fasthttp.Client) {
		c.Dial = dial
	}
}

type httpAPIClient struct {
	baseURL  string
	timeout  time.Duration
	client   *fasthttp.Client
	executor *SequentialExecutor
	log      *logger.SecurityLogger
}

// NewHTTPAPIClient creates a client for the settings' endpoint. The key
// and database travel in each QueryRequest, not in the client.
func NewHTTPAPIClient(settings Settings, opts ...ClientOption) Client {
	timeout := settings.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	baseURL := settings.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	client := &fasthttp.Client{
		Name:                "semrush-explorer/1.0",
		ReadTimeout:         timeout,
		WriteTimeout:        timeout,
		MaxConnsPerHost:     4,
		MaxIdleConnDuration: 90 * time.Second,
		TLSConfig: &tls.Config{
			InsecureSkipVerify: settings.DisableTLSVerify, //nolint:gosec // opt-in for intercepting proxies
		},
	}
	// fasthttp retries idempotent requests by default; one attempt only
	client.MaxIdemponentCallAttempts = 1
	for _, opt := range opts {
		opt(client)
	}

	log := logger.GetLogger().Component("api_client")
	if settings.DisableTLSVerify {
		log.Warn("TLS certificate verification is disabled")
	}

	return &httpAPIClient{
		baseURL:  baseURL,
		timeout:  timeout,
		client:   client,
		executor: NewSequentialExecutor(settings.RequestDelay),
		log:      logger.NewSecurityLogger(log),
	}
}

func (c *httpAPIClient) Call(ctx context.Context, query QueryRequest) (*RawResponse, error) {
	var result *RawResponse
	start := time.Now()

	err := c.executor.Execute(ctx, func() error {
		var err error
		result, err = c.doCall(ctx, query)
		return err
	})
	if err != nil {
		c.log.SafeError("API call failed", err, map[string]interface{}{
			"report":     string(query.Type()),
			"error_kind": ClassifyError(err).String(),
		})
		return nil, err
	}

	c.log.SafeDebug("API call completed", map[string]interface{}{
		"report":      string(query.Type()),
		"status_code": result.StatusCode,
		"duration_ms": time.Since(start).Milliseconds(),
	})
	return result, nil
}

func (c *httpAPIClient) doCall(ctx context.Context, query QueryRequest) (*RawResponse, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	fullURL, err := c.requestURL(query)
	if err != nil {
		return nil, err
	}
	req.SetRequestURI(fullURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "text/plain, text/csv, */*")

	deadline := time.Now().Add(c.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	c.log.SafeDebug("Sending API request", map[string]interface{}{
		"request_url": fullURL,
	})

	if err := c.client.DoDeadline(req, resp, deadline); err != nil {
		return nil, fmt.Errorf("semrush request %s failed: %w", query.Type(), err)
	}

	return &RawResponse{
		StatusCode: resp.StatusCode(),
		Body:       decodeBody(resp.Body()),
	}, nil
}

func (c *httpAPIClient) requestURL(query QueryRequest) (string, error) {
	base, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base URL: %w", err)
	}

	encoded := query.Encode()
	if base.RawQuery != "" {
		encoded = strings.TrimSuffix(base.RawQuery, "&") + "&" + encoded
	}
	base.RawQuery = encoded
	return base.String(), nil
}
