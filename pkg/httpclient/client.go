package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/chrimztech/unza-counseling-console/pkg/errors"
	"github.com/chrimztech/unza-counseling-console/pkg/logger"
)

// maxBodyBytes caps how much of a response body is buffered. Export
// endpoints return whole files, so the limit is generous.
const maxBodyBytes = 64 << 20

// Config holds HTTP client configuration
type Config struct {
	BaseURL         string
	Timeout         time.Duration
	MaxConnsPerHost int
	UserAgent       string
}

// DefaultConfig returns the defaults for talking to a local backend.
func DefaultConfig() Config {
	return Config{
		BaseURL:         "http://localhost:8080/api",
		Timeout:         30 * time.Second,
		MaxConnsPerHost: 100,
		UserAgent:       "counselctl",
	}
}

// Doer executes a prepared request. It is implemented by the plain
// transport and by CircuitBreakerClient.
type Doer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// CredentialStore is the subset of the session store the client needs.
type CredentialStore interface {
	Token(ctx context.Context) (string, error)
	Clear(ctx context.Context) error
}

// Request describes one call against the backend API.
type Request struct {
	// Name labels the call in metrics, spans and logs, e.g. "consent.check".
	Name   string
	Method string
	Path   string
	Query  url.Values
	Body   any
	Header http.Header
}

// Response is a fully buffered 2xx response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger used for boundary logging.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithUnauthorizedHandler registers the callback invoked after a 401 has
// cleared the stored credentials. It plays the role of the login redirect.
func WithUnauthorizedHandler(fn func(ctx context.Context)) Option {
	return func(c *Client) { c.onUnauthorized = fn }
}

// WithCircuitBreaker routes every call through a circuit breaker.
func WithCircuitBreaker(cfg CircuitBreakerConfig) Option {
	return func(c *Client) { c.breakerCfg = &cfg }
}

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// Client is the single request/response pipeline shared by every endpoint
// wrapper. It attaches credentials, correlation and trace headers, enforces
// the fixed timeout and performs the 401 recovery.
type Client struct {
	httpClient     *http.Client
	config         Config
	baseURL        string
	store          CredentialStore
	transport      Doer
	breakerCfg     *CircuitBreakerConfig
	logger         *slog.Logger
	onUnauthorized func(ctx context.Context)
	tracer         trace.Tracer
}

// New creates a client for cfg.BaseURL. store may be nil, in which case
// every request goes out unauthenticated.
func New(cfg Config, store CredentialStore, opts ...Option) (*Client, error) {
	u, err := url.Parse(cfg.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base url %q", cfg.BaseURL)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}
	if cfg.MaxConnsPerHost <= 0 {
		cfg.MaxConnsPerHost = DefaultConfig().MaxConnsPerHost
	}

	c := &Client{
		config:  cfg,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		store:   store,
		logger:  slog.Default(),
		tracer:  otel.Tracer("github.com/chrimztech/unza-counseling-console/pkg/httpclient"),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient == nil {
		c.httpClient = &http.Client{
			Transport: newTransport(cfg),
			Timeout:   cfg.Timeout,
		}
	}
	c.transport = &transport{httpClient: c.httpClient}
	if c.breakerCfg != nil {
		c.transport = NewCircuitBreakerClient(c.transport, *c.breakerCfg, c.logger)
	}
	return c, nil
}

func newTransport(cfg Config) *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   cfg.MaxConnsPerHost,
		MaxConnsPerHost:       cfg.MaxConnsPerHost,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
}

// BaseURL returns the normalized base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// Send executes r and returns the buffered response for 2xx statuses.
// A missing response yields *errors.NetworkError; any other status yields
// *errors.HTTPError. There are no retries.
func (c *Client) Send(ctx context.Context, r Request) (*Response, error) {
	name := r.Name
	if name == "" {
		name = r.Method + " " + r.Path
	}
	start := time.Now()

	ctx, span := c.tracer.Start(ctx, "api "+name, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	req, err := c.newRequest(ctx, r)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(
		attribute.String("http.method", req.Method),
		attribute.String("http.url", req.URL.String()),
	)

	resp, err := c.transport.Do(ctx, req)
	if err != nil {
		observeRequest(name, req.Method, "network_error", start)
		span.RecordError(err)
		span.SetStatus(codes.Error, "no response")
		logger.WithContext(ctx, c.logger).ErrorContext(ctx, "no response received from backend",
			slog.String("call", name),
			slog.String("url", req.URL.String()),
			slog.String("error", err.Error()),
		)
		return nil, &apperrors.NetworkError{Method: req.Method, URL: req.URL.String(), Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		observeRequest(name, req.Method, "network_error", start)
		span.RecordError(err)
		return nil, &apperrors.NetworkError{Method: req.Method, URL: req.URL.String(), Err: err}
	}

	observeRequest(name, req.Method, strconv.Itoa(resp.StatusCode), start)
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: body}, nil
	}

	span.SetStatus(codes.Error, http.StatusText(resp.StatusCode))
	return nil, c.handleFailure(ctx, name, resp.StatusCode, body)
}

// newRequest builds the *http.Request and runs the request interceptors.
func (c *Client) newRequest(ctx context.Context, r Request) (*http.Request, error) {
	target := c.baseURL + "/" + strings.TrimLeft(r.Path, "/")
	if len(r.Query) > 0 {
		target += "?" + r.Query.Encode()
	}

	var body io.Reader = http.NoBody
	if r.Body != nil {
		b, err := json.Marshal(r.Body)
		if err != nil {
			return nil, fmt.Errorf("marshal %s request body: %w", r.Name, err)
		}
		body = bytes.NewReader(b)
	}

	method := r.Method
	if method == "" {
		method = http.MethodGet
	}
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("create %s request: %w", r.Name, err)
	}

	for k, vs := range r.Header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if r.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}
	if c.config.UserAgent != "" {
		req.Header.Set("User-Agent", c.config.UserAgent)
	}

	c.attachCorrelationID(ctx, req)
	c.attachCredentials(ctx, req)
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	return req, nil
}

func (c *Client) attachCorrelationID(ctx context.Context, req *http.Request) {
	id := logger.CorrelationIDFromContext(ctx)
	if id == "" {
		id = uuid.New().String()
	}
	req.Header.Set("X-Correlation-ID", id)
}

// attachCredentials adds the bearer token when one is stored. A missing or
// unreadable token is not an error; the request proceeds unauthenticated.
func (c *Client) attachCredentials(ctx context.Context, req *http.Request) {
	if c.store == nil {
		return
	}
	token, err := c.store.Token(ctx)
	if err != nil {
		c.logger.DebugContext(ctx, "credential store unavailable, sending unauthenticated",
			slog.String("error", err.Error()),
		)
		return
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

// handleFailure is the response interceptor for non-2xx statuses. Only 401
// triggers recovery; everything else is logged and returned as is.
func (c *Client) handleFailure(ctx context.Context, name string, status int, body []byte) error {
	httpErr := parseErrorBody(status, body)
	log := logger.WithContext(ctx, c.logger).With(
		slog.String("call", name),
		slog.Int("status", status),
	)

	switch {
	case status == http.StatusUnauthorized:
		if c.store != nil {
			if err := c.store.Clear(ctx); err != nil {
				log.WarnContext(ctx, "failed to clear credentials", slog.String("error", err.Error()))
			}
		}
		log.WarnContext(ctx, "session rejected by backend, credentials cleared")
		if c.onUnauthorized != nil {
			c.onUnauthorized(ctx)
		}
	case status == http.StatusForbidden:
		log.WarnContext(ctx, "access forbidden", slog.String("message", httpErr.Message))
	case status == http.StatusNotFound:
		log.WarnContext(ctx, "resource not found")
	case status >= http.StatusInternalServerError:
		log.ErrorContext(ctx, "backend server error", slog.String("message", httpErr.Message))
	default:
		log.InfoContext(ctx, "request failed", slog.String("message", httpErr.Message))
	}

	return httpErr
}

// transport is the innermost Doer: one attempt, no retry.
type transport struct {
	httpClient *http.Client
}

func (t *transport) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	return t.httpClient.Do(req.WithContext(ctx))
}
