package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/sugarlog/internal/client/session"
	"github.com/dmitrijs2005/sugarlog/internal/common"
	"github.com/dmitrijs2005/sugarlog/internal/logging"
)

// RequestSpec describes one call. The zero value is a GET without body.
type RequestSpec struct {
	Method string
	// Body is JSON-encoded when non-nil.
	Body any
	// Headers are applied last and may override the defaults, including
	// Content-Type and Authorization.
	Headers map[string]string
}

func Get() RequestSpec          { return RequestSpec{Method: http.MethodGet} }
func Post(body any) RequestSpec { return RequestSpec{Method: http.MethodPost, Body: body} }
func Put(body any) RequestSpec  { return RequestSpec{Method: http.MethodPut, Body: body} }

// Doer is the calling surface of a Gateway.
type Doer interface {
	Do(ctx context.Context, endpoint string, spec RequestSpec) (json.RawMessage, error)
}

type Gateway struct {
	baseURL   string
	store     session.Store
	client    *http.Client
	log       logging.Logger
	userAgent string
}

type Option func(*Gateway)

// WithHTTPClient sets the client used for every call; its Timeout and
// Transport apply. Defaults to http.DefaultClient.
func WithHTTPClient(c *http.Client) Option {
	return func(g *Gateway) {
		if c != nil {
			g.client = c
		}
	}
}

func WithLogger(l logging.Logger) Option {
	return func(g *Gateway) {
		if l != nil {
			g.log = l
		}
	}
}

func WithUserAgent(ua string) Option {
	return func(g *Gateway) { g.userAgent = ua }
}

// New returns a Gateway for the absolute http(s) baseURL.
func New(baseURL string, store session.Store, options ...Option) (*Gateway, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", baseURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid base url %q: must be an absolute http(s) url", baseURL)
	}
	if store == nil {
		return nil, fmt.Errorf("session store is required")
	}

	g := &Gateway{
		baseURL: strings.TrimRight(baseURL, "/"),
		store:   store,
		client:  http.DefaultClient,
		log:     logging.Discard(),
	}
	for _, opt := range options {
		opt(g)
	}
	return g, nil
}

// BaseURL returns the address endpoints are appended to.
func (g *Gateway) BaseURL() string { return g.baseURL }

// Do issues one request and returns the parsed JSON body of a 2xx response.
// Any failure is returned as *Error.
func (g *Gateway) Do(ctx context.Context, endpoint string, spec RequestSpec) (json.RawMessage, error) {
	if err := validateEndpoint(endpoint); err != nil {
		return nil, transportError("invalid endpoint", err)
	}

	method := spec.Method
	if method == "" {
		method = http.MethodGet
	}

	token, authenticated := g.store.Get(ctx)

	var body io.Reader
	if spec.Body != nil {
		b, err := json.Marshal(spec.Body)
		if err != nil {
			return nil, transportError("failed to encode request body", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+endpoint, body)
	if err != nil {
		return nil, transportError("failed to build request", err)
	}

	req.Header.Set(common.ContentTypeHeaderName, common.JSONContentType)
	req.Header.Set("Accept", common.JSONContentType)
	if g.userAgent != "" {
		req.Header.Set("User-Agent", g.userAgent)
	}
	if authenticated {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
	}
	for k, v := range spec.Headers {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := g.client.Do(req)
	if err != nil {
		g.log.Debug(ctx, "api call failed", "method", method, "endpoint", endpoint, "error", err)
		return nil, transportError("network request failed", err)
	}
	defer resp.Body.Close()

	raw, readErr := io.ReadAll(resp.Body)

	g.log.Debug(ctx, "api call",
		"method", method,
		"endpoint", endpoint,
		"status", resp.StatusCode,
		"authenticated", authenticated,
		"duration", time.Since(start))

	// side effects must survive a caller cancelling right after the response
	sideCtx := context.WithoutCancel(ctx)

	if resp.StatusCode == http.StatusUnauthorized {
		if err := g.store.Clear(sideCtx); err != nil {
			g.log.Warn(ctx, "clearing session after 401 failed", "error", err)
		}
	}

	if readErr != nil {
		return nil, transportError("failed to read response body", readErr)
	}

	parsed, err := parseBody(raw)
	if err != nil {
		return nil, transportError("invalid response body", err)
	}

	message, newToken := inspect(parsed)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, NewStatusError(resp.StatusCode, message, parsed)
	}

	if newToken != "" {
		if err := g.store.Set(sideCtx, newToken); err != nil {
			return nil, transportError("failed to persist session", err)
		}
		g.log.Debug(ctx, "session token stored", "endpoint", endpoint, "token", common.MaskToken(newToken))
	}

	return parsed, nil
}

func validateEndpoint(endpoint string) error {
	if endpoint == "" {
		return fmt.Errorf("%w: empty", ErrInvalidEndpoint)
	}
	if !strings.HasPrefix(endpoint, "/") || strings.HasPrefix(endpoint, "//") {
		return fmt.Errorf("%w: %q must be a path starting with /", ErrInvalidEndpoint, endpoint)
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidEndpoint, err)
	}
	if u.Scheme != "" || u.Host != "" {
		return fmt.Errorf("%w: %q must be relative", ErrInvalidEndpoint, endpoint)
	}
	return nil
}

var jsonNull = json.RawMessage("null")

// parseBody treats an empty body as JSON null.
func parseBody(raw []byte) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return jsonNull, nil
	}
	if !json.Valid(trimmed) {
		return nil, fmt.Errorf("body is not valid JSON (%d bytes)", len(raw))
	}
	return json.RawMessage(trimmed), nil
}
