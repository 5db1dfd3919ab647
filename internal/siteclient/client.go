package siteclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"tutorly/internal/config"
	"tutorly/internal/logging"
	"tutorly/internal/metrics"
)

var (
	// ErrTransport wraps every failure to obtain a usable reply.
	ErrTransport = errors.New("site unreachable")
	// ErrMalformedReply is returned when the body is not a JSON object with a status.
	ErrMalformedReply = errors.New("malformed reply")
)

// StatusError is a non-2xx HTTP response.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string { return fmt.Sprintf("site status %d", e.Code) }

const maxReplyBytes = 1 << 20

// Gateway posts one JSON body to a site endpoint and returns its reply.
// Any returned error means the reply could not be used; there is no retry.
type Gateway interface {
	Post(ctx context.Context, endpoint Endpoint, body any) (Reply, error)
}

// HTTPClient is the site's ajax client. It carries the anti-forgery header
// and the session cookies of one page session.
type HTTPClient struct {
	baseURL    *url.URL
	routes     Routes
	httpClient *http.Client
	limiter    *rate.Limiter
	csrfHeader string
	csrfCookie string
	csrfToken  string
	newID      func() string
}

func NewHTTPClient(cfg config.Config) (*HTTPClient, error) {
	base, err := url.Parse(strings.TrimRight(cfg.Site.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	routes, err := RoutesFor(cfg.Site.Routes)
	if err != nil {
		return nil, err
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	c := &HTTPClient{
		baseURL:    base,
		routes:     routes,
		httpClient: &http.Client{Timeout: cfg.HTTP.Timeout, Jar: jar},
		limiter:    newLimiter(cfg.HTTP.RPS, cfg.HTTP.Burst),
		csrfHeader: cfg.Site.CSRFHeader,
		csrfCookie: cfg.Site.CSRFCookie,
		csrfToken:  cfg.Site.CSRFToken,
		newID:      func() string { return uuid.NewString() },
	}
	if cfg.Site.SessionCookie != "" && cfg.Site.SessionCookieName != "" {
		c.SetCookie(cfg.Site.SessionCookieName, cfg.Site.SessionCookie)
	}
	return c, nil
}

// SetCookie installs a cookie for the site into the session jar.
func (c *HTTPClient) SetCookie(name, value string) {
	c.httpClient.Jar.SetCookies(c.baseURL, []*http.Cookie{{Name: name, Value: value, Path: "/"}})
}

// URL returns the absolute url of an endpoint.
func (c *HTTPClient) URL(endpoint Endpoint) (string, error) {
	p, ok := c.routes[endpoint]
	if !ok {
		return "", fmt.Errorf("unknown endpoint %q", endpoint)
	}
	return c.baseURL.String() + p, nil
}

// Routes returns the resolved route table.
func (c *HTTPClient) Routes() Routes { return c.routes }

// token returns the static token or the anti-forgery cookie from the jar.
func (c *HTTPClient) token() string {
	if c.csrfToken != "" {
		return c.csrfToken
	}
	for _, ck := range c.httpClient.Jar.Cookies(c.baseURL) {
		if ck.Name == c.csrfCookie {
			return ck.Value
		}
	}
	return ""
}

func (c *HTTPClient) headers(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	req.Header.Set("X-Request-ID", c.newID())
	if tok := c.token(); tok != "" && c.csrfHeader != "" {
		req.Header.Set(c.csrfHeader, tok)
	}
	// Django checks the referer on https.
	req.Header.Set("Referer", c.baseURL.String()+"/")
}

// Post sends body as JSON to endpoint.
func (c *HTTPClient) Post(ctx context.Context, endpoint Endpoint, body any) (Reply, error) {
	u, err := c.URL(endpoint)
	if err != nil {
		return Reply{}, err
	}
	b, err := json.Marshal(body)
	if err != nil {
		return Reply{}, fmt.Errorf("encode %s body: %w", endpoint, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(b))
	if err != nil {
		return Reply{}, err
	}
	c.headers(req)
	if err := c.limiter.Wait(ctx); err != nil {
		return Reply{}, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.ObserveGateway(string(endpoint), start)
	if err != nil {
		return Reply{}, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxReplyBytes))
	if err != nil {
		return Reply{}, fmt.Errorf("%w: read reply: %w", ErrTransport, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Reply{}, fmt.Errorf("%w: %w", ErrTransport, &StatusError{Code: resp.StatusCode})
	}
	reply, err := ParseReply(raw)
	if err != nil {
		return Reply{}, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	logging.Debug("site_reply", map[string]any{
		"endpoint":   string(endpoint),
		"request_id": req.Header.Get("X-Request-ID"),
		"status":     reply.Status(),
		"elapsed_ms": time.Since(start).Milliseconds(),
	})
	return reply, nil
}
