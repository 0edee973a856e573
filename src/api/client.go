package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/biznex/bizconsole/src/events"
	"github.com/biznex/bizconsole/src/logging"
	"github.com/biznex/bizconsole/src/oops"
	"github.com/biznex/bizconsole/src/session"
	"github.com/google/uuid"
)

const UserAgent = "bizconsole/1.0"

// Client wraps every backend call. It reads the bearer token from the session
// store on each call, and turns a 401 into a cleared session plus a single
// LogoutRequested event.
type Client struct {
	BaseURL string

	http     *http.Client
	sessions *session.Store
	bus      *events.Bus

	logoutMu sync.Mutex

	Users     *UsersService
	Auth      *AuthService
	Customers *CustomersService
	Products  *ProductsService
	Billing   *BillingService
}

type Option func(c *Client)

// WithHTTPClient overrides the transport. The default has no timeout.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

func NewClient(baseURL string, sessions *session.Store, bus *events.Bus, opts ...Option) *Client {
	c := &Client{
		BaseURL:  strings.TrimRight(baseURL, "/"),
		http:     &http.Client{},
		sessions: sessions,
		bus:      bus,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.Auth = &AuthService{c: c}
	c.Users = &UsersService{c: c}
	c.Customers = &CustomersService{c: c}
	c.Products = &ProductsService{c: c}
	c.Billing = &BillingService{c: c}

	return c
}

// Request describes one backend call.
type Request struct {
	Name   string
	Method string
	Path   string
	Query  url.Values
	Body   any

	// Public calls never send a token and never trigger a forced logout.
	Public bool
}

// Do performs req and decodes a successful response into out. out may be nil,
// a *string for text responses, or any JSON target. A 204 with a non-nil out
// is reported as a KindNoContent error so callers can decide what empty means.
func (c *Client) Do(ctx context.Context, req Request, out any) error {
	logger := logging.ExtractLogger(ctx).With().
		Str("call", req.Name).
		Str("method", req.Method).
		Str("path", req.Path).
		Logger()

	var bodyReader io.Reader
	if req.Body != nil {
		bodyBytes, err := json.Marshal(req.Body)
		if err != nil {
			return oops.New(err, "failed to encode request body for %s", req.Name)
		}
		bodyReader = bytes.NewReader(bodyBytes)
	}

	u := c.BaseURL + req.Path
	if len(req.Query) > 0 {
		u += "?" + req.Query.Encode()
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, u, bodyReader)
	if err != nil {
		return oops.New(err, "failed to build request for %s", req.Name)
	}

	requestID := uuid.New().String()
	httpReq.Header.Set("User-Agent", UserAgent)
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-Id", requestID)
	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	var token string
	if !req.Public {
		token, err = c.sessions.Token(ctx)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to read token, sending request without one")
		}
		if token != "" {
			httpReq.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token))
		}
	}

	start := time.Now()
	res, err := c.http.Do(httpReq)
	if err != nil {
		logger.Debug().Err(err).Str("request_id", requestID).Msg("backend call failed")
		return &Error{Kind: KindTransport, Message: GenericFailureMessage, Wrapped: err}
	}
	defer res.Body.Close()

	logger.Debug().
		Int("status", res.StatusCode).
		Str("request_id", requestID).
		Dur("duration", time.Since(start)).
		Msg("backend call")

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return &Error{Kind: KindTransport, Status: res.StatusCode, Message: GenericFailureMessage, Wrapped: err}
	}

	if res.StatusCode >= 400 {
		apiErr := &Error{
			Kind:    kindForStatus(res.StatusCode),
			Status:  res.StatusCode,
			Message: errorMessage(body),
		}
		switch apiErr.Kind {
		case KindUnauthenticated:
			if !req.Public {
				c.forceLogout(ctx, token)
			}
		case KindPasswordChangeRequired:
			c.publish(events.Event{Kind: events.PasswordChangeRequired, Reason: apiErr.Message})
		}
		return apiErr
	}

	if res.StatusCode == http.StatusNoContent {
		if out != nil {
			return &Error{Kind: KindNoContent, Status: res.StatusCode, Message: "No content"}
		}
		return nil
	}

	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if s, ok := out.(*string); ok {
		*s = textBody(body)
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return oops.New(err, "failed to decode response for %s", req.Name)
	}
	return nil
}

// forceLogout clears the session and announces it. Concurrent 401s for the
// same token only announce once, and a 401 for a call made without a token
// while nothing is stored announces nothing.
func (c *Client) forceLogout(ctx context.Context, sentToken string) {
	c.logoutMu.Lock()
	defer c.logoutMu.Unlock()

	current, err := c.sessions.Token(ctx)
	if err == nil && (current == "" || current != sentToken) {
		return
	}

	if err := c.sessions.Clear(ctx); err != nil {
		logging.ExtractLogger(ctx).Error().Err(err).Msg("failed to clear session after 401")
	}
	c.publish(events.Event{Kind: events.LogoutRequested, Reason: "unauthorized"})
}

func (c *Client) publish(ev events.Event) {
	if c.bus != nil {
		c.bus.Publish(ev)
	}
}

// errorMessage extracts a user-facing message: body "message", then "error",
// then the raw text body, then the generic failure.
func errorMessage(body []byte) string {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return GenericFailureMessage
	}

	var parsed map[string]any
	if err := json.Unmarshal(trimmed, &parsed); err == nil {
		for _, key := range []string{"message", "error"} {
			if s, ok := parsed[key].(string); ok && strings.TrimSpace(s) != "" {
				return s
			}
		}
		return GenericFailureMessage
	}

	var s string
	if err := json.Unmarshal(trimmed, &s); err == nil && s != "" {
		return s
	}
	return string(trimmed)
}

func textBody(body []byte) string {
	var s string
	if err := json.Unmarshal(body, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(body))
}
