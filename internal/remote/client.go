// Package remote is the HTTP client for the sprintboard API.
//
// Every failure a call can produce (network error, non-2xx status, rejected
// token) is returned as a *domain.RemoteFailure whose message is safe to
// show to users.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/alexanderramin/sprintboard/internal/domain"
	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
)

// DefaultTimeout bounds a single API call.
const DefaultTimeout = 30 * time.Second

// Client talks to one API server with one bearer token. The token is fixed
// at construction: logging in or out means building a new Client.
type Client struct {
	baseURL  string
	token    string
	base     *http.Client
	http     *http.Client
	observer Observer
	timeout  time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the underlying HTTP client (for testing).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.base = hc }
}

// WithObserver reports every call to obs.
func WithObserver(obs Observer) Option {
	return func(c *Client) {
		if obs != nil {
			c.observer = obs
		}
	}
}

// WithTimeout overrides DefaultTimeout. Non-positive values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// New creates a client for baseURL, e.g. http://localhost:5000/api.
// An empty token yields an anonymous client that can only log in or register.
func New(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		token:    token,
		base:     http.DefaultClient,
		observer: NoopObserver{},
		timeout:  DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.http = c.base
	if token != "" {
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, c.base)
		c.http = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
			AccessToken: token,
			TokenType:   "Bearer",
		}))
	}
	return c
}

// BaseURL returns the API root the client was built for.
func (c *Client) BaseURL() string { return c.baseURL }

// Authenticated reports whether the client carries a token.
func (c *Client) Authenticated() bool { return c.token != "" }

func (c *Client) do(ctx context.Context, op, method, path string, body, out any) (err error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	status := 0
	defer func() {
		c.observer.ObserveCall(ctx, CallEvent{
			Op:       op,
			Method:   method,
			Path:     path,
			Status:   status,
			Duration: time.Since(start),
			Err:      err,
		})
	}()

	var rd io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		rd = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return &domain.RemoteFailure{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &domain.RemoteFailure{Op: op, Err: err}
	}
	defer resp.Body.Close()
	status = resp.StatusCode

	if err := googleapi.CheckResponse(resp); err != nil {
		return failure(op, status, err)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	err = json.NewDecoder(resp.Body).Decode(out)
	if errors.Is(err, io.EOF) && !returnsEntity(method) {
		return nil
	}
	if err != nil {
		return unexpected(op, status, fmt.Errorf("decode response: %w", err))
	}
	return nil
}

// returnsEntity reports whether a 2xx answer to method must carry the
// stored entity.
func returnsEntity(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return true
	}
	return false
}

func unexpected(op string, status int, err error) error {
	return &domain.RemoteFailure{
		Op:         op,
		StatusCode: status,
		Message:    "unexpected response from server",
		Err:        err,
	}
}

// failure maps a non-2xx response to a RemoteFailure, lifting the server's
// {"message": "..."} body when present.
func failure(op string, status int, err error) error {
	rf := &domain.RemoteFailure{Op: op, StatusCode: status, Err: err}
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		rf.StatusCode = gerr.Code
		rf.Message = serverMessage(gerr.Body)
		if rf.Message == "" {
			rf.Message = gerr.Message
		}
	}
	return rf
}

func serverMessage(body string) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal([]byte(body), &payload) != nil {
		return ""
	}
	if payload.Message != "" {
		return payload.Message
	}
	return payload.Error
}
