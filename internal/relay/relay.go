package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// ErrHTMLResponse means the relay answered with its own HTML error page
// instead of forwarding the backend's JSON.
var ErrHTMLResponse = errors.New("relay returned HTML instead of JSON")

// StatusError is a non-2xx backend answer. Body keeps the raw payload so
// callers can parse structured error fields out of it.
type StatusError struct {
	Code int
	Body []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.Code, http.StatusText(e.Code))
}

// Client issues outbound HTTP calls, optionally rewritten through a public
// CORS relay, behind a circuit breaker shared by all backend clients.
type Client struct {
	http     *http.Client
	relayURL string
	useRelay bool
	breaker  *gobreaker.CircuitBreaker[*http.Response]
}

type Options struct {
	RelayURL string
	UseRelay bool
	Timeout  time.Duration
}

func New(opts Options) *Client {
	if opts.Timeout == 0 {
		opts.Timeout = 15 * time.Second
	}
	breaker := gobreaker.NewCircuitBreaker[*http.Response](gobreaker.Settings{
		Name:        "backend-relay",
		MaxRequests: 3,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})
	return &Client{
		http: &http.Client{
			Timeout:   opts.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		relayURL: opts.RelayURL,
		useRelay: opts.UseRelay,
		breaker:  breaker,
	}
}

// Endpoint rewrites a backend URL through the relay when relaying is on.
func (c *Client) Endpoint(target string) string {
	if !c.useRelay || c.relayURL == "" {
		return target
	}
	return c.relayURL + url.QueryEscape(target)
}

// Do sends the request through the circuit breaker. An open breaker fails
// fast with gobreaker.ErrOpenState; callers fall back the same way they
// would on a network error.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	return c.breaker.Execute(func() (*http.Response, error) {
		return c.http.Do(req)
	})
}

// GetJSON fetches target (via the relay) and decodes the JSON body into
// out. Non-2xx statuses come back as *StatusError.
func (c *Client) GetJSON(ctx context.Context, target string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.Endpoint(target), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.Do(req)
	if err != nil {
		return fmt.Errorf("get %s: %w", target, err)
	}
	defer resp.Body.Close()

	return decodeJSON(resp, out)
}

// PostJSON posts body as JSON to target. extraHeader entries are added to
// the request; out may be nil when the response body is irrelevant.
func (c *Client) PostJSON(ctx context.Context, target string, body, out interface{}, extraHeader http.Header) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint(target), bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for key, values := range extraHeader {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	resp, err := c.Do(req)
	if err != nil {
		return fmt.Errorf("post %s: %w", target, err)
	}
	defer resp.Body.Close()

	if out == nil {
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			raw, _ := io.ReadAll(resp.Body)
			return &StatusError{Code: resp.StatusCode, Body: raw}
		}
		return nil
	}
	return decodeJSON(resp, out)
}

func decodeJSON(resp *http.Response, out interface{}) error {
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(resp.Body)
		return &StatusError{Code: resp.StatusCode, Body: raw}
	}
	if ct := resp.Header.Get("Content-Type"); strings.Contains(ct, "text/html") {
		return ErrHTMLResponse
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
