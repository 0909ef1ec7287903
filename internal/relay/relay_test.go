package relay

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEndpoint_RelayEnabled(t *testing.T) {
	c := New(Options{RelayURL: "https://relay.example/?", UseRelay: true})
	got := c.Endpoint("https://api.example/products/")
	assert.Equal(t, "https://relay.example/?"+url.QueryEscape("https://api.example/products/"), got)
}

func TestEndpoint_RelayDisabled(t *testing.T) {
	c := New(Options{RelayURL: "https://relay.example/?", UseRelay: false})
	assert.Equal(t, "https://api.example/products/", c.Endpoint("https://api.example/products/"))
}

func TestGetJSON_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"name":"latte"}`))
	}))
	defer srv.Close()

	c := New(Options{})
	var out struct {
		Name string `json:"name"`
	}
	err := c.GetJSON(context.Background(), srv.URL, &out)
	require.NoError(t, err)
	assert.Equal(t, "latte", out.Name)
}

func TestGetJSON_HTMLBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(`<html>relay error</html>`))
	}))
	defer srv.Close()

	c := New(Options{})
	var out map[string]interface{}
	err := c.GetJSON(context.Background(), srv.URL, &out)
	assert.ErrorIs(t, err, ErrHTMLResponse)
}

func TestGetJSON_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusMethodNotAllowed)
		w.Write([]byte(`{"detail":"GET not allowed"}`))
	}))
	defer srv.Close()

	c := New(Options{})
	var out map[string]interface{}
	err := c.GetJSON(context.Background(), srv.URL, &out)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusMethodNotAllowed, statusErr.Code)
	assert.Contains(t, string(statusErr.Body), "GET not allowed")
}

func TestPostJSON_ForwardsHeadersAndBody(t *testing.T) {
	var gotAuth, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		raw, _ := io.ReadAll(r.Body)
		gotBody = string(raw)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c := New(Options{})
	header := http.Header{}
	header.Set("Authorization", "Bearer token123")
	var out struct {
		OK bool `json:"ok"`
	}
	err := c.PostJSON(context.Background(), srv.URL, map[string]string{"estado": "pendiente"}, &out, header)
	require.NoError(t, err)
	assert.True(t, out.OK)
	assert.Equal(t, "Bearer token123", gotAuth)
	assert.Contains(t, gotBody, `"estado":"pendiente"`)
}

func TestDo_BreakerOpensAfterConsecutiveFailures(t *testing.T) {
	c := New(Options{})

	// Unroutable address; every call fails at the transport.
	for i := 0; i < 5; i++ {
		req, _ := http.NewRequest(http.MethodGet, "http://127.0.0.1:1", nil)
		_, err := c.Do(req)
		require.Error(t, err)
	}

	req, _ := http.NewRequest(http.MethodGet, "http://127.0.0.1:1", nil)
	_, err := c.Do(req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "circuit breaker is open")
}
