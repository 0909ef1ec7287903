package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionMiddleware_IssuesCookie(t *testing.T) {
	var seen string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = getSessionID(r.Context())
	})

	recorder := httptest.NewRecorder()
	SessionMiddleware(next).ServeHTTP(recorder, httptest.NewRequest("GET", "/", nil))

	require.NotEmpty(t, seen)
	cookies := recorder.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, sessionCookieName, cookies[0].Name)
	assert.Equal(t, seen, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
}

func TestSessionMiddleware_KeepsExistingCookie(t *testing.T) {
	var seen string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = getSessionID(r.Context())
	})

	request := httptest.NewRequest("GET", "/", nil)
	request.AddCookie(&http.Cookie{Name: sessionCookieName, Value: "existing-session"})
	recorder := httptest.NewRecorder()
	SessionMiddleware(next).ServeHTTP(recorder, request)

	assert.Equal(t, "existing-session", seen)
	assert.Empty(t, recorder.Result().Cookies())
}

func TestRequestIDMiddleware(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, getRequestID(r.Context()))
	})

	recorder := httptest.NewRecorder()
	RequestIDMiddleware(next).ServeHTTP(recorder, httptest.NewRequest("GET", "/", nil))
	assert.NotEmpty(t, recorder.Header().Get("X-Request-ID"))

	request := httptest.NewRequest("GET", "/", nil)
	request.Header.Set("X-Request-ID", "req-fixed")
	recorder = httptest.NewRecorder()
	RequestIDMiddleware(next).ServeHTTP(recorder, request)
	assert.Equal(t, "req-fixed", recorder.Header().Get("X-Request-ID"))
}
