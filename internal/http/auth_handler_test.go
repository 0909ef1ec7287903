package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GilbertoM0/front-pagina-tienda/internal/auth"
)

func authRequest(t *testing.T, method, target string, body interface{}) *http.Request {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	request := httptest.NewRequest(method, target, bytes.NewReader(raw))
	return request.WithContext(sessionCtx(request.Context(), "s1"))
}

func TestAuthHandler_Login_SavesTokens(t *testing.T) {
	client := &mockAuthClient{loginResult: &auth.LoginResult{
		Tokens: auth.TokenPair{AccessToken: "acc", RefreshToken: "ref"},
		User:   auth.User{ID: 9, Username: "gil", Email: "gil@tienda.example"},
	}}
	tokens := auth.NewMemoryTokenStore()
	handler := NewAuthHandler(client, tokens, 5*time.Second, testLogger())

	recorder := httptest.NewRecorder()
	handler.Login(recorder, authRequest(t, "POST", "/login", LoginRequestDTO{
		Identifier: "gil", Password: "secret",
	}))

	require.Equal(t, http.StatusOK, recorder.Code)
	var resp LoginResponseDTO
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
	assert.True(t, resp.LoggedIn)
	assert.Equal(t, "gil", resp.User.Username)

	saved, err := tokens.Load(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, "acc", saved.AccessToken)
}

func TestAuthHandler_Login_AccountNotFound(t *testing.T) {
	client := &mockAuthClient{loginErr: auth.ErrAccountNotFound}
	handler := NewAuthHandler(client, auth.NewMemoryTokenStore(), 5*time.Second, testLogger())

	recorder := httptest.NewRecorder()
	handler.Login(recorder, authRequest(t, "POST", "/login", LoginRequestDTO{
		Identifier: "nadie@tienda.example", Password: "secret",
	}))

	require.Equal(t, http.StatusNotFound, recorder.Code)
	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
	assert.Equal(t, "account_not_found", resp.Code)
	assert.Equal(t, "El Correo no Existe", resp.Error)
}

func TestAuthHandler_Login_BackendDetailSurfaces(t *testing.T) {
	client := &mockAuthClient{loginErr: &auth.BackendError{Detail: "credenciales inválidas"}}
	handler := NewAuthHandler(client, auth.NewMemoryTokenStore(), 5*time.Second, testLogger())

	recorder := httptest.NewRecorder()
	handler.Login(recorder, authRequest(t, "POST", "/login", LoginRequestDTO{
		Identifier: "gil", Password: "wrong",
	}))

	require.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "credenciales inválidas")
}

func TestAuthHandler_Login_MissingCredentials(t *testing.T) {
	handler := NewAuthHandler(&mockAuthClient{}, auth.NewMemoryTokenStore(), 5*time.Second, testLogger())

	recorder := httptest.NewRecorder()
	handler.Login(recorder, authRequest(t, "POST", "/login", LoginRequestDTO{Identifier: " "}))

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestAuthHandler_Register_Conflicts(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		wantCode string
	}{
		{"email taken", auth.ErrEmailTaken, "email_taken"},
		{"username taken", auth.ErrUsernameTaken, "username_taken"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client := &mockAuthClient{registerErr: tc.err}
			handler := NewAuthHandler(client, auth.NewMemoryTokenStore(), 5*time.Second, testLogger())

			recorder := httptest.NewRecorder()
			handler.Register(recorder, authRequest(t, "POST", "/register", RegisterRequestDTO{
				Email: "gil@tienda.example", Username: "gil", Password: "secret",
			}))

			require.Equal(t, http.StatusConflict, recorder.Code)
			var resp ErrorResponse
			require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
			assert.Equal(t, tc.wantCode, resp.Code)
		})
	}
}

func TestAuthHandler_Register_Success(t *testing.T) {
	handler := NewAuthHandler(&mockAuthClient{}, auth.NewMemoryTokenStore(), 5*time.Second, testLogger())

	recorder := httptest.NewRecorder()
	handler.Register(recorder, authRequest(t, "POST", "/register", RegisterRequestDTO{
		Email: "gil@tienda.example", Username: "gil", Password: "secret",
	}))

	assert.Equal(t, http.StatusCreated, recorder.Code)
}

func TestAuthHandler_LogoutClearsTokens(t *testing.T) {
	tokens := auth.NewMemoryTokenStore()
	require.NoError(t, tokens.Save(context.Background(), "s1", auth.TokenPair{AccessToken: "acc"}))
	handler := NewAuthHandler(&mockAuthClient{}, tokens, 5*time.Second, testLogger())

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("POST", "/logout", nil)
	request = request.WithContext(sessionCtx(request.Context(), "s1"))
	handler.Logout(recorder, request)

	require.Equal(t, http.StatusOK, recorder.Code)
	_, err := tokens.Load(context.Background(), "s1")
	assert.ErrorIs(t, err, auth.ErrTokensNotFound)
}

func TestAuthHandler_Logout_NoTokensIsFine(t *testing.T) {
	handler := NewAuthHandler(&mockAuthClient{}, auth.NewMemoryTokenStore(), 5*time.Second, testLogger())

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("POST", "/logout", nil)
	request = request.WithContext(sessionCtx(request.Context(), "s1"))
	handler.Logout(recorder, request)

	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestAuthHandler_Session(t *testing.T) {
	tokens := auth.NewMemoryTokenStore()
	handler := NewAuthHandler(&mockAuthClient{}, tokens, 5*time.Second, testLogger())

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("GET", "/session", nil)
	request = request.WithContext(sessionCtx(request.Context(), "s1"))
	handler.Session(recorder, request)
	assert.Contains(t, recorder.Body.String(), `"logged_in":false`)

	require.NoError(t, tokens.Save(context.Background(), "s1", auth.TokenPair{AccessToken: "acc"}))
	recorder = httptest.NewRecorder()
	handler.Session(recorder, request)
	assert.Contains(t, recorder.Body.String(), `"logged_in":true`)
}

func TestAuthHandler_ForgotAndReset(t *testing.T) {
	handler := NewAuthHandler(&mockAuthClient{}, auth.NewMemoryTokenStore(), 5*time.Second, testLogger())

	recorder := httptest.NewRecorder()
	handler.Forgot(recorder, authRequest(t, "POST", "/forgot", ForgotRequestDTO{Email: "gil@tienda.example"}))
	assert.Equal(t, http.StatusOK, recorder.Code)

	recorder = httptest.NewRecorder()
	handler.Reset(recorder, authRequest(t, "POST", "/reset", ResetRequestDTO{
		Email: "gil@tienda.example", OTP: "123456", Password: "newpass",
	}))
	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestAuthHandler_VerifyOTP(t *testing.T) {
	handler := NewAuthHandler(&mockAuthClient{otpValid: true}, auth.NewMemoryTokenStore(), 5*time.Second, testLogger())

	recorder := httptest.NewRecorder()
	handler.VerifyOTP(recorder, authRequest(t, "POST", "/verify-otp", OTPRequestDTO{Code: "123456"}))
	assert.Equal(t, http.StatusOK, recorder.Code)

	handler = NewAuthHandler(&mockAuthClient{otpValid: false}, auth.NewMemoryTokenStore(), 5*time.Second, testLogger())
	recorder = httptest.NewRecorder()
	handler.VerifyOTP(recorder, authRequest(t, "POST", "/verify-otp", OTPRequestDTO{Code: "000000"}))
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}
