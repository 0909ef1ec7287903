package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/GilbertoM0/front-pagina-tienda/internal/auth"
)

// AuthClient is the slice of the identity client the handler needs.
type AuthClient interface {
	Login(ctx context.Context, identifier, password string) (*auth.LoginResult, error)
	Register(ctx context.Context, req auth.RegisterRequest) error
	Forgot(ctx context.Context, email string) error
	Reset(ctx context.Context, email, code, password string) error
	VerifyOTP(ctx context.Context, code string) (bool, error)
	ResendOTP(ctx context.Context) error
}

type AuthHandler struct {
	client  AuthClient
	tokens  auth.TokenStore
	timeout time.Duration
	log     logrus.FieldLogger
}

func NewAuthHandler(client AuthClient, tokens auth.TokenStore, timeout time.Duration, log logrus.FieldLogger) *AuthHandler {
	return &AuthHandler{
		client:  client,
		tokens:  tokens,
		timeout: timeout,
		log:     log,
	}
}

type LoginRequestDTO struct {
	Identifier string `json:"identificador"`
	Password   string `json:"password"`
}

type LoginResponseDTO struct {
	User     auth.User `json:"user"`
	LoggedIn bool      `json:"logged_in"`
}

type RegisterRequestDTO struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Phone    string `json:"phone_number"`
	Password string `json:"password"`
}

type ForgotRequestDTO struct {
	Email string `json:"email"`
}

type ResetRequestDTO struct {
	Email    string `json:"email"`
	OTP      string `json:"otp"`
	Password string `json:"password"`
}

type OTPRequestDTO struct {
	Code string `json:"otp"`
}

// Login exchanges credentials for tokens and parks them server side under
// the browser session. An unknown account comes back as a field error so
// the page can mark the identifier input; everything else lands in the
// generic banner.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sessionID := getSessionID(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusUnauthorized, "no_session", "missing session")
		return
	}

	var req LoginRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Identifier) == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "missing_credentials", "identifier and password are required")
		return
	}

	result, err := h.client.Login(ctx, req.Identifier, req.Password)
	if err != nil {
		h.respondAuthError(w, r, err, "login failed")
		return
	}

	if err := h.tokens.Save(ctx, sessionID, result.Tokens); err != nil {
		h.log.WithError(err).Error("failed to persist tokens")
		respondError(w, http.StatusInternalServerError, "session_error", "could not persist session tokens")
		return
	}

	respondJSON(w, http.StatusOK, LoginResponseDTO{User: result.User, LoggedIn: true})
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req RegisterRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Email == "" || req.Username == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "missing_fields", "email, username and password are required")
		return
	}

	err := h.client.Register(ctx, auth.RegisterRequest{
		Email:    req.Email,
		Username: req.Username,
		Phone:    req.Phone,
		Password: req.Password,
	})
	if err != nil {
		h.respondAuthError(w, r, err, "registration failed")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]bool{"registered": true})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sessionID := getSessionID(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusUnauthorized, "no_session", "missing session")
		return
	}

	if err := h.tokens.Clear(ctx, sessionID); err != nil && !errors.Is(err, auth.ErrTokensNotFound) {
		respondError(w, http.StatusInternalServerError, "session_error", "could not clear session tokens")
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"logged_in": false})
}

func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sessionID := getSessionID(r.Context())
	if sessionID == "" {
		respondJSON(w, http.StatusOK, map[string]bool{"logged_in": false})
		return
	}

	_, err := h.tokens.Load(ctx, sessionID)
	respondJSON(w, http.StatusOK, map[string]bool{"logged_in": err == nil})
}

func (h *AuthHandler) Forgot(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req ForgotRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Email == "" {
		respondError(w, http.StatusBadRequest, "missing_email", "email is required")
		return
	}

	if err := h.client.Forgot(ctx, req.Email); err != nil {
		h.respondAuthError(w, r, err, "could not start password reset")
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"sent": true})
}

func (h *AuthHandler) Reset(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req ResetRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Email == "" || req.OTP == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "missing_fields", "email, otp and password are required")
		return
	}

	if err := h.client.Reset(ctx, req.Email, req.OTP, req.Password); err != nil {
		h.respondAuthError(w, r, err, "could not reset password")
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"reset": true})
}

func (h *AuthHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req OTPRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Code == "" {
		respondError(w, http.StatusBadRequest, "missing_otp", "otp is required")
		return
	}

	ok, err := h.client.VerifyOTP(ctx, req.Code)
	if err != nil {
		h.respondAuthError(w, r, err, "could not verify code")
		return
	}
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid_otp", "the code is not valid")
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"verified": true})
}

func (h *AuthHandler) ResendOTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.client.ResendOTP(ctx); err != nil {
		h.respondAuthError(w, r, err, "could not resend code")
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"sent": true})
}

// respondAuthError maps the client's error taxonomy onto the wire: field
// sentinels get stable codes the page renders next to inputs, a
// BackendError surfaces its own message, and anything else is the
// opaque fallback.
func (h *AuthHandler) respondAuthError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	var backendErr *auth.BackendError
	switch {
	case errors.Is(err, auth.ErrAccountNotFound):
		respondError(w, http.StatusNotFound, "account_not_found", "El Correo no Existe")
	case errors.Is(err, auth.ErrEmailTaken):
		respondError(w, http.StatusConflict, "email_taken", "el correo ya está registrado")
	case errors.Is(err, auth.ErrUsernameTaken):
		respondError(w, http.StatusConflict, "username_taken", "el nombre de usuario ya está en uso")
	case errors.As(err, &backendErr):
		respondError(w, http.StatusBadRequest, "backend_rejected", backendErr.Detail)
	default:
		h.log.WithError(err).WithField("request_id", getRequestID(r.Context())).Warn(fallback)
		respondError(w, http.StatusBadGateway, "auth_unavailable", fallback)
	}
}
