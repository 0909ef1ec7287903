package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/GilbertoM0/front-pagina-tienda/internal/relay"
)

// Sentinel errors for the field-specific failures the UI renders next to
// inputs instead of in the generic banner.
var (
	ErrAccountNotFound    = errors.New("account does not exist")
	ErrEmailTaken         = errors.New("email already registered")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrUnexpectedResponse = errors.New("unexpected response from auth backend")
)

// BackendError carries the server's own detail/error string for the
// generic error banner.
type BackendError struct {
	Detail string
}

func (e *BackendError) Error() string {
	return e.Detail
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type User struct {
	ID       int64  `json:"id"`
	Username string `json:"nombre_usuario"`
	Email    string `json:"email"`
	Phone    string `json:"telefono_celular"`
}

type LoginResult struct {
	Tokens TokenPair
	User   User
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Phone    string `json:"phone_number"`
	Password string `json:"password"`
}

// Client talks to the remote identity endpoints under a single base URL.
type Client struct {
	relay *relay.Client
	base  string
}

func NewClient(relayClient *relay.Client, baseURL string) *Client {
	return &Client{relay: relayClient, base: strings.TrimRight(baseURL, "/")}
}

type errorPayload struct {
	Detail   string          `json:"detail"`
	Error    string          `json:"error"`
	Message  string          `json:"message"`
	Email    json.RawMessage `json:"email"`
	Username json.RawMessage `json:"username"`
}

func (p errorPayload) text() string {
	if p.Error != "" {
		return p.Error
	}
	if p.Detail != "" {
		return p.Detail
	}
	return p.Message
}

// Login exchanges an identifier (username or email) plus password for a
// token pair. A 404 or a "does not exist" style message comes back as
// ErrAccountNotFound so the UI can flag the identifier field specifically.
func (c *Client) Login(ctx context.Context, identifier, password string) (*LoginResult, error) {
	body := map[string]string{
		"identificador": identifier,
		"password":      password,
	}

	var resp struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
		User         User   `json:"user"`
	}
	err := c.relay.PostJSON(ctx, c.base+"/login/", body, &resp, nil)
	if err != nil {
		var statusErr *relay.StatusError
		if errors.As(err, &statusErr) {
			var payload errorPayload
			_ = json.Unmarshal(statusErr.Body, &payload)
			if isNotFound(statusErr.Code, payload.text()) {
				return nil, ErrAccountNotFound
			}
			return nil, backendErr(payload, statusErr)
		}
		return nil, fmt.Errorf("login request: %w", err)
	}

	if resp.AccessToken == "" || resp.RefreshToken == "" {
		return nil, ErrUnexpectedResponse
	}
	return &LoginResult{
		Tokens: TokenPair{AccessToken: resp.AccessToken, RefreshToken: resp.RefreshToken},
		User:   resp.User,
	}, nil
}

// isNotFound mirrors the storefront's loose matching: backends disagree on
// how they phrase "that account does not exist".
func isNotFound(status int, message string) bool {
	if status == http.StatusNotFound {
		return true
	}
	lower := strings.ToLower(message)
	return strings.Contains(lower, "no existe") ||
		strings.Contains(lower, "no encontrado") ||
		strings.Contains(lower, "not found") ||
		(strings.Contains(lower, "correo") && strings.Contains(lower, "no"))
}

func backendErr(payload errorPayload, statusErr *relay.StatusError) error {
	if text := payload.text(); text != "" {
		return &BackendError{Detail: text}
	}
	return &BackendError{Detail: statusErr.Error()}
}

// Register creates an account. Field conflicts (email or username already
// taken) map to their sentinels.
func (c *Client) Register(ctx context.Context, req RegisterRequest) error {
	err := c.relay.PostJSON(ctx, c.base+"/registro/", req, nil, nil)
	if err == nil {
		return nil
	}

	var statusErr *relay.StatusError
	if !errors.As(err, &statusErr) {
		return fmt.Errorf("register request: %w", err)
	}

	var payload errorPayload
	_ = json.Unmarshal(statusErr.Body, &payload)
	switch {
	case payload.Detail != "":
		return &BackendError{Detail: payload.Detail}
	case len(payload.Email) > 0:
		return ErrEmailTaken
	case len(payload.Username) > 0:
		return ErrUsernameTaken
	default:
		return backendErr(payload, statusErr)
	}
}

// Forgot triggers out-of-band delivery of a reset code.
func (c *Client) Forgot(ctx context.Context, email string) error {
	err := c.relay.PostJSON(ctx, c.base+"/forgot/", map[string]string{"email": email}, nil, nil)
	if err == nil {
		return nil
	}
	var statusErr *relay.StatusError
	if errors.As(err, &statusErr) {
		return &BackendError{Detail: "could not send the reset code, check that the email exists"}
	}
	return fmt.Errorf("forgot request: %w", err)
}

// Reset completes the password reset with the emailed code.
func (c *Client) Reset(ctx context.Context, email, code, password string) error {
	body := map[string]string{
		"email":    email,
		"otp":      code,
		"password": password,
	}
	err := c.relay.PostJSON(ctx, c.base+"/reset/", body, nil, nil)
	if err == nil {
		return nil
	}

	var statusErr *relay.StatusError
	if !errors.As(err, &statusErr) {
		return fmt.Errorf("reset request: %w", err)
	}
	var payload errorPayload
	_ = json.Unmarshal(statusErr.Body, &payload)
	if text := payload.text(); text != "" {
		return &BackendError{Detail: text}
	}
	return &BackendError{Detail: "invalid or expired code"}
}

// VerifyOTP checks a one-time code; the backend answers with a success flag.
func (c *Client) VerifyOTP(ctx context.Context, code string) (bool, error) {
	var resp struct {
		Success bool `json:"success"`
	}
	if err := c.relay.PostJSON(ctx, c.base+"/verify-otp/", map[string]string{"otp": code}, &resp, nil); err != nil {
		return false, fmt.Errorf("verify otp: %w", err)
	}
	return resp.Success, nil
}

// ResendOTP asks for a fresh code.
func (c *Client) ResendOTP(ctx context.Context) error {
	var resp struct {
		Success bool `json:"success"`
	}
	if err := c.relay.PostJSON(ctx, c.base+"/resend-otp/", struct{}{}, &resp, nil); err != nil {
		return fmt.Errorf("resend otp: %w", err)
	}
	if !resp.Success {
		return &BackendError{Detail: "failed to resend code"}
	}
	return nil
}
