package http

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/GilbertoM0/front-pagina-tienda/internal/auth"
	"github.com/GilbertoM0/front-pagina-tienda/internal/domain"
	"github.com/GilbertoM0/front-pagina-tienda/internal/order"
	"github.com/GilbertoM0/front-pagina-tienda/internal/payment"
)

// redirectAfterMS is how long the page lingers on the success message
// before navigating back to the store.
const redirectAfterMS = 2000

// paypalCurrency matches the original checkout page's currency_code.
const paypalCurrency = "USD"

// OrderSubmitter posts built orders to the orders backend.
type OrderSubmitter interface {
	SubmitOptimistic(ctx context.Context, o *domain.Order, accessToken string)
}

// PaymentGateway is the slice of the gateway the handler needs.
type PaymentGateway interface {
	HostedConfigured() bool
	StripeKey() string
	CreateIntent(ctx context.Context, items []payment.IntentItem, billing payment.BillingDetails) (string, error)
	CreateWalletPreference(ctx context.Context, items []payment.PreferenceItem) (string, error)
	PayPalCheckoutURL(itemName string, amount float64, currency string) string
}

type CheckoutHandler struct {
	carts     CartService
	submitter OrderSubmitter
	gateway   PaymentGateway
	tokens    auth.TokenStore
	timeout   time.Duration
	log       logrus.FieldLogger

	mu        sync.Mutex
	selectors map[string]*payment.Selector
}

func NewCheckoutHandler(carts CartService, submitter OrderSubmitter, gateway PaymentGateway, tokens auth.TokenStore, timeout time.Duration, log logrus.FieldLogger) *CheckoutHandler {
	return &CheckoutHandler{
		carts:     carts,
		submitter: submitter,
		gateway:   gateway,
		tokens:    tokens,
		timeout:   timeout,
		log:       log,
		selectors: make(map[string]*payment.Selector),
	}
}

// fail and handoff wrap the selector transitions whose errors have no
// caller-visible meaning here; the transitions are guarded by the
// handler flow, so a failure only gets logged.
func (h *CheckoutHandler) fail(s *payment.Selector) {
	if err := s.Fail(); err != nil {
		h.log.WithError(err).Warn("could not mark submission failed")
	}
}

func (h *CheckoutHandler) handoff(s *payment.Selector) {
	if err := s.Handoff(); err != nil {
		h.log.WithError(err).Warn("could not mark submission handed off")
	}
}

// selector returns the per-session tab state, creating it on first use.
func (h *CheckoutHandler) selector(sessionID string) *payment.Selector {
	h.mu.Lock()
	defer h.mu.Unlock()
	s, ok := h.selectors[sessionID]
	if !ok {
		s = payment.NewSelector(h.gateway.HostedConfigured())
		h.selectors[sessionID] = s
	}
	return s
}

type CheckoutStateDTO struct {
	Method    payment.Method           `json:"method"`
	Status    payment.SubmissionStatus `json:"status"`
	Hosted    bool                     `json:"hosted"`
	StripeKey string                   `json:"stripe_key,omitempty"`
}

type SelectMethodRequestDTO struct {
	Method payment.Method `json:"method"`
}

type PayRequestDTO struct {
	Name       string `json:"name"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
	Number     string `json:"card_number"`
	Expiry     string `json:"expiry"`
	CVC        string `json:"cvc"`
}

func (r PayRequestDTO) cardForm() payment.CardForm {
	return payment.CardForm{
		Name:       r.Name,
		PostalCode: r.PostalCode,
		Country:    r.Country,
		Number:     r.Number,
		Expiry:     r.Expiry,
		CVC:        r.CVC,
	}
}

type PayResponseDTO struct {
	Status          payment.SubmissionStatus `json:"status"`
	Order           *domain.Order            `json:"order,omitempty"`
	RedirectURL     string                   `json:"redirect_url,omitempty"`
	ClientSecret    string                   `json:"client_secret,omitempty"`
	RedirectAfterMS int                      `json:"redirect_after_ms,omitempty"`
}

func (h *CheckoutHandler) State(w http.ResponseWriter, r *http.Request) {
	sessionID := getSessionID(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusUnauthorized, "no_session", "missing session")
		return
	}

	s := h.selector(sessionID)
	dto := CheckoutStateDTO{
		Method: s.Method(),
		Status: s.Status(),
		Hosted: s.Hosted(),
	}
	if s.Hosted() {
		dto.StripeKey = h.gateway.StripeKey()
	}
	respondJSON(w, http.StatusOK, dto)
}

// SelectMethod switches the active payment tab.
func (h *CheckoutHandler) SelectMethod(w http.ResponseWriter, r *http.Request) {
	sessionID := getSessionID(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusUnauthorized, "no_session", "missing session")
		return
	}

	var req SelectMethodRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	s := h.selector(sessionID)
	if err := s.Select(req.Method); err != nil {
		respondError(w, http.StatusBadRequest, "unknown_method", "unknown payment method")
		return
	}

	respondJSON(w, http.StatusOK, CheckoutStateDTO{Method: s.Method(), Status: s.Status(), Hosted: s.Hosted()})
}

// Pay runs one submission for the active method. Card payments without a
// hosted widget settle entirely here; hosted card payments come back with
// a client secret and finish in Complete; wallet methods come back with a
// redirect URL.
func (h *CheckoutHandler) Pay(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sessionID := getSessionID(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusUnauthorized, "no_session", "missing session")
		return
	}

	var req PayRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	cart, err := h.carts.Get(ctx, sessionID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "cart_unavailable", "could not load cart")
		return
	}
	if cart.IsEmpty() {
		respondError(w, http.StatusBadRequest, "empty_cart", "the cart is empty")
		return
	}

	s := h.selector(sessionID)
	if err := s.Begin(); err != nil {
		switch {
		case errors.Is(err, payment.ErrSubmissionInFlight):
			respondError(w, http.StatusConflict, "submission_in_flight", "a payment is already processing")
		default:
			respondError(w, http.StatusConflict, "already_paid", "payment already succeeded")
		}
		return
	}

	switch s.Method() {
	case payment.MethodCard:
		h.payCard(ctx, w, r, sessionID, s, req, cart)
	case payment.MethodPayPal:
		h.payPayPal(w, s, cart)
	case payment.MethodMercadoPago:
		h.payMercadoPago(ctx, w, s, cart)
	}
}

func (h *CheckoutHandler) payCard(ctx context.Context, w http.ResponseWriter, r *http.Request, sessionID string, s *payment.Selector, req PayRequestDTO, cart *domain.Cart) {
	form := req.cardForm()

	if s.Hosted() {
		if err := form.ValidateHosted(); err != nil {
			h.fail(s)
			respondError(w, http.StatusBadRequest, "invalid_card_form", err.Error())
			return
		}
		items := make([]payment.IntentItem, 0, len(cart.Items))
		for _, it := range cart.Items {
			items = append(items, payment.IntentItem{ID: fmt.Sprint(it.ProductID)})
		}
		secret, err := h.gateway.CreateIntent(ctx, items, payment.BillingDetails{
			Name:       form.Name,
			PostalCode: form.PostalCode,
		})
		if err != nil {
			h.fail(s)
			h.log.WithError(err).Warn("payment intent failed")
			respondError(w, http.StatusBadGateway, "payment_unavailable", "could not open payment")
			return
		}
		h.handoff(s)
		respondJSON(w, http.StatusOK, PayResponseDTO{Status: s.Status(), ClientSecret: secret})
		return
	}

	if err := form.ValidateManual(); err != nil {
		h.fail(s)
		respondError(w, http.StatusBadRequest, "invalid_card_form", err.Error())
		return
	}

	h.finishOrder(ctx, w, r, sessionID, s, cart)
}

func (h *CheckoutHandler) payPayPal(w http.ResponseWriter, s *payment.Selector, cart *domain.Cart) {
	itemName := "Pedido Coffeu"
	if len(cart.Items) == 1 {
		itemName = cart.Items[0].Name
	}
	url := h.gateway.PayPalCheckoutURL(itemName, round2(cart.Total()), paypalCurrency)
	h.handoff(s)
	respondJSON(w, http.StatusOK, PayResponseDTO{Status: s.Status(), RedirectURL: url})
}

func (h *CheckoutHandler) payMercadoPago(ctx context.Context, w http.ResponseWriter, s *payment.Selector, cart *domain.Cart) {
	items := make([]payment.PreferenceItem, 0, len(cart.Items))
	for _, it := range cart.Items {
		items = append(items, payment.PreferenceItem{
			ID:       fmt.Sprint(it.ProductID),
			Title:    it.Name,
			Quantity: it.Quantity,
			Price:    it.Price,
		})
	}
	initPoint, err := h.gateway.CreateWalletPreference(ctx, items)
	if err != nil {
		h.fail(s)
		h.log.WithError(err).Warn("wallet preference failed")
		respondError(w, http.StatusBadGateway, "payment_unavailable", "could not open payment")
		return
	}
	h.handoff(s)
	respondJSON(w, http.StatusOK, PayResponseDTO{Status: s.Status(), RedirectURL: initPoint})
}

// Cancel abandons an in-flight submission, typically after the buyer
// backs out of a wallet redirect or the hosted widget.
func (h *CheckoutHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	sessionID := getSessionID(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusUnauthorized, "no_session", "missing session")
		return
	}

	s := h.selector(sessionID)
	if err := s.Cancel(); err != nil {
		respondError(w, http.StatusConflict, "not_processing", "no payment in flight")
		return
	}

	respondJSON(w, http.StatusOK, CheckoutStateDTO{Method: s.Method(), Status: s.Status(), Hosted: s.Hosted()})
}

// Complete finalizes a hosted card payment once the widget has confirmed
// it in the browser.
func (h *CheckoutHandler) Complete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sessionID := getSessionID(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusUnauthorized, "no_session", "missing session")
		return
	}

	s := h.selector(sessionID)
	if s.Status() != payment.SubmissionProcessing {
		respondError(w, http.StatusConflict, "not_processing", "no payment in flight")
		return
	}

	cart, err := h.carts.Get(ctx, sessionID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "cart_unavailable", "could not load cart")
		return
	}
	if cart.IsEmpty() {
		h.fail(s)
		respondError(w, http.StatusBadRequest, "empty_cart", "the cart is empty")
		return
	}

	h.finishOrder(ctx, w, r, sessionID, s, cart)
}

// finishOrder builds the pending order, fires it at the orders backend
// without waiting on the outcome, marks the submission settled, and
// empties the cart.
func (h *CheckoutHandler) finishOrder(ctx context.Context, w http.ResponseWriter, r *http.Request, sessionID string, s *payment.Selector, cart *domain.Cart) {
	o, err := order.Build(cart)
	if err != nil {
		h.fail(s)
		respondError(w, http.StatusBadRequest, "empty_cart", "the cart is empty")
		return
	}

	accessToken := ""
	if tokens, err := h.tokens.Load(ctx, sessionID); err == nil {
		accessToken = tokens.AccessToken
	}
	h.submitter.SubmitOptimistic(ctx, o, accessToken)

	if err := s.Succeed(); err != nil {
		respondError(w, http.StatusConflict, "not_processing", "no payment in flight")
		return
	}

	if err := h.carts.Clear(ctx, sessionID); err != nil {
		h.log.WithError(err).WithField("request_id", getRequestID(r.Context())).
			Warn("failed to clear cart after checkout")
	}

	respondJSON(w, http.StatusOK, PayResponseDTO{
		Status:          s.Status(),
		Order:           o,
		RedirectAfterMS: redirectAfterMS,
	})
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
