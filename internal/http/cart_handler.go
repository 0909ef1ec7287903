package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/GilbertoM0/front-pagina-tienda/internal/domain"
)

// CartService is the slice of the cart service the handler needs.
type CartService interface {
	Get(ctx context.Context, sessionID string) (*domain.Cart, error)
	AddItem(ctx context.Context, sessionID string, productID int64) (*domain.Cart, error)
	ChangeQuantity(ctx context.Context, sessionID string, productID int64, delta int) (*domain.Cart, error)
	Clear(ctx context.Context, sessionID string) error
}

type CartHandler struct {
	carts   CartService
	timeout time.Duration
}

func NewCartHandler(carts CartService, timeout time.Duration) *CartHandler {
	return &CartHandler{
		carts:   carts,
		timeout: timeout,
	}
}

type AddItemRequestDTO struct {
	ProductID int64 `json:"product_id"`
}

type ChangeQuantityRequestDTO struct {
	Delta int `json:"delta"`
}

type CartDTO struct {
	Items []domain.CartItem `json:"items"`
	Total float64           `json:"total"`
	Size  int               `json:"size"`
}

func toCartDTO(cart *domain.Cart) CartDTO {
	items := cart.Items
	if items == nil {
		items = []domain.CartItem{}
	}
	return CartDTO{
		Items: items,
		Total: cart.Total(),
		Size:  cart.Size(),
	}
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sessionID := getSessionID(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusUnauthorized, "no_session", "missing session")
		return
	}

	cart, err := h.carts.Get(ctx, sessionID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "cart_unavailable", "could not load cart")
		return
	}

	respondJSON(w, http.StatusOK, toCartDTO(cart))
}

// AddItem drops in one unit of a product. An unknown product id leaves
// the cart untouched and still answers with the current cart.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sessionID := getSessionID(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusUnauthorized, "no_session", "missing session")
		return
	}

	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be positive")
		return
	}

	cart, err := h.carts.AddItem(ctx, sessionID, req.ProductID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "cart_unavailable", "could not update cart")
		return
	}

	respondJSON(w, http.StatusCreated, toCartDTO(cart))
}

// ChangeQuantity applies a signed delta to one line. Reaching zero
// removes the line; a delta for an absent line is a no-op.
func (h *CartHandler) ChangeQuantity(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sessionID := getSessionID(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusUnauthorized, "no_session", "missing session")
		return
	}

	productIDStr := chi.URLParam(r, "product_id")
	productID, err := strconv.ParseInt(productIDStr, 10, 64)
	if err != nil || productID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be a positive integer")
		return
	}

	var req ChangeQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Delta == 0 {
		respondError(w, http.StatusBadRequest, "invalid_delta", "delta must be non-zero")
		return
	}

	cart, err := h.carts.ChangeQuantity(ctx, sessionID, productID, req.Delta)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "cart_unavailable", "could not update cart")
		return
	}

	respondJSON(w, http.StatusOK, toCartDTO(cart))
}

// RemoveItem deletes a line outright regardless of its quantity.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sessionID := getSessionID(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusUnauthorized, "no_session", "missing session")
		return
	}

	productIDStr := chi.URLParam(r, "product_id")
	productID, err := strconv.ParseInt(productIDStr, 10, 64)
	if err != nil || productID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be a positive integer")
		return
	}

	cart, err := h.carts.ChangeQuantity(ctx, sessionID, productID, -(1 << 30))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "cart_unavailable", "could not update cart")
		return
	}

	respondJSON(w, http.StatusOK, toCartDTO(cart))
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sessionID := getSessionID(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusUnauthorized, "no_session", "missing session")
		return
	}

	if err := h.carts.Clear(ctx, sessionID); err != nil {
		respondError(w, http.StatusInternalServerError, "cart_unavailable", "could not clear cart")
		return
	}

	respondJSON(w, http.StatusOK, toCartDTO(&domain.Cart{SessionID: sessionID}))
}
