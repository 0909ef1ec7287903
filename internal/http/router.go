package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Catalog  *CatalogHandler
	Cart     *CartHandler
	Checkout *CheckoutHandler
	Auth     *AuthHandler
	Forecast *ForecastHandler
}

// NewRouter wires the storefront API under /api/v1 with the shared
// middleware chain.
func NewRouter(h Handlers, requestTimeout time.Duration) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestIDMiddleware)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.Compress(5))
	r.Use(SessionMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", h.Catalog.List)
			r.Get("/{product_id}", h.Catalog.GetProduct)
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", h.Cart.GetCart)
			r.Post("/items", h.Cart.AddItem)
			r.Put("/items/{product_id}", h.Cart.ChangeQuantity)
			r.Delete("/items/{product_id}", h.Cart.RemoveItem)
			r.Delete("/", h.Cart.ClearCart)
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Get("/", h.Checkout.State)
			r.Post("/method", h.Checkout.SelectMethod)
			r.Post("/pay", h.Checkout.Pay)
			r.Post("/complete", h.Checkout.Complete)
			r.Post("/cancel", h.Checkout.Cancel)
		})

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", h.Auth.Login)
			r.Post("/register", h.Auth.Register)
			r.Post("/logout", h.Auth.Logout)
			r.Get("/session", h.Auth.Session)
			r.Post("/forgot", h.Auth.Forgot)
			r.Post("/reset", h.Auth.Reset)
			r.Post("/verify-otp", h.Auth.VerifyOTP)
			r.Post("/resend-otp", h.Auth.ResendOTP)
		})

		r.Route("/forecast", func(r chi.Router) {
			r.Get("/", h.Forecast.Analysis)
			r.Post("/observations", h.Forecast.AddObservation)
		})
	})

	return r
}
