package http

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/GilbertoM0/front-pagina-tienda/internal/catalog"
	"github.com/GilbertoM0/front-pagina-tienda/internal/domain"
)

// ProductLister is the slice of the catalog client the handler needs.
type ProductLister interface {
	List(ctx context.Context) ([]domain.Product, error)
	Get(ctx context.Context, id int64) (*domain.Product, error)
}

type CatalogHandler struct {
	products ProductLister
	timeout  time.Duration
	log      logrus.FieldLogger
}

func NewCatalogHandler(products ProductLister, timeout time.Duration, log logrus.FieldLogger) *CatalogHandler {
	return &CatalogHandler{
		products: products,
		timeout:  timeout,
		log:      log,
	}
}

type ProductListDTO struct {
	Products []domain.Product `json:"products"`
	Demo     bool             `json:"demo"`
}

// List returns the catalog. When the backend cannot be reached the demo
// product ships instead, flagged so the page can show the offline banner.
func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	products, err := h.products.List(ctx)
	if err != nil {
		h.log.WithError(err).WithField("request_id", getRequestID(r.Context())).
			Warn("catalog unavailable, serving demo products")
		respondJSON(w, http.StatusOK, ProductListDTO{Products: catalog.Demo(), Demo: true})
		return
	}

	respondJSON(w, http.StatusOK, ProductListDTO{Products: products})
}

func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	productIDStr := chi.URLParam(r, "product_id")
	productID, err := strconv.ParseInt(productIDStr, 10, 64)
	if err != nil || productID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be a positive integer")
		return
	}

	product, err := h.products.Get(ctx, productID)
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			respondError(w, http.StatusNotFound, "not_found", "product not found")
			return
		}
		respondError(w, http.StatusBadGateway, "catalog_unavailable", "could not reach product catalog")
		return
	}

	respondJSON(w, http.StatusOK, product)
}
