package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/GilbertoM0/front-pagina-tienda/internal/domain"
	"github.com/GilbertoM0/front-pagina-tienda/internal/forecast"
)

// ForecastClient is the slice of the forecast client the handler needs.
type ForecastClient interface {
	Fetch(ctx context.Context) forecast.Result
	PostObservation(ctx context.Context, obs domain.ProductObservation) error
}

type ForecastHandler struct {
	client  ForecastClient
	timeout time.Duration
}

func NewForecastHandler(client ForecastClient, timeout time.Duration) *ForecastHandler {
	return &ForecastHandler{
		client:  client,
		timeout: timeout,
	}
}

type ForecastDTO struct {
	Forecast domain.Forecast `json:"forecast"`
	Demo     bool            `json:"demo"`
}

// Analysis always answers 200: an unreachable backend degrades to the
// demo dataset with the demo flag set.
func (h *ForecastHandler) Analysis(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	res := h.client.Fetch(ctx)
	respondJSON(w, http.StatusOK, ForecastDTO{Forecast: res.Forecast, Demo: res.Demo})
}

func (h *ForecastHandler) AddObservation(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var obs domain.ProductObservation
	if err := json.NewDecoder(r.Body).Decode(&obs); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if obs.Product == "" || obs.Date == "" || obs.CurrentStock < 0 {
		respondError(w, http.StatusBadRequest, "missing_fields", "producto, stock_actual and fecha are required")
		return
	}

	if err := h.client.PostObservation(ctx, obs); err != nil {
		respondError(w, http.StatusBadGateway, "forecast_unavailable", "could not send observation")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]bool{"sent": true})
}
