package order

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/GilbertoM0/front-pagina-tienda/internal/domain"
	"github.com/GilbertoM0/front-pagina-tienda/internal/relay"
)

// Submitter posts orders to the orders backend. Submission is direct (not
// relayed); the public relay only fronts reads.
type Submitter struct {
	relay *relay.Client
	url   string
	log   logrus.FieldLogger
}

func NewSubmitter(relayClient *relay.Client, ordersURL string, log logrus.FieldLogger) *Submitter {
	return &Submitter{relay: relayClient, url: ordersURL, log: log}
}

// Create posts the order and returns the backend's representation of it.
// Non-2xx statuses are failures.
func (s *Submitter) Create(ctx context.Context, order *domain.Order, accessToken string) (map[string]interface{}, error) {
	payload, err := json.Marshal(order)
	if err != nil {
		return nil, fmt.Errorf("marshal order: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := s.relay.Do(req)
	if err != nil {
		return nil, fmt.Errorf("post order: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(resp.Body)
		return nil, &relay.StatusError{Code: resp.StatusCode, Body: raw}
	}

	var created map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return nil, fmt.Errorf("decode order response: %w", err)
	}
	return created, nil
}

// SubmitOptimistic fires Create and swallows any failure. The checkout
// flow proceeds to payment whether or not the order record landed.
func (s *Submitter) SubmitOptimistic(ctx context.Context, order *domain.Order, accessToken string) {
	if _, err := s.Create(ctx, order, accessToken); err != nil {
		s.log.WithError(err).Warn("order submission failed, proceeding to payment anyway")
	}
}
