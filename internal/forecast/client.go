package forecast

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/GilbertoM0/front-pagina-tienda/internal/domain"
	"github.com/GilbertoM0/front-pagina-tienda/internal/relay"
)

// Client fetches the sales analysis from the forecasting service. The
// backend only accepts POST; a GET is answered with 405, so reads fall
// back to the demo dataset and the response is flagged accordingly.
type Client struct {
	relay *relay.Client
	url   string
	log   logrus.FieldLogger
}

func NewClient(rc *relay.Client, url string, log logrus.FieldLogger) *Client {
	return &Client{relay: rc, url: url, log: log}
}

// Result carries the analysis plus whether it came from the live backend
// or the bundled demo dataset.
type Result struct {
	Forecast domain.Forecast
	Demo     bool
}

// Fetch returns the current analysis. Any failure to read from the
// backend, 405 included, degrades to the demo dataset instead of
// surfacing an error.
func (c *Client) Fetch(ctx context.Context) Result {
	var f domain.Forecast
	err := c.relay.GetJSON(ctx, c.url, &f)
	if err == nil {
		return Result{Forecast: f}
	}
	c.log.WithError(err).Warn("forecast fetch failed, serving demo dataset")
	return Result{Forecast: Demo(), Demo: true}
}

// PostObservation registers a stock data point with the forecasting
// service. Unlike reads, write failures are surfaced so the form can
// show them.
func (c *Client) PostObservation(ctx context.Context, obs domain.ProductObservation) error {
	if obs.Product == "" || obs.Date == "" {
		return errors.New("product and date are required")
	}
	var ack map[string]interface{}
	if err := c.relay.PostJSON(ctx, c.url, obs, &ack, nil); err != nil {
		return errors.Wrap(err, "post observation")
	}
	return nil
}
