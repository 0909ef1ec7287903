package payment

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/pkg/errors"

	"github.com/GilbertoM0/front-pagina-tienda/internal/relay"
)

// Gateway talks to the external payment endpoints: the card intent
// backend, the Mercado Pago preference backend, and PayPal's hosted
// checkout URL.
type Gateway struct {
	relay          *relay.Client
	intentURL      string
	preferenceURL  string
	paypalBusiness string
	publicBaseURL  string
	stripeKey      string
}

type GatewayOptions struct {
	Relay          *relay.Client
	IntentURL      string
	PreferenceURL  string
	PayPalBusiness string
	PublicBaseURL  string
	StripeKey      string
}

func NewGateway(opts GatewayOptions) *Gateway {
	return &Gateway{
		relay:          opts.Relay,
		intentURL:      opts.IntentURL,
		preferenceURL:  opts.PreferenceURL,
		paypalBusiness: opts.PayPalBusiness,
		publicBaseURL:  strings.TrimRight(opts.PublicBaseURL, "/"),
		stripeKey:      opts.StripeKey,
	}
}

// HostedConfigured reports whether the hosted card widget can be mounted.
// A placeholder key counts as unconfigured.
func (g *Gateway) HostedConfigured() bool {
	return g.stripeKey != "" && !strings.Contains(g.stripeKey, "REEMPLAZA")
}

// StripeKey is the publishable key handed to the page for the hosted
// widget.
func (g *Gateway) StripeKey() string {
	return g.stripeKey
}

// IntentItem identifies a purchasable item for the intent backend.
type IntentItem struct {
	ID string `json:"id"`
}

// BillingDetails are the locally collected fields for a hosted payment.
type BillingDetails struct {
	Name       string `json:"name"`
	PostalCode string `json:"postal_code"`
}

type intentRequest struct {
	Items   []IntentItem   `json:"items"`
	Billing BillingDetails `json:"billing_details"`
}

type intentResponse struct {
	ClientSecret string `json:"clientSecret"`
	Error        string `json:"error"`
}

// CreateIntent asks the intent backend to open a payment and returns the
// client secret the hosted widget confirms against.
func (g *Gateway) CreateIntent(ctx context.Context, items []IntentItem, billing BillingDetails) (string, error) {
	var resp intentResponse
	if err := g.relay.PostJSON(ctx, g.intentURL, intentRequest{Items: items, Billing: billing}, &resp, nil); err != nil {
		return "", errors.Wrap(err, "create payment intent")
	}
	if resp.Error != "" {
		return "", errors.Errorf("payment intent rejected: %s", resp.Error)
	}
	if resp.ClientSecret == "" {
		return "", errors.New("payment intent response missing clientSecret")
	}
	return resp.ClientSecret, nil
}

// PreferenceItem is one line of a Mercado Pago preference.
type PreferenceItem struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"unit_price"`
}

type preferenceRequest struct {
	Items []PreferenceItem `json:"items"`
}

type preferenceResponse struct {
	InitPoint string `json:"init_point"`
	Error     string `json:"error"`
}

// CreateWalletPreference opens a Mercado Pago preference and returns the
// init_point URL the buyer is sent to.
func (g *Gateway) CreateWalletPreference(ctx context.Context, items []PreferenceItem) (string, error) {
	var resp preferenceResponse
	if err := g.relay.PostJSON(ctx, g.preferenceURL, preferenceRequest{Items: items}, &resp, nil); err != nil {
		return "", errors.Wrap(err, "create wallet preference")
	}
	if resp.Error != "" {
		return "", errors.Errorf("wallet preference rejected: %s", resp.Error)
	}
	if resp.InitPoint == "" {
		return "", errors.New("wallet preference response missing init_point")
	}
	return resp.InitPoint, nil
}

// PayPalCheckoutURL builds the hosted _xclick checkout redirect for a
// single purchase line.
func (g *Gateway) PayPalCheckoutURL(itemName string, amount float64, currency string) string {
	q := url.Values{}
	q.Set("cmd", "_xclick")
	q.Set("business", g.paypalBusiness)
	q.Set("item_name", itemName)
	q.Set("amount", fmt.Sprintf("%.2f", amount))
	q.Set("currency_code", currency)
	q.Set("return", g.publicBaseURL+"/gracias.html")
	q.Set("cancel_return", g.publicBaseURL+"/checkout.html")
	q.Set("notify_url", g.publicBaseURL+"/api/paypal/ipn")
	return "https://www.paypal.com/cgi-bin/webscr?" + q.Encode()
}
