package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"golang.org/x/sync/singleflight"

	"github.com/GilbertoM0/front-pagina-tienda/internal/domain"
	"github.com/GilbertoM0/front-pagina-tienda/internal/relay"
)

const (
	defaultName      = "Café"
	placeholderImage = "https://via.placeholder.com/300?text=Sin+Imagen"
)

// ErrProductNotFound is returned by Get when the id is not in the catalog.
var ErrProductNotFound = fmt.Errorf("product not found in catalog")

// Client reads the remote product catalog. Products are immutable from the
// storefront's perspective.
type Client struct {
	relay *relay.Client
	url   string
	sfg   singleflight.Group // collapses concurrent catalog fetches
}

func NewClient(relayClient *relay.Client, catalogURL string) *Client {
	return &Client{relay: relayClient, url: catalogURL}
}

// flexFloat tolerates the backend sending prices as numbers or strings.
// Unparseable values default to zero, matching the defaulting rules for
// the rest of the record.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*f = flexFloat(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			*f = 0
			return nil
		}
		*f = flexFloat(parsed)
		return nil
	}
	*f = 0
	return nil
}

type rawProduct struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       flexFloat `json:"price"`
	ImageURL    string    `json:"imageUrl"`
}

// List fetches the catalog and applies field defaults. Callers substitute
// Demo() when it errors so the page is never empty.
func (c *Client) List(ctx context.Context) ([]domain.Product, error) {
	v, err, _ := c.sfg.Do("catalog", func() (interface{}, error) {
		var raw []rawProduct
		if err := c.relay.GetJSON(ctx, c.url, &raw); err != nil {
			return nil, fmt.Errorf("fetch catalog: %w", err)
		}

		products := make([]domain.Product, 0, len(raw))
		for _, r := range raw {
			p := domain.Product{
				ID:          r.ID,
				Name:        r.Name,
				Description: r.Description,
				Price:       float64(r.Price),
				ImageURL:    r.ImageURL,
			}
			if p.Name == "" {
				p.Name = defaultName
			}
			if p.ImageURL == "" {
				p.ImageURL = placeholderImage
			}
			products = append(products, p)
		}
		return products, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.Product), nil
}

// Get looks up one product by id in the current catalog.
func (c *Client) Get(ctx context.Context, id int64) (*domain.Product, error) {
	products, err := c.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range products {
		if products[i].ID == id {
			return &products[i], nil
		}
	}
	return nil, ErrProductNotFound
}

// Demo is the fixed catalog rendered when the backend is unreachable.
func Demo() []domain.Product {
	return []domain.Product{
		{
			ID:          1,
			Name:        "Producto Demo",
			Description: "Sin conexión",
			Price:       10.00,
			ImageURL:    "https://via.placeholder.com/300",
		},
	}
}
