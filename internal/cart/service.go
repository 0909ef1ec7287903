package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/GilbertoM0/front-pagina-tienda/internal/catalog"
	"github.com/GilbertoM0/front-pagina-tienda/internal/domain"
)

// ProductSource is where AddItem resolves product ids. Satisfied by
// *catalog.Client.
type ProductSource interface {
	Get(ctx context.Context, id int64) (*domain.Product, error)
}

// Service owns all cart mutations. Every mutation persists the full
// snapshot before returning, so a reload always sees the latest state.
type Service struct {
	store    SnapshotStore
	products ProductSource
	log      logrus.FieldLogger
}

func NewService(store SnapshotStore, products ProductSource, log logrus.FieldLogger) *Service {
	return &Service{store: store, products: products, log: log}
}

// Get returns the session's cart, or a fresh empty cart when none is stored.
func (s *Service) Get(ctx context.Context, sessionID string) (*domain.Cart, error) {
	cart, err := s.store.Load(ctx, sessionID)
	if errors.Is(err, ErrSnapshotNotFound) {
		now := time.Now()
		return &domain.Cart{
			SessionID: sessionID,
			Items:     nil,
			CreatedAt: now,
			UpdatedAt: now,
		}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	return cart, nil
}

// AddItem increments the product's line by one, appending a new line with
// quantity 1 when absent. An id that is not in the catalog is a no-op.
func (s *Service) AddItem(ctx context.Context, sessionID string, productID int64) (*domain.Cart, error) {
	cart, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	product, err := s.products.Get(ctx, productID)
	if errors.Is(err, catalog.ErrProductNotFound) {
		s.log.WithField("product_id", productID).Warn("add item ignored: unknown product")
		return cart, nil
	}
	if err != nil {
		return nil, fmt.Errorf("resolve product %d: %w", productID, err)
	}

	found := false
	for i := range cart.Items {
		if cart.Items[i].ProductID == productID {
			cart.Items[i].Quantity++
			found = true
			break
		}
	}
	if !found {
		cart.Items = append(cart.Items, domain.CartItem{
			ProductID:   product.ID,
			Name:        product.Name,
			Description: product.Description,
			Price:       product.Price,
			ImageURL:    product.ImageURL,
			Quantity:    1,
		})
	}

	if err := s.store.Save(ctx, cart); err != nil {
		return nil, fmt.Errorf("persist cart: %w", err)
	}
	return cart, nil
}

// ChangeQuantity adds delta to the line's quantity; a result of zero or
// less removes the line. A missing line is a no-op.
func (s *Service) ChangeQuantity(ctx context.Context, sessionID string, productID int64, delta int) (*domain.Cart, error) {
	cart, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i := range cart.Items {
		if cart.Items[i].ProductID == productID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return cart, nil
	}

	cart.Items[idx].Quantity += delta
	if cart.Items[idx].Quantity <= 0 {
		cart.Items = append(cart.Items[:idx], cart.Items[idx+1:]...)
	}

	if err := s.store.Save(ctx, cart); err != nil {
		return nil, fmt.Errorf("persist cart: %w", err)
	}
	return cart, nil
}

// Clear drops the stored snapshot. Missing snapshots are fine.
func (s *Service) Clear(ctx context.Context, sessionID string) error {
	err := s.store.Delete(ctx, sessionID)
	if err != nil && !errors.Is(err, ErrSnapshotNotFound) {
		return fmt.Errorf("delete cart: %w", err)
	}
	return nil
}
