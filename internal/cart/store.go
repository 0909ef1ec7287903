package cart

import (
	"context"
	"errors"

	"github.com/GilbertoM0/front-pagina-tienda/internal/domain"
)

// SnapshotStore persists the whole cart wholesale after each mutation, the
// way the browser storefront rewrote its localStorage snapshot.
// Consumers define this interface, not the storage implementations.
type SnapshotStore interface {
	Load(ctx context.Context, sessionID string) (*domain.Cart, error)
	Save(ctx context.Context, cart *domain.Cart) error
	Delete(ctx context.Context, sessionID string) error
}

var ErrSnapshotNotFound = errors.New("cart snapshot not found")
