package cart

import (
	"context"
	"sync"
	"time"

	"github.com/GilbertoM0/front-pagina-tienda/internal/domain"
)

// MemoryStore keeps snapshots in process memory. Default backend for local
// runs and tests.
type MemoryStore struct {
	mu    sync.RWMutex
	carts map[string]*domain.Cart
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{carts: make(map[string]*domain.Cart)}
}

func (s *MemoryStore) Load(_ context.Context, sessionID string) (*domain.Cart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cart, ok := s.carts[sessionID]
	if !ok {
		return nil, ErrSnapshotNotFound
	}
	copied := *cart
	copied.Items = append([]domain.CartItem(nil), cart.Items...)
	return &copied, nil
}

func (s *MemoryStore) Save(_ context.Context, cart *domain.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *cart
	copied.Items = append([]domain.CartItem(nil), cart.Items...)
	copied.UpdatedAt = time.Now()
	if copied.CreatedAt.IsZero() {
		copied.CreatedAt = copied.UpdatedAt
	}
	s.carts[cart.SessionID] = &copied
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.carts[sessionID]; !ok {
		return ErrSnapshotNotFound
	}
	delete(s.carts, sessionID)
	return nil
}
