package repositories

import (
	"context"
	"sort"
	"sync"
)

// CartItem is one persisted cart line. Position keeps lines in the order
// they were first added.
type CartItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Notes     string `json:"notes,omitempty"`
	Position  int    `json:"position"`
}

// CartStore persists per-session carts between requests. A missing cart
// reads as empty.
type CartStore interface {
	Get(ctx context.Context, sessionID string) ([]CartItem, error)
	Save(ctx context.Context, sessionID string, items []CartItem) error
	Clear(ctx context.Context, sessionID string) error
}

// MemoryCartStore is an in-process CartStore.
type MemoryCartStore struct {
	carts map[string][]CartItem
	mu    sync.RWMutex
}

// NewMemoryCartStore creates a new instance of MemoryCartStore.
func NewMemoryCartStore() *MemoryCartStore {
	return &MemoryCartStore{carts: make(map[string][]CartItem)}
}

// Get returns the session's cart lines in position order.
func (s *MemoryCartStore) Get(_ context.Context, sessionID string) ([]CartItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := append([]CartItem(nil), s.carts[sessionID]...)
	sortCartItems(items)
	return items, nil
}

// Save replaces the session's cart. Saving no items clears it.
func (s *MemoryCartStore) Save(_ context.Context, sessionID string, items []CartItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(items) == 0 {
		delete(s.carts, sessionID)
		return nil
	}
	s.carts[sessionID] = append([]CartItem(nil), items...)
	return nil
}

// Clear drops the session's cart.
func (s *MemoryCartStore) Clear(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.carts, sessionID)
	return nil
}

func sortCartItems(items []CartItem) {
	sort.SliceStable(items, func(i, j int) bool { return items[i].Position < items[j].Position })
}
