package testutil

import (
	"context"
	"sync"

	"github.com/vendalytics/vendalytics/internal/domain/lineitem"
)

// InMemoryLineItemStore implements lineitem.Repository over a fixed slice of
// line items seeded by the test.
type InMemoryLineItemStore struct {
	mu    sync.RWMutex
	items []*lineitem.LineItem
}

func NewInMemoryLineItemStore() *InMemoryLineItemStore {
	return &InMemoryLineItemStore{}
}

// Add seeds a line item into the store
func (s *InMemoryLineItemStore) Add(item *lineitem.LineItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, item)
}

func (s *InMemoryLineItemStore) ListWithBasketContext(ctx context.Context) ([]*lineitem.LineItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*lineitem.LineItem, len(s.items))
	copy(result, s.items)
	return result, nil
}

// Clear removes all line items
func (s *InMemoryLineItemStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
}
