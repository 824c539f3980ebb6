package testutil

import (
	"context"
	"sync"

	"github.com/vendalytics/vendalytics/internal/domain/product"
)

// InMemoryProductStore implements product.Repository
type InMemoryProductStore struct {
	mu       sync.RWMutex
	products map[string]*product.Product
}

func NewInMemoryProductStore() *InMemoryProductStore {
	return &InMemoryProductStore{
		products: make(map[string]*product.Product),
	}
}

// Add seeds a product into the catalog
func (s *InMemoryProductStore) Add(p *product.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[p.ID] = p
}

func (s *InMemoryProductStore) ListByIDs(ctx context.Context, ids []string) ([]*product.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*product.Product
	for _, id := range ids {
		if p, exists := s.products[id]; exists {
			result = append(result, p)
		}
	}
	return result, nil
}

// Clear removes all products
func (s *InMemoryProductStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = make(map[string]*product.Product)
}
