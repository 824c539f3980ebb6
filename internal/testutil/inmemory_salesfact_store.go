package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/vendalytics/vendalytics/internal/domain/salesfact"
)

// InMemorySalesFactStore implements salesfact.Repository over a fixed slice
// of facts seeded by the test.
type InMemorySalesFactStore struct {
	mu    sync.RWMutex
	facts []*salesfact.SalesFact
}

func NewInMemorySalesFactStore() *InMemorySalesFactStore {
	return &InMemorySalesFactStore{}
}

// Add seeds a fact into the store
func (s *InMemorySalesFactStore) Add(fact *salesfact.SalesFact) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.facts = append(s.facts, fact)
}

func (s *InMemorySalesFactStore) ListInWindow(ctx context.Context, start, end time.Time, branchID *string) ([]*salesfact.SalesFact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*salesfact.SalesFact
	for _, f := range s.facts {
		if f.CustomerID == "" {
			continue
		}
		if f.Date.Before(start) || f.Date.After(end) {
			continue
		}
		if branchID != nil && (f.BranchID == nil || *f.BranchID != *branchID) {
			continue
		}
		result = append(result, f)
	}
	return result, nil
}

// Clear removes all facts
func (s *InMemorySalesFactStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.facts = nil
}
