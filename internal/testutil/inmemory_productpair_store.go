package testutil

import (
	"context"
	"sort"
	"sync"

	"github.com/vendalytics/vendalytics/internal/domain/productpair"
	"github.com/vendalytics/vendalytics/internal/types"
)

// InMemoryProductPairStore implements productpair.Repository. ReplaceAll is
// atomic under the store lock, matching the transactional swap of the real
// repository.
type InMemoryProductPairStore struct {
	mu    sync.RWMutex
	pairs []*productpair.ProductPair
}

func NewInMemoryProductPairStore() *InMemoryProductPairStore {
	return &InMemoryProductPairStore{}
}

func (s *InMemoryProductPairStore) ReplaceAll(ctx context.Context, pairs []*productpair.ProductPair) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	replaced := make([]*productpair.ProductPair, len(pairs))
	copy(replaced, pairs)
	s.pairs = replaced
	return nil
}

func productPairMatches(p *productpair.ProductPair, f *types.ProductPairFilter) bool {
	if string(p.Status) != f.GetStatus() {
		return false
	}
	if f.ProductID != nil && p.ProductAID != *f.ProductID && p.ProductBID != *f.ProductID {
		return false
	}
	if f.ProductType != nil && p.ProductAType != *f.ProductType && p.ProductBType != *f.ProductType {
		return false
	}
	if f.TimeRangeFilter != nil {
		if f.StartTime != nil && p.CalculatedAt.Before(*f.StartTime) {
			return false
		}
		if f.EndTime != nil && p.CalculatedAt.After(*f.EndTime) {
			return false
		}
	}
	return true
}

func (s *InMemoryProductPairStore) List(ctx context.Context, filter *types.ProductPairFilter) ([]*productpair.ProductPair, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*productpair.ProductPair
	for _, p := range s.pairs {
		if productPairMatches(p, filter) {
			result = append(result, p)
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		if result[i].SupportCount != result[j].SupportCount {
			return result[i].SupportCount > result[j].SupportCount
		}
		if result[i].ProductAID != result[j].ProductAID {
			return result[i].ProductAID < result[j].ProductAID
		}
		return result[i].ProductBID < result[j].ProductBID
	})

	if !filter.IsUnlimited() {
		start := filter.GetOffset()
		if start >= len(result) {
			return []*productpair.ProductPair{}, nil
		}
		end := start + filter.GetLimit()
		if end > len(result) {
			end = len(result)
		}
		result = result[start:end]
	}
	return result, nil
}

func (s *InMemoryProductPairStore) Count(ctx context.Context, filter *types.ProductPairFilter) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, p := range s.pairs {
		if productPairMatches(p, filter) {
			count++
		}
	}
	return count, nil
}

// Clear removes all pairs
func (s *InMemoryProductPairStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pairs = nil
}
