package productpair

import (
	"context"

	"github.com/vendalytics/vendalytics/internal/types"
)

// Repository defines the interface for association pair data access
type Repository interface {
	// ReplaceAll atomically swaps the whole association table for the given
	// rows: delete-all plus batched bulk inserts inside one transaction.
	ReplaceAll(ctx context.Context, pairs []*ProductPair) error

	List(ctx context.Context, filter *types.ProductPairFilter) ([]*ProductPair, error)
	Count(ctx context.Context, filter *types.ProductPairFilter) (int, error)
}
