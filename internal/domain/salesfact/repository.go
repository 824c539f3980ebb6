package salesfact

import (
	"context"
	"time"
)

// Repository defines read access to sales facts
type Repository interface {
	// ListInWindow returns facts with a non-null customer reference dated
	// within [start, end], optionally restricted to one branch.
	ListInWindow(ctx context.Context, start, end time.Time, branchID *string) ([]*SalesFact, error)
}
