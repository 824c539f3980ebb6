package ruleset

import (
	"context"
	"time"

	"github.com/vendalytics/vendalytics/internal/types"
)

// Repository defines the interface for rule set data access. Rule sets are
// loaded and stored as aggregates: segments travel with their rule set.
type Repository interface {
	Create(ctx context.Context, rs *RuleSet) error
	Get(ctx context.Context, id string) (*RuleSet, error)
	List(ctx context.Context, filter *types.RuleSetFilter) ([]*RuleSet, error)
	Count(ctx context.Context, filter *types.RuleSetFilter) (int, error)
	Update(ctx context.Context, rs *RuleSet) error
	Delete(ctx context.Context, id string) error

	// FindActive returns the single rule set active for the branch at the
	// given instant: branch-scoped rule sets win over global ones, later
	// EffectiveFrom wins among those. Returns a not-found error when no rule
	// set is active.
	FindActive(ctx context.Context, branchID *string, asOf time.Time) (*RuleSet, error)
}
