package testutil

import (
	"context"
	"time"

	"github.com/vendalytics/vendalytics/internal/domain/ruleset"
	ierr "github.com/vendalytics/vendalytics/internal/errors"
	"github.com/vendalytics/vendalytics/internal/types"
)

// InMemoryRuleSetStore implements ruleset.Repository
type InMemoryRuleSetStore struct {
	*InMemoryStore[*ruleset.RuleSet]
}

func NewInMemoryRuleSetStore() *InMemoryRuleSetStore {
	return &InMemoryRuleSetStore{
		InMemoryStore: NewInMemoryStore[*ruleset.RuleSet](),
	}
}

func (s *InMemoryRuleSetStore) Create(ctx context.Context, rs *ruleset.RuleSet) error {
	if rs == nil {
		return ierr.NewError("rule set cannot be nil").
			Mark(ierr.ErrValidation)
	}
	return s.InMemoryStore.Create(ctx, rs.ID, rs)
}

func (s *InMemoryRuleSetStore) Get(ctx context.Context, id string) (*ruleset.RuleSet, error) {
	rs, err := s.InMemoryStore.Get(ctx, id)
	if err != nil || rs == nil || rs.Status == types.StatusDeleted {
		return nil, ierr.NewError("rule set not found").
			WithHintf("Rule set %s does not exist", id).
			Mark(ierr.ErrNotFound)
	}
	return rs, nil
}

func ruleSetFilterFn(ctx context.Context, rs *ruleset.RuleSet, filter interface{}) bool {
	f, ok := filter.(*types.RuleSetFilter)
	if !ok {
		return true
	}
	if string(rs.Status) != f.GetStatus() {
		return false
	}
	if f.BranchID != nil && (rs.BranchID == nil || *rs.BranchID != *f.BranchID) {
		return false
	}
	if f.ActiveAt != nil && !rs.IsActiveAt(*f.ActiveAt) {
		return false
	}
	if f.TimeRangeFilter != nil {
		if f.StartTime != nil && rs.CreatedAt.Before(*f.StartTime) {
			return false
		}
		if f.EndTime != nil && rs.CreatedAt.After(*f.EndTime) {
			return false
		}
	}
	return true
}

func (s *InMemoryRuleSetStore) List(ctx context.Context, filter *types.RuleSetFilter) ([]*ruleset.RuleSet, error) {
	return s.InMemoryStore.List(ctx, filter, ruleSetFilterFn, func(a, b *ruleset.RuleSet) bool {
		return a.CreatedAt.After(b.CreatedAt)
	})
}

func (s *InMemoryRuleSetStore) Count(ctx context.Context, filter *types.RuleSetFilter) (int, error) {
	return s.InMemoryStore.Count(ctx, filter, ruleSetFilterFn)
}

func (s *InMemoryRuleSetStore) Update(ctx context.Context, rs *ruleset.RuleSet) error {
	if _, err := s.Get(ctx, rs.ID); err != nil {
		return err
	}
	return s.InMemoryStore.Update(ctx, rs.ID, rs)
}

func (s *InMemoryRuleSetStore) Delete(ctx context.Context, id string) error {
	rs, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	rs.Status = types.StatusDeleted
	return s.InMemoryStore.Update(ctx, id, rs)
}

func (s *InMemoryRuleSetStore) FindActive(ctx context.Context, branchID *string, asOf time.Time) (*ruleset.RuleSet, error) {
	all, err := s.InMemoryStore.List(ctx, nil, nil, nil)
	if err != nil {
		return nil, err
	}

	var best *ruleset.RuleSet
	for _, rs := range all {
		if rs.Status != types.StatusPublished || !rs.IsActiveAt(asOf) {
			continue
		}
		if rs.BranchID != nil && (branchID == nil || *rs.BranchID != *branchID) {
			continue
		}
		if best == nil || betterMatch(rs, best) {
			best = rs
		}
	}

	if best == nil {
		return nil, ierr.NewError("no active rule set").
			WithHint("No active RFV configuration found for the requested scope").
			Mark(ierr.ErrNotFound)
	}
	return best, nil
}

// betterMatch applies the selection order: branch-scoped beats global, then
// later EffectiveFrom wins.
func betterMatch(candidate, current *ruleset.RuleSet) bool {
	candidateScoped := candidate.BranchID != nil
	currentScoped := current.BranchID != nil
	if candidateScoped != currentScoped {
		return candidateScoped
	}
	return candidate.EffectiveFrom.After(current.EffectiveFrom)
}
