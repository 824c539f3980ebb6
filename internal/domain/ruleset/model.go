package ruleset

import (
	"time"

	"github.com/shopspring/decimal"
	ierr "github.com/vendalytics/vendalytics/internal/errors"
	"github.com/vendalytics/vendalytics/internal/types"
)

// RuleSet is a versioned RFV scoring configuration. A rule set is either
// global (BranchID nil) or scoped to a single branch, and is effective for
// the half-open interval [EffectiveFrom, EffectiveTo). At most one rule set
// is active for a given branch and instant; selection prefers branch-scoped
// over global and later EffectiveFrom over earlier.
type RuleSet struct {
	// ID is the unique identifier for the rule set
	ID string `db:"id" json:"id"`

	// Name is the display name of the rule set
	Name string `db:"name" json:"name"`

	// BranchID scopes the rule set to a branch; nil means global
	BranchID *string `db:"branch_id" json:"branch_id,omitempty"`

	// EffectiveFrom is the instant the rule set becomes active
	EffectiveFrom time.Time `db:"effective_from" json:"effective_from"`

	// EffectiveTo is the instant the rule set stops being active; nil means open ended
	EffectiveTo *time.Time `db:"effective_to" json:"effective_to,omitempty"`

	// WindowDays is the length of the analysis window in days
	WindowDays int `db:"window_days" json:"window_days"`

	// RecencyBins map days-since-last-purchase to a score
	RecencyBins []RecencyBin `json:"recency_bins"`

	// FrequencyBins map purchase counts to a score
	FrequencyBins []ThresholdBin `json:"frequency_bins"`

	// ValueBins map monetary totals to a score
	ValueBins []ThresholdBin `json:"value_bins"`

	// Segments owned by this rule set, evaluated in descending priority
	Segments []*Segment `json:"segments"`

	types.BaseModel
}

// RecencyBin assigns a score to customers whose last purchase is at most
// MaxDays old. A bin with a nil MaxDays or an out-of-range score is treated
// as malformed and skipped during scoring.
type RecencyBin struct {
	MaxDays *int `json:"max_days"`
	Score   int  `json:"score"`
}

// ThresholdBin assigns a score to metrics greater than or equal to MinValue.
// Used for both frequency (counts) and value (monetary totals). A bin with a
// nil MinValue or an out-of-range score is treated as malformed and skipped.
type ThresholdBin struct {
	MinValue *decimal.Decimal `json:"min_value"`
	Score    int              `json:"score"`
}

// Segment is a named customer segment owned by a rule set. Segments are
// evaluated in descending priority; the first segment whose declared rules
// all hold wins. Dimensions without a rule are wildcards.
type Segment struct {
	ID        string        `db:"id" json:"id"`
	RuleSetID string        `db:"rule_set_id" json:"rule_set_id"`
	Name      string        `db:"name" json:"name"`
	Priority  int           `db:"priority" json:"priority"`
	Rules     []SegmentRule `json:"rules"`

	types.BaseModel
}

// SegmentRule is a single dimension condition compared against that
// dimension's score (never the raw metric).
type SegmentRule struct {
	Dimension types.RFVDimension       `json:"dimension"`
	Operator  types.ComparisonOperator `json:"operator"`
	Threshold int                      `json:"threshold"`
}

// IsActiveAt reports whether the rule set is effective at the given instant
func (rs *RuleSet) IsActiveAt(at time.Time) bool {
	if at.Before(rs.EffectiveFrom) {
		return false
	}
	if rs.EffectiveTo != nil && !at.Before(*rs.EffectiveTo) {
		return false
	}
	return true
}

// WindowStart returns the start of the analysis window relative to asOf
func (rs *RuleSet) WindowStart(asOf time.Time) time.Time {
	return asOf.AddDate(0, 0, -rs.WindowDays)
}

// Validate checks structural invariants of the rule set and its segments
func (rs *RuleSet) Validate() error {
	if rs.Name == "" {
		return ierr.NewError("rule set name is required").
			WithHint("Name must not be empty").
			Mark(ierr.ErrValidation)
	}
	if rs.WindowDays <= 0 {
		return ierr.NewError("invalid analysis window").
			WithHint("Window days must be greater than zero").
			Mark(ierr.ErrValidation)
	}
	if rs.EffectiveTo != nil && !rs.EffectiveTo.After(rs.EffectiveFrom) {
		return ierr.NewError("invalid effective range").
			WithHint("Effective end must be after effective start").
			Mark(ierr.ErrValidation)
	}
	for _, seg := range rs.Segments {
		if err := seg.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks a segment's rules against the closed operator and
// dimension enums
func (s *Segment) Validate() error {
	if s.Name == "" {
		return ierr.NewError("segment name is required").
			WithHint("Segment name must not be empty").
			Mark(ierr.ErrValidation)
	}
	for _, rule := range s.Rules {
		if !rule.Dimension.Validate() {
			return ierr.NewError("invalid segment rule dimension").
				WithHintf("Unknown dimension %q on segment %s", rule.Dimension, s.Name).
				Mark(ierr.ErrValidation)
		}
		if err := rule.Operator.Validate(); err != nil {
			return ierr.WithError(err).
				WithHintf("Invalid operator on segment %s", s.Name).
				Mark(ierr.ErrValidation)
		}
	}
	return nil
}
