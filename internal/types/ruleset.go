package types

import "time"

// RuleSetFilter defines query parameters for listing rule sets
type RuleSetFilter struct {
	*QueryFilter
	*TimeRangeFilter

	BranchID *string    `json:"branch_id,omitempty" form:"branch_id"`
	ActiveAt *time.Time `json:"active_at,omitempty" form:"active_at" time_format:"2006-01-02T15:04:05Z07:00"`
}

// NewRuleSetFilter creates a filter with default pagination
func NewRuleSetFilter() *RuleSetFilter {
	return &RuleSetFilter{QueryFilter: NewDefaultQueryFilter()}
}

// NewNoLimitRuleSetFilter creates an unpaginated filter
func NewNoLimitRuleSetFilter() *RuleSetFilter {
	return &RuleSetFilter{QueryFilter: NewNoLimitQueryFilter()}
}

func (f *RuleSetFilter) GetLimit() int {
	if f.QueryFilter == nil {
		return NewDefaultQueryFilter().GetLimit()
	}
	return f.QueryFilter.GetLimit()
}

func (f *RuleSetFilter) GetOffset() int {
	if f.QueryFilter == nil {
		return 0
	}
	return f.QueryFilter.GetOffset()
}

func (f *RuleSetFilter) IsUnlimited() bool {
	if f.QueryFilter == nil {
		return NewDefaultQueryFilter().IsUnlimited()
	}
	return f.QueryFilter.IsUnlimited()
}

func (f *RuleSetFilter) GetStatus() string {
	if f.QueryFilter == nil {
		return NewDefaultQueryFilter().GetStatus()
	}
	return f.QueryFilter.GetStatus()
}

func (f *RuleSetFilter) Validate() error {
	if f.QueryFilter != nil {
		if err := f.QueryFilter.Validate(); err != nil {
			return err
		}
	}
	if f.TimeRangeFilter != nil {
		if err := f.TimeRangeFilter.Validate(); err != nil {
			return err
		}
	}
	return nil
}
