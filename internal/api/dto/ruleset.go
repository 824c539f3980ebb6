package dto

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vendalytics/vendalytics/internal/domain/ruleset"
	ierr "github.com/vendalytics/vendalytics/internal/errors"
	"github.com/vendalytics/vendalytics/internal/types"
	"github.com/vendalytics/vendalytics/internal/validator"
)

// CreateRuleSetRequest creates an RFV configuration with its bins and segments
type CreateRuleSetRequest struct {
	Name          string                 `json:"name" validate:"required"`
	BranchID      *string                `json:"branch_id,omitempty"`
	EffectiveFrom time.Time              `json:"effective_from" validate:"required"`
	EffectiveTo   *time.Time             `json:"effective_to,omitempty"`
	WindowDays    int                    `json:"window_days" validate:"required,min=1"`
	RecencyBins   []RecencyBinRequest    `json:"recency_bins" validate:"dive"`
	FrequencyBins []ThresholdBinRequest  `json:"frequency_bins" validate:"dive"`
	ValueBins     []ThresholdBinRequest  `json:"value_bins" validate:"dive"`
	Segments      []CreateSegmentRequest `json:"segments" validate:"dive"`
}

// RecencyBinRequest is one recency bin in a create/update request
type RecencyBinRequest struct {
	MaxDays *int `json:"max_days" validate:"required,min=0"`
	Score   int  `json:"score" validate:"required,min=1,max=5"`
}

// ThresholdBinRequest is one frequency or value bin in a create/update request
type ThresholdBinRequest struct {
	MinValue *decimal.Decimal `json:"min_value" validate:"required"`
	Score    int              `json:"score" validate:"required,min=1,max=5"`
}

// CreateSegmentRequest is one segment in a create/update request. Operators
// are accepted as symbols (">=") or names ("gte") and resolved to the closed
// enum before anything is stored.
type CreateSegmentRequest struct {
	Name     string               `json:"name" validate:"required"`
	Priority int                  `json:"priority"`
	Rules    []SegmentRuleRequest `json:"rules" validate:"dive"`
}

// SegmentRuleRequest is one dimension condition in a segment request
type SegmentRuleRequest struct {
	Dimension types.RFVDimension `json:"dimension" validate:"required"`
	Operator  string             `json:"operator" validate:"required"`
	Threshold int                `json:"threshold" validate:"min=1,max=5"`
}

func (r *CreateRuleSetRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// ToRuleSet builds the domain aggregate, resolving operators once here
func (r *CreateRuleSetRequest) ToRuleSet(ctx context.Context) (*ruleset.RuleSet, error) {
	rs := &ruleset.RuleSet{
		ID:            types.GenerateUUIDWithPrefix(types.UUID_PREFIX_RULESET),
		Name:          r.Name,
		BranchID:      r.BranchID,
		EffectiveFrom: r.EffectiveFrom.UTC(),
		WindowDays:    r.WindowDays,
		RecencyBins:   ToRecencyBins(r.RecencyBins),
		FrequencyBins: ToThresholdBins(r.FrequencyBins),
		ValueBins:     ToThresholdBins(r.ValueBins),
		BaseModel:     types.GetDefaultBaseModel(ctx),
	}
	if r.EffectiveTo != nil {
		to := r.EffectiveTo.UTC()
		rs.EffectiveTo = &to
	}

	for _, segReq := range r.Segments {
		seg, err := segReq.ToSegment(ctx, rs.ID)
		if err != nil {
			return nil, err
		}
		rs.Segments = append(rs.Segments, seg)
	}

	if err := rs.Validate(); err != nil {
		return nil, err
	}
	return rs, nil
}

// ToSegment builds a domain segment, resolving rule operators
func (r *CreateSegmentRequest) ToSegment(ctx context.Context, ruleSetID string) (*ruleset.Segment, error) {
	seg := &ruleset.Segment{
		ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_SEGMENT),
		RuleSetID: ruleSetID,
		Name:      r.Name,
		Priority:  r.Priority,
		BaseModel: types.GetDefaultBaseModel(ctx),
	}

	for _, ruleReq := range r.Rules {
		op, err := types.ParseComparisonOperator(ruleReq.Operator)
		if err != nil {
			return nil, ierr.WithError(err).
				WithHintf("Invalid operator on segment %s", r.Name).
				Mark(ierr.ErrValidation)
		}
		seg.Rules = append(seg.Rules, ruleset.SegmentRule{
			Dimension: ruleReq.Dimension,
			Operator:  op,
			Threshold: ruleReq.Threshold,
		})
	}
	return seg, nil
}

// UpdateRuleSetRequest replaces the mutable parts of a rule set. Bins and
// segments are replaced wholesale when present.
type UpdateRuleSetRequest struct {
	Name          *string                `json:"name,omitempty"`
	EffectiveTo   *time.Time             `json:"effective_to,omitempty"`
	WindowDays    *int                   `json:"window_days,omitempty" validate:"omitempty,min=1"`
	RecencyBins   []RecencyBinRequest    `json:"recency_bins,omitempty" validate:"dive"`
	FrequencyBins []ThresholdBinRequest  `json:"frequency_bins,omitempty" validate:"dive"`
	ValueBins     []ThresholdBinRequest  `json:"value_bins,omitempty" validate:"dive"`
	Segments      []CreateSegmentRequest `json:"segments,omitempty" validate:"dive"`
}

func (r *UpdateRuleSetRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// RuleSetResponse is the wire representation of a rule set aggregate
type RuleSetResponse struct {
	*ruleset.RuleSet
}

// ListRuleSetsResponse is the paginated rule set listing
type ListRuleSetsResponse = types.ListResponse[*RuleSetResponse]

// ToRuleSetResponse wraps a domain rule set for the wire
func ToRuleSetResponse(rs *ruleset.RuleSet) *RuleSetResponse {
	return &RuleSetResponse{RuleSet: rs}
}

func ToRecencyBins(reqs []RecencyBinRequest) []ruleset.RecencyBin {
	bins := make([]ruleset.RecencyBin, 0, len(reqs))
	for _, req := range reqs {
		bins = append(bins, ruleset.RecencyBin{MaxDays: req.MaxDays, Score: req.Score})
	}
	return bins
}

func ToThresholdBins(reqs []ThresholdBinRequest) []ruleset.ThresholdBin {
	bins := make([]ruleset.ThresholdBin, 0, len(reqs))
	for _, req := range reqs {
		bins = append(bins, ruleset.ThresholdBin{MinValue: req.MinValue, Score: req.Score})
	}
	return bins
}
