package service

import (
	"context"

	"github.com/samber/lo"
	"github.com/vendalytics/vendalytics/internal/api/dto"
	"github.com/vendalytics/vendalytics/internal/cache"
	"github.com/vendalytics/vendalytics/internal/domain/ruleset"
	ierr "github.com/vendalytics/vendalytics/internal/errors"
	"github.com/vendalytics/vendalytics/internal/types"
)

// RuleSetService manages RFV scoring configurations
type RuleSetService interface {
	CreateRuleSet(ctx context.Context, req *dto.CreateRuleSetRequest) (*dto.RuleSetResponse, error)
	GetRuleSet(ctx context.Context, id string) (*dto.RuleSetResponse, error)
	ListRuleSets(ctx context.Context, filter *types.RuleSetFilter) (*dto.ListRuleSetsResponse, error)
	UpdateRuleSet(ctx context.Context, id string, req *dto.UpdateRuleSetRequest) (*dto.RuleSetResponse, error)
	DeleteRuleSet(ctx context.Context, id string) error
}

type ruleSetService struct {
	ServiceParams
}

func NewRuleSetService(params ServiceParams) RuleSetService {
	return &ruleSetService{ServiceParams: params}
}

func (s *ruleSetService) CreateRuleSet(ctx context.Context, req *dto.CreateRuleSetRequest) (*dto.RuleSetResponse, error) {
	if req == nil {
		return nil, ierr.NewError("request cannot be nil").
			WithHint("Request body is required").
			Mark(ierr.ErrValidation)
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	rs, err := req.ToRuleSet(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.RuleSetRepo.Create(ctx, rs); err != nil {
		return nil, err
	}

	s.invalidateActiveCache(ctx)
	s.Logger.Infow("created rule set", "rule_set_id", rs.ID, "branch_id", rs.BranchID)

	return dto.ToRuleSetResponse(rs), nil
}

func (s *ruleSetService) GetRuleSet(ctx context.Context, id string) (*dto.RuleSetResponse, error) {
	if id == "" {
		return nil, ierr.NewError("rule set id is required").
			WithHint("Rule set ID is required").
			Mark(ierr.ErrValidation)
	}

	rs, err := s.RuleSetRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.ToRuleSetResponse(rs), nil
}

func (s *ruleSetService) ListRuleSets(ctx context.Context, filter *types.RuleSetFilter) (*dto.ListRuleSetsResponse, error) {
	if filter == nil {
		filter = types.NewRuleSetFilter()
	}
	if filter.QueryFilter == nil {
		filter.QueryFilter = types.NewDefaultQueryFilter()
	}
	if err := filter.Validate(); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Invalid filter parameters").
			Mark(ierr.ErrValidation)
	}

	ruleSets, err := s.RuleSetRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	total, err := s.RuleSetRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := lo.Map(ruleSets, func(rs *ruleset.RuleSet, _ int) *dto.RuleSetResponse {
		return dto.ToRuleSetResponse(rs)
	})

	response := types.NewListResponse(items, total, filter.GetPage(), filter.GetLimit())
	return &response, nil
}

func (s *ruleSetService) UpdateRuleSet(ctx context.Context, id string, req *dto.UpdateRuleSetRequest) (*dto.RuleSetResponse, error) {
	if id == "" {
		return nil, ierr.NewError("rule set id is required").
			WithHint("Rule set ID is required").
			Mark(ierr.ErrValidation)
	}
	if req == nil {
		return nil, ierr.NewError("request cannot be nil").
			WithHint("Request body is required").
			Mark(ierr.ErrValidation)
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	rs, err := s.RuleSetRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		rs.Name = *req.Name
	}
	if req.EffectiveTo != nil {
		to := req.EffectiveTo.UTC()
		rs.EffectiveTo = &to
	}
	if req.WindowDays != nil {
		rs.WindowDays = *req.WindowDays
	}
	if req.RecencyBins != nil {
		rs.RecencyBins = dto.ToRecencyBins(req.RecencyBins)
	}
	if req.FrequencyBins != nil {
		rs.FrequencyBins = dto.ToThresholdBins(req.FrequencyBins)
	}
	if req.ValueBins != nil {
		rs.ValueBins = dto.ToThresholdBins(req.ValueBins)
	}
	if req.Segments != nil {
		segments := make([]*ruleset.Segment, 0, len(req.Segments))
		for _, segReq := range req.Segments {
			seg, err := segReq.ToSegment(ctx, rs.ID)
			if err != nil {
				return nil, err
			}
			segments = append(segments, seg)
		}
		rs.Segments = segments
	}

	if err := rs.Validate(); err != nil {
		return nil, err
	}

	rs.UpdatedBy = types.GetUserID(ctx)

	if err := s.RuleSetRepo.Update(ctx, rs); err != nil {
		return nil, err
	}

	s.invalidateActiveCache(ctx)
	s.Logger.Infow("updated rule set", "rule_set_id", rs.ID)

	return dto.ToRuleSetResponse(rs), nil
}

func (s *ruleSetService) DeleteRuleSet(ctx context.Context, id string) error {
	if id == "" {
		return ierr.NewError("rule set id is required").
			WithHint("Rule set ID is required").
			Mark(ierr.ErrValidation)
	}

	if err := s.RuleSetRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidateActiveCache(ctx)
	s.Logger.Infow("deleted rule set", "rule_set_id", id)
	return nil
}

// invalidateActiveCache drops every cached active-ruleset lookup; any write
// may change which rule set is active for some branch.
func (s *ruleSetService) invalidateActiveCache(ctx context.Context) {
	if s.Cache != nil {
		s.Cache.DeleteByPrefix(ctx, cache.PrefixActiveRuleSet)
	}
}
