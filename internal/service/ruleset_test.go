package service

import (
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"github.com/vendalytics/vendalytics/internal/api/dto"
	"github.com/vendalytics/vendalytics/internal/cache"
	ierr "github.com/vendalytics/vendalytics/internal/errors"
	"github.com/vendalytics/vendalytics/internal/testutil"
	"github.com/vendalytics/vendalytics/internal/types"
)

type RuleSetServiceSuite struct {
	testutil.BaseServiceTestSuite
	service RuleSetService
}

func TestRuleSetService(t *testing.T) {
	suite.Run(t, new(RuleSetServiceSuite))
}

func (s *RuleSetServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewRuleSetService(newTestParams(&s.BaseServiceTestSuite))
}

func (s *RuleSetServiceSuite) validCreateRequest() *dto.CreateRuleSetRequest {
	return &dto.CreateRuleSetRequest{
		Name:          "default",
		EffectiveFrom: s.GetNow().AddDate(0, -1, 0),
		WindowDays:    365,
		RecencyBins: []dto.RecencyBinRequest{
			{MaxDays: lo.ToPtr(30), Score: 5},
			{MaxDays: lo.ToPtr(90), Score: 3},
		},
		FrequencyBins: []dto.ThresholdBinRequest{
			{MinValue: lo.ToPtr(decimal.NewFromInt(10)), Score: 5},
		},
		ValueBins: []dto.ThresholdBinRequest{
			{MinValue: lo.ToPtr(decimal.NewFromInt(1000)), Score: 5},
		},
		Segments: []dto.CreateSegmentRequest{
			{
				Name:     "vip",
				Priority: 10,
				Rules: []dto.SegmentRuleRequest{
					{Dimension: types.RFVDimensionRecency, Operator: ">=", Threshold: 4},
					{Dimension: types.RFVDimensionValue, Operator: "gte", Threshold: 4},
				},
			},
		},
	}
}

func (s *RuleSetServiceSuite) TestCreateRuleSet() {
	resp, err := s.service.CreateRuleSet(s.GetContext(), s.validCreateRequest())
	s.NoError(err)
	s.Require().NotNil(resp)
	s.NotEmpty(resp.ID)
	s.Equal("default", resp.Name)
	s.Equal(365, resp.WindowDays)
	s.Require().Len(resp.Segments, 1)

	// symbolic and named operators both resolve to the closed enum
	rules := resp.Segments[0].Rules
	s.Require().Len(rules, 2)
	s.Equal(types.OperatorGte, rules[0].Operator)
	s.Equal(types.OperatorGte, rules[1].Operator)
}

func (s *RuleSetServiceSuite) TestCreateRuleSetValidation() {
	tests := []struct {
		name   string
		mutate func(req *dto.CreateRuleSetRequest)
	}{
		{"missing name", func(req *dto.CreateRuleSetRequest) { req.Name = "" }},
		{"zero window", func(req *dto.CreateRuleSetRequest) { req.WindowDays = 0 }},
		{"score above range", func(req *dto.CreateRuleSetRequest) {
			req.RecencyBins[0].Score = 6
		}},
		{"unknown operator", func(req *dto.CreateRuleSetRequest) {
			req.Segments[0].Rules[0].Operator = "between"
		}},
		{"unknown dimension", func(req *dto.CreateRuleSetRequest) {
			req.Segments[0].Rules[0].Dimension = "loyalty"
		}},
		{"inverted effective range", func(req *dto.CreateRuleSetRequest) {
			req.EffectiveTo = lo.ToPtr(req.EffectiveFrom.AddDate(0, 0, -1))
		}},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			req := s.validCreateRequest()
			tt.mutate(req)

			resp, err := s.service.CreateRuleSet(s.GetContext(), req)
			s.Nil(resp)
			s.Error(err)
			s.True(ierr.IsValidation(err))
		})
	}
}

func (s *RuleSetServiceSuite) TestCreateRuleSetNilRequest() {
	resp, err := s.service.CreateRuleSet(s.GetContext(), nil)
	s.Nil(resp)
	s.True(ierr.IsValidation(err))
}

func (s *RuleSetServiceSuite) TestGetRuleSet() {
	created, err := s.service.CreateRuleSet(s.GetContext(), s.validCreateRequest())
	s.NoError(err)

	fetched, err := s.service.GetRuleSet(s.GetContext(), created.ID)
	s.NoError(err)
	s.Equal(created.ID, fetched.ID)
	s.Equal("default", fetched.Name)
}

func (s *RuleSetServiceSuite) TestGetRuleSetNotFound() {
	_, err := s.service.GetRuleSet(s.GetContext(), "ruleset_missing")
	s.True(ierr.IsNotFound(err))
}

func (s *RuleSetServiceSuite) TestListRuleSets() {
	for i := 0; i < 3; i++ {
		req := s.validCreateRequest()
		_, err := s.service.CreateRuleSet(s.GetContext(), req)
		s.NoError(err)
	}

	resp, err := s.service.ListRuleSets(s.GetContext(), &types.RuleSetFilter{
		QueryFilter: &types.QueryFilter{
			Limit:  lo.ToPtr(2),
			Offset: lo.ToPtr(0),
		},
	})
	s.NoError(err)
	s.Equal(3, resp.Pagination.Total)
	s.Len(resp.Items, 2)
}

func (s *RuleSetServiceSuite) TestUpdateRuleSet() {
	created, err := s.service.CreateRuleSet(s.GetContext(), s.validCreateRequest())
	s.NoError(err)

	updated, err := s.service.UpdateRuleSet(s.GetContext(), created.ID, &dto.UpdateRuleSetRequest{
		Name:       lo.ToPtr("seasonal"),
		WindowDays: lo.ToPtr(90),
		Segments: []dto.CreateSegmentRequest{
			{
				Name:     "frequent",
				Priority: 5,
				Rules: []dto.SegmentRuleRequest{
					{Dimension: types.RFVDimensionFrequency, Operator: ">=", Threshold: 4},
				},
			},
		},
	})
	s.NoError(err)
	s.Equal("seasonal", updated.Name)
	s.Equal(90, updated.WindowDays)
	s.Require().Len(updated.Segments, 1)
	s.Equal("frequent", updated.Segments[0].Name)

	// bins without an update stay untouched
	s.Len(updated.RecencyBins, 2)
}

func (s *RuleSetServiceSuite) TestUpdateRuleSetNotFound() {
	_, err := s.service.UpdateRuleSet(s.GetContext(), "ruleset_missing", &dto.UpdateRuleSetRequest{
		Name: lo.ToPtr("ghost"),
	})
	s.True(ierr.IsNotFound(err))
}

func (s *RuleSetServiceSuite) TestDeleteRuleSet() {
	created, err := s.service.CreateRuleSet(s.GetContext(), s.validCreateRequest())
	s.NoError(err)

	s.NoError(s.service.DeleteRuleSet(s.GetContext(), created.ID))

	_, err = s.service.GetRuleSet(s.GetContext(), created.ID)
	s.True(ierr.IsNotFound(err))
}

func (s *RuleSetServiceSuite) TestDeleteRuleSetNotFound() {
	err := s.service.DeleteRuleSet(s.GetContext(), "ruleset_missing")
	s.True(ierr.IsNotFound(err))
}

func (s *RuleSetServiceSuite) TestWritesInvalidateActiveCache() {
	key := cache.GenerateKey(cache.PrefixActiveRuleSet, "global")
	s.GetCache().Set(s.GetContext(), key, "stale", time.Minute)

	_, err := s.service.CreateRuleSet(s.GetContext(), s.validCreateRequest())
	s.NoError(err)

	_, found := s.GetCache().Get(s.GetContext(), key)
	s.False(found)
}
