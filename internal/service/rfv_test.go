package service

import (
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"github.com/vendalytics/vendalytics/internal/api/dto"
	"github.com/vendalytics/vendalytics/internal/domain/ruleset"
	"github.com/vendalytics/vendalytics/internal/domain/salesfact"
	ierr "github.com/vendalytics/vendalytics/internal/errors"
	"github.com/vendalytics/vendalytics/internal/testutil"
	"github.com/vendalytics/vendalytics/internal/types"
)

func newTestParams(s *testutil.BaseServiceTestSuite) ServiceParams {
	stores := s.GetStores()
	return ServiceParams{
		Logger:          s.GetLogger(),
		Config:          s.GetConfig(),
		Cache:           s.GetCache(),
		RuleSetRepo:     stores.RuleSetRepo,
		SalesFactRepo:   stores.SalesFactRepo,
		LineItemRepo:    stores.LineItemRepo,
		ProductRepo:     stores.ProductRepo,
		ProductPairRepo: stores.ProductPairRepo,
	}
}

type RFVServiceSuite struct {
	testutil.BaseServiceTestSuite
	service RFVService
}

func TestRFVService(t *testing.T) {
	suite.Run(t, new(RFVServiceSuite))
}

func (s *RFVServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewRFVService(newTestParams(&s.BaseServiceTestSuite))
}

func (s *RFVServiceSuite) seedRuleSet(branchID *string, effectiveFrom time.Time) *ruleset.RuleSet {
	rs := &ruleset.RuleSet{
		ID:            types.GenerateUUIDWithPrefix(types.UUID_PREFIX_RULESET),
		Name:          "annual",
		BranchID:      branchID,
		EffectiveFrom: effectiveFrom,
		WindowDays:    365,
		RecencyBins: []ruleset.RecencyBin{
			{MaxDays: lo.ToPtr(30), Score: 5},
			{MaxDays: lo.ToPtr(90), Score: 3},
		},
		FrequencyBins: []ruleset.ThresholdBin{
			{MinValue: lo.ToPtr(decimal.NewFromInt(10)), Score: 5},
			{MinValue: lo.ToPtr(decimal.NewFromInt(5)), Score: 3},
			{MinValue: lo.ToPtr(decimal.NewFromInt(2)), Score: 2},
		},
		ValueBins: []ruleset.ThresholdBin{
			{MinValue: lo.ToPtr(decimal.NewFromInt(1000)), Score: 5},
			{MinValue: lo.ToPtr(decimal.NewFromInt(500)), Score: 3},
		},
		Segments: []*ruleset.Segment{
			{
				ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_SEGMENT),
				Name:      "vip",
				Priority:  10,
				BaseModel: types.GetDefaultBaseModel(s.GetContext()),
				Rules: []ruleset.SegmentRule{
					{Dimension: types.RFVDimensionRecency, Operator: types.OperatorGte, Threshold: 4},
					{Dimension: types.RFVDimensionValue, Operator: types.OperatorGte, Threshold: 4},
				},
			},
			{
				ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_SEGMENT),
				Name:      "active",
				Priority:  1,
				BaseModel: types.GetDefaultBaseModel(s.GetContext()),
				Rules: []ruleset.SegmentRule{
					{Dimension: types.RFVDimensionRecency, Operator: types.OperatorGte, Threshold: 3},
				},
			},
		},
		BaseModel: types.GetDefaultBaseModel(s.GetContext()),
	}
	s.NoError(s.GetStores().RuleSetRepo.Create(s.GetContext(), rs))
	return rs
}

func (s *RFVServiceSuite) seedFacts(customerID string, count int, amountEach int64, lastPurchase time.Time) {
	store := s.GetStores().SalesFactRepo.(*testutil.InMemorySalesFactStore)
	for i := 0; i < count; i++ {
		store.Add(&salesfact.SalesFact{
			CustomerID: customerID,
			Date:       lastPurchase.AddDate(0, 0, -i),
			Amount:     decimal.NewFromInt(amountEach),
		})
	}
}

func (s *RFVServiceSuite) TestAnalyzeCustomersNoActiveRuleSet() {
	resp, err := s.service.AnalyzeCustomers(s.GetContext(), &dto.RFVAnalysisRequest{})
	s.Nil(resp)
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *RFVServiceSuite) TestAnalyzeCustomersScoring() {
	s.seedRuleSet(nil, s.GetNow().AddDate(-1, 0, 0))

	// 10 purchases of 120, most recent 10 days ago: every dimension lands
	// in the top bin
	s.seedFacts("cust-1", 10, 120, s.GetNow().AddDate(0, 0, -10))

	// a single stale purchase: every dimension falls through to the default
	s.seedFacts("cust-2", 1, 50, s.GetNow().AddDate(0, 0, -100))

	resp, err := s.service.AnalyzeCustomers(s.GetContext(), &dto.RFVAnalysisRequest{})
	s.NoError(err)
	s.Require().NotNil(resp)
	s.Require().Len(resp.Results, 2)

	// results are ordered by customer id
	first := resp.Results[0]
	s.Equal("cust-1", first.CustomerID)
	s.Equal(10, first.Frequency)
	s.True(first.Value.Equal(decimal.NewFromInt(1200)))
	s.Equal(5, first.RecencyScore)
	s.Equal(5, first.FrequencyScore)
	s.Equal(5, first.ValueScore)
	s.Equal("555", first.ScoreCode)
	s.Equal("vip", first.Segment)
	s.Equal(types.RankingTierDiamante, first.RankingTier)

	second := resp.Results[1]
	s.Equal("cust-2", second.CustomerID)
	s.Equal(1, second.RecencyScore)
	s.Equal(1, second.FrequencyScore)
	s.Equal(1, second.ValueScore)
	s.Equal("111", second.ScoreCode)
	s.Equal(types.SegmentLabelNone, second.Segment)
	s.Equal(types.RankingTierBronze, second.RankingTier)
}

func (s *RFVServiceSuite) TestAnalyzeCustomersMidTier() {
	s.seedRuleSet(nil, s.GetNow().AddDate(-1, 0, 0))

	// 5 purchases of 110, most recent 45 days ago: recency 3, frequency 3,
	// value 3 totals 9 which is Prata
	s.seedFacts("cust-3", 5, 110, s.GetNow().AddDate(0, 0, -45))

	resp, err := s.service.AnalyzeCustomers(s.GetContext(), &dto.RFVAnalysisRequest{})
	s.NoError(err)
	s.Require().Len(resp.Results, 1)

	result := resp.Results[0]
	s.Equal("333", result.ScoreCode)
	s.Equal(types.RankingTierPrata, result.RankingTier)
	// recency 3 matches "active" but not "vip"
	s.Equal("active", result.Segment)
}

func (s *RFVServiceSuite) TestAnalyzeCustomersBranchRuleSetWins() {
	branchID := "branch-1"

	global := s.seedRuleSet(nil, s.GetNow().AddDate(-1, 0, 0))
	scoped := s.seedRuleSet(&branchID, s.GetNow().AddDate(0, -6, 0))

	resp, err := s.service.AnalyzeCustomers(s.GetContext(), &dto.RFVAnalysisRequest{BranchID: &branchID})
	s.NoError(err)
	s.Equal(scoped.ID, resp.RuleSet.ID)
	s.NotEqual(global.ID, resp.RuleSet.ID)
}

func (s *RFVServiceSuite) TestAnalyzeCustomersLaterEffectiveFromWins() {
	older := s.seedRuleSet(nil, s.GetNow().AddDate(-2, 0, 0))
	newer := s.seedRuleSet(nil, s.GetNow().AddDate(0, -1, 0))

	resp, err := s.service.AnalyzeCustomers(s.GetContext(), &dto.RFVAnalysisRequest{})
	s.NoError(err)
	s.Equal(newer.ID, resp.RuleSet.ID)
	s.NotEqual(older.ID, resp.RuleSet.ID)
}

func (s *RFVServiceSuite) TestAnalyzeCustomersExcludesFactsOutsideWindow() {
	rs := s.seedRuleSet(nil, s.GetNow().AddDate(-2, 0, 0))
	s.Equal(365, rs.WindowDays)

	// outside the 365-day window entirely
	s.seedFacts("cust-old", 3, 800, s.GetNow().AddDate(-2, 0, 0))

	resp, err := s.service.AnalyzeCustomers(s.GetContext(), &dto.RFVAnalysisRequest{})
	s.NoError(err)
	s.Empty(resp.Results)
}

func (s *RFVServiceSuite) TestAnalyzeCustomersUsesCachedRuleSet() {
	rs := s.seedRuleSet(nil, s.GetNow().AddDate(-1, 0, 0))

	resp, err := s.service.AnalyzeCustomers(s.GetContext(), &dto.RFVAnalysisRequest{})
	s.NoError(err)
	s.Equal(rs.ID, resp.RuleSet.ID)

	// remove the stored rule set; the second analysis is served from cache
	s.NoError(s.GetStores().RuleSetRepo.Delete(s.GetContext(), rs.ID))

	resp, err = s.service.AnalyzeCustomers(s.GetContext(), &dto.RFVAnalysisRequest{})
	s.NoError(err)
	s.Equal(rs.ID, resp.RuleSet.ID)
}
