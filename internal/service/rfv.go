package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vendalytics/vendalytics/internal/api/dto"
	"github.com/vendalytics/vendalytics/internal/cache"
	"github.com/vendalytics/vendalytics/internal/domain/ruleset"
	ierr "github.com/vendalytics/vendalytics/internal/errors"
	"github.com/vendalytics/vendalytics/internal/types"
)

// RFVService runs the recency/frequency/value analysis: it selects the
// active rule set, aggregates sales facts over the configured window, scores
// every customer on the three dimensions, assigns a segment by priority
// matching, and derives the automatic ranking tier.
type RFVService interface {
	AnalyzeCustomers(ctx context.Context, req *dto.RFVAnalysisRequest) (*dto.RFVAnalysisResponse, error)
}

type rfvService struct {
	ServiceParams
}

func NewRFVService(params ServiceParams) RFVService {
	return &rfvService{ServiceParams: params}
}

// customerMetrics accumulates raw facts for one customer within the window.
// Built in memory per request and discarded after the response.
type customerMetrics struct {
	frequency    int
	value        decimal.Decimal
	lastPurchase time.Time
}

func (s *rfvService) AnalyzeCustomers(ctx context.Context, req *dto.RFVAnalysisRequest) (*dto.RFVAnalysisResponse, error) {
	if req == nil {
		req = &dto.RFVAnalysisRequest{}
	}

	now := time.Now().UTC()

	rs, err := s.activeRuleSet(ctx, req.BranchID, now)
	if err != nil {
		return nil, err
	}

	windowStart := rs.WindowStart(now)

	facts, err := s.SalesFactRepo.ListInWindow(ctx, windowStart, now, req.BranchID)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to load sales facts for the analysis window").
			Mark(ierr.ErrDatabase)
	}

	metrics := make(map[string]*customerMetrics)
	for _, fact := range facts {
		if fact.CustomerID == "" {
			continue
		}
		m, ok := metrics[fact.CustomerID]
		if !ok {
			m = &customerMetrics{value: decimal.Zero}
			metrics[fact.CustomerID] = m
		}
		m.frequency++
		m.value = m.value.Add(fact.Amount)
		if fact.Date.After(m.lastPurchase) {
			m.lastPurchase = fact.Date
		}
	}

	customerIDs := make([]string, 0, len(metrics))
	for id := range metrics {
		customerIDs = append(customerIDs, id)
	}
	sort.Strings(customerIDs)

	results := make([]*dto.RFVCustomerResult, 0, len(metrics))
	for _, customerID := range customerIDs {
		results = append(results, s.scoreCustomer(rs, customerID, metrics[customerID], now))
	}

	s.Logger.Infow("rfv analysis complete",
		"rule_set_id", rs.ID,
		"customers", len(results),
		"window_start", windowStart,
	)

	return &dto.RFVAnalysisResponse{
		RuleSet: dto.RuleSetSummary{
			ID:         rs.ID,
			Name:       rs.Name,
			BranchID:   rs.BranchID,
			WindowDays: rs.WindowDays,
		},
		AnalysisDate: now,
		WindowStart:  windowStart,
		Results:      results,
	}, nil
}

// scoreCustomer scores one customer's metrics. Scoring never fails: a
// malformed bin or segment degrades to the default score or the unsegmented
// label, so one bad configuration entry cannot abort the whole batch.
func (s *rfvService) scoreCustomer(rs *ruleset.RuleSet, customerID string, m *customerMetrics, now time.Time) *dto.RFVCustomerResult {
	recency := int(now.Sub(m.lastPurchase) / (24 * time.Hour))

	recencyScore := rs.RecencyScore(recency)
	frequencyScore := rs.FrequencyScore(m.frequency)
	valueScore := rs.ValueScore(m.value)

	return &dto.RFVCustomerResult{
		CustomerID:     customerID,
		Frequency:      m.frequency,
		Value:          m.value,
		Recency:        recency,
		LastPurchase:   m.lastPurchase,
		RecencyScore:   recencyScore,
		FrequencyScore: frequencyScore,
		ValueScore:     valueScore,
		ScoreCode:      fmt.Sprintf("%d%d%d", recencyScore, frequencyScore, valueScore),
		Segment:        ruleset.MatchSegment(rs.Segments, recencyScore, frequencyScore, valueScore),
		RankingTier:    types.RankingTierFromTotal(recencyScore + frequencyScore + valueScore),
	}
}

// activeRuleSet resolves the active configuration for the branch, caching
// the lookup per tenant and branch for the configured TTL.
func (s *rfvService) activeRuleSet(ctx context.Context, branchID *string, asOf time.Time) (*ruleset.RuleSet, error) {
	branchKey := "global"
	if branchID != nil {
		branchKey = *branchID
	}
	key := cache.GenerateKey(cache.PrefixActiveRuleSet, branchKey)

	if s.Cache != nil {
		if cached, ok := s.Cache.Get(ctx, key); ok {
			if rs, ok := cached.(*ruleset.RuleSet); ok && rs.IsActiveAt(asOf) {
				return rs, nil
			}
		}
	}

	rs, err := s.RuleSetRepo.FindActive(ctx, branchID, asOf)
	if err != nil {
		return nil, err
	}

	if s.Cache != nil {
		s.Cache.Set(ctx, key, rs, s.Config.Analytics.RuleSetCacheTTL())
	}
	return rs, nil
}
