package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/vendalytics/vendalytics/internal/types"
)

// RFVAnalysisRequest carries the optional branch filter for an analysis run
type RFVAnalysisRequest struct {
	BranchID *string `form:"branch_id" json:"branch_id,omitempty"`
}

// RuleSetSummary identifies the configuration an analysis ran with
type RuleSetSummary struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	BranchID   *string `json:"branch_id,omitempty"`
	WindowDays int     `json:"window_days"`
}

// RFVCustomerResult is one scored customer in an analysis response
type RFVCustomerResult struct {
	CustomerID     string            `json:"customer_id"`
	Frequency      int               `json:"frequency"`
	Value          decimal.Decimal   `json:"value"`
	Recency        int               `json:"recency"`
	LastPurchase   time.Time         `json:"last_purchase"`
	RecencyScore   int               `json:"recency_score"`
	FrequencyScore int               `json:"frequency_score"`
	ValueScore     int               `json:"value_score"`
	ScoreCode      string            `json:"score_code"`
	Segment        string            `json:"segment"`
	RankingTier    types.RankingTier `json:"ranking_tier"`
}

// RFVAnalysisResponse is the full output of one analysis run
type RFVAnalysisResponse struct {
	RuleSet      RuleSetSummary       `json:"rule_set"`
	AnalysisDate time.Time            `json:"analysis_date"`
	WindowStart  time.Time            `json:"window_start"`
	Results      []*RFVCustomerResult `json:"results"`
}
