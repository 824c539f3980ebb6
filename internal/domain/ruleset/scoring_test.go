package ruleset

import (
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/vendalytics/vendalytics/internal/types"
)

func TestRecencyScore(t *testing.T) {
	rs := &RuleSet{
		RecencyBins: []RecencyBin{
			// deliberately unsorted; scoring must order by MaxDays ascending
			{MaxDays: lo.ToPtr(90), Score: 3},
			{MaxDays: lo.ToPtr(30), Score: 5},
		},
	}

	tests := []struct {
		name     string
		days     int
		expected int
	}{
		{"well inside tightest bin", 10, 5},
		{"exactly on tightest boundary", 30, 5},
		{"just past tightest boundary", 31, 3},
		{"exactly on loosest boundary", 90, 3},
		{"past every bin", 91, 1},
		{"zero days", 0, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, rs.RecencyScore(tt.days))
		})
	}
}

func TestRecencyScoreMalformedBins(t *testing.T) {
	rs := &RuleSet{
		RecencyBins: []RecencyBin{
			{MaxDays: nil, Score: 5},
			{MaxDays: lo.ToPtr(30), Score: 0},
			{MaxDays: lo.ToPtr(60), Score: 6},
		},
	}

	// every bin is malformed, so any input falls through to the default
	assert.Equal(t, DefaultScore, rs.RecencyScore(10))
	assert.Equal(t, DefaultScore, rs.RecencyScore(1000))
}

func TestRecencyScoreNoBins(t *testing.T) {
	rs := &RuleSet{}
	assert.Equal(t, DefaultScore, rs.RecencyScore(5))
}

func TestRecencyScorePartiallyMalformed(t *testing.T) {
	rs := &RuleSet{
		RecencyBins: []RecencyBin{
			{MaxDays: nil, Score: 5},
			{MaxDays: lo.ToPtr(60), Score: 4},
		},
	}

	// the valid bin still applies
	assert.Equal(t, 4, rs.RecencyScore(45))
	assert.Equal(t, DefaultScore, rs.RecencyScore(61))
}

func TestFrequencyScore(t *testing.T) {
	rs := &RuleSet{
		FrequencyBins: []ThresholdBin{
			{MinValue: lo.ToPtr(decimal.NewFromInt(1)), Score: 1},
			{MinValue: lo.ToPtr(decimal.NewFromInt(10)), Score: 5},
			{MinValue: lo.ToPtr(decimal.NewFromInt(5)), Score: 3},
		},
	}

	tests := []struct {
		name      string
		frequency int
		expected  int
	}{
		{"above highest threshold", 12, 5},
		{"exactly highest threshold", 10, 5},
		{"middle band", 7, 3},
		{"lowest band", 2, 1},
		{"below every threshold", 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, rs.FrequencyScore(tt.frequency))
		})
	}
}

func TestValueScore(t *testing.T) {
	rs := &RuleSet{
		ValueBins: []ThresholdBin{
			{MinValue: lo.ToPtr(decimal.NewFromInt(500)), Score: 3},
			{MinValue: lo.ToPtr(decimal.NewFromInt(1000)), Score: 5},
		},
	}

	assert.Equal(t, 5, rs.ValueScore(decimal.NewFromInt(1500)))
	assert.Equal(t, 5, rs.ValueScore(decimal.NewFromInt(1000)))
	assert.Equal(t, 3, rs.ValueScore(decimal.NewFromFloat(999.99)))
	assert.Equal(t, DefaultScore, rs.ValueScore(decimal.NewFromInt(499)))
}

func TestValueScoreMalformedBins(t *testing.T) {
	rs := &RuleSet{
		ValueBins: []ThresholdBin{
			{MinValue: nil, Score: 5},
			{MinValue: lo.ToPtr(decimal.NewFromInt(100)), Score: -1},
		},
	}
	assert.Equal(t, DefaultScore, rs.ValueScore(decimal.NewFromInt(10000)))
}

func TestSegmentMatches(t *testing.T) {
	seg := &Segment{
		Name: "champions",
		Rules: []SegmentRule{
			{Dimension: types.RFVDimensionRecency, Operator: types.OperatorGte, Threshold: 4},
			{Dimension: types.RFVDimensionValue, Operator: types.OperatorGte, Threshold: 4},
		},
	}

	// frequency has no rule, so it is a wildcard
	assert.True(t, seg.Matches(5, 1, 4))
	assert.True(t, seg.Matches(4, 5, 5))
	assert.False(t, seg.Matches(3, 5, 5))
	assert.False(t, seg.Matches(5, 5, 3))
}

func TestSegmentMatchesNoRules(t *testing.T) {
	seg := &Segment{Name: "everyone"}
	assert.True(t, seg.Matches(1, 1, 1))
}

func TestSegmentMatchesUnknownDimension(t *testing.T) {
	seg := &Segment{
		Name: "broken",
		Rules: []SegmentRule{
			{Dimension: "loyalty", Operator: types.OperatorGte, Threshold: 1},
		},
	}
	// a rule on an unknown dimension makes the segment unmatchable
	assert.False(t, seg.Matches(5, 5, 5))
}

func TestMatchSegmentPriorityOrder(t *testing.T) {
	segments := []*Segment{
		{
			Name:     "active",
			Priority: 1,
			Rules: []SegmentRule{
				{Dimension: types.RFVDimensionRecency, Operator: types.OperatorGte, Threshold: 3},
			},
		},
		{
			Name:     "vip",
			Priority: 10,
			Rules: []SegmentRule{
				{Dimension: types.RFVDimensionRecency, Operator: types.OperatorGte, Threshold: 4},
				{Dimension: types.RFVDimensionValue, Operator: types.OperatorGte, Threshold: 4},
			},
		},
	}

	// both match, higher priority wins
	assert.Equal(t, "vip", MatchSegment(segments, 5, 3, 5))
	// only the lower priority segment matches
	assert.Equal(t, "active", MatchSegment(segments, 4, 3, 2))
	// nothing matches
	assert.Equal(t, types.SegmentLabelNone, MatchSegment(segments, 1, 1, 1))
}

func TestMatchSegmentEqualPriorityIsStable(t *testing.T) {
	segments := []*Segment{
		{Name: "first", Priority: 5},
		{Name: "second", Priority: 5},
	}

	// equal priority keeps declaration order, deterministically
	for i := 0; i < 10; i++ {
		assert.Equal(t, "first", MatchSegment(segments, 3, 3, 3))
	}
}

func TestMatchSegmentEmpty(t *testing.T) {
	assert.Equal(t, types.SegmentLabelNone, MatchSegment(nil, 5, 5, 5))
}

func TestIsActiveAt(t *testing.T) {
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	rs := &RuleSet{EffectiveFrom: from, EffectiveTo: &to}

	assert.False(t, rs.IsActiveAt(from.Add(-time.Second)))
	assert.True(t, rs.IsActiveAt(from))
	assert.True(t, rs.IsActiveAt(from.AddDate(0, 2, 0)))
	// effective_to is exclusive
	assert.False(t, rs.IsActiveAt(to))
	assert.False(t, rs.IsActiveAt(to.Add(time.Second)))
}

func TestIsActiveAtOpenEnded(t *testing.T) {
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rs := &RuleSet{EffectiveFrom: from}

	assert.True(t, rs.IsActiveAt(from.AddDate(10, 0, 0)))
}

func TestRuleSetValidate(t *testing.T) {
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		rs      *RuleSet
		wantErr bool
	}{
		{
			name:    "valid",
			rs:      &RuleSet{Name: "default", WindowDays: 365, EffectiveFrom: from},
			wantErr: false,
		},
		{
			name:    "missing name",
			rs:      &RuleSet{WindowDays: 365, EffectiveFrom: from},
			wantErr: true,
		},
		{
			name:    "zero window",
			rs:      &RuleSet{Name: "default", WindowDays: 0, EffectiveFrom: from},
			wantErr: true,
		},
		{
			name: "effective range inverted",
			rs: &RuleSet{
				Name:          "default",
				WindowDays:    30,
				EffectiveFrom: from,
				EffectiveTo:   lo.ToPtr(from.AddDate(0, 0, -1)),
			},
			wantErr: true,
		},
		{
			name: "segment with invalid operator",
			rs: &RuleSet{
				Name:          "default",
				WindowDays:    30,
				EffectiveFrom: from,
				Segments: []*Segment{
					{
						Name: "broken",
						Rules: []SegmentRule{
							{Dimension: types.RFVDimensionRecency, Operator: ">=", Threshold: 3},
						},
					},
				},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.rs.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
