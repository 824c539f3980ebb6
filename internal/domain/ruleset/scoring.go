package ruleset

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/vendalytics/vendalytics/internal/types"
)

// DefaultScore is assigned when a dimension has no bins, only malformed
// bins, or no bin matching the metric. Scoring never fails: partial or
// evolving configurations degrade to the lowest score instead of aborting
// the analysis batch.
const DefaultScore = types.RFVScoreMin

func validScore(score int) bool {
	return score >= types.RFVScoreMin && score <= types.RFVScoreMax
}

// RecencyScore maps days-since-last-purchase to a score. Bins are evaluated
// tightest first (ascending MaxDays); the first bin with days <= MaxDays
// wins.
func (rs *RuleSet) RecencyScore(days int) int {
	bins := make([]RecencyBin, 0, len(rs.RecencyBins))
	for _, bin := range rs.RecencyBins {
		if bin.MaxDays == nil || !validScore(bin.Score) {
			continue
		}
		bins = append(bins, bin)
	}

	sort.SliceStable(bins, func(i, j int) bool {
		return *bins[i].MaxDays < *bins[j].MaxDays
	})

	for _, bin := range bins {
		if days <= *bin.MaxDays {
			return bin.Score
		}
	}
	return DefaultScore
}

// FrequencyScore maps a purchase count to a score
func (rs *RuleSet) FrequencyScore(frequency int) int {
	return thresholdScore(rs.FrequencyBins, decimal.NewFromInt(int64(frequency)))
}

// ValueScore maps a monetary total to a score
func (rs *RuleSet) ValueScore(value decimal.Decimal) int {
	return thresholdScore(rs.ValueBins, value)
}

// thresholdScore evaluates "metric >= min" bins tightest first (descending
// MinValue) and returns the first matching bin's score.
func thresholdScore(bins []ThresholdBin, metric decimal.Decimal) int {
	valid := make([]ThresholdBin, 0, len(bins))
	for _, bin := range bins {
		if bin.MinValue == nil || !validScore(bin.Score) {
			continue
		}
		valid = append(valid, bin)
	}

	sort.SliceStable(valid, func(i, j int) bool {
		return valid[i].MinValue.GreaterThan(*valid[j].MinValue)
	})

	for _, bin := range valid {
		if metric.GreaterThanOrEqual(*bin.MinValue) {
			return bin.Score
		}
	}
	return DefaultScore
}

// Matches reports whether every rule the segment declares holds for the
// given scores. Dimensions without a rule are wildcards.
func (s *Segment) Matches(recencyScore, frequencyScore, valueScore int) bool {
	for _, rule := range s.Rules {
		var score int
		switch rule.Dimension {
		case types.RFVDimensionRecency:
			score = recencyScore
		case types.RFVDimensionFrequency:
			score = frequencyScore
		case types.RFVDimensionValue:
			score = valueScore
		default:
			// unknown dimension on a stored rule: treat the segment as
			// unmatchable rather than failing the batch
			return false
		}
		if !rule.Operator.Evaluate(score, rule.Threshold) {
			return false
		}
	}
	return true
}

// MatchSegment evaluates segments in descending priority and returns the
// name of the first full match, or the unsegmented sentinel when none match.
func MatchSegment(segments []*Segment, recencyScore, frequencyScore, valueScore int) string {
	ordered := make([]*Segment, len(segments))
	copy(ordered, segments)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Priority > ordered[j].Priority
	})

	for _, seg := range ordered {
		if seg.Matches(recencyScore, frequencyScore, valueScore) {
			return seg.Name
		}
	}
	return types.SegmentLabelNone
}
