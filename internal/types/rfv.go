package types

// RFVDimension identifies one of the three scored dimensions of the
// recency/frequency/value model.
type RFVDimension string

const (
	RFVDimensionRecency   RFVDimension = "recency"
	RFVDimensionFrequency RFVDimension = "frequency"
	RFVDimensionValue     RFVDimension = "value"
)

func (d RFVDimension) Validate() bool {
	switch d {
	case RFVDimensionRecency, RFVDimensionFrequency, RFVDimensionValue:
		return true
	}
	return false
}

// Score bounds for every RFV dimension. Bins may only emit scores in this
// range, so the total over three dimensions is always within [3, 15].
const (
	RFVScoreMin = 1
	RFVScoreMax = 5
)

// SegmentLabelNone is returned when no configured segment matches a customer
const SegmentLabelNone = "unsegmented"

// RankingTier is the automatic tier derived from the sum of the three RFV
// scores. Boundaries are fixed and not part of any rule set.
type RankingTier string

const (
	RankingTierBronze   RankingTier = "Bronze"
	RankingTierPrata    RankingTier = "Prata"
	RankingTierOuro     RankingTier = "Ouro"
	RankingTierDiamante RankingTier = "Diamante"
)

// RankingTierFromTotal maps a total score to its tier:
// [3,6] Bronze, [7,9] Prata, [10,12] Ouro, [13,15] Diamante.
func RankingTierFromTotal(total int) RankingTier {
	switch {
	case total >= 13:
		return RankingTierDiamante
	case total >= 10:
		return RankingTierOuro
	case total >= 7:
		return RankingTierPrata
	default:
		return RankingTierBronze
	}
}
