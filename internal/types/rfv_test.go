package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRankingTierFromTotal(t *testing.T) {
	tests := []struct {
		total    int
		expected RankingTier
	}{
		{3, RankingTierBronze},
		{6, RankingTierBronze},
		{7, RankingTierPrata},
		{9, RankingTierPrata},
		{10, RankingTierOuro},
		{12, RankingTierOuro},
		{13, RankingTierDiamante},
		{15, RankingTierDiamante},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, RankingTierFromTotal(tt.total), "total %d", tt.total)
	}
}
