package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextMilestone(t *testing.T) {
	tests := []struct {
		points    int
		threshold int
		label     Tier
		percent   float64
		achieved  bool
	}{
		{0, 1000, TierBronze, 0, false},
		{750, 1000, TierBronze, 75, false},
		{1000, 5000, TierSilver, 0, false},
		{3000, 5000, TierSilver, 50, false},
		{7500, 10000, TierGold, 50, false},
		{9999, 10000, TierGold, 99.98, false},
		{10000, 0, "", 100, true},
		{250000, 0, "", 100, true},
		{-50, 1000, TierBronze, 0, false},
	}

	for _, tt := range tests {
		m := NextMilestone(tt.points)
		assert.Equal(t, tt.achieved, m.Achieved, "points=%d", tt.points)
		assert.Equal(t, tt.threshold, m.NextThreshold, "points=%d", tt.points)
		assert.Equal(t, tt.label, m.Label, "points=%d", tt.points)
		assert.InDelta(t, tt.percent, m.Percent, 1e-9, "points=%d", tt.points)
	}
}

func TestMilestone_String(t *testing.T) {
	assert.Equal(t, "Bronze", NextMilestone(10).String())
	assert.Equal(t, "Achieved", NextMilestone(10000).String())
}
