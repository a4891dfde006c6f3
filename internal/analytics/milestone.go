package analytics

// Tier names a leaderboard milestone.
type Tier string

const (
	TierBronze Tier = "Bronze"
	TierSilver Tier = "Silver"
	TierGold   Tier = "Gold"
)

// milestoneBands are the point thresholds in ascending order. Each band
// runs from the previous threshold (0 for the first) up to its own.
var milestoneBands = []struct {
	threshold int
	tier      Tier
}{
	{1000, TierBronze},
	{5000, TierSilver},
	{10000, TierGold},
}

// Milestone describes progress toward the next point threshold.
type Milestone struct {
	NextThreshold int
	Label         Tier
	Percent       float64 // progress through the current band, 0-100
	Achieved      bool    // all thresholds reached
}

// NextMilestone returns the first threshold above totalPoints and how far
// through the band leading to it the learner is.
func NextMilestone(totalPoints int) Milestone {
	if totalPoints < 0 {
		totalPoints = 0
	}
	lower := 0
	for _, b := range milestoneBands {
		if totalPoints < b.threshold {
			pct := float64(totalPoints-lower) / float64(b.threshold-lower) * 100
			return Milestone{
				NextThreshold: b.threshold,
				Label:         b.tier,
				Percent:       clamp(pct, 0, 100),
			}
		}
		lower = b.threshold
	}
	return Milestone{Achieved: true, Percent: 100}
}

// String returns a short label for display.
func (m Milestone) String() string {
	if m.Achieved {
		return "Achieved"
	}
	return string(m.Label)
}
