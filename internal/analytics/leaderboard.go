package analytics

// PointsPerDifficulty is the score awarded per difficulty level for a
// correct answer.
const PointsPerDifficulty = 10

// Points totals a history the way the leaderboard scores it: each correct
// answer earns its difficulty level times PointsPerDifficulty.
func Points(attempts []Attempt) int {
	total := 0
	for _, a := range attempts {
		if a.Correct {
			total += a.DifficultyLevel * PointsPerDifficulty
		}
	}
	return total
}

// Percentile returns rank/totalUsers as a percentage in [0, 100]. Lower is
// better: rank 1 of 4 is the 25th percentile. Returns 0 when there are no
// users or the rank is unknown.
func Percentile(rank, totalUsers int) float64 {
	if totalUsers <= 0 || rank <= 0 {
		return 0
	}
	return clamp(float64(rank)/float64(totalUsers)*100, 0, 100)
}
