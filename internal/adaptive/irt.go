package adaptive

// LevelFromIRT maps an IRT difficulty or ability on the backend's
// [-3, 3] scale to a 1..5 difficulty level. Band edges are inclusive on
// the upper side.
func LevelFromIRT(theta float64) int {
	switch {
	case theta <= -1.5:
		return 1
	case theta <= -0.5:
		return 2
	case theta <= 0.5:
		return 3
	case theta <= 1.5:
		return 4
	default:
		return 5
	}
}

// IRTFromLevel maps a 1..5 difficulty level to the centre of its IRT band.
// Unknown levels map to 0, the medium band.
func IRTFromLevel(level int) float64 {
	if level < MinDifficulty || level > MaxDifficulty {
		return 0
	}
	return float64(level - 3)
}

// LevelName is the display name of a difficulty level.
func LevelName(level int) string {
	switch level {
	case 1:
		return "Very Easy"
	case 2:
		return "Easy"
	case 3:
		return "Medium"
	case 4:
		return "Hard"
	case 5:
		return "Very Hard"
	}
	return "Unknown"
}
