package analytics

import "math"

const (
	// AbilityCeiling caps raw ability scores before scaling. The backend's
	// ability estimates currently run high; scores above 1.0 are held at 1.0
	// until the upstream scale is corrected.
	AbilityCeiling = 1.0

	abilityScaleMin = -3.0
	abilityScaleMax = 3.0
)

// FormatAbility maps a raw IRT ability score onto a 0-100 percentage.
// The score is first clamped to AbilityCeiling, then mapped linearly from
// [-3, +3] onto [0, 100], rounded and clamped to [0, 100].
func FormatAbility(raw float64) int {
	if math.IsNaN(raw) {
		return 0
	}
	score := math.Min(raw, AbilityCeiling)
	pct := (score - abilityScaleMin) / (abilityScaleMax - abilityScaleMin) * 100
	return int(clamp(math.Round(pct), 0, 100))
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
