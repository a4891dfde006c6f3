package analytics

import (
	"math"
	"sort"
)

const (
	// MinAttemptsForTrend is the number of attempts a topic needs before a
	// time-improvement figure is reported for it.
	MinAttemptsForTrend = 6

	// trendWindow is the number of attempts averaged at each end of the history.
	trendWindow = 3

	// zeroTimeEpsilon guards the improvement ratio against a zero baseline.
	zeroTimeEpsilon = 1e-9
)

// TimeImprovement reports, per topic, how much faster the learner answers now
// compared with when they started: (firstAvg - lastAvg) / firstAvg * 100,
// where firstAvg and lastAvg are mean answer times over the first and last
// three attempts. Positive values mean faster. Topics with fewer than
// MinAttemptsForTrend attempts are omitted.
//
// Attempts are ordered by Timestamp; ties keep their input order.
func TimeImprovement(attempts []Attempt) map[string]float64 {
	byTopic := make(map[string][]Attempt)
	for _, a := range attempts {
		byTopic[a.Topic] = append(byTopic[a.Topic], a)
	}

	out := make(map[string]float64)
	for topic, list := range byTopic {
		if len(list) < MinAttemptsForTrend {
			continue
		}
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].Timestamp.Before(list[j].Timestamp)
		})

		firstAvg := meanTime(list[:trendWindow])
		lastAvg := meanTime(list[len(list)-trendWindow:])

		if firstAvg < zeroTimeEpsilon {
			out[topic] = 0
			continue
		}
		v := (firstAvg - lastAvg) / firstAvg * 100
		if math.IsNaN(v) || math.IsInf(v, 0) {
			v = 0
		}
		out[topic] = v
	}
	return out
}

func meanTime(list []Attempt) float64 {
	if len(list) == 0 {
		return 0
	}
	total := 0
	for _, a := range list {
		total += a.TimeTakenSeconds
	}
	return float64(total) / float64(len(list))
}
