package analytics

import "sort"

// TopicStats aggregates attempts for a single topic.
type TopicStats struct {
	Total       int
	Correct     int
	Accuracy    float64 // percent, 0-100
	AverageTime float64 // seconds
}

// Summary aggregates a whole attempt history.
type Summary struct {
	TotalQuestions int
	CorrectAnswers int
	Accuracy       float64 // percent, 0-100; 0 when there are no attempts
	AverageTime    float64 // seconds; 0 when there are no attempts
	ByTopic        map[string]TopicStats
}

// Summarize computes overall and per-topic accuracy and mean answer time.
func Summarize(attempts []Attempt) Summary {
	s := Summary{ByTopic: make(map[string]TopicStats)}
	if len(attempts) == 0 {
		return s
	}

	totalTime := 0
	topicTime := make(map[string]int)
	for _, a := range attempts {
		s.TotalQuestions++
		totalTime += a.TimeTakenSeconds

		ts := s.ByTopic[a.Topic]
		ts.Total++
		if a.Correct {
			s.CorrectAnswers++
			ts.Correct++
		}
		s.ByTopic[a.Topic] = ts
		topicTime[a.Topic] += a.TimeTakenSeconds
	}

	s.Accuracy = percent(s.CorrectAnswers, s.TotalQuestions)
	s.AverageTime = float64(totalTime) / float64(s.TotalQuestions)

	for topic, ts := range s.ByTopic {
		ts.Accuracy = percent(ts.Correct, ts.Total)
		ts.AverageTime = float64(topicTime[topic]) / float64(ts.Total)
		s.ByTopic[topic] = ts
	}
	return s
}

// Topics returns the summary's topic names in alphabetical order.
func (s Summary) Topics() []string {
	topics := make([]string, 0, len(s.ByTopic))
	for t := range s.ByTopic {
		topics = append(topics, t)
	}
	sort.Strings(topics)
	return topics
}

func percent(n, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(n) / float64(total) * 100
}
