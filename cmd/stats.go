package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/abhisek/sattutor/internal/analytics"
	"github.com/abhisek/sattutor/internal/session"
	"github.com/abhisek/sattutor/internal/store"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show learning statistics from the local history",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		s, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer s.Close()

		users, err := cfg.AuthProvider()
		if err != nil {
			return err
		}
		userID, ok := users.CurrentUser()
		if !ok {
			userID = session.AnonymousUser
		}

		ctx := context.Background()
		records, err := s.EventRepo().QueryAttempts(ctx, userID, store.QueryOpts{})
		if err != nil {
			return fmt.Errorf("query attempts: %w", err)
		}
		attempts := analytics.ValidateAttempts(session.AttemptsFromStore(records))
		if len(attempts) == 0 {
			fmt.Println("No attempts recorded yet. Run `sattutor practice` to get started.")
			return nil
		}

		sum := analytics.Summarize(attempts)
		points := analytics.Points(attempts)
		improvement := analytics.TimeImprovement(attempts)

		fmt.Printf("Learner:   %s\n", userID)
		fmt.Printf("Answered:  %d (%d correct, %.1f%%)\n", sum.TotalQuestions, sum.CorrectAnswers, sum.Accuracy)
		fmt.Printf("Avg time:  %.0fs\n", sum.AverageTime)
		fmt.Printf("Points:    %d (%s)\n", points, milestoneText(points))

		fmt.Println()
		fmt.Println("By Topic")
		fmt.Println(strings.Repeat("─", 72))
		fmt.Printf("%-34s  %6s  %8s  %8s  %8s\n", "Topic", "Total", "Accuracy", "Avg s", "Faster")
		fmt.Println(strings.Repeat("─", 72))
		for _, topic := range sum.Topics() {
			ts := sum.ByTopic[topic]
			faster := "-"
			if v, ok := improvement[topic]; ok {
				faster = fmt.Sprintf("%+.0f%%", v)
			}
			fmt.Printf("%-34s  %6d  %7.1f%%  %8.0f  %8s\n",
				truncate(topic, 34), ts.Total, ts.Accuracy, ts.AverageTime, faster)
		}

		all, err := s.EventRepo().QuerySessionSummaries(ctx, store.QueryOpts{})
		if err != nil {
			return fmt.Errorf("query sessions: %w", err)
		}
		var sessions []store.SessionSummaryRecord
		for _, ss := range all {
			if ss.UserID == userID && len(sessions) < 5 {
				sessions = append(sessions, ss)
			}
		}
		if len(sessions) > 0 {
			fmt.Println()
			fmt.Println("Recent Sessions")
			fmt.Println(strings.Repeat("─", 72))
			for _, ss := range sessions {
				fmt.Printf("%-19s  %3d answered  %3d correct  %d:%02d\n",
					ss.Timestamp.Local().Format("2006-01-02 15:04:05"),
					ss.QuestionsServed, ss.CorrectAnswers, ss.DurationSecs/60, ss.DurationSecs%60)
			}
		}
		return nil
	},
}

func milestoneText(points int) string {
	m := analytics.NextMilestone(points)
	if m.Achieved {
		return "all milestones achieved"
	}
	return fmt.Sprintf("%.0f%% of the way to %s at %d", m.Percent, m.Label, m.NextThreshold)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
