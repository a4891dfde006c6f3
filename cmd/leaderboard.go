package cmd

import (
	"fmt"
	"strings"

	"github.com/abhisek/sattutor/internal/analytics"
	"github.com/abhisek/sattutor/internal/tutor"
	"github.com/spf13/cobra"
)

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Show the global, topic or personal leaderboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		svc, err := buildService(cfg, nil)
		if err != nil {
			return err
		}
		users, err := cfg.AuthProvider()
		if err != nil {
			return err
		}

		typ, _ := cmd.Flags().GetString("type")
		topic, _ := cmd.Flags().GetString("topic")
		limit, _ := cmd.Flags().GetInt("limit")
		q := tutor.LeaderboardQuery{Type: tutor.LeaderboardType(typ), Topic: topic, Limit: limit}
		if q.Type == tutor.LeaderboardUser {
			q.UserID, _ = users.CurrentUser()
		}
		if err := q.Validate(); err != nil {
			return err
		}

		res, err := tutor.FetchLeaderboard(cmd.Context(), svc, q)
		if err != nil {
			return err
		}

		if q.Type == tutor.LeaderboardUser {
			printRanking(res.Ranking)
			return nil
		}
		printEntries(res.Entries)
		return nil
	},
}

func printEntries(entries []tutor.LeaderboardEntry) {
	if len(entries) == 0 {
		fmt.Println("Nobody has scored yet.")
		return
	}
	fmt.Printf("%4s  %-32s  %8s  %8s\n", "Rank", "User", "Points", "Accuracy")
	fmt.Println(strings.Repeat("─", 60))
	for _, e := range entries {
		name := e.Email
		if name == "" {
			name = e.UserID
		}
		fmt.Printf("%4d  %-32s  %8d  %7.1f%%\n", e.Rank, truncate(name, 32), e.TotalPoints, e.Accuracy)
	}
}

func printRanking(r *tutor.UserRanking) {
	if r == nil || r.Rank == 0 {
		fmt.Println("Not ranked yet. Answer a question correctly to join the leaderboard.")
		return
	}
	fmt.Printf("Rank:      %d of %d (top %.0f%%)\n", r.Rank, r.TotalUsers, analytics.Percentile(r.Rank, r.TotalUsers))
	fmt.Printf("Points:    %d (%s)\n", r.TotalPoints, milestoneText(r.TotalPoints))
}

func init() {
	leaderboardCmd.Flags().String("type", string(tutor.LeaderboardGlobal), "Leaderboard type: global, topic or user")
	leaderboardCmd.Flags().String("topic", "", "Topic for --type topic")
	leaderboardCmd.Flags().IntP("limit", "n", tutor.DefaultLeaderboardLimit, "Number of entries")
}
