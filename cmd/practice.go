package cmd

import (
	"fmt"

	"github.com/abhisek/sattutor/internal/adaptive"
	"github.com/spf13/cobra"
)

var practiceCmd = &cobra.Command{
	Use:   "practice",
	Short: "Start a practice session",
	PreRunE: func(cmd *cobra.Command, args []string) error {
		level, _ := cmd.Flags().GetInt("level")
		if level != 0 && (level < adaptive.MinDifficulty || level > adaptive.MaxDifficulty) {
			return fmt.Errorf("--level must be between %d and %d", adaptive.MinDifficulty, adaptive.MaxDifficulty)
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, true)
	},
}

// practiceParams reads the practice flags. Commands without them get the
// controller defaults.
func practiceParams(cmd *cobra.Command) adaptive.Params {
	var p adaptive.Params
	p.ManualDifficulty, _ = cmd.Flags().GetInt("level")
	p.AdaptiveMode, _ = cmd.Flags().GetBool("adaptive")
	p.ChallengeMode, _ = cmd.Flags().GetBool("challenge")
	return p
}

func init() {
	practiceCmd.Flags().StringP("topic", "t", "", "Practice a single topic")
	practiceCmd.Flags().IntP("level", "l", 0, "Starting manual difficulty (1-5)")
	practiceCmd.Flags().Bool("adaptive", false, "Let the tutor choose the difficulty")
	practiceCmd.Flags().Bool("challenge", false, "Ask for harder adaptive questions")
}
