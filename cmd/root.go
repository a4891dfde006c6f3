package cmd

import (
	"fmt"

	"github.com/abhisek/sattutor/internal/config"
	"github.com/abhisek/sattutor/internal/store"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "sattutor",
	Short: "Adaptive SAT practice tutor",
	Long:  "sattutor is a terminal client for an adaptive SAT tutoring backend: timed practice, hints, chat and progress analytics.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, false)
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides SATTUTOR_DB env var)")
	rootCmd.PersistentFlags().String("api-url", "", "Tutoring backend URL (overrides SATTUTOR_API_URL)")
	rootCmd.PersistentFlags().String("user", "", "Learner id (overrides SATTUTOR_USER_ID)")

	rootCmd.AddCommand(practiceCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(leaderboardCmd)
	rootCmd.AddCommand(requestsCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(tokenCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads .env and the environment, applies persistent flag
// overrides and validates the result.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	if v, _ := cmd.Flags().GetString("api-url"); v != "" {
		cfg.APIURL = v
	}
	if v, _ := cmd.Flags().GetString("user"); v != "" {
		cfg.UserID = v
		cfg.Token = ""
	}
	if v, _ := cmd.Flags().GetString("db"); v != "" {
		cfg.DBPath = v
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// resolveDBPath returns the database path from --db or SATTUTOR_DB,
// then the default XDG path.
func resolveDBPath(cfg config.Config) (string, error) {
	if cfg.DBPath != "" {
		return cfg.DBPath, store.EnsureDir(cfg.DBPath)
	}
	return store.DefaultDBPath()
}

// openStore opens the local event database.
func openStore(cfg config.Config) (*store.Store, error) {
	dbPath, err := resolveDBPath(cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}
