package cmd

import (
	"fmt"
	"os"

	"github.com/abhisek/sattutor/internal/adaptive"
	"github.com/abhisek/sattutor/internal/app"
	"github.com/abhisek/sattutor/internal/config"
	"github.com/abhisek/sattutor/internal/screen"
	"github.com/abhisek/sattutor/internal/store"
	"github.com/abhisek/sattutor/internal/tutor"
	"github.com/spf13/cobra"
)

// buildService creates the backend client, recording every call into repo
// when one is given.
func buildService(cfg config.Config, repo store.EventRepo) (tutor.Service, error) {
	client, err := tutor.NewClient(tutor.ClientConfig{BaseURL: cfg.APIURL, Timeout: cfg.Timeout})
	if err != nil {
		return nil, err
	}
	if repo == nil {
		return client, nil
	}
	return tutor.WithLogging(client, repo), nil
}

// runApp opens the store, builds dependencies, and launches the TUI.
// With practice set the app opens straight onto a practice session.
func runApp(cmd *cobra.Command, practice bool) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	deps := screen.Deps{}

	// The app still works without the local store; history and offline
	// stats are disabled.
	st, err := openStore(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v; local history is disabled\n", err)
	} else {
		defer st.Close()
		deps.Events = st.EventRepo()
	}

	deps.Service, err = buildService(cfg, deps.Events)
	if err != nil {
		return err
	}
	deps.Users, err = cfg.AuthProvider()
	if err != nil {
		return err
	}
	deps.Controller = adaptive.NewController(deps.Users, practiceParams(cmd))

	if topic, _ := cmd.Flags().GetString("topic"); topic != "" {
		deps.Topics = []string{topic}
	}

	if practice {
		return app.RunPractice(deps)
	}
	return app.Run(deps)
}
