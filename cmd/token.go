package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Sign a development bearer token with SATTUTOR_JWT_SECRET",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		v, err := cfg.Verifier()
		if err != nil {
			return err
		}
		if v == nil {
			return errors.New("SATTUTOR_JWT_SECRET is not set")
		}
		if cfg.UserID == "" {
			return errors.New("a learner id is required: pass --user or set SATTUTOR_USER_ID")
		}

		ttl, _ := cmd.Flags().GetDuration("ttl")
		tok, err := v.Sign(cfg.UserID, ttl)
		if err != nil {
			return fmt.Errorf("sign token: %w", err)
		}
		fmt.Println(tok)
		return nil
	},
}

func init() {
	tokenCmd.Flags().Duration("ttl", 24*time.Hour, "Token lifetime")
}
