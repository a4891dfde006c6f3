package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/abhisek/sattutor/internal/gateway"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API gateway in front of the tutoring backend",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if v, _ := cmd.Flags().GetString("addr"); v != "" {
			cfg.Gateway.Addr = v
		}
		if v, _ := cmd.Flags().GetStringSlice("cors-origin"); len(v) > 0 {
			cfg.Gateway.CORSOrigins = v
		}

		opts := gateway.Options{CORSOrigins: cfg.Gateway.CORSOrigins}
		opts.Verifier, err = cfg.Verifier()
		if err != nil {
			return err
		}

		st, err := openStore(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: %v; requests will not be logged\n", err)
		} else {
			defer st.Close()
			opts.Events = st.EventRepo()
		}

		// Gateway requests are logged by the middleware; logging the
		// backend calls too would record each request twice.
		svc, err := buildService(cfg, nil)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		fmt.Printf("sattutor gateway listening on %s (backend %s)\n", cfg.Gateway.Addr, cfg.APIURL)
		return gateway.ListenAndServe(ctx, cfg.Gateway.Addr, gateway.New(svc, opts).Handler())
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides SATTUTOR_GATEWAY_ADDR)")
	serveCmd.Flags().StringSlice("cors-origin", nil, "Allowed CORS origin; repeatable (overrides SATTUTOR_CORS_ORIGINS)")
}
