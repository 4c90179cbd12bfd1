package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/agence-consultoria/bgreport/internal/api"
	"github.com/agence-consultoria/bgreport/pkg/reporting"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var listenAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the report HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, profile, err := setup("serve")
		if err != nil {
			return err
		}
		if listenAddr == "" {
			listenAddr = cfg.HTTPAddr
		}

		store, err := openHistory(cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		reporting.SetEngine(reporting.NewReportEngine(reporting.EngineConfig{
			Profile: profile,
			Assets:  cfg.Assets(),
		}))

		rc := api.RouterConfig{Version: Version}
		if store != nil {
			rc.Reports = api.NewReportingHandlers(profile, store)
			rc.Health = store
		} else {
			rc.Reports = api.NewReportingHandlers(profile, nil)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		log.Info().Str("profile", profile.Name).Bool("history", store != nil).Msg("Starting report service")
		return api.Serve(ctx, listenAddr, api.NewRouter(rc))
	},
}

func init() {
	serveCmd.Flags().StringVar(&listenAddr, "addr", "", "listen address (BGREPORT_HTTP_ADDR)")
}
