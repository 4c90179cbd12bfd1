package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/agence-consultoria/bgreport/internal/config"
	"github.com/agence-consultoria/bgreport/internal/history"
	"github.com/agence-consultoria/bgreport/internal/ingest"
	"github.com/agence-consultoria/bgreport/internal/metrics"
	"github.com/agence-consultoria/bgreport/pkg/reporting"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	inboxDir   string
	reportsDir string
	debounce   time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Generate reports for files dropped into an inbox directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, profile, err := setup("watch")
		if err != nil {
			return err
		}
		if inboxDir == "" {
			inboxDir = cfg.InboxDir()
		}
		if reportsDir == "" {
			reportsDir = cfg.ReportsDir()
		}

		store, err := openHistory(cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		w, err := config.NewInputWatcher(inboxDir, debounce, ingest.Supported,
			newInboxHandler(ctx, cfg, profile, store, reportsDir))
		if err != nil {
			return err
		}
		if err := w.Start(); err != nil {
			return err
		}
		defer w.Stop()

		<-ctx.Done()
		log.Info().Msg("Stopping watcher")
		return nil
	},
}

func init() {
	watchCmd.Flags().StringVar(&inboxDir, "inbox", "", "directory to watch (default: DATA_DIR/inbox)")
	watchCmd.Flags().StringVar(&reportsDir, "out", "", "directory receiving reports (default: DATA_DIR/reports)")
	watchCmd.Flags().DurationVar(&debounce, "debounce", config.DefaultDebounce, "quiet period before a file is processed")
}

// newInboxHandler returns the watcher callback: each settled input file is
// rendered into outDir under its own base name.
func newInboxHandler(ctx context.Context, cfg *config.Config, p reporting.Profile, store *history.Registry, outDir string) func(string) {
	return func(path string) {
		if ctx.Err() != nil {
			metrics.RecordWatchEvent("skipped")
			return
		}
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		j := job{input: path, output: filepath.Join(outDir, name)}
		if p.FanOut != reporting.FanOutPerRecord {
			j.output += ".pdf"
		}

		results, err := run(ctx, cfg, p, store, j)
		if err != nil {
			metrics.RecordWatchEvent("failed")
			log.Error().Err(err).Str("input", path).Msg("Failed to generate report for input file")
			return
		}
		metrics.RecordWatchEvent("generated")
		log.Info().Str("input", path).Int("documents", len(results)).Msg("Input file processed")
	}
}
