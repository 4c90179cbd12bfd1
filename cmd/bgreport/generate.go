package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var (
	outputPath string
	withCSV    bool
	workers    int
)

var generateCmd = &cobra.Command{
	Use:   "generate INPUT",
	Short: "Generate reports from a JSON, CSV or XLSX file",
	Long: `Generate writes the report for every candidate in INPUT.

The consolidated profile writes one PDF (default: INPUT with a .pdf extension).
The individual profile writes one PDF per candidate into a directory
(default: INPUT without its extension).`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, profile, err := setup("generate")
		if err != nil {
			return err
		}

		store, err := openHistory(cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		j := job{input: args[0], output: outputPath, withCSV: withCSV, workers: workers}
		if j.output == "" {
			j.output = defaultOutput(j.input, profile)
		}

		results, err := run(ctx, cfg, profile, store, j)
		if err != nil {
			return err
		}
		for _, r := range results {
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %d pages  %s\n", r.Path, r.TotalPages, humanize.Bytes(uint64(r.Size)))
		}
		return nil
	},
}

func init() {
	generateCmd.Flags().StringVarP(&outputPath, "output", "o", "", "output PDF (consolidated) or directory (individual)")
	generateCmd.Flags().BoolVar(&withCSV, "csv", false, "also write a CSV export of all check results")
	generateCmd.Flags().IntVar(&workers, "workers", 0, "documents rendered concurrently for per-candidate profiles (BGREPORT_WORKERS)")
}
