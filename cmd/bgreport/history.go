package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/agence-consultoria/bgreport/internal/history"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var (
	historyLimit  int
	historyFailed bool
	pruneOlder    time.Duration
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded report generations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := setup("history")
		if err != nil {
			return err
		}
		store, err := history.Open(cfg.HistoryPath())
		if err != nil {
			return fmt.Errorf("open run history: %w", err)
		}
		defer store.Close()

		out := cmd.OutOrStdout()
		if pruneOlder > 0 {
			n, err := store.Prune(time.Now().Add(-pruneOlder))
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Pruned %d runs older than %s\n", n, pruneOlder)
			return nil
		}

		var runs []*history.Run
		if historyFailed {
			runs, err = store.ListByStatus(history.StatusFailed)
			if len(runs) > historyLimit && historyLimit > 0 {
				runs = runs[:historyLimit]
			}
		} else {
			runs, err = store.List(historyLimit)
		}
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Fprintln(out, "No runs recorded")
			return nil
		}

		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tWHEN\tSTATUS\tPROFILE\tCANDIDATES\tPAGES\tSIZE\tOUTPUT")
		for _, r := range runs {
			detail := r.Output
			if r.Status == history.StatusFailed {
				detail = r.Error
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%d\t%s\t%s\n",
				r.ID, humanize.Time(r.StartedAt), r.Status, r.Profile,
				r.Candidates, r.TotalPages, humanize.Bytes(uint64(r.SizeBytes)), detail)
		}
		if err := tw.Flush(); err != nil {
			return err
		}

		summary, err := store.Summarize()
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "\n%d succeeded, %d failed, %s pages, %s written\n",
			summary.Succeeded, summary.Failed, humanize.Comma(int64(summary.Pages)), humanize.Bytes(uint64(summary.Bytes)))
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "number of runs to show (0 for all)")
	historyCmd.Flags().BoolVar(&historyFailed, "failed", false, "show failed runs only")
	historyCmd.Flags().DurationVar(&pruneOlder, "prune-older-than", 0, "delete runs older than this instead of listing")
}
