package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/agence-consultoria/bgreport/internal/config"
	"github.com/agence-consultoria/bgreport/internal/history"
	"github.com/agence-consultoria/bgreport/internal/ingest"
	"github.com/agence-consultoria/bgreport/pkg/reporting"
	"github.com/rs/zerolog/log"

	bgerrors "github.com/agence-consultoria/bgreport/internal/errors"
)

// job is one input file turned into reports.
type job struct {
	input   string
	output  string // PDF path for batch profiles, directory for per-record ones
	withCSV bool
	workers int
}

// defaultOutput places the report beside the input: lote.json becomes
// lote.pdf, or a lote/ directory for per-record profiles.
func defaultOutput(input string, p reporting.Profile) string {
	base := strings.TrimSuffix(input, filepath.Ext(input))
	if p.FanOut == reporting.FanOutPerRecord {
		return base
	}
	return base + ".pdf"
}

// csvPath is where the CSV companion of a job goes.
func csvPath(output string, p reporting.Profile) string {
	if p.FanOut == reporting.FanOutPerRecord {
		return filepath.Join(output, "resultados.csv")
	}
	return strings.TrimSuffix(output, filepath.Ext(output)) + ".csv"
}

// openHistory opens the run history when enabled. A nil registry means
// history is off.
func openHistory(cfg *config.Config) (*history.Registry, error) {
	if !cfg.History {
		return nil, nil
	}
	reg, err := history.Open(cfg.HistoryPath())
	if err != nil {
		return nil, fmt.Errorf("open run history: %w", err)
	}
	return reg, nil
}

// run loads the input, writes the reports and records the outcome.
func run(ctx context.Context, cfg *config.Config, p reporting.Profile, store *history.Registry, j job) ([]*reporting.Result, error) {
	started := time.Now()
	results, err := generate(ctx, cfg, p, j)

	if store != nil {
		for _, r := range runsFor(p, j, results, err, started) {
			if recErr := store.Record(r); recErr != nil {
				log.Warn().Err(recErr).Str("input", j.input).Msg("Failed to record report run")
			}
		}
	}
	return results, err
}

func generate(ctx context.Context, cfg *config.Config, p reporting.Profile, j job) ([]*reporting.Result, error) {
	records, err := ingest.LoadFile(j.input, p.Schema)
	if err != nil {
		return nil, err
	}
	log.Info().
		Str("input", j.input).
		Str("profile", p.Name).
		Int("candidates", len(records)).
		Msg("Loaded candidates")

	workers := j.workers
	if workers <= 0 {
		workers = cfg.Workers
	}
	gen := reporting.NewGenerator(reporting.GeneratorConfig{
		Profile: p,
		Assets:  cfg.Assets(),
		Workers: workers,
	})
	results, err := gen.Generate(ctx, records, j.output)
	if err != nil {
		return nil, err
	}

	if j.withCSV {
		data, err := reporting.NewCSVGenerator().Generate(records, p, time.Now())
		if err != nil {
			return results, bgerrors.WrapOutputError("generate_csv", j.input, err)
		}
		path := csvPath(j.output, p)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return results, bgerrors.WrapOutputError("write_csv", path, err)
		}
		log.Info().Str("path", path).Msg("CSV export written")
	}
	return results, nil
}

func runsFor(p reporting.Profile, j job, results []*reporting.Result, err error, started time.Time) []*history.Run {
	finished := time.Now().UTC()
	if err != nil && len(results) == 0 {
		return []*history.Run{{
			Source:     j.input,
			Output:     j.output,
			Profile:    p.Name,
			Status:     history.StatusFailed,
			Error:      err.Error(),
			StartedAt:  started.UTC(),
			FinishedAt: finished,
		}}
	}
	// Documents written before a later step failed keep their page counts
	// but share the failure.
	status, message := history.StatusSucceeded, ""
	if err != nil {
		status, message = history.StatusFailed, err.Error()
	}
	runs := make([]*history.Run, 0, len(results))
	for _, r := range results {
		runs = append(runs, &history.Run{
			Source:     j.input,
			Output:     r.Path,
			Profile:    p.Name,
			Status:     status,
			Error:      message,
			Candidates: r.Candidates,
			FrontPages: r.FrontPages,
			BodyPages:  r.BodyPages,
			TotalPages: r.TotalPages,
			SizeBytes:  r.Size,
			StartedAt:  started.UTC(),
			FinishedAt: finished,
		})
	}
	return runs
}
