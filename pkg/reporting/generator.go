package reporting

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/agence-consultoria/bgreport/internal/metrics"
	"github.com/agence-consultoria/bgreport/pkg/layout"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	bgerrors "github.com/agence-consultoria/bgreport/internal/errors"
)

// GeneratorConfig configures a Generator.
type GeneratorConfig struct {
	Profile  Profile
	Styles   *Styles
	Geometry *layout.PageGeometry
	Assets   Assets
	Merger   Merger
	Workers  int // concurrent documents for per-record profiles; 0 uses the CPU count
	Now      func() time.Time
}

// Generator applies a profile's fan-out: one document for the whole batch,
// or one document per candidate written concurrently.
type Generator struct {
	cfg GeneratorConfig
}

// NewGenerator creates a generator.
func NewGenerator(cfg GeneratorConfig) *Generator {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.Merger == nil {
		cfg.Merger = NewPDFCPUMerger()
	}
	return &Generator{cfg: cfg}
}

// Profile returns the profile the generator renders with.
func (g *Generator) Profile() Profile {
	return g.cfg.Profile
}

func (g *Generator) assembler() *Assembler {
	return NewAssembler(AssemblerConfig{
		Profile:  g.cfg.Profile,
		Styles:   g.cfg.Styles,
		Geometry: g.cfg.Geometry,
		Assets:   g.cfg.Assets,
		Merger:   g.cfg.Merger,
		Now:      g.cfg.Now,
	})
}

// Generate writes the documents for records. For batch profiles output is
// the PDF path; for per-record profiles it is a directory that receives one
// file per candidate named after the candidate.
func (g *Generator) Generate(ctx context.Context, records []CandidateRecord, output string) ([]*Result, error) {
	if len(records) == 0 {
		return nil, bgerrors.WrapInputError("generate", output, fmt.Errorf("no candidate records"))
	}

	if g.cfg.Profile.FanOut == FanOutPerRecord {
		return g.generatePerRecord(ctx, records, output)
	}

	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		return nil, bgerrors.WrapOutputError("create_output_dir", output, err)
	}
	res, err := g.assemble(ctx, records, output)
	if err != nil {
		return nil, err
	}
	return []*Result{res}, nil
}

func (g *Generator) generatePerRecord(ctx context.Context, records []CandidateRecord, dir string) ([]*Result, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, bgerrors.WrapOutputError("create_output_dir", dir, err)
	}

	names := uniqueNames(records)
	results := make([]*Result, len(records))

	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(g.cfg.Workers)
	for i := range records {
		group.Go(func() error {
			res, err := g.assemble(gctx, records[i:i+1], filepath.Join(dir, names[i]))
			if err != nil {
				return fmt.Errorf("candidate %s: %w", records[i].Label(), err)
			}
			results[i] = res
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	log.Info().
		Str("dir", dir).
		Int("documents", len(results)).
		Msg("Per-candidate reports written")
	return results, nil
}

func (g *Generator) assemble(ctx context.Context, records []CandidateRecord, output string) (*Result, error) {
	start := time.Now()
	res, err := g.assembler().Assemble(ctx, records, output)
	if err != nil {
		metrics.RecordReportFailed(g.cfg.Profile.Name, string(bgerrors.TypeOf(err)))
		return nil, err
	}
	metrics.RecordReportGenerated(g.cfg.Profile.Name, res.FrontPages, res.BodyPages, res.Candidates, time.Since(start))
	return res, nil
}
