package reporting

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/agence-consultoria/bgreport/pkg/layout"
	"github.com/rs/zerolog/log"

	bgerrors "github.com/agence-consultoria/bgreport/internal/errors"
)

// EngineConfig configures a ReportEngine.
type EngineConfig struct {
	Profile  Profile
	Assets   Assets
	Merger   Merger
	Geometry *layout.PageGeometry
	TempDir  string // scratch space for PDF assembly; empty uses the OS default
	Now      func() time.Time
}

// ReportEngine renders in-memory reports. Every request yields one document
// regardless of the profile's fan-out.
type ReportEngine struct {
	cfg EngineConfig
	csv *CSVGenerator
}

// NewReportEngine creates a report engine.
func NewReportEngine(cfg EngineConfig) *ReportEngine {
	if cfg.Merger == nil {
		cfg.Merger = NewPDFCPUMerger()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &ReportEngine{cfg: cfg, csv: NewCSVGenerator()}
}

// Generate renders req in the requested format.
func (e *ReportEngine) Generate(ctx context.Context, req ReportRequest) (*Report, error) {
	if len(req.Records) == 0 {
		return nil, bgerrors.WrapInputError("generate", "", fmt.Errorf("no candidate records"))
	}
	profile := e.cfg.Profile
	if req.Title != "" {
		profile.Front.CoverTitle = req.Title
	}

	switch req.Format {
	case FormatCSV:
		data, err := e.csv.Generate(req.Records, profile, e.cfg.Now())
		if err != nil {
			return nil, bgerrors.WrapOutputError("generate_csv", "", err)
		}
		return &Report{Data: data, ContentType: FormatCSV.ContentType()}, nil
	case FormatPDF, "":
		return e.generatePDF(ctx, profile, req.Records)
	default:
		return nil, bgerrors.WrapInputError("generate", "", fmt.Errorf("unsupported format %q", req.Format))
	}
}

func (e *ReportEngine) generatePDF(ctx context.Context, profile Profile, records []CandidateRecord) (*Report, error) {
	dir, err := os.MkdirTemp(e.cfg.TempDir, "bgreport-*")
	if err != nil {
		return nil, bgerrors.WrapOutputError("create_temp_dir", e.cfg.TempDir, err)
	}
	defer func() {
		if err := os.RemoveAll(dir); err != nil {
			log.Warn().Err(err).Str("dir", dir).Msg("Failed to remove report scratch directory")
		}
	}()

	asm := NewAssembler(AssemblerConfig{
		Profile:  profile,
		Geometry: e.cfg.Geometry,
		Assets:   e.cfg.Assets,
		Merger:   e.cfg.Merger,
		Now:      e.cfg.Now,
	})
	res, err := asm.Assemble(ctx, records, filepath.Join(dir, "report.pdf"))
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(res.Path)
	if err != nil {
		return nil, bgerrors.WrapOutputError("read_report", res.Path, err)
	}
	return &Report{Data: data, ContentType: FormatPDF.ContentType(), Pages: res.TotalPages}, nil
}
