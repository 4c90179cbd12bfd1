package reporting

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/agence-consultoria/bgreport/pkg/layout"
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	bgerrors "github.com/agence-consultoria/bgreport/internal/errors"
)

// Stage tracks the assembler's progress through one generation.
type Stage int

const (
	StageInit Stage = iota
	StageColdPagesRendered
	StageFlowPagesRendered
	StageMerged
	StageDone
)

func (s Stage) String() string {
	switch s {
	case StageInit:
		return "init"
	case StageColdPagesRendered:
		return "cold-pages-rendered"
	case StageFlowPagesRendered:
		return "flow-pages-rendered"
	case StageMerged:
		return "merged"
	case StageDone:
		return "done"
	default:
		return "unknown"
	}
}

// Result describes a written document.
type Result struct {
	Path       string
	FrontPages int
	BodyPages  int
	TotalPages int
	Size       int64
	Candidates int
	Placements []layout.Placement
}

// AssemblerConfig holds the fixed inputs of a generation.
type AssemblerConfig struct {
	Profile  Profile
	Styles   *Styles              // nil uses DefaultStyles
	Geometry *layout.PageGeometry // nil uses A4 with 2.5 cm margins
	Assets   Assets
	Merger   Merger           // nil uses pdfcpu
	Now      func() time.Time // nil uses time.Now
}

// Assembler renders the front matter and the flowed body into separate
// temporary documents and merges them into the output. It handles a single
// generation and is not safe for concurrent use.
type Assembler struct {
	profile  Profile
	styles   Styles
	geometry layout.PageGeometry
	assets   Assets
	merger   Merger
	now      func() time.Time
	stage    Stage
}

// NewAssembler creates an assembler with defaults for unset fields.
func NewAssembler(cfg AssemblerConfig) *Assembler {
	a := &Assembler{
		profile:  cfg.Profile,
		styles:   DefaultStyles(),
		geometry: layout.A4(layout.Cm(2.5)),
		assets:   cfg.Assets,
		merger:   cfg.Merger,
		now:      cfg.Now,
	}
	if cfg.Styles != nil {
		a.styles = *cfg.Styles
	}
	if cfg.Geometry != nil {
		a.geometry = *cfg.Geometry
	}
	if a.merger == nil {
		a.merger = NewPDFCPUMerger()
	}
	if a.now == nil {
		a.now = time.Now
	}
	return a
}

// Stage returns how far the last Assemble call got.
func (a *Assembler) Stage() Stage {
	return a.stage
}

type tempArtifacts struct {
	front  string
	body   string
	merged string
}

func newTempArtifacts(output string) tempArtifacts {
	dir, base := filepath.Split(output)
	prefix := filepath.Join(dir, fmt.Sprintf(".%s.%s", base, uuid.NewString()))
	return tempArtifacts{
		front:  prefix + ".front.pdf",
		body:   prefix + ".body.pdf",
		merged: prefix + ".merged.pdf",
	}
}

func (t tempArtifacts) remove() {
	for _, path := range []string{t.front, t.body, t.merged} {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Warn().Err(err).Str("path", path).Msg("Failed to remove temporary report file")
		}
	}
}

// Assemble writes the report for records to output. The output file only
// appears once both parts are complete; temporary files are always removed.
func (a *Assembler) Assemble(ctx context.Context, records []CandidateRecord, output string) (*Result, error) {
	a.stage = StageInit
	start := a.now()

	if err := a.profile.Validate(); err != nil {
		return nil, bgerrors.WrapInputError("assemble", output, err)
	}
	if len(records) == 0 {
		return nil, bgerrors.WrapInputError("assemble", output, errors.New("no candidate records"))
	}

	tmp := newTempArtifacts(output)
	defer tmp.remove()

	info := layout.DocumentInfo{
		Title:     a.profile.Front.CoverTitle,
		Author:    a.profile.Front.Company,
		Creator:   "bgreport",
		CreatedAt: start,
	}
	measurer := layout.NewFontMetrics()

	frontPages, err := a.renderFront(tmp.front, info, measurer, start)
	if err != nil {
		return nil, err
	}
	a.stage = StageColdPagesRendered

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	layoutResult, err := a.renderBody(tmp.body, info, measurer, records, start)
	if err != nil {
		return nil, err
	}
	a.stage = StageFlowPagesRendered

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := a.merger.Merge([]string{tmp.front, tmp.body}, tmp.merged); err != nil {
		return nil, bgerrors.WrapOutputError("merge", output, err)
	}
	if err := os.Rename(tmp.merged, output); err != nil {
		return nil, bgerrors.WrapOutputError("publish", output, err)
	}
	a.stage = StageMerged

	res := &Result{
		Path:       output,
		FrontPages: frontPages,
		BodyPages:  layoutResult.Pages,
		TotalPages: frontPages + layoutResult.Pages,
		Candidates: len(records),
		Placements: layoutResult.Placements,
	}
	if st, err := os.Stat(output); err == nil {
		res.Size = st.Size()
	}

	tmp.remove()
	a.stage = StageDone

	log.Info().
		Str("path", output).
		Str("profile", a.profile.Name).
		Int("candidates", len(records)).
		Int("pages", res.TotalPages).
		Str("size", humanize.Bytes(uint64(res.Size))).
		Dur("took", a.now().Sub(start)).
		Msg("Report written")
	return res, nil
}

func (a *Assembler) renderFront(path string, info layout.DocumentInfo, m layout.Measurer, now time.Time) (int, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, bgerrors.WrapOutputError("create_front", path, err)
	}
	defer f.Close()

	canvas := layout.NewPDFCanvas(f, a.geometry, info)
	DrawCover(canvas, m, a.profile.Front, a.assets, now)
	if err := DrawAbout(canvas, m, a.profile.Front, a.assets, now); err != nil {
		return 0, bgerrors.WrapLayoutError("render_front", path, err)
	}
	if err := canvas.Save(); err != nil {
		return 0, bgerrors.WrapOutputError("save_front", path, err)
	}
	if err := f.Close(); err != nil {
		return 0, bgerrors.WrapOutputError("close_front", path, err)
	}
	return canvas.Pages(), nil
}

func (a *Assembler) renderBody(path string, info layout.DocumentInfo, m layout.Measurer, records []CandidateRecord, now time.Time) (layout.Result, error) {
	f, err := os.Create(path)
	if err != nil {
		return layout.Result{}, bgerrors.WrapOutputError("create_body", path, err)
	}
	defer f.Close()

	frame := a.geometry.Frame()
	blocks := NewContentBuilder(a.profile, a.styles, frame.W).Build(records)

	footer := Footer{Notice: a.profile.Notice, LogoSmall: a.assets.LogoSmall, IssuedAt: now}
	canvas := layout.NewNumberedCanvas(layout.NewPDFCanvas(f, a.geometry, info), footer.Stamp)

	res, err := layout.NewEngine(a.geometry, m).Layout(canvas, blocks)
	if err != nil {
		return res, bgerrors.WrapLayoutError("render_body", path, err)
	}
	if err := canvas.Save(); err != nil {
		return res, bgerrors.WrapOutputError("save_body", path, err)
	}
	if err := f.Close(); err != nil {
		return res, bgerrors.WrapOutputError("close_body", path, err)
	}
	return res, nil
}
