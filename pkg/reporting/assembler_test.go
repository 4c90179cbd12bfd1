package reporting

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/agence-consultoria/bgreport/pkg/layout"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bgerrors "github.com/agence-consultoria/bgreport/internal/errors"
)

func fixedNow() time.Time { return testNow }

// recordingMerger concatenates its inputs byte for byte and remembers them.
type recordingMerger struct {
	inputs []string
	sizes  []int64
	err    error
}

func (m *recordingMerger) Merge(inputs []string, output string) error {
	m.inputs = append([]string(nil), inputs...)
	for _, in := range inputs {
		st, err := os.Stat(in)
		if err != nil {
			return err
		}
		m.sizes = append(m.sizes, st.Size())
	}
	if m.err != nil {
		return m.err
	}
	var buf []byte
	for _, in := range inputs {
		data, err := os.ReadFile(in)
		if err != nil {
			return err
		}
		buf = append(buf, data...)
	}
	return os.WriteFile(output, buf, 0o644)
}

func dirNames(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func contactIndex(p Profile, records []CandidateRecord) int {
	return len(NewContentBuilder(p, DefaultStyles(), layout.A4(layout.Cm(2.5)).Frame().W).Build(records)) - 1
}

func TestAssembleSingleCandidate(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "relatorio.pdf")
	records := []CandidateRecord{sampleRecord("Ana Souza")}

	asm := NewAssembler(AssemblerConfig{Profile: Consolidated(), Now: fixedNow})
	res, err := asm.Assemble(context.Background(), records, out)
	require.NoError(t, err)

	assert.Equal(t, StageDone, asm.Stage())
	assert.Equal(t, 2, res.FrontPages, "cover and about pages")
	assert.Equal(t, 1, res.BodyPages)
	assert.Equal(t, 3, res.TotalPages)
	assert.Positive(t, res.Size)

	pages, err := PageCount(out)
	require.NoError(t, err)
	assert.Equal(t, res.TotalPages, pages)

	assert.Equal(t, []string{"relatorio.pdf"}, dirNames(t, dir), "temporary parts must be removed")

	laid := layout.Result{Pages: res.BodyPages, Placements: res.Placements}
	assert.Equal(t, []int{res.BodyPages}, laid.PagesOf(contactIndex(Consolidated(), records)))
}

func TestAssembleSeveralCandidates(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "todos.pdf")
	records := []CandidateRecord{sampleRecord("Ana"), sampleRecord("Bruno"), sampleRecord("Carla")}

	res, err := NewAssembler(AssemblerConfig{Profile: Consolidated(), Now: fixedNow}).
		Assemble(context.Background(), records, out)
	require.NoError(t, err)

	assert.Equal(t, 3, res.BodyPages, "one page per candidate")
	pages, err := PageCount(out)
	require.NoError(t, err)
	assert.Equal(t, 5, pages)

	laid := layout.Result{Pages: res.BodyPages, Placements: res.Placements}
	assert.Equal(t, []int{3}, laid.PagesOf(contactIndex(Consolidated(), records)), "contact only after the last candidate")
}

func TestAssembleSplitsLongResultTable(t *testing.T) {
	rec := sampleRecord("Ana")
	rec.Results = nil
	for i := 0; i < 60; i++ {
		rec.Results = append(rec.Results, CheckResult{
			ColumnAgency: fmt.Sprintf("Órgão %d", i),
			ColumnResult: "Nada consta",
			ColumnStatus: "Concluído",
			ColumnDate:   "01/10/2026",
		})
	}

	out := filepath.Join(t.TempDir(), "longo.pdf")
	res, err := NewAssembler(AssemblerConfig{Profile: Consolidated(), Now: fixedNow}).
		Assemble(context.Background(), []CandidateRecord{rec}, out)
	require.NoError(t, err)

	laid := layout.Result{Pages: res.BodyPages, Placements: res.Placements}
	tablePages := laid.PagesOf(6)
	require.GreaterOrEqual(t, len(tablePages), 2, "results table should span pages")

	pages, err := PageCount(out)
	require.NoError(t, err)
	assert.Equal(t, res.TotalPages, pages)
}

func TestAssembleMergesFrontBeforeBody(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "relatorio.pdf")
	merger := &recordingMerger{}

	_, err := NewAssembler(AssemblerConfig{Profile: Consolidated(), Merger: merger, Now: fixedNow}).
		Assemble(context.Background(), []CandidateRecord{sampleRecord("Ana")}, out)
	require.NoError(t, err)

	require.Len(t, merger.inputs, 2)
	assert.True(t, strings.HasSuffix(merger.inputs[0], ".front.pdf"), merger.inputs[0])
	assert.True(t, strings.HasSuffix(merger.inputs[1], ".body.pdf"), merger.inputs[1])
	for i, in := range merger.inputs {
		assert.Equal(t, dir, filepath.Dir(in), "parts live beside the output")
		assert.True(t, strings.HasPrefix(filepath.Base(in), ".relatorio.pdf."))
		assert.Positive(t, merger.sizes[i], "part %d must be complete before merging", i)
	}
}

func TestAssembleMergeFailureLeavesNoOutput(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "relatorio.pdf")
	merger := &recordingMerger{err: errors.New("disk full")}

	asm := NewAssembler(AssemblerConfig{Profile: Consolidated(), Merger: merger, Now: fixedNow})
	_, err := asm.Assemble(context.Background(), []CandidateRecord{sampleRecord("Ana")}, out)
	require.Error(t, err)

	assert.ErrorIs(t, err, bgerrors.ErrOutput)
	assert.Equal(t, StageFlowPagesRendered, asm.Stage())
	assert.Empty(t, dirNames(t, dir), "no output and no temporary parts")
}

func TestAssembleRejectsBadInput(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "relatorio.pdf")

	_, err := NewAssembler(AssemblerConfig{Profile: Consolidated()}).Assemble(context.Background(), nil, out)
	assert.ErrorIs(t, err, bgerrors.ErrInvalidInput)

	bad := Consolidated()
	bad.Schema = nil
	_, err = NewAssembler(AssemblerConfig{Profile: bad}).Assemble(context.Background(), []CandidateRecord{sampleRecord("Ana")}, out)
	assert.ErrorIs(t, err, bgerrors.ErrInvalidInput)

	assert.Empty(t, dirNames(t, dir))
}

func TestAssembleStopsWhenCancelled(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	asm := NewAssembler(AssemblerConfig{Profile: Consolidated(), Merger: &recordingMerger{}, Now: fixedNow})
	_, err := asm.Assemble(ctx, []CandidateRecord{sampleRecord("Ana")}, filepath.Join(dir, "x.pdf"))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, StageColdPagesRendered, asm.Stage())
	assert.Empty(t, dirNames(t, dir))
}

func TestAssembleUnknownColumnsAndMissingLogos(t *testing.T) {
	p := Consolidated()
	p.Schema = []string{ColumnAgency, "Observação", "Responsável", ColumnDate}
	rec := sampleRecord("Ana")
	rec.Results[0]["Observação"] = "Verificado manualmente em cartório"

	out := filepath.Join(t.TempDir(), "relatorio.pdf")
	res, err := NewAssembler(AssemblerConfig{
		Profile: p,
		Assets:  Assets{LogoLarge: "/nonexistent/grande.png", LogoSmall: "/nonexistent/pequena.png"},
		Now:     fixedNow,
	}).Assemble(context.Background(), []CandidateRecord{rec}, out)
	require.NoError(t, err)
	assert.Equal(t, 3, res.TotalPages)
}

func TestStageString(t *testing.T) {
	assert.Equal(t, "init", StageInit.String())
	assert.Equal(t, "done", StageDone.String())
	assert.Equal(t, "unknown", Stage(42).String())
}
