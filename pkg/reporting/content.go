package reporting

import (
	"github.com/agence-consultoria/bgreport/pkg/layout"
)

// ContentBuilder turns candidate records into the body block sequence.
type ContentBuilder struct {
	profile Profile
	styles  Styles
	width   float64 // frame width available to tables
}

// NewContentBuilder creates a builder for the given profile and frame width.
func NewContentBuilder(p Profile, st Styles, frameWidth float64) *ContentBuilder {
	return &ContentBuilder{profile: p, styles: st, width: frameWidth}
}

// Build returns the blocks for all records. Candidates are separated by page
// breaks and the contact paragraph closes the last one only.
func (b *ContentBuilder) Build(records []CandidateRecord) []layout.Block {
	var blocks []layout.Block
	for i, rec := range records {
		blocks = append(blocks, b.candidate(rec)...)
		if i < len(records)-1 {
			blocks = append(blocks, layout.PageBreak{})
			continue
		}
		blocks = append(blocks, b.contact()...)
	}
	return blocks
}

func (b *ContentBuilder) candidate(rec CandidateRecord) []layout.Block {
	blocks := []layout.Block{
		layout.Heading{Text: b.profile.InfoHeading, Style: b.styles.Title},
		layout.Spacer{Height: layout.Cm(0.5)},
		b.infoTable(rec),
		layout.Spacer{Height: layout.Cm(1)},
		layout.Heading{Text: b.profile.ResultsHeading, Style: b.styles.Title},
		layout.Spacer{Height: layout.Cm(0.5)},
		b.resultsTable(rec.Results),
		layout.Spacer{Height: layout.Cm(1)},
	}
	if b.profile.Analysis {
		blocks = append(blocks,
			layout.Heading{Text: b.profile.AnalysisHeading, Style: b.styles.Title},
			layout.NewParagraph(Analyze(rec, b.profile.AnalysisColumn), b.styles.Body),
		)
	}
	return blocks
}

func (b *ContentBuilder) infoTable(rec CandidateRecord) layout.Table {
	fill := colorLightGray
	label := func(text string) layout.Cell {
		return layout.Cell{Text: text, Wrap: true, Style: b.styles.InfoLabel, Fill: &fill}
	}
	value := func(text string) layout.Cell {
		return layout.Cell{Text: text, Wrap: true, Style: b.styles.InfoValue}
	}

	rows := [][]layout.Cell{
		{label("Nome completo:"), value(rec.Name)},
		{label("CPF:"), value(rec.MaskedID())},
	}
	for _, attr := range rec.Attributes {
		rows = append(rows, []layout.Cell{label(attr.Key + ":"), value(attr.Value)})
	}

	return layout.Table{
		Columns: []float64{b.styles.InfoLabelW, b.styles.InfoValueW},
		Rows:    rows,
		Style:   b.styles.InfoTable,
	}
}

func (b *ContentBuilder) resultsTable(results []CheckResult) layout.Table {
	schema := b.profile.Schema
	headerFill := colorAccent
	bodyFill := colorWhite

	header := make([]layout.Cell, len(schema))
	for i, col := range schema {
		header[i] = layout.Cell{Text: col, Wrap: true, Style: b.styles.Header, Fill: &headerFill}
	}
	rows := [][]layout.Cell{header}
	for _, r := range results {
		row := make([]layout.Cell, len(schema))
		for i, col := range schema {
			row[i] = layout.Cell{Text: r.Value(col), Wrap: true, Style: b.styles.Cell, Fill: &bodyFill}
		}
		rows = append(rows, row)
	}

	return layout.Table{
		Columns:    ColumnWidths(schema, b.width),
		Rows:       rows,
		HeaderRows: 1,
		Style:      b.styles.Results,
	}
}

func (b *ContentBuilder) contact() []layout.Block {
	c := b.profile.Contact
	if c.Lead == "" && c.Email == "" && c.Phone == "" {
		return nil
	}
	runs := []layout.Run{{Text: c.Lead}}
	if c.Email != "" || c.Phone != "" {
		runs = append(runs, layout.Run{Break: true})
	}
	if c.Email != "" {
		runs = append(runs, layout.Run{Text: "e-mail " + c.Email, Bold: true})
	}
	if c.Email != "" && c.Phone != "" {
		runs = append(runs, layout.Run{Text: "ou pelo telefone"})
	}
	if c.Phone != "" {
		runs = append(runs, layout.Run{Text: c.Phone + ".", Bold: true})
	}
	return []layout.Block{
		layout.Spacer{Height: layout.Cm(1.2)},
		layout.Paragraph{Runs: runs, Style: b.styles.Contact},
	}
}
