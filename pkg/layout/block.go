package layout

import "strings"

// BlockKind tags the variants of Block.
type BlockKind int

const (
	KindHeading BlockKind = iota
	KindParagraph
	KindTable
	KindSpacer
	KindPageBreak
	KindBulletList
)

func (k BlockKind) String() string {
	switch k {
	case KindHeading:
		return "heading"
	case KindParagraph:
		return "paragraph"
	case KindTable:
		return "table"
	case KindSpacer:
		return "spacer"
	case KindPageBreak:
		return "page-break"
	case KindBulletList:
		return "bullet-list"
	default:
		return "unknown"
	}
}

// Block is one unit of flowed content.
type Block interface {
	Kind() BlockKind
}

// TextStyle is the fixed presentation of a block kind.
type TextStyle struct {
	Font        Font
	Color       Color
	Align       Align
	Leading     float64 // distance between baselines; zero means 1.2 × font size
	SpaceBefore float64
	SpaceAfter  float64
	LeftIndent  float64
}

func (s TextStyle) leading() float64 {
	if s.Leading > 0 {
		return s.Leading
	}
	return Pt(s.Font.Size) * 1.2
}

// Heading is a title that wraps on spaces only and never splits across pages.
type Heading struct {
	Text  string
	Style TextStyle
}

func (Heading) Kind() BlockKind { return KindHeading }

// Run is a span of paragraph text. Break forces a line break and ignores Text.
type Run struct {
	Text  string
	Bold  bool
	Break bool
}

// Paragraph is wrapped text made of runs.
type Paragraph struct {
	Runs  []Run
	Style TextStyle
}

func (Paragraph) Kind() BlockKind { return KindParagraph }

// NewParagraph builds a single-run paragraph.
func NewParagraph(text string, style TextStyle) Paragraph {
	return Paragraph{Runs: []Run{{Text: text}}, Style: style}
}

// PlainText returns the paragraph text without styling.
func (p Paragraph) PlainText() string {
	var b strings.Builder
	for _, r := range p.Runs {
		if r.Break {
			b.WriteByte('\n')
			continue
		}
		if b.Len() > 0 && !strings.HasSuffix(b.String(), "\n") {
			b.WriteByte(' ')
		}
		b.WriteString(strings.TrimSpace(r.Text))
	}
	return b.String()
}

// Spacer reserves vertical space.
type Spacer struct {
	Height float64
}

func (Spacer) Kind() BlockKind { return KindSpacer }

// PageBreak ends the current page regardless of the space left.
type PageBreak struct{}

func (PageBreak) Kind() BlockKind { return KindPageBreak }

// BulletList renders each item as an indented paragraph behind a bullet glyph.
type BulletList struct {
	Items        []string
	Style        TextStyle
	Bullet       string
	Indent       float64 // text indent from the frame edge
	BulletIndent float64 // bullet indent from the frame edge
}

func (BulletList) Kind() BlockKind { return KindBulletList }

// Cell is one table cell. Plain cells only break on explicit newlines; Wrap
// cells wrap to the column width and may split long tokens.
type Cell struct {
	Text  string
	Wrap  bool
	Style TextStyle
	Fill  *Color
}

// TableStyle holds the grid and padding shared by all cells.
type TableStyle struct {
	GridColor Color
	GridWidth float64
	BoxColor  *Color
	BoxWidth  float64
	PadTop    float64
	PadBottom float64
	PadLeft   float64
	PadRight  float64
}

// Table is a grid with fixed column widths. The first HeaderRows rows are
// repeated on every page the table spans.
type Table struct {
	Columns    []float64
	Rows       [][]Cell
	HeaderRows int
	Style      TableStyle
}

func (Table) Kind() BlockKind { return KindTable }

// Width returns the sum of the column widths.
func (t Table) Width() float64 {
	var w float64
	for _, c := range t.Columns {
		w += c
	}
	return w
}
