package layout

import (
	"errors"
	"fmt"
	"strings"
)

// ErrBlockTooLarge is returned when a block, or the smallest unsplittable
// part of it, does not fit on an empty page.
var ErrBlockTooLarge = errors.New("block does not fit on an empty page")

// Placement records where a fragment of a block was drawn.
type Placement struct {
	Block     int // index in the input sequence
	Page      int // 1-based page number
	Y         float64
	Height    float64
	Continued bool // fragment continues a block started on an earlier page
}

// Result summarises a layout run.
type Result struct {
	Pages      int
	Placements []Placement
}

// PagesOf returns the distinct pages a block was drawn on, in order.
func (r Result) PagesOf(block int) []int {
	var pages []int
	for _, p := range r.Placements {
		if p.Block != block {
			continue
		}
		if n := len(pages); n == 0 || pages[n-1] != p.Page {
			pages = append(pages, p.Page)
		}
	}
	return pages
}

// Engine paginates a block sequence onto a canvas.
type Engine struct {
	geometry PageGeometry
	measurer Measurer
}

// NewEngine creates an engine for the given page geometry.
func NewEngine(geometry PageGeometry, m Measurer) *Engine {
	return &Engine{geometry: geometry, measurer: m}
}

// Layout consumes blocks strictly in order, completing a page on the canvas
// each time the next block does not fit or a PageBreak is reached. Every page
// it starts is completed with ShowPage before it returns; Save is left to the
// caller.
func (e *Engine) Layout(c Canvas, blocks []Block) (Result, error) {
	f := &flow{
		canvas:   c,
		measurer: e.measurer,
		frame:    e.geometry.Frame(),
		paginate: true,
	}
	for i, b := range blocks {
		if err := f.place(i, b); err != nil {
			return f.result, fmt.Errorf("layout block %d (%s): %w", i, b.Kind(), err)
		}
	}
	if f.open || f.result.Pages == 0 {
		f.openPage()
		f.endPage()
	}
	return f.result, nil
}

// FillFrame draws blocks into a single bounded region without paginating. It
// returns how many blocks were drawn completely; drawing stops at the first
// block that does not fit or at a PageBreak.
func FillFrame(c Canvas, m Measurer, frame Rect, blocks []Block) (int, error) {
	f := &flow{
		canvas:   c,
		measurer: m,
		frame:    frame,
		page:     1,
		open:     true,
		y:        frame.Y,
	}
	for i, b := range blocks {
		// Trial run on a discarding canvas so a block that overflows leaves
		// nothing behind.
		trial := *f
		trial.canvas = discardCanvas{}
		trial.result = Result{}
		if err := trial.place(i, b); err != nil {
			if errors.Is(err, errFrameFull) {
				return i, nil
			}
			return i, fmt.Errorf("fill frame block %d (%s): %w", i, b.Kind(), err)
		}
		if err := f.place(i, b); err != nil {
			return i, fmt.Errorf("fill frame block %d (%s): %w", i, b.Kind(), err)
		}
	}
	return len(blocks), nil
}

var errFrameFull = errors.New("frame full")

type flow struct {
	canvas   Canvas
	measurer Measurer
	frame    Rect
	paginate bool

	page   int
	open   bool // a page is started and not yet shown
	used   bool // something was drawn on the open page
	y      float64
	result Result

	block     int // block owning the latest placement
	firstPage int // page the latest block started on

	// spacerBreak is set when an overflowing spacer ended the page; a
	// PageBreak right after it has no boundary left to cross.
	spacerBreak bool
}

func (f *flow) openPage() {
	if f.open {
		return
	}
	f.page++
	f.open = true
	f.used = false
	f.y = f.frame.Y
}

func (f *flow) endPage() {
	f.canvas.ShowPage()
	f.result.Pages++
	f.open = false
	f.used = false
}

func (f *flow) remaining() float64 {
	return f.frame.Bottom() - f.y
}

// overflow handles a fragment that does not fit the space left: a bounded
// frame is full, an empty page can never hold it, otherwise a new page starts.
func (f *flow) overflow() error {
	if !f.paginate {
		return errFrameFull
	}
	if !f.used {
		return ErrBlockTooLarge
	}
	f.endPage()
	f.openPage()
	return nil
}

func (f *flow) record(block int, y, h float64) {
	if len(f.result.Placements) == 0 || f.block != block {
		f.block = block
		f.firstPage = f.page
	}
	f.result.Placements = append(f.result.Placements, Placement{
		Block:     block,
		Page:      f.page,
		Y:         y,
		Height:    h,
		Continued: f.page > f.firstPage,
	})
	f.used = true
	f.spacerBreak = false
}

func (f *flow) place(i int, b Block) error {
	switch v := b.(type) {
	case PageBreak:
		if !f.paginate {
			return errFrameFull
		}
		if f.spacerBreak && !f.open {
			f.spacerBreak = false
			return nil
		}
		f.openPage()
		f.endPage()
		return nil
	case Spacer:
		return f.placeSpacer(i, v)
	case Heading:
		return f.placeHeading(i, v)
	case Paragraph:
		return f.placeParagraph(i, v)
	case BulletList:
		return f.placeBullets(i, v)
	case Table:
		return f.placeTable(i, v)
	default:
		return fmt.Errorf("unsupported block type %T", b)
	}
}

// placeSpacer drops spacers at the top of a page. A spacer taller than the
// space left ends the page and is not carried over.
func (f *flow) placeSpacer(i int, s Spacer) error {
	if !f.open || !f.used {
		return nil
	}
	if s.Height > f.remaining() {
		if !f.paginate {
			return errFrameFull
		}
		f.endPage()
		f.spacerBreak = true
		return nil
	}
	f.record(i, f.y, s.Height)
	f.y += s.Height
	return nil
}

// spaceBefore is dropped at the top of a page.
func (f *flow) spaceBefore(style TextStyle) float64 {
	if !f.used {
		return 0
	}
	return style.SpaceBefore
}

func (f *flow) consumeAfter(space float64) {
	f.y += space
	if f.y > f.frame.Bottom() {
		f.y = f.frame.Bottom()
	}
}

func (f *flow) placeHeading(i int, h Heading) error {
	width := f.frame.W - h.Style.LeftIndent
	lines := WrapWords(h.Text, h.Style.Font, width, f.measurer)
	if len(lines) == 0 {
		return nil
	}
	f.openPage()
	leading := h.Style.leading()
	height := float64(len(lines)) * leading

	before := f.spaceBefore(h.Style)
	if before+height > f.remaining() {
		if err := f.overflow(); err != nil {
			return err
		}
		before = 0
		if height > f.remaining() {
			return ErrBlockTooLarge
		}
	}
	f.y += before

	f.canvas.SetFillColor(h.Style.Color)
	f.canvas.SetFont(h.Style.Font)
	left := f.frame.X + h.Style.LeftIndent
	for n, line := range lines {
		top := f.y + float64(n)*leading
		x := alignX(left, width, h.Style.Align)
		f.canvas.Text(x, baseline(top, leading, h.Style.Font), line, textAnchor(h.Style.Align))
	}
	f.record(i, f.y, height)
	f.y += height
	f.consumeAfter(h.Style.SpaceAfter)
	return nil
}

func (f *flow) placeParagraph(i int, p Paragraph) error {
	left := f.frame.X + p.Style.LeftIndent
	width := f.frame.W - p.Style.LeftIndent
	lines := wrapRuns(p, width, f.measurer)
	return f.placeLines(i, p.Style, lines, left, width, nil)
}

func (f *flow) placeBullets(i int, l BulletList) error {
	bullet := l.Bullet
	if bullet == "" {
		bullet = "•"
	}
	left := f.frame.X + l.Indent
	width := f.frame.W - l.Indent
	for _, item := range l.Items {
		lines := wrapRuns(NewParagraph(item, l.Style), width, f.measurer)
		marker := &bulletMarker{glyph: bullet, x: f.frame.X + l.BulletIndent}
		if err := f.placeLines(i, l.Style, lines, left, width, marker); err != nil {
			return err
		}
	}
	return nil
}

type bulletMarker struct {
	glyph string
	x     float64
	drawn bool
}

// placeLines draws wrapped lines, moving to a new page between lines when
// the frame is full.
func (f *flow) placeLines(i int, style TextStyle, lines []richLine, left, width float64, marker *bulletMarker) error {
	if len(lines) == 0 {
		return nil
	}
	f.openPage()
	leading := style.leading()
	if before := f.spaceBefore(style); before > 0 && before+leading <= f.remaining() {
		f.y += before
	}

	next := 0
	for next < len(lines) {
		fit := int((f.remaining() + 1e-9) / leading)
		if fit <= 0 {
			if err := f.overflow(); err != nil {
				return err
			}
			continue
		}
		end := min(next+fit, len(lines))
		top := f.y
		f.canvas.SetFillColor(style.Color)
		for n, line := range lines[next:end] {
			base := baseline(top+float64(n)*leading, leading, style.Font)
			if marker != nil && !marker.drawn {
				f.canvas.SetFont(style.Font)
				f.canvas.Text(marker.x, base, marker.glyph, AlignLeft)
				marker.drawn = true
			}
			drawRichLine(f.canvas, f.measurer, line, left, width, base, style.Align)
		}
		h := float64(end-next) * leading
		f.record(i, top, h)
		f.y += h
		next = end
		if next < len(lines) {
			if err := f.overflow(); err != nil {
				return err
			}
		}
	}
	f.consumeAfter(style.SpaceAfter)
	return nil
}

func (f *flow) placeTable(i int, t Table) error {
	if len(t.Rows) == 0 {
		return nil
	}
	f.openPage()
	heights := make([]float64, len(t.Rows))
	cellLines := make([][][]string, len(t.Rows))
	for r, row := range t.Rows {
		cellLines[r] = make([][]string, len(row))
		for c, cell := range row {
			inner := columnWidth(t, c) - t.Style.PadLeft - t.Style.PadRight
			var lines []string
			if cell.Wrap {
				lines = BreakText(cell.Text, cell.Style.Font, inner, f.measurer)
			} else if cell.Text != "" {
				lines = strings.Split(cell.Text, "\n")
			}
			cellLines[r][c] = lines
			h := t.Style.PadTop + float64(max(len(lines), 1))*cell.Style.leading() + t.Style.PadBottom
			if h > heights[r] {
				heights[r] = h
			}
		}
	}

	header := min(t.HeaderRows, len(t.Rows))
	var headerHeight float64
	for r := 0; r < header; r++ {
		headerHeight += heights[r]
	}

	x := f.frame.X + (f.frame.W-t.Width())/2
	next := header
	for {
		need := headerHeight
		if next < len(t.Rows) {
			need += heights[next]
		}
		if need > f.remaining() {
			if err := f.overflow(); err != nil {
				return err
			}
			continue
		}

		top := f.y
		rows := make([]int, 0, len(t.Rows))
		for r := 0; r < header; r++ {
			rows = append(rows, r)
		}
		used := headerHeight
		for next < len(t.Rows) && used+heights[next] <= f.remaining() {
			rows = append(rows, next)
			used += heights[next]
			next++
		}

		y := top
		for _, r := range rows {
			drawRow(f.canvas, t, t.Rows[r], cellLines[r], x, y, heights[r])
			y += heights[r]
		}
		if t.Style.BoxColor != nil {
			f.canvas.SetStrokeColor(*t.Style.BoxColor)
			f.canvas.SetLineWidth(t.Style.BoxWidth)
			f.canvas.Rect(Rect{X: x, Y: top, W: t.Width(), H: used}, StyleStroke)
		}
		f.record(i, top, used)
		f.y += used

		if next >= len(t.Rows) {
			return nil
		}
		if err := f.overflow(); err != nil {
			return err
		}
	}
}

func columnWidth(t Table, c int) float64 {
	if c < len(t.Columns) {
		return t.Columns[c]
	}
	return 0
}

func drawRow(c Canvas, t Table, row []Cell, lines [][]string, x, y, h float64) {
	cx := x
	for col, cell := range row {
		w := columnWidth(t, col)
		box := Rect{X: cx, Y: y, W: w, H: h}
		if cell.Fill != nil {
			c.SetFillColor(*cell.Fill)
			c.Rect(box, StyleFill)
		}

		leading := cell.Style.leading()
		content := float64(len(lines[col])) * leading
		top := y + (h-content)/2
		inner := w - t.Style.PadLeft - t.Style.PadRight
		tx := alignX(cx+t.Style.PadLeft, inner, cell.Style.Align)
		c.SetFillColor(cell.Style.Color)
		c.SetFont(cell.Style.Font)
		for n, line := range lines[col] {
			lineTop := top + float64(n)*leading
			c.Text(tx, baseline(lineTop, leading, cell.Style.Font), line, textAnchor(cell.Style.Align))
		}

		if t.Style.GridWidth > 0 {
			c.SetStrokeColor(t.Style.GridColor)
			c.SetLineWidth(t.Style.GridWidth)
			c.Rect(box, StyleStroke)
		}
		cx += w
	}
}

// baseline places text vertically centred in a line box of height leading.
func baseline(top, leading float64, f Font) float64 {
	size := Pt(f.Size)
	return top + (leading-size)/2 + size*0.8
}

func alignX(left, width float64, a Align) float64 {
	switch a {
	case AlignCenter:
		return left + width/2
	case AlignRight:
		return left + width
	default:
		return left
	}
}

func textAnchor(a Align) Align {
	if a == AlignJustify {
		return AlignLeft
	}
	return a
}

// discardCanvas drops every call.
type discardCanvas struct{}

func (discardCanvas) PageSize() (float64, float64)            { return 0, 0 }
func (discardCanvas) SetFillColor(Color)                      {}
func (discardCanvas) SetStrokeColor(Color)                    {}
func (discardCanvas) SetLineWidth(float64)                    {}
func (discardCanvas) SetFont(Font)                            {}
func (discardCanvas) Rect(Rect, string)                       {}
func (discardCanvas) RoundedRect(Rect, float64, string)       {}
func (discardCanvas) Line(float64, float64, float64, float64) {}
func (discardCanvas) Text(float64, float64, string, Align)    {}
func (discardCanvas) Image(string, Rect)                      {}
func (discardCanvas) ShowPage()                               {}
func (discardCanvas) Save() error                             { return nil }
