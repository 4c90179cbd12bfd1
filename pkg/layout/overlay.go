package layout

import "fmt"

// StampFunc draws the overlay of one page once the total is known. It runs
// after the page content has been replayed, so it always paints on top.
type StampFunc func(c Canvas, page, total int)

// GraphicsState is the drawing state that survives a page boundary.
type GraphicsState struct {
	Fill      Color
	Stroke    Color
	LineWidth float64
	Font      Font
	CursorX   float64
	CursorY   float64
}

func (s GraphicsState) apply(c Canvas) {
	c.SetFillColor(s.Fill)
	c.SetStrokeColor(s.Stroke)
	if s.LineWidth > 0 {
		c.SetLineWidth(s.LineWidth)
	}
	if s.Font.Family != "" {
		c.SetFont(s.Font)
	}
}

// OpKind enumerates recorded drawing operations.
type OpKind int

const (
	OpFillColor OpKind = iota
	OpStrokeColor
	OpLineWidth
	OpFont
	OpRect
	OpRoundedRect
	OpLine
	OpText
	OpImage
)

// DrawOp is one recorded call on the canvas. Only the fields used by Kind
// are set.
type DrawOp struct {
	Kind   OpKind
	Color  Color
	Width  float64
	Font   Font
	Rect   Rect
	Radius float64
	Style  string
	X1, Y1 float64
	X2, Y2 float64
	Text   string
	Align  Align
	Path   string
}

func (op DrawOp) apply(c Canvas) {
	switch op.Kind {
	case OpFillColor:
		c.SetFillColor(op.Color)
	case OpStrokeColor:
		c.SetStrokeColor(op.Color)
	case OpLineWidth:
		c.SetLineWidth(op.Width)
	case OpFont:
		c.SetFont(op.Font)
	case OpRect:
		c.Rect(op.Rect, op.Style)
	case OpRoundedRect:
		c.RoundedRect(op.Rect, op.Radius, op.Style)
	case OpLine:
		c.Line(op.X1, op.Y1, op.X2, op.Y2)
	case OpText:
		c.Text(op.X1, op.Y1, op.Text, op.Align)
	case OpImage:
		c.Image(op.Path, op.Rect)
	}
}

// PageSnapshot is a completed page held back until the document is saved.
// Start is the state the page opened with, End the state after its last op.
type PageSnapshot struct {
	Start GraphicsState
	End   GraphicsState
	Ops   []DrawOp
}

// NumberedCanvas buffers every completed page and only writes them to the
// target on Save, when the page count is final and each page can be stamped
// with its "page X of N" overlay.
type NumberedCanvas struct {
	target  Canvas
	stamp   StampFunc
	state   GraphicsState
	current PageSnapshot
	pages   []PageSnapshot
	saved   bool
}

// NewNumberedCanvas wraps target. stamp may be nil.
func NewNumberedCanvas(target Canvas, stamp StampFunc) *NumberedCanvas {
	n := &NumberedCanvas{target: target, stamp: stamp}
	n.current = PageSnapshot{Start: n.state}
	return n
}

// Pages returns the number of pages captured so far.
func (n *NumberedCanvas) Pages() int {
	return len(n.pages)
}

// Snapshot returns a captured page by 1-based number.
func (n *NumberedCanvas) Snapshot(page int) (PageSnapshot, bool) {
	if page < 1 || page > len(n.pages) {
		return PageSnapshot{}, false
	}
	return n.pages[page-1], true
}

func (n *NumberedCanvas) record(op DrawOp) {
	n.current.Ops = append(n.current.Ops, op)
}

func (n *NumberedCanvas) PageSize() (float64, float64) {
	return n.target.PageSize()
}

func (n *NumberedCanvas) SetFillColor(c Color) {
	n.state.Fill = c
	n.record(DrawOp{Kind: OpFillColor, Color: c})
}

func (n *NumberedCanvas) SetStrokeColor(c Color) {
	n.state.Stroke = c
	n.record(DrawOp{Kind: OpStrokeColor, Color: c})
}

func (n *NumberedCanvas) SetLineWidth(w float64) {
	n.state.LineWidth = w
	n.record(DrawOp{Kind: OpLineWidth, Width: w})
}

func (n *NumberedCanvas) SetFont(f Font) {
	n.state.Font = f
	n.record(DrawOp{Kind: OpFont, Font: f})
}

func (n *NumberedCanvas) Rect(r Rect, style string) {
	n.record(DrawOp{Kind: OpRect, Rect: r, Style: style})
}

func (n *NumberedCanvas) RoundedRect(r Rect, radius float64, style string) {
	n.record(DrawOp{Kind: OpRoundedRect, Rect: r, Radius: radius, Style: style})
}

func (n *NumberedCanvas) Line(x1, y1, x2, y2 float64) {
	n.state.CursorX, n.state.CursorY = x2, y2
	n.record(DrawOp{Kind: OpLine, X1: x1, Y1: y1, X2: x2, Y2: y2})
}

func (n *NumberedCanvas) Text(x, y float64, s string, align Align) {
	n.state.CursorX, n.state.CursorY = x, y
	n.record(DrawOp{Kind: OpText, X1: x, Y1: y, Text: s, Align: align})
}

func (n *NumberedCanvas) Image(path string, box Rect) {
	n.record(DrawOp{Kind: OpImage, Path: path, Rect: box})
}

// ShowPage captures the current page and opens a fresh one that inherits
// the drawing state.
func (n *NumberedCanvas) ShowPage() {
	n.current.End = n.state
	n.pages = append(n.pages, n.current)
	n.current = PageSnapshot{Start: n.state}
}

// Save replays the buffered pages in order, stamps each with its number and
// the final total, and commits them to the target. A pending page with
// content is captured first.
func (n *NumberedCanvas) Save() error {
	if n.saved {
		return ErrFinalized
	}
	n.saved = true
	if len(n.current.Ops) > 0 {
		n.ShowPage()
	}

	total := len(n.pages)
	for i, page := range n.pages {
		page.Start.apply(n.target)
		for _, op := range page.Ops {
			op.apply(n.target)
		}
		page.End.apply(n.target)
		if n.stamp != nil {
			n.stamp(n.target, i+1, total)
		}
		n.target.ShowPage()
	}
	n.pages = nil
	if err := n.target.Save(); err != nil {
		return fmt.Errorf("save stamped document: %w", err)
	}
	return nil
}
