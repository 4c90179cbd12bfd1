package layout

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// monoMeasurer gives every rune the same width regardless of font.
type monoMeasurer struct {
	rune float64
}

func (m monoMeasurer) StringWidth(s string, _ Font) float64 {
	return float64(utf8.RuneCountInString(s)) * m.rune
}

// recordingCanvas logs every call as a short string.
type recordingCanvas struct {
	ops   []string
	font  Font
	pages int
	saves int
}

func (r *recordingCanvas) PageSize() (float64, float64) { return 100, 100 }

func (r *recordingCanvas) SetFillColor(c Color) {
	r.ops = append(r.ops, fmt.Sprintf("fill %d,%d,%d", c.R, c.G, c.B))
}

func (r *recordingCanvas) SetStrokeColor(c Color) {
	r.ops = append(r.ops, fmt.Sprintf("stroke %d,%d,%d", c.R, c.G, c.B))
}

func (r *recordingCanvas) SetLineWidth(w float64) {
	r.ops = append(r.ops, fmt.Sprintf("width %.2f", w))
}

func (r *recordingCanvas) SetFont(f Font) {
	r.font = f
	r.ops = append(r.ops, fmt.Sprintf("font %s%s %.0f", f.Family, f.Style, f.Size))
}

func (r *recordingCanvas) Rect(rc Rect, style string) {
	r.ops = append(r.ops, fmt.Sprintf("rect %s", style))
}

func (r *recordingCanvas) RoundedRect(rc Rect, radius float64, style string) {
	r.ops = append(r.ops, fmt.Sprintf("rrect %s", style))
}

func (r *recordingCanvas) Line(x1, y1, x2, y2 float64) {
	r.ops = append(r.ops, "line")
}

func (r *recordingCanvas) Text(x, y float64, s string, align Align) {
	r.ops = append(r.ops, "text "+s)
}

func (r *recordingCanvas) Image(path string, box Rect) {
	r.ops = append(r.ops, "image "+path)
}

func (r *recordingCanvas) ShowPage() {
	r.pages++
	r.ops = append(r.ops, "show")
}

func (r *recordingCanvas) Save() error {
	r.saves++
	r.ops = append(r.ops, "save")
	return nil
}

func (r *recordingCanvas) texts() []string {
	var out []string
	for _, op := range r.ops {
		if s, ok := strings.CutPrefix(op, "text "); ok {
			out = append(out, s)
		}
	}
	return out
}

func (r *recordingCanvas) count(op string) int {
	n := 0
	for _, o := range r.ops {
		if o == op {
			n++
		}
	}
	return n
}

// testGeometry is a 100×100 page with a centred 80×80 frame.
var testGeometry = PageGeometry{Width: 100, Height: 100, Top: 10, Bottom: 10, Left: 10, Right: 10}

var testStyle = TextStyle{Font: Font{Family: "Helvetica", Size: 10}, Leading: 10}

// longWord is 60mm wide with the 2mm mono measurer, so two never share an 80mm line.
func longWord(tag string) string {
	return tag + strings.Repeat("w", 30-len(tag))
}

func linesOf(n int, tag string) string {
	words := make([]string, n)
	for i := range words {
		words[i] = longWord(fmt.Sprintf("%s%d", tag, i))
	}
	return strings.Join(words, " ")
}
