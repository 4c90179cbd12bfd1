package reporting

import (
	"github.com/agence-consultoria/bgreport/pkg/layout"
)

// recorder is a layout.Canvas that keeps drawn text and images per page.
type recorder struct {
	pages  [][]string
	images []string
	lines  int
	cur    []string
}

func (r *recorder) PageSize() (float64, float64)                    { return 210, 297 }
func (r *recorder) SetFillColor(layout.Color)                       {}
func (r *recorder) SetStrokeColor(layout.Color)                     {}
func (r *recorder) SetLineWidth(float64)                            {}
func (r *recorder) SetFont(layout.Font)                             {}
func (r *recorder) Rect(layout.Rect, string)                        {}
func (r *recorder) RoundedRect(layout.Rect, float64, string)        {}
func (r *recorder) Line(x1, y1, x2, y2 float64)                     { r.lines++ }
func (r *recorder) Text(x, y float64, s string, align layout.Align) { r.cur = append(r.cur, s) }
func (r *recorder) Image(path string, box layout.Rect)              { r.images = append(r.images, path) }
func (r *recorder) Save() error                                     { return nil }

func (r *recorder) ShowPage() {
	r.pages = append(r.pages, r.cur)
	r.cur = nil
}

func (r *recorder) count(page int, text string) int {
	n := 0
	for _, s := range r.pages[page] {
		if s == text {
			n++
		}
	}
	return n
}
