package layout

// All lengths are millimetres with the origin at the top-left corner of the
// page, matching fpdf's "mm" unit. Font sizes stay in points.

const mmPerPoint = 25.4 / 72

// Pt converts a length in points to millimetres.
func Pt(points float64) float64 {
	return points * mmPerPoint
}

// Cm converts centimetres to millimetres.
func Cm(cm float64) float64 {
	return cm * 10
}

// PageGeometry describes the paper size and the margins that bound flowed content.
type PageGeometry struct {
	Width  float64
	Height float64
	Top    float64
	Bottom float64
	Left   float64
	Right  float64
}

// A4 returns the A4 paper size with uniform margins.
func A4(margin float64) PageGeometry {
	return PageGeometry{
		Width:  210,
		Height: 297,
		Top:    margin,
		Bottom: margin,
		Left:   margin,
		Right:  margin,
	}
}

// Frame returns the content area left after removing the margins.
func (g PageGeometry) Frame() Rect {
	return Rect{
		X: g.Left,
		Y: g.Top,
		W: g.Width - g.Left - g.Right,
		H: g.Height - g.Top - g.Bottom,
	}
}

// Rect is an axis-aligned box.
type Rect struct {
	X, Y, W, H float64
}

// Bottom returns the y coordinate of the lower edge.
func (r Rect) Bottom() float64 {
	return r.Y + r.H
}

// Color is an RGB triple in the 0-255 range.
type Color struct {
	R, G, B int
}

// Hex parses "#RRGGBB". Malformed input yields black.
func Hex(s string) Color {
	if len(s) == 7 && s[0] == '#' {
		s = s[1:]
	}
	if len(s) != 6 {
		return Color{}
	}
	var v [3]int
	for i := 0; i < 3; i++ {
		hi, ok1 := hexDigit(s[2*i])
		lo, ok2 := hexDigit(s[2*i+1])
		if !ok1 || !ok2 {
			return Color{}
		}
		v[i] = hi<<4 | lo
	}
	return Color{R: v[0], G: v[1], B: v[2]}
}

func hexDigit(c byte) (int, bool) {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0'), true
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10, true
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10, true
	}
	return 0, false
}

// Font selects one of the PDF core fonts. Style is "", "B", "I" or "BI".
type Font struct {
	Family string
	Style  string
	Size   float64
}

// Bold returns a copy of f in bold.
func (f Font) Bold() Font {
	f.Style = "B"
	return f
}

// Align is a horizontal alignment.
type Align string

const (
	AlignLeft    Align = "L"
	AlignCenter  Align = "C"
	AlignRight   Align = "R"
	AlignJustify Align = "J"
)
