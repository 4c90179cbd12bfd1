package reporting

import (
	"fmt"
	"time"

	"github.com/agence-consultoria/bgreport/pkg/layout"
)

// Footer is the overlay stamped on every body page once the page count is known.
type Footer struct {
	Notice    string
	LogoSmall string
	IssuedAt  time.Time
}

// PageLabel formats the page counter.
func PageLabel(page, total int) string {
	return fmt.Sprintf("Página %d de %d", page, total)
}

// Stamp draws the page counter near the top margin and the static footer.
// It matches layout.StampFunc.
func (f Footer) Stamp(c layout.Canvas, page, total int) {
	w, h := c.PageSize()
	inset := layout.Cm(2.5)

	c.SetFont(font(9))
	c.SetFillColor(colorNavy)
	c.Text(w-inset, layout.Cm(1.3), PageLabel(page, total), layout.AlignRight)

	c.SetStrokeColor(colorFooter)
	c.SetLineWidth(layout.Pt(0.5))
	c.Line(inset, h-layout.Cm(2), w-inset, h-layout.Cm(2))

	c.Image(f.LogoSmall, layout.Rect{
		X: w - smallLogoW - inset,
		Y: h - smallLogoLift - smallLogoH,
		W: smallLogoW,
		H: smallLogoH,
	})

	c.SetFont(font(8))
	c.SetFillColor(colorNavy)
	c.Text(w/2, h-layout.Cm(1.5), f.Notice, layout.AlignCenter)
	c.Text(layout.Cm(3.5), h-layout.Cm(1.5), issuedLabel(f.IssuedAt), layout.AlignLeft)
}
