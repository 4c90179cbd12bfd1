package reporting

import (
	"strings"
	"time"

	"github.com/agence-consultoria/bgreport/pkg/layout"
	"github.com/rs/zerolog/log"
)

// Assets are the optional logo files. Missing files leave their region blank.
type Assets struct {
	LogoLarge string
	LogoSmall string
}

// Cover and about page measurements, millimetres from the top-left corner.
var (
	accentBarInset = layout.Cm(0.5)
	accentBarWidth = layout.Cm(0.7)
	smallLogoW     = layout.Cm(2.3)
	smallLogoH     = layout.Cm(1.4)
	smallLogoLift  = layout.Cm(0.65) // gap between the page bottom and the logo
	ruleLift       = layout.Cm(2.05)
	ruleInset      = layout.Cm(2)
)

func drawAccentBar(c layout.Canvas, h float64) {
	c.SetFillColor(colorAccent)
	c.RoundedRect(layout.Rect{
		X: accentBarInset,
		Y: accentBarInset,
		W: accentBarWidth,
		H: h - 2*accentBarInset,
	}, accentBarWidth/2, layout.StyleFill)
}

func drawClosingRule(c layout.Canvas, w, h float64) {
	c.SetStrokeColor(colorFooter)
	c.SetLineWidth(layout.Pt(0.55))
	c.Line(ruleInset, h-ruleLift, w-ruleInset, h-ruleLift)
}

// DrawCover paints the cover page and completes it.
func DrawCover(c layout.Canvas, m layout.Measurer, front FrontMatter, assets Assets, now time.Time) {
	w, h := c.PageSize()

	c.SetFillColor(colorNavy)
	c.Rect(layout.Rect{W: w, H: h}, layout.StyleFill)
	drawAccentBar(c, h)

	logoW, logoH := w*0.5, h*0.15
	logoBottom := h * 0.40 // 60% of the height above the page bottom
	c.Image(assets.LogoLarge, layout.Rect{X: (w - logoW) / 2, Y: logoBottom - logoH, W: logoW, H: logoH})

	titleFont := boldFont(26)
	c.SetFont(titleFont)
	c.SetFillColor(colorAmber)
	y := logoBottom + layout.Cm(2.3)
	for _, line := range layout.WrapWords(front.CoverTitle, titleFont, w*0.75, m) {
		c.Text(w/2, y, line, layout.AlignCenter)
		y += layout.Pt(26 * 1.18)
	}

	c.SetFont(font(12))
	c.SetFillColor(colorWhite)
	c.Text(w/2, h-layout.Cm(4.7), publishedLabel(now), layout.AlignCenter)

	drawClosingRule(c, w, h)
	c.SetFont(font(12))
	c.SetFillColor(colorFooter)
	c.Text(w/2, h-layout.Cm(1.5), copyrightLabel(now, front.Company), layout.AlignCenter)

	c.ShowPage()
}

// aboutBlocks is the company description flowed inside the about page frame.
func aboutBlocks(front FrontMatter) []layout.Block {
	body := layout.TextStyle{
		Font:       font(13),
		Color:      colorNavy,
		Align:      layout.AlignJustify,
		Leading:    layout.Pt(18),
		SpaceAfter: layout.Pt(15),
	}
	bullet := body
	bullet.SpaceBefore = layout.Pt(1)
	bullet.SpaceAfter = 0

	gap := layout.Spacer{Height: layout.Cm(0.18)}
	var blocks []layout.Block
	for i, text := range front.AboutParagraphs {
		blocks = append(blocks, layout.NewParagraph(text, body), gap)
		if i == front.ServicesAfter && len(front.Services) > 0 {
			blocks = append(blocks, layout.BulletList{
				Items:        front.Services,
				Style:        bullet,
				Bullet:       "•",
				Indent:       layout.Pt(18),
				BulletIndent: layout.Pt(7),
			}, gap)
		}
	}
	return blocks
}

// DrawAbout paints the about-company page and completes it. Description text
// that does not fit its frame is dropped with a warning.
func DrawAbout(c layout.Canvas, m layout.Measurer, front FrontMatter, assets Assets, now time.Time) error {
	w, h := c.PageSize()

	c.SetFillColor(colorWhite)
	c.Rect(layout.Rect{W: w, H: h}, layout.StyleFill)
	drawAccentBar(c, h)

	titleY := layout.Cm(5.2)
	ruleY := titleY + layout.Cm(0.45)
	c.SetFont(boldFont(22))
	c.SetFillColor(colorNavy)
	c.Text(w/2, titleY, strings.ToUpper(front.AboutTitle), layout.AlignCenter)
	c.SetStrokeColor(colorAmber)
	c.SetLineWidth(layout.Pt(1.3))
	c.Line(w/2-layout.Cm(6), ruleY, w/2+layout.Cm(6), ruleY)

	box := layout.Rect{
		X: layout.Cm(2.5),
		W: w - 2*layout.Cm(2.5),
		H: layout.Cm(2.8),
	}
	box.Y = h - layout.Cm(2.55) - box.H

	frameTop := ruleY + layout.Cm(1.2)
	frame := layout.Rect{
		X: layout.Cm(3),
		Y: frameTop,
		W: w - layout.Cm(6),
		H: box.Y - layout.Cm(0.3) - frameTop,
	}
	blocks := aboutBlocks(front)
	drawn, err := layout.FillFrame(c, m, frame, blocks)
	if err != nil {
		return err
	}
	if drawn < len(blocks) {
		log.Warn().
			Int("drawn", drawn).
			Int("blocks", len(blocks)).
			Msg("About page description truncated to fit its frame")
	}

	c.SetFillColor(colorLightGray)
	c.RoundedRect(box, layout.Pt(8), layout.StyleFill)
	c.SetStrokeColor(colorAccent)
	c.SetLineWidth(layout.Pt(1))
	c.RoundedRect(box, layout.Pt(8), layout.StyleStroke)

	noticeFont := boldFont(10)
	margin := layout.Cm(0.5)
	c.SetFont(noticeFont)
	c.SetFillColor(colorNavy)
	y := box.Y + layout.Cm(1.0)
	for _, line := range layout.WrapWords(front.Disclaimer, noticeFont, box.W-2*margin, m) {
		c.Text(box.X+margin, y, line, layout.AlignLeft)
		y += layout.Pt(12)
	}

	c.Image(assets.LogoSmall, layout.Rect{
		X: w - smallLogoW - layout.Cm(1.5),
		Y: h - smallLogoLift - smallLogoH,
		W: smallLogoW,
		H: smallLogoH,
	})
	drawClosingRule(c, w, h)
	c.SetFont(font(12))
	c.SetFillColor(colorFooter)
	c.Text(w/2, h-layout.Cm(1.25), copyrightLabel(now, front.Company), layout.AlignCenter)

	c.ShowPage()
	return nil
}
