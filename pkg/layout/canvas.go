package layout

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/rs/zerolog/log"
)

// Shape styles accepted by Rect and RoundedRect.
const (
	StyleFill       = "F"
	StyleStroke     = "D"
	StyleFillStroke = "FD"
)

// ErrFinalized is returned when a canvas is saved more than once.
var ErrFinalized = errors.New("canvas already finalized")

// Canvas receives absolute-positioned drawing commands one page at a time.
type Canvas interface {
	PageSize() (width, height float64)
	SetFillColor(c Color)
	SetStrokeColor(c Color)
	SetLineWidth(w float64)
	SetFont(f Font)
	Rect(r Rect, style string)
	RoundedRect(r Rect, radius float64, style string)
	Line(x1, y1, x2, y2 float64)
	// Text draws a single line with its baseline at y. x is the left edge,
	// the centre or the right edge depending on align.
	Text(x, y float64, s string, align Align)
	// Image fits the file into box keeping its aspect ratio. Paths that do
	// not resolve to a file are skipped.
	Image(path string, box Rect)
	// ShowPage completes the current page.
	ShowPage()
	// Save finalizes the document.
	Save() error
}

// Measurer reports the rendered width of a string in millimetres.
type Measurer interface {
	StringWidth(s string, f Font) float64
}

// DocumentInfo is written into the PDF metadata dictionary.
type DocumentInfo struct {
	Title     string
	Author    string
	Creator   string
	CreatedAt time.Time
}

// PDFCanvas is a Canvas backed by fpdf. Pages are opened lazily so that
// ShowPage on an untouched page produces an explicit blank page.
type PDFCanvas struct {
	pdf      *fpdf.Fpdf
	out      io.Writer
	tr       func(string) string
	width    float64
	height   float64
	pageOpen bool
	pages    int
	saved    bool
}

// NewPDFCanvas creates a canvas that writes the finished document to out on Save.
func NewPDFCanvas(out io.Writer, geometry PageGeometry, info DocumentInfo) *PDFCanvas {
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: geometry.Width, Ht: geometry.Height},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)

	tr := pdf.UnicodeTranslatorFromDescriptor("")
	if info.Title != "" {
		pdf.SetTitle(info.Title, true)
	}
	if info.Author != "" {
		pdf.SetAuthor(info.Author, true)
	}
	if info.Creator != "" {
		pdf.SetCreator(info.Creator, true)
	}
	if !info.CreatedAt.IsZero() {
		pdf.SetCreationDate(info.CreatedAt)
	}

	return &PDFCanvas{
		pdf:    pdf,
		out:    out,
		tr:     tr,
		width:  geometry.Width,
		height: geometry.Height,
	}
}

// Pages returns the number of pages opened so far.
func (c *PDFCanvas) Pages() int {
	return c.pages
}

func (c *PDFCanvas) PageSize() (float64, float64) {
	return c.width, c.height
}

func (c *PDFCanvas) ensurePage() {
	if c.pageOpen {
		return
	}
	c.pdf.AddPage()
	c.pageOpen = true
	c.pages++
}

func (c *PDFCanvas) SetFillColor(col Color) {
	c.pdf.SetFillColor(col.R, col.G, col.B)
	c.pdf.SetTextColor(col.R, col.G, col.B)
}

func (c *PDFCanvas) SetStrokeColor(col Color) {
	c.pdf.SetDrawColor(col.R, col.G, col.B)
}

func (c *PDFCanvas) SetLineWidth(w float64) {
	c.pdf.SetLineWidth(w)
}

func (c *PDFCanvas) SetFont(f Font) {
	c.pdf.SetFont(f.Family, f.Style, f.Size)
}

func (c *PDFCanvas) Rect(r Rect, style string) {
	c.ensurePage()
	c.pdf.Rect(r.X, r.Y, r.W, r.H, style)
}

func (c *PDFCanvas) RoundedRect(r Rect, radius float64, style string) {
	c.ensurePage()
	c.pdf.RoundedRect(r.X, r.Y, r.W, r.H, radius, "1234", style)
}

func (c *PDFCanvas) Line(x1, y1, x2, y2 float64) {
	c.ensurePage()
	c.pdf.Line(x1, y1, x2, y2)
}

func (c *PDFCanvas) Text(x, y float64, s string, align Align) {
	if s == "" {
		return
	}
	c.ensurePage()
	encoded := c.tr(s)
	switch align {
	case AlignCenter:
		x -= c.pdf.GetStringWidth(encoded) / 2
	case AlignRight:
		x -= c.pdf.GetStringWidth(encoded)
	}
	c.pdf.Text(x, y, encoded)
}

func (c *PDFCanvas) Image(path string, box Rect) {
	if !fileExists(path) {
		log.Debug().Str("path", path).Msg("Image not found, leaving region blank")
		return
	}
	c.ensurePage()

	opts := fpdf.ImageOptions{ReadDpi: true}
	info := c.pdf.RegisterImageOptions(path, opts)
	if info == nil || c.pdf.Err() {
		return
	}
	iw, ih := info.Width(), info.Height()
	if iw <= 0 || ih <= 0 {
		return
	}
	scale := box.W / iw
	if s := box.H / ih; s < scale {
		scale = s
	}
	w, h := iw*scale, ih*scale
	x := box.X + (box.W-w)/2
	y := box.Y + (box.H-h)/2
	c.pdf.ImageOptions(path, x, y, w, h, false, opts, 0, "")
}

func (c *PDFCanvas) ShowPage() {
	c.ensurePage()
	c.pageOpen = false
}

func (c *PDFCanvas) Save() error {
	if c.saved {
		return ErrFinalized
	}
	c.saved = true
	if err := c.pdf.Output(c.out); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// FontMetrics measures strings with fpdf's core font tables. It is not safe
// for concurrent use; each generation owns one.
type FontMetrics struct {
	pdf     *fpdf.Fpdf
	tr      func(string) string
	current Font
}

// NewFontMetrics returns a Measurer for the PDF core fonts.
func NewFontMetrics() *FontMetrics {
	pdf := fpdf.New("P", "mm", "A4", "")
	return &FontMetrics{
		pdf: pdf,
		tr:  pdf.UnicodeTranslatorFromDescriptor(""),
	}
}

func (m *FontMetrics) StringWidth(s string, f Font) float64 {
	if s == "" {
		return 0
	}
	if f != m.current {
		m.pdf.SetFont(f.Family, f.Style, f.Size)
		m.current = f
	}
	return m.pdf.GetStringWidth(m.tr(s))
}
