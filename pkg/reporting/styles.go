package reporting

import "github.com/agence-consultoria/bgreport/pkg/layout"

// Color scheme - navy and amber corporate palette
var (
	colorNavy      = layout.Hex("#002B5B")
	colorAccent    = layout.Hex("#E3F2FD") // side bar, table header
	colorAmber     = layout.Hex("#FFB300")
	colorWhite     = layout.Hex("#FFFFFF")
	colorFooter    = layout.Hex("#D3D3D3")
	colorLightGray = layout.Hex("#F5F5F5")
	colorGrid      = layout.Hex("#CCCCCC")
)

const fontFamily = "Helvetica"

func font(size float64) layout.Font {
	return layout.Font{Family: fontFamily, Size: size}
}

func boldFont(size float64) layout.Font {
	return font(size).Bold()
}

// Styles fixes the presentation of every block kind in the body.
type Styles struct {
	Title      layout.TextStyle
	Body       layout.TextStyle
	Contact    layout.TextStyle
	InfoLabel  layout.TextStyle
	InfoValue  layout.TextStyle
	Header     layout.TextStyle
	Cell       layout.TextStyle
	InfoTable  layout.TableStyle
	Results    layout.TableStyle
	InfoLabelW float64
	InfoValueW float64
}

// DefaultStyles returns the house style.
func DefaultStyles() Styles {
	return Styles{
		Title: layout.TextStyle{
			Font:       boldFont(19),
			Color:      colorNavy,
			Align:      layout.AlignCenter,
			SpaceAfter: layout.Pt(15),
		},
		Body: layout.TextStyle{
			Font:       font(11.5),
			Color:      colorNavy,
			Align:      layout.AlignJustify,
			SpaceAfter: layout.Pt(8),
		},
		Contact: layout.TextStyle{
			Font:        font(11),
			Color:       colorNavy,
			Align:       layout.AlignCenter,
			Leading:     layout.Pt(14),
			SpaceBefore: layout.Pt(12),
			SpaceAfter:  layout.Pt(24),
		},
		InfoLabel: layout.TextStyle{Font: boldFont(10), Color: colorNavy, Align: layout.AlignLeft},
		InfoValue: layout.TextStyle{Font: font(10), Color: colorNavy, Align: layout.AlignLeft},
		Header:    layout.TextStyle{Font: boldFont(10), Color: colorNavy, Align: layout.AlignLeft},
		Cell: layout.TextStyle{
			Font:    font(9),
			Color:   colorNavy,
			Align:   layout.AlignLeft,
			Leading: layout.Pt(11.5),
		},
		InfoTable: layout.TableStyle{
			GridColor: colorGrid,
			GridWidth: layout.Pt(0.5),
			PadTop:    layout.Pt(6),
			PadBottom: layout.Pt(6),
			PadLeft:   layout.Pt(6),
			PadRight:  layout.Pt(6),
		},
		Results: layout.TableStyle{
			GridColor: colorGrid,
			GridWidth: layout.Pt(0.5),
			BoxColor:  &colorAccent,
			BoxWidth:  layout.Pt(1),
			PadTop:    layout.Pt(6),
			PadBottom: layout.Pt(6),
			PadLeft:   layout.Pt(8),
			PadRight:  layout.Pt(8),
		},
		InfoLabelW: layout.Cm(4),
		InfoValueW: layout.Cm(10),
	}
}
