package reporting

import "github.com/agence-consultoria/bgreport/pkg/layout"

// FallbackColumnWidth is used for result columns without a preferred width.
const FallbackColumnWidth = 33.0 // mm

// Known result columns.
const (
	ColumnAgency     = "Órgão"
	ColumnResult     = "Resultado"
	ColumnStatus     = "Status"
	ColumnDate       = "Data"
	ColumnOccurrence = "Ocorrência"
	ColumnType       = "Tipo"
	ColumnEventDate  = "Data da Ocorrência"
)

var columnWidths = map[string]float64{
	ColumnAgency:     layout.Cm(3.3),
	ColumnResult:     layout.Cm(5.5),
	ColumnStatus:     layout.Cm(3),
	ColumnDate:       layout.Cm(2.5),
	ColumnOccurrence: layout.Cm(6),
	ColumnType:       layout.Cm(3.5),
	ColumnEventDate:  layout.Cm(3.5),
}

// ColumnWidth returns the preferred width of a result column.
func ColumnWidth(name string) float64 {
	if w, ok := columnWidths[name]; ok {
		return w
	}
	return FallbackColumnWidth
}

// ColumnWidths resolves a schema to widths, shrinking every column by the
// same factor when the total exceeds maxWidth.
func ColumnWidths(schema []string, maxWidth float64) []float64 {
	widths := make([]float64, len(schema))
	var total float64
	for i, name := range schema {
		widths[i] = ColumnWidth(name)
		total += widths[i]
	}
	if maxWidth > 0 && total > maxWidth {
		scale := maxWidth / total
		for i := range widths {
			widths[i] *= scale
		}
	}
	return widths
}
