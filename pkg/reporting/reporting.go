package reporting

import (
	"context"
)

// ReportFormat represents the output format of a report
type ReportFormat string

const (
	FormatCSV ReportFormat = "csv"
	FormatPDF ReportFormat = "pdf"
)

// ContentType returns the MIME type of the format.
func (f ReportFormat) ContentType() string {
	if f == FormatCSV {
		return "text/csv"
	}
	return "application/pdf"
}

// ReportRequest defines the parameters for generating a report
type ReportRequest struct {
	Records []CandidateRecord
	Format  ReportFormat
	Title   string // Optional, overrides the profile cover title
}

// Report is a generated document held in memory.
type Report struct {
	Data        []byte
	ContentType string
	Pages       int // zero for CSV
}

// Engine defines the interface for report generation.
// This allows the HTTP service to be tested without rendering PDFs.
type Engine interface {
	Generate(ctx context.Context, req ReportRequest) (*Report, error)
}

var (
	globalEngine Engine
)

// SetEngine sets the global report engine.
func SetEngine(e Engine) {
	globalEngine = e
}

// GetEngine returns the current global report engine.
func GetEngine() Engine {
	return globalEngine
}
