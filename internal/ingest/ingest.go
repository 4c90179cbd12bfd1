// Package ingest loads candidate records from the input formats accepted by
// the CLI and the watcher: JSON documents and CSV or XLSX spreadsheets.
package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/agence-consultoria/bgreport/pkg/reporting"

	bgerrors "github.com/agence-consultoria/bgreport/internal/errors"
)

// Format is an input file format.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// FormatOf derives the input format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".csv":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("unsupported input extension %q", filepath.Ext(path))
	}
}

// Supported reports whether path has an extension a loader understands.
func Supported(path string) bool {
	_, err := FormatOf(path)
	return err == nil
}

// LoadFile reads candidate records from path. schema names the result
// columns in order; positional result rows are matched against it.
func LoadFile(path string, schema []string) ([]reporting.CandidateRecord, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, bgerrors.WrapInputError("load_input", path, err)
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, bgerrors.NewReportError(bgerrors.ErrorTypeNotFound, "load_input", path, err)
		}
		return nil, bgerrors.WrapInputError("load_input", path, err)
	}
	defer f.Close()

	var records []reporting.CandidateRecord
	switch format {
	case FormatJSON:
		records, err = LoadJSON(f, schema)
	case FormatCSV:
		records, err = LoadCSV(f, schema)
	case FormatXLSX:
		records, err = LoadXLSX(f, schema)
	}
	if err != nil {
		return nil, bgerrors.WrapInputError("load_input", path, err)
	}
	if len(records) == 0 {
		return nil, bgerrors.WrapInputError("load_input", path, fmt.Errorf("no candidates found"))
	}
	return records, nil
}
