package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/agence-consultoria/bgreport/pkg/reporting"
	"github.com/xuri/excelize/v2"
)

// LoadCSV reads a spreadsheet exported as CSV. See fromRows for the layout.
func LoadCSV(r io.Reader, schema []string) ([]reporting.CandidateRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read CSV: %w", err)
	}
	return fromRows(rows, schema)
}

// LoadXLSX reads the first worksheet of an Excel workbook.
func LoadXLSX(r io.Reader, schema []string) ([]reporting.CandidateRecord, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	return fromRows(rows, schema)
}

// columnRole says what a spreadsheet column feeds.
type columnRole int

const (
	roleAttribute columnRole = iota
	roleName
	roleID
	roleResult
)

type column struct {
	role columnRole
	name string // attribute key or schema column
}

func classify(header []string, schema []string) ([]column, error) {
	cols := make([]column, len(header))
	hasName := false
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		switch key := strings.ToLower(h); {
		case contains(nameKeys, key):
			cols[i] = column{role: roleName}
			hasName = true
		case contains(idKeys, key):
			cols[i] = column{role: roleID}
		default:
			cols[i] = column{role: roleAttribute, name: h}
			for _, s := range schema {
				if strings.EqualFold(s, h) {
					cols[i] = column{role: roleResult, name: s}
					break
				}
			}
		}
	}
	if !hasName {
		return nil, fmt.Errorf("header has no name column (expected one of %s)", strings.Join(nameKeys, ", "))
	}
	return cols, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// fromRows groups spreadsheet rows into candidates. The first row is the
// header. Consecutive rows with the same name and identifier belong to one
// candidate; each row with any result value adds a check result. Other
// columns become attributes, taken from the first non-empty cell.
func fromRows(rows [][]string, schema []string) ([]reporting.CandidateRecord, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	cols, err := classify(rows[0], schema)
	if err != nil {
		return nil, err
	}

	var records []reporting.CandidateRecord
	for n, row := range rows[1:] {
		var (
			name, id string
			attrs    reporting.Attributes
			result   = reporting.CheckResult{}
		)
		empty := true
		for i, col := range cols {
			if i >= len(row) {
				break
			}
			v := strings.TrimSpace(row[i])
			if v != "" {
				empty = false
			}
			switch col.role {
			case roleName:
				name = v
			case roleID:
				id = v
			case roleResult:
				if v != "" {
					result[col.name] = v
				}
			case roleAttribute:
				if v != "" && col.name != "" {
					attrs = append(attrs, reporting.Attribute{Key: col.name, Value: v})
				}
			}
		}
		if empty {
			continue
		}
		if name == "" && id == "" {
			return nil, fmt.Errorf("row %d: missing name and identifier", n+2)
		}

		last := len(records) - 1
		if last < 0 || records[last].Name != name || records[last].ID != id {
			records = append(records, reporting.CandidateRecord{Name: name, ID: id})
			last++
		}
		rec := &records[last]
		for _, a := range attrs {
			if _, ok := rec.Attributes.Get(a.Key); !ok {
				rec.Attributes.Set(a.Key, a.Value)
			}
		}
		if len(result) > 0 {
			rec.Results = append(rec.Results, result)
		}
	}
	return records, nil
}
