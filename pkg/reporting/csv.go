package reporting

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"time"
)

// CSVGenerator handles CSV export of candidate check results.
type CSVGenerator struct{}

// NewCSVGenerator creates a new CSV generator.
func NewCSVGenerator() *CSVGenerator {
	return &CSVGenerator{}
}

// Generate creates a CSV companion of the report for the given records.
func (g *CSVGenerator) Generate(records []CandidateRecord, p Profile, generatedAt time.Time) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	// Write header comment rows
	if err := g.writeHeader(w, records, p, generatedAt); err != nil {
		return nil, fmt.Errorf("write CSV header section: %w", err)
	}

	// Write candidate attributes section
	if err := g.writeCandidates(w, records); err != nil {
		return nil, fmt.Errorf("write CSV candidates section: %w", err)
	}

	// Write results section
	if err := g.writeResults(w, records, p.Schema); err != nil {
		return nil, fmt.Errorf("write CSV results section: %w", err)
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("CSV write error: %w", err)
	}

	return buf.Bytes(), nil
}

// writeHeader writes the report header information.
func (g *CSVGenerator) writeHeader(w *csv.Writer, records []CandidateRecord, p Profile, generatedAt time.Time) error {
	headers := [][]string{
		{"# " + p.Front.CoverTitle},
		{"# Perfil:", p.Name},
		{"# Gerado em:", generatedAt.Format(time.RFC3339)},
		{"# Candidatos:", fmt.Sprintf("%d", len(records))},
		{""}, // Empty row as separator
	}

	for _, row := range headers {
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write header row %q: %w", row[0], err)
		}
	}

	return nil
}

// writeCandidates lists the masked identity and extra attributes of each candidate.
func (g *CSVGenerator) writeCandidates(w *csv.Writer, records []CandidateRecord) error {
	if err := w.Write([]string{"# CANDIDATOS"}); err != nil {
		return fmt.Errorf("write candidates section heading: %w", err)
	}
	if err := w.Write([]string{"Nome", "CPF", "Campo", "Valor"}); err != nil {
		return fmt.Errorf("write candidates column headers: %w", err)
	}

	for _, rec := range records {
		masked := rec.MaskedID()
		if len(rec.Attributes) == 0 {
			if err := w.Write([]string{rec.Name, masked, "", ""}); err != nil {
				return fmt.Errorf("write candidate row for %q: %w", rec.Label(), err)
			}
			continue
		}
		for _, attr := range rec.Attributes {
			if err := w.Write([]string{rec.Name, masked, attr.Key, attr.Value}); err != nil {
				return fmt.Errorf("write attribute %q for %q: %w", attr.Key, rec.Label(), err)
			}
		}
	}

	// Empty row as separator
	if err := w.Write([]string{""}); err != nil {
		return fmt.Errorf("write candidates separator row: %w", err)
	}

	return nil
}

// writeResults writes one row per check result in schema column order.
func (g *CSVGenerator) writeResults(w *csv.Writer, records []CandidateRecord, schema []string) error {
	// Section header
	if err := w.Write([]string{"# RESULTADOS"}); err != nil {
		return fmt.Errorf("write results section heading: %w", err)
	}

	headerRow := append([]string{"Nome", "CPF"}, schema...)
	if err := w.Write(headerRow); err != nil {
		return fmt.Errorf("write results column headers: %w", err)
	}

	for _, rec := range records {
		masked := rec.MaskedID()
		for i, result := range rec.Results {
			row := make([]string, 0, len(schema)+2)
			row = append(row, rec.Name, masked)
			for _, col := range schema {
				row = append(row, result.Value(col))
			}
			if err := w.Write(row); err != nil {
				return fmt.Errorf("write result %d for %q: %w", i, rec.Label(), err)
			}
		}
	}

	return nil
}
