package ingest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/agence-consultoria/bgreport/pkg/reporting"
)

// Accepted keys per field, Portuguese first.
var (
	nameKeys       = []string{"nome", "candidate_name", "name"}
	idKeys         = []string{"cpf", "id"}
	attributesKeys = []string{"outras_informacoes", "other_info", "attributes"}
	resultsKeys    = []string{"consultas", "results"}
)

// LoadJSON decodes an array of candidates. Each result is either an array
// zipped positionally with schema (extra values are dropped) or an object
// keyed by column name.
func LoadJSON(r io.Reader, schema []string) ([]reporting.CandidateRecord, error) {
	var raw []map[string]json.RawMessage
	dec := json.NewDecoder(r)
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode candidates: %w", err)
	}

	records := make([]reporting.CandidateRecord, 0, len(raw))
	for i, obj := range raw {
		rec, err := decodeCandidate(obj, schema)
		if err != nil {
			return nil, fmt.Errorf("candidate %d: %w", i+1, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func lookup(obj map[string]json.RawMessage, keys []string) (json.RawMessage, bool) {
	for _, k := range keys {
		if v, ok := obj[k]; ok {
			return v, true
		}
	}
	return nil, false
}

func decodeCandidate(obj map[string]json.RawMessage, schema []string) (reporting.CandidateRecord, error) {
	var rec reporting.CandidateRecord
	var err error

	if v, ok := lookup(obj, nameKeys); ok {
		if rec.Name, err = reporting.ScalarText(v); err != nil {
			return rec, fmt.Errorf("name: %w", err)
		}
	}
	if v, ok := lookup(obj, idKeys); ok {
		if rec.ID, err = reporting.ScalarText(v); err != nil {
			return rec, fmt.Errorf("id: %w", err)
		}
	}
	if v, ok := lookup(obj, attributesKeys); ok {
		if err := json.Unmarshal(v, &rec.Attributes); err != nil {
			return rec, fmt.Errorf("attributes: %w", err)
		}
	}
	if v, ok := lookup(obj, resultsKeys); ok {
		if rec.Results, err = decodeResults(v, schema); err != nil {
			return rec, err
		}
	}
	return rec, nil
}

func decodeResults(raw json.RawMessage, schema []string) ([]reporting.CheckResult, error) {
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, nil
	}
	var rows []json.RawMessage
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("results must be an array: %w", err)
	}

	results := make([]reporting.CheckResult, 0, len(rows))
	for i, row := range rows {
		res, err := decodeResult(row, schema)
		if err != nil {
			return nil, fmt.Errorf("result %d: %w", i+1, err)
		}
		results = append(results, res)
	}
	return results, nil
}

func decodeResult(raw json.RawMessage, schema []string) (reporting.CheckResult, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty result")
	}
	res := reporting.CheckResult{}

	switch trimmed[0] {
	case '[':
		var values []json.RawMessage
		if err := json.Unmarshal(trimmed, &values); err != nil {
			return nil, err
		}
		for i, v := range values {
			if i >= len(schema) {
				break
			}
			text, err := reporting.ScalarText(v)
			if err != nil {
				return nil, fmt.Errorf("column %q: %w", schema[i], err)
			}
			res[schema[i]] = text
		}
	case '{':
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &fields); err != nil {
			return nil, err
		}
		for k, v := range fields {
			text, err := reporting.ScalarText(v)
			if err != nil {
				return nil, fmt.Errorf("column %q: %w", k, err)
			}
			res[k] = text
		}
	default:
		return nil, fmt.Errorf("result must be an array or an object")
	}
	return res, nil
}
