package reporting

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Attribute is one extra key/value shown in the candidate table.
type Attribute struct {
	Key   string
	Value string
}

// Attributes keeps extra candidate fields in insertion order.
type Attributes []Attribute

// Get returns the value stored under key.
func (a Attributes) Get(key string) (string, bool) {
	for _, attr := range a {
		if attr.Key == key {
			return attr.Value, true
		}
	}
	return "", false
}

// Set replaces the value of an existing key in place or appends a new one.
func (a *Attributes) Set(key, value string) {
	for i := range *a {
		if (*a)[i].Key == key {
			(*a)[i].Value = value
			return
		}
	}
	*a = append(*a, Attribute{Key: key, Value: value})
}

// UnmarshalJSON decodes a JSON object keeping the key order of the document.
// Scalar values are rendered as text; null becomes empty.
func (a *Attributes) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*a = nil
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("attributes must be a JSON object")
	}

	var out Attributes
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := tok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("attribute %q: %w", key, err)
		}
		value, err := ScalarText(raw)
		if err != nil {
			return fmt.Errorf("attribute %q: %w", key, err)
		}
		out.Set(key, value)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*a = out
	return nil
}

// MarshalJSON encodes the attributes as an object in their stored order.
func (a Attributes) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, attr := range a {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(attr.Key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(attr.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// ScalarText renders a JSON scalar as display text. Numbers keep their
// literal form, null becomes empty and nested values are rejected.
func ScalarText(raw json.RawMessage) (string, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return "", nil
	}
	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return "", err
		}
		return s, nil
	case '{', '[':
		return "", fmt.Errorf("expected a scalar, got %s", describeJSON(trimmed))
	default:
		return string(trimmed), nil
	}
}

func describeJSON(b []byte) string {
	if b[0] == '{' {
		return "an object"
	}
	return "an array"
}

// CheckResult maps column names to values for one verification row.
type CheckResult map[string]string

// Value returns the value for column, or "" when the row lacks it.
func (r CheckResult) Value(column string) string {
	return r[column]
}

// CandidateRecord is the input for one candidate section.
type CandidateRecord struct {
	Name       string        `json:"name"`
	ID         string        `json:"id"`
	Attributes Attributes    `json:"attributes,omitempty"`
	Results    []CheckResult `json:"results,omitempty"`
}

// MaskedID returns the identifier as printed in the report.
func (c CandidateRecord) MaskedID() string {
	return MaskIdentifier(c.ID)
}

// Label identifies a record in logs and errors.
func (c CandidateRecord) Label() string {
	if name := strings.TrimSpace(c.Name); name != "" {
		return name
	}
	return MaskIdentifier(c.ID)
}
