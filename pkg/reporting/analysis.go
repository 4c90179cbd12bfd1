package reporting

import (
	"fmt"
	"sort"
	"strings"
)

const unclassified = "não classificado"

type typeCount struct {
	name  string
	count int
}

// countTypes tallies results by the value of column, most frequent first.
func countTypes(results []CheckResult, column string) []typeCount {
	counts := make(map[string]int)
	for _, r := range results {
		name := strings.TrimSpace(r.Value(column))
		if name == "" {
			name = unclassified
		}
		counts[name]++
	}

	out := make([]typeCount, 0, len(counts))
	for name, n := range counts {
		out = append(out, typeCount{name: name, count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].count != out[j].count {
			return out[i].count > out[j].count
		}
		return out[i].name < out[j].name
	})
	return out
}

// Analyze summarises a candidate's occurrences by type in a fixed template.
func Analyze(c CandidateRecord, typeColumn string) string {
	name := strings.TrimSpace(c.Name)
	if name == "" {
		name = "o(a) profissional"
	}
	total := len(c.Results)
	if total == 0 {
		return fmt.Sprintf("Nenhuma ocorrência foi identificada nas consultas realizadas para %s.", name)
	}

	var parts []string
	for _, tc := range countTypes(c.Results, typeColumn) {
		parts = append(parts, fmt.Sprintf("%d do tipo %s", tc.count, tc.name))
	}

	var b strings.Builder
	if total == 1 {
		fmt.Fprintf(&b, "Foi identificada 1 ocorrência nas consultas realizadas para %s, %s.", name, parts[0])
	} else {
		fmt.Fprintf(&b, "Foram identificadas %d ocorrências nas consultas realizadas para %s, sendo %s.", total, name, joinPT(parts))
	}
	b.WriteString(" Recomenda-se a análise individual de cada registro antes de qualquer tomada de decisão.")
	return b.String()
}

// joinPT joins items as "a, b e c".
func joinPT(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	default:
		return strings.Join(items[:len(items)-1], ", ") + " e " + items[len(items)-1]
	}
}
