package reporting

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const defaultSlug = "candidato"

// Slug turns a candidate name into a file-name friendly token:
// "João da Silva" becomes "joao-da-silva".
func Slug(name string) string {
	folded, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), name)
	if err != nil {
		folded = name
	}

	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(folded) {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	out := strings.TrimSuffix(b.String(), "-")
	if out == "" {
		return defaultSlug
	}
	return out
}

// uniqueNames assigns each record a distinct file name, numbering repeats.
func uniqueNames(records []CandidateRecord) []string {
	used := make(map[string]bool, len(records))
	names := make([]string, len(records))
	for i, rec := range records {
		base := Slug(rec.Name)
		name := base
		for n := 2; used[name]; n++ {
			name = fmt.Sprintf("%s-%d", base, n)
		}
		used[name] = true
		names[i] = name + ".pdf"
	}
	return names
}
