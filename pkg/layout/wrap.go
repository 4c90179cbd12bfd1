package layout

import "strings"

// WrapWords greedily packs space-separated words onto lines no wider than
// maxWidth. A word wider than maxWidth is kept whole on its own line.
func WrapWords(text string, f Font, maxWidth float64, m Measurer) []string {
	var lines []string
	line := ""
	for _, word := range strings.Fields(text) {
		candidate := word
		if line != "" {
			candidate = line + " " + word
		}
		if m.StringWidth(candidate, f) <= maxWidth {
			line = candidate
			continue
		}
		if line != "" {
			lines = append(lines, line)
		}
		line = word
	}
	if line != "" {
		lines = append(lines, line)
	}
	return lines
}

// BreakText wraps like WrapWords but honours explicit newlines and splits
// tokens that are wider than maxWidth on their own.
func BreakText(text string, f Font, maxWidth float64, m Measurer) []string {
	if text == "" {
		return nil
	}
	var lines []string
	for _, hard := range strings.Split(text, "\n") {
		words := strings.Fields(hard)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		line := ""
		for _, word := range words {
			candidate := word
			if line != "" {
				candidate = line + " " + word
			}
			if m.StringWidth(candidate, f) <= maxWidth {
				line = candidate
				continue
			}
			if line != "" {
				lines = append(lines, line)
				line = ""
			}
			if m.StringWidth(word, f) <= maxWidth {
				line = word
				continue
			}
			chunks := splitToken(word, f, maxWidth, m)
			lines = append(lines, chunks[:len(chunks)-1]...)
			line = chunks[len(chunks)-1]
		}
		lines = append(lines, line)
	}
	return lines
}

// splitToken cuts a single token into pieces that fit maxWidth. Every piece
// holds at least one rune so the loop always makes progress.
func splitToken(word string, f Font, maxWidth float64, m Measurer) []string {
	var chunks []string
	runes := []rune(word)
	start := 0
	for start < len(runes) {
		end := start + 1
		for end < len(runes) && m.StringWidth(string(runes[start:end+1]), f) <= maxWidth {
			end++
		}
		chunks = append(chunks, string(runes[start:end]))
		start = end
	}
	return chunks
}
