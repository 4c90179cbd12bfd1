package layout

import "strings"

// token is one word of a paragraph with the font it is set in.
type token struct {
	text  string
	font  Font
	width float64
}

// richLine is a wrapped paragraph line. last marks the end of the paragraph
// or a forced break; justified text is not stretched on such lines.
type richLine struct {
	words []token
	width float64 // natural width including single spaces
	last  bool
}

// wrapRuns packs paragraph words greedily onto lines no wider than width.
// Words are never split; a word wider than the line stands alone.
func wrapRuns(p Paragraph, width float64, m Measurer) []richLine {
	var (
		lines []richLine
		cur   richLine
	)
	flush := func(last bool) {
		if len(cur.words) == 0 && !last {
			return
		}
		cur.last = last
		lines = append(lines, cur)
		cur = richLine{}
	}

	for _, run := range p.Runs {
		if run.Break {
			flush(true)
			continue
		}
		font := p.Style.Font
		if run.Bold {
			font = font.Bold()
		}
		for _, word := range strings.Fields(run.Text) {
			t := token{text: word, font: font, width: m.StringWidth(word, font)}
			if len(cur.words) == 0 {
				cur.words = append(cur.words, t)
				cur.width = t.width
				continue
			}
			space := m.StringWidth(" ", cur.words[len(cur.words)-1].font)
			if cur.width+space+t.width <= width {
				cur.words = append(cur.words, t)
				cur.width += space + t.width
				continue
			}
			flush(false)
			cur.words = append(cur.words, t)
			cur.width = t.width
		}
	}
	if len(cur.words) > 0 {
		flush(true)
	}

	// A trailing forced break must not leave an empty final line.
	for len(lines) > 0 && len(lines[len(lines)-1].words) == 0 {
		lines = lines[:len(lines)-1]
	}
	if n := len(lines); n > 0 {
		lines[n-1].last = true
	}
	return lines
}

func drawRichLine(c Canvas, m Measurer, line richLine, left, width, base float64, align Align) {
	if len(line.words) == 0 {
		return
	}
	x := left
	gap := 0.0
	switch align {
	case AlignCenter:
		x += (width - line.width) / 2
	case AlignRight:
		x += width - line.width
	case AlignJustify:
		if !line.last && len(line.words) > 1 && line.width < width {
			gap = (width - line.width) / float64(len(line.words)-1)
		}
	}

	var font Font
	for n, w := range line.words {
		if n > 0 {
			x += m.StringWidth(" ", line.words[n-1].font) + gap
		}
		if w.font != font {
			c.SetFont(w.font)
			font = w.font
		}
		c.Text(x, base, w.text, AlignLeft)
		x += w.width
	}
}
