package layout

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine() *Engine {
	return NewEngine(testGeometry, monoMeasurer{rune: 2})
}

func para(text string) Paragraph {
	return NewParagraph(text, testStyle)
}

func TestLayoutEmptyProducesOnePage(t *testing.T) {
	c := &recordingCanvas{}
	res, err := newTestEngine().Layout(c, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Pages)
	assert.Equal(t, 1, c.pages)
}

func TestLayoutPageBreak(t *testing.T) {
	tests := []struct {
		name   string
		blocks []Block
		pages  int
	}{
		{"forced break with room left", []Block{para("a"), PageBreak{}, para("b")}, 2},
		{"trailing break adds no page", []Block{para("a"), PageBreak{}}, 1},
		{"consecutive breaks leave a blank page", []Block{para("a"), PageBreak{}, PageBreak{}, para("b")}, 3},
		{"leading break leaves a blank page", []Block{PageBreak{}, para("a")}, 2},
		{"break after overflowing spacer", []Block{para("a"), Spacer{Height: 75}, PageBreak{}, para("b")}, 2},
		{"two breaks after overflowing spacer", []Block{para("a"), Spacer{Height: 75}, PageBreak{}, PageBreak{}, para("b")}, 3},
		{"break after fitting spacer", []Block{para("a"), Spacer{Height: 20}, PageBreak{}, para("b")}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &recordingCanvas{}
			res, err := newTestEngine().Layout(c, tt.blocks)
			require.NoError(t, err)
			assert.Equal(t, tt.pages, res.Pages)
			assert.Equal(t, tt.pages, c.pages, "every page must be completed on the canvas")
		})
	}
}

func TestLayoutForcedBreakStartsNewPage(t *testing.T) {
	c := &recordingCanvas{}
	res, err := newTestEngine().Layout(c, []Block{para("first"), PageBreak{}, para("second")})
	require.NoError(t, err)

	assert.Equal(t, []int{1}, res.PagesOf(0))
	assert.Equal(t, []int{2}, res.PagesOf(2))
	assert.Equal(t, []string{"text first", "show", "text second", "show"}, filter(c.ops, "text", "show"))
}

func TestLayoutParagraphSplitsBetweenLines(t *testing.T) {
	c := &recordingCanvas{}
	res, err := newTestEngine().Layout(c, []Block{para(linesOf(12, "p"))})
	require.NoError(t, err)

	require.Equal(t, 2, res.Pages)
	require.Len(t, res.Placements, 2)
	assert.Equal(t, Placement{Block: 0, Page: 1, Y: 10, Height: 80}, res.Placements[0])
	assert.Equal(t, Placement{Block: 0, Page: 2, Y: 10, Height: 40, Continued: true}, res.Placements[1])
}

func TestLayoutHeadingMovesWhole(t *testing.T) {
	heading := Heading{Text: linesOf(2, "h"), Style: testStyle}
	blocks := []Block{para("intro"), Spacer{Height: 60}, heading}

	res, err := newTestEngine().Layout(&recordingCanvas{}, blocks)
	require.NoError(t, err)

	assert.Equal(t, 2, res.Pages)
	assert.Equal(t, []int{2}, res.PagesOf(2), "heading must not split across pages")
}

func TestLayoutSpacerDroppedAtPageTop(t *testing.T) {
	res, err := newTestEngine().Layout(&recordingCanvas{}, []Block{Spacer{Height: 30}, para("a")})
	require.NoError(t, err)

	assert.Empty(t, res.PagesOf(0))
	require.Len(t, res.Placements, 1)
	assert.Equal(t, float64(10), res.Placements[0].Y)
}

func TestLayoutSpacerOverflowEndsPage(t *testing.T) {
	res, err := newTestEngine().Layout(&recordingCanvas{}, []Block{para("a"), Spacer{Height: 75}, para("b")})
	require.NoError(t, err)

	assert.Equal(t, 2, res.Pages)
	assert.Equal(t, []int{2}, res.PagesOf(2))
	last := res.Placements[len(res.Placements)-1]
	assert.Equal(t, float64(10), last.Y, "overflowing spacer is not carried over")
}

func testTable(bodyRows int) Table {
	cell := TextStyle{Font: Font{Family: "Helvetica", Size: 9}, Leading: 5}
	rows := [][]Cell{{{Text: "Header", Style: cell}, {Text: "Value", Style: cell}}}
	for i := 0; i < bodyRows; i++ {
		rows = append(rows, []Cell{
			{Text: fmt.Sprintf("row%d", i), Style: cell},
			{Text: "x", Wrap: true, Style: cell},
		})
	}
	return Table{
		Columns:    []float64{40, 40},
		Rows:       rows,
		HeaderRows: 1,
		Style:      TableStyle{GridWidth: 0.2},
	}
}

func TestLayoutTableSplitsWithRepeatedHeader(t *testing.T) {
	c := &recordingCanvas{}
	res, err := newTestEngine().Layout(c, []Block{testTable(20)})
	require.NoError(t, err)

	// 80mm frame, 5mm rows: header + 15 body rows on page one.
	require.Equal(t, 2, res.Pages)
	require.Len(t, res.Placements, 2)
	assert.Equal(t, Placement{Block: 0, Page: 1, Y: 10, Height: 80}, res.Placements[0])
	assert.Equal(t, Placement{Block: 0, Page: 2, Y: 10, Height: 30, Continued: true}, res.Placements[1])
	assert.Equal(t, 2, c.count("text Header"), "header row must repeat on the continuation page")

	texts := c.texts()
	assert.Equal(t, "Header", texts[0])
	assert.Contains(t, texts, "row19")
}

func TestLayoutTableAfterContentMovesWhenHeaderAndRowDoNotFit(t *testing.T) {
	blocks := []Block{para("a"), Spacer{Height: 65}, testTable(1)}
	res, err := newTestEngine().Layout(&recordingCanvas{}, blocks)
	require.NoError(t, err)

	assert.Equal(t, []int{2}, res.PagesOf(2))
	assert.False(t, res.Placements[len(res.Placements)-1].Continued)
}

func TestLayoutBlockTooLarge(t *testing.T) {
	tests := []struct {
		name  string
		block Block
	}{
		{"heading taller than a page", Heading{Text: linesOf(9, "h"), Style: testStyle}},
		{"table row taller than a page", Table{
			Columns:    []float64{80},
			HeaderRows: 0,
			Rows:       [][]Cell{{{Text: "a\nb\nc\nd\ne\nf\ng\nh\ni", Style: testStyle}}},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newTestEngine().Layout(&recordingCanvas{}, []Block{para("a"), tt.block})
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrBlockTooLarge), "got %v", err)
		})
	}
}

func TestLayoutBulletList(t *testing.T) {
	c := &recordingCanvas{}
	list := BulletList{Items: []string{"one", "two"}, Style: testStyle, Indent: 6, BulletIndent: 2}
	res, err := newTestEngine().Layout(c, []Block{list})
	require.NoError(t, err)

	assert.Equal(t, 1, res.Pages)
	assert.Equal(t, []string{"•", "one", "•", "two"}, c.texts())
	for _, p := range res.Placements {
		assert.False(t, p.Continued)
	}
}

func TestFillFrameStopsAtFirstOverflow(t *testing.T) {
	c := &recordingCanvas{}
	frame := Rect{X: 0, Y: 0, W: 50, H: 25}
	drawn, err := FillFrame(c, monoMeasurer{rune: 2}, frame, []Block{para("one"), para("two"), para("three")})
	require.NoError(t, err)

	assert.Equal(t, 2, drawn)
	assert.Equal(t, []string{"one", "two"}, c.texts())
	assert.Zero(t, c.pages, "FillFrame never completes pages")
}

func TestFillFrameLeavesOverflowingParagraphUndrawn(t *testing.T) {
	c := &recordingCanvas{}
	frame := Rect{X: 10, Y: 10, W: 80, H: 25}
	blocks := []Block{para("one"), para(linesOf(3, "p")), testTable(10)}
	drawn, err := FillFrame(c, monoMeasurer{rune: 2}, frame, blocks)
	require.NoError(t, err)

	assert.Equal(t, 1, drawn)
	assert.Equal(t, []string{"one"}, c.texts(), "a block that does not fit must not be partly drawn")
}

func TestFillFrameStopsAtPageBreak(t *testing.T) {
	c := &recordingCanvas{}
	drawn, err := FillFrame(c, monoMeasurer{rune: 2}, Rect{W: 50, H: 100}, []Block{para("one"), PageBreak{}, para("two")})
	require.NoError(t, err)
	assert.Equal(t, 1, drawn)
}

func filter(ops []string, prefixes ...string) []string {
	var out []string
	for _, op := range ops {
		for _, p := range prefixes {
			if len(op) >= len(p) && op[:len(p)] == p {
				out = append(out, op)
				break
			}
		}
	}
	return out
}
