package text

import (
	"testing"

	"github.com/codalotl/richsync/internal/selection"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sel(start, end int) selection.Selection {
	return selection.MustFromBounds(start, end)
}

func TestLines(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		lines []Line
	}{
		{name: "empty", text: "", lines: []Line{{Text: "", Range: sel(0, 0)}}},
		{name: "no terminator", text: "abc", lines: []Line{{Text: "abc", Range: sel(0, 3)}}},
		{name: "trailing terminator", text: "Hello\n", lines: []Line{
			{Text: "Hello", Range: sel(0, 5)},
			{Text: "", Range: sel(6, 6)},
		}},
		{name: "blank lines", text: "A\n\nB", lines: []Line{
			{Text: "A", Range: sel(0, 1)},
			{Text: "", Range: sel(2, 2)},
			{Text: "B", Range: sel(3, 4)},
		}},
		{name: "runes", text: "héé\nçà", lines: []Line{
			{Text: "héé", Range: sel(0, 3)},
			{Text: "çà", Range: sel(4, 6)},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.lines, New(tt.text).Lines())
		})
	}
}

func TestSelect_KeepsAbsoluteCoordinates(t *testing.T) {
	txt := New("A\nBC\nD")
	sub := txt.Select(sel(2, 6))
	assert.Equal(t, "BC\nD", sub.String())
	assert.Equal(t, 2, sub.Offset())
	assert.Equal(t, sel(2, 6), sub.Range())

	assert.Equal(t, []Line{
		{Text: "BC", Range: sel(2, 4)},
		{Text: "D", Range: sel(5, 6)},
	}, sub.Lines())

	assert.Equal(t, 'B', sub.CharAt(2))
	assert.Equal(t, NoChar, sub.CharAt(0))
	assert.True(t, sub.IsTerminatedAt(4))

	nested := sub.Select(sel(3, 100))
	assert.Equal(t, "C\nD", nested.String())
	assert.Equal(t, 3, nested.Offset())
}

func TestSelect_Clamps(t *testing.T) {
	txt := New("abc")
	assert.Equal(t, "", txt.Select(sel(5, 9)).String())
	assert.Equal(t, "bc", txt.Select(sel(1, 9)).String())
}

func TestCharAt(t *testing.T) {
	txt := New("a\n")
	assert.Equal(t, 'a', txt.CharAt(0))
	assert.Equal(t, '\n', txt.CharAt(1))
	assert.Equal(t, NoChar, txt.CharAt(2))
	assert.Equal(t, NoChar, txt.CharAt(-1))
	assert.False(t, txt.IsTerminatedAt(2))
}

func TestSelectionEncompassingLines(t *testing.T) {
	txt := New("AB\nCDE\n\nF")
	tests := []struct {
		in, want selection.Selection
	}{
		{in: sel(0, 0), want: sel(0, 2)},
		{in: sel(2, 2), want: sel(0, 2)}, // caret on a terminator belongs to the line it ends
		{in: sel(3, 3), want: sel(3, 6)},
		{in: sel(4, 5), want: sel(3, 6)},
		{in: sel(1, 4), want: sel(0, 6)},
		{in: sel(7, 7), want: sel(7, 7)}, // empty line
		{in: sel(9, 9), want: sel(8, 9)}, // end of text
		{in: sel(9, 20), want: sel(8, 9)},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, txt.SelectionEncompassingLines(tt.in), "in=%v", tt.in)
	}

	require.Equal(t, sel(0, 0), New("").SelectionEncompassingLines(sel(0, 0)))
	require.Equal(t, sel(6, 6), New("Hello\n").SelectionEncompassingLines(sel(6, 6)))
}
