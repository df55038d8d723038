// Package text provides a line-aware, rune-indexed view of a plain-text snapshot.
//
// A Text remembers the absolute offset of its first rune, so that a sub-range obtained with Select reports line ranges and character lookups in the coordinates of
// the text it was selected from.
package text

import (
	"github.com/codalotl/richsync/internal/selection"
)

// Terminator is the line terminator.
const Terminator = '\n'

// NoChar is returned by CharAt for an index outside of the text.
const NoChar rune = -1

// Text is an immutable rune-indexed string.
type Text struct {
	runes  []rune
	offset int
}

// Line is one line of a Text. Range is absolute and excludes the terminator, so Range.End() is the index of the line's terminator (or the end of the text).
type Line struct {
	Text  string
	Range selection.Selection
}

// New returns a Text over s, starting at offset 0.
func New(s string) Text {
	return Text{runes: []rune(s)}
}

func (t Text) String() string { return string(t.runes) }

// Len returns the number of runes.
func (t Text) Len() int { return len(t.runes) }

// Offset returns the absolute index of the first rune.
func (t Text) Offset() int { return t.offset }

// Range returns the absolute range covered by t.
func (t Text) Range() selection.Selection {
	return selection.MustFromBounds(t.offset, t.offset+len(t.runes))
}

// Select returns the runes in [sel.Start, sel.End), given in absolute coordinates. Bounds are clamped to t.
func (t Text) Select(sel selection.Selection) Text {
	start := clamp(sel.Start()-t.offset, 0, len(t.runes))
	end := clamp(sel.End()-t.offset, start, len(t.runes))
	return Text{runes: t.runes[start:end:end], offset: t.offset + start}
}

// CharAt returns the rune at absolute index i, or NoChar if i is outside of t.
func (t Text) CharAt(i int) rune {
	rel := i - t.offset
	if rel < 0 || rel >= len(t.runes) {
		return NoChar
	}
	return t.runes[rel]
}

// IsTerminatedAt reports whether the rune at absolute index i is a line terminator.
func (t Text) IsTerminatedAt(i int) bool {
	return t.CharAt(i) == Terminator
}

// Lines splits t on the terminator. There is always at least one line: an empty text has one empty line, and a text ending with a terminator has a trailing empty line.
func (t Text) Lines() []Line {
	var lines []Line
	start := 0
	for i, r := range t.runes {
		if r != Terminator {
			continue
		}
		lines = append(lines, t.line(start, i))
		start = i + 1
	}
	return append(lines, t.line(start, len(t.runes)))
}

func (t Text) line(start, end int) Line {
	return Line{
		Text:  string(t.runes[start:end]),
		Range: selection.MustFromBounds(t.offset+start, t.offset+end),
	}
}

// SelectionEncompassingLines extends sel outward to whole lines: the start snaps to the start of the line containing it and the end snaps to the end of the line containing
// it (the index of that line's terminator, or the end of t). Indexes outside of t are clamped.
func (t Text) SelectionEncompassingLines(sel selection.Selection) selection.Selection {
	start := clamp(sel.Start()-t.offset, 0, len(t.runes))
	end := clamp(sel.End()-t.offset, start, len(t.runes))
	for start > 0 && t.runes[start-1] != Terminator {
		start--
	}
	for end < len(t.runes) && t.runes[end] != Terminator {
		end++
	}
	return selection.MustFromBounds(t.offset+start, t.offset+end)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
