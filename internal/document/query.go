package document

import (
	"strings"
	"unicode/utf8"

	"github.com/codalotl/richsync/internal/attributes"
	"github.com/codalotl/richsync/internal/selection"
	"github.com/codalotl/richsync/internal/text"
)

// Run is a stretch of a line's text sharing attributes.
type Run struct {
	Text       string
	Attributes attributes.Map
}

// Line is one line of a document. Range is in Text coordinates and excludes the terminator.
type Line struct {
	Range selection.Selection
	Runs  []Run
	Type  attributes.LineType
}

// Text returns the line's plain text.
func (l Line) Text() string {
	var b strings.Builder
	for _, r := range l.Runs {
		b.WriteString(r.Text)
	}
	return b.String()
}

// Lines returns the document's lines. There is always at least one.
func (d *Document) Lines() []Line {
	var lines []Line
	var cur Line
	start, pos := 0, 0
	for _, op := range d.ops {
		parts := strings.Split(op.Text, string(text.Terminator))
		for k, part := range parts {
			if part != "" {
				cur.Runs = append(cur.Runs, Run{Text: part, Attributes: op.Attributes.TextAttributes()})
				pos += utf8.RuneCountInString(part)
			}
			if k == len(parts)-1 {
				continue
			}
			cur.Range = selection.MustFromBounds(start, pos)
			cur.Type = op.Attributes.LineType()
			lines = append(lines, cur)
			cur = Line{}
			pos++
			start = pos
		}
	}
	return lines
}

// SelectedTextAttributes returns the text attributes active over sel.
//
// For a caret, these are the attributes of the character before it, or none at the start of a line. For a range, they are the attributes every character in it
// shares, terminators excluded.
func (d *Document) SelectedTextAttributes(sel selection.Selection) attributes.Map {
	start, end := min(sel.Start(), d.Len()), min(sel.End(), d.Len())
	if start == end {
		if start == 0 || d.rendered[start-1] == text.Terminator {
			return attributes.Map{}
		}
		return d.attributesAt(start - 1).TextAttributes()
	}

	var out attributes.Map
	first := true
	d.walk(start, end, func(_ int, r rune, attrs attributes.Map) {
		if r == text.Terminator {
			return
		}
		if first {
			out = attrs.TextAttributes()
			first = false
			return
		}
		out = attributes.Intersect(out, attrs)
	})
	return out
}

// LineTypeInSelection returns the line type shared by every line sel touches, or LineTypeNormal if they differ.
func (d *Document) LineTypeInSelection(sel selection.Selection) attributes.LineType {
	var lt attributes.LineType
	for k, i := range d.terminatorsInSelection(sel) {
		t := d.attributesAt(i).LineType()
		if k == 0 {
			lt = t
		} else if t != lt {
			return attributes.LineTypeNormal
		}
	}
	return lt
}

// terminatorsInSelection returns the indexes of the terminators of the lines sel touches, from the line holding sel.Start to the line holding sel.End.
func (d *Document) terminatorsInSelection(sel selection.Selection) []int {
	first, last := d.nextTerminator(sel.Start()), d.nextTerminator(sel.End())
	var out []int
	for i := first; i <= last; i++ {
		if d.rendered[i] == text.Terminator {
			out = append(out, i)
		}
	}
	return out
}

// nextTerminator returns the index of the first terminator at or after i. The final rune is always a terminator.
func (d *Document) nextTerminator(i int) int {
	i = max(0, min(i, len(d.rendered)-1))
	for d.rendered[i] != text.Terminator {
		i++
	}
	return i
}

func (d *Document) attributesAt(i int) attributes.Map {
	var out attributes.Map
	d.walk(i, i+1, func(_ int, _ rune, attrs attributes.Map) {
		out = attrs
	})
	return out
}

// walk calls fn for each rune of the rendered text in [start, end), with the attributes of the op holding it.
func (d *Document) walk(start, end int, fn func(i int, r rune, attrs attributes.Map)) {
	pos := 0
	for _, op := range d.ops {
		n := op.Len()
		if pos >= end {
			return
		}
		if pos+n <= start {
			pos += n
			continue
		}
		i := pos
		for _, r := range op.Text {
			if i >= start && i < end {
				fn(i, r, op.Attributes)
			}
			i++
		}
		pos += n
	}
}
