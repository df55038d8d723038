// Package deltadiff reconstructs a rich-text delta from a plain-text edit.
//
// An editing surface reports only the text before and after an edit plus the selections around it. Compute turns that into a delta over the text before the edit,
// which composes directly onto the document's delta. The edit is widened to whole lines, each line pair is diffed with a linediff.Differ, and whole lines that
// appear or disappear are inserted or deleted with their terminators. Inserted text carries the attributes active at the selection; inserted terminators carry the
// line type active at the selection.
package deltadiff

import (
	"errors"
	"fmt"
	"slices"

	"github.com/codalotl/richsync/internal/attributes"
	"github.com/codalotl/richsync/internal/change"
	"github.com/codalotl/richsync/internal/delta"
	"github.com/codalotl/richsync/internal/linediff"
	"github.com/codalotl/richsync/internal/selection"
	"github.com/codalotl/richsync/internal/simplelogger"
	"github.com/codalotl/richsync/internal/text"
)

// ErrInvalidInput is returned (wrapped) when Compute is called with inputs that cannot describe an edit, such as a selection past the end of its text.
var ErrInvalidInput = errors.New("invalid diff input")

// Model is one edit as reported by a surface. Context.SelectionBeforeChange is in OldText's coordinates and Context.SelectionAfterChange in NewText's.
type Model struct {
	OldText string
	NewText string
	Context change.Context

	// CursorTextAttributes are the attributes toggled at the caret (ex: bold pressed before typing). They override the attributes of the text before a caret, and
	// are ignored when the selection before the change was a range.
	CursorTextAttributes attributes.Map
}

// Source answers attribute queries about OldText. A document implements it.
type Source interface {
	SelectedTextAttributes(sel selection.Selection) attributes.Map
	LineTypeInSelection(sel selection.Selection) attributes.LineType
}

// Report is the result of Compute.
type Report struct {
	// Delta turns OldText into NewText.
	Delta delta.Delta

	// TextAttributes were applied to inserted text; LineAttributes to inserted line terminators.
	TextAttributes attributes.Map
	LineAttributes attributes.Map

	// Traversal is the range of OldText that was diffed. Text before and after it is retained.
	Traversal selection.Selection

	// Deletion mirrors Context.IsDeletion of the reported selections.
	Deletion bool

	// Widened is true when the selections did not bracket the edit, so Traversal was extended a line at a time until it did.
	Widened bool
}

// Computer computes deltas with a line differ. The zero value uses linediff.Default.
type Computer struct {
	Differ linediff.Differ
}

// New returns a Computer using differ (linediff.Default if nil).
func New(differ linediff.Differ) *Computer {
	return &Computer{Differ: differ}
}

// Compute returns the delta turning m.OldText into m.NewText. src may be nil, in which case the old text is treated as unformatted and every line as normal.
//
// Compute holds no state; it is safe to call concurrently.
func (c *Computer) Compute(m Model, src Source) (Report, error) {
	differ := linediff.Default
	if c != nil && c.Differ != nil {
		differ = c.Differ
	}
	if src == nil {
		src = plainSource{}
	}

	oldText := text.New(m.OldText)
	newText := text.New(m.NewText)
	before := m.Context.SelectionBeforeChange
	after := m.Context.SelectionAfterChange
	if before.End() > oldText.Len() {
		return Report{}, fmt.Errorf("%w: selection before change %v exceeds old text length %d", ErrInvalidInput, before, oldText.Len())
	}
	if after.End() > newText.Len() {
		return Report{}, fmt.Errorf("%w: selection after change %v exceeds new text length %d", ErrInvalidInput, after, newText.Len())
	}

	var textAttrs attributes.Map
	if before.IsCaret() {
		textAttrs = attributes.MergeRight(src.SelectedTextAttributes(before), m.CursorTextAttributes)
	} else {
		textAttrs = src.SelectedTextAttributes(before)
	}
	textAttrs = textAttrs.TextAttributes()
	lineAttrs := attributes.ForLineType(src.LineTypeInSelection(before))

	lineContext := change.NewContext(oldText.SelectionEncompassingLines(before), newText.SelectionEncompassingLines(after))
	traversal := lineContext.DeleteTraversal()
	start, end, afterEnd, widened := bracket(oldText, newText, traversal.Start(), traversal.End(), lineContext.SelectionAfterChange.End())
	if widened {
		simplelogger.Log("deltadiff: selections %v do not bracket the edit (traversal %v); extended to [%d, %d] -> [%d, %d]", m.Context, traversal, start, end, start, afterEnd)
	}
	traversal = selection.MustFromBounds(start, end)
	afterTraversal := selection.MustFromBounds(start, afterEnd)

	w := lineWalker{
		oldText:    oldText,
		textAttrs:  textAttrs,
		lineAttrs:  lineAttrs,
		differ:     differ,
		terminated: oldText.IsTerminatedAt(traversal.End()),
	}
	var buf delta.Buffer
	buf.Push(delta.Delta{delta.Retain(traversal.Start(), attributes.Map{})})
	if err := w.walk(&buf, oldText.Select(traversal).Lines(), newText.Select(afterTraversal).Lines()); err != nil {
		return Report{}, err
	}

	return Report{
		Delta:          buf.Compose(),
		TextAttributes: textAttrs,
		LineAttributes: lineAttrs,
		Traversal:      traversal,
		Deletion:       m.Context.IsDeletion(),
		Widened:        widened,
	}, nil
}

// Compute computes with linediff.Default.
func Compute(m Model, src Source) (Report, error) {
	return (&Computer{}).Compute(m, src)
}

// bracket moves start back and end forward a line at a time until the texts agree before start and old[end:] equals new[afterEnd:], with afterEnd at least
// the given one. It returns the new bounds and whether they moved. end must be a line end in oldText. The whole texts always qualify, so it terminates.
func bracket(oldText, newText text.Text, start, end, afterEnd int) (int, int, int, bool) {
	o, n := []rune(oldText.String()), []rune(newText.String())
	moved := false
	for start > 0 && (start > len(n) || !slices.Equal(o[:start], n[:start])) {
		start--
		for start > 0 && o[start-1] != text.Terminator {
			start--
		}
		moved = true
	}

	shift := len(n) - len(o)
	for {
		ae := end + shift
		if ae >= afterEnd && ae <= len(n) && slices.Equal(o[end:], n[ae:]) {
			return start, end, ae, moved
		}
		end++
		for end < len(o) && o[end] != text.Terminator {
			end++
		}
		moved = true
	}
}

// lineWalker emits the ops for the lines of a traversal.
//
// A traversal either ends on a terminator (terminated) or at the end of the old text. In the first case every line on both sides has a terminator. In the second,
// every line but the last has one, so the last line of each side is bare. A line added past the last paired line then needs its terminator before its text, and a
// removed one takes the terminator before it.
//
// When lines are joined the lower line's terminator survives in both cases, so the joined line keeps the lower line's type.
type lineWalker struct {
	oldText    text.Text
	textAttrs  attributes.Map
	lineAttrs  attributes.Map
	differ     linediff.Differ
	terminated bool
}

func (w lineWalker) walk(buf *delta.Buffer, beforeLines, afterLines []text.Line) error {
	pairs := min(len(beforeLines), len(afterLines))
	shrinking := len(beforeLines) > pairs

	for i := 0; i < pairs; i++ {
		b, a := beforeLines[i], afterLines[i]
		batch := slices.Clone(w.differ.LineDiff(b.Text, a.Text, w.textAttrs))
		hasTerminator, err := w.hasTerminator(b, i == len(beforeLines)-1)
		if err != nil {
			return err
		}
		if hasTerminator {
			if shrinking && i == pairs-1 {
				batch.Delete(1)
			} else {
				batch.Retain(1, attributes.Map{})
			}
		}
		buf.Push(batch)
	}

	for _, a := range afterLines[pairs:] {
		var batch delta.Delta
		if w.terminated {
			batch.Insert(a.Text, w.textAttrs).Insert(string(text.Terminator), w.lineAttrs)
		} else {
			batch.Insert(string(text.Terminator), w.lineAttrs).Insert(a.Text, w.textAttrs)
		}
		buf.Push(batch)
	}

	for i, b := range beforeLines[pairs:] {
		last := pairs+i == len(beforeLines)-1
		hasTerminator, err := w.hasTerminator(b, last)
		if err != nil {
			return err
		}
		var batch delta.Delta
		batch.Delete(b.Range.Length())
		switch {
		case hasTerminator && last:
			batch.Retain(1, attributes.Map{})
		case hasTerminator:
			batch.Delete(1)
		}
		buf.Push(batch)
	}
	return nil
}

// hasTerminator reports whether line b is followed by a terminator in the old text. Only the last line of the traversal may lack one.
func (w lineWalker) hasTerminator(b text.Line, last bool) (bool, error) {
	if w.oldText.IsTerminatedAt(b.Range.End()) {
		return true, nil
	}
	if !last {
		return false, fmt.Errorf("%w: line %v is not terminated but is not the last line", ErrInvalidInput, b.Range)
	}
	return false, nil
}

type plainSource struct{}

func (plainSource) SelectedTextAttributes(selection.Selection) attributes.Map { return attributes.Map{} }

func (plainSource) LineTypeInSelection(selection.Selection) attributes.LineType {
	return attributes.LineTypeNormal
}
