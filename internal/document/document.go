// Package document holds a rich-text document as a delta of inserts and applies plain-text edits reported by an editing surface to it.
//
// A Document is immutable. Every update (ApplyTextDiff, FormatText, SetLineType) returns an AtomicUpdate holding a new Document, which the caller swaps in whole.
// Updates against one Document must be serialized: the next edit's old text is the text of the previous update's Document.
//
// The delta always ends with a line terminator, which terminates the last line. A surface never shows that final terminator, so Text (the text a surface edits)
// omits it.
package document

import (
	"errors"
	"fmt"
	"strings"

	"github.com/codalotl/richsync/internal/attributes"
	"github.com/codalotl/richsync/internal/change"
	"github.com/codalotl/richsync/internal/delta"
	"github.com/codalotl/richsync/internal/deltadiff"
	"github.com/codalotl/richsync/internal/linediff"
	"github.com/codalotl/richsync/internal/selection"
	"github.com/codalotl/richsync/internal/simplelogger"
	"github.com/codalotl/richsync/internal/text"
)

var (
	// ErrNotDocument is returned when a delta holds ops other than inserts.
	ErrNotDocument = errors.New("delta is not a document")

	// ErrOutOfRange is returned when a selection extends past the end of the document's text.
	ErrOutOfRange = errors.New("selection out of range")
)

// Document is an immutable rich-text document.
type Document struct {
	ops      delta.Delta
	rendered []rune // plain text of ops, including the final terminator
	differ   linediff.Differ
}

// Option configures a Document.
type Option func(*Document)

// WithDiffer sets the line differ used by ApplyTextDiff. Documents derived from this one keep it.
func WithDiffer(differ linediff.Differ) Option {
	return func(d *Document) {
		d.differ = differ
	}
}

// AtomicUpdate is the result of an update: the new Document, the change delta that produced it from the previous one, and where the selection is afterwards.
type AtomicUpdate struct {
	Document             *Document
	Diff                 delta.Delta
	SelectionAfterChange selection.Selection
}

// New returns an empty document: one normal, empty line.
func New(opts ...Option) *Document {
	return newDocument(delta.Delta{delta.Insert(string(text.Terminator), attributes.Map{})}, opts)
}

// FromDelta returns a document from a persisted op sequence. Only inserts are allowed. A final terminator is appended if missing.
func FromDelta(d delta.Delta, opts ...Option) (*Document, error) {
	for i, op := range d {
		if op.Kind != delta.KindInsert {
			return nil, fmt.Errorf("%w: op %d is a %s", ErrNotDocument, i, op.Kind)
		}
	}
	ops := d.Normalize()
	if !strings.HasSuffix(ops.PlainText(), string(text.Terminator)) {
		ops.Insert(string(text.Terminator), attributes.Map{})
	}
	return newDocument(ops, opts), nil
}

func newDocument(ops delta.Delta, opts []Option) *Document {
	d := &Document{ops: ops, rendered: []rune(ops.PlainText())}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// derive returns a Document over ops that keeps d's options.
func (d *Document) derive(ops delta.Delta) *Document {
	return &Document{ops: ops, rendered: []rune(ops.PlainText()), differ: d.differ}
}

// Delta returns a copy of the document's ops.
func (d *Document) Delta() delta.Delta {
	return d.ops.Clone()
}

// Text returns the text a surface shows: the document's plain text without its final terminator.
func (d *Document) Text() string {
	return string(d.rendered[:len(d.rendered)-1])
}

// Len returns the length of Text in runes.
func (d *Document) Len() int {
	return len(d.rendered) - 1
}

// ApplyTextDiff reconciles the document with newText, the surface's text after an edit described by c. cursorAttrs are the attributes toggled at the caret.
func (d *Document) ApplyTextDiff(newText string, c change.Context, cursorAttrs attributes.Map) (AtomicUpdate, error) {
	report, err := deltadiff.New(d.differ).Compute(deltadiff.Model{
		OldText:              d.Text(),
		NewText:              newText,
		Context:              c,
		CursorTextAttributes: cursorAttrs,
	}, d)
	if err != nil {
		return AtomicUpdate{}, err
	}

	next := d.derive(delta.Compose(d.ops, report.Delta))
	if next.Text() != newText {
		return AtomicUpdate{}, fmt.Errorf("document: diff %v did not reproduce the new text", report.Delta)
	}
	if report.Widened {
		simplelogger.Log("document: applied widened diff for %v", c)
	}

	return AtomicUpdate{Document: next, Diff: report.Delta, SelectionAfterChange: c.SelectionAfterChange}, nil
}

// FormatText overlays attrs on the text in sel. A nil value removes that attribute. Line terminators and the line type key are left alone.
func (d *Document) FormatText(sel selection.Selection, attrs attributes.Map) (AtomicUpdate, error) {
	if err := d.checkRange(sel); err != nil {
		return AtomicUpdate{}, err
	}
	attrs = attrs.TextAttributes()

	var diff delta.Delta
	diff.Retain(sel.Start(), attributes.Map{})
	for _, r := range d.rendered[sel.Start():sel.End()] {
		if r == text.Terminator {
			diff.Retain(1, attributes.Map{})
		} else {
			diff.Retain(1, attrs)
		}
	}
	diff = diff.Chop()

	return d.update(diff, sel), nil
}

// SetLineType sets the line type of every line touched by sel.
func (d *Document) SetLineType(sel selection.Selection, lt attributes.LineType) (AtomicUpdate, error) {
	if err := d.checkRange(sel); err != nil {
		return AtomicUpdate{}, err
	}
	attrs := attributes.ForLineType(lt)
	if attrs.IsEmpty() {
		attrs = attributes.New(attributes.Pair{Key: attributes.LineTypeKey, Value: nil})
	}

	var diff delta.Delta
	pos := 0
	for _, i := range d.terminatorsInSelection(sel) {
		diff.Retain(i-pos, attributes.Map{})
		diff.Retain(1, attrs)
		pos = i + 1
	}

	return d.update(diff, sel), nil
}

func (d *Document) update(diff delta.Delta, sel selection.Selection) AtomicUpdate {
	return AtomicUpdate{
		Document:             d.derive(delta.Compose(d.ops, diff)),
		Diff:                 diff,
		SelectionAfterChange: sel,
	}
}

func (d *Document) checkRange(sel selection.Selection) error {
	if sel.End() > d.Len() {
		return fmt.Errorf("%w: %v, text length %d", ErrOutOfRange, sel, d.Len())
	}
	return nil
}
