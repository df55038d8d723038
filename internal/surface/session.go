// Package surface bridges an editing surface's event stream to a document.
//
// A surface reports an edit as two events: first the new text, then the new selection. A Session holds the text report as a change.Pending until the selection
// report arrives, then applies the edit to its document in one step. A selection report with nothing pending only moves the selection.
package surface

import (
	"errors"
	"fmt"
	"sync"

	"github.com/codalotl/richsync/internal/attributes"
	"github.com/codalotl/richsync/internal/change"
	"github.com/codalotl/richsync/internal/document"
	"github.com/codalotl/richsync/internal/selection"
	"github.com/codalotl/richsync/internal/simplelogger"
)

// Session tracks one surface's document, selection, and cursor attributes. Events are expected from a single goroutine; the methods lock anyway.
type Session struct {
	mu          sync.Mutex
	doc         *document.Document
	sel         selection.Selection
	cursorAttrs attributes.Map
	pending     *change.Pending
}

// NewSession returns a session over doc (an empty document if nil) with a caret at 0.
func NewSession(doc *document.Document) *Session {
	if doc == nil {
		doc = document.New()
	}
	return &Session{doc: doc, cursorAttrs: attributes.Map{}}
}

// Document returns the current document.
func (s *Session) Document() *document.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc
}

// Selection returns the current selection.
func (s *Session) Selection() selection.Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sel
}

// CursorAttributes returns the attributes new text at the caret will get, on top of those inherited from the text before it.
func (s *Session) CursorAttributes() attributes.Map {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursorAttrs
}

// SetCursorAttributes replaces the cursor attributes (ex: the user toggled bold with nothing selected).
func (s *Session) SetCursorAttributes(attrs attributes.Map) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cursorAttrs = attrs
}

// TextChanged records that the surface now shows nextText. A later TextChanged before any SelectionChanged replaces it.
func (s *Session) TextChanged(nextText string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending != nil {
		simplelogger.Log("surface: replacing pending change %q", s.pending.TextAfterChange())
	}
	p := change.Begin(nextText, s.sel)
	s.pending = &p
}

// HasPendingChange reports whether a text change is waiting for its selection.
func (s *Session) HasPendingChange() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending != nil
}

// SelectionChanged records the surface's new selection. If a text change is pending, it is applied and the resulting update returned; otherwise the update is
// nil. On error the pending change is dropped and the document is left as it was.
func (s *Session) SelectionChanged(start, end int) (*document.AtomicUpdate, error) {
	sel, err := selection.Between(start, end)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending == nil {
		s.sel = sel
		s.cursorAttrs = s.doc.SelectedTextAttributes(sel)
		return nil, nil
	}

	p := *s.pending
	s.pending = nil
	newText, c := p.Complete(sel)
	up, err := s.doc.ApplyTextDiff(newText, c, s.cursorAttrs)
	if err != nil {
		simplelogger.Log("surface: dropping change %v: %v", c, err)
		return nil, fmt.Errorf("apply change %v: %w", c, err)
	}

	s.doc = up.Document
	s.sel = up.SelectionAfterChange
	s.cursorAttrs = s.doc.SelectedTextAttributes(s.sel)
	return &up, nil
}

// MoveSelection moves the selection by delta runes, as arrow keys do. It fails while a text change is pending, or if the selection would leave the document.
func (s *Session) MoveSelection(delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending != nil {
		return errors.New("move selection: a text change is pending")
	}
	sel, err := s.sel.Shift(delta)
	if err != nil {
		return fmt.Errorf("move selection: %w", err)
	}
	if sel.End() > s.doc.Len() {
		return fmt.Errorf("move selection: %v is past the end of the document (length %d)", sel, s.doc.Len())
	}
	s.sel = sel
	s.cursorAttrs = s.doc.SelectedTextAttributes(sel)
	return nil
}

// FormatSelection applies attrs to the selected text. With a caret, it merges attrs into the cursor attributes instead (a nil value removes a key) and returns a
// nil update.
func (s *Session) FormatSelection(attrs attributes.Map) (*document.AtomicUpdate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sel.IsCaret() {
		s.cursorAttrs = attributes.Compose(s.cursorAttrs, attrs, false)
		return nil, nil
	}
	up, err := s.doc.FormatText(s.sel, attrs)
	if err != nil {
		return nil, err
	}
	s.doc = up.Document
	return &up, nil
}

// SetLineType sets the line type of the lines the selection touches.
func (s *Session) SetLineType(lt attributes.LineType) (*document.AtomicUpdate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	up, err := s.doc.SetLineType(s.sel, lt)
	if err != nil {
		return nil, err
	}
	s.doc = up.Document
	return &up, nil
}
