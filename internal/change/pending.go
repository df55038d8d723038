package change

import "github.com/codalotl/richsync/internal/selection"

// Pending is an edit whose text is known but whose resulting selection is not yet. Surfaces report a text change first and the selection change second; Pending carries
// the first report until the second arrives.
type Pending struct {
	textAfterChange       string
	selectionBeforeChange selection.Selection
}

// Begin starts a pending change: the surface now shows textAfterChange, and selectionBefore was the selection before the edit.
func Begin(textAfterChange string, selectionBefore selection.Selection) Pending {
	return Pending{textAfterChange: textAfterChange, selectionBeforeChange: selectionBefore}
}

// TextAfterChange returns the surface text reported by the text change.
func (p Pending) TextAfterChange() string { return p.textAfterChange }

// SelectionBeforeChange returns the selection captured when the change began.
func (p Pending) SelectionBeforeChange() selection.Selection { return p.selectionBeforeChange }

// Complete finishes the change with the selection the surface reported after it, returning the new text and the change context.
func (p Pending) Complete(selectionAfter selection.Selection) (string, Context) {
	return p.textAfterChange, NewContext(p.selectionBeforeChange, selectionAfter)
}
