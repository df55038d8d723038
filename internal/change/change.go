// Package change describes a single edit reported by an editing surface as a pair of selections: where the selection was before the text changed, and where it is after.
package change

import (
	"fmt"

	"github.com/codalotl/richsync/internal/selection"
)

// Context captures the selections surrounding one edit. SelectionBeforeChange is in the coordinates of the text before the change; SelectionAfterChange is in the
// coordinates of the text after it.
type Context struct {
	SelectionBeforeChange selection.Selection
	SelectionAfterChange  selection.Selection
}

// NewContext returns a Context.
func NewContext(before, after selection.Selection) Context {
	return Context{SelectionBeforeChange: before, SelectionAfterChange: after}
}

// IsDeletion reports whether the edit removed characters on net: the selection after the change is a caret placed before the end of the selection before the change.
//
// Backspacing ([5,5] -> [4,4]), deleting a range ([2,6] -> [2,2]) and replacing a range with shorter text ([2,6] -> [3,3]) are deletions. Typing at a caret and replacing
// a range with text of the same or greater length are not.
func (c Context) IsDeletion() bool {
	after := c.SelectionAfterChange
	return after.IsCaret() && after.End() < c.SelectionBeforeChange.End()
}

// DeleteTraversal returns the range, in before-change coordinates, that the edit removed or replaced: from the earliest start of the two selections to the end of the
// selection before the change.
func (c Context) DeleteTraversal() selection.Selection {
	before := c.SelectionBeforeChange
	return selection.MustBetween(min(before.Start(), c.SelectionAfterChange.Start()), before.End())
}

func (c Context) String() string {
	return fmt.Sprintf("%v -> %v", c.SelectionBeforeChange, c.SelectionAfterChange)
}
