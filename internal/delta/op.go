package delta

import (
	"fmt"
	"unicode/utf8"

	"github.com/codalotl/richsync/internal/attributes"
)

// Kind is the kind of an operation.
type Kind string

const (
	KindInsert Kind = "insert"
	KindRetain Kind = "retain"
	KindDelete Kind = "delete"
)

// Op is one step of a delta.
//   - KindInsert: Text is inserted, carrying Attributes.
//   - KindRetain: Count characters are kept; Attributes, if any, are overlaid on them.
//   - KindDelete: Count characters are removed. Attributes is always empty.
type Op struct {
	Kind       Kind
	Count      int            // retain/delete length
	Text       string         // insert text
	Attributes attributes.Map // formatting; a nil value removes a key when retained
}

// Insert returns an insert op.
func Insert(text string, attrs attributes.Map) Op {
	return Op{Kind: KindInsert, Text: text, Attributes: attrs}
}

// Retain returns a retain op.
func Retain(n int, attrs attributes.Map) Op {
	return Op{Kind: KindRetain, Count: n, Attributes: attrs}
}

// Delete returns a delete op.
func Delete(n int) Op {
	return Op{Kind: KindDelete, Count: n}
}

// Len returns the number of characters the op covers: runes inserted, or Count.
func (o Op) Len() int {
	if o.Kind == KindInsert {
		return utf8.RuneCountInString(o.Text)
	}
	return o.Count
}

// Equal reports whether o and other are the same op.
func (o Op) Equal(other Op) bool {
	return o.Kind == other.Kind && o.Count == other.Count && o.Text == other.Text && o.Attributes.Equal(other.Attributes)
}

func (o Op) String() string {
	var s string
	switch o.Kind {
	case KindInsert:
		s = fmt.Sprintf("insert %q", o.Text)
	case KindRetain:
		s = fmt.Sprintf("retain %d", o.Count)
	case KindDelete:
		s = fmt.Sprintf("delete %d", o.Count)
	default:
		s = fmt.Sprintf("unknown(%s)", o.Kind)
	}
	if !o.Attributes.IsEmpty() {
		s += " " + o.Attributes.String()
	}
	return s
}
