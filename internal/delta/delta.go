package delta

import (
	"errors"
	"fmt"
	"strings"

	"github.com/codalotl/richsync/internal/attributes"
)

// ErrLengthMismatch is returned (wrapped) when a delta retains or deletes past the end of the text it is applied to.
var ErrLengthMismatch = errors.New("delta length mismatch")

// Delta is an ordered sequence of operations. The appender methods (Insert, Retain, Delete, Push) keep the sequence compact: they merge with the previous op when
// possible and place an insert before an adjacent delete.
type Delta []Op

// Insert appends an insert of text. Empty text is ignored.
func (d *Delta) Insert(text string, attrs attributes.Map) *Delta {
	return d.Push(Insert(text, attrs))
}

// Retain appends a retain of n characters. n <= 0 is ignored.
func (d *Delta) Retain(n int, attrs attributes.Map) *Delta {
	return d.Push(Retain(n, attrs))
}

// Delete appends a delete of n characters. n <= 0 is ignored.
func (d *Delta) Delete(n int) *Delta {
	return d.Push(Delete(n))
}

// Push appends op, merging it into the last op when both are the same kind with equal attributes. Zero-length ops are dropped.
func (d *Delta) Push(op Op) *Delta {
	if op.Len() <= 0 {
		return d
	}
	if op.Kind == KindDelete {
		op.Attributes = attributes.Map{}
	}
	ops := *d
	if n := len(ops); n > 0 {
		last := ops[n-1]
		if op.Kind == KindDelete && last.Kind == KindDelete {
			ops[n-1] = Delete(last.Count + op.Count)
			return d
		}
		// Inserts and deletes at the same position commute; keep inserts first.
		if last.Kind == KindDelete && op.Kind == KindInsert {
			head := ops[:n-1:n-1]
			head.Push(op)
			*d = append(head, last)
			return d
		}
		if last.Kind == op.Kind && last.Attributes.Equal(op.Attributes) {
			switch op.Kind {
			case KindInsert:
				ops[n-1] = Insert(last.Text+op.Text, last.Attributes)
				return d
			case KindRetain:
				ops[n-1] = Retain(last.Count+op.Count, last.Attributes)
				return d
			}
		}
	}
	*d = append(ops, op)
	return d
}

// Normalize returns a copy of d with adjacent compatible ops merged and zero-length ops removed.
func (d Delta) Normalize() Delta {
	out := make(Delta, 0, len(d))
	for _, op := range d {
		out.Push(op)
	}
	return out
}

// Clone returns a copy of d that shares no backing array with it.
func (d Delta) Clone() Delta {
	if d == nil {
		return nil
	}
	out := make(Delta, len(d))
	copy(out, d)
	return out
}

// Chop returns d without a trailing retain that carries no attributes.
func (d Delta) Chop() Delta {
	if n := len(d); n > 0 && d[n-1].Kind == KindRetain && d[n-1].Attributes.IsEmpty() {
		return d[:n-1]
	}
	return d
}

// BaseLength returns the length of text d can be applied to (retained plus deleted characters). Trailing text beyond BaseLength is implicitly retained.
func (d Delta) BaseLength() int {
	n := 0
	for _, op := range d {
		if op.Kind != KindInsert {
			n += op.Count
		}
	}
	return n
}

// TargetLength returns the length of text produced by d from a text of exactly BaseLength characters.
func (d Delta) TargetLength() int {
	n := 0
	for _, op := range d {
		if op.Kind != KindDelete {
			n += op.Len()
		}
	}
	return n
}

// IsIdentity reports whether applying d changes nothing: it holds only retains without attributes.
func (d Delta) IsIdentity() bool {
	for _, op := range d {
		if op.Kind != KindRetain || !op.Attributes.IsEmpty() {
			return false
		}
	}
	return true
}

// IsDocument reports whether d holds only inserts, i.e. describes a whole document.
func (d Delta) IsDocument() bool {
	for _, op := range d {
		if op.Kind != KindInsert {
			return false
		}
	}
	return true
}

// PlainText returns the concatenation of d's inserts.
func (d Delta) PlainText() string {
	var b strings.Builder
	for _, op := range d {
		if op.Kind == KindInsert {
			b.WriteString(op.Text)
		}
	}
	return b.String()
}

// Equal reports whether d and other hold equal ops.
func (d Delta) Equal(other Delta) bool {
	if len(d) != len(other) {
		return false
	}
	for i := range d {
		if !d[i].Equal(other[i]) {
			return false
		}
	}
	return true
}

// Apply applies d to the plain text s and returns the result; attributes are ignored. Characters past d's BaseLength are kept.
func (d Delta) Apply(s string) (string, error) {
	src := []rune(s)
	var b strings.Builder
	pos := 0
	for i, op := range d {
		switch op.Kind {
		case KindInsert:
			b.WriteString(op.Text)
		case KindRetain:
			if pos+op.Count > len(src) {
				return "", fmt.Errorf("%w: op %d retains %d at %d, text has %d", ErrLengthMismatch, i, op.Count, pos, len(src))
			}
			b.WriteString(string(src[pos : pos+op.Count]))
			pos += op.Count
		case KindDelete:
			if pos+op.Count > len(src) {
				return "", fmt.Errorf("%w: op %d deletes %d at %d, text has %d", ErrLengthMismatch, i, op.Count, pos, len(src))
			}
			pos += op.Count
		default:
			return "", fmt.Errorf("delta: op %d has unknown kind %q", i, op.Kind)
		}
	}
	b.WriteString(string(src[pos:]))
	return b.String(), nil
}

func (d Delta) String() string {
	parts := make([]string, len(d))
	for i, op := range d {
		parts[i] = op.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
