package delta

import (
	"github.com/codalotl/richsync/internal/attributes"
)

// Compose returns a single delta equivalent to applying a and then b. Retains in b overlay their attributes on what a produced, deletes in b remove it, and inserts in
// b pass through. A trailing plain retain is chopped.
func Compose(a, b Delta) Delta {
	ai := NewIterator(a)
	bi := NewIterator(b)
	var out Delta
	for ai.HasNext() || bi.HasNext() {
		switch {
		case bi.PeekKind() == KindInsert:
			out.Push(bi.Next(bi.PeekLength()))
		case ai.PeekKind() == KindDelete:
			out.Push(ai.Next(ai.PeekLength()))
		default:
			length := min(ai.PeekLength(), bi.PeekLength())
			aop := ai.Next(length)
			bop := bi.Next(length)
			switch bop.Kind {
			case KindRetain:
				newOp := aop
				if aop.Kind == KindRetain {
					newOp = Retain(length, attributes.Map{})
				}
				newOp.Attributes = attributes.Compose(aop.Attributes, bop.Attributes, aop.Kind == KindRetain)
				out.Push(newOp)
				if !bi.HasNext() && len(out) > 0 && out[len(out)-1].Equal(aop) {
					// b is exhausted and a's op passed through unchanged: the rest of a is unchanged too.
					out = append(out, ai.Rest()...)
					return out.Normalize().Chop()
				}
			case KindDelete:
				// Deleting something a inserted cancels out; deleting something a retained survives.
				if aop.Kind == KindRetain {
					out.Push(bop)
				}
			}
		}
	}
	return out.Chop()
}
