package delta

import (
	"math"

	"github.com/codalotl/richsync/internal/attributes"
)

// Iterator walks a delta in arbitrary-length steps, splitting ops as needed. Past the end, it behaves as an infinite retain.
type Iterator struct {
	ops    Delta
	index  int
	offset int // characters of ops[index] already consumed
}

// NewIterator returns an Iterator positioned at the start of d.
func NewIterator(d Delta) *Iterator {
	return &Iterator{ops: d}
}

// HasNext reports whether ops remain.
func (it *Iterator) HasNext() bool {
	return it.index < len(it.ops)
}

// PeekLength returns the remaining length of the current op, or math.MaxInt past the end.
func (it *Iterator) PeekLength() int {
	if !it.HasNext() {
		return math.MaxInt
	}
	return it.ops[it.index].Len() - it.offset
}

// PeekKind returns the kind of the current op, or KindRetain past the end.
func (it *Iterator) PeekKind() Kind {
	if !it.HasNext() {
		return KindRetain
	}
	return it.ops[it.index].Kind
}

// Next consumes up to length characters of the current op and returns them as an op. It never crosses into the following op.
func (it *Iterator) Next(length int) Op {
	if !it.HasNext() {
		return Retain(length, attributes.Map{})
	}
	op := it.ops[it.index]
	offset := it.offset
	remaining := op.Len() - offset
	if length >= remaining {
		length = remaining
		it.index++
		it.offset = 0
	} else {
		it.offset += length
	}
	switch op.Kind {
	case KindDelete:
		return Delete(length)
	case KindRetain:
		return Retain(length, op.Attributes)
	default:
		runes := []rune(op.Text)
		return Insert(string(runes[offset:offset+length]), op.Attributes)
	}
}

// Rest returns the ops not yet consumed, starting with the remainder of the current op.
func (it *Iterator) Rest() Delta {
	if !it.HasNext() {
		return nil
	}
	var out Delta
	if it.offset > 0 {
		out = append(out, it.Next(math.MaxInt))
	}
	return append(out, it.ops[it.index:]...)
}
