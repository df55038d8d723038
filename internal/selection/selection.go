// Package selection implements an immutable range of character indexes. A Selection can represent a caret (Start == End) or a selected run of characters.
//
// Indexes are rune offsets into a text. Both ends are inclusive for touch tests (a caret at a boundary touches it), while Length and Intersection treat the range as
// [Start, End).
package selection

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrInvalidSelection is returned (wrapped) when a Selection would violate 0 <= Start <= End.
var ErrInvalidSelection = errors.New("invalid selection")

// Selection is a range of character indexes. The zero value is a caret at 0.
type Selection struct {
	start int
	end   int
}

// FromBounds returns the selection [start, end]. It fails if start is negative or end < start.
func FromBounds(start, end int) (Selection, error) {
	if start < 0 {
		return Selection{}, fmt.Errorf("%w: start %d is negative", ErrInvalidSelection, start)
	}
	if end < start {
		return Selection{}, fmt.Errorf("%w: start must be equal or inferior to end (start=%d, end=%d)", ErrInvalidSelection, start, end)
	}
	return Selection{start: start, end: end}, nil
}

// Caret returns the zero-length selection at i.
func Caret(i int) (Selection, error) {
	return FromBounds(i, i)
}

// Between returns the selection spanning two indexes given in any order.
func Between(one, two int) (Selection, error) {
	return FromBounds(min(one, two), max(one, two))
}

// MustFromBounds is like FromBounds but panics on invalid input.
func MustFromBounds(start, end int) Selection {
	s, err := FromBounds(start, end)
	if err != nil {
		panic(err)
	}
	return s
}

// MustBetween is like Between but panics on invalid input.
func MustBetween(one, two int) Selection {
	s, err := Between(one, two)
	if err != nil {
		panic(err)
	}
	return s
}

func (s Selection) Start() int { return s.start }
func (s Selection) End() int   { return s.end }

// Length returns End - Start.
func (s Selection) Length() int {
	return s.end - s.start
}

// IsCaret reports whether s is zero-length.
func (s Selection) IsCaret() bool {
	return s.start == s.end
}

// TouchesIndex reports whether Start <= i <= End.
//
//	s := MustFromBounds(1, 3)
//	s.TouchesIndex(0) // false
//	s.TouchesIndex(1) // true
//	s.TouchesIndex(3) // true
//	s.TouchesIndex(4) // false
func (s Selection) TouchesIndex(i int) bool {
	return i >= s.start && i <= s.end
}

// TouchesSelection reports whether either endpoint of other is touched by s.
func (s Selection) TouchesSelection(other Selection) bool {
	return s.TouchesIndex(other.start) || s.TouchesIndex(other.end)
}

// Intersection returns the overlap of s and other. Selections that only touch (ex: [0,2] and [2,4]) or where either is a caret have no intersection, and ok is false.
func (s Selection) Intersection(other Selection) (Selection, bool) {
	maximumMin := max(s.start, other.start)
	minimumMax := min(s.end, other.end)
	if maximumMin < minimumMax {
		return Selection{start: maximumMin, end: minimumMax}, true
	}
	return Selection{}, false
}

// IntersectionLength returns the length of the intersection, or 0 if there is none.
func (s Selection) IntersectionLength(other Selection) int {
	inter, ok := s.Intersection(other)
	if !ok {
		return 0
	}
	return inter.Length()
}

// Shift returns s moved by delta. It fails if the result would start before 0.
func (s Selection) Shift(delta int) (Selection, error) {
	return FromBounds(s.start+delta, s.end+delta)
}

func (s Selection) String() string {
	return fmt.Sprintf("[%d,%d]", s.start, s.end)
}

type selectionJSON struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

func (s Selection) MarshalJSON() ([]byte, error) {
	return json.Marshal(selectionJSON{Start: s.start, End: s.end})
}

// UnmarshalJSON decodes {"start":n,"end":n}. A missing end defaults to start.
func (s *Selection) UnmarshalJSON(b []byte) error {
	var raw struct {
		Start int  `json:"start"`
		End   *int `json:"end"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	end := raw.Start
	if raw.End != nil {
		end = *raw.End
	}
	decoded, err := FromBounds(raw.Start, end)
	if err != nil {
		return err
	}
	*s = decoded
	return nil
}
