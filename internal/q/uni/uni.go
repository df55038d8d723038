// Package uni measures and cuts text for monospace terminals, one grapheme cluster at a time.
package uni

import (
	"strings"

	"github.com/clipperhouse/uax29/v2/graphemes"
	"github.com/mattn/go-runewidth"
)

// Options control width calculation.
//
// Currently only relevant for East Asian code points and their locale.
type Options struct {
	EastAsianWidth   bool // if true, treats certain East Asian code points as 2 wide (e.g., Chinese, Japanese, Korean). Use if the locale is one of CJK.
	TreatEmojiAsWide bool // Only considered if EastAsianWidth. If true, treats emoji as wide (2 columns).
}

// TextWidth returns the text width of str for monospace fonts in terminals. If opts is nil, locale is assumed to be non-East Asian.
func TextWidth(str string, opts *Options) int {
	return conditionFromOptions(opts).StringWidth(str)
}

// Iterator iterates over grapheme clusters.
type Iterator struct {
	iter *graphemes.Iterator[string]
	cond *runewidth.Condition
}

// NewGraphemeIterator returns a new grapheme iterator for str. If opts is nil, locale is assumed to be non-East Asian.
func NewGraphemeIterator(str string, opts *Options) *Iterator {
	iter := graphemes.FromString(str)
	return &Iterator{
		iter: &iter,
		cond: conditionFromOptions(opts),
	}
}

func (iter *Iterator) Next() bool {
	return iter.iter.Next()
}

func (iter *Iterator) Value() string {
	return iter.iter.Value()
}

// Start returns the byte position of the current cluster in str.
func (iter *Iterator) Start() int {
	return iter.iter.Start()
}

// End returns the byte position after the current cluster in str.
func (iter *Iterator) End() int {
	return iter.iter.End()
}

// TextWidth returns the width of the current cluster.
func (iter *Iterator) TextWidth() int {
	return iter.cond.StringWidth(iter.iter.Value())
}

// Truncate returns the longest prefix of str, cut on a grapheme boundary, that is at most width wide, and that prefix's width. A cluster is never split.
func Truncate(str string, width int, opts *Options) (string, int) {
	if width <= 0 {
		return "", 0
	}
	iter := NewGraphemeIterator(str, opts)
	used := 0
	end := 0
	for iter.Next() {
		w := iter.TextWidth()
		if used+w > width {
			break
		}
		used += w
		end = iter.End()
	}
	return str[:end], used
}

// PadRight pads str with spaces to width. Wider strings are returned unchanged.
func PadRight(str string, width int, opts *Options) string {
	if w := TextWidth(str, opts); w < width {
		return str + strings.Repeat(" ", width-w)
	}
	return str
}

func conditionFromOptions(opts *Options) *runewidth.Condition {
	cond := runewidth.NewCondition()
	cond.EastAsianWidth = false
	cond.StrictEmojiNeutral = true

	if opts == nil {
		return cond
	}

	cond.EastAsianWidth = opts.EastAsianWidth
	if opts.EastAsianWidth && opts.TreatEmojiAsWide {
		cond.StrictEmojiNeutral = false
	}

	return cond
}
