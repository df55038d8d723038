// Package linediff turns one line of text into another as a delta. It knows nothing about lines, selections or documents: callers hand it the contents of a single
// line (without its terminator) before and after an edit.
package linediff

import (
	"time"
	"unicode/utf8"

	"github.com/codalotl/richsync/internal/attributes"
	"github.com/codalotl/richsync/internal/delta"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// Differ produces a delta turning before into after. Every inserted run must carry attrs; retained text must carry no attributes, so that it keeps its own.
type Differ interface {
	LineDiff(before, after string, attrs attributes.Map) delta.Delta
}

// Func adapts a function to a Differ.
type Func func(before, after string, attrs attributes.Map) delta.Delta

func (f Func) LineDiff(before, after string, attrs attributes.Map) delta.Delta {
	return f(before, after, attrs)
}

// DiffMatchPatch is a Differ backed by a character-level diff-match-patch diff.
type DiffMatchPatch struct {
	// Timeout bounds the diff computation. When exceeded, the diff is still correct but may be less minimal. Zero means no limit.
	Timeout time.Duration
}

// Default is the Differ used when none is injected.
var Default Differ = DiffMatchPatch{}

// LineDiff implements Differ. Equal inputs yield a single retain (or an empty delta when both are empty).
func (d DiffMatchPatch) LineDiff(before, after string, attrs attributes.Map) delta.Delta {
	out := delta.Delta{}
	if before == after {
		out.Retain(utf8.RuneCountInString(before), attributes.Map{})
		return out
	}

	dmp := diffmatchpatch.New()
	dmp.DiffTimeout = d.Timeout
	diffs := dmp.DiffMain(before, after, false)
	diffs = dmp.DiffCleanupMerge(diffs)

	for _, diff := range diffs {
		n := utf8.RuneCountInString(diff.Text)
		switch diff.Type {
		case diffmatchpatch.DiffEqual:
			out.Retain(n, attributes.Map{})
		case diffmatchpatch.DiffInsert:
			out.Insert(diff.Text, attrs)
		case diffmatchpatch.DiffDelete:
			out.Delete(n)
		}
	}
	return out
}
