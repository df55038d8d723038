// Package delta implements rich-text deltas: ordered sequences of insert, retain and delete operations, each optionally carrying attributes.
//
// The same representation describes a whole document (a delta of inserts only) and a change to a document (a delta that retains, inserts and deletes). Applying a
// change to a document is Compose(document, change).
//
// Lengths are counted in runes. A retain or delete of n covers n runes of the text the delta applies to; text past the last op is implicitly retained.
//
// Wire format (JSON), compatible with Quill-style deltas:
//
//	{"ops":[{"retain":5},{"insert":" World","attributes":{"bold":true}},{"delete":2}]}
//
// Building deltas: the Insert/Retain/Delete/Push appenders merge compatible neighbors as they go. Buffer collects batches produced independently (one per line, for
// example) and concatenates them into one normalized delta.
package delta
