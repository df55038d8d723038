package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/codalotl/richsync/internal/attributes"
	"github.com/codalotl/richsync/internal/document"
	"github.com/codalotl/richsync/internal/mdimport"
	"github.com/codalotl/richsync/internal/surface"
	"gopkg.in/yaml.v3"
)

// transcript is a recorded editing session. Example:
//
//	markdown: "# Notes\n"
//	events:
//	  - text: "Notes!"
//	  - select: [6, 6]
//	  - move: -1
//	  - cursor: {bold: true}
//	  - format: {italic: null}
//	  - linetype: heading-2
type transcript struct {
	Markdown string  `yaml:"markdown"`
	Events   []event `yaml:"events"`
}

// event sets exactly one field. Attribute maps stay as nodes so key order and explicit nulls survive decoding.
type event struct {
	Text     *string   `yaml:"text"`
	Select   []int     `yaml:"select"`
	Move     *int      `yaml:"move"`
	Cursor   yaml.Node `yaml:"cursor"`
	Format   yaml.Node `yaml:"format"`
	LineType *string   `yaml:"linetype"`
}

func parseTranscript(src []byte) (*transcript, error) {
	var tr transcript
	if err := yaml.Unmarshal(src, &tr); err != nil {
		return nil, fmt.Errorf("decode transcript: %w", err)
	}
	for i, ev := range tr.Events {
		if n := ev.kinds(); n != 1 {
			return nil, fmt.Errorf("event %d: expected exactly one of text, select, move, cursor, format, linetype; got %d", i, n)
		}
		if ev.Select != nil && len(ev.Select) != 1 && len(ev.Select) != 2 {
			return nil, fmt.Errorf("event %d: select needs [START, END] or [CARET]", i)
		}
	}
	return &tr, nil
}

func (ev event) kinds() int {
	n := 0
	for _, set := range []bool{ev.Text != nil, ev.Select != nil, ev.Move != nil, !ev.Cursor.IsZero(), !ev.Format.IsZero(), ev.LineType != nil} {
		if set {
			n++
		}
	}
	return n
}

// replay seeds a document from the transcript's Markdown and applies its events through a surface session. Each applied diff is written to trace as a JSON
// line, if trace is non-nil.
func (tr *transcript) replay(opts []document.Option, trace io.Writer) (*document.Document, error) {
	seed := document.New(opts...)
	if tr.Markdown != "" {
		d, err := mdimport.Import([]byte(tr.Markdown))
		if err != nil {
			return nil, err
		}
		if seed, err = document.FromDelta(d, opts...); err != nil {
			return nil, err
		}
	}

	s := surface.NewSession(seed)
	for i, ev := range tr.Events {
		var up *document.AtomicUpdate
		var err error
		switch {
		case ev.Text != nil:
			s.TextChanged(*ev.Text)
		case ev.Select != nil:
			end := ev.Select[len(ev.Select)-1]
			up, err = s.SelectionChanged(ev.Select[0], end)
		case ev.Move != nil:
			err = s.MoveSelection(*ev.Move)
		case !ev.Cursor.IsZero():
			var attrs attributes.Map
			if attrs, err = nodeAttributes(&ev.Cursor); err == nil {
				s.SetCursorAttributes(attrs)
			}
		case !ev.Format.IsZero():
			var attrs attributes.Map
			if attrs, err = nodeAttributes(&ev.Format); err == nil {
				up, err = s.FormatSelection(attrs)
			}
		case ev.LineType != nil:
			up, err = s.SetLineType(attributes.LineType(*ev.LineType))
		}
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", i, err)
		}
		if up != nil && trace != nil {
			if err := writeJSON(trace, up.Diff); err != nil {
				return nil, err
			}
		}
	}
	if s.HasPendingChange() {
		return nil, errors.New("transcript ends with a text event that no select event completes")
	}
	return s.Document(), nil
}

// nodeAttributes converts a YAML mapping of scalars into attributes, in document order. null values are kept (they remove a key when formatting).
func nodeAttributes(n *yaml.Node) (attributes.Map, error) {
	if n.Kind != yaml.MappingNode {
		return attributes.Map{}, fmt.Errorf("line %d: attributes must be a mapping", n.Line)
	}
	var pairs []attributes.Pair
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]
		if v.Kind != yaml.ScalarNode {
			return attributes.Map{}, fmt.Errorf("line %d: attribute %q must be a scalar", v.Line, k.Value)
		}
		var val any
		if err := v.Decode(&val); err != nil {
			return attributes.Map{}, fmt.Errorf("line %d: %w", v.Line, err)
		}
		switch val.(type) {
		case nil, string, bool, int, int64, uint64, float64:
		default:
			// Timestamps and the like.
			val = v.Value
		}
		pairs = append(pairs, attributes.Pair{Key: k.Value, Value: val})
	}
	return attributes.New(pairs...), nil
}
