// Package render prints a document for a terminal: one row per line, with the line type in a gutter and the text to its right.
package render

import (
	"strings"

	"github.com/codalotl/richsync/internal/attributes"
	"github.com/codalotl/richsync/internal/document"
	"github.com/codalotl/richsync/internal/q/termformat"
	"github.com/codalotl/richsync/internal/q/uni"
)

const (
	gutterSeparator = " | "
	ellipsis        = "…"
	tabWidth        = 4
)

// styles maps text attribute keys to how Options.Color shows them.
var styles = map[string]func(*termformat.Style){
	"bold":      func(s *termformat.Style) { s.Bold = true },
	"italic":    func(s *termformat.Style) { s.Italic = true },
	"underline": func(s *termformat.Style) { s.Underline = true },
	"link":      func(s *termformat.Style) { s.Underline = true },
	"strike":    func(s *termformat.Style) { s.Strikethrough = true },
	"code":      func(s *termformat.Style) { s.Foreground = termformat.ColorCyan },
}

// Options control rendering.
type Options struct {
	// Width is the maximum row width in columns. Longer rows are cut on a grapheme boundary and end with an ellipsis. Zero means no limit.
	Width int

	// Color enables ANSI styling of text attributes.
	Color bool

	// Uni controls width measurement.
	Uni *uni.Options
}

// Document renders doc. Rows end with "\n".
func Document(doc *document.Document, opts Options) string {
	lines := doc.Lines()

	gutter := 0
	for _, l := range lines {
		gutter = max(gutter, uni.TextWidth(string(l.Type), opts.Uni))
	}

	var b strings.Builder
	for _, l := range lines {
		b.WriteString(uni.PadRight(string(l.Type), gutter, opts.Uni))
		b.WriteString(gutterSeparator)
		textWidth := -1
		if opts.Width > 0 {
			textWidth = max(0, opts.Width-gutter-len(gutterSeparator))
		}
		writeRuns(&b, l.Runs, textWidth, opts)
		b.WriteByte('\n')
	}
	return b.String()
}

// writeRuns writes runs, cut to width columns when width >= 0.
func writeRuns(b *strings.Builder, runs []document.Run, width int, opts Options) {
	budget := width
	if width >= 0 {
		total := 0
		for _, r := range runs {
			total += uni.TextWidth(termformat.Sanitize(r.Text, tabWidth), opts.Uni)
		}
		if total > width {
			// Leave room for the ellipsis.
			budget = max(0, width-uni.TextWidth(ellipsis, opts.Uni))
		} else {
			width = -1
		}
	}

	for _, r := range runs {
		s := termformat.Sanitize(r.Text, tabWidth)
		full := s
		if width >= 0 {
			var used int
			s, used = uni.Truncate(s, budget, opts.Uni)
			budget -= used
		}
		if s != "" {
			writeStyled(b, s, r.Attributes, opts.Color)
		}
		if width >= 0 && s != full {
			break
		}
	}
	if width > 0 {
		b.WriteString(ellipsis)
	}
}

func writeStyled(b *strings.Builder, s string, attrs attributes.Map, color bool) {
	if !color {
		b.WriteString(s)
		return
	}
	var st termformat.Style
	for _, key := range attrs.Keys() {
		if v, _ := attrs.Get(key); v != nil && v != false {
			if set, ok := styles[key]; ok {
				set(&st)
			}
		}
	}
	b.WriteString(st.Apply(s))
}
