// Package mdimport seeds a document from Markdown.
//
// Block structure becomes line types on terminators: headings are "heading-1" through "heading-6", list items "ul" or "ol", block quotes "quote", and each line
// of a code block "code-block". Inline emphasis becomes "italic", strong emphasis "bold", code spans "code", and links carry their destination in "link".
package mdimport

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/codalotl/richsync/internal/attributes"
	"github.com/codalotl/richsync/internal/delta"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Line types produced by Import.
const (
	LineTypeUnorderedList attributes.LineType = "ul"
	LineTypeOrderedList   attributes.LineType = "ol"
	LineTypeQuote         attributes.LineType = "quote"
	LineTypeCodeBlock     attributes.LineType = "code-block"
)

// Text attribute keys produced by Import.
const (
	AttrBold   = "bold"
	AttrItalic = "italic"
	AttrCode   = "code"
	AttrLink   = "link"
)

// HeadingLineType returns the line type of a heading of the given level (1-6).
func HeadingLineType(level int) attributes.LineType {
	return attributes.LineType(fmt.Sprintf("heading-%d", level))
}

// Import parses src and returns the document delta for it. The delta always ends with a terminator.
func Import(src []byte) (delta.Delta, error) {
	md := goldmark.New()
	root := md.Parser().Parse(text.NewReader(src))
	if root == nil {
		return nil, errors.New("mdimport: parse markdown: nil document")
	}

	b := &builder{src: src, out: delta.Delta{}}
	b.blocks(root, attributes.LineTypeNormal)
	if len(b.out) == 0 {
		b.out.Insert("\n", attributes.Map{})
	}
	return b.out, nil
}

type builder struct {
	src []byte
	out delta.Delta
}

// blocks emits the block children of n. lt is the line type inherited from an enclosing list or quote.
func (b *builder) blocks(n ast.Node, lt attributes.LineType) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch c := c.(type) {
		case *ast.Heading:
			b.inlines(c, attributes.Map{}, HeadingLineType(c.Level))
			b.terminate(HeadingLineType(c.Level))
		case *ast.Paragraph, *ast.TextBlock:
			b.inlines(c, attributes.Map{}, lt)
			b.terminate(lt)
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			b.rawLines(c, LineTypeCodeBlock)
		case *ast.HTMLBlock:
			b.rawLines(c, lt)
		case *ast.List:
			itemType := LineTypeUnorderedList
			if c.IsOrdered() {
				itemType = LineTypeOrderedList
			}
			b.blocks(c, itemType)
		case *ast.ListItem:
			b.blocks(c, lt)
		case *ast.Blockquote:
			b.blocks(c, LineTypeQuote)
		case *ast.ThematicBreak:
			// no text equivalent
		default:
			b.blocks(c, lt)
		}
	}
}

// rawLines emits each source line of a code or HTML block as its own line.
func (b *builder) rawLines(n ast.Node, lt attributes.LineType) {
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		line := strings.TrimRight(string(seg.Value(b.src)), "\r\n")
		b.out.Insert(line, attributes.Map{})
		b.terminate(lt)
	}
}

func (b *builder) terminate(lt attributes.LineType) {
	b.out.Insert("\n", attributes.ForLineType(lt))
}

// inlines emits the inline children of n with attrs. A hard line break ends the current line with lt.
func (b *builder) inlines(n ast.Node, attrs attributes.Map, lt attributes.LineType) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch c := c.(type) {
		case *ast.Text:
			b.out.Insert(string(c.Segment.Value(b.src)), attrs)
			if c.HardLineBreak() {
				b.terminate(lt)
			} else if c.SoftLineBreak() {
				b.out.Insert(" ", attrs)
			}
		case *ast.String:
			b.out.Insert(string(c.Value), attrs)
		case *ast.Emphasis:
			key := AttrItalic
			if c.Level >= 2 {
				key = AttrBold
			}
			b.inlines(c, attrs.With(key, true), lt)
		case *ast.CodeSpan:
			b.out.Insert(string(codeSpanText(c, b.src)), attrs.With(AttrCode, true))
		case *ast.Link:
			b.inlines(c, attrs.With(AttrLink, string(c.Destination)), lt)
		case *ast.AutoLink:
			b.out.Insert(string(c.Label(b.src)), attrs.With(AttrLink, string(c.URL(b.src))))
		case *ast.RawHTML:
			segs := c.Segments
			for i := 0; i < segs.Len(); i++ {
				seg := segs.At(i)
				b.out.Insert(string(seg.Value(b.src)), attrs)
			}
		default:
			b.inlines(c, attrs, lt)
		}
	}
}

func codeSpanText(n *ast.CodeSpan, src []byte) []byte {
	var buf bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch c := c.(type) {
		case *ast.Text:
			buf.Write(c.Segment.Value(src))
		case *ast.String:
			buf.Write(c.Value)
		}
	}
	return buf.Bytes()
}
