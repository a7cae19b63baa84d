// Package render flattens markdown model output into plain text suitable
// for a terminal.
package render

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

var parser = goldmark.New()

// PlainText parses markdown and returns its text content with block
// boundaries collapsed to newlines. Input that yields no text nodes is
// returned trimmed as-is.
func PlainText(markdown string) string {
	src := []byte(markdown)
	doc := parser.Parser().Parse(text.NewReader(src))

	var b strings.Builder

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Text:
			b.Write(node.Segment.Value(src))
			if node.SoftLineBreak() || node.HardLineBreak() {
				b.WriteByte('\n')
			}
		case *ast.String:
			b.Write(node.Value)
		case *ast.Paragraph, *ast.Heading, *ast.ListItem, *ast.Blockquote:
			breakBlock(&b)
		case *ast.CodeBlock:
			breakBlock(&b)
			writeLines(&b, node.Lines(), src)
		case *ast.FencedCodeBlock:
			breakBlock(&b)
			writeLines(&b, node.Lines(), src)
		}
		return ast.WalkContinue, nil
	})

	out := strings.TrimSpace(b.String())
	if out == "" {
		return strings.TrimSpace(markdown)
	}
	return out
}

// breakBlock inserts a newline between blocks.
func breakBlock(b *strings.Builder) {
	if b.Len() > 0 && !strings.HasSuffix(b.String(), "\n") {
		b.WriteByte('\n')
	}
}

// writeLines copies raw block lines from the source.
func writeLines(b *strings.Builder, lines *text.Segments, src []byte) {
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		b.Write(line.Value(src))
	}
}
