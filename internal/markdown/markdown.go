// Package markdown inspects the README shipped with the distribution.
package markdown

import (
	"bytes"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Heading is an ATX or setext heading found in a document.
type Heading struct {
	Level int
	Text  string
}

// ParseBody parses a Markdown body into a Goldmark AST.
func ParseBody(body []byte) gmast.Node {
	return goldmark.New().Parser().Parse(text.NewReader(body))
}

// Headings returns every heading in document order.
func Headings(body []byte) []Heading {
	root := ParseBody(body)
	var out []Heading
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		h, ok := n.(*gmast.Heading)
		if !ok {
			return gmast.WalkContinue, nil
		}
		out = append(out, Heading{Level: h.Level, Text: headingText(h, body)})
		return gmast.WalkSkipChildren, nil
	})
	return out
}

// FirstHeading returns the first heading of body, if any.
func FirstHeading(body []byte) (Heading, bool) {
	hs := Headings(body)
	if len(hs) == 0 {
		return Heading{}, false
	}
	return hs[0], true
}

func headingText(h *gmast.Heading, source []byte) string {
	var buf bytes.Buffer
	lines := h.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(source))
	}
	return string(bytes.TrimSpace(buf.Bytes()))
}
