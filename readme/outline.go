package readme

import (
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Heading is one section heading of a README
type Heading struct {
	Level int
	Title string
}

// Outline lists the headings of a Markdown document in order. It is an
// analysis API; the document itself is never rewritten.
func Outline(markdown string) []Heading {
	source := []byte(markdown)
	root := goldmark.New().Parser().Parse(text.NewReader(source))

	headings := make([]Heading, 0)
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		h, ok := n.(*gmast.Heading)
		if !ok {
			return gmast.WalkContinue, nil
		}
		headings = append(headings, Heading{
			Level: h.Level,
			Title: strings.TrimSpace(inlineText(h, source)),
		})
		return gmast.WalkSkipChildren, nil
	})

	return headings
}

// String renders the outline as an indented list
func String(headings []Heading) string {
	var b strings.Builder
	for _, h := range headings {
		b.WriteString(strings.Repeat("  ", max(h.Level-1, 0)))
		b.WriteString("- ")
		b.WriteString(h.Title)
		b.WriteString("\n")
	}
	return b.String()
}

func inlineText(n gmast.Node, source []byte) string {
	var b strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch node := c.(type) {
		case *gmast.Text:
			b.Write(node.Segment.Value(source))
			if node.SoftLineBreak() {
				b.WriteByte(' ')
			}
		case *gmast.String:
			b.Write(node.Value)
		default:
			b.WriteString(inlineText(c, source))
		}
	}
	return b.String()
}
