package utils

import (
	"strings"

	"golang.org/x/net/html"
)

// StripHTML flattens any markup the model emitted into plain text. Input
// without angle brackets is returned untouched.
func StripHTML(input string) string {
	if !strings.ContainsAny(input, "<>") {
		return input
	}
	root, err := html.Parse(strings.NewReader(input))
	if err != nil {
		return input
	}
	var sb strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return sb.String()
}

// Truncate cuts text at max runes, appending an ellipsis when anything was
// dropped. Chat connectors cap outbound message length.
func Truncate(text string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	if max <= 1 {
		return string(runes[:max])
	}
	return string(runes[:max-1]) + "…"
}
