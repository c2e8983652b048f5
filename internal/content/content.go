// Package content derives plain-text facts from blog bodies, which may be
// authored as HTML or as plain text.
package content

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

const wordsPerMinute = 200

// PlainText strips markup and collapses whitespace.
func PlainText(body string) string {
	if !strings.ContainsAny(body, "<&") {
		return cleanText(body)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return cleanText(body)
	}
	doc.Find("script, style").Remove()

	// Join text nodes with spaces so adjacent blocks don't run together.
	var parts []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			parts = append(parts, n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range doc.Nodes {
		walk(n)
	}
	return cleanText(strings.Join(parts, " "))
}

func ReadMinutes(body string) int {
	words := len(strings.Fields(PlainText(body)))
	m := (words + wordsPerMinute - 1) / wordsPerMinute
	if m < 1 {
		return 1
	}
	return m
}

func cleanText(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	return strings.Join(strings.Fields(s), " ")
}
