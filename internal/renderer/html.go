package renderer

import (
	"strings"

	"golang.org/x/net/html"
)

// VisibleText extracts the human-visible text of an HTML fragment, skipping
// script and style content. Used by the render command's --text mode and to
// assert on boundary output without caring about markup.
func VisibleText(fragment string) (string, error) {
	doc, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return "", err
	}

	var parts []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				parts = append(parts, text)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return strings.Join(parts, " "), nil
}

// ContainsElement reports whether the fragment contains an element with the
// given tag and, when id is non-empty, that id attribute.
func ContainsElement(fragment, tag, id string) bool {
	doc, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return false
	}

	var found bool
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if found {
			return
		}
		if n.Type == html.ElementNode && n.Data == tag {
			if id == "" {
				found = true
				return
			}
			for _, attr := range n.Attr {
				if attr.Key == "id" && attr.Val == id {
					found = true
					return
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return found
}
