package api

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
)

// inspectErrorBody turns an unexpected non-ZIP response body into a short
// human-readable cause. HTML error pages (auth portals, maintenance
// notices) are reduced to their title or first line of visible text;
// anything else falls back to a truncated snippet.
func inspectErrorBody(contentType string, body []byte) string {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return fmt.Sprintf("empty response body (content-type %s)", contentType)
	}

	if strings.Contains(contentType, "html") || bytes.HasPrefix(trimmed, []byte("<!")) ||
		bytes.HasPrefix(trimmed, []byte("<html")) {
		if msg := htmlErrorText(trimmed); msg != "" {
			return msg
		}
	}

	return fmt.Sprintf("unexpected %s response: %s", contentType, snippet(trimmed, 120))
}

// htmlErrorText extracts the <title>, or failing that the first
// non-trivial text node, from an HTML error page
func htmlErrorText(body []byte) string {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return ""
	}

	var title, firstText string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "title" && n.FirstChild != nil {
			if t := strings.TrimSpace(n.FirstChild.Data); t != "" && title == "" {
				title = t
			}
		}
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); len(t) > 3 && firstText == "" {
				firstText = t
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	if title != "" {
		return "server returned HTML page: " + snippet([]byte(title), 80)
	}
	if firstText != "" {
		return "server returned HTML page: " + snippet([]byte(firstText), 80)
	}
	return ""
}

// snippet truncates text to at most n runes on a valid UTF-8 boundary
func snippet(b []byte, n int) string {
	s := string(b)
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n]) + "..."
}
