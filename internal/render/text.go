package render

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"github.com/gravitrone/gerby-reader/internal/content"
)

var (
	spaceRun = regexp.MustCompile(`[ \t\r\f\v]+`)
	blankRun = regexp.MustCompile(`\n{3,}`)
)

// Text flattens a trusted fragment to plain text for terminals. Math source
// such as $x^2$ passes through untouched.
func Text(h content.TrustedHTML) string {
	doc, err := html.Parse(strings.NewReader(string(h)))
	if err != nil {
		return strings.TrimSpace(string(h))
	}
	var sb strings.Builder
	writeText(doc, &sb, 0)

	lines := strings.Split(blankRun.ReplaceAllString(sb.String(), "\n\n"), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(spaceRun.ReplaceAllString(line, " "))
	}
	return strings.TrimSpace(blankRun.ReplaceAllString(strings.Join(lines, "\n"), "\n\n"))
}

func writeText(n *html.Node, sb *strings.Builder, depth int) {
	if depth > 64 {
		return
	}
	switch n.Type {
	case html.TextNode:
		sb.WriteString(strings.ReplaceAll(n.Data, "\n", " "))
		return
	case html.ElementNode:
		switch n.Data {
		case "script", "style", "noscript":
			if isMathScript(n) {
				break
			}
			return
		case "br":
			sb.WriteString("\n")
			return
		case "li":
			sb.WriteString("\n- ")
		case "p", "div", "h1", "h2", "h3", "h4", "h5", "h6", "ul", "ol", "article", "section", "blockquote", "pre", "table", "tr":
			sb.WriteString("\n\n")
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeText(c, sb, depth+1)
	}

	if n.Type == html.ElementNode {
		switch n.Data {
		case "p", "div", "h1", "h2", "h3", "h4", "h5", "h6", "ul", "ol", "article", "section", "blockquote", "pre", "table":
			sb.WriteString("\n\n")
		case "tr":
			sb.WriteString("\n")
		case "td", "th":
			sb.WriteString(" ")
		}
	}
}

// isMathScript reports MathJax's own <script type="math/tex"> carriers, whose
// body is the TeX source.
func isMathScript(n *html.Node) bool {
	if n.Data != "script" {
		return false
	}
	for _, attr := range n.Attr {
		if attr.Key == "type" && strings.HasPrefix(attr.Val, "math/tex") {
			return true
		}
	}
	return false
}
