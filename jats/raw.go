package jats

import (
	"strings"

	"golang.org/x/net/html"
)

// raw handles raw content. JATS and XML pass through untouched, HTML is
// reduced to its escaped text and anything else is dropped.
func (w *Writer) raw(format, text string) string {
	switch strings.ToLower(format) {
	case "jats", "xml":
		return text
	case "html", "html4", "html5":
		return htmlText(text)
	default:
		w.logger().Debug("raw content dropped", "format", format)
		return ""
	}
}

func htmlText(s string) string {
	var sb strings.Builder
	z := html.NewTokenizer(strings.NewReader(s))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return sb.String()
		case html.TextToken:
			sb.WriteString(Escape(string(z.Text())))
		}
	}
}
