package jats

import (
	"strconv"
	"strings"
)

// Notes collects rendered footnotes for one document. Numbers are assigned
// in the order notes are added, starting at 1. A Notes value must not be
// shared by concurrent renders.
type Notes struct {
	entries []string
}

// Add registers a rendered footnote body and returns the forward reference
// to put in the text. A back reference to the text is inserted before the
// last closing tag of the body.
func (n *Notes) Add(body string) string {
	num := strconv.Itoa(len(n.entries) + 1)
	back := ` <xref ref-type="fn" rid="fnref` + num + `">&#8617;</xref>`
	if i := strings.LastIndex(body, "</"); i >= 0 {
		body = body[:i] + back + body[i:]
	} else {
		body += back
	}
	n.entries = append(n.entries, `<fn id="fn`+num+`">`+"\n"+body+"\n</fn>")
	return `<sup><xref id="fnref` + num + `" ref-type="fn" rid="fn` + num + `">` + num + `</xref></sup>`
}

// Len returns the number of registered notes.
func (n *Notes) Len() int { return len(n.entries) }

// Entries returns the rendered <fn> elements in order.
func (n *Notes) Entries() []string { return n.entries }

// Reset forgets all notes so the next one is numbered 1 again.
func (n *Notes) Reset() { n.entries = nil }
