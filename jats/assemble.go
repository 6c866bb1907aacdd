package jats

import (
	"log/slog"
	"strings"
	"time"

	pandoc "github.com/growler/go-pandoc-jats"
	"github.com/growler/go-pandoc-jats/template"
)

// BackMarker starts the back matter in a rendered body.
const BackMarker = "<ref-list>"

// DateFormat is the format of article_pub_date.
const DateFormat = "2006-01-02"

// Assembler turns a rendered body and document metadata into a complete
// article by filling a template.
type Assembler struct {
	// Template is the template name passed to Lookup.
	Template string
	// Lookup resolves a template name to its text. Nil means a
	// template.Loader with the built-in templates.
	Lookup func(name string) string
	// Now is the clock used for the default publication date. Nil means
	// time.Now.
	Now    func() time.Time
	Logger *slog.Logger
}

func (a *Assembler) logger() *slog.Logger {
	if a.Logger != nil {
		return a.Logger
	}
	return slog.Default()
}

func (a *Assembler) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *Assembler) lookup(name string) string {
	if a.Lookup != nil {
		return a.Lookup(name)
	}
	l := &template.Loader{Logger: a.logger()}
	return l.Lookup(name)
}

// Convert renders doc and assembles the article. Every call uses its own
// footnote registry. Footnotes in metadata are dropped.
func (a *Assembler) Convert(doc *pandoc.Pandoc, variables map[string]any) string {
	mw := NewWriter(a.logger())
	mw.SkipNotes = true
	meta := mw.Meta(doc.Meta)
	w := NewWriter(a.logger())
	body := w.Blocks(doc.Blocks)
	return a.assemble(body, w.Notes.Entries(), meta, variables)
}

// Assemble fills the template with a rendered body, nested metadata and
// variables. Variables override metadata; the derived article and journal
// fields override both.
func (a *Assembler) Assemble(body string, meta, variables map[string]any) string {
	return a.assemble(body, nil, meta, variables)
}

func (a *Assembler) assemble(body string, notes []string, meta, variables map[string]any) string {
	var back string
	if i := strings.Index(body, BackMarker); i >= 0 {
		body, back = strings.TrimSuffix(body[:i], "\n"), body[i:]
	}
	body = "<sec>\n<title></title>\n" + body + "\n</sec>"

	data := map[string]any{
		"body": body,
		"back": back,
	}
	if len(notes) > 0 {
		data["notes"] = notes
	}
	merged := merge(merge(nil, meta), variables)
	for k, v := range merged {
		data[k] = v
	}
	for k, v := range Flatten(merged) {
		data[k] = v
	}
	for k, v := range a.derive(merged) {
		data[k] = v
	}
	return template.Render(a.lookup(a.Template), data)
}

// merge copies src into dst, descending into maps present in both. It
// returns dst, allocated when nil. Maps of src are copied, never shared.
func merge(dst, src map[string]any) map[string]any {
	if dst == nil {
		dst = make(map[string]any, len(src))
	}
	for k, v := range src {
		if sub, ok := v.(map[string]any); ok {
			prev, _ := dst[k].(map[string]any)
			dst[k] = merge(merge(nil, prev), sub)
			continue
		}
		dst[k] = v
	}
	return dst
}

// derive computes the fields the template relies on, with the defaults and
// forced blanks that keep the output valid.
func (a *Assembler) derive(meta map[string]any) map[string]any {
	article := section(meta, "article")
	journal := section(meta, "journal")

	d := make(map[string]any, 8)

	d["article_art_access_id"] = str(article, "art-access-id")
	if !anyPresent(article, "publisher-id", "doi", "pmid", "pmcid", "art-access-id") {
		d["article_art_access_id"] = ""
	}
	d["journal_eissn"] = str(journal, "eissn")
	if !anyPresent(journal, "pissn", "eissn") {
		d["journal_eissn"] = ""
	}
	d["journal_publisher_id"] = str(journal, "publisher-id")
	if !anyPresent(journal, "publisher-id", "nlm-ta", "pmc") {
		d["journal_publisher_id"] = ""
	}

	d["article_type"] = firstOf(str(article, "type"), "research-article")
	d["article_heading"] = firstOf(str(article, "heading"), "Other")
	d["article_elocation_id"] = firstOf(str(article, "elocation-id"), str(article, "doi"), "Other")
	d["article_title"] = firstOf(template.Stringify(meta["title"]), "Other")

	date := str(article, "pub-date")
	if len(date) != len(DateFormat) {
		date = a.now().Format(DateFormat)
		a.logger().Debug("publication date defaulted", "date", date)
	}
	d["article_pub_date"] = date
	return d
}

func section(meta map[string]any, key string) map[string]any {
	m, _ := meta[key].(map[string]any)
	return m
}

func str(m map[string]any, key string) string {
	return template.Stringify(m[key])
}

func anyPresent(m map[string]any, keys ...string) bool {
	for _, k := range keys {
		if template.Truthy(m[k]) {
			return true
		}
	}
	return false
}

func firstOf(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
