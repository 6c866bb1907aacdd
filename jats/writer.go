// Package jats renders pandoc documents as JATS article markup.
//
// Rendering is bottom-up: children are rendered to markup strings before
// their parent wraps them. Sections are flat. Each header closes the section
// opened by the previous one and opens its own; the document assembler adds
// the outermost pair, so the number of opened sections always equals the
// number of rendered headers plus one.
package jats

import (
	"log/slog"
	"strings"

	pandoc "github.com/growler/go-pandoc-jats"
)

// Writer renders AST elements to JATS markup. It carries the per-document
// state: the footnote registry. Use one Writer per document.
type Writer struct {
	Notes  *Notes
	Logger *slog.Logger
	// SkipNotes drops footnotes instead of registering them.
	SkipNotes bool
}

// NewWriter returns a Writer with an empty footnote registry. A nil logger
// means slog.Default().
func NewWriter(logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{Notes: &Notes{}, Logger: logger}
}

func (w *Writer) logger() *slog.Logger {
	if w.Logger != nil {
		return w.Logger
	}
	return slog.Default()
}

func (w *Writer) notes() *Notes {
	if w.Notes == nil {
		w.Notes = &Notes{}
	}
	return w.Notes
}

// unsupported reports an element the writer has no rendering for.
func (w *Writer) unsupported(e pandoc.Element) string {
	tag := "unknown"
	if t, ok := e.(pandoc.Tagged); ok {
		tag = t.Tag().String()
	}
	w.logger().Warn("unsupported element", "tag", tag)
	return ""
}

// Inlines renders a list of inlines.
func (w *Writer) Inlines(lst []pandoc.Inline) string {
	var sb strings.Builder
	for _, i := range lst {
		sb.WriteString(w.Inline(i))
	}
	return sb.String()
}

// Inline renders a single inline element.
func (w *Writer) Inline(i pandoc.Inline) string {
	switch i := i.(type) {
	case *pandoc.Str:
		return Escape(i.Text)
	case *pandoc.Space, *pandoc.SoftBreak:
		return " "
	case *pandoc.LineBreak:
		return "<break/>"
	case *pandoc.Emph:
		return tag("italic", w.Inlines(i.Inlines))
	case *pandoc.Strong:
		return tag("bold", w.Inlines(i.Inlines))
	case *pandoc.Underline:
		return tag("underline", w.Inlines(i.Inlines))
	case *pandoc.Strikeout:
		return tag("strike", w.Inlines(i.Inlines))
	case *pandoc.Superscript:
		return tag("sup", w.Inlines(i.Inlines))
	case *pandoc.Subscript:
		return tag("sub", w.Inlines(i.Inlines))
	case *pandoc.SmallCaps:
		return tag("sc", w.Inlines(i.Inlines))
	case *pandoc.Quoted:
		if i.QuoteType == pandoc.SingleQuote {
			return "&#8216;" + w.Inlines(i.Inlines) + "&#8217;"
		}
		return "&#8220;" + w.Inlines(i.Inlines) + "&#8221;"
	case *pandoc.Cite:
		return w.Inlines(i.Inlines)
	case *pandoc.Code:
		return tag("monospace", Escape(i.Text))
	case *pandoc.Math:
		if i.MathType == pandoc.DisplayMath {
			return tag("disp-formula", tag("tex-math", Escape(i.Text)))
		}
		return tag("inline-formula", tag("tex-math", Escape(i.Text)))
	case *pandoc.RawInline:
		return w.raw(i.Format, i.Text)
	case *pandoc.Link:
		return link(w.Inlines(i.Inlines), i.Target.Url, i.Target.Title)
	case *pandoc.Image:
		return inlineImage(i.Target.Url, i.Target.Title, pandoc.StringifyInlines(i.Inlines))
	case *pandoc.Note:
		if w.SkipNotes {
			w.logger().Debug("footnote dropped")
			return ""
		}
		return w.notes().Add(w.Blocks(i.Blocks))
	case *pandoc.Span:
		return w.Inlines(i.Inlines)
	default:
		return w.unsupported(i)
	}
}

// link renders an internal target as a cross reference and anything else
// as an external link.
func link(s, url, title string) string {
	if id, ok := strings.CutPrefix(url, "#"); ok {
		return tag("xref", s, "ref-type", refType(id), "rid", id)
	}
	return tag("ext-link", s, "ext-link-type", "uri", "xlink:href", url, "xlink:title", title)
}

func refType(id string) string {
	switch {
	case strings.HasPrefix(id, "ref-"):
		return "bibr"
	case strings.HasPrefix(id, "fn"):
		return "fn"
	case strings.HasPrefix(id, "fig"):
		return "fig"
	case strings.HasPrefix(id, "tab"):
		return "table"
	default:
		return "sec"
	}
}

func inlineImage(src, title, alt string) string {
	kv := []string{"mimetype", "image", "xlink:href", src, "xlink:title", title}
	if alt == "" {
		return emptyTag("inline-graphic", kv...)
	}
	return tag("inline-graphic", tag("alt-text", Escape(alt)), kv...)
}
