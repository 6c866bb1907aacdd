package jats

import (
	"strconv"
	"strings"

	pandoc "github.com/growler/go-pandoc-jats"
)

// Blocks renders a list of blocks, one per line. Blocks that render to
// nothing leave no blank line.
func (w *Writer) Blocks(lst []pandoc.Block) string {
	parts := make([]string, 0, len(lst))
	for _, b := range lst {
		if s := w.Block(b); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "\n")
}

// Block renders a single block element.
func (w *Writer) Block(b pandoc.Block) string {
	switch b := b.(type) {
	case *pandoc.Plain:
		return w.Inlines(b.Inlines)
	case *pandoc.Para:
		if img, ok := implicitFigure(b); ok {
			return captionedImage(img.Target.Url, strings.TrimPrefix(img.Target.Title, "fig:"),
				w.Inlines(img.Inlines), img.Id)
		}
		return tag("p", w.Inlines(b.Inlines))
	case *pandoc.Header:
		return header(w.Inlines(b.Inlines), b.Level, b.Id)
	case *pandoc.CodeBlock:
		var typ string
		if len(b.Classes) > 0 {
			typ = b.Classes[0]
		}
		return tag("preformat", Escape(b.Text), "id", b.Id, "preformat-type", typ)
	case *pandoc.RawBlock:
		return w.raw(b.Format, b.Text)
	case *pandoc.BlockQuote:
		return "<disp-quote>\n" + w.Blocks(b.Blocks) + "\n</disp-quote>"
	case *pandoc.LineBlock:
		var sb strings.Builder
		sb.WriteString("<verse-group>\n")
		for _, line := range b.Inlines {
			sb.WriteString(tag("verse-line", w.Inlines(line)))
			sb.WriteByte('\n')
		}
		sb.WriteString("</verse-group>")
		return sb.String()
	case *pandoc.HorizontalRule:
		return "<hr/>"
	case *pandoc.BulletList:
		return list("bullet", w.items(b.Items))
	case *pandoc.OrderedList:
		return list(listType(b.Attr.Style), w.items(b.Items))
	case *pandoc.DefinitionList:
		items := make([]defItem, len(b.Items))
		for i, d := range b.Items {
			items[i] = defItem{Term: w.Inlines(d.Term), Defs: w.items(d.Definition)}
		}
		return definitionList(items)
	case *pandoc.Table:
		return w.table(b)
	case *pandoc.Figure:
		return w.figure(b)
	case *pandoc.Div:
		if b.HasClass("references") {
			return w.references(b.Blocks)
		}
		return w.Blocks(b.Blocks)
	default:
		return w.unsupported(b)
	}
}

// hasWord reports whether word appears in the space separated list s.
func hasWord(s, word string) bool {
	return strings.Contains(" "+s+" ", " "+word+" ")
}

// header closes the current section and opens a new one. A header whose id
// is "references" renders nothing, the reference list supplies its own
// wrapper. The level does not affect nesting.
func header(s string, _ int, id string) string {
	if hasWord(id, "references") {
		return ""
	}
	return "</sec>\n<sec" + attrs("id", id) + ">\n" + tag("title", s)
}

func (w *Writer) items(items [][]pandoc.Block) []string {
	res := make([]string, len(items))
	for i, item := range items {
		res[i] = w.Blocks(item)
	}
	return res
}

// paragraph wraps s in <p> unless it already starts with one.
func paragraph(s string) string {
	if strings.HasPrefix(s, "<p>") {
		return s
	}
	return tag("p", s)
}

func list(typ string, items []string) string {
	var sb strings.Builder
	sb.WriteString("<list" + attrs("list-type", typ) + ">\n")
	for _, item := range items {
		sb.WriteString(tag("list-item", paragraph(item)))
		sb.WriteByte('\n')
	}
	sb.WriteString("</list>")
	return sb.String()
}

func listType(style pandoc.ListNumberStyle) string {
	switch style {
	case pandoc.LowerAlpha:
		return "alpha-lower"
	case pandoc.UpperAlpha:
		return "alpha-upper"
	case pandoc.LowerRoman:
		return "roman-lower"
	case pandoc.UpperRoman:
		return "roman-upper"
	default:
		return "order"
	}
}

// defItem is a rendered definition list entry: a term and its definitions.
type defItem struct {
	Term string
	Defs []string
}

func definitionList(items []defItem) string {
	var sb strings.Builder
	sb.WriteString("<def-list>\n")
	for _, item := range items {
		sb.WriteString("<def-item>\n")
		sb.WriteString(tag("term", item.Term))
		sb.WriteByte('\n')
		for _, d := range item.Defs {
			sb.WriteString(tag("def", paragraph(d)))
			sb.WriteByte('\n')
		}
		sb.WriteString("</def-item>\n")
	}
	sb.WriteString("</def-list>")
	return sb.String()
}

// references renders a bibliography. Every paragraph, including those in
// nested divs, becomes one numbered reference.
func (w *Writer) references(blocks []pandoc.Block) string {
	var refs []string
	var collect func([]pandoc.Block)
	collect = func(blocks []pandoc.Block) {
		for _, b := range blocks {
			var s string
			switch b := b.(type) {
			case *pandoc.Para:
				s = w.Inlines(b.Inlines)
			case *pandoc.Plain:
				s = w.Inlines(b.Inlines)
			case *pandoc.Div:
				collect(b.Blocks)
				continue
			default:
				w.logger().Debug("non-paragraph in references dropped", "tag", b.Tag().String())
				continue
			}
			refs = append(refs, s)
		}
	}
	collect(blocks)
	return referenceList(refs)
}

func referenceList(refs []string) string {
	var sb strings.Builder
	sb.WriteString("<ref-list>\n")
	for i, r := range refs {
		sb.WriteString(`<ref id="ref-`)
		sb.WriteString(strconv.Itoa(i + 1))
		sb.WriteString("\">\n")
		sb.WriteString(tag("mixed-citation", r))
		sb.WriteString("\n</ref>\n")
	}
	sb.WriteString("</ref-list>")
	return sb.String()
}
