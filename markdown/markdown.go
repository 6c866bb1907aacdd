// Package markdown reads CommonMark with GitHub extensions, footnotes,
// definition lists and YAML front matter into a pandoc document.
package markdown

import (
	"bytes"
	"log/slog"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	pandoc "github.com/growler/go-pandoc-jats"
)

// Parser converts markdown sources. It is safe for concurrent use.
type Parser struct {
	gm     goldmark.Markdown
	Logger *slog.Logger
}

func NewParser(logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{
		gm: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				extension.Footnote,
				extension.DefinitionList,
			),
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(),
				parser.WithAttribute(),
			),
		),
		Logger: logger,
	}
}

// Read parses src with a default Parser.
func Read(src []byte) (*pandoc.Pandoc, error) {
	return NewParser(nil).Read(src)
}

// Read parses a markdown document. Front matter, when present, becomes the
// document metadata.
func (p *Parser) Read(src []byte) (*pandoc.Pandoc, error) {
	front, body := splitFrontMatter(src)
	doc := &pandoc.Pandoc{}
	if front != nil {
		meta, err := p.frontMatter(front)
		if err != nil {
			return nil, err
		}
		doc.Meta = meta
	}
	doc.Blocks = p.parse(body)
	return doc, nil
}

func (p *Parser) parse(src []byte) []pandoc.Block {
	ctx := parser.NewContext(parser.WithIDs(newIDs()))
	root := p.gm.Parser().Parse(text.NewReader(src), parser.WithContext(ctx))
	c := &converter{
		src:       src,
		footnotes: make(map[int]*extast.Footnote),
		log:       p.Logger,
	}
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		if list, ok := n.(*extast.FootnoteList); ok {
			for f := list.FirstChild(); f != nil; f = f.NextSibling() {
				if fn, ok := f.(*extast.Footnote); ok {
					c.footnotes[fn.Index] = fn
				}
			}
		}
	}
	return c.blocks(root)
}

type converter struct {
	src       []byte
	footnotes map[int]*extast.Footnote
	log       *slog.Logger
}

func (c *converter) blocks(parent ast.Node) []pandoc.Block {
	var res []pandoc.Block
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		if b := c.block(n); b != nil {
			res = append(res, b)
		}
	}
	return res
}

func (c *converter) block(n ast.Node) pandoc.Block {
	switch n := n.(type) {
	case *ast.Paragraph:
		return &pandoc.Para{Inlines: c.inlines(n)}
	case *ast.TextBlock:
		return &pandoc.Plain{Inlines: c.inlines(n)}
	case *ast.Heading:
		return &pandoc.Header{Attr: c.attr(n), Level: n.Level, Inlines: c.inlines(n)}
	case *ast.ThematicBreak:
		return pandoc.HR
	case *ast.Blockquote:
		return &pandoc.BlockQuote{Blocks: c.blocks(n)}
	case *ast.FencedCodeBlock:
		var attr pandoc.Attr
		if lang := n.Language(c.src); len(lang) > 0 {
			attr.Classes = []string{string(lang)}
		}
		return &pandoc.CodeBlock{Attr: attr, Text: c.lines(n.Lines())}
	case *ast.CodeBlock:
		return &pandoc.CodeBlock{Text: c.lines(n.Lines())}
	case *ast.HTMLBlock:
		s := c.lines(n.Lines())
		if n.HasClosure() {
			s += "\n" + strings.TrimSuffix(string(n.ClosureLine.Value(c.src)), "\n")
		}
		return &pandoc.RawBlock{Format: "html", Text: s}
	case *ast.List:
		items := make([][]pandoc.Block, 0, n.ChildCount())
		for i := n.FirstChild(); i != nil; i = i.NextSibling() {
			items = append(items, c.blocks(i))
		}
		if !n.IsOrdered() {
			return &pandoc.BulletList{Items: items}
		}
		delim := pandoc.Period
		if n.Marker == ')' {
			delim = pandoc.OneParen
		}
		return &pandoc.OrderedList{
			Attr:  pandoc.ListAttrs{Start: n.Start, Style: pandoc.Decimal, Delimiter: delim},
			Items: items,
		}
	case *extast.Table:
		return c.table(n)
	case *extast.DefinitionList:
		dl := &pandoc.DefinitionList{}
		for i := n.FirstChild(); i != nil; i = i.NextSibling() {
			switch i := i.(type) {
			case *extast.DefinitionTerm:
				dl.Items = append(dl.Items, pandoc.Definition{Term: c.inlines(i)})
			case *extast.DefinitionDescription:
				if len(dl.Items) == 0 {
					dl.Items = append(dl.Items, pandoc.Definition{})
				}
				last := &dl.Items[len(dl.Items)-1]
				last.Definition = append(last.Definition, c.blocks(i))
			}
		}
		return dl
	case *extast.FootnoteList:
		// rendered where referenced
		return nil
	default:
		c.log.Debug("markdown block skipped", "kind", n.Kind().String())
		return nil
	}
}

func (c *converter) table(t *extast.Table) pandoc.Block {
	res := &pandoc.Table{Bodies: []*pandoc.TableBody{{}}}
	for _, a := range t.Alignments {
		res.Aligns = append(res.Aligns, pandoc.ColSpec{Align: alignment(a), Width: pandoc.DefaultColWidth()})
	}
	for r := t.FirstChild(); r != nil; r = r.NextSibling() {
		row := &pandoc.TableRow{}
		for cell := r.FirstChild(); cell != nil; cell = cell.NextSibling() {
			tc := &pandoc.TableCell{Align: pandoc.AlignDefault, RowSpan: 1, ColSpan: 1}
			if inl := c.inlines(cell); len(inl) > 0 {
				tc.Blocks = []pandoc.Block{&pandoc.Plain{Inlines: inl}}
			}
			row.Cells = append(row.Cells, tc)
		}
		if _, ok := r.(*extast.TableHeader); ok {
			res.Head.Rows = append(res.Head.Rows, row)
		} else {
			res.Bodies[0].Body = append(res.Bodies[0].Body, row)
		}
	}
	return res
}

func alignment(a extast.Alignment) pandoc.Alignment {
	switch a {
	case extast.AlignLeft:
		return pandoc.AlignLeft
	case extast.AlignRight:
		return pandoc.AlignRight
	case extast.AlignCenter:
		return pandoc.AlignCenter
	default:
		return pandoc.AlignDefault
	}
}

// attr collects the id, classes and key-value attributes of a node.
func (c *converter) attr(n ast.Node) pandoc.Attr {
	var attr pandoc.Attr
	for _, a := range n.Attributes() {
		val := attrValue(a.Value)
		switch string(a.Name) {
		case "id":
			attr.Id = val
		case "class":
			attr.Classes = append(attr.Classes, strings.Fields(val)...)
		default:
			attr.KVs = append(attr.KVs, pandoc.KV{Key: string(a.Name), Value: val})
		}
	}
	return attr
}

func attrValue(v any) string {
	switch v := v.(type) {
	case []byte:
		return string(v)
	case string:
		return v
	default:
		return ""
	}
}

func (c *converter) lines(lines *text.Segments) string {
	var buf bytes.Buffer
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(c.src))
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

// inlines converts the inline children of parent.
func (c *converter) inlines(parent ast.Node) []pandoc.Inline {
	var res []pandoc.Inline
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		res = c.inline(res, n)
	}
	return normalize(res)
}

func (c *converter) inline(res []pandoc.Inline, n ast.Node) []pandoc.Inline {
	switch n := n.(type) {
	case *ast.Text:
		res = append(res, words(unescape(n.Segment.Value(c.src)))...)
		if n.HardLineBreak() {
			res = append(res, pandoc.LB)
		} else if n.SoftLineBreak() {
			res = append(res, pandoc.SB)
		}
	case *ast.String:
		res = append(res, words(string(n.Value))...)
	case *ast.Emphasis:
		if n.Level >= 2 {
			return append(res, &pandoc.Strong{Inlines: c.inlines(n)})
		}
		return append(res, &pandoc.Emph{Inlines: c.inlines(n)})
	case *ast.CodeSpan:
		var buf bytes.Buffer
		for t := n.FirstChild(); t != nil; t = t.NextSibling() {
			if s, ok := t.(*ast.Text); ok {
				buf.Write(s.Segment.Value(c.src))
			}
		}
		return append(res, &pandoc.Code{Text: buf.String()})
	case *ast.Link:
		return append(res, &pandoc.Link{
			Inlines: c.inlines(n),
			Target:  pandoc.Target{Url: string(n.Destination), Title: string(n.Title)},
		})
	case *ast.Image:
		return append(res, &pandoc.Image{
			Inlines: c.inlines(n),
			Target:  pandoc.Target{Url: string(n.Destination), Title: string(n.Title)},
		})
	case *ast.AutoLink:
		url := string(n.URL(c.src))
		label := string(n.Label(c.src))
		if n.AutoLinkType == ast.AutoLinkEmail && !strings.HasPrefix(url, "mailto:") {
			url = "mailto:" + url
		}
		return append(res, &pandoc.Link{
			Attr:    pandoc.Attr{Classes: []string{"uri"}},
			Inlines: []pandoc.Inline{&pandoc.Str{Text: label}},
			Target:  pandoc.Target{Url: url},
		})
	case *ast.RawHTML:
		var buf bytes.Buffer
		for i := 0; i < n.Segments.Len(); i++ {
			seg := n.Segments.At(i)
			buf.Write(seg.Value(c.src))
		}
		return append(res, &pandoc.RawInline{Format: "html", Text: buf.String()})
	case *extast.Strikethrough:
		return append(res, &pandoc.Strikeout{Inlines: c.inlines(n)})
	case *extast.TaskCheckBox:
		box := "☐"
		if n.IsChecked {
			box = "☒"
		}
		return append(res, &pandoc.Str{Text: box}, pandoc.SP)
	case *extast.FootnoteLink:
		fn, ok := c.footnotes[n.Index]
		if !ok {
			c.log.Debug("footnote without body", "index", n.Index)
			return res
		}
		return append(res, &pandoc.Note{Blocks: c.blocks(fn)})
	case *extast.FootnoteBacklink:
		return res
	default:
		c.log.Debug("markdown inline skipped", "kind", n.Kind().String())
	}
	return res
}

// unescape resolves backslash escapes and character references.
func unescape(b []byte) string {
	b = util.UnescapePunctuations(b)
	b = util.ResolveNumericReferences(b)
	b = util.ResolveEntityNames(b)
	return string(b)
}

// words splits text into Str elements separated by Space.
func words(s string) []pandoc.Inline {
	var res []pandoc.Inline
	start := -1
	for i := 0; i <= len(s); i++ {
		if i < len(s) && s[i] != ' ' && s[i] != '\t' {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			res = append(res, &pandoc.Str{Text: s[start:i]})
			start = -1
		}
		if i < len(s) {
			res = append(res, pandoc.SP)
		}
	}
	return res
}

// normalize merges adjacent strings and drops redundant spaces: repeated,
// leading, trailing and next to line breaks.
func normalize(lst []pandoc.Inline) []pandoc.Inline {
	res := make([]pandoc.Inline, 0, len(lst))
	for _, i := range lst {
		switch i := i.(type) {
		case *pandoc.Space:
			if len(res) == 0 {
				continue
			}
			if _, ok := res[len(res)-1].(pandoc.WhiteSpace); ok {
				continue
			}
		case *pandoc.SoftBreak, *pandoc.LineBreak:
			if len(res) > 0 && pandoc.Is[pandoc.Space](res[len(res)-1]) {
				res = res[:len(res)-1]
			}
		case *pandoc.Str:
			if len(res) > 0 {
				if prev, ok := res[len(res)-1].(*pandoc.Str); ok {
					res[len(res)-1] = &pandoc.Str{Text: prev.Text + i.Text}
					continue
				}
			}
		}
		res = append(res, i)
	}
	for len(res) > 0 {
		if _, ok := res[len(res)-1].(pandoc.WhiteSpace); !ok {
			break
		}
		res = res[:len(res)-1]
	}
	return res
}
