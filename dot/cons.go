// Package dot provides terse constructors for building pandoc documents in
// code, mostly for tests and small generators.
//
//	import . "github.com/growler/go-pandoc-jats/dot"
//
//	doc := Doc(Header(1, NoAttr, Str("Intro")), Para(Str("Hi")))
package dot

import pandoc "github.com/growler/go-pandoc-jats"

// Doc builds a document without metadata.
func Doc(b ...pandoc.Block) *pandoc.Pandoc {
	return &pandoc.Pandoc{Blocks: b}
}

func Blocks(b ...pandoc.Block) []pandoc.Block {
	return b
}

func Inlines(i ...pandoc.Inline) []pandoc.Inline {
	return i
}

// Text (string)
func Str(s string) pandoc.Inline {
	return &pandoc.Str{Text: s}
}

// Words splits s on spaces into Str elements separated by Space.
func Words(s string) []pandoc.Inline {
	var res []pandoc.Inline
	start := -1
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == ' ' {
			if start >= 0 {
				if len(res) > 0 {
					res = append(res, pandoc.SP)
				}
				res = append(res, &pandoc.Str{Text: s[start:i]})
				start = -1
			}
		} else if start < 0 {
			start = i
		}
	}
	return res
}

// Emphasized text (list of inlines)
func Emph(i ...pandoc.Inline) *pandoc.Emph {
	return &pandoc.Emph{Inlines: i}
}

// Underlined text (list of inlines)
func Underline(i ...pandoc.Inline) *pandoc.Underline {
	return &pandoc.Underline{Inlines: i}
}

// Strongly emphasized text (list of inlines)
func Strong(i ...pandoc.Inline) *pandoc.Strong {
	return &pandoc.Strong{Inlines: i}
}

// Strikeout text (list of inlines)
func Strikeout(i ...pandoc.Inline) *pandoc.Strikeout {
	return &pandoc.Strikeout{Inlines: i}
}

// Superscripted text (list of inlines)
func Superscript(i ...pandoc.Inline) *pandoc.Superscript {
	return &pandoc.Superscript{Inlines: i}
}

// Subscripted text (list of inlines)
func Subscript(i ...pandoc.Inline) *pandoc.Subscript {
	return &pandoc.Subscript{Inlines: i}
}

// Small capitals (list of inlines)
func SmallCaps(i ...pandoc.Inline) *pandoc.SmallCaps {
	return &pandoc.SmallCaps{Inlines: i}
}

const (
	DoubleQuote = pandoc.DoubleQuote
	SingleQuote = pandoc.SingleQuote
)

// Quoted text (list of inlines). The first argument is the quote type.
func Quoted(t pandoc.QuoteType, i ...pandoc.Inline) *pandoc.Quoted {
	return &pandoc.Quoted{QuoteType: t, Inlines: i}
}

// Citation (list of inlines as the rendered citation).
func Cite(ids []string, i ...pandoc.Inline) *pandoc.Cite {
	c := &pandoc.Cite{Inlines: i}
	for _, id := range ids {
		c.Citations = append(c.Citations, &pandoc.Citation{Id: id, Mode: pandoc.NormalCitation})
	}
	return c
}

// Inline code (literal). The first argument is the span attributes.
func Code(attr pandoc.Attr, text string) *pandoc.Code {
	return &pandoc.Code{Attr: attr, Text: text}
}

// Inter-word space
func Space() pandoc.Inline { return pandoc.SP }

// Soft line break
func SoftBreak() pandoc.Inline { return pandoc.SB }

// Hard line break
func LineBreak() pandoc.Inline { return pandoc.LB }

const (
	DisplayMath = pandoc.DisplayMath
	InlineMath  = pandoc.InlineMath
)

// TeX math (literal). The first argument is the math type.
func Math(t pandoc.MathType, text string) *pandoc.Math {
	return &pandoc.Math{MathType: t, Text: text}
}

// Raw inline (literal). The first argument is the format
// the literal must be export in.
func RawInline(format string, text string) *pandoc.RawInline {
	return &pandoc.RawInline{Format: format, Text: text}
}

// Link (list of inlines as link text).
func Link(attr pandoc.Attr, url string, title string, i ...pandoc.Inline) *pandoc.Link {
	return &pandoc.Link{Attr: attr, Target: pandoc.Target{Url: url, Title: title}, Inlines: i}
}

// Image (list of inlines as alternate text).
func Image(attr pandoc.Attr, url string, title string, i ...pandoc.Inline) *pandoc.Image {
	return &pandoc.Image{Attr: attr, Target: pandoc.Target{Url: url, Title: title}, Inlines: i}
}

// Footnote or endnote (list of blocks)
func Note(i ...pandoc.Block) pandoc.Inline {
	return &pandoc.Note{Blocks: i}
}

// Generic inline container with attributes.
func Span(attr pandoc.Attr, i ...pandoc.Inline) *pandoc.Span {
	return &pandoc.Span{Attr: attr, Inlines: i}
}

// Horizontal rule.
func HorizontalRule() pandoc.Block {
	return pandoc.HR
}

var NoAttr = pandoc.Attr{}

func KVs(kvs ...string) []pandoc.KV {
	var res = make([]pandoc.KV, 0, len(kvs)/2)
	for i := 0; i < len(kvs)-1; i += 2 {
		res = append(res, pandoc.KV{Key: kvs[i], Value: kvs[i+1]})
	}
	return res
}

func Attr(id string, classes ...string) pandoc.Attr {
	return pandoc.Attr{Id: id, Classes: classes}
}

func AttrKVs(id string, kvs []pandoc.KV, classes ...string) pandoc.Attr {
	return pandoc.Attr{Id: id, Classes: classes, KVs: kvs}
}

func Plain(i ...pandoc.Inline) *pandoc.Plain {
	return &pandoc.Plain{Inlines: i}
}

func Para(i ...pandoc.Inline) *pandoc.Para {
	return &pandoc.Para{Inlines: i}
}

func LineBlock(lines ...[]pandoc.Inline) *pandoc.LineBlock {
	return &pandoc.LineBlock{Inlines: lines}
}

func BlockQuote(b ...pandoc.Block) *pandoc.BlockQuote {
	return &pandoc.BlockQuote{Blocks: b}
}

func BulletList(i ...[]pandoc.Block) *pandoc.BulletList {
	return &pandoc.BulletList{Items: i}
}

func OrderedList(style pandoc.ListNumberStyle, i ...[]pandoc.Block) *pandoc.OrderedList {
	return &pandoc.OrderedList{
		Attr:  pandoc.ListAttrs{Start: 1, Style: style, Delimiter: pandoc.DefaultDelim},
		Items: i,
	}
}

// Definition pairs a term with its definitions.
func Definition(term []pandoc.Inline, defs ...[]pandoc.Block) pandoc.Definition {
	return pandoc.Definition{Term: term, Definition: defs}
}

func DefinitionList(items ...pandoc.Definition) *pandoc.DefinitionList {
	return &pandoc.DefinitionList{Items: items}
}

func CodeBlock(attr pandoc.Attr, text string) *pandoc.CodeBlock {
	return &pandoc.CodeBlock{Attr: attr, Text: text}
}

func Div(attr pandoc.Attr, i ...pandoc.Block) *pandoc.Div {
	return &pandoc.Div{Attr: attr, Blocks: i}
}

func Header(level int, attr pandoc.Attr, i ...pandoc.Inline) *pandoc.Header {
	return &pandoc.Header{Level: level, Attr: attr, Inlines: i}
}

func RawBlock(format string, text string) *pandoc.RawBlock {
	return &pandoc.RawBlock{Format: format, Text: text}
}

// Figure with a caption made of the given inlines.
func Figure(attr pandoc.Attr, caption []pandoc.Inline, b ...pandoc.Block) *pandoc.Figure {
	return &pandoc.Figure{
		Attr:    attr,
		Caption: pandoc.Caption{Long: []pandoc.Block{&pandoc.Plain{Inlines: caption}}},
		Blocks:  b,
	}
}

// Cell is a table cell holding the given blocks.
func Cell(b ...pandoc.Block) *pandoc.TableCell {
	return &pandoc.TableCell{Align: pandoc.AlignDefault, RowSpan: 1, ColSpan: 1, Blocks: b}
}

// Row is a table row.
func Row(c ...*pandoc.TableCell) *pandoc.TableRow {
	return &pandoc.TableRow{Cells: c}
}

// Col is a column specification; a zero width means the default width.
func Col(align pandoc.Alignment, width float64) pandoc.ColSpec {
	if width == 0 {
		return pandoc.ColSpec{Align: align, Width: pandoc.DefaultColWidth()}
	}
	return pandoc.ColSpec{Align: align, Width: pandoc.ColWidth{Width: width}}
}

// Table with a plain caption, an optional head row (nil for none) and a
// single body.
func Table(caption []pandoc.Inline, cols []pandoc.ColSpec, head *pandoc.TableRow, rows ...*pandoc.TableRow) *pandoc.Table {
	t := &pandoc.Table{
		Aligns: cols,
		Bodies: []*pandoc.TableBody{{Body: rows}},
	}
	if len(caption) > 0 {
		t.Caption.Long = []pandoc.Block{&pandoc.Plain{Inlines: caption}}
	}
	if head != nil {
		t.Head.Rows = []*pandoc.TableRow{head}
	}
	return t
}

// Query is pandoc.Query re-exported for dot-imports.
func Query[P any](elt pandoc.Element, fun func(P) pandoc.WalkResult) {
	pandoc.Query[P](elt, fun)
}
