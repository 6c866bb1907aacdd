// Package pandoc implements the [Pandoc] AST as defined in [Pandoc Types],
// the input side of the JATS converter in this module.
//
// [Pandoc]: https://pandoc.org/
// [Pandoc Types]: https://hackage.haskell.org/package/pandoc-types
package pandoc

import (
	"strconv"
	"strings"
)

// Implemented Pandoc protocol version.
const Version = "1.23.1"

var _Version = func() []int {
	c := strings.Split(Version, ".")
	v := make([]int, len(c))
	for i, s := range c {
		n, _ := strconv.ParseInt(s, 10, 64)
		v[i] = int(n)
	}
	return v
}()

// A convenience function to check if an element is of a particular type.
//
// Example:
//
//	if pandoc.Is[pandoc.Str](elt) {
//	    ...
func Is[P any, S Element](elt S) bool {
	_, ok := any(elt).(*P)
	return ok
}

// Pandoc AST element interface
type Element interface {
	element()
}

// Pandoc AST object tag
type Tag string

func (t Tag) Tag() Tag       { return t }
func (t Tag) String() string { return string(t) }

// Pandoc AST object with tag
type Tagged interface {
	Tag() Tag
}

// Pandoc AST inline element
type Inline interface {
	Element
	Tagged
	inline()
}

// Pandoc AST inline's whitespaces (Space, SoftBreak, LineBreak)
type WhiteSpace interface {
	Inline
	space()
}

// Pandoc AST block element
type Block interface {
	Element
	Tagged
	block()
}

// Pandoc document metadata value
type MetaValue interface {
	Element
	Tagged
	meta()
}

// Pandoc document
type Pandoc struct {
	Meta   Meta
	Blocks []Block
}

func (p *Pandoc) element() {}

// Pandoc's MetaMap entry.
type MetaMapEntry struct {
	Key   string
	Value MetaValue
}

// Pandoc's Meta. Entries keep document order.
type Meta []MetaMapEntry

// Returns a value of the given key or nil if the key is not present.
func (m Meta) Get(key string) MetaValue {
	for _, e := range m {
		if e.Key == key {
			return e.Value
		}
	}
	return nil
}

// Sets a value for the given key. If the value is nil, the key is removed.
func (m *Meta) Set(key string, value MetaValue) {
	for i, e := range *m {
		if e.Key == key {
			if value == nil {
				*m = append((*m)[:i], (*m)[i+1:]...)
			} else {
				(*m)[i].Value = value
			}
			return
		}
	}
	if value != nil {
		*m = append(*m, MetaMapEntry{key, value})
	}
}

// Sets a string value for the given key.
func (m *Meta) SetString(key string, value string) {
	m.Set(key, MetaString(value))
}

// Sets a list of inlines for the given key.
func (m *Meta) SetInlines(key string, value ...Inline) {
	m.Set(key, &MetaInlines{value})
}

// Pandoc document metadata map
type MetaMap struct {
	Entries Meta
}

const MetaMapTag = Tag("MetaMap")

func (m *MetaMap) Tag() Tag { return MetaMapTag }
func (m *MetaMap) element() {}
func (m *MetaMap) meta()    {}

// Returns a value of the given key or nil if the key is not present.
func (m *MetaMap) Get(key string) MetaValue {
	return m.Entries.Get(key)
}

// Pandoc document metadata list
type MetaList struct {
	Entries []MetaValue
}

const MetaListTag = Tag("MetaList")

func (m *MetaList) Tag() Tag { return MetaListTag }
func (m *MetaList) element() {}
func (m *MetaList) meta()    {}

// Pandoc document metadata inlines block
type MetaInlines struct {
	Inlines []Inline
}

const MetaInlinesTag = Tag("MetaInlines")

func (m *MetaInlines) Tag() Tag { return MetaInlinesTag }
func (m *MetaInlines) element() {}
func (m *MetaInlines) meta()    {}

// Pandoc document metadata blocks block
type MetaBlocks struct {
	Blocks []Block
}

const MetaBlocksTag = Tag("MetaBlocks")

func (m *MetaBlocks) Tag() Tag { return MetaBlocksTag }
func (m *MetaBlocks) element() {}
func (m *MetaBlocks) meta()    {}

// Pandoc document metadata boolean
type MetaBool bool

const MetaBoolTag = Tag("MetaBool")

func (b MetaBool) Tag() Tag { return MetaBoolTag }
func (b MetaBool) element() {}
func (b MetaBool) meta()    {}

// Pandoc document metadata string
type MetaString string

const MetaStringTag = Tag("MetaString")

func (MetaString) Tag() Tag         { return MetaStringTag }
func (s MetaString) String() string { return string(s) }
func (MetaString) element()         {}
func (MetaString) meta()            {}

// Pandoc elements attribute' key-value pair.
type KV struct {
	Key   string
	Value string
}

// Pandoc elements attribute.
type Attr struct {
	Id      string   // Element ID
	Classes []string // Element classes
	KVs     []KV     // Element attributes' key-value pairs
}

// Returns true if attribute has the given class.
func (a *Attr) HasClass(c string) bool {
	for _, cl := range a.Classes {
		if cl == c {
			return true
		}
	}
	return false
}

// Text (string)
type Str struct {
	Text string
}

const StrTag = Tag("Str")

func (s *Str) Tag() Tag { return StrTag }
func (s *Str) inline()  {}
func (s *Str) element() {}

// Emphasized text (list of inlines)
type Emph struct {
	Inlines []Inline
}

const EmphTag = Tag("Emph")

func (e *Emph) Tag() Tag { return EmphTag }
func (e *Emph) inline()  {}
func (e *Emph) element() {}

// Underlined text (list of inlines)
type Underline struct {
	Inlines []Inline
}

const UnderlineTag = Tag("Underline")

func (u *Underline) Tag() Tag { return UnderlineTag }
func (u *Underline) inline()  {}
func (u *Underline) element() {}

// Strongly emphasized text (list of inlines)
type Strong struct {
	Inlines []Inline
}

const StrongTag = Tag("Strong")

func (s *Strong) Tag() Tag { return StrongTag }
func (s *Strong) inline()  {}
func (s *Strong) element() {}

// Strikeout text (list of inlines)
type Strikeout struct {
	Inlines []Inline
}

const StrikeoutTag = Tag("Strikeout")

func (s *Strikeout) Tag() Tag { return StrikeoutTag }
func (s *Strikeout) inline()  {}
func (s *Strikeout) element() {}

// Superscripted text (list of inlines)
type Superscript struct {
	Inlines []Inline
}

const SuperscriptTag = Tag("Superscript")

func (s *Superscript) Tag() Tag { return SuperscriptTag }
func (s *Superscript) inline()  {}
func (s *Superscript) element() {}

// Subscripted text (list of inlines)
type Subscript struct {
	Inlines []Inline
}

const SubscriptTag = Tag("Subscript")

func (s *Subscript) Tag() Tag { return SubscriptTag }
func (s *Subscript) inline()  {}
func (s *Subscript) element() {}

// Small capitals (list of inlines)
type SmallCaps struct {
	Inlines []Inline
}

const SmallCapsTag = Tag("SmallCaps")

func (s *SmallCaps) Tag() Tag { return SmallCapsTag }
func (s *SmallCaps) inline()  {}
func (s *SmallCaps) element() {}

type QuoteType Tag

const (
	SingleQuote QuoteType = "SingleQuote"
	DoubleQuote QuoteType = "DoubleQuote"
)

// Quoted text (list of inlines)
type Quoted struct {
	QuoteType QuoteType
	Inlines   []Inline
}

const QuotedTag = Tag("Quoted")

func (q *Quoted) Tag() Tag { return QuotedTag }
func (q *Quoted) inline()  {}
func (q *Quoted) element() {}

type CitationMode Tag

const (
	NormalCitation CitationMode = "NormalCitation"
	SuppressAuthor CitationMode = "SuppressAuthor"
	AuthorInText   CitationMode = "AuthorInText"
)

type Citation struct {
	Id      string
	Prefix  []Inline
	Suffix  []Inline
	Mode    CitationMode
	NoteNum int
	Hash    int
}

func (c *Citation) element() {}

// Citation (list of inlines)
type Cite struct {
	Citations []*Citation
	Inlines   []Inline
}

const CiteTag = Tag("Cite")

func (c *Cite) Tag() Tag { return CiteTag }
func (c *Cite) inline()  {}
func (c *Cite) element() {}

// Inline code (literal)
type Code struct {
	Attr
	Text string
}

const CodeTag = Tag("Code")

func (c *Code) Tag() Tag { return CodeTag }
func (c *Code) inline()  {}
func (c *Code) element() {}

var SP = &Space{}

// Inter-word space
type Space struct{}

const SpaceTag = Tag("Space")

func (*Space) Tag() Tag { return SpaceTag }
func (*Space) space()   {}
func (*Space) inline()  {}
func (*Space) element() {}

var SB = &SoftBreak{}

// Soft line break
type SoftBreak struct{}

const SoftBreakTag = Tag("SoftBreak")

func (*SoftBreak) Tag() Tag { return SoftBreakTag }
func (*SoftBreak) space()   {}
func (*SoftBreak) inline()  {}
func (*SoftBreak) element() {}

var LB = &LineBreak{}

// Hard line break
type LineBreak struct{}

const LineBreakTag = Tag("LineBreak")

func (*LineBreak) Tag() Tag { return LineBreakTag }
func (*LineBreak) space()   {}
func (*LineBreak) inline()  {}
func (*LineBreak) element() {}

type MathType Tag

const (
	DisplayMath MathType = "DisplayMath"
	InlineMath  MathType = "InlineMath"
)

// TeX math (literal)
type Math struct {
	MathType MathType
	Text     string
}

const MathTag = Tag("Math")

func (m *Math) Tag() Tag { return MathTag }
func (m *Math) inline()  {}
func (m *Math) element() {}

// Raw inline
type RawInline struct {
	Format string
	Text   string
}

const RawInlineTag = Tag("RawInline")

func (r *RawInline) Tag() Tag { return RawInlineTag }
func (r *RawInline) element() {}
func (r *RawInline) inline()  {}

type Target struct {
	Url   string
	Title string
}

// Hyperlink: alt text (list of inlines), target
type Link struct {
	Attr
	Inlines []Inline
	Target  Target
}

const LinkTag = Tag("Link")

func (l *Link) Tag() Tag { return LinkTag }
func (l *Link) inline()  {}
func (l *Link) element() {}

// Image: alt text (list of inlines), target
type Image struct {
	Attr
	Inlines []Inline
	Target  Target
}

const ImageTag = Tag("Image")

func (i *Image) Tag() Tag { return ImageTag }
func (i *Image) element() {}
func (i *Image) inline()  {}

// Footnote: list of blocks
type Note struct {
	Blocks []Block
}

const NoteTag = Tag("Note")

func (n *Note) Tag() Tag { return NoteTag }
func (n *Note) element() {}
func (n *Note) inline()  {}

// Generic inline container with attributes
type Span struct {
	Attr
	Inlines []Inline
}

const SpanTag = Tag("Span")

func (s *Span) Tag() Tag { return SpanTag }
func (s *Span) inline()  {}
func (s *Span) element() {}

// Plain text, not a paragraph
type Plain struct {
	Inlines []Inline
}

const PlainTag = Tag("Plain")

func (p *Plain) Tag() Tag { return PlainTag }
func (p *Plain) block()   {}
func (p *Plain) element() {}

// Paragraph (list of inlines)
type Para struct {
	Inlines []Inline
}

const ParaTag = Tag("Para")

func (p *Para) Tag() Tag { return ParaTag }
func (p *Para) block()   {}
func (p *Para) element() {}

// Multiple non-breaking lines
type LineBlock struct {
	Inlines [][]Inline
}

const LineBlockTag = Tag("LineBlock")

func (b *LineBlock) Tag() Tag { return LineBlockTag }
func (b *LineBlock) block()   {}
func (b *LineBlock) element() {}

// Code block (literal)
type CodeBlock struct {
	Attr
	Text string
}

const CodeBlockTag = Tag("CodeBlock")

func (b *CodeBlock) Tag() Tag { return CodeBlockTag }
func (b *CodeBlock) block()   {}
func (b *CodeBlock) element() {}

// Raw block
type RawBlock struct {
	Format string
	Text   string
}

const RawBlockTag = Tag("RawBlock")

func (b *RawBlock) Tag() Tag { return RawBlockTag }
func (b *RawBlock) block()   {}
func (b *RawBlock) element() {}

// Block quote (list of blocks)
type BlockQuote struct {
	Blocks []Block
}

const BlockQuoteTag = Tag("BlockQuote")

func (b *BlockQuote) Tag() Tag { return BlockQuoteTag }
func (b *BlockQuote) block()   {}
func (b *BlockQuote) element() {}

type ListNumberStyle Tag

const (
	DefaultStyle ListNumberStyle = "DefaultStyle"
	Example      ListNumberStyle = "Example"
	Decimal      ListNumberStyle = "Decimal"
	LowerRoman   ListNumberStyle = "LowerRoman"
	UpperRoman   ListNumberStyle = "UpperRoman"
	LowerAlpha   ListNumberStyle = "LowerAlpha"
	UpperAlpha   ListNumberStyle = "UpperAlpha"
)

type ListNumberDelim Tag

const (
	DefaultDelim ListNumberDelim = "DefaultDelim"
	Period       ListNumberDelim = "Period"
	OneParen     ListNumberDelim = "OneParen"
	TwoParens    ListNumberDelim = "TwoParens"
)

type ListAttrs struct {
	Start     int
	Style     ListNumberStyle
	Delimiter ListNumberDelim
}

// Ordered list (attributes and a list of items, each a list of blocks)
type OrderedList struct {
	Attr  ListAttrs
	Items [][]Block
}

const OrderedListTag = Tag("OrderedList")

func (l *OrderedList) Tag() Tag { return OrderedListTag }
func (l *OrderedList) block()   {}
func (l *OrderedList) element() {}

// Bullet list (list of items, each a list of blocks)
type BulletList struct {
	Items [][]Block
}

const BulletListTag = Tag("BulletList")

func (l *BulletList) Tag() Tag { return BulletListTag }
func (l *BulletList) block()   {}
func (l *BulletList) element() {}

// A term with its definitions, each a list of blocks.
type Definition struct {
	Term       []Inline
	Definition [][]Block
}

// Definition list (list of items, each a pair of inlines and a list of blocks)
type DefinitionList struct {
	Items []Definition
}

const DefinitionListTag = Tag("DefinitionList")

func (d *DefinitionList) Tag() Tag { return DefinitionListTag }
func (d *DefinitionList) block()   {}
func (d *DefinitionList) element() {}

var HR = &HorizontalRule{}

// Horizontal rule
type HorizontalRule struct{}

const HorizontalRuleTag = Tag("HorizontalRule")

func (*HorizontalRule) Tag() Tag { return HorizontalRuleTag }
func (*HorizontalRule) block()   {}
func (*HorizontalRule) element() {}

// Header - level (integer) and text (inlines)
type Header struct {
	Attr
	Level   int
	Inlines []Inline
}

const HeaderTag = Tag("Header")

func (h *Header) Tag() Tag { return HeaderTag }
func (h *Header) block()   {}
func (h *Header) element() {}

// Title returns the header's plain text, footnotes excluded.
func (h *Header) Title() string {
	return Stringify(h)
}

type Caption struct {
	Short []Inline
	Long  []Block
}

type Alignment Tag

const (
	AlignLeft    Alignment = "AlignLeft"
	AlignRight   Alignment = "AlignRight"
	AlignCenter  Alignment = "AlignCenter"
	AlignDefault Alignment = "AlignDefault"
)

// Column width as a fraction of the text width. Default widths are
// left for the consumer to decide.
type ColWidth struct {
	Width   float64
	Default bool
}

const (
	_ColWidth        = "ColWidth"
	_ColWidthDefault = "ColWidthDefault"
)

func DefaultColWidth() ColWidth { return ColWidth{Default: true} }

type ColSpec struct {
	Align Alignment
	Width ColWidth
}

type TableHeadFoot struct {
	Attr
	Rows []*TableRow
}

func (t *TableHeadFoot) element() {}

type TableRow struct {
	Attr
	Cells []*TableCell
}

func (t *TableRow) element() {}

type TableCell struct {
	Attr
	Align   Alignment
	RowSpan int
	ColSpan int
	Blocks  []Block
}

func (t *TableCell) element() {}

type TableBody struct {
	Attr
	RowHeadColumns int
	Head           []*TableRow
	Body           []*TableRow
}

func (t *TableBody) element() {}

// Table, with attributes, caption, optional short caption, column alignments
// and widths (required), table head, table bodies, and table foot
type Table struct {
	Attr
	Caption Caption
	Aligns  []ColSpec
	Head    TableHeadFoot
	Bodies  []*TableBody
	Foot    TableHeadFoot
}

const TableTag = Tag("Table")

func (t *Table) Tag() Tag { return TableTag }
func (t *Table) block()   {}
func (t *Table) element() {}

// Figure, with attributes, caption, and content (list of blocks)
type Figure struct {
	Attr
	Caption Caption
	Blocks  []Block
}

const FigureTag = Tag("Figure")

func (f *Figure) Tag() Tag { return FigureTag }
func (f *Figure) block()   {}
func (f *Figure) element() {}

// Generic block container with attributes
type Div struct {
	Attr
	Blocks []Block
}

const DivTag = Tag("Div")

func (d *Div) Tag() Tag { return DivTag }
func (d *Div) block()   {}
func (d *Div) element() {}
