package pandoc

import (
	"fmt"
	"io"
	"os"
)

// A reader consumes one JSON value from the scanner.
type reader[T any] func(*scanner) (T, error)

// Tagged object readers, keyed by the value of "t". A reader is positioned
// right after the tag and consumes the rest of the object.
var (
	inlineReaders map[Tag]reader[Inline]
	blockReaders  map[Tag]reader[Block]
	metaReaders   map[Tag]reader[MetaValue]
)

// filled in init to break the readInline -> inlineReaders -> readInline
// initialization cycle
func init() {
	inlineReaders = map[Tag]reader[Inline]{
		SpaceTag:       empty[Inline](SP),
		SoftBreakTag:   empty[Inline](SB),
		LineBreakTag:   empty[Inline](LB),
		StrTag:         wrap(readString, func(v string) Inline { return &Str{v} }),
		EmphTag:        wrap(readInlines, func(v []Inline) Inline { return &Emph{v} }),
		UnderlineTag:   wrap(readInlines, func(v []Inline) Inline { return &Underline{v} }),
		StrongTag:      wrap(readInlines, func(v []Inline) Inline { return &Strong{v} }),
		StrikeoutTag:   wrap(readInlines, func(v []Inline) Inline { return &Strikeout{v} }),
		SuperscriptTag: wrap(readInlines, func(v []Inline) Inline { return &Superscript{v} }),
		SubscriptTag:   wrap(readInlines, func(v []Inline) Inline { return &Subscript{v} }),
		SmallCapsTag:   wrap(readInlines, func(v []Inline) Inline { return &SmallCaps{v} }),
		NoteTag:        wrap(readBlocks, func(v []Block) Inline { return &Note{v} }),
		QuotedTag:      content(readQuoted),
		CodeTag:        content(readCode),
		SpanTag:        content(readSpan),
		RawInlineTag:   content(readRawInline),
		MathTag:        content(readMath),
		CiteTag:        content(readCite),
		LinkTag:        content(readLink),
		ImageTag:       content(readImage),
	}
	blockReaders = map[Tag]reader[Block]{
		HorizontalRuleTag: empty[Block](HR),
		PlainTag:          wrap(readInlines, func(v []Inline) Block { return &Plain{v} }),
		ParaTag:           wrap(readInlines, func(v []Inline) Block { return &Para{v} }),
		LineBlockTag:      wrap(listr(readInlines), func(v [][]Inline) Block { return &LineBlock{v} }),
		BlockQuoteTag:     wrap(readBlocks, func(v []Block) Block { return &BlockQuote{v} }),
		BulletListTag:     wrap(listr(readBlocks), func(v [][]Block) Block { return &BulletList{v} }),
		DefinitionListTag: wrap(listr(readDefinition), func(v []Definition) Block { return &DefinitionList{v} }),
		HeaderTag:         content(readHeader),
		CodeBlockTag:      content(readCodeBlock),
		RawBlockTag:       content(readRawBlock),
		DivTag:            content(readDiv),
		OrderedListTag:    content(readOrderedList),
		FigureTag:         content(readFigure),
		TableTag:          content(readTable),
	}
	metaReaders = map[Tag]reader[MetaValue]{
		MetaMapTag:     wrap(readMeta, func(v Meta) MetaValue { return &MetaMap{v} }),
		MetaListTag:    wrap(listr(readMetaValue), func(v []MetaValue) MetaValue { return &MetaList{v} }),
		MetaBoolTag:    wrap(readBool, func(v bool) MetaValue { return MetaBool(v) }),
		MetaStringTag:  wrap(readString, func(v string) MetaValue { return MetaString(v) }),
		MetaInlinesTag: wrap(readInlines, func(v []Inline) MetaValue { return &MetaInlines{v} }),
		MetaBlocksTag:  wrap(readBlocks, func(v []Block) MetaValue { return &MetaBlocks{v} }),
	}
}

func readInline(s *scanner) (Inline, error) { return readTagged(s, "inline", inlineReaders) }

func readBlock(s *scanner) (Block, error) { return readTagged(s, "block", blockReaders) }

func readMetaValue(s *scanner) (MetaValue, error) { return readTagged(s, "meta value", metaReaders) }

func readInlines(s *scanner) ([]Inline, error) { return listr(readInline)(s) }

func readBlocks(s *scanner) ([]Block, error) { return listr(readBlock)(s) }

// ----------- inlines -------------

var (
	readQuoteType    = readTags(SingleQuote, DoubleQuote)
	readMathType     = readTags(DisplayMath, InlineMath)
	readCitationMode = readTags(AuthorInText, SuppressAuthor, NormalCitation)
)

func readQuoted(s *scanner) (Inline, error) {
	q := &Quoted{}
	return q, tuple(s, into(&q.QuoteType, readQuoteType), into(&q.Inlines, readInlines))
}

func readRawInline(s *scanner) (Inline, error) {
	r := &RawInline{}
	return r, tuple(s, into(&r.Format, readString), into(&r.Text, readString))
}

func readMath(s *scanner) (Inline, error) {
	m := &Math{}
	return m, tuple(s, into(&m.MathType, readMathType), into(&m.Text, readString))
}

func readCode(s *scanner) (Inline, error) {
	c := &Code{}
	return c, tuple(s, into(&c.Attr, readAttr), into(&c.Text, readString))
}

func readSpan(s *scanner) (Inline, error) {
	sp := &Span{}
	return sp, tuple(s, into(&sp.Attr, readAttr), into(&sp.Inlines, readInlines))
}

func readCitation(s *scanner) (c *Citation, err error) {
	c = &Citation{}
	err = readFields(s, "citation", map[string]func(*scanner) error{
		"citationId":      into(&c.Id, readString),
		"citationPrefix":  into(&c.Prefix, readInlines),
		"citationSuffix":  into(&c.Suffix, readInlines),
		"citationMode":    into(&c.Mode, readCitationMode),
		"citationNoteNum": into(&c.NoteNum, readInt),
		"citationHash":    into(&c.Hash, readInt),
	})
	return
}

func readCite(s *scanner) (Inline, error) {
	c := &Cite{}
	return c, tuple(s, into(&c.Citations, listr(readCitation)), into(&c.Inlines, readInlines))
}

func readLink(s *scanner) (Inline, error) {
	l := &Link{}
	return l, tuple(s, into(&l.Attr, readAttr), into(&l.Inlines, readInlines), into(&l.Target, readTarget))
}

func readImage(s *scanner) (Inline, error) {
	i := &Image{}
	return i, tuple(s, into(&i.Attr, readAttr), into(&i.Inlines, readInlines), into(&i.Target, readTarget))
}

// ----------- blocks -------------

func readHeader(s *scanner) (Block, error) {
	h := &Header{}
	return h, tuple(s, into(&h.Level, readInt), into(&h.Attr, readAttr), into(&h.Inlines, readInlines))
}

func readCodeBlock(s *scanner) (Block, error) {
	c := &CodeBlock{}
	return c, tuple(s, into(&c.Attr, readAttr), into(&c.Text, readString))
}

func readRawBlock(s *scanner) (Block, error) {
	r := &RawBlock{}
	return r, tuple(s, into(&r.Format, readString), into(&r.Text, readString))
}

func readDiv(s *scanner) (Block, error) {
	d := &Div{}
	return d, tuple(s, into(&d.Attr, readAttr), into(&d.Blocks, readBlocks))
}

var (
	readListNumberStyle = readTags(DefaultStyle, Example, Decimal, LowerRoman, UpperRoman, LowerAlpha, UpperAlpha)
	readListNumberDelim = readTags(DefaultDelim, Period, OneParen, TwoParens)
)

func readOrderedList(s *scanner) (Block, error) {
	l := &OrderedList{}
	return l, tuple(s,
		func(s *scanner) error {
			return tuple(s,
				into(&l.Attr.Start, readInt),
				into(&l.Attr.Style, readListNumberStyle),
				into(&l.Attr.Delimiter, readListNumberDelim))
		},
		into(&l.Items, listr(readBlocks)))
}

func readDefinition(s *scanner) (d Definition, err error) {
	err = tuple(s, into(&d.Term, readInlines), into(&d.Definition, listr(readBlocks)))
	return
}

func readFigure(s *scanner) (Block, error) {
	f := &Figure{}
	return f, tuple(s, into(&f.Attr, readAttr), into(&f.Caption, readCaption), into(&f.Blocks, readBlocks))
}

func readCaption(s *scanner) (c Caption, err error) {
	err = tuple(s,
		func(s *scanner) (err error) {
			if s.peek() == tokNull {
				_, err = readNull(s)
				return
			}
			c.Short, err = readInlines(s)
			return
		},
		into(&c.Long, readBlocks))
	return
}

// ----------- tables -------------

var readAlignment = readTags(AlignLeft, AlignRight, AlignCenter, AlignDefault)

func readTable(s *scanner) (Block, error) {
	t := &Table{}
	return t, tuple(s,
		into(&t.Attr, readAttr),
		into(&t.Caption, readCaption),
		into(&t.Aligns, listr(readColSpec)),
		into(&t.Head, readTableHeadFoot),
		into(&t.Bodies, listr(readTableBody)),
		into(&t.Foot, readTableHeadFoot))
}

func readColSpec(s *scanner) (c ColSpec, err error) {
	err = tuple(s, into(&c.Align, readAlignment), into(&c.Width, readColWidth))
	return
}

var colWidthReaders = map[Tag]reader[ColWidth]{
	_ColWidthDefault: empty(DefaultColWidth()),
	_ColWidth:        wrap(readFloat, func(v float64) ColWidth { return ColWidth{Width: v} }),
}

func readColWidth(s *scanner) (ColWidth, error) {
	return readTagged(s, "col width", colWidthReaders)
}

func readTableHeadFoot(s *scanner) (h TableHeadFoot, err error) {
	err = tuple(s, into(&h.Attr, readAttr), into(&h.Rows, listr(readTableRow)))
	return
}

func readTableBody(s *scanner) (b *TableBody, err error) {
	b = &TableBody{}
	err = tuple(s,
		into(&b.Attr, readAttr),
		into(&b.RowHeadColumns, readInt),
		into(&b.Head, listr(readTableRow)),
		into(&b.Body, listr(readTableRow)))
	return
}

func readTableRow(s *scanner) (r *TableRow, err error) {
	r = &TableRow{}
	err = tuple(s, into(&r.Attr, readAttr), into(&r.Cells, listr(readTableCell)))
	return
}

func readTableCell(s *scanner) (c *TableCell, err error) {
	c = &TableCell{}
	err = tuple(s,
		into(&c.Attr, readAttr),
		into(&c.Align, readAlignment),
		into(&c.RowSpan, readInt),
		into(&c.ColSpan, readInt),
		into(&c.Blocks, readBlocks))
	return
}

// ----------- attributes -------------

func readAttr(s *scanner) (a Attr, err error) {
	err = tuple(s, into(&a.Id, readString), into(&a.Classes, listr(readString)), into(&a.KVs, listr(readAttrKV)))
	return
}

func readAttrKV(s *scanner) (kv KV, err error) {
	err = tuple(s, into(&kv.Key, readString), into(&kv.Value, readString))
	return
}

func readTarget(s *scanner) (t Target, err error) {
	err = tuple(s, into(&t.Url, readString), into(&t.Title, readString))
	return
}

// ----------- meta -------------

// readMeta reads a metadata object keeping the order of its keys.
func readMeta(s *scanner) (Meta, error) {
	if err := s.expect(tokLBrace); err != nil {
		return nil, err
	}
	var m Meta
	if s.peek() == tokRBrace {
		s.next()
		return m, nil
	}
	for {
		if err := s.expect(tokStr); err != nil {
			return nil, err
		}
		key := s.string()
		if err := s.expect(tokColon); err != nil {
			return nil, err
		}
		val, err := readMetaValue(s)
		if err != nil {
			return nil, err
		}
		m = append(m, MetaMapEntry{key, val})
		if done, err := endOf(s, tokRBrace); err != nil || done {
			return m, err
		}
	}
}

// ----------- combinators -------------

// readTagged reads `{"t":TAG` and hands the rest of the object to the
// reader registered for TAG.
func readTagged[T any](s *scanner, kind string, readers map[Tag]reader[T]) (ret T, err error) {
	if err = s.expect(tokLBrace); err != nil {
		return
	}
	if err = s.expectString("t"); err != nil {
		return
	}
	if err = s.expect(tokColon); err != nil {
		return
	}
	if err = s.expect(tokStr); err != nil {
		return
	}
	if !s.stringInBuffer() {
		return ret, s.errorf("expected %s tag, got %s", kind, s.string())
	}
	r, ok := readers[Tag(s.buf[s.str:s.pos-1])]
	if !ok {
		return ret, s.errorf("unknown %s type %q", kind, s.string())
	}
	return r(s)
}

// readTags reads one of the enumeration tags, encoded as `{"t":TAG}`.
func readTags[T ~string](tags ...T) reader[T] {
	m := make(map[Tag]reader[T], len(tags))
	for _, t := range tags {
		m[Tag(t)] = empty(t)
	}
	kind := fmt.Sprintf("one of %v", tags)
	return func(s *scanner) (T, error) {
		return readTagged(s, kind, m)
	}
}

// empty finishes a tagged object without content.
func empty[T any](v T) reader[T] {
	return func(s *scanner) (ret T, err error) {
		if err = s.expect(tokRBrace); err != nil {
			return
		}
		return v, nil
	}
}

// content reads `,"c":VALUE}` of a tagged object.
func content[T any](r reader[T]) reader[T] {
	return func(s *scanner) (ret T, err error) {
		if err = s.expect(tokComma); err != nil {
			return
		}
		if err = s.expectString("c"); err != nil {
			return
		}
		if err = s.expect(tokColon); err != nil {
			return
		}
		if ret, err = r(s); err != nil {
			return
		}
		err = s.expect(tokRBrace)
		return
	}
}

// wrap is content with a conversion of the value read.
func wrap[T, V any](r reader[V], mk func(V) T) reader[T] {
	return content(func(s *scanner) (ret T, err error) {
		v, err := r(s)
		if err != nil {
			return
		}
		return mk(v), nil
	})
}

// tuple reads a JSON array with exactly one element per item.
func tuple(s *scanner, items ...func(*scanner) error) error {
	if err := s.expect(tokLBrack); err != nil {
		return err
	}
	for i, item := range items {
		if i > 0 {
			if err := s.expect(tokComma); err != nil {
				return err
			}
		}
		if err := item(s); err != nil {
			return err
		}
	}
	return s.expect(tokRBrack)
}

// into binds a reader to the place its value goes.
func into[T any](dst *T, r reader[T]) func(*scanner) error {
	return func(s *scanner) (err error) {
		*dst, err = r(s)
		return
	}
}

// readFields reads an object with known keys, in any order.
func readFields(s *scanner, kind string, fields map[string]func(*scanner) error) error {
	if err := s.expect(tokLBrace); err != nil {
		return err
	}
	if s.peek() == tokRBrace {
		s.next()
		return nil
	}
	for {
		if err := s.expect(tokStr); err != nil {
			return err
		}
		field, ok := fields[s.string()]
		if !ok {
			return s.errorf("unknown %s field %q", kind, s.string())
		}
		if err := s.expect(tokColon); err != nil {
			return err
		}
		if err := field(s); err != nil {
			return err
		}
		if done, err := endOf(s, tokRBrace); err != nil || done {
			return err
		}
	}
}

// endOf consumes the separator after a list or object item and reports
// whether it was the closing token.
func endOf(s *scanner, closing token) (bool, error) {
	off := s.current()
	switch tok := s.next(); tok {
	case closing:
		return true, nil
	case tokComma:
		return false, nil
	default:
		return false, s.errorf("expected comma or %s, got %s at %d", closing, tok, off)
	}
}

// listr makes a reader of a JSON array of values read by r.
func listr[T any](r reader[T]) reader[[]T] {
	return func(s *scanner) ([]T, error) {
		ret := make([]T, 0, 1)
		if err := s.expect(tokLBrack); err != nil {
			return nil, err
		}
		if s.peek() == tokRBrack {
			s.next()
			return ret, nil
		}
		for {
			item, err := r(s)
			if err != nil {
				return nil, err
			}
			ret = append(ret, item)
			if done, err := endOf(s, tokRBrack); err != nil {
				return nil, err
			} else if done {
				return ret, nil
			}
		}
	}
}

// ----------- scalars -------------

func readInt(s *scanner) (int, error) {
	if err := s.expect(tokNumber); err != nil {
		return 0, err
	}
	return int(s.int()), nil
}

func readFloat(s *scanner) (float64, error) {
	if err := s.expect(tokNumber); err != nil {
		return 0, err
	}
	return s.float(), nil
}

func readNull(s *scanner) (any, error) {
	return nil, s.expect(tokNull)
}

func readBool(s *scanner) (bool, error) {
	off := s.current()
	switch tok := s.next(); tok {
	case tokTrue:
		return true, nil
	case tokFalse:
		return false, nil
	default:
		return false, s.errorf("expected boolean, got %s at %d", tok, off)
	}
}

func readString(s *scanner) (string, error) {
	if err := s.expect(tokStr); err != nil {
		return "", err
	}
	return s.string(), nil
}

// cmpSemver compares two dotted versions component by component; a
// missing component sorts before any present one.
func cmpSemver(mine, their []int) int {
	for i := range mine {
		switch {
		case i >= len(their) || mine[i] > their[i]:
			return 1
		case mine[i] < their[i]:
			return -1
		}
	}
	if len(mine) < len(their) {
		return -1
	}
	return 0
}

// ReadFrom parses a Pandoc AST JSON from the reader. Malformed input is
// reported as a *SyntaxError. Documents older than Version are rejected.
func ReadFrom(r io.Reader) (*Pandoc, error) {
	var (
		s       = scanner{}
		doc     = &Pandoc{}
		version []int
	)
	s.init(r)
	err := readFields(&s, "pandoc", map[string]func(*scanner) error{
		"pandoc-api-version": into(&version, listr(readInt)),
		"meta":               into(&doc.Meta, readMeta),
		"blocks":             into(&doc.Blocks, readBlocks),
	})
	if err != nil {
		return nil, err
	}
	if version == nil {
		return nil, s.errorf("missing pandoc-api-version")
	}
	if cmpSemver(version, _Version) < 0 {
		return nil, s.errorf("unsupported pandoc version %v", version)
	}
	return doc, nil
}

// ReadFile parses a Pandoc AST JSON file.
func ReadFile(path string) (*Pandoc, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	doc, err := ReadFrom(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}
