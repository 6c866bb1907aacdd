package pandoc

import "strings"

// WalkResult controls a walk operation.
type WalkResult int

const (
	// WalkContinue indicates that the walk operation should continue.
	WalkContinue WalkResult = iota
	// WalkSkip indicates that children of the current element should not
	// be processed.
	WalkSkip
	// WalkStop indicates that the walk operation should stop immediately.
	WalkStop
)

// Query applies the specified function 'fun' to each descendant element of the
// provided element 'elt' whose type matches P, in document order. The function
// is not applied to 'elt' itself.
//
// The function 'fun' returns a WalkResult to control the traversal process:
//
//   - WalkStop: Terminates the traversal process immediately.
//   - WalkSkip: Skips the children of the current element.
//   - WalkContinue: Continues to the next element without any special action.
//
// Query never modifies the tree.
//
// Example:
//
//	var headers int
//	pandoc.Query(doc, func(h *pandoc.Header) pandoc.WalkResult {
//	    headers++
//	    return pandoc.WalkSkip
//	})
//	fmt.Printf("doc has %d headers\n", headers)
func Query[P any](elt Element, fun func(P) WalkResult) {
	walkChildren(elt, func(e Element) WalkResult {
		if p, ok := e.(P); ok {
			return fun(p)
		}
		return WalkContinue
	})
}

func walkInlines(lst []Inline, visit func(Element) WalkResult) bool {
	for _, e := range lst {
		if !walkElement(e, visit) {
			return false
		}
	}
	return true
}

func walkBlocks(lst []Block, visit func(Element) WalkResult) bool {
	for _, e := range lst {
		if !walkElement(e, visit) {
			return false
		}
	}
	return true
}

func walkBlockLists(lst [][]Block, visit func(Element) WalkResult) bool {
	for _, e := range lst {
		if !walkBlocks(e, visit) {
			return false
		}
	}
	return true
}

func walkRows(rows []*TableRow, visit func(Element) WalkResult) bool {
	for _, r := range rows {
		if !walkElement(r, visit) {
			return false
		}
	}
	return true
}

// walkElement visits e and then, unless told otherwise, its children.
// Returns false when the walk must stop.
func walkElement(e Element, visit func(Element) WalkResult) bool {
	switch visit(e) {
	case WalkStop:
		return false
	case WalkSkip:
		return true
	}
	return walkChildren(e, visit)
}

func walkChildren(e Element, visit func(Element) WalkResult) bool {
	switch e := e.(type) {
	case *Pandoc:
		for _, m := range e.Meta {
			if !walkElement(m.Value, visit) {
				return false
			}
		}
		return walkBlocks(e.Blocks, visit)
	// Inlines
	case *Emph:
		return walkInlines(e.Inlines, visit)
	case *Underline:
		return walkInlines(e.Inlines, visit)
	case *Strong:
		return walkInlines(e.Inlines, visit)
	case *Strikeout:
		return walkInlines(e.Inlines, visit)
	case *Superscript:
		return walkInlines(e.Inlines, visit)
	case *Subscript:
		return walkInlines(e.Inlines, visit)
	case *SmallCaps:
		return walkInlines(e.Inlines, visit)
	case *Quoted:
		return walkInlines(e.Inlines, visit)
	case *Cite:
		return walkInlines(e.Inlines, visit)
	case *Link:
		return walkInlines(e.Inlines, visit)
	case *Image:
		return walkInlines(e.Inlines, visit)
	case *Span:
		return walkInlines(e.Inlines, visit)
	case *Note:
		return walkBlocks(e.Blocks, visit)

	// Blocks
	case *Plain:
		return walkInlines(e.Inlines, visit)
	case *Para:
		return walkInlines(e.Inlines, visit)
	case *Header:
		return walkInlines(e.Inlines, visit)
	case *LineBlock:
		for _, line := range e.Inlines {
			if !walkInlines(line, visit) {
				return false
			}
		}
	case *BlockQuote:
		return walkBlocks(e.Blocks, visit)
	case *Div:
		return walkBlocks(e.Blocks, visit)
	case *BulletList:
		return walkBlockLists(e.Items, visit)
	case *OrderedList:
		return walkBlockLists(e.Items, visit)
	case *DefinitionList:
		for _, item := range e.Items {
			if !walkInlines(item.Term, visit) || !walkBlockLists(item.Definition, visit) {
				return false
			}
		}
	case *Figure:
		if !walkInlines(e.Caption.Short, visit) || !walkBlocks(e.Caption.Long, visit) {
			return false
		}
		return walkBlocks(e.Blocks, visit)
	case *Table:
		if !walkInlines(e.Caption.Short, visit) || !walkBlocks(e.Caption.Long, visit) {
			return false
		}
		if !walkRows(e.Head.Rows, visit) {
			return false
		}
		for _, b := range e.Bodies {
			if !walkRows(b.Head, visit) || !walkRows(b.Body, visit) {
				return false
			}
		}
		return walkRows(e.Foot.Rows, visit)
	case *TableRow:
		for _, c := range e.Cells {
			if !walkElement(c, visit) {
				return false
			}
		}
	case *TableCell:
		return walkBlocks(e.Blocks, visit)

	// Meta
	case *MetaMap:
		for _, m := range e.Entries {
			if !walkElement(m.Value, visit) {
				return false
			}
		}
	case *MetaList:
		for _, m := range e.Entries {
			if !walkElement(m, visit) {
				return false
			}
		}
	case *MetaInlines:
		return walkInlines(e.Inlines, visit)
	case *MetaBlocks:
		return walkBlocks(e.Blocks, visit)
	}
	return true
}

// Stringify returns the plain text of an element: strings, code and math
// literals, with whitespace elements turned into spaces or newlines.
// Footnotes are not included.
func Stringify(elt Element) string {
	var sb strings.Builder
	Query(elt, func(i Inline) WalkResult {
		switch i := i.(type) {
		case *Str:
			sb.WriteString(i.Text)
		case *Code:
			sb.WriteString(i.Text)
		case *Math:
			sb.WriteString(i.Text)
		case *Space, *SoftBreak:
			sb.WriteByte(' ')
		case *LineBreak:
			sb.WriteByte('\n')
		case *Note:
			return WalkSkip
		}
		return WalkContinue
	})
	return sb.String()
}

// StringifyInlines is Stringify for a bare list of inlines.
func StringifyInlines(lst []Inline) string {
	return Stringify(&Plain{Inlines: lst})
}
