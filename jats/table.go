package jats

import (
	"strings"

	pandoc "github.com/growler/go-pandoc-jats"
)

// tableData is a table with every part already rendered.
type tableData struct {
	Id      string
	Caption string
	Aligns  []pandoc.Alignment
	Widths  []float64 // fractions of the text width, 0 for unspecified
	Headers []string
	Rows    [][]string
}

func (w *Writer) table(t *pandoc.Table) string {
	d := tableData{
		Id:      t.Id,
		Caption: w.captionText(t.Caption),
		Aligns:  make([]pandoc.Alignment, len(t.Aligns)),
		Widths:  make([]float64, len(t.Aligns)),
	}
	for i, c := range t.Aligns {
		d.Aligns[i] = c.Align
		if !c.Width.Default {
			d.Widths[i] = c.Width.Width
		}
	}
	if len(t.Head.Rows) > 0 {
		d.Headers = w.row(t.Head.Rows[0])
	}
	for _, b := range t.Bodies {
		for _, r := range b.Head {
			d.Rows = append(d.Rows, w.row(r))
		}
		for _, r := range b.Body {
			d.Rows = append(d.Rows, w.row(r))
		}
	}
	for _, r := range t.Foot.Rows {
		d.Rows = append(d.Rows, w.row(r))
	}
	return renderTable(d)
}

func (w *Writer) row(r *pandoc.TableRow) []string {
	cells := make([]string, len(r.Cells))
	for i, c := range r.Cells {
		cells[i] = w.Blocks(c.Blocks)
	}
	return cells
}

func renderTable(d tableData) string {
	var sb strings.Builder
	sb.WriteString("<table-wrap" + attrs("id", d.Id) + ">\n")
	if c := captionElement(d.Caption); c != "" {
		sb.WriteString(c)
		sb.WriteByte('\n')
	}
	sb.WriteString("<table>\n")
	if anyNonZero(d.Widths) {
		for _, wd := range d.Widths {
			width := ""
			if wd != 0 {
				width = percent(wd)
			}
			sb.WriteString(emptyTag("col", "width", width))
			sb.WriteByte('\n')
		}
	}
	if !allEmpty(d.Headers) {
		sb.WriteString("<thead>\n")
		writeRow(&sb, "th", d.Headers, d.Aligns)
		sb.WriteString("</thead>\n")
	}
	sb.WriteString("<tbody>\n")
	for _, r := range d.Rows {
		writeRow(&sb, "td", r, d.Aligns)
	}
	sb.WriteString("</tbody>\n</table>\n</table-wrap>")
	return sb.String()
}

func writeRow(sb *strings.Builder, cell string, cells []string, aligns []pandoc.Alignment) {
	sb.WriteString("<tr>\n")
	for i, c := range cells {
		var align pandoc.Alignment
		if i < len(aligns) {
			align = aligns[i]
		}
		sb.WriteString(tag(cell, unwrapParagraph(c), "align", alignName(align)))
		sb.WriteByte('\n')
	}
	sb.WriteString("</tr>\n")
}

func alignName(a pandoc.Alignment) string {
	switch a {
	case pandoc.AlignRight:
		return "right"
	case pandoc.AlignCenter:
		return "center"
	default:
		return "left"
	}
}

// unwrapParagraph strips a <p> wrapper around the whole of s.
func unwrapParagraph(s string) string {
	inner, ok := strings.CutPrefix(s, "<p>")
	if !ok {
		return s
	}
	inner, ok = strings.CutSuffix(inner, "</p>")
	if !ok || strings.Contains(inner, "<p>") {
		return s
	}
	return inner
}

func anyNonZero(fs []float64) bool {
	for _, f := range fs {
		if f != 0 {
			return true
		}
	}
	return false
}

func allEmpty(ss []string) bool {
	for _, s := range ss {
		if s != "" {
			return false
		}
	}
	return true
}
