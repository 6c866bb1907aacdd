package jats

import (
	"strings"

	pandoc "github.com/growler/go-pandoc-jats"
)

// implicitFigure matches a paragraph holding nothing but an image whose
// title starts with "fig:".
func implicitFigure(p *pandoc.Para) (*pandoc.Image, bool) {
	if len(p.Inlines) != 1 {
		return nil, false
	}
	img, ok := p.Inlines[0].(*pandoc.Image)
	if !ok || !strings.HasPrefix(img.Target.Title, "fig:") {
		return nil, false
	}
	return img, true
}

// figureImage matches figure content made of a single image.
func figureImage(blocks []pandoc.Block) (*pandoc.Image, bool) {
	if len(blocks) != 1 {
		return nil, false
	}
	var inlines []pandoc.Inline
	switch b := blocks[0].(type) {
	case *pandoc.Plain:
		inlines = b.Inlines
	case *pandoc.Para:
		inlines = b.Inlines
	default:
		return nil, false
	}
	if len(inlines) != 1 {
		return nil, false
	}
	img, ok := inlines[0].(*pandoc.Image)
	return img, ok
}

// captionText renders caption blocks. A lone Plain or Para is reduced to its
// inlines.
func (w *Writer) captionText(c pandoc.Caption) string {
	if len(c.Long) == 1 {
		switch b := c.Long[0].(type) {
		case *pandoc.Plain:
			return w.Inlines(b.Inlines)
		case *pandoc.Para:
			return w.Inlines(b.Inlines)
		}
	}
	return w.Blocks(c.Long)
}

func (w *Writer) figure(f *pandoc.Figure) string {
	caption := w.captionText(f.Caption)
	if img, ok := figureImage(f.Blocks); ok {
		id := f.Id
		if id == "" {
			id = img.Id
		}
		return captionedImage(img.Target.Url, img.Target.Title, caption, id)
	}
	var sb strings.Builder
	sb.WriteString("<fig" + attrs("id", f.Id) + ">\n")
	if c := captionElement(caption); c != "" {
		sb.WriteString(c)
		sb.WriteByte('\n')
	}
	if s := w.Blocks(f.Blocks); s != "" {
		sb.WriteString(s)
		sb.WriteByte('\n')
	}
	sb.WriteString("</fig>")
	return sb.String()
}

// captionElement builds a <caption>. A leading bold run becomes the caption
// title, the rest its paragraph.
func captionElement(caption string) string {
	caption = strings.TrimSpace(caption)
	if caption == "" {
		return ""
	}
	var title, rest string
	if after, ok := strings.CutPrefix(caption, "<bold>"); ok {
		if i := strings.Index(after, "</bold>"); i >= 0 {
			title = after[:i]
			rest = strings.TrimSpace(after[i+len("</bold>"):])
		}
	}
	if title == "" {
		rest = caption
	}
	var sb strings.Builder
	sb.WriteString("<caption>\n")
	if title != "" {
		sb.WriteString(tag("title", title))
		sb.WriteByte('\n')
	}
	if rest != "" {
		sb.WriteString(paragraph(rest))
		sb.WriteByte('\n')
	}
	sb.WriteString("</caption>")
	return sb.String()
}

func captionedImage(src, title, caption, id string) string {
	var sb strings.Builder
	sb.WriteString("<fig" + attrs("id", id) + ">\n")
	if c := captionElement(caption); c != "" {
		sb.WriteString(c)
		sb.WriteByte('\n')
	}
	sb.WriteString(emptyTag("graphic", "mimetype", "image", "xlink:href", src, "xlink:title", title))
	sb.WriteString("\n</fig>")
	return sb.String()
}
