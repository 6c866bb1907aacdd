package markdown

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	pandoc "github.com/growler/go-pandoc-jats"
)

// splitFrontMatter separates a leading YAML block delimited by "---" and
// "---" or "..." lines. front is nil when there is none.
func splitFrontMatter(src []byte) (front, body []byte) {
	first, rest, ok := cutLine(src)
	if !ok || string(bytes.TrimRight(first, " \t\r")) != "---" {
		return nil, src
	}
	start := rest
	for len(rest) > 0 {
		var line []byte
		offset := len(start) - len(rest)
		line, rest, _ = cutLine(rest)
		switch string(bytes.TrimRight(line, " \t\r")) {
		case "---", "...":
			return start[:offset], rest
		}
	}
	return nil, src
}

func cutLine(b []byte) (line, rest []byte, found bool) {
	if i := bytes.IndexByte(b, '\n'); i >= 0 {
		return b[:i], b[i+1:], true
	}
	return b, nil, false
}

// frontMatter converts YAML metadata. String scalars are read as markdown,
// other scalars are kept as plain strings.
func (p *Parser) frontMatter(src []byte) (pandoc.Meta, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(src, &doc); err != nil {
		return nil, fmt.Errorf("front matter: %w", err)
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("front matter: line %d: expected a mapping", root.Line)
	}
	m, ok := p.metaValue(root).(*pandoc.MetaMap)
	if !ok {
		return nil, nil
	}
	return m.Entries, nil
}

func (p *Parser) metaValue(n *yaml.Node) pandoc.MetaValue {
	switch n.Kind {
	case yaml.AliasNode:
		return p.metaValue(n.Alias)
	case yaml.MappingNode:
		m := &pandoc.MetaMap{}
		for i := 0; i+1 < len(n.Content); i += 2 {
			if v := p.metaValue(n.Content[i+1]); v != nil {
				m.Entries.Set(n.Content[i].Value, v)
			}
		}
		return m
	case yaml.SequenceNode:
		l := &pandoc.MetaList{}
		for _, c := range n.Content {
			if v := p.metaValue(c); v != nil {
				l.Entries = append(l.Entries, v)
			}
		}
		return l
	case yaml.ScalarNode:
		switch n.ShortTag() {
		case "!!null":
			return nil
		case "!!bool":
			var b bool
			if err := n.Decode(&b); err == nil {
				return pandoc.MetaBool(b)
			}
			return pandoc.MetaString(n.Value)
		case "!!str":
			return p.metaText(n.Value)
		default:
			return pandoc.MetaString(n.Value)
		}
	default:
		return nil
	}
}

// metaText reads a metadata string as markdown. A single paragraph becomes
// inlines, anything else blocks.
func (p *Parser) metaText(s string) pandoc.MetaValue {
	blocks := p.parse([]byte(s))
	if len(blocks) == 0 {
		return pandoc.MetaString("")
	}
	if len(blocks) == 1 {
		if para, ok := blocks[0].(*pandoc.Para); ok {
			return &pandoc.MetaInlines{Inlines: para.Inlines}
		}
	}
	return &pandoc.MetaBlocks{Blocks: blocks}
}
