package template

type node interface {
	render(s *state, data map[string]any)
}

type textNode struct {
	text string
}

type varNode struct {
	name string
}

type ifNode struct {
	name string
	then []node
	els  []node
}

type forNode struct {
	name string
	body []node
	sep  []node
}

// Template is a parsed template. It is immutable and safe for concurrent use.
type Template struct {
	nodes []node
}

// Parse parses src. Parsing never fails: tags that are not closed, or that
// close nothing, are kept as literal text.
func Parse(src string) *Template {
	p := &parser{tokens: tokenize(src), failed: make(map[int]bool)}
	return &Template{nodes: p.parseTop()}
}

type parser struct {
	tokens []token
	pos    int
	failed map[int]bool // opening tags known to have no closing tag
}

func (p *parser) parseTop() []node {
	var nodes []node
	for p.pos < len(p.tokens) {
		nodes = p.parseOne(nodes)
	}
	return nodes
}

// parseUntil parses nodes until one of the stop tokens, which is consumed
// and returned. ok is false when the input ends first.
func (p *parser) parseUntil(stop ...tokenType) (nodes []node, end tokenType, ok bool) {
	for p.pos < len(p.tokens) {
		t := p.tokens[p.pos]
		for _, s := range stop {
			if t.typ == s {
				p.pos++
				return nodes, s, true
			}
		}
		nodes = p.parseOne(nodes)
	}
	return nodes, 0, false
}

// parseOne parses the node at the current position and appends it to nodes.
func (p *parser) parseOne(nodes []node) []node {
	t := p.tokens[p.pos]
	p.pos++
	switch t.typ {
	case tokVar:
		return append(nodes, &varNode{name: t.name})
	case tokIf:
		start := p.pos
		if !p.failed[start] {
			if n, ok := p.parseIf(t.name); ok {
				return append(nodes, n)
			}
			p.failed[start] = true
			p.pos = start
		}
		return appendText(nodes, t.raw)
	case tokFor:
		start := p.pos
		if !p.failed[start] {
			if n, ok := p.parseFor(t.name); ok {
				return append(nodes, n)
			}
			p.failed[start] = true
			p.pos = start
		}
		return appendText(nodes, t.raw)
	default:
		// text, or a closing tag with nothing to close
		return appendText(nodes, t.raw)
	}
}

func (p *parser) parseIf(name string) (node, bool) {
	n := &ifNode{name: name}
	var (
		end tokenType
		ok  bool
	)
	n.then, end, ok = p.parseUntil(tokElse, tokEndIf)
	if !ok {
		return nil, false
	}
	if end == tokElse {
		if n.els, _, ok = p.parseUntil(tokEndIf); !ok {
			return nil, false
		}
	}
	return n, true
}

func (p *parser) parseFor(name string) (node, bool) {
	n := &forNode{name: name}
	var (
		end tokenType
		ok  bool
	)
	n.body, end, ok = p.parseUntil(tokSep, tokEndFor)
	if !ok {
		return nil, false
	}
	if end == tokSep {
		if n.sep, _, ok = p.parseUntil(tokEndFor); !ok {
			return nil, false
		}
	}
	return n, true
}

func appendText(nodes []node, text string) []node {
	if len(nodes) > 0 {
		if t, ok := nodes[len(nodes)-1].(*textNode); ok {
			t.text += text
			return nodes
		}
	}
	return append(nodes, &textNode{text: text})
}
