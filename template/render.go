// Package template implements the small document template language used to
// wrap converted JATS bodies:
//
//	$name$                     variable, dotted names reach into nested maps
//	$if(name)$ .. $else$ .. $endif$
//	$for(name)$ .. $sep$ .. $endfor$
//	$$                         literal dollar sign
//
// Values are inserted verbatim. Callers escape anything that is not already
// markup.
package template

import (
	"fmt"
	"strings"
)

// Render parses tmpl and renders it with data.
func Render(tmpl string, data map[string]any) string {
	return Parse(tmpl).Render(data)
}

// Render renders the template with data. Blank lines left behind by
// conditionals and loops are removed along with trailing whitespace;
// substituted values are never touched by that normalization.
func (t *Template) Render(data map[string]any) string {
	s := &state{}
	renderNodes(s, t.nodes, data)
	return s.normalize()
}

// piece is a chunk of output: either template text or a substituted value.
type piece struct {
	text  string
	value bool
}

type state struct {
	pieces []piece
}

func (s *state) text(t string) {
	if t != "" {
		s.pieces = append(s.pieces, piece{text: t})
	}
}

func (s *state) value(v string) {
	s.pieces = append(s.pieces, piece{text: v, value: true})
}

func renderNodes(s *state, nodes []node, data map[string]any) {
	for _, n := range nodes {
		n.render(s, data)
	}
}

func (n *textNode) render(s *state, _ map[string]any) {
	s.text(n.text)
}

func (n *varNode) render(s *state, data map[string]any) {
	v, _ := Lookup(data, n.name)
	s.value(Stringify(v))
}

func (n *ifNode) render(s *state, data map[string]any) {
	v, _ := Lookup(data, n.name)
	if Truthy(v) {
		renderNodes(s, n.then, data)
	} else {
		renderNodes(s, n.els, data)
	}
}

func (n *forNode) render(s *state, data map[string]any) {
	v, _ := Lookup(data, n.name)
	items, ok := asList(v)
	if !ok {
		return
	}
	for i, item := range items {
		if i > 0 {
			renderNodes(s, n.sep, data)
		}
		scope := make(map[string]any, len(data)+2)
		for k, v := range data {
			scope[k] = v
		}
		scope[n.name] = item
		scope["it"] = item
		renderNodes(s, n.body, scope)
	}
}

// normalize joins the pieces, dropping lines that hold nothing but whitespace
// and empty values, and trimming trailing template whitespace from the
// remaining lines.
func (s *state) normalize() string {
	var (
		out     strings.Builder
		line    []piece
		content bool
	)
	endLine := func() {
		if content {
			for i := len(line) - 1; i >= 0; i-- {
				if line[i].value {
					if line[i].text == "" {
						continue
					}
					break
				}
				line[i].text = strings.TrimRight(line[i].text, " \t\r")
				if line[i].text != "" {
					break
				}
			}
			for _, p := range line {
				out.WriteString(p.text)
			}
			out.WriteByte('\n')
		}
		line = line[:0]
		content = false
	}
	for _, p := range s.pieces {
		if p.value {
			line = append(line, p)
			if p.text != "" {
				content = true
			}
			continue
		}
		text := p.text
		for {
			i := strings.IndexByte(text, '\n')
			seg := text
			if i >= 0 {
				seg = text[:i]
			}
			if seg != "" {
				line = append(line, piece{text: seg})
				if strings.TrimSpace(seg) != "" {
					content = true
				}
			}
			if i < 0 {
				break
			}
			endLine()
			text = text[i+1:]
		}
	}
	for _, p := range line {
		out.WriteString(p.text)
	}
	return out.String()
}

// Lookup finds name in data. An exact key wins; otherwise a dotted name is
// resolved through nested maps.
func Lookup(data map[string]any, name string) (any, bool) {
	if v, ok := data[name]; ok {
		return v, true
	}
	if !strings.Contains(name, ".") {
		return nil, false
	}
	var cur any = data
	for _, part := range strings.Split(name, ".") {
		switch m := cur.(type) {
		case map[string]any:
			v, ok := m[part]
			if !ok {
				return nil, false
			}
			cur = v
		case map[string]string:
			v, ok := m[part]
			if !ok {
				return nil, false
			}
			cur = v
		default:
			return nil, false
		}
	}
	return cur, true
}

// Truthy reports whether v selects the $if$ branch: anything but nil, false,
// the empty string and empty lists or maps.
func Truthy(v any) bool {
	switch v := v.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != ""
	case []any:
		return len(v) > 0
	case []string:
		return len(v) > 0
	case []map[string]any:
		return len(v) > 0
	case map[string]any:
		return len(v) > 0
	case map[string]string:
		return len(v) > 0
	default:
		return true
	}
}

// Stringify converts a value to the text substituted for it.
func Stringify(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		if v {
			return "true"
		}
		return ""
	case []any:
		var sb strings.Builder
		for _, e := range v {
			sb.WriteString(Stringify(e))
		}
		return sb.String()
	case []string:
		return strings.Join(v, "")
	case []map[string]any:
		return strings.Repeat("true", len(v))
	case map[string]any, map[string]string:
		return "true"
	default:
		return fmt.Sprint(v)
	}
}

func asList(v any) ([]any, bool) {
	switch v := v.(type) {
	case []any:
		return v, true
	case []string:
		res := make([]any, len(v))
		for i, s := range v {
			res[i] = s
		}
		return res, true
	case []map[string]any:
		res := make([]any, len(v))
		for i, m := range v {
			res[i] = m
		}
		return res, true
	default:
		return nil, false
	}
}
