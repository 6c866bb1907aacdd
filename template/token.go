package template

import "strings"

type tokenType int

const (
	tokText tokenType = iota
	tokVar
	tokIf
	tokElse
	tokEndIf
	tokFor
	tokSep
	tokEndFor
)

func (t tokenType) String() string {
	switch t {
	case tokText:
		return "text"
	case tokVar:
		return "var"
	case tokIf:
		return "if"
	case tokElse:
		return "else"
	case tokEndIf:
		return "endif"
	case tokFor:
		return "for"
	case tokSep:
		return "sep"
	case tokEndFor:
		return "endfor"
	default:
		return "unknown"
	}
}

// token is a piece of template source. Raw is the source text of the token,
// used when a tag turns out to be unmatched and is kept as literal text.
type token struct {
	typ  tokenType
	name string // variable name for var, if and for
	raw  string
}

// tokenize splits src into text and tag tokens. A '$' that does not start
// a well-formed tag is literal text; "$$" is a literal '$'.
func tokenize(src string) []token {
	var (
		tokens []token
		text   strings.Builder
	)
	flush := func() {
		if text.Len() > 0 {
			tokens = append(tokens, token{typ: tokText, raw: text.String()})
			text.Reset()
		}
	}
	for i := 0; i < len(src); {
		j := strings.IndexByte(src[i:], '$')
		if j < 0 {
			text.WriteString(src[i:])
			break
		}
		text.WriteString(src[i : i+j])
		i += j
		if i+1 < len(src) && src[i+1] == '$' {
			text.WriteByte('$')
			i += 2
			continue
		}
		end := strings.IndexByte(src[i+1:], '$')
		if end < 0 {
			text.WriteString(src[i:])
			break
		}
		raw := src[i : i+end+2]
		tok, ok := parseTag(raw[1 : len(raw)-1])
		if !ok {
			text.WriteByte('$')
			i++
			continue
		}
		flush()
		tok.raw = raw
		tokens = append(tokens, tok)
		i += len(raw)
	}
	flush()
	return tokens
}

// parseTag recognizes the content between two '$' delimiters.
func parseTag(content string) (token, bool) {
	switch content {
	case "else":
		return token{typ: tokElse}, true
	case "endif":
		return token{typ: tokEndIf}, true
	case "sep":
		return token{typ: tokSep}, true
	case "endfor":
		return token{typ: tokEndFor}, true
	}
	if name, ok := call(content, "if"); ok {
		return token{typ: tokIf, name: name}, true
	}
	if name, ok := call(content, "for"); ok {
		return token{typ: tokFor, name: name}, true
	}
	if isIdent(content) {
		return token{typ: tokVar, name: content}, true
	}
	return token{}, false
}

// call matches "fn(NAME)" and returns NAME.
func call(content, fn string) (string, bool) {
	if !strings.HasPrefix(content, fn+"(") || !strings.HasSuffix(content, ")") {
		return "", false
	}
	name := content[len(fn)+1 : len(content)-1]
	return name, isIdent(name)
}

// isIdent reports whether s matches [A-Za-z_][A-Za-z0-9_.]*.
func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c == '_':
		case i > 0 && (c >= '0' && c <= '9' || c == '.'):
		default:
			return false
		}
	}
	return true
}
