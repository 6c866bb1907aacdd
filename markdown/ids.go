package markdown

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/yuin/goldmark/ast"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ids generates pandoc style header identifiers: accents folded, lower case,
// punctuation other than "_-." removed, spaces turned into hyphens and
// everything before the first letter dropped. Duplicates get a numeric
// suffix.
type ids struct {
	used map[string]bool
}

func newIDs() *ids {
	return &ids{used: make(map[string]bool)}
}

func (s *ids) Generate(value []byte, _ ast.NodeKind) []byte {
	base := Identifier(string(value))
	if base == "" {
		base = "section"
	}
	id := base
	for i := 1; s.used[id]; i++ {
		id = base + "-" + strconv.Itoa(i)
	}
	s.used[id] = true
	return []byte(id)
}

func (s *ids) Put(value []byte) {
	s.used[string(value)] = true
}

// Identifier turns heading text into an identifier.
func Identifier(s string) string {
	fold := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if folded, _, err := transform.String(fold, s); err == nil {
		s = folded
	}
	var sb strings.Builder
	started := false
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r):
			started = true
			sb.WriteRune(r)
		case !started:
		case unicode.IsDigit(r), r == '_', r == '-', r == '.':
			sb.WriteRune(r)
		case unicode.IsSpace(r):
			sb.WriteByte('-')
		}
	}
	return sb.String()
}
