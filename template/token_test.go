package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	toks := tokenize("a $x$ $if(y.z)$b$else$$endif$ $$ $for(l)$$sep$$endfor$")
	var types []tokenType
	for _, tok := range toks {
		types = append(types, tok.typ)
	}
	assert.Equal(t, []tokenType{
		tokText, tokVar, tokText, tokIf, tokText, tokElse, tokEndIf,
		tokText, tokFor, tokSep, tokEndFor,
	}, types)
	assert.Equal(t, "y.z", toks[3].name)
	assert.Equal(t, "$if(y.z)$", toks[3].raw)
	assert.Equal(t, " $ ", toks[7].raw)
}

func TestIsIdent(t *testing.T) {
	for _, s := range []string{"a", "_x", "article_type", "author.name", "A1"} {
		assert.True(t, isIdent(s), s)
	}
	for _, s := range []string{"", "1a", ".a", "a-b", "a b", "if(x)"} {
		assert.False(t, isIdent(s), s)
	}
}

func BenchmarkRender(b *testing.B) {
	tmpl := Parse("<ul>\n$for(x)$\n<li>$x$</li>\n$endfor$\n</ul>\n$if(y)$$y$$endif$\n")
	data := map[string]any{"x": []any{"a", "b", "c", "d"}, "y": "tail"}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tmpl.Render(data)
	}
}
