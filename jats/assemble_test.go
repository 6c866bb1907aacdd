package jats_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pandoc "github.com/growler/go-pandoc-jats"
	. "github.com/growler/go-pandoc-jats/dot"
	"github.com/growler/go-pandoc-jats/jats"
)

func fixed(tmpl string) *jats.Assembler {
	return &jats.Assembler{
		Lookup: func(string) string { return tmpl },
		Now:    func() time.Time { return time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC) },
	}
}

func TestConvertSections(t *testing.T) {
	got := fixed("$body$").Convert(Doc(Header(1, NoAttr, Str("Intro")), Para(Str("Hi"))), nil)
	assert.Equal(t, "<sec>\n<title></title>\n</sec>\n<sec>\n<title>Intro</title>\n<p>Hi</p>\n</sec>", got)

	// every header opens exactly one section, plus the outer one
	got = fixed("$body$").Convert(Doc(
		Header(1, Attr("a"), Str("A")),
		Header(2, Attr("b"), Str("B")),
		Header(1, Attr("references"), Str("References")),
	), nil)
	assert.Equal(t, 3, strings.Count(got, "<sec"))
	assert.Equal(t, 3, strings.Count(got, "</sec>"))
}

func TestConvertBackMatter(t *testing.T) {
	doc := Doc(
		Para(Str("x")),
		Header(1, Attr("references"), Str("References")),
		Div(Attr("refs", "references"), Para(Str("A"))),
	)
	got := fixed("[$body$][$back$]").Convert(doc, nil)
	assert.Equal(t, "[<sec>\n<title></title>\n<p>x</p>\n</sec>]"+
		"[<ref-list>\n<ref id=\"ref-1\">\n<mixed-citation>A</mixed-citation>\n</ref>\n</ref-list>]", got)

	got = fixed("[$back$]").Convert(Doc(Para(Str("x"))), nil)
	assert.Equal(t, "[]", got)
}

func TestConvertNotes(t *testing.T) {
	a := fixed("$for(notes)$$notes$$endfor$")
	doc := Doc(Para(Str("a"), Note(Para(Str("n")))))
	want := "<fn id=\"fn1\">\n<p>n <xref ref-type=\"fn\" rid=\"fnref1\">&#8617;</xref></p>\n</fn>"
	assert.Equal(t, want, a.Convert(doc, nil))
	assert.Equal(t, want, a.Convert(doc, nil))

	// notes in metadata are dropped and do not take numbers from the body
	doc.Meta.SetInlines("title", Str("T"), Note(Para(Str("m"))))
	got := fixed("$title$|$body$|$for(notes)$$notes$$endfor$").Convert(doc, nil)
	assert.True(t, strings.HasPrefix(got, "T|"), got)
	assert.Equal(t, 1, strings.Count(got, `rid="fn1"`))
	assert.Equal(t, 1, strings.Count(got, `<fn id=`))
	assert.NotContains(t, got, "<p>m")
}

func TestDerivedFields(t *testing.T) {
	const tmpl = "$article_type$|$article_heading$|$article_elocation_id$|$article_title$|" +
		"$article_pub_date$|$journal_eissn$|$journal_publisher_id$|$article_art_access_id$"

	tests := []struct {
		name string
		meta map[string]any
		want string
	}{
		{"defaults", nil, "research-article|Other|Other|Other|2024-03-05|||"},
		{
			"article",
			map[string]any{
				"title": "T",
				"article": map[string]any{
					"doi":      "10.1/x",
					"pub-date": "2020-01-02",
					"type":     "editorial",
					"heading":  "News",
				},
			},
			"editorial|News|10.1/x|T|2020-01-02|||",
		},
		{
			"elocation wins over doi",
			map[string]any{"article": map[string]any{"doi": "10.1/x", "elocation-id": "e42", "art-access-id": "A1"}},
			"research-article|Other|e42|Other|2024-03-05|||A1",
		},
		{
			"short pub date",
			map[string]any{"article": map[string]any{"pub-date": "2020"}},
			"research-article|Other|Other|Other|2024-03-05|||",
		},
		{
			"journal",
			map[string]any{"journal": map[string]any{"pissn": "1", "eissn": "2", "publisher-id": "P"}},
			"research-article|Other|Other|Other|2024-03-05|2|P|",
		},
		{
			"journal without identifiers",
			map[string]any{"journal": map[string]any{"title": "J"}},
			"research-article|Other|Other|Other|2024-03-05|||",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, fixed(tmpl).Assemble("", tt.meta, nil))
		})
	}
}

func TestAssemblePrecedence(t *testing.T) {
	a := fixed("$foo$|$article_doi$|$article_type$")
	meta := map[string]any{"foo": "m", "article": map[string]any{"doi": "d"}}

	assert.Equal(t, "m|d|research-article", a.Assemble("", meta, nil))
	assert.Equal(t, "v|d|research-article", a.Assemble("", meta, map[string]any{"foo": "v"}))
	// derived fields win over everything
	assert.Equal(t, "m|d|research-article", a.Assemble("", meta, map[string]any{"article_type": "x"}))
	// variables feed the derivation
	assert.Equal(t, "m|d|x", a.Assemble("", meta, map[string]any{"article": map[string]any{"type": "x"}}))
	// nested variables override single fields of nested metadata
	assert.Equal(t, "m|e|x", a.Assemble("", meta, map[string]any{"article": map[string]any{"type": "x", "doi": "e"}}))
	assert.Equal(t, map[string]any{"doi": "d"}, meta["article"])

	b := fixed("$article.doi$|$article.type$")
	assert.Equal(t, "d|x", b.Assemble("", meta, map[string]any{"article": map[string]any{"type": "x"}}))
}

func TestConvertDefaultTemplate(t *testing.T) {
	a := &jats.Assembler{Template: "default"}
	doc := Doc(Header(1, Attr("intro"), Str("Intro")), Para(Str("Hi")))
	doc.Meta.SetInlines("title", Words("A Title")...)
	doc.Meta.Set("author", &pandoc.MetaList{Entries: []pandoc.MetaValue{
		&pandoc.MetaMap{Entries: pandoc.Meta{
			{Key: "surname", Value: pandoc.MetaString("Doe")},
			{Key: "given-names", Value: pandoc.MetaString("Jane")},
		}},
	}})

	got := a.Convert(doc, nil)
	require.Contains(t, got, "<article ")
	assert.Contains(t, got, `article-type="research-article"`)
	assert.Contains(t, got, "<article-title>A Title</article-title>")
	assert.Contains(t, got, "<surname>Doe</surname>")
	assert.Contains(t, got, "<given-names>Jane</given-names>")
	assert.Contains(t, got, "<sec id=\"intro\">\n<title>Intro</title>\n<p>Hi</p>\n</sec>")
	assert.NotContains(t, got, "<fn-group>")
}
