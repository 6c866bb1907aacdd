package jats_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	pandoc "github.com/growler/go-pandoc-jats"
	. "github.com/growler/go-pandoc-jats/dot"
	"github.com/growler/go-pandoc-jats/jats"
)

func TestWriterMeta(t *testing.T) {
	meta := pandoc.Meta{
		{Key: "s", Value: pandoc.MetaString("a<b")},
		{Key: "b", Value: pandoc.MetaBool(true)},
		{Key: "i", Value: &pandoc.MetaInlines{Inlines: Inlines(Emph(Str("x")))}},
		{Key: "p", Value: &pandoc.MetaBlocks{Blocks: Blocks(Para(Str("y")))}},
		{Key: "l", Value: &pandoc.MetaList{Entries: []pandoc.MetaValue{pandoc.MetaString("1")}}},
		{Key: "m", Value: &pandoc.MetaMap{Entries: pandoc.Meta{{Key: "k", Value: pandoc.MetaString("v")}}}},
	}
	assert.Equal(t, map[string]any{
		"s": "a&lt;b",
		"b": true,
		"i": "<italic>x</italic>",
		"p": "<p>y</p>",
		"l": []any{"1"},
		"m": map[string]any{"k": "v"},
	}, jats.NewWriter(nil).Meta(meta))
}

func TestFlatten(t *testing.T) {
	got := jats.Flatten(map[string]any{
		"title": "t",
		"article": map[string]any{
			"doi":      "x",
			"pub-date": "d",
			"ids":      map[string]any{"pmid": "1"},
		},
		"author": []any{map[string]any{"given-names": "A"}},
		"tags":   map[string]any{"1": "a", "2": "b"},
		"odd":    map[string]any{"1": "a", "3": "b"},
	})
	assert.Equal(t, map[string]any{
		"title":            "t",
		"article_doi":      "x",
		"article_pub_date": "d",
		"article_ids_pmid": "1",
		"author":           []any{map[string]any{"given_names": "A"}},
		"tags":             []any{"a", "b"},
		"odd_1":            "a",
		"odd_3":            "b",
	}, got)
}
