package pandoc

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompareSemver(t *testing.T) {
	var tests = []struct {
		a, b []int
		want int
	}{
		{[]int{1, 23, 1}, []int{1, 23, 1}, 0},
		{[]int{1, 23, 1}, []int{1, 23, 2}, -1},
		{[]int{1, 23}, []int{1, 23, 2}, -1},
		{[]int{1, 23, 1}, []int{1, 23}, 1},
		{[]int{1}, []int{1, 23, 1}, -1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, cmpSemver(tt.a, tt.b), "cmpSemver(%v, %v)", tt.a, tt.b)
	}
}

const t1 = `{"pandoc-api-version":[1,23,1],"meta":{},"blocks":[{"t":"Header","c":[1,["mainpage",["title"],[]],[{"t":"Str","c":"A"},{"t":"Space"},{"t":"Str","c":"document"}]]},{"t":"Para","c":[{"t":"Str","c":"Paragraph"}]},{"t":"Header","c":[2,["sec1",["h1"],[]],[{"t":"Str","c":"A"},{"t":"Space"},{"t":"Str","c":"section"}]]},{"t":"Para","c":[{"t":"Str","c":"Another"},{"t":"Space"},{"t":"Str","c":"paragraph"}]},{"t":"Header","c":[3,["sec1-1",["h2"],[]],[{"t":"Str","c":"A"},{"t":"Space"},{"t":"Str","c":"subsection"}]]},{"t":"Para","c":[{"t":"Str","c":"Yet"},{"t":"Space"},{"t":"Str","c":"another"},{"t":"Space"},{"t":"Str","c":"paragraph"}]},{"t":"Header","c":[4,["sec1-1-1",["h3"],[]],[{"t":"Str","c":"A"},{"t":"Space"},{"t":"Str","c":"subsubsection"}]]},{"t":"Para","c":[{"t":"Str","c":"And"},{"t":"Space"},{"t":"Str","c":"another"},{"t":"Space"},{"t":"Str","c":"paragraph"}]}]}`

func TestRead(t *testing.T) {
	doc, err := ReadFrom(strings.NewReader(t1))
	require.NoError(t, err)
	require.Len(t, doc.Blocks, 8)

	var ids, titles []string
	var levels []int
	Query(doc, func(h *Header) WalkResult {
		ids = append(ids, h.Id)
		levels = append(levels, h.Level)
		titles = append(titles, StringifyInlines(h.Inlines))
		return WalkSkip
	})
	assert.Equal(t, []string{"mainpage", "sec1", "sec1-1", "sec1-1-1"}, ids)
	assert.Equal(t, []int{1, 2, 3, 4}, levels)
	assert.Equal(t, "A subsection", titles[2])

	h := doc.Blocks[0].(*Header)
	assert.Equal(t, []string{"title"}, h.Classes)
	assert.Equal(t, "Yet another paragraph", Stringify(doc.Blocks[5]))
}

func document(blocks, meta string) string {
	if meta == "" {
		meta = "{}"
	}
	return `{"pandoc-api-version":[1,23,1],"meta":` + meta + `,"blocks":[` + blocks + `]}`
}

func TestReadInlines(t *testing.T) {
	doc, err := ReadFrom(strings.NewReader(document(`{"t":"Para","c":[`+
		`{"t":"Emph","c":[{"t":"Str","c":"e"}]},`+
		`{"t":"Code","c":[["c1",["go"],[["k","v"]]],"x<y"]},`+
		`{"t":"Math","c":[{"t":"DisplayMath"},"a^2"]},`+
		`{"t":"Link","c":[["",[],[]],[{"t":"Str","c":"l"}],["http://x.org","T"]]},`+
		`{"t":"Quoted","c":[{"t":"DoubleQuote"},[{"t":"Str","c":"q"}]]},`+
		`{"t":"Note","c":[{"t":"Para","c":[{"t":"Str","c":"n"}]}]},`+
		`{"t":"SoftBreak"},{"t":"LineBreak"}]}`, "")))
	require.NoError(t, err)
	require.Len(t, doc.Blocks, 1)
	inl := doc.Blocks[0].(*Para).Inlines
	require.Len(t, inl, 8)

	assert.Equal(t, "e", StringifyInlines(inl[0].(*Emph).Inlines))

	code := inl[1].(*Code)
	assert.Equal(t, "c1", code.Id)
	assert.Equal(t, []string{"go"}, code.Classes)
	assert.Equal(t, []KV{{"k", "v"}}, code.KVs)
	assert.Equal(t, "x<y", code.Text)

	math := inl[2].(*Math)
	assert.Equal(t, DisplayMath, math.MathType)
	assert.Equal(t, "a^2", math.Text)

	link := inl[3].(*Link)
	assert.Equal(t, Target{"http://x.org", "T"}, link.Target)

	assert.Equal(t, DoubleQuote, inl[4].(*Quoted).QuoteType)
	assert.Equal(t, "n", Stringify(inl[5].(*Note)))
	assert.IsType(t, &SoftBreak{}, inl[6])
	assert.IsType(t, &LineBreak{}, inl[7])
}

func TestReadBlocks(t *testing.T) {
	const (
		noattr = `["",[],[]]`
		cell   = `[` + noattr + `,{"t":"AlignDefault"},1,1,[{"t":"Plain","c":[{"t":"Str","c":"%s"}]}]]`
		row    = `[` + noattr + `,[` + cell + `,` + cell + `]]`
	)
	table := `{"t":"Table","c":[` + noattr + `,` +
		`[null,[{"t":"Plain","c":[{"t":"Str","c":"Cap"}]}]],` +
		`[[{"t":"AlignLeft"},{"t":"ColWidthDefault"}],[{"t":"AlignRight"},{"t":"ColWidth","c":0.5}]],` +
		`[` + noattr + `,[` + fmt.Sprintf(row, "h1", "h2") + `]],` +
		`[[` + noattr + `,0,[],[` + fmt.Sprintf(row, "a", "b") + `]]],` +
		`[` + noattr + `,[]]]}`
	blocks := strings.Join([]string{
		table,
		`{"t":"OrderedList","c":[[3,{"t":"LowerAlpha"},{"t":"Period"}],[[{"t":"Plain","c":[{"t":"Str","c":"x"}]}]]]}`,
		`{"t":"Figure","c":[["fig1",[],[]],[null,[{"t":"Plain","c":[{"t":"Str","c":"F"}]}]],` +
			`[{"t":"Plain","c":[{"t":"Image","c":[` + noattr + `,[],["a.png",""]]}]}]]}`,
		`{"t":"Para","c":[{"t":"Cite","c":[[{"citationId":"doe","citationPrefix":[],"citationSuffix":[],` +
			`"citationMode":{"t":"NormalCitation"},"citationNoteNum":1,"citationHash":0}],[{"t":"Str","c":"[@doe]"}]]}]}`,
		`{"t":"DefinitionList","c":[[[{"t":"Str","c":"T"}],[[{"t":"Plain","c":[{"t":"Str","c":"D"}]}]]]]}`,
		`{"t":"HorizontalRule"}`,
	}, ",")
	doc, err := ReadFrom(strings.NewReader(document(blocks, "")))
	require.NoError(t, err)
	require.Len(t, doc.Blocks, 6)

	tbl := doc.Blocks[0].(*Table)
	assert.Equal(t, "Cap", Stringify(&Div{Blocks: tbl.Caption.Long}))
	assert.Nil(t, tbl.Caption.Short)
	assert.Equal(t, []ColSpec{{AlignLeft, DefaultColWidth()}, {AlignRight, ColWidth{Width: 0.5}}}, tbl.Aligns)
	require.Len(t, tbl.Head.Rows, 1)
	assert.Equal(t, "h2", Stringify(tbl.Head.Rows[0].Cells[1]))
	require.Len(t, tbl.Bodies, 1)
	assert.Empty(t, tbl.Bodies[0].Head)
	assert.Equal(t, "a", Stringify(tbl.Bodies[0].Body[0].Cells[0]))
	assert.Equal(t, 1, tbl.Bodies[0].Body[0].Cells[0].ColSpan)
	assert.Empty(t, tbl.Foot.Rows)

	ol := doc.Blocks[1].(*OrderedList)
	assert.Equal(t, ListAttrs{3, LowerAlpha, Period}, ol.Attr)
	assert.Len(t, ol.Items, 1)

	fig := doc.Blocks[2].(*Figure)
	assert.Equal(t, "fig1", fig.Id)
	img := fig.Blocks[0].(*Plain).Inlines[0].(*Image)
	assert.Equal(t, "a.png", img.Target.Url)

	cite := doc.Blocks[3].(*Para).Inlines[0].(*Cite)
	require.Len(t, cite.Citations, 1)
	assert.Equal(t, "doe", cite.Citations[0].Id)
	assert.Equal(t, NormalCitation, cite.Citations[0].Mode)
	assert.Equal(t, 1, cite.Citations[0].NoteNum)

	dl := doc.Blocks[4].(*DefinitionList)
	require.Len(t, dl.Items, 1)
	assert.Equal(t, "T", StringifyInlines(dl.Items[0].Term))

	assert.Same(t, HR, doc.Blocks[5])
}

func TestReadMeta(t *testing.T) {
	doc, err := ReadFrom(strings.NewReader(document("", `{`+
		`"title":{"t":"MetaInlines","c":[{"t":"Str","c":"T"}]},`+
		`"draft":{"t":"MetaBool","c":true},`+
		`"article":{"t":"MetaMap","c":{"doi":{"t":"MetaString","c":"10.1/x"}}},`+
		`"keywords":{"t":"MetaList","c":[{"t":"MetaString","c":"a"},{"t":"MetaString","c":"b"}]}}`)))
	require.NoError(t, err)
	assert.Empty(t, doc.Blocks)

	assert.Equal(t, "T", Stringify(doc.Meta.Get("title")))
	assert.Equal(t, MetaBool(true), doc.Meta.Get("draft"))
	assert.Equal(t, MetaString("10.1/x"), doc.Meta.Get("article").(*MetaMap).Get("doi"))
	assert.Len(t, doc.Meta.Get("keywords").(*MetaList).Entries, 2)
	assert.Nil(t, doc.Meta.Get("missing"))

	var keys []string
	for _, e := range doc.Meta {
		keys = append(keys, e.Key)
	}
	assert.Equal(t, []string{"title", "draft", "article", "keywords"}, keys)
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.json")
	require.NoError(t, os.WriteFile(path, []byte(t1), 0o644))
	doc, err := ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, doc.Blocks, 8)

	require.NoError(t, os.WriteFile(path, []byte(`{"blocks":`), 0o644))
	_, err = ReadFile(path)
	assert.ErrorContains(t, err, "doc.json")

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func BenchmarkRead(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := ReadFrom(strings.NewReader(t1)); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkQuery(b *testing.B) {
	doc, err := ReadFrom(strings.NewReader(t1))
	if err != nil {
		b.Fatal(err)
	}
	var n int
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Query(doc, func(*Header) WalkResult {
			n++
			return WalkContinue
		})
	}
	_ = n
}
