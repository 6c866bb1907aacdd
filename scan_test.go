package pandoc

import (
	"bytes"
	"encoding/json"
	"io"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestString(t *testing.T) {
	var (
		v = []byte(`"`)
		p scanner
	)
	// walk a multibyte rune across the initial buffer boundary
	for i := 0; i < 32; i++ {
		v = append(v[:i+1], ' ')
		v = append(v, `💩"`...)
		p.init(bytes.NewReader(v))
		tok := p.next()
		require.Equal(t, tokStr, tok, "error: %v", p.err)
		assert.Equal(t, string(v[1:len(v)-1]), p.string())
	}
}

func TestStringEscapes(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{`"plain"`, "plain"},
		{`"a\"b"`, `a"b`},
		{`"\\\/\n\t"`, "\\/\n\t"},
		{`"caf\u00e9"`, "café"},
		{`"\ud83d\ude00!"`, "😀!"},
		{`"` + strings.Repeat("x", 300) + `\n"`, strings.Repeat("x", 300) + "\n"},
	}
	for _, tt := range tests {
		var p scanner
		p.init(strings.NewReader(tt.in))
		require.Equal(t, tokStr, p.next(), "%s: %v", tt.in, p.err)
		assert.Equal(t, tt.want, p.string(), tt.in)
	}

	var p scanner
	p.init(strings.NewReader(`"\x"`))
	assert.Equal(t, tokErr, p.next())
}

func TestScannerTokens(t *testing.T) {
	const v = `[0, 1 ,false,"s",null,true,{"k":[]}]`
	want := []token{
		tokLBrack, tokNumber, tokComma, tokNumber, tokComma, tokFalse, tokComma,
		tokStr, tokComma, tokNull, tokComma, tokTrue, tokComma,
		tokLBrace, tokStr, tokColon, tokLBrack, tokRBrack, tokRBrace, tokRBrack,
	}
	var (
		p   scanner
		got []token
	)
	p.init(strings.NewReader(v))
	for {
		tok := p.next()
		if tok == tokEOF {
			break
		}
		require.NotEqual(t, tokErr, tok, "error: %v", p.err)
		got = append(got, tok)
	}
	assert.Equal(t, want, got)
}

func TestSyntaxError(t *testing.T) {
	tests := []struct {
		name, in, msg string
	}{
		{"unknown block", `{"pandoc-api-version":[1,23,1],"meta":{},"blocks":[{"t":"Nope"}]}`, "unknown block type"},
		{"truncated", `{"pandoc-api-version":[1,23,1],"meta":{},"blocks":[`, "pandoc json"},
		{"old version", `{"pandoc-api-version":[1,22],"meta":{},"blocks":[]}`, "unsupported pandoc version"},
		{"unknown field", `{"version":1}`, "unknown pandoc field"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadFrom(strings.NewReader(tt.in))
			require.Error(t, err)
			var se *SyntaxError
			assert.ErrorAs(t, err, &se)
			assert.ErrorContains(t, err, tt.msg)
		})
	}
}

func testD() []byte {
	var b bytes.Buffer
	b.WriteString("[null")
	for i := 1; i < 1000; i++ {
		b.WriteByte(',')
		b.WriteString("true")
		b.WriteByte(',')
		b.WriteString("null")
		b.WriteByte(',')
		b.WriteString("false")
	}
	b.WriteByte(']')
	return b.Bytes()
}

func testD1() []byte {
	var b bytes.Buffer
	b.WriteString("[0")
	for i := 1; i < 1000; i++ {
		b.WriteByte(',')
		b.WriteString(strconv.FormatInt(int64(i), 10))
	}
	b.WriteByte(']')
	return b.Bytes()
}

func BenchmarkScanner(b *testing.B) {
	for _, data := range [][]byte{testD(), testD1()} {
		var p scanner
		rdr := bytes.NewReader(nil)
		b.Run(strconv.Itoa(len(data)), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				rdr.Reset(data)
				p.init(rdr)
				for {
					if tok := p.next(); tok == tokEOF {
						break
					} else if tok == tokErr {
						b.Fatal(p.err)
					}
				}
			}
		})
	}
}

func BenchmarkScannerStdStream(b *testing.B) {
	v := testD()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		j := json.NewDecoder(bytes.NewReader(v))
		for {
			if _, err := j.Token(); err != nil {
				if err == io.EOF {
					break
				}
				b.Fatal(err)
			}
		}
	}
}

func FuzzScanner(f *testing.F) {
	f.Add([]byte(`{"a":0,"b":0,"c":0,"d":0,"e":0,"f":[0,1E1],"g":null,"h":true}`))
	f.Add([]byte(`["é😀", "\ud800", "\u00e9"]`))
	f.Fuzz(func(t *testing.T, b []byte) {
		var p scanner
		p.init(bytes.NewReader(b))
		for {
			tok := p.next()
			if tok == tokEOF || tok == tokErr {
				break
			}
		}
	})
}
