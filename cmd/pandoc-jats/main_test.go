package main

import (
	"bytes"
	"context"
	"flag"
	"io"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gotest.tools/v3/fs"
	"gotest.tools/v3/golden"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

const jsonDoc = `{"pandoc-api-version":[1,23,1],"meta":{},` +
	`"blocks":[{"t":"Para","c":[{"t":"Str","c":"Hi"}]}]}`

func TestConfigFromEnvironment(t *testing.T) {
	t.Setenv("PANDOC_JATS_TEMPLATE", "plos")
	t.Setenv("PANDOC_JATS_TEMPLATE_DIR", "/tmpl")
	t.Setenv("PANDOC_JATS_FROM", "docx")
	t.Setenv("PANDOC_JATS_PANDOC", "/bin/pandoc")
	t.Setenv("PANDOC_JATS_LOG_LEVEL", "WARN")

	c := ConfigFromEnvironment()
	assert.Equal(t, "plos", c.Template)
	assert.Equal(t, "/tmpl", c.TemplateDir)
	assert.Equal(t, "docx", c.From)
	assert.Equal(t, "/bin/pandoc", c.Pandoc)
	assert.Equal(t, slog.LevelWarn, c.Level())
}

func TestDefaultConfig(t *testing.T) {
	c := DefaultConfig()
	assert.Equal(t, "default", c.Template)
	assert.Equal(t, slog.LevelInfo, c.Level())
	assert.Empty(t, c.Variables)
}

func TestFormat(t *testing.T) {
	tests := []struct {
		in, from, want string
	}{
		{"", "", "markdown"},
		{"a.json", "", "json"},
		{"a.JSON", "", "json"},
		{"a.md", "", "markdown"},
		{"a.docx", "", ""},
		{"a.txt", "RST", "rst"},
	}
	for _, tt := range tests {
		c := &Config{In: tt.in, From: tt.from}
		assert.Equal(t, tt.want, c.Format(), "%s/%s", tt.in, tt.from)
	}
}

func TestParseFlags(t *testing.T) {
	c := DefaultConfig()
	c.Template = "from-env"
	err := parseFlags(c, flag.NewFlagSet("test", flag.ContinueOnError), []string{
		"-out", "a.xml", "-V", "title=T", "-V", "kw=a", "-V", "kw=b", "-V", "draft",
		"-V", "note=A & <B>", "-V", "article.type=review", "-V", "article.doi=10.1/x",
		"-debug", "in.md",
	})
	require.NoError(t, err)
	assert.Equal(t, "in.md", c.In)
	assert.Equal(t, "a.xml", c.Out)
	assert.Equal(t, "from-env", c.Template)
	assert.Equal(t, slog.LevelDebug, c.Level())
	assert.Equal(t, map[string]any{
		"title": "T",
		"kw":    []any{"a", "b"},
		"draft": true,
		"note":  "A &amp; &lt;B&gt;",
		"article": map[string]any{
			"type": "review",
			"doi":  "10.1/x",
		},
	}, c.Variables)

	for _, arg := range []string{"=x", "a.=x", ".a=x"} {
		fset := flag.NewFlagSet("test", flag.ContinueOnError)
		fset.SetOutput(io.Discard)
		assert.Error(t, parseFlags(DefaultConfig(), fset, []string{"-V", arg}), arg)
	}
}

func TestRunVariables(t *testing.T) {
	c := DefaultConfig()
	err := parseFlags(c, flag.NewFlagSet("test", flag.ContinueOnError), []string{
		"-V", "title=A & B", "-V", "article.type=review-article",
	})
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), c, strings.NewReader("Hi\n"), &out, discard))
	assert.Contains(t, out.String(), `article-type="review-article"`)
	assert.Contains(t, out.String(), "<article-title>A &amp; B</article-title>")
	assert.NotContains(t, out.String(), "A & B")
}

func TestRunMarkdownFile(t *testing.T) {
	dir := fs.NewDir(t, "pandoc-jats",
		fs.WithFile("in.md", "# Intro\n\nHi\n"),
		fs.WithFile("body.jats", "$body$"),
	)
	defer dir.Remove()

	c := DefaultConfig()
	c.In = dir.Join("in.md")
	c.Out = dir.Join("out.xml")
	c.Template = dir.Join("body.jats")
	require.NoError(t, run(context.Background(), c, nil, nil, discard))

	data, err := os.ReadFile(c.Out)
	require.NoError(t, err)
	golden.Assert(t, string(data), "markdown.golden")
}

func TestRunJSONStdin(t *testing.T) {
	dir := fs.NewDir(t, "pandoc-jats", fs.WithFile("wrap.jats", "$title$|$body$"))
	defer dir.Remove()

	c := DefaultConfig()
	c.From = "json"
	c.Template = "wrap"
	c.TemplateDir = dir.Path()
	c.Variables["title"] = "X"

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), c, strings.NewReader(jsonDoc), &out, discard))
	assert.Equal(t, "X|<sec>\n<title></title>\n<p>Hi</p>\n</sec>\n", out.String())
}

func TestRunErrors(t *testing.T) {
	c := DefaultConfig()
	c.In = "does-not-exist.json"
	assert.Error(t, run(context.Background(), c, nil, io.Discard, discard))

	c = DefaultConfig()
	c.From = "json"
	err := run(context.Background(), c, strings.NewReader(`{"blocks":`), io.Discard, discard)
	assert.Error(t, err)
}
