package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/growler/go-pandoc-jats/jats"
	"github.com/growler/go-pandoc-jats/template"
)

// Config holds the settings of a single conversion.
type Config struct {
	// In is the input path; empty means stdin.
	In string
	// Out is the output path; empty means stdout.
	Out string
	// From is the input format. Empty means guess from the extension of In;
	// stdin is read as markdown.
	From string
	// Template is a template name or a path to a template file.
	Template string
	// TemplateDir is searched before the working directory and the
	// built-in templates.
	TemplateDir string
	// Pandoc is the pandoc executable used for formats other than json and
	// markdown. Empty means look it up in PATH.
	Pandoc string
	// LogLevel is one of debug, info, warn or error.
	LogLevel string
	// Variables are extra template variables, applied over the metadata.
	Variables map[string]any
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Template:  template.DefaultName,
		LogLevel:  "info",
		Variables: map[string]any{},
	}
}

// ConfigFromEnvironment creates a configuration from environment variables
func ConfigFromEnvironment() *Config {
	config := DefaultConfig()

	if val := os.Getenv("PANDOC_JATS_TEMPLATE"); val != "" {
		config.Template = val
	}
	if val := os.Getenv("PANDOC_JATS_TEMPLATE_DIR"); val != "" {
		config.TemplateDir = val
	}
	if val := os.Getenv("PANDOC_JATS_FROM"); val != "" {
		config.From = val
	}
	if val := os.Getenv("PANDOC_JATS_PANDOC"); val != "" {
		config.Pandoc = val
	}
	if val := os.Getenv("PANDOC_JATS_LOG_LEVEL"); val != "" {
		config.LogLevel = val
	}

	return config
}

// Level maps LogLevel to a slog level. Unknown names mean info.
func (c *Config) Level() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Format returns the effective input format.
func (c *Config) Format() string {
	if c.From != "" {
		return strings.ToLower(c.From)
	}
	switch strings.ToLower(filepath.Ext(c.In)) {
	case ".json":
		return "json"
	case ".md", ".markdown", "":
		return "markdown"
	default:
		// let pandoc guess from the file name
		return ""
	}
}

// Loader returns the template loader for this configuration along with the
// name to look up. A template given as a path to an existing file is loaded
// from its directory.
func (c *Config) Loader(logger *slog.Logger) (*template.Loader, string) {
	name := c.Template
	var dirs []string
	if c.TemplateDir != "" {
		dirs = append(dirs, c.TemplateDir)
	}
	if fi, err := os.Stat(name); err == nil && !fi.IsDir() {
		dirs = append([]string{filepath.Dir(name)}, dirs...)
		name = filepath.Base(name)
	}
	dirs = append(dirs, ".")
	return &template.Loader{Dirs: dirs, Logger: logger}, name
}

// varsFlag collects repeatable -V key=value flags. A bare key sets true.
// Values are plain text and are stored escaped. A dotted key such as
// article.type sets a field of a nested map.
type varsFlag map[string]any

func (v varsFlag) String() string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return strings.Join(keys, ",")
}

func (v varsFlag) Set(s string) error {
	key, val, ok := strings.Cut(s, "=")
	path := strings.Split(strings.TrimSpace(key), ".")
	for _, p := range path {
		if p == "" {
			return fmt.Errorf("invalid variable %q, expected key=value", s)
		}
	}
	m := map[string]any(v)
	for _, p := range path[:len(path)-1] {
		sub, isMap := m[p].(map[string]any)
		if !isMap {
			sub = map[string]any{}
			m[p] = sub
		}
		m = sub
	}
	key = path[len(path)-1]
	if !ok {
		m[key] = true
		return nil
	}
	val = jats.Escape(val)
	// repeated keys build a list, as pandoc does
	switch prev := m[key].(type) {
	case nil:
		m[key] = val
	case []any:
		m[key] = append(prev, val)
	default:
		m[key] = []any{prev, val}
	}
	return nil
}
