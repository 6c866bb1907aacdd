package template

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sync"
)

// Ext is the extension tried when a template name is given without one.
const Ext = ".jats"

// DefaultName is the template used when no name is given.
const DefaultName = "default"

// Fallback is the template used when a name resolves nowhere.
const Fallback = "$body$"

// ErrNotFound is returned by Loader.Load when no search location has the
// requested template.
var ErrNotFound = errors.New("template not found")

//go:embed templates/*.jats
var builtin embed.FS

// Builtin returns the templates shipped with the package.
func Builtin() fs.FS {
	sub, err := fs.Sub(builtin, "templates")
	if err != nil {
		panic(err)
	}
	return sub
}

// Loader resolves template names to template text. Dirs are searched in
// order, then FS. For each location name is tried as given and then with
// Ext appended.
//
// Loaded templates are cached; a Loader is safe for concurrent use.
type Loader struct {
	Dirs   []string
	FS     fs.FS // nil means Builtin()
	Logger *slog.Logger

	mu    sync.RWMutex
	cache map[string]*Template
}

func (l *Loader) logger() *slog.Logger {
	if l.Logger != nil {
		return l.Logger
	}
	return slog.Default()
}

func candidates(name string) []string {
	if name == "" {
		name = DefaultName
	}
	if path.Ext(name) == Ext {
		return []string{name}
	}
	return []string{name, name + Ext}
}

// Load returns the text of the named template.
func (l *Loader) Load(name string) (string, error) {
	cands := candidates(name)
	for _, dir := range l.Dirs {
		for _, c := range cands {
			p := filepath.Join(dir, filepath.FromSlash(c))
			data, err := os.ReadFile(p)
			if err == nil {
				l.logger().Debug("template loaded", "name", name, "path", p)
				return string(data), nil
			}
			if !errors.Is(err, fs.ErrNotExist) {
				return "", fmt.Errorf("template %s: %w", name, err)
			}
		}
	}
	fsys := l.FS
	if fsys == nil {
		fsys = Builtin()
	}
	for _, c := range cands {
		if !fs.ValidPath(c) {
			continue
		}
		data, err := fs.ReadFile(fsys, c)
		if err == nil {
			l.logger().Debug("template loaded", "name", name, "fs", c)
			return string(data), nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("template %s: %w", name, err)
		}
	}
	return "", fmt.Errorf("%w: %s", ErrNotFound, name)
}

// Lookup returns the text of the named template, or Fallback when it cannot
// be loaded. It never fails.
func (l *Loader) Lookup(name string) string {
	text, err := l.Load(name)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			l.logger().Debug("template not found, using fallback", "name", name)
		} else {
			l.logger().Warn("template unreadable, using fallback", "name", name, "error", err)
		}
		return Fallback
	}
	return text
}

// Template returns the parsed named template, loading it on first use.
func (l *Loader) Template(name string) *Template {
	l.mu.RLock()
	t, ok := l.cache[name]
	l.mu.RUnlock()
	if ok {
		return t
	}
	t = Parse(l.Lookup(name))
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cache == nil {
		l.cache = make(map[string]*Template)
	}
	l.cache[name] = t
	return t
}
