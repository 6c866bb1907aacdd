package jats

import (
	"sort"
	"strconv"
	"strings"

	pandoc "github.com/growler/go-pandoc-jats"
)

// Meta converts document metadata to nested template data. Strings are
// escaped, inlines and blocks are rendered. Footnotes in metadata go to the
// writer's registry unless SkipNotes is set.
func (w *Writer) Meta(m pandoc.Meta) map[string]any {
	res := make(map[string]any, len(m))
	for _, e := range m {
		res[e.Key] = w.metaValue(e.Value)
	}
	return res
}

func (w *Writer) metaValue(v pandoc.MetaValue) any {
	switch v := v.(type) {
	case pandoc.MetaString:
		return Escape(string(v))
	case pandoc.MetaBool:
		return bool(v)
	case *pandoc.MetaInlines:
		return w.Inlines(v.Inlines)
	case *pandoc.MetaBlocks:
		return w.Blocks(v.Blocks)
	case *pandoc.MetaList:
		res := make([]any, len(v.Entries))
		for i, e := range v.Entries {
			res[i] = w.metaValue(e)
		}
		return res
	case *pandoc.MetaMap:
		return w.Meta(v.Entries)
	default:
		w.unsupported(v)
		return nil
	}
}

// Flatten merges nested maps into the top level under "_"-joined keys:
// {"article": {"doi": x}} becomes {"article_doi": x}. Lists, and maps whose
// keys are exactly 1..N, are kept whole under their key, the latter turned
// into lists. "-" in keys becomes "_" at every depth so that every key is
// usable as a template variable. Keys are processed in sorted order, so
// collisions resolve the same way every time.
func Flatten(data map[string]any) map[string]any {
	out := make(map[string]any, len(data))
	flattenInto(out, "", data)
	return out
}

func flattenInto(out map[string]any, prefix string, m map[string]any) {
	for _, k := range sortedKeys(m) {
		key := normalizeKey(k)
		if prefix != "" {
			key = prefix + "_" + key
		}
		if sub, ok := m[k].(map[string]any); ok {
			if lst, ok := arrayLike(sub); ok {
				out[key] = normalizeValue(lst)
			} else {
				flattenInto(out, key, sub)
			}
			continue
		}
		out[key] = normalizeValue(m[k])
	}
}

func normalizeKey(k string) string {
	return strings.ReplaceAll(k, "-", "_")
}

func normalizeValue(v any) any {
	switch v := v.(type) {
	case map[string]any:
		if lst, ok := arrayLike(v); ok {
			return normalizeValue(lst)
		}
		res := make(map[string]any, len(v))
		for _, k := range sortedKeys(v) {
			res[normalizeKey(k)] = normalizeValue(v[k])
		}
		return res
	case []any:
		res := make([]any, len(v))
		for i, e := range v {
			res[i] = normalizeValue(e)
		}
		return res
	default:
		return v
	}
}

// arrayLike returns the values of m in key order when its keys are exactly
// the integers 1..len(m).
func arrayLike(m map[string]any) ([]any, bool) {
	if len(m) == 0 {
		return nil, false
	}
	res := make([]any, len(m))
	for k, v := range m {
		n, err := strconv.Atoi(k)
		if err != nil || n < 1 || n > len(m) || strconv.Itoa(n) != k {
			return nil, false
		}
		res[n-1] = v
	}
	return res, true
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
