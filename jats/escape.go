package jats

import (
	"math"
	"strconv"
	"strings"
)

var escaper = strings.NewReplacer(
	`<`, "&lt;",
	`>`, "&gt;",
	`&`, "&amp;",
	`"`, "&quot;",
	`'`, "&#39;",
)

// Escape replaces the five XML reserved characters with entities. It is not
// idempotent: escaping escaped text escapes the ampersands again.
func Escape(s string) string {
	return escaper.Replace(s)
}

// Attr is a single XML attribute.
type Attr struct {
	Key   string
	Value string
}

// FormatAttrs serializes attrs in order as ` key="value"` pairs. Values are
// escaped; attributes with empty values are left out.
func FormatAttrs(attrs ...Attr) string {
	var sb strings.Builder
	for _, a := range attrs {
		if a.Value == "" {
			continue
		}
		sb.WriteByte(' ')
		sb.WriteString(a.Key)
		sb.WriteString(`="`)
		sb.WriteString(Escape(a.Value))
		sb.WriteByte('"')
	}
	return sb.String()
}

// attrs is FormatAttrs over key, value pairs.
func attrs(kv ...string) string {
	res := make([]Attr, 0, len(kv)/2)
	for i := 0; i < len(kv)-1; i += 2 {
		res = append(res, Attr{kv[i], kv[i+1]})
	}
	return FormatAttrs(res...)
}

func tag(name, content string, kv ...string) string {
	return "<" + name + attrs(kv...) + ">" + content + "</" + name + ">"
}

func emptyTag(name string, kv ...string) string {
	return "<" + name + attrs(kv...) + "/>"
}

// percent formats a width fraction as a percentage with one decimal place.
func percent(f float64) string {
	return strconv.FormatFloat(math.Round(f*1000)/10, 'f', -1, 64) + "%"
}
