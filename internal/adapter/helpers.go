package adapter

import (
	"strconv"
	"strings"

	"github.com/itchyny/gojq"
	"golang.org/x/net/html"
	"golang.org/x/text/width"

	"github.com/feedui/panelgen/pkg/record"
)

// Shared field-mapping helpers used by the per-route adapters.

// StripHTML removes markup from a fragment, keeping text content with
// whitespace collapsed. Invalid markup degrades to whatever text the
// tokenizer can recover, never an error.
func StripHTML(s string) string {
	if !strings.ContainsRune(s, '<') {
		return strings.Join(strings.Fields(s), " ")
	}

	var b strings.Builder
	tokenizer := html.NewTokenizer(strings.NewReader(s))
	for {
		tt := tokenizer.Next()
		if tt == html.ErrorToken {
			break
		}
		if tt == html.TextToken {
			b.Write(tokenizer.Text())
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Truncate shortens a string to at most maxWidth display columns, counting
// East Asian wide runes as two, and appends an ellipsis when it cut anything.
func Truncate(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}

	cols := 0
	for i, r := range s {
		w := 1
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			w = 2
		}
		if cols+w > maxWidth {
			return strings.TrimRight(s[:i], " ") + "…"
		}
		cols += w
	}
	return s
}

// magnitudeSuffixes scale a parsed number; CJK counts alongside the usual
// metric shorthand seen in feed payloads.
var magnitudeSuffixes = []struct {
	suffix string
	factor float64
}{
	{"亿", 1e8},
	{"万", 1e4},
	{"w", 1e4},
	{"k", 1e3},
	{"m", 1e6},
}

// CoerceInt parses a numeric value tolerant of thousands separators and
// magnitude suffixes: "1,234" -> 1234, "1.2k" -> 1200, "3万" -> 30000.
func CoerceInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	case float32:
		return int(n), true
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0, false
		}
		s = strings.NewReplacer(",", "", "_", "", " ", "").Replace(s)

		factor := 1.0
		lower := strings.ToLower(s)
		for _, m := range magnitudeSuffixes {
			if strings.HasSuffix(lower, m.suffix) {
				factor = m.factor
				s = s[:len(s)-len(m.suffix)]
				break
			}
		}

		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return int(f * factor), true
	}
	return 0, false
}

// CoerceFloat parses a numeric value with the same tolerance as CoerceInt.
func CoerceFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		i, ok := CoerceInt(n)
		if ok {
			// Preserve fractional values that CoerceInt would floor.
			s := strings.NewReplacer(",", "", "_", "", " ", "").Replace(strings.TrimSpace(n))
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				return f, true
			}
			return float64(i), true
		}
	}
	return 0, false
}

// wrapperKeys are tried in order when a payload nests its item list inside an
// envelope object.
var wrapperKeys = []string{"items", "list", "data", "results", "entries", "children"}

// CollectItems locates the item list inside a raw payload: a top-level
// array, a well-known wrapper key (one level of nesting deep), or, when a
// gojq expression is supplied, whatever that expression yields.
func CollectItems(raw any, jqPath string) []any {
	if jqPath != "" {
		return collectWithJQ(raw, jqPath)
	}

	switch v := raw.(type) {
	case []any:
		return v
	case map[string]any:
		for _, key := range wrapperKeys {
			if arr, ok := v[key].([]any); ok {
				return arr
			}
		}
		// One more level: {"data": {"list": [...]}} envelopes.
		for _, key := range wrapperKeys {
			if inner, ok := v[key].(map[string]any); ok {
				for _, innerKey := range wrapperKeys {
					if arr, ok := inner[innerKey].([]any); ok {
						return arr
					}
				}
			}
		}
	}
	return nil
}

// collectWithJQ evaluates a gojq expression against the payload and collects
// the non-nil values it yields. Arrays returned whole are flattened.
func collectWithJQ(raw any, expression string) []any {
	query, err := gojq.Parse(expression)
	if err != nil {
		return nil
	}
	code, err := gojq.Compile(query)
	if err != nil {
		return nil
	}

	var items []any
	iter := code.Run(raw)
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if _, isErr := v.(error); isErr || v == nil {
			continue
		}
		if arr, ok := v.([]any); ok {
			items = append(items, arr...)
			continue
		}
		items = append(items, v)
	}
	return items
}

// FirstString returns the first non-empty string among the named fields.
func FirstString(rec record.Record, keys ...string) string {
	for _, key := range keys {
		if s := rec.String(key); s != "" {
			return s
		}
	}
	return ""
}

// NormalizeAuthor extracts an author name across the raw shapes feeds use:
// a plain string, or an object with name/username/login.
func NormalizeAuthor(v any) string {
	switch a := v.(type) {
	case string:
		return a
	case map[string]any:
		rec := record.Record(a)
		return FirstString(rec, "name", "username", "login", "display_name")
	}
	return ""
}

// normalizeRaws converts a raw heterogeneous list into records.
func normalizeRaws(raws []any) []record.Record {
	return record.NormalizeAll(raws)
}
