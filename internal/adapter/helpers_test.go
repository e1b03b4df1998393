package adapter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/feedui/panelgen/pkg/record"
)

func TestStripHTML(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		expected string
	}{
		{"plain text", "hello world", "hello world"},
		{"tags removed", "<p>Hello <b>world</b></p>", "Hello world"},
		{"whitespace collapsed", "hello\n\t  world", "hello world"},
		{"nested markup", `<div><a href="x">link</a> text</div>`, "link text"},
		{"unclosed tag degrades", "<p>partial", "partial"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, StripHTML(tt.in))
		})
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		width    int
		expected string
	}{
		{"fits", "hello", 10, "hello"},
		{"exact fit", "hello", 5, "hello"},
		{"cut with ellipsis", "hello world", 8, "hello wo…"},
		{"wide runes count double", "你好世界", 4, "你好…"},
		{"mixed width", "go语言", 4, "go语…"},
		{"zero width", "hello", 0, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Truncate(tt.in, tt.width))
		})
	}
}

func TestCoerceInt(t *testing.T) {
	tests := []struct {
		name     string
		in       any
		expected int
		ok       bool
	}{
		{"int", 42, 42, true},
		{"float", 3.9, 3, true},
		{"plain string", "17", 17, true},
		{"thousands separator", "1,234", 1234, true},
		{"underscore separator", "1_000", 1000, true},
		{"kilo suffix", "1.2k", 1200, true},
		{"mega suffix", "2m", 2000000, true},
		{"wan suffix", "3万", 30000, true},
		{"wan shorthand", "120w", 1200000, true},
		{"yi suffix", "1亿", 100000000, true},
		{"garbage", "abc", 0, false},
		{"empty", "", 0, false},
		{"nil", nil, 0, false},
		{"bool", true, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := CoerceInt(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestCoerceFloat(t *testing.T) {
	got, ok := CoerceFloat("2.5")
	assert.True(t, ok)
	assert.Equal(t, 2.5, got)

	got, ok = CoerceFloat(3)
	assert.True(t, ok)
	assert.Equal(t, 3.0, got)

	_, ok = CoerceFloat("n/a")
	assert.False(t, ok)
}

func TestCollectItems(t *testing.T) {
	items := []any{map[string]any{"a": 1}, map[string]any{"a": 2}}

	t.Run("top-level array", func(t *testing.T) {
		assert.Equal(t, items, CollectItems(items, ""))
	})

	t.Run("wrapper key", func(t *testing.T) {
		assert.Equal(t, items, CollectItems(map[string]any{"items": items}, ""))
		assert.Equal(t, items, CollectItems(map[string]any{"list": items}, ""))
	})

	t.Run("nested envelope", func(t *testing.T) {
		raw := map[string]any{"data": map[string]any{"list": items}}
		assert.Equal(t, items, CollectItems(raw, ""))
	})

	t.Run("no match", func(t *testing.T) {
		assert.Nil(t, CollectItems(map[string]any{"other": items}, ""))
		assert.Nil(t, CollectItems("scalar", ""))
	})

	t.Run("jq expression", func(t *testing.T) {
		raw := map[string]any{"series": map[string]any{"points": items}}
		assert.Equal(t, items, CollectItems(raw, ".series.points"))
	})

	t.Run("jq alternative fallthrough", func(t *testing.T) {
		raw := map[string]any{"points": items}
		assert.Equal(t, items, CollectItems(raw, ".series.points? // .points? // empty"))
	})

	t.Run("invalid jq yields nothing", func(t *testing.T) {
		assert.Nil(t, CollectItems(items, ".[|"))
	})
}

func TestFirstString(t *testing.T) {
	rec := record.Record{"a": "", "b": "value", "c": "other"}
	assert.Equal(t, "value", FirstString(rec, "a", "b", "c"))
	assert.Equal(t, "", FirstString(rec, "x", "y"))
}

func TestNormalizeAuthor(t *testing.T) {
	assert.Equal(t, "alice", NormalizeAuthor("alice"))
	assert.Equal(t, "bob", NormalizeAuthor(map[string]any{"username": "bob"}))
	assert.Equal(t, "carol", NormalizeAuthor(map[string]any{"name": "carol", "username": "ignored"}))
	assert.Equal(t, "", NormalizeAuthor(nil))
	assert.Equal(t, "", NormalizeAuthor(42))
}
