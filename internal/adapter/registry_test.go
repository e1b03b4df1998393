package adapter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feedui/panelgen/pkg/types"
)

// markerAdapter returns an adapter tagging its results so tests can tell which
// one the registry resolved.
func markerAdapter(name string) Func {
	return func(ctx *Context, source types.SourceInfo, raws []any) (*types.AdapterResult, error) {
		return &types.AdapterResult{Stats: map[string]any{"adapter": name}}, nil
	}
}

func resolveName(t *testing.T, r *Registry, route string) string {
	t.Helper()
	result, err := r.Resolve(route)(&Context{}, types.SourceInfo{Route: route}, nil)
	require.NoError(t, err)
	if name, ok := result.Stats["adapter"].(string); ok {
		return name
	}
	return "default"
}

func TestNormalizeRoute(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"", "/"},
		{"/", "/"},
		{"forum", "/forum"},
		{"/forum/", "/forum"},
		{"/forum/topics", "/forum/topics"},
		{"/forum//", "/forum"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, NormalizeRoute(tt.in), "input %q", tt.in)
	}
}

func TestRegistry_LongestPrefixWins(t *testing.T) {
	r := NewRegistry()
	r.Register("/forum", markerAdapter("forum"))
	r.Register("/forum/topics", markerAdapter("topics"))

	assert.Equal(t, "topics", resolveName(t, r, "/forum/topics"))
	assert.Equal(t, "topics", resolveName(t, r, "/forum/topics/123"))
	assert.Equal(t, "forum", resolveName(t, r, "/forum"))
	assert.Equal(t, "forum", resolveName(t, r, "/forum/other"))
}

func TestRegistry_PrefixMatchesOnSegmentBoundary(t *testing.T) {
	r := NewRegistry()
	r.Register("/forum", markerAdapter("forum"))

	// "/forumx" shares the byte prefix but not the path segment.
	assert.Equal(t, "default", resolveName(t, r, "/forumx"))
}

func TestRegistry_ReplaceSamePattern(t *testing.T) {
	r := NewRegistry()
	r.Register("/forum", markerAdapter("old"))
	r.Register("/forum", markerAdapter("new"))

	assert.Equal(t, "new", resolveName(t, r, "/forum"))
	assert.Len(t, r.Patterns(), 1)
}

func TestRegistry_PatternsLongestFirst(t *testing.T) {
	r := NewRegistry()
	r.Register("/a", markerAdapter("a"))
	r.Register("/forum/topics", markerAdapter("topics"))
	r.Register("/forum", markerAdapter("forum"))

	assert.Equal(t, []string{"/forum/topics", "/forum", "/a"}, r.Patterns())
}

func TestRegistry_DefaultAdapterPassesThrough(t *testing.T) {
	r := NewRegistry()

	raws := []any{
		map[string]any{"title": "untouched"},
		"scalar",
	}
	result, err := r.Resolve("/unknown/route")(&Context{}, types.SourceInfo{}, raws)
	require.NoError(t, err)

	require.Len(t, result.Records, 2)
	assert.Equal(t, "untouched", result.Records[0].String("title"))
	assert.Equal(t, "scalar", result.Records[1].String("value"))
	assert.Empty(t, result.Plans)

	assert.Equal(t, true, result.Stats["using_default_adapter"])
	warning, _ := result.Stats["warning"].(string)
	assert.Contains(t, warning, "/unknown/route")
}

func TestContextWants(t *testing.T) {
	assert.True(t, (&Context{}).Wants("ListPanel"), "empty subset wants everything")
	assert.True(t, (*Context)(nil).Wants("ListPanel"))

	ctx := &Context{Components: []string{"LineChart"}}
	assert.True(t, ctx.Wants("LineChart"))
	assert.False(t, ctx.Wants("ListPanel"))
}

func TestRegisterAll(t *testing.T) {
	r := NewRegistry()
	RegisterAll(r)

	patterns := r.Patterns()
	assert.Contains(t, patterns, "/forum/topics")
	assert.Contains(t, patterns, "/trending/repositories")
	assert.Contains(t, patterns, "/hot/search")
	assert.Contains(t, patterns, "/news/articles")
	assert.Contains(t, patterns, "/metrics/timeseries")
}
