package adapter

import "github.com/feedui/panelgen/pkg/types"

// RegisterAll wires the built-in route adapters into a registry. Called once
// during process startup; no adapter registers itself as an import side
// effect.
func RegisterAll(r *Registry) {
	for _, reg := range builtinAdapters {
		r.Register(reg.pattern, reg.fn)
	}
}

var builtinAdapters = []struct {
	pattern string
	fn      Func
}{
	{"/forum/topics", ForumTopics},
	{"/trending/repositories", TrendingRepositories},
	{"/hot/search", HotSearch},
	{"/news/articles", NewsArticles},
	{"/metrics/timeseries", MetricsTimeseries},
}

// listPreset is a named sizing preset for list-panel plans.
type listPreset struct {
	maxItems int
	span     int
	compact  bool
}

var listPresets = map[string]listPreset{
	"compact":  {maxItems: 5, span: 3, compact: true},
	"normal":   {maxItems: 10, span: 6, compact: false},
	"expanded": {maxItems: 20, span: 12, compact: false},
}

// listPlan builds a ListPanel block plan with the given preset and prop
// bindings.
func listPlan(preset string, props map[string]string, confidence float64) types.BlockPlan {
	p, ok := listPresets[preset]
	if !ok {
		p = listPresets["normal"]
	}
	return types.BlockPlan{
		Component: "ListPanel",
		Props:     props,
		Options: map[string]any{
			"max_items": p.maxItems,
			"compact":   p.compact,
		},
		Interactions: []types.Interaction{{Type: "open", Label: "Open"}},
		LayoutHint:   &types.LayoutHint{Span: p.span},
		Confidence:   confidence,
	}
}
