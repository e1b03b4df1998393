package panel

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feedui/panelgen/internal/adapter"
	"github.com/feedui/panelgen/internal/catalog"
	"github.com/feedui/panelgen/internal/contract"
	"github.com/feedui/panelgen/pkg/record"
	"github.com/feedui/panelgen/pkg/types"
)

func newTestGenerator(t *testing.T, opts Options) *Generator {
	t.Helper()
	registry := adapter.NewRegistry()
	adapter.RegisterAll(registry)
	validator, err := contract.NewValidator(0)
	require.NoError(t, err)
	return New(registry, catalog.Default(), validator, opts)
}

func forumRequest() *types.GenerateRequest {
	return &types.GenerateRequest{
		Blocks: []types.BlockInput{
			{
				BlockID: "blk-forum",
				Title:   "Forum",
				Source:  types.SourceInfo{Datasource: "forum", Route: "/forum/topics"},
				Records: []any{
					map[string]any{
						"id":         "t1",
						"title":      "First topic",
						"url":        "https://forum.example.com/t/1",
						"created_at": "2024-05-01T10:00:00Z",
					},
					map[string]any{
						"id":    "t2",
						"title": "Second topic",
						"link":  "https://forum.example.com/t/2",
					},
				},
			},
		},
	}
}

func TestGenerate_ForumTopics(t *testing.T) {
	g := newTestGenerator(t, Options{})

	result, err := g.Generate(forumRequest())
	require.NoError(t, err)

	payload := result.Payload
	assert.Equal(t, types.ModeReplace, payload.Mode)
	require.Len(t, payload.Blocks, 1)

	ui := payload.Blocks[0]
	assert.Equal(t, "blk-forum:plan-1", ui.ID)
	assert.Equal(t, "ListPanel", ui.Component)
	assert.Equal(t, "Forum", ui.Title)
	assert.Equal(t, 0.9, ui.Confidence)
	assert.Equal(t, "title", ui.Props["title"])

	require.NotNil(t, ui.Data)
	require.Len(t, ui.Data.Items, 2)
	assert.Equal(t, "First topic", ui.Data.Items[0].String("title"))
	assert.Equal(t, "https://forum.example.com/t/1", ui.Data.Items[0].String("link"))
	assert.Equal(t, 2, ui.Data.Stats["total"])
	assert.NotNil(t, ui.Data.Schema)

	require.Len(t, payload.Layout.Nodes, 1)
	assert.Equal(t, []string{"blk-forum:plan-1"}, payload.Layout.Nodes[0].Children)
	assert.Equal(t, 6, payload.Layout.Nodes[0].Props["w"])

	assert.Equal(t, []string{"blk-forum"}, result.Debug.BlockIDs)
	assert.Contains(t, result.Debug.RolesByBlock["blk-forum"], types.RoleTitle)
	assert.Equal(t, []string{"blk-forum:plan-1"}, result.Debug.DescriptorIDs)
}

func TestGenerate_TrendingProducesListAndChart(t *testing.T) {
	g := newTestGenerator(t, Options{})

	req := &types.GenerateRequest{
		Blocks: []types.BlockInput{
			{
				BlockID: "blk-trend",
				Source:  types.SourceInfo{Route: "/trending/repositories"},
				Records: []any{
					map[string]any{"full_name": "octo/spoon", "stars": "1,234"},
					map[string]any{"full_name": "other/repo", "stargazers_count": float64(890)},
				},
			},
		},
	}

	result, err := g.Generate(req)
	require.NoError(t, err)

	payload := result.Payload
	require.Len(t, payload.Blocks, 2)
	assert.Equal(t, "ListPanel", payload.Blocks[0].Component)
	assert.Equal(t, "LineChart", payload.Blocks[1].Component)

	// The chart's records were projected through its prop bindings.
	chart := payload.Blocks[1]
	require.NotNil(t, chart.Data)
	require.Len(t, chart.Data.Items, 2)
	assert.Equal(t, 1234, chart.Data.Items[0]["value"])
	assert.Equal(t, 1234, chart.Data.Stats["top_stars"])

	require.Len(t, payload.Layout.Nodes, 2)
}

func TestGenerate_PreferredComponentReordersPlans(t *testing.T) {
	g := newTestGenerator(t, Options{})

	req := &types.GenerateRequest{
		Blocks: []types.BlockInput{
			{
				BlockID:     "blk-trend",
				Source:      types.SourceInfo{Route: "/trending/repositories"},
				Preferences: &types.UserPreferences{PreferredComponent: "LineChart"},
				Records: []any{
					map[string]any{"full_name": "octo/spoon", "stars": 10},
				},
			},
		},
	}

	result, err := g.Generate(req)
	require.NoError(t, err)
	require.Len(t, result.Payload.Blocks, 2)
	assert.Equal(t, "LineChart", result.Payload.Blocks[0].Component)
	assert.Equal(t, "ListPanel", result.Payload.Blocks[1].Component)
}

func TestGenerate_UnknownRouteFallsBackToSuggester(t *testing.T) {
	g := newTestGenerator(t, Options{})

	req := &types.GenerateRequest{
		Blocks: []types.BlockInput{
			{
				BlockID: "blk-misc",
				Source:  types.SourceInfo{Route: "/totally/unknown"},
				Records: []any{
					map[string]any{"title": "A", "url": "https://x/1"},
					map[string]any{"title": "B", "url": "https://x/2"},
				},
			},
		},
	}

	result, err := g.Generate(req)
	require.NoError(t, err)

	payload := result.Payload
	require.NotEmpty(t, payload.Blocks)
	assert.Equal(t, "ListPanel", payload.Blocks[0].Component)
	assert.Equal(t, "blk-misc:listpanel", payload.Blocks[0].ID)

	require.NotNil(t, payload.Blocks[0].Data)
	assert.Equal(t, true, payload.Blocks[0].Data.Stats["using_default_adapter"])
	warning, _ := payload.Blocks[0].Data.Stats["warning"].(string)
	assert.Contains(t, warning, "/totally/unknown")
}

func TestGenerate_ContractViolationFailsRequest(t *testing.T) {
	registry := adapter.NewRegistry()
	registry.Register("/broken", func(ctx *adapter.Context, source types.SourceInfo, raws []any) (*types.AdapterResult, error) {
		return &types.AdapterResult{
			Records: record.NormalizeAll(raws),
			Plans: []types.BlockPlan{
				{Component: "ListPanel", Props: map[string]string{"title": "missing_field"}, Confidence: 0.8},
			},
		}, nil
	})
	validator, err := contract.NewValidator(0)
	require.NoError(t, err)
	g := New(registry, catalog.Default(), validator, Options{})

	req := &types.GenerateRequest{
		Blocks: []types.BlockInput{
			{
				BlockID: "blk-bad",
				Source:  types.SourceInfo{Route: "/broken"},
				Records: []any{map[string]any{"other": "x"}},
			},
		},
	}

	_, err = g.Generate(req)
	require.Error(t, err)

	var violation *contract.Violation
	require.True(t, errors.As(err, &violation))
	assert.Equal(t, "ListPanel", violation.Component)
}

func TestGenerate_AdapterErrorPropagates(t *testing.T) {
	registry := adapter.NewRegistry()
	registry.Register("/failing", func(ctx *adapter.Context, source types.SourceInfo, raws []any) (*types.AdapterResult, error) {
		return nil, errors.New("upstream shape changed")
	})
	validator, err := contract.NewValidator(0)
	require.NoError(t, err)
	g := New(registry, catalog.Default(), validator, Options{})

	req := &types.GenerateRequest{
		Blocks: []types.BlockInput{
			{BlockID: "blk-x", Source: types.SourceInfo{Route: "/failing"}},
		},
	}

	_, err = g.Generate(req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "blk-x")
	assert.Contains(t, err.Error(), "upstream shape changed")
}

func TestGenerate_RecordTrimming(t *testing.T) {
	g := newTestGenerator(t, Options{MaxRecords: 2})

	records := make([]any, 5)
	for i := range records {
		records[i] = map[string]any{"title": "T", "url": "https://x"}
	}
	req := &types.GenerateRequest{
		Blocks: []types.BlockInput{
			{BlockID: "blk-many", Source: types.SourceInfo{Route: "/unmatched"}, Records: records},
		},
	}

	result, err := g.Generate(req)
	require.NoError(t, err)

	require.NotEmpty(t, result.Payload.Blocks)
	data := result.Payload.Blocks[0].Data
	require.NotNil(t, data)
	assert.Len(t, data.Items, 2)
	assert.Equal(t, 5, data.Stats["total"])
}

func TestGenerate_CallerStatsWin(t *testing.T) {
	g := newTestGenerator(t, Options{})

	req := forumRequest()
	req.Blocks[0].Stats = map[string]any{"total": 99, "source_note": "cached"}

	result, err := g.Generate(req)
	require.NoError(t, err)

	data := result.Payload.Blocks[0].Data
	require.NotNil(t, data)
	assert.Equal(t, 99, data.Stats["total"])
	assert.Equal(t, "cached", data.Stats["source_note"])
}

func TestGenerate_AppendModeAndHistoryToken(t *testing.T) {
	g := newTestGenerator(t, Options{})

	req := forumRequest()
	req.Mode = types.ModeAppend
	req.HistoryToken = "cursor-7"

	result, err := g.Generate(req)
	require.NoError(t, err)

	assert.Equal(t, types.ModeAppend, result.Payload.Mode)
	assert.Equal(t, types.ModeAppend, result.Payload.Layout.Mode)
	assert.Equal(t, "cursor-7", result.Payload.Layout.HistoryToken)
}

func TestGenerate_LayoutNodeIDsUniqueAcrossRequests(t *testing.T) {
	g := newTestGenerator(t, Options{})

	seen := make(map[string]bool)
	for i := 0; i < 10; i++ {
		result, err := g.Generate(forumRequest())
		require.NoError(t, err)
		for _, node := range result.Payload.Layout.Nodes {
			assert.False(t, seen[node.ID], "node id %s repeated across requests", node.ID)
			seen[node.ID] = true
		}
	}
}

func TestAssembler(t *testing.T) {
	a := NewAssembler(3, 0)

	raws := []any{
		map[string]any{"title": "a"},
		map[string]any{"title": "b"},
		map[string]any{"title": "c"},
		map[string]any{"title": "d"},
	}
	blk := a.Build("blk-1", raws, types.SourceInfo{Route: "/x"}, "ref-1", nil)

	assert.Equal(t, "blk-1", blk.ID)
	assert.Len(t, blk.Records, 3)
	assert.Equal(t, 4, blk.Stats["total"])
	assert.Equal(t, "ref-1", blk.FullDataRef)
	require.NotNil(t, blk.Schema)
	assert.NotNil(t, blk.Schema.Field("title"))
}
