package adapter

import (
	"github.com/feedui/panelgen/pkg/record"
	"github.com/feedui/panelgen/pkg/types"
)

// MetricsTimeseries normalizes numeric series payloads into (timestamp,
// value) records. Feeds wrap the points in assorted envelopes, so the item
// list is located with a jq path over the raw payload when the flat list is
// empty.
func MetricsTimeseries(ctx *Context, source types.SourceInfo, raws []any) (*types.AdapterResult, error) {
	if !ctx.Wants("LineChart") && !ctx.Wants("StatCard") {
		return &types.AdapterResult{
			Stats: map[string]any{"total": 0, "skipped": true},
		}, nil
	}

	points := raws
	if len(points) == 1 {
		// Single envelope object: {"series": {"points": [...]}} and friends.
		if collected := CollectItems(points[0], ".series.points? // .points? // empty"); len(collected) > 0 {
			points = collected
		} else if collected := CollectItems(points[0], ""); len(collected) > 0 {
			points = collected
		}
	}

	records := make([]record.Record, 0, len(points))
	var last float64
	haveLast := false
	for _, raw := range points {
		item := record.Normalize(raw)

		value, ok := CoerceFloat(item["value"])
		if !ok {
			if value, ok = CoerceFloat(item["v"]); !ok {
				continue
			}
		}

		rec := record.Record{"value": value}
		if ts := FirstString(item, "timestamp", "time", "ts", "date"); ts != "" {
			rec["timestamp"] = ts
		} else if t, ok := item.Time("t"); ok {
			rec["timestamp"] = t
		}
		if label := FirstString(item, "label", "name"); label != "" {
			rec["label"] = label
		}

		records = append(records, rec)
		last = value
		haveLast = true
	}

	stats := map[string]any{"total": len(records)}
	if haveLast {
		stats["last_value"] = last
	}

	result := &types.AdapterResult{
		Records: records,
		Stats:   stats,
	}

	if ctx.Wants("LineChart") {
		result.Plans = append(result.Plans, types.BlockPlan{
			Component:  "LineChart",
			Props:      map[string]string{"value": "value", "datetime": "timestamp"},
			Options:    map[string]any{"smooth": true},
			LayoutHint: &types.LayoutHint{Span: 8, MinHeight: 280},
			Confidence: 0.9,
		})
	}
	if ctx.Wants("StatCard") {
		result.Plans = append(result.Plans, types.BlockPlan{
			Component:  "StatCard",
			Props:      map[string]string{"value": "value"},
			LayoutHint: &types.LayoutHint{Span: 4, MinHeight: 120},
			Confidence: 0.65,
		})
	}

	return result, nil
}
