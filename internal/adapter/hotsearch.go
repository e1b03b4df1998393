package adapter

import (
	"fmt"

	"github.com/feedui/panelgen/pkg/record"
	"github.com/feedui/panelgen/pkg/types"
)

// HotSearch normalizes ranked trending-search payloads: ids hot-search-<n>,
// titles prefixed with their rank, heat coerced through magnitude suffixes
// ("120万" style counters).
func HotSearch(ctx *Context, source types.SourceInfo, raws []any) (*types.AdapterResult, error) {
	records := make([]record.Record, 0, len(raws))
	for i, raw := range raws {
		item := record.Normalize(raw)

		rank := i + 1
		if r, ok := CoerceInt(item["rank"]); ok && r > 0 {
			rank = r
		}

		rec := record.Record{
			"id":    fmt.Sprintf("hot-search-%d", i+1),
			"rank":  rank,
			"title": fmt.Sprintf("#%d %s", rank, FirstString(item, "keyword", "title", "word", "query")),
		}

		if link := FirstString(item, "url", "link"); link != "" {
			rec["link"] = link
		}
		if heat, ok := CoerceInt(item["heat"]); ok {
			rec["heat"] = heat
		} else if heat, ok := CoerceInt(item["hot_value"]); ok {
			rec["heat"] = heat
		}

		records = append(records, rec)
	}

	result := &types.AdapterResult{
		Records: records,
		Stats:   map[string]any{"total": len(records)},
	}

	if ctx.Wants("ListPanel") {
		result.Plans = []types.BlockPlan{
			listPlan("normal", map[string]string{
				"title": "title",
				"link":  "link",
				"value": "heat",
			}, 0.85),
		}
	}

	return result, nil
}
