package adapter

import (
	"fmt"

	"github.com/feedui/panelgen/pkg/record"
	"github.com/feedui/panelgen/pkg/types"
)

const descriptionWidth = 160

// TrendingRepositories normalizes trending-repository payloads. Star counts
// arrive in display form ("1,234", "2.5k") and coerce to plain integers; the
// route-level stats carry the maximum as top_stars.
func TrendingRepositories(ctx *Context, source types.SourceInfo, raws []any) (*types.AdapterResult, error) {
	if !ctx.Wants("ListPanel") && !ctx.Wants("LineChart") {
		return &types.AdapterResult{
			Stats: map[string]any{"total": 0, "skipped": true},
		}, nil
	}

	records := make([]record.Record, 0, len(raws))
	topStars := 0
	for i, raw := range raws {
		item := record.Normalize(raw)

		rec := record.Record{
			"id":    repoID(item, i),
			"title": FirstString(item, "full_name", "name", "title", "repo"),
			"link":  FirstString(item, "url", "html_url", "link"),
		}

		if stars, ok := CoerceInt(item["stars"]); ok {
			rec["stars"] = stars
			if stars > topStars {
				topStars = stars
			}
		} else if stars, ok := CoerceInt(item["stargazers_count"]); ok {
			rec["stars"] = stars
			if stars > topStars {
				topStars = stars
			}
		}

		if forks, ok := CoerceInt(item["forks"]); ok {
			rec["forks"] = forks
		}

		if desc := FirstString(item, "description", "summary"); desc != "" {
			rec["description"] = Truncate(StripHTML(desc), descriptionWidth)
		}

		if lang := FirstString(item, "language", "lang"); lang != "" {
			rec["language"] = lang
		}

		records = append(records, rec)
	}

	result := &types.AdapterResult{
		Records: records,
		Stats: map[string]any{
			"total":     len(records),
			"top_stars": topStars,
		},
	}

	if ctx.Wants("ListPanel") {
		result.Plans = append(result.Plans, listPlan("normal", map[string]string{
			"title": "title",
			"link":  "link",
			"text":  "description",
		}, 0.9))
	}
	if ctx.Wants("LineChart") {
		result.Plans = append(result.Plans, types.BlockPlan{
			Component:  "LineChart",
			Props:      map[string]string{"value": "stars", "title": "title"},
			Options:    map[string]any{"smooth": false},
			LayoutHint: &types.LayoutHint{Span: 6},
			Confidence: 0.7,
		})
	}

	return result, nil
}

func repoID(item record.Record, index int) string {
	if id := FirstString(item, "id", "full_name", "name"); id != "" {
		return id
	}
	return fmt.Sprintf("trending-repo-%d", index+1)
}
