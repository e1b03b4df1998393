package adapter

import (
	"fmt"

	"github.com/feedui/panelgen/pkg/record"
	"github.com/feedui/panelgen/pkg/types"
)

// NewsArticles normalizes article payloads: headline, link, cover image and
// category handling across the raw shapes news feeds use (a plain string, a
// list of strings, or {name} objects).
func NewsArticles(ctx *Context, source types.SourceInfo, raws []any) (*types.AdapterResult, error) {
	records := make([]record.Record, 0, len(raws))
	withImage := 0
	for i, raw := range raws {
		item := record.Normalize(raw)

		rec := record.Record{
			"id":    articleID(item, i),
			"title": FirstString(item, "title", "headline"),
			"link":  FirstString(item, "url", "link", "href"),
		}

		if img := FirstString(item, "image", "image_url", "thumbnail", "cover"); img != "" {
			rec["image"] = img
			withImage++
		}

		if cats := normalizeCategories(item); len(cats) > 0 {
			rec["categories"] = cats
		}

		if body := FirstString(item, "summary", "description", "content"); body != "" {
			rec["summary"] = Truncate(StripHTML(body), excerptWidth)
		}

		if published := FirstString(item, "published_at", "pub_date", "date"); published != "" {
			rec["published_at"] = published
		}

		if author := NormalizeAuthor(item["author"]); author != "" {
			rec["author"] = author
		}

		records = append(records, rec)
	}

	result := &types.AdapterResult{
		Records: records,
		Stats: map[string]any{
			"total":       len(records),
			"with_images": withImage,
		},
	}

	if ctx.Wants("ListPanel") {
		result.Plans = append(result.Plans, listPlan("normal", map[string]string{
			"title":    "title",
			"link":     "link",
			"datetime": "published_at",
			"text":     "summary",
		}, 0.9))
	}
	// The media grid needs a cover on every article; its contract rejects
	// records without one.
	if ctx.Wants("MediaGrid") && len(records) > 0 && withImage == len(records) {
		result.Plans = append(result.Plans, types.BlockPlan{
			Component:    "MediaGrid",
			Props:        map[string]string{"image": "image", "title": "title", "link": "link"},
			Options:      map[string]any{"columns": 3},
			Interactions: []types.Interaction{{Type: "open", Label: "Open"}},
			LayoutHint:   &types.LayoutHint{Span: 12},
			Confidence:   0.75,
		})
	}

	return result, nil
}

func articleID(item record.Record, index int) string {
	if id := FirstString(item, "id", "guid", "slug"); id != "" {
		return id
	}
	return fmt.Sprintf("news-article-%d", index+1)
}

// normalizeCategories flattens category raw shapes into a list of names.
func normalizeCategories(item record.Record) []any {
	switch v := item["categories"].(type) {
	case []any:
		names := make([]any, 0, len(v))
		for _, el := range v {
			switch c := el.(type) {
			case string:
				names = append(names, c)
			case map[string]any:
				if name := record.Record(c).String("name"); name != "" {
					names = append(names, name)
				}
			}
		}
		return names
	case string:
		if v != "" {
			return []any{v}
		}
	}
	if cat := item.String("category"); cat != "" {
		return []any{cat}
	}
	return nil
}
