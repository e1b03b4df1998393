package adapter

import (
	"fmt"

	"github.com/feedui/panelgen/pkg/record"
	"github.com/feedui/panelgen/pkg/types"
)

const excerptWidth = 200

// ForumTopics normalizes forum thread payloads: title and link mapping,
// author across raw shapes, HTML-stripped excerpts. Serves /forum/topics and
// deeper topic routes by prefix.
func ForumTopics(ctx *Context, source types.SourceInfo, raws []any) (*types.AdapterResult, error) {
	records := make([]record.Record, 0, len(raws))
	for i, raw := range raws {
		item := record.Normalize(raw)

		rec := record.Record{
			"id":    topicID(item, i),
			"title": FirstString(item, "title", "subject", "name"),
			"link":  FirstString(item, "url", "link", "href"),
		}

		if author := NormalizeAuthor(item["author"]); author != "" {
			rec["author"] = author
		} else if author := NormalizeAuthor(item["user"]); author != "" {
			rec["author"] = author
		}

		if body := FirstString(item, "content", "excerpt", "body", "summary"); body != "" {
			rec["excerpt"] = Truncate(StripHTML(body), excerptWidth)
		}

		if created := FirstString(item, "created_at", "published_at", "date"); created != "" {
			rec["created_at"] = created
		}

		if replies, ok := CoerceInt(item["replies"]); ok {
			rec["replies"] = replies
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
				"title":    "title",
				"link":     "link",
				"datetime": "created_at",
				"text":     "excerpt",
			}, 0.9),
		}
	}

	return result, nil
}

func topicID(item record.Record, index int) string {
	if id := FirstString(item, "id", "topic_id", "slug"); id != "" {
		return id
	}
	return fmt.Sprintf("forum-topic-%d", index+1)
}
