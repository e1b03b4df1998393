package schema

import (
	"encoding/json"
	"testing"

	"github.com/feedui/panelgen/pkg/record"
)

func TestJSONSchema(t *testing.T) {
	summary := summarize([]record.Record{
		{
			"title":      "First",
			"replies":    3.0,
			"created_at": "2024-05-01T10:00:00Z",
		},
	})

	s := JSONSchema(summary)
	if s == nil {
		t.Fatal("expected a schema")
	}

	b, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshaling schema: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatalf("unmarshaling schema: %v", err)
	}
	if decoded["type"] != "object" {
		t.Errorf("schema type = %v", decoded["type"])
	}

	props, ok := decoded["properties"].(map[string]any)
	if !ok {
		t.Fatalf("properties missing: %v", decoded)
	}

	title, ok := props["title"].(map[string]any)
	if !ok {
		t.Fatal("title property missing")
	}
	if title["type"] != "string" {
		t.Errorf("title type = %v", title["type"])
	}
	if roles, ok := title["x-roles"].([]any); !ok || len(roles) == 0 {
		t.Errorf("title x-roles = %v", title["x-roles"])
	}

	created, ok := props["created_at"].(map[string]any)
	if !ok {
		t.Fatal("created_at property missing")
	}
	if created["type"] != "string" || created["format"] != "date-time" {
		t.Errorf("created_at = %v", created)
	}

	replies, ok := props["replies"].(map[string]any)
	if !ok {
		t.Fatal("replies property missing")
	}
	if replies["type"] != "number" {
		t.Errorf("replies type = %v", replies["type"])
	}
}
