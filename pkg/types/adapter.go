package types

import "github.com/feedui/panelgen/pkg/record"

// BlockPlan is an adapter-produced, pre-bound component plan: the adapter
// already knows which component its records render well in and how to bind
// the fields.
type BlockPlan struct {
	Component    string            `json:"component"`
	Props        map[string]string `json:"props,omitempty"`
	Options      map[string]any    `json:"options,omitempty"`
	Interactions []Interaction     `json:"interactions,omitempty"`
	Title        string            `json:"title,omitempty"`
	LayoutHint   *LayoutHint       `json:"layout_hint,omitempty"`
	Confidence   float64           `json:"confidence,omitempty"`
}

// AdapterResult is what a route adapter produces from one raw fetch payload.
type AdapterResult struct {
	Records []record.Record `json:"records"`
	Plans   []BlockPlan     `json:"block_plans,omitempty"`
	Stats   map[string]any  `json:"stats,omitempty"`
}
