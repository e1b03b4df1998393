package types

import "github.com/feedui/panelgen/pkg/record"

// MergeMode tells the client how to combine a new layout with what it
// already renders.
type MergeMode string

// Merge mode constants.
const (
	ModeAppend  MergeMode = "append"
	ModeReplace MergeMode = "replace"
	ModeInsert  MergeMode = "insert"
)

// Interaction describes a user interaction a component supports.
type Interaction struct {
	Type    string         `json:"type"`
	Label   string         `json:"label,omitempty"`
	Payload map[string]any `json:"payload,omitempty"`
}

// LayoutHint carries sizing and ordering hints for one block.
type LayoutHint struct {
	Span       int            `json:"span,omitempty"` // grid units, 1-12
	Size       string         `json:"size,omitempty"` // quarter|third|half|full
	MinHeight  int            `json:"min_height,omitempty"`
	Order      int            `json:"order,omitempty"`
	Priority   int            `json:"priority,omitempty"`
	Responsive map[string]any `json:"responsive,omitempty"`
}

// ViewDescriptor is a proposed binding of a data block to one UI component.
// Produced by the suggester and consumed immediately by the panel generator.
type ViewDescriptor struct {
	ID           string            `json:"id"`
	Component    string            `json:"component"`
	BlockID      string            `json:"block_id"`
	Confidence   float64           `json:"confidence"` // in [0,1]
	Props        map[string]string `json:"props,omitempty"` // prop name -> bound field name
	Options      map[string]any    `json:"options,omitempty"`
	Interactions []Interaction     `json:"interactions,omitempty"`
	LayoutHint   *LayoutHint       `json:"layout_hint,omitempty"`
	Title        string            `json:"title,omitempty"`
}

// BlockData is the inline payload of a UI block: the trimmed records plus the
// serialized schema and stats a frontend needs to render them.
type BlockData struct {
	Items  []record.Record `json:"items"`
	Schema any             `json:"schema,omitempty"`
	Stats  map[string]any  `json:"stats,omitempty"`
}

// UIBlock is one renderable block of the panel payload.
type UIBlock struct {
	ID           string            `json:"id"`
	Component    string            `json:"component"`
	DataRef      string            `json:"data_ref,omitempty"` // set instead of Data for large datasets
	Data         *BlockData        `json:"data,omitempty"`
	Props        map[string]string `json:"props,omitempty"`
	Options      map[string]any    `json:"options,omitempty"`
	Interactions []Interaction     `json:"interactions,omitempty"`
	Confidence   float64           `json:"confidence,omitempty"`
	Title        string            `json:"title,omitempty"`
}

// LayoutNode places one UI block on the grid.
type LayoutNode struct {
	Type     string         `json:"type"` // row|column|grid|cell
	ID       string         `json:"id"`
	Children []string       `json:"children"` // referenced UI block ids
	Props    map[string]any `json:"props,omitempty"`
}

// LayoutTree arranges the panel's blocks. Node ids are unique across all
// trees built by one process instance, which append-mode accumulation on the
// client depends on.
type LayoutTree struct {
	Mode         MergeMode    `json:"mode"`
	Nodes        []LayoutNode `json:"nodes"`
	HistoryToken string       `json:"history_token,omitempty"`
}

// PanelPayload is the top-level response of one panel-generation call.
type PanelPayload struct {
	Mode   MergeMode  `json:"mode"`
	Layout LayoutTree `json:"layout"`
	Blocks []UIBlock  `json:"blocks"`
}
