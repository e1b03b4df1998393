// Package types provides shared types for panelgen.
// These types are used across multiple packages and form the wire contract
// between the pipeline and rendering frontends.
package types

import (
	"time"

	"github.com/feedui/panelgen/pkg/record"
)

// SourceInfo identifies one fetch of one datasource route. It is created once
// per fetch and attached to exactly one data block.
type SourceInfo struct {
	Datasource string         `json:"datasource"`
	Route      string         `json:"route"`
	Params     map[string]any `json:"params,omitempty"`
	FetchedAt  time.Time      `json:"fetched_at,omitempty"`
	RequestID  string         `json:"request_id,omitempty"`
}

// DataBlock bundles a source's fetch metadata, a trimmed sample of its
// records, and the schema summary inferred from that sample. Immutable after
// creation; owned by one panel-generation call.
type DataBlock struct {
	ID          string         `json:"id"`
	Source      SourceInfo     `json:"source"`
	Records     []record.Record `json:"records"`
	Stats       map[string]any `json:"stats,omitempty"`
	Schema      *SchemaSummary `json:"schema"`
	FullDataRef string         `json:"full_data_ref,omitempty"` // reference to the untrimmed dataset, if stored elsewhere
	Title       string         `json:"title,omitempty"`
}

// BlockInput is the per-block input of one panel-generation call.
type BlockInput struct {
	BlockID     string           `json:"block_id"`
	Records     []any            `json:"records"`
	Source      SourceInfo       `json:"source_info"`
	Title       string           `json:"title,omitempty"`
	FullDataRef string           `json:"full_data_ref,omitempty"`
	Stats       map[string]any   `json:"stats,omitempty"`
	Preferences *UserPreferences `json:"user_preferences,omitempty"`
}

// UserPreferences carries caller hints for component selection.
type UserPreferences struct {
	PreferredComponent string `json:"preferred_component,omitempty"`
}

// GenerateRequest is the input of one panel-generation call.
type GenerateRequest struct {
	Mode         MergeMode    `json:"mode,omitempty"`
	Blocks       []BlockInput `json:"blocks"`
	HistoryToken string       `json:"history_token,omitempty"`
	// Components optionally restricts generation to a subset of component
	// ids; adapters may short-circuit work for components not listed.
	Components []string `json:"components,omitempty"`
}
