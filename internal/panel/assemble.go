// Package panel orchestrates data block assembly, component suggestion,
// contract validation and layout into one panel payload per request.
package panel

import (
	"github.com/feedui/panelgen/internal/schema"
	"github.com/feedui/panelgen/pkg/record"
	"github.com/feedui/panelgen/pkg/types"
)

// DefaultMaxRecords caps the trimmed sample kept on a data block.
const DefaultMaxRecords = 20

// Assembler builds canonical data blocks from raw fetch output.
type Assembler struct {
	maxRecords int
	summarizer *schema.Summarizer
}

// NewAssembler creates an Assembler trimming samples to maxRecords and
// keeping maxSamples representative values per field. Non-positive values
// fall back to the defaults.
func NewAssembler(maxRecords, maxSamples int) *Assembler {
	if maxRecords <= 0 {
		maxRecords = DefaultMaxRecords
	}
	return &Assembler{
		maxRecords: maxRecords,
		summarizer: schema.NewSummarizer(maxSamples),
	}
}

// Build normalizes the records, trims them to the sample cap, and infers the
// schema summary from the trimmed sample (the schema describes what the
// frontend will actually see, not the full dataset). The total stat defaults
// to the pre-truncation record count unless the caller already supplied one.
func (a *Assembler) Build(blockID string, raws []any, source types.SourceInfo, fullDataRef string, stats map[string]any) *types.DataBlock {
	records := record.NormalizeAll(raws)

	total := len(records)
	if len(records) > a.maxRecords {
		records = records[:a.maxRecords]
	}

	merged := make(map[string]any, len(stats)+1)
	for k, v := range stats {
		merged[k] = v
	}
	if _, ok := merged["total"]; !ok {
		merged["total"] = total
	}

	return &types.DataBlock{
		ID:          blockID,
		Source:      source,
		Records:     records,
		Stats:       merged,
		Schema:      a.summarizer.Summarize(records),
		FullDataRef: fullDataRef,
	}
}

// BuildRecords is Build for already-normalized records.
func (a *Assembler) BuildRecords(blockID string, records []record.Record, source types.SourceInfo, fullDataRef string, stats map[string]any) *types.DataBlock {
	raws := make([]any, 0, len(records))
	for _, rec := range records {
		raws = append(raws, map[string]any(rec))
	}
	return a.Build(blockID, raws, source, fullDataRef, stats)
}
