// Package layout arranges ordered UI blocks into a grid layout tree via
// greedy row-wise bin packing.
package layout

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/feedui/panelgen/pkg/types"
)

const (
	// GridColumns is the fixed grid width in units.
	GridColumns = 12

	// DefaultRowHeight is the base row height in pixels; block minimum
	// heights convert to row units by ceiling division against it.
	DefaultRowHeight = 40
)

// sizeSpans maps named size classes to grid units (approximate rounding: a
// third of 12 is 4).
var sizeSpans = map[string]int{
	"quarter": 3,
	"third":   4,
	"half":    6,
	"full":    GridColumns,
}

// Engine builds layout trees. Safe for concurrent use; every call draws a
// fresh node-id token.
type Engine struct {
	columns   int
	rowHeight int
}

// NewEngine creates an Engine. Non-positive parameters fall back to the
// grid defaults.
func NewEngine(columns, rowHeight int) *Engine {
	if columns <= 0 {
		columns = GridColumns
	}
	if rowHeight <= 0 {
		rowHeight = DefaultRowHeight
	}
	return &Engine{columns: columns, rowHeight: rowHeight}
}

// Build packs the blocks, in input order, into a layout tree. hints aligns
// with blocks; nil entries mean no hint. Node ids embed a fresh random token
// so ids never collide across calls, which append-mode accumulation on the
// client requires.
func (e *Engine) Build(mode types.MergeMode, blocks []types.UIBlock, hints []*types.LayoutHint, historyToken string) *types.LayoutTree {
	if mode == "" {
		mode = types.ModeReplace
	}
	token := newToken()

	nodes := make([]types.LayoutNode, 0, len(blocks))
	x, y, rowHeight := 0, 0, 0
	for i, block := range blocks {
		var hint *types.LayoutHint
		if i < len(hints) {
			hint = hints[i]
		}

		w := e.resolveSpan(hint, block.Options)
		h := e.resolveRows(hint, block.Options)

		if x+w > e.columns {
			x = 0
			y += rowHeight
			rowHeight = 0
		}

		props := map[string]any{
			"x":    x,
			"y":    y,
			"w":    w,
			"h":    h,
			"minH": h,
		}
		if hint != nil {
			if hint.Order != 0 {
				props["order"] = hint.Order
			}
			if hint.Priority != 0 {
				props["priority"] = hint.Priority
			}
			if len(hint.Responsive) > 0 {
				props["responsive"] = hint.Responsive
			}
		}

		nodes = append(nodes, types.LayoutNode{
			Type:     "row",
			ID:       fmt.Sprintf("row-%s-%d", token, i),
			Children: []string{block.ID},
			Props:    props,
		})

		x += w
		if h > rowHeight {
			rowHeight = h
		}
		if x >= e.columns {
			x = 0
			y += rowHeight
			rowHeight = 0
		}
	}

	return &types.LayoutTree{
		Mode:         mode,
		Nodes:        nodes,
		HistoryToken: historyToken,
	}
}

// resolveSpan resolves a block's width in grid units: explicit hint span,
// then named size class, then a numeric span from block options clamped to
// the grid, then full width.
func (e *Engine) resolveSpan(hint *types.LayoutHint, options map[string]any) int {
	if hint != nil {
		if hint.Span > 0 {
			return clamp(hint.Span, 1, e.columns)
		}
		if span, ok := sizeSpans[hint.Size]; ok {
			return span
		}
	}
	if raw, ok := options["span"]; ok {
		if span, ok := asInt(raw); ok {
			return clamp(span, 1, e.columns)
		}
	}
	return e.columns
}

// resolveRows resolves a block's height in row units.
func (e *Engine) resolveRows(hint *types.LayoutHint, options map[string]any) int {
	minHeight := 0
	if hint != nil && hint.MinHeight > 0 {
		minHeight = hint.MinHeight
	} else if raw, ok := options["min_height"]; ok {
		if mh, ok := asInt(raw); ok {
			minHeight = mh
		}
	}
	if minHeight <= 0 {
		minHeight = e.rowHeight
	}
	// Ceiling division: any partial row still occupies a full one.
	return (minHeight + e.rowHeight - 1) / e.rowHeight
}

// newToken returns an 8-hex-char token from a cryptographically strong
// source. A uniqueness mechanism, not a security boundary.
func newToken() string {
	var b [4]byte
	if _, err := rand.Read(b[:]); err != nil {
		// crypto/rand failing is unrecoverable here; ids must not repeat.
		panic(fmt.Sprintf("layout: reading random token: %v", err))
	}
	return hex.EncodeToString(b[:])
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	}
	return 0, false
}
