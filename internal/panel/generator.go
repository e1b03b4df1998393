package panel

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/feedui/panelgen/internal/adapter"
	"github.com/feedui/panelgen/internal/catalog"
	"github.com/feedui/panelgen/internal/contract"
	"github.com/feedui/panelgen/internal/layout"
	"github.com/feedui/panelgen/internal/schema"
	"github.com/feedui/panelgen/pkg/types"
)

// Options tunes one Generator instance.
type Options struct {
	MaxRecords     int // trimmed sample size per data block
	MaxSamples     int // representative values per field
	MaxSuggestions int // descriptors per schema summary
	GridColumns    int
	BaseRowHeight  int
}

// Generator runs the panel pipeline: adapt, assemble, suggest, validate,
// lay out. One Generator serves many concurrent calls; all per-call state
// lives on the stack.
type Generator struct {
	registry  *adapter.Registry
	catalog   *catalog.Catalog
	suggester *catalog.Suggester
	validator *contract.Validator
	assembler *Assembler
	layout    *layout.Engine
}

// New creates a Generator over explicitly constructed collaborators. The
// registry and catalogue must be fully populated before the first call.
func New(registry *adapter.Registry, cat *catalog.Catalog, validator *contract.Validator, opts Options) *Generator {
	return &Generator{
		registry:  registry,
		catalog:   cat,
		suggester: catalog.NewSuggester(cat, opts.MaxSuggestions),
		validator: validator,
		assembler: NewAssembler(opts.MaxRecords, opts.MaxSamples),
		layout:    layout.NewEngine(opts.GridColumns, opts.BaseRowHeight),
	}
}

// Debug is auxiliary introspection data about one generation call. Not part
// of the wire contract.
type Debug struct {
	BlockIDs      []string                        `json:"block_ids"`
	RolesByBlock  map[string][]types.SemanticRole `json:"roles_by_block"`
	DescriptorIDs []string                        `json:"descriptor_ids"`
}

// Result bundles the payload with introspection data.
type Result struct {
	Payload *types.PanelPayload
	Debug   Debug
}

// Generate runs the pipeline for one request. A contract violation on any
// component binding fails the whole request with a *contract.Violation; the
// pipeline never emits a UI block that breaks its component's data contract.
func (g *Generator) Generate(req *types.GenerateRequest) (*Result, error) {
	mode := req.Mode
	if mode == "" {
		mode = types.ModeReplace
	}
	actx := &adapter.Context{Components: req.Components}

	debug := Debug{RolesByBlock: make(map[string][]types.SemanticRole)}
	var uiBlocks []types.UIBlock
	var hints []*types.LayoutHint

	for _, input := range req.Blocks {
		source := input.Source
		if source.RequestID == "" {
			source.RequestID = uuid.NewString()
		}
		if source.FetchedAt.IsZero() {
			source.FetchedAt = time.Now().UTC()
		}

		fn := g.registry.Resolve(source.Route)
		adapted, err := fn(actx, source, input.Records)
		if err != nil {
			return nil, fmt.Errorf("adapting route %s for block %s: %w", source.Route, input.BlockID, err)
		}

		stats := mergeStats(input.Stats, adapted.Stats)
		block := g.assembler.BuildRecords(input.BlockID, adapted.Records, source, input.FullDataRef, stats)
		block.Title = input.Title

		descriptors := g.describe(block, adapted.Plans, input.Preferences)

		debug.BlockIDs = append(debug.BlockIDs, block.ID)
		debug.RolesByBlock[block.ID] = sortedRoles(block.Schema)

		for _, desc := range descriptors {
			ui, err := g.materialize(block, desc)
			if err != nil {
				return nil, err
			}
			uiBlocks = append(uiBlocks, ui)
			hints = append(hints, desc.LayoutHint)
			debug.DescriptorIDs = append(debug.DescriptorIDs, desc.ID)
		}
	}

	tree := g.layout.Build(mode, uiBlocks, hints, req.HistoryToken)

	slog.Debug("panel generated",
		"blocks", len(debug.BlockIDs),
		"ui_blocks", len(uiBlocks),
		"mode", mode)

	return &Result{
		Payload: &types.PanelPayload{
			Mode:   mode,
			Layout: *tree,
			Blocks: uiBlocks,
		},
		Debug: debug,
	}, nil
}

// describe turns a data block into view descriptors: adapter-provided plans
// win when present, otherwise the suggester matches the schema against the
// catalogue.
func (g *Generator) describe(block *types.DataBlock, plans []types.BlockPlan, prefs *types.UserPreferences) []types.ViewDescriptor {
	preferred := ""
	if prefs != nil {
		preferred = prefs.PreferredComponent
	}

	if len(plans) == 0 {
		return g.suggester.Suggest(block.ID, block.Schema, preferred)
	}

	descriptors := make([]types.ViewDescriptor, 0, len(plans))
	for i, plan := range plans {
		desc := types.ViewDescriptor{
			ID:           fmt.Sprintf("%s:plan-%d", block.ID, i+1),
			Component:    plan.Component,
			BlockID:      block.ID,
			Confidence:   clampConfidence(plan.Confidence),
			Props:        plan.Props,
			Options:      plan.Options,
			Interactions: plan.Interactions,
			LayoutHint:   plan.LayoutHint,
			Title:        plan.Title,
		}
		descriptors = append(descriptors, desc)
	}

	// A preferred component moves its plan to the front, keeping plan order
	// otherwise.
	if preferred != "" {
		for i := range descriptors {
			if descriptors[i].Component == preferred && i > 0 {
				first := descriptors[i]
				copy(descriptors[1:i+1], descriptors[:i])
				descriptors[0] = first
				break
			}
		}
	}

	return descriptors
}

// materialize validates the bound records and builds the renderable UI block
// with its inline payload.
func (g *Generator) materialize(block *types.DataBlock, desc types.ViewDescriptor) (types.UIBlock, error) {
	projected := contract.Project(block.Records, desc.Props)
	validated, err := g.validator.Validate(desc.Component, projected)
	if err != nil {
		return types.UIBlock{}, err
	}

	options := desc.Options
	if desc.LayoutHint != nil && desc.LayoutHint.Span > 0 {
		options = cloneInto(options, "span", desc.LayoutHint.Span)
	}

	title := desc.Title
	if title == "" {
		title = block.Title
	}

	return types.UIBlock{
		ID:        desc.ID,
		Component: desc.Component,
		DataRef:   block.FullDataRef,
		Data: &types.BlockData{
			Items:  validated,
			Schema: schema.JSONSchema(block.Schema),
			Stats:  block.Stats,
		},
		Props:        desc.Props,
		Options:      options,
		Interactions: desc.Interactions,
		Confidence:   desc.Confidence,
		Title:        title,
	}, nil
}

func mergeStats(caller, adapted map[string]any) map[string]any {
	if len(caller) == 0 {
		return adapted
	}
	merged := make(map[string]any, len(caller)+len(adapted))
	for k, v := range adapted {
		merged[k] = v
	}
	// Caller-supplied stats win over adapter-derived ones.
	for k, v := range caller {
		merged[k] = v
	}
	return merged
}

func sortedRoles(summary *types.SchemaSummary) []types.SemanticRole {
	pool := summary.RolePool()
	roles := make([]types.SemanticRole, 0, len(pool))
	for role := range pool {
		roles = append(roles, role)
	}
	sort.Slice(roles, func(i, j int) bool { return roles[i] < roles[j] })
	return roles
}

func clampConfidence(c float64) float64 {
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}

func cloneInto(opts map[string]any, key string, value any) map[string]any {
	out := make(map[string]any, len(opts)+1)
	for k, v := range opts {
		out[k] = v
	}
	out[key] = value
	return out
}
