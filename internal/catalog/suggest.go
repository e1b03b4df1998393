package catalog

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/feedui/panelgen/pkg/types"
)

const (
	// MaxSuggestions caps the descriptors returned for one schema summary.
	MaxSuggestions = 4

	// optionalRoleBonus raises confidence for each optional role bound.
	optionalRoleBonus = 0.05

	// confidenceCap bounds every non-fallback confidence score.
	confidenceCap = 0.95

	// fallbackConfidence is the fixed score of the rich-text fallback.
	fallbackConfidence = 0.5
)

// Suggester matches schema summaries against the component catalogue,
// producing ranked, field-bound view descriptors.
type Suggester struct {
	catalog *Catalog
	max     int
}

// NewSuggester creates a Suggester over the given catalogue. maxSuggestions
// falls back to MaxSuggestions when non-positive.
func NewSuggester(catalog *Catalog, maxSuggestions int) *Suggester {
	if maxSuggestions <= 0 {
		maxSuggestions = MaxSuggestions
	}
	return &Suggester{catalog: catalog, max: maxSuggestions}
}

// Suggest returns between 1 and max view descriptors for the schema summary,
// preferred component first when supplied and satisfiable. When no component
// is structurally compatible it returns exactly one rich-text fallback bound
// to the most title-like field.
func (s *Suggester) Suggest(blockID string, summary *types.SchemaSummary, preferred string) []types.ViewDescriptor {
	pool := poolBitmap(summary)

	// Candidate order: preferred first (when satisfiable), then catalogue
	// order, without duplicates.
	var candidates []*ComponentDefinition
	seen := make(map[string]bool)
	if preferred != "" {
		if def := s.catalog.Get(preferred); def != nil && def.satisfiable(pool) {
			candidates = append(candidates, def)
			seen[def.ID] = true
		}
	}
	for _, def := range s.catalog.Components() {
		if seen[def.ID] || !def.satisfiable(pool) {
			continue
		}
		candidates = append(candidates, def)
		seen[def.ID] = true
	}

	descriptors := make([]types.ViewDescriptor, 0, s.max)
	for _, def := range candidates {
		if len(descriptors) >= s.max {
			break
		}
		desc, ok := s.bind(blockID, def, summary)
		if !ok {
			// A required role was present in the pool but no concrete field
			// resolved for it; drop rather than emit a malformed descriptor.
			slog.Debug("dropping component with unresolvable binding",
				"component", def.ID, "block", blockID)
			continue
		}
		descriptors = append(descriptors, desc)
	}

	if len(descriptors) == 0 {
		return []types.ViewDescriptor{s.fallback(blockID, summary)}
	}
	return descriptors
}

// bind resolves concrete field bindings for one component. Component roles
// are processed in catalogue role-priority order so higher-priority roles
// claim fields first; among fields carrying a role the first unclaimed one
// (in schema order) wins.
func (s *Suggester) bind(blockID string, def *ComponentDefinition, summary *types.SchemaSummary) (types.ViewDescriptor, bool) {
	props := make(map[string]string)
	claimed := make(map[string]bool)
	confidence := def.BaseConfidence

	for _, role := range rolePriority {
		required := containsRole(def.RequiredRoles, role)
		optional := containsRole(def.OptionalRoles, role)
		if !required && !optional {
			continue
		}

		field := pickField(summary, role, claimed)
		if field == "" {
			if required {
				return types.ViewDescriptor{}, false
			}
			continue
		}
		props[string(role)] = field
		claimed[field] = true
		if optional {
			confidence += optionalRoleBonus
		}
	}

	if confidence > confidenceCap {
		confidence = confidenceCap
	}

	return types.ViewDescriptor{
		ID:           descriptorID(blockID, def.ID),
		Component:    def.ID,
		BlockID:      blockID,
		Confidence:   confidence,
		Props:        props,
		Options:      cloneOptions(def.DefaultOptions),
		Interactions: def.Interactions,
		LayoutHint:   &types.LayoutHint{Size: def.SizeClass, MinHeight: def.MinHeight},
	}, true
}

// fallback builds the single rich-text descriptor emitted when nothing else
// is compatible, bound to the most title-like field or the first field.
func (s *Suggester) fallback(blockID string, summary *types.SchemaSummary) types.ViewDescriptor {
	field := pickField(summary, types.RoleTitle, nil)
	if field == "" {
		field = pickField(summary, types.RoleText, nil)
	}
	if field == "" && len(summary.Fields) > 0 {
		field = summary.Fields[0].Name
	}

	props := map[string]string{}
	if field != "" {
		props["text"] = field
	}

	return types.ViewDescriptor{
		ID:         descriptorID(blockID, RichText),
		Component:  RichText,
		BlockID:    blockID,
		Confidence: fallbackConfidence,
		Props:      props,
		LayoutHint: &types.LayoutHint{Size: "full", MinHeight: 160},
	}
}

// pickField returns the first field (in schema order) carrying the role and
// not yet claimed. When every carrier is claimed the first carrier is reused.
func pickField(summary *types.SchemaSummary, role types.SemanticRole, claimed map[string]bool) string {
	first := ""
	for i := range summary.Fields {
		f := &summary.Fields[i]
		if !f.HasRole(role) {
			continue
		}
		if first == "" {
			first = f.Name
		}
		if claimed == nil || !claimed[f.Name] {
			return f.Name
		}
	}
	return first
}

func containsRole(roles []types.SemanticRole, role types.SemanticRole) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

func cloneOptions(opts map[string]any) map[string]any {
	if len(opts) == 0 {
		return nil
	}
	out := make(map[string]any, len(opts))
	for k, v := range opts {
		out[k] = v
	}
	return out
}

func descriptorID(blockID, component string) string {
	return fmt.Sprintf("%s:%s", blockID, strings.ToLower(component))
}
