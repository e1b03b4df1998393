// Package catalog holds the static table of UI component capabilities and
// the suggester that matches inferred schema summaries against it.
package catalog

import (
	"sort"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/invopop/jsonschema"

	"github.com/feedui/panelgen/pkg/types"
)

// Component ids.
const (
	ListPanel = "ListPanel"
	LineChart = "LineChart"
	StatCard  = "StatCard"
	MediaGrid = "MediaGrid"
	RichText  = "RichText"
)

// rolePriority orders roles for field binding: components claim fields for
// their higher-priority roles first.
var rolePriority = []types.SemanticRole{
	types.RoleTitle,
	types.RoleLink,
	types.RoleDatetime,
	types.RoleValue,
	types.RoleCategory,
	types.RoleIdentifier,
	types.RoleImage,
	types.RoleText,
}

// roleBit maps each role to a stable bitmap position.
var roleBit = func() map[types.SemanticRole]uint32 {
	m := make(map[types.SemanticRole]uint32, len(rolePriority))
	for i, role := range rolePriority {
		m[role] = uint32(i)
	}
	return m
}()

// ComponentDefinition declares what one UI component needs and how it sits
// on the grid by default. Static and read-only after startup.
type ComponentDefinition struct {
	ID             string
	RequiredRoles  []types.SemanticRole // all must be satisfiable or the component is excluded
	OptionalRoles  []types.SemanticRole // bound when present, each raises confidence
	DefaultOptions map[string]any
	OptionSchema   *jsonschema.Schema // schema of the configurable options
	Interactions   []types.Interaction
	SizeClass      string // quarter|third|half|full
	MinHeight      int    // pixels
	BaseConfidence float64

	required *roaring.Bitmap
}

// Catalog is the process-wide component capability table. Built once at
// startup, safe for unsynchronized concurrent reads.
type Catalog struct {
	components []*ComponentDefinition
	byID       map[string]*ComponentDefinition
}

// New builds a catalog from definitions, preserving catalogue order.
func New(defs []*ComponentDefinition) *Catalog {
	c := &Catalog{
		components: defs,
		byID:       make(map[string]*ComponentDefinition, len(defs)),
	}
	for _, def := range defs {
		def.required = roleBitmap(def.RequiredRoles)
		c.byID[def.ID] = def
	}
	return c
}

// Default returns the built-in component catalogue.
func Default() *Catalog {
	return New([]*ComponentDefinition{
		{
			ID:            ListPanel,
			RequiredRoles: []types.SemanticRole{types.RoleTitle},
			OptionalRoles: []types.SemanticRole{types.RoleLink, types.RoleDatetime, types.RoleText, types.RoleIdentifier},
			DefaultOptions: map[string]any{
				"max_items": 10,
				"compact":   false,
			},
			OptionSchema: optionSchema(map[string]*jsonschema.Schema{
				"max_items": {Type: "integer"},
				"compact":   {Type: "boolean"},
			}),
			Interactions: []types.Interaction{
				{Type: "open", Label: "Open"},
			},
			SizeClass:      "half",
			MinHeight:      240,
			BaseConfidence: 0.75,
		},
		{
			ID:            LineChart,
			RequiredRoles: []types.SemanticRole{types.RoleValue, types.RoleDatetime},
			OptionalRoles: []types.SemanticRole{types.RoleTitle, types.RoleCategory},
			DefaultOptions: map[string]any{
				"smooth": true,
			},
			OptionSchema: optionSchema(map[string]*jsonschema.Schema{
				"smooth": {Type: "boolean"},
			}),
			Interactions: []types.Interaction{
				{Type: "zoom", Label: "Zoom"},
			},
			SizeClass:      "half",
			MinHeight:      280,
			BaseConfidence: 0.8,
		},
		{
			ID:            StatCard,
			RequiredRoles: []types.SemanticRole{types.RoleValue},
			OptionalRoles: []types.SemanticRole{types.RoleTitle, types.RoleDatetime},
			OptionSchema: optionSchema(map[string]*jsonschema.Schema{
				"precision": {Type: "integer"},
			}),
			SizeClass:      "quarter",
			MinHeight:      120,
			BaseConfidence: 0.6,
		},
		{
			ID:            MediaGrid,
			RequiredRoles: []types.SemanticRole{types.RoleImage, types.RoleTitle},
			OptionalRoles: []types.SemanticRole{types.RoleLink, types.RoleDatetime, types.RoleCategory},
			DefaultOptions: map[string]any{
				"columns": 3,
			},
			OptionSchema: optionSchema(map[string]*jsonschema.Schema{
				"columns": {Type: "integer"},
			}),
			Interactions: []types.Interaction{
				{Type: "open", Label: "Open"},
			},
			SizeClass:      "full",
			MinHeight:      320,
			BaseConfidence: 0.7,
		},
		{
			ID:            RichText,
			RequiredRoles: []types.SemanticRole{types.RoleText},
			OptionalRoles: []types.SemanticRole{types.RoleTitle},
			OptionSchema: optionSchema(map[string]*jsonschema.Schema{
				"markdown": {Type: "boolean"},
			}),
			SizeClass:      "full",
			MinHeight:      160,
			BaseConfidence: 0.55,
		},
	})
}

// Get returns the definition for a component id, or nil.
func (c *Catalog) Get(id string) *ComponentDefinition {
	return c.byID[id]
}

// Components returns the definitions in catalogue order.
func (c *Catalog) Components() []*ComponentDefinition {
	return c.components
}

// roleBitmap builds a bitmap for a role set.
func roleBitmap(roles []types.SemanticRole) *roaring.Bitmap {
	bm := roaring.New()
	for _, role := range roles {
		bm.Add(roleBit[role])
	}
	return bm
}

// poolBitmap builds a bitmap of all roles a schema summary offers.
func poolBitmap(summary *types.SchemaSummary) *roaring.Bitmap {
	bm := roaring.New()
	for role := range summary.RolePool() {
		bm.Add(roleBit[role])
	}
	return bm
}

// satisfiable reports whether every required role of the component appears in
// the pool.
func (d *ComponentDefinition) satisfiable(pool *roaring.Bitmap) bool {
	return roaring.And(d.required, pool).GetCardinality() == d.required.GetCardinality()
}

func optionSchema(props map[string]*jsonschema.Schema) *jsonschema.Schema {
	s := &jsonschema.Schema{
		Type:       "object",
		Properties: jsonschema.NewProperties(),
	}
	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		s.Properties.Set(name, props[name])
	}
	return s
}
