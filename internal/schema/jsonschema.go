package schema

import (
	"github.com/invopop/jsonschema"

	"github.com/feedui/panelgen/pkg/types"
)

// JSONSchema serializes a schema summary as a JSON Schema (Draft 2020-12)
// object describing one record of the sample. Frontends use it to interpret
// the inline items of a UI block; semantic roles travel as an x-roles
// extension.
func JSONSchema(summary *types.SchemaSummary) *jsonschema.Schema {
	obj := &jsonschema.Schema{
		Type:       "object",
		Properties: jsonschema.NewProperties(),
	}
	if summary == nil {
		return obj
	}

	for i := range summary.Fields {
		field := &summary.Fields[i]
		obj.Properties.Set(field.Name, fieldSchema(field))
	}
	return obj
}

func fieldSchema(field *types.FieldSummary) *jsonschema.Schema {
	s := &jsonschema.Schema{}

	switch field.Type {
	case types.TypeNumber:
		s.Type = "number"
	case types.TypeString:
		s.Type = "string"
	case types.TypeBoolean:
		s.Type = "boolean"
	case types.TypeDatetime:
		s.Type = "string"
		s.Format = "date-time"
	case types.TypeArray:
		s.Type = "array"
	case types.TypeObject:
		s.Type = "object"
	default:
		// mixed and unknown stay untyped: any value validates
	}

	if len(field.Roles) > 0 {
		roles := make([]string, 0, len(field.Roles))
		for _, r := range field.Roles {
			roles = append(roles, string(r))
		}
		s.Extras = map[string]any{"x-roles": roles}
	}
	if len(field.Samples) > 0 {
		s.Examples = field.Samples
	}

	return s
}
