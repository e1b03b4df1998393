package types

import "time"

// FieldType is the declared type of a field after unifying all observed values.
type FieldType string

// Field type constants.
const (
	TypeNumber   FieldType = "number"
	TypeString   FieldType = "string"
	TypeBoolean  FieldType = "boolean"
	TypeDatetime FieldType = "datetime"
	TypeArray    FieldType = "array"
	TypeObject   FieldType = "object"
	TypeMixed    FieldType = "mixed"
	TypeUnknown  FieldType = "unknown"
)

// SemanticRole tags what a field represents, used to match fields against
// component requirements.
type SemanticRole string

// Semantic role constants.
const (
	RoleTitle      SemanticRole = "title"
	RoleLink       SemanticRole = "link"
	RoleDatetime   SemanticRole = "datetime"
	RoleValue      SemanticRole = "value"
	RoleCategory   SemanticRole = "category"
	RoleIdentifier SemanticRole = "identifier"
	RoleImage      SemanticRole = "image"
	RoleText       SemanticRole = "text"
)

// FieldSummary describes one field observed across a record sample.
type FieldSummary struct {
	Name    string         `json:"name"`
	Type    FieldType      `json:"type"`
	Samples []any          `json:"samples,omitempty"` // representative values, capped
	Stats   *FieldStats    `json:"stats,omitempty"`
	Roles   []SemanticRole `json:"roles,omitempty"`
}

// HasRole reports whether the field carries the given semantic role.
func (f *FieldSummary) HasRole(role SemanticRole) bool {
	for _, r := range f.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// FieldStats holds per-field statistics. Which fields are set depends on the
// declared type: number fields carry min/max/mean/median/stddev, datetime
// fields carry the time bounds and parseable count, array fields the average
// element count.
type FieldStats struct {
	Min       *float64 `json:"min,omitempty"`
	Max       *float64 `json:"max,omitempty"`
	Mean      *float64 `json:"mean,omitempty"`
	Median    *float64 `json:"median,omitempty"`
	StdDev    *float64 `json:"stddev,omitempty"` // population stddev, only when n > 1
	MinTime   string   `json:"min_time,omitempty"`
	MaxTime   string   `json:"max_time,omitempty"`
	TimeCount int      `json:"time_count,omitempty"`
	AvgItems  *float64 `json:"avg_items,omitempty"`
}

// TimeRange spans the parseable datetime values of a dataset.
type TimeRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// SchemaSummary is the inferred structural description of a record sample.
// Fields are sorted by name; Digest is a deterministic fingerprint of the
// sorted name:type pairs, usable for change detection and caching.
type SchemaSummary struct {
	Fields      []FieldSummary `json:"fields"`
	RecordCount int            `json:"record_count"`
	TimeRange   *TimeRange     `json:"time_range,omitempty"`
	Digest      string         `json:"digest"`
}

// Field returns the summary for the named field, or nil.
func (s *SchemaSummary) Field(name string) *FieldSummary {
	for i := range s.Fields {
		if s.Fields[i].Name == name {
			return &s.Fields[i]
		}
	}
	return nil
}

// RolePool returns the set of semantic roles present across all fields.
func (s *SchemaSummary) RolePool() map[SemanticRole]bool {
	pool := make(map[SemanticRole]bool)
	for i := range s.Fields {
		for _, role := range s.Fields[i].Roles {
			pool[role] = true
		}
	}
	return pool
}
