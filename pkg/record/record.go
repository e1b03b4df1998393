// Package record provides the uniform map representation for heterogeneous
// feed records and total accessor functions over JSON-like values.
package record

import (
	"encoding/json"
	"fmt"
	"time"
)

// Record is a normalized feed record: field name to arbitrary JSON-like value.
type Record map[string]any

// Normalize converts an arbitrary raw value into a Record. Maps pass through
// field by field, struct-like values are round-tripped through JSON, and
// anything else becomes a single "value" field.
func Normalize(raw any) Record {
	switch v := raw.(type) {
	case Record:
		return v
	case map[string]any:
		return Record(v)
	case nil:
		return Record{}
	}

	// Structured values (adapter-produced structs, json.RawMessage) convert
	// through JSON when they encode to an object.
	if b, err := json.Marshal(raw); err == nil {
		var m map[string]any
		if err := json.Unmarshal(b, &m); err == nil {
			return Record(m)
		}
	}

	return Record{"value": raw}
}

// NormalizeAll converts a raw heterogeneous list into records.
func NormalizeAll(raws []any) []Record {
	records := make([]Record, 0, len(raws))
	for _, raw := range raws {
		records = append(records, Normalize(raw))
	}
	return records
}

// String returns the field as a string. Non-string scalars are formatted,
// missing and nil fields return "".
func (r Record) String(key string) string {
	v, ok := r[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	switch v.(type) {
	case map[string]any, []any:
		return ""
	}
	return fmt.Sprintf("%v", v)
}

// Float returns the field as a float64 and whether it was numeric.
func (r Record) Float(key string) (float64, bool) {
	switch v := r[key].(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	}
	return 0, false
}

// Int returns the field as an int and whether it was numeric.
func (r Record) Int(key string) (int, bool) {
	f, ok := r.Float(key)
	return int(f), ok
}

// Map returns the field as a nested record and whether it was a map.
func (r Record) Map(key string) (Record, bool) {
	if m, ok := r[key].(map[string]any); ok {
		return Record(m), true
	}
	if m, ok := r[key].(Record); ok {
		return m, true
	}
	return nil, false
}

// Slice returns the field as a []any and whether it was an array.
func (r Record) Slice(key string) ([]any, bool) {
	s, ok := r[key].([]any)
	return s, ok
}

// Time returns the field parsed as a timestamp and whether parsing succeeded.
// Accepts RFC 3339, common date-only and space-separated layouts, and unix
// seconds or milliseconds.
func (r Record) Time(key string) (time.Time, bool) {
	return ParseTime(r[key])
}

// timeLayouts are attempted in order for string timestamp values.
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RFC1123Z,
	time.RFC1123,
}

// ParseTime parses an arbitrary JSON-like value as a timestamp.
func ParseTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case string:
		for _, layout := range timeLayouts {
			if parsed, err := time.Parse(layout, t); err == nil {
				return parsed, true
			}
		}
	case float64:
		return unixTime(int64(t))
	case int64:
		return unixTime(t)
	case int:
		return unixTime(int64(t))
	}
	return time.Time{}, false
}

// unixTime interprets n as unix seconds or, above 1e12, unix milliseconds.
// Values outside 1973-2128 are rejected rather than produce nonsense ranges.
func unixTime(n int64) (time.Time, bool) {
	const (
		minSeconds = 1e8  // 1973-03-03
		maxSeconds = 5e9  // 2128-06-11
		minMillis  = 1e12 // 2001-09-09 in ms
		maxMillis  = 5e12 // 2128-06-11 in ms
	)
	switch {
	case n >= minMillis && n <= maxMillis:
		return time.UnixMilli(n).UTC(), true
	case n >= minSeconds && n < maxSeconds:
		return time.Unix(n, 0).UTC(), true
	}
	return time.Time{}, false
}

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
