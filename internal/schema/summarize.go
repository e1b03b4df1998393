// Package schema infers per-field type, semantic role and statistics from a
// sample of normalized records, producing the schema summary the component
// suggester matches against.
package schema

import (
	"encoding/json"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/feedui/panelgen/pkg/record"
	"github.com/feedui/panelgen/pkg/types"
)

const (
	// DefaultMaxSamples caps the representative values kept per field.
	DefaultMaxSamples = 5

	// reservedPrefix marks internal fields excluded from summarization.
	reservedPrefix = "_"

	// digestPrefix wraps the structural fingerprint.
	digestPrefix = "schema:"

	// EmptyDigest is the sentinel digest of an empty record set.
	EmptyDigest = digestPrefix + "empty"
)

// Summarizer infers schema summaries from record samples.
type Summarizer struct {
	maxSamples int
}

// NewSummarizer creates a Summarizer keeping at most maxSamples representative
// values per field. Non-positive values fall back to DefaultMaxSamples.
func NewSummarizer(maxSamples int) *Summarizer {
	if maxSamples <= 0 {
		maxSamples = DefaultMaxSamples
	}
	return &Summarizer{maxSamples: maxSamples}
}

// valueKind classifies a single observed value.
type valueKind int

const (
	kindNull valueKind = iota
	kindBool
	kindNumber
	kindDatetime
	kindArray
	kindObject
	kindString
)

// Summarize infers a schema summary from the given records. The result's
// fields are sorted by name and its digest is deterministic: the same record
// set always produces the same digest string.
func (s *Summarizer) Summarize(records []record.Record) *types.SchemaSummary {
	if len(records) == 0 {
		return &types.SchemaSummary{
			Fields: []types.FieldSummary{},
			Digest: EmptyDigest,
		}
	}

	// Collect per-field value lists, flattening nested maps to dotted paths.
	valuesByField := make(map[string][]any)
	for _, rec := range records {
		flattenInto("", rec, valuesByField)
	}

	names := make([]string, 0, len(valuesByField))
	for name := range valuesByField {
		names = append(names, name)
	}
	sort.Strings(names)

	fields := make([]types.FieldSummary, 0, len(names))
	var rangeMin, rangeMax time.Time
	for _, name := range names {
		values := valuesByField[name]
		declared := unifyTypes(values)

		field := types.FieldSummary{
			Name:    name,
			Type:    declared,
			Samples: collectSamples(values, s.maxSamples),
			Stats:   computeStats(declared, values),
			Roles:   assignRoles(name, declared, values),
		}
		fields = append(fields, field)

		for _, v := range values {
			if t, ok := record.ParseTime(v); ok {
				if rangeMin.IsZero() || t.Before(rangeMin) {
					rangeMin = t
				}
				if rangeMax.IsZero() || t.After(rangeMax) {
					rangeMax = t
				}
			}
		}
	}

	summary := &types.SchemaSummary{
		Fields:      fields,
		RecordCount: len(records),
		Digest:      computeDigest(fields),
	}
	if !rangeMin.IsZero() {
		summary.TimeRange = &types.TimeRange{Start: rangeMin, End: rangeMax}
	}
	return summary
}

// flattenInto collects a record's values under dotted paths, expanding nested
// maps. Reserved-prefix fields are skipped at every level.
func flattenInto(prefix string, rec record.Record, out map[string][]any) {
	for name, v := range rec {
		if strings.HasPrefix(name, reservedPrefix) {
			continue
		}
		path := name
		if prefix != "" {
			path = prefix + "." + name
		}
		if nested, ok := v.(map[string]any); ok && len(nested) > 0 {
			flattenInto(path, record.Record(nested), out)
			continue
		}
		out[path] = append(out[path], v)
	}
}

// classifyValue maps one observed value to its kind. Booleans are distinct
// from numbers, and strings that parse as timestamps classify as datetime.
func classifyValue(v any) valueKind {
	switch t := v.(type) {
	case nil:
		return kindNull
	case bool:
		return kindBool
	case float64, float32, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, json.Number:
		return kindNumber
	case string:
		if _, ok := record.ParseTime(t); ok {
			return kindDatetime
		}
		return kindString
	case []any:
		return kindArray
	case map[string]any, record.Record:
		return kindObject
	case time.Time:
		return kindDatetime
	default:
		return kindString
	}
}

// unifyTypes merges the kinds observed for one field into a declared type:
// {number,null} -> number, {string,datetime,null} -> string, any other
// mixture -> mixed, only null or no values -> unknown.
func unifyTypes(values []any) types.FieldType {
	kinds := make(map[valueKind]bool)
	for _, v := range values {
		kinds[classifyValue(v)] = true
	}
	delete(kinds, kindNull)

	if len(kinds) == 0 {
		return types.TypeUnknown
	}
	if len(kinds) == 1 {
		for k := range kinds {
			return kindType(k)
		}
	}
	if len(kinds) == 2 && kinds[kindString] && kinds[kindDatetime] {
		return types.TypeString
	}
	return types.TypeMixed
}

func kindType(k valueKind) types.FieldType {
	switch k {
	case kindBool:
		return types.TypeBoolean
	case kindNumber:
		return types.TypeNumber
	case kindDatetime:
		return types.TypeDatetime
	case kindArray:
		return types.TypeArray
	case kindObject:
		return types.TypeObject
	case kindString:
		return types.TypeString
	default:
		return types.TypeUnknown
	}
}

// collectSamples keeps up to max non-null values: the first max-1 observed
// plus always the last one, so late or extreme values stay visible.
func collectSamples(values []any, max int) []any {
	nonNull := make([]any, 0, len(values))
	for _, v := range values {
		if v == nil {
			continue
		}
		nonNull = append(nonNull, v)
	}
	if len(nonNull) <= max {
		return nonNull
	}
	samples := make([]any, 0, max)
	samples = append(samples, nonNull[:max-1]...)
	samples = append(samples, nonNull[len(nonNull)-1])
	return samples
}

// computeStats builds statistics appropriate for the declared type. Values
// that fail to parse are excluded rather than treated as errors.
func computeStats(declared types.FieldType, values []any) *types.FieldStats {
	switch declared {
	case types.TypeNumber:
		return numberStats(values)
	case types.TypeDatetime:
		return datetimeStats(values)
	case types.TypeArray:
		return arrayStats(values)
	default:
		return nil
	}
}

func numberStats(values []any) *types.FieldStats {
	nums := make([]float64, 0, len(values))
	for _, v := range values {
		if f, ok := asFloat(v); ok {
			nums = append(nums, f)
		}
	}
	if len(nums) == 0 {
		return nil
	}
	sort.Float64s(nums)

	min := nums[0]
	max := nums[len(nums)-1]

	var sum float64
	for _, n := range nums {
		sum += n
	}
	mean := sum / float64(len(nums))

	mid := len(nums) / 2
	median := nums[mid]
	if len(nums)%2 == 0 {
		median = (nums[mid-1] + nums[mid]) / 2
	}

	stats := &types.FieldStats{
		Min:    &min,
		Max:    &max,
		Mean:   &mean,
		Median: &median,
	}

	if len(nums) > 1 {
		var sq float64
		for _, n := range nums {
			d := n - mean
			sq += d * d
		}
		stddev := math.Sqrt(sq / float64(len(nums)))
		stats.StdDev = &stddev
	}

	return stats
}

func datetimeStats(values []any) *types.FieldStats {
	var min, max time.Time
	count := 0
	for _, v := range values {
		t, ok := record.ParseTime(v)
		if !ok {
			continue
		}
		count++
		if min.IsZero() || t.Before(min) {
			min = t
		}
		if max.IsZero() || t.After(max) {
			max = t
		}
	}
	if count == 0 {
		return nil
	}
	return &types.FieldStats{
		MinTime:   min.Format(time.RFC3339),
		MaxTime:   max.Format(time.RFC3339),
		TimeCount: count,
	}
}

func arrayStats(values []any) *types.FieldStats {
	total := 0
	count := 0
	for _, v := range values {
		if arr, ok := v.([]any); ok {
			total += len(arr)
			count++
		}
	}
	if count == 0 {
		return nil
	}
	avg := float64(total) / float64(count)
	return &types.FieldStats{AvgItems: &avg}
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

// computeDigest joins the sorted name:type pairs into the structural
// fingerprint. Purely a change/cache fingerprint, never a storage address.
func computeDigest(fields []types.FieldSummary) string {
	if len(fields) == 0 {
		return EmptyDigest
	}
	pairs := make([]string, 0, len(fields))
	for i := range fields {
		pairs = append(pairs, fields[i].Name+":"+string(fields[i].Type))
	}
	return digestPrefix + strings.Join(pairs, ";")
}
