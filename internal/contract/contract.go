// Package contract enforces per-component data contracts: the structural
// requirements records must satisfy before they are handed to a rendering
// frontend as a UI block.
package contract

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/feedui/panelgen/pkg/record"
)

// Violation is the typed failure returned when records bound to a known
// component do not satisfy that component's required field shape.
type Violation struct {
	Component string
	Detail    string
}

func (v *Violation) Error() string {
	return fmt.Sprintf("contract violation for %s: %s", v.Component, v.Detail)
}

// DefaultCacheSize bounds the compiled-schema cache.
const DefaultCacheSize = 64

// contracts maps component ids to the JSON Schema their bound records must
// satisfy. Field names here are the canonical prop names; callers project
// records through their prop bindings before validating.
var contracts = map[string]map[string]any{
	"ListPanel": {
		"type": "object",
		"properties": map[string]any{
			"title": map[string]any{"type": "string", "minLength": 1},
			"link":  map[string]any{"type": "string"},
		},
		"required": []any{"title"},
	},
	"LineChart": {
		"type": "object",
		"properties": map[string]any{
			"value": map[string]any{"type": []any{"number", "integer"}},
		},
		"required": []any{"value"},
	},
	"StatCard": {
		"type": "object",
		"properties": map[string]any{
			"value": map[string]any{"type": []any{"number", "integer"}},
		},
		"required": []any{"value"},
	},
	"MediaGrid": {
		"type": "object",
		"properties": map[string]any{
			"image": map[string]any{"type": "string", "minLength": 1},
			"title": map[string]any{"type": "string", "minLength": 1},
		},
		"required": []any{"image", "title"},
	},
	"RichText": {
		"type": "object",
		"required": []any{"text"},
	},
}

// Validator validates records against component contracts. Compiled schemas
// are cached; safe for concurrent use.
type Validator struct {
	cache *lru.Cache[string, *jsonschema.Schema]
}

// NewValidator creates a Validator with the given compiled-schema cache size.
func NewValidator(cacheSize int) (*Validator, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	cache, err := lru.New[string, *jsonschema.Schema](cacheSize)
	if err != nil {
		return nil, err
	}
	return &Validator{cache: cache}, nil
}

// Validate checks every record against the component's contract and returns
// the records unchanged on success. Unknown component ids pass through
// unvalidated. On failure the error is a *Violation carrying the component id
// and the structural detail.
func (v *Validator) Validate(component string, records []record.Record) ([]record.Record, error) {
	doc, known := contracts[component]
	if !known {
		return records, nil
	}

	compiled, err := v.compiled(component, doc)
	if err != nil {
		return nil, fmt.Errorf("compiling contract for %s: %w", component, err)
	}

	for i, rec := range records {
		value, err := jsonValue(rec)
		if err != nil {
			return nil, &Violation{Component: component, Detail: fmt.Sprintf("record %d is not JSON-representable: %v", i, err)}
		}
		if err := compiled.Validate(value); err != nil {
			return nil, &Violation{
				Component: component,
				Detail:    fmt.Sprintf("record %d: %s", i, strings.Join(extractErrors(err), "; ")),
			}
		}
	}

	return records, nil
}

// Project renames bound fields to their canonical prop names so records can
// be validated against a component contract regardless of the source's field
// naming. Unbound fields carry over unchanged.
func Project(records []record.Record, props map[string]string) []record.Record {
	if len(props) == 0 {
		return records
	}
	projected := make([]record.Record, 0, len(records))
	for _, rec := range records {
		out := rec.Clone()
		for prop, field := range props {
			if prop == field {
				continue
			}
			if v, ok := rec[field]; ok {
				out[prop] = v
			}
		}
		projected = append(projected, out)
	}
	return projected
}

// compiled returns the cached compiled schema for a component, compiling on
// first use.
func (v *Validator) compiled(component string, doc map[string]any) (*jsonschema.Schema, error) {
	if schema, ok := v.cache.Get(component); ok {
		return schema, nil
	}

	compiler := jsonschema.NewCompiler()
	resource := component + ".json"
	if err := compiler.AddResource(resource, jsonDocValue(doc)); err != nil {
		return nil, err
	}
	schema, err := compiler.Compile(resource)
	if err != nil {
		return nil, err
	}

	v.cache.Add(component, schema)
	return schema, nil
}

// jsonDocValue round-trips a schema document through JSON so the compiler
// sees plain decoded values.
func jsonDocValue(doc map[string]any) any {
	b, err := json.Marshal(doc)
	if err != nil {
		return doc
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return doc
	}
	return out
}

// jsonValue round-trips a record through JSON; adapter-produced values may
// hold Go-native ints the validator would otherwise reject.
func jsonValue(rec record.Record) (any, error) {
	b, err := json.Marshal(rec)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// printer renders localized validation messages.
var printer = message.NewPrinter(language.English)

// extractErrors flattens a validation error into human-readable messages.
func extractErrors(err error) []string {
	var validationErr *jsonschema.ValidationError
	if !errors.As(err, &validationErr) {
		return []string{err.Error()}
	}

	byPath := make(map[string][]string)
	collectErrors(validationErr, byPath)

	var result []string
	for path, msgs := range byPath {
		seen := make(map[string]bool)
		for _, msg := range msgs {
			if seen[msg] {
				continue
			}
			seen[msg] = true
			if path != "" {
				result = append(result, fmt.Sprintf("%s: %s", path, msg))
			} else {
				result = append(result, msg)
			}
		}
	}
	if len(result) == 0 {
		result = []string{validationErr.Error()}
	}
	return result
}

// collectErrors gathers leaf errors keyed by instance path.
func collectErrors(err *jsonschema.ValidationError, byPath map[string][]string) {
	path := ""
	if len(err.InstanceLocation) > 0 {
		path = "/" + strings.Join(err.InstanceLocation, "/")
	}

	if err.ErrorKind != nil && len(err.Causes) == 0 {
		msg := err.ErrorKind.LocalizedString(printer)
		if !strings.HasPrefix(msg, "$ref ") && !strings.HasPrefix(msg, "doesn't validate with") {
			byPath[path] = append(byPath[path], msg)
		}
	}

	for _, cause := range err.Causes {
		collectErrors(cause, byPath)
	}
}
