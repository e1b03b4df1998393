// Package adapter maps feed routes to transform functions that reshape
// route-specific raw payloads into normalized records plus suggested
// component plans.
package adapter

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/feedui/panelgen/pkg/types"
)

// Context carries per-call execution hints into adapters.
type Context struct {
	// Components is the caller-requested component subset. Adapters may
	// short-circuit when none of the components they produce are listed.
	Components []string
}

// Wants reports whether the caller asked for the component. An empty subset
// means everything is wanted.
func (c *Context) Wants(component string) bool {
	if c == nil || len(c.Components) == 0 {
		return true
	}
	for _, id := range c.Components {
		if id == component {
			return true
		}
	}
	return false
}

// Func transforms one raw fetch payload into an adapter result. Adapters are
// pure: same input, same output, no retained state.
type Func func(ctx *Context, source types.SourceInfo, raws []any) (*types.AdapterResult, error)

type entry struct {
	pattern string
	fn      Func
}

// Registry resolves routes to adapters by longest registered prefix.
// Registration happens once during process startup; afterwards the registry
// is read-only and safe for unsynchronized concurrent resolution.
type Registry struct {
	entries []entry // sorted by descending pattern length
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds an adapter under a route pattern. Patterns are normalized
// like routes; a later registration of the same pattern replaces the earlier.
func (r *Registry) Register(pattern string, fn Func) {
	pattern = NormalizeRoute(pattern)
	for i := range r.entries {
		if r.entries[i].pattern == pattern {
			r.entries[i].fn = fn
			return
		}
	}
	r.entries = append(r.entries, entry{pattern: pattern, fn: fn})
	sort.SliceStable(r.entries, func(i, j int) bool {
		return len(r.entries[i].pattern) > len(r.entries[j].pattern)
	})
}

// Resolve returns the adapter registered under the longest structurally
// matching prefix of the route. Unmatched routes resolve to the default
// pass-through adapter.
func (r *Registry) Resolve(route string) Func {
	route = NormalizeRoute(route)
	for _, e := range r.entries {
		if matches(e.pattern, route) {
			return e.fn
		}
	}
	slog.Debug("no adapter registered for route", "route", route)
	return defaultAdapter(route)
}

// Patterns returns the registered patterns, longest first.
func (r *Registry) Patterns() []string {
	patterns := make([]string, 0, len(r.entries))
	for _, e := range r.entries {
		patterns = append(patterns, e.pattern)
	}
	return patterns
}

// NormalizeRoute ensures a leading slash and strips a trailing slash, with
// the root "/" preserved.
func NormalizeRoute(route string) string {
	if route == "" {
		return "/"
	}
	if !strings.HasPrefix(route, "/") {
		route = "/" + route
	}
	if len(route) > 1 {
		route = strings.TrimRight(route, "/")
		if route == "" {
			route = "/"
		}
	}
	return route
}

// matches reports whether the pattern is a structural prefix of the route:
// equal, or a prefix whose remainder starts at a path-segment boundary.
func matches(pattern, route string) bool {
	if pattern == route {
		return true
	}
	if !strings.HasPrefix(route, pattern) {
		return false
	}
	if strings.HasSuffix(pattern, "/") {
		return true
	}
	rest := route[len(pattern):]
	return rest == "" || strings.HasPrefix(rest, "/")
}

// defaultAdapter passes records through unchanged, flagging the result so the
// caller can surface that no route-specific reshaping happened.
func defaultAdapter(route string) Func {
	return func(ctx *Context, source types.SourceInfo, raws []any) (*types.AdapterResult, error) {
		return &types.AdapterResult{
			Records: normalizeRaws(raws),
			Stats: map[string]any{
				"using_default_adapter": true,
				"warning":               fmt.Sprintf("no adapter registered for route %q; records passed through unchanged", route),
			},
		}, nil
	}
}
