package schema

import (
	"regexp"
	"strings"

	"github.com/feedui/panelgen/pkg/record"
	"github.com/feedui/panelgen/pkg/types"
)

// Role assignment is heuristic: field names carry most of the signal, value
// shapes refine it. A field may carry several roles.

var urlValuePattern = regexp.MustCompile(`^https?://`)

var (
	titleNames      = map[string]bool{"title": true, "name": true, "subject": true, "headline": true}
	linkNameHints   = []string{"url", "link", "href", "permalink"}
	datetimeNames   = map[string]bool{"date": true, "time": true, "datetime": true, "timestamp": true, "created_at": true, "updated_at": true, "published_at": true, "fetched_at": true}
	identifierNames = map[string]bool{"id": true, "uuid": true, "key": true, "slug": true}
	imageNameHints  = []string{"image", "img", "thumbnail", "thumb", "avatar", "cover", "icon"}
	categoryNames   = map[string]bool{"tags": true, "categories": true, "category": true, "labels": true, "topics": true}
	textNames       = map[string]bool{"content": true, "body": true, "description": true, "summary": true, "excerpt": true, "text": true, "comment": true}
)

const (
	longTextThreshold    = 80 // average chars before a string field reads as prose
	shortStringThreshold = 32 // max element length for category-like lists
)

// assignRoles tags a field with semantic roles based on its name, declared
// type and observed values.
func assignRoles(name string, declared types.FieldType, values []any) []types.SemanticRole {
	var roles []types.SemanticRole
	add := func(role types.SemanticRole) {
		for _, r := range roles {
			if r == role {
				return
			}
		}
		roles = append(roles, role)
	}

	// Dotted paths match on their last segment: metrics.views acts as views.
	base := name
	if idx := strings.LastIndex(base, "."); idx != -1 {
		base = base[idx+1:]
	}
	lower := strings.ToLower(base)

	if titleNames[lower] {
		add(types.RoleTitle)
	}

	if nameContainsAny(lower, linkNameHints) || allStringsMatch(values, urlValuePattern) {
		add(types.RoleLink)
	}

	if declared == types.TypeDatetime || (datetimeNames[lower] && hasParseableTime(values)) {
		add(types.RoleDatetime)
	}

	if declared == types.TypeNumber {
		add(types.RoleValue)
	}

	if identifierNames[lower] || strings.HasSuffix(lower, "_id") {
		add(types.RoleIdentifier)
	}

	if nameContainsAny(lower, imageNameHints) {
		add(types.RoleImage)
	}

	if categoryNames[lower] || isShortStringList(declared, values) {
		add(types.RoleCategory)
	}

	if textNames[lower] || isLongText(declared, values) {
		add(types.RoleText)
	}

	return roles
}

func nameContainsAny(lower string, hints []string) bool {
	for _, h := range hints {
		if strings.Contains(lower, h) {
			return true
		}
	}
	return false
}

func allStringsMatch(values []any, pattern *regexp.Regexp) bool {
	matched := 0
	for _, v := range values {
		s, ok := v.(string)
		if !ok {
			if v == nil {
				continue
			}
			return false
		}
		if !pattern.MatchString(s) {
			return false
		}
		matched++
	}
	return matched > 0
}

func hasParseableTime(values []any) bool {
	for _, v := range values {
		if _, ok := record.ParseTime(v); ok {
			return true
		}
	}
	return false
}

// isShortStringList reports whether the field holds lists of short strings,
// the shape of tag/category fields.
func isShortStringList(declared types.FieldType, values []any) bool {
	if declared != types.TypeArray {
		return false
	}
	elements := 0
	for _, v := range values {
		arr, ok := v.([]any)
		if !ok {
			continue
		}
		for _, el := range arr {
			s, ok := el.(string)
			if !ok || len(s) > shortStringThreshold {
				return false
			}
			elements++
		}
	}
	return elements > 0
}

// isLongText reports whether a string field's average length reads as prose.
func isLongText(declared types.FieldType, values []any) bool {
	if declared != types.TypeString {
		return false
	}
	total, count := 0, 0
	for _, v := range values {
		if s, ok := v.(string); ok {
			total += len(s)
			count++
		}
	}
	return count > 0 && total/count > longTextThreshold
}
