// Package normalize cleans user-supplied strings before they are validated
// or stored. Free text goes through bluemonday's strict policy so no markup
// survives into group descriptions, activity notes, or display names.
package normalize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// Text strips all HTML from s and trims surrounding whitespace.
func Text(s string) string {
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}

// Name is Text plus inner whitespace collapsed to single spaces.
func Name(s string) string {
	return strings.Join(strings.Fields(Text(s)), " ")
}

// Email lowercases and trims an email address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Role lowercases and trims a membership role.
func Role(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Visibility lowercases and trims a group visibility value.
func Visibility(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// QueryParam trims a query-string value, preserving case.
func QueryParam(s string) string {
	return strings.TrimSpace(s)
}

// Tags normalizes each tag with Name and drops empties and duplicates,
// preserving first-seen order.
func Tags(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, t := range in {
		t = Name(t)
		if t == "" {
			continue
		}
		key := strings.ToLower(t)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, t)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
