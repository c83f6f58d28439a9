package session

import (
	"strings"

	"photosift/internal/inventory"
)

// Filter narrows which undecided items a session offers. A zero Filter
// matches everything.
type Filter struct {
	Kind    inventory.Kind
	Pattern string
}

// IsZero reports whether the filter matches all items.
func (f Filter) IsZero() bool {
	return f.Kind == "" && strings.TrimSpace(f.Pattern) == ""
}

// Matches reports whether the item satisfies both the kind and the pattern
// constraint. The pattern is a case-insensitive substring match over the
// item's relative path.
func (f Filter) Matches(item *Item) bool {
	if item == nil {
		return false
	}
	if f.Kind != "" && item.Kind != f.Kind {
		return false
	}
	pattern := strings.TrimSpace(f.Pattern)
	if pattern == "" {
		return true
	}
	return strings.Contains(strings.ToLower(item.RelativePath), strings.ToLower(pattern))
}

// String renders the filter for prompts and logs.
func (f Filter) String() string {
	if f.IsZero() {
		return "none"
	}
	var parts []string
	if f.Kind != "" {
		parts = append(parts, "kind="+string(f.Kind))
	}
	if pattern := strings.TrimSpace(f.Pattern); pattern != "" {
		parts = append(parts, "match="+pattern)
	}
	return strings.Join(parts, " ")
}
