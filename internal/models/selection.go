package models

import (
	"slices"
	"strings"
)

// Normalize trims, de-duplicates and sorts each dimension so that equal
// selections compare and hash equal. Blank values are dropped.
func (s Selection) Normalize() Selection {
	return Selection{
		Categories: normalizeValues(s.Categories),
		Promos:     normalizeValues(s.Promos),
		Segments:   normalizeValues(s.Segments),
	}
}

// IsUnrestricted reports whether no dimension is filtered.
func (s Selection) IsUnrestricted() bool {
	return len(s.Categories) == 0 && len(s.Promos) == 0 && len(s.Segments) == 0
}

func normalizeValues(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		out = append(out, v)
	}
	slices.Sort(out)
	return slices.Compact(out)
}
