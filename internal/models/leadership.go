package models

import "strings"

// LeadershipEntry names one executive and their role.
type LeadershipEntry struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

// DedupeLeadership removes entries sharing the same lowercase (name, role)
// pair, preserving first-seen order. Running it twice yields the same list.
func DedupeLeadership(entries []LeadershipEntry) []LeadershipEntry {
	type key struct{ name, role string }
	seen := make(map[key]struct{}, len(entries))
	out := make([]LeadershipEntry, 0, len(entries))
	for _, e := range entries {
		k := key{strings.ToLower(e.Name), strings.ToLower(e.Role)}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, e)
	}
	return out
}
