// Package tags serializes user and task tag sets to the persisted string
// form and implements the superset filter used for campaign targeting.
package tags

import (
	"encoding/json"
	"sort"
)

// Encode serializes a tag set as a JSON array. A nil set encodes as "[]".
func Encode(set []string) string {
	if set == nil {
		set = []string{}
	}
	b, err := json.Marshal(set)
	if err != nil {
		return "[]"
	}
	return string(b)
}

// Decode parses a persisted tag string. Malformed or empty input yields an
// empty list, never an error; callers must not distinguish the two cases.
func Decode(s string) []string {
	if s == "" {
		return []string{}
	}
	var set []string
	if err := json.Unmarshal([]byte(s), &set); err != nil {
		return []string{}
	}
	if set == nil {
		return []string{}
	}
	return set
}

// Add inserts tag with set semantics: adding a tag already present is a no-op.
func Add(set []string, tag string) []string {
	for _, t := range set {
		if t == tag {
			return set
		}
	}
	return append(set, tag)
}

// ContainsAll reports whether set contains every tag in want. An empty want
// always matches.
func ContainsAll(set, want []string) bool {
	for _, w := range want {
		found := false
		for _, t := range set {
			if t == w {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// SortedUnion deduplicates and sorts the tags of all given sets.
func SortedUnion(sets ...[]string) []string {
	seen := make(map[string]struct{})
	for _, set := range sets {
		for _, t := range set {
			seen[t] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for t := range seen {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
