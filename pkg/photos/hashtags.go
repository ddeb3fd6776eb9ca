package photos

import "slices"

// MergeUnique appends the tags in add to base, skipping any already present,
// preserving first-seen order. base is not modified.
func MergeUnique(base, add []string) []string {
	out := make([]string, 0, len(base)+len(add))
	seen := make(map[string]struct{}, len(base)+len(add))
	for _, list := range [][]string{base, add} {
		for _, tag := range list {
			if _, ok := seen[tag]; ok {
				continue
			}
			seen[tag] = struct{}{}
			out = append(out, tag)
		}
	}
	return out
}

// RemoveFirst returns a copy of tags without the first occurrence of tag.
func RemoveFirst(tags []string, tag string) []string {
	out := slices.Clone(tags)
	if idx := slices.Index(out, tag); idx >= 0 {
		out = slices.Delete(out, idx, idx+1)
	}
	return out
}
