package models

import "strings"

// NormalizeTags flattens comma-delimited tag input. Every piece is trimmed,
// lowercased and stripped of leading '#'; empty pieces are dropped and
// duplicates collapse onto their first occurrence.
func NormalizeTags(raw ...string) []string {
	tags := make([]string, 0, len(raw))
	seen := make(map[string]struct{})

	for _, piece := range strings.Split(strings.Join(raw, ","), ",") {
		tag := strings.TrimLeft(strings.ToLower(strings.TrimSpace(piece)), "#")
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}

	return tags
}
