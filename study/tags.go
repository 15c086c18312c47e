// Package study builds study sessions: it selects and shuffles the working
// question set, constructs multiple-choice option lists, and tracks session
// outcomes as an immutable state value.
//
// Everything in this package is pure; randomness is injected so callers can
// seed it for tests. Persistence and transport live in the services layer.
package study

import (
	"sort"
	"strings"

	"studyquiz/models"
)

// ParseTags splits a comma-delimited tag string into trimmed, non-empty
// labels. The delimited string is a storage detail; the domain type is a
// set of case-insensitive labels.
func ParseTags(tags string) []string {
	if tags == "" {
		return nil
	}
	parts := strings.Split(tags, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// NormalizeTag lowercases and trims a tag for case-insensitive comparison.
func NormalizeTag(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}

// TagSet builds a normalized lookup set from a list of tags, dropping
// empties.
func TagSet(tags []string) map[string]bool {
	set := make(map[string]bool, len(tags))
	for _, t := range tags {
		if n := NormalizeTag(t); n != "" {
			set[n] = true
		}
	}
	return set
}

// questionTags returns the normalized tag labels of a question.
func questionTags(q *models.Question) []string {
	raw := ParseTags(q.Tags)
	out := make([]string, 0, len(raw))
	for _, t := range raw {
		out = append(out, NormalizeTag(t))
	}
	return out
}

// hasAnyTag reports whether the question's tag set intersects the given
// normalized set.
func hasAnyTag(q *models.Question, set map[string]bool) bool {
	for _, t := range questionTags(q) {
		if set[t] {
			return true
		}
	}
	return false
}

// DistinctTags returns the sorted distinct tags across a question pool,
// preserving the first-seen original casing of each label.
func DistinctTags(questions []models.Question) []string {
	seen := make(map[string]string)
	for i := range questions {
		for _, t := range ParseTags(questions[i].Tags) {
			key := NormalizeTag(t)
			if _, ok := seen[key]; !ok {
				seen[key] = t
			}
		}
	}
	out := make([]string, 0, len(seen))
	for _, original := range seen {
		out = append(out, original)
	}
	sort.Strings(out)
	return out
}

// TagCounts counts how many questions carry each tag (case-insensitive).
func TagCounts(questions []models.Question) map[string]int {
	counts := make(map[string]int)
	for i := range questions {
		for _, t := range questionTags(&questions[i]) {
			counts[t]++
		}
	}
	return counts
}
