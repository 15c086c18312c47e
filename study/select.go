package study

import (
	"math/rand"

	"studyquiz/models"
)

// Criteria narrows the question pool for one session.
type Criteria struct {
	// QuestionIDs restricts the pool to an explicit allow-list when
	// non-empty; tag and due filters still apply within it.
	QuestionIDs []uint
	// Tags keeps only questions whose tag set intersects these labels
	// (case-insensitive). Empty means no tag filter.
	Tags []string
	// OnlyDue keeps only questions with due_at <= now.
	OnlyDue bool
	// Limit truncates the shuffled session; 0 means unlimited.
	Limit int
}

// Select materializes the working set for a session: filter by allow-list,
// then tags, then dueness; shuffle; truncate to the limit. An empty result
// is a valid session, not an error.
func Select(pool []models.Question, c Criteria, nowMs int64, rng *rand.Rand) []models.Question {
	filtered := Filter(pool, c, nowMs)

	shuffled := make([]models.Question, len(filtered))
	copy(shuffled, filtered)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	if c.Limit > 0 && len(shuffled) > c.Limit {
		shuffled = shuffled[:c.Limit]
	}
	return shuffled
}

// Filter applies the selection criteria without shuffling or truncation.
func Filter(pool []models.Question, c Criteria, nowMs int64) []models.Question {
	var allow map[uint]bool
	if len(c.QuestionIDs) > 0 {
		allow = make(map[uint]bool, len(c.QuestionIDs))
		for _, id := range c.QuestionIDs {
			allow[id] = true
		}
	}
	tags := TagSet(c.Tags)

	var out []models.Question
	for i := range pool {
		q := pool[i]
		if allow != nil && !allow[q.ID] {
			continue
		}
		if len(tags) > 0 && !hasAnyTag(&q, tags) {
			continue
		}
		if c.OnlyDue && !q.Due(nowMs) {
			continue
		}
		out = append(out, q)
	}
	return out
}

// CountDue returns how many questions in the pool are due at the given
// instant.
func CountDue(pool []models.Question, nowMs int64) int {
	n := 0
	for i := range pool {
		if pool[i].Due(nowMs) {
			n++
		}
	}
	return n
}
