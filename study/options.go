package study

import (
	"fmt"
	"math/rand"

	"studyquiz/models"
)

// distractorCount is how many wrong answers accompany the correct one.
const distractorCount = 3

// BuildOptions assembles the displayed option texts for one question.
//
// Authored options (from the option editor) win when they yield at least
// two distinct texts; they are deduplicated, the question's answer is
// guaranteed present, and the result is shuffled. Otherwise distractors
// are synthesized from other questions' answers, preferring topically
// related ones, padded with placeholders when the pool runs dry.
//
// The returned list always contains the question's exact answer exactly
// once, has no duplicate texts, and has at least two entries.
func BuildOptions(q *models.Question, authored []models.Option, pool []models.Question, activeTags map[string]bool, rng *rand.Rand) []string {
	if opts := authoredOptions(q, authored); opts != nil {
		shuffleStrings(opts, rng)
		return opts
	}
	return synthesizeOptions(q, pool, activeTags, rng)
}

// authoredOptions returns the deduplicated authored texts, or nil when
// there are fewer than two distinct ones and synthesis should take over.
func authoredOptions(q *models.Question, authored []models.Option) []string {
	seen := make(map[string]bool, len(authored))
	var out []string
	for _, opt := range authored {
		if opt.Text == "" || seen[opt.Text] {
			continue
		}
		seen[opt.Text] = true
		out = append(out, opt.Text)
	}
	if len(out) < 2 {
		return nil
	}
	if !seen[q.Answer] {
		out = append(out, q.Answer)
	}
	return out
}

func synthesizeOptions(q *models.Question, pool []models.Question, activeTags map[string]bool, rng *rand.Rand) []string {
	// Prefer questions matching the active tag filter; without a filter,
	// fall back to questions sharing a tag with this one. That keeps
	// distractors topically plausible.
	related := activeTags
	if len(related) == 0 {
		related = TagSet(questionTags(q))
	}

	seen := map[string]bool{q.Answer: true}
	var candidates []string
	for i := range pool {
		other := pool[i]
		if other.ID == q.ID || other.Answer == "" || seen[other.Answer] {
			continue
		}
		if len(related) > 0 && !hasAnyTag(&other, related) {
			continue
		}
		seen[other.Answer] = true
		candidates = append(candidates, other.Answer)
	}

	distractors := sampleStrings(candidates, distractorCount, rng)
	if len(distractors) == 0 {
		// Nothing plausible to offer: degrade to a binary choice rather
		// than a wall of placeholders.
		distractors = []string{"None of the above 1"}
	} else {
		for len(distractors) < distractorCount {
			distractors = append(distractors, fmt.Sprintf("None of the above %d", len(distractors)+1))
		}
	}

	options := append([]string{q.Answer}, distractors...)
	shuffleStrings(options, rng)
	return options
}

// sampleStrings draws up to n elements uniformly without replacement.
func sampleStrings(pool []string, n int, rng *rand.Rand) []string {
	copied := make([]string, len(pool))
	copy(copied, pool)
	if n > len(copied) {
		n = len(copied)
	}
	out := make([]string, 0, n)
	for len(out) < n {
		i := rng.Intn(len(copied))
		out = append(out, copied[i])
		copied[i] = copied[len(copied)-1]
		copied = copied[:len(copied)-1]
	}
	return out
}

func shuffleStrings(s []string, rng *rand.Rand) {
	rng.Shuffle(len(s), func(i, j int) {
		s[i], s[j] = s[j], s[i]
	})
}
