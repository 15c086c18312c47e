package study

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studyquiz/models"
)

func countOf(options []string, text string) int {
	n := 0
	for _, o := range options {
		if o == text {
			n++
		}
	}
	return n
}

func assertNoDuplicates(t *testing.T, options []string) {
	t.Helper()
	seen := map[string]bool{}
	for _, o := range options {
		assert.False(t, seen[o], "duplicate option %q", o)
		seen[o] = true
	}
}

func TestBuildOptionsSynthesizesFromSharedTags(t *testing.T) {
	q := models.Question{ID: 1, Answer: "mitochondria", Tags: "bio"}
	pool := []models.Question{
		q,
		{ID: 2, Answer: "ribosome", Tags: "bio"},
		{ID: 3, Answer: "nucleus", Tags: "bio"},
		{ID: 4, Answer: "golgi", Tags: "bio"},
		{ID: 5, Answer: "integral", Tags: "math"},
	}
	opts := BuildOptions(&q, nil, pool, nil, testRNG())
	require.Len(t, opts, 4)
	assert.Equal(t, 1, countOf(opts, "mitochondria"))
	assertNoDuplicates(t, opts)
	// The math answer never shows up as a distractor for a bio question.
	assert.Equal(t, 0, countOf(opts, "integral"))
}

func TestBuildOptionsRespectsActiveTagFilter(t *testing.T) {
	q := models.Question{ID: 1, Answer: "mitochondria", Tags: "bio"}
	pool := []models.Question{
		q,
		{ID: 2, Answer: "ribosome", Tags: "cells"},
		{ID: 3, Answer: "nucleus", Tags: "cells"},
		{ID: 4, Answer: "golgi", Tags: "cells"},
	}
	opts := BuildOptions(&q, nil, pool, TagSet([]string{"cells"}), testRNG())
	require.Len(t, opts, 4)
	assert.Equal(t, 1, countOf(opts, "mitochondria"))
	for _, want := range []string{"ribosome", "nucleus", "golgi"} {
		assert.Equal(t, 1, countOf(opts, want))
	}
}

func TestBuildOptionsPadsWithPlaceholders(t *testing.T) {
	q := models.Question{ID: 1, Answer: "mitochondria", Tags: "bio"}
	pool := []models.Question{
		q,
		{ID: 2, Answer: "ribosome", Tags: "bio"},
	}
	opts := BuildOptions(&q, nil, pool, nil, testRNG())
	require.Len(t, opts, 4)
	assert.Equal(t, 1, countOf(opts, "mitochondria"))
	assert.Equal(t, 1, countOf(opts, "ribosome"))
	placeholders := 0
	for _, o := range opts {
		if strings.HasPrefix(o, "None of the above") {
			placeholders++
		}
	}
	assert.Equal(t, 2, placeholders)
}

func TestBuildOptionsSingletonPoolBinaryChoice(t *testing.T) {
	q := models.Question{ID: 1, Answer: "mitochondria", Tags: "bio"}
	opts := BuildOptions(&q, nil, []models.Question{q}, nil, testRNG())
	require.Len(t, opts, 2)
	assert.Equal(t, 1, countOf(opts, "mitochondria"))
	assert.Equal(t, 1, countOf(opts, "None of the above 1"))
}

func TestBuildOptionsExcludesCorrectAnswerDuplicates(t *testing.T) {
	q := models.Question{ID: 1, Answer: "mitochondria", Tags: "bio"}
	pool := []models.Question{
		q,
		{ID: 2, Answer: "mitochondria", Tags: "bio"},
		{ID: 3, Answer: "nucleus", Tags: "bio"},
		{ID: 4, Answer: "nucleus", Tags: "bio"},
		{ID: 5, Answer: "golgi", Tags: "bio"},
	}
	opts := BuildOptions(&q, nil, pool, nil, testRNG())
	assert.Equal(t, 1, countOf(opts, "mitochondria"))
	assertNoDuplicates(t, opts)
}

func TestBuildOptionsAuthoredUsedVerbatim(t *testing.T) {
	q := models.Question{ID: 1, Answer: "4", Tags: "math"}
	authored := []models.Option{
		{Text: "4", IsCorrect: true},
		{Text: "3"},
		{Text: "5"},
		{Text: "5"}, // duplicate text collapses
	}
	opts := BuildOptions(&q, authored, nil, nil, testRNG())
	require.Len(t, opts, 3)
	assert.Equal(t, 1, countOf(opts, "4"))
	assertNoDuplicates(t, opts)
}

func TestBuildOptionsAuthoredMissingAnswerReinstated(t *testing.T) {
	q := models.Question{ID: 1, Answer: "4", Tags: "math"}
	authored := []models.Option{{Text: "3"}, {Text: "5"}}
	opts := BuildOptions(&q, authored, nil, nil, testRNG())
	require.Len(t, opts, 3)
	assert.Equal(t, 1, countOf(opts, "4"))
}

func TestBuildOptionsTooFewAuthoredFallsBackToSynthesis(t *testing.T) {
	q := models.Question{ID: 1, Answer: "4", Tags: "math"}
	authored := []models.Option{{Text: "4", IsCorrect: true}}
	pool := []models.Question{
		q,
		{ID: 2, Answer: "6", Tags: "math"},
		{ID: 3, Answer: "8", Tags: "math"},
		{ID: 4, Answer: "9", Tags: "math"},
	}
	opts := BuildOptions(&q, authored, pool, nil, testRNG())
	require.Len(t, opts, 4)
	assert.Equal(t, 1, countOf(opts, "4"))
}

func TestBuildOptionsUntaggedQuestionDrawsFromWholePool(t *testing.T) {
	q := models.Question{ID: 1, Answer: "alpha"}
	pool := []models.Question{
		q,
		{ID: 2, Answer: "beta", Tags: "x"},
		{ID: 3, Answer: "gamma"},
		{ID: 4, Answer: "delta", Tags: "y"},
	}
	opts := BuildOptions(&q, nil, pool, nil, testRNG())
	require.Len(t, opts, 4)
	assert.Equal(t, 1, countOf(opts, "alpha"))
	for _, want := range []string{"beta", "gamma", "delta"} {
		assert.Equal(t, 1, countOf(opts, want))
	}
}
