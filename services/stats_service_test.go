package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studyquiz/models"
)

func TestTagStatsForAggregatesLifetimeCounters(t *testing.T) {
	now := int64(1_700_000_000_000)
	pool := []models.Question{
		{Tags: "bio", DueAt: now - 1, CorrectCount: 3, WrongCount: 1},
		{Tags: "Bio, cells", DueAt: now + 1000, CorrectCount: 1, WrongCount: 1},
		{Tags: "math", DueAt: now - 1, CorrectCount: 0, WrongCount: 0},
	}

	stats := tagStatsFor(pool, now)
	require.Len(t, stats, 3)

	// Sorted by tag.
	assert.Equal(t, "bio", stats[0].Tag)
	assert.Equal(t, "cells", stats[1].Tag)
	assert.Equal(t, "math", stats[2].Tag)

	bio := stats[0]
	assert.Equal(t, 2, bio.Total)
	assert.Equal(t, 1, bio.Due)
	assert.Equal(t, 6, bio.Attempts)
	assert.Equal(t, 67, bio.Accuracy)

	// No attempts never divides by zero.
	assert.Equal(t, 0, stats[2].Attempts)
	assert.Equal(t, 0, stats[2].Accuracy)
}

func TestTagStatsForIgnoresUntagged(t *testing.T) {
	pool := []models.Question{{Tags: "", CorrectCount: 5}}
	assert.Empty(t, tagStatsFor(pool, 0))
}
