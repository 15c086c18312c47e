package study

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studyquiz/models"
)

const testNow = int64(1_700_000_000_000)

func testRNG() *rand.Rand {
	return rand.New(rand.NewSource(42))
}

func makePool() []models.Question {
	// 10 questions, 3 tagged bio, half overdue.
	pool := make([]models.Question, 0, 10)
	for i := 1; i <= 10; i++ {
		q := models.Question{
			ID:     uint(i),
			Text:   "q",
			Answer: "a",
			Tags:   "math",
			DueAt:  testNow + 1000,
		}
		if i <= 3 {
			q.Tags = "bio"
		}
		if i%2 == 0 {
			q.DueAt = testNow - 1000
		}
		pool = append(pool, q)
	}
	return pool
}

func idsOf(questions []models.Question) map[uint]bool {
	ids := make(map[uint]bool, len(questions))
	for _, q := range questions {
		ids[q.ID] = true
	}
	return ids
}

func TestSelectTagFilter(t *testing.T) {
	got := Select(makePool(), Criteria{Tags: []string{"BIO"}}, testNow, testRNG())
	require.Len(t, got, 3)
	assert.Equal(t, map[uint]bool{1: true, 2: true, 3: true}, idsOf(got))
}

func TestSelectOnlyDue(t *testing.T) {
	got := Select(makePool(), Criteria{OnlyDue: true}, testNow, testRNG())
	require.Len(t, got, 5)
	for _, q := range got {
		assert.LessOrEqual(t, q.DueAt, testNow)
	}
}

func TestSelectDueExactlyNowIsDue(t *testing.T) {
	pool := []models.Question{{ID: 1, DueAt: testNow}}
	assert.Len(t, Select(pool, Criteria{OnlyDue: true}, testNow, testRNG()), 1)
}

func TestSelectMalformedDueAtFailsClosed(t *testing.T) {
	pool := []models.Question{
		{ID: 1, DueAt: 0},
		{ID: 2, DueAt: -5},
		{ID: 3, DueAt: testNow - 1},
	}
	got := Select(pool, Criteria{OnlyDue: true}, testNow, testRNG())
	require.Len(t, got, 1)
	assert.Equal(t, uint(3), got[0].ID)
	// Without the due filter the malformed rows still participate.
	assert.Len(t, Select(pool, Criteria{}, testNow, testRNG()), 3)
}

func TestSelectAllowListCombinesWithOtherFilters(t *testing.T) {
	got := Select(makePool(), Criteria{
		QuestionIDs: []uint{1, 2, 4, 6},
		OnlyDue:     true,
	}, testNow, testRNG())
	assert.Equal(t, map[uint]bool{2: true, 4: true, 6: true}, idsOf(got))
}

func TestSelectLimitTruncatesAfterShuffle(t *testing.T) {
	got := Select(makePool(), Criteria{Limit: 4}, testNow, testRNG())
	assert.Len(t, got, 4)

	unlimited := Select(makePool(), Criteria{}, testNow, testRNG())
	assert.Len(t, unlimited, 10)
}

func TestSelectEmptyPoolIsEmptySession(t *testing.T) {
	assert.Empty(t, Select(nil, Criteria{}, testNow, testRNG()))
	assert.Empty(t, Select(makePool(), Criteria{Tags: []string{"history"}}, testNow, testRNG()))
}

func TestSelectSameCriteriaSameSet(t *testing.T) {
	// Shuffle order differs across runs, the selected set does not.
	c := Criteria{Tags: []string{"bio"}, OnlyDue: true}
	first := Select(makePool(), c, testNow, rand.New(rand.NewSource(1)))
	second := Select(makePool(), c, testNow, rand.New(rand.NewSource(2)))
	assert.Equal(t, idsOf(first), idsOf(second))
}

func TestCountDue(t *testing.T) {
	assert.Equal(t, 5, CountDue(makePool(), testNow))
	assert.Equal(t, 0, CountDue(nil, testNow))
}
