package study

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sessionQuestions(n int) []SessionQuestion {
	qs := make([]SessionQuestion, 0, n)
	for i := 1; i <= n; i++ {
		qs = append(qs, SessionQuestion{
			ID:     uint(i),
			Text:   fmt.Sprintf("question %d", i),
			Answer: fmt.Sprintf("answer %d", i),
			Tags:   "bio",
		})
	}
	return qs
}

func TestNewStateEmpty(t *testing.T) {
	s := NewState(nil)
	assert.True(t, s.Empty())
	assert.Nil(t, s.Current())
	assert.Equal(t, 0, s.Answered())
}

func TestApplyDoesNotMutateReceiver(t *testing.T) {
	s := NewState(sessionQuestions(2))
	next := s.Apply(0, false)

	assert.Equal(t, 0, s.Wrong)
	assert.Empty(t, s.TagStats)
	assert.Empty(t, s.WrongByIndex)

	assert.Equal(t, 1, next.Wrong)
	assert.Equal(t, TagTally{Total: 1, Correct: 0}, next.TagStats["bio"])
	assert.Equal(t, 1, next.WrongByIndex[0])
}

func TestApplyMultiTagCountsOncePerTag(t *testing.T) {
	s := NewState([]SessionQuestion{{ID: 1, Tags: "Bio, cells, bio"}})
	next := s.Apply(0, true)
	assert.Equal(t, TagTally{Total: 2, Correct: 2}, next.TagStats["bio"])
	assert.Equal(t, TagTally{Total: 1, Correct: 1}, next.TagStats["cells"])
}

func TestApplyOutOfRangeIsNoOp(t *testing.T) {
	s := NewState(sessionQuestions(1))
	assert.Equal(t, s, s.Apply(-1, true))
	assert.Equal(t, s, s.Apply(1, true))
}

func TestAdvanceCursorFinishes(t *testing.T) {
	s := NewState(sessionQuestions(2))
	require.NotNil(t, s.Current())
	assert.Equal(t, uint(1), s.Current().ID)

	s = s.AdvanceCursor()
	require.NotNil(t, s.Current())
	assert.Equal(t, uint(2), s.Current().ID)
	assert.False(t, s.Finished)

	s = s.AdvanceCursor()
	assert.True(t, s.Finished)
	assert.Nil(t, s.Current())
}

func TestPercent(t *testing.T) {
	assert.Equal(t, 0, Percent(0, 0))
	assert.Equal(t, 0, Percent(3, 0))
	assert.Equal(t, 100, Percent(5, 5))
	assert.Equal(t, 67, Percent(2, 3))
	assert.Equal(t, 33, Percent(1, 3))
	assert.Equal(t, 50, Percent(1, 2))
}

func TestSummarizeAccuracyFromAnswered(t *testing.T) {
	s := NewState(sessionQuestions(4))
	s = s.Apply(0, true)
	s = s.Apply(1, false)
	s = s.Apply(2, true)
	// Question 4 never answered: accuracy uses attempts, not pool size.
	sum := Summarize(s)
	assert.Equal(t, 4, sum.Total)
	assert.Equal(t, 3, sum.Answered)
	assert.Equal(t, 2, sum.Correct)
	assert.Equal(t, 1, sum.Wrong)
	assert.Equal(t, 67, sum.Accuracy)
}

func TestSummarizeEmptySession(t *testing.T) {
	sum := Summarize(NewState(nil))
	assert.Equal(t, 0, sum.Accuracy)
	assert.Empty(t, sum.ByTag)
	assert.Empty(t, sum.Hardest)
}

func TestSummarizeByTagSorted(t *testing.T) {
	s := NewState([]SessionQuestion{
		{ID: 1, Tags: "zoology"},
		{ID: 2, Tags: "algebra"},
	})
	s = s.Apply(0, true)
	s = s.Apply(1, false)
	sum := Summarize(s)
	require.Len(t, sum.ByTag, 2)
	assert.Equal(t, "algebra", sum.ByTag[0].Tag)
	assert.Equal(t, 0, sum.ByTag[0].Accuracy)
	assert.Equal(t, 1, sum.ByTag[0].Wrong)
	assert.Equal(t, "zoology", sum.ByTag[1].Tag)
	assert.Equal(t, 100, sum.ByTag[1].Accuracy)
}

func TestSummarizeHardestOrderAndCap(t *testing.T) {
	s := NewState(sessionQuestions(12))
	// Question at index 5 missed three times, index 2 twice, the rest once.
	for i := 0; i < 12; i++ {
		s = s.Apply(i, false)
	}
	s = s.Apply(5, false)
	s = s.Apply(5, false)
	s = s.Apply(2, false)

	sum := Summarize(s)
	require.Len(t, sum.Hardest, 10)
	assert.Equal(t, uint(6), sum.Hardest[0].ID)
	assert.Equal(t, 3, sum.Hardest[0].Wrongs)
	assert.Equal(t, uint(3), sum.Hardest[1].ID)
	assert.Equal(t, 2, sum.Hardest[1].Wrongs)
	// Ties (single misses) keep encounter order.
	assert.Equal(t, uint(1), sum.Hardest[2].ID)
	assert.Equal(t, uint(2), sum.Hardest[3].ID)
	for i := 1; i < len(sum.Hardest); i++ {
		assert.GreaterOrEqual(t, sum.Hardest[i-1].Wrongs, sum.Hardest[i].Wrongs)
	}
}
