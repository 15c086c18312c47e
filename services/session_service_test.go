package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"studyquiz/study"
)

func TestGenerateSessionToken(t *testing.T) {
	a := generateSessionToken()
	b := generateSessionToken()
	assert.Len(t, a, 16)
	assert.Len(t, b, 16)
	assert.NotEqual(t, a, b)
}

func TestViewOfHidesAnswer(t *testing.T) {
	svc := &SessionService{}
	state := &SessionState{
		Token: "abc123",
		State: study.NewState([]study.SessionQuestion{
			{
				ID:      7,
				Text:    "What is the powerhouse of the cell?",
				Answer:  "mitochondria",
				Options: []string{"nucleus", "mitochondria", "ribosome", "golgi"},
			},
		}),
	}

	view := svc.viewOf(state)
	assert.Equal(t, "abc123", view.Token)
	assert.Equal(t, 1, view.Total)
	assert.False(t, view.Empty)
	if assert.NotNil(t, view.Question) {
		assert.Equal(t, uint(7), view.Question.ID)
		assert.Len(t, view.Question.Options, 4)
		// The view never carries the canonical answer.
		assert.Empty(t, view.Question.Explanation)
	}
}

func TestViewOfEmptySession(t *testing.T) {
	svc := &SessionService{}
	view := svc.viewOf(&SessionState{Token: "t", State: study.NewState(nil)})
	assert.True(t, view.Empty)
	assert.Nil(t, view.Question)
}
