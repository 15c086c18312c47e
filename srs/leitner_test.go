package srs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNextBoxCorrectPromotesOneBox(t *testing.T) {
	for box := MinBox; box <= MaxBox; box++ {
		want := box + 1
		if want > MaxBox {
			want = MaxBox
		}
		assert.Equal(t, want, NextBox(box, true), "box %d answered correctly", box)
	}
}

func TestNextBoxWrongResetsToOne(t *testing.T) {
	for box := MinBox; box <= MaxBox; box++ {
		assert.Equal(t, MinBox, NextBox(box, false), "box %d answered wrong", box)
	}
}

func TestNextBoxInvalidCurrentBoxTreatedAsOne(t *testing.T) {
	assert.Equal(t, 2, NextBox(0, true))
	assert.Equal(t, 2, NextBox(-3, true))
	assert.Equal(t, MinBox, NextBox(0, false))
	// An out-of-range high box stays capped.
	assert.Equal(t, MaxBox, NextBox(9, true))
}

func TestBoxIntervalDays(t *testing.T) {
	want := map[int]int{1: 1, 2: 2, 3: 4, 4: 7, 5: 15}
	for box, days := range want {
		assert.Equal(t, days, BoxIntervalDays(box))
	}
	// Anything outside the table falls back to one day.
	assert.Equal(t, 1, BoxIntervalDays(0))
	assert.Equal(t, 1, BoxIntervalDays(6))
	assert.Equal(t, 1, BoxIntervalDays(-1))
}

func TestNextDueAtOffsets(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	for box, days := range map[int]int{1: 1, 2: 2, 3: 4, 4: 7, 5: 15} {
		got := NextDueAt(box, now)
		assert.Equal(t, now.UnixMilli()+int64(days)*86_400_000, got, "box %d", box)
	}
	// Invalid box schedules one day out.
	assert.Equal(t, now.UnixMilli()+86_400_000, NextDueAt(0, now))
}

func TestScenarioBoxThreeCorrect(t *testing.T) {
	now := time.Now()
	box := NextBox(3, true)
	assert.Equal(t, 4, box)
	assert.Equal(t, now.UnixMilli()+7*86_400_000, NextDueAt(box, now))
}

func TestScenarioBoxFiveWrong(t *testing.T) {
	now := time.Now()
	box := NextBox(5, false)
	assert.Equal(t, 1, box)
	assert.Equal(t, now.UnixMilli()+86_400_000, NextDueAt(box, now))
}
