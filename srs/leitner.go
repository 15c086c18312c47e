// Package srs implements the Leitner-box spaced-repetition scheduler.
//
// Questions live in one of five mastery boxes. A correct answer promotes a
// question one box (capped at 5), a wrong answer resets it to box 1 — a
// deliberate hard-reset policy. Each box maps to a fixed review interval
// in days.
package srs

import "time"

const (
	MinBox = 1
	MaxBox = 5
)

const millisPerDay = 24 * 60 * 60 * 1000

// boxIntervalDays maps a Leitner box to the number of days until the next
// review.
var boxIntervalDays = map[int]int{
	1: 1,
	2: 2,
	3: 4,
	4: 7,
	5: 15,
}

// BoxIntervalDays returns the review interval in days for the given box.
// Boxes outside [MinBox, MaxBox] fall back to 1 day.
func BoxIntervalDays(box int) int {
	if days, ok := boxIntervalDays[box]; ok {
		return days
	}
	return 1
}

// NextBox computes the mastery box after one attempt. A missing or invalid
// current box is treated as MinBox.
func NextBox(currentBox int, correct bool) int {
	if !correct {
		return MinBox
	}
	if currentBox < MinBox {
		currentBox = MinBox
	}
	if currentBox >= MaxBox {
		return MaxBox
	}
	return currentBox + 1
}

// NextDueAt returns the epoch-millisecond timestamp at which a question in
// the given box becomes due again, counting from now.
func NextDueAt(box int, now time.Time) int64 {
	return now.UnixMilli() + int64(BoxIntervalDays(box))*millisPerDay
}
