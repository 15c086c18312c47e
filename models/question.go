package models

import (
	"time"

	"gorm.io/gorm"
)

type Question struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	QuizID      uint   `json:"quiz_id" gorm:"not null;index"`
	Text        string `json:"text" gorm:"not null"`
	Answer      string `json:"answer" gorm:"not null"`
	Explanation string `json:"explanation"`
	// Tags is stored as a comma-delimited string; semantically it is a set
	// of case-insensitive labels. Parsing lives in the study package.
	Tags       string `json:"tags"`
	Difficulty int    `json:"difficulty" gorm:"not null;default:1"`
	// Box is the Leitner mastery level, always in [1,5].
	Box int `json:"box" gorm:"not null;default:1"`
	// DueAt is an epoch-millisecond timestamp; the question is due when
	// due_at <= now. Set to creation time for new questions so they are
	// eligible for study immediately.
	DueAt        int64          `json:"due_at" gorm:"not null;index"`
	CorrectCount int            `json:"correct_count" gorm:"not null;default:0"`
	WrongCount   int            `json:"wrong_count" gorm:"not null;default:0"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	Quiz    Quiz     `json:"quiz,omitempty"`
	Options []Option `json:"options,omitempty" gorm:"foreignKey:QuestionID"`
}

// Due reports whether the question is eligible for review at the given
// epoch-millisecond instant. A non-positive due_at is malformed data and
// fails closed (never due).
func (q *Question) Due(nowMs int64) bool {
	return q.DueAt > 0 && q.DueAt <= nowMs
}
