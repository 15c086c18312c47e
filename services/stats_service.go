package services

import (
	"sort"
	"time"

	"studyquiz/models"
	"studyquiz/srs"
	"studyquiz/study"

	"gorm.io/gorm"
)

type StatsService struct {
	db        *gorm.DB
	questions *QuestionService
}

func NewStatsService(db *gorm.DB, questions *QuestionService) *StatsService {
	return &StatsService{db: db, questions: questions}
}

// TagStats is the lifetime aggregate for one tag, computed from the
// per-question counters rather than any session log.
type TagStats struct {
	Tag      string `json:"tag"`
	Total    int    `json:"total"`
	Due      int    `json:"due"`
	Attempts int    `json:"attempts"`
	Accuracy int    `json:"accuracy"`
}

// OverviewStats is the top-level stats payload.
type OverviewStats struct {
	Questions int         `json:"questions"`
	Due       int         `json:"due"`
	Attempts  int         `json:"attempts"`
	Accuracy  int         `json:"accuracy"`
	ByTag     []TagStats  `json:"by_tag"`
	ByBox     map[int]int `json:"by_box"`
}

// GetOverview aggregates lifetime statistics across all of the user's
// questions: per-tag totals, dueness, accuracy from the lifetime counters,
// and the Leitner box distribution.
func (s *StatsService) GetOverview(userID uint) (*OverviewStats, error) {
	pool, err := s.questions.GetUserQuestions(userID)
	if err != nil {
		return nil, err
	}

	nowMs := time.Now().UnixMilli()
	stats := &OverviewStats{
		Questions: len(pool),
		Due:       study.CountDue(pool, nowMs),
		ByBox:     map[int]int{},
	}

	correct, wrong := 0, 0
	for i := range pool {
		correct += pool[i].CorrectCount
		wrong += pool[i].WrongCount
		box := pool[i].Box
		if box < srs.MinBox || box > srs.MaxBox {
			box = srs.MinBox
		}
		stats.ByBox[box]++
	}
	stats.Attempts = correct + wrong
	stats.Accuracy = study.Percent(correct, stats.Attempts)

	stats.ByTag = tagStatsFor(pool, nowMs)
	return stats, nil
}

func tagStatsFor(pool []models.Question, nowMs int64) []TagStats {
	type tally struct {
		total, due, correct, wrong int
	}
	byTag := map[string]*tally{}
	for i := range pool {
		q := pool[i]
		for _, tag := range study.ParseTags(q.Tags) {
			key := study.NormalizeTag(tag)
			if key == "" {
				continue
			}
			t := byTag[key]
			if t == nil {
				t = &tally{}
				byTag[key] = t
			}
			t.total++
			if q.Due(nowMs) {
				t.due++
			}
			t.correct += q.CorrectCount
			t.wrong += q.WrongCount
		}
	}

	out := make([]TagStats, 0, len(byTag))
	for tag, t := range byTag {
		attempts := t.correct + t.wrong
		out = append(out, TagStats{
			Tag:      tag,
			Total:    t.total,
			Due:      t.due,
			Attempts: attempts,
			Accuracy: study.Percent(t.correct, attempts),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Tag < out[j].Tag })
	return out
}
