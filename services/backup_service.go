package services

import (
	"time"

	"studyquiz/models"
	"studyquiz/srs"

	"gorm.io/gorm"
)

type BackupService struct {
	db *gorm.DB
}

func NewBackupService(db *gorm.DB) *BackupService {
	return &BackupService{db: db}
}

// DeckBackup is one quiz with its full question and option set, including
// the scheduling state, so a restore picks up exactly where the learner
// left off.
type DeckBackup struct {
	Quiz      QuizBackup       `json:"quiz"`
	Questions []QuestionBackup `json:"questions"`
}

type QuizBackup struct {
	ID          uint   `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type QuestionBackup struct {
	ID           uint           `json:"id"`
	Text         string         `json:"text"`
	Answer       string         `json:"answer"`
	Explanation  string         `json:"explanation"`
	Tags         string         `json:"tags"`
	Difficulty   int            `json:"difficulty"`
	Box          int            `json:"box"`
	DueAt        int64          `json:"due_at"`
	CorrectCount int            `json:"correct_count"`
	WrongCount   int            `json:"wrong_count"`
	Options      []OptionBackup `json:"options"`
}

type OptionBackup struct {
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct"`
}

// ExportAll serializes every deck the user owns.
func (s *BackupService) ExportAll(userID uint) ([]DeckBackup, error) {
	var quizzes []models.Quiz
	err := s.db.Where("user_id = ?", userID).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("questions.id")
		}).
		Preload("Questions.Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("options.id")
		}).
		Order("id").
		Find(&quizzes).Error
	if err != nil {
		return nil, err
	}

	backup := make([]DeckBackup, 0, len(quizzes))
	for _, quiz := range quizzes {
		deck := DeckBackup{
			Quiz: QuizBackup{
				ID:          quiz.ID,
				Title:       quiz.Title,
				Description: quiz.Description,
			},
			Questions: make([]QuestionBackup, 0, len(quiz.Questions)),
		}
		for _, q := range quiz.Questions {
			qb := QuestionBackup{
				ID:           q.ID,
				Text:         q.Text,
				Answer:       q.Answer,
				Explanation:  q.Explanation,
				Tags:         q.Tags,
				Difficulty:   q.Difficulty,
				Box:          q.Box,
				DueAt:        q.DueAt,
				CorrectCount: q.CorrectCount,
				WrongCount:   q.WrongCount,
				Options:      make([]OptionBackup, 0, len(q.Options)),
			}
			for _, opt := range q.Options {
				qb.Options = append(qb.Options, OptionBackup{
					Text:      opt.Text,
					IsCorrect: opt.IsCorrect,
				})
			}
			deck.Questions = append(deck.Questions, qb)
		}
		backup = append(backup, deck)
	}
	return backup, nil
}

// Import restores decks from a backup payload in a single transaction.
// Records are assumed normalized by the import collaborator; this layer
// only clamps scheduling fields into their invariants: box into [1,5],
// missing due_at to now (immediately due).
func (s *BackupService) Import(userID uint, decks []DeckBackup) (int, error) {
	nowMs := time.Now().UnixMilli()
	imported := 0

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	for _, deck := range decks {
		title := deck.Quiz.Title
		if title == "" {
			title = "Imported"
		}
		quiz := models.Quiz{
			Title:       title,
			Description: deck.Quiz.Description,
			UserID:      userID,
		}
		if err := tx.Create(&quiz).Error; err != nil {
			tx.Rollback()
			return 0, err
		}

		for _, qb := range deck.Questions {
			box := qb.Box
			if box < srs.MinBox || box > srs.MaxBox {
				box = srs.MinBox
			}
			dueAt := qb.DueAt
			if dueAt <= 0 {
				dueAt = nowMs
			}
			difficulty := qb.Difficulty
			if difficulty == 0 {
				difficulty = 1
			}
			question := models.Question{
				QuizID:       quiz.ID,
				Text:         qb.Text,
				Answer:       qb.Answer,
				Explanation:  qb.Explanation,
				Tags:         qb.Tags,
				Difficulty:   difficulty,
				Box:          box,
				DueAt:        dueAt,
				CorrectCount: qb.CorrectCount,
				WrongCount:   qb.WrongCount,
			}
			if err := tx.Create(&question).Error; err != nil {
				tx.Rollback()
				return 0, err
			}
			imported++

			for _, opt := range qb.Options {
				if opt.Text == "" {
					continue
				}
				option := models.Option{
					QuestionID: question.ID,
					Text:       opt.Text,
					IsCorrect:  opt.IsCorrect,
				}
				if err := tx.Create(&option).Error; err != nil {
					tx.Rollback()
					return 0, err
				}
			}
		}
	}

	if err := tx.Commit().Error; err != nil {
		return 0, err
	}
	return imported, nil
}
