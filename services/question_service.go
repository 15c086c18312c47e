package services

import (
	"errors"
	"time"

	"studyquiz/models"
	"studyquiz/srs"

	"gorm.io/gorm"
)

type QuestionService struct {
	db *gorm.DB
}

func NewQuestionService(db *gorm.DB) *QuestionService {
	return &QuestionService{db: db}
}

type UpdateQuestionRequest struct {
	Text        *string `json:"text"`
	Answer      *string `json:"answer"`
	Explanation *string `json:"explanation"`
	Tags        *string `json:"tags"`
	Difficulty  *int    `json:"difficulty" binding:"omitempty,min=1,max=3"`
}

type ReplaceOptionsRequest struct {
	Options []CreateOptionRequest `json:"options" binding:"required,min=2,max=6,dive"`
}

// GetQuestion loads a question with its options, checking ownership
// through the parent quiz.
func (s *QuestionService) GetQuestion(questionID uint, userID uint) (*models.Question, error) {
	var question models.Question
	err := s.db.
		Joins("JOIN quizzes ON quizzes.id = questions.quiz_id").
		Where("questions.id = ? AND quizzes.user_id = ?", questionID, userID).
		Preload("Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("options.id")
		}).
		First(&question).Error
	if err != nil {
		return nil, errors.New("question not found")
	}
	return &question, nil
}

// GetQuestionsByQuiz lists a quiz's questions, newest first.
func (s *QuestionService) GetQuestionsByQuiz(quizID uint, userID uint) ([]models.Question, error) {
	var quiz models.Quiz
	if err := s.db.Where("id = ? AND user_id = ?", quizID, userID).First(&quiz).Error; err != nil {
		return nil, errors.New("quiz not found")
	}

	var questions []models.Question
	err := s.db.Where("quiz_id = ?", quizID).
		Preload("Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("options.id")
		}).
		Order("id DESC").
		Find(&questions).Error
	return questions, err
}

// GetUserQuestions loads every question across all of the user's quizzes.
func (s *QuestionService) GetUserQuestions(userID uint) ([]models.Question, error) {
	var questions []models.Question
	err := s.db.
		Joins("JOIN quizzes ON quizzes.id = questions.quiz_id").
		Where("quizzes.user_id = ?", userID).
		Find(&questions).Error
	return questions, err
}

func (s *QuestionService) CreateQuestion(quizID uint, userID uint, req *CreateQuestionRequest) (*models.Question, error) {
	var quiz models.Quiz
	if err := s.db.Where("id = ? AND user_id = ?", quizID, userID).First(&quiz).Error; err != nil {
		return nil, errors.New("quiz not found")
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := createQuestions(tx, quizID, []CreateQuestionRequest{*req}); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	var question models.Question
	err := s.db.Where("quiz_id = ?", quizID).
		Preload("Options").
		Order("id DESC").
		First(&question).Error
	return &question, err
}

// UpdateQuestion patches the editable fields only. Scheduling state (box,
// due_at, counters) is never writable through the editor.
func (s *QuestionService) UpdateQuestion(questionID uint, userID uint, req *UpdateQuestionRequest) (*models.Question, error) {
	question, err := s.GetQuestion(questionID, userID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Text != nil {
		updates["text"] = *req.Text
	}
	if req.Answer != nil {
		updates["answer"] = *req.Answer
	}
	if req.Explanation != nil {
		updates["explanation"] = *req.Explanation
	}
	if req.Tags != nil {
		updates["tags"] = *req.Tags
	}
	if req.Difficulty != nil {
		updates["difficulty"] = *req.Difficulty
	}
	if len(updates) == 0 {
		return question, nil
	}

	if err := s.db.Model(question).Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.GetQuestion(questionID, userID)
}

func (s *QuestionService) DeleteQuestion(questionID uint, userID uint) error {
	question, err := s.GetQuestion(questionID, userID)
	if err != nil {
		return err
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Where("question_id = ?", question.ID).Delete(&models.Option{}).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Delete(&models.Question{}, question.ID).Error; err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit().Error
}

// ReplaceOptions swaps a question's option set wholesale — options are
// never partially patched. Exactly one option must be correct, and the
// question's canonical answer is synced to that option's text.
func (s *QuestionService) ReplaceOptions(questionID uint, userID uint, req *ReplaceOptionsRequest) (*models.Question, error) {
	question, err := s.GetQuestion(questionID, userID)
	if err != nil {
		return nil, err
	}

	// Drop blank options, then validate.
	options := make([]CreateOptionRequest, 0, len(req.Options))
	for _, opt := range req.Options {
		if opt.Text != "" {
			options = append(options, opt)
		}
	}
	if len(options) < 2 {
		return nil, errors.New("at least two non-empty options are required")
	}
	correctCount := 0
	correctText := ""
	for _, opt := range options {
		if opt.IsCorrect {
			correctCount++
			correctText = opt.Text
		}
	}
	if correctCount != 1 {
		return nil, errors.New("each question must have exactly one correct answer")
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Where("question_id = ?", question.ID).Delete(&models.Option{}).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	for _, opt := range options {
		option := models.Option{
			QuestionID: question.ID,
			Text:       opt.Text,
			IsCorrect:  opt.IsCorrect,
		}
		if err := tx.Create(&option).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
	}
	if err := tx.Model(&models.Question{}).Where("id = ?", question.ID).
		Update("answer", correctText).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return s.GetQuestion(questionID, userID)
}

// ApplyAttempt persists the outcome of one attempt: next Leitner box, next
// due timestamp, and the lifetime counter bump, all in a single row
// update so box/due_at and the counters never tear.
func (s *QuestionService) ApplyAttempt(questionID uint, correct bool, now time.Time) error {
	var question models.Question
	if err := s.db.Select("id", "box").First(&question, questionID).Error; err != nil {
		return err
	}

	nextBox := srs.NextBox(question.Box, correct)
	dueAt := srs.NextDueAt(nextBox, now)

	counter := "wrong_count"
	if correct {
		counter = "correct_count"
	}

	return s.db.Model(&models.Question{}).Where("id = ?", questionID).
		Updates(map[string]interface{}{
			"box":    nextBox,
			"due_at": dueAt,
			counter:  gorm.Expr(counter+" + 1"),
		}).Error
}
