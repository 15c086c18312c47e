package services

import (
	"errors"
	"time"

	"studyquiz/models"
	"studyquiz/srs"

	"gorm.io/gorm"
)

type QuizService struct {
	db *gorm.DB
}

func NewQuizService(db *gorm.DB) *QuizService {
	return &QuizService{db: db}
}

type CreateQuizRequest struct {
	Title       string                  `json:"title" binding:"required"`
	Description string                  `json:"description"`
	Questions   []CreateQuestionRequest `json:"questions" binding:"omitempty,dive"`
}

type CreateQuestionRequest struct {
	Text        string                `json:"text" binding:"required"`
	Answer      string                `json:"answer" binding:"required"`
	Explanation string                `json:"explanation"`
	Tags        string                `json:"tags"`
	Difficulty  int                   `json:"difficulty" binding:"omitempty,min=1,max=3"`
	Options     []CreateOptionRequest `json:"options" binding:"omitempty,min=2,max=6,dive"`
}

type CreateOptionRequest struct {
	Text      string `json:"text" binding:"required"`
	IsCorrect bool   `json:"is_correct"`
}

type UpdateQuizRequest struct {
	Title       string                  `json:"title"`
	Description string                  `json:"description"`
	Questions   []CreateQuestionRequest `json:"questions" binding:"omitempty,dive"`
}

func (s *QuizService) CreateQuiz(userID uint, req *CreateQuizRequest) (*models.Quiz, error) {
	// Start transaction
	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	quiz := models.Quiz{
		Title:       req.Title,
		Description: req.Description,
		UserID:      userID,
	}

	if err := tx.Create(&quiz).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := createQuestions(tx, quiz.ID, req.Questions); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	// Fetch the quiz with questions and options loaded
	return s.GetQuizByID(quiz.ID, userID)
}

// createQuestions inserts questions (and their options, when authored
// inline) under a quiz. New questions start in box 1 and are due
// immediately.
func createQuestions(tx *gorm.DB, quizID uint, reqs []CreateQuestionRequest) error {
	nowMs := time.Now().UnixMilli()
	for _, qReq := range reqs {
		difficulty := qReq.Difficulty
		if difficulty == 0 {
			difficulty = 1
		}
		question := models.Question{
			QuizID:      quizID,
			Text:        qReq.Text,
			Answer:      qReq.Answer,
			Explanation: qReq.Explanation,
			Tags:        qReq.Tags,
			Difficulty:  difficulty,
			Box:         srs.MinBox,
			DueAt:       nowMs,
		}

		if err := tx.Create(&question).Error; err != nil {
			return err
		}

		if len(qReq.Options) == 0 {
			continue
		}

		// Validate that only one option is correct
		correctCount := 0
		for _, optReq := range qReq.Options {
			if optReq.IsCorrect {
				correctCount++
			}
		}
		if correctCount != 1 {
			return errors.New("each question must have exactly one correct answer")
		}

		for _, optReq := range qReq.Options {
			option := models.Option{
				QuestionID: question.ID,
				Text:       optReq.Text,
				IsCorrect:  optReq.IsCorrect,
			}
			if err := tx.Create(&option).Error; err != nil {
				return err
			}
			// Keep the canonical answer in sync with the authored correct
			// option.
			if optReq.IsCorrect && optReq.Text != question.Answer {
				if err := tx.Model(&question).Update("answer", optReq.Text).Error; err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (s *QuizService) GetUserQuizzes(userID uint) ([]models.Quiz, error) {
	var quizzes []models.Quiz
	err := s.db.Where("user_id = ?", userID).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("questions.id")
		}).
		Preload("Questions.Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("options.id")
		}).
		Order("created_at DESC").
		Find(&quizzes).Error
	return quizzes, err
}

func (s *QuizService) GetQuizByID(quizID uint, userID uint) (*models.Quiz, error) {
	var quiz models.Quiz
	err := s.db.Where("id = ? AND user_id = ?", quizID, userID).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("questions.id")
		}).
		Preload("Questions.Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("options.id")
		}).
		First(&quiz).Error
	return &quiz, err
}

func (s *QuizService) UpdateQuiz(quizID uint, userID uint, req *UpdateQuizRequest) (*models.Quiz, error) {
	// Check if quiz exists and belongs to user
	quiz, err := s.GetQuizByID(quizID, userID)
	if err != nil {
		return nil, err
	}

	// Start transaction
	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if req.Title != "" {
		quiz.Title = req.Title
	}
	if req.Description != "" {
		quiz.Description = req.Description
	}

	if err := tx.Save(quiz).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	// If questions are provided, replace all questions. This drops their
	// scheduling state; partial edits go through the question endpoints.
	if req.Questions != nil {
		if err := tx.Where("quiz_id = ?", quizID).Delete(&models.Question{}).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
		if err := createQuestions(tx, quiz.ID, req.Questions); err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	return s.GetQuizByID(quiz.ID, userID)
}

func (s *QuizService) DeleteQuiz(quizID uint, userID uint) error {
	// Check if quiz exists and belongs to user
	_, err := s.GetQuizByID(quizID, userID)
	if err != nil {
		return err
	}

	return s.db.Delete(&models.Quiz{}, quizID).Error
}

// CountQuestions returns the number of questions in a quiz.
func (s *QuizService) CountQuestions(quizID uint) (int64, error) {
	var count int64
	err := s.db.Model(&models.Question{}).Where("quiz_id = ?", quizID).Count(&count).Error
	return count, err
}
