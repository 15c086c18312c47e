package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	mathrand "math/rand"
	"time"

	"studyquiz/models"
	"studyquiz/study"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// sessionTTL bounds how long an abandoned session lingers in Redis.
const sessionTTL = 2 * time.Hour

type SessionService struct {
	db        *gorm.DB
	redis     *redis.Client
	questions *QuestionService
}

func NewSessionService(db *gorm.DB, redisClient *redis.Client, questions *QuestionService) *SessionService {
	return &SessionService{
		db:        db,
		redis:     redisClient,
		questions: questions,
	}
}

type StartSessionRequest struct {
	// QuizID scopes the pool to one quiz; 0 means all of the user's
	// quizzes.
	QuizID uint `json:"quiz_id"`
	// QuestionIDs is an explicit allow-list; tag and due filters still
	// apply within it.
	QuestionIDs []uint   `json:"question_ids"`
	Tags        []string `json:"tags"`
	OnlyDue     bool     `json:"only_due"`
	Limit       int      `json:"limit" binding:"omitempty,min=0,max=500"`
}

// SessionState is the Redis-persisted envelope around the study state.
type SessionState struct {
	Token     string      `json:"token"`
	UserID    uint        `json:"user_id"`
	StartedAt int64       `json:"started_at"`
	State     study.State `json:"state"`
	// Answered latches after grading the current question so repeated
	// submissions (double taps) cannot inflate the tallies.
	Answered bool `json:"answered"`
}

// QuestionView is what the client sees for the current question: no
// correctness flags, no canonical answer.
type QuestionView struct {
	ID          uint     `json:"id"`
	Text        string   `json:"text"`
	Options     []string `json:"options"`
	Explanation string   `json:"explanation,omitempty"`
}

// SessionView is the client-facing snapshot of session progress.
type SessionView struct {
	Token    string        `json:"token"`
	Index    int           `json:"index"`
	Total    int           `json:"total"`
	Correct  int           `json:"correct"`
	Wrong    int           `json:"wrong"`
	Finished bool          `json:"finished"`
	Empty    bool          `json:"empty"`
	Question *QuestionView `json:"question,omitempty"`
}

// AnswerResult is returned (and broadcast) after grading one attempt.
type AnswerResult struct {
	QuestionID  uint   `json:"question_id"`
	Correct     bool   `json:"correct"`
	Chosen      string `json:"chosen"`
	Answer      string `json:"answer"`
	Explanation string `json:"explanation,omitempty"`
	Index       int    `json:"index"`
	Total       int    `json:"total"`
}

// StartSession snapshots the user's question pool, selects and shuffles
// the working set, builds the option list for every question up front,
// and parks the whole thing in Redis under a fresh token. An empty
// selection is a valid session the caller renders as "nothing to study".
func (s *SessionService) StartSession(userID uint, req *StartSessionRequest) (*SessionView, error) {
	pool, err := s.loadPool(userID, req.QuizID)
	if err != nil {
		return nil, err
	}

	rng := mathrand.New(mathrand.NewSource(time.Now().UnixNano()))
	now := time.Now().UnixMilli()
	selected := study.Select(pool, study.Criteria{
		QuestionIDs: req.QuestionIDs,
		Tags:        req.Tags,
		OnlyDue:     req.OnlyDue,
		Limit:       req.Limit,
	}, now, rng)

	activeTags := study.TagSet(req.Tags)
	sessionQuestions := make([]study.SessionQuestion, 0, len(selected))
	for i := range selected {
		q := selected[i]
		authored, err := s.loadOptions(q.ID)
		if err != nil {
			log.Printf("Failed to load options for question %d: %v", q.ID, err)
		}
		sessionQuestions = append(sessionQuestions, study.SessionQuestion{
			ID:          q.ID,
			QuizID:      q.QuizID,
			Text:        q.Text,
			Answer:      q.Answer,
			Explanation: q.Explanation,
			Tags:        q.Tags,
			Box:         q.Box,
			Options:     study.BuildOptions(&q, authored, selected, activeTags, rng),
		})
	}

	state := SessionState{
		Token:     generateSessionToken(),
		UserID:    userID,
		StartedAt: now,
		State:     study.NewState(sessionQuestions),
	}

	if err := s.storeSessionState(&state); err != nil {
		return nil, err
	}
	return s.viewOf(&state), nil
}

// GetSession returns the current progress snapshot for a session token.
func (s *SessionService) GetSession(token string, userID uint) (*SessionView, error) {
	state, err := s.getSessionState(token, userID)
	if err != nil {
		return nil, err
	}
	return s.viewOf(state), nil
}

// SubmitAnswer grades the chosen option for the current question, folds
// the attempt into the session state, and kicks off the write-behind
// scheduling update. The persistence write never blocks progression; its
// result channel may be ignored.
func (s *SessionService) SubmitAnswer(token string, userID uint, optionIndex int, hub *Hub) (*AnswerResult, error) {
	state, err := s.getSessionState(token, userID)
	if err != nil {
		return nil, err
	}

	current := state.State.Current()
	if current == nil {
		return nil, errors.New("session has no active question")
	}
	if state.Answered {
		return nil, errors.New("answer already submitted")
	}
	if optionIndex < 0 || optionIndex >= len(current.Options) {
		return nil, errors.New("invalid option index")
	}

	chosen := current.Options[optionIndex]
	correct := chosen == current.Answer

	state.State = state.State.Apply(state.State.Index, correct)
	state.Answered = true
	if err := s.storeSessionState(state); err != nil {
		return nil, err
	}

	// Apply-then-forget: the learner moves on whether or not this write
	// lands. Errors are logged by the detached task.
	s.ApplyScheduleAsync(current.ID, correct)

	result := &AnswerResult{
		QuestionID:  current.ID,
		Correct:     correct,
		Chosen:      chosen,
		Answer:      current.Answer,
		Explanation: current.Explanation,
		Index:       state.State.Index,
		Total:       len(state.State.Questions),
	}

	if hub != nil {
		hub.BroadcastToSession(token, "answer_result", result)
	}
	return result, nil
}

// Advance moves to the next question. Past the last question it finalizes
// the session: the summary is computed, broadcast, and the Redis state is
// deleted — session outcomes live only in the per-question lifetime
// counters already persisted.
func (s *SessionService) Advance(token string, userID uint, hub *Hub) (*SessionView, *study.Summary, error) {
	state, err := s.getSessionState(token, userID)
	if err != nil {
		return nil, nil, err
	}
	if state.State.Finished {
		return nil, nil, errors.New("session already finished")
	}

	state.State = state.State.AdvanceCursor()
	state.Answered = false

	if state.State.Finished || state.State.Empty() {
		summary := study.Summarize(state.State)
		if hub != nil {
			hub.BroadcastToSession(token, "session_end", summary)
		}
		s.deleteSessionState(token)
		view := s.viewOf(state)
		return view, &summary, nil
	}

	if err := s.storeSessionState(state); err != nil {
		return nil, nil, err
	}
	if hub != nil {
		hub.BroadcastToSession(token, "session_progress", map[string]interface{}{
			"index": state.State.Index,
			"total": len(state.State.Questions),
		})
	}
	return s.viewOf(state), nil, nil
}

// Abandon discards a session mid-way. No summary is produced and nothing
// is rolled back: scheduling updates already issued for answered
// questions stand.
func (s *SessionService) Abandon(token string, userID uint, hub *Hub) error {
	if _, err := s.getSessionState(token, userID); err != nil {
		return err
	}
	if hub != nil {
		hub.BroadcastToSession(token, "session_abandoned", map[string]interface{}{"token": token})
	}
	s.deleteSessionState(token)
	return nil
}

// ApplyScheduleAsync runs the per-question scheduling update as a detached
// task. The returned channel carries the write's outcome for callers that
// want to observe it (tests, mainly); everyone else ignores it and the
// error is still logged here.
func (s *SessionService) ApplyScheduleAsync(questionID uint, correct bool) <-chan error {
	done := make(chan error, 1)
	go func() {
		err := s.questions.ApplyAttempt(questionID, correct, time.Now())
		if err != nil {
			log.Printf("Failed to persist schedule update for question %d: %v", questionID, err)
		}
		done <- err
	}()
	return done
}

func (s *SessionService) loadPool(userID uint, quizID uint) ([]models.Question, error) {
	query := s.db.
		Joins("JOIN quizzes ON quizzes.id = questions.quiz_id").
		Where("quizzes.user_id = ?", userID)
	if quizID != 0 {
		query = query.Where("questions.quiz_id = ?", quizID)
	}

	var pool []models.Question
	if err := query.Find(&pool).Error; err != nil {
		return nil, err
	}
	return pool, nil
}

func (s *SessionService) loadOptions(questionID uint) ([]models.Option, error) {
	var options []models.Option
	err := s.db.Where("question_id = ?", questionID).Order("id").Find(&options).Error
	return options, err
}

func (s *SessionService) viewOf(state *SessionState) *SessionView {
	view := &SessionView{
		Token:    state.Token,
		Index:    state.State.Index,
		Total:    len(state.State.Questions),
		Correct:  state.State.Correct,
		Wrong:    state.State.Wrong,
		Finished: state.State.Finished,
		Empty:    state.State.Empty(),
	}
	if current := state.State.Current(); current != nil {
		view.Question = &QuestionView{
			ID:      current.ID,
			Text:    current.Text,
			Options: current.Options,
		}
	}
	return view
}

func (s *SessionService) storeSessionState(state *SessionState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal session state: %v", err)
	}

	err = s.redis.Set(context.Background(), "session:"+state.Token, data, sessionTTL).Err()
	if err != nil {
		return fmt.Errorf("failed to store session in Redis: %v", err)
	}
	return nil
}

func (s *SessionService) getSessionState(token string, userID uint) (*SessionState, error) {
	data, err := s.redis.Get(context.Background(), "session:"+token).Result()
	if err != nil {
		if err != redis.Nil {
			log.Printf("Redis error getting session %s: %v", token, err)
		}
		return nil, errors.New("session not found")
	}

	var state SessionState
	if err := json.Unmarshal([]byte(data), &state); err != nil {
		log.Printf("Failed to unmarshal session state for %s: %v", token, err)
		return nil, errors.New("session not found")
	}
	if state.UserID != userID {
		return nil, errors.New("session not found")
	}
	return &state, nil
}

// SessionExists reports whether a session state is stored for the token.
func (s *SessionService) SessionExists(token string) error {
	n, err := s.redis.Exists(context.Background(), "session:"+token).Result()
	if err != nil {
		return err
	}
	if n == 0 {
		return errors.New("session not found")
	}
	return nil
}

func (s *SessionService) deleteSessionState(token string) {
	if err := s.redis.Del(context.Background(), "session:"+token).Err(); err != nil {
		log.Printf("Failed to delete session %s: %v", token, err)
	}
}

func generateSessionToken() string {
	bytes := make([]byte, 8)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}
