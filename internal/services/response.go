package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/Abiraj-Jatheeskumar/Questify-backend/internal/models"

	"gorm.io/gorm"
)

// sessionUpdateTimeout bounds the best-effort session advance so a stuck
// tracker write cannot hold up the submission response.
const sessionUpdateTimeout = 3 * time.Second

// ResponseService is the append-only ledger of answers. One row per
// (student, question, assignment) triple; the composite unique index is
// the arbiter under concurrent duplicate submissions.
type ResponseService struct {
	db       *gorm.DB
	sessions *SessionService
}

func NewResponseService(db *gorm.DB, sessions *SessionService) *ResponseService {
	return &ResponseService{db: db, sessions: sessions}
}

type NetworkMetricsInput struct {
	RTTMs            *float64 `json:"rtt_ms"`
	JitterMs         *float64 `json:"jitter_ms"`
	StabilityPercent *float64 `json:"stability_percent"`
	NetworkQuality   *string  `json:"network_quality"`
}

type SubmitAnswerInput struct {
	StudentID            uint
	QuestionID           uint
	AssignmentID         uint
	ClassID              uint
	SelectedAnswer       int
	StartTime            time.Time
	CurrentQuestionIndex int
	TotalQuestions       int // optional, defaults to the assignment's question count
	Metrics              *NetworkMetricsInput
}

type SubmitAnswerResult struct {
	Response       *models.Response    `json:"response"`
	Session        *models.QuizSession `json:"session,omitempty"`
	IsCorrect      bool                `json:"is_correct"`
	CorrectAnswer  int                 `json:"correct_answer"`
	ResponseTimeMs int64               `json:"response_time_ms"`
}

// SubmitAnswer is the single write path of the platform. Preconditions
// fail fast in order: validation, enrollment, question existence,
// duplicate attempt. Once the response row commits, the session advance
// is best-effort and its failure is logged, never surfaced.
func (s *ResponseService) SubmitAnswer(ctx context.Context, in SubmitAnswerInput) (*SubmitAnswerResult, error) {
	if in.StudentID == 0 || in.QuestionID == 0 || in.AssignmentID == 0 || in.ClassID == 0 {
		return nil, fmt.Errorf("%w: question, assignment and class are required", ErrValidation)
	}
	if in.SelectedAnswer < 0 || in.SelectedAnswer >= models.NumOptions {
		return nil, fmt.Errorf("%w: selected answer must be between 0 and %d", ErrValidation, models.NumOptions-1)
	}
	if in.StartTime.IsZero() {
		return nil, fmt.Errorf("%w: start time is required", ErrValidation)
	}

	db := s.db.WithContext(ctx)

	enrolled, err := s.isEnrolled(db, in.StudentID, in.ClassID)
	if err != nil {
		return nil, err
	}
	if !enrolled {
		return nil, fmt.Errorf("%w: student is not in this class", ErrForbidden)
	}

	var question models.Question
	if err := db.First(&question, in.QuestionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: question %d", ErrNotFound, in.QuestionID)
		}
		return nil, err
	}

	var assignment models.Assignment
	if err := db.First(&assignment, in.AssignmentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: assignment %d", ErrNotFound, in.AssignmentID)
		}
		return nil, err
	}

	now := time.Now()
	// Clock skew can put the client start after server receipt; floor to
	// zero rather than reject.
	responseTime := now.Sub(in.StartTime).Milliseconds()
	if responseTime < 0 {
		responseTime = 0
	}

	// Correctness is evaluated against the answer key as of right now.
	// Later edits to the question only touch stored rows via the
	// explicit re-scoring sweep.
	isCorrect := in.SelectedAnswer == question.CorrectAnswer

	response := models.Response{
		StudentID:      in.StudentID,
		QuestionID:     in.QuestionID,
		AssignmentID:   in.AssignmentID,
		ClassID:        in.ClassID,
		SelectedAnswer: in.SelectedAnswer,
		IsCorrect:      isCorrect,
		StartTime:      in.StartTime,
		ResponseTime:   responseTime,
		AnsweredAt:     now,
		Status:         models.ResponseStatusAnswered,
	}
	if m := in.Metrics; m != nil {
		response.RTTMs = m.RTTMs
		response.JitterMs = m.JitterMs
		response.StabilityPercent = m.StabilityPercent
		response.NetworkQuality = m.NetworkQuality
	}

	if err := db.Create(&response).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateSubmission
		}
		return nil, err
	}

	result := &SubmitAnswerResult{
		Response:       &response,
		IsCorrect:      isCorrect,
		CorrectAnswer:  question.CorrectAnswer,
		ResponseTimeMs: responseTime,
	}

	totalQuestions := in.TotalQuestions
	if totalQuestions <= 0 {
		totalQuestions = len(assignment.QuestionIDs)
	}

	sessCtx, cancel := context.WithTimeout(ctx, sessionUpdateTimeout)
	defer cancel()
	session, err := s.sessions.Advance(sessCtx, in.StudentID, in.AssignmentID, in.CurrentQuestionIndex, totalQuestions)
	if err != nil {
		// The response row already committed; the tracker is derived data.
		log.Printf("session update failed for student %d assignment %d: %v", in.StudentID, in.AssignmentID, err)
	} else {
		result.Session = session
	}

	return result, nil
}

// UpdateNetworkMetrics patches the metric fields a client measured after
// submission. Only supplied fields change, and a supplied zero is stored
// as a real measurement.
func (s *ResponseService) UpdateNetworkMetrics(studentID, responseID uint, m NetworkMetricsInput) (*models.Response, error) {
	var response models.Response
	if err := s.db.First(&response, responseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: response %d", ErrNotFound, responseID)
		}
		return nil, err
	}
	if response.StudentID != studentID {
		return nil, fmt.Errorf("%w: response belongs to another student", ErrForbidden)
	}

	updates := map[string]interface{}{}
	if m.RTTMs != nil {
		updates["rtt_ms"] = *m.RTTMs
	}
	if m.JitterMs != nil {
		updates["jitter_ms"] = *m.JitterMs
	}
	if m.StabilityPercent != nil {
		updates["stability_percent"] = *m.StabilityPercent
	}
	if m.NetworkQuality != nil {
		updates["network_quality"] = *m.NetworkQuality
	}
	if len(updates) == 0 {
		return &response, nil
	}

	if err := s.db.Model(&response).Updates(updates).Error; err != nil {
		return nil, err
	}
	if err := s.db.First(&response, responseID).Error; err != nil {
		return nil, err
	}
	return &response, nil
}

type ResponseFilter struct {
	ClassID      uint
	StudentID    uint
	QuestionID   uint
	AssignmentID uint
}

// List returns ledger rows matching the filter, newest first.
func (s *ResponseService) List(filter ResponseFilter) ([]models.Response, error) {
	q := s.db.Model(&models.Response{})
	if filter.ClassID != 0 {
		q = q.Where("class_id = ?", filter.ClassID)
	}
	if filter.StudentID != 0 {
		q = q.Where("student_id = ?", filter.StudentID)
	}
	if filter.QuestionID != 0 {
		q = q.Where("question_id = ?", filter.QuestionID)
	}
	if filter.AssignmentID != 0 {
		q = q.Where("assignment_id = ?", filter.AssignmentID)
	}

	var responses []models.Response
	if err := q.Order("answered_at DESC").Find(&responses).Error; err != nil {
		return nil, err
	}
	return responses, nil
}

// StatsForQuestion computes the response-time distribution feeding the
// engagement scorer. Returns nil when the question has no responses yet.
func (s *ResponseService) StatsForQuestion(questionID uint) (*QuestionStats, error) {
	var rows []models.Response
	if err := s.db.Select("response_time", "is_correct").
		Where("question_id = ?", questionID).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	times := make([]float64, len(rows))
	correct := make([]bool, len(rows))
	for i, r := range rows {
		times[i] = float64(r.ResponseTime) / 1000.0
		correct[i] = r.IsCorrect
	}
	return ComputeQuestionStats(times, correct), nil
}

func (s *ResponseService) isEnrolled(db *gorm.DB, studentID, classID uint) (bool, error) {
	var count int64
	err := db.Table("class_students").
		Where("class_id = ? AND user_id = ?", classID, studentID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
