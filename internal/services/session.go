package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Abiraj-Jatheeskumar/Questify-backend/internal/models"

	"gorm.io/gorm"
)

// SessionService owns the per-student-per-assignment progress records.
// Sessions are a derived convenience view over the response ledger: the
// submission path is the only writer, and a failed session update never
// fails the submission that triggered it.
type SessionService struct {
	db *gorm.DB
}

func NewSessionService(db *gorm.DB) *SessionService {
	return &SessionService{db: db}
}

// Advance records one more answered question for the student's session on
// this assignment, creating the session lazily on the first answer.
// QuestionsAnswered never exceeds TotalQuestions, status only moves
// forward, and CompletedAt is written exactly once.
func (s *SessionService) Advance(ctx context.Context, studentID, assignmentID uint, currentIndex, totalQuestions int) (*models.QuizSession, error) {
	if totalQuestions < 1 {
		return nil, fmt.Errorf("%w: total questions must be positive", ErrValidation)
	}

	db := s.db.WithContext(ctx)
	now := time.Now()

	var session models.QuizSession
	err := db.Where("student_id = ? AND assignment_id = ?", studentID, assignmentID).
		First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		session = models.QuizSession{
			StudentID:      studentID,
			AssignmentID:   assignmentID,
			Status:         models.SessionInProgress,
			TotalQuestions: totalQuestions,
			StartedAt:      &now,
		}
		if err := db.Create(&session).Error; err != nil {
			// A concurrent first answer may have created it already.
			if !errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, err
			}
			if err := db.Where("student_id = ? AND assignment_id = ?", studentID, assignmentID).
				First(&session).Error; err != nil {
				return nil, err
			}
		}
	} else if err != nil {
		return nil, err
	}

	// Guarded set-based increment: the WHERE clause caps the counter at
	// TotalQuestions no matter how many submissions race.
	if err := db.Model(&models.QuizSession{}).
		Where("id = ? AND questions_answered < total_questions", session.ID).
		Updates(map[string]interface{}{
			"questions_answered":     gorm.Expr("questions_answered + 1"),
			"current_question_index": currentIndex,
			"last_activity_at":       now,
		}).Error; err != nil {
		return nil, err
	}

	// Completion transition, idempotent: the status guard keeps
	// completed_at from being overwritten by a later call.
	if err := db.Model(&models.QuizSession{}).
		Where("id = ? AND questions_answered >= total_questions AND status <> ?",
			session.ID, models.SessionCompleted).
		Updates(map[string]interface{}{
			"status":       models.SessionCompleted,
			"completed_at": now,
		}).Error; err != nil {
		return nil, err
	}

	if err := db.First(&session, session.ID).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

// Get returns the session for a (student, assignment) pair, or
// gorm.ErrRecordNotFound if the student has not started.
func (s *SessionService) Get(studentID, assignmentID uint) (*models.QuizSession, error) {
	var session models.QuizSession
	if err := s.db.Where("student_id = ? AND assignment_id = ?", studentID, assignmentID).
		First(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

// ListForAssignment returns every session of an assignment, keyed by student.
func (s *SessionService) ListForAssignment(assignmentID uint) (map[uint]models.QuizSession, error) {
	var sessions []models.QuizSession
	if err := s.db.Where("assignment_id = ?", assignmentID).Find(&sessions).Error; err != nil {
		return nil, err
	}
	byStudent := make(map[uint]models.QuizSession, len(sessions))
	for _, sess := range sessions {
		byStudent[sess.StudentID] = sess
	}
	return byStudent, nil
}
