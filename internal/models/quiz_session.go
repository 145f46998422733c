package models

import "time"

// QuizSession tracks one student's progress through one assignment. It is
// created lazily on the first answer and mutated only by the submission
// path. Status never regresses and CompletedAt is written exactly once.
type QuizSession struct {
	ID                   uint       `gorm:"primaryKey" json:"id"`
	StudentID            uint       `gorm:"not null;uniqueIndex:idx_session_attempt" json:"student_id"`
	AssignmentID         uint       `gorm:"not null;uniqueIndex:idx_session_attempt;index" json:"assignment_id"`
	Status               string     `gorm:"size:15;not null;default:'not_started'" json:"status"`
	CurrentQuestionIndex int        `gorm:"not null;default:0" json:"current_question_index"`
	QuestionsAnswered    int        `gorm:"not null;default:0" json:"questions_answered"`
	TotalQuestions       int        `gorm:"not null" json:"total_questions"`
	StartedAt            *time.Time `json:"started_at"`
	LastActivityAt       *time.Time `json:"last_activity_at"`
	CompletedAt          *time.Time `json:"completed_at"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

const (
	SessionNotStarted = "not_started"
	SessionInProgress = "in_progress"
	SessionCompleted  = "completed"
)
