package models

import "time"

// Response is one student's answer to one question within one assignment.
// The (student, question, assignment) triple carries a composite unique
// index; the database, not the application, arbitrates duplicate attempts.
type Response struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	StudentID      uint      `gorm:"not null;uniqueIndex:idx_response_attempt" json:"student_id"`
	QuestionID     uint      `gorm:"not null;uniqueIndex:idx_response_attempt" json:"question_id"`
	AssignmentID   uint      `gorm:"not null;uniqueIndex:idx_response_attempt;index" json:"assignment_id"`
	ClassID        uint      `gorm:"not null;index" json:"class_id"`
	SelectedAnswer int       `gorm:"not null" json:"selected_answer"`
	IsCorrect      bool      `gorm:"not null" json:"is_correct"`
	StartTime      time.Time `gorm:"not null" json:"start_time"`
	ResponseTime   int64     `gorm:"not null" json:"response_time"` // milliseconds
	AnsweredAt     time.Time `gorm:"index" json:"answered_at"`
	Status         string    `gorm:"size:10;not null;default:'answered'" json:"status"`

	// Network metrics arrive piecemeal and after the fact; nil means the
	// client never measured, a stored zero is a real measurement.
	RTTMs            *float64 `json:"rtt_ms,omitempty"`
	JitterMs         *float64 `json:"jitter_ms,omitempty"`
	StabilityPercent *float64 `json:"stability_percent,omitempty"`
	NetworkQuality   *string  `gorm:"size:20" json:"network_quality,omitempty"`
}

const (
	ResponseStatusAnswered = "answered"
	ResponseStatusSkipped  = "skipped"
)
