package models

import (
	"time"

	"gorm.io/datatypes"
)

// Assignment binds an ordered set of questions to one class. QuizNumber is
// a per-class sequence, unique within the class and assigned as max+1.
type Assignment struct {
	ID          uint                      `gorm:"primaryKey" json:"id"`
	ClassID     uint                      `gorm:"not null;uniqueIndex:idx_class_quiz_number" json:"class_id"`
	Class       Class                     `gorm:"foreignKey:ClassID;constraint:OnDelete:CASCADE" json:"class,omitempty"`
	QuizNumber  int                       `gorm:"not null;uniqueIndex:idx_class_quiz_number" json:"quiz_number"`
	Title       string                    `gorm:"size:255;not null;default:'Quiz'" json:"title"`
	Description string                    `gorm:"type:text" json:"description,omitempty"`
	QuestionIDs datatypes.JSONSlice[uint] `gorm:"not null" json:"question_ids"`
	AssignedBy  uint                      `gorm:"not null" json:"assigned_by"`
	AssignedAt  time.Time                 `json:"assigned_at"`
	IsActive    bool                      `gorm:"not null;default:true" json:"is_active"`
}
