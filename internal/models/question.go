package models

import (
	"time"

	"gorm.io/datatypes"
)

// NumOptions is the fixed answer-option arity for every question.
const NumOptions = 5

type Question struct {
	ID            uint                        `gorm:"primaryKey" json:"id"`
	Text          string                      `gorm:"type:text;not null" json:"question"`
	Options       datatypes.JSONSlice[string] `gorm:"not null" json:"options"`
	CorrectAnswer int                         `gorm:"not null" json:"correct_answer"`
	Subject       string                      `gorm:"size:100" json:"subject,omitempty"`
	ImageURL      string                      `gorm:"size:500" json:"image_url,omitempty"`
	Classes       []Class                     `gorm:"many2many:question_classes" json:"classes,omitempty"`
	CreatedAt     time.Time                   `json:"created_at"`
}
