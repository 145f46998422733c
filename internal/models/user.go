package models

import "time"

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:100;not null" json:"name"`
	Email        string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	Role         string    `gorm:"size:10;not null;default:'student'" json:"role"`
	AdmissionNo  string    `gorm:"size:50" json:"admission_no,omitempty"`
	Classes      []Class   `gorm:"many2many:class_students" json:"classes,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

const (
	RoleAdmin   = "admin"
	RoleStudent = "student"
)
