package models

import "time"

type Class struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Students  []User    `gorm:"many2many:class_students" json:"students,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
