package services_test

import (
	"fmt"
	"testing"

	"github.com/Abiraj-Jatheeskumar/Questify-backend/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an in-memory sqlite database with the same error
// translation the production postgres connection uses, so unique-index
// violations surface as gorm.ErrDuplicatedKey in both.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	// A single connection keeps the in-memory database alive and
	// serializes access, which sqlite needs under concurrent tests.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&models.User{},
		&models.Class{},
		&models.Question{},
		&models.Assignment{},
		&models.Response{},
		&models.QuizSession{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedClass(t *testing.T, db *gorm.DB, name string) *models.Class {
	t.Helper()
	class := &models.Class{Name: name}
	if err := db.Create(class).Error; err != nil {
		t.Fatalf("seed class: %v", err)
	}
	return class
}

func seedStudent(t *testing.T, db *gorm.DB, name string, classes ...*models.Class) *models.User {
	t.Helper()
	student := &models.User{
		Name:         name,
		Email:        fmt.Sprintf("%s@test.local", name),
		PasswordHash: "x",
		Role:         models.RoleStudent,
	}
	if err := db.Create(student).Error; err != nil {
		t.Fatalf("seed student: %v", err)
	}
	for _, class := range classes {
		if err := db.Model(class).Association("Students").Append(student); err != nil {
			t.Fatalf("enroll student: %v", err)
		}
	}
	return student
}

func seedQuestion(t *testing.T, db *gorm.DB, correctAnswer int) *models.Question {
	t.Helper()
	question := &models.Question{
		Text:          "What is 2 + 2?",
		Options:       []string{"1", "2", "3", "4", "5"},
		CorrectAnswer: correctAnswer,
	}
	if err := db.Create(question).Error; err != nil {
		t.Fatalf("seed question: %v", err)
	}
	return question
}

func seedAssignment(t *testing.T, db *gorm.DB, classID uint, questionIDs ...uint) *models.Assignment {
	t.Helper()
	var maxNumber int
	db.Model(&models.Assignment{}).Where("class_id = ?", classID).
		Select("COALESCE(MAX(quiz_number), 0)").Scan(&maxNumber)
	assignment := &models.Assignment{
		ClassID:     classID,
		QuizNumber:  maxNumber + 1,
		Title:       "Quiz",
		QuestionIDs: questionIDs,
		AssignedBy:  1,
		IsActive:    true,
	}
	if err := db.Create(assignment).Error; err != nil {
		t.Fatalf("seed assignment: %v", err)
	}
	return assignment
}

func floatPtr(v float64) *float64 { return &v }
