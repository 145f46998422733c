package services_test

import (
	"testing"
	"time"

	"github.com/Abiraj-Jatheeskumar/Questify-backend/internal/models"
	"github.com/Abiraj-Jatheeskumar/Questify-backend/internal/services"

	"gorm.io/gorm"
)

func seedResponse(t *testing.T, db *gorm.DB, studentID, questionID, assignmentID, classID uint, isCorrect bool, responseTimeMs int64) {
	t.Helper()
	err := db.Create(&models.Response{
		StudentID:    studentID,
		QuestionID:   questionID,
		AssignmentID: assignmentID,
		ClassID:      classID,
		IsCorrect:    isCorrect,
		StartTime:    time.Now(),
		ResponseTime: responseTimeMs,
		AnsweredAt:   time.Now(),
		Status:       models.ResponseStatusAnswered,
	}).Error
	if err != nil {
		t.Fatalf("seed response: %v", err)
	}
}

func TestLeaderboardTiebreakOnSpeed(t *testing.T) {
	db := newTestDB(t)
	class := seedClass(t, db, "10A")
	s1 := seedStudent(t, db, "s1", class)
	s2 := seedStudent(t, db, "s2", class)

	// Both score 3/5; s2 averages 3000ms against s1's 4000ms.
	for q := uint(1); q <= 5; q++ {
		seedResponse(t, db, s1.ID, q, 1, class.ID, q <= 3, 4000)
		seedResponse(t, db, s2.ID, q, 1, class.ID, q <= 3, 3000)
	}

	svc := services.NewLeaderboardService(db)
	entries, err := svc.GetLeaderboard(class.ID, 0, models.RoleAdmin)
	if err != nil {
		t.Fatalf("leaderboard failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].StudentID != s2.ID {
		t.Fatalf("faster student should lead, got %d", entries[0].StudentID)
	}
	if entries[0].Score != 3 || entries[1].Score != 3 {
		t.Fatalf("expected both at 3, got %d/%d", entries[0].Score, entries[1].Score)
	}
	if entries[0].AverageResponseTime != 3000 {
		t.Fatalf("expected avg 3000, got %v", entries[0].AverageResponseTime)
	}
}

func TestLeaderboardScoreBeatsSpeed(t *testing.T) {
	db := newTestDB(t)
	class := seedClass(t, db, "10A")
	fast := seedStudent(t, db, "fast", class)
	accurate := seedStudent(t, db, "accurate", class)

	for q := uint(1); q <= 4; q++ {
		seedResponse(t, db, fast.ID, q, 1, class.ID, q <= 2, 1000)
		seedResponse(t, db, accurate.ID, q, 1, class.ID, q <= 3, 9000)
	}

	svc := services.NewLeaderboardService(db)
	entries, err := svc.GetLeaderboard(class.ID, 0, models.RoleAdmin)
	if err != nil {
		t.Fatalf("leaderboard failed: %v", err)
	}
	if entries[0].StudentID != accurate.ID {
		t.Fatalf("higher score must outrank speed, got %d first", entries[0].StudentID)
	}
}

func TestLeaderboardStudentSeesOnlyAttemptedQuizzes(t *testing.T) {
	db := newTestDB(t)
	class := seedClass(t, db, "10A")
	s1 := seedStudent(t, db, "s1", class)
	s2 := seedStudent(t, db, "s2", class)

	// s1 attempted assignment 1 only; s2 also attempted assignment 2.
	seedResponse(t, db, s1.ID, 1, 1, class.ID, true, 1000)
	seedResponse(t, db, s2.ID, 1, 1, class.ID, true, 1000)
	seedResponse(t, db, s2.ID, 2, 2, class.ID, true, 1000)

	svc := services.NewLeaderboardService(db)

	entries, err := svc.GetLeaderboard(class.ID, s1.ID, models.RoleStudent)
	if err != nil {
		t.Fatalf("leaderboard failed: %v", err)
	}
	for _, e := range entries {
		if e.StudentID == s2.ID && e.Score != 1 {
			t.Fatalf("s2's unattempted quiz leaked into s1's view: %+v", e)
		}
	}

	adminEntries, err := svc.GetLeaderboard(class.ID, 0, models.RoleAdmin)
	if err != nil {
		t.Fatalf("admin leaderboard failed: %v", err)
	}
	for _, e := range adminEntries {
		if e.StudentID == s2.ID && e.Score != 2 {
			t.Fatalf("admin should see every quiz, got %+v", e)
		}
	}
}

func TestLeaderboardTruncatesScanAtLimit(t *testing.T) {
	db := newTestDB(t)
	class := seedClass(t, db, "10A")
	s1 := seedStudent(t, db, "s1", class)

	// Ten rows with strictly increasing answered_at: six correct ones
	// first, then four wrong ones past the cap.
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 10; i++ {
		err := db.Create(&models.Response{
			StudentID:    s1.ID,
			QuestionID:   uint(i + 1),
			AssignmentID: 1,
			ClassID:      class.ID,
			IsCorrect:    i < 6,
			StartTime:    base,
			ResponseTime: 1000,
			AnsweredAt:   base.Add(time.Duration(i) * time.Minute),
			Status:       models.ResponseStatusAnswered,
		}).Error
		if err != nil {
			t.Fatalf("seed response %d: %v", i, err)
		}
	}

	svc := services.NewLeaderboardService(db)
	svc.ScanLimit = 6

	entries, err := svc.GetLeaderboard(class.ID, 0, models.RoleAdmin)
	if err != nil {
		t.Fatalf("leaderboard failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].TotalAnswers != 6 {
		t.Fatalf("scan should stop at the cap, got %d rows aggregated", entries[0].TotalAnswers)
	}
	if entries[0].Score != 6 {
		t.Fatalf("only the oldest rows count, got score %d", entries[0].Score)
	}
}

func TestLeaderboardEmptyClass(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewLeaderboardService(db)

	entries, err := svc.GetLeaderboard(99, 0, models.RoleAdmin)
	if err != nil {
		t.Fatalf("leaderboard failed: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty board, got %d entries", len(entries))
	}
}
