package services_test

import (
	"errors"
	"testing"
	"time"

	"github.com/Abiraj-Jatheeskumar/Questify-backend/internal/models"
	"github.com/Abiraj-Jatheeskumar/Questify-backend/internal/services"

	"gorm.io/gorm"
)

func seedSession(t *testing.T, db *gorm.DB, studentID, assignmentID uint, status string, answered, total int, lastActivity *time.Time) {
	t.Helper()
	started := time.Now().Add(-30 * time.Minute)
	session := models.QuizSession{
		StudentID:         studentID,
		AssignmentID:      assignmentID,
		Status:            status,
		QuestionsAnswered: answered,
		TotalQuestions:    total,
		StartedAt:         &started,
		LastActivityAt:    lastActivity,
	}
	if status == models.SessionCompleted {
		completed := started.Add(10 * time.Minute)
		session.CompletedAt = &completed
	}
	if err := db.Create(&session).Error; err != nil {
		t.Fatalf("seed session: %v", err)
	}
}

func TestLiveProgressBuckets(t *testing.T) {
	db := newTestDB(t)
	class := seedClass(t, db, "10A")
	fresh := seedStudent(t, db, "fresh", class)
	working := seedStudent(t, db, "working", class)
	stalled := seedStudent(t, db, "stalled", class)
	done := seedStudent(t, db, "done", class)
	question := seedQuestion(t, db, 0)
	assignment := seedAssignment(t, db, class.ID, question.ID, question.ID+1)

	now := time.Now()
	recent := now.Add(-30 * time.Second)
	tenMinAgo := now.Add(-10 * time.Minute)
	seedSession(t, db, working.ID, assignment.ID, models.SessionInProgress, 1, 2, &recent)
	seedSession(t, db, stalled.ID, assignment.ID, models.SessionInProgress, 1, 2, &tenMinAgo)
	seedSession(t, db, done.ID, assignment.ID, models.SessionCompleted, 2, 2, &tenMinAgo)

	svc := services.NewProgressService(db, services.NewSessionService(db))
	progress, err := svc.GetLiveProgress(assignment.ID)
	if err != nil {
		t.Fatalf("live progress failed: %v", err)
	}

	if progress.TotalStudents != 4 {
		t.Fatalf("expected 4 students, got %d", progress.TotalStudents)
	}
	if progress.Summary.NotStarted != 1 || progress.Summary.InProgress != 2 || progress.Summary.Completed != 1 {
		t.Fatalf("unexpected summary: %+v", progress.Summary)
	}

	if len(progress.NotStarted) != 1 || progress.NotStarted[0].ID != fresh.ID {
		t.Fatalf("expected only the fresh student in not-started")
	}

	// Most idle first.
	if progress.InProgress[0].ID != stalled.ID {
		t.Fatalf("stalled student should surface first, got %d", progress.InProgress[0].ID)
	}
	if progress.InProgress[0].Activity != services.ActivityIdle {
		t.Fatalf("expected idle label, got %s", progress.InProgress[0].Activity)
	}
	if progress.InProgress[1].Activity != services.ActivityActive {
		t.Fatalf("expected active label, got %s", progress.InProgress[1].Activity)
	}
	if progress.InProgress[0].Progress != 50 {
		t.Fatalf("expected 50%% progress, got %d", progress.InProgress[0].Progress)
	}

	if len(progress.Completed) != 1 {
		t.Fatalf("expected 1 completed, got %d", len(progress.Completed))
	}
	if progress.Completed[0].TimeTakenSec != 600 {
		t.Fatalf("expected 600s taken, got %d", progress.Completed[0].TimeTakenSec)
	}
}

func TestLiveProgressUnknownAssignment(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewProgressService(db, services.NewSessionService(db))

	if _, err := svc.GetLiveProgress(999); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestProgressStorageErrorIsNotMaskedAsNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewProgressService(db, services.NewSessionService(db))

	// A broken store must surface its own error, not a 404.
	if err := db.Migrator().DropTable(&models.Assignment{}); err != nil {
		t.Fatalf("drop table: %v", err)
	}

	if _, err := svc.GetLiveProgress(1); err == nil || errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected a storage error, got %v", err)
	}
	if _, err := svc.GetNonParticipants(1); err == nil || errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected a storage error, got %v", err)
	}
}

func TestNonParticipants(t *testing.T) {
	db := newTestDB(t)
	class := seedClass(t, db, "10A")
	answered := seedStudent(t, db, "answered", class)
	silent := seedStudent(t, db, "silent", class)
	outsider := seedStudent(t, db, "outsider")
	question := seedQuestion(t, db, 0)
	assignment := seedAssignment(t, db, class.ID, question.ID)

	seedResponse(t, db, answered.ID, question.ID, assignment.ID, class.ID, true, 1000)

	svc := services.NewProgressService(db, services.NewSessionService(db))
	refs, err := svc.GetNonParticipants(assignment.ID)
	if err != nil {
		t.Fatalf("non-participants failed: %v", err)
	}
	if len(refs) != 1 {
		t.Fatalf("expected 1 non-participant, got %d", len(refs))
	}
	if refs[0].ID != silent.ID {
		t.Fatalf("expected the silent student, got %d", refs[0].ID)
	}
	_ = outsider // not enrolled, must not appear either
}
