package services

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/Abiraj-Jatheeskumar/Questify-backend/internal/models"

	"gorm.io/gorm"
)

// Activity labels for in-progress students, derived from idle minutes.
const (
	ActivityActive = "active"
	ActivitySlow   = "slow"
	ActivityIdle   = "idle"
)

// ProgressService is the read-side join across the class roster, the
// session tracker and the response ledger. It never writes.
type ProgressService struct {
	db       *gorm.DB
	sessions *SessionService
}

func NewProgressService(db *gorm.DB, sessions *SessionService) *ProgressService {
	return &ProgressService{db: db, sessions: sessions}
}

type StudentRef struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	AdmissionNo string `json:"admission_no,omitempty"`
}

type InProgressEntry struct {
	StudentRef
	CurrentQuestionIndex int        `json:"current_question_index"`
	QuestionsAnswered    int        `json:"questions_answered"`
	TotalQuestions       int        `json:"total_questions"`
	Progress             int        `json:"progress"`
	StartedAt            *time.Time `json:"started_at"`
	LastActivityAt       *time.Time `json:"last_activity_at"`
	IdleMinutes          int        `json:"idle_minutes"`
	Activity             string     `json:"activity"`
}

type CompletedEntry struct {
	StudentRef
	QuestionsAnswered int        `json:"questions_answered"`
	TotalQuestions    int        `json:"total_questions"`
	StartedAt         *time.Time `json:"started_at"`
	CompletedAt       *time.Time `json:"completed_at"`
	TimeTakenSec      int        `json:"time_taken_sec"`
}

type LiveProgress struct {
	AssignmentID    uint              `json:"assignment_id"`
	AssignmentTitle string            `json:"assignment_title"`
	ClassName       string            `json:"class_name"`
	TotalStudents   int               `json:"total_students"`
	TotalQuestions  int               `json:"total_questions"`
	Summary         ProgressSummary   `json:"summary"`
	NotStarted      []StudentRef      `json:"not_started"`
	InProgress      []InProgressEntry `json:"in_progress"`
	Completed       []CompletedEntry  `json:"completed"`
	LastUpdated     time.Time         `json:"last_updated"`
}

type ProgressSummary struct {
	NotStarted int `json:"not_started"`
	InProgress int `json:"in_progress"`
	Completed  int `json:"completed"`
}

// GetLiveProgress buckets every enrolled student of the assignment's class
// by their session state. Students with no session are not-started; the
// in-progress bucket is sorted most-idle-first so the students needing
// attention surface on top of the dashboard.
func (s *ProgressService) GetLiveProgress(assignmentID uint) (*LiveProgress, error) {
	var assignment models.Assignment
	if err := s.db.Preload("Class").First(&assignment, assignmentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: assignment %d", ErrNotFound, assignmentID)
		}
		return nil, err
	}

	students, err := s.Roster(assignment.ClassID)
	if err != nil {
		return nil, err
	}

	sessions, err := s.sessions.ListForAssignment(assignmentID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	out := &LiveProgress{
		AssignmentID:    assignmentID,
		AssignmentTitle: assignment.Title,
		ClassName:       assignment.Class.Name,
		TotalStudents:   len(students),
		TotalQuestions:  len(assignment.QuestionIDs),
		NotStarted:      []StudentRef{},
		InProgress:      []InProgressEntry{},
		Completed:       []CompletedEntry{},
		LastUpdated:     now,
	}

	for _, student := range students {
		ref := StudentRef{ID: student.ID, Name: student.Name, Email: student.Email, AdmissionNo: student.AdmissionNo}
		session, ok := sessions[student.ID]
		switch {
		case !ok:
			out.NotStarted = append(out.NotStarted, ref)
		case session.Status == models.SessionCompleted:
			timeTaken := 0
			if session.CompletedAt != nil && session.StartedAt != nil {
				timeTaken = int(math.Round(session.CompletedAt.Sub(*session.StartedAt).Seconds()))
			}
			out.Completed = append(out.Completed, CompletedEntry{
				StudentRef:        ref,
				QuestionsAnswered: session.QuestionsAnswered,
				TotalQuestions:    session.TotalQuestions,
				StartedAt:         session.StartedAt,
				CompletedAt:       session.CompletedAt,
				TimeTakenSec:      timeTaken,
			})
		default:
			idle := idleMinutes(now, session)
			progress := 0
			if session.TotalQuestions > 0 {
				progress = int(math.Round(float64(session.QuestionsAnswered) / float64(session.TotalQuestions) * 100))
			}
			out.InProgress = append(out.InProgress, InProgressEntry{
				StudentRef:           ref,
				CurrentQuestionIndex: session.CurrentQuestionIndex,
				QuestionsAnswered:    session.QuestionsAnswered,
				TotalQuestions:       session.TotalQuestions,
				Progress:             progress,
				StartedAt:            session.StartedAt,
				LastActivityAt:       session.LastActivityAt,
				IdleMinutes:          idle,
				Activity:             activityLabel(idle),
			})
		}
	}

	sort.SliceStable(out.InProgress, func(i, j int) bool {
		return out.InProgress[i].IdleMinutes > out.InProgress[j].IdleMinutes
	})

	out.Summary = ProgressSummary{
		NotStarted: len(out.NotStarted),
		InProgress: len(out.InProgress),
		Completed:  len(out.Completed),
	}
	return out, nil
}

// GetNonParticipants lists students of the assignment's class who have no
// response to it yet.
func (s *ProgressService) GetNonParticipants(assignmentID uint) ([]StudentRef, error) {
	var assignment models.Assignment
	if err := s.db.First(&assignment, assignmentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: assignment %d", ErrNotFound, assignmentID)
		}
		return nil, err
	}

	sub := s.db.Model(&models.Response{}).
		Select("DISTINCT student_id").
		Where("assignment_id = ?", assignmentID)

	var students []models.User
	err := s.db.Model(&models.User{}).
		Joins("JOIN class_students cs ON cs.user_id = users.id").
		Where("cs.class_id = ? AND users.role = ?", assignment.ClassID, models.RoleStudent).
		Where("users.id NOT IN (?)", sub).
		Order("users.name ASC").
		Find(&students).Error
	if err != nil {
		return nil, err
	}

	refs := make([]StudentRef, len(students))
	for i, st := range students {
		refs[i] = StudentRef{ID: st.ID, Name: st.Name, Email: st.Email, AdmissionNo: st.AdmissionNo}
	}
	return refs, nil
}

// Roster returns the students enrolled in a class.
func (s *ProgressService) Roster(classID uint) ([]models.User, error) {
	var students []models.User
	err := s.db.Model(&models.User{}).
		Joins("JOIN class_students cs ON cs.user_id = users.id").
		Where("cs.class_id = ? AND users.role = ?", classID, models.RoleStudent).
		Order("users.name ASC").
		Find(&students).Error
	if err != nil {
		return nil, err
	}
	return students, nil
}

func idleMinutes(now time.Time, session models.QuizSession) int {
	last := session.LastActivityAt
	if last == nil {
		last = session.StartedAt
	}
	if last == nil {
		return 0
	}
	return int(math.Round(now.Sub(*last).Minutes()))
}

func activityLabel(idleMinutes int) string {
	switch {
	case idleMinutes > 5:
		return ActivityIdle
	case idleMinutes > 2:
		return ActivitySlow
	default:
		return ActivityActive
	}
}
