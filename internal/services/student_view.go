package services

import (
	"github.com/Abiraj-Jatheeskumar/Questify-backend/internal/models"

	"gorm.io/gorm"
)

// StudentViewService builds the student-facing read views: the question
// feed across active assignments and the student's own answer history.
type StudentViewService struct {
	db          *gorm.DB
	assignments *AssignmentService
	sessions    *SessionService
}

func NewStudentViewService(db *gorm.DB, assignments *AssignmentService, sessions *SessionService) *StudentViewService {
	return &StudentViewService{db: db, assignments: assignments, sessions: sessions}
}

// AssignedQuestion is one feed entry: a question within an assignment,
// flagged with the student's answer state. Option indices are served
// without the correct answer.
type AssignedQuestion struct {
	QuestionID          uint     `json:"question_id"`
	Question            string   `json:"question"`
	Options             []string `json:"options"`
	ImageURL            string   `json:"image_url,omitempty"`
	Subject             string   `json:"subject,omitempty"`
	ClassID             uint     `json:"class_id"`
	ClassName           string   `json:"class_name"`
	AssignmentID        uint     `json:"assignment_id"`
	AssignmentTitle     string   `json:"assignment_title"`
	QuizNumber          int      `json:"quiz_number"`
	TotalQuestions      int      `json:"total_questions"`
	IsAnswered          bool     `json:"is_answered"`
	AssignmentCompleted bool     `json:"assignment_completed"`
}

// AssignedQuestions lists every question of the student's active
// assignments, newest assignment first, with answered and completion
// flags. The enrollment set is an explicit parameter, never ambient state.
func (s *StudentViewService) AssignedQuestions(studentID uint, classIDs []uint) ([]AssignedQuestion, error) {
	if len(classIDs) == 0 {
		return []AssignedQuestion{}, nil
	}

	assignments, err := s.assignments.ListActive(classIDs)
	if err != nil {
		return nil, err
	}
	if len(assignments) == 0 {
		return []AssignedQuestion{}, nil
	}

	assignmentIDs := make([]uint, len(assignments))
	for i, a := range assignments {
		assignmentIDs[i] = a.ID
	}

	// One pass over the student's ledger rows for these assignments.
	var responses []models.Response
	if err := s.db.Select("question_id", "assignment_id").
		Where("student_id = ? AND assignment_id IN ?", studentID, assignmentIDs).
		Find(&responses).Error; err != nil {
		return nil, err
	}
	answered := make(map[[2]uint]bool, len(responses))
	for _, r := range responses {
		answered[[2]uint{r.AssignmentID, r.QuestionID}] = true
	}

	var sessions []models.QuizSession
	if err := s.db.Where("student_id = ? AND assignment_id IN ?", studentID, assignmentIDs).
		Find(&sessions).Error; err != nil {
		return nil, err
	}
	completed := make(map[uint]bool, len(sessions))
	for _, sess := range sessions {
		completed[sess.AssignmentID] = sess.Status == models.SessionCompleted
	}

	feed := []AssignedQuestion{}
	for _, assignment := range assignments {
		questions, err := s.assignments.Questions(&assignment)
		if err != nil {
			return nil, err
		}
		for _, q := range questions {
			feed = append(feed, AssignedQuestion{
				QuestionID:          q.ID,
				Question:            q.Text,
				Options:             q.Options,
				ImageURL:            q.ImageURL,
				Subject:             q.Subject,
				ClassID:             assignment.ClassID,
				ClassName:           assignment.Class.Name,
				AssignmentID:        assignment.ID,
				AssignmentTitle:     assignment.Title,
				QuizNumber:          assignment.QuizNumber,
				TotalQuestions:      len(assignment.QuestionIDs),
				IsAnswered:          answered[[2]uint{assignment.ID, q.ID}],
				AssignmentCompleted: completed[assignment.ID],
			})
		}
	}
	return feed, nil
}

// MyResponses returns the student's answer history, newest first.
func (s *StudentViewService) MyResponses(studentID uint) ([]models.Response, error) {
	var responses []models.Response
	if err := s.db.Where("student_id = ?", studentID).
		Order("answered_at DESC").Find(&responses).Error; err != nil {
		return nil, err
	}
	return responses, nil
}
