package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/Abiraj-Jatheeskumar/Questify-backend/internal/models"

	"gorm.io/gorm"
)

type AssignmentService struct {
	db *gorm.DB
}

func NewAssignmentService(db *gorm.DB) *AssignmentService {
	return &AssignmentService{db: db}
}

type AssignInput struct {
	ClassID     uint   `json:"class_id"`
	QuestionIDs []uint `json:"question_ids"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Assign binds questions to a class as a new quiz. The quiz number is the
// class's max+1; the unique (class, number) index catches two admins
// assigning at once, in which case the sequence read is retried.
func (s *AssignmentService) Assign(adminID uint, in AssignInput) (*models.Assignment, error) {
	if in.ClassID == 0 || len(in.QuestionIDs) == 0 {
		return nil, fmt.Errorf("%w: class and question ids are required", ErrValidation)
	}

	var class models.Class
	if err := s.db.First(&class, in.ClassID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: class %d", ErrNotFound, in.ClassID)
		}
		return nil, err
	}

	var count int64
	if err := s.db.Model(&models.Question{}).Where("id IN ?", in.QuestionIDs).Count(&count).Error; err != nil {
		return nil, err
	}
	if count != int64(len(in.QuestionIDs)) {
		return nil, fmt.Errorf("%w: some questions not found", ErrNotFound)
	}

	title := in.Title
	if title == "" {
		title = "Quiz"
	}

	var assignment models.Assignment
	for attempt := 0; ; attempt++ {
		var maxNumber int
		if err := s.db.Model(&models.Assignment{}).
			Where("class_id = ?", in.ClassID).
			Select("COALESCE(MAX(quiz_number), 0)").
			Scan(&maxNumber).Error; err != nil {
			return nil, err
		}

		assignment = models.Assignment{
			ClassID:     in.ClassID,
			QuizNumber:  maxNumber + 1,
			Title:       title,
			Description: in.Description,
			QuestionIDs: in.QuestionIDs,
			AssignedBy:  adminID,
			AssignedAt:  time.Now(),
			IsActive:    true,
		}
		err := s.db.Create(&assignment).Error
		if err == nil {
			break
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) && attempt < 3 {
			continue
		}
		return nil, err
	}

	return &assignment, nil
}

func (s *AssignmentService) Get(id uint) (*models.Assignment, error) {
	var assignment models.Assignment
	if err := s.db.Preload("Class").First(&assignment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: assignment %d", ErrNotFound, id)
		}
		return nil, err
	}
	return &assignment, nil
}

// ListActive returns active assignments, optionally narrowed to a set of
// classes (a student's enrollment), newest first.
func (s *AssignmentService) ListActive(classIDs []uint) ([]models.Assignment, error) {
	q := s.db.Preload("Class").Where("is_active = ?", true)
	if classIDs != nil {
		q = q.Where("class_id IN ?", classIDs)
	}
	var assignments []models.Assignment
	if err := q.Order("assigned_at DESC").Find(&assignments).Error; err != nil {
		return nil, err
	}
	return assignments, nil
}

// Questions loads an assignment's questions preserving the assigned order.
func (s *AssignmentService) Questions(assignment *models.Assignment) ([]models.Question, error) {
	if len(assignment.QuestionIDs) == 0 {
		return nil, nil
	}
	var questions []models.Question
	if err := s.db.Where("id IN ?", []uint(assignment.QuestionIDs)).Find(&questions).Error; err != nil {
		return nil, err
	}
	byID := make(map[uint]models.Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}
	ordered := make([]models.Question, 0, len(questions))
	for _, qid := range assignment.QuestionIDs {
		if q, ok := byID[qid]; ok {
			ordered = append(ordered, q)
		}
	}
	return ordered, nil
}

// Deactivate closes an assignment without touching its ledger rows.
func (s *AssignmentService) Deactivate(id uint) error {
	res := s.db.Model(&models.Assignment{}).Where("id = ?", id).Update("is_active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: assignment %d", ErrNotFound, id)
	}
	return nil
}

// Delete removes an assignment and cascades its sessions and responses.
func (s *AssignmentService) Delete(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.Assignment{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: assignment %d", ErrNotFound, id)
		}
		if err := tx.Where("assignment_id = ?", id).Delete(&models.QuizSession{}).Error; err != nil {
			return err
		}
		return tx.Where("assignment_id = ?", id).Delete(&models.Response{}).Error
	})
}
