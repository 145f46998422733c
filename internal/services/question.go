package services

import (
	"errors"
	"fmt"
	"log"

	"github.com/Abiraj-Jatheeskumar/Questify-backend/internal/models"

	"gorm.io/gorm"
)

type QuestionService struct {
	db *gorm.DB
}

func NewQuestionService(db *gorm.DB) *QuestionService {
	return &QuestionService{db: db}
}

type QuestionInput struct {
	Text          string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer *int     `json:"correct_answer"`
	Subject       *string  `json:"subject"`
	ImageURL      *string  `json:"image_url"`
	ClassIDs      []uint   `json:"class_ids"`
}

func (s *QuestionService) Create(in QuestionInput) (*models.Question, error) {
	if in.Text == "" || in.CorrectAnswer == nil {
		return nil, fmt.Errorf("%w: question text and correct answer are required", ErrValidation)
	}
	if len(in.Options) != models.NumOptions {
		return nil, fmt.Errorf("%w: question must have exactly %d options", ErrValidation, models.NumOptions)
	}
	if *in.CorrectAnswer < 0 || *in.CorrectAnswer >= models.NumOptions {
		return nil, fmt.Errorf("%w: correct answer must be between 0 and %d", ErrValidation, models.NumOptions-1)
	}

	question := models.Question{
		Text:          in.Text,
		Options:       in.Options,
		CorrectAnswer: *in.CorrectAnswer,
	}
	if in.Subject != nil {
		question.Subject = *in.Subject
	}
	if in.ImageURL != nil {
		question.ImageURL = *in.ImageURL
	}
	if err := s.db.Create(&question).Error; err != nil {
		return nil, err
	}
	if len(in.ClassIDs) > 0 {
		if err := s.replaceClasses(&question, in.ClassIDs); err != nil {
			return nil, err
		}
	}
	return &question, nil
}

func (s *QuestionService) Get(id uint) (*models.Question, error) {
	var question models.Question
	if err := s.db.Preload("Classes").First(&question, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: question %d", ErrNotFound, id)
		}
		return nil, err
	}
	return &question, nil
}

func (s *QuestionService) List() ([]models.Question, error) {
	var questions []models.Question
	if err := s.db.Preload("Classes").Order("created_at DESC").Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

// Update edits a question. When the correct answer changes, every stored
// response for the question is re-scored in bulk; a sweep failure is
// logged and the edit still stands, since the question change is the
// authoritative request and the ledger is reconciled derived data.
func (s *QuestionService) Update(id uint, in QuestionInput) (*models.Question, error) {
	var question models.Question
	if err := s.db.First(&question, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: question %d", ErrNotFound, id)
		}
		return nil, err
	}

	answerChanged := false

	if in.Text != "" {
		question.Text = in.Text
	}
	if in.Options != nil {
		if len(in.Options) != models.NumOptions {
			return nil, fmt.Errorf("%w: question must have exactly %d options", ErrValidation, models.NumOptions)
		}
		question.Options = in.Options
	}
	if in.CorrectAnswer != nil {
		if *in.CorrectAnswer < 0 || *in.CorrectAnswer >= models.NumOptions {
			return nil, fmt.Errorf("%w: correct answer must be between 0 and %d", ErrValidation, models.NumOptions-1)
		}
		if question.CorrectAnswer != *in.CorrectAnswer {
			answerChanged = true
		}
		question.CorrectAnswer = *in.CorrectAnswer
	}
	if in.Subject != nil {
		question.Subject = *in.Subject
	}
	if in.ImageURL != nil {
		question.ImageURL = *in.ImageURL
	}

	if err := s.db.Save(&question).Error; err != nil {
		return nil, err
	}
	if in.ClassIDs != nil {
		if err := s.replaceClasses(&question, in.ClassIDs); err != nil {
			return nil, err
		}
	}

	if answerChanged {
		if _, _, err := s.Resweep(question.ID, question.CorrectAnswer); err != nil {
			log.Printf("re-scoring sweep failed for question %d: %v", question.ID, err)
		}
	}

	return s.Get(question.ID)
}

// Resweep re-evaluates stored correctness after an answer-key change.
// Two bulk conditional updates touch only the rows whose correctness
// actually flips, which also makes the sweep idempotent.
func (s *QuestionService) Resweep(questionID uint, correctAnswer int) (toCorrect, toIncorrect int64, err error) {
	res := s.db.Model(&models.Response{}).
		Where("question_id = ? AND selected_answer = ? AND is_correct = ?", questionID, correctAnswer, false).
		Update("is_correct", true)
	if res.Error != nil {
		return 0, 0, res.Error
	}
	toCorrect = res.RowsAffected

	res = s.db.Model(&models.Response{}).
		Where("question_id = ? AND selected_answer <> ? AND is_correct = ?", questionID, correctAnswer, true).
		Update("is_correct", false)
	if res.Error != nil {
		return toCorrect, 0, res.Error
	}
	toIncorrect = res.RowsAffected

	log.Printf("re-evaluated %d responses for question %d (%d now correct, %d now incorrect)",
		toCorrect+toIncorrect, questionID, toCorrect, toIncorrect)
	return toCorrect, toIncorrect, nil
}

// Delete removes a question, its ledger rows, and its membership in any
// assignment question list.
func (s *QuestionService) Delete(id uint) error {
	var question models.Question
	if err := s.db.First(&question, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: question %d", ErrNotFound, id)
		}
		return err
	}

	if err := s.db.Where("question_id = ?", id).Delete(&models.Response{}).Error; err != nil {
		return err
	}

	var assignments []models.Assignment
	if err := s.db.Find(&assignments).Error; err != nil {
		return err
	}
	for _, a := range assignments {
		kept := a.QuestionIDs[:0]
		removed := false
		for _, qid := range a.QuestionIDs {
			if qid == id {
				removed = true
				continue
			}
			kept = append(kept, qid)
		}
		if removed {
			if err := s.db.Model(&models.Assignment{}).Where("id = ?", a.ID).
				Update("question_ids", kept).Error; err != nil {
				return err
			}
		}
	}

	return s.db.Delete(&models.Question{}, id).Error
}

func (s *QuestionService) replaceClasses(question *models.Question, classIDs []uint) error {
	classes := make([]models.Class, len(classIDs))
	for i, cid := range classIDs {
		classes[i] = models.Class{ID: cid}
	}
	return s.db.Model(question).Association("Classes").Replace(classes)
}
