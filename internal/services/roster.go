package services

import (
	"errors"
	"fmt"

	"github.com/Abiraj-Jatheeskumar/Questify-backend/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// RosterService is the thin student/class catalog the core consults for
// enrollment. CRUD only; all quiz semantics live in the other services.
type RosterService struct {
	db *gorm.DB
}

func NewRosterService(db *gorm.DB) *RosterService {
	return &RosterService{db: db}
}

type StudentInput struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	AdmissionNo string `json:"admission_no"`
	ClassIDs    []uint `json:"class_ids"`
}

func (s *RosterService) CreateStudent(in StudentInput) (*models.User, error) {
	if in.Name == "" || in.Email == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: name, email and password are required", ErrValidation)
	}

	var existing models.User
	if err := s.db.Where("email = ?", in.Email).First(&existing).Error; err == nil {
		return nil, fmt.Errorf("%w: email already registered", ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	student := models.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         models.RoleStudent,
		AdmissionNo:  in.AdmissionNo,
	}
	if err := s.db.Create(&student).Error; err != nil {
		return nil, err
	}
	if len(in.ClassIDs) > 0 {
		if err := s.setClasses(&student, in.ClassIDs); err != nil {
			return nil, err
		}
	}
	return s.GetStudent(student.ID)
}

func (s *RosterService) GetStudent(id uint) (*models.User, error) {
	var student models.User
	if err := s.db.Preload("Classes").Where("role = ?", models.RoleStudent).
		First(&student, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: student %d", ErrNotFound, id)
		}
		return nil, err
	}
	return &student, nil
}

func (s *RosterService) ListStudents() ([]models.User, error) {
	var students []models.User
	if err := s.db.Preload("Classes").Where("role = ?", models.RoleStudent).
		Order("name ASC").Find(&students).Error; err != nil {
		return nil, err
	}
	return students, nil
}

func (s *RosterService) UpdateStudent(id uint, in StudentInput) (*models.User, error) {
	student, err := s.GetStudent(id)
	if err != nil {
		return nil, err
	}

	if in.Name != "" {
		student.Name = in.Name
	}
	if in.Email != "" {
		student.Email = in.Email
	}
	if in.AdmissionNo != "" {
		student.AdmissionNo = in.AdmissionNo
	}
	if in.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		student.PasswordHash = string(hash)
	}
	if err := s.db.Save(student).Error; err != nil {
		return nil, err
	}
	if in.ClassIDs != nil {
		if err := s.setClasses(student, in.ClassIDs); err != nil {
			return nil, err
		}
	}
	return s.GetStudent(id)
}

// DeleteStudent removes a student and cascades their sessions and
// ledger rows.
func (s *RosterService) DeleteStudent(id uint) error {
	student, err := s.GetStudent(id)
	if err != nil {
		return err
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("student_id = ?", id).Delete(&models.Response{}).Error; err != nil {
			return err
		}
		if err := tx.Where("student_id = ?", id).Delete(&models.QuizSession{}).Error; err != nil {
			return err
		}
		if err := tx.Model(student).Association("Classes").Clear(); err != nil {
			return err
		}
		return tx.Delete(&models.User{}, id).Error
	})
}

// ClassIDsOf returns the classes a student is enrolled in, for explicit
// enrollment-set passing into the core operations.
func (s *RosterService) ClassIDsOf(studentID uint) ([]uint, error) {
	var ids []uint
	err := s.db.Table("class_students").
		Where("user_id = ?", studentID).
		Pluck("class_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (s *RosterService) CreateClass(name string) (*models.Class, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: class name is required", ErrValidation)
	}
	class := models.Class{Name: name}
	if err := s.db.Create(&class).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: class name already exists", ErrValidation)
		}
		return nil, err
	}
	return &class, nil
}

func (s *RosterService) GetClass(id uint) (*models.Class, error) {
	var class models.Class
	if err := s.db.Preload("Students").First(&class, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: class %d", ErrNotFound, id)
		}
		return nil, err
	}
	return &class, nil
}

func (s *RosterService) ListClasses() ([]models.Class, error) {
	var classes []models.Class
	if err := s.db.Preload("Students").Order("name ASC").Find(&classes).Error; err != nil {
		return nil, err
	}
	return classes, nil
}

// DeleteClass removes a class and cascades its assignments, sessions and
// responses.
func (s *RosterService) DeleteClass(id uint) error {
	class, err := s.GetClass(id)
	if err != nil {
		return err
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		var assignmentIDs []uint
		if err := tx.Model(&models.Assignment{}).Where("class_id = ?", id).
			Pluck("id", &assignmentIDs).Error; err != nil {
			return err
		}
		if len(assignmentIDs) > 0 {
			if err := tx.Where("assignment_id IN ?", assignmentIDs).Delete(&models.QuizSession{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("class_id = ?", id).Delete(&models.Response{}).Error; err != nil {
			return err
		}
		if err := tx.Where("class_id = ?", id).Delete(&models.Assignment{}).Error; err != nil {
			return err
		}
		if err := tx.Model(class).Association("Students").Clear(); err != nil {
			return err
		}
		return tx.Delete(&models.Class{}, id).Error
	})
}

// RemoveStudentFromClass drops one enrollment without deleting history.
func (s *RosterService) RemoveStudentFromClass(classID, studentID uint) error {
	class, err := s.GetClass(classID)
	if err != nil {
		return err
	}
	return s.db.Model(class).Association("Students").Delete(&models.User{ID: studentID})
}

func (s *RosterService) setClasses(student *models.User, classIDs []uint) error {
	classes := make([]models.Class, len(classIDs))
	for i, cid := range classIDs {
		classes[i] = models.Class{ID: cid}
	}
	return s.db.Model(student).Association("Classes").Replace(classes)
}
