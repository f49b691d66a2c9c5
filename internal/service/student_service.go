package service

import (
	"errors"
	"fmt"
	"lxp_backend/internal/model"
	"lxp_backend/internal/repository"
	"lxp_backend/internal/util"
	"net/mail"
	"strings"
	"time"

	"gorm.io/gorm"
)

type StudentService struct {
	Repo *repository.StudentRepository
}

func NewStudentService(repo *repository.StudentRepository) *StudentService {
	return &StudentService{Repo: repo}
}

type CreateStudentRequest struct {
	FirstName      string     `json:"firstName" binding:"required"`
	LastName       string     `json:"lastName" binding:"required"`
	Email          string     `json:"email" binding:"required"`
	DateOfBirth    *time.Time `json:"dateOfBirth"`
	Gender         string     `json:"gender"`
	GradeLevel     int        `json:"gradeLevel" binding:"required"`
	EnrollmentDate *time.Time `json:"enrollmentDate"`
	PhoneNumber    *string    `json:"phoneNumber"`
	Address        *string    `json:"address"`
}

func (req *CreateStudentRequest) validate() error {
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.FirstName == "" || req.LastName == "" {
		return fmt.Errorf("%w: first and last name are required", util.ErrValidation)
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return fmt.Errorf("%w: invalid email %q", util.ErrValidation, req.Email)
	}
	if req.GradeLevel < model.MinGradeLevel || req.GradeLevel > model.MaxGradeLevel {
		return fmt.Errorf("%w: gradeLevel must be between %d and %d", util.ErrValidation, model.MinGradeLevel, model.MaxGradeLevel)
	}
	switch req.Gender {
	case "", "M", "F", "O", "N":
	default:
		return fmt.Errorf("%w: unknown gender %q", util.ErrValidation, req.Gender)
	}
	return nil
}

func (s *StudentService) Create(req CreateStudentRequest) (*model.Student, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	if _, err := s.Repo.FindByEmail(req.Email); err == nil {
		return nil, fmt.Errorf("%w: email %s already registered", util.ErrValidation, req.Email)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	enrolled := time.Now()
	if req.EnrollmentDate != nil {
		enrolled = *req.EnrollmentDate
	}
	student := &model.Student{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          req.Email,
		DateOfBirth:    req.DateOfBirth,
		Gender:         req.Gender,
		GradeLevel:     req.GradeLevel,
		EnrollmentDate: enrolled,
		IsActive:       true,
		PhoneNumber:    req.PhoneNumber,
		Address:        req.Address,
	}
	if err := s.Repo.Create(student); err != nil {
		return nil, err
	}
	return student, nil
}

func (s *StudentService) Get(id uint) (*model.Student, error) {
	st, err := s.Repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrStudentNotFound
		}
		return nil, err
	}
	return st, nil
}

func (s *StudentService) List(gradeLevel int, activeOnly bool, page, limit int) ([]model.Student, int64, error) {
	return s.Repo.List(gradeLevel, activeOnly, page, limit)
}

func (s *StudentService) SetActive(id uint, active bool) (*model.Student, error) {
	if _, err := s.Get(id); err != nil {
		return nil, err
	}
	if err := s.Repo.UpdateActive(id, active); err != nil {
		return nil, err
	}
	return s.Get(id)
}
