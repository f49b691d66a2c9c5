package service

import (
	"errors"
	"fmt"
	"lxp_backend/internal/model"
	"lxp_backend/internal/repository"
	"lxp_backend/internal/util"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

type AttendanceService struct {
	Repo        *repository.AttendanceRepository
	StudentRepo *repository.StudentRepository
}

func NewAttendanceService(repo *repository.AttendanceRepository, studentRepo *repository.StudentRepository) *AttendanceService {
	return &AttendanceService{Repo: repo, StudentRepo: studentRepo}
}

type RecordAttendanceRequest struct {
	StudentID uint                   `json:"studentId" binding:"required"`
	Date      string                 `json:"date" binding:"required" example:"2024-09-01"`
	Status    model.AttendanceStatus `json:"status" binding:"required"`
	Notes     string                 `json:"notes"`
}

func parseDate(name, v string) (time.Time, error) {
	d, err := time.Parse(dateLayout, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s must be YYYY-MM-DD", util.ErrValidation, name)
	}
	return d, nil
}

// Record 登记出勤，同一天再次登记视为更正
func (s *AttendanceService) Record(req RecordAttendanceRequest) (*model.Attendance, error) {
	if !req.Status.IsValid() {
		return nil, fmt.Errorf("%w: unknown attendance status %q", util.ErrValidation, req.Status)
	}
	date, err := parseDate("date", req.Date)
	if err != nil {
		return nil, err
	}
	if _, err := s.StudentRepo.FindByID(req.StudentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrStudentNotFound
		}
		return nil, err
	}

	a := &model.Attendance{
		StudentID: req.StudentID,
		Date:      datatypes.Date(date),
		Status:    req.Status,
		Notes:     req.Notes,
	}
	if err := s.Repo.Upsert(a); err != nil {
		return nil, err
	}
	return s.Repo.FindByStudentDate(req.StudentID, date)
}

// List dateFrom 为空时不限日期
func (s *AttendanceService) List(studentID uint, dateFrom string, page, limit int) ([]model.Attendance, int64, error) {
	var from *time.Time
	if dateFrom != "" {
		d, err := parseDate("dateFrom", dateFrom)
		if err != nil {
			return nil, 0, err
		}
		from = &d
	}
	return s.Repo.List(studentID, from, page, limit)
}
