package repository

import (
	"lxp_backend/internal/model"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AttendanceRepository struct {
	DB *gorm.DB
}

func NewAttendanceRepository(db *gorm.DB) *AttendanceRepository {
	return &AttendanceRepository{DB: db}
}

// Upsert 同一学生同一天重复登记时覆盖状态和备注
func (r *AttendanceRepository) Upsert(a *model.Attendance) error {
	return r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "student_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"status", "notes", "updated_at"}),
	}).Create(a).Error
}

func (r *AttendanceRepository) FindByStudentDate(studentID uint, date time.Time) (*model.Attendance, error) {
	var a model.Attendance
	err := r.DB.Where("student_id = ? AND date = ?", studentID, datatypes.Date(date)).First(&a).Error
	return &a, err
}

// List studentID 为 0、dateFrom 为 nil 时不过滤
func (r *AttendanceRepository) List(studentID uint, dateFrom *time.Time, page, limit int) ([]model.Attendance, int64, error) {
	var list []model.Attendance
	var total int64
	query := r.DB.Model(&model.Attendance{})
	if studentID > 0 {
		query = query.Where("student_id = ?", studentID)
	}
	if dateFrom != nil {
		query = query.Where("date >= ?", datatypes.Date(*dateFrom))
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	err := query.Order("date desc, id desc").Offset(offset).Limit(limit).Find(&list).Error
	return list, total, err
}
