package repository

import (
	"lxp_backend/internal/model"

	"gorm.io/gorm"
)

type StudentRepository struct {
	DB *gorm.DB
}

func NewStudentRepository(db *gorm.DB) *StudentRepository {
	return &StudentRepository{DB: db}
}

func (r *StudentRepository) Create(student *model.Student) error {
	return r.DB.Create(student).Error
}

func (r *StudentRepository) FindByID(id uint) (*model.Student, error) {
	var s model.Student
	err := r.DB.First(&s, id).Error
	return &s, err
}

func (r *StudentRepository) FindByEmail(email string) (*model.Student, error) {
	var s model.Student
	err := r.DB.Where("email = ?", email).First(&s).Error
	return &s, err
}

func (r *StudentRepository) List(gradeLevel int, activeOnly bool, page, limit int) ([]model.Student, int64, error) {
	var students []model.Student
	var total int64
	query := r.DB.Model(&model.Student{})
	if gradeLevel > 0 {
		query = query.Where("grade_level = ?", gradeLevel)
	}
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	err := query.Order("last_name asc, first_name asc, id asc").Offset(offset).Limit(limit).Find(&students).Error
	return students, total, err
}

// UpdateActive 学生创建后只允许修改在读状态
func (r *StudentRepository) UpdateActive(id uint, active bool) error {
	return r.DB.Model(&model.Student{}).Where("id = ?", id).Update("is_active", active).Error
}

func (r *StudentRepository) FindEducatorByID(id uint) (*model.Educator, error) {
	var e model.Educator
	err := r.DB.First(&e, id).Error
	return &e, err
}
