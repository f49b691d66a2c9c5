package repository

import (
	"lxp_backend/internal/model"

	"gorm.io/gorm"
)

type AssessmentRepository struct {
	DB *gorm.DB
}

func NewAssessmentRepository(db *gorm.DB) *AssessmentRepository {
	return &AssessmentRepository{DB: db}
}

func (r *AssessmentRepository) Create(a *model.Assessment) error {
	return r.DB.Omit("Subject").Create(a).Error
}

func (r *AssessmentRepository) FindByID(id uint) (*model.Assessment, error) {
	var a model.Assessment
	err := r.DB.Preload("Subject").First(&a, id).Error
	return &a, err
}

func (r *AssessmentRepository) List(subjectID uint, page, limit int) ([]model.Assessment, int64, error) {
	var list []model.Assessment
	var total int64
	query := r.DB.Model(&model.Assessment{})
	if subjectID > 0 {
		query = query.Where("subject_id = ?", subjectID)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	err := query.Order("id asc").Offset(offset).Limit(limit).Find(&list).Error
	return list, total, err
}

// CreateResult 结果一经写入不再修改
func (r *AssessmentRepository) CreateResult(result *model.AssessmentResult) error {
	return r.DB.Omit("Assessment").Create(result).Error
}

func (r *AssessmentRepository) FindResultByID(id uint) (*model.AssessmentResult, error) {
	var res model.AssessmentResult
	err := r.DB.Preload("Assessment").First(&res, id).Error
	return &res, err
}

func (r *AssessmentRepository) ListResultsByStudent(studentID uint, page, limit int) ([]model.AssessmentResult, int64, error) {
	var list []model.AssessmentResult
	var total int64
	query := r.DB.Model(&model.AssessmentResult{}).Where("student_id = ?", studentID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	err := query.Preload("Assessment").Order("submitted_at desc, id desc").Offset(offset).Limit(limit).Find(&list).Error
	return list, total, err
}

// ListRecentResults studentID 为 0 时返回全部学生
func (r *AssessmentRepository) ListRecentResults(studentID uint, limit int) ([]model.AssessmentResult, error) {
	var list []model.AssessmentResult
	query := r.DB.Preload("Assessment")
	if studentID > 0 {
		query = query.Where("student_id = ?", studentID)
	}
	err := query.Order("submitted_at desc, id desc").Limit(limit).Find(&list).Error
	return list, err
}

func (r *AssessmentRepository) CountResultsByStudent(studentID uint) (int64, error) {
	var n int64
	err := r.DB.Model(&model.AssessmentResult{}).Where("student_id = ?", studentID).Count(&n).Error
	return n, err
}
