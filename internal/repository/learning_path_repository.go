package repository

import (
	"lxp_backend/internal/model"

	"gorm.io/gorm"
)

type LearningPathRepository struct {
	DB *gorm.DB
}

func NewLearningPathRepository(db *gorm.DB) *LearningPathRepository {
	return &LearningPathRepository{DB: db}
}

func (r *LearningPathRepository) WithTx(tx *gorm.DB) *LearningPathRepository {
	return &LearningPathRepository{DB: tx}
}

func (r *LearningPathRepository) Create(path *model.LearningPath) error {
	// 关联的 Assignments 由 CreateAssignments 显式写入
	return r.DB.Omit("Assignments").Create(path).Error
}

func (r *LearningPathRepository) CreateAssignments(assignments []model.ContentAssignment) error {
	if len(assignments) == 0 {
		return nil
	}
	return r.DB.Omit("Content").Create(&assignments).Error
}

func orderedAssignments(db *gorm.DB) *gorm.DB {
	return db.Order("sort_order asc, id asc")
}

func (r *LearningPathRepository) FindByID(id uint) (*model.LearningPath, error) {
	var p model.LearningPath
	err := r.DB.
		Preload("Subject").
		Preload("Assignments", orderedAssignments).
		Preload("Assignments.Content").
		First(&p, id).Error
	return &p, err
}

func (r *LearningPathRepository) ListByStudent(studentID uint, activeOnly bool) ([]model.LearningPath, error) {
	var paths []model.LearningPath
	query := r.DB.Preload("Subject").Where("student_id = ?", studentID)
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	err := query.Order("created_at desc, id desc").Find(&paths).Error
	return paths, err
}

// List studentID、subjectID 为 0 时不过滤
func (r *LearningPathRepository) List(studentID, subjectID uint, page, limit int) ([]model.LearningPath, int64, error) {
	var paths []model.LearningPath
	var total int64
	query := r.DB.Model(&model.LearningPath{})
	if studentID > 0 {
		query = query.Where("student_id = ?", studentID)
	}
	if subjectID > 0 {
		query = query.Where("subject_id = ?", subjectID)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	err := query.Preload("Subject").Order("created_at desc, id desc").Offset(offset).Limit(limit).Find(&paths).Error
	return paths, total, err
}

func (r *LearningPathRepository) CountAssignments(pathID uint) (int64, error) {
	var n int64
	err := r.DB.Model(&model.ContentAssignment{}).Where("learning_path_id = ?", pathID).Count(&n).Error
	return n, err
}

func (r *LearningPathRepository) FindAssignment(pathID, contentID uint) (*model.ContentAssignment, error) {
	var a model.ContentAssignment
	err := r.DB.Where("learning_path_id = ? AND content_id = ?", pathID, contentID).First(&a).Error
	return &a, err
}
