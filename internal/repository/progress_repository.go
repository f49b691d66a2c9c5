package repository

import (
	"lxp_backend/internal/model"

	"gorm.io/gorm"
)

// ProgressRepository 进度记录存储，按 (student, learning_path, content) 唯一
type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

func (r *ProgressRepository) WithTx(tx *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: tx}
}

func (r *ProgressRepository) Create(p *model.Progress) error {
	return r.DB.Omit("Content").Create(p).Error
}

func (r *ProgressRepository) CreateBatch(rows []model.Progress) error {
	if len(rows) == 0 {
		return nil
	}
	return r.DB.Omit("Content").Create(&rows).Error
}

func (r *ProgressRepository) FindByID(id uint) (*model.Progress, error) {
	var p model.Progress
	err := r.DB.First(&p, id).Error
	return &p, err
}

func (r *ProgressRepository) FindByTriple(studentID, pathID, contentID uint) (*model.Progress, error) {
	var p model.Progress
	err := r.DB.Where("student_id = ? AND learning_path_id = ? AND content_id = ?", studentID, pathID, contentID).
		First(&p).Error
	return &p, err
}

func (r *ProgressRepository) Save(p *model.Progress) error {
	return r.DB.Save(p).Error
}

// ListForPath 按路径中的内容顺序返回，顺序稳定
func (r *ProgressRepository) ListForPath(studentID, pathID uint) ([]model.Progress, error) {
	var rows []model.Progress
	err := r.DB.Model(&model.Progress{}).
		Joins("LEFT JOIN content_assignments ca ON ca.learning_path_id = progress.learning_path_id AND ca.content_id = progress.content_id").
		Where("progress.student_id = ? AND progress.learning_path_id = ?", studentID, pathID).
		Order("ca.sort_order asc, progress.id asc").
		Preload("Content").
		Find(&rows).Error
	return rows, err
}

func (r *ProgressRepository) List(studentID, pathID uint, status model.ProgressStatus, page, limit int) ([]model.Progress, int64, error) {
	var rows []model.Progress
	var total int64
	query := r.DB.Model(&model.Progress{})
	if studentID > 0 {
		query = query.Where("student_id = ?", studentID)
	}
	if pathID > 0 {
		query = query.Where("learning_path_id = ?", pathID)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	err := query.Preload("Content").Order("updated_at desc, id desc").Offset(offset).Limit(limit).Find(&rows).Error
	return rows, total, err
}

// CountCompleted 统计路径中 completed_at 已设置的记录数
func (r *ProgressRepository) CountCompleted(pathID uint) (int64, error) {
	var n int64
	err := r.DB.Model(&model.Progress{}).
		Where("learning_path_id = ? AND completed_at IS NOT NULL", pathID).
		Count(&n).Error
	return n, err
}

func (r *ProgressRepository) ListRecentByStudent(studentID uint, limit int) ([]model.Progress, error) {
	var rows []model.Progress
	err := r.DB.Preload("Content").Where("student_id = ?", studentID).
		Order("updated_at desc, id desc").Limit(limit).Find(&rows).Error
	return rows, err
}

func (r *ProgressRepository) ListByStatus(status model.ProgressStatus, limit int) ([]model.Progress, error) {
	var rows []model.Progress
	err := r.DB.Preload("Content").Where("status = ?", status).
		Order("updated_at desc, id desc").Limit(limit).Find(&rows).Error
	return rows, err
}

func (r *ProgressRepository) AverageMastery(studentID uint) (float64, error) {
	var avg *float64
	err := r.DB.Model(&model.Progress{}).
		Where("student_id = ?", studentID).
		Select("AVG(mastery_level)").
		Scan(&avg).Error
	if err != nil || avg == nil {
		return 0, err
	}
	return *avg, nil
}
