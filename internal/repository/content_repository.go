package repository

import (
	"lxp_backend/internal/model"

	"gorm.io/gorm"
)

type ContentRepository struct {
	DB *gorm.DB
}

func NewContentRepository(db *gorm.DB) *ContentRepository {
	return &ContentRepository{DB: db}
}

func (r *ContentRepository) CreateSubject(subject *model.Subject) error {
	return r.DB.Create(subject).Error
}

func (r *ContentRepository) FindSubjectByID(id uint) (*model.Subject, error) {
	var s model.Subject
	err := r.DB.First(&s, id).Error
	return &s, err
}

func (r *ContentRepository) ListSubjects() ([]model.Subject, error) {
	var subjects []model.Subject
	err := r.DB.Order("name asc").Find(&subjects).Error
	return subjects, err
}

func (r *ContentRepository) Create(content *model.Content) error {
	return r.DB.Create(content).Error
}

func (r *ContentRepository) FindByID(id uint) (*model.Content, error) {
	var c model.Content
	err := r.DB.Preload("Subject").First(&c, id).Error
	return &c, err
}

// FindByIDs 按传入顺序返回内容，不存在的 ID 会被跳过
func (r *ContentRepository) FindByIDs(ids []uint) ([]model.Content, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var found []model.Content
	if err := r.DB.Where("id IN ?", ids).Find(&found).Error; err != nil {
		return nil, err
	}
	byID := make(map[uint]model.Content, len(found))
	for _, c := range found {
		byID[c.ID] = c
	}
	ordered := make([]model.Content, 0, len(found))
	for _, id := range ids {
		if c, ok := byID[id]; ok {
			ordered = append(ordered, c)
		}
	}
	return ordered, nil
}

func (r *ContentRepository) List(subjectID uint, difficulty, contentType string, page, limit int) ([]model.Content, int64, error) {
	var contents []model.Content
	var total int64
	query := r.DB.Model(&model.Content{})
	if subjectID > 0 {
		query = query.Where("subject_id = ?", subjectID)
	}
	if difficulty != "" {
		query = query.Where("difficulty_level = ?", difficulty)
	}
	if contentType != "" {
		query = query.Where("content_type = ?", contentType)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	err := query.Order("subject_id asc, id asc").Offset(offset).Limit(limit).Find(&contents).Error
	return contents, total, err
}

// ListForPath 学习路径创建时挑选内容：同学科同难度，按 ID 升序
func (r *ContentRepository) ListForPath(subjectID uint, difficulty string, limit int) ([]model.Content, error) {
	var contents []model.Content
	err := r.DB.Where("subject_id = ? AND difficulty_level = ?", subjectID, difficulty).
		Order("id asc").Limit(limit).Find(&contents).Error
	return contents, err
}

func (r *ContentRepository) Update(content *model.Content) error {
	return r.DB.Save(content).Error
}
