package repository

import (
	"lxp_backend/internal/model"

	"gorm.io/gorm"
)

type MentorSessionRepository struct {
	DB *gorm.DB
}

func NewMentorSessionRepository(db *gorm.DB) *MentorSessionRepository {
	return &MentorSessionRepository{DB: db}
}

func (r *MentorSessionRepository) Create(s *model.AIMentorSession) error {
	return r.DB.Create(s).Error
}

func (r *MentorSessionRepository) FindByID(id uint) (*model.AIMentorSession, error) {
	var s model.AIMentorSession
	err := r.DB.First(&s, id).Error
	return &s, err
}

func (r *MentorSessionRepository) ListByStudent(studentID uint, page, limit int) ([]model.AIMentorSession, int64, error) {
	var list []model.AIMentorSession
	var total int64
	query := r.DB.Model(&model.AIMentorSession{}).Where("student_id = ?", studentID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	err := query.Order("created_at desc, id desc").Offset(offset).Limit(limit).Find(&list).Error
	return list, total, err
}

// UpdateFeedback 会话只追加，唯一允许修改的是评价字段
func (r *MentorSessionRepository) UpdateFeedback(id uint, helpful *bool, rating *int) error {
	updates := map[string]interface{}{}
	if helpful != nil {
		updates["helpful"] = *helpful
	}
	if rating != nil {
		updates["rating"] = *rating
	}
	if len(updates) == 0 {
		return nil
	}
	return r.DB.Model(&model.AIMentorSession{}).Where("id = ?", id).Updates(updates).Error
}
