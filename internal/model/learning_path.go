package model

import (
	"time"

	"gorm.io/datatypes"
)

// LearningPath 学生专属的学习路径，完成度不落库，每次读取时由进度记录推导
// swagger:model LearningPath
type LearningPath struct {
	BaseModel
	StudentID            uint                                     `gorm:"index;not null" json:"studentId"`
	Student              *Student                                 `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	SubjectID            uint                                     `gorm:"index;not null" json:"subjectId"`
	Subject              *Subject                                 `gorm:"foreignKey:SubjectID" json:"subject,omitempty"`
	Title                string                                   `gorm:"size:200;not null" json:"title"`
	Description          string                                   `gorm:"type:text" json:"description"`
	DifficultyLevel      string                                   `gorm:"size:20;not null" json:"difficultyLevel"`
	PersonalizedGoals    datatypes.JSONSlice[string]              `json:"personalizedGoals"`
	RecommendedResources datatypes.JSONSlice[RecommendedResource] `json:"recommendedResources"`
	StartDate            time.Time                                `json:"startDate"`
	TargetCompletionDate time.Time                                `json:"targetCompletionDate"`
	IsActive             bool                                     `gorm:"not null" json:"isActive"`
	Assignments          []ContentAssignment                      `gorm:"foreignKey:LearningPathID" json:"assignments,omitempty"`
}

func (LearningPath) TableName() string {
	return "learning_paths"
}

type RecommendedResource struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	Type  string `json:"type"`
}

// ContentAssignment 路径与内容的有序关联，(learning_path_id, content_id) 唯一
// swagger:model ContentAssignment
type ContentAssignment struct {
	ID                      uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	LearningPathID          uint       `gorm:"uniqueIndex:idx_assignment_path_content;not null" json:"learningPathId"`
	ContentID               uint       `gorm:"uniqueIndex:idx_assignment_path_content;not null" json:"contentId"`
	Content                 *Content   `gorm:"foreignKey:ContentID" json:"content,omitempty"`
	Order                   int        `gorm:"column:sort_order;not null" json:"order"`
	IsRequired              bool       `gorm:"not null" json:"isRequired"`
	EstimatedCompletionDate *time.Time `json:"estimatedCompletionDate,omitempty"`
	CreatedAt               time.Time  `json:"createdAt"`
}

func (ContentAssignment) TableName() string {
	return "content_assignments"
}
