package model

import "gorm.io/datatypes"

const (
	ContentTypeLesson   = "lesson"
	ContentTypeVideo    = "video"
	ContentTypeReading  = "reading"
	ContentTypeExercise = "exercise"
	ContentTypeQuiz     = "quiz"
	ContentTypeProject  = "project"
)

func IsValidContentType(t string) bool {
	switch t {
	case ContentTypeLesson, ContentTypeVideo, ContentTypeReading,
		ContentTypeExercise, ContentTypeQuiz, ContentTypeProject:
		return true
	}
	return false
}

// Subject 学科，所有学生共享
// swagger:model Subject
type Subject struct {
	BaseModel
	Name        string `gorm:"size:100;not null" json:"name"`
	Code        string `gorm:"size:20;uniqueIndex;not null" json:"code"`
	Description string `gorm:"type:text" json:"description"`
	GradeLevel  int    `json:"gradeLevel"`
}

func (Subject) TableName() string {
	return "subjects"
}

// Content 共享的学习内容，不属于任何一条学习路径
// swagger:model Content
type Content struct {
	BaseModel
	SubjectID                uint                                 `gorm:"index;not null" json:"subjectId"`
	Subject                  *Subject                             `gorm:"foreignKey:SubjectID" json:"subject,omitempty"`
	Title                    string                               `gorm:"size:200;not null" json:"title"`
	ContentType              string                               `gorm:"size:20;not null" json:"contentType"`
	Description              string                               `gorm:"type:text" json:"description"`
	ContentBody              string                               `gorm:"type:text" json:"contentBody"`
	DifficultyLevel          string                               `gorm:"size:20;not null" json:"difficultyLevel"`
	EstimatedDurationMinutes int                                  `json:"estimatedDurationMinutes"`
	ExternalURL              *string                              `gorm:"size:500" json:"externalUrl,omitempty"`
	FileAttachments          datatypes.JSONSlice[ContentAttachment] `json:"fileAttachments"`
}

func (Content) TableName() string {
	return "contents"
}

type ContentAttachment struct {
	Name            string  `json:"name"`
	URL             string  `json:"url"`
	MimeType        string  `json:"mimeType"`
	Size            int64   `json:"size"`
	DurationSeconds float64 `json:"durationSeconds,omitempty"`
}
