package model

import "time"

type ProgressStatus string

const (
	ProgressNotStarted  ProgressStatus = "not_started"
	ProgressInProgress  ProgressStatus = "in_progress"
	ProgressCompleted   ProgressStatus = "completed"
	ProgressNeedsReview ProgressStatus = "needs_review"
)

func (s ProgressStatus) IsValid() bool {
	switch s {
	case ProgressNotStarted, ProgressInProgress, ProgressCompleted, ProgressNeedsReview:
		return true
	}
	return false
}

// Progress 每个 (student, learning_path, content) 三元组唯一一条。
// 不变式：status == completed <=> completed_at 非空 <=> completion_percentage == 100
// swagger:model Progress
type Progress struct {
	BaseModel
	StudentID            uint           `gorm:"uniqueIndex:idx_progress_triple;not null" json:"studentId"`
	LearningPathID       uint           `gorm:"uniqueIndex:idx_progress_triple;not null" json:"learningPathId"`
	ContentID            uint           `gorm:"uniqueIndex:idx_progress_triple;not null" json:"contentId"`
	Content              *Content       `gorm:"foreignKey:ContentID" json:"content,omitempty"`
	Status               ProgressStatus `gorm:"size:20;not null;index" json:"status"`
	CompletionPercentage float64        `json:"completionPercentage"`
	TimeSpentMinutes     int            `json:"timeSpentMinutes"`
	StartedAt            *time.Time     `json:"startedAt,omitempty"`
	CompletedAt          *time.Time     `json:"completedAt,omitempty"`
	MasteryLevel         float64        `json:"masteryLevel"`
	Score                *float64       `json:"score,omitempty"`
	Notes                string         `gorm:"type:text" json:"notes"`
}

func (Progress) TableName() string {
	return "progress"
}
