package model

import (
	"time"

	"gorm.io/datatypes"
)

const (
	SessionGuidance   = "guidance"
	SessionHelp       = "help"
	SessionAssessment = "assessment"
	SessionFeedback   = "feedback"
)

func IsValidSessionType(t string) bool {
	switch t {
	case SessionGuidance, SessionHelp, SessionAssessment, SessionFeedback:
		return true
	}
	return false
}

// AIMentorSession AI 导师对话记录，只追加；仅 helpful/rating 可事后更新
// swagger:model AIMentorSession
type AIMentorSession struct {
	ID             uint                             `gorm:"primaryKey;autoIncrement" json:"id"`
	StudentID      uint                             `gorm:"index;not null" json:"studentId"`
	LearningPathID *uint                            `gorm:"index" json:"learningPathId,omitempty"`
	SessionType    string                           `gorm:"size:20;not null" json:"sessionType"`
	Query          string                           `gorm:"type:text;not null" json:"query"`
	Response       string                           `gorm:"type:text;not null" json:"response"`
	Outcome        string                           `gorm:"size:30" json:"outcome"`
	ContextData    datatypes.JSONType[MentorContext] `json:"contextData"`
	Helpful        *bool                            `json:"helpful,omitempty"`
	Rating         *int                             `json:"rating,omitempty"`
	CreatedAt      time.Time                        `gorm:"index" json:"createdAt"`
}

func (AIMentorSession) TableName() string {
	return "ai_mentor_sessions"
}

// MentorContext 学习上下文快照，纯数据
type MentorContext struct {
	StudentGrade     int            `json:"student_grade"`
	StudentName      string         `json:"student_name"`
	Subject          string         `json:"subject,omitempty"`
	Difficulty       string         `json:"difficulty,omitempty"`
	PathSummary      string         `json:"path_summary_sentence,omitempty"`
	ProgressStats    *ProgressStats `json:"progress_stats,omitempty"`
	StrugglingTopics []string       `json:"struggling_topics"`
	StrongTopics     []string       `json:"strong_topics"`
	CurrentContent   string         `json:"current_content,omitempty"`
	ContentType      string         `json:"content_type,omitempty"`
	ContentSummary   string         `json:"current_content_sentence,omitempty"`
}

type ProgressStats struct {
	CompletedCount  int     `json:"completed_count"`
	InProgressCount int     `json:"in_progress_count"`
	AverageMastery  float64 `json:"average_mastery"`
	// RecordCount 为 0 时不生成进度描述
	RecordCount int `json:"record_count"`
}
