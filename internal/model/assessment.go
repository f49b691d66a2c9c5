package model

import (
	"bytes"
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

const (
	AssessmentTypeQuiz       = "quiz"
	AssessmentTypeTest       = "test"
	AssessmentTypeAssignment = "assignment"
	AssessmentTypeProject    = "project"
)

// Assessment 共享题库，可选关联某个内容，用于把成绩映射回进度
// swagger:model Assessment
type Assessment struct {
	BaseModel
	SubjectID        uint                                    `gorm:"index;not null" json:"subjectId"`
	Subject          *Subject                                `gorm:"foreignKey:SubjectID" json:"subject,omitempty"`
	ContentID        *uint                                   `gorm:"index" json:"contentId,omitempty"`
	Title            string                                  `gorm:"size:200;not null" json:"title"`
	AssessmentType   string                                  `gorm:"size:20;not null" json:"assessmentType"`
	Description      string                                  `gorm:"type:text" json:"description"`
	Questions        datatypes.JSONSlice[AssessmentQuestion] `json:"questions"`
	TotalPoints      int                                     `json:"totalPoints"`
	PassingScore     int                                     `json:"passingScore"`
	DifficultyLevel  string                                  `gorm:"size:20" json:"difficultyLevel"`
	TimeLimitMinutes *int                                    `json:"timeLimitMinutes,omitempty"`
}

func (Assessment) TableName() string {
	return "assessments"
}

// AssessmentQuestion 题目，CorrectAnswer 为空表示缺少答案（数据完整性问题，不计分）
type AssessmentQuestion struct {
	ID            QuestionKey `json:"id"`
	Question      string      `json:"question"`
	Options       []string    `json:"options,omitempty"`
	CorrectAnswer *string     `json:"correct_answer,omitempty"`
}

// QuestionKey 题目 ID，兼容 JSON 中的数字和字符串
type QuestionKey string

func (k *QuestionKey) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*k = QuestionKey(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*k = QuestionKey(n.String())
	return nil
}

// AssessmentResult 每次提交生成一条，创建后不可修改
// swagger:model AssessmentResult
type AssessmentResult struct {
	ID               uint                                  `gorm:"primaryKey;autoIncrement" json:"id"`
	StudentID        uint                                  `gorm:"index;not null" json:"studentId"`
	AssessmentID     uint                                  `gorm:"index;not null" json:"assessmentId"`
	Assessment       *Assessment                           `gorm:"foreignKey:AssessmentID" json:"assessment,omitempty"`
	LearningPathID   *uint                                 `gorm:"index" json:"learningPathId,omitempty"`
	Answers          datatypes.JSONType[map[string]string] `json:"answers"`
	Score            float64                               `json:"score"`
	Passed           bool                                  `json:"passed"`
	MissedQuestions  datatypes.JSONSlice[string]           `json:"missedQuestions"`
	StartedAt        time.Time                             `json:"startedAt"`
	SubmittedAt      time.Time                             `json:"submittedAt"`
	TimeTakenMinutes int                                   `json:"timeTakenMinutes"`
	Feedback         string                                `gorm:"type:text" json:"feedback"`
	AIFeedback       string                                `gorm:"type:text" json:"aiFeedback"`
	Graded           bool                                  `gorm:"not null" json:"graded"`
	GradedByID       *uint                                 `json:"gradedById,omitempty"`
	GradedAt         *time.Time                            `json:"gradedAt,omitempty"`
	CreatedAt        time.Time                             `gorm:"index" json:"createdAt"`
}

func (AssessmentResult) TableName() string {
	return "assessment_results"
}
