package service

import (
	"fmt"
	"lxp_backend/internal/model"
	"lxp_backend/internal/repository"
	"strings"
)

const (
	maxContextTopics = 3
	strugglingBelow  = 60.0
	strongAtOrAbove  = 80.0
)

// ContextBuilder 汇总学生学习状态，结果只依赖进度快照
type ContextBuilder struct {
	ProgressRepo *repository.ProgressRepository
	Completion   *PathCompletion
}

func NewContextBuilder(progressRepo *repository.ProgressRepository, completion *PathCompletion) *ContextBuilder {
	return &ContextBuilder{ProgressRepo: progressRepo, Completion: completion}
}

// Build path 和 content 均可为空
func (b *ContextBuilder) Build(student *model.Student, path *model.LearningPath, content *model.Content) (model.MentorContext, error) {
	mc := model.MentorContext{
		StudentGrade:     student.GradeLevel,
		StudentName:      student.FirstName,
		StrugglingTopics: []string{},
		StrongTopics:     []string{},
	}

	if path != nil {
		if path.Subject != nil {
			mc.Subject = path.Subject.Name
		}
		mc.Difficulty = path.DifficultyLevel

		completion, err := b.Completion.Percentage(path.ID)
		if err != nil {
			return mc, err
		}
		mc.PathSummary = fmt.Sprintf("The student is working on: '%s' (Completion: %.0f%%)", path.Title, completion)

		rows, err := b.ProgressRepo.ListForPath(student.ID, path.ID)
		if err != nil {
			return mc, err
		}
		mc.ProgressStats = summarizeProgress(rows)
		mc.StrugglingTopics, mc.StrongTopics = classifyTopics(rows)
	}

	if content != nil {
		mc.CurrentContent = content.Title
		mc.ContentType = content.ContentType
		mc.ContentSummary = fmt.Sprintf("The student is currently viewing: '%s' (%s). Focus your help on this specific content.",
			content.Title, content.ContentType)
	}

	return mc, nil
}

func summarizeProgress(rows []model.Progress) *model.ProgressStats {
	stats := &model.ProgressStats{RecordCount: len(rows)}
	if len(rows) == 0 {
		return stats
	}
	var total float64
	for _, p := range rows {
		switch p.Status {
		case model.ProgressCompleted:
			stats.CompletedCount++
		case model.ProgressInProgress:
			stats.InProgressCount++
		}
		total += p.MasteryLevel
	}
	stats.AverageMastery = round2(total / float64(len(rows)))
	return stats
}

func classifyTopics(rows []model.Progress) (struggling, strong []string) {
	struggling, strong = []string{}, []string{}
	for _, p := range rows {
		title := ""
		if p.Content != nil {
			title = p.Content.Title
		}
		if p.MasteryLevel < strugglingBelow && len(struggling) < maxContextTopics {
			struggling = append(struggling, title)
		}
		if p.MasteryLevel >= strongAtOrAbove && len(strong) < maxContextTopics {
			strong = append(strong, title)
		}
	}
	return struggling, strong
}

// LearningContext 把上下文拼成一段供系统提示词使用的文本，顺序固定
func LearningContext(mc model.MentorContext) string {
	parts := []string{}
	if mc.PathSummary != "" {
		parts = append(parts, mc.PathSummary)
	}
	if mc.ProgressStats != nil && mc.ProgressStats.RecordCount > 0 {
		parts = append(parts, fmt.Sprintf("Progress: %d items completed, %d in progress. Average mastery: %.0f%%.",
			mc.ProgressStats.CompletedCount, mc.ProgressStats.InProgressCount, mc.ProgressStats.AverageMastery))
	}
	if len(mc.StrugglingTopics) > 0 {
		parts = append(parts, fmt.Sprintf("Areas needing support: %s.", strings.Join(mc.StrugglingTopics, ", ")))
	}
	if len(mc.StrongTopics) > 0 {
		parts = append(parts, fmt.Sprintf("Strong areas: %s.", strings.Join(mc.StrongTopics, ", ")))
	}
	if mc.ContentSummary != "" {
		parts = append(parts, mc.ContentSummary)
	}
	return strings.Join(parts, " ")
}
