package service

import (
	"fmt"
	"lxp_backend/internal/model"
	"lxp_backend/internal/util"
	"math"
	"sort"
	"time"
)

type GradeInput struct {
	Questions    []model.AssessmentQuestion
	PassingScore int
	Answers      map[string]string
	StartedAt    time.Time
	SubmittedAt  time.Time
}

type GradeResult struct {
	Score            float64
	Passed           bool
	TimeTakenMinutes int
	MissedQuestions  []string
	// Warnings 数据完整性问题：缺少答案的题目、未知题目 ID
	Warnings []string
}

// GradeSubmission 纯函数评分，不修改任何状态
func GradeSubmission(in GradeInput) (GradeResult, error) {
	if in.StartedAt.IsZero() || in.SubmittedAt.IsZero() {
		return GradeResult{}, fmt.Errorf("%w: started_at and submitted_at are required", util.ErrValidation)
	}
	if in.SubmittedAt.Before(in.StartedAt) {
		return GradeResult{}, fmt.Errorf("%w: submitted_at is before started_at", util.ErrValidation)
	}

	res := GradeResult{
		TimeTakenMinutes: int(math.Floor(in.SubmittedAt.Sub(in.StartedAt).Seconds() / 60)),
		MissedQuestions:  []string{},
	}

	known := make(map[string]bool, len(in.Questions))
	correct := 0
	for _, q := range in.Questions {
		key := string(q.ID)
		known[key] = true
		submitted, answered := in.Answers[key]

		if q.CorrectAnswer == nil {
			res.Warnings = append(res.Warnings, fmt.Sprintf("question %s has no answer key", key))
			if answered {
				res.MissedQuestions = append(res.MissedQuestions, q.Question)
			}
			continue
		}

		if answered && submitted == *q.CorrectAnswer {
			correct++
			continue
		}
		res.MissedQuestions = append(res.MissedQuestions, q.Question)
	}

	unknown := make([]string, 0)
	for id := range in.Answers {
		if !known[id] {
			unknown = append(unknown, id)
		}
	}
	sort.Strings(unknown)
	for _, id := range unknown {
		res.Warnings = append(res.Warnings, fmt.Sprintf("answer references unknown question %s", id))
	}

	total := len(in.Questions)
	if total == 0 {
		return res, nil
	}
	res.Score = 100 * float64(correct) / float64(total)
	res.Passed = res.Score >= float64(in.PassingScore)
	return res, nil
}
