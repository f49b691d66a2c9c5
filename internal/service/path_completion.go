package service

import (
	"lxp_backend/internal/repository"
	"math"
)

// PathCompletion 学习路径完成度，每次读取实时计算，不落库
type PathCompletion struct {
	PathRepo     *repository.LearningPathRepository
	ProgressRepo *repository.ProgressRepository
}

func NewPathCompletion(pathRepo *repository.LearningPathRepository, progressRepo *repository.ProgressRepository) *PathCompletion {
	return &PathCompletion{PathRepo: pathRepo, ProgressRepo: progressRepo}
}

func (a *PathCompletion) Percentage(pathID uint) (float64, error) {
	total, err := a.PathRepo.CountAssignments(pathID)
	if err != nil {
		return 0, err
	}
	completed, err := a.ProgressRepo.CountCompleted(pathID)
	if err != nil {
		return 0, err
	}
	return completionPercentage(completed, total), nil
}

func completionPercentage(completed, total int64) float64 {
	if total == 0 {
		return 0
	}
	return round2(100 * float64(completed) / float64(total))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
