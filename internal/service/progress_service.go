package service

import (
	"context"
	"errors"
	"fmt"
	"lxp_backend/internal/model"
	"lxp_backend/internal/repository"
	"lxp_backend/internal/util"
	"lxp_backend/pkg/logger"
	"lxp_backend/pkg/monitoring"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	triggerManual     = "manual"
	triggerAssessment = "assessment"
)

// ProgressUpdate 部分更新：nil 字段保持原值
type ProgressUpdate struct {
	Status               *model.ProgressStatus `json:"status"`
	CompletionPercentage *float64              `json:"completionPercentage"`
	TimeSpentMinutes     *int                  `json:"timeSpentMinutes"`
	MasteryLevel         *float64              `json:"masteryLevel"`
	Score                *float64              `json:"score"`
	Notes                *string               `json:"notes"`
}

// ProgressService 进度状态机，所有写操作都在三元组锁 + 事务内完成
type ProgressService struct {
	DB     *gorm.DB
	Repo   *repository.ProgressRepository
	Locker ProgressLocker
	now    func() time.Time
}

func NewProgressService(db *gorm.DB, repo *repository.ProgressRepository, locker ProgressLocker) *ProgressService {
	if locker == nil {
		locker = NewLocalLocker(defaultLockWait)
	}
	return &ProgressService{DB: db, Repo: repo, Locker: locker, now: time.Now}
}

var allowedTransitions = map[model.ProgressStatus][]model.ProgressStatus{
	model.ProgressNotStarted:  {model.ProgressInProgress},
	model.ProgressInProgress:  {model.ProgressCompleted, model.ProgressNeedsReview},
	model.ProgressNeedsReview: {model.ProgressInProgress},
}

func canTransition(from, to model.ProgressStatus) bool {
	if from == to {
		return true
	}
	for _, s := range allowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

func validatePercent(name string, v *float64) error {
	if v != nil && (*v < 0 || *v > 100) {
		return fmt.Errorf("%w: %s must be between 0 and 100", util.ErrValidation, name)
	}
	return nil
}

func (u ProgressUpdate) validate() error {
	if u.Status != nil && !u.Status.IsValid() {
		return fmt.Errorf("%w: unknown status %q", util.ErrValidation, *u.Status)
	}
	if u.TimeSpentMinutes != nil && *u.TimeSpentMinutes < 0 {
		return fmt.Errorf("%w: timeSpentMinutes must not be negative", util.ErrValidation)
	}
	if err := validatePercent("completionPercentage", u.CompletionPercentage); err != nil {
		return err
	}
	if err := validatePercent("masteryLevel", u.MasteryLevel); err != nil {
		return err
	}
	return validatePercent("score", u.Score)
}

func (s *ProgressService) GetByID(id uint) (*model.Progress, error) {
	p, err := s.Repo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrProgressNotFound
	}
	return p, err
}

func (s *ProgressService) List(studentID, pathID uint, status model.ProgressStatus, page, limit int) ([]model.Progress, int64, error) {
	if status != "" && !status.IsValid() {
		return nil, 0, fmt.Errorf("%w: unknown status %q", util.ErrValidation, status)
	}
	return s.Repo.List(studentID, pathID, status, page, limit)
}

// withTriple 在三元组锁和事务内执行 fn
func (s *ProgressService) withTriple(ctx context.Context, studentID, pathID, contentID uint, fn func(repo *repository.ProgressRepository) error) error {
	unlock, err := s.Locker.Lock(ctx, progressLockKey(studentID, pathID, contentID))
	if err != nil {
		return err
	}
	defer unlock()

	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(s.Repo.WithTx(tx))
	})
}

// ApplyManualUpdate 学生活动触发的更新
func (s *ProgressService) ApplyManualUpdate(ctx context.Context, progressID uint, upd ProgressUpdate) (*model.Progress, error) {
	if err := upd.validate(); err != nil {
		return nil, err
	}

	current, err := s.GetByID(progressID)
	if err != nil {
		return nil, err
	}

	var updated *model.Progress
	err = s.withTriple(ctx, current.StudentID, current.LearningPathID, current.ContentID, func(repo *repository.ProgressRepository) error {
		p, err := repo.FindByID(progressID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return util.ErrProgressNotFound
			}
			return err
		}

		from := p.Status
		to := from
		if upd.Status != nil {
			to = *upd.Status
		}
		if !canTransition(from, to) {
			return fmt.Errorf("%w: cannot move progress from %s to %s", util.ErrValidation, from, to)
		}

		if upd.CompletionPercentage != nil {
			p.CompletionPercentage = *upd.CompletionPercentage
		}
		if upd.TimeSpentMinutes != nil {
			p.TimeSpentMinutes = *upd.TimeSpentMinutes
		}
		if upd.MasteryLevel != nil {
			p.MasteryLevel = *upd.MasteryLevel
		}
		if upd.Score != nil {
			score := *upd.Score
			p.Score = &score
		}
		if upd.Notes != nil {
			p.Notes = *upd.Notes
		}

		if to == model.ProgressCompleted {
			if upd.CompletionPercentage != nil && *upd.CompletionPercentage != 100 {
				return fmt.Errorf("%w: completed progress must have completionPercentage 100", util.ErrValidation)
			}
		} else if p.CompletionPercentage >= 100 {
			return fmt.Errorf("%w: completionPercentage 100 requires status completed", util.ErrValidation)
		}

		s.setStatus(p, to)
		if err := repo.Save(p); err != nil {
			return err
		}
		recordTransition(from, to, triggerManual)
		updated = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// ApplyAssessmentResult 测验结果回写进度；找不到对应记录时不做任何修改
func (s *ProgressService) ApplyAssessmentResult(ctx context.Context, studentID, pathID, contentID uint, score float64, passed bool) (*model.Progress, error) {
	var updated *model.Progress
	err := s.withTriple(ctx, studentID, pathID, contentID, func(repo *repository.ProgressRepository) error {
		p, err := repo.FindByTriple(studentID, pathID, contentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				logger.Log.Warn("No progress record for assessment result",
					zap.Uint("student_id", studentID),
					zap.Uint("learning_path_id", pathID),
					zap.Uint("content_id", contentID))
				return nil
			}
			return err
		}

		from := p.Status
		p.Score = &score
		p.MasteryLevel = score

		to := model.ProgressNeedsReview
		if passed || from == model.ProgressCompleted {
			to = model.ProgressCompleted
		}
		if from == model.ProgressCompleted && !passed {
			logger.Log.Info("Failed retake on completed content keeps status",
				zap.Uint("progress_id", p.ID), zap.Float64("score", score))
		}

		s.setStatus(p, to)
		if err := repo.Save(p); err != nil {
			return err
		}
		recordTransition(from, to, triggerAssessment)
		updated = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// setStatus 维护不变式：completed <=> completed_at 非空 <=> completion == 100
func (s *ProgressService) setStatus(p *model.Progress, to model.ProgressStatus) {
	now := s.now()
	p.Status = to
	switch to {
	case model.ProgressInProgress, model.ProgressNeedsReview:
		if p.StartedAt == nil {
			p.StartedAt = &now
		}
		p.CompletedAt = nil
	case model.ProgressCompleted:
		if p.StartedAt == nil {
			p.StartedAt = &now
		}
		if p.CompletedAt == nil {
			p.CompletedAt = &now
		}
		p.CompletionPercentage = 100
	default:
		p.CompletedAt = nil
	}
}

func recordTransition(from, to model.ProgressStatus, trigger string) {
	if from == to {
		return
	}
	monitoring.ProgressTransitions.WithLabelValues(string(from), string(to), trigger).Inc()
	logger.Log.Debug("Progress transition",
		zap.String("from", string(from)),
		zap.String("to", string(to)),
		zap.String("trigger", trigger))
}
