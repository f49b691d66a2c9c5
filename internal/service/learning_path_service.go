package service

import (
	"context"
	"errors"
	"fmt"
	"lxp_backend/internal/model"
	"lxp_backend/internal/repository"
	"lxp_backend/internal/util"
	"lxp_backend/pkg/logger"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// 未指定内容时按学科和难度自动挑选的上限
const autoAssignLimit = 20

var defaultResources = []model.RecommendedResource{
	{Title: "Khan Academy", URL: "https://khanacademy.org", Type: "external"},
}

type GoalGenerator interface {
	GenerateGoals(ctx context.Context, grade int, subject, difficulty string) []string
}

type LearningPathService struct {
	DB           *gorm.DB
	Repo         *repository.LearningPathRepository
	ProgressRepo *repository.ProgressRepository
	StudentRepo  *repository.StudentRepository
	ContentRepo  *repository.ContentRepository
	Completion   *PathCompletion
	Goals        GoalGenerator
}

func NewLearningPathService(
	db *gorm.DB,
	repo *repository.LearningPathRepository,
	progressRepo *repository.ProgressRepository,
	studentRepo *repository.StudentRepository,
	contentRepo *repository.ContentRepository,
	completion *PathCompletion,
	goals GoalGenerator,
) *LearningPathService {
	return &LearningPathService{
		DB:           db,
		Repo:         repo,
		ProgressRepo: progressRepo,
		StudentRepo:  studentRepo,
		ContentRepo:  contentRepo,
		Completion:   completion,
		Goals:        goals,
	}
}

type CreateLearningPathRequest struct {
	StudentID            uint       `json:"studentId" binding:"required"`
	SubjectID            uint       `json:"subjectId" binding:"required"`
	Title                string     `json:"title" binding:"required"`
	Description          string     `json:"description"`
	DifficultyLevel      string     `json:"difficultyLevel" binding:"required"`
	StartDate            *time.Time `json:"startDate"`
	TargetCompletionDate time.Time  `json:"targetCompletionDate" binding:"required"`
	ContentIDs           []uint     `json:"contentIds"`
}

type LearningPathResponse struct {
	model.LearningPath
	StudentName          string  `json:"studentName"`
	SubjectName          string  `json:"subjectName"`
	CompletionPercentage float64 `json:"completionPercentage"`
}

func (req CreateLearningPathRequest) validate() error {
	if strings.TrimSpace(req.Title) == "" {
		return fmt.Errorf("%w: title is required", util.ErrValidation)
	}
	if !model.IsValidDifficulty(req.DifficultyLevel) {
		return fmt.Errorf("%w: unknown difficulty %q", util.ErrValidation, req.DifficultyLevel)
	}
	if req.TargetCompletionDate.IsZero() {
		return fmt.Errorf("%w: targetCompletionDate is required", util.ErrValidation)
	}
	if req.StartDate != nil && req.TargetCompletionDate.Before(*req.StartDate) {
		return fmt.Errorf("%w: targetCompletionDate is before startDate", util.ErrValidation)
	}
	seen := make(map[uint]bool, len(req.ContentIDs))
	for _, id := range req.ContentIDs {
		if seen[id] {
			return fmt.Errorf("%w: content %d assigned twice", util.ErrValidation, id)
		}
		seen[id] = true
	}
	return nil
}

// Create 生成目标后在一个事务内写入路径、有序的内容分配和初始进度
func (s *LearningPathService) Create(ctx context.Context, req CreateLearningPathRequest) (*LearningPathResponse, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	student, err := s.StudentRepo.FindByID(req.StudentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrStudentNotFound
		}
		return nil, err
	}
	subject, err := s.ContentRepo.FindSubjectByID(req.SubjectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrSubjectNotFound
		}
		return nil, err
	}

	contents, err := s.resolveContents(req)
	if err != nil {
		return nil, err
	}

	goals := s.Goals.GenerateGoals(ctx, student.GradeLevel, subject.Name, req.DifficultyLevel)

	start := time.Now()
	if req.StartDate != nil {
		start = *req.StartDate
	}
	path := &model.LearningPath{
		StudentID:            student.ID,
		SubjectID:            subject.ID,
		Title:                req.Title,
		Description:          req.Description,
		DifficultyLevel:      req.DifficultyLevel,
		PersonalizedGoals:    goals,
		RecommendedResources: defaultResources,
		StartDate:            start,
		TargetCompletionDate: req.TargetCompletionDate,
		IsActive:             true,
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		pathRepo := s.Repo.WithTx(tx)
		if err := pathRepo.Create(path); err != nil {
			return err
		}

		assignments := make([]model.ContentAssignment, 0, len(contents))
		progress := make([]model.Progress, 0, len(contents))
		for i, c := range contents {
			assignments = append(assignments, model.ContentAssignment{
				LearningPathID: path.ID,
				ContentID:      c.ID,
				Order:          i + 1,
				IsRequired:     true,
			})
			progress = append(progress, model.Progress{
				StudentID:      student.ID,
				LearningPathID: path.ID,
				ContentID:      c.ID,
				Status:         model.ProgressNotStarted,
			})
		}
		if err := pathRepo.CreateAssignments(assignments); err != nil {
			return err
		}
		return s.ProgressRepo.WithTx(tx).CreateBatch(progress)
	})
	if err != nil {
		return nil, err
	}

	logger.Log.Info("Learning path created",
		zap.Uint("path_id", path.ID),
		zap.Uint("student_id", student.ID),
		zap.Int("contents", len(contents)))

	return s.Get(path.ID)
}

func (s *LearningPathService) resolveContents(req CreateLearningPathRequest) ([]model.Content, error) {
	if len(req.ContentIDs) == 0 {
		return s.ContentRepo.ListForPath(req.SubjectID, req.DifficultyLevel, autoAssignLimit)
	}
	contents, err := s.ContentRepo.FindByIDs(req.ContentIDs)
	if err != nil {
		return nil, err
	}
	if len(contents) != len(req.ContentIDs) {
		return nil, util.ErrContentNotFound
	}
	return contents, nil
}

func (s *LearningPathService) Get(id uint) (*LearningPathResponse, error) {
	path, err := s.Repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrLearningPathNotFound
		}
		return nil, err
	}
	student, err := s.StudentRepo.FindByID(path.StudentID)
	if err != nil {
		return nil, err
	}
	return s.toResponse(*path, student.FullName())
}

// List 按学生、学科过滤后分页，参数为 0 表示不过滤
func (s *LearningPathService) List(studentID, subjectID uint, page, limit int) ([]LearningPathResponse, int64, error) {
	paths, total, err := s.Repo.List(studentID, subjectID, page, limit)
	if err != nil {
		return nil, 0, err
	}

	names := map[uint]string{}
	list := make([]LearningPathResponse, 0, len(paths))
	for _, p := range paths {
		name, ok := names[p.StudentID]
		if !ok {
			if st, err := s.StudentRepo.FindByID(p.StudentID); err == nil {
				name = st.FullName()
			}
			names[p.StudentID] = name
		}
		resp, err := s.toResponse(p, name)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, *resp)
	}
	return list, total, nil
}

func (s *LearningPathService) toResponse(p model.LearningPath, studentName string) (*LearningPathResponse, error) {
	completion, err := s.Completion.Percentage(p.ID)
	if err != nil {
		return nil, err
	}
	resp := &LearningPathResponse{
		LearningPath:         p,
		StudentName:          studentName,
		CompletionPercentage: completion,
	}
	if p.Subject != nil {
		resp.SubjectName = p.Subject.Name
	}
	return resp, nil
}
