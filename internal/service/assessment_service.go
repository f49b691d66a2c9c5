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
	"lxp_backend/pkg/tracing"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type FeedbackGenerator interface {
	GenerateFeedback(ctx context.Context, score float64, subject string, missed []string) string
}

type AssessmentService struct {
	Repo        *repository.AssessmentRepository
	StudentRepo *repository.StudentRepository
	PathRepo    *repository.LearningPathRepository
	ContentRepo *repository.ContentRepository
	Progress    *ProgressService
	Feedback    FeedbackGenerator
}

func NewAssessmentService(
	repo *repository.AssessmentRepository,
	studentRepo *repository.StudentRepository,
	pathRepo *repository.LearningPathRepository,
	contentRepo *repository.ContentRepository,
	progress *ProgressService,
	feedback FeedbackGenerator,
) *AssessmentService {
	return &AssessmentService{
		Repo:        repo,
		StudentRepo: studentRepo,
		PathRepo:    pathRepo,
		ContentRepo: contentRepo,
		Progress:    progress,
		Feedback:    feedback,
	}
}

type CreateAssessmentRequest struct {
	SubjectID        uint                       `json:"subjectId" binding:"required"`
	ContentID        *uint                      `json:"contentId"`
	Title            string                     `json:"title" binding:"required"`
	AssessmentType   string                     `json:"assessmentType"`
	Description      string                     `json:"description"`
	Questions        []model.AssessmentQuestion `json:"questions"`
	TotalPoints      int                        `json:"totalPoints"`
	PassingScore     *int                       `json:"passingScore"`
	DifficultyLevel  string                     `json:"difficultyLevel"`
	TimeLimitMinutes *int                       `json:"timeLimitMinutes"`
}

func (s *AssessmentService) Create(req CreateAssessmentRequest) (*model.Assessment, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", util.ErrValidation)
	}
	switch req.AssessmentType {
	case "":
		req.AssessmentType = model.AssessmentTypeQuiz
	case model.AssessmentTypeQuiz, model.AssessmentTypeTest, model.AssessmentTypeAssignment, model.AssessmentTypeProject:
	default:
		return nil, fmt.Errorf("%w: unknown assessment type %q", util.ErrValidation, req.AssessmentType)
	}
	if req.DifficultyLevel == "" {
		req.DifficultyLevel = model.DifficultyBeginner
	}
	if !model.IsValidDifficulty(req.DifficultyLevel) {
		return nil, fmt.Errorf("%w: unknown difficulty %q", util.ErrValidation, req.DifficultyLevel)
	}
	passing := 70
	if req.PassingScore != nil {
		passing = *req.PassingScore
	}
	if passing < 0 || passing > 100 {
		return nil, fmt.Errorf("%w: passingScore must be between 0 and 100", util.ErrValidation)
	}
	if req.TotalPoints == 0 {
		req.TotalPoints = 100
	}
	if req.TimeLimitMinutes != nil && *req.TimeLimitMinutes <= 0 {
		return nil, fmt.Errorf("%w: timeLimitMinutes must be positive", util.ErrValidation)
	}

	seen := map[model.QuestionKey]bool{}
	for i, q := range req.Questions {
		if q.ID == "" {
			req.Questions[i].ID = model.QuestionKey(strconv.Itoa(i + 1))
			q.ID = req.Questions[i].ID
		}
		if seen[q.ID] {
			return nil, fmt.Errorf("%w: duplicate question id %s", util.ErrValidation, q.ID)
		}
		seen[q.ID] = true
		if strings.TrimSpace(q.Question) == "" {
			return nil, fmt.Errorf("%w: question %s has no text", util.ErrValidation, q.ID)
		}
	}

	if _, err := s.ContentRepo.FindSubjectByID(req.SubjectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrSubjectNotFound
		}
		return nil, err
	}
	if req.ContentID != nil {
		if _, err := s.ContentRepo.FindByID(*req.ContentID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, util.ErrContentNotFound
			}
			return nil, err
		}
	}

	a := &model.Assessment{
		SubjectID:        req.SubjectID,
		ContentID:        req.ContentID,
		Title:            req.Title,
		AssessmentType:   req.AssessmentType,
		Description:      req.Description,
		Questions:        req.Questions,
		TotalPoints:      req.TotalPoints,
		PassingScore:     passing,
		DifficultyLevel:  req.DifficultyLevel,
		TimeLimitMinutes: req.TimeLimitMinutes,
	}
	if err := s.Repo.Create(a); err != nil {
		return nil, err
	}
	return a, nil
}

// PublicQuestion 返回给学生的题目，不含答案
type PublicQuestion struct {
	ID       model.QuestionKey `json:"id"`
	Question string            `json:"question"`
	Options  []string          `json:"options,omitempty"`
}

type AssessmentView struct {
	ID               uint             `json:"id"`
	SubjectID        uint             `json:"subjectId"`
	SubjectName      string           `json:"subjectName"`
	ContentID        *uint            `json:"contentId,omitempty"`
	Title            string           `json:"title"`
	AssessmentType   string           `json:"assessmentType"`
	Description      string           `json:"description"`
	Questions        []PublicQuestion `json:"questions"`
	TotalPoints      int              `json:"totalPoints"`
	PassingScore     int              `json:"passingScore"`
	DifficultyLevel  string           `json:"difficultyLevel"`
	TimeLimitMinutes *int             `json:"timeLimitMinutes,omitempty"`
}

func NewAssessmentView(a *model.Assessment) AssessmentView {
	v := AssessmentView{
		ID:               a.ID,
		SubjectID:        a.SubjectID,
		ContentID:        a.ContentID,
		Title:            a.Title,
		AssessmentType:   a.AssessmentType,
		Description:      a.Description,
		Questions:        make([]PublicQuestion, 0, len(a.Questions)),
		TotalPoints:      a.TotalPoints,
		PassingScore:     a.PassingScore,
		DifficultyLevel:  a.DifficultyLevel,
		TimeLimitMinutes: a.TimeLimitMinutes,
	}
	if a.Subject != nil {
		v.SubjectName = a.Subject.Name
	}
	for _, q := range a.Questions {
		v.Questions = append(v.Questions, PublicQuestion{ID: q.ID, Question: q.Question, Options: q.Options})
	}
	return v
}

func (s *AssessmentService) Get(id uint) (*AssessmentView, error) {
	a, err := s.Repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrAssessmentNotFound
		}
		return nil, err
	}
	v := NewAssessmentView(a)
	return &v, nil
}

func (s *AssessmentService) List(subjectID uint, page, limit int) ([]AssessmentView, int64, error) {
	list, total, err := s.Repo.List(subjectID, page, limit)
	if err != nil {
		return nil, 0, err
	}
	subjects := map[uint]*model.Subject{}
	views := make([]AssessmentView, 0, len(list))
	for i := range list {
		sub, ok := subjects[list[i].SubjectID]
		if !ok {
			sub, _ = s.ContentRepo.FindSubjectByID(list[i].SubjectID)
			subjects[list[i].SubjectID] = sub
		}
		list[i].Subject = sub
		views = append(views, NewAssessmentView(&list[i]))
	}
	return views, total, nil
}

type SubmitAssessmentRequest struct {
	StudentID      uint              `json:"studentId" binding:"required"`
	LearningPathID *uint             `json:"learningPathId"`
	Answers        map[string]string `json:"answers"`
	StartedAt      time.Time         `json:"startedAt" binding:"required"`
	SubmittedAt    time.Time         `json:"submittedAt" binding:"required"`
}

type SubmissionResponse struct {
	Result          *model.AssessmentResult `json:"result"`
	AssessmentTitle string                  `json:"assessmentTitle"`
	Progress        *model.Progress         `json:"progress,omitempty"`
}

// Submit 评分 -> 生成反馈 -> 写入不可变结果 -> 回写进度
func (s *AssessmentService) Submit(ctx context.Context, assessmentID uint, req SubmitAssessmentRequest) (resp *SubmissionResponse, err error) {
	ctx, span := tracing.StartSpan(ctx, "assessment.submit",
		attribute.Int64("assessment.id", int64(assessmentID)),
		attribute.Int64("student.id", int64(req.StudentID)))
	defer func() { tracing.EndSpan(span, err) }()

	assessment, err := s.Repo.FindByID(assessmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrAssessmentNotFound
		}
		return nil, err
	}
	student, err := s.StudentRepo.FindByID(req.StudentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrStudentNotFound
		}
		return nil, err
	}
	if req.LearningPathID != nil {
		path, err := s.PathRepo.FindByID(*req.LearningPathID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, util.ErrLearningPathNotFound
			}
			return nil, err
		}
		if path.StudentID != student.ID {
			return nil, fmt.Errorf("%w: learning path %d does not belong to student %d", util.ErrValidation, path.ID, student.ID)
		}
	}

	answers := req.Answers
	if answers == nil {
		answers = map[string]string{}
	}
	graded, err := GradeSubmission(GradeInput{
		Questions:    assessment.Questions,
		PassingScore: assessment.PassingScore,
		Answers:      answers,
		StartedAt:    req.StartedAt,
		SubmittedAt:  req.SubmittedAt,
	})
	if err != nil {
		return nil, err
	}
	for _, w := range graded.Warnings {
		logger.Log.Warn("Assessment data integrity",
			zap.Uint("assessment_id", assessment.ID),
			zap.String("detail", w))
	}

	subjectName := ""
	if assessment.Subject != nil {
		subjectName = assessment.Subject.Name
	}
	feedback := s.Feedback.GenerateFeedback(ctx, graded.Score, subjectName, graded.MissedQuestions)

	result := &model.AssessmentResult{
		StudentID:        student.ID,
		AssessmentID:     assessment.ID,
		LearningPathID:   req.LearningPathID,
		Answers:          datatypes.NewJSONType(answers),
		Score:            graded.Score,
		Passed:           graded.Passed,
		MissedQuestions:  graded.MissedQuestions,
		StartedAt:        req.StartedAt,
		SubmittedAt:      req.SubmittedAt,
		TimeTakenMinutes: graded.TimeTakenMinutes,
		AIFeedback:       feedback,
		Graded:           true,
	}
	if err := s.Repo.CreateResult(result); err != nil {
		return nil, err
	}
	monitoring.AssessmentSubmissions.WithLabelValues(strconv.FormatBool(graded.Passed)).Inc()

	resp = &SubmissionResponse{Result: result, AssessmentTitle: assessment.Title}

	if req.LearningPathID != nil && assessment.ContentID != nil {
		// 结果已落库，进度回写不受请求取消影响
		p, perr := s.Progress.ApplyAssessmentResult(context.WithoutCancel(ctx),
			student.ID, *req.LearningPathID, *assessment.ContentID, graded.Score, graded.Passed)
		if perr != nil {
			logger.Log.Error("Failed to apply assessment result to progress",
				zap.Uint("result_id", result.ID), zap.Error(perr))
		}
		resp.Progress = p
	}
	return resp, nil
}

func (s *AssessmentService) ListResults(studentID uint, page, limit int) ([]model.AssessmentResult, int64, error) {
	return s.Repo.ListResultsByStudent(studentID, page, limit)
}
