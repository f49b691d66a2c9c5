package service

import (
	"context"
	"fmt"
	"lxp_backend/internal/config"
	"lxp_backend/internal/model"
	"lxp_backend/internal/repository"
	"lxp_backend/pkg/database"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type scriptedReply struct {
	text string
	err  error
}

// scriptedLLM 按顺序返回预设结果，用完后重复最后一条
type scriptedLLM struct {
	mu      sync.Mutex
	replies []scriptedReply
	calls   []CompletionRequest
}

func (s *scriptedLLM) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, req)
	if len(s.replies) == 0 {
		return "", &AIError{Kind: AIErrorOther, Err: fmt.Errorf("no scripted reply")}
	}
	r := s.replies[0]
	if len(s.replies) > 1 {
		s.replies = s.replies[1:]
	}
	return r.text, r.err
}

func (s *scriptedLLM) reply(text string) *scriptedLLM {
	s.replies = append(s.replies, scriptedReply{text: text})
	return s
}

func (s *scriptedLLM) fail(kind AIErrorKind) *scriptedLLM {
	s.replies = append(s.replies, scriptedReply{err: &AIError{Kind: kind, Err: fmt.Errorf("%s", kind)}})
	return s
}

func (s *scriptedLLM) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

type staticGoals []string

func (g staticGoals) GenerateGoals(ctx context.Context, grade int, subject, difficulty string) []string {
	return g
}

type fixture struct {
	db           *gorm.DB
	studentRepo  *repository.StudentRepository
	contentRepo  *repository.ContentRepository
	pathRepo     *repository.LearningPathRepository
	progressRepo *repository.ProgressRepository
	assessRepo   *repository.AssessmentRepository
	sessionRepo  *repository.MentorSessionRepository

	llm         *scriptedLLM
	completion  *PathCompletion
	contexts    *ContextBuilder
	progress    *ProgressService
	mentor      *MentorService
	paths       *LearningPathService
	assessments *AssessmentService
	clock       time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := database.OpenSQLiteMemory()
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	f := &fixture{
		db:           db,
		studentRepo:  repository.NewStudentRepository(db),
		contentRepo:  repository.NewContentRepository(db),
		pathRepo:     repository.NewLearningPathRepository(db),
		progressRepo: repository.NewProgressRepository(db),
		assessRepo:   repository.NewAssessmentRepository(db),
		sessionRepo:  repository.NewMentorSessionRepository(db),
		llm:          &scriptedLLM{},
		clock:        time.Date(2024, 9, 1, 8, 0, 0, 0, time.UTC),
	}
	f.completion = NewPathCompletion(f.pathRepo, f.progressRepo)
	f.contexts = NewContextBuilder(f.progressRepo, f.completion)
	f.progress = NewProgressService(db, f.progressRepo, NewLocalLocker(defaultLockWait))
	f.progress.now = func() time.Time { return f.clock }
	f.mentor = NewMentorService(f.llm, config.AIConfig{}, f.sessionRepo, f.studentRepo, f.pathRepo, f.contentRepo, f.contexts)
	f.paths = NewLearningPathService(db, f.pathRepo, f.progressRepo, f.studentRepo, f.contentRepo, f.completion,
		staticGoals{"Solve linear equations fluently", "Graph lines from equations", "Explain slope in context"})
	f.assessments = NewAssessmentService(f.assessRepo, f.studentRepo, f.pathRepo, f.contentRepo, f.progress, f.mentor)
	return f
}

func (f *fixture) student(t *testing.T, first string, grade int) *model.Student {
	t.Helper()
	s := &model.Student{
		FirstName:      first,
		LastName:       "Tester",
		Email:          fmt.Sprintf("%s.%d@example.com", first, time.Now().UnixNano()),
		GradeLevel:     grade,
		EnrollmentDate: f.clock,
		IsActive:       true,
	}
	require.NoError(t, f.studentRepo.Create(s))
	return s
}

func (f *fixture) subject(t *testing.T, name string) *model.Subject {
	t.Helper()
	s := &model.Subject{Name: name, Code: fmt.Sprintf("S-%d", time.Now().UnixNano()), GradeLevel: 9}
	require.NoError(t, f.contentRepo.CreateSubject(s))
	return s
}

func (f *fixture) contents(t *testing.T, subjectID uint, titles ...string) []model.Content {
	t.Helper()
	out := make([]model.Content, 0, len(titles))
	for _, title := range titles {
		c := &model.Content{
			SubjectID:       subjectID,
			Title:           title,
			ContentType:     model.ContentTypeLesson,
			DifficultyLevel: model.DifficultyBeginner,
		}
		require.NoError(t, f.contentRepo.Create(c))
		out = append(out, *c)
	}
	return out
}

// path 建一条学习路径，返回路径和按顺序排列的进度记录
func (f *fixture) path(t *testing.T, student *model.Student, subject *model.Subject, contents []model.Content) (*LearningPathResponse, []model.Progress) {
	t.Helper()
	ids := make([]uint, 0, len(contents))
	for _, c := range contents {
		ids = append(ids, c.ID)
	}
	p, err := f.paths.Create(context.Background(), CreateLearningPathRequest{
		StudentID:            student.ID,
		SubjectID:            subject.ID,
		Title:                "Algebra Foundations",
		DifficultyLevel:      model.DifficultyBeginner,
		TargetCompletionDate: f.clock.AddDate(0, 3, 0),
		ContentIDs:           ids,
	})
	require.NoError(t, err)
	rows, err := f.progressRepo.ListForPath(student.ID, p.ID)
	require.NoError(t, err)
	return p, rows
}

func strPtr(s string) *string                              { return &s }
func statusPtr(s model.ProgressStatus) *model.ProgressStatus { return &s }
func floatPtr(v float64) *float64                          { return &v }
func intPtr(v int) *int                                    { return &v }
func uintPtr(v uint) *uint                                 { return &v }

// requireInvariant completed <=> completed_at 非空 <=> completion == 100
func requireInvariant(t *testing.T, p *model.Progress) {
	t.Helper()
	completed := p.Status == model.ProgressCompleted
	require.Equal(t, completed, p.CompletedAt != nil, "completed_at for status %s", p.Status)
	require.Equal(t, completed, p.CompletionPercentage == 100, "completion %.2f for status %s", p.CompletionPercentage, p.Status)
}
