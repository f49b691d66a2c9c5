package service

import (
	"lxp_backend/internal/model"
	"lxp_backend/internal/repository"
)

const (
	studentRecentLimit  = 5
	educatorRecentLimit = 10
	needsReviewLimit    = 50
)

type DashboardService struct {
	Students       *StudentService
	Paths          *LearningPathService
	ProgressRepo   *repository.ProgressRepository
	AssessmentRepo *repository.AssessmentRepository
}

func NewDashboardService(
	students *StudentService,
	paths *LearningPathService,
	progressRepo *repository.ProgressRepository,
	assessmentRepo *repository.AssessmentRepository,
) *DashboardService {
	return &DashboardService{
		Students:       students,
		Paths:          paths,
		ProgressRepo:   progressRepo,
		AssessmentRepo: assessmentRepo,
	}
}

type StudentStats struct {
	TotalLearningPaths    int     `json:"totalLearningPaths"`
	AverageCompletion     float64 `json:"averageCompletion"`
	AverageMastery        float64 `json:"averageMastery"`
	TotalAssessmentsTaken int64   `json:"totalAssessmentsTaken"`
}

type StudentDashboard struct {
	Student        *model.Student           `json:"student"`
	LearningPaths  []LearningPathResponse   `json:"learningPaths"`
	RecentProgress []model.Progress         `json:"recentProgress"`
	RecentResults  []model.AssessmentResult `json:"recentResults"`
	Stats          StudentStats             `json:"stats"`
}

func (s *DashboardService) Student(studentID uint) (*StudentDashboard, error) {
	student, err := s.Students.Get(studentID)
	if err != nil {
		return nil, err
	}

	active, err := s.Paths.Repo.ListByStudent(studentID, true)
	if err != nil {
		return nil, err
	}
	paths := make([]LearningPathResponse, 0, len(active))
	var completionSum float64
	for _, p := range active {
		resp, err := s.Paths.toResponse(p, student.FullName())
		if err != nil {
			return nil, err
		}
		completionSum += resp.CompletionPercentage
		paths = append(paths, *resp)
	}

	recentProgress, err := s.ProgressRepo.ListRecentByStudent(studentID, studentRecentLimit)
	if err != nil {
		return nil, err
	}
	recentResults, err := s.AssessmentRepo.ListRecentResults(studentID, studentRecentLimit)
	if err != nil {
		return nil, err
	}
	mastery, err := s.ProgressRepo.AverageMastery(studentID)
	if err != nil {
		return nil, err
	}
	taken, err := s.AssessmentRepo.CountResultsByStudent(studentID)
	if err != nil {
		return nil, err
	}

	stats := StudentStats{
		TotalLearningPaths:    len(paths),
		AverageMastery:        round2(mastery),
		TotalAssessmentsTaken: taken,
	}
	if len(paths) > 0 {
		stats.AverageCompletion = round2(completionSum / float64(len(paths)))
	}

	return &StudentDashboard{
		Student:        student,
		LearningPaths:  paths,
		RecentProgress: recentProgress,
		RecentResults:  recentResults,
		Stats:          stats,
	}, nil
}

type AttentionItem struct {
	StudentID      uint    `json:"studentId"`
	StudentName    string  `json:"studentName"`
	LearningPathID uint    `json:"learningPathId"`
	ContentID      uint    `json:"contentId"`
	ContentTitle   string  `json:"contentTitle"`
	MasteryLevel   float64 `json:"masteryLevel"`
}

type EducatorDashboard struct {
	LearningPaths            []LearningPathResponse   `json:"learningPaths"`
	StudentsNeedingAttention []AttentionItem          `json:"studentsNeedingAttention"`
	RecentResults            []model.AssessmentResult `json:"recentResults"`
}

// Educator subjectID 只过滤学习路径，待复习和最近测验覆盖全部学科
func (s *DashboardService) Educator(subjectID uint, page, limit int) (*EducatorDashboard, error) {
	paths, _, err := s.Paths.List(0, subjectID, page, limit)
	if err != nil {
		return nil, err
	}

	review, err := s.ProgressRepo.ListByStatus(model.ProgressNeedsReview, needsReviewLimit)
	if err != nil {
		return nil, err
	}
	names := map[uint]string{}
	attention := make([]AttentionItem, 0, len(review))
	for _, p := range review {
		name, ok := names[p.StudentID]
		if !ok {
			if st, err := s.Students.Get(p.StudentID); err == nil {
				name = st.FullName()
			}
			names[p.StudentID] = name
		}
		item := AttentionItem{
			StudentID:      p.StudentID,
			StudentName:    name,
			LearningPathID: p.LearningPathID,
			ContentID:      p.ContentID,
			MasteryLevel:   p.MasteryLevel,
		}
		if p.Content != nil {
			item.ContentTitle = p.Content.Title
		}
		attention = append(attention, item)
	}

	recent, err := s.AssessmentRepo.ListRecentResults(0, educatorRecentLimit)
	if err != nil {
		return nil, err
	}

	return &EducatorDashboard{
		LearningPaths:            paths,
		StudentsNeedingAttention: attention,
		RecentResults:            recent,
	}, nil
}
