package service

import (
	"context"
	"errors"
	"lxp_backend/internal/util"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboards(t *testing.T) {
	f := newFixture(t)
	dash := NewDashboardService(NewStudentService(f.studentRepo), f.paths, f.progressRepo, f.assessRepo)

	st := f.student(t, "Tess", 9)
	sub := f.subject(t, "Algebra")
	contents := f.contents(t, sub.ID, "Variables", "Equations")
	path, _ := f.path(t, st, sub, contents)
	quiz := f.quiz(t, sub.ID, &contents[1].ID)

	_, err := f.assessments.Submit(context.Background(), quiz.ID, SubmitAssessmentRequest{
		StudentID:      st.ID,
		LearningPathID: uintPtr(path.ID),
		Answers:        map[string]string{"q1": "a", "q2": "b"},
		StartedAt:      f.clock,
		SubmittedAt:    f.clock.Add(3 * time.Minute),
	})
	require.NoError(t, err)

	sd, err := dash.Student(st.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, sd.Stats.TotalLearningPaths)
	assert.Equal(t, 0.0, sd.Stats.AverageCompletion)
	assert.Equal(t, 25.0, sd.Stats.AverageMastery)
	assert.Equal(t, int64(1), sd.Stats.TotalAssessmentsTaken)
	assert.Len(t, sd.RecentProgress, 2)
	require.Len(t, sd.RecentResults, 1)
	assert.Equal(t, 50.0, sd.RecentResults[0].Score)

	ed, err := dash.Educator(0, 1, 20)
	require.NoError(t, err)
	assert.Len(t, ed.LearningPaths, 1)
	require.Len(t, ed.StudentsNeedingAttention, 1)
	item := ed.StudentsNeedingAttention[0]
	assert.Equal(t, "Tess Tester", item.StudentName)
	assert.Equal(t, "Equations", item.ContentTitle)
	assert.Equal(t, 50.0, item.MasteryLevel)
	assert.Len(t, ed.RecentResults, 1)

	other := f.subject(t, "Biology")
	filtered, err := dash.Educator(other.ID, 1, 20)
	require.NoError(t, err)
	assert.Empty(t, filtered.LearningPaths)
	assert.Len(t, filtered.StudentsNeedingAttention, 1)

	bySubject, err := dash.Educator(sub.ID, 1, 20)
	require.NoError(t, err)
	require.Len(t, bySubject.LearningPaths, 1)
	assert.Equal(t, path.ID, bySubject.LearningPaths[0].ID)

	_, err = dash.Student(999)
	assert.True(t, errors.Is(err, util.ErrStudentNotFound))
}
