package service

import (
	"context"
	"encoding/json"
	"lxp_backend/internal/model"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextBuilder_StudentOnly(t *testing.T) {
	f := newFixture(t)
	st := f.student(t, "Maya", 7)

	mc, err := f.contexts.Build(st, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 7, mc.StudentGrade)
	assert.Equal(t, "Maya", mc.StudentName)
	assert.Empty(t, mc.PathSummary)
	assert.Nil(t, mc.ProgressStats)
	assert.Empty(t, mc.StrugglingTopics)
	assert.Empty(t, LearningContext(mc))
}

func TestContextBuilder_PathAndContent(t *testing.T) {
	f := newFixture(t)
	st := f.student(t, "Omar", 9)
	sub := f.subject(t, "Mathematics - Algebra")
	contents := f.contents(t, sub.ID, "Variables", "Equations", "Graphs", "Slopes")
	path, _ := f.path(t, st, sub, contents)
	ctx := context.Background()

	_, err := f.progress.ApplyAssessmentResult(ctx, st.ID, path.ID, contents[0].ID, 92, true)
	require.NoError(t, err)
	_, err = f.progress.ApplyAssessmentResult(ctx, st.ID, path.ID, contents[1].ID, 45, false)
	require.NoError(t, err)
	rows, err := f.progressRepo.ListForPath(st.ID, path.ID)
	require.NoError(t, err)
	_, err = f.progress.ApplyManualUpdate(ctx, rows[2].ID, ProgressUpdate{
		Status:       statusPtr(model.ProgressInProgress),
		MasteryLevel: floatPtr(70),
	})
	require.NoError(t, err)

	full, err := f.pathRepo.FindByID(path.ID)
	require.NoError(t, err)
	mc, err := f.contexts.Build(st, full, &contents[3])
	require.NoError(t, err)

	assert.Equal(t, "Mathematics - Algebra", mc.Subject)
	assert.Equal(t, model.DifficultyBeginner, mc.Difficulty)
	assert.Equal(t, "The student is working on: 'Algebra Foundations' (Completion: 25%)", mc.PathSummary)
	require.NotNil(t, mc.ProgressStats)
	assert.Equal(t, 1, mc.ProgressStats.CompletedCount)
	assert.Equal(t, 1, mc.ProgressStats.InProgressCount)
	assert.Equal(t, 4, mc.ProgressStats.RecordCount)
	assert.Equal(t, 51.75, mc.ProgressStats.AverageMastery)
	assert.Equal(t, []string{"Equations", "Slopes"}, mc.StrugglingTopics)
	assert.Equal(t, []string{"Variables"}, mc.StrongTopics)
	assert.Equal(t, "Slopes", mc.CurrentContent)
	assert.Equal(t, model.ContentTypeLesson, mc.ContentType)

	assert.Equal(t,
		"The student is working on: 'Algebra Foundations' (Completion: 25%) "+
			"Progress: 1 items completed, 1 in progress. Average mastery: 52%. "+
			"Areas needing support: Equations, Slopes. "+
			"Strong areas: Variables. "+
			"The student is currently viewing: 'Slopes' (lesson). Focus your help on this specific content.",
		LearningContext(mc))
}

func TestContextBuilder_TopicsCappedAtThree(t *testing.T) {
	f := newFixture(t)
	st := f.student(t, "Ken", 9)
	sub := f.subject(t, "Algebra")
	contents := f.contents(t, sub.ID, "A1", "A2", "A3", "A4", "A5")
	path, _ := f.path(t, st, sub, contents)

	full, err := f.pathRepo.FindByID(path.ID)
	require.NoError(t, err)
	mc, err := f.contexts.Build(st, full, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"A1", "A2", "A3"}, mc.StrugglingTopics)
	assert.Empty(t, mc.StrongTopics)
	assert.Equal(t, 0.0, mc.ProgressStats.AverageMastery)

	ctx := context.Background()
	for _, c := range contents {
		_, err := f.progress.ApplyAssessmentResult(ctx, st.ID, path.ID, c.ID, 95, true)
		require.NoError(t, err)
	}
	mc, err = f.contexts.Build(st, full, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"A1", "A2", "A3"}, mc.StrongTopics)
	assert.Empty(t, mc.StrugglingTopics)
}

func TestContextBuilder_Deterministic(t *testing.T) {
	f := newFixture(t)
	st := f.student(t, "Lia", 9)
	sub := f.subject(t, "Algebra")
	contents := f.contents(t, sub.ID, "Variables", "Equations", "Graphs")
	path, _ := f.path(t, st, sub, contents)
	_, err := f.progress.ApplyAssessmentResult(context.Background(), st.ID, path.ID, contents[1].ID, 81, true)
	require.NoError(t, err)

	full, err := f.pathRepo.FindByID(path.ID)
	require.NoError(t, err)

	first, err := f.contexts.Build(st, full, &contents[0])
	require.NoError(t, err)
	second, err := f.contexts.Build(st, full, &contents[0])
	require.NoError(t, err)

	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
	assert.Equal(t, BuildSystemPrompt("", first), BuildSystemPrompt("", second))
}
