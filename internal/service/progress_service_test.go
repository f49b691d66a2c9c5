package service

import (
	"context"
	"errors"
	"lxp_backend/internal/model"
	"lxp_backend/internal/util"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManualUpdate_StampsStartedAtOnce(t *testing.T) {
	f := newFixture(t)
	st := f.student(t, "Mia", 9)
	sub := f.subject(t, "Algebra")
	_, rows := f.path(t, st, sub, f.contents(t, sub.ID, "Variables"))
	ctx := context.Background()

	first, err := f.progress.ApplyManualUpdate(ctx, rows[0].ID, ProgressUpdate{Status: statusPtr(model.ProgressInProgress)})
	require.NoError(t, err)
	require.NotNil(t, first.StartedAt)
	assert.True(t, first.StartedAt.Equal(f.clock))

	f.clock = f.clock.Add(time.Hour)
	second, err := f.progress.ApplyManualUpdate(ctx, rows[0].ID, ProgressUpdate{
		Status:           statusPtr(model.ProgressInProgress),
		TimeSpentMinutes: intPtr(25),
	})
	require.NoError(t, err)
	require.NotNil(t, second.StartedAt)
	assert.True(t, second.StartedAt.Equal(*first.StartedAt), "started_at must not move")
	assert.Equal(t, 25, second.TimeSpentMinutes)
	requireInvariant(t, second)
}

func TestManualUpdate_PartialFieldsKeepExistingValues(t *testing.T) {
	f := newFixture(t)
	st := f.student(t, "Leo", 9)
	sub := f.subject(t, "Algebra")
	_, rows := f.path(t, st, sub, f.contents(t, sub.ID, "Variables"))
	ctx := context.Background()

	_, err := f.progress.ApplyManualUpdate(ctx, rows[0].ID, ProgressUpdate{
		Status:               statusPtr(model.ProgressInProgress),
		CompletionPercentage: floatPtr(40),
		MasteryLevel:         floatPtr(55),
		Score:                floatPtr(61),
	})
	require.NoError(t, err)

	p, err := f.progress.ApplyManualUpdate(ctx, rows[0].ID, ProgressUpdate{TimeSpentMinutes: intPtr(10)})
	require.NoError(t, err)
	assert.Equal(t, model.ProgressInProgress, p.Status)
	assert.Equal(t, 40.0, p.CompletionPercentage)
	assert.Equal(t, 55.0, p.MasteryLevel)
	require.NotNil(t, p.Score)
	assert.Equal(t, 61.0, *p.Score)
	assert.Equal(t, 10, p.TimeSpentMinutes)
}

func TestManualUpdate_CompletedIsTerminal(t *testing.T) {
	f := newFixture(t)
	st := f.student(t, "Ava", 9)
	sub := f.subject(t, "Algebra")
	_, rows := f.path(t, st, sub, f.contents(t, sub.ID, "Variables"))
	ctx := context.Background()
	id := rows[0].ID

	_, err := f.progress.ApplyManualUpdate(ctx, id, ProgressUpdate{Status: statusPtr(model.ProgressCompleted)})
	assert.True(t, errors.Is(err, util.ErrValidation), "not_started cannot jump to completed")

	_, err = f.progress.ApplyManualUpdate(ctx, id, ProgressUpdate{Status: statusPtr(model.ProgressInProgress)})
	require.NoError(t, err)

	done, err := f.progress.ApplyManualUpdate(ctx, id, ProgressUpdate{Status: statusPtr(model.ProgressCompleted)})
	require.NoError(t, err)
	assert.Equal(t, 100.0, done.CompletionPercentage)
	require.NotNil(t, done.CompletedAt)
	requireInvariant(t, done)

	_, err = f.progress.ApplyManualUpdate(ctx, id, ProgressUpdate{Status: statusPtr(model.ProgressInProgress)})
	assert.True(t, errors.Is(err, util.ErrValidation))

	_, err = f.progress.ApplyManualUpdate(ctx, id, ProgressUpdate{CompletionPercentage: floatPtr(50)})
	assert.True(t, errors.Is(err, util.ErrValidation))

	again, err := f.progress.ApplyManualUpdate(ctx, id, ProgressUpdate{Notes: strPtr("reviewed")})
	require.NoError(t, err)
	require.NotNil(t, again.CompletedAt)
	assert.True(t, again.CompletedAt.Equal(*done.CompletedAt))
	requireInvariant(t, again)
}

func TestManualUpdate_Validation(t *testing.T) {
	f := newFixture(t)
	st := f.student(t, "Noah", 9)
	sub := f.subject(t, "Algebra")
	_, rows := f.path(t, st, sub, f.contents(t, sub.ID, "Variables"))
	ctx := context.Background()
	id := rows[0].ID

	cases := []ProgressUpdate{
		{CompletionPercentage: floatPtr(101)},
		{MasteryLevel: floatPtr(-1)},
		{Score: floatPtr(120)},
		{TimeSpentMinutes: intPtr(-5)},
		{Status: statusPtr("archived")},
		{Status: statusPtr(model.ProgressInProgress), CompletionPercentage: floatPtr(100)},
	}
	for i, c := range cases {
		_, err := f.progress.ApplyManualUpdate(ctx, id, c)
		assert.True(t, errors.Is(err, util.ErrValidation), "case %d", i)
	}

	_, err := f.progress.ApplyManualUpdate(ctx, 9999, ProgressUpdate{})
	assert.True(t, errors.Is(err, util.ErrProgressNotFound))

	p, err := f.progress.GetByID(id)
	require.NoError(t, err)
	assert.Equal(t, model.ProgressNotStarted, p.Status)
	assert.Nil(t, p.StartedAt)
}

func TestApplyAssessmentResult(t *testing.T) {
	f := newFixture(t)
	st := f.student(t, "Zoe", 9)
	sub := f.subject(t, "Algebra")
	contents := f.contents(t, sub.ID, "Variables", "Equations")
	path, rows := f.path(t, st, sub, contents)
	ctx := context.Background()

	failed, err := f.progress.ApplyAssessmentResult(ctx, st.ID, path.ID, contents[0].ID, 50, false)
	require.NoError(t, err)
	assert.Equal(t, model.ProgressNeedsReview, failed.Status)
	assert.Equal(t, 50.0, failed.MasteryLevel)
	require.NotNil(t, failed.Score)
	assert.Equal(t, 50.0, *failed.Score)
	requireInvariant(t, failed)

	passed, err := f.progress.ApplyAssessmentResult(ctx, st.ID, path.ID, contents[0].ID, 90, true)
	require.NoError(t, err)
	assert.Equal(t, rows[0].ID, passed.ID)
	assert.Equal(t, model.ProgressCompleted, passed.Status)
	assert.Equal(t, 100.0, passed.CompletionPercentage)
	assert.Equal(t, 90.0, passed.MasteryLevel)
	requireInvariant(t, passed)

	retake, err := f.progress.ApplyAssessmentResult(ctx, st.ID, path.ID, contents[0].ID, 40, false)
	require.NoError(t, err)
	assert.Equal(t, model.ProgressCompleted, retake.Status)
	assert.Equal(t, 40.0, retake.MasteryLevel)
	requireInvariant(t, retake)

	var count int64
	require.NoError(t, f.db.Model(&model.Progress{}).Where("learning_path_id = ?", path.ID).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestApplyAssessmentResult_MissingProgressIsNoop(t *testing.T) {
	f := newFixture(t)
	st := f.student(t, "Eli", 9)
	sub := f.subject(t, "Algebra")
	contents := f.contents(t, sub.ID, "Variables", "Untracked")
	path, _ := f.path(t, st, sub, contents[:1])

	p, err := f.progress.ApplyAssessmentResult(context.Background(), st.ID, path.ID, contents[1].ID, 95, true)
	require.NoError(t, err)
	assert.Nil(t, p)

	var count int64
	require.NoError(t, f.db.Model(&model.Progress{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestProgressInvariantAcrossMixedUpdates(t *testing.T) {
	f := newFixture(t)
	st := f.student(t, "Ivy", 9)
	sub := f.subject(t, "Algebra")
	contents := f.contents(t, sub.ID, "Variables")
	path, rows := f.path(t, st, sub, contents)
	ctx := context.Background()
	id := rows[0].ID

	steps := []func() (*model.Progress, error){
		func() (*model.Progress, error) {
			return f.progress.ApplyManualUpdate(ctx, id, ProgressUpdate{Status: statusPtr(model.ProgressInProgress), CompletionPercentage: floatPtr(30)})
		},
		func() (*model.Progress, error) {
			return f.progress.ApplyAssessmentResult(ctx, st.ID, path.ID, contents[0].ID, 20, false)
		},
		func() (*model.Progress, error) {
			return f.progress.ApplyManualUpdate(ctx, id, ProgressUpdate{Status: statusPtr(model.ProgressInProgress), CompletionPercentage: floatPtr(80)})
		},
		func() (*model.Progress, error) {
			return f.progress.ApplyManualUpdate(ctx, id, ProgressUpdate{Status: statusPtr(model.ProgressCompleted)})
		},
		func() (*model.Progress, error) {
			return f.progress.ApplyAssessmentResult(ctx, st.ID, path.ID, contents[0].ID, 85, true)
		},
	}
	for _, step := range steps {
		p, err := step()
		require.NoError(t, err)
		requireInvariant(t, p)

		stored, err := f.progress.GetByID(id)
		require.NoError(t, err)
		requireInvariant(t, stored)
	}
}
