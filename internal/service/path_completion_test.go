package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompletionPercentage(t *testing.T) {
	assert.Equal(t, 0.0, completionPercentage(0, 0))
	assert.Equal(t, 0.0, completionPercentage(3, 0))
	assert.Equal(t, 66.67, completionPercentage(2, 3))
	assert.Equal(t, 33.33, completionPercentage(1, 3))
	assert.Equal(t, 100.0, completionPercentage(4, 4))
}

func TestPathCompletion_TwoOfThree(t *testing.T) {
	f := newFixture(t)
	st := f.student(t, "Sam", 9)
	sub := f.subject(t, "Algebra")
	contents := f.contents(t, sub.ID, "Variables", "Equations", "Graphs")
	path, _ := f.path(t, st, sub, contents)
	ctx := context.Background()

	pct, err := f.completion.Percentage(path.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, pct)

	previous := pct
	for _, c := range contents[:2] {
		_, err := f.progress.ApplyAssessmentResult(ctx, st.ID, path.ID, c.ID, 90, true)
		require.NoError(t, err)

		pct, err = f.completion.Percentage(path.ID)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, pct, previous)
		previous = pct
	}
	assert.Equal(t, 66.67, pct)

	got, err := f.paths.Get(path.ID)
	require.NoError(t, err)
	assert.Equal(t, 66.67, got.CompletionPercentage)
}

func TestPathCompletion_EmptyPath(t *testing.T) {
	f := newFixture(t)
	pct, err := f.completion.Percentage(12345)
	require.NoError(t, err)
	assert.Equal(t, 0.0, pct)
}
