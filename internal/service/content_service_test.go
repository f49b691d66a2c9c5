package service

import (
	"bytes"
	"context"
	"errors"
	"lxp_backend/internal/model"
	"lxp_backend/internal/util"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContentService(t *testing.T, f *fixture) (*ContentService, string) {
	t.Helper()
	root := t.TempDir()
	svc := NewContentService(f.contentRepo, &LocalStore{Root: root})
	svc.Probe = func(path string) (float64, error) { return 125, nil }
	return svc, root
}

func TestUploadAttachment_Text(t *testing.T) {
	f := newFixture(t)
	svc, root := newContentService(t, f)
	sub := f.subject(t, "Algebra")
	c := f.contents(t, sub.ID, "Variables")[0]

	updated, err := svc.UploadAttachment(context.Background(), c.ID, "notes.txt", strings.NewReader("x stands for an unknown number"))
	require.NoError(t, err)
	require.Len(t, updated.FileAttachments, 1)

	a := updated.FileAttachments[0]
	assert.Equal(t, "notes.txt", a.Name)
	assert.True(t, strings.HasPrefix(a.MimeType, util.MimeText))
	assert.True(t, strings.HasPrefix(a.URL, "/uploads/contents/"))
	assert.Zero(t, a.DurationSeconds)

	stored, err := os.ReadFile(filepath.Join(root, strings.TrimPrefix(a.URL, "/uploads/")))
	require.NoError(t, err)
	assert.Equal(t, "x stands for an unknown number", string(stored))

	reloaded, err := svc.Get(c.ID)
	require.NoError(t, err)
	assert.Len(t, reloaded.FileAttachments, 1)
}

func TestUploadAttachment_VideoSetsDuration(t *testing.T) {
	f := newFixture(t)
	svc, _ := newContentService(t, f)
	sub := f.subject(t, "Algebra")
	c := f.contents(t, sub.ID, "Graphing walkthrough")[0]

	webm := append([]byte{0x1A, 0x45, 0xDF, 0xA3}, bytes.Repeat([]byte{0}, 64)...)
	updated, err := svc.UploadAttachment(context.Background(), c.ID, "walkthrough.webm", bytes.NewReader(webm))
	require.NoError(t, err)

	assert.Equal(t, 125.0, updated.FileAttachments[0].DurationSeconds)
	assert.Equal(t, 3, updated.EstimatedDurationMinutes)
}

func TestUploadAttachment_Rejects(t *testing.T) {
	f := newFixture(t)
	svc, _ := newContentService(t, f)
	sub := f.subject(t, "Algebra")
	c := f.contents(t, sub.ID, "Variables")[0]

	_, err := svc.UploadAttachment(context.Background(), c.ID, "tool.exe", bytes.NewReader([]byte{0x4d, 0x5a, 0x90, 0x00, 0x03, 0x00}))
	assert.True(t, errors.Is(err, util.ErrValidation))

	_, err = svc.UploadAttachment(context.Background(), 999, "notes.txt", strings.NewReader("hi"))
	assert.True(t, errors.Is(err, util.ErrContentNotFound))
}

func TestCreateContent(t *testing.T) {
	f := newFixture(t)
	svc, _ := newContentService(t, f)
	sub := f.subject(t, "Algebra")

	c, err := svc.Create(CreateContentRequest{
		SubjectID:       sub.ID,
		Title:           "Slope",
		ContentType:     model.ContentTypeVideo,
		DifficultyLevel: model.DifficultyIntermediate,
	})
	require.NoError(t, err)
	assert.NotZero(t, c.ID)

	_, err = svc.Create(CreateContentRequest{SubjectID: sub.ID, Title: "Bad", ContentType: "podcast", DifficultyLevel: model.DifficultyBeginner})
	assert.True(t, errors.Is(err, util.ErrValidation))

	_, err = svc.Create(CreateContentRequest{SubjectID: 999, Title: "Orphan", ContentType: model.ContentTypeLesson, DifficultyLevel: model.DifficultyBeginner})
	assert.True(t, errors.Is(err, util.ErrSubjectNotFound))

	list, total, err := svc.List(sub.ID, model.DifficultyIntermediate, "", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "Slope", list[0].Title)

	_, _, err = svc.List(0, "expert", "", 1, 10)
	assert.True(t, errors.Is(err, util.ErrValidation))
}
