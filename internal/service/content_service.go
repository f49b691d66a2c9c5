package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"lxp_backend/internal/model"
	"lxp_backend/internal/repository"
	"lxp_backend/internal/util"
	"lxp_backend/pkg/logger"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ContentService struct {
	Repo  *repository.ContentRepository
	Store AttachmentStore
	// Probe 读取视频时长（秒）
	Probe func(path string) (float64, error)
}

func NewContentService(repo *repository.ContentRepository, store AttachmentStore) *ContentService {
	return &ContentService{Repo: repo, Store: store, Probe: util.ProbeDuration}
}

func (s *ContentService) ListSubjects() ([]model.Subject, error) {
	return s.Repo.ListSubjects()
}

func (s *ContentService) GetSubject(id uint) (*model.Subject, error) {
	sub, err := s.Repo.FindSubjectByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrSubjectNotFound
		}
		return nil, err
	}
	return sub, nil
}

type CreateContentRequest struct {
	SubjectID                uint    `json:"subjectId" binding:"required"`
	Title                    string  `json:"title" binding:"required"`
	ContentType              string  `json:"contentType" binding:"required"`
	Description              string  `json:"description"`
	ContentBody              string  `json:"contentBody"`
	DifficultyLevel          string  `json:"difficultyLevel" binding:"required"`
	EstimatedDurationMinutes int     `json:"estimatedDurationMinutes"`
	ExternalURL              *string `json:"externalUrl"`
}

func (s *ContentService) Create(req CreateContentRequest) (*model.Content, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", util.ErrValidation)
	}
	if !model.IsValidContentType(req.ContentType) {
		return nil, fmt.Errorf("%w: unknown content type %q", util.ErrValidation, req.ContentType)
	}
	if !model.IsValidDifficulty(req.DifficultyLevel) {
		return nil, fmt.Errorf("%w: unknown difficulty %q", util.ErrValidation, req.DifficultyLevel)
	}
	if req.EstimatedDurationMinutes < 0 {
		return nil, fmt.Errorf("%w: estimatedDurationMinutes must not be negative", util.ErrValidation)
	}
	if _, err := s.GetSubject(req.SubjectID); err != nil {
		return nil, err
	}

	c := &model.Content{
		SubjectID:                req.SubjectID,
		Title:                    req.Title,
		ContentType:              req.ContentType,
		Description:              req.Description,
		ContentBody:              req.ContentBody,
		DifficultyLevel:          req.DifficultyLevel,
		EstimatedDurationMinutes: req.EstimatedDurationMinutes,
		ExternalURL:              req.ExternalURL,
		FileAttachments:          []model.ContentAttachment{},
	}
	if err := s.Repo.Create(c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *ContentService) Get(id uint) (*model.Content, error) {
	c, err := s.Repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrContentNotFound
		}
		return nil, err
	}
	return c, nil
}

func (s *ContentService) List(subjectID uint, difficulty, contentType string, page, limit int) ([]model.Content, int64, error) {
	if difficulty != "" && !model.IsValidDifficulty(difficulty) {
		return nil, 0, fmt.Errorf("%w: unknown difficulty %q", util.ErrValidation, difficulty)
	}
	return s.Repo.List(subjectID, difficulty, contentType, page, limit)
}

// UploadAttachment 先落临时文件校验类型，视频附件顺带读取时长
func (s *ContentService) UploadAttachment(ctx context.Context, contentID uint, filename string, r io.Reader) (*model.Content, error) {
	content, err := s.Get(contentID)
	if err != nil {
		return nil, err
	}

	tmp, err := os.CreateTemp("", "lxp-upload-*"+filepath.Ext(filename))
	if err != nil {
		return nil, err
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	size, err := io.Copy(tmp, io.LimitReader(r, util.MaxAttachmentSize+1))
	if err != nil {
		return nil, err
	}
	if size > util.MaxAttachmentSize {
		return nil, fmt.Errorf("%w: attachment exceeds %d bytes", util.ErrValidation, util.MaxAttachmentSize)
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	mimeType, err := util.ValidateMimeType(tmp, util.AllowedAttachmentTypes)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrValidation, err)
	}

	attachment := model.ContentAttachment{
		Name:     filepath.Base(filename),
		MimeType: mimeType,
		Size:     size,
	}
	if util.IsVideo(mimeType) || util.IsVideoFile(filename) {
		if seconds, err := s.Probe(tmp.Name()); err != nil {
			logger.Log.Warn("Failed to probe video duration", zap.String("file", filename), zap.Error(err))
		} else {
			attachment.DurationSeconds = seconds
			if content.EstimatedDurationMinutes == 0 {
				content.EstimatedDurationMinutes = util.DurationMinutes(seconds)
			}
		}
	}

	url, err := s.Store.PutFile(ctx, attachmentKey(content.ID, filename), tmp.Name(), mimeType)
	if err != nil {
		return nil, err
	}
	attachment.URL = url

	content.FileAttachments = append(content.FileAttachments, attachment)
	content.Subject = nil
	if err := s.Repo.Update(content); err != nil {
		return nil, err
	}
	return content, nil
}
