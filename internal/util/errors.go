package util

import "errors"

var (
	ErrStudentNotFound      = errors.New("student not found")
	ErrSubjectNotFound      = errors.New("subject not found")
	ErrContentNotFound      = errors.New("content not found")
	ErrLearningPathNotFound = errors.New("learning path not found")
	ErrAssessmentNotFound   = errors.New("assessment not found")
	ErrProgressNotFound     = errors.New("progress record not found")
	ErrSessionNotFound      = errors.New("mentor session not found")

	// ErrValidation 输入校验失败，调用方用 %w 包装具体原因
	ErrValidation = errors.New("validation failed")
)
