package util

import "errors"

var (
	ErrEmailRegistered      = errors.New("email already registered")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrCourseNotFound       = errors.New("course not found")
	ErrLessonNotFound       = errors.New("lesson not found")
	ErrLessonTitleRequired  = errors.New("lesson name is required")
	ErrAttemptNotFound      = errors.New("attempt not found")
	ErrAttemptIndexRequired = errors.New("attempt index is required")
	ErrSubmissionNotFound   = errors.New("submission not found")
	ErrAttemptLimitExceeded = errors.New("attempt limit exceeded for this lesson")
	ErrAttemptConflict      = errors.New("conflicting attempt creation, please retry")
	ErrSubmissionExists     = errors.New("submission already exists for this attempt")
)
