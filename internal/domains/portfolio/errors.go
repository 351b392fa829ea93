package portfolio

import "errors"

var (
	ErrNotFound        = errors.New("portfolio entry not found")
	ErrProfileNotFound = errors.New("profile not created yet")
	ErrInvalidResume   = errors.New("resume must be a PDF of at most 10MB")
	ErrStorageDisabled = errors.New("object storage is not configured")
)
