package blog

import "errors"

var (
	ErrPostNotFound    = errors.New("blog post not found")
	ErrSlugConflict    = errors.New("a post with this slug already exists")
	ErrImageRejected   = errors.New("featured image rejected")
	ErrStorageDisabled = errors.New("object storage is not configured")
)
