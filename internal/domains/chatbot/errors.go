package chatbot

import "errors"

var (
	ErrQueryRequired = errors.New("query is required")
	// ErrUpstream hides provider failures from callers; details are logged.
	ErrUpstream = errors.New("assistant is unavailable right now")
)
