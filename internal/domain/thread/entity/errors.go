package entity

import "errors"

// Domain errors for crawled threads
var (
	ErrThreadNotFound = errors.New("thread not found")
	ErrEmptyThreadID  = errors.New("thread ID is required")
)
