package entity

import "errors"

// Domain errors for affiliate links
var (
	ErrLinkNotFound = errors.New("affiliate link not found")
	ErrEmptyName    = errors.New("link name is required")
	ErrEmptyURL     = errors.New("original URL is required")
	ErrNoLinks      = errors.New("no affiliate links registered")
)
