package entity

import "errors"

// Domain errors for the publisher
var (
	ErrUnknownCounterField = errors.New("unknown counter field")
	ErrInvalidPlatform     = errors.New("invalid platform")
)
