package entity

import "errors"

// Domain errors for campaigns
var (
	ErrCampaignNotFound  = errors.New("campaign not found")
	ErrInvalidStatus     = errors.New("invalid campaign status")
	ErrIllegalTransition = errors.New("illegal campaign status transition")
	ErrEmptyProductName  = errors.New("product name is required")
)
