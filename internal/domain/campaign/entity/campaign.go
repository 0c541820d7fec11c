package entity

import (
	"time"
)

// CampaignStatus represents the lifecycle state of a campaign
type CampaignStatus string

const (
	CampaignStatusDraft    CampaignStatus = "draft"
	CampaignStatusApproved CampaignStatus = "approved"
	CampaignStatusPosted   CampaignStatus = "posted"
	CampaignStatusFailed   CampaignStatus = "failed"
)

// Campaign is a bait-and-hook content pair generated for one product.
// The bait is the public post, the hook is the steering comment that
// carries the affiliate link.
type Campaign struct {
	ID             string         `json:"id"`
	BaitContent    string         `json:"bait_content"`
	HookComment    string         `json:"hook_comment"`
	ProductName    string         `json:"product_name"`
	ProductLink    string         `json:"product_link"`
	ShortenedLink  string         `json:"shortened_link"`
	PagePersona    string         `json:"page_persona"`
	SourceThreadID string         `json:"source_thread_id"`
	Status         CampaignStatus `json:"status"`
	PostID         string         `json:"post_id"`
	SuggestedImage string         `json:"suggested_image"`
	CreatedAt      time.Time      `json:"created_at"`
	PostedAt       *time.Time     `json:"posted_at,omitempty"`
	ErrorMsg       string         `json:"error_msg"`
}

// IsValidStatus reports whether s is a known campaign status
func IsValidStatus(s CampaignStatus) bool {
	switch s {
	case CampaignStatusDraft, CampaignStatusApproved, CampaignStatusPosted, CampaignStatusFailed:
		return true
	default:
		return false
	}
}

// CanTransition reports whether a status change is legal.
// Allowed: draft -> approved -> posted, and any -> failed. A posted
// campaign may still fail later (the post taken down); failed is
// terminal, and a campaign is never resurrected to draft.
func CanTransition(from, to CampaignStatus) bool {
	if from == to {
		return false
	}
	if to == CampaignStatusFailed {
		return true
	}
	switch from {
	case CampaignStatusDraft:
		return to == CampaignStatusApproved
	case CampaignStatusApproved:
		return to == CampaignStatusPosted
	default:
		return false
	}
}

// IsTerminal reports whether the status allows no further transitions
func (c *Campaign) IsTerminal() bool {
	return c.Status == CampaignStatusFailed
}
