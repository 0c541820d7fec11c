package dao

import (
	"context"
	"time"

	"github.com/hoangnm/baithook/internal/domain/campaign/entity"
)

// CampaignFilter contains filters for listing campaigns
type CampaignFilter struct {
	Status *entity.CampaignStatus
}

// ListOptions contains pagination options. Campaigns are always ordered by
// created_at descending.
type ListOptions struct {
	Limit  int
	Offset int
}

// CampaignRepository defines the interface for campaign data access
type CampaignRepository interface {
	// Create inserts a new campaign
	Create(ctx context.Context, c *entity.Campaign) error

	// GetByID retrieves a campaign by ID, nil when absent
	GetByID(ctx context.Context, id string) (*entity.Campaign, error)

	// List retrieves campaigns ordered by created_at descending
	List(ctx context.Context, filter CampaignFilter, opts ListOptions) ([]entity.Campaign, error)

	// Count returns the number of campaigns matching the filter
	Count(ctx context.Context, filter CampaignFilter) (int64, error)

	// UpdateStatus overwrites status and error message
	UpdateStatus(ctx context.Context, id string, status entity.CampaignStatus, errorMsg string) error

	// SetPosted marks a campaign as posted with the platform post ID
	SetPosted(ctx context.Context, id string, postID string, postedAt time.Time) error

	// OldestApproved returns the oldest campaign in approved status, nil when none
	OldestApproved(ctx context.Context) (*entity.Campaign, error)

	// Delete removes a campaign permanently
	Delete(ctx context.Context, id string) error
}
