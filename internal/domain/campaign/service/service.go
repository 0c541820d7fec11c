package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hoangnm/baithook/internal/domain/campaign/dao"
	"github.com/hoangnm/baithook/internal/domain/campaign/entity"
	"github.com/hoangnm/baithook/internal/realtime"
)

// Service handles business logic for campaigns
type Service struct {
	campaigns dao.CampaignRepository
	broker    *realtime.Broker
}

// New creates a new campaign service. The broker may be nil when live
// snapshots are not needed.
func New(campaigns dao.CampaignRepository, broker *realtime.Broker) *Service {
	return &Service{
		campaigns: campaigns,
		broker:    broker,
	}
}

// CreateInput represents input for creating a campaign
type CreateInput struct {
	BaitContent    string
	HookComment    string
	ProductName    string
	ProductLink    string
	ShortenedLink  string
	PagePersona    string
	SourceThreadID string
	SuggestedImage string
	CreatedAt      time.Time
}

// Create stores a new draft campaign. The identity is generated here
// (camp-<hex12>, the format the rest of the pipeline expects).
func (s *Service) Create(ctx context.Context, in CreateInput) (*entity.Campaign, error) {
	if in.ProductName == "" {
		return nil, entity.ErrEmptyProductName
	}

	createdAt := in.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	c := &entity.Campaign{
		ID:             newCampaignID(),
		BaitContent:    in.BaitContent,
		HookComment:    in.HookComment,
		ProductName:    in.ProductName,
		ProductLink:    in.ProductLink,
		ShortenedLink:  in.ShortenedLink,
		PagePersona:    in.PagePersona,
		SourceThreadID: in.SourceThreadID,
		SuggestedImage: in.SuggestedImage,
		Status:         entity.CampaignStatusDraft,
		CreatedAt:      createdAt,
	}

	if err := s.campaigns.Create(ctx, c); err != nil {
		return nil, err
	}

	s.notify(ctx)
	return c, nil
}

// Get retrieves a campaign by ID
func (s *Service) Get(ctx context.Context, id string) (*entity.Campaign, error) {
	c, err := s.campaigns.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, entity.ErrCampaignNotFound
	}
	return c, nil
}

// ListInput represents input for listing campaigns
type ListInput struct {
	Status *entity.CampaignStatus
	Limit  int
	Offset int
}

// ListOutput represents output from listing campaigns
type ListOutput struct {
	Campaigns []entity.Campaign
	Total     int64
}

// List retrieves campaigns ordered newest-first
func (s *Service) List(ctx context.Context, in ListInput) (*ListOutput, error) {
	filter := dao.CampaignFilter{Status: in.Status}

	opts := dao.ListOptions{Limit: in.Limit, Offset: in.Offset}
	if opts.Limit == 0 {
		opts.Limit = 50
	}

	campaigns, err := s.campaigns.List(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	if campaigns == nil {
		// Empty stores serialize as [], never null.
		campaigns = []entity.Campaign{}
	}

	total, err := s.campaigns.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &ListOutput{Campaigns: campaigns, Total: total}, nil
}

// UpdateStatus moves a campaign to a new status, enforcing the lifecycle:
// draft -> approved -> posted, any -> failed.
func (s *Service) UpdateStatus(ctx context.Context, id string, status entity.CampaignStatus) (*entity.Campaign, error) {
	if !entity.IsValidStatus(status) {
		return nil, entity.ErrInvalidStatus
	}

	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !entity.CanTransition(c.Status, status) {
		return nil, entity.ErrIllegalTransition
	}

	if status == entity.CampaignStatusPosted {
		now := time.Now()
		if err := s.campaigns.SetPosted(ctx, id, c.PostID, now); err != nil {
			return nil, err
		}
	} else {
		if err := s.campaigns.UpdateStatus(ctx, id, status, c.ErrorMsg); err != nil {
			return nil, err
		}
	}

	s.notify(ctx)
	return s.Get(ctx, id)
}

// Approve moves a draft campaign to approved
func (s *Service) Approve(ctx context.Context, id string) (*entity.Campaign, error) {
	return s.UpdateStatus(ctx, id, entity.CampaignStatusApproved)
}

// MarkPosted records a successful post with the platform-assigned post ID
func (s *Service) MarkPosted(ctx context.Context, id string, postID string) error {
	c, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !entity.CanTransition(c.Status, entity.CampaignStatusPosted) {
		return entity.ErrIllegalTransition
	}

	if err := s.campaigns.SetPosted(ctx, id, postID, time.Now()); err != nil {
		return err
	}

	s.notify(ctx)
	return nil
}

// MarkFailed records a failed post with the error message
func (s *Service) MarkFailed(ctx context.Context, id string, errorMsg string) error {
	c, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !entity.CanTransition(c.Status, entity.CampaignStatusFailed) {
		return entity.ErrIllegalTransition
	}

	if err := s.campaigns.UpdateStatus(ctx, id, entity.CampaignStatusFailed, errorMsg); err != nil {
		return err
	}

	s.notify(ctx)
	return nil
}

// NextApproved returns the oldest approved campaign, nil when the queue is empty
func (s *Service) NextApproved(ctx context.Context) (*entity.Campaign, error) {
	return s.campaigns.OldestApproved(ctx)
}

// Delete removes a campaign permanently
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	if err := s.campaigns.Delete(ctx, id); err != nil {
		return err
	}

	s.notify(ctx)
	return nil
}

// CountByStatus returns the number of campaigns in one status
func (s *Service) CountByStatus(ctx context.Context, status entity.CampaignStatus) (int64, error) {
	return s.campaigns.Count(ctx, dao.CampaignFilter{Status: &status})
}

// CountAll returns the total number of campaigns
func (s *Service) CountAll(ctx context.Context) (int64, error) {
	return s.campaigns.Count(ctx, dao.CampaignFilter{})
}

// notify publishes the full ordered campaign set to live subscribers,
// mirroring the snapshot-per-change contract of the dashboard.
func (s *Service) notify(ctx context.Context) {
	if s.broker == nil {
		return
	}
	campaigns, err := s.campaigns.List(ctx, dao.CampaignFilter{}, dao.ListOptions{Limit: 200})
	if err != nil {
		return
	}
	_ = s.broker.Publish(realtime.TopicCampaigns, campaigns)
}

func newCampaignID() string {
	return "camp-" + strings.ReplaceAll(uuid.New().String(), "-", "")[:12]
}
