// Package policy implements the auto-posting cycle: one due check, one
// campaign, one platform, one persisted reschedule.
package policy

import (
	"context"
	"log/slog"
	"math/rand"
	"time"

	campaignentity "github.com/hoangnm/baithook/internal/domain/campaign/entity"
	"github.com/hoangnm/baithook/internal/domain/publisher/dao"
	"github.com/hoangnm/baithook/internal/domain/publisher/entity"
	"github.com/hoangnm/baithook/internal/httpx/upstream/poster"
)

// facebookShare is the probability a cycle targets Facebook; the rest go to
// Threads.
const facebookShare = 0.60

// PublisherState defines the publisher-side state operations the cycle needs
type PublisherState interface {
	GetStatus(ctx context.Context) (*entity.PublisherStatus, error)
	SetStatus(ctx context.Context, p dao.StatusPatch) (*entity.PublisherStatus, error)
	AddPostLog(ctx context.Context, e entity.PostLogEntry) (*entity.PostLogEntry, error)
	IncrementCounter(ctx context.Context, field string, amount float64) (*entity.LiveCounters, error)
}

// CampaignQueue defines the campaign operations the cycle needs
type CampaignQueue interface {
	NextApproved(ctx context.Context) (*campaignentity.Campaign, error)
	MarkPosted(ctx context.Context, id string, postID string) error
	MarkFailed(ctx context.Context, id string, errorMsg string) error
}

// SocialPoster defines the interface for the external posting service
type SocialPoster interface {
	Publish(ctx context.Context, in poster.PublishInput) (*poster.PublishOutput, error)
}

// AutoPoster runs due post cycles. It is the single writer of next_post_at;
// dashboard viewers only ever read it.
type AutoPoster struct {
	state     PublisherState
	campaigns CampaignQueue
	poster    SocialPoster
	logger    *slog.Logger
	minDelay  time.Duration
	maxDelay  time.Duration
}

// NewAutoPoster creates a new auto-posting policy
func NewAutoPoster(state PublisherState, campaigns CampaignQueue, p SocialPoster, logger *slog.Logger, minDelay, maxDelay time.Duration) *AutoPoster {
	if maxDelay <= minDelay {
		maxDelay = minDelay + time.Second
	}
	return &AutoPoster{
		state:     state,
		campaigns: campaigns,
		poster:    p,
		logger:    logger,
		minDelay:  minDelay,
		maxDelay:  maxDelay,
	}
}

// ProcessDuePost runs one cycle when auto mode is on and the persisted fire
// time has passed. Whatever the outcome of the post attempt, the next fire
// time is persisted before returning, so the countdown survives restarts.
func (p *AutoPoster) ProcessDuePost(ctx context.Context) error {
	status, err := p.state.GetStatus(ctx)
	if err != nil {
		return err
	}

	now := time.Now()
	if !status.AutoMode || now.UnixMilli() < status.NextPostAt {
		return nil
	}

	platform := pickPlatform(rand.Float64())

	camp, err := p.campaigns.NextApproved(ctx)
	if err != nil {
		return err
	}

	posted := false
	if camp == nil {
		p.logger.Info("no approved campaign, skipping post cycle", "platform", platform)
	} else {
		posted = p.post(ctx, platform, camp)
	}

	patch := dao.StatusPatch{NextPostAt: int64Ptr(p.nextFireAt(now))}
	if posted {
		// Single-writer increment; the scheduler owns these fields.
		switch platform {
		case entity.PlatformFacebook:
			patch.FBPostsToday = intPtr(status.FBPostsToday + 1)
		case entity.PlatformThreads:
			patch.THPostsToday = intPtr(status.THPostsToday + 1)
		}
	}

	_, err = p.state.SetStatus(ctx, patch)
	return err
}

// post attempts one campaign on one platform and records the outcome.
// Returns true when the post went out.
func (p *AutoPoster) post(ctx context.Context, platform entity.Platform, camp *campaignentity.Campaign) bool {
	out, err := p.poster.Publish(ctx, poster.PublishInput{
		Platform: string(platform),
		Message:  camp.BaitContent,
		Comment:  camp.HookComment,
		ImageURL: camp.SuggestedImage,
	})
	if err != nil {
		p.logger.Error("posting campaign", "campaign_id", camp.ID, "platform", platform, "error", err)

		if err := p.campaigns.MarkFailed(ctx, camp.ID, err.Error()); err != nil {
			p.logger.Error("marking campaign failed", "campaign_id", camp.ID, "error", err)
		}
		p.appendLog(ctx, platform, camp, entity.PostResultError, err.Error())
		return false
	}

	if err := p.campaigns.MarkPosted(ctx, camp.ID, out.PostID); err != nil {
		p.logger.Error("marking campaign posted", "campaign_id", camp.ID, "error", err)
	}
	p.appendLog(ctx, platform, camp, entity.PostResultSuccess, camp.HookComment)

	if _, err := p.state.IncrementCounter(ctx, entity.CounterTotalPosts, 1); err != nil {
		p.logger.Error("incrementing total posts", "error", err)
	}

	p.logger.Info("campaign posted", "campaign_id", camp.ID, "platform", platform, "post_id", out.PostID)
	return true
}

func (p *AutoPoster) appendLog(ctx context.Context, platform entity.Platform, camp *campaignentity.Campaign, result entity.PostResult, comment string) {
	_, err := p.state.AddPostLog(ctx, entity.PostLogEntry{
		Platform:   platform,
		Text:       camp.BaitContent,
		Result:     result,
		Comment:    comment,
		CampaignID: camp.ID,
	})
	if err != nil {
		p.logger.Error("appending post log", "campaign_id", camp.ID, "error", err)
	}
}

// nextFireAt picks a uniform delay in [minDelay, maxDelay) from now,
// in unix milliseconds.
func (p *AutoPoster) nextFireAt(now time.Time) int64 {
	spread := p.maxDelay - p.minDelay
	delay := p.minDelay + time.Duration(rand.Int63n(int64(spread)))
	return now.Add(delay).UnixMilli()
}

// pickPlatform maps a uniform [0,1) sample to a platform with the
// Facebook-heavy weighting.
func pickPlatform(sample float64) entity.Platform {
	if sample < facebookShare {
		return entity.PlatformFacebook
	}
	return entity.PlatformThreads
}

func int64Ptr(v int64) *int64 { return &v }
func intPtr(v int) *int       { return &v }
