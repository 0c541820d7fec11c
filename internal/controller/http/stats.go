package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	campaignentity "github.com/hoangnm/baithook/internal/domain/campaign/entity"
	threadentity "github.com/hoangnm/baithook/internal/domain/thread/entity"
	"github.com/hoangnm/baithook/internal/httpx/response"
)

// ThreadCounter counts stored threads for the dashboard
type ThreadCounter interface {
	CountBySource(ctx context.Context, source string) (int64, error)
	CountAll(ctx context.Context) (int64, error)
}

// CampaignCounter counts campaigns by lifecycle stage
type CampaignCounter interface {
	CountByStatus(ctx context.Context, status campaignentity.CampaignStatus) (int64, error)
	CountAll(ctx context.Context) (int64, error)
}

// LinkCounter counts registered affiliate links
type LinkCounter interface {
	Count(ctx context.Context) (int64, error)
}

// StatsHandler aggregates dashboard counts across the domains. A store
// failure degrades to a zeroed payload with HTTP 200, so an empty store and
// an unreachable store render the same.
type StatsHandler struct {
	threads   ThreadCounter
	campaigns CampaignCounter
	links     LinkCounter
	logger    *slog.Logger
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(t ThreadCounter, c CampaignCounter, l LinkCounter, logger *slog.Logger) *StatsHandler {
	return &StatsHandler{threads: t, campaigns: c, links: l, logger: logger}
}

// RegisterRoutes registers stats routes
func (h *StatsHandler) RegisterRoutes(r chi.Router) {
	r.Get("/stats", h.Stats())
}

// CampaignStats is the per-status campaign breakdown
type CampaignStats struct {
	Total    int64 `json:"total"`
	Draft    int64 `json:"draft"`
	Approved int64 `json:"approved"`
	Posted   int64 `json:"posted"`
}

// StatsResponse is the dashboard summary payload
type StatsResponse struct {
	Voz          int64         `json:"voz"`
	Reddit       int64         `json:"reddit"`
	TotalThreads int64         `json:"total_threads"`
	Campaigns    CampaignStats `json:"campaigns"`
	Links        int64         `json:"links"`
}

// Stats handles GET /stats
func (h *StatsHandler) Stats() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := h.collect(r.Context())
		if err != nil {
			h.logger.Error("collecting stats", "error", err)
			response.OK(w, StatsResponse{})
			return
		}

		response.OK(w, *stats)
	}
}

func (h *StatsHandler) collect(ctx context.Context) (*StatsResponse, error) {
	voz, err := h.threads.CountBySource(ctx, threadentity.SourceVoz)
	if err != nil {
		return nil, err
	}
	reddit, err := h.threads.CountBySource(ctx, threadentity.SourceReddit)
	if err != nil {
		return nil, err
	}
	totalThreads, err := h.threads.CountAll(ctx)
	if err != nil {
		return nil, err
	}

	campTotal, err := h.campaigns.CountAll(ctx)
	if err != nil {
		return nil, err
	}
	draft, err := h.campaigns.CountByStatus(ctx, campaignentity.CampaignStatusDraft)
	if err != nil {
		return nil, err
	}
	approved, err := h.campaigns.CountByStatus(ctx, campaignentity.CampaignStatusApproved)
	if err != nil {
		return nil, err
	}
	posted, err := h.campaigns.CountByStatus(ctx, campaignentity.CampaignStatusPosted)
	if err != nil {
		return nil, err
	}

	links, err := h.links.Count(ctx)
	if err != nil {
		return nil, err
	}

	return &StatsResponse{
		Voz:          voz,
		Reddit:       reddit,
		TotalThreads: totalThreads,
		Campaigns: CampaignStats{
			Total:    campTotal,
			Draft:    draft,
			Approved: approved,
			Posted:   posted,
		},
		Links: links,
	}, nil
}
