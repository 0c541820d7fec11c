package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	campaignentity "github.com/hoangnm/baithook/internal/domain/campaign/entity"
	campaignsvc "github.com/hoangnm/baithook/internal/domain/campaign/service"
	threadentity "github.com/hoangnm/baithook/internal/domain/thread/entity"
	"github.com/hoangnm/baithook/internal/httpx/response"
	"github.com/hoangnm/baithook/internal/httpx/upstream/generator"
)

// ContentGenerator defines the interface for the external bait generation service
type ContentGenerator interface {
	Generate(ctx context.Context, in generator.GenerateInput) (*generator.GenerateOutput, error)
}

// AIThreadReader defines the thread operations AI generation needs
type AIThreadReader interface {
	Get(ctx context.Context, id string) (*threadentity.CrawledThread, error)
	MarkSentToAI(ctx context.Context, id string) error
}

// AILinkShortener shortens product links for generated campaigns
type AILinkShortener interface {
	Shorten(ctx context.Context, rawURL string) (string, string, error)
}

// AIHandler turns generation output into draft campaigns
type AIHandler struct {
	generator ContentGenerator
	campaigns CampaignService
	threads   AIThreadReader
	shortener AILinkShortener
	logger    *slog.Logger
}

// NewAIHandler creates a new AI generation handler
func NewAIHandler(g ContentGenerator, c CampaignService, t AIThreadReader, s AILinkShortener, logger *slog.Logger) *AIHandler {
	return &AIHandler{generator: g, campaigns: c, threads: t, shortener: s, logger: logger}
}

// RegisterRoutes registers AI generation routes
func (h *AIHandler) RegisterRoutes(r chi.Router) {
	r.Route("/ai", func(r chi.Router) {
		r.Post("/generate", h.Generate())
		r.Post("/generate-from-thread/{id}", h.GenerateFromThread())
	})
}

// GenerateCampaignRequest is the product brief for campaign generation
type GenerateCampaignRequest struct {
	ProductName string `json:"product_name"`
	ProductLink string `json:"product_link"`
	PagePersona string `json:"page_persona"`
}

// Generate handles POST /ai/generate
func (h *AIHandler) Generate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req GenerateCampaignRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.BadRequest(w, "invalid JSON")
			return
		}
		if req.ProductName == "" {
			response.BadRequest(w, "product_name is required")
			return
		}

		camp, err := h.createDraft(r.Context(), req, "", "")
		if err != nil {
			handleDomainError(w, err)
			return
		}

		response.Created(w, camp)
	}
}

// GenerateFromThread handles POST /ai/generate-from-thread/{id}
func (h *AIHandler) GenerateFromThread() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		var req GenerateCampaignRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.BadRequest(w, "invalid JSON")
			return
		}
		if req.ProductName == "" {
			response.BadRequest(w, "product_name is required")
			return
		}

		thread, err := h.threads.Get(r.Context(), id)
		if err != nil {
			handleDomainError(w, err)
			return
		}

		source := thread.Content
		if source == "" {
			source = thread.Title
		}

		camp, err := h.createDraft(r.Context(), req, thread.ID, source)
		if err != nil {
			handleDomainError(w, err)
			return
		}

		// Flag is one-way; a failure here does not undo the campaign.
		if err := h.threads.MarkSentToAI(r.Context(), id); err != nil {
			h.logger.Error("marking thread sent to AI", "thread_id", id, "error", err)
		}

		response.Created(w, camp)
	}
}

func (h *AIHandler) createDraft(ctx context.Context, req GenerateCampaignRequest, threadID, sourceContent string) (*campaignentity.Campaign, error) {
	out, err := h.generator.Generate(ctx, generator.GenerateInput{
		ProductName:   req.ProductName,
		ProductLink:   req.ProductLink,
		PagePersona:   req.PagePersona,
		SourceContent: sourceContent,
	})
	if err != nil {
		return nil, err
	}

	// Shortening is best-effort; a draft without a short link is still usable.
	shortened := ""
	if req.ProductLink != "" {
		if short, _, err := h.shortener.Shorten(ctx, req.ProductLink); err == nil {
			shortened = short
		}
	}

	return h.campaigns.Create(ctx, campaignsvc.CreateInput{
		BaitContent:    out.Bait,
		HookComment:    out.Hook,
		ProductName:    req.ProductName,
		ProductLink:    req.ProductLink,
		ShortenedLink:  shortened,
		PagePersona:    req.PagePersona,
		SourceThreadID: threadID,
		SuggestedImage: out.SuggestedImage,
	})
}
