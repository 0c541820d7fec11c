package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/hoangnm/baithook/internal/domain/campaign/entity"
	"github.com/hoangnm/baithook/internal/domain/campaign/service"
	"github.com/hoangnm/baithook/internal/httpx/response"
)

// CampaignService defines the interface for campaign operations
// Interface is defined by consumer (handler), not provider (service)
type CampaignService interface {
	Create(ctx context.Context, in service.CreateInput) (*entity.Campaign, error)
	Get(ctx context.Context, id string) (*entity.Campaign, error)
	List(ctx context.Context, in service.ListInput) (*service.ListOutput, error)
	UpdateStatus(ctx context.Context, id string, status entity.CampaignStatus) (*entity.Campaign, error)
	Approve(ctx context.Context, id string) (*entity.Campaign, error)
	Delete(ctx context.Context, id string) error
}

// CampaignHandler handles HTTP requests for campaigns
type CampaignHandler struct {
	campaigns CampaignService
}

// NewCampaignHandler creates a new campaign handler
func NewCampaignHandler(campaigns CampaignService) *CampaignHandler {
	return &CampaignHandler{campaigns: campaigns}
}

// RegisterRoutes registers campaign routes
func (h *CampaignHandler) RegisterRoutes(r chi.Router) {
	r.Route("/campaigns", func(r chi.Router) {
		r.Post("/", h.Create())
		r.Get("/", h.List())
		r.Get("/{id}", h.Get())
		r.Patch("/{id}", h.UpdateStatus())
		r.Delete("/{id}", h.Delete())
		r.Post("/{id}/approve", h.Approve())
	})
}

// CreateCampaignRequest represents the request body for creating a campaign
type CreateCampaignRequest struct {
	BaitContent    string `json:"bait_content"`
	HookComment    string `json:"hook_comment"`
	ProductName    string `json:"product_name"`
	ProductLink    string `json:"product_link"`
	ShortenedLink  string `json:"shortened_link"`
	PagePersona    string `json:"page_persona"`
	SourceThreadID string `json:"source_thread_id"`
	SuggestedImage string `json:"suggested_image"`
}

// Create handles POST /campaigns
func (h *CampaignHandler) Create() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateCampaignRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.BadRequest(w, "invalid JSON")
			return
		}

		camp, err := h.campaigns.Create(r.Context(), service.CreateInput{
			BaitContent:    req.BaitContent,
			HookComment:    req.HookComment,
			ProductName:    req.ProductName,
			ProductLink:    req.ProductLink,
			ShortenedLink:  req.ShortenedLink,
			PagePersona:    req.PagePersona,
			SourceThreadID: req.SourceThreadID,
			SuggestedImage: req.SuggestedImage,
		})
		if err != nil {
			handleDomainError(w, err)
			return
		}

		response.Created(w, camp)
	}
}

// CampaignListResponse represents the response for listing campaigns
type CampaignListResponse struct {
	Campaigns []entity.Campaign `json:"campaigns"`
	Total     int64             `json:"total"`
}

// List handles GET /campaigns
func (h *CampaignHandler) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		var status *entity.CampaignStatus
		if s := q.Get("status"); s != "" {
			st := entity.CampaignStatus(s)
			if !entity.IsValidStatus(st) {
				response.BadRequest(w, "invalid status")
				return
			}
			status = &st
		}

		limit := 50
		offset := 0
		if l := q.Get("limit"); l != "" {
			li, err := strconv.Atoi(l)
			if err != nil || li < 1 {
				response.BadRequest(w, "invalid limit")
				return
			}
			if li > 200 {
				li = 200
			}
			limit = li
		}
		if o := q.Get("offset"); o != "" {
			oi, err := strconv.Atoi(o)
			if err != nil || oi < 0 {
				response.BadRequest(w, "invalid offset")
				return
			}
			offset = oi
		}

		out, err := h.campaigns.List(r.Context(), service.ListInput{
			Status: status,
			Limit:  limit,
			Offset: offset,
		})
		if err != nil {
			handleDomainError(w, err)
			return
		}

		response.OK(w, CampaignListResponse{
			Campaigns: out.Campaigns,
			Total:     out.Total,
		})
	}
}

// Get handles GET /campaigns/{id}
func (h *CampaignHandler) Get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		camp, err := h.campaigns.Get(r.Context(), id)
		if err != nil {
			handleDomainError(w, err)
			return
		}

		response.OK(w, camp)
	}
}

// UpdateStatusRequest represents the request body for a status change
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus handles PATCH /campaigns/{id}
func (h *CampaignHandler) UpdateStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		var req UpdateStatusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.BadRequest(w, "invalid JSON")
			return
		}

		camp, err := h.campaigns.UpdateStatus(r.Context(), id, entity.CampaignStatus(req.Status))
		if err != nil {
			handleDomainError(w, err)
			return
		}

		response.OK(w, camp)
	}
}

// Approve handles POST /campaigns/{id}/approve
func (h *CampaignHandler) Approve() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		camp, err := h.campaigns.Approve(r.Context(), id)
		if err != nil {
			handleDomainError(w, err)
			return
		}

		response.OK(w, camp)
	}
}

// Delete handles DELETE /campaigns/{id}
func (h *CampaignHandler) Delete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		if err := h.campaigns.Delete(r.Context(), id); err != nil {
			handleDomainError(w, err)
			return
		}

		response.NoContent(w)
	}
}
