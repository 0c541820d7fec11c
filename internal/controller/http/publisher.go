package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/hoangnm/baithook/internal/domain/publisher/dao"
	"github.com/hoangnm/baithook/internal/domain/publisher/entity"
	"github.com/hoangnm/baithook/internal/httpx/response"
)

// PublisherService defines the interface for auto-publisher state operations
type PublisherService interface {
	GetStatus(ctx context.Context) (*entity.PublisherStatus, error)
	SetStatus(ctx context.Context, p dao.StatusPatch) (*entity.PublisherStatus, error)
	RecentLog(ctx context.Context, max int) ([]entity.PostLogEntry, error)
	GetCounters(ctx context.Context) (*entity.LiveCounters, error)
	IncrementCounter(ctx context.Context, field string, amount float64) (*entity.LiveCounters, error)
}

// PublisherHandler handles HTTP requests for publisher status, post log and
// live counters
type PublisherHandler struct {
	publisher PublisherService
}

// NewPublisherHandler creates a new publisher handler
func NewPublisherHandler(p PublisherService) *PublisherHandler {
	return &PublisherHandler{publisher: p}
}

// RegisterRoutes registers publisher routes
func (h *PublisherHandler) RegisterRoutes(r chi.Router) {
	r.Route("/publisher", func(r chi.Router) {
		r.Get("/status", h.GetStatus())
		r.Patch("/status", h.PatchStatus())
		r.Get("/log", h.Log())
	})
	r.Route("/counters", func(r chi.Router) {
		r.Get("/", h.GetCounters())
		r.Post("/{field}/increment", h.Increment())
	})
}

// GetStatus handles GET /publisher/status
func (h *PublisherHandler) GetStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status, err := h.publisher.GetStatus(r.Context())
		if err != nil {
			handleDomainError(w, err)
			return
		}

		response.OK(w, status)
	}
}

// PatchStatusRequest represents a partial publisher status update; absent
// fields keep their stored value.
type PatchStatusRequest struct {
	AutoMode     *bool  `json:"auto_mode,omitempty"`
	NextPostAt   *int64 `json:"next_post_at,omitempty"`
	FBPostsToday *int   `json:"fb_posts_today,omitempty"`
	THPostsToday *int   `json:"th_posts_today,omitempty"`
}

// PatchStatus handles PATCH /publisher/status
func (h *PublisherHandler) PatchStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req PatchStatusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.BadRequest(w, "invalid JSON")
			return
		}

		status, err := h.publisher.SetStatus(r.Context(), dao.StatusPatch{
			AutoMode:     req.AutoMode,
			NextPostAt:   req.NextPostAt,
			FBPostsToday: req.FBPostsToday,
			THPostsToday: req.THPostsToday,
		})
		if err != nil {
			handleDomainError(w, err)
			return
		}

		response.OK(w, status)
	}
}

// LogResponse represents the response for the recent post log
type LogResponse struct {
	Entries []entity.PostLogEntry `json:"entries"`
}

// Log handles GET /publisher/log
func (h *PublisherHandler) Log() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		max := 0
		if m := r.URL.Query().Get("max"); m != "" {
			mi, err := strconv.Atoi(m)
			if err != nil || mi < 1 {
				response.BadRequest(w, "invalid max")
				return
			}
			max = mi
		}

		entries, err := h.publisher.RecentLog(r.Context(), max)
		if err != nil {
			handleDomainError(w, err)
			return
		}

		response.OK(w, LogResponse{Entries: entries})
	}
}

// GetCounters handles GET /counters
func (h *PublisherHandler) GetCounters() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		counters, err := h.publisher.GetCounters(r.Context())
		if err != nil {
			handleDomainError(w, err)
			return
		}

		response.OK(w, counters)
	}
}

// IncrementRequest represents the request body for a counter increment
type IncrementRequest struct {
	Amount float64 `json:"amount"`
}

// Increment handles POST /counters/{field}/increment
func (h *PublisherHandler) Increment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		field := chi.URLParam(r, "field")

		req := IncrementRequest{Amount: 1}
		if r.Body != nil && r.ContentLength != 0 {
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				response.BadRequest(w, "invalid JSON")
				return
			}
		}

		counters, err := h.publisher.IncrementCounter(r.Context(), field, req.Amount)
		if err != nil {
			handleDomainError(w, err)
			return
		}

		response.OK(w, counters)
	}
}
