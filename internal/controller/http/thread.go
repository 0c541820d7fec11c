package http

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/hoangnm/baithook/internal/domain/thread/entity"
	"github.com/hoangnm/baithook/internal/domain/thread/service"
	"github.com/hoangnm/baithook/internal/httpx/response"
)

// ThreadService defines the interface for crawled thread operations
type ThreadService interface {
	List(ctx context.Context, in service.ListInput) (*service.ListOutput, error)
	Get(ctx context.Context, id string) (*entity.CrawledThread, error)
	Delete(ctx context.Context, id string) error
	UpdateContent(ctx context.Context, id string, content string) error
}

// ThreadContentFetcher fetches thread bodies from the crawl service on demand
type ThreadContentFetcher interface {
	ThreadContent(ctx context.Context, threadID string) (string, error)
}

// ThreadHandler handles HTTP requests for crawled threads. Read routes
// degrade to typed empty payloads with HTTP 200 when the store is down, so
// the dashboard renders an empty state instead of an error page.
type ThreadHandler struct {
	threads ThreadService
	crawler ThreadContentFetcher
	logger  *slog.Logger
}

// NewThreadHandler creates a new thread handler
func NewThreadHandler(threads ThreadService, crawler ThreadContentFetcher, logger *slog.Logger) *ThreadHandler {
	return &ThreadHandler{threads: threads, crawler: crawler, logger: logger}
}

// RegisterRoutes registers thread routes
func (h *ThreadHandler) RegisterRoutes(r chi.Router) {
	r.Route("/threads", func(r chi.Router) {
		r.Get("/", h.List())
		r.Get("/{id}", h.Get())
		r.Get("/{id}/content", h.Content())
		r.Delete("/{id}", h.Delete())
	})
}

// ThreadListResponse represents the response for listing threads
type ThreadListResponse struct {
	Error   string                 `json:"error,omitempty"`
	Threads []entity.CrawledThread `json:"threads"`
	Total   int64                  `json:"total"`
	Limit   int                    `json:"limit"`
	Offset  int                    `json:"offset"`
}

// List handles GET /threads
func (h *ThreadHandler) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		limit := 50
		offset := 0
		if l := q.Get("limit"); l != "" {
			if li, err := strconv.Atoi(l); err == nil && li > 0 {
				limit = li
			}
		}
		if o := q.Get("offset"); o != "" {
			if oi, err := strconv.Atoi(o); err == nil && oi >= 0 {
				offset = oi
			}
		}

		out, err := h.threads.List(r.Context(), service.ListInput{
			Source: q.Get("source"),
			Limit:  limit,
			Offset: offset,
		})
		if err != nil {
			h.logger.Error("listing threads", "error", err)
			response.OK(w, ThreadListResponse{
				Error:   err.Error(),
				Threads: []entity.CrawledThread{},
				Total:   0,
				Limit:   limit,
				Offset:  offset,
			})
			return
		}

		response.OK(w, ThreadListResponse{
			Threads: out.Threads,
			Total:   out.Total,
			Limit:   limit,
			Offset:  offset,
		})
	}
}

// Get handles GET /threads/{id}
func (h *ThreadHandler) Get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		thread, err := h.threads.Get(r.Context(), id)
		if err != nil {
			handleDomainError(w, err)
			return
		}

		response.OK(w, thread)
	}
}

// ThreadContentResponse represents the response for a thread body
type ThreadContentResponse struct {
	Error   string `json:"error,omitempty"`
	Content string `json:"content"`
	Source  string `json:"source,omitempty"`
}

// Content handles GET /threads/{id}/content. Stored content wins; voz
// threads without a stored body are fetched from the crawl service and
// backfilled. Failures degrade to an empty body with HTTP 200.
func (h *ThreadHandler) Content() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		thread, err := h.threads.Get(r.Context(), id)
		if err != nil {
			handleDomainError(w, err)
			return
		}

		if thread.Content != "" {
			response.OK(w, ThreadContentResponse{Content: thread.Content, Source: thread.Source})
			return
		}

		if thread.Source != entity.SourceVoz {
			response.OK(w, ThreadContentResponse{Content: "", Source: thread.Source})
			return
		}

		content, err := h.crawler.ThreadContent(r.Context(), id)
		if err != nil {
			h.logger.Error("fetching thread content", "thread_id", id, "error", err)
			response.OK(w, ThreadContentResponse{Error: err.Error(), Content: ""})
			return
		}

		if content != "" {
			if err := h.threads.UpdateContent(r.Context(), id, content); err != nil {
				h.logger.Error("backfilling thread content", "thread_id", id, "error", err)
			}
		}

		response.OK(w, ThreadContentResponse{Content: content, Source: thread.Source})
	}
}

// Delete handles DELETE /threads/{id} (soft delete)
func (h *ThreadHandler) Delete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		if err := h.threads.Delete(r.Context(), id); err != nil {
			handleDomainError(w, err)
			return
		}

		response.NoContent(w)
	}
}
