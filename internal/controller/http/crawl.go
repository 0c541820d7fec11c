package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/hoangnm/baithook/internal/domain/thread/entity"
	"github.com/hoangnm/baithook/internal/httpx/response"
	"github.com/hoangnm/baithook/internal/httpx/upstream/crawler"
)

// CrawlService defines the interface for the external crawl collaborator
type CrawlService interface {
	CrawlVoz(ctx context.Context) (*crawler.CrawlResult, error)
	CrawlReddit(ctx context.Context, subs []string) (*crawler.CrawlResult, error)
	CrawlAll(ctx context.Context) (*crawler.CrawlAllResult, error)
}

// ThreadSaver persists crawled threads, skipping already-known ids
type ThreadSaver interface {
	SaveThreads(ctx context.Context, threads []entity.CrawledThread) (int, error)
}

// CrawlHandler proxies crawl requests to the external crawl service and
// persists whatever comes back. Upstream failures are normalized into empty
// payloads with HTTP 200 so the dashboard never sees a proxy error.
type CrawlHandler struct {
	crawler CrawlService
	threads ThreadSaver
	logger  *slog.Logger
}

// NewCrawlHandler creates a new crawl proxy handler
func NewCrawlHandler(c CrawlService, t ThreadSaver, logger *slog.Logger) *CrawlHandler {
	return &CrawlHandler{crawler: c, threads: t, logger: logger}
}

// RegisterRoutes registers crawl proxy routes
func (h *CrawlHandler) RegisterRoutes(r chi.Router) {
	r.Route("/crawl", func(r chi.Router) {
		r.Get("/voz", h.CrawlVoz())
		r.Get("/reddit", h.CrawlReddit())
		r.Get("/all", h.CrawlAll())
	})
}

// CrawlResponse is a single-source crawl result after persistence; New is
// the count of rows this call actually inserted, not the upstream's claim.
type CrawlResponse struct {
	Error      string           `json:"error,omitempty"`
	Source     string           `json:"source"`
	SourceName string           `json:"sourceName,omitempty"`
	SourceURL  string           `json:"sourceUrl,omitempty"`
	Total      int              `json:"total"`
	New        int              `json:"new"`
	CrawledAt  string           `json:"crawledAt,omitempty"`
	Threads    []crawler.Thread `json:"threads"`
}

// CrawlVoz handles GET /crawl/voz
func (h *CrawlHandler) CrawlVoz() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := h.crawler.CrawlVoz(r.Context())
		if err != nil {
			h.logger.Error("crawling voz", "error", err)
			response.OK(w, emptyCrawlResponse(entity.SourceVoz, err))
			return
		}

		response.OK(w, h.persist(r.Context(), result))
	}
}

// CrawlReddit handles GET /crawl/reddit
func (h *CrawlHandler) CrawlReddit() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var subs []string
		if s := r.URL.Query().Get("subs"); s != "" {
			subs = strings.Split(s, ",")
		}

		result, err := h.crawler.CrawlReddit(r.Context(), subs)
		if err != nil {
			h.logger.Error("crawling reddit", "error", err)
			response.OK(w, emptyCrawlResponse(entity.SourceReddit, err))
			return
		}

		response.OK(w, h.persist(r.Context(), result))
	}
}

// CrawlAllResponse aggregates per-source results of a full crawl
type CrawlAllResponse struct {
	Error     string                   `json:"error,omitempty"`
	Results   map[string]CrawlResponse `json:"results"`
	TotalNew  int                      `json:"totalNew"`
	CrawledAt string                   `json:"crawledAt,omitempty"`
}

// CrawlAll handles GET /crawl/all
func (h *CrawlHandler) CrawlAll() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := h.crawler.CrawlAll(r.Context())
		if err != nil {
			h.logger.Error("crawling all sources", "error", err)
			response.OK(w, CrawlAllResponse{
				Error:   err.Error(),
				Results: map[string]CrawlResponse{},
			})
			return
		}

		resp := CrawlAllResponse{
			Results:   make(map[string]CrawlResponse, len(result.Results)),
			CrawledAt: result.CrawledAt,
		}
		for source, res := range result.Results {
			persisted := h.persist(r.Context(), &res)
			resp.Results[source] = persisted
			resp.TotalNew += persisted.New
		}

		response.OK(w, resp)
	}
}

func (h *CrawlHandler) persist(ctx context.Context, result *crawler.CrawlResult) CrawlResponse {
	threads := make([]entity.CrawledThread, len(result.Threads))
	for i, t := range result.Threads {
		threads[i] = entity.CrawledThread{
			ID:        t.ID,
			Source:    t.Source,
			Title:     t.Title,
			URL:       t.URL,
			Author:    t.Author,
			Replies:   t.Replies,
			Views:     t.Views,
			TimeText:  t.Time,
			Prefix:    t.Prefix,
			Content:   t.Content,
			Thumbnail: t.Thumbnail,
			Score:     t.Score,
		}
		if threads[i].Source == "" {
			threads[i].Source = result.Source
		}
	}

	saved, err := h.threads.SaveThreads(ctx, threads)
	if err != nil {
		h.logger.Error("persisting crawled threads", "source", result.Source, "error", err)
		saved = 0
	}

	if result.Threads == nil {
		// Empty crawls serialize as [], never null.
		result.Threads = []crawler.Thread{}
	}

	return CrawlResponse{
		Source:     result.Source,
		SourceName: result.SourceName,
		SourceURL:  result.SourceURL,
		Total:      result.Total,
		New:        saved,
		CrawledAt:  result.CrawledAt,
		Threads:    result.Threads,
	}
}

func emptyCrawlResponse(source string, err error) CrawlResponse {
	return CrawlResponse{
		Error:   err.Error(),
		Source:  source,
		Threads: []crawler.Thread{},
	}
}
