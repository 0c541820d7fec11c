package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hoangnm/baithook/internal/domain/link/entity"
	"github.com/hoangnm/baithook/internal/domain/link/service"
	"github.com/hoangnm/baithook/internal/httpx/response"
)

// LinkService defines the interface for affiliate link operations
type LinkService interface {
	Create(ctx context.Context, in service.CreateInput) (*entity.AffLink, error)
	List(ctx context.Context, collection string) (*service.ListOutput, error)
	GetRandom(ctx context.Context) (*entity.AffLink, error)
	Delete(ctx context.Context, id string) error
}

// LinkHandler handles HTTP requests for affiliate links
type LinkHandler struct {
	links     LinkService
	shortener AILinkShortener
}

// NewLinkHandler creates a new link handler
func NewLinkHandler(links LinkService, shortener AILinkShortener) *LinkHandler {
	return &LinkHandler{links: links, shortener: shortener}
}

// RegisterRoutes registers link routes
func (h *LinkHandler) RegisterRoutes(r chi.Router) {
	r.Route("/links", func(r chi.Router) {
		r.Get("/", h.List())
		r.Post("/", h.Create())
		r.Get("/random", h.Random())
		r.Post("/shorten", h.Shorten())
		r.Delete("/{id}", h.Delete())
	})
}

// CreateLinkRequest represents the request body for registering a link
type CreateLinkRequest struct {
	Name        string `json:"name"`
	OriginalURL string `json:"original_url"`
	Collection  string `json:"collection"`
}

// Create handles POST /links
func (h *LinkHandler) Create() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateLinkRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.BadRequest(w, "invalid JSON")
			return
		}

		link, err := h.links.Create(r.Context(), service.CreateInput{
			Name:        req.Name,
			OriginalURL: req.OriginalURL,
			Collection:  req.Collection,
		})
		if err != nil {
			handleDomainError(w, err)
			return
		}

		response.Created(w, link)
	}
}

// LinkListResponse represents the response for listing links
type LinkListResponse struct {
	Links []entity.AffLink `json:"links"`
	Total int64            `json:"total"`
}

// List handles GET /links
func (h *LinkHandler) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out, err := h.links.List(r.Context(), r.URL.Query().Get("collection"))
		if err != nil {
			handleDomainError(w, err)
			return
		}

		response.OK(w, LinkListResponse{Links: out.Links, Total: out.Total})
	}
}

// Random handles GET /links/random
func (h *LinkHandler) Random() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		link, err := h.links.GetRandom(r.Context())
		if err != nil {
			handleDomainError(w, err)
			return
		}

		response.OK(w, link)
	}
}

// ShortenResponse mirrors the external shortening contract: on failure the
// original URL is echoed back with service "none", never an error status.
type ShortenResponse struct {
	Shortened string `json:"shortened"`
	Service   string `json:"service"`
}

// Shorten handles POST /links/shorten
func (h *LinkHandler) Shorten() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rawURL := r.URL.Query().Get("url")
		if rawURL == "" {
			response.BadRequest(w, "url is required")
			return
		}

		short, provider, err := h.shortener.Shorten(r.Context(), rawURL)
		if err != nil {
			response.OK(w, ShortenResponse{Shortened: rawURL, Service: entity.ShortenerNone})
			return
		}

		response.OK(w, ShortenResponse{Shortened: short, Service: provider})
	}
}

// Delete handles DELETE /links/{id}
func (h *LinkHandler) Delete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		if err := h.links.Delete(r.Context(), id); err != nil {
			handleDomainError(w, err)
			return
		}

		response.NoContent(w)
	}
}
