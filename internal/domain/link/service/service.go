package service

import (
	"context"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hoangnm/baithook/internal/domain/link/dao"
	"github.com/hoangnm/baithook/internal/domain/link/entity"
)

// URLShortener defines the interface to the external shortening services.
// Interface is defined here (consumer), not in the upstream package (provider).
type URLShortener interface {
	Shorten(ctx context.Context, rawURL string) (shortURL string, provider string, err error)
}

// Service handles business logic for affiliate links
type Service struct {
	links     dao.LinkRepository
	shortener URLShortener
}

// New creates a new affiliate link service
func New(links dao.LinkRepository, shortener URLShortener) *Service {
	return &Service{
		links:     links,
		shortener: shortener,
	}
}

// CreateInput represents input for registering an affiliate link
type CreateInput struct {
	Name        string
	OriginalURL string
	Collection  string
}

// Create registers a new affiliate link, shortening the URL through the
// rotating external services. When shortening fails the link is still
// stored: original_url stays authoritative, shortener is "none".
func (s *Service) Create(ctx context.Context, in CreateInput) (*entity.AffLink, error) {
	if in.Name == "" {
		return nil, entity.ErrEmptyName
	}
	if in.OriginalURL == "" {
		return nil, entity.ErrEmptyURL
	}

	shortURL, provider, err := s.shortener.Shorten(ctx, in.OriginalURL)
	if err != nil {
		shortURL = ""
		provider = entity.ShortenerNone
	}

	l := &entity.AffLink{
		ID:             newLinkID(),
		Name:           in.Name,
		OriginalURL:    in.OriginalURL,
		ShortenedURL:   shortURL,
		Shortener:      provider,
		CollectionName: in.Collection,
		CreatedAt:      time.Now(),
	}

	if err := s.links.Create(ctx, l); err != nil {
		return nil, err
	}

	return l, nil
}

// ListOutput represents output from listing links
type ListOutput struct {
	Links []entity.AffLink
	Total int64
}

// List retrieves links newest-first, optionally filtered by collection tag
func (s *Service) List(ctx context.Context, collection string) (*ListOutput, error) {
	links, err := s.links.List(ctx, dao.LinkFilter{Collection: collection})
	if err != nil {
		return nil, err
	}
	if links == nil {
		// Empty stores serialize as [], never null.
		links = []entity.AffLink{}
	}

	return &ListOutput{Links: links, Total: int64(len(links))}, nil
}

// GetRandom picks one link uniformly at random. This fetches the whole
// catalog per call; fine for the low-volume catalogs this is meant for.
func (s *Service) GetRandom(ctx context.Context) (*entity.AffLink, error) {
	links, err := s.links.List(ctx, dao.LinkFilter{})
	if err != nil {
		return nil, err
	}
	if len(links) == 0 {
		return nil, entity.ErrNoLinks
	}

	return &links[rand.Intn(len(links))], nil
}

// Delete removes a link permanently
func (s *Service) Delete(ctx context.Context, id string) error {
	l, err := s.links.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if l == nil {
		return entity.ErrLinkNotFound
	}

	return s.links.Delete(ctx, id)
}

// Count returns the total number of registered links
func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.links.Count(ctx)
}

func newLinkID() string {
	return "aff-" + strings.ReplaceAll(uuid.New().String(), "-", "")[:10]
}
