package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/hoangnm/baithook/internal/domain/thread/dao"
	"github.com/hoangnm/baithook/internal/domain/thread/entity"
)

// Service handles business logic for crawled threads
type Service struct {
	threads dao.ThreadRepository
	logger  *slog.Logger
}

// New creates a new thread service
func New(threads dao.ThreadRepository, logger *slog.Logger) *Service {
	return &Service{
		threads: threads,
		logger:  logger,
	}
}

// SaveThreads upserts crawled threads keyed by their source-provided IDs
// and returns how many were new. Items that fail to persist are skipped so
// one bad row never aborts a whole crawl batch.
func (s *Service) SaveThreads(ctx context.Context, threads []entity.CrawledThread) (int, error) {
	saved := 0
	for i := range threads {
		t := threads[i]
		if t.ID == "" {
			continue
		}
		if t.CrawledAt.IsZero() {
			t.CrawledAt = time.Now()
		}
		t.SentToAI = false
		t.Deleted = false

		inserted, err := s.threads.InsertIfAbsent(ctx, &t)
		if err != nil {
			s.logger.Error("saving thread", "id", t.ID, "error", err)
			continue
		}
		if inserted {
			saved++
		}
	}
	return saved, nil
}

// ListInput represents input for listing threads
type ListInput struct {
	Source string
	Limit  int
	Offset int
}

// ListOutput represents output from listing threads
type ListOutput struct {
	Threads []entity.CrawledThread
	Total   int64
}

// List retrieves non-deleted threads newest-first
func (s *Service) List(ctx context.Context, in ListInput) (*ListOutput, error) {
	filter := dao.ThreadFilter{Source: in.Source}

	opts := dao.ListOptions{Limit: in.Limit, Offset: in.Offset}
	if opts.Limit == 0 {
		opts.Limit = 50
	}

	threads, err := s.threads.List(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	if threads == nil {
		// Empty stores serialize as [], never null.
		threads = []entity.CrawledThread{}
	}

	total, err := s.threads.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &ListOutput{Threads: threads, Total: total}, nil
}

// Get retrieves a thread by ID. Soft-deleted threads are still reachable
// here; only listing hides them.
func (s *Service) Get(ctx context.Context, id string) (*entity.CrawledThread, error) {
	t, err := s.threads.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, entity.ErrThreadNotFound
	}
	return t, nil
}

// Delete soft-deletes a thread
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.threads.SoftDelete(ctx, id)
}

// MarkSentToAI sets the one-way sent_to_ai flag
func (s *Service) MarkSentToAI(ctx context.Context, id string) error {
	return s.threads.MarkSentToAI(ctx, id)
}

// UpdateContent backfills the lazily fetched body text
func (s *Service) UpdateContent(ctx context.Context, id string, content string) error {
	return s.threads.UpdateContent(ctx, id, content)
}

// CountBySource returns the number of non-deleted threads for one source
func (s *Service) CountBySource(ctx context.Context, source string) (int64, error) {
	return s.threads.Count(ctx, dao.ThreadFilter{Source: source})
}

// CountAll returns the total number of non-deleted threads
func (s *Service) CountAll(ctx context.Context) (int64, error) {
	return s.threads.Count(ctx, dao.ThreadFilter{})
}
