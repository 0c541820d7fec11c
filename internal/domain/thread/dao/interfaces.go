package dao

import (
	"context"

	"github.com/hoangnm/baithook/internal/domain/thread/entity"
)

// ThreadFilter contains filters for listing threads. Soft-deleted rows are
// always excluded from List and Count.
type ThreadFilter struct {
	Source string
}

// ListOptions contains pagination options. Threads are always ordered by
// crawled_at descending.
type ListOptions struct {
	Limit  int
	Offset int
}

// ThreadRepository defines the interface for crawled thread data access
type ThreadRepository interface {
	// InsertIfAbsent inserts a thread keyed by its source-provided ID and
	// reports whether a new row was created. Re-inserting an existing ID
	// (including a soft-deleted one) is a no-op.
	InsertIfAbsent(ctx context.Context, t *entity.CrawledThread) (bool, error)

	// GetByID retrieves a thread by ID, including soft-deleted rows
	GetByID(ctx context.Context, id string) (*entity.CrawledThread, error)

	// List retrieves non-deleted threads ordered by crawled_at descending
	List(ctx context.Context, filter ThreadFilter, opts ListOptions) ([]entity.CrawledThread, error)

	// Count returns the number of non-deleted threads matching the filter
	Count(ctx context.Context, filter ThreadFilter) (int64, error)

	// SoftDelete marks a thread deleted; the row is never removed
	SoftDelete(ctx context.Context, id string) error

	// MarkSentToAI sets the one-way sent_to_ai flag
	MarkSentToAI(ctx context.Context, id string) error

	// UpdateContent backfills the lazily fetched body text
	UpdateContent(ctx context.Context, id string, content string) error
}
