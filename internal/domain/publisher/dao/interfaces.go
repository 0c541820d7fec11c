package dao

import (
	"context"

	"github.com/hoangnm/baithook/internal/domain/publisher/entity"
)

// StatusPatch is a partial update of the publisher status singleton.
// Nil fields are left untouched.
type StatusPatch struct {
	AutoMode     *bool
	NextPostAt   *int64
	FBPostsToday *int
	THPostsToday *int
}

// StatusRepository defines data access for the publisher status singleton
type StatusRepository interface {
	// Get returns the status record, nil when it does not exist yet
	Get(ctx context.Context) (*entity.PublisherStatus, error)

	// Patch applies a partial update, creating the record when absent,
	// and stamps last_updated
	Patch(ctx context.Context, p StatusPatch) (*entity.PublisherStatus, error)

	// ResetDailyCounts zeroes fb_posts_today and th_posts_today
	ResetDailyCounts(ctx context.Context) error
}

// PostLogRepository defines data access for the append-only post log
type PostLogRepository interface {
	// Add appends an entry; the caller has already stamped the timestamp
	Add(ctx context.Context, e *entity.PostLogEntry) error

	// Recent returns the newest max entries, newest-first
	Recent(ctx context.Context, max int) ([]entity.PostLogEntry, error)
}

// CountersRepository defines data access for the live counters singleton
type CountersRepository interface {
	// Get returns the counters record, nil when it does not exist yet
	Get(ctx context.Context) (*entity.LiveCounters, error)

	// Increment atomically adds amount to one counter field, creating the
	// record when absent. field must be a name validated by the caller.
	Increment(ctx context.Context, field string, amount float64) (*entity.LiveCounters, error)
}
