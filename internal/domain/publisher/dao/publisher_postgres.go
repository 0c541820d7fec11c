package dao

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hoangnm/baithook/internal/domain/publisher/entity"
)

// The status and counters tables are singletons pinned to id = 1.
const singletonID = 1

// StatusPostgres implements StatusRepository for PostgreSQL
type StatusPostgres struct {
	pool *pgxpool.Pool
}

// NewStatusPostgres creates a new PostgreSQL publisher status repository
func NewStatusPostgres(pool *pgxpool.Pool) *StatusPostgres {
	return &StatusPostgres{pool: pool}
}

// Get returns the status record, nil when absent
func (r *StatusPostgres) Get(ctx context.Context) (*entity.PublisherStatus, error) {
	query := `
		SELECT auto_mode, next_post_at, fb_posts_today, th_posts_today, last_updated
		FROM publisher_status
		WHERE id = $1
	`

	var s entity.PublisherStatus
	err := r.pool.QueryRow(ctx, query, singletonID).Scan(
		&s.AutoMode,
		&s.NextPostAt,
		&s.FBPostsToday,
		&s.THPostsToday,
		&s.LastUpdated,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning publisher status: %w", err)
	}

	return &s, nil
}

// Patch applies a partial update, seeding absent records from the
// first-run defaults, and stamps last_updated
func (r *StatusPostgres) Patch(ctx context.Context, p StatusPatch) (*entity.PublisherStatus, error) {
	now := time.Now()
	def := entity.DefaultStatus(now)

	// Seed values for the insert side; the update side only overwrites
	// what the patch carries.
	ins := def
	if p.AutoMode != nil {
		ins.AutoMode = *p.AutoMode
	}
	if p.NextPostAt != nil {
		ins.NextPostAt = *p.NextPostAt
	}
	if p.FBPostsToday != nil {
		ins.FBPostsToday = *p.FBPostsToday
	}
	if p.THPostsToday != nil {
		ins.THPostsToday = *p.THPostsToday
	}

	query := `
		INSERT INTO publisher_status (id, auto_mode, next_post_at, fb_posts_today, th_posts_today, last_updated)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			auto_mode      = COALESCE($7, publisher_status.auto_mode),
			next_post_at   = COALESCE($8, publisher_status.next_post_at),
			fb_posts_today = COALESCE($9, publisher_status.fb_posts_today),
			th_posts_today = COALESCE($10, publisher_status.th_posts_today),
			last_updated   = $6
		RETURNING auto_mode, next_post_at, fb_posts_today, th_posts_today, last_updated
	`

	var s entity.PublisherStatus
	err := r.pool.QueryRow(ctx, query,
		singletonID,
		ins.AutoMode,
		ins.NextPostAt,
		ins.FBPostsToday,
		ins.THPostsToday,
		now,
		p.AutoMode,
		p.NextPostAt,
		p.FBPostsToday,
		p.THPostsToday,
	).Scan(
		&s.AutoMode,
		&s.NextPostAt,
		&s.FBPostsToday,
		&s.THPostsToday,
		&s.LastUpdated,
	)
	if err != nil {
		return nil, fmt.Errorf("patching publisher status: %w", err)
	}

	return &s, nil
}

// ResetDailyCounts zeroes the per-day platform counters
func (r *StatusPostgres) ResetDailyCounts(ctx context.Context) error {
	query := `
		UPDATE publisher_status
		SET fb_posts_today = 0, th_posts_today = 0, last_updated = $2
		WHERE id = $1
	`

	if _, err := r.pool.Exec(ctx, query, singletonID, time.Now()); err != nil {
		return fmt.Errorf("resetting daily counts: %w", err)
	}
	return nil
}

// PostLogPostgres implements PostLogRepository for PostgreSQL
type PostLogPostgres struct {
	pool *pgxpool.Pool
}

// NewPostLogPostgres creates a new PostgreSQL post log repository
func NewPostLogPostgres(pool *pgxpool.Pool) *PostLogPostgres {
	return &PostLogPostgres{pool: pool}
}

// Add appends an entry
func (r *PostLogPostgres) Add(ctx context.Context, e *entity.PostLogEntry) error {
	query := `
		INSERT INTO post_log (id, time_label, platform, text, result, comment, campaign_id, ts)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.pool.Exec(ctx, query,
		e.ID,
		e.Time,
		e.Platform,
		e.Text,
		e.Result,
		e.Comment,
		e.CampaignID,
		e.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("inserting post log entry: %w", err)
	}

	return nil
}

// Recent returns the newest max entries, newest-first
func (r *PostLogPostgres) Recent(ctx context.Context, max int) ([]entity.PostLogEntry, error) {
	query := `
		SELECT id, time_label, platform, text, result, comment, campaign_id, ts
		FROM post_log
		ORDER BY ts DESC
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, max)
	if err != nil {
		return nil, fmt.Errorf("querying post log: %w", err)
	}
	defer rows.Close()

	var entries []entity.PostLogEntry
	for rows.Next() {
		var e entity.PostLogEntry
		err := rows.Scan(
			&e.ID,
			&e.Time,
			&e.Platform,
			&e.Text,
			&e.Result,
			&e.Comment,
			&e.CampaignID,
			&e.Timestamp,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		entries = append(entries, e)
	}

	return entries, nil
}

// CountersPostgres implements CountersRepository for PostgreSQL
type CountersPostgres struct {
	pool *pgxpool.Pool
}

// NewCountersPostgres creates a new PostgreSQL counters repository
func NewCountersPostgres(pool *pgxpool.Pool) *CountersPostgres {
	return &CountersPostgres{pool: pool}
}

// Get returns the counters record, nil when absent
func (r *CountersPostgres) Get(ctx context.Context) (*entity.LiveCounters, error) {
	query := `
		SELECT total_clicks, total_orders, total_commission, total_posts, last_updated
		FROM counters
		WHERE id = $1
	`

	var c entity.LiveCounters
	err := r.pool.QueryRow(ctx, query, singletonID).Scan(
		&c.TotalClicks,
		&c.TotalOrders,
		&c.TotalCommission,
		&c.TotalPosts,
		&c.LastUpdated,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning counters: %w", err)
	}

	return &c, nil
}

// Increment atomically adds amount to one counter column. The increment
// happens inside the database, so concurrent calls never lose updates.
// field has been validated against entity.IsCounterField by the service;
// it is interpolated, not parameterized, because it names a column.
func (r *CountersPostgres) Increment(ctx context.Context, field string, amount float64) (*entity.LiveCounters, error) {
	if !entity.IsCounterField(field) {
		return nil, entity.ErrUnknownCounterField
	}

	query := fmt.Sprintf(`
		INSERT INTO counters (id, %[1]s, last_updated)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET
			%[1]s = counters.%[1]s + $2,
			last_updated = $3
		RETURNING total_clicks, total_orders, total_commission, total_posts, last_updated
	`, field)

	var c entity.LiveCounters
	err := r.pool.QueryRow(ctx, query, singletonID, amount, time.Now()).Scan(
		&c.TotalClicks,
		&c.TotalOrders,
		&c.TotalCommission,
		&c.TotalPosts,
		&c.LastUpdated,
	)
	if err != nil {
		return nil, fmt.Errorf("incrementing %s: %w", field, err)
	}

	return &c, nil
}
