package dao

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hoangnm/baithook/internal/domain/thread/entity"
)

const threadColumns = `id, source, title, url, author, replies, views, time_text,
	       prefix, content, thumbnail, score, crawled_at, sent_to_ai, deleted`

// ThreadPostgres implements ThreadRepository for PostgreSQL
type ThreadPostgres struct {
	pool *pgxpool.Pool
}

// NewThreadPostgres creates a new PostgreSQL thread repository
func NewThreadPostgres(pool *pgxpool.Pool) *ThreadPostgres {
	return &ThreadPostgres{pool: pool}
}

// InsertIfAbsent inserts a thread keyed by its source-provided ID.
// ON CONFLICT DO NOTHING makes concurrent crawls of the same thread safe:
// exactly one insert wins, the rest report false.
func (r *ThreadPostgres) InsertIfAbsent(ctx context.Context, t *entity.CrawledThread) (bool, error) {
	query := `
		INSERT INTO threads (id, source, title, url, author, replies, views, time_text,
		                     prefix, content, thumbnail, score, crawled_at, sent_to_ai, deleted)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (id) DO NOTHING
	`

	tag, err := r.pool.Exec(ctx, query,
		t.ID,
		t.Source,
		t.Title,
		t.URL,
		t.Author,
		t.Replies,
		t.Views,
		t.TimeText,
		t.Prefix,
		t.Content,
		t.Thumbnail,
		t.Score,
		t.CrawledAt,
		t.SentToAI,
		t.Deleted,
	)
	if err != nil {
		return false, fmt.Errorf("inserting thread: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// GetByID retrieves a thread by ID, including soft-deleted rows
func (r *ThreadPostgres) GetByID(ctx context.Context, id string) (*entity.CrawledThread, error) {
	query := `SELECT ` + threadColumns + ` FROM threads WHERE id = $1`

	t, err := scanThread(r.pool.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning thread: %w", err)
	}

	return t, nil
}

// List retrieves non-deleted threads ordered by crawled_at descending
func (r *ThreadPostgres) List(ctx context.Context, filter ThreadFilter, opts ListOptions) ([]entity.CrawledThread, error) {
	query := `SELECT ` + threadColumns + ` FROM threads WHERE deleted = false`
	args := []interface{}{}
	argNum := 1

	if filter.Source != "" {
		query += fmt.Sprintf(" AND source = $%d", argNum)
		args = append(args, filter.Source)
		argNum++
	}

	query += " ORDER BY crawled_at DESC"

	if opts.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argNum)
		args = append(args, opts.Limit)
		argNum++
	}
	if opts.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argNum)
		args = append(args, opts.Offset)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying threads: %w", err)
	}
	defer rows.Close()

	var threads []entity.CrawledThread
	for rows.Next() {
		t, err := scanThread(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		threads = append(threads, *t)
	}

	return threads, nil
}

// Count returns the number of non-deleted threads matching the filter
func (r *ThreadPostgres) Count(ctx context.Context, filter ThreadFilter) (int64, error) {
	query := "SELECT COUNT(*) FROM threads WHERE deleted = false"
	args := []interface{}{}

	if filter.Source != "" {
		query += " AND source = $1"
		args = append(args, filter.Source)
	}

	var count int64
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting threads: %w", err)
	}

	return count, nil
}

// SoftDelete marks a thread deleted
func (r *ThreadPostgres) SoftDelete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, "UPDATE threads SET deleted = true WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("soft-deleting thread: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return entity.ErrThreadNotFound
	}
	return nil
}

// MarkSentToAI sets the one-way sent_to_ai flag
func (r *ThreadPostgres) MarkSentToAI(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, "UPDATE threads SET sent_to_ai = true WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("marking thread sent to AI: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return entity.ErrThreadNotFound
	}
	return nil
}

// UpdateContent backfills the lazily fetched body text
func (r *ThreadPostgres) UpdateContent(ctx context.Context, id string, content string) error {
	tag, err := r.pool.Exec(ctx, "UPDATE threads SET content = $2 WHERE id = $1", id, content)
	if err != nil {
		return fmt.Errorf("updating thread content: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return entity.ErrThreadNotFound
	}
	return nil
}

func scanThread(row pgx.Row) (*entity.CrawledThread, error) {
	var t entity.CrawledThread

	err := row.Scan(
		&t.ID,
		&t.Source,
		&t.Title,
		&t.URL,
		&t.Author,
		&t.Replies,
		&t.Views,
		&t.TimeText,
		&t.Prefix,
		&t.Content,
		&t.Thumbnail,
		&t.Score,
		&t.CrawledAt,
		&t.SentToAI,
		&t.Deleted,
	)
	if err != nil {
		return nil, err
	}

	return &t, nil
}
