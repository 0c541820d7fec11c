package dao

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hoangnm/baithook/internal/domain/link/entity"
)

const linkColumns = `id, name, original_url, shortened_url, shortener,
	       collection_name, clicks, orders, commission, created_at`

// LinkPostgres implements LinkRepository for PostgreSQL
type LinkPostgres struct {
	pool *pgxpool.Pool
}

// NewLinkPostgres creates a new PostgreSQL affiliate link repository
func NewLinkPostgres(pool *pgxpool.Pool) *LinkPostgres {
	return &LinkPostgres{pool: pool}
}

// Create inserts a new link
func (r *LinkPostgres) Create(ctx context.Context, l *entity.AffLink) error {
	query := `
		INSERT INTO affiliate_links (id, name, original_url, shortened_url, shortener,
		                             collection_name, clicks, orders, commission, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.pool.Exec(ctx, query,
		l.ID,
		l.Name,
		l.OriginalURL,
		l.ShortenedURL,
		l.Shortener,
		l.CollectionName,
		l.Clicks,
		l.Orders,
		l.Commission,
		l.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting link: %w", err)
	}

	return nil
}

// GetByID retrieves a link by ID
func (r *LinkPostgres) GetByID(ctx context.Context, id string) (*entity.AffLink, error) {
	query := `SELECT ` + linkColumns + ` FROM affiliate_links WHERE id = $1`

	l, err := scanLink(r.pool.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning link: %w", err)
	}

	return l, nil
}

// List retrieves links ordered by created_at descending
func (r *LinkPostgres) List(ctx context.Context, filter LinkFilter) ([]entity.AffLink, error) {
	query := `SELECT ` + linkColumns + ` FROM affiliate_links WHERE 1=1`
	args := []interface{}{}

	if filter.Collection != "" {
		query += " AND collection_name LIKE '%' || $1 || '%'"
		args = append(args, filter.Collection)
	}

	query += " ORDER BY created_at DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying links: %w", err)
	}
	defer rows.Close()

	var links []entity.AffLink
	for rows.Next() {
		l, err := scanLink(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		links = append(links, *l)
	}

	return links, nil
}

// Count returns the total number of links
func (r *LinkPostgres) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM affiliate_links").Scan(&count); err != nil {
		return 0, fmt.Errorf("counting links: %w", err)
	}
	return count, nil
}

// Delete removes a link permanently
func (r *LinkPostgres) Delete(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, "DELETE FROM affiliate_links WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("deleting link: %w", err)
	}
	return nil
}

func scanLink(row pgx.Row) (*entity.AffLink, error) {
	var l entity.AffLink

	err := row.Scan(
		&l.ID,
		&l.Name,
		&l.OriginalURL,
		&l.ShortenedURL,
		&l.Shortener,
		&l.CollectionName,
		&l.Clicks,
		&l.Orders,
		&l.Commission,
		&l.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &l, nil
}
