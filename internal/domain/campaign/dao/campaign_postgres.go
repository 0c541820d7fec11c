package dao

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hoangnm/baithook/internal/domain/campaign/entity"
)

const campaignColumns = `id, bait_content, hook_comment, product_name, product_link,
	       shortened_link, page_persona, source_thread_id, status, post_id,
	       suggested_image, created_at, posted_at, error_msg`

// CampaignPostgres implements CampaignRepository for PostgreSQL
type CampaignPostgres struct {
	pool *pgxpool.Pool
}

// NewCampaignPostgres creates a new PostgreSQL campaign repository
func NewCampaignPostgres(pool *pgxpool.Pool) *CampaignPostgres {
	return &CampaignPostgres{pool: pool}
}

// Create inserts a new campaign
func (r *CampaignPostgres) Create(ctx context.Context, c *entity.Campaign) error {
	query := `
		INSERT INTO campaigns (id, bait_content, hook_comment, product_name, product_link,
		                       shortened_link, page_persona, source_thread_id, status, post_id,
		                       suggested_image, created_at, posted_at, error_msg)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := r.pool.Exec(ctx, query,
		c.ID,
		c.BaitContent,
		c.HookComment,
		c.ProductName,
		c.ProductLink,
		c.ShortenedLink,
		c.PagePersona,
		c.SourceThreadID,
		c.Status,
		c.PostID,
		c.SuggestedImage,
		c.CreatedAt,
		c.PostedAt,
		c.ErrorMsg,
	)
	if err != nil {
		return fmt.Errorf("inserting campaign: %w", err)
	}

	return nil
}

// GetByID retrieves a campaign by ID
func (r *CampaignPostgres) GetByID(ctx context.Context, id string) (*entity.Campaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM campaigns WHERE id = $1`

	c, err := scanCampaign(r.pool.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning campaign: %w", err)
	}

	return c, nil
}

// List retrieves campaigns ordered by created_at descending
func (r *CampaignPostgres) List(ctx context.Context, filter CampaignFilter, opts ListOptions) ([]entity.Campaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM campaigns WHERE 1=1`
	args := []interface{}{}
	argNum := 1

	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argNum)
		args = append(args, *filter.Status)
		argNum++
	}

	query += " ORDER BY created_at DESC"

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
		return nil, fmt.Errorf("querying campaigns: %w", err)
	}
	defer rows.Close()

	var campaigns []entity.Campaign
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		campaigns = append(campaigns, *c)
	}

	return campaigns, nil
}

// Count returns the number of campaigns matching the filter
func (r *CampaignPostgres) Count(ctx context.Context, filter CampaignFilter) (int64, error) {
	query := "SELECT COUNT(*) FROM campaigns WHERE 1=1"
	args := []interface{}{}

	if filter.Status != nil {
		query += " AND status = $1"
		args = append(args, *filter.Status)
	}

	var count int64
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting campaigns: %w", err)
	}

	return count, nil
}

// UpdateStatus overwrites status and error message
func (r *CampaignPostgres) UpdateStatus(ctx context.Context, id string, status entity.CampaignStatus, errorMsg string) error {
	query := `UPDATE campaigns SET status = $2, error_msg = $3 WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, id, status, errorMsg)
	if err != nil {
		return fmt.Errorf("updating status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return entity.ErrCampaignNotFound
	}

	return nil
}

// SetPosted marks a campaign as posted with the platform post ID
func (r *CampaignPostgres) SetPosted(ctx context.Context, id string, postID string, postedAt time.Time) error {
	query := `
		UPDATE campaigns
		SET status = 'posted', post_id = $2, posted_at = $3, error_msg = ''
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query, id, postID, postedAt)
	if err != nil {
		return fmt.Errorf("setting posted: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return entity.ErrCampaignNotFound
	}

	return nil
}

// OldestApproved returns the oldest approved campaign
func (r *CampaignPostgres) OldestApproved(ctx context.Context) (*entity.Campaign, error) {
	query := `SELECT ` + campaignColumns + `
		FROM campaigns
		WHERE status = 'approved'
		ORDER BY created_at ASC
		LIMIT 1`

	c, err := scanCampaign(r.pool.QueryRow(ctx, query))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning campaign: %w", err)
	}

	return c, nil
}

// Delete removes a campaign permanently
func (r *CampaignPostgres) Delete(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, "DELETE FROM campaigns WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("deleting campaign: %w", err)
	}
	return nil
}

func scanCampaign(row pgx.Row) (*entity.Campaign, error) {
	var c entity.Campaign
	var postedAt *time.Time

	err := row.Scan(
		&c.ID,
		&c.BaitContent,
		&c.HookComment,
		&c.ProductName,
		&c.ProductLink,
		&c.ShortenedLink,
		&c.PagePersona,
		&c.SourceThreadID,
		&c.Status,
		&c.PostID,
		&c.SuggestedImage,
		&c.CreatedAt,
		&postedAt,
		&c.ErrorMsg,
	)
	if err != nil {
		return nil, err
	}

	c.PostedAt = postedAt
	return &c, nil
}
