package dao

import (
	"context"

	"github.com/hoangnm/baithook/internal/domain/link/entity"
)

// LinkFilter contains filters for listing affiliate links
type LinkFilter struct {
	// Collection matches rows whose collection_name contains this value
	Collection string
}

// LinkRepository defines the interface for affiliate link data access
type LinkRepository interface {
	// Create inserts a new link
	Create(ctx context.Context, l *entity.AffLink) error

	// GetByID retrieves a link by ID, nil when absent
	GetByID(ctx context.Context, id string) (*entity.AffLink, error)

	// List retrieves links ordered by created_at descending
	List(ctx context.Context, filter LinkFilter) ([]entity.AffLink, error)

	// Count returns the total number of links
	Count(ctx context.Context) (int64, error)

	// Delete removes a link permanently
	Delete(ctx context.Context, id string) error
}
