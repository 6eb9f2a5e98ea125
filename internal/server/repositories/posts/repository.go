package posts

import (
	"context"

	"github.com/dmitrijs2005/chirp/internal/server/models"
)

// NoLimit disables the row cap of a listing.
const NoLimit = 0

// Repository stores posts. Every read joins the author's public fields
// from the users table.
type Repository interface {
	Create(ctx context.Context, authorID, postID, text string) error
	GetByID(ctx context.Context, id string) (*models.Post, error)
	ListAll(ctx context.Context, limit int) ([]*models.Post, error)
	ListTimeline(ctx context.Context, userID string, limit int) ([]*models.Post, error)
	ListByAuthor(ctx context.Context, authorID string, limit int) ([]*models.Post, error)
}
