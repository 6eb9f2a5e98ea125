package users

import (
	"context"

	"github.com/dmitrijs2005/chirp/internal/server/models"
)

// Repository stores user accounts. Follower/following sets are read from
// the follows table on every fetch.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	ListExcept(ctx context.Context, excludeID string) ([]*models.User, error)
	UpdateProfile(ctx context.Context, id string, upd models.ProfileUpdate) (*models.User, error)
}
