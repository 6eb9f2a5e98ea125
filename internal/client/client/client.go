package client

import (
	"context"

	"github.com/dmitrijs2005/chirp/internal/client/models"
)

// Tokens is the credential pair issued by register, login and refresh.
type Tokens struct {
	AccessToken  string
	RefreshToken string
}

type Client interface {
	SetTokens(t Tokens)
	Tokens() Tokens
	OnRefresh(fn func(ctx context.Context, t Tokens))

	Health(ctx context.Context) error
	Register(ctx context.Context, name, email, password string) (*models.AuthResult, error)
	Login(ctx context.Context, email, password string) (*models.AuthResult, error)
	Logout(ctx context.Context) error
	Me(ctx context.Context) (*models.User, error)

	CreatePost(ctx context.Context, text string) (*models.Post, error)
	ListPosts(ctx context.Context) ([]models.Post, error)
	Timeline(ctx context.Context) ([]models.Post, error)
	PostsByUser(ctx context.Context, userID string) ([]models.Post, error)

	ListUsers(ctx context.Context) ([]models.User, error)
	UpdateProfile(ctx context.Context, name, bio *string) (*models.User, error)
	Follow(ctx context.Context, userID string) (string, error)
	Unfollow(ctx context.Context, userID string) (string, error)
}
