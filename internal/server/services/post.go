package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/chirp/internal/common"
	"github.com/dmitrijs2005/chirp/internal/server/models"
	"github.com/dmitrijs2005/chirp/internal/server/repositories/posts"
	"github.com/dmitrijs2005/chirp/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

const (
	AllPostsLimit = 100
	TimelineLimit = 50
)

// PostService creates and lists posts. Every returned post carries its
// author's current public fields.
type PostService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewPostService(db *sql.DB, m repomanager.RepositoryManager) *PostService {
	return &PostService{db: db, repomanager: m}
}

// Create stores the trimmed text, which must be 1 to 280 code points long.
func (s *PostService) Create(ctx context.Context, authorID, text string) (*models.Post, error) {
	text = strings.TrimSpace(text)
	if n := utf8.RuneCountInString(text); n < 1 || n > MaxPostLength {
		return nil, common.NewValidationError(MsgPostLength)
	}

	repo := s.repomanager.Posts(s.db)
	id := uuid.NewString()
	if err := repo.Create(ctx, authorID, id, text); err != nil {
		if errors.Is(err, common.ErrorValidation) {
			return nil, common.NewValidationError(MsgPostLength)
		}
		return nil, fmt.Errorf("error creating post: %w", err)
	}

	p, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error loading post: %w", err)
	}
	return p, nil
}

// ListAll returns the 100 newest posts.
func (s *PostService) ListAll(ctx context.Context) ([]*models.Post, error) {
	return s.wrap(s.repomanager.Posts(s.db).ListAll(ctx, AllPostsLimit))
}

// ListTimeline returns the 50 newest posts by userID or anyone userID follows.
func (s *PostService) ListTimeline(ctx context.Context, userID string) ([]*models.Post, error) {
	return s.wrap(s.repomanager.Posts(s.db).ListTimeline(ctx, userID, TimelineLimit))
}

// ListByAuthor returns every post by authorID.
func (s *PostService) ListByAuthor(ctx context.Context, authorID string) ([]*models.Post, error) {
	authorID, ok := canonicalID(authorID)
	if !ok {
		return []*models.Post{}, nil
	}
	return s.wrap(s.repomanager.Posts(s.db).ListByAuthor(ctx, authorID, posts.NoLimit))
}

func (s *PostService) wrap(p []*models.Post, err error) ([]*models.Post, error) {
	if err != nil {
		return nil, fmt.Errorf("error listing posts: %w", err)
	}
	return p, nil
}
