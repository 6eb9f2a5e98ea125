// Package posts provides the PostgreSQL-backed post store.
package posts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/chirp/internal/common"
	"github.com/dmitrijs2005/chirp/internal/dbx"
	"github.com/dmitrijs2005/chirp/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

const checkViolation = "23514"

const selectPost = `
	SELECT p.id, p.text, p.timestamp, p.created_at, p.updated_at, u.id, u.name, u.email
	FROM posts p
	JOIN users u ON u.id = p.user_id
`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, authorID, postID, text string) error {
	query := `
		INSERT INTO posts (id, user_id, text)
		VALUES ($1, $2, $3)
	`

	if _, err := r.db.ExecContext(ctx, query, postID, authorID, text); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == checkViolation {
			return fmt.Errorf("%w: %s", common.ErrorValidation, pgErr.ConstraintName)
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	p := &models.Post{}
	err := r.db.QueryRowContext(ctx, selectPost+"WHERE p.id = $1", id).
		Scan(&p.ID, &p.Text, &p.Timestamp, &p.CreatedAt, &p.UpdatedAt, &p.Author.ID, &p.Author.Name, &p.Author.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

// ListAll returns the newest posts from everyone.
func (r *PostgresRepository) ListAll(ctx context.Context, limit int) ([]*models.Post, error) {
	return r.list(ctx, "", limit)
}

// ListTimeline returns the newest posts written by userID or by anyone
// userID follows.
func (r *PostgresRepository) ListTimeline(ctx context.Context, userID string, limit int) ([]*models.Post, error) {
	where := `WHERE p.user_id = $1
		OR p.user_id IN (SELECT f.followee_id FROM follows f WHERE f.follower_id = $1)`
	return r.list(ctx, where, limit, userID)
}

func (r *PostgresRepository) ListByAuthor(ctx context.Context, authorID string, limit int) ([]*models.Post, error) {
	return r.list(ctx, "WHERE p.user_id = $1", limit, authorID)
}

func (r *PostgresRepository) list(ctx context.Context, where string, limit int, args ...any) ([]*models.Post, error) {
	query := selectPost + where + "\nORDER BY p.timestamp DESC"
	if limit > 0 {
		args = append(args, limit)
		query += fmt.Sprintf("\nLIMIT $%d", len(args))
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	posts := make([]*models.Post, 0)
	for rows.Next() {
		p := &models.Post{}
		if err := rows.Scan(&p.ID, &p.Text, &p.Timestamp, &p.CreatedAt, &p.UpdatedAt, &p.Author.ID, &p.Author.Name, &p.Author.Email); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return posts, nil
}
