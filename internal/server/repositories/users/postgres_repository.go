// Package users provides the PostgreSQL-backed user directory storage.
package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/chirp/internal/common"
	"github.com/dmitrijs2005/chirp/internal/dbx"
	"github.com/dmitrijs2005/chirp/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

// selectUser projects a user row together with its follow sets, aggregated
// as comma separated id lists.
const selectUser = `
	SELECT u.id, u.name, u.email, u.password_hash, u.bio, u.created_at, u.updated_at,
		COALESCE((SELECT string_agg(f.follower_id::text, ',' ORDER BY f.created_at)
			FROM follows f WHERE f.followee_id = u.id), '') AS followers,
		COALESCE((SELECT string_agg(f.followee_id::text, ',' ORDER BY f.created_at)
			FROM follows f WHERE f.follower_id = u.id), '') AS following
	FROM users u
`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	u := &models.User{}
	var followers, following string
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Bio, &u.CreatedAt, &u.UpdatedAt, &followers, &following); err != nil {
		return nil, err
	}
	u.Followers = splitIDs(followers)
	u.Following = splitIDs(following)
	return u, nil
}

func splitIDs(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.Split(s, ",")
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query := `
		INSERT INTO users (id, name, email, password_hash, bio)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRowContext(ctx, query, user.ID, user.Name, user.Email, user.PasswordHash, user.Bio).
		Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	user.Followers = []string{}
	user.Following = []string{}
	return user, nil
}

func (r *PostgresRepository) getOne(ctx context.Context, where string, arg any) (*models.User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx, selectUser+where, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return user, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.getOne(ctx, "WHERE u.id = $1", id)
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, "WHERE u.email = $1", email)
}

// ListExcept returns every user but excludeID, newest accounts first.
func (r *PostgresRepository) ListExcept(ctx context.Context, excludeID string) ([]*models.User, error) {
	rows, err := r.db.QueryContext(ctx, selectUser+"WHERE u.id <> $1 ORDER BY u.created_at DESC", excludeID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	users := make([]*models.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return users, nil
}

// UpdateProfile applies the non-nil fields of upd and returns the fresh row.
func (r *PostgresRepository) UpdateProfile(ctx context.Context, id string, upd models.ProfileUpdate) (*models.User, error) {
	query := `
		UPDATE users
		SET name = COALESCE($2, name), bio = COALESCE($3, bio), updated_at = now()
		WHERE id = $1
	`

	res, err := r.db.ExecContext(ctx, query, id, nullable(upd.Name), nullable(upd.Bio))
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, common.ErrorNotFound
	}

	return r.GetByID(ctx, id)
}

func nullable(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
