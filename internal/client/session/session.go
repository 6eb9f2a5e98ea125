// Package session persists the signed-in user and token pair in the client's
// local metadata store so a restart does not require a new login.
package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/chirp/internal/client/models"
	"github.com/dmitrijs2005/chirp/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/chirp/internal/dbx"
)

const (
	keyAccessToken  = "access_token"
	keyRefreshToken = "refresh_token"
	keyUser         = "user"
)

type Session struct {
	AccessToken  string
	RefreshToken string
	User         *models.User
}

// Store reads and writes the session. Every write runs in one transaction.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Load returns the persisted session, or nil when nobody is signed in.
func (s *Store) Load(ctx context.Context) (*Session, error) {
	repo := metadata.NewSQLiteRepository(s.db)

	values, err := repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	access, refresh := string(values[keyAccessToken]), string(values[keyRefreshToken])
	if access == "" && refresh == "" {
		return nil, nil
	}

	sess := &Session{AccessToken: access, RefreshToken: refresh}
	if raw := values[keyUser]; len(raw) > 0 {
		u := &models.User{}
		if err := json.Unmarshal(raw, u); err != nil {
			return nil, fmt.Errorf("load session: decode user: %w", err)
		}
		sess.User = u
	}
	return sess, nil
}

// Update writes the non-empty parts of sess, keeping the rest as stored.
func (s *Store) Update(ctx context.Context, sess Session) error {
	var user []byte
	if sess.User != nil {
		b, err := json.Marshal(sess.User)
		if err != nil {
			return fmt.Errorf("save session: encode user: %w", err)
		}
		user = b
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		for key, value := range map[string][]byte{
			keyAccessToken:  []byte(sess.AccessToken),
			keyRefreshToken: []byte(sess.RefreshToken),
			keyUser:         user,
		} {
			if len(value) == 0 {
				continue
			}
			if err := repo.Set(ctx, key, value); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Clear forgets the session.
func (s *Store) Clear(ctx context.Context) error {
	if err := metadata.NewSQLiteRepository(s.db).Clear(ctx); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
