package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/chirp/internal/common"
	"github.com/dmitrijs2005/chirp/internal/dbx"
	"github.com/dmitrijs2005/chirp/internal/server/models"
	"github.com/google/uuid"
)

// canonicalID returns the lowercase hyphenated form of id. Postgres accepts
// several spellings of the same uuid, so ids are compared in this form.
func canonicalID(id string) (string, bool) {
	u, err := uuid.Parse(id)
	if err != nil {
		return "", false
	}
	return u.String(), true
}

// GetUser returns common.ErrorNotFound for unknown or malformed ids.
func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	id, ok := canonicalID(id)
	if !ok {
		return nil, common.ErrorNotFound
	}
	return s.repomanager.Users(s.db).GetByID(ctx, id)
}

// ListOthers lists every user except excludeID, newest accounts first.
func (s *UserService) ListOthers(ctx context.Context, excludeID string) ([]*models.User, error) {
	users, err := s.repomanager.Users(s.db).ListExcept(ctx, excludeID)
	if err != nil {
		return nil, fmt.Errorf("error listing users: %w", err)
	}
	return users, nil
}

// UpdateProfile applies a partial update. The name is stored trimmed; nothing
// is written when either field fails validation.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, upd models.ProfileUpdate) (*models.User, error) {
	if upd.Name != nil {
		name := strings.TrimSpace(*upd.Name)
		if name == "" {
			return nil, common.NewValidationError(MsgNameEmpty)
		}
		upd.Name = &name
	}
	if upd.Bio != nil && utf8.RuneCountInString(*upd.Bio) > MaxBioLength {
		return nil, common.NewValidationError(MsgBioTooLong)
	}

	u, err := s.repomanager.Users(s.db).UpdateProfile(ctx, userID, upd)
	if err != nil {
		return nil, fmt.Errorf("error updating profile: %w", err)
	}
	return u, nil
}

// Follow adds the edge follower -> target.
func (s *UserService) Follow(ctx context.Context, followerID, targetID string) error {
	targetID, ok := canonicalID(targetID)
	if !ok {
		return &common.OperationError{Kind: common.ErrorNotFound, Message: MsgUserNotFound}
	}
	if followerID == targetID {
		return &common.OperationError{Kind: common.ErrorInvalidOperation, Message: MsgCannotFollowSelf}
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := s.repomanager.Users(tx).GetByID(ctx, targetID); err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return &common.OperationError{Kind: common.ErrorNotFound, Message: MsgUserNotFound}
			}
			return fmt.Errorf("error searching user: %w", err)
		}

		created, err := s.repomanager.Follows(tx).Add(ctx, followerID, targetID)
		if err != nil {
			return fmt.Errorf("error adding follow: %w", err)
		}
		if !created {
			return &common.OperationError{Kind: common.ErrorAlreadyExists, Message: MsgAlreadyFollowing}
		}
		return nil
	})
}

// Unfollow removes the edge follower -> target. It succeeds when there is
// no such edge.
func (s *UserService) Unfollow(ctx context.Context, followerID, targetID string) error {
	targetID, ok := canonicalID(targetID)
	if !ok {
		return nil
	}
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Follows(tx).Remove(ctx, followerID, targetID); err != nil {
			return fmt.Errorf("error removing follow: %w", err)
		}
		return nil
	})
}
