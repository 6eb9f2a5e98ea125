package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/chirp/internal/common"
	"github.com/dmitrijs2005/chirp/internal/server/models"
)

// UserFinder resolves the identity carried by a token.
type UserFinder interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
}

type Verifier struct {
	secret []byte
	users  UserFinder
}

func NewVerifier(secret []byte, users UserFinder) *Verifier {
	return &Verifier{secret: secret, users: users}
}

// Verify turns a raw Authorization header value into the calling user.
// A valid token whose user no longer exists is rejected as unauthorized.
func (v *Verifier) Verify(ctx context.Context, header string) (*models.User, error) {
	raw, ok := BearerToken(header)
	if !ok {
		return nil, common.ErrorUnauthorized
	}

	userID, err := GetUserIDFromToken(raw, v.secret)
	if err != nil {
		return nil, err
	}

	u, err := v.users.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("resolve token user: %w", err)
	}
	return u, nil
}

// BearerToken extracts the token from "Bearer <token>".
func BearerToken(header string) (string, bool) {
	if len(header) <= len(common.BearerPrefix) || !strings.EqualFold(header[:len(common.BearerPrefix)], common.BearerPrefix) {
		return "", false
	}
	tok := strings.TrimSpace(header[len(common.BearerPrefix):])
	return tok, tok != ""
}

type ctxKey struct{}

// WithUser stores the authenticated user in ctx.
func WithUser(ctx context.Context, u *models.User) context.Context {
	return context.WithValue(ctx, ctxKey{}, u)
}

// UserFromContext returns the user set by WithUser.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	u, ok := ctx.Value(ctxKey{}).(*models.User)
	return u, ok && u != nil
}
