package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/chirp/internal/client/models"
	"github.com/dmitrijs2005/chirp/internal/client/session"
	"github.com/dmitrijs2005/chirp/internal/common"
)

// getSimpleText and getPassword are swapped in tests.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
)

// Register asks for a name, email and password, creates the account and
// signs the user in.
func (a *App) Register(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter name", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	res, err := a.api.Register(ctx, name, email, string(password))
	if err != nil {
		return a.report(ctx, err)
	}
	return a.startSession(ctx, res)
}

// Login asks for credentials and signs the user in.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	res, err := a.api.Login(ctx, email, string(password))
	if err != nil {
		return a.report(ctx, err)
	}
	return a.startSession(ctx, res)
}

func (a *App) startSession(ctx context.Context, res *models.AuthResult) error {
	a.user = res.User
	if a.user == nil {
		u, err := a.api.Me(ctx)
		if err != nil {
			return a.fail(ctx, err)
		}
		a.user = u
	}

	err := a.sessions.Update(ctx, session.Session{
		AccessToken:  res.AccessToken,
		RefreshToken: res.RefreshToken,
		User:         a.user,
	})
	if err != nil {
		a.logger.Warn(ctx, "save session", "error", err)
	}

	a.println(fmt.Sprintf("Signed in as %s", a.user.Name))
	return a.Timeline(ctx)
}

// Logout revokes the refresh token and forgets the local session. The local
// part happens even when the server cannot be reached.
func (a *App) Logout(ctx context.Context) error {
	if err := a.api.Logout(ctx); err != nil {
		a.logger.Info(ctx, "server logout failed", "error", err)
	}
	a.dropSession(ctx)
	a.println("Logged out")
	return nil
}

// Whoami prints the signed-in user's profile.
func (a *App) Whoami(ctx context.Context) error {
	u := a.user
	if u == nil {
		a.println("Not logged in")
		return nil
	}
	a.println(fmt.Sprintf("%s <%s>", u.Name, u.Email))
	if u.Bio != "" {
		a.println("  " + u.Bio)
	}
	a.println(fmt.Sprintf("  followers: %d  following: %d", len(u.Followers), len(u.Following)))
	return nil
}
