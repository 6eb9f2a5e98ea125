package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/chirp/internal/client/client"
	"github.com/dmitrijs2005/chirp/internal/client/config"
	"github.com/dmitrijs2005/chirp/internal/client/models"
	"github.com/dmitrijs2005/chirp/internal/client/session"
	"github.com/dmitrijs2005/chirp/internal/logging"
)

type sessionStore interface {
	Load(ctx context.Context) (*session.Session, error)
	Update(ctx context.Context, sess session.Session) error
	Clear(ctx context.Context) error
}

type view string

const (
	viewNone     view = ""
	viewTimeline view = "timeline"
	viewFeed     view = "feed"
	viewExplore  view = "explore"
	viewProfile  view = "profile"
)

type App struct {
	config   *config.Config
	logger   logging.Logger
	api      client.Client
	sessions sessionStore
	closer   io.Closer

	reader *bufio.Reader
	out    io.Writer

	user  *models.User
	view  view
	posts []models.Post
	users []models.User
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	db, err := client.InitDatabase(ctx, c.SessionDBPath)
	if err != nil {
		return nil, fmt.Errorf("open session db: %w", err)
	}

	logger := logging.NewJSONLogger(os.Stderr, c.LogLevel)
	api := client.NewHTTPClient(c.ServerURL, c.RequestTimeout)

	a := newApp(c, logger, api, session.NewStore(db), os.Stdin, os.Stdout)
	a.closer = db
	return a, nil
}

func newApp(c *config.Config, logger logging.Logger, api client.Client, sessions sessionStore, in io.Reader, out io.Writer) *App {
	a := &App{
		config:   c,
		logger:   logger,
		api:      api,
		sessions: sessions,
		reader:   bufio.NewReader(in),
		out:      out,
	}
	api.OnRefresh(a.saveTokens)
	return a
}

// Run restores the saved session and serves the REPL until the user exits.
func (a *App) Run(ctx context.Context) error {
	if a.closer != nil {
		defer a.closer.Close()
	}

	a.println("Welcome to chirp (type 'help' for commands)")
	a.restoreSession(ctx)

	runREPL(ctx, a, a.getStatus, a.reader)
	return nil
}

func (a *App) isLoggedIn() bool {
	return a.user != nil
}

func (a *App) getStatus() string {
	if a.user == nil {
		return ""
	}
	return fmt.Sprintf(" (%s)", a.user.Name)
}

func (a *App) restoreSession(ctx context.Context) {
	sess, err := a.sessions.Load(ctx)
	if err != nil {
		a.logger.Warn(ctx, "load session", "error", err)
	}
	if sess == nil {
		a.println("Type 'login' or 'register' to get started")
		return
	}

	a.api.SetTokens(client.Tokens{AccessToken: sess.AccessToken, RefreshToken: sess.RefreshToken})

	u, err := a.api.Me(ctx)
	switch {
	case errors.Is(err, client.ErrUnavailable):
		// keep the cached identity; commands will report the outage
		a.user = sess.User
		a.println("Server unavailable, using saved session")
		return
	case err != nil:
		a.logger.Info(ctx, "saved session rejected", "error", err)
		a.dropSession(ctx)
		a.println("Session expired, please log in again")
		return
	}

	a.setUser(ctx, u)
	a.println(fmt.Sprintf("Signed in as %s", u.Name))
	_ = a.Timeline(ctx)
}

// setUser replaces the signed-in user and persists it.
func (a *App) setUser(ctx context.Context, u *models.User) {
	a.user = u
	if err := a.sessions.Update(ctx, session.Session{User: u}); err != nil {
		a.logger.Warn(ctx, "save session user", "error", err)
	}
}

func (a *App) saveTokens(ctx context.Context, t client.Tokens) {
	err := a.sessions.Update(ctx, session.Session{AccessToken: t.AccessToken, RefreshToken: t.RefreshToken})
	if err != nil {
		a.logger.Warn(ctx, "save refreshed tokens", "error", err)
	}
}

func (a *App) dropSession(ctx context.Context) {
	if err := a.sessions.Clear(ctx); err != nil {
		a.logger.Warn(ctx, "clear session", "error", err)
	}
	a.api.SetTokens(client.Tokens{})
	a.user = nil
	a.view = viewNone
	a.posts = nil
	a.users = nil
}

// fail reports a command error to the user and returns it unchanged.
func (a *App) fail(ctx context.Context, err error) error {
	if errors.Is(err, client.ErrUnauthorized) && a.isLoggedIn() {
		a.logger.Debug(ctx, "command failed", "error", err)
		a.dropSession(ctx)
		a.println("Session expired, please log in again")
		return err
	}
	return a.report(ctx, err)
}

// report prints err without touching the session. Credential checks use it
// directly, since a rejected password says nothing about the current tokens.
func (a *App) report(ctx context.Context, err error) error {
	a.logger.Debug(ctx, "command failed", "error", err)

	switch {
	case errors.Is(err, client.ErrUnavailable):
		a.println("Error: server unavailable")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		a.println("Error: request cancelled")
	default:
		a.println("Error: " + err.Error())
	}
	return err
}

func (a *App) println(s string) {
	fmt.Fprintln(a.out, s)
}
