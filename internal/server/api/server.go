// Package api exposes the chirp services as a JSON HTTP API under /api.
package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/chirp/internal/logging"
	"github.com/dmitrijs2005/chirp/internal/server/config"
	"github.com/dmitrijs2005/chirp/internal/server/models"
	"github.com/dmitrijs2005/chirp/internal/server/services"
)

type UserService interface {
	Register(ctx context.Context, name, email, password string) (*models.User, *services.TokenPair, error)
	Login(ctx context.Context, email, password string) (*models.User, *services.TokenPair, error)
	RefreshToken(ctx context.Context, refreshToken string) (*services.TokenPair, error)
	Logout(ctx context.Context, userID, refreshToken string) error
	ListOthers(ctx context.Context, excludeID string) ([]*models.User, error)
	UpdateProfile(ctx context.Context, userID string, upd models.ProfileUpdate) (*models.User, error)
	Follow(ctx context.Context, followerID, targetID string) error
	Unfollow(ctx context.Context, followerID, targetID string) error
}

type PostService interface {
	Create(ctx context.Context, authorID, text string) (*models.Post, error)
	ListAll(ctx context.Context) ([]*models.Post, error)
	ListTimeline(ctx context.Context, userID string) ([]*models.Post, error)
	ListByAuthor(ctx context.Context, authorID string) ([]*models.Post, error)
}

// TokenVerifier resolves an Authorization header to the calling user.
type TokenVerifier interface {
	Verify(ctx context.Context, header string) (*models.User, error)
}

type Server struct {
	address         string
	shutdownTimeout time.Duration
	allowedOrigins  []string
	users           UserService
	posts           PostService
	verifier        TokenVerifier
	metrics         *Metrics
	limiter         *RateLimiter
	logger          logging.Logger
}

func NewServer(cfg *config.Config, l logging.Logger, us UserService, ps PostService, v TokenVerifier, m *Metrics) *Server {
	s := &Server{
		address:         cfg.HTTPAddr,
		shutdownTimeout: cfg.ShutdownTimeout,
		allowedOrigins:  cfg.AllowedOrigins,
		users:           us,
		posts:           ps,
		verifier:        v,
		metrics:         m,
		logger:          l.With("module", "http_server"),
	}
	if cfg.RateLimitRPS > 0 {
		s.limiter = NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	}
	return s
}

// Run listens on the configured address until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln and shuts down gracefully once ctx is done.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	if s.limiter != nil {
		go s.limiter.RunCleanup(ctx, limiterIdleTTL)
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "Starting HTTP server", "address", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info(ctx, "Stopping HTTP server...")
	timeout := s.shutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
