package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/chirp/internal/client/models"
	"github.com/dmitrijs2005/chirp/internal/common"
)

const maxResponseBytes = 4 << 20

// HTTPClient talks to the chirp API over HTTP/JSON. It is safe for
// concurrent use.
type HTTPClient struct {
	baseURL string
	http    *http.Client

	mu        sync.Mutex
	tokens    Tokens
	onRefresh func(ctx context.Context, t Tokens)
}

var _ Client = (*HTTPClient)(nil)

func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) SetTokens(t Tokens) {
	c.mu.Lock()
	c.tokens = t
	c.mu.Unlock()
}

func (c *HTTPClient) Tokens() Tokens {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tokens
}

// OnRefresh registers fn to be called after the token pair was rotated
// behind the caller's back.
func (c *HTTPClient) OnRefresh(fn func(ctx context.Context, t Tokens)) {
	c.mu.Lock()
	c.onRefresh = fn
	c.mu.Unlock()
}

func (c *HTTPClient) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/healthz", nil, nil, false)
}

func (c *HTTPClient) Register(ctx context.Context, name, email, password string) (*models.AuthResult, error) {
	body := map[string]string{"name": name, "email": email, "password": password}
	return c.authenticate(ctx, "/api/auth/register", body)
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*models.AuthResult, error) {
	body := map[string]string{"email": email, "password": password}
	return c.authenticate(ctx, "/api/auth/login", body)
}

func (c *HTTPClient) authenticate(ctx context.Context, path string, body any) (*models.AuthResult, error) {
	var res models.AuthResult
	if err := c.do(ctx, http.MethodPost, path, body, &res, false); err != nil {
		return nil, err
	}
	c.SetTokens(Tokens{AccessToken: res.AccessToken, RefreshToken: res.RefreshToken})
	return &res, nil
}

// Logout revokes the refresh token on the server. Local tokens are dropped
// even when the call fails.
func (c *HTTPClient) Logout(ctx context.Context) error {
	body := map[string]string{"refreshToken": c.Tokens().RefreshToken}
	err := c.do(ctx, http.MethodPost, "/api/auth/logout", body, nil, true)
	c.SetTokens(Tokens{})
	return err
}

func (c *HTTPClient) Me(ctx context.Context) (*models.User, error) {
	var u models.User
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &u, true); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *HTTPClient) CreatePost(ctx context.Context, text string) (*models.Post, error) {
	var p models.Post
	if err := c.do(ctx, http.MethodPost, "/api/posts", map[string]string{"text": text}, &p, true); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *HTTPClient) ListPosts(ctx context.Context) ([]models.Post, error) {
	return c.posts(ctx, "/api/posts")
}

func (c *HTTPClient) Timeline(ctx context.Context) ([]models.Post, error) {
	return c.posts(ctx, "/api/posts/timeline")
}

func (c *HTTPClient) PostsByUser(ctx context.Context, userID string) ([]models.Post, error) {
	return c.posts(ctx, "/api/posts/user/"+url.PathEscape(userID))
}

func (c *HTTPClient) posts(ctx context.Context, path string) ([]models.Post, error) {
	posts := []models.Post{}
	if err := c.do(ctx, http.MethodGet, path, nil, &posts, true); err != nil {
		return nil, err
	}
	return posts, nil
}

func (c *HTTPClient) ListUsers(ctx context.Context) ([]models.User, error) {
	users := []models.User{}
	if err := c.do(ctx, http.MethodGet, "/api/users", nil, &users, true); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *HTTPClient) UpdateProfile(ctx context.Context, name, bio *string) (*models.User, error) {
	body := struct {
		Name *string `json:"name,omitempty"`
		Bio  *string `json:"bio,omitempty"`
	}{Name: name, Bio: bio}

	var u models.User
	if err := c.do(ctx, http.MethodPut, "/api/users/profile", body, &u, true); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *HTTPClient) Follow(ctx context.Context, userID string) (string, error) {
	return c.message(ctx, http.MethodPost, "/api/users/"+url.PathEscape(userID)+"/follow")
}

func (c *HTTPClient) Unfollow(ctx context.Context, userID string) (string, error) {
	return c.message(ctx, http.MethodDelete, "/api/users/"+url.PathEscape(userID)+"/follow")
}

func (c *HTTPClient) message(ctx context.Context, method, path string) (string, error) {
	var res messageBody
	if err := c.do(ctx, method, path, nil, &res, true); err != nil {
		return "", err
	}
	return res.Message, nil
}

type messageBody struct {
	Message string `json:"message"`
}

// do sends one request. When an authenticated call fails because the access
// token expired, the pair is refreshed once and the call is repeated.
func (c *HTTPClient) do(ctx context.Context, method, path string, in, out any, auth bool) error {
	var payload []byte
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		payload = b
	}

	err := c.send(ctx, method, path, payload, out, auth)
	if !auth || !isTokenExpired(err) || c.Tokens().RefreshToken == "" {
		return err
	}

	if err := c.refresh(ctx); err != nil {
		return err
	}
	return c.send(ctx, method, path, payload, out, auth)
}

func (c *HTTPClient) refresh(ctx context.Context) error {
	var res models.AuthResult
	body, err := json.Marshal(map[string]string{"refreshToken": c.Tokens().RefreshToken})
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	if err := c.send(ctx, http.MethodPost, "/api/auth/refresh", body, &res, false); err != nil {
		return err
	}

	t := Tokens{AccessToken: res.AccessToken, RefreshToken: res.RefreshToken}
	c.mu.Lock()
	c.tokens = t
	fn := c.onRefresh
	c.mu.Unlock()

	if fn != nil {
		fn(ctx, t)
	}
	return nil
}

func (c *HTTPClient) send(ctx context.Context, method, path string, payload []byte, out any, auth bool) error {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth {
		if tok := c.Tokens().AccessToken; tok != "" {
			req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+tok)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		var m messageBody
		if json.Unmarshal(data, &m) == nil {
			apiErr.Message = m.Message
		}
		return apiErr
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func isTokenExpired(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Status == http.StatusUnauthorized && apiErr.Message == common.ErrTokenExpired.Error()
}
