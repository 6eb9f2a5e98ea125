package api

import (
	"context"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/dmitrijs2005/chirp/internal/common"
	"github.com/dmitrijs2005/chirp/internal/server/models"
	"github.com/dmitrijs2005/chirp/internal/server/services"
)

// backend is a small in-memory implementation of UserService and PostService.
type backend struct {
	mu     sync.Mutex
	users  map[string]*models.User
	order  []string
	posts  []*models.Post
	clock  time.Time
	failOn string
	err    error
	seq    int
}

func newBackend() *backend {
	return &backend{users: map[string]*models.User{}, clock: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (b *backend) fail(op string) error {
	if b.failOn == op {
		return b.err
	}
	return nil
}

func (b *backend) addUser(id, name, email string) *models.User {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.clock = b.clock.Add(time.Second)
	u := &models.User{ID: id, Name: name, Email: email, Followers: []string{}, Following: []string{}, CreatedAt: b.clock}
	b.users[id] = u
	b.order = append(b.order, id)
	return u
}

func (b *backend) Register(_ context.Context, name, email, _ string) (*models.User, *services.TokenPair, error) {
	if err := b.fail("Register"); err != nil {
		return nil, nil, err
	}
	for _, u := range b.users {
		if u.Email == email {
			return nil, nil, &common.OperationError{Kind: common.ErrorAlreadyExists, Message: services.MsgEmailTaken}
		}
	}
	b.seq++
	u := b.addUser("new-"+string(rune('a'+b.seq)), name, email)
	return u, &services.TokenPair{AccessToken: u.ID, RefreshToken: "r-" + u.ID}, nil
}

func (b *backend) Login(_ context.Context, email, password string) (*models.User, *services.TokenPair, error) {
	if err := b.fail("Login"); err != nil {
		return nil, nil, err
	}
	for _, u := range b.users {
		if u.Email == email && password == "secret1" {
			return u, &services.TokenPair{AccessToken: u.ID, RefreshToken: "r-" + u.ID}, nil
		}
	}
	return nil, nil, common.ErrorUnauthorized
}

func (b *backend) RefreshToken(_ context.Context, token string) (*services.TokenPair, error) {
	if err := b.fail("RefreshToken"); err != nil {
		return nil, err
	}
	id, ok := strings.CutPrefix(token, "r-")
	if !ok {
		return nil, common.ErrorUnauthorized
	}
	return &services.TokenPair{AccessToken: id, RefreshToken: "r-" + id}, nil
}

func (b *backend) Logout(context.Context, string, string) error { return b.fail("Logout") }

func (b *backend) ListOthers(_ context.Context, excludeID string) ([]*models.User, error) {
	if err := b.fail("ListOthers"); err != nil {
		return nil, err
	}
	out := []*models.User{}
	for i := len(b.order) - 1; i >= 0; i-- {
		if b.order[i] != excludeID {
			out = append(out, b.users[b.order[i]])
		}
	}
	return out, nil
}

func (b *backend) UpdateProfile(_ context.Context, userID string, upd models.ProfileUpdate) (*models.User, error) {
	if err := b.fail("UpdateProfile"); err != nil {
		return nil, err
	}
	var name string
	if upd.Name != nil {
		name = strings.TrimSpace(*upd.Name)
		if name == "" {
			return nil, common.NewValidationError(services.MsgNameEmpty)
		}
	}
	if upd.Bio != nil && utf8.RuneCountInString(*upd.Bio) > services.MaxBioLength {
		return nil, common.NewValidationError(services.MsgBioTooLong)
	}
	u := b.users[userID]
	if upd.Name != nil {
		u.Name = name
	}
	if upd.Bio != nil {
		u.Bio = *upd.Bio
	}
	return u, nil
}

func (b *backend) Follow(_ context.Context, followerID, targetID string) error {
	if err := b.fail("Follow"); err != nil {
		return err
	}
	if followerID == targetID {
		return &common.OperationError{Kind: common.ErrorInvalidOperation, Message: services.MsgCannotFollowSelf}
	}
	target, ok := b.users[targetID]
	if !ok {
		return &common.OperationError{Kind: common.ErrorNotFound, Message: services.MsgUserNotFound}
	}
	me := b.users[followerID]
	if me.IsFollowing(targetID) {
		return &common.OperationError{Kind: common.ErrorAlreadyExists, Message: services.MsgAlreadyFollowing}
	}
	me.Following = append(me.Following, targetID)
	target.Followers = append(target.Followers, followerID)
	return nil
}

func remove(ids []string, id string) []string {
	out := []string{}
	for _, x := range ids {
		if x != id {
			out = append(out, x)
		}
	}
	return out
}

func (b *backend) Unfollow(_ context.Context, followerID, targetID string) error {
	if err := b.fail("Unfollow"); err != nil {
		return err
	}
	if me, ok := b.users[followerID]; ok {
		me.Following = remove(me.Following, targetID)
	}
	if target, ok := b.users[targetID]; ok {
		target.Followers = remove(target.Followers, followerID)
	}
	return nil
}

func (b *backend) Create(_ context.Context, authorID, text string) (*models.Post, error) {
	if err := b.fail("Create"); err != nil {
		return nil, err
	}
	text = strings.TrimSpace(text)
	if n := utf8.RuneCountInString(text); n < 1 || n > services.MaxPostLength {
		return nil, common.NewValidationError(services.MsgPostLength)
	}
	b.clock = b.clock.Add(time.Second)
	u := b.users[authorID]
	b.seq++
	p := &models.Post{
		ID:        "p" + string(rune('a'+b.seq)),
		Text:      text,
		Author:    models.Author{ID: u.ID, Name: u.Name, Email: u.Email},
		Timestamp: b.clock, CreatedAt: b.clock, UpdatedAt: b.clock,
	}
	b.posts = append(b.posts, p)
	return p, nil
}

func (b *backend) list(keep func(*models.Post) bool) []*models.Post {
	out := []*models.Post{}
	for i := len(b.posts) - 1; i >= 0; i-- {
		if keep(b.posts[i]) {
			out = append(out, b.posts[i])
		}
	}
	return out
}

func (b *backend) ListAll(context.Context) ([]*models.Post, error) {
	if err := b.fail("ListAll"); err != nil {
		return nil, err
	}
	return b.list(func(*models.Post) bool { return true }), nil
}

func (b *backend) ListTimeline(_ context.Context, userID string) ([]*models.Post, error) {
	if err := b.fail("ListTimeline"); err != nil {
		return nil, err
	}
	me := b.users[userID]
	return b.list(func(p *models.Post) bool { return p.Author.ID == userID || me.IsFollowing(p.Author.ID) }), nil
}

func (b *backend) ListByAuthor(_ context.Context, authorID string) ([]*models.Post, error) {
	if err := b.fail("ListByAuthor"); err != nil {
		return nil, err
	}
	return b.list(func(p *models.Post) bool { return p.Author.ID == authorID }), nil
}

// fakeVerifier accepts "Bearer <userID>" for known users and "Bearer expired".
type fakeVerifier struct {
	b   *backend
	err error
}

func (v *fakeVerifier) Verify(_ context.Context, header string) (*models.User, error) {
	if v.err != nil {
		return nil, v.err
	}
	tok, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return nil, common.ErrorUnauthorized
	}
	if tok == "expired" {
		return nil, common.ErrTokenExpired
	}
	u, ok := v.b.users[tok]
	if !ok {
		return nil, common.ErrorUnauthorized
	}
	return u, nil
}
