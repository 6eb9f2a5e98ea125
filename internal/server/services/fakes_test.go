package services

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/chirp/internal/common"
	"github.com/dmitrijs2005/chirp/internal/cryptox"
	"github.com/dmitrijs2005/chirp/internal/dbx"
	"github.com/dmitrijs2005/chirp/internal/server/config"
	"github.com/dmitrijs2005/chirp/internal/server/models"
	"github.com/dmitrijs2005/chirp/internal/server/repositories/follows"
	"github.com/dmitrijs2005/chirp/internal/server/repositories/posts"
	"github.com/dmitrijs2005/chirp/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/chirp/internal/server/repositories/users"
	"github.com/stretchr/testify/require"
)

var testParams = cryptox.Params{Time: 1, Memory: 8, Threads: 1, SaltLen: 8, KeyLen: 16}

// store is an in-memory stand-in for the four repositories.
type store struct {
	mu      sync.Mutex
	users   map[string]*models.User
	edges   map[[2]string]time.Time
	posts   []*models.Post
	tokens  map[string]*models.RefreshToken
	clock   time.Time
	failErr error

	// beforeDelete runs under the lock just before a token is deleted.
	beforeDelete func(token string)
}

func newStore() *store {
	return &store{
		users:  map[string]*models.User{},
		edges:  map[[2]string]time.Time{},
		tokens: map[string]*models.RefreshToken{},
		clock:  time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (s *store) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

func (s *store) addUser(id, name, email string) *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := &models.User{ID: id, Name: name, Email: email, CreatedAt: s.tick()}
	s.users[id] = u
	return u
}

func (s *store) view(u *models.User) *models.User {
	c := *u
	c.Followers, c.Following = []string{}, []string{}
	for e := range s.edges {
		if e[1] == u.ID {
			c.Followers = append(c.Followers, e[0])
		}
		if e[0] == u.ID {
			c.Following = append(c.Following, e[1])
		}
	}
	sort.Strings(c.Followers)
	sort.Strings(c.Following)
	return &c
}

type fakeUsers struct{ s *store }

func (f fakeUsers) Create(_ context.Context, u *models.User) (*models.User, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.failErr != nil {
		return nil, f.s.failErr
	}
	for _, x := range f.s.users {
		if x.Email == u.Email {
			return nil, common.ErrorAlreadyExists
		}
	}
	c := *u
	c.CreatedAt = f.s.tick()
	f.s.users[u.ID] = &c
	return f.s.view(&c), nil
}

func (f fakeUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.failErr != nil {
		return nil, f.s.failErr
	}
	u, ok := f.s.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return f.s.view(u), nil
}

func (f fakeUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.failErr != nil {
		return nil, f.s.failErr
	}
	for _, u := range f.s.users {
		if u.Email == email {
			return f.s.view(u), nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f fakeUsers) ListExcept(_ context.Context, excludeID string) ([]*models.User, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.failErr != nil {
		return nil, f.s.failErr
	}
	out := []*models.User{}
	for id, u := range f.s.users {
		if id != excludeID {
			out = append(out, f.s.view(u))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f fakeUsers) UpdateProfile(_ context.Context, id string, upd models.ProfileUpdate) (*models.User, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	u, ok := f.s.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	if upd.Name != nil {
		u.Name = *upd.Name
	}
	if upd.Bio != nil {
		u.Bio = *upd.Bio
	}
	return f.s.view(u), nil
}

type fakeFollows struct{ s *store }

func (f fakeFollows) Add(_ context.Context, follower, followee string) (bool, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	k := [2]string{follower, followee}
	if _, ok := f.s.edges[k]; ok {
		return false, nil
	}
	f.s.edges[k] = f.s.tick()
	return true, nil
}

func (f fakeFollows) Remove(_ context.Context, follower, followee string) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	delete(f.s.edges, [2]string{follower, followee})
	return nil
}

type fakePosts struct{ s *store }

func (f fakePosts) Create(_ context.Context, authorID, postID, text string) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.failErr != nil {
		return f.s.failErr
	}
	ts := f.s.tick()
	f.s.posts = append(f.s.posts, &models.Post{ID: postID, Text: text, Author: models.Author{ID: authorID}, Timestamp: ts, CreatedAt: ts, UpdatedAt: ts})
	return nil
}

// joined mirrors the read-time author join.
func (f fakePosts) joined(p *models.Post) *models.Post {
	c := *p
	if u, ok := f.s.users[p.Author.ID]; ok {
		c.Author = models.Author{ID: u.ID, Name: u.Name, Email: u.Email}
	}
	return &c
}

func (f fakePosts) GetByID(_ context.Context, id string) (*models.Post, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for _, p := range f.s.posts {
		if p.ID == id {
			return f.joined(p), nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f fakePosts) filter(limit int, keep func(*models.Post) bool) ([]*models.Post, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.failErr != nil {
		return nil, f.s.failErr
	}
	out := []*models.Post{}
	for i := len(f.s.posts) - 1; i >= 0; i-- {
		if keep(f.s.posts[i]) {
			out = append(out, f.joined(f.s.posts[i]))
		}
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f fakePosts) ListAll(_ context.Context, limit int) ([]*models.Post, error) {
	return f.filter(limit, func(*models.Post) bool { return true })
}

func (f fakePosts) ListTimeline(_ context.Context, userID string, limit int) ([]*models.Post, error) {
	return f.filter(limit, func(p *models.Post) bool {
		if p.Author.ID == userID {
			return true
		}
		_, ok := f.s.edges[[2]string{userID, p.Author.ID}]
		return ok
	})
}

func (f fakePosts) ListByAuthor(_ context.Context, authorID string, limit int) ([]*models.Post, error) {
	return f.filter(limit, func(p *models.Post) bool { return p.Author.ID == authorID })
}

type fakeTokens struct{ s *store }

func (f fakeTokens) Create(_ context.Context, userID, token string, validity time.Duration) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	f.s.tokens[token] = &models.RefreshToken{UserID: userID, Token: token, Expires: time.Now().Add(validity)}
	return nil
}

func (f fakeTokens) Find(_ context.Context, token string) (*models.RefreshToken, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	rt, ok := f.s.tokens[token]
	if !ok {
		return nil, common.ErrorNotFound
	}
	c := *rt
	return &c, nil
}

func (f fakeTokens) Delete(_ context.Context, token string) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.beforeDelete != nil {
		f.s.beforeDelete(token)
	}
	if _, ok := f.s.tokens[token]; !ok {
		return common.ErrorNotFound
	}
	delete(f.s.tokens, token)
	return nil
}

func (f fakeTokens) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	var n int64
	for k, rt := range f.s.tokens {
		if rt.Expires.Before(now) {
			delete(f.s.tokens, k)
			n++
		}
	}
	return n, nil
}

type fakeManager struct{ s *store }

func (m fakeManager) RunMigrations(context.Context, *sql.DB) error    { return nil }
func (m fakeManager) Users(dbx.DBTX) users.Repository                 { return fakeUsers{m.s} }
func (m fakeManager) Follows(dbx.DBTX) follows.Repository             { return fakeFollows{m.s} }
func (m fakeManager) Posts(dbx.DBTX) posts.Repository                 { return fakePosts{m.s} }
func (m fakeManager) RefreshTokens(dbx.DBTX) refreshtokens.Repository { return fakeTokens{m.s} }

// newSQLMockDB returns a mock that tolerates any number of transactions.
func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func expectTx(mock sqlmock.Sqlmock, commit bool) {
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func testConfig() *config.Config {
	return &config.Config{
		SecretKey:                    "k",
		AccessTokenValidityDuration:  time.Hour,
		RefreshTokenValidityDuration: 2 * time.Hour,
	}
}

func newTestUserService(t *testing.T) (*UserService, *store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock := newSQLMockDB(t)
	st := newStore()
	return newUserService(db, fakeManager{st}, testConfig(), testParams), st, mock
}
