package cli

import (
	"bytes"
	"context"
	"fmt"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/chirp/internal/client/client"
	"github.com/dmitrijs2005/chirp/internal/client/config"
	"github.com/dmitrijs2005/chirp/internal/client/models"
	"github.com/dmitrijs2005/chirp/internal/client/session"
	"github.com/dmitrijs2005/chirp/internal/logging"
)

// fakeAPI is an in-memory chirp server seen through client.Client.
type fakeAPI struct {
	tokens    client.Tokens
	onRefresh func(context.Context, client.Tokens)

	me    *models.User
	users []models.User
	posts []models.Post

	// err, when set, is returned by the call named in failOn.
	failOn string
	err    error
	calls  []string
}

var _ client.Client = (*fakeAPI)(nil)

func (f *fakeAPI) call(name string) error {
	f.calls = append(f.calls, name)
	if f.failOn == name {
		return f.err
	}
	return nil
}

func (f *fakeAPI) SetTokens(t client.Tokens) { f.tokens = t }
func (f *fakeAPI) Tokens() client.Tokens     { return f.tokens }
func (f *fakeAPI) OnRefresh(fn func(context.Context, client.Tokens)) {
	f.onRefresh = fn
}

func (f *fakeAPI) Health(ctx context.Context) error { return f.call("health") }

func (f *fakeAPI) Register(ctx context.Context, name, email, password string) (*models.AuthResult, error) {
	if err := f.call("register"); err != nil {
		return nil, err
	}
	f.me = &models.User{ID: "me", Name: name, Email: email}
	return f.issue(), nil
}

func (f *fakeAPI) Login(ctx context.Context, email, password string) (*models.AuthResult, error) {
	if err := f.call("login"); err != nil {
		return nil, err
	}
	if f.me == nil {
		f.me = &models.User{ID: "me", Name: "Ann", Email: email}
	}
	return f.issue(), nil
}

func (f *fakeAPI) issue() *models.AuthResult {
	f.tokens = client.Tokens{AccessToken: "access", RefreshToken: "refresh"}
	u := *f.me
	return &models.AuthResult{AccessToken: "access", RefreshToken: "refresh", User: &u}
}

func (f *fakeAPI) Logout(ctx context.Context) error {
	f.tokens = client.Tokens{}
	return f.call("logout")
}

func (f *fakeAPI) Me(ctx context.Context) (*models.User, error) {
	if err := f.call("me"); err != nil {
		return nil, err
	}
	u := *f.me
	u.Following = slices.Clone(f.me.Following)
	return &u, nil
}

func (f *fakeAPI) CreatePost(ctx context.Context, text string) (*models.Post, error) {
	if err := f.call("createpost"); err != nil {
		return nil, err
	}
	p := models.Post{
		ID:        fmt.Sprintf("p%d", len(f.posts)+1),
		Text:      strings.TrimSpace(text),
		Author:    models.Author{ID: f.me.ID, Name: f.me.Name, Email: f.me.Email},
		Timestamp: time.Date(2025, 1, 2, 3, 4, len(f.posts), 0, time.UTC),
	}
	f.posts = append([]models.Post{p}, f.posts...)
	return &p, nil
}

func (f *fakeAPI) ListPosts(ctx context.Context) ([]models.Post, error) {
	if err := f.call("listposts"); err != nil {
		return nil, err
	}
	return slices.Clone(f.posts), nil
}

func (f *fakeAPI) Timeline(ctx context.Context) ([]models.Post, error) {
	if err := f.call("timeline"); err != nil {
		return nil, err
	}
	var out []models.Post
	for _, p := range f.posts {
		if p.Author.ID == f.me.ID || f.me.IsFollowing(p.Author.ID) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeAPI) PostsByUser(ctx context.Context, userID string) ([]models.Post, error) {
	if err := f.call("postsbyuser:" + userID); err != nil {
		return nil, err
	}
	var out []models.Post
	for _, p := range f.posts {
		if p.Author.ID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeAPI) ListUsers(ctx context.Context) ([]models.User, error) {
	if err := f.call("listusers"); err != nil {
		return nil, err
	}
	return slices.Clone(f.users), nil
}

func (f *fakeAPI) UpdateProfile(ctx context.Context, name, bio *string) (*models.User, error) {
	if err := f.call("updateprofile"); err != nil {
		return nil, err
	}
	if name != nil {
		f.me.Name = *name
	}
	if bio != nil {
		f.me.Bio = *bio
	}
	u := *f.me
	return &u, nil
}

func (f *fakeAPI) Follow(ctx context.Context, userID string) (string, error) {
	if err := f.call("follow:" + userID); err != nil {
		return "", err
	}
	f.me.Following = append(f.me.Following, userID)
	return "User followed successfully", nil
}

func (f *fakeAPI) Unfollow(ctx context.Context, userID string) (string, error) {
	if err := f.call("unfollow:" + userID); err != nil {
		return "", err
	}
	f.me.Following = slices.DeleteFunc(f.me.Following, func(id string) bool { return id == userID })
	return "User unfollowed successfully", nil
}

// memSessions is an in-memory sessionStore.
type memSessions struct {
	sess *session.Session
}

func (m *memSessions) Load(ctx context.Context) (*session.Session, error) {
	if m.sess == nil {
		return nil, nil
	}
	s := *m.sess
	return &s, nil
}

func (m *memSessions) Update(ctx context.Context, s session.Session) error {
	if m.sess == nil {
		m.sess = &session.Session{}
	}
	if s.AccessToken != "" {
		m.sess.AccessToken = s.AccessToken
	}
	if s.RefreshToken != "" {
		m.sess.RefreshToken = s.RefreshToken
	}
	if s.User != nil {
		m.sess.User = s.User
	}
	return nil
}

func (m *memSessions) Clear(ctx context.Context) error {
	m.sess = nil
	return nil
}

type testApp struct {
	*App
	fake   *fakeAPI
	stored *memSessions
	buf    *bytes.Buffer
}

func newTestApp(t *testing.T, input string) *testApp {
	t.Helper()
	cfg := &config.Config{}
	cfg.LoadDefaults()

	api := &fakeAPI{}
	sessions := &memSessions{}
	out := &bytes.Buffer{}
	return &testApp{
		App:    newApp(cfg, logging.Nop{}, api, sessions, strings.NewReader(input), out),
		fake:   api,
		stored: sessions,
		buf:    out,
	}
}

// signIn puts the app in a signed-in state without going through prompts.
func (ta *testApp) signIn() {
	ta.fake.me = &models.User{ID: "me", Name: "Ann", Email: "ann@example.org"}
	ta.fake.tokens = client.Tokens{AccessToken: "access", RefreshToken: "refresh"}
	u := *ta.fake.me
	ta.user = &u
	ta.stored.sess = &session.Session{AccessToken: "access", RefreshToken: "refresh", User: &u}
}
