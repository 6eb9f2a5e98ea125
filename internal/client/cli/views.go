package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/chirp/internal/client/models"
)

const timeLayout = "2006-01-02 15:04"

// Timeline shows the most recent posts from everyone.
func (a *App) Timeline(ctx context.Context) error {
	return a.showPosts(ctx, viewTimeline, a.api.ListPosts)
}

// Feed shows recent posts from the user and the people they follow.
func (a *App) Feed(ctx context.Context) error {
	return a.showPosts(ctx, viewFeed, a.api.Timeline)
}

// Profile shows the signed-in user's own posts.
func (a *App) Profile(ctx context.Context) error {
	id := a.user.ID
	return a.showPosts(ctx, viewProfile, func(ctx context.Context) ([]models.Post, error) {
		return a.api.PostsByUser(ctx, id)
	})
}

// Explore lists the other users with the follow state of each.
func (a *App) Explore(ctx context.Context) error {
	users, err := a.api.ListUsers(ctx)
	if err != nil {
		return a.fail(ctx, err)
	}

	a.view, a.users = viewExplore, users
	a.renderUsers()
	return nil
}

func (a *App) showPosts(ctx context.Context, v view, fetch func(context.Context) ([]models.Post, error)) error {
	posts, err := fetch(ctx)
	if err != nil {
		return a.fail(ctx, err)
	}

	a.view, a.posts = v, posts
	a.renderPosts()
	return nil
}

// refetch shows v again with fresh data.
func (a *App) refetch(ctx context.Context, v view) error {
	switch v {
	case viewFeed:
		return a.Feed(ctx)
	case viewProfile:
		return a.Profile(ctx)
	case viewExplore:
		return a.Explore(ctx)
	default:
		return a.Timeline(ctx)
	}
}

func (a *App) renderPosts() {
	a.println(fmt.Sprintf("== %s ==", a.view))
	if len(a.posts) == 0 {
		a.println("No posts yet")
		return
	}
	for _, p := range a.posts {
		a.println(fmt.Sprintf("%s <%s>  %s", p.Author.Name, p.Author.Email, p.Timestamp.In(time.Local).Format(timeLayout)))
		a.println("  " + p.Text)
	}
}

func (a *App) renderUsers() {
	a.println("== explore ==")
	if len(a.users) == 0 {
		a.println("No other users yet")
		return
	}
	for i, u := range a.users {
		line := fmt.Sprintf("[%d] %s <%s>", i+1, u.Name, u.Email)
		if a.user.IsFollowing(u.ID) {
			line += "  (following)"
		}
		a.println(line)
		if u.Bio != "" {
			a.println("    " + u.Bio)
		}
	}
}
