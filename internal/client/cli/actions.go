package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// Post publishes text, prompting for it when empty, then refreshes the
// current post view.
func (a *App) Post(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		t, err := getSimpleText(a.reader, "What's happening?", a.out)
		if err != nil {
			return err
		}
		text = t
	}

	if _, err := a.api.CreatePost(ctx, text); err != nil {
		return a.fail(ctx, err)
	}
	a.println("Posted")

	v := a.view
	if v == viewExplore || v == viewNone {
		v = viewTimeline
	}
	return a.refetch(ctx, v)
}

func (a *App) Follow(ctx context.Context, target string) error {
	return a.changeFollow(ctx, target, a.api.Follow)
}

func (a *App) Unfollow(ctx context.Context, target string) error {
	return a.changeFollow(ctx, target, a.api.Unfollow)
}

func (a *App) changeFollow(ctx context.Context, target string, call func(context.Context, string) (string, error)) error {
	id := a.resolveUser(target)

	msg, err := call(ctx, id)
	if err != nil {
		return a.fail(ctx, err)
	}
	a.println(msg)

	me, err := a.api.Me(ctx)
	if err != nil {
		return a.fail(ctx, err)
	}
	a.setUser(ctx, me)
	return a.Explore(ctx)
}

// resolveUser maps "3" to the id of the third user in the last explore
// listing. Anything else is taken as a user id.
func (a *App) resolveUser(target string) string {
	n, err := strconv.Atoi(target)
	if err != nil || n < 1 || n > len(a.users) {
		return target
	}
	return a.users[n-1].ID
}

// EditProfile prompts for a new name and bio. Enter keeps a field, "-"
// clears the bio.
func (a *App) EditProfile(ctx context.Context) error {
	name, err := GetOptionalText(a.reader, fmt.Sprintf("Name [%s]", a.user.Name), a.out)
	if err != nil {
		return err
	}
	bio, err := GetOptionalText(a.reader, fmt.Sprintf("Bio [%s] ('-' clears)", a.user.Bio), a.out)
	if err != nil {
		return err
	}
	if bio != nil && *bio == "-" {
		empty := ""
		bio = &empty
	}
	if name == nil && bio == nil {
		a.println("Nothing to change")
		return nil
	}

	u, err := a.api.UpdateProfile(ctx, name, bio)
	if err != nil {
		return a.fail(ctx, err)
	}
	a.setUser(ctx, u)
	a.println("Profile updated")
	_ = a.Whoami(ctx)
	return a.Profile(ctx)
}
