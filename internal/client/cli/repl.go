package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

// execIface is the command surface the REPL dispatches to. *App satisfies
// it; tests provide a recording stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Whoami(ctx context.Context) error
	Timeline(ctx context.Context) error
	Feed(ctx context.Context) error
	Explore(ctx context.Context) error
	Profile(ctx context.Context) error
	Post(ctx context.Context, text string) error
	Follow(ctx context.Context, target string) error
	Unfollow(ctx context.Context, target string) error
	EditProfile(ctx context.Context) error
}

const (
	helpGuest  = "Available commands: register, login, help, exit"
	helpMember = "Available commands: timeline, feed, explore, profile, post [text], follow <n|id>, unfollow <n|id>, editprofile, whoami, logout, help, exit"
)

// runREPL reads commands from in until EOF, "exit" or context cancellation.
// Command errors are reported by the handlers themselves, so the loop
// ignores them.
//
//	Signed out: register, login
//	Signed in:  timeline, feed, explore, profile, post, follow, unfollow,
//	            editprofile, whoami, logout
func runREPL(ctx context.Context, a execIface, statusFn func() string, in *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("chirp%s> ", statusFn()))

		line, err := readLine(in)
		if err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpMember)
			} else {
				printlnFn(helpGuest)
			}
			continue
		case "exit", "quit":
			printlnFn("Bye!")
			return
		case "register":
			_ = a.Register(ctx)
			continue
		case "login":
			_ = a.Login(ctx)
			continue
		}

		if !a.isLoggedIn() {
			if isMemberCommand(cmd) {
				printlnFn("Please log in first")
			} else {
				printlnFn("Unknown command:", cmd)
			}
			continue
		}

		switch cmd {
		case "t", "timeline":
			_ = a.Timeline(ctx)
		case "feed":
			_ = a.Feed(ctx)
		case "explore", "users":
			_ = a.Explore(ctx)
		case "profile":
			_ = a.Profile(ctx)
		case "post":
			_ = a.Post(ctx, strings.Join(args, " "))
		case "follow", "unfollow":
			if len(args) != 1 {
				printlnFn(fmt.Sprintf("Usage: %s <n|id>", cmd))
				continue
			}
			if cmd == "follow" {
				_ = a.Follow(ctx, args[0])
			} else {
				_ = a.Unfollow(ctx, args[0])
			}
		case "editprofile":
			_ = a.EditProfile(ctx)
		case "whoami":
			_ = a.Whoami(ctx)
		case "logout":
			_ = a.Logout(ctx)
		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}

func isMemberCommand(cmd string) bool {
	switch cmd {
	case "t", "timeline", "feed", "explore", "users", "profile", "post",
		"follow", "unfollow", "editprofile", "whoami", "logout":
		return true
	}
	return false
}
