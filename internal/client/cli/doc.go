// Package cli provides the interactive chirp terminal client.
//
// It wires configuration, the local session store and the HTTP API client
// into a REPL. A persisted session is restored on start, so a returning user
// lands straight in their timeline.
//
// Views (timeline, feed, explore, profile) fetch fresh data every time they
// are shown. A successful write (post, follow, unfollow, editprofile)
// re-fetches the view it affects; a failed one prints the error and leaves
// the last rendered view as it was.
package cli
