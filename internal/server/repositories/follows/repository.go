// Package follows stores the social graph as one row per directed edge.
package follows

import "context"

// Repository manages follower -> followee edges.
type Repository interface {
	// Add inserts the edge and reports whether it was newly created.
	Add(ctx context.Context, followerID, followeeID string) (bool, error)
	// Remove deletes the edge; removing a missing edge is not an error.
	Remove(ctx context.Context, followerID, followeeID string) error
}
