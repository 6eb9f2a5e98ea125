// Package models holds the client-side view of the API's JSON payloads.
package models

import (
	"slices"
	"time"
)

type User struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Bio       string    `json:"bio"`
	Followers []string  `json:"followers"`
	Following []string  `json:"following"`
	CreatedAt time.Time `json:"createdAt"`
}

// IsFollowing reports whether u follows userID.
func (u *User) IsFollowing(userID string) bool {
	if u == nil {
		return false
	}
	return slices.Contains(u.Following, userID)
}

// AuthResult is returned by register and login.
type AuthResult struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	User         *User  `json:"user,omitempty"`
}
