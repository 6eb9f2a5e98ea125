// Package common contains shared constants and sentinel errors used across
// chirp components.
package common

const (
	// AuthorizationHeaderName is the HTTP header carrying the access token.
	AuthorizationHeaderName = "Authorization"

	// BearerPrefix precedes the token inside the Authorization header.
	BearerPrefix = "Bearer "
)
