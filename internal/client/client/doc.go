// Package client contains the building blocks the chirp terminal client uses
// to talk to the API and to keep local state.
//
// # Overview
//
//  1. An API contract (see the Client interface) covering auth, posts and
//     users endpoints under /api.
//  2. HTTPClient, a net/http implementation that attaches the bearer access
//     token, transparently refreshes it once when the server answers
//     "token expired", and maps failures to sentinel errors.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations) that opens the
//     SQLite session database and applies the embedded goose migrations.
//
// # Error Handling
//
// Callers match conditions with errors.Is: ErrUnavailable when the server
// cannot be reached, ErrUnauthorized for a 401. Every non-2xx response is
// returned as *APIError carrying the server's message.
package client
