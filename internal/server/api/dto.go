package api

import "github.com/dmitrijs2005/chirp/internal/server/models"

type registerRequest struct {
	Name     string `json:"name" validate:"required" errmsg:"Name cannot be empty"`
	Email    string `json:"email" validate:"required,email" errmsg:"Please provide a valid email"`
	Password string `json:"password" validate:"required,min=6" errmsg:"Password must be at least 6 characters"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email" errmsg:"Please provide a valid email"`
	Password string `json:"password" validate:"required" errmsg:"Password is required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required" errmsg:"Refresh token is required"`
}

// logoutRequest carries an optional token; logging out without one only ends
// the client side.
type logoutRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// createPostRequest is checked by the post service, which trims first.
type createPostRequest struct {
	Text string `json:"text"`
}

// updateProfileRequest distinguishes an absent field (nil) from an empty one.
type updateProfileRequest struct {
	Name *string `json:"name"`
	Bio  *string `json:"bio"`
}

type authResponse struct {
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
	User         *models.User `json:"user,omitempty"`
}
