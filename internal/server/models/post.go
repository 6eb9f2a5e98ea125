package models

import "time"

// Author is the public projection of a post's owner, joined at read time.
type Author struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Post is a short immutable message.
type Post struct {
	ID        string    `json:"_id"`
	Text      string    `json:"text"`
	Author    Author    `json:"userId"`
	Timestamp time.Time `json:"timestamp"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
