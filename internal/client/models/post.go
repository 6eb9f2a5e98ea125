package models

import "time"

type Author struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type Post struct {
	ID        string    `json:"_id"`
	Text      string    `json:"text"`
	Author    Author    `json:"userId"`
	Timestamp time.Time `json:"timestamp"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
