package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUser_IsFollowing(t *testing.T) {
	u := &User{Following: []string{"b"}}
	assert.True(t, u.IsFollowing("b"))
	assert.False(t, u.IsFollowing("c"))

	var none *User
	assert.False(t, none.IsFollowing("b"))
}

func TestPost_DecodesAuthorProjection(t *testing.T) {
	raw := `{"_id":"p1","text":"hello","userId":{"_id":"u1","name":"Ann","email":"ann@example.org"},
		"timestamp":"2025-01-02T03:04:05Z","createdAt":"2025-01-02T03:04:05Z","updatedAt":"2025-01-02T03:04:05Z"}`

	var p Post
	require.NoError(t, json.Unmarshal([]byte(raw), &p))
	assert.Equal(t, "Ann", p.Author.Name)
	assert.Equal(t, 2025, p.Timestamp.Year())
}
