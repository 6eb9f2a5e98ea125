package api

import (
	"net/http"

	"github.com/dmitrijs2005/chirp/internal/server/auth"
	"github.com/gorilla/mux"
)

func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())

	var req createPostRequest
	if msg, ok := decode(r, &req); !ok {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	post, err := s.posts.Create(r.Context(), user.ID, req.Text)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, post)
}

func (s *Server) handleListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := s.posts.ListAll(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

func (s *Server) handleTimeline(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())

	posts, err := s.posts.ListTimeline(r.Context(), user.ID)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

func (s *Server) handleUserPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := s.posts.ListByAuthor(r.Context(), mux.Vars(r)["userId"])
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, posts)
}
