package api

import (
	"net/http"

	"github.com/dmitrijs2005/chirp/internal/server/auth"
	"github.com/dmitrijs2005/chirp/internal/server/models"
	"github.com/gorilla/mux"
)

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())

	users, err := s.users.ListOthers(r.Context(), user.ID)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())

	var req updateProfileRequest
	if msg, ok := decode(r, &req); !ok {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	updated, err := s.users.UpdateProfile(r.Context(), user.ID, models.ProfileUpdate{Name: req.Name, Bio: req.Bio})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleFollow(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())

	if err := s.users.Follow(r.Context(), user.ID, mux.Vars(r)["userId"]); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: msgFollowed})
}

func (s *Server) handleUnfollow(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())

	if err := s.users.Unfollow(r.Context(), user.ID, mux.Vars(r)["userId"]); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: msgUnfollowed})
}
