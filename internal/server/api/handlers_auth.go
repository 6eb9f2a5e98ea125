package api

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/chirp/internal/common"
	"github.com/dmitrijs2005/chirp/internal/server/auth"
	"github.com/dmitrijs2005/chirp/internal/server/services"
)

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if msg, ok := decode(r, &req); !ok {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	user, pair, err := s.users.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			writeError(w, http.StatusConflict, services.MsgEmailTaken)
			return
		}
		s.writeServiceError(w, r, err)
		return
	}

	s.logger.Info(r.Context(), "Registered", "user_id", user.ID)
	writeJSON(w, http.StatusCreated, authResponse{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken, User: user})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if msg, ok := decode(r, &req); !ok {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	user, pair, err := s.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			writeError(w, http.StatusUnauthorized, services.MsgInvalidCredential)
			return
		}
		s.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, authResponse{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken, User: user})
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if msg, ok := decode(r, &req); !ok {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	pair, err := s.users.RefreshToken(r.Context(), req.RefreshToken)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, authResponse{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())

	var req logoutRequest
	if _, ok := decode(r, &req); !ok || req.RefreshToken == "" {
		writeJSON(w, http.StatusOK, messageResponse{Message: msgLoggedOut})
		return
	}

	if err := s.users.Logout(r.Context(), user.ID, req.RefreshToken); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: msgLoggedOut})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "OK"})
}
