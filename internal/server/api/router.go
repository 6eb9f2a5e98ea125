package api

import (
	"net/http"

	"github.com/gorilla/mux"
)

// Handler builds the full HTTP handler: router plus the outer middleware
// that must also see unmatched and preflight requests.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, msgRouteNotFound)
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, msgMethodNotAllowed)
	})

	if s.metrics != nil {
		r.Use(s.metrics.Middleware)
		r.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)
	}
	if s.limiter != nil {
		r.Use(s.limiter.Middleware)
	}

	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/auth/register", s.handleRegister).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", s.handleLogin).Methods(http.MethodPost)
	api.HandleFunc("/auth/refresh", s.handleRefresh).Methods(http.MethodPost)

	protected := api.NewRoute().Subrouter()
	protected.Use(s.authenticate)

	protected.HandleFunc("/auth/logout", s.handleLogout).Methods(http.MethodPost)
	protected.HandleFunc("/auth/me", s.handleMe).Methods(http.MethodGet)

	protected.HandleFunc("/posts", s.handleCreatePost).Methods(http.MethodPost)
	protected.HandleFunc("/posts", s.handleListPosts).Methods(http.MethodGet)
	protected.HandleFunc("/posts/timeline", s.handleTimeline).Methods(http.MethodGet)
	protected.HandleFunc("/posts/user/{userId}", s.handleUserPosts).Methods(http.MethodGet)

	protected.HandleFunc("/users", s.handleListUsers).Methods(http.MethodGet)
	protected.HandleFunc("/users/profile", s.handleUpdateProfile).Methods(http.MethodPut)
	protected.HandleFunc("/users/{userId}/follow", s.handleFollow).Methods(http.MethodPost)
	protected.HandleFunc("/users/{userId}/follow", s.handleUnfollow).Methods(http.MethodDelete)

	return s.recoverer(s.requestLogger(s.cors(r)))
}
