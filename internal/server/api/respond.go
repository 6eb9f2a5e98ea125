package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"

	"github.com/dmitrijs2005/chirp/internal/common"
	"github.com/go-playground/validator/v10"
)

const (
	msgServerError      = "Server error"
	msgNoToken          = "No token, authorization denied"
	msgTokenInvalid     = "Token is not valid"
	msgTokenExpired     = "token expired"
	msgRefreshExpired   = "refresh token expired"
	msgInvalidBody      = "Invalid request body"
	msgTooManyRequests  = "Too many requests"
	msgRouteNotFound    = "Not found"
	msgMethodNotAllowed = "Method not allowed"
	msgFollowed         = "User followed successfully"
	msgUnfollowed       = "User unfollowed successfully"
	msgLoggedOut        = "Logged out"
)

const maxBodyBytes = 1 << 20

type messageResponse struct {
	Message string `json:"message"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, messageResponse{Message: msg})
}

// decode reads a JSON body into dst and validates it. The returned string is
// the message to send back when ok is false.
func decode(r *http.Request, dst any) (msg string, ok bool) {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return msgInvalidBody, false
	}

	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fieldMessage(dst, verrs[0]), false
		}
		return msgInvalidBody, false
	}
	return "", true
}

// fieldMessage returns the errmsg tag of the failing field, if any.
func fieldMessage(dst any, fe validator.FieldError) string {
	t := reflect.TypeOf(dst)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if f, ok := t.FieldByName(fe.StructField()); ok {
		if m := f.Tag.Get("errmsg"); m != "" {
			return m
		}
	}
	return fe.Field() + " is invalid"
}

// writeServiceError maps a service error onto a status code and message.
// Anything unrecognised is logged and reported as a bare 500.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *common.ValidationError
	var oe *common.OperationError

	switch {
	case errors.As(err, &ve):
		writeError(w, http.StatusBadRequest, ve.Message)
	case errors.As(err, &oe):
		status := http.StatusBadRequest
		if errors.Is(oe.Kind, common.ErrorNotFound) {
			status = http.StatusNotFound
		}
		writeError(w, status, oe.Message)
	case errors.Is(err, common.ErrRefreshTokenExpired):
		writeError(w, http.StatusUnauthorized, msgRefreshExpired)
	case errors.Is(err, common.ErrTokenExpired):
		writeError(w, http.StatusUnauthorized, msgTokenExpired)
	case errors.Is(err, common.ErrorUnauthorized), errors.Is(err, common.ErrInvalidToken):
		writeError(w, http.StatusUnauthorized, msgTokenInvalid)
	case errors.Is(err, common.ErrorNotFound):
		writeError(w, http.StatusNotFound, msgRouteNotFound)
	default:
		s.logger.Error(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, msgServerError)
	}
}
