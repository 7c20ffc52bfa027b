package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	perrors "github.com/matzehuels/podlens/pkg/errors"
)

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    perrors.Code `json:"code"`
	Message string       `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps err to a status code and JSON error body. Internal errors
// are reported without their cause.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := perrors.GetCode(err)
	if code == "" {
		switch {
		case errors.Is(err, context.DeadlineExceeded):
			code = perrors.ErrCodeTimeout
		default:
			code = perrors.ErrCodeInternal
		}
	}

	msg := perrors.UserMessage(err)
	if code == perrors.ErrCodeInternal {
		s.logger.Error("internal error", "path", r.URL.Path, "request_id", RequestIDFromContext(r.Context()), "error", err)
		msg = "internal error"
	}
	writeJSON(w, perrors.HTTPStatus(code), errorBody{Error: errorDetail{Code: code, Message: msg}})
}

func errNotFound(r *http.Request) error {
	return perrors.New(perrors.ErrCodeNotFound, "no route for %s %s", r.Method, r.URL.Path)
}
