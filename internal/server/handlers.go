package server

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/podlens/pkg/buildinfo"
	perrors "github.com/matzehuels/podlens/pkg/errors"
	"github.com/matzehuels/podlens/pkg/pods"
	"github.com/matzehuels/podlens/pkg/readme"
)

// HeaderCache reports whether a result came from the result cache.
const HeaderCache = "X-Cache"

type healthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

type installationResponse struct {
	Name         string                          `json:"name"`
	Repository   string                          `json:"repository,omitempty"`
	Installation readme.InstallationInstructions `json:"installation"`
	Cached       bool                            `json:"cached"`
}

// shaping holds the query parameters common to result endpoints.
type shaping struct {
	lang    string
	limit   int
	refresh bool
}

func parseShaping(r *http.Request) (shaping, error) {
	q := r.URL.Query()
	sh := shaping{lang: q.Get("lang")}

	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return sh, perrors.New(perrors.ErrCodeInvalidInput, "limit must be a non-negative integer, got %q", v)
		}
		sh.limit = n
	}
	if v := q.Get("refresh"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return sh, perrors.New(perrors.ErrCodeInvalidInput, "refresh must be a boolean, got %q", v)
		}
		sh.refresh = b
	}
	return sh, nil
}

func (sh shaping) apply(res *pods.Result) *pods.Result {
	return res.FilterLanguage(sh.lang).Limit(sh.limit)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Build: buildinfo.Get()})
}

func (s *Server) handlePod(w http.ResponseWriter, r *http.Request) {
	sh, err := parseShaping(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.svc.LookupPod(r.Context(), chi.URLParam(r, "name"), pods.Request{Refresh: sh.refresh})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeResult(w, sh.apply(res))
}

func (s *Server) handleInstallation(w http.ResponseWriter, r *http.Request) {
	sh, err := parseShaping(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.svc.LookupPod(r.Context(), chi.URLParam(r, "name"), pods.Request{Refresh: sh.refresh})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set(HeaderCache, cacheStatus(res))
	writeJSON(w, http.StatusOK, installationResponse{
		Name:         res.Name,
		Repository:   res.Repository,
		Installation: res.Installation,
		Cached:       res.Cached,
	})
}

func (s *Server) handleRepo(w http.ResponseWriter, r *http.Request) {
	sh, err := parseShaping(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	ref := chi.URLParam(r, "owner") + "/" + chi.URLParam(r, "repo")
	res, err := s.svc.LookupRepo(r.Context(), ref, pods.Request{Refresh: sh.refresh})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeResult(w, sh.apply(res))
}

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	sh, err := parseShaping(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxDocumentSize))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorBody{Error: errorDetail{
				Code:    perrors.ErrCodeInvalidInput,
				Message: "document exceeds " + strconv.Itoa(MaxDocumentSize) + " bytes",
			}})
			return
		}
		s.writeError(w, r, perrors.Wrap(perrors.ErrCodeInvalidInput, err, "read body"))
		return
	}
	if strings.TrimSpace(string(body)) == "" {
		s.writeError(w, r, perrors.New(perrors.ErrCodeInvalidInput, "request body is empty"))
		return
	}

	name := r.URL.Query().Get("name")
	if name == "" {
		name = "document"
	}
	writeResult(w, sh.apply(s.svc.ParseDocument(r.Context(), name, string(body))))
}

func writeResult(w http.ResponseWriter, res *pods.Result) {
	w.Header().Set(HeaderCache, cacheStatus(res))
	writeJSON(w, http.StatusOK, res)
}

func cacheStatus(res *pods.Result) string {
	if res.Cached {
		return "hit"
	}
	return "miss"
}
