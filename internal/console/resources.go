package console

import (
	"errors"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/chrimztech/unza-counseling-console/internal/viewmodel"
	apperrors "github.com/chrimztech/unza-counseling-console/pkg/errors"
	"github.com/chrimztech/unza-counseling-console/pkg/httputil"
)

// listResources applies at most one action chosen from the query string
// (query, then type, then category, then featured) and returns the view
// state. With no parameters the current state is returned as is.
func (s *Server) listResources(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	ctx := r.Context()

	var err error
	switch {
	case q.Has("query"):
		err = s.lib.Search(ctx, q.Get("query"))
	case q.Has("type"):
		err = s.lib.FilterByType(ctx, q.Get("type"))
	case q.Has("category"):
		err = s.lib.FilterByCategory(ctx, q.Get("category"))
	case q.Get("featured") == "true":
		err = s.lib.Featured(ctx)
	}
	s.writeState(w, r, err)
}

func (s *Server) refreshResources(w http.ResponseWriter, r *http.Request) {
	s.writeState(w, r, s.lib.Refresh(r.Context()))
}

// writeState renders the snapshot. A failed load is already reflected in
// the state's error message, and a superseded one in the newer state, so
// both still answer 200.
func (s *Server) writeState(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case err == nil, errors.Is(err, viewmodel.ErrSuperseded):
	case errors.Is(err, viewmodel.ErrClosed):
		httputil.WriteError(w, r, apperrors.ServiceUnavailable("the console is shutting down"), s.logger)
		return
	case r.Context().Err() != nil:
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: s.lib.Snapshot()})
}

func (s *Server) downloadResource(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "id")
	id, ok := httputil.ParseInt64(w, "resource id", raw)
	if !ok {
		return
	}

	dl, err := s.lib.Download(r.Context(), strconv.FormatInt(id, 10))
	if err != nil {
		httputil.WriteError(w, r, err, s.logger)
		return
	}

	contentType := dl.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": dl.FileName}))
	w.Header().Set("Content-Length", strconv.Itoa(len(dl.Data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(dl.Data)
}
