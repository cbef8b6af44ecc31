package api

import (
	"context"
	"net/http"

	"github.com/chrimztech/unza-counseling-console/internal/domain"
	"github.com/chrimztech/unza-counseling-console/pkg/pagination"
)

var sessionRoutes = struct {
	List, Get, Create, Update, Delete, ByClient Route
}{
	List:     Route{Name: "sessions.list", Method: http.MethodGet, Path: "v1/sessions", Unwrap: Enveloped},
	Get:      Route{Name: "sessions.get", Method: http.MethodGet, Path: "v1/sessions/{id}", Unwrap: Enveloped},
	Create:   Route{Name: "sessions.create", Method: http.MethodPost, Path: "v1/sessions", Unwrap: Enveloped},
	Update:   Route{Name: "sessions.update", Method: http.MethodPut, Path: "v1/sessions/{id}", Unwrap: Enveloped},
	Delete:   Route{Name: "sessions.delete", Method: http.MethodDelete, Path: "v1/sessions/{id}"},
	ByClient: Route{Name: "sessions.by_client", Method: http.MethodGet, Path: "v1/sessions/client/{clientId}", Unwrap: Enveloped},
}

// SessionsAPI records counseling sessions.
type SessionsAPI struct{ client }

func (s *SessionsAPI) List(ctx context.Context, p pagination.Params) (*domain.Page[domain.Session], error) {
	return invoke[*domain.Page[domain.Session]](ctx, &s.client, sessionRoutes.List, call{query: p.Query(nil)})
}

func (s *SessionsAPI) Get(ctx context.Context, id string) (*domain.Session, error) {
	return invoke[*domain.Session](ctx, &s.client, sessionRoutes.Get, withParams(id))
}

func (s *SessionsAPI) Create(ctx context.Context, req domain.CreateSessionRequest) (*domain.Session, error) {
	return invoke[*domain.Session](ctx, &s.client, sessionRoutes.Create, call{body: req})
}

func (s *SessionsAPI) Update(ctx context.Context, id string, req domain.UpdateSessionRequest) (*domain.Session, error) {
	return invoke[*domain.Session](ctx, &s.client, sessionRoutes.Update, call{params: []string{id}, body: req})
}

func (s *SessionsAPI) Delete(ctx context.Context, id string) error {
	return exec(ctx, &s.client, sessionRoutes.Delete, withParams(id))
}

func (s *SessionsAPI) ByClient(ctx context.Context, clientID string, p pagination.Params) (*domain.Page[domain.Session], error) {
	return invoke[*domain.Page[domain.Session]](ctx, &s.client, sessionRoutes.ByClient, call{
		params: []string{clientID},
		query:  p.Query(nil),
	})
}
