package api

import (
	"context"
	"net/http"

	"github.com/chrimztech/unza-counseling-console/internal/domain"
)

var clientRoutes = struct {
	List, Get, Create, Update, Delete Route
}{
	List:   Route{Name: "clients.list", Method: http.MethodGet, Path: "v1/clients"},
	Get:    Route{Name: "clients.get", Method: http.MethodGet, Path: "v1/clients/{id}"},
	Create: Route{Name: "clients.create", Method: http.MethodPost, Path: "v1/clients"},
	Update: Route{Name: "clients.update", Method: http.MethodPut, Path: "v1/clients/{id}"},
	Delete: Route{Name: "clients.delete", Method: http.MethodDelete, Path: "v1/clients/{id}"},
}

// ClientsAPI manages counseling clients.
type ClientsAPI struct{ client }

func (c *ClientsAPI) List(ctx context.Context) ([]domain.Client, error) {
	return invoke[[]domain.Client](ctx, &c.client, clientRoutes.List, call{})
}

func (c *ClientsAPI) Get(ctx context.Context, id string) (*domain.Client, error) {
	return invoke[*domain.Client](ctx, &c.client, clientRoutes.Get, withParams(id))
}

func (c *ClientsAPI) Create(ctx context.Context, req domain.ClientRequest) (*domain.Client, error) {
	return invoke[*domain.Client](ctx, &c.client, clientRoutes.Create, call{body: req})
}

func (c *ClientsAPI) Update(ctx context.Context, id string, req domain.ClientRequest) (*domain.Client, error) {
	return invoke[*domain.Client](ctx, &c.client, clientRoutes.Update, call{params: []string{id}, body: req})
}

func (c *ClientsAPI) Delete(ctx context.Context, id string) error {
	return exec(ctx, &c.client, clientRoutes.Delete, withParams(id))
}

var counselorRoutes = struct {
	List, Get, Available Route
}{
	List:      Route{Name: "counselors.list", Method: http.MethodGet, Path: "v1/counselors"},
	Get:       Route{Name: "counselors.get", Method: http.MethodGet, Path: "v1/counselors/{id}"},
	Available: Route{Name: "counselors.available", Method: http.MethodGet, Path: "v1/counselors/available"},
}

// CounselorsAPI lists counseling staff.
type CounselorsAPI struct{ client }

func (c *CounselorsAPI) List(ctx context.Context) ([]domain.Counselor, error) {
	return invoke[[]domain.Counselor](ctx, &c.client, counselorRoutes.List, call{})
}

func (c *CounselorsAPI) Get(ctx context.Context, id string) (*domain.Counselor, error) {
	return invoke[*domain.Counselor](ctx, &c.client, counselorRoutes.Get, withParams(id))
}

// Available lists counselors open for booking.
func (c *CounselorsAPI) Available(ctx context.Context) ([]domain.Counselor, error) {
	return invoke[[]domain.Counselor](ctx, &c.client, counselorRoutes.Available, call{})
}
