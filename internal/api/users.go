package api

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/chrimztech/unza-counseling-console/internal/domain"
	apperrors "github.com/chrimztech/unza-counseling-console/pkg/errors"
	"github.com/chrimztech/unza-counseling-console/pkg/pagination"
)

var userRoutes = struct {
	List, Get, ByEmail, Create, Update, Delete, ByRole, Count, Search, Active, Inactive,
	Activate, Deactivate, Profile, Roles, CountByRole, ChangePassword, Export Route
}{
	List:           Route{Name: "users.list", Method: http.MethodGet, Path: "v1/users", Unwrap: Enveloped},
	Get:            Route{Name: "users.get", Method: http.MethodGet, Path: "v1/users/{id}", Unwrap: Enveloped},
	ByEmail:        Route{Name: "users.by_email", Method: http.MethodGet, Path: "v1/users/email/{email}", Unwrap: Enveloped},
	Create:         Route{Name: "users.create", Method: http.MethodPost, Path: "v1/users", Unwrap: Enveloped},
	Update:         Route{Name: "users.update", Method: http.MethodPut, Path: "v1/users/{id}", Unwrap: Enveloped},
	Delete:         Route{Name: "users.delete", Method: http.MethodDelete, Path: "v1/users/{id}"},
	ByRole:         Route{Name: "users.by_role", Method: http.MethodGet, Path: "v1/users/role/{role}", Unwrap: Enveloped},
	Count:          Route{Name: "users.count", Method: http.MethodGet, Path: "v1/users/count", Unwrap: Enveloped},
	Search:         Route{Name: "users.search", Method: http.MethodGet, Path: "v1/users/search", Unwrap: Enveloped},
	Active:         Route{Name: "users.active", Method: http.MethodGet, Path: "v1/users/active", Unwrap: Enveloped},
	Inactive:       Route{Name: "users.inactive", Method: http.MethodGet, Path: "v1/users/inactive", Unwrap: Enveloped},
	Activate:       Route{Name: "users.activate", Method: http.MethodPut, Path: "v1/users/{id}/activate", Unwrap: Enveloped},
	Deactivate:     Route{Name: "users.deactivate", Method: http.MethodPut, Path: "v1/users/{id}/deactivate", Unwrap: Enveloped},
	Profile:        Route{Name: "users.profile", Method: http.MethodGet, Path: "v1/users/profile", Unwrap: Enveloped},
	Roles:          Route{Name: "users.roles", Method: http.MethodGet, Path: "v1/users/roles", Unwrap: Enveloped},
	CountByRole:    Route{Name: "users.count_by_role", Method: http.MethodGet, Path: "v1/users/count-by-role", Unwrap: Enveloped},
	ChangePassword: Route{Name: "users.change_password", Method: http.MethodPut, Path: "v1/users/{id}/password"},
	Export:         Route{Name: "users.export", Method: http.MethodGet, Path: "v1/users/export", Unwrap: Binary},
}

// UsersAPI manages console accounts.
type UsersAPI struct{ client }

func (u *UsersAPI) List(ctx context.Context, p pagination.Params) (*domain.Page[domain.User], error) {
	return invoke[*domain.Page[domain.User]](ctx, &u.client, userRoutes.List, call{query: p.Query(nil)})
}

func (u *UsersAPI) Get(ctx context.Context, id string) (*domain.User, error) {
	return invoke[*domain.User](ctx, &u.client, userRoutes.Get, withParams(id))
}

func (u *UsersAPI) ByEmail(ctx context.Context, email string) (*domain.User, error) {
	return invoke[*domain.User](ctx, &u.client, userRoutes.ByEmail, withParams(email))
}

func (u *UsersAPI) Create(ctx context.Context, req domain.RegisterRequest) (*domain.User, error) {
	return invoke[*domain.User](ctx, &u.client, userRoutes.Create, call{body: req})
}

func (u *UsersAPI) Update(ctx context.Context, id string, req domain.UpdateUserRequest) (*domain.User, error) {
	return invoke[*domain.User](ctx, &u.client, userRoutes.Update, call{params: []string{id}, body: req})
}

func (u *UsersAPI) Delete(ctx context.Context, id string) error {
	return exec(ctx, &u.client, userRoutes.Delete, withParams(id))
}

func (u *UsersAPI) ByRole(ctx context.Context, role string) ([]domain.User, error) {
	return invoke[[]domain.User](ctx, &u.client, userRoutes.ByRole, withParams(role))
}

func (u *UsersAPI) Count(ctx context.Context) (int64, error) {
	return invoke[int64](ctx, &u.client, userRoutes.Count, call{})
}

func (u *UsersAPI) Search(ctx context.Context, query string, p pagination.Params) (*domain.Page[domain.User], error) {
	q := p.Query(url.Values{"query": {query}})
	return invoke[*domain.Page[domain.User]](ctx, &u.client, userRoutes.Search, call{query: q})
}

func (u *UsersAPI) Active(ctx context.Context, p pagination.Params) (*domain.Page[domain.User], error) {
	return invoke[*domain.Page[domain.User]](ctx, &u.client, userRoutes.Active, call{query: p.Query(nil)})
}

func (u *UsersAPI) Inactive(ctx context.Context, p pagination.Params) (*domain.Page[domain.User], error) {
	return invoke[*domain.Page[domain.User]](ctx, &u.client, userRoutes.Inactive, call{query: p.Query(nil)})
}

func (u *UsersAPI) Activate(ctx context.Context, id string) (*domain.User, error) {
	return invoke[*domain.User](ctx, &u.client, userRoutes.Activate, withParams(id))
}

func (u *UsersAPI) Deactivate(ctx context.Context, id string) (*domain.User, error) {
	return invoke[*domain.User](ctx, &u.client, userRoutes.Deactivate, withParams(id))
}

// Profile returns the signed-in user as seen by the user controller.
func (u *UsersAPI) Profile(ctx context.Context) (*domain.User, error) {
	return invoke[*domain.User](ctx, &u.client, userRoutes.Profile, call{})
}

func (u *UsersAPI) Roles(ctx context.Context) ([]string, error) {
	return invoke[[]string](ctx, &u.client, userRoutes.Roles, call{})
}

func (u *UsersAPI) CountByRole(ctx context.Context) (map[string]int64, error) {
	return invoke[map[string]int64](ctx, &u.client, userRoutes.CountByRole, call{})
}

// ChangePassword sets a user's password. The backend takes it as a query
// parameter.
func (u *UsersAPI) ChangePassword(ctx context.Context, id, newPassword string) error {
	if strings.TrimSpace(newPassword) == "" {
		return apperrors.NewValidationError("new password is required", map[string]string{"newPassword": "is required"})
	}
	return exec(ctx, &u.client, userRoutes.ChangePassword, call{
		params: []string{id},
		query:  url.Values{"newPassword": {newPassword}},
	})
}

func (u *UsersAPI) Export(ctx context.Context, format string) (*Download, error) {
	q, err := exportQuery(format, FormatCSV, FormatPDF)
	if err != nil {
		return nil, err
	}
	return u.download(ctx, userRoutes.Export, call{query: q})
}
