package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/chrimztech/unza-counseling-console/internal/domain"
)

var resourceRoutes = struct {
	All, Search, Categories, ByType, ByCategory, Featured, Highlights, Stats, Download Route
}{
	All:        Route{Name: "resources.all", Method: http.MethodGet, Path: "v1/resources"},
	Search:     Route{Name: "resources.search", Method: http.MethodGet, Path: "v1/resources/search"},
	Categories: Route{Name: "resources.categories", Method: http.MethodGet, Path: "v1/resources/categories", Failure: Fallback},
	ByType:     Route{Name: "resources.by_type", Method: http.MethodGet, Path: "v1/resources/type/{type}"},
	ByCategory: Route{Name: "resources.by_category", Method: http.MethodGet, Path: "v1/resources/category/{category}"},
	Featured:   Route{Name: "resources.featured", Method: http.MethodGet, Path: "v1/resources/featured"},
	// Highlights is the featured list shown beside the main list; it is
	// optional display content and degrades to empty.
	Highlights: Route{Name: "resources.highlights", Method: http.MethodGet, Path: "v1/resources/featured", Failure: Fallback},
	Stats:      Route{Name: "resources.stats", Method: http.MethodGet, Path: "v1/resources/stats"},
	Download:   Route{Name: "resources.download", Method: http.MethodGet, Path: "v1/resources/download/{id}", Unwrap: Binary},
}

// ResourcesAPI reads the self-help library. The endpoints are public; a
// stored token is still sent when present.
type ResourcesAPI struct{ client }

func (r *ResourcesAPI) All(ctx context.Context) ([]domain.Resource, error) {
	return invoke[[]domain.Resource](ctx, &r.client, resourceRoutes.All, call{})
}

// Search matches title or description.
func (r *ResourcesAPI) Search(ctx context.Context, query string) ([]domain.Resource, error) {
	return invoke[[]domain.Resource](ctx, &r.client, resourceRoutes.Search, call{query: url.Values{"query": {query}}})
}

// Categories lists the known categories; failures read as none.
func (r *ResourcesAPI) Categories(ctx context.Context) ([]string, error) {
	cats, err := invokeOr(ctx, &r.client, resourceRoutes.Categories, call{}, []string{})
	if cats == nil && err == nil {
		cats = []string{}
	}
	return cats, err
}

func (r *ResourcesAPI) ByType(ctx context.Context, resourceType string) ([]domain.Resource, error) {
	return invoke[[]domain.Resource](ctx, &r.client, resourceRoutes.ByType, withParams(resourceType))
}

func (r *ResourcesAPI) ByCategory(ctx context.Context, category string) ([]domain.Resource, error) {
	return invoke[[]domain.Resource](ctx, &r.client, resourceRoutes.ByCategory, withParams(category))
}

// Featured lists featured resources and reports failures.
func (r *ResourcesAPI) Featured(ctx context.Context) ([]domain.Resource, error) {
	return invoke[[]domain.Resource](ctx, &r.client, resourceRoutes.Featured, call{})
}

// Highlights lists featured resources for side display; failures read as
// none.
func (r *ResourcesAPI) Highlights(ctx context.Context) ([]domain.Resource, error) {
	items, err := invokeOr(ctx, &r.client, resourceRoutes.Highlights, call{}, []domain.Resource{})
	if items == nil && err == nil {
		items = []domain.Resource{}
	}
	return items, err
}

func (r *ResourcesAPI) Stats(ctx context.Context) (*domain.ResourceStatistics, error) {
	return invoke[*domain.ResourceStatistics](ctx, &r.client, resourceRoutes.Stats, call{})
}

// Download fetches a resource file. The filename comes from the
// Content-Disposition header and defaults to "download".
func (r *ResourcesAPI) Download(ctx context.Context, id string) (*Download, error) {
	return r.download(ctx, resourceRoutes.Download, withParams(id))
}
