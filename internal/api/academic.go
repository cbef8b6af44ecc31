package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/chrimztech/unza-counseling-console/internal/domain"
)

var academicRoutes = struct {
	SyncStudent, SyncClient, Cached, ClientRecords, ClientSummary, GPATrend, AtRisk Route
}{
	SyncStudent:   Route{Name: "academic.sync_student", Method: http.MethodPost, Path: "v1/academic-performance/sync/sis", Unwrap: Enveloped},
	SyncClient:    Route{Name: "academic.sync_client", Method: http.MethodPost, Path: "v1/academic-performance/client/{clientId}/sync/sis", Unwrap: Enveloped},
	Cached:        Route{Name: "academic.cached", Method: http.MethodGet, Path: "v1/academic-performance/client/{clientId}/cached/sis", Unwrap: Enveloped},
	ClientRecords: Route{Name: "academic.client_records", Method: http.MethodGet, Path: "v1/academic-performance/client/{clientId}", Unwrap: Enveloped},
	ClientSummary: Route{Name: "academic.client_summary", Method: http.MethodGet, Path: "v1/academic-performance/client/{clientId}/summary", Unwrap: Enveloped},
	GPATrend:      Route{Name: "academic.gpa_trend", Method: http.MethodGet, Path: "v1/academic-performance/client/{clientId}/gpa-trend", Unwrap: Enveloped},
	AtRisk:        Route{Name: "academic.at_risk", Method: http.MethodGet, Path: "v1/academic-performance/at-risk", Unwrap: Enveloped},
}

// SyncOptions controls a student information system pull.
type SyncOptions struct {
	// Token is the student's SIS token, when the SIS requires one.
	Token        string
	ForceRefresh bool
}

func (o SyncOptions) query() url.Values {
	q := url.Values{}
	if o.Token != "" {
		q.Set("token", o.Token)
	}
	q.Set("forceRefresh", strconv.FormatBool(o.ForceRefresh))
	return q
}

// AcademicAPI pulls results from the student information system.
type AcademicAPI struct{ client }

// SyncStudent pulls results for a student number.
func (a *AcademicAPI) SyncStudent(ctx context.Context, studentID string, opts SyncOptions) (*domain.SyncResultsResponse, error) {
	q := opts.query()
	q.Set("student_id", studentID)
	return invoke[*domain.SyncResultsResponse](ctx, &a.client, academicRoutes.SyncStudent, call{query: q})
}

// SyncClient pulls results for a client by internal id.
func (a *AcademicAPI) SyncClient(ctx context.Context, clientID string, opts SyncOptions) (*domain.SyncResultsResponse, error) {
	return invoke[*domain.SyncResultsResponse](ctx, &a.client, academicRoutes.SyncClient, call{
		params: []string{clientID},
		query:  opts.query(),
	})
}

// Cached returns the last synced results without contacting the SIS.
func (a *AcademicAPI) Cached(ctx context.Context, clientID string) (*domain.SyncResultsResponse, error) {
	return invoke[*domain.SyncResultsResponse](ctx, &a.client, academicRoutes.Cached, withParams(clientID))
}

func (a *AcademicAPI) ClientRecords(ctx context.Context, clientID string) (any, error) {
	return invoke[any](ctx, &a.client, academicRoutes.ClientRecords, withParams(clientID))
}

func (a *AcademicAPI) ClientSummary(ctx context.Context, clientID string) (domain.Stats, error) {
	return invoke[domain.Stats](ctx, &a.client, academicRoutes.ClientSummary, withParams(clientID))
}

func (a *AcademicAPI) GPATrend(ctx context.Context, clientID string) (any, error) {
	return invoke[any](ctx, &a.client, academicRoutes.GPATrend, withParams(clientID))
}

func (a *AcademicAPI) AtRisk(ctx context.Context) ([]domain.Stats, error) {
	return invoke[[]domain.Stats](ctx, &a.client, academicRoutes.AtRisk, call{})
}
