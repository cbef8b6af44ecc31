package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/chrimztech/unza-counseling-console/internal/domain"
	"github.com/chrimztech/unza-counseling-console/pkg/pagination"
)

var riskRoutes = struct {
	List, Get, Create, Update, Delete, ByClient, HighRisk, Stats, Escalate, Export,
	LatestForClient, Trend, Summary, FollowUpRequired, ByAssessor, Analytics Route
}{
	List:             Route{Name: "risk.list", Method: http.MethodGet, Path: "v1/risk-assessments", Unwrap: Enveloped},
	Get:              Route{Name: "risk.get", Method: http.MethodGet, Path: "v1/risk-assessments/{id}", Unwrap: Enveloped},
	Create:           Route{Name: "risk.create", Method: http.MethodPost, Path: "v1/risk-assessments", Unwrap: Enveloped},
	Update:           Route{Name: "risk.update", Method: http.MethodPut, Path: "v1/risk-assessments/{id}", Unwrap: Enveloped},
	Delete:           Route{Name: "risk.delete", Method: http.MethodDelete, Path: "v1/risk-assessments/{id}"},
	ByClient:         Route{Name: "risk.by_client", Method: http.MethodGet, Path: "v1/risk-assessments/client/{clientId}", Unwrap: Enveloped},
	HighRisk:         Route{Name: "risk.high_risk", Method: http.MethodGet, Path: "v1/risk-assessments/high-risk", Unwrap: Enveloped},
	Stats:            Route{Name: "risk.stats", Method: http.MethodGet, Path: "v1/risk-assessments/stats", Unwrap: Enveloped},
	Escalate:         Route{Name: "risk.escalate", Method: http.MethodPost, Path: "v1/risk-assessments/{id}/escalate", Unwrap: Enveloped},
	Export:           Route{Name: "risk.export", Method: http.MethodGet, Path: "v1/risk-assessments/export", Unwrap: Binary},
	LatestForClient:  Route{Name: "risk.latest_for_client", Method: http.MethodGet, Path: "v1/risk-assessments/client/{clientId}/latest", Unwrap: Enveloped},
	Trend:            Route{Name: "risk.trend", Method: http.MethodGet, Path: "v1/risk-assessments/client/{clientId}/trend", Unwrap: Enveloped},
	Summary:          Route{Name: "risk.summary", Method: http.MethodGet, Path: "v1/risk-assessments/summary", Unwrap: Enveloped},
	FollowUpRequired: Route{Name: "risk.follow_up_required", Method: http.MethodGet, Path: "v1/risk-assessments/follow-up-required", Unwrap: Enveloped},
	ByAssessor:       Route{Name: "risk.by_assessor", Method: http.MethodGet, Path: "v1/risk-assessments/assessor", Unwrap: Enveloped},
	Analytics:        Route{Name: "risk.analytics", Method: http.MethodGet, Path: "v1/risk-assessments/analytics", Unwrap: Enveloped},
}

// RiskAssessmentsAPI records and reports on clinical risk assessments.
type RiskAssessmentsAPI struct{ client }

func (r *RiskAssessmentsAPI) List(ctx context.Context, p pagination.Params) (*domain.Page[domain.RiskAssessment], error) {
	return invoke[*domain.Page[domain.RiskAssessment]](ctx, &r.client, riskRoutes.List, call{query: p.Query(nil)})
}

func (r *RiskAssessmentsAPI) Get(ctx context.Context, id string) (*domain.RiskAssessment, error) {
	return invoke[*domain.RiskAssessment](ctx, &r.client, riskRoutes.Get, withParams(id))
}

func (r *RiskAssessmentsAPI) Create(ctx context.Context, req domain.CreateRiskAssessmentRequest) (*domain.RiskAssessment, error) {
	return invoke[*domain.RiskAssessment](ctx, &r.client, riskRoutes.Create, call{body: req})
}

func (r *RiskAssessmentsAPI) Update(ctx context.Context, id string, req domain.UpdateRiskAssessmentRequest) (*domain.RiskAssessment, error) {
	return invoke[*domain.RiskAssessment](ctx, &r.client, riskRoutes.Update, call{params: []string{id}, body: req})
}

func (r *RiskAssessmentsAPI) Delete(ctx context.Context, id string) error {
	return exec(ctx, &r.client, riskRoutes.Delete, withParams(id))
}

func (r *RiskAssessmentsAPI) ByClient(ctx context.Context, clientID string) ([]domain.RiskAssessment, error) {
	return invoke[[]domain.RiskAssessment](ctx, &r.client, riskRoutes.ByClient, withParams(clientID))
}

func (r *RiskAssessmentsAPI) HighRisk(ctx context.Context) ([]domain.RiskAssessment, error) {
	return invoke[[]domain.RiskAssessment](ctx, &r.client, riskRoutes.HighRisk, call{})
}

func (r *RiskAssessmentsAPI) Stats(ctx context.Context) (domain.Stats, error) {
	return invoke[domain.Stats](ctx, &r.client, riskRoutes.Stats, call{})
}

func (r *RiskAssessmentsAPI) Escalate(ctx context.Context, id string) (*domain.RiskAssessment, error) {
	return invoke[*domain.RiskAssessment](ctx, &r.client, riskRoutes.Escalate, withParams(id))
}

func (r *RiskAssessmentsAPI) Export(ctx context.Context, format string) (*Download, error) {
	q, err := exportQuery(format, FormatCSV, FormatPDF)
	if err != nil {
		return nil, err
	}
	return r.download(ctx, riskRoutes.Export, call{query: q})
}

func (r *RiskAssessmentsAPI) LatestForClient(ctx context.Context, clientID string) (*domain.RiskAssessment, error) {
	return invoke[*domain.RiskAssessment](ctx, &r.client, riskRoutes.LatestForClient, withParams(clientID))
}

func (r *RiskAssessmentsAPI) Trend(ctx context.Context, clientID string) (any, error) {
	return invoke[any](ctx, &r.client, riskRoutes.Trend, withParams(clientID))
}

func (r *RiskAssessmentsAPI) Summary(ctx context.Context) (domain.Stats, error) {
	return invoke[domain.Stats](ctx, &r.client, riskRoutes.Summary, call{})
}

func (r *RiskAssessmentsAPI) FollowUpRequired(ctx context.Context) ([]domain.RiskAssessment, error) {
	return invoke[[]domain.RiskAssessment](ctx, &r.client, riskRoutes.FollowUpRequired, call{})
}

func (r *RiskAssessmentsAPI) ByAssessor(ctx context.Context, assessorID string) ([]domain.RiskAssessment, error) {
	q := url.Values{"assessorId": {assessorID}}
	return invoke[[]domain.RiskAssessment](ctx, &r.client, riskRoutes.ByAssessor, call{query: q})
}

func (r *RiskAssessmentsAPI) Analytics(ctx context.Context) (domain.Stats, error) {
	return invoke[domain.Stats](ctx, &r.client, riskRoutes.Analytics, call{})
}
