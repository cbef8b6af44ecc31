package api

import (
	"context"
	"net/http"

	"github.com/chrimztech/unza-counseling-console/internal/domain"
)

var dashboardRoutes = struct {
	Stats, RecentAppointments, UpcomingAppointments, AtRiskStudents Route
}{
	Stats:                Route{Name: "dashboard.stats", Method: http.MethodGet, Path: "v1/dashboard/stats"},
	RecentAppointments:   Route{Name: "dashboard.recent_appointments", Method: http.MethodGet, Path: "v1/dashboard/recent-appointments"},
	UpcomingAppointments: Route{Name: "dashboard.upcoming_appointments", Method: http.MethodGet, Path: "v1/dashboard/upcoming-appointments"},
	AtRiskStudents:       Route{Name: "dashboard.at_risk_students", Method: http.MethodGet, Path: "v1/dashboard/at-risk-students"},
}

// DashboardAPI feeds the landing page.
type DashboardAPI struct{ client }

func (d *DashboardAPI) Stats(ctx context.Context) (*domain.DashboardStats, error) {
	return invoke[*domain.DashboardStats](ctx, &d.client, dashboardRoutes.Stats, call{})
}

func (d *DashboardAPI) RecentAppointments(ctx context.Context) ([]domain.Appointment, error) {
	return invoke[[]domain.Appointment](ctx, &d.client, dashboardRoutes.RecentAppointments, call{})
}

func (d *DashboardAPI) UpcomingAppointments(ctx context.Context) ([]domain.Appointment, error) {
	return invoke[[]domain.Appointment](ctx, &d.client, dashboardRoutes.UpcomingAppointments, call{})
}

func (d *DashboardAPI) AtRiskStudents(ctx context.Context) ([]domain.Stats, error) {
	return invoke[[]domain.Stats](ctx, &d.client, dashboardRoutes.AtRiskStudents, call{})
}

var analyticsRoutes = struct {
	Overview, InterventionReport, CounselorPerformance, ClientDemographics, SessionAnalytics,
	RiskAssessment, TimeAnalysis, Outcomes, Export Route
}{
	Overview:             Route{Name: "analytics.overview", Method: http.MethodGet, Path: "v1/analytics/overview", Unwrap: Enveloped},
	InterventionReport:   Route{Name: "analytics.intervention_report", Method: http.MethodGet, Path: "v1/analytics/intervention-report", Unwrap: Enveloped},
	CounselorPerformance: Route{Name: "analytics.counselor_performance", Method: http.MethodGet, Path: "v1/analytics/counselor-performance", Unwrap: Enveloped},
	ClientDemographics:   Route{Name: "analytics.client_demographics", Method: http.MethodGet, Path: "v1/analytics/client-demographics", Unwrap: Enveloped},
	SessionAnalytics:     Route{Name: "analytics.session_analytics", Method: http.MethodGet, Path: "v1/analytics/session-analytics", Unwrap: Enveloped},
	RiskAssessment:       Route{Name: "analytics.risk_assessment", Method: http.MethodGet, Path: "v1/analytics/risk-assessment", Unwrap: Enveloped},
	TimeAnalysis:         Route{Name: "analytics.time_analysis", Method: http.MethodGet, Path: "v1/analytics/time-analysis", Unwrap: Enveloped},
	Outcomes:             Route{Name: "analytics.outcomes", Method: http.MethodGet, Path: "v1/analytics/outcomes", Unwrap: Enveloped},
	Export:               Route{Name: "analytics.export", Method: http.MethodGet, Path: "v1/analytics/export", Unwrap: Binary},
}

// AnalyticsAPI exposes the reporting endpoints. Report bodies vary per
// backend release and are returned as generic maps.
type AnalyticsAPI struct{ client }

func (a *AnalyticsAPI) Overview(ctx context.Context) (*domain.DashboardStats, error) {
	return invoke[*domain.DashboardStats](ctx, &a.client, analyticsRoutes.Overview, call{})
}

func (a *AnalyticsAPI) InterventionReport(ctx context.Context) (domain.Stats, error) {
	return invoke[domain.Stats](ctx, &a.client, analyticsRoutes.InterventionReport, call{})
}

func (a *AnalyticsAPI) CounselorPerformance(ctx context.Context) (domain.Stats, error) {
	return invoke[domain.Stats](ctx, &a.client, analyticsRoutes.CounselorPerformance, call{})
}

func (a *AnalyticsAPI) ClientDemographics(ctx context.Context) (domain.Stats, error) {
	return invoke[domain.Stats](ctx, &a.client, analyticsRoutes.ClientDemographics, call{})
}

func (a *AnalyticsAPI) SessionAnalytics(ctx context.Context) (domain.Stats, error) {
	return invoke[domain.Stats](ctx, &a.client, analyticsRoutes.SessionAnalytics, call{})
}

func (a *AnalyticsAPI) RiskAssessment(ctx context.Context) (domain.Stats, error) {
	return invoke[domain.Stats](ctx, &a.client, analyticsRoutes.RiskAssessment, call{})
}

func (a *AnalyticsAPI) TimeAnalysis(ctx context.Context) (domain.Stats, error) {
	return invoke[domain.Stats](ctx, &a.client, analyticsRoutes.TimeAnalysis, call{})
}

func (a *AnalyticsAPI) Outcomes(ctx context.Context) (domain.Stats, error) {
	return invoke[domain.Stats](ctx, &a.client, analyticsRoutes.Outcomes, call{})
}

// Export downloads analytics as csv, pdf or excel.
func (a *AnalyticsAPI) Export(ctx context.Context, format string) (*Download, error) {
	q, err := exportQuery(format, FormatCSV, FormatPDF, FormatExcel)
	if err != nil {
		return nil, err
	}
	return a.download(ctx, analyticsRoutes.Export, call{query: q})
}
