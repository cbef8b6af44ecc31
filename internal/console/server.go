// Package console serves the operator console: a local JSON surface over
// the resource library, the consent gate and the academic report.
package console

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/chrimztech/unza-counseling-console/internal/api"
	"github.com/chrimztech/unza-counseling-console/internal/consent"
	"github.com/chrimztech/unza-counseling-console/internal/domain"
	"github.com/chrimztech/unza-counseling-console/internal/viewmodel"
	"github.com/chrimztech/unza-counseling-console/pkg/health"
	pkgmiddleware "github.com/chrimztech/unza-counseling-console/pkg/middleware"
)

const serviceName = "console"

// Library is the resource view-model. *viewmodel.ResourceLibrary
// satisfies it.
type Library interface {
	All(ctx context.Context) error
	Refresh(ctx context.Context) error
	Search(ctx context.Context, query string) error
	FilterByType(ctx context.Context, resourceType string) error
	FilterByCategory(ctx context.Context, category string) error
	Featured(ctx context.Context) error
	Download(ctx context.Context, id string) (*api.Download, error)
	Snapshot() viewmodel.State
}

// Gate is the consent gate of one operator. *consent.Gate satisfies it.
type Gate interface {
	Check(ctx context.Context) (consent.Status, error)
	Submit(ctx context.Context, agreed bool) error
	Status() consent.Status
}

// AcademicSource returns the last synced SIS results for a client.
// *api.AcademicAPI satisfies it.
type AcademicSource interface {
	Cached(ctx context.Context, clientID string) (*domain.SyncResultsResponse, error)
}

// Deps are the collaborators of the console router.
type Deps struct {
	Library  Library
	// Gates returns the consent gate of an operator ID.
	Gates    func(operator string) Gate
	Academic AcademicSource
	Health   *health.Handler
	// Operator resolves the signed-in operator; /console routes require one.
	Operator pkgmiddleware.OperatorResolver
	Logger   *slog.Logger
	Now      func() time.Time
}

// Limits configures per-client rate limiting.
type Limits struct {
	RPS   float64
	Burst int
}

// Server holds the handlers of the console routes.
type Server struct {
	lib      Library
	gates    func(operator string) Gate
	academic AcademicSource
	logger   *slog.Logger
	now      func() time.Time
}

// NewRouter builds the console router. ctx bounds background work such as
// rate limiter cleanup.
func NewRouter(ctx context.Context, deps Deps, limits Limits) http.Handler {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Health == nil {
		deps.Health = health.NewHandler()
	}
	s := &Server{
		lib:      deps.Library,
		gates:    deps.Gates,
		academic: deps.Academic,
		logger:   deps.Logger,
		now:      deps.Now,
	}

	r := chi.NewRouter()
	r.Use(pkgmiddleware.RateLimit(ctx, limits.RPS, limits.Burst, deps.Logger))
	r.Use(pkgmiddleware.Recovery(deps.Logger))
	r.Use(pkgmiddleware.RequestLogging(deps.Logger))
	r.Use(pkgmiddleware.PrometheusMetrics(serviceName))
	r.Use(pkgmiddleware.Tracing(serviceName))

	r.Get("/health/live", deps.Health.LivenessHandler())
	r.Get("/health/ready", deps.Health.ReadinessHandler())
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/console", func(r chi.Router) {
		r.Use(pkgmiddleware.Operator(deps.Operator, true))
		r.Use(pkgmiddleware.RequestLogger(deps.Logger))
		r.Use(pkgmiddleware.NoStore)

		r.Get("/consent", s.consentStatus)
		r.Post("/consent/sign", s.signConsent)

		// Everything below is a protected feature.
		r.Group(func(r chi.Router) {
			r.Use(s.requireConsent)

			r.Get("/resources", s.listResources)
			r.Post("/resources/refresh", s.refreshResources)
			r.Get("/resources/{id}/download", s.downloadResource)
			r.Get("/clients/{id}/academic-report", s.academicReport)
		})
	})

	return r
}
