package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/chrimztech/unza-counseling-console/internal/config"
	"github.com/chrimztech/unza-counseling-console/internal/consent"
	"github.com/chrimztech/unza-counseling-console/internal/console"
	"github.com/chrimztech/unza-counseling-console/internal/viewmodel"
	"github.com/chrimztech/unza-counseling-console/pkg/health"
	"github.com/chrimztech/unza-counseling-console/pkg/tracing"
)

// App wires together all dependencies and runs the operator console.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	deps           *Deps
	library        *viewmodel.ResourceLibrary
	httpServer     *http.Server
	tracerShutdown func(context.Context) error
	stopRouter     context.CancelFunc
}

// NewApp creates a new application instance, connecting the credential
// store and the audit producer and building the console router.
func NewApp(cfg *config.Config, logger *slog.Logger, version string) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize OpenTelemetry tracing.
	tracerShutdown, err := tracing.InitTracer(ctx, tracing.Config{
		ServiceName:    ServiceName,
		ServiceVersion: version,
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OTelEndpoint,
		SampleRate:     cfg.OTelSampleRate,
		Enabled:        cfg.OTelEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	// A cleared credential ends every operator's consent state.
	var gates *consent.Registry
	deps, err := NewDeps(ctx, cfg, logger, Options{
		Version: version,
		OnUnauthorized: func(context.Context) {
			if gates != nil {
				gates.Reset()
			}
		},
	})
	if err != nil {
		_ = tracerShutdown(context.Background())
		return nil, err
	}

	library := viewmodel.NewResourceLibrary(deps.API.Resources, viewmodel.Options{
		AutoFetch: true,
		Logger:    logger,
		OnChange: func(st viewmodel.State) {
			logger.Debug("resource library changed",
				slog.Int("items", len(st.Items)),
				slog.Bool("loading", st.Loading),
				slog.String("error", st.Error),
			)
		},
	})
	gates = consent.NewRegistry(deps.API.Consent, consent.Options{
		UserAgent: ServiceName + "/" + version,
		Audit:     deps.Audit,
		Logger:    logger,
		OnConsentRequired: func() {
			logger.Warn("consent outstanding but the backend has no active form")
		},
	})

	// Health checks.
	healthHandler := health.NewHandler()
	healthHandler.RegisterCritical("backend", backendCheck(cfg.APIBaseURL))
	if deps.Redis != nil {
		healthHandler.RegisterNonCritical("redis", func(ctx context.Context) error {
			return deps.Redis.Ping(ctx).Err()
		})
	}
	if deps.Producer != nil {
		healthHandler.RegisterNonCritical("kafka", deps.Producer.Ping)
	}

	routerCtx, stopRouter := context.WithCancel(context.Background())
	router := console.NewRouter(routerCtx, console.Deps{
		Library:  library,
		Gates:    func(operator string) console.Gate { return gates.For(operator) },
		Academic: deps.API.Academic,
		Health:   healthHandler,
		Operator: OperatorResolver(deps.Store, time.Now),
		Logger:   logger,
	}, console.Limits{
		RPS:   float64(cfg.RateLimitRPS),
		Burst: cfg.RateLimitBurst,
	})

	// Downloads may take the whole backend timeout.
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      cfg.APITimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &App{
		cfg:            cfg,
		logger:         logger,
		deps:           deps,
		library:        library,
		httpServer:     httpServer,
		tracerShutdown: tracerShutdown,
		stopRouter:     stopRouter,
	}, nil
}

// Handler returns the console router.
func (a *App) Handler() http.Handler { return a.httpServer.Handler }

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	go a.mount(ctx)

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		_ = a.Shutdown()
		return err
	}

	return a.Shutdown()
}

// mount runs the initial resource load when someone is signed in; without
// a credential the backend would only answer 401.
func (a *App) mount(ctx context.Context) {
	token, err := a.deps.Store.Token(ctx)
	if err != nil || token == "" {
		a.logger.Info("not signed in, skipping initial resource load")
		return
	}
	if err := a.library.Mount(ctx); err != nil && ctx.Err() == nil {
		a.logger.Warn("initial resource load failed", slog.String("error", err.Error()))
	}
}

// Shutdown gracefully stops the console in order:
// 1. HTTP server (drain in-flight requests)
// 2. View-model and router background work
// 3. Audit producer and credential store
// 4. Tracer (flush pending spans)
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	var errs []error

	httpCtx, httpCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer httpCancel()
	if err := a.httpServer.Shutdown(httpCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	a.library.Close()
	a.stopRouter()

	if err := a.deps.Close(); err != nil {
		a.logger.Error("dependency close error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	if a.tracerShutdown != nil {
		tracerCtx, tracerCancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer tracerCancel()
		if err := a.tracerShutdown(tracerCtx); err != nil {
			a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	a.logger.Info("application shutdown complete")
	return errors.Join(errs...)
}

// backendCheck reports whether the backend host accepts TCP connections.
func backendCheck(baseURL string) health.Checker {
	return func(ctx context.Context) error {
		u, err := url.Parse(baseURL)
		if err != nil {
			return fmt.Errorf("parse backend URL: %w", err)
		}
		host := u.Host
		if u.Port() == "" {
			port := "80"
			if u.Scheme == "https" {
				port = "443"
			}
			host = net.JoinHostPort(u.Hostname(), port)
		}
		d := net.Dialer{Timeout: 2 * time.Second}
		conn, err := d.DialContext(ctx, "tcp", host)
		if err != nil {
			return fmt.Errorf("backend unreachable: %w", err)
		}
		_ = conn.Close()
		return nil
	}
}
