package app

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/chrimztech/unza-counseling-console/internal/api"
	"github.com/chrimztech/unza-counseling-console/internal/audit"
	"github.com/chrimztech/unza-counseling-console/internal/config"
	"github.com/chrimztech/unza-counseling-console/internal/session"
	"github.com/chrimztech/unza-counseling-console/pkg/database"
	"github.com/chrimztech/unza-counseling-console/pkg/httpclient"
	pkgkafka "github.com/chrimztech/unza-counseling-console/pkg/kafka"
	pkgmiddleware "github.com/chrimztech/unza-counseling-console/pkg/middleware"
)

// ServiceName labels logs, traces and audit events from this program.
const ServiceName = "counselctl"

// Options tune NewDeps.
type Options struct {
	Version string
	// OnUnauthorized runs after a 401 has cleared the stored credential and
	// the session.expired event was recorded.
	OnUnauthorized func(ctx context.Context)
	// Registerer receives the Redis pool collector; nil means the default
	// registry.
	Registerer prometheus.Registerer
}

// Deps is the dependency graph shared by the console server and the CLI
// commands.
type Deps struct {
	Store    session.Store
	API      *api.API
	Audit    audit.Recorder
	Client   *httpclient.Client
	Redis    *redis.Client
	Producer *pkgkafka.Producer

	logger *slog.Logger
}

// NewDeps builds the credential store, the backend client and the audit
// recorder from cfg.
func NewDeps(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts Options) (*Deps, error) {
	d := &Deps{logger: logger}

	if err := d.initStore(ctx, cfg, opts); err != nil {
		return nil, err
	}

	d.Audit = audit.Nop{}
	if len(cfg.KafkaBrokers) > 0 {
		d.Producer = pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers), logger)
		d.Audit = audit.NewProducer(d.Producer, logger)
		logger.Info("audit producer initialized", slog.Any("brokers", cfg.KafkaBrokers))
	}

	userAgent := ServiceName + "/" + cmp.Or(opts.Version, "dev")
	clientOpts := []httpclient.Option{
		httpclient.WithLogger(logger),
		httpclient.WithUnauthorizedHandler(func(ctx context.Context) {
			if err := d.Audit.SessionExpired(ctx, audit.SessionExpiredData{Profile: cfg.Profile}); err != nil {
				logger.WarnContext(ctx, "failed to record session expiry", slog.String("error", err.Error()))
			}
			if opts.OnUnauthorized != nil {
				opts.OnUnauthorized(ctx)
			}
		}),
	}
	if cfg.CBEnabled {
		cb := httpclient.DefaultCircuitBreakerConfig("counseling-api")
		cb.MinRequests = cfg.CBMinRequests
		cb.FailureRatio = cfg.CBFailureRatio
		cb.Timeout = cfg.CBOpenTimeout
		clientOpts = append(clientOpts, httpclient.WithCircuitBreaker(cb))
	}

	hc, err := httpclient.New(httpclient.Config{
		BaseURL:         cfg.APIBaseURL,
		Timeout:         cfg.APITimeout,
		MaxConnsPerHost: cfg.APIMaxConns,
		UserAgent:       userAgent,
	}, d.Store, clientOpts...)
	if err != nil {
		_ = d.Close()
		return nil, fmt.Errorf("create api client: %w", err)
	}
	d.Client = hc
	d.API = api.New(hc, api.Options{Store: d.Store, UserAgent: userAgent, Logger: logger})
	return d, nil
}

func (d *Deps) initStore(ctx context.Context, cfg *config.Config, opts Options) error {
	switch cfg.CredentialBackend {
	case config.CredentialBackendMemory:
		d.Store = session.NewMemoryStore()
	case config.CredentialBackendRedis:
		rc := database.DefaultRedisConfig()
		rc.Addr = cfg.RedisAddr
		rc.Password = cfg.RedisPassword
		rc.DB = cfg.RedisDB
		client, err := database.NewRedisClient(ctx, rc, d.logger)
		if err != nil {
			return fmt.Errorf("connect credential store: %w", err)
		}
		reg := opts.Registerer
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		if err := database.RegisterPoolMetrics(reg, client, ServiceName); err != nil {
			d.logger.Warn("redis pool metrics not registered", slog.String("error", err.Error()))
		}
		d.Redis = client
		d.Store = session.NewRedisStore(client, cfg.Profile, cfg.CredentialTTL)
		d.logger.Info("connected to Redis", slog.String("addr", rc.Addr), slog.Int("db", rc.DB))
	default:
		dir := cfg.CredentialDir
		if dir == "" {
			var err error
			if dir, err = session.DefaultDir(); err != nil {
				return fmt.Errorf("resolve credential dir: %w", err)
			}
		}
		d.Store = session.NewFileStore(dir, cfg.Profile)
	}
	return nil
}

// Close releases the audit producer and the Redis client.
func (d *Deps) Close() error {
	var errs []error
	if d.Producer != nil {
		if err := d.Producer.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close kafka producer: %w", err))
		}
	}
	if d.Redis != nil {
		if err := d.Redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close redis: %w", err))
		}
	}
	return errors.Join(errs...)
}

// OperatorResolver identifies the operator from the stored token. An
// expired or undecodable token reads as nobody signed in.
func OperatorResolver(store session.Store, now func() time.Time) pkgmiddleware.OperatorResolver {
	return func(ctx context.Context) (string, error) {
		token, err := store.Token(ctx)
		if err != nil || token == "" {
			return "", err
		}
		claims, err := session.ParseClaims(token)
		if err != nil || claims.Expired(now()) {
			return "", nil
		}
		return cmp.Or(claims.Subject, claims.Email), nil
	}
}
