package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	pkgconfig "github.com/chrimztech/unza-counseling-console/pkg/config"
)

// Credential store backends.
const (
	CredentialBackendFile   = "file"
	CredentialBackendRedis  = "redis"
	CredentialBackendMemory = "memory"
)

// Config holds all configuration for the counseling console.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat   string `env:"LOG_FORMAT" envDefault:"text"`

	// Backend API
	APIBaseURL  string        `env:"COUNSELING_API_URL" envDefault:"http://localhost:8080/api"`
	APITimeout  time.Duration `env:"API_TIMEOUT" envDefault:"30s"`
	APIMaxConns int           `env:"API_MAX_CONNS" envDefault:"100"`

	// Circuit breaker around the backend client
	CBEnabled      bool          `env:"CB_ENABLED" envDefault:"false"`
	CBMinRequests  uint32        `env:"CB_MIN_REQUESTS" envDefault:"5"`
	CBFailureRatio float64       `env:"CB_FAILURE_RATIO" envDefault:"0.5"`
	CBOpenTimeout  time.Duration `env:"CB_OPEN_TIMEOUT" envDefault:"30s"`

	// Credential storage
	CredentialBackend string        `env:"CREDENTIAL_BACKEND" envDefault:"file"`
	CredentialDir     string        `env:"CREDENTIAL_DIR"`
	Profile           string        `env:"COUNSELCTL_PROFILE" envDefault:"default"`
	CredentialTTL     time.Duration `env:"CREDENTIAL_TTL" envDefault:"12h"`

	// Redis (credential backend "redis")
	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	// Console server
	HTTPPort       int `env:"CONSOLE_HTTP_PORT" envDefault:"8090"`
	RateLimitRPS   int `env:"RATE_LIMIT_RPS" envDefault:"20"`
	RateLimitBurst int `env:"RATE_LIMIT_BURST" envDefault:"40"`

	// Audit events; an empty broker list disables publishing.
	KafkaBrokers []string `env:"KAFKA_BROKERS" envSeparator:","`

	// Tracing
	OTelEnabled    bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTelEndpoint   string  `env:"OTEL_ENDPOINT" envDefault:"localhost:4318"`
	OTelSampleRate float64 `env:"OTEL_SAMPLE_RATE" envDefault:"1.0"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	return LoadWithOverrides(nil)
}

// LoadWithOverrides reads configuration from the process environment with
// the given variables taking precedence, e.g. values from CLI flags.
func LoadWithOverrides(overrides map[string]string) (*Config, error) {
	vars := environ()
	for k, v := range overrides {
		if v != "" {
			vars[k] = v
		}
	}

	cfg := &Config{}
	if err := pkgconfig.LoadFrom(cfg, vars); err != nil {
		return nil, fmt.Errorf("load console config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// environ snapshots the process environment. Empty values are dropped so
// that they fall back to defaults.
func environ() map[string]string {
	vars := make(map[string]string)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok && v != "" {
			vars[k] = v
		}
	}
	return vars
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("COUNSELING_API_URL must be an absolute http(s) URL, got %q", c.APIBaseURL)
	}
	if c.Environment != "development" && u.Scheme != "https" {
		return fmt.Errorf("COUNSELING_API_URL must use https in %s environment", c.Environment)
	}
	if c.APITimeout <= 0 {
		return fmt.Errorf("API_TIMEOUT must be positive")
	}

	// The profile names the credential file and the redis key.
	if c.Profile == "" || c.Profile == "." || c.Profile == ".." || strings.ContainsAny(c.Profile, `/\`) {
		return fmt.Errorf("COUNSELCTL_PROFILE must be a plain name without path separators, got %q", c.Profile)
	}

	switch c.CredentialBackend {
	case CredentialBackendFile, CredentialBackendMemory:
	case CredentialBackendRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR is required for the redis credential backend")
		}
	default:
		return fmt.Errorf("CREDENTIAL_BACKEND must be one of file, redis, memory; got %q", c.CredentialBackend)
	}

	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		return fmt.Errorf("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	}
	if c.OTelSampleRate < 0 || c.OTelSampleRate > 1 {
		return fmt.Errorf("OTEL_SAMPLE_RATE must be between 0 and 1")
	}
	return nil
}
