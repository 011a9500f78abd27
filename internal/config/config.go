// Package config provides configuration management for the sandbox console
// service. It supports environment variable-based configuration with
// validation and default values for the server, session simulation, storage,
// security, and logging settings.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	// MinPortNumber is the minimum valid port number.
	MinPortNumber = 1
	// MaxPortNumber is the maximum valid port number.
	MaxPortNumber = 65535
	// MinSessionDuration is the shortest session lifetime the service accepts.
	MinSessionDuration = time.Minute
)

// Config represents the complete configuration for the sandbox console,
// aggregating all component-specific configurations.
type Config struct {
	// Environment holds environment-specific settings.
	Environment EnvironmentConfig `envconfig:"ENVIRONMENT"`
	// Server contains HTTP server configuration including ports and timeouts.
	Server ServerConfig `envconfig:"SERVER"`
	// Session contains the mock session lifecycle settings.
	Session SessionConfig `envconfig:"SESSION"`
	// Redis contains Redis connection and pool configuration.
	Redis RedisConfig `envconfig:"REDIS"`
	// Storage selects the persistence adapter for sessions and API keys.
	Storage StorageConfig `envconfig:"STORAGE"`
	// Security contains security-related settings like CORS and rate limiting.
	Security SecurityConfig `envconfig:"SECURITY"`
	// Logging contains logging configuration.
	Logging LoggingConfig `envconfig:"LOGGING"`
	// Seed contains demo-data seeding configuration.
	Seed SeedConfig `envconfig:"SEED"`
}

type Environment string

const (
	Local   Environment = "LOCAL"
	NonProd Environment = "NONPROD"
	Prod    Environment = "PROD"
)

// EnvironmentConfig holds environment-specific settings.
type EnvironmentConfig struct {
	// Environment indicates the current running environment (LOCAL, NONPROD, PROD).
	Environment Environment `envconfig:"ENV" default:"LOCAL"`
}

// ServerConfig holds HTTP server configuration including network settings
// and timeouts.
type ServerConfig struct {
	// Port is the HTTP server listening port.
	Port int `envconfig:"PORT"             default:"8080"`
	// Host is the network interface to bind to.
	Host string `envconfig:"HOST"             default:"0.0.0.0"`
	// ReadTimeout is the maximum duration for reading the entire request.
	ReadTimeout time.Duration `envconfig:"READ_TIMEOUT"     default:"15s"`
	// WriteTimeout is the maximum duration before timing out writes.
	WriteTimeout time.Duration `envconfig:"WRITE_TIMEOUT"    default:"15s"`
	// IdleTimeout is the maximum amount of time to wait for keep-alive connections.
	IdleTimeout time.Duration `envconfig:"IDLE_TIMEOUT"     default:"60s"`
	// ShutdownTimeout is the maximum time to wait for graceful server shutdown.
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
}

// SessionConfig holds the mock session lifecycle settings. The latencies
// reproduce the delays the original dashboard used to simulate network round
// trips; they are not required to match a real backend.
type SessionConfig struct {
	// Duration is the session lifetime applied on login and renewal.
	// SESSION_DURATION is the runtime override the dashboard documents.
	Duration time.Duration `envconfig:"DURATION"              default:"24h"`
	// LoginLatency is the simulated delay of the login round trip.
	LoginLatency time.Duration `envconfig:"LOGIN_LATENCY"         default:"500ms"`
	// LogoutLatency is the simulated delay of the logout round trip.
	LogoutLatency time.Duration `envconfig:"LOGOUT_LATENCY"        default:"300ms"`
	// CheckLatency is the simulated delay of the session check round trip.
	CheckLatency time.Duration `envconfig:"CHECK_LATENCY"         default:"200ms"`
	// ExpiryCheckInterval is how often the background watcher re-checks the
	// session for expiry.
	ExpiryCheckInterval time.Duration `envconfig:"EXPIRY_CHECK_INTERVAL" default:"1m"`
}

// RedisConfig contains Redis connection configuration including
// connection pool settings and timeouts.
type RedisConfig struct {
	// URL is the Redis connection URL.
	URL string `envconfig:"URL"           default:"redis://localhost:6379"`
	// Password is the Redis authentication password.
	Password string `envconfig:"PASSWORD"`
	// DB is the Redis database number to use.
	DB int `envconfig:"DB"            default:"0"`
	// MaxRetries is the maximum number of retry attempts for failed operations.
	MaxRetries int `envconfig:"MAX_RETRIES"   default:"3"`
	// PoolSize is the maximum number of socket connections.
	PoolSize int `envconfig:"POOL_SIZE"     default:"10"`
	// MinIdleConn is the minimum number of idle connections.
	MinIdleConn int `envconfig:"MIN_IDLE_CONN" default:"5"`
	// DialTimeout is the timeout for establishing new connections.
	DialTimeout time.Duration `envconfig:"DIAL_TIMEOUT"  default:"5s"`
	// ReadTimeout is the timeout for socket reads.
	ReadTimeout time.Duration `envconfig:"READ_TIMEOUT"  default:"3s"`
	// WriteTimeout is the timeout for socket writes.
	WriteTimeout time.Duration `envconfig:"WRITE_TIMEOUT" default:"3s"`
	// PoolTimeout is the amount of time client waits for connection.
	PoolTimeout time.Duration `envconfig:"POOL_TIMEOUT"  default:"4s"`
}

// StorageConfig selects the persistence adapter used for the session mirror
// and the API-key list.
type StorageConfig struct {
	// Backend is the adapter name: "redis", "file", or "memory".
	Backend string `envconfig:"BACKEND"   default:"memory"`
	// FilePath is the JSON document location for the file adapter.
	FilePath string `envconfig:"FILE_PATH" default:"sandbox-console.json"`
}

// SecurityConfig contains security-related settings including
// rate limiting and CORS configuration.
type SecurityConfig struct {
	// RateLimitRPS is the maximum requests per second per client.
	RateLimitRPS int `envconfig:"RATE_LIMIT_RPS"    default:"100"`
	// RateLimitBurst is the maximum burst size for rate limiting.
	RateLimitBurst int `envconfig:"RATE_LIMIT_BURST"  default:"200"`
	// AllowedOrigins are the CORS allowed origins.
	AllowedOrigins []string `envconfig:"ALLOWED_ORIGINS"   default:"*"`
	// AllowedMethods are the CORS allowed HTTP methods.
	AllowedMethods []string `envconfig:"ALLOWED_METHODS"   default:"GET,POST,PUT,DELETE,OPTIONS"`
	// AllowedHeaders are the CORS allowed headers.
	AllowedHeaders []string `envconfig:"ALLOWED_HEADERS"   default:"*"`
	// AllowCredentials determines if CORS allows credentials.
	AllowCredentials bool `envconfig:"ALLOW_CREDENTIALS" default:"true"`
	// MaxAge is the CORS preflight cache duration in seconds.
	MaxAge int `envconfig:"MAX_AGE"           default:"86400"`
	// TrustedProxies are the trusted proxy IP addresses.
	TrustedProxies []string `envconfig:"TRUSTED_PROXIES"`
}

// LoggingConfig contains logging configuration including
// log level, format, and output destination.
type LoggingConfig struct {
	// Level is the logging level (debug, info, warn, error).
	Level string `envconfig:"LEVEL"  default:"info"`
	// Format is the log output format (json, text).
	Format string `envconfig:"FORMAT" default:"json"`
	// Output is the log output destination (stdout, stderr, file path).
	Output string `envconfig:"OUTPUT" default:"stdout"`
}

// SeedConfig controls demo-data seeding of the API-key store at startup.
type SeedConfig struct {
	// Enabled determines if demo keys are created on an empty store.
	Enabled bool `envconfig:"ENABLED"     default:"false"`
	// ConfigPath is the path to the seed fixture file.
	ConfigPath string `envconfig:"CONFIG_PATH" default:"configs/seed.yaml"`
}

// Load reads configuration from environment variables and returns
// a validated Config instance. It returns an error if configuration
// is invalid.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// Validate performs validation of all configuration values.
func (c *Config) Validate() error {
	if c.Server.Port < MinPortNumber || c.Server.Port > MaxPortNumber {
		return errors.New("server port must be between 1 and 65535")
	}

	if c.Session.Duration < MinSessionDuration {
		return errors.New("session duration must be at least 1 minute")
	}

	if c.Session.ExpiryCheckInterval <= 0 {
		return errors.New("session expiry check interval must be positive")
	}

	switch c.Storage.Backend {
	case "redis", "file", "memory":
	default:
		return fmt.Errorf("unsupported storage backend: %s", c.Storage.Backend)
	}

	if c.Storage.Backend == "file" && c.Storage.FilePath == "" {
		return errors.New("storage file path is required for the file backend")
	}

	return nil
}

// ServerAddr returns the formatted server address string in host:port format.
func (c *Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
