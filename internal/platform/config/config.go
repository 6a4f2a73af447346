// Package config provides configuration loading and management using koanf.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Default configuration values.
const (
	// DefaultServerPort is the default HTTP server port.
	DefaultServerPort = 8000

	// DefaultMaxRequestSize is the default maximum request body size (1MB).
	DefaultMaxRequestSize = 1 << 20 // 1048576 bytes

	// DefaultRateLimitPerMinute is the default per-scope request budget.
	DefaultRateLimitPerMinute = 60

	// DefaultStoreCircuitMaxFailures is the default failures before the store circuit opens.
	DefaultStoreCircuitMaxFailures = 5

	// DefaultStoreCircuitHalfOpenLimit is the default successes to close the store circuit.
	DefaultStoreCircuitHalfOpenLimit = 3

	// DefaultLogFileMaxSizeMB is the default max log file size in megabytes.
	DefaultLogFileMaxSizeMB = 100

	// DefaultLogFileMaxBackups is the default number of old log files to retain.
	DefaultLogFileMaxBackups = 3

	// DefaultLogFileMaxAgeDays is the default max days to retain old log files.
	DefaultLogFileMaxAgeDays = 28
)

// Store drivers.
const (
	StoreDriverRedis  = "redis"
	StoreDriverMemory = "memory"
)

// Config is the root configuration structure.
type Config struct {
	App          AppConfig          `koanf:"app"          validate:"required"`
	Server       ServerConfig       `koanf:"server"       validate:"required"`
	Log          LogConfig          `koanf:"log"          validate:"required"`
	Telemetry    TelemetryConfig    `koanf:"telemetry"`
	Auth         AuthConfig         `koanf:"auth"         validate:"required"`
	Store        StoreConfig        `koanf:"store"        validate:"required"`
	RateLimit    RateLimitConfig    `koanf:"rate_limit"   validate:"required"`
	Quotes       QuotesConfig       `koanf:"quotes"       validate:"required"`
	Cache        CacheConfig        `koanf:"cache"        validate:"required"`
	Subscription SubscriptionConfig `koanf:"subscription" validate:"required"`
}

// AppConfig contains application-level settings.
type AppConfig struct {
	Name        string `koanf:"name"        validate:"required"`
	Version     string `koanf:"version"     validate:"required"`
	Environment string `koanf:"environment" validate:"required,oneof=local dev qa prod test"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port            int           `koanf:"port"             validate:"required,min=1,max=65535"`
	Host            string        `koanf:"host"             validate:"required"`
	ReadTimeout     time.Duration `koanf:"read_timeout"     validate:"required,min=1s"`
	WriteTimeout    time.Duration `koanf:"write_timeout"    validate:"required,min=1s"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"     validate:"required,min=1s"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"required,min=1s"`
	RequestTimeout  time.Duration `koanf:"request_timeout"  validate:"required,min=100ms"`
	MaxRequestSize  int64         `koanf:"max_request_size" validate:"required,min=1"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string        `koanf:"level"  validate:"required,oneof=trace debug info warn error"`
	Format string        `koanf:"format" validate:"required,oneof=json text pretty"`
	File   LogFileConfig `koanf:"file"`
}

// LogFileConfig contains rolling log file settings.
type LogFileConfig struct {
	Enabled    bool   `koanf:"enabled"`
	Path       string `koanf:"path"        validate:"required_if=Enabled true"`
	MaxSizeMB  int    `koanf:"max_size"    validate:"omitempty,min=1,max=1024"`
	MaxBackups int    `koanf:"max_backups" validate:"omitempty,min=0,max=100"`
	MaxAgeDays int    `koanf:"max_age"     validate:"omitempty,min=0,max=365"`
	Compress   bool   `koanf:"compress"`
}

// TelemetryConfig contains OpenTelemetry settings.
type TelemetryConfig struct {
	Enabled      bool    `koanf:"enabled"`
	Endpoint     string  `koanf:"endpoint"      validate:"required_if=Enabled true"`
	ServiceName  string  `koanf:"service_name"  validate:"required_if=Enabled true"`
	SamplingRate float64 `koanf:"sampling_rate" validate:"min=0,max=1"`
	Insecure     bool    `koanf:"insecure"`
}

// AuthConfig contains bearer token settings.
type AuthConfig struct {
	TokenSecret string        `koanf:"token_secret" validate:"required,min=16"`
	TokenTTL    time.Duration `koanf:"token_ttl"    validate:"required,min=1m"`
}

// StoreConfig contains shared store settings.
type StoreConfig struct {
	Driver         string               `koanf:"driver"          validate:"required,oneof=redis memory"`
	RedisURL       string               `koanf:"redis_url"       validate:"required_if=Driver redis"`
	DialTimeout    time.Duration        `koanf:"dial_timeout"    validate:"required,min=10ms"`
	OpTimeout      time.Duration        `koanf:"op_timeout"      validate:"required,min=10ms"`
	CircuitBreaker CircuitBreakerConfig `koanf:"circuit_breaker" validate:"required"`

	// DatabaseURL is accepted for deployment compatibility; the service keeps no relational state.
	DatabaseURL string `koanf:"database_url"`
}

// CircuitBreakerConfig contains circuit breaker settings for the shared store.
type CircuitBreakerConfig struct {
	Enabled       bool          `koanf:"enabled"`
	MaxFailures   int           `koanf:"max_failures"    validate:"required,min=1"`
	Timeout       time.Duration `koanf:"timeout"         validate:"required,min=1s"`
	HalfOpenLimit int           `koanf:"half_open_limit" validate:"required,min=1"`
}

// RateLimitConfig contains fixed-window rate limiting settings.
type RateLimitConfig struct {
	PerMinute int            `koanf:"per_minute" validate:"required,min=1"`
	Scopes    map[string]int `koanf:"scopes"     validate:"dive,keys,required,endkeys,min=1"`
}

// QuotesConfig contains quote catalog settings.
type QuotesConfig struct {
	File string `koanf:"file" validate:"required"`
}

// CacheConfig contains response cache settings.
type CacheConfig struct {
	DailyTTL time.Duration `koanf:"daily_ttl" validate:"required,min=1s"`
}

// SubscriptionConfig contains subscription settings.
type SubscriptionConfig struct {
	MockMode      bool          `koanf:"mock_mode"`
	WebhookSecret string        `koanf:"webhook_secret" validate:"required"`
	TTL           time.Duration `koanf:"ttl"            validate:"required,min=1m"`
}

// defaults returns the default configuration values.
func defaults() map[string]any {
	return map[string]any{
		"app.name":        "wisdom-pocket",
		"app.version":     "dev",
		"app.environment": "local",

		"server.port":             DefaultServerPort,
		"server.host":             "0.0.0.0",
		"server.read_timeout":     "30s",
		"server.write_timeout":    "30s",
		"server.idle_timeout":     "120s",
		"server.shutdown_timeout": "10s",
		"server.request_timeout":  "5s",
		"server.max_request_size": DefaultMaxRequestSize,

		"log.level":            "info",
		"log.format":           "json",
		"log.file.enabled":     false,
		"log.file.path":        "./logs/app.log",
		"log.file.max_size":    DefaultLogFileMaxSizeMB,
		"log.file.max_backups": DefaultLogFileMaxBackups,
		"log.file.max_age":     DefaultLogFileMaxAgeDays,
		"log.file.compress":    true,

		"telemetry.enabled":       false,
		"telemetry.endpoint":      "",
		"telemetry.service_name":  "wisdom-pocket",
		"telemetry.sampling_rate": 1.0,
		"telemetry.insecure":      true,

		"auth.token_secret": "dev_secret_change_me",
		"auth.token_ttl":    "720h",

		"store.driver":                          StoreDriverMemory,
		"store.redis_url":                       "redis://localhost:6379/0",
		"store.dial_timeout":                    "2s",
		"store.op_timeout":                      "500ms",
		"store.circuit_breaker.enabled":         true,
		"store.circuit_breaker.max_failures":    DefaultStoreCircuitMaxFailures,
		"store.circuit_breaker.timeout":         "10s",
		"store.circuit_breaker.half_open_limit": DefaultStoreCircuitHalfOpenLimit,
		"store.database_url":                    "",

		"rate_limit.per_minute": DefaultRateLimitPerMinute,

		"quotes.file": "data/sample_quotes.json",

		"cache.daily_ttl": "23h",

		"subscription.mock_mode":      true,
		"subscription.webhook_secret": "mock_secret",
		"subscription.ttl":            "720h",
	}
}

// Load loads configuration with the following precedence (highest to lowest):
//  1. Environment variables (APP_ prefix)
//  2. Profile config file (configs/{profile}.yaml)
//  3. Base config file (configs/base.yaml)
//  4. Default values
func Load(profile string) (*Config, error) {
	k := koanf.New(".")

	// 1. Load defaults
	err := k.Load(confmap.Provider(defaults(), "."), nil)
	if err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	// 2. Load base config file if it exists
	err = loadFileIfExists(k, "configs/base.yaml")
	if err != nil {
		return nil, fmt.Errorf("loading base config: %w", err)
	}

	// 3. Load profile config file if it exists
	if profile != "" {
		profilePath := fmt.Sprintf("configs/%s.yaml", profile)

		err := loadFileIfExists(k, profilePath)
		if err != nil {
			return nil, fmt.Errorf("loading profile config %q: %w", profile, err)
		}
	}

	// 4. Load environment variables with APP_ prefix.
	// Section names contain underscores, so APP_RATE_LIMIT_PER_MINUTE
	// maps to rate_limit.per_minute rather than rate.limit.per.minute.
	err = k.Load(env.Provider("APP_", ".", envKey), nil)
	if err != nil {
		return nil, fmt.Errorf("loading env vars: %w", err)
	}

	// Unmarshal into Config struct
	var cfg Config

	err = k.Unmarshal("", &cfg)
	if err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return &cfg, nil
}

// sectionNames lists top-level keys that contain an underscore.
var sectionNames = []string{"rate_limit"}

// envKey converts APP_SECTION_KEY_NAME to section.key_name.
// The first segment after the section is the key; remaining underscores are kept.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, "APP_"))

	section, rest := "", s
	for _, name := range sectionNames {
		if strings.HasPrefix(s, name+"_") {
			section, rest = name, strings.TrimPrefix(s, name+"_")
			break
		}
	}

	if section == "" {
		section, rest, _ = strings.Cut(s, "_")
	}

	if rest == "" {
		return section
	}

	return section + "." + nestedKey(section, rest)
}

// nestedKeys lists second-level groups so APP_LOG_FILE_MAX_SIZE resolves to log.file.max_size.
var nestedKeys = map[string][]string{
	"log":        {"file"},
	"store":      {"circuit_breaker"},
	"rate_limit": {"scopes"},
}

func nestedKey(section, rest string) string {
	for _, group := range nestedKeys[section] {
		if strings.HasPrefix(rest, group+"_") {
			return group + "." + strings.TrimPrefix(rest, group+"_")
		}
	}

	return rest
}

// loadFileIfExists loads a YAML config file if it exists.
// Returns nil if the file doesn't exist, error only for parse/read failures.
func loadFileIfExists(k *koanf.Koanf, path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil // File doesn't exist, that's fine
	}

	return k.Load(file.Provider(path), yaml.Parser())
}
