package app

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	invitehttp "github.com/aussiebroadwan/invites/internal/invites/http"
	"github.com/aussiebroadwan/invites/internal/invites/ledger"
	"github.com/aussiebroadwan/invites/pkg/httpx"
	"github.com/aussiebroadwan/invites/pkg/jwtx"
)

// ConfigPathEnvVar overrides the config file location.
const ConfigPathEnvVar = "CONFIG_PATH"

// DefaultConfigPath is used when CONFIG_PATH is unset and the file exists.
const DefaultConfigPath = "invites.yaml"

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	Server    ServerConfig          `koanf:"server"`
	Logging   LoggingConfig         `koanf:"logging"`
	Database  DatabaseConfig        `koanf:"database"`
	Auth      AuthConfig            `koanf:"auth"`
	Invites   InvitesConfig         `koanf:"invites"`
	Mail      MailConfig            `koanf:"mail"`
	RateLimit invitehttp.RateLimits `koanf:"ratelimit"`
}

type ServerConfig struct {
	Port                int           `koanf:"port"`                  // HTTP server port (default: 8080)
	Env                 string        `koanf:"env"`                   // Environment (dev, staging, prod) (default: dev)
	ShutdownGracePeriod time.Duration `koanf:"shutdown_grace_period"` // Graceful shutdown timeout (default: 10s)
}

type LoggingConfig struct {
	Level  string `koanf:"level"`  // debug, info, warn, error
	Format string `koanf:"format"` // json, text
}

type DatabaseConfig struct {
	Driver   string `koanf:"driver"` // sqlite or postgres
	File     string `koanf:"file"`   // sqlite database file
	URL      string `koanf:"url"`    // postgres connection string
	MaxConns int32  `koanf:"max_conns"`
}

// AuthConfig describes the auth service whose access tokens we accept.
type AuthConfig struct {
	Issuer              string        `koanf:"issuer"`
	Audience            string        `koanf:"audience"` // empty skips the aud check
	Algorithm           string        `koanf:"algorithm"`
	JWKSURL             string        `koanf:"jwks_url"`
	JWKSRefreshInterval time.Duration `koanf:"jwks_refresh_interval"`
}

type InvitesConfig struct {
	CodeExpirationHours  int           `koanf:"code_expiration_hours"`
	EmailExpirationHours int           `koanf:"email_expiration_hours"`
	MaxActive            int           `koanf:"max_active"`
	IssueRatePerHour     int           `koanf:"issue_rate_per_hour"` // 0 disables issuer throttling
	IssueBurst           int           `koanf:"issue_burst"`
	HousekeepingInterval time.Duration `koanf:"housekeeping_interval"`
}

type MailConfig struct {
	Enabled         bool          `koanf:"enabled"`
	From            string        `koanf:"from"`
	AWSRegion       string        `koanf:"aws_region"`
	InviteBaseURL   string        `koanf:"invite_base_url"`
	BreakerFailures uint32        `koanf:"breaker_failures"`
	BreakerTimeout  time.Duration `koanf:"breaker_timeout"`
}

func defaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Port:                8080,
			Env:                 "dev",
			ShutdownGracePeriod: 10 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Database: DatabaseConfig{
			Driver:   DriverSQLite,
			File:     "invites.db",
			MaxConns: 10,
		},
		Auth: AuthConfig{
			Issuer:              "bartab-auth",
			Algorithm:           jwtx.AlgEdDSA,
			JWKSURL:             "http://localhost:8080/.well-known/jwks.json",
			JWKSRefreshInterval: 15 * time.Minute,
		},
		Invites: InvitesConfig{
			CodeExpirationHours:  ledger.DefaultExpirationHours,
			EmailExpirationHours: ledger.DefaultExpirationHours,
			MaxActive:            ledger.DefaultMaxActive,
			IssueRatePerHour:     30,
			IssueBurst:           10,
			HousekeepingInterval: time.Hour,
		},
		Mail: MailConfig{
			AWSRegion:       "us-east-1",
			BreakerFailures: 5,
			BreakerTimeout:  time.Minute,
		},
		RateLimit: invitehttp.DefaultRateLimits(),
	}
}

// LoadConfig layers defaults, the optional YAML file and the environment,
// in that order of increasing priority.
func LoadConfig() (Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return Config{}, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return Config{}, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if path := os.Getenv(ConfigPathEnvVar); path != "" {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	if _, err := os.Stat(DefaultConfigPath); err == nil {
		return DefaultConfigPath
	}
	return ""
}

var envMappings = map[string]string{
	"port":                  "server.port",
	"env":                   "server.env",
	"shutdown_grace_period": "server.shutdown_grace_period",

	"log_level":  "logging.level",
	"log_format": "logging.format",

	"invites_database_driver":    "database.driver",
	"invites_database_file":      "database.file",
	"invites_database_url":       "database.url",
	"invites_database_max_conns": "database.max_conns",

	"auth_issuer":                "auth.issuer",
	"auth_audience":              "auth.audience",
	"auth_algorithm":             "auth.algorithm",
	"auth_jwks_url":              "auth.jwks_url",
	"auth_jwks_refresh_interval": "auth.jwks_refresh_interval",

	"invite_code_expiration_hours":  "invites.code_expiration_hours",
	"invite_email_expiration_hours": "invites.email_expiration_hours",
	"invite_max_active":             "invites.max_active",
	"invite_issue_rate":             "invites.issue_rate_per_hour",
	"invite_issue_burst":            "invites.issue_burst",
	"housekeeping_interval":         "invites.housekeeping_interval",

	"mail_enabled":          "mail.enabled",
	"mail_from":             "mail.from",
	"mail_aws_region":       "mail.aws_region",
	"mail_invite_base_url":  "mail.invite_base_url",
	"mail_breaker_failures": "mail.breaker_failures",
	"mail_breaker_timeout":  "mail.breaker_timeout",
}

// envTransformFunc maps environment variable names to config paths.
// RATELIMIT_<GROUP>_<FIELD> (e.g. RATELIMIT_LOOKUP_REQUESTS) reaches the
// per-route limits; anything unknown is dropped.
func envTransformFunc(key string) string {
	key = strings.ToLower(key)

	if mapped, ok := envMappings[key]; ok {
		return mapped
	}

	if rest, ok := strings.CutPrefix(key, "ratelimit_"); ok {
		group, field, ok := strings.Cut(rest, "_")
		if !ok {
			return ""
		}
		switch group {
		case "lookup", "write", "read":
		default:
			return ""
		}
		switch field {
		case "requests", "window", "burst":
			return "ratelimit." + group + "." + field
		}
	}

	return ""
}

// Validate reports every problem with the configuration at once.
func (c Config) Validate() error {
	var errs []error

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}

	switch c.Database.Driver {
	case DriverSQLite:
		if c.Database.File == "" {
			errs = append(errs, errors.New("database.file is required for sqlite"))
		}
	case DriverPostgres:
		if c.Database.URL == "" {
			errs = append(errs, errors.New("database.url is required for postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown database.driver %q", c.Database.Driver))
	}

	switch c.Auth.Algorithm {
	case jwtx.AlgEdDSA, jwtx.AlgES256, jwtx.AlgRS256:
	default:
		errs = append(errs, fmt.Errorf("unsupported auth.algorithm %q", c.Auth.Algorithm))
	}
	if c.Auth.JWKSURL == "" {
		errs = append(errs, errors.New("auth.jwks_url is required"))
	}
	if c.Auth.JWKSRefreshInterval <= 0 {
		errs = append(errs, errors.New("auth.jwks_refresh_interval must be positive"))
	}

	if c.Invites.MaxActive <= 0 {
		errs = append(errs, errors.New("invites.max_active must be positive"))
	}
	if c.Invites.IssueRatePerHour < 0 || c.Invites.IssueBurst < 0 {
		errs = append(errs, errors.New("invites.issue_rate_per_hour and invites.issue_burst must not be negative"))
	}

	if c.Mail.Enabled {
		if c.Mail.From == "" {
			errs = append(errs, errors.New("mail.from is required when mail is enabled"))
		}
		if c.Mail.InviteBaseURL == "" {
			errs = append(errs, errors.New("mail.invite_base_url is required when mail is enabled"))
		}
	}

	limits := []struct {
		name string
		cfg  httpx.RateLimitConfig
	}{
		{"lookup", c.RateLimit.Lookup},
		{"write", c.RateLimit.Write},
		{"read", c.RateLimit.Read},
	}
	for _, l := range limits {
		if !l.cfg.Valid() {
			errs = append(errs, fmt.Errorf("ratelimit.%s must have positive requests, window and burst", l.name))
		}
	}

	return errors.Join(errs...)
}

// audiences turns the configured audience into verifier options.
func (c AuthConfig) audiences() []string {
	if c.Audience == "" {
		return nil
	}
	return []string{c.Audience}
}
