// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Lead store backends.
const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
}

// JWTConfig provides JWT validation settings for middleware.
type JWTConfig interface {
	GetJWTAccessSecret() string
}

// AuthServiceConfig provides settings needed by the auth service.
type AuthServiceConfig interface {
	JWTConfig
	GetAccessTokenTTL() time.Duration
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
	GetAuthRateLimitPerMinute() int
}

// RedisConfig provides the optional Redis connection.
type RedisConfig interface {
	GetRedisURL() string
	GetRedisTLSInsecure() bool
}

// SchedulerConfig provides settings for the asynq client and worker.
type SchedulerConfig interface {
	RedisConfig
	GetAsynqQueueName() string
	GetAsynqConcurrency() int
}

// EmailConfig provides SMTP settings for outgoing notifications.
type EmailConfig interface {
	GetSMTPHost() string
	GetSMTPPort() int
	GetSMTPUsername() string
	GetSMTPPassword() string
	GetEmailFromName() string
	GetEmailFromAddress() string
	IsEmailEnabled() bool
}

// LeadsConfig provides settings for the leads module.
type LeadsConfig interface {
	GetLeadStore() string
	GetLeadsMaxPageSize() int
	GetLeadNotifyEmail() string
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env                    string
	HTTPAddr               string
	DatabaseURL            string
	LeadStore              string
	JWTAccessSecret        string
	AccessTokenTTL         time.Duration
	CORSAllowAll           bool
	CORSOrigins            []string
	CORSAllowCreds         bool
	AuthRateLimitPerMinute int
	RedisURL               string
	RedisTLSInsecure       bool
	AsynqQueueName         string
	AsynqConcurrency       int
	SMTPHost               string
	SMTPPort               int
	SMTPUsername           string
	SMTPPassword           string
	EmailFromName          string
	EmailFromAddress       string
	LeadNotifyEmail        string
	LeadsMaxPageSize       int
}

// DatabaseConfig implementation
func (c *Config) GetDatabaseURL() string { return c.DatabaseURL }

// AuthServiceConfig implementation
func (c *Config) GetJWTAccessSecret() string       { return c.JWTAccessSecret }
func (c *Config) GetAccessTokenTTL() time.Duration { return c.AccessTokenTTL }

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string            { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool          { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string       { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool        { return c.CORSAllowCreds }
func (c *Config) GetAuthRateLimitPerMinute() int { return c.AuthRateLimitPerMinute }

// SchedulerConfig implementation
func (c *Config) GetRedisURL() string        { return c.RedisURL }
func (c *Config) GetRedisTLSInsecure() bool  { return c.RedisTLSInsecure }
func (c *Config) GetAsynqQueueName() string  { return c.AsynqQueueName }
func (c *Config) GetAsynqConcurrency() int   { return c.AsynqConcurrency }

// EmailConfig implementation
func (c *Config) GetSMTPHost() string         { return c.SMTPHost }
func (c *Config) GetSMTPPort() int            { return c.SMTPPort }
func (c *Config) GetSMTPUsername() string     { return c.SMTPUsername }
func (c *Config) GetSMTPPassword() string     { return c.SMTPPassword }
func (c *Config) GetEmailFromName() string    { return c.EmailFromName }
func (c *Config) GetEmailFromAddress() string { return c.EmailFromAddress }
func (c *Config) IsEmailEnabled() bool        { return c.SMTPHost != "" }

// LeadsConfig implementation
func (c *Config) GetLeadStore() string       { return c.LeadStore }
func (c *Config) GetLeadsMaxPageSize() int   { return c.LeadsMaxPageSize }
func (c *Config) GetLeadNotifyEmail() string { return c.LeadNotifyEmail }

// Load reads configuration from environment variables. It fails on values
// that do not parse; what each binary requires is checked by LoadAPI and
// LoadWorker.
func Load() (*Config, error) {
	_ = godotenv.Load()

	env := &envReader{}
	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	cfg := &Config{
		Env:                    getEnv("APP_ENV", "development"),
		HTTPAddr:               getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:            getEnv("DATABASE_URL", ""),
		LeadStore:              strings.ToLower(getEnv("LEAD_STORE", StorePostgres)),
		JWTAccessSecret:        getEnv("JWT_ACCESS_SECRET", ""),
		AccessTokenTTL:         env.duration("JWT_ACCESS_TTL", "24h"),
		CORSAllowAll:           corsAllowAll,
		CORSOrigins:            corsOrigins,
		CORSAllowCreds:         strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "false"), "true"),
		AuthRateLimitPerMinute: env.integer("AUTH_RATE_LIMIT_PER_MINUTE", "10"),
		RedisURL:               getEnv("REDIS_URL", ""),
		RedisTLSInsecure:       strings.EqualFold(getEnv("REDIS_TLS_INSECURE", "false"), "true"),
		AsynqQueueName:         getEnv("ASYNQ_QUEUE", "default"),
		AsynqConcurrency:       env.integer("ASYNQ_CONCURRENCY", "5"),
		SMTPHost:               getEnv("SMTP_HOST", ""),
		SMTPPort:               env.integer("SMTP_PORT", "587"),
		SMTPUsername:           getEnv("SMTP_USERNAME", ""),
		SMTPPassword:           getEnv("SMTP_PASSWORD", ""),
		EmailFromName:          getEnv("EMAIL_FROM_NAME", "Lead CRM"),
		EmailFromAddress:       getEnv("EMAIL_FROM_ADDRESS", ""),
		LeadNotifyEmail:        getEnv("LEAD_NOTIFY_EMAIL", ""),
		LeadsMaxPageSize:       env.integer("LEADS_MAX_PAGE_SIZE", "0"),
	}
	if err := errors.Join(env.errs...); err != nil {
		return nil, err
	}

	if cfg.LeadStore != StorePostgres && cfg.LeadStore != StoreMemory {
		return nil, fmt.Errorf("LEAD_STORE must be %q or %q", StorePostgres, StoreMemory)
	}
	if cfg.LeadsMaxPageSize < 0 {
		return nil, fmt.Errorf("LEADS_MAX_PAGE_SIZE must not be negative")
	}

	return cfg, nil
}

// LoadAPI loads the configuration of the HTTP API.
func LoadAPI() (*Config, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.ValidateAPI(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadWorker loads the configuration of the notification worker.
func LoadWorker() (*Config, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.ValidateWorker(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ValidateAPI checks the settings the HTTP API cannot start without.
func (c *Config) ValidateAPI() error {
	if c.LeadStore == StorePostgres && c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.JWTAccessSecret == "" {
		return fmt.Errorf("JWT_ACCESS_SECRET is required")
	}
	if c.AccessTokenTTL <= 0 {
		return fmt.Errorf("JWT_ACCESS_TTL must be a positive duration")
	}
	if c.CORSAllowAll && c.CORSAllowCreds {
		return fmt.Errorf("CORS_ALLOW_CREDENTIALS cannot be true when CORS_ALLOW_ALL is true")
	}
	return nil
}

// ValidateWorker checks the settings the notification worker cannot start
// without.
func (c *Config) ValidateWorker() error {
	if c.RedisURL == "" {
		return fmt.Errorf("REDIS_URL is required")
	}
	if c.AsynqConcurrency <= 0 {
		return fmt.Errorf("ASYNQ_CONCURRENCY must be positive")
	}
	if c.IsEmailEnabled() && c.EmailFromAddress == "" {
		return fmt.Errorf("EMAIL_FROM_ADDRESS is required when SMTP_HOST is set")
	}
	if c.IsEmailEnabled() && (c.SMTPPort <= 0 || c.SMTPPort > 65535) {
		return fmt.Errorf("SMTP_PORT must be between 1 and 65535")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

// envReader parses typed variables and collects one error per bad value.
type envReader struct {
	errs []error
}

func (r *envReader) duration(key, fallback string) time.Duration {
	value := getEnv(key, fallback)
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s: invalid duration %q", key, value))
		return 0
	}
	return d
}

func (r *envReader) integer(key, fallback string) int {
	value := getEnv(key, fallback)
	result, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s: invalid integer %q", key, value))
		return 0
	}
	return result
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
