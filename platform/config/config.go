// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Lead read sources.
const (
	SourceAuto     = "auto"
	SourceAirtable = "airtable"
	SourceWorkflow = "workflow"
	SourceDemo     = "demo"
)

// Action failure policies.
const (
	PolicyStrict     = "strict"
	PolicyOptimistic = "optimistic"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
	IsMetricsEnabled() bool
}

// AdminAuthConfig provides operator token settings for the admin routes.
type AdminAuthConfig interface {
	GetAdminJWTSecret() string
	IsAdminAuthEnabled() bool
}

// FirmConfig provides the firm display values shown by both front-ends.
type FirmConfig interface {
	GetFirmName() string
	GetFirmPhone() string
	GetFirmEmail() string
}

// AirtableConfig provides record-store credentials and table names.
type AirtableConfig interface {
	GetAirtableAPIURL() string
	GetAirtablePAT() string
	GetAirtableBaseID() string
	GetAirtableLeadsTable() string
	GetAirtableAdvisorsTable() string
	GetUpstreamTimeout() time.Duration
	IsAirtableConfigured() bool
}

// WorkflowConfig provides the workflow webhook endpoint settings.
type WorkflowConfig interface {
	GetWorkflowBaseURL() string
	GetIntakeWebhookPath() string
	GetUpstreamTimeout() time.Duration
}

// LeadsConfig provides settings for the lead review module.
type LeadsConfig interface {
	GetLeadsSource() string
	GetActionFailurePolicy() string
}

// IntakeConfig provides settings for the intake module.
type IntakeConfig interface {
	FirmConfig
	GetIntakeRatePerMinute() int
}

// CacheConfig provides settings for the optional redis snapshot cache.
type CacheConfig interface {
	GetRedisURL() string
	GetCacheTTL() time.Duration
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env                   string
	HTTPAddr              string
	CORSOrigins           []string
	CORSAllowCreds        bool
	MetricsEnabled        bool
	AdminJWTSecret        string
	FirmName              string
	FirmPhone             string
	FirmEmail             string
	AirtableAPIURL        string
	AirtablePAT           string
	AirtableBaseID        string
	AirtableLeadsTable    string
	AirtableAdvisorsTable string
	WorkflowBaseURL       string
	IntakeWebhookPath     string
	UpstreamTimeout       time.Duration
	LeadsSource           string
	ActionFailurePolicy   string
	RedisURL              string
	CacheTTL              time.Duration
	IntakeRatePerMinute   int
}

// =============================================================================
// Interface Implementations
// =============================================================================

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool  { return c.CORSAllowCreds }
func (c *Config) IsMetricsEnabled() bool   { return c.MetricsEnabled }

// AdminAuthConfig implementation
func (c *Config) GetAdminJWTSecret() string { return c.AdminJWTSecret }
func (c *Config) IsAdminAuthEnabled() bool  { return c.AdminJWTSecret != "" }

// FirmConfig implementation
func (c *Config) GetFirmName() string  { return c.FirmName }
func (c *Config) GetFirmPhone() string { return c.FirmPhone }
func (c *Config) GetFirmEmail() string { return c.FirmEmail }

// AirtableConfig implementation
func (c *Config) GetAirtableAPIURL() string        { return c.AirtableAPIURL }
func (c *Config) GetAirtablePAT() string           { return c.AirtablePAT }
func (c *Config) GetAirtableBaseID() string        { return c.AirtableBaseID }
func (c *Config) GetAirtableLeadsTable() string    { return c.AirtableLeadsTable }
func (c *Config) GetAirtableAdvisorsTable() string { return c.AirtableAdvisorsTable }
func (c *Config) IsAirtableConfigured() bool {
	return c.AirtablePAT != "" && c.AirtableBaseID != ""
}

// WorkflowConfig implementation
func (c *Config) GetWorkflowBaseURL() string         { return c.WorkflowBaseURL }
func (c *Config) GetIntakeWebhookPath() string       { return c.IntakeWebhookPath }
func (c *Config) GetUpstreamTimeout() time.Duration { return c.UpstreamTimeout }

// LeadsConfig implementation
func (c *Config) GetLeadsSource() string         { return c.LeadsSource }
func (c *Config) GetActionFailurePolicy() string { return c.ActionFailurePolicy }

// IntakeConfig implementation
func (c *Config) GetIntakeRatePerMinute() int { return c.IntakeRatePerMinute }

// CacheConfig implementation
func (c *Config) GetRedisURL() string         { return c.RedisURL }
func (c *Config) GetCacheTTL() time.Duration { return c.CacheTTL }

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Env:                   getEnv("APP_ENV", "development"),
		HTTPAddr:              getEnv("HTTP_ADDR", ":8080"),
		CORSOrigins:           splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173,http://localhost:5174")),
		CORSAllowCreds:        strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "false"), "true"),
		MetricsEnabled:        strings.EqualFold(getEnv("METRICS_ENABLED", "true"), "true"),
		AdminJWTSecret:        getEnv("ADMIN_JWT_SECRET", ""),
		FirmName:              getEnv("FIRM_NAME", "NorthStar Wealth Advisory"),
		FirmPhone:             getEnv("FIRM_PHONE", "+1 (416) 555-0190"),
		FirmEmail:             getEnv("FIRM_EMAIL", "hello@northstarwealth.ca"),
		AirtableAPIURL:        strings.TrimRight(getEnv("AIRTABLE_API_URL", "https://api.airtable.com"), "/"),
		AirtablePAT:           getEnv("AIRTABLE_PAT", ""),
		AirtableBaseID:        getEnv("AIRTABLE_BASE_ID", ""),
		AirtableLeadsTable:    getEnv("AIRTABLE_LEADS_TABLE", "Leads"),
		AirtableAdvisorsTable: getEnv("AIRTABLE_ADVISORS_TABLE", "Advisor Info"),
		WorkflowBaseURL:       strings.TrimRight(getEnv("WORKFLOW_BASE_URL", "http://localhost:5678/webhook"), "/"),
		IntakeWebhookPath:     getEnv("INTAKE_WEBHOOK_PATH", "/intake-form"),
		UpstreamTimeout:       mustDuration(getEnv("UPSTREAM_TIMEOUT", "15s")),
		LeadsSource:           strings.ToLower(getEnv("LEADS_SOURCE", SourceAuto)),
		ActionFailurePolicy:   strings.ToLower(getEnv("ACTION_FAILURE_POLICY", PolicyStrict)),
		RedisURL:              getEnv("REDIS_URL", ""),
		CacheTTL:              mustDuration(getEnv("CACHE_TTL", "60s")),
		IntakeRatePerMinute:   mustInt(getEnv("INTAKE_RATE_PER_MINUTE", "10")),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if strings.EqualFold(c.Env, "production") && c.AdminJWTSecret == "" {
		return fmt.Errorf("ADMIN_JWT_SECRET is required in production")
	}
	switch c.LeadsSource {
	case SourceAuto, SourceWorkflow, SourceDemo:
	case SourceAirtable:
		if !c.IsAirtableConfigured() {
			return fmt.Errorf("AIRTABLE_PAT and AIRTABLE_BASE_ID are required when LEADS_SOURCE is airtable")
		}
	default:
		return fmt.Errorf("LEADS_SOURCE must be one of auto, airtable, workflow, demo (got %q)", c.LeadsSource)
	}
	switch c.ActionFailurePolicy {
	case PolicyStrict, PolicyOptimistic:
	default:
		return fmt.Errorf("ACTION_FAILURE_POLICY must be strict or optimistic (got %q)", c.ActionFailurePolicy)
	}
	if c.UpstreamTimeout <= 0 {
		return fmt.Errorf("UPSTREAM_TIMEOUT must be a positive duration")
	}
	if c.IntakeRatePerMinute <= 0 {
		return fmt.Errorf("INTAKE_RATE_PER_MINUTE must be positive")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func mustInt(value string) int {
	result, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
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
