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

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
}

// BookingConfig provides settings for the booking (scheduled events) API.
type BookingConfig interface {
	GetBookingBaseURL() string
	GetBookingToken() string
	GetBookingOrganization() string
}

// ConferencingConfig provides settings for the conferencing (recordings) API.
type ConferencingConfig interface {
	GetConferencingBaseURL() string
	GetConferencingAuthURL() string
	GetConferencingAccountID() string
	GetConferencingClientID() string
	GetConferencingClientSecret() string
	GetConferencingRateLimit() float64
}

// SheetsConfig provides settings for the spreadsheet collaborator.
type SheetsConfig interface {
	GetSheetsCredentialsFile() string
	GetLedgerSpreadsheetID() string
	GetMasterSpreadsheetID() string
}

// SlackConfig provides settings for chat notifications.
type SlackConfig interface {
	GetSlackBotToken() string
	GetSlackRecipients() []string
	IsSlackEnabled() bool
}

// EmailConfig provides settings for the optional email report channel.
type EmailConfig interface {
	GetSMTPHost() string
	GetSMTPPort() int
	GetSMTPUsername() string
	GetSMTPPassword() string
	GetEmailFromName() string
	GetEmailFromAddress() string
	GetReportRecipients() []string
	IsEmailEnabled() bool
}

// SchedulerConfig provides settings for the asynq scheduler and worker.
type SchedulerConfig interface {
	GetRedisURL() string
	GetRedisTLSInsecure() bool
	GetAsynqQueueName() string
	GetAsynqConcurrency() int
	GetDailyRunCronSpec() string
}

// HTTPConfig provides settings for the reporting API server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
}

// AnalysisConfig provides settings for the reconciliation pipeline.
type AnalysisConfig interface {
	GetBusinessTimezone() string
	GetRosterFile() string
	GetMatchWindowMinutes() int
	GetCSVExportDir() string
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env                      string
	HTTPAddr                 string
	DatabaseURL              string
	CORSAllowAll             bool
	CORSOrigins              []string
	BookingBaseURL           string
	BookingToken             string
	BookingOrganization      string
	ConferencingBaseURL      string
	ConferencingAuthURL      string
	ConferencingAccountID    string
	ConferencingClientID     string
	ConferencingClientSecret string
	ConferencingRateLimit    float64
	SheetsCredentialsFile    string
	LedgerSpreadsheetID      string
	MasterSpreadsheetID      string
	SlackBotToken            string
	SlackRecipients          []string
	SMTPHost                 string
	SMTPPort                 int
	SMTPUsername             string
	SMTPPassword             string
	EmailFromName            string
	EmailFromAddress         string
	ReportRecipients         []string
	RedisURL                 string
	RedisTLSInsecure         bool
	AsynqQueueName           string
	AsynqConcurrency         int
	DailyRunCronSpec         string
	BusinessTimezone         string
	RosterFile               string
	MatchWindowMinutes       int
	CSVExportDir             string
}

// =============================================================================
// Interface Implementations
// =============================================================================

// DatabaseConfig implementation
func (c *Config) GetDatabaseURL() string { return c.DatabaseURL }

// BookingConfig implementation
func (c *Config) GetBookingBaseURL() string      { return c.BookingBaseURL }
func (c *Config) GetBookingToken() string        { return c.BookingToken }
func (c *Config) GetBookingOrganization() string { return c.BookingOrganization }

// ConferencingConfig implementation
func (c *Config) GetConferencingBaseURL() string      { return c.ConferencingBaseURL }
func (c *Config) GetConferencingAuthURL() string      { return c.ConferencingAuthURL }
func (c *Config) GetConferencingAccountID() string    { return c.ConferencingAccountID }
func (c *Config) GetConferencingClientID() string     { return c.ConferencingClientID }
func (c *Config) GetConferencingClientSecret() string { return c.ConferencingClientSecret }
func (c *Config) GetConferencingRateLimit() float64   { return c.ConferencingRateLimit }

// SheetsConfig implementation
func (c *Config) GetSheetsCredentialsFile() string { return c.SheetsCredentialsFile }
func (c *Config) GetLedgerSpreadsheetID() string   { return c.LedgerSpreadsheetID }
func (c *Config) GetMasterSpreadsheetID() string   { return c.MasterSpreadsheetID }

// SlackConfig implementation
func (c *Config) GetSlackBotToken() string     { return c.SlackBotToken }
func (c *Config) GetSlackRecipients() []string { return c.SlackRecipients }
func (c *Config) IsSlackEnabled() bool {
	return c.SlackBotToken != "" && len(c.SlackRecipients) > 0
}

// EmailConfig implementation
func (c *Config) GetSMTPHost() string           { return c.SMTPHost }
func (c *Config) GetSMTPPort() int              { return c.SMTPPort }
func (c *Config) GetSMTPUsername() string       { return c.SMTPUsername }
func (c *Config) GetSMTPPassword() string       { return c.SMTPPassword }
func (c *Config) GetEmailFromName() string      { return c.EmailFromName }
func (c *Config) GetEmailFromAddress() string   { return c.EmailFromAddress }
func (c *Config) GetReportRecipients() []string { return c.ReportRecipients }
func (c *Config) IsEmailEnabled() bool {
	return c.SMTPHost != "" && c.EmailFromAddress != "" && len(c.ReportRecipients) > 0
}

// SchedulerConfig implementation
func (c *Config) GetRedisURL() string         { return c.RedisURL }
func (c *Config) GetRedisTLSInsecure() bool   { return c.RedisTLSInsecure }
func (c *Config) GetAsynqQueueName() string   { return c.AsynqQueueName }
func (c *Config) GetAsynqConcurrency() int    { return c.AsynqConcurrency }
func (c *Config) GetDailyRunCronSpec() string { return c.DailyRunCronSpec }

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }

// AnalysisConfig implementation
func (c *Config) GetBusinessTimezone() string { return c.BusinessTimezone }
func (c *Config) GetRosterFile() string       { return c.RosterFile }
func (c *Config) GetMatchWindowMinutes() int  { return c.MatchWindowMinutes }
func (c *Config) GetCSVExportDir() string     { return c.CSVExportDir }

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:4200"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	cfg := &Config{
		Env:                      getEnv("APP_ENV", "development"),
		HTTPAddr:                 getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:              getEnv("DATABASE_URL", ""),
		CORSAllowAll:             corsAllowAll,
		CORSOrigins:              corsOrigins,
		BookingBaseURL:           getEnv("BOOKING_BASE_URL", "https://api.calendly.com"),
		BookingToken:             getEnv("BOOKING_TOKEN", ""),
		BookingOrganization:      getEnv("BOOKING_ORGANIZATION", ""),
		ConferencingBaseURL:      getEnv("CONFERENCING_BASE_URL", "https://api.zoom.us/v2"),
		ConferencingAuthURL:      getEnv("CONFERENCING_AUTH_URL", "https://zoom.us/oauth/token"),
		ConferencingAccountID:    getEnv("CONFERENCING_ACCOUNT_ID", ""),
		ConferencingClientID:     getEnv("CONFERENCING_CLIENT_ID", ""),
		ConferencingClientSecret: getEnv("CONFERENCING_CLIENT_SECRET", ""),
		ConferencingRateLimit:    mustFloat(getEnv("CONFERENCING_RATE_LIMIT", "2")),
		SheetsCredentialsFile:    getEnv("SHEETS_CREDENTIALS_FILE", "service-acc.json"),
		LedgerSpreadsheetID:      getEnv("LEDGER_SPREADSHEET_ID", ""),
		MasterSpreadsheetID:      getEnv("MASTER_SPREADSHEET_ID", ""),
		SlackBotToken:            getEnv("SLACK_BOT_TOKEN", ""),
		SlackRecipients:          splitCSV(getEnv("SLACK_RECIPIENTS", "")),
		SMTPHost:                 getEnv("SMTP_HOST", ""),
		SMTPPort:                 mustInt(getEnv("SMTP_PORT", "587")),
		SMTPUsername:             getEnv("SMTP_USERNAME", ""),
		SMTPPassword:             getEnv("SMTP_PASSWORD", ""),
		EmailFromName:            getEnv("EMAIL_FROM_NAME", "Sales Pulse"),
		EmailFromAddress:         getEnv("EMAIL_FROM_ADDRESS", ""),
		ReportRecipients:         splitCSV(getEnv("REPORT_RECIPIENTS", "")),
		RedisURL:                 getEnv("REDIS_URL", ""),
		RedisTLSInsecure:         strings.EqualFold(getEnv("REDIS_TLS_INSECURE", "false"), "true"),
		AsynqQueueName:           getEnv("ASYNQ_QUEUE", "analysis"),
		AsynqConcurrency:         mustInt(getEnv("ASYNQ_CONCURRENCY", "2")),
		DailyRunCronSpec:         getEnv("DAILY_RUN_CRON", "0 7 * * *"),
		BusinessTimezone:         getEnv("BUSINESS_TIMEZONE", "America/New_York"),
		RosterFile:               getEnv("ROSTER_FILE", "roster.yaml"),
		MatchWindowMinutes:       mustInt(getEnv("MATCH_WINDOW_MINUTES", "30")),
		CSVExportDir:             getEnv("CSV_EXPORT_DIR", "."),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.MatchWindowMinutes <= 0 {
		return nil, fmt.Errorf("MATCH_WINDOW_MINUTES must be positive")
	}
	if _, err := time.LoadLocation(cfg.BusinessTimezone); err != nil {
		return nil, fmt.Errorf("invalid BUSINESS_TIMEZONE %q: %w", cfg.BusinessTimezone, err)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustInt(value string) int {
	result, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return result
}

func mustFloat(value string) float64 {
	result, err := strconv.ParseFloat(value, 64)
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

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
