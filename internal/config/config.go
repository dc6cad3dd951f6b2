package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Backend
	BaseURL     string
	HTTPTimeout time.Duration

	// Listing defaults
	DefaultPage     int
	DefaultLimit    int
	DefaultCategory string

	// Dashboard
	DashboardBulkLimit   int
	DashboardTrendMonths int
	DashboardCacheTTL    time.Duration

	// Logging
	LogLevel string
}

func Load() *Config {
	return &Config{
		BaseURL:     getEnv("OUTLAI_API_BASE_URL", "http://localhost:3000/api/v1"),
		HTTPTimeout: getEnvDuration("OUTLAI_HTTP_TIMEOUT", 30*time.Second),

		DefaultPage:     getEnvInt("OUTLAI_DEFAULT_PAGE", 1),
		DefaultLimit:    getEnvInt("OUTLAI_DEFAULT_LIMIT", 10),
		DefaultCategory: getEnv("OUTLAI_DEFAULT_CATEGORY", "all"),

		DashboardBulkLimit:   getEnvInt("OUTLAI_DASHBOARD_BULK_LIMIT", 1000),
		DashboardTrendMonths: getEnvInt("OUTLAI_DASHBOARD_TREND_MONTHS", 12),
		DashboardCacheTTL:    getEnvDuration("OUTLAI_DASHBOARD_CACHE_TTL", 30*time.Second),

		LogLevel: getEnv("OUTLAI_LOG_LEVEL", "info"),
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	// Validate base URL
	if c.BaseURL == "" {
		errors = append(errors, "base URL cannot be empty")
	} else if parsed, err := url.Parse(c.BaseURL); err != nil {
		errors = append(errors, fmt.Sprintf("invalid base URL '%s': %v", c.BaseURL, err))
	} else if parsed.Scheme != "http" && parsed.Scheme != "https" {
		errors = append(errors, fmt.Sprintf("invalid base URL scheme '%s': must be 'http' or 'https'", parsed.Scheme))
	}

	if c.HTTPTimeout < time.Second {
		errors = append(errors, fmt.Sprintf("invalid HTTP timeout %v: must be at least 1 second", c.HTTPTimeout))
	} else if c.HTTPTimeout > 5*time.Minute {
		errors = append(errors, fmt.Sprintf("invalid HTTP timeout %v: must be at most 5 minutes", c.HTTPTimeout))
	}

	if c.DefaultPage < 1 {
		errors = append(errors, fmt.Sprintf("invalid default page %d: must be at least 1", c.DefaultPage))
	}
	if c.DefaultLimit < 1 {
		errors = append(errors, fmt.Sprintf("invalid default limit %d: must be at least 1", c.DefaultLimit))
	} else if c.DefaultLimit > 100 {
		errors = append(errors, fmt.Sprintf("invalid default limit %d: must be at most 100", c.DefaultLimit))
	}

	if c.DashboardBulkLimit < 1 {
		errors = append(errors, fmt.Sprintf("invalid dashboard bulk limit %d: must be at least 1", c.DashboardBulkLimit))
	} else if c.DashboardBulkLimit > 10000 {
		errors = append(errors, fmt.Sprintf("invalid dashboard bulk limit %d: must be at most 10000", c.DashboardBulkLimit))
	}
	if c.DashboardTrendMonths < 1 || c.DashboardTrendMonths > 36 {
		errors = append(errors, fmt.Sprintf("invalid dashboard trend months %d: must be between 1 and 36", c.DashboardTrendMonths))
	}
	if c.DashboardCacheTTL < 0 {
		errors = append(errors, fmt.Sprintf("invalid dashboard cache TTL %v: must not be negative", c.DashboardCacheTTL))
	}

	// Validate log level
	validLevels := []string{"debug", "info", "warn", "error"}
	isValidLevel := false
	for _, level := range validLevels {
		if c.LogLevel == level {
			isValidLevel = true
			break
		}
	}
	if !isValidLevel {
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of %v", c.LogLevel, validLevels))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
