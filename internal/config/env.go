package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// ApplyEnv overrides fields with any environment variables that are set.
func (c *Config) ApplyEnv() {
	c.APIBaseURL = getEnvString("API_BASE_URL", c.APIBaseURL)
	c.ReportPath = getEnvString("REPORT_PATH", c.ReportPath)
	c.BackendURL = getEnvString("BACKEND_URL", c.BackendURL)
	c.GatewayPrefix = getEnvString("GATEWAY_PREFIX", c.GatewayPrefix)
	c.Env = getEnvString("ENV", c.Env)
	c.Port = getEnvInt("PORT", c.Port)
	c.StaticDir = getEnvString("STATIC_DIR", c.StaticDir)
	c.FetchTimeout = Duration(getEnvDuration("FETCH_TIMEOUT", time.Duration(c.FetchTimeout)))
	c.MaxConcurrent = getEnvInt("MAX_CONCURRENT", c.MaxConcurrent)
	c.LogLevel = getEnvString("LOG_LEVEL", c.LogLevel)
	if origins := parseList(getEnvString("ALLOWED_ORIGINS", "")); len(origins) > 0 {
		c.AllowedOrigins = origins
	}
}

// getEnvString gets an environment variable as a string with a default value.
func getEnvString(key string, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an environment variable as an integer with a default value.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvDuration gets an environment variable as a duration with a default value.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// parseList parses a comma-separated list, dropping empty entries.
func parseList(list string) []string {
	if list == "" {
		return nil
	}
	var result []string
	for _, item := range strings.Split(list, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			result = append(result, item)
		}
	}
	return result
}
