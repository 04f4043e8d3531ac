// Package config provides configuration loading and validation for the
// server and CLI.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/pindora-shield/internal/fetch"
	"github.com/jonathan/pindora-shield/internal/schemas"
	rootschemas "github.com/jonathan/pindora-shield/schemas"
)

// Environment names.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// DevOrigins are the local frontend origins allowed outside production.
var DevOrigins = []string{
	"http://localhost:5173",
	"http://127.0.0.1:5173",
	"http://localhost:3000",
	"http://127.0.0.1:3000",
}

// Config represents the service configuration. It can be loaded from a JSON
// file and is overridden by environment variables.
type Config struct {
	// Backend
	APIBaseURL    string `json:"api_base_url,omitempty" validate:"required,url"`         // Base URL reports are requested from
	ReportPath    string `json:"report_path,omitempty" validate:"required,startswith=/"` // Report endpoint path on the backend
	BackendURL    string `json:"backend_url,omitempty" validate:"required,url"`          // Gateway forwarding target
	GatewayPrefix string `json:"gateway_prefix,omitempty" validate:"omitempty,startswith=/"`

	// Server
	Env            string   `json:"env,omitempty" validate:"oneof=development production"`
	Port           int      `json:"port,omitempty" validate:"min=1,max=65535"`
	StaticDir      string   `json:"static_dir,omitempty"` // Built frontend to serve, if any
	AllowedOrigins []string `json:"allowed_origins,omitempty" validate:"dive,url"`

	// Behavior
	FetchTimeout  Duration `json:"fetch_timeout,omitempty" validate:"gte=0"`
	MaxConcurrent int      `json:"max_concurrent,omitempty" validate:"min=1,max=50"`
	LogLevel      string   `json:"log_level,omitempty" validate:"oneof=trace debug info warn error"`
}

// Duration is a time.Duration written as a Go duration string in JSON.
type Duration time.Duration

// MarshalJSON implements json.Marshaler.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("duration must be a string: %w", err)
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// ValidationError reports a configuration field with an unusable value.
type ValidationError struct {
	Field   string
	Message string
	Cause   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config error: '%s' %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Cause
}

// Defaults returns the configuration used when nothing is set.
func Defaults() Config {
	return Config{
		APIBaseURL:    "http://localhost:8000",
		ReportPath:    fetch.DefaultReportPath,
		BackendURL:    "http://localhost:8000",
		GatewayPrefix: "/api",
		Env:           EnvDevelopment,
		Port:          8080,
		FetchTimeout:  Duration(fetch.DefaultTimeout),
		MaxConcurrent: 4,
		LogLevel:      "info",
	}
}

// Load builds the effective configuration: defaults, then the JSON file at
// path (if any), then environment variables. The result is validated.
func Load(path string) (*Config, error) {
	cfg := Defaults()
	if path != "" {
		fileCfg, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = fileCfg.MergeWithDefaults(cfg)
	}
	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadConfig loads configuration from a JSON file. The file is checked
// against the config schema before it is decoded.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if !json.Valid(data) {
		return nil, fmt.Errorf("failed to parse config JSON: %s is not valid JSON", path)
	}
	if err := schemas.ValidateJSONString(rootschemas.Config, string(data)); err != nil {
		return nil, fmt.Errorf("config file %s does not match schema: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}
	fe := fieldErrs[0]
	return &ValidationError{
		Field:   fe.Field(),
		Message: describe(fe),
		Cause:   err,
	}
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "url":
		return fmt.Sprintf("must be an absolute URL, got %q", fe.Value())
	case "startswith":
		return fmt.Sprintf("must start with %q", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	case "min", "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	default:
		return fmt.Sprintf("failed '%s' validation", fe.Tag())
	}
}

// MergeWithDefaults returns a new Config with unset fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.APIBaseURL == "" {
		result.APIBaseURL = defaults.APIBaseURL
	}
	if result.ReportPath == "" {
		result.ReportPath = defaults.ReportPath
	}
	if result.BackendURL == "" {
		result.BackendURL = defaults.BackendURL
	}
	if result.GatewayPrefix == "" {
		result.GatewayPrefix = defaults.GatewayPrefix
	}
	if result.Env == "" {
		result.Env = defaults.Env
	}
	if result.StaticDir == "" {
		result.StaticDir = defaults.StaticDir
	}
	if result.LogLevel == "" {
		result.LogLevel = defaults.LogLevel
	}
	if len(result.AllowedOrigins) == 0 {
		result.AllowedOrigins = defaults.AllowedOrigins
	}

	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.MaxConcurrent == 0 {
		result.MaxConcurrent = defaults.MaxConcurrent
	}
	if result.FetchTimeout == 0 {
		result.FetchTimeout = defaults.FetchTimeout
	}

	return result
}

// IsProduction reports whether the service runs in production.
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// CORSOrigins returns the origins allowed to call the API from a browser.
// Explicit origins win; otherwise local dev origins are allowed outside
// production and nothing is allowed in production.
func (c *Config) CORSOrigins() []string {
	if len(c.AllowedOrigins) > 0 {
		return c.AllowedOrigins
	}
	if c.IsProduction() {
		return nil
	}
	return DevOrigins
}

// ReportEndpoint returns the full URL reports are requested from.
func (c *Config) ReportEndpoint() string {
	return fetch.JoinURL(c.APIBaseURL, c.ReportPath)
}

// FetchOptions returns fetcher options for this configuration.
func (c *Config) FetchOptions() *fetch.Options {
	opts := fetch.DefaultOptions()
	if c.FetchTimeout > 0 {
		opts.Timeout = time.Duration(c.FetchTimeout)
	}
	return opts
}

// Addr returns the listen address for the server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
