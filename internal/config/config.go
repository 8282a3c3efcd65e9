package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	ProductionBaseURL = "https://temple-token-management-system.onrender.com"
	DefaultDevOrigin  = "http://localhost:5000"
)

type APIConfig struct {
	BaseURL   string
	DevOrigin string
}

type ConsoleConfig struct {
	Host           string
	Port           int
	RatePerMinute  int
	RateBurst      int
	WritePerMinute int
}

type SessionConfig struct {
	File string
	Key  string
}

type JournalConfig struct {
	Path string
}

type TelemetryConfig struct {
	Endpoint string
	Insecure bool
}

type Config struct {
	Environment string
	LogLevel    string
	API         APIConfig
	Console     ConsoleConfig
	Session     SessionConfig
	Journal     JournalConfig
	Telemetry   TelemetryConfig
}

// NewViper returns the viper instance Load reads from. Command-line flags are
// bound into it by the caller before Load runs.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetConfigName("console")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".admin-console"))
	}
	v.AutomaticEnv()
	return v
}

func Load(v *viper.Viper) (*Config, error) {
	// A missing console.env is fine; a broken one is not.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{
		Environment: strings.ToLower(strings.TrimSpace(v.GetString("APP_ENV"))),
		LogLevel:    v.GetString("LOG_LEVEL"),
		API: APIConfig{
			BaseURL:   strings.TrimSpace(v.GetString("API_BASE_URL")),
			DevOrigin: strings.TrimSpace(v.GetString("API_DEV_ORIGIN")),
		},
		Console: ConsoleConfig{
			Host: v.GetString("CONSOLE_HOST"),
			Port: v.GetInt("CONSOLE_PORT"),

			RatePerMinute:  v.GetInt("CONSOLE_RATE_LIMIT_PER_MINUTE"),
			RateBurst:      v.GetInt("CONSOLE_RATE_LIMIT_BURST"),
			WritePerMinute: v.GetInt("CONSOLE_WRITE_LIMIT_PER_MINUTE"),
		},
		Session: SessionConfig{
			File: v.GetString("SESSION_FILE"),
			Key:  v.GetString("SESSION_KEY"),
		},
		Journal: JournalConfig{
			Path: v.GetString("JOURNAL_PATH"),
		},
		Telemetry: TelemetryConfig{
			Endpoint: v.GetString("OTEL_EXPORTER_OTLP_ENDPOINT"),
			Insecure: v.GetBool("OTEL_EXPORTER_OTLP_INSECURE"),
		},
	}

	if cfg.Environment == "" {
		cfg.Environment = EnvDevelopment
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = ResolveBaseURL(cfg.Environment)
	}
	if cfg.API.DevOrigin == "" {
		cfg.API.DevOrigin = DefaultDevOrigin
	}
	if cfg.Console.Host == "" {
		cfg.Console.Host = "127.0.0.1"
	}
	if cfg.Console.Port == 0 {
		cfg.Console.Port = 8085
	}
	if cfg.Console.RatePerMinute <= 0 {
		cfg.Console.RatePerMinute = 120
	}
	if cfg.Console.RateBurst <= 0 {
		cfg.Console.RateBurst = 30
	}
	if cfg.Console.WritePerMinute <= 0 {
		cfg.Console.WritePerMinute = 30
	}
	if cfg.Session.File == "" {
		cfg.Session.File = defaultSessionFile()
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ResolveBaseURL gives the backend base URL for an environment. Development
// uses the empty, same-origin base.
func ResolveBaseURL(environment string) string {
	if environment == EnvProduction {
		return ProductionBaseURL
	}
	return ""
}

func validate(cfg *Config) error {
	switch cfg.Environment {
	case EnvDevelopment, EnvProduction:
	default:
		return fmt.Errorf("APP_ENV must be %s or %s, got %q", EnvDevelopment, EnvProduction, cfg.Environment)
	}
	if cfg.API.BaseURL == "" && cfg.API.DevOrigin == "" {
		return fmt.Errorf("API_DEV_ORIGIN is required when API_BASE_URL is empty")
	}
	if cfg.Console.Port < 0 || cfg.Console.Port > 65535 {
		return fmt.Errorf("CONSOLE_PORT out of range: %d", cfg.Console.Port)
	}
	return nil
}

func defaultSessionFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".admin-console-session")
	}
	return filepath.Join(home, ".admin-console", "session")
}
