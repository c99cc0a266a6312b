package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/limaJavier/invigilation/pkg/model"

	"gopkg.in/yaml.v3"
)

// Config holds the settings shared by the command-line driver and the HTTP server
type Config struct {
	Policy model.Policy `yaml:"policy"`
	Log    LogConfig    `yaml:"log"`
	Server ServerConfig `yaml:"server"`
	Export ExportConfig `yaml:"export"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host           string        `yaml:"host"`
	Port           int           `yaml:"port"`
	RequestTimeout time.Duration `yaml:"requestTimeout"`
	AllowedOrigins []string      `yaml:"allowedOrigins"`
}

// ExportConfig holds the destination of CSV exports
type ExportConfig struct {
	Directory string `yaml:"directory"`
}

func Default() Config {
	return Config{
		Policy: model.DefaultPolicy(),
		Log: LogConfig{
			Level:  "info",
			Pretty: true,
		},
		Server: ServerConfig{
			Host:           "0.0.0.0",
			Port:           8080,
			RequestTimeout: 60 * time.Second,
			AllowedOrigins: []string{"*"},
		},
		Export: ExportConfig{
			Directory: "",
		},
	}
}

// Load reads the YAML file at path over the defaults and then applies environment overrides. An empty path skips
// the file
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.Policy.BackToBack = model.Enforcement(getEnv("INVIGILATION_BACK_TO_BACK", string(cfg.Policy.BackToBack)))
	cfg.Policy.QuotaOverrun = model.Enforcement(getEnv("INVIGILATION_QUOTA_OVERRUN", string(cfg.Policy.QuotaOverrun)))
	cfg.Log.Level = getEnv("INVIGILATION_LOG_LEVEL", cfg.Log.Level)
	cfg.Server.Host = getEnv("INVIGILATION_SERVER_HOST", cfg.Server.Host)
	cfg.Server.Port = getEnvAsInt("INVIGILATION_SERVER_PORT", cfg.Server.Port)
	cfg.Server.RequestTimeout = getEnvAsDuration("INVIGILATION_REQUEST_TIMEOUT", cfg.Server.RequestTimeout)
	cfg.Export.Directory = getEnv("INVIGILATION_EXPORT_DIR", cfg.Export.Directory)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate normalizes the policy and rejects values no component can work with
func (cfg *Config) Validate() error {
	var errs []error

	backToBack, err := model.ParseEnforcement(string(cfg.Policy.BackToBack))
	if err != nil {
		errs = append(errs, fmt.Errorf("policy.backToBack: %w", err))
	}
	quotaOverrun, err := model.ParseEnforcement(string(cfg.Policy.QuotaOverrun))
	if err != nil {
		errs = append(errs, fmt.Errorf("policy.quotaOverrun: %w", err))
	}
	cfg.Policy = model.Policy{BackToBack: backToBack, QuotaOverrun: quotaOverrun}

	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port out of range: %d", cfg.Server.Port))
	}
	if cfg.Server.RequestTimeout <= 0 {
		errs = append(errs, fmt.Errorf("server.requestTimeout must be positive: %v", cfg.Server.RequestTimeout))
	}

	return errors.Join(errs...)
}

// Address returns the listen address of the HTTP server
func (cfg *Config) Address() string {
	return fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
