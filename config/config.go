package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full service configuration. There is no package-level
// instance; callers load one at startup and pass it down explicitly.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	OpenAI    OpenAIConfig    `yaml:"openai"`
	Reasoning ReasoningConfig `yaml:"reasoning"`
	Email     EmailConfig     `yaml:"email"`
	Storage   StorageConfig   `yaml:"storage"`
	Stream    StreamConfig    `yaml:"stream"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Host           string   `yaml:"host"`
	Port           int      `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// OpenAIConfig holds the hosted model connection settings.
type OpenAIConfig struct {
	Endpoint   string `yaml:"endpoint"`
	Deployment string `yaml:"deployment"`
	APIVersion string `yaml:"api_version"`
	APIKey     string `yaml:"api_key"`
}

// ReasoningConfig holds the default reasoning knobs applied when a request
// does not choose its own.
type ReasoningConfig struct {
	Effort  string `yaml:"effort"`  // low, medium or high
	Summary string `yaml:"summary"` // auto, concise or detailed
}

// Configured reports whether the model connection is usable.
func (c OpenAIConfig) Configured() bool {
	return c.Endpoint != "" && c.APIKey != ""
}

// EmailConfig holds outbound mail settings.
type EmailConfig struct {
	Mode           string `yaml:"mode"` // simulate or smtp
	Recipient      string `yaml:"recipient"`
	SMTPHost       string `yaml:"smtp_host"`
	SMTPPort       int    `yaml:"smtp_port"`
	SenderEmail    string `yaml:"sender_email"`
	SenderPassword string `yaml:"sender_password"`
}

// StorageConfig holds the notification outbox database settings.
type StorageConfig struct {
	Path string `yaml:"path"`
}

// StreamConfig tunes streaming delivery.
type StreamConfig struct {
	// PacingMs is the delay inserted after each forwarded text delta.
	PacingMs int `yaml:"pacing_ms"`
}

// Pacing returns the delta pacing as a duration.
func (c StreamConfig) Pacing() time.Duration {
	return time.Duration(c.PacingMs) * time.Millisecond
}

// Load reads config from a YAML file with graceful fallback: a missing or
// malformed file yields the defaults, and environment variables override
// whatever the file provided.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		cfg := DefaultConfig()
		cfg.applyEnvOverrides()
		return cfg, nil
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		defaults := DefaultConfig()
		defaults.applyEnvOverrides()
		return defaults, nil
	}

	cfg.applyEnvOverrides()
	cfg.applyDefaults()
	return &cfg, nil
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:           "0.0.0.0",
			Port:           8000,
			AllowedOrigins: []string{"*"},
		},
		OpenAI: OpenAIConfig{
			Deployment: "gpt-5",
			APIVersion: "2025-03-01-preview",
		},
		Reasoning: ReasoningConfig{
			Effort:  "medium",
			Summary: "auto",
		},
		Email: EmailConfig{
			Mode:     "simulate",
			SMTPHost: "smtp.office365.com",
			SMTPPort: 587,
		},
		Storage: StorageConfig{
			Path: "notifications.db",
		},
		Stream: StreamConfig{
			PacingMs: 10,
		},
	}
}

// Validate checks the settings a running service cannot do without.
func (c *Config) Validate() error {
	if c.OpenAI.Endpoint == "" {
		return fmt.Errorf("openai endpoint is required (set AZURE_OPENAI_ENDPOINT)")
	}
	if c.OpenAI.APIKey == "" {
		return fmt.Errorf("openai api key is required (set AZURE_OPENAI_API_KEY)")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.Email.Mode != "simulate" && c.Email.Mode != "smtp" {
		return fmt.Errorf("invalid email mode %q (want simulate or smtp)", c.Email.Mode)
	}
	switch c.Reasoning.Effort {
	case "low", "medium", "high":
	default:
		return fmt.Errorf("invalid reasoning effort %q (want low, medium or high)", c.Reasoning.Effort)
	}
	switch c.Reasoning.Summary {
	case "auto", "concise", "detailed":
	default:
		return fmt.Errorf("invalid reasoning summary %q (want auto, concise or detailed)", c.Reasoning.Summary)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("MORGAN_HOST"); v != "" {
		c.Server.Host = v
	}
	if v := os.Getenv("MORGAN_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
	if v := os.Getenv("AZURE_OPENAI_ENDPOINT"); v != "" {
		c.OpenAI.Endpoint = v
	}
	if v := os.Getenv("AZURE_OPENAI_DEPLOYMENT_NAME"); v != "" {
		c.OpenAI.Deployment = v
	}
	if v := os.Getenv("AZURE_OPENAI_API_VERSION"); v != "" {
		c.OpenAI.APIVersion = v
	}
	if v := os.Getenv("AZURE_OPENAI_API_KEY"); v != "" {
		c.OpenAI.APIKey = v
	}
	if v := os.Getenv("MORGAN_REASONING_EFFORT"); v != "" {
		c.Reasoning.Effort = v
	}
	if v := os.Getenv("MORGAN_REASONING_SUMMARY"); v != "" {
		c.Reasoning.Summary = v
	}
	if v := os.Getenv("EMAIL_MODE"); v != "" {
		c.Email.Mode = v
	}
	if v := os.Getenv("EMAIL_RECIPIENT"); v != "" {
		c.Email.Recipient = v
	}
	if v := os.Getenv("SMTP_HOST"); v != "" {
		c.Email.SMTPHost = v
	}
	if v := os.Getenv("SMTP_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Email.SMTPPort = port
		}
	}
	if v := os.Getenv("SENDER_EMAIL"); v != "" {
		c.Email.SenderEmail = v
	}
	if v := os.Getenv("SENDER_PASSWORD"); v != "" {
		c.Email.SenderPassword = v
	}
	if v := os.Getenv("MORGAN_DB_PATH"); v != "" {
		c.Storage.Path = v
	}
}

func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8000
	}
	if len(c.Server.AllowedOrigins) == 0 {
		c.Server.AllowedOrigins = []string{"*"}
	}
	if c.OpenAI.Deployment == "" {
		c.OpenAI.Deployment = "gpt-5"
	}
	if c.OpenAI.APIVersion == "" {
		c.OpenAI.APIVersion = "2025-03-01-preview"
	}
	if c.Reasoning.Effort == "" {
		c.Reasoning.Effort = "medium"
	}
	if c.Reasoning.Summary == "" {
		c.Reasoning.Summary = "auto"
	}
	if c.Email.Mode == "" {
		c.Email.Mode = "simulate"
	}
	if c.Email.SMTPHost == "" {
		c.Email.SMTPHost = "smtp.office365.com"
	}
	if c.Email.SMTPPort == 0 {
		c.Email.SMTPPort = 587
	}
	if c.Storage.Path == "" {
		c.Storage.Path = "notifications.db"
	}
	if c.Stream.PacingMs == 0 {
		c.Stream.PacingMs = 10
	}
}
