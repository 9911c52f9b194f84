package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDefaultConfig_Values tests the baked-in defaults
func TestDefaultConfig_Values(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "gpt-5", cfg.OpenAI.Deployment)
	assert.Equal(t, "2025-03-01-preview", cfg.OpenAI.APIVersion)
	assert.Equal(t, "medium", cfg.Reasoning.Effort)
	assert.Equal(t, "auto", cfg.Reasoning.Summary)
	assert.Equal(t, "simulate", cfg.Email.Mode)
	assert.Equal(t, 587, cfg.Email.SMTPPort)
	assert.Equal(t, "notifications.db", cfg.Storage.Path)
	assert.Equal(t, 10*time.Millisecond, cfg.Stream.Pacing())
}

// TestLoad_MissingFile_ReturnsDefaults tests graceful fallback
func TestLoad_MissingFile_ReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, "simulate", cfg.Email.Mode)
}

// TestLoad_MalformedYAML_ReturnsDefaults tests resilience to bad files
func TestLoad_MalformedYAML_ReturnsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{{{ not yaml"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 8000, cfg.Server.Port)
}

// TestLoad_FileValues_FillsMissingWithDefaults tests partial files
func TestLoad_FileValues_FillsMissingWithDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "morgan.yaml")
	content := `
server:
  port: 9001
openai:
  endpoint: https://example.openai.azure.com/openai/v1
  api_key: file-key
email:
  mode: smtp
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9001, cfg.Server.Port)
	assert.Equal(t, "file-key", cfg.OpenAI.APIKey)
	assert.Equal(t, "smtp", cfg.Email.Mode)

	// untouched values fall back to defaults
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, "gpt-5", cfg.OpenAI.Deployment)
	assert.Equal(t, "smtp.office365.com", cfg.Email.SMTPHost)
}

// TestLoad_EnvOverridesFile tests environment precedence
func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "morgan.yaml")
	require.NoError(t, os.WriteFile(path, []byte("openai:\n  deployment: from-file\n"), 0644))

	t.Setenv("AZURE_OPENAI_ENDPOINT", "https://env.openai.azure.com/openai/v1")
	t.Setenv("AZURE_OPENAI_DEPLOYMENT_NAME", "from-env")
	t.Setenv("AZURE_OPENAI_API_KEY", "env-key")
	t.Setenv("MORGAN_PORT", "7777")
	t.Setenv("MORGAN_REASONING_EFFORT", "high")
	t.Setenv("EMAIL_MODE", "smtp")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://env.openai.azure.com/openai/v1", cfg.OpenAI.Endpoint)
	assert.Equal(t, "from-env", cfg.OpenAI.Deployment)
	assert.Equal(t, "env-key", cfg.OpenAI.APIKey)
	assert.Equal(t, 7777, cfg.Server.Port)
	assert.Equal(t, "high", cfg.Reasoning.Effort)
	assert.Equal(t, "smtp", cfg.Email.Mode)
}

// TestLoad_MissingFileStillAppliesEnv tests env without a config file
func TestLoad_MissingFileStillAppliesEnv(t *testing.T) {
	t.Setenv("AZURE_OPENAI_API_KEY", "env-only-key")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "env-only-key", cfg.OpenAI.APIKey)
}

// TestConfig_Validate tests startup validation
func TestConfig_Validate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.OpenAI.Endpoint = "https://example.openai.azure.com/openai/v1"
	cfg.OpenAI.APIKey = "k"
	require.NoError(t, cfg.Validate())

	noEndpoint := DefaultConfig()
	noEndpoint.OpenAI.APIKey = "k"
	err := noEndpoint.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "endpoint")

	noKey := DefaultConfig()
	noKey.OpenAI.Endpoint = "https://x"
	assert.Error(t, noKey.Validate())

	badPort := DefaultConfig()
	badPort.OpenAI.Endpoint = "https://x"
	badPort.OpenAI.APIKey = "k"
	badPort.Server.Port = -1
	assert.Error(t, badPort.Validate())

	badMode := DefaultConfig()
	badMode.OpenAI.Endpoint = "https://x"
	badMode.OpenAI.APIKey = "k"
	badMode.Email.Mode = "carrier-pigeon"
	assert.Error(t, badMode.Validate())

	badEffort := DefaultConfig()
	badEffort.OpenAI.Endpoint = "https://x"
	badEffort.OpenAI.APIKey = "k"
	badEffort.Reasoning.Effort = "extreme"
	assert.Error(t, badEffort.Validate())

	badSummary := DefaultConfig()
	badSummary.OpenAI.Endpoint = "https://x"
	badSummary.OpenAI.APIKey = "k"
	badSummary.Reasoning.Summary = "verbose"
	assert.Error(t, badSummary.Validate())
}

// TestOpenAIConfig_Configured tests the health-check predicate
func TestOpenAIConfig_Configured(t *testing.T) {
	assert.False(t, OpenAIConfig{}.Configured())
	assert.False(t, OpenAIConfig{Endpoint: "https://x"}.Configured())
	assert.True(t, OpenAIConfig{Endpoint: "https://x", APIKey: "k"}.Configured())
}
