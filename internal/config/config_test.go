package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allKeys = []string{
	"PORT", "APP_ENV", "LOG_LEVEL", "LOG_FILE", "GEMINI_API_KEY", "GOOGLE_API_KEY",
	"DECKGEN_CLASSIFIER", "DECKGEN_LLM_MODEL", "DECKGEN_THEME", "DECKGEN_IMAGES",
	"DECKGEN_IMAGE_MODEL", "DECKGEN_IMAGE_TIMEOUT", "DECKGEN_IMAGE_RPS", "DECKGEN_IMAGE_BURST",
	"DECKGEN_IMAGE_ATTEMPTS", "DECKGEN_IMAGE_CACHE", "DECKGEN_OUTPUT_DIR", "DECKGEN_S3_ENDPOINT",
	"DECKGEN_S3_REGION", "DECKGEN_S3_ACCESS_KEY", "DECKGEN_S3_SECRET_KEY", "DECKGEN_S3_BUCKET",
	"DECKGEN_S3_USE_SSL", "MINIO_ROOT_USER", "MINIO_ROOT_PASSWORD", "DECKGEN_CORS_ORIGINS",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range allKeys {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Port)
	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, ClassifierRules, cfg.Classifier)
	assert.Equal(t, "gemini-2.5-flash", cfg.LLMModel)
	assert.Empty(t, cfg.APIKey)
	assert.False(t, cfg.Image.Enabled)
	assert.Equal(t, "gemini-2.5-flash-image", cfg.Image.Model)
	assert.Equal(t, 90*time.Second, cfg.Image.Timeout)
	assert.Equal(t, 1, cfg.Image.Attempts)
	assert.Equal(t, 1, cfg.Image.Burst)
	assert.Zero(t, cfg.Image.Cache)
	assert.Equal(t, "output", cfg.Output.Dir)
	assert.False(t, cfg.Output.S3.Enabled)
	assert.True(t, cfg.Output.S3.UseSSL)
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("GOOGLE_API_KEY", "k")
	t.Setenv("DECKGEN_CLASSIFIER", "Gemini")
	t.Setenv("DECKGEN_IMAGE_MODEL", "imagen-3.0-generate-002")
	t.Setenv("DECKGEN_IMAGE_TIMEOUT", "15s")
	t.Setenv("DECKGEN_IMAGE_RPS", "0.5")
	t.Setenv("DECKGEN_IMAGE_ATTEMPTS", "3")
	t.Setenv("DECKGEN_IMAGE_CACHE", "16")
	t.Setenv("DECKGEN_THEME", "technical-blueprint")
	t.Setenv("DECKGEN_S3_ENDPOINT", "localhost:9000")
	t.Setenv("DECKGEN_S3_USE_SSL", "false")
	t.Setenv("MINIO_ROOT_USER", "minio")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Port)
	assert.Equal(t, "k", cfg.APIKey)
	assert.Equal(t, ClassifierGemini, cfg.Classifier)
	assert.True(t, cfg.Image.Enabled)
	assert.Equal(t, 15*time.Second, cfg.Image.Timeout)
	assert.Equal(t, 0.5, cfg.Image.RPS)
	assert.Equal(t, 3, cfg.Image.Attempts)
	assert.Equal(t, 16, cfg.Image.Cache)
	assert.Equal(t, "technical-blueprint", cfg.Theme)
	assert.True(t, cfg.Output.S3.Enabled)
	assert.False(t, cfg.Output.S3.UseSSL)
	assert.Equal(t, "minio", cfg.Output.S3.AccessKey)
	assert.Equal(t, "deckgen-decks", cfg.Output.S3.Bucket)
}

func TestLoadCORSOrigins(t *testing.T) {
	clearEnv(t)
	t.Setenv("DECKGEN_CORS_ORIGINS", " https://a.example.com, ,https://b.example.com ")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORSOrigins)
}

func TestLoadImagesCanBeDisabledWithKey(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEMINI_API_KEY", "k")
	t.Setenv("DECKGEN_IMAGES", "false")
	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.Image.Enabled)
}

func TestLoadRejectsBadValues(t *testing.T) {
	for key, val := range map[string]string{
		"DECKGEN_CLASSIFIER":     "oracle",
		"DECKGEN_IMAGES":         "maybe",
		"DECKGEN_IMAGE_TIMEOUT":  "soon",
		"DECKGEN_IMAGE_RPS":      "fast",
		"DECKGEN_IMAGE_ATTEMPTS": "0",
		"DECKGEN_IMAGE_CACHE":    "-1",
	} {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(key, val)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
