package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port     string
	Env      string
	LogLevel string
	LogFile  string
	// CORSOrigins limits browser access to the HTTP API; empty allows any.
	CORSOrigins []string

	APIKey     string
	Classifier string
	LLMModel   string
	Theme      string
	Image      ImageConfig
	Output     OutputConfig
}

type ImageConfig struct {
	Enabled  bool
	Model    string
	Timeout  time.Duration
	RPS      float64
	Burst    int
	Attempts int
	Cache    int
}

type OutputConfig struct {
	Dir string
	S3  S3Config
}

type S3Config struct {
	Enabled   bool
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

const (
	ClassifierRules  = "rules"
	ClassifierGemini = "gemini"
)

// Load reads .env (when present) and the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	port := firstNonEmpty(env("PORT"), ":8080")
	if !strings.HasPrefix(port, ":") && !strings.Contains(port, ":") {
		port = ":" + port
	}
	apiKey := firstNonEmpty(env("GEMINI_API_KEY"), env("GOOGLE_API_KEY"))

	image, err := loadImageConfig(apiKey != "")
	if err != nil {
		return nil, err
	}
	classifier := strings.ToLower(firstNonEmpty(env("DECKGEN_CLASSIFIER"), ClassifierRules))
	switch classifier {
	case ClassifierRules, ClassifierGemini:
	default:
		return nil, fmt.Errorf("config: DECKGEN_CLASSIFIER must be %q or %q, got %q", ClassifierRules, ClassifierGemini, classifier)
	}

	return &Config{
		Port:        port,
		Env:         firstNonEmpty(env("APP_ENV"), "local"),
		LogLevel:    firstNonEmpty(env("LOG_LEVEL"), "info"),
		LogFile:     env("LOG_FILE"),
		CORSOrigins: splitList(env("DECKGEN_CORS_ORIGINS")),
		APIKey:      apiKey,
		Classifier:  classifier,
		LLMModel:    firstNonEmpty(env("DECKGEN_LLM_MODEL"), "gemini-2.5-flash"),
		Theme:       env("DECKGEN_THEME"),
		Image:       image,
		Output: OutputConfig{
			Dir: firstNonEmpty(env("DECKGEN_OUTPUT_DIR"), "output"),
			S3:  loadS3Config(),
		},
	}, nil
}

func loadImageConfig(haveKey bool) (ImageConfig, error) {
	c := ImageConfig{
		Enabled:  haveKey,
		Model:    firstNonEmpty(env("DECKGEN_IMAGE_MODEL"), "gemini-2.5-flash-image"),
		Timeout:  90 * time.Second,
		Burst:    1,
		Attempts: 1,
	}
	var err error
	if raw := env("DECKGEN_IMAGES"); raw != "" {
		if c.Enabled, err = strconv.ParseBool(raw); err != nil {
			return c, fmt.Errorf("config: DECKGEN_IMAGES: %w", err)
		}
	}
	if raw := env("DECKGEN_IMAGE_TIMEOUT"); raw != "" {
		if c.Timeout, err = time.ParseDuration(raw); err != nil || c.Timeout <= 0 {
			return c, fmt.Errorf("config: DECKGEN_IMAGE_TIMEOUT: invalid duration %q", raw)
		}
	}
	if raw := env("DECKGEN_IMAGE_RPS"); raw != "" {
		if c.RPS, err = strconv.ParseFloat(raw, 64); err != nil {
			return c, fmt.Errorf("config: DECKGEN_IMAGE_RPS: %w", err)
		}
	}
	for _, f := range []struct {
		key string
		dst *int
		min int
	}{
		{"DECKGEN_IMAGE_BURST", &c.Burst, 1},
		{"DECKGEN_IMAGE_ATTEMPTS", &c.Attempts, 1},
		{"DECKGEN_IMAGE_CACHE", &c.Cache, 0},
	} {
		raw := env(f.key)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < f.min {
			return c, fmt.Errorf("config: %s: want integer >= %d, got %q", f.key, f.min, raw)
		}
		*f.dst = n
	}
	return c, nil
}

func loadS3Config() S3Config {
	endpoint := env("DECKGEN_S3_ENDPOINT")
	return S3Config{
		Enabled:   endpoint != "",
		Endpoint:  endpoint,
		Region:    firstNonEmpty(env("DECKGEN_S3_REGION"), "us-east-1"),
		AccessKey: firstNonEmpty(env("DECKGEN_S3_ACCESS_KEY"), env("MINIO_ROOT_USER")),
		SecretKey: firstNonEmpty(env("DECKGEN_S3_SECRET_KEY"), env("MINIO_ROOT_PASSWORD")),
		Bucket:    firstNonEmpty(env("DECKGEN_S3_BUCKET"), "deckgen-decks"),
		UseSSL:    resolveUseSSL(),
	}
}

func resolveUseSSL() bool {
	raw := env("DECKGEN_S3_USE_SSL")
	if raw == "" {
		return true
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return true
	}
	return v
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func env(key string) string { return strings.TrimSpace(os.Getenv(key)) }

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
