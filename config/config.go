package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Backend names accepted in GENERATION_BACKEND.
const (
	BackendGemini     = "gemini"
	BackendOpenRouter = "openrouter"
)

type Config struct {
	Host              string
	Port              string
	GoogleAPIKey      string
	GeminiTimeout     string
	Backend           string
	OpenRouterAPIKey  string
	OpenRouterURL     string
	OpenRouterTimeout string
	ModelCatalogFile  string
	LogLevel          string
	ShutdownTimeout   string
}

// LoadConfig reads an optional .env file and then the process environment.
func LoadConfig() (*Config, error) {
	return LoadConfigFrom(".env")
}

// LoadConfigFrom is LoadConfig with an explicit dotenv path. A missing file
// is not an error; a malformed one is.
func LoadConfigFrom(path string) (*Config, error) {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	return &Config{
		Host:              getEnv("HOST", "0.0.0.0"),
		Port:              getEnv("PORT", "5000"),
		GoogleAPIKey:      getEnv("GOOGLE_API_KEY", ""),
		GeminiTimeout:     getEnv("GEMINI_TIMEOUT", "0s"),
		Backend:           getEnv("GENERATION_BACKEND", BackendGemini),
		OpenRouterAPIKey:  getEnv("OPENROUTER_API_KEY", ""),
		OpenRouterURL:     getEnv("OPENROUTER_BASE_URL", "https://openrouter.ai/api/v1"),
		OpenRouterTimeout: getEnv("OPENROUTER_TIMEOUT", "120s"),
		ModelCatalogFile:  getEnv("MODEL_CATALOG_FILE", ""),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		ShutdownTimeout:   getEnv("SHUTDOWN_TIMEOUT", "10s"),
	}, nil
}

// Validate checks the values that are parsed later at startup.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendGemini, BackendOpenRouter:
	default:
		return fmt.Errorf("unknown GENERATION_BACKEND %q", c.Backend)
	}
	for name, v := range map[string]string{
		"GEMINI_TIMEOUT":     c.GeminiTimeout,
		"OPENROUTER_TIMEOUT": c.OpenRouterTimeout,
		"SHUTDOWN_TIMEOUT":   c.ShutdownTimeout,
	} {
		if _, err := time.ParseDuration(v); err != nil {
			return fmt.Errorf("invalid %s: %w", name, err)
		}
	}
	if c.Port == "" {
		return errors.New("PORT must not be empty")
	}
	return nil
}

// Addr is the listen address built from Host and Port.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// Duration parses one of the duration fields. Call Validate first.
func Duration(v string) time.Duration {
	d, _ := time.ParseDuration(v)
	return d
}

// Redacted returns a copy safe to log.
func (c Config) Redacted() Config {
	if c.GoogleAPIKey != "" {
		c.GoogleAPIKey = "***"
	}
	if c.OpenRouterAPIKey != "" {
		c.OpenRouterAPIKey = "***"
	}
	return c
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
