// README: Config loader with env defaults for HTTP, Gemini, Postgres, Redis and logging.
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// ErrMissingAPIKey is returned by Load when no Gemini credential is set.
var ErrMissingAPIKey = errors.New("GEMINI_API_KEY (or API_KEY) is required")

type AIConfig struct {
	GeminiKey   string
	Model       string
	Temperature float64
	// Timeout bounds a single turn; zero leaves it to the Gemini client.
	Timeout time.Duration
}

type Config struct {
	HTTP struct {
		Addr           string
		AllowedOrigins []string
	}
	DB struct {
		DSN string
	}
	Redis struct {
		Addr    string
		Channel string
	}
	Log struct {
		Level  string
		Format string
	}
	AI AIConfig
}

func Load() (Config, error) {
	var cfg Config
	cfg.HTTP.Addr = envOrDefault("WANDERS_HTTP_ADDR", ":8080")
	cfg.HTTP.AllowedOrigins = envList("WANDERS_ALLOWED_ORIGINS")
	cfg.DB.DSN = envOrDefault("WANDERS_DB_DSN", "")
	cfg.Redis.Addr = envOrDefault("WANDERS_REDIS_ADDR", "")
	cfg.Redis.Channel = envOrDefault("WANDERS_REDIS_CHANNEL", "wanders:transcript")
	cfg.Log.Level = envOrDefault("WANDERS_LOG_LEVEL", "info")
	cfg.Log.Format = envOrDefault("WANDERS_LOG_FORMAT", "json")
	cfg.AI.Model = envOrDefault("WANDERS_GEMINI_MODEL", "gemini-2.0-flash")
	cfg.AI.Temperature = envOrDefaultFloat("WANDERS_AI_TEMPERATURE", 0.4)
	cfg.AI.Timeout = envOrDefaultDuration("WANDERS_AI_TIMEOUT", 0)
	cfg.AI.GeminiKey = envOrDefault("GEMINI_API_KEY", os.Getenv("API_KEY"))
	if cfg.AI.GeminiKey == "" {
		return cfg, ErrMissingAPIKey
	}
	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func envOrDefaultFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseFloat(v, 64); err == nil {
			return n
		}
	}
	return def
}

func envOrDefaultDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d >= 0 {
			return d
		}
	}
	return def
}
