// README: Config loader with env defaults for HTTP, upstream, and optional integrations.
package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	HTTP struct {
		Addr string
	}
	Upstream struct {
		BaseURL string
		Token   string
		StoreID string
		Timeout time.Duration
	}
	// Optional integrations; empty means disabled.
	DB struct {
		DSN string
	}
	Redis struct {
		Addr string
	}
	RateLimit struct {
		PerMinute int
	}
	AI struct {
		GeminiKey string
	}
	Log struct {
		Level string
	}
}

func Load() (Config, error) {
	var cfg Config
	cfg.HTTP.Addr = envOrDefault("WAYPOINT_HTTP_ADDR", ":8080")
	cfg.Upstream.BaseURL = envOrError("WAYPOINT_UPSTREAM_URL")
	cfg.Upstream.Token = envOrError("WAYPOINT_UPSTREAM_TOKEN")
	cfg.Upstream.StoreID = envOrDefault("WAYPOINT_STORE_ID", "1")
	cfg.Upstream.Timeout = time.Duration(envOrDefaultInt("WAYPOINT_UPSTREAM_TIMEOUT_SEC", 10)) * time.Second
	cfg.DB.DSN = os.Getenv("WAYPOINT_DB_DSN")
	cfg.Redis.Addr = os.Getenv("WAYPOINT_REDIS_ADDR")
	cfg.RateLimit.PerMinute = envOrDefaultInt("WAYPOINT_RATE_LIMIT_PER_MIN", 20)
	cfg.AI.GeminiKey = os.Getenv("GEMINI_API_KEY")
	cfg.Log.Level = envOrDefault("WAYPOINT_LOG_LEVEL", "info")
	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envOrError(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	panic("environment variable " + key + " is required")
}

func envOrDefaultInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
