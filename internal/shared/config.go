package shared

import (
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv          string
	LogLevel        string
	HTTPAddr        string
	MetricsAddr     string
	MySQLDSN        string
	RedisAddr       string
	RedisDB         int
	RedisPass       string
	CacheTTL        time.Duration
	OpenAIKey       string
	OpenAIBaseURL   string
	OpenAIModel     string
	OpenAIRPS       int
	FallbackTimeout time.Duration
	AdminSecret     string
	SeedWorkers     int
}

func Load() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	c := Config{
		AppEnv:          env("APP_ENV", "prod"),
		LogLevel:        env("LOG_LEVEL", "info"),
		HTTPAddr:        env("HTTP_ADDR", ":8080"),
		MetricsAddr:     env("METRICS_ADDR", ""),
		MySQLDSN:        env("MYSQL_DSN", "root:root@tcp(localhost:3306)/concierge?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		RedisAddr:       env("REDIS_ADDR", "localhost:6379"),
		RedisPass:       env("REDIS_PASSWORD", ""),
		RedisDB:         atoi("REDIS_DB", 0),
		CacheTTL:        time.Duration(atoi("CACHE_TTL_SECONDS", 900)) * time.Second,
		OpenAIKey:       env("OPENAI_API_KEY", ""),
		OpenAIBaseURL:   env("OPENAI_BASE_URL", ""),
		OpenAIModel:     env("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIRPS:       atoi("OPENAI_RPS", 5),
		FallbackTimeout: time.Duration(atoi("FALLBACK_TIMEOUT_SECONDS", 10)) * time.Second,
		AdminSecret:     env("ADMIN_SECRET", ""),
		SeedWorkers:     atoi("SEED_WORKERS", 4),
	}
	if c.OpenAIKey == "" {
		log.Warn().Msg("OPENAI_API_KEY is empty")
	}
	if c.AdminSecret == "" {
		log.Warn().Msg("ADMIN_SECRET is empty; property registration is disabled")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
