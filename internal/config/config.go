package config

import (
	"os"
	"strconv"
	"time"
)

// Config crm-segments（HTTP API）配置
type Config struct {
	HTTP struct {
		Addr string
	}
	CRM struct {
		BaseURL string
		Timeout time.Duration
		Retries int
	}
	CacheEnabled bool
	Redis        struct {
		Addr     string
		Password string
		DB       int
	}
	Log struct {
		Level  string
		Format string
	}
	SearchInTags bool
}

func Load() *Config {
	cfg := &Config{}
	cfg.HTTP.Addr = getEnv("HTTP_ADDR", ":8080")

	cfg.CRM.BaseURL = getEnv("CRM_BASE_URL", "http://localhost:9000/api/v1")
	cfg.CRM.Timeout = time.Duration(parseInt(getEnv("CRM_TIMEOUT_SECONDS", "15"), 15)) * time.Second
	cfg.CRM.Retries = parseInt(getEnv("CRM_RETRIES", "2"), 2)

	// Default to false for local dev: without Redis the service falls back to
	// an in-memory snapshot store, so plain `go run` keeps working.
	cfg.CacheEnabled = getEnv("CACHE_ENABLED", "false") == "true"
	cfg.Redis.Addr = getEnv("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = 0

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "json")

	// 搜索词是否同时匹配标签名（分段视图的增强模式）
	cfg.SearchInTags = getEnv("SEARCH_IN_TAGS", "true") == "true"

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseInt(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}
