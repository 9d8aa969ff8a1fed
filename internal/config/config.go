package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port          string
	APIBaseURL    string
	TenantID      string
	SessionSecret string
	LocalStoreDSN string
	Env           string
	APITimeout    time.Duration
}

// Load loads configuration from environment with sensible defaults.
// Precedence: explicit env var > .env file (if loaded by the caller) > default.
func Load() Config {
	cfg := Config{}
	cfg.Port = getEnv("PORT", "8080")
	cfg.APIBaseURL = getEnv("API_BASE_URL", "http://localhost:8000/api/v1")
	cfg.TenantID = os.Getenv("TENANT_ID")
	cfg.SessionSecret = getEnv("SESSION_SECRET", "devsessionsecret")
	cfg.LocalStoreDSN = getEnv("LOCAL_STORE_DSN", "file:cotador.db")
	cfg.Env = getEnv("APP_ENV", "development")
	cfg.APITimeout = time.Duration(parseInt("API_TIMEOUT_SECONDS", 15)) * time.Second
	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			log.Printf("invalid integer for %s: %s", key, v)
			return def
		}
		return n
	}
	return def
}
