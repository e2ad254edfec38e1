package config

import (
	"os"
	"strconv"
	"time"

	postalcode "github.com/akl7777777/se-postalcode"
)

type Config struct {
	// Server
	Port string
	Host string

	// Auth
	AuthKey string // Bearer token for authentication, empty = no auth

	// Validation
	HTTPFallback  bool
	BringEndpoint string
	HTTPTimeout   time.Duration // 0 = no client timeout

	// Reference table source, empty type = embedded CSV
	TableDBType string // sqlite, mysql
	TableDBDSN  string
}

func Load() *Config {
	return &Config{
		Port:          envOrDefault("PORT", "8080"),
		Host:          envOrDefault("HOST", "0.0.0.0"),
		AuthKey:       os.Getenv("AUTH_KEY"),
		HTTPFallback:  envBoolOrDefault("HTTP_FALLBACK", true),
		BringEndpoint: envOrDefault("BRING_ENDPOINT", postalcode.DefaultBringEndpoint),
		HTTPTimeout:   envDurationOrDefault("HTTP_TIMEOUT_SECONDS", 0) * time.Second,
		TableDBType:   os.Getenv("TABLE_DB_TYPE"),
		TableDBDSN:    os.Getenv("TABLE_DB_DSN"),
	}
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envBoolOrDefault(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func envDurationOrDefault(key string, def int) time.Duration {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return time.Duration(n)
		}
	}
	return time.Duration(def)
}
