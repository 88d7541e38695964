package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

var DefaultEnvConfig *envConfig

type envConfig struct {
	// server config
	APP_PORT string
	// backend config
	BACKEND_BASE_URL    string
	BACKEND_SEARCH_PATH string
	REQUEST_TIMEOUT     time.Duration
	CSRF_COOKIE_NAME    string
	CSRF_TOKEN          string
	// training module catalog
	MODULE_CATALOG_PATH string
	// import command
	IMPORT_WORKERS int
	// logger config
	LOG_FILE_PATH string
	LOG_LEVEL     string
}

// LoadEnvConfig reads .env (when present) and the process environment.
func LoadEnvConfig() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	DefaultEnvConfig = &envConfig{
		APP_PORT:            getEnvString("APP_PORT", "8080"),
		BACKEND_BASE_URL:    getEnvString("BACKEND_BASE_URL", "http://127.0.0.1:8000/"),
		BACKEND_SEARCH_PATH: getEnvString("BACKEND_SEARCH_PATH", "employee_search/"),
		REQUEST_TIMEOUT:     getEnvDuration("REQUEST_TIMEOUT", 30*time.Second),
		CSRF_COOKIE_NAME:    getEnvString("CSRF_COOKIE_NAME", "csrftoken"),
		CSRF_TOKEN:          getEnvString("CSRF_TOKEN", ""),
		MODULE_CATALOG_PATH: getEnvString("MODULE_CATALOG_PATH", ""),
		IMPORT_WORKERS:      getEnvInt("IMPORT_WORKERS", 1),
		LOG_FILE_PATH:       getEnvString("LOG_FILE_PATH", ""),
		LOG_LEVEL:           getEnvString("LOG_LEVEL", "info"),
	}
	return nil
}

func getEnvString(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
		if i, err := strconv.Atoi(val); err == nil {
			return time.Duration(i) * time.Second
		}
	}
	return fallback
}
