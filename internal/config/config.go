package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server  ServerConfig
	Checker CheckerConfig
	Store   StoreConfig
	Redis   RedisConfig
	Logging LoggingConfig
}

type ServerConfig struct {
	Port            string
	Host            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

type CheckerConfig struct {
	SiteConfigFile  string
	FetchTimeout    time.Duration
	CacheTTL        time.Duration
	ConcurrentLimit int
	PacingDelay     time.Duration
	UserAgent       string
}

type StoreConfig struct {
	Driver      string // "file" or "postgres"
	ProductFile string
	DatabaseURL string
	MaxConns    int32
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Stream   string
}

type LoggingConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnvOrDefault("SERVER_PORT", "8080"),
			Host:            getEnvOrDefault("SERVER_HOST", "0.0.0.0"),
			ReadTimeout:     getDurationOrDefault("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    getDurationOrDefault("SERVER_WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout: getDurationOrDefault("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Checker: CheckerConfig{
			SiteConfigFile:  getEnvOrDefault("CHECKER_SITE_CONFIG_FILE", "site_configs.json"),
			FetchTimeout:    getDurationOrDefault("CHECKER_FETCH_TIMEOUT", 10*time.Second),
			CacheTTL:        getDurationOrDefault("CHECKER_CACHE_TTL", 60*time.Second),
			ConcurrentLimit: getIntOrDefault("CHECKER_CONCURRENT_LIMIT", 5),
			PacingDelay:     getDurationOrDefault("CHECKER_PACING_DELAY", 0),
			UserAgent:       getEnvOrDefault("CHECKER_USER_AGENT", defaultUserAgent),
		},
		Store: StoreConfig{
			Driver:      getEnvOrDefault("STORE_DRIVER", "file"),
			ProductFile: getEnvOrDefault("STORE_PRODUCT_FILE", "products.json"),
			DatabaseURL: getEnvOrDefault("STORE_DATABASE_URL", ""),
			MaxConns:    int32(getIntOrDefault("STORE_DB_MAX_CONNS", 5)),
		},
		Redis: RedisConfig{
			Addr:     getEnvOrDefault("REDIS_ADDR", ""),
			Password: getEnvOrDefault("REDIS_PASSWORD", ""),
			DB:       getIntOrDefault("REDIS_DB", 0),
			Stream:   getEnvOrDefault("REDIS_STREAM", "restockd:outcomes"),
		},
		Logging: LoggingConfig{
			Level:  getEnvOrDefault("LOG_LEVEL", "info"),
			Format: getEnvOrDefault("LOG_FORMAT", "json"),
		},
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Checker.ConcurrentLimit < 1 {
		return fmt.Errorf("CHECKER_CONCURRENT_LIMIT must be at least 1")
	}

	if c.Checker.FetchTimeout <= 0 {
		return fmt.Errorf("CHECKER_FETCH_TIMEOUT must be positive")
	}

	if c.Checker.CacheTTL < 0 {
		return fmt.Errorf("CHECKER_CACHE_TTL cannot be negative")
	}

	switch c.Store.Driver {
	case "file":
		if c.Store.ProductFile == "" {
			return fmt.Errorf("STORE_PRODUCT_FILE is required for the file store")
		}
	case "postgres":
		if c.Store.DatabaseURL == "" {
			return fmt.Errorf("STORE_DATABASE_URL is required for the postgres store")
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER: %s", c.Store.Driver)
	}

	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
