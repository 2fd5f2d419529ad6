package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the API server.
type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	Provider    ProviderConfig
	Maintenance MaintenanceConfig
}

type ServerConfig struct {
	Port           int
	Env            string
	AllowedOrigins []string
	RateLimitRPM   int
}

type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	MigrationsPath  string
}

type RedisConfig struct {
	URL string
}

type ProviderConfig struct {
	BaseURL        string
	APIKey         string
	Timeout        time.Duration
	WebhookBaseURL string
	FixedBalance   float64
}

type MaintenanceConfig struct {
	ReaperInterval time.Duration
	ETAInterval    time.Duration
}

// Load reads configuration from environment variables and returns a validated
// Config. A .env file in the working directory is applied first when present.
// Returns an error with a descriptive message if any required value is missing
// or invalid.
func Load() (*Config, error) {
	godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:           envInt("PORT", 8080),
			Env:            envString("APP_ENV", "development"),
			AllowedOrigins: envList("CORS_ALLOWED_ORIGINS"),
			RateLimitRPM:   envInt("RATE_LIMIT_RPM", 60),
		},
		Database: DatabaseConfig{
			URL:             os.Getenv("DATABASE_URL"),
			MaxOpenConns:    envInt("DATABASE_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    envInt("DATABASE_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: envDuration("DATABASE_CONN_MAX_LIFETIME", 5*time.Minute),
			MigrationsPath:  envString("MIGRATIONS_PATH", "migrations"),
		},
		Redis: RedisConfig{
			URL: os.Getenv("REDIS_URL"),
		},
		Provider: ProviderConfig{
			BaseURL:        os.Getenv("PROVIDER_BASE_URL"),
			APIKey:         os.Getenv("PROVIDER_API_KEY"),
			Timeout:        envDuration("PROVIDER_TIMEOUT", 30*time.Second),
			WebhookBaseURL: os.Getenv("WEBHOOK_BASE_URL"),
			FixedBalance:   envFloat("LEDGER_FIXED_BALANCE", 1000),
		},
		Maintenance: MaintenanceConfig{
			ReaperInterval: envDuration("REAPER_INTERVAL", 5*time.Minute),
			ETAInterval:    envDuration("ETA_INTERVAL", 10*time.Minute),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.Redis.URL == "" {
		return fmt.Errorf("REDIS_URL is required")
	}

	if c.Provider.BaseURL == "" {
		return fmt.Errorf("PROVIDER_BASE_URL is required")
	}
	if !strings.HasPrefix(c.Provider.BaseURL, "http://") && !strings.HasPrefix(c.Provider.BaseURL, "https://") {
		return fmt.Errorf("PROVIDER_BASE_URL must start with http:// or https://, got %q", c.Provider.BaseURL)
	}

	if c.Provider.APIKey == "" {
		return fmt.Errorf("PROVIDER_API_KEY is required")
	}

	if c.Provider.WebhookBaseURL == "" {
		return fmt.Errorf("WEBHOOK_BASE_URL is required")
	}
	if !strings.HasPrefix(c.Provider.WebhookBaseURL, "http://") && !strings.HasPrefix(c.Provider.WebhookBaseURL, "https://") {
		return fmt.Errorf("WEBHOOK_BASE_URL must start with http:// or https://, got %q", c.Provider.WebhookBaseURL)
	}

	return nil
}

func envString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func envFloat(key string, defaultVal float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return defaultVal
	}
	return f
}

func envDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}

func envList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
