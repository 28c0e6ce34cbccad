package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration loaded from environment.
type Config struct {
	Server  ServerConfig
	API     APIConfig
	Session SessionConfig
	Cache   CacheConfig
	Redis   RedisConfig
	OTel    OTelConfig
	Log     LogConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Env                string // development or production
	Port               string
	ReadTimeout        int
	WriteTimeout       int
	CORSAllowedOrigins string // comma-separated, or "*" for all
}

// APIConfig points at the remote CRM REST API.
type APIConfig struct {
	BaseURL        string
	TimeoutSeconds int
}

// SessionConfig holds auth cookie settings.
type SessionConfig struct {
	Secret      string
	ExpireHours int
	Secure      bool
}

// CacheConfig selects the query cache driver: none, memory or redis.
type CacheConfig struct {
	Driver     string
	TTLSeconds int
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// OTelConfig holds OTLP export settings. Tracing is off when Endpoint is empty.
type OTelConfig struct {
	Endpoint       string
	Headers        string // k=v pairs, comma-separated
	ServiceName    string
	ServiceVersion string
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level string
}

// Enabled reports whether spans should be exported.
func (c OTelConfig) Enabled() bool {
	return c.Endpoint != ""
}

// IsProduction reports whether the server runs with production settings.
func (c ServerConfig) IsProduction() bool {
	return c.Env == "production"
}

// Validate rejects combinations the server cannot start with.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("API_BASE_URL is required")
	}
	if c.Server.IsProduction() && c.Session.Secret == defaultSessionSecret {
		return fmt.Errorf("SESSION_SECRET must be set in production")
	}
	switch c.Cache.Driver {
	case "none", "memory", "redis":
	default:
		return fmt.Errorf("unknown CACHE_DRIVER %q", c.Cache.Driver)
	}
	return nil
}

const defaultSessionSecret = "change-me-in-production"

// Load reads configuration from environment, with optional .env file.
func Load() (*Config, error) {
	_ = godotenv.Load()      // .env
	_ = godotenv.Load("env") // env (no leading dot)

	env := getEnv("APP_ENV", "development")
	cfg := &Config{
		Server: ServerConfig{
			Env:                env,
			Port:               getEnv("PORT", "3000"),
			ReadTimeout:        getEnvInt("READ_TIMEOUT_SEC", 30),
			WriteTimeout:       getEnvInt("WRITE_TIMEOUT_SEC", 30),
			CORSAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000"),
		},
		API: APIConfig{
			BaseURL:        strings.TrimRight(getEnv("API_BASE_URL", "http://localhost:8000"), "/"),
			TimeoutSeconds: getEnvInt("API_TIMEOUT_SEC", 15),
		},
		Session: SessionConfig{
			Secret:      getEnv("SESSION_SECRET", defaultSessionSecret),
			ExpireHours: getEnvInt("SESSION_EXPIRE_HOURS", 24*7),
			Secure:      getEnvBool("SESSION_COOKIE_SECURE", env == "production"),
		},
		Cache: CacheConfig{
			Driver:     strings.ToLower(getEnv("CACHE_DRIVER", "none")),
			TTLSeconds: getEnvInt("CACHE_TTL_SECONDS", 60),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		OTel: OTelConfig{
			Endpoint:       strings.TrimRight(getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""), "/"),
			Headers:        getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""),
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "ping-crm-dashboard"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "dev"),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SplitOrigins parses CORSAllowedOrigins.
func (c ServerConfig) SplitOrigins() []string {
	return splitTrim(c.CORSAllowedOrigins, ",")
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func splitTrim(s, sep string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, v := range strings.Split(s, sep) {
		if t := strings.TrimSpace(v); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
