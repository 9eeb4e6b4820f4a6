package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Environment string
	LogLevel    string
	Server      ServerConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	Storage     StorageConfig
	Supabase    SupabaseConfig
	Cache       CacheConfig
	Worker      WorkerConfig
	Limits      LimitsConfig
}

type ServerConfig struct {
	Host           string
	Port           string
	AllowedOrigins []string
}

// DevDatabaseFile is the SQLite database used in development when no
// DATABASE_URL is set.
const DevDatabaseFile = "casedesk.db"

type DatabaseConfig struct {
	URL     string
	TestURL string
}

// RedisConfig points at the shared query cache. URL "memory" keeps the
// cache in process.
type RedisConfig struct {
	URL string
}

type StorageConfig struct {
	Type string // "supabase" or "local"
	Path string
}

type SupabaseConfig struct {
	URL        string
	APIKey     string
	ServiceKey string
	Bucket     string
}

type CacheConfig struct {
	TTL             time.Duration
	EnrichmentLimit int
}

type WorkerConfig struct {
	OverdueCron string
}

type LimitsConfig struct {
	MaxFileSize      int64
	AllowedMimeTypes []string
	SignedURLExpiry  time.Duration
}

// Load configuration from environment variables
func Load() (*Config, error) {
	// Load .env file in non-production environments
	env := os.Getenv("ENVIRONMENT")
	if env != "production" {
		// .env file is optional
		_ = godotenv.Load()
	}

	config := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Server: ServerConfig{
			Host:           getEnv("HOST", "localhost"),
			Port:           getEnv("PORT", "8080"),
			AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		},
		Database: DatabaseConfig{
			URL:     getEnv("DATABASE_URL", ""),
			TestURL: getEnv("DATABASE_URL_TEST", ""),
		},
		Redis: RedisConfig{
			URL: getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Storage: StorageConfig{
			Type: getEnv("STORAGE_TYPE", "supabase"),
			Path: getEnv("STORAGE_PATH", "./uploads"),
		},
		Supabase: SupabaseConfig{
			URL:        getEnv("SUPABASE_URL", ""),
			APIKey:     getEnv("SUPABASE_API_KEY", ""),
			ServiceKey: getEnv("SUPABASE_SERVICE_KEY", ""),
			Bucket:     getEnv("SUPABASE_BUCKET", "case-documents"),
		},
		Cache: CacheConfig{
			TTL:             parseDuration(getEnv("CACHE_TTL", "30m")),
			EnrichmentLimit: parseInt(getEnv("ENRICHMENT_LIMIT", "20")),
		},
		Worker: WorkerConfig{
			OverdueCron: getEnv("WORKER_OVERDUE_CRON", "@hourly"),
		},
		Limits: LimitsConfig{
			MaxFileSize: parseInt64(getEnv("MAX_FILE_SIZE", "26214400")),
			AllowedMimeTypes: splitList(getEnv("ALLOWED_MIME_TYPES",
				"application/pdf,image/jpeg,image/png,application/msword,"+
					"application/vnd.openxmlformats-officedocument.wordprocessingml.document")),
			SignedURLExpiry: parseDuration(getEnv("SIGNED_URL_EXPIRY", "1h")),
		},
	}

	// Validate required configuration
	if err := validate(config); err != nil {
		return nil, err
	}

	return config, nil
}

// GetDatabaseURL returns the appropriate database URL based on environment.
// Development without DATABASE_URL runs on a local SQLite file.
func (c *Config) GetDatabaseURL() string {
	if c.Environment == "test" && c.Database.TestURL != "" {
		return c.Database.TestURL
	}
	if c.Database.URL == "" && c.IsDevelopment() {
		return DevDatabaseFile
	}
	return c.Database.URL
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsTest returns true if running in test environment
func (c *Config) IsTest() bool {
	return c.Environment == "test"
}

// UseLocalStorage reports whether document files stay on local disk
func (c *Config) UseLocalStorage() bool {
	return c.Storage.Type == "local"
}

func validate(config *Config) error {
	if config.Storage.Type != "local" && config.Storage.Type != "supabase" {
		return fmt.Errorf("STORAGE_TYPE must be local or supabase, got %q", config.Storage.Type)
	}
	if config.Cache.EnrichmentLimit <= 0 {
		return fmt.Errorf("ENRICHMENT_LIMIT must be positive")
	}
	if !config.IsProduction() {
		return nil
	}

	// Database URL is optional for development
	if config.GetDatabaseURL() == "" {
		return fmt.Errorf("DATABASE_URL is required in production")
	}
	if config.Supabase.URL == "" || config.Supabase.APIKey == "" {
		return fmt.Errorf("SUPABASE_URL and SUPABASE_API_KEY are required in production")
	}
	if config.Supabase.ServiceKey == "" {
		return fmt.Errorf("SUPABASE_SERVICE_KEY is required in production")
	}
	if config.UseLocalStorage() {
		return fmt.Errorf("local file storage cannot be used in production")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseInt(value string) int {
	if i, err := strconv.Atoi(value); err == nil {
		return i
	}
	return 0
}

func parseInt64(value string) int64 {
	if i, err := strconv.ParseInt(value, 10, 64); err == nil {
		return i
	}
	return 0
}

func parseDuration(value string) time.Duration {
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	return 0
}
