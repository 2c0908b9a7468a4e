// Package config loads service configuration from a YAML file with
// environment-variable overrides.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultReadTimeoutSeconds is the default read timeout in seconds
	DefaultReadTimeoutSeconds = 10
	// DefaultWriteTimeoutSeconds is the default write timeout in seconds
	DefaultWriteTimeoutSeconds = 30
	// DefaultSEOCacheTTL is the default TTL for cached sitemap/feed output
	DefaultSEOCacheTTL = time.Hour
)

type Config struct {
	Debug    bool           `yaml:"debug"` // Controls log level and format
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Site     SiteConfig     `yaml:"site"`
	Indexing IndexingConfig `yaml:"indexing"`
	SEO      SEOConfig      `yaml:"seo"`
}

type ServerConfig struct {
	Address      string        `yaml:"address"`       // e.g., ":8090"
	ReadTimeout  time.Duration `yaml:"read_timeout"`  // Default: 10s
	WriteTimeout time.Duration `yaml:"write_timeout"` // Default: 30s
	CORSOrigins  []string      `yaml:"cors_origins"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

type RedisConfig struct {
	URL      string `yaml:"url"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// SiteConfig describes the public site the service announces URLs for.
type SiteConfig struct {
	BaseURL     string `yaml:"base_url"`    // e.g., "https://signals.example.com"
	Name        string `yaml:"name"`        // Feed/meta title
	Description string `yaml:"description"` // Feed/meta description
}

// IndexingConfig configures the push-indexing coordinator.
type IndexingConfig struct {
	IndexNowKey  string `yaml:"indexnow_key"`  // Empty: generate per process
	GoogleToken  string `yaml:"google_token"`  // Empty: Google path disabled
	DailyQuota   int    `yaml:"daily_quota"`   // Default: 10000 units/day
	ResubmitCron string `yaml:"resubmit_cron"` // Cron spec; empty disables scheduled resubmit
}

type SEOConfig struct {
	CacheTTL time.Duration `yaml:"cache_ttl"` // Default: 1h
}

// Validate checks if the server configuration is valid and sets defaults.
func (c *ServerConfig) Validate() error {
	if c.Address == "" {
		c.Address = ":8090" // Default port
	}
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = DefaultReadTimeoutSeconds * time.Second
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = DefaultWriteTimeoutSeconds * time.Second
	}
	return nil
}

// Validate checks if the configuration is valid and returns an error if not.
func (c *Config) Validate() error {
	if c.Database.Host == "" {
		return errors.New("database.host is required")
	}
	if c.Database.DBName == "" {
		return errors.New("database.dbname is required")
	}
	if c.Site.BaseURL == "" {
		return errors.New("site.base_url is required")
	}
	parsed, err := url.Parse(c.Site.BaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("site.base_url must be an absolute URL, got %q", c.Site.BaseURL)
	}
	if c.Indexing.DailyQuota < 0 {
		return fmt.Errorf("indexing.daily_quota must not be negative, got %d", c.Indexing.DailyQuota)
	}
	return nil
}

// setDefaults sets default values for configuration fields
func setDefaults(cfg *Config) {
	if cfg.Database.Port == "" {
		cfg.Database.Port = "5432"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Indexing.DailyQuota == 0 {
		cfg.Indexing.DailyQuota = 10000
	}
	if cfg.SEO.CacheTTL == 0 {
		cfg.SEO.CacheTTL = DefaultSEOCacheTTL
	}
	if cfg.Site.Name == "" {
		cfg.Site.Name = "gosignal"
	}
	// Trailing slash on the base URL would double up in computed URLs.
	cfg.Site.BaseURL = strings.TrimRight(cfg.Site.BaseURL, "/")
}

// overrideWithEnvVars overrides configuration with environment variables
func overrideWithEnvVars(cfg *Config) {
	if dbHost := os.Getenv("DB_HOST"); dbHost != "" {
		cfg.Database.Host = dbHost
	}
	if dbPassword := os.Getenv("DB_PASSWORD"); dbPassword != "" {
		cfg.Database.Password = dbPassword
	}
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		cfg.Redis.URL = redisURL
	}
	if baseURL := os.Getenv("SITE_BASE_URL"); baseURL != "" {
		cfg.Site.BaseURL = baseURL
	}
	if key := os.Getenv("INDEXNOW_KEY"); key != "" {
		cfg.Indexing.IndexNowKey = key
	}
	if token := os.Getenv("GOOGLE_INDEXING_TOKEN"); token != "" {
		cfg.Indexing.GoogleToken = token
	}
	if appDebug := os.Getenv("APP_DEBUG"); appDebug != "" {
		cfg.Debug = parseBool(appDebug)
	}
	if port := os.Getenv("GOSIGNAL_PORT"); port != "" {
		cfg.Server.Address = ":" + port
	}
}

// Load reads the YAML config at path, applies defaults and env overrides,
// and validates the result. A .env file next to the process is honored if
// present.
func Load(path string) (*Config, error) {
	// Best-effort; absence of a .env file is normal.
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	setDefaults(&cfg)
	overrideWithEnvVars(&cfg)

	if err := cfg.Server.Validate(); err != nil {
		return nil, fmt.Errorf("server config validation: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// parseBool parses a string value as a boolean.
// Returns true for "true", "1", "yes" (case-insensitive), false otherwise.
func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "1" || s == "yes"
}
