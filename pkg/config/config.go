// Package config handles configuration loading from YAML files
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Database      DatabaseConfig      `yaml:"database"`
	Redis         RedisConfig         `yaml:"redis"`
	Auth          AuthConfig          `yaml:"auth"`
	Log           LogConfig           `yaml:"log"`
	Downloads     DownloadsConfig     `yaml:"downloads"`
	Notifications NotificationsConfig `yaml:"notifications"`
	SMTP          SMTPConfig          `yaml:"smtp"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host  string `yaml:"host"`
	Port  int    `yaml:"port"`
	Debug bool   `yaml:"debug"`
	// PublicHost is the host the widgets are served from, used for the
	// same-origin check on the public endpoints.
	PublicHost string `yaml:"public_host"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	Charset  string `yaml:"charset"`
	PoolSize int    `yaml:"pool_size"`
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// AuthConfig holds admin authentication configuration
type AuthConfig struct {
	SecretKey                string `yaml:"secret_key"`
	AccessTokenExpireMinutes int    `yaml:"access_token_expire_minutes"`
	AdminUser                string `yaml:"admin_user"`
	// AdminPasswordHash is a bcrypt hash of the admin password.
	AdminPasswordHash string `yaml:"admin_password_hash"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"`
	Output     string `yaml:"output"`
	FilePath   string `yaml:"file_path"`
	MaxSize    int    `yaml:"max_size"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAge     int    `yaml:"max_age"`
	Compress   bool   `yaml:"compress"`
}

// DownloadsConfig holds the catalog and download-gate settings. This block is
// hot-reloadable; see core.SettingsWatcher.
type DownloadsConfig struct {
	RequireEmail bool `yaml:"require_email"`
	RequireName  bool `yaml:"require_name"`
	RequirePhone bool `yaml:"require_phone"`

	MinSearchChars int `yaml:"min_search_chars"`
	MaxSearchChars int `yaml:"max_search_chars"`

	// ExactMatch switches server-side search from word matching to
	// whole-title comparison.
	ExactMatch bool `yaml:"exact_match"`
	// ExcludedSearchText is a comma-delimited list of terms that silently
	// return an empty result set. Supports * wildcards.
	ExcludedSearchText string `yaml:"excluded_search_text"`

	RateLimit       int `yaml:"rate_limit"`
	RateLimitWindow int `yaml:"rate_limit_window_seconds"`

	Pagination PaginationDefaults `yaml:"pagination"`
}

// PaginationDefaults holds per-widget pagination defaults
type PaginationDefaults struct {
	Enabled      bool `yaml:"enabled"`
	RowsPerPage  int  `yaml:"rows_per_page"`
	PageWindow   int  `yaml:"page_window"`
	ShowControls bool `yaml:"show_controls"`
}

// NotificationsConfig holds email notification configuration
type NotificationsConfig struct {
	// NotifyIndividually sends a mail for every logged download.
	NotifyIndividually bool   `yaml:"notify_individually"`
	Email              string `yaml:"email"`
	Subject            string `yaml:"subject"`
	Message            string `yaml:"message"`
	// Schedule enables periodic CSV reports: "", "daily", "weekly", "monthly".
	Schedule string `yaml:"schedule"`
}

// SMTPConfig holds the outgoing mail server configuration
type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
}

var globalConfig *Config

// Load reads the YAML config file, applies environment overrides and defaults
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := validate(cfg); err != nil {
		return nil, err
	}

	globalConfig = cfg
	return cfg, nil
}

// Get returns the global configuration
func Get() *Config {
	return globalConfig
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 8080,
		},
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     3306,
			User:     "root",
			Database: "document_downloader",
			Charset:  "utf8mb4",
			PoolSize: 10,
		},
		Redis: RedisConfig{
			Host: "localhost",
			Port: 6379,
		},
		Auth: AuthConfig{
			AccessTokenExpireMinutes: 60,
			AdminUser:                "admin",
		},
		Log: LogConfig{
			Level:      "info",
			Format:     "json",
			Output:     "stdout",
			FilePath:   "logs/app.log",
			MaxSize:    100,
			MaxBackups: 5,
			MaxAge:     30,
			Compress:   true,
		},
		Downloads: DownloadsConfig{
			MinSearchChars:  3,
			MaxSearchChars:  100,
			RateLimit:       30,
			RateLimitWindow: 60,
			Pagination: PaginationDefaults{
				RowsPerPage:  50,
				PageWindow:   10,
				ShowControls: true,
			},
		},
		Notifications: NotificationsConfig{
			Subject: "Document downloaded: {file_name}",
			Message: "{title} was downloaded on {date}.{?email: Email: {email}}{?name: Name: {name}}{?phone: Phone: {phone}}",
		},
		SMTP: SMTPConfig{
			Host: "localhost",
			Port: 25,
		},
	}
}

func applyEnvOverrides(cfg *Config) {
	cfg.Server.Host = getEnv("SERVER_HOST", cfg.Server.Host)
	cfg.Server.Port = getIntEnv("SERVER_PORT", cfg.Server.Port)
	cfg.Database.Host = getEnv("DB_HOST", cfg.Database.Host)
	cfg.Database.Port = getIntEnv("DB_PORT", cfg.Database.Port)
	cfg.Database.User = getEnv("DB_USER", cfg.Database.User)
	cfg.Database.Password = getEnv("DB_PASSWORD", cfg.Database.Password)
	cfg.Database.Database = getEnv("DB_NAME", cfg.Database.Database)
	cfg.Redis.Host = getEnv("REDIS_HOST", cfg.Redis.Host)
	cfg.Redis.Port = getIntEnv("REDIS_PORT", cfg.Redis.Port)
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Auth.SecretKey = getEnv("AUTH_SECRET_KEY", cfg.Auth.SecretKey)
	cfg.SMTP.Password = getEnv("SMTP_PASSWORD", cfg.SMTP.Password)
}

func validate(cfg *Config) error {
	if cfg.Downloads.MinSearchChars < 1 {
		cfg.Downloads.MinSearchChars = 3
	}
	if cfg.Downloads.MaxSearchChars < cfg.Downloads.MinSearchChars {
		cfg.Downloads.MaxSearchChars = 100
	}
	if cfg.Downloads.RateLimit < 1 {
		cfg.Downloads.RateLimit = 30
	}
	if cfg.Downloads.RateLimitWindow < 1 {
		cfg.Downloads.RateLimitWindow = 60
	}
	if cfg.Downloads.Pagination.RowsPerPage < 1 {
		cfg.Downloads.Pagination.RowsPerPage = 50
	}
	if cfg.Downloads.Pagination.PageWindow < 1 {
		cfg.Downloads.Pagination.PageWindow = 10
	}
	switch cfg.Notifications.Schedule {
	case "", "daily", "weekly", "monthly":
	default:
		return fmt.Errorf("invalid notifications.schedule %q", cfg.Notifications.Schedule)
	}
	return nil
}

// getEnv returns environment variable value or default
func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// getIntEnv returns environment variable as int or default
func getIntEnv(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

// Addr returns the listen address in host:port form
func (s ServerConfig) Addr() string {
	return s.Host + ":" + strconv.Itoa(s.Port)
}

// DSN returns the MySQL data source name
func (d DatabaseConfig) DSN() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=true&loc=Local",
		d.User, d.Password, d.Host, d.Port, d.Database, d.Charset)
	return b.String()
}
