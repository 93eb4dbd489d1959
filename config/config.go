package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"backoffice-console/utils"
)

type Config struct {
	API     APIConfig
	Session SessionConfig
	Server  ServerConfig
	Logging LoggingConfig
	Cache   CacheConfig

	// Warnings are reported once the logger exists.
	Warnings []string
}

type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

type SessionConfig struct {
	Backend         string // file|redis|memory
	File            string
	RedisURL        string
	Secret          string
	SecretGenerated bool
	CookieName      string
	MaxAge          int
	Secure          bool
}

type ServerConfig struct {
	Port            string
	ShutdownTimeout time.Duration
	// LoginAttempts per LoginWindow and client address on the console.
	LoginAttempts int
	LoginWindow   time.Duration
}

type LoggingConfig struct {
	Level  string
	Format string
}

type CacheConfig struct {
	StaleTime          time.Duration
	StatsStaleTime     time.Duration
	ReferenceStaleTime time.Duration
	UnreadInterval     time.Duration
	GCTime             time.Duration
}

const (
	DefaultBaseURL = "http://localhost:8000"
	DefaultTimeout = 30 * time.Second
)

var durationDefaults = map[string]string{
	"api_timeout":                "30s",
	"server_shutdown_timeout":    "15s",
	"cache_stale_time":           "1m",
	"cache_stats_stale_time":     "5m",
	"cache_reference_stale_time": "30m",
	"unread_refresh_interval":    "30s",
	"cache_gc_time":              "10m",
	"login_rate_window":          "15m",
}

// Load reads .env (when present) and the environment. Invalid values are
// reported instead of silently replaced.
func Load() (*Config, error) {
	return loadEnv()
}

func loadEnv(files ...string) (*Config, error) {
	envErr := godotenv.Load(files...)
	cfg, err := load(newViper())
	if err != nil {
		return nil, err
	}
	if envErr != nil {
		cfg.Warnings = append(cfg.Warnings, fmt.Sprintf("error loading .env file: %v", envErr))
	}
	return cfg, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("api_base_url", DefaultBaseURL)
	v.SetDefault("session_backend", "file")
	v.SetDefault("session_cookie", "backoffice-session")
	v.SetDefault("session_max_age", 8*60*60)
	v.SetDefault("session_secure", false)
	v.SetDefault("redis_url", "redis://localhost:6379/0")
	v.SetDefault("server_port", "8090")
	v.SetDefault("login_rate_limit", 5)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	for key, def := range durationDefaults {
		v.SetDefault(key, def)
	}
	return v
}

func load(v *viper.Viper) (*Config, error) {
	durations := make(map[string]time.Duration, len(durationDefaults))
	for key := range durationDefaults {
		raw := v.GetString(key)
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", strings.ToUpper(key), err)
		}
		if d <= 0 {
			return nil, fmt.Errorf("invalid %s: must be positive", strings.ToUpper(key))
		}
		durations[key] = d
	}

	port := v.GetString("server_port")
	if n, err := strconv.Atoi(port); err != nil || n <= 0 || n > 65535 {
		return nil, fmt.Errorf("invalid SERVER_PORT value %q", port)
	}

	attempts := v.GetInt("login_rate_limit")
	if attempts <= 0 {
		return nil, fmt.Errorf("invalid LOGIN_RATE_LIMIT value %q", v.GetString("login_rate_limit"))
	}

	backend := strings.ToLower(v.GetString("session_backend"))
	switch backend {
	case "file", "redis", "memory":
	default:
		return nil, fmt.Errorf("invalid SESSION_BACKEND %q (want file, redis or memory)", backend)
	}

	cfg := &Config{
		API: APIConfig{
			BaseURL: strings.TrimRight(v.GetString("api_base_url"), "/"),
			Timeout: durations["api_timeout"],
		},
		Session: SessionConfig{
			Backend:    backend,
			File:       v.GetString("session_file"),
			RedisURL:   v.GetString("redis_url"),
			Secret:     v.GetString("session_secret"),
			CookieName: v.GetString("session_cookie"),
			MaxAge:     v.GetInt("session_max_age"),
			Secure:     v.GetBool("session_secure"),
		},
		Server: ServerConfig{
			Port:            port,
			ShutdownTimeout: durations["server_shutdown_timeout"],
			LoginAttempts:   attempts,
			LoginWindow:     durations["login_rate_window"],
		},
		Logging: LoggingConfig{
			Level:  v.GetString("log_level"),
			Format: v.GetString("log_format"),
		},
		Cache: CacheConfig{
			StaleTime:          durations["cache_stale_time"],
			StatsStaleTime:     durations["cache_stats_stale_time"],
			ReferenceStaleTime: durations["cache_reference_stale_time"],
			UnreadInterval:     durations["unread_refresh_interval"],
			GCTime:             durations["cache_gc_time"],
		},
	}

	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = DefaultBaseURL
	}
	if cfg.Session.File == "" {
		cfg.Session.File = defaultSessionFile()
	}
	if cfg.Session.Secret == "" {
		cfg.Session.Secret = utils.GenerateRandomString(64)
		cfg.Session.SecretGenerated = true
	}

	return cfg, nil
}

func defaultSessionFile() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return filepath.Join(os.TempDir(), "backoffice-session.json")
	}
	return filepath.Join(home, ".backoffice", "session.json")
}
