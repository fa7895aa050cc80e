package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// ErrMissingCredentials is returned by Load when the Telegram token or chat
// id is absent. Everything else in the config is valid when it is returned.
var ErrMissingCredentials = errors.New("TELEGRAM_BOT_TOKEN and TELEGRAM_CHAT_ID are required")

// KST is the default reference zone for publication times.
var KST = time.FixedZone("KST", 9*60*60)

type Config struct {
	// Telegram settings
	TelegramToken  string
	TelegramChatID string
	DigestTitle    string

	// Feed settings
	FeedsConfigPath  string
	FetchTimeout     time.Duration
	FetchConcurrency int

	// Selection
	MaxArticles int
	TimeWindow  time.Duration
	Location    *time.Location

	// History settings
	HistoryBackend   string // file | postgres | sqlite | redis | s3
	HistoryRetention time.Duration
	HistoryFilePath  string
	DatabaseURL      string
	SQLitePath       string
	RedisAddr        string
	RedisPassword    string
	RedisDB          int
	RedisKey         string
	S3Bucket         string
	S3Key            string
	S3UsePathStyle   bool
	AWSRegion        string

	// Delivery
	SendAttempts   int
	SendRetryDelay time.Duration

	// App settings
	Schedule         string
	EnableMonitoring bool
	MonitoringPort   string
	Debug            bool
	LogFormat        string
}

// Backends lists the accepted HISTORY_BACKEND values.
var Backends = []string{"file", "postgres", "sqlite", "redis", "s3"}

// Load reads the configuration from the environment and validates it.
// The returned Config is usable even when the error is ErrMissingCredentials.
func Load() (*Config, error) {
	cfg := &Config{
		DigestTitle:      "워크랩 리서치 브리핑",
		FeedsConfigPath:  "configs/feeds.yaml",
		FetchTimeout:     20 * time.Second,
		FetchConcurrency: 4,
		MaxArticles:      10,
		TimeWindow:       48 * time.Hour,
		Location:         KST,
		HistoryBackend:   "file",
		HistoryRetention: 30 * 24 * time.Hour,
		HistoryFilePath:  "sent_history.json",
		SQLitePath:       "newsdigest.db",
		RedisAddr:        "localhost:6379",
		RedisKey:         "newsdigest:history",
		S3Key:            "newsdigest/history.json",
		SendAttempts:     1,
		SendRetryDelay:   5 * time.Second,
		Schedule:         "0 8 * * *",
		MonitoringPort:   "8080",
		LogFormat:        "text",
	}

	cfg.TelegramToken = strings.TrimSpace(os.Getenv("TELEGRAM_BOT_TOKEN"))
	cfg.TelegramChatID = strings.TrimSpace(os.Getenv("TELEGRAM_CHAT_ID"))
	cfg.DigestTitle = getEnvOrDefault("DIGEST_TITLE", cfg.DigestTitle)

	cfg.FeedsConfigPath = getEnvOrDefault("FEEDS_CONFIG_PATH", cfg.FeedsConfigPath)
	cfg.FetchTimeout = time.Duration(getEnvIntOrDefault("FETCH_TIMEOUT_SECONDS", 20)) * time.Second
	cfg.FetchConcurrency = getEnvIntOrDefault("FETCH_CONCURRENCY", cfg.FetchConcurrency)

	cfg.MaxArticles = getEnvIntOrDefault("MAX_ARTICLES", cfg.MaxArticles)
	cfg.TimeWindow = time.Duration(getEnvIntOrDefault("TIME_WINDOW_HOURS", 48)) * time.Hour

	// History
	cfg.HistoryBackend = strings.ToLower(getEnvOrDefault("HISTORY_BACKEND", cfg.HistoryBackend))
	cfg.HistoryRetention = time.Duration(getEnvIntOrDefault("HISTORY_RETENTION_DAYS", 30)) * 24 * time.Hour
	cfg.HistoryFilePath = getEnvOrDefault("HISTORY_FILE_PATH", cfg.HistoryFilePath)
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	cfg.SQLitePath = getEnvOrDefault("SQLITE_PATH", cfg.SQLitePath)
	cfg.RedisAddr = getEnvOrDefault("REDIS_ADDR", cfg.RedisAddr)
	cfg.RedisPassword = os.Getenv("REDIS_PASS")
	cfg.RedisDB = getEnvIntOrDefault("REDIS_DB", 0)
	cfg.RedisKey = getEnvOrDefault("HISTORY_REDIS_KEY", cfg.RedisKey)
	cfg.S3Bucket = os.Getenv("S3_BUCKET")
	cfg.S3Key = getEnvOrDefault("S3_KEY", cfg.S3Key)
	cfg.S3UsePathStyle = getEnvBool("S3_USE_PATH_STYLE")
	cfg.AWSRegion = os.Getenv("AWS_REGION")

	cfg.SendAttempts = getEnvIntOrDefault("SEND_ATTEMPTS", cfg.SendAttempts)
	cfg.SendRetryDelay = time.Duration(getEnvIntOrDefault("SEND_RETRY_DELAY_SECONDS", 5)) * time.Second

	cfg.Schedule = getEnvOrDefault("SCHEDULE", cfg.Schedule)
	cfg.EnableMonitoring = getEnvBool("ENABLE_HTTP_MONITORING")
	cfg.MonitoringPort = getEnvOrDefault("MONITORING_PORT", cfg.MonitoringPort)
	cfg.Debug = getEnvBool("DEBUG")
	cfg.LogFormat = strings.ToLower(getEnvOrDefault("LOG_FORMAT", cfg.LogFormat))

	if tz := os.Getenv("TIMEZONE"); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return cfg, fmt.Errorf("TIMEZONE %q: %w", tz, err)
		}
		cfg.Location = loc
	}

	return cfg, cfg.Validate()
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(key)))
	return err == nil && v
}

// Validate checks run parameters first and credentials last, so callers
// that do not deliver anything can tolerate ErrMissingCredentials.
func (c *Config) Validate() error {
	if c.MaxArticles < 1 {
		return fmt.Errorf("MAX_ARTICLES must be at least 1")
	}
	if c.TimeWindow <= 0 {
		return fmt.Errorf("TIME_WINDOW_HOURS must be positive")
	}
	if c.HistoryRetention <= 0 {
		return fmt.Errorf("HISTORY_RETENTION_DAYS must be positive")
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("FETCH_TIMEOUT_SECONDS must be positive")
	}
	if c.FetchConcurrency < 1 {
		return fmt.Errorf("FETCH_CONCURRENCY must be at least 1")
	}
	if c.SendAttempts < 1 {
		return fmt.Errorf("SEND_ATTEMPTS must be at least 1")
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("LOG_FORMAT must be 'text' or 'json'")
	}

	switch c.HistoryBackend {
	case "file":
		if c.HistoryFilePath == "" {
			return fmt.Errorf("HISTORY_FILE_PATH is required for the file backend")
		}
	case "postgres":
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres backend")
		}
	case "sqlite", "redis":
	case "s3":
		if c.S3Bucket == "" {
			return fmt.Errorf("S3_BUCKET is required for the s3 backend")
		}
	default:
		return fmt.Errorf("HISTORY_BACKEND must be one of %v, got %q", Backends, c.HistoryBackend)
	}

	if c.TelegramToken == "" || c.TelegramChatID == "" {
		return ErrMissingCredentials
	}
	return nil
}
