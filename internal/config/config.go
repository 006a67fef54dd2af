package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	DB       DBConfig
	JWT      JWTConfig
	S3       S3Config
	Log      LogConfig
	Learning LearningConfig
	Notify   NotifyConfig
	CORS     CORSConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// JWTConfig holds JWT signing and expiry settings.
type JWTConfig struct {
	Secret            string        `mapstructure:"secret"`
	AccessTokenExpiry time.Duration `mapstructure:"access_expiry"`
	Issuer            string        `mapstructure:"issuer"`
}

// S3Config holds AWS S3 settings for export storage.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// LearningConfig holds rule-learning pipeline settings.
type LearningConfig struct {
	// CandidateThreshold is the occurrence count at which a pattern becomes
	// a candidate for rule inference.
	CandidateThreshold int `mapstructure:"candidate_threshold"`
	// BatchSize caps the candidates processed per batch run.
	BatchSize int `mapstructure:"batch_size"`
	// Concurrency bounds parallel pattern pipelines per batch.
	Concurrency int `mapstructure:"concurrency"`
	// PollInterval is how often the background worker scans for candidates.
	PollInterval time.Duration `mapstructure:"poll_interval"`
	// SampleLimit caps the correction samples fed to inference.
	SampleLimit int `mapstructure:"sample_limit"`
	// SampleCases caps the representative cases stored on a suggestion.
	SampleCases int `mapstructure:"sample_cases"`
	// WindowDays is the historical window replayed during simulation.
	WindowDays int `mapstructure:"window_days"`
}

// NotifyConfig holds reviewer notification settings.
type NotifyConfig struct {
	Provider    string `mapstructure:"provider"`
	Region      string `mapstructure:"region"`
	FromAddress string `mapstructure:"from_address"`
	FromName    string `mapstructure:"from_name"`
	FrontendURL string `mapstructure:"frontend_url"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// Load reads configuration from environment variables with the FREIGHTIQ_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("FREIGHTIQ")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "freightiq")
	v.SetDefault("db.password", "freightiq_secret")
	v.SetDefault("db.name", "freightiq_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// JWT defaults
	v.SetDefault("jwt.secret", "change-me-in-production")
	v.SetDefault("jwt.access_expiry", "15m")
	v.SetDefault("jwt.issuer", "freightiq")

	// S3 defaults
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "freightiq-exports")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.presign_expiry", 3600)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// Learning defaults
	v.SetDefault("learning.candidate_threshold", 3)
	v.SetDefault("learning.batch_size", 50)
	v.SetDefault("learning.concurrency", 5)
	v.SetDefault("learning.poll_interval", "5m")
	v.SetDefault("learning.sample_limit", 10)
	v.SetDefault("learning.sample_cases", 5)
	v.SetDefault("learning.window_days", 30)

	// Notify defaults
	v.SetDefault("notify.provider", "noop")
	v.SetDefault("notify.region", "us-east-1")
	v.SetDefault("notify.from_address", "noreply@freightiq.io")
	v.SetDefault("notify.from_name", "FreightIQ")
	v.SetDefault("notify.frontend_url", "http://localhost:3000")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                  "FREIGHTIQ_SERVER_PORT",
		"server.read_timeout":          "FREIGHTIQ_SERVER_READ_TIMEOUT",
		"server.write_timeout":         "FREIGHTIQ_SERVER_WRITE_TIMEOUT",
		"server.environment":           "FREIGHTIQ_SERVER_ENVIRONMENT",
		"db.host":                      "FREIGHTIQ_DB_HOST",
		"db.port":                      "FREIGHTIQ_DB_PORT",
		"db.user":                      "FREIGHTIQ_DB_USER",
		"db.password":                  "FREIGHTIQ_DB_PASSWORD",
		"db.name":                      "FREIGHTIQ_DB_NAME",
		"db.sslmode":                   "FREIGHTIQ_DB_SSLMODE",
		"db.max_open":                  "FREIGHTIQ_DB_MAX_OPEN",
		"db.max_idle":                  "FREIGHTIQ_DB_MAX_IDLE",
		"jwt.secret":                   "FREIGHTIQ_JWT_SECRET",
		"jwt.access_expiry":            "FREIGHTIQ_JWT_ACCESS_EXPIRY",
		"jwt.issuer":                   "FREIGHTIQ_JWT_ISSUER",
		"s3.region":                    "FREIGHTIQ_S3_REGION",
		"s3.bucket":                    "FREIGHTIQ_S3_BUCKET",
		"s3.endpoint":                  "FREIGHTIQ_S3_ENDPOINT",
		"s3.access_key":                "FREIGHTIQ_S3_ACCESS_KEY",
		"s3.secret_key":                "FREIGHTIQ_S3_SECRET_KEY",
		"s3.presign_expiry":            "FREIGHTIQ_S3_PRESIGN_EXPIRY",
		"log.level":                    "FREIGHTIQ_LOG_LEVEL",
		"log.format":                   "FREIGHTIQ_LOG_FORMAT",
		"learning.candidate_threshold": "FREIGHTIQ_LEARNING_CANDIDATE_THRESHOLD",
		"learning.batch_size":          "FREIGHTIQ_LEARNING_BATCH_SIZE",
		"learning.concurrency":         "FREIGHTIQ_LEARNING_CONCURRENCY",
		"learning.poll_interval":       "FREIGHTIQ_LEARNING_POLL_INTERVAL",
		"learning.sample_limit":        "FREIGHTIQ_LEARNING_SAMPLE_LIMIT",
		"learning.sample_cases":        "FREIGHTIQ_LEARNING_SAMPLE_CASES",
		"learning.window_days":         "FREIGHTIQ_LEARNING_WINDOW_DAYS",
		"notify.provider":              "FREIGHTIQ_NOTIFY_PROVIDER",
		"notify.region":                "FREIGHTIQ_NOTIFY_REGION",
		"notify.from_address":          "FREIGHTIQ_NOTIFY_FROM_ADDRESS",
		"notify.from_name":             "FREIGHTIQ_NOTIFY_FROM_NAME",
		"notify.frontend_url":          "FREIGHTIQ_NOTIFY_FRONTEND_URL",
		"cors.allowed_origins":         "FREIGHTIQ_CORS_ALLOWED_ORIGINS",
	}
	for key, env := range envBindings {
		if val, ok := os.LookupEnv(env); ok {
			v.Set(key, val)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	// viper reads comma-separated origins as a single string
	if len(cfg.CORS.AllowedOrigins) == 1 && strings.Contains(cfg.CORS.AllowedOrigins[0], ",") {
		cfg.CORS.AllowedOrigins = strings.Split(cfg.CORS.AllowedOrigins[0], ",")
	}

	return &cfg, nil
}
