package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const defaultJWTSecret = "your-secret-key-change-in-production"

// Config holds the whole application configuration.
// It is populated from environment variables (optionally seeded from .env).
type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Email     EmailConfig
	MinIO     MinIOConfig
	Admin     AdminConfig
	Notify    NotifyConfig
	Gemini    GeminiConfig
	RateLimit RateLimitConfig
	Search    SearchConfig
	Jobs      JobConfig
	Worker    WorkerConfig
	Log       LogConfig
}

type AppConfig struct {
	Name        string
	Environment string // development, staging, production
	Port        string
	Version     string
	CORSOrigins []string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	MaxConns int
	MinConns int
}

// DSN returns a libpq style URL, used by the migration runner.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Database, d.SSLMode)
}

type RedisConfig struct {
	Host     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret        string
	SessionExpiry int // minutes
}

// =====================================================
// EMAIL CONFIGURATION
// =====================================================

type EmailConfig struct {
	Enabled  bool
	Provider string // smtp, brevo
	From     string
	FromName string
	Timeout  time.Duration

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPUseSSL   bool

	BrevoAPIKey  string
	BrevoBaseURL string
}

type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	PublicURL string
}

// AdminConfig drives the OTP login flow.
type AdminConfig struct {
	ChallengeTTL time.Duration
	CookieSecure bool
}

type NotifyConfig struct {
	Mode       string // inline, queue
	AdminEmail string
	Timeout    time.Duration
}

type GeminiConfig struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
	Persona string // first line of the chatbot system prompt
}

type RateLimitConfig struct {
	Enabled   bool
	PerMinute int
}

// SearchConfig locates the blog full-text index. An empty path keeps it in memory.
type SearchConfig struct {
	IndexPath string
}

// JobConfig holds cron specs for scheduled asynq tasks.
type JobConfig struct {
	ClearExpiredOTPsCron string
}

type WorkerConfig struct {
	Concurrency int
	HealthPort  string
}

type LogConfig struct {
	Level      string
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Portfolio API"),
			Environment: getEnv("APP_ENV", "development"),
			Port:        getEnv("APP_PORT", "8080"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			CORSOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173"}),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "portfolio"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			MaxConns: getEnvInt("DB_MAX_CONNS", 10),
			MinConns: getEnvInt("DB_MIN_CONNS", 2),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			Secret:        getEnv("JWT_SECRET", defaultJWTSecret),
			SessionExpiry: getEnvInt("JWT_SESSION_EXPIRY", 720), // 12 hours
		},
		Email: EmailConfig{
			Enabled:      getEnvBool("EMAIL_ENABLED", true),
			Provider:     getEnv("EMAIL_PROVIDER", "smtp"),
			From:         getEnv("EMAIL_FROM", "noreply@example.com"),
			FromName:     getEnv("EMAIL_FROM_NAME", "Portfolio"),
			Timeout:      getEnvDuration("EMAIL_TIMEOUT", 10*time.Second),
			SMTPHost:     getEnv("SMTP_HOST", "localhost"),
			SMTPPort:     getEnvInt("SMTP_PORT", 587),
			SMTPUsername: getEnv("SMTP_USERNAME", ""),
			SMTPPassword: getEnv("SMTP_PASSWORD", ""),
			SMTPUseSSL:   getEnvBool("SMTP_USE_SSL", false),
			BrevoAPIKey:  getEnv("BREVO_API_KEY", ""),
			BrevoBaseURL: getEnv("BREVO_BASE_URL", "https://api.brevo.com/v3"),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
			AccessKey: getEnv("MINIO_ACCESS_KEY", "minioadmin"),
			SecretKey: getEnv("MINIO_SECRET_KEY", "minioadmin"),
			Bucket:    getEnv("MINIO_BUCKET", "portfolio"),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
			PublicURL: getEnv("MINIO_PUBLIC_URL", "http://localhost:9000"),
		},
		Admin: AdminConfig{
			ChallengeTTL: getEnvDuration("ADMIN_CHALLENGE_TTL", 15*time.Minute),
			CookieSecure: getEnvBool("ADMIN_COOKIE_SECURE", false),
		},
		Notify: NotifyConfig{
			Mode:       getEnv("QUERY_NOTIFY_MODE", "inline"),
			AdminEmail: getEnv("ADMIN_NOTIFY_EMAIL", ""),
			Timeout:    getEnvDuration("QUERY_NOTIFY_TIMEOUT", 10*time.Second),
		},
		Gemini: GeminiConfig{
			APIKey:  getEnv("GEMINI_API_KEY", ""),
			Model:   getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
			BaseURL: getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
			Timeout: getEnvDuration("GEMINI_TIMEOUT", 30*time.Second),
			Persona: getEnv("CHATBOT_PERSONA", ""),
		},
		RateLimit: RateLimitConfig{
			Enabled:   getEnvBool("RATE_LIMIT_ENABLED", true),
			PerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 10),
		},
		Search: SearchConfig{
			IndexPath: getEnv("SEARCH_INDEX_PATH", ""),
		},
		Jobs: JobConfig{
			ClearExpiredOTPsCron: getEnv("JOB_CLEAR_OTPS_CRON", "*/30 * * * *"),
		},
		Worker: WorkerConfig{
			Concurrency: getEnvInt("WORKER_CONCURRENCY", 5),
			HealthPort:  getEnv("WORKER_HEALTH_PORT", "9999"),
		},
		Log: LogConfig{
			Level:      getEnv("LOG_LEVEL", "info"),
			File:       getEnv("LOG_FILE", ""),
			MaxSizeMB:  getEnvInt("LOG_MAX_SIZE_MB", 50),
			MaxBackups: getEnvInt("LOG_MAX_BACKUPS", 5),
			MaxAgeDays: getEnvInt("LOG_MAX_AGE_DAYS", 28),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks settings that have no safe default.
func (c *Config) Validate() error {
	switch c.Email.Provider {
	case "smtp", "brevo":
	default:
		return fmt.Errorf("EMAIL_PROVIDER must be smtp or brevo, got %q", c.Email.Provider)
	}

	switch c.Notify.Mode {
	case "inline", "queue":
	default:
		return fmt.Errorf("QUERY_NOTIFY_MODE must be inline or queue, got %q", c.Notify.Mode)
	}

	if c.App.Environment == "production" {
		if c.JWT.Secret == defaultJWTSecret {
			return fmt.Errorf("JWT_SECRET must be set in production")
		}
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD must be set in production")
		}
		if c.Email.Provider == "brevo" && c.Email.BrevoAPIKey == "" {
			return fmt.Errorf("BREVO_API_KEY must be set when EMAIL_PROVIDER=brevo")
		}
	}

	return nil
}

// IsProduction reports whether the app runs with APP_ENV=production.
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// Helper functions
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
