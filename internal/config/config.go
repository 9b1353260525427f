package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
	ConnectAttempts    int
}

// MinIOConfig holds object storage settings for MinIO.
// PublicURL, when set, is the base used to build file URLs handed to clients
// (e.g. a CDN or reverse proxy in front of the bucket).
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	PublicURL string
}

// AIConfig holds settings for the OpenAI-compatible enrichment API.
type AIConfig struct {
	APIKey    string
	BaseURL   string
	Model     string
	TagsModel string
	Timeout   time.Duration

	CacheSize int
	CacheTTL  time.Duration

	// RateLimit is the number of outbound calls per second; 0 disables limiting.
	RateLimit float64
	RateBurst int

	RetryMaxAttempts int
	BreakerEnabled   bool
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	Name           string
	Version        string
	Debug          bool
	AppHost        string
	Port           string
	LogLevel       string
	CORSOrigins    []string
	UploadMaxBytes int
	Database       DatabaseConfig
	MinIO          MinIOConfig
	AI             AIConfig
}

var defaultCORSOrigins = []string{
	"http://localhost:5000",
	"http://127.0.0.1:5000",
	"http://localhost:3000",
	"http://127.0.0.1:3000",
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		Name:           getEnv("APP_NAME", "Document Management System"),
		Version:        getEnv("APP_VERSION", "1.0.0"),
		Debug:          getEnvBool("APP_DEBUG", false),
		AppHost:        getEnv("APP_HOST", "localhost:8080"),
		Port:           getEnv("PORT", "8080"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		CORSOrigins:    corsOrigins(),
		UploadMaxBytes: getEnvInt("UPLOAD_MAX_BYTES", 32<<20),
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
			ConnectAttempts:    getEnvInt("DB_CONNECT_ATTEMPTS", 5),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", "documents"),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
			PublicURL: getEnv("MINIO_PUBLIC_URL", ""),
		},
		AI: AIConfig{
			APIKey:           getEnv("AI_API_KEY", ""),
			BaseURL:          getEnv("AI_BASE_URL", "https://api.openai.com/v1"),
			Model:            getEnv("AI_MODEL", "gpt-4"),
			TagsModel:        getEnv("AI_TAGS_MODEL", "gpt-3.5-turbo"),
			Timeout:          getEnvDuration("AI_TIMEOUT", 30*time.Second),
			CacheSize:        getEnvInt("AI_CACHE_SIZE", 1000),
			CacheTTL:         getEnvDuration("AI_CACHE_TTL", 24*time.Hour),
			RateLimit:        getEnvFloat("AI_RATE_LIMIT", 5),
			RateBurst:        getEnvInt("AI_RATE_BURST", 5),
			RetryMaxAttempts: getEnvInt("AI_RETRY_MAX_ATTEMPTS", 2),
			BreakerEnabled:   getEnvBool("AI_BREAKER_ENABLED", true),
		},
	}
}

// CORSAllowCredentials reports whether credentialed CORS requests can be allowed.
// A wildcard origin cannot be combined with credentials.
func (c *AppConfig) CORSAllowCredentials() bool {
	for _, o := range c.CORSOrigins {
		if o == "*" {
			return false
		}
	}
	return true
}

// corsOrigins returns CORS_ORIGINS when set, otherwise FRONTEND_URL followed by
// the local development origins.
func corsOrigins() []string {
	if v := getEnvList("CORS_ORIGINS"); len(v) > 0 {
		return v
	}
	frontend := getEnv("FRONTEND_URL", "http://localhost:3000")
	out := []string{frontend}
	for _, o := range defaultCORSOrigins {
		if o != frontend {
			out = append(out, o)
		}
	}
	return out
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err == nil {
			return f
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err == nil {
			return d
		}
	}
	return def
}

func getEnvList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
