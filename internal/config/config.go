package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Application
	AppName string
	AppEnv  string
	Port    string

	// Database (optional driver switch via ENV, default: sqlite)
	DBDriver     string
	DBConnection string

	// Storage ("local" or "s3")
	StorageDriver   string
	UploadDir       string // Local root, one subdirectory per collection
	UploadURLPrefix string
	UploadMaxMemory int64 // Multipart bytes kept in memory before spilling to temp files
	UploadMaxBody   int64 // Whole multipart request, larger submissions get 413

	// Storage - S3-compatible (MinIO, AWS S3, Cloudflare R2, DigitalOcean Spaces, etc.)
	S3Region    string
	S3Bucket    string
	S3AccessKey string
	S3SecretKey string
	S3Endpoint  string // Optional: for S3-compatible services

	// AI analysis (GLM vision model, OpenAI-compatible chat completions)
	GLMAPIKey        string
	GLMAPIURL        string
	GLMModel         string
	GLMAuthMode      string // "bearer" or "jwt"
	AnalyzeTimeout   time.Duration
	AnalyzeRateLimit int // Requests per client IP per minute

	// Proxies whose X-Forwarded-For / X-Real-IP headers are believed (IPs or CIDRs)
	TrustedProxies []string

	// Observability (optional)
	SentryDSN string
}

func Load() *Config {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg := &Config{
		// Application
		AppName: envString("APP_NAME", "Campus Collector"),
		AppEnv:  envRequired("APP_ENV"), // Required: 'development' or 'production'
		Port:    envString("PORT", "8090"),

		// Database
		DBDriver:     envString("DB_DRIVER", "sqlite"),
		DBConnection: envString("DB_CONNECTION", "./data/photos.db?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"),

		// Storage
		StorageDriver:   envString("STORAGE_DRIVER", "local"),
		UploadDir:       envString("UPLOAD_DIR", "public/uploads"),
		UploadURLPrefix: envString("UPLOAD_URL_PREFIX", "/uploads"),
		UploadMaxMemory: envInt64("UPLOAD_MAX_MEMORY", 32<<20), // 32MB
		UploadMaxBody:   envInt64("UPLOAD_MAX_BODY", 200<<20),  // 200MB

		S3Region:    envString("S3_REGION", ""),
		S3Bucket:    envString("S3_BUCKET", ""),
		S3AccessKey: envString("S3_ACCESS_KEY", ""),
		S3SecretKey: envString("S3_SECRET_KEY", ""),
		S3Endpoint:  envString("S3_ENDPOINT", ""), // Optional: for non-AWS providers

		// AI analysis (GLM_API_KEY optional in development, required in production)
		GLMAPIKey:        envString("GLM_API_KEY", ""),
		GLMAPIURL:        envString("GLM_API_URL", "https://open.bigmodel.cn/api/paas/v4/chat/completions"),
		GLMModel:         envString("GLM_MODEL", "glm-4v-flash"),
		GLMAuthMode:      envString("GLM_AUTH_MODE", "bearer"),
		AnalyzeTimeout:   envDuration("ANALYZE_TIMEOUT", 60*time.Second),
		AnalyzeRateLimit: int(envInt64("ANALYZE_RATE_LIMIT", 20)),

		TrustedProxies: envList("TRUSTED_PROXIES"),

		// Observability
		SentryDSN: envString("SENTRY_DSN", ""),
	}

	if cfg.StorageDriver == "s3" {
		validateS3(cfg)
	}

	// Production: validate required services
	if cfg.IsProduction() {
		validateProduction(cfg)
	}

	return cfg
}

// validateProduction ensures all required services are configured for production deployments.
// Development allows the analysis endpoint to run unconfigured; it then answers with a configuration error.
func validateProduction(cfg *Config) {
	if cfg.GLMAPIKey == "" {
		slog.Error("production deployment requires GLM_API_KEY",
			"hint", "set APP_ENV=development to run without AI analysis")
		os.Exit(1)
	}
}

func validateS3(cfg *Config) {
	required := map[string]string{
		"S3_REGION":     cfg.S3Region,
		"S3_BUCKET":     cfg.S3Bucket,
		"S3_ACCESS_KEY": cfg.S3AccessKey,
		"S3_SECRET_KEY": cfg.S3SecretKey,
	}
	for key, value := range required {
		if value == "" {
			slog.Error("config required env var missing", "key", key, "storage_driver", cfg.StorageDriver)
			os.Exit(1)
		}
	}
}

func envString(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		value = def
	}
	return value
}

func envInt64(key string, def int64) int64 {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	i, err := strconv.ParseInt(v, 10, 64)
	if err != nil || i <= 0 {
		slog.Warn("config invalid integer, using default", "key", key, "value", v, "default", def)
		return def
	}
	return i
}

func envDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("config invalid duration, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}

// envList splits a comma-separated variable, dropping empty items.
func envList(key string) []string {
	var out []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func envRequired(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	slog.Error("config required env var missing", "key", key)
	os.Exit(1)
	return ""
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}
