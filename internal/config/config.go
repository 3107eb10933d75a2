package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const (
	StorageLocal = "local"
	StorageS3    = "s3"
)

type Config struct {
	Port          string        `validate:"required,numeric"`
	DatabaseURL   string        `validate:"omitempty,url"`
	RedisAddr     string        `validate:"omitempty,hostname_port"`
	RedisPassword string
	CacheTTL      time.Duration `validate:"gte=0"`
	StorageDriver string        `validate:"oneof=local s3"`
	StorageDir    string        `validate:"required_if=StorageDriver local"`
	S3Bucket      string        `validate:"required_if=StorageDriver s3"`
	AWSRegion     string        `validate:"required_if=StorageDriver s3"`
	S3Endpoint    string        `validate:"omitempty,url"`
	ChromePath    string
	RenderTimeout time.Duration `validate:"gt=0"`
	LogLevel      string        `validate:"oneof=debug info warn error"`
	LogDev        bool
}

// Load reads .env when present and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from getenv and validates it.
func FromEnv(getenv func(string) string) (*Config, error) {
	get := func(key, def string) string {
		if v := getenv(key); v != "" {
			return v
		}
		return def
	}

	cacheTTL, err := time.ParseDuration(get("CACHE_TTL", "1h"))
	if err != nil {
		return nil, fmt.Errorf("config: CACHE_TTL: %w", err)
	}
	renderTimeout, err := time.ParseDuration(get("RENDER_TIMEOUT", "60s"))
	if err != nil {
		return nil, fmt.Errorf("config: RENDER_TIMEOUT: %w", err)
	}
	logDev, err := strconv.ParseBool(get("LOG_DEV", "false"))
	if err != nil {
		return nil, fmt.Errorf("config: LOG_DEV: %w", err)
	}

	cfg := &Config{
		Port:          get("PORT", "8080"),
		DatabaseURL:   get("DATABASE_URL", getenv("JOBS_DATABASE_URL")),
		RedisAddr:     getenv("REDIS_ADDR"),
		RedisPassword: getenv("REDIS_PASSWORD"),
		CacheTTL:      cacheTTL,
		StorageDriver: get("STORAGE_DRIVER", StorageLocal),
		StorageDir:    get("STORAGE_DIR", "resume-data"),
		S3Bucket:      getenv("S3_BUCKET"),
		AWSRegion:     get("AWS_REGION", getenv("AWS_DEFAULT_REGION")),
		S3Endpoint:    getenv("S3_ENDPOINT"),
		ChromePath:    getenv("CHROME_PATH"),
		RenderTimeout: renderTimeout,
		LogLevel:      get("LOG_LEVEL", "info"),
		LogDev:        logDev,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
