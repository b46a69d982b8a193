package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Miro   MiroConfig
	Backup BackupConfig
	S3     S3Config
}

// MiroConfig holds API credential and client tuning.
type MiroConfig struct {
	AccessToken string //nolint:gosec // G117: API credential config
	BaseURL     string
	HTTPTimeout time.Duration
	PageLimit   int
	RateLimit   float64
	RateBurst   int
}

// BackupConfig holds local output settings.
type BackupConfig struct {
	Dir       string
	BoardList string
}

// S3Config holds the optional archive mirror settings.
// The mirror is enabled iff Bucket is non-empty.
type S3Config struct {
	Bucket       string
	Endpoint     string
	Region       string
	AccessKey    string
	SecretKey    string //nolint:gosec // G117: S3 credential config
	UsePathStyle bool
	Prefix       string
}

// Load reads configuration from the environment. A .env file in the working
// directory is folded in first when present; real environment variables win.
func Load() (*Config, error) {
	// Credentials conventionally live in a .env file next to the binary.
	// Absence is fine, the variables may already be exported.
	_ = godotenv.Load()

	httpTimeout, err := getEnvDuration("MIRO_HTTP_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	pageLimit, err := getEnvInt("MIRO_PAGE_LIMIT", 50)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	rateLimit, err := getEnvFloat("MIRO_RATE_LIMIT", 4)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	rateBurst, err := getEnvInt("MIRO_RATE_BURST", 8)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	pathStyle, err := getEnvBool("MIRO_S3_PATH_STYLE", false)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	cfg := &Config{
		Miro: MiroConfig{
			AccessToken: strings.TrimSpace(os.Getenv("MIRO_ACCESS_TOKEN")),
			BaseURL:     getEnv("MIRO_BASE_URL", "https://api.miro.com/v2"),
			HTTPTimeout: httpTimeout,
			PageLimit:   pageLimit,
			RateLimit:   rateLimit,
			RateBurst:   rateBurst,
		},
		Backup: BackupConfig{
			Dir:       getEnv("MIRO_BACKUP_DIR", "backups"),
			BoardList: getEnv("MIRO_BOARD_LIST", "board_list.csv"),
		},
		S3: S3Config{
			Bucket:       getEnv("MIRO_S3_BUCKET", ""),
			Endpoint:     getEnv("MIRO_S3_ENDPOINT", ""),
			Region:       getEnv("MIRO_S3_REGION", "us-east-1"),
			AccessKey:    getEnv("MIRO_S3_ACCESS_KEY", ""),
			SecretKey:    getEnv("MIRO_S3_SECRET_KEY", ""),
			UsePathStyle: pathStyle,
			Prefix:       getEnv("MIRO_S3_PREFIX", ""),
		},
	}

	err = cfg.validate()
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	return cfg, nil
}

// validate checks required fields and value bounds.
func (c *Config) validate() error {
	if c.Miro.AccessToken == "" {
		return errors.New("MIRO_ACCESS_TOKEN is required")
	}
	if c.Miro.BaseURL == "" {
		return errors.New("MIRO_BASE_URL must not be empty")
	}
	if c.Miro.HTTPTimeout <= 0 {
		return fmt.Errorf("MIRO_HTTP_TIMEOUT must be positive, got %s", c.Miro.HTTPTimeout)
	}
	// The API caps page size at 50.
	if c.Miro.PageLimit < 1 || c.Miro.PageLimit > 50 {
		return fmt.Errorf("MIRO_PAGE_LIMIT must be 1-50, got %d", c.Miro.PageLimit)
	}
	if c.Miro.RateLimit <= 0 {
		return fmt.Errorf("MIRO_RATE_LIMIT must be positive, got %g", c.Miro.RateLimit)
	}
	if c.Miro.RateBurst < 1 {
		return fmt.Errorf("MIRO_RATE_BURST must be >= 1, got %d", c.Miro.RateBurst)
	}
	if c.Backup.Dir == "" {
		return errors.New("MIRO_BACKUP_DIR must not be empty")
	}
	if c.S3.Bucket != "" && c.S3.Region == "" {
		return errors.New("MIRO_S3_REGION is required when MIRO_S3_BUCKET is set")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("parsing %s=%q as int: %w", key, v, err)
	}
	return n, nil
}

func getEnvFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing %s=%q as float: %w", key, v, err)
	}
	return f, nil
}

func getEnvBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("parsing %s=%q as bool: %w", key, v, err)
	}
	return b, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parsing %s=%q as duration: %w", key, v, err)
	}
	return d, nil
}
