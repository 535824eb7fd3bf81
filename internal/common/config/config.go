package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"github.com/AlibekovAA/blog-api/internal/common/constants"
)

var (
	ErrMissingRequiredEnv = errors.New("missing required environment variable")
	ErrInvalidJWTSecret   = errors.New("JWT_SECRET must be at least 32 bytes")
)

type BlogConfig struct {
	HTTPPort       string
	DatabaseURL    string
	JWTSecret      string
	RequestTimeout time.Duration
	TokenTTL       time.Duration
	BcryptCost     int
	MaxRequestSize int64
	RunMigrations  bool

	CircuitBreakerThreshold int32
	CircuitBreakerTimeout   time.Duration
	CircuitBreakerReset     time.Duration
}

// LoadDotEnv reads a .env file into the process environment when one exists.
// Variables already present in the environment win.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}
	return nil
}

func LoadBlogConfig() (BlogConfig, error) {
	jwtSecret, err := mustEnv("JWT_SECRET")
	if err != nil {
		return BlogConfig{}, err
	}

	if err := validateJWTSecret(jwtSecret); err != nil {
		return BlogConfig{}, err
	}

	databaseURL, err := mustEnv("DATABASE_URL")
	if err != nil {
		return BlogConfig{}, err
	}

	return BlogConfig{
		HTTPPort:       getEnv("BLOG_HTTP_PORT", getEnv("PORT", constants.DefaultBlogHTTPPort)),
		DatabaseURL:    databaseURL,
		JWTSecret:      jwtSecret,
		RequestTimeout: getDurationEnv("BLOG_REQUEST_TIMEOUT", constants.DefaultBlogRequestTimeout),
		TokenTTL:       getDurationEnv("BLOG_TOKEN_TTL", constants.DefaultTokenTTL),
		BcryptCost:     clampBcryptCost(getIntEnv("BLOG_BCRYPT_COST", constants.DefaultBcryptCost)),
		MaxRequestSize: getInt64Env("BLOG_MAX_REQUEST_SIZE", constants.DefaultMaxRequestSize),
		RunMigrations:  getBoolEnv("BLOG_RUN_MIGRATIONS", true),

		CircuitBreakerThreshold: int32(getIntEnv("BLOG_CB_THRESHOLD", constants.DefaultCircuitBreakerThreshold)),
		CircuitBreakerTimeout:   getDurationEnv("BLOG_CB_TIMEOUT", constants.DefaultCircuitBreakerTimeout),
		CircuitBreakerReset:     getDurationEnv("BLOG_CB_RESET", constants.DefaultCircuitBreakerReset),
	}, nil
}

func validateJWTSecret(secret string) error {
	if len(secret) < constants.JWTSecretMinLength {
		return fmt.Errorf("%w: got %d bytes", ErrInvalidJWTSecret, len(secret))
	}
	return nil
}

func clampBcryptCost(cost int) int {
	if cost < bcrypt.MinCost {
		return bcrypt.MinCost
	}
	if cost > bcrypt.MaxCost {
		return bcrypt.MaxCost
	}
	return cost
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func mustEnv(key string) (string, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return "", fmt.Errorf("%w: %s", ErrMissingRequiredEnv, key)
	}
	return v, nil
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func getIntEnv(key string, fallback int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return i
}

func getInt64Env(key string, fallback int64) int64 {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	i, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fallback
	}
	return i
}

func getBoolEnv(key string, fallback bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
