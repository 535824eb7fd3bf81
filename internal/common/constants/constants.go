package constants

import "time"

const (
	NameMinLength      = 2
	NameMaxLength      = 100
	EmailMaxLength     = 254
	PasswordMinLength  = 8
	PasswordMaxLength  = 72
	JWTSecretMinLength = 32

	PostTitleMaxLength   = 255
	PostContentMaxLength = 50000

	DefaultPage      = 1
	DefaultPageLimit = 10
	MaxPageLimit     = 100

	DefaultMaxRequestSize = 1 << 20

	DBPoolMaxConns        = 25
	DBPoolMinConns        = 5
	DBPoolConnMaxLifetime = time.Hour
	DBPoolConnMaxIdleTime = 30 * time.Minute
	DBPoolHealthCheck     = 1 * time.Minute
	DBPoolConnectTimeout  = 5 * time.Second
	DBPoolMaxAttempts     = 10
	DBPoolRetryDelay      = 1 * time.Second
	DBPoolMetricsInterval = 30 * time.Second

	ServerReadHeaderTimeout = 10 * time.Second
	ServerReadTimeout       = 30 * time.Second
	ServerWriteTimeout      = 30 * time.Second
	ServerIdleTimeout       = 120 * time.Second

	ShutdownTimeout = 30 * time.Second
	DrainTimeout    = 10 * time.Second

	DefaultBlogHTTPPort       = "4000"
	DefaultBlogRequestTimeout = 5 * time.Second
	DefaultTokenTTL           = 24 * time.Hour
	DefaultBcryptCost         = 10

	DefaultCircuitBreakerThreshold = 50
	DefaultCircuitBreakerTimeout   = 5 * time.Second
	DefaultCircuitBreakerReset     = 10 * time.Second

	RateLimitCleanupInterval = 5 * time.Minute

	RateLimitLoginRequestsPerSecond    = 1.0
	RateLimitLoginBurst                = 5
	RateLimitRegisterRequestsPerSecond = 0.2
	RateLimitRegisterBurst             = 3
	RateLimitGeneralRequestsPerSecond  = 20.0
	RateLimitGeneralBurst              = 40

	LoggerMaxSize    = 100
	LoggerMaxBackups = 3
	LoggerMaxAge     = 28
	DefaultLogDir    = "/var/log/blog-api"
)

type TraceIDKeyType string

const TraceIDKey TraceIDKeyType = "trace_id"
