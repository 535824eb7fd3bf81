package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	authhttp "github.com/AlibekovAA/blog-api/internal/auth/http"
	authservice "github.com/AlibekovAA/blog-api/internal/auth/service"
	"github.com/AlibekovAA/blog-api/internal/common/clock"
	"github.com/AlibekovAA/blog-api/internal/common/config"
	commoncrypto "github.com/AlibekovAA/blog-api/internal/common/crypto"
	"github.com/AlibekovAA/blog-api/internal/common/db"
	commonhttp "github.com/AlibekovAA/blog-api/internal/common/http"
	"github.com/AlibekovAA/blog-api/internal/common/jwtverify"
	"github.com/AlibekovAA/blog-api/internal/common/logger"
	posthttp "github.com/AlibekovAA/blog-api/internal/post/http"
	postrepo "github.com/AlibekovAA/blog-api/internal/post/repository"
	postservice "github.com/AlibekovAA/blog-api/internal/post/service"
	userrepo "github.com/AlibekovAA/blog-api/internal/user/repository"
)

const ServiceName = "blog-api"

type App struct {
	Config  config.BlogConfig
	Log     *logger.Logger
	Pool    *pgxpool.Pool
	Limiter *commonhttp.StrictRateLimiter
	Handler http.Handler
}

// NewApp loads configuration, connects to the store, applies migrations and
// assembles the full middleware chain.
func NewApp(ctx context.Context) (*App, error) {
	if err := config.LoadDotEnv(); err != nil {
		return nil, err
	}

	log, err := logger.New(os.Getenv("LOG_DIR"), ServiceName, os.Getenv("LOG_LEVEL"))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	cfg, err := config.LoadBlogConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	pool := db.NewPool(ctx, log, cfg.DatabaseURL)

	if cfg.RunMigrations {
		if err := db.RunMigrations(ctx, log, cfg.DatabaseURL); err != nil {
			pool.Close()
			return nil, err
		}
	}

	limiter := commonhttp.NewStrictRateLimiter()
	mux := NewRouter(log, buildAuthHandler(cfg, pool, log), buildPostHandler(cfg, pool, log))

	return &App{
		Config:  cfg,
		Log:     log,
		Pool:    pool,
		Limiter: limiter,
		Handler: commonhttp.BuildBaseHandler(log, cfg.MaxRequestSize, limiter, mux),
	}, nil
}

func buildAuthHandler(cfg config.BlogConfig, pool *pgxpool.Pool, log *logger.Logger) *authhttp.Handler {
	svc := authservice.NewAuthService(
		authservice.AuthServiceDeps{
			Repo:        userrepo.NewPgRepository(pool),
			Hasher:      commoncrypto.NewBcryptHasher(cfg.BcryptCost),
			IDGenerator: commoncrypto.NewUUIDGenerator(),
			Clock:       clock.NewRealClock(),
			Log:         log,
		},
		authservice.AuthServiceConfig{
			JWTSecret:               cfg.JWTSecret,
			AccessTokenTTL:          cfg.TokenTTL,
			CircuitBreakerThreshold: cfg.CircuitBreakerThreshold,
			CircuitBreakerTimeout:   cfg.CircuitBreakerTimeout,
			CircuitBreakerReset:     cfg.CircuitBreakerReset,
		},
	)
	return authhttp.NewHandler(svc, log, cfg.RequestTimeout)
}

func buildPostHandler(cfg config.BlogConfig, pool *pgxpool.Pool, log *logger.Logger) *posthttp.Handler {
	svc := postservice.NewPostService(
		postservice.PostServiceDeps{
			Repo:        postrepo.NewPgRepository(pool),
			IDGenerator: commoncrypto.NewUUIDGenerator(),
			Clock:       clock.NewRealClock(),
			Log:         log,
		},
		postservice.PostServiceConfig{
			CircuitBreakerThreshold: cfg.CircuitBreakerThreshold,
			CircuitBreakerTimeout:   cfg.CircuitBreakerTimeout,
			CircuitBreakerReset:     cfg.CircuitBreakerReset,
		},
	)
	verifier := jwtverify.NewVerifier(cfg.JWTSecret, clock.NewRealClock())
	return posthttp.NewHandler(svc, verifier, log, cfg.RequestTimeout)
}

func NewRouter(log *logger.Logger, auth *authhttp.Handler, posts *posthttp.Handler) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", commonhttp.HomeHandler)
	mux.HandleFunc("GET /health", commonhttp.HealthHandler(log))
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("/", commonhttp.NotFoundHandler(log))

	auth.RegisterRoutes(mux)
	posts.RegisterRoutes(mux)

	return mux
}
