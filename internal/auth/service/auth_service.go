package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/AlibekovAA/blog-api/internal/common/clock"
	"github.com/AlibekovAA/blog-api/internal/common/constants"
	commoncrypto "github.com/AlibekovAA/blog-api/internal/common/crypto"
	"github.com/AlibekovAA/blog-api/internal/common/db"
	"github.com/AlibekovAA/blog-api/internal/common/dto"
	commonerrors "github.com/AlibekovAA/blog-api/internal/common/errors"
	"github.com/AlibekovAA/blog-api/internal/common/logger"
	"github.com/AlibekovAA/blog-api/internal/common/mapper"
	"github.com/AlibekovAA/blog-api/internal/common/resilience"
	"github.com/AlibekovAA/blog-api/internal/common/validation"
	userdomain "github.com/AlibekovAA/blog-api/internal/user/domain"
	userrepo "github.com/AlibekovAA/blog-api/internal/user/repository"
)

type AuthService struct {
	repo           userrepo.Repository
	hasher         commoncrypto.PasswordHasher
	idGenerator    commoncrypto.IDGenerator
	tokenIssuer    *TokenIssuer
	circuitBreaker *resilience.CircuitBreaker
	retry          db.RetryConfig
	clock          clock.Clock
	log            *logger.Logger
}

type AuthServiceDeps struct {
	Repo        userrepo.Repository
	Hasher      commoncrypto.PasswordHasher
	IDGenerator commoncrypto.IDGenerator
	Clock       clock.Clock
	Log         *logger.Logger
}

type AuthServiceConfig struct {
	JWTSecret               string
	AccessTokenTTL          time.Duration
	CircuitBreakerThreshold int32
	CircuitBreakerTimeout   time.Duration
	CircuitBreakerReset     time.Duration
	Retry                   db.RetryConfig
}

func NewAuthService(deps AuthServiceDeps, config AuthServiceConfig) *AuthService {
	clk := deps.Clock
	if clk == nil {
		clk = clock.NewRealClock()
	}

	retry := config.Retry
	if retry.MaxAttempts == 0 {
		retry = db.DefaultRetryConfig
	}

	return &AuthService{
		repo:        deps.Repo,
		hasher:      deps.Hasher,
		idGenerator: deps.IDGenerator,
		tokenIssuer: NewTokenIssuer(config.JWTSecret, config.AccessTokenTTL, clk),
		circuitBreaker: resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
			Threshold:  config.CircuitBreakerThreshold,
			Timeout:    config.CircuitBreakerTimeout,
			ResetAfter: config.CircuitBreakerReset,
			Name:       "auth_store",
			Logger:     deps.Log,
			Clock:      clk,
		}),
		retry: retry,
		clock: clk,
		log:   deps.Log,
	}
}

type RegisterInput struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResult struct {
	User      dto.User
	Token     string
	ExpiresAt time.Time
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// callStore runs fn behind the circuit breaker and retries transient
// postgres failures.
func (s *AuthService) callStore(ctx context.Context, fn func(context.Context) error) error {
	err := s.circuitBreaker.Call(ctx, func(ctx context.Context) error {
		return db.RetryWithBackoff(ctx, s.log, s.retry, fn)
	})
	return commonerrors.FromCircuitBreaker(err)
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (AuthResult, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = normalizeEmail(input.Email)

	s.log.WithFields(ctx, logger.Fields{
		"email":  input.Email,
		"action": "register_attempt",
	}).Info("register attempt")

	if err := validateRegister(input); err != nil {
		recordRegistration("invalid")
		s.log.WithFields(ctx, logger.Fields{
			"email":  input.Email,
			"action": "register_validation_failed",
		}).Warnf("register validation failed: %v", err)
		return AuthResult{}, err
	}

	var exists bool
	err := s.callStore(ctx, func(ctx context.Context) error {
		var err error
		exists, err = s.repo.ExistsByEmail(ctx, input.Email)
		return err
	})
	if err != nil {
		recordRegistration("error")
		s.log.WithFields(ctx, logger.Fields{
			"email":  input.Email,
			"action": "register_lookup_failed",
		}).Errorf("register failed: lookup error: %v", err)
		return AuthResult{}, commonerrors.WrapInternal("REGISTER_LOOKUP_FAILED", "failed to check email", err)
	}
	if exists {
		recordRegistration("conflict")
		s.log.WithFields(ctx, logger.Fields{
			"email":  input.Email,
			"action": "register_email_exists",
		}).Warn("register failed: email already exists")
		return AuthResult{}, ErrEmailTaken
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		recordRegistration("error")
		s.log.WithFields(ctx, logger.Fields{
			"email":  input.Email,
			"action": "register_hash_failed",
		}).Errorf("register failed: password hash error: %v", err)
		return AuthResult{}, commonerrors.Internal("PASSWORD_HASH_FAILED", "failed to hash password", err)
	}

	id, err := s.idGenerator.NewID()
	if err != nil {
		recordRegistration("error")
		s.log.WithFields(ctx, logger.Fields{
			"email":  input.Email,
			"action": "register_id_generation_failed",
		}).Errorf("register failed: id generation error: %v", err)
		return AuthResult{}, commonerrors.Internal("ID_GENERATION_FAILED", "failed to generate id", err)
	}

	now := s.clock.Now()
	user := userdomain.User{
		ID:           userdomain.ID(id),
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = s.callStore(ctx, func(ctx context.Context) error {
		created, err := s.repo.Create(ctx, user)
		if errors.Is(err, userrepo.ErrEmailAlreadyExists) {
			return ErrEmailTaken
		}
		if err != nil {
			return err
		}
		user = created
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			recordRegistration("conflict")
			s.log.WithFields(ctx, logger.Fields{
				"email":  input.Email,
				"action": "register_email_exists",
			}).Warn("register failed: email already exists")
			return AuthResult{}, ErrEmailTaken
		}
		recordRegistration("error")
		s.log.WithFields(ctx, logger.Fields{
			"email":  input.Email,
			"action": "register_create_failed",
		}).Errorf("register failed: %v", err)
		return AuthResult{}, commonerrors.WrapInternal("USER_CREATE_FAILED", "failed to create user", err)
	}

	token, expiresAt, err := s.tokenIssuer.IssueAccessToken(user)
	if err != nil {
		recordRegistration("error")
		s.log.WithFields(ctx, logger.Fields{
			"user_id": string(user.ID),
			"action":  "register_token_issue_failed",
		}).Errorf("register failed: token issue error: %v", err)
		return AuthResult{}, commonerrors.Internal("TOKEN_ISSUE_FAILED", "failed to issue token", err)
	}

	recordRegistration("success")
	s.log.WithFields(ctx, logger.Fields{
		"email":   user.Email,
		"user_id": string(user.ID),
		"action":  "register_success",
	}).Info("register success")

	return AuthResult{User: mapper.UserToDTO(user), Token: token, ExpiresAt: expiresAt}, nil
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (AuthResult, error) {
	input.Email = normalizeEmail(input.Email)

	s.log.WithFields(ctx, logger.Fields{
		"email":  input.Email,
		"action": "login_attempt",
	}).Info("login attempt")

	if err := validation.Struct(input); err != nil {
		recordLogin("invalid")
		s.log.WithFields(ctx, logger.Fields{
			"email":  input.Email,
			"action": "login_validation_failed",
		}).Warnf("login validation failed: %v", err)
		return AuthResult{}, err
	}

	var user userdomain.User
	found := true
	err := s.callStore(ctx, func(ctx context.Context) error {
		var err error
		user, err = s.repo.FindByEmail(ctx, input.Email)
		if errors.Is(err, userrepo.ErrUserNotFound) {
			found = false
			return nil
		}
		return err
	})
	if err != nil {
		recordLogin("error")
		s.log.WithFields(ctx, logger.Fields{
			"email":  input.Email,
			"action": "login_fetch_failed",
		}).Errorf("login failed: %v", err)
		return AuthResult{}, commonerrors.WrapInternal("USER_FETCH_FAILED", "failed to fetch user", err)
	}
	if !found {
		recordLogin("not_found")
		s.log.WithFields(ctx, logger.Fields{
			"email":  input.Email,
			"action": "login_user_not_found",
		}).Warn("login failed: not found")
		return AuthResult{}, ErrUserNotFound
	}

	if err := s.hasher.Compare(user.PasswordHash, input.Password); err != nil {
		recordLogin("invalid_password")
		s.log.WithFields(ctx, logger.Fields{
			"email":  input.Email,
			"action": "login_invalid_password",
		}).Warn("login failed: invalid password")
		return AuthResult{}, ErrInvalidPassword
	}

	token, expiresAt, err := s.tokenIssuer.IssueAccessToken(user)
	if err != nil {
		recordLogin("error")
		s.log.WithFields(ctx, logger.Fields{
			"user_id": string(user.ID),
			"action":  "login_token_issue_failed",
		}).Errorf("login failed: token issue error: %v", err)
		return AuthResult{}, commonerrors.Internal("TOKEN_ISSUE_FAILED", "failed to issue token", err)
	}

	recordLogin("success")
	s.log.WithFields(ctx, logger.Fields{
		"email":   user.Email,
		"user_id": string(user.ID),
		"action":  "login_success",
	}).Info("login success")

	return AuthResult{User: mapper.UserToDTO(user), Token: token, ExpiresAt: expiresAt}, nil
}

func validateRegister(input RegisterInput) error {
	if err := validation.Struct(input); err != nil {
		return err
	}
	// bcrypt rejects input over 72 bytes; multi-byte passwords reach that
	// before 72 characters.
	if len(input.Password) > constants.PasswordMaxLength {
		return commonerrors.ErrValidation.WithMessage(`"password" is too long`)
	}
	return nil
}
