package jwtverify

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/AlibekovAA/blog-api/internal/common/clock"
	commonerrors "github.com/AlibekovAA/blog-api/internal/common/errors"
	commonhttp "github.com/AlibekovAA/blog-api/internal/common/http"
	"github.com/AlibekovAA/blog-api/internal/common/logger"
	"github.com/AlibekovAA/blog-api/internal/observability/metrics"
)

const (
	ClaimSubject   = "sub"
	ClaimEmail     = "email"
	ClaimIssuedAt  = "iat"
	ClaimExpiresAt = "exp"

	bearerPrefix = "Bearer "
)

// Claims is the identity asserted by a verified token.
type Claims struct {
	UserID    string
	Email     string
	ExpiresAt time.Time
}

// HandlerFunc is a handler that only runs for an authenticated request. The
// identity is passed explicitly rather than read back out of the request.
type HandlerFunc func(w http.ResponseWriter, r *http.Request, claims Claims)

type contextKey string

const claimsKey contextKey = "jwt_claims"

var (
	errMissingClaims = errors.New("missing sub or email claims")
	errInvalidClaims = errors.New("invalid claims type")
)

type Verifier struct {
	secret []byte
	clock  clock.Clock
}

func NewVerifier(secret string, clk clock.Clock) *Verifier {
	if clk == nil {
		clk = clock.NewRealClock()
	}
	return &Verifier{secret: []byte(secret), clock: clk}
}

func (v *Verifier) ParseToken(tokenString string) (Claims, error) {
	parsed, err := jwt.Parse(
		tokenString,
		func(token *jwt.Token) (any, error) {
			return v.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(v.clock.Now),
	)
	if err != nil {
		return Claims{}, err
	}
	if !parsed.Valid {
		return Claims{}, jwt.ErrTokenUnverifiable
	}

	mapClaims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, errInvalidClaims
	}

	sub, _ := mapClaims[ClaimSubject].(string)
	email, _ := mapClaims[ClaimEmail].(string)
	if sub == "" || email == "" {
		return Claims{}, errMissingClaims
	}

	claims := Claims{UserID: sub, Email: email}
	if exp, err := mapClaims.GetExpirationTime(); err == nil && exp != nil {
		claims.ExpiresAt = exp.Time
	}

	return claims, nil
}

// Require rejects requests without a valid bearer token before next runs.
// A missing header or a non-Bearer scheme is 401, a token that fails
// verification is 403.
func (v *Verifier) Require(log *logger.Logger, next HandlerFunc) http.Handler {
	errHandler := commonhttp.NewErrorHandler(log)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString, ok := bearerToken(r)
		if !ok {
			metrics.JWTValidationsFailed.WithLabelValues("missing").Inc()
			log.WithFields(r.Context(), logger.Fields{
				"path":   r.URL.Path,
				"action": "auth_missing_token",
			}).Warn("jwt auth failed: missing or invalid authorization header")
			errHandler.HandleError(w, r, commonerrors.ErrMissingAuthorization)
			return
		}

		metrics.JWTValidationsTotal.Inc()
		claims, err := v.ParseToken(tokenString)
		if err != nil {
			metrics.JWTValidationsFailed.WithLabelValues(failureReason(err)).Inc()
			log.WithFields(r.Context(), logger.Fields{
				"path":   r.URL.Path,
				"action": "auth_invalid_token",
			}).Warnf("jwt auth failed: %v", err)
			errHandler.HandleError(w, r, commonerrors.ErrInvalidToken.WithCause(err))
			return
		}

		ctx := context.WithValue(r.Context(), claimsKey, claims)
		next(w, r.WithContext(ctx), claims)
	})
}

func FromContext(ctx context.Context) (Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(Claims)
	return claims, ok
}

func bearerToken(r *http.Request) (string, bool) {
	raw := r.Header.Get("Authorization")
	if !strings.HasPrefix(raw, bearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(raw, bearerPrefix))
	if token == "" {
		return "", false
	}
	return token, true
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return "expired"
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return "signature"
	case errors.Is(err, jwt.ErrTokenMalformed):
		return "malformed"
	case errors.Is(err, errMissingClaims), errors.Is(err, errInvalidClaims):
		return "claims"
	default:
		return "invalid"
	}
}
