package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/AlibekovAA/blog-api/internal/common/clock"
	"github.com/AlibekovAA/blog-api/internal/common/jwtverify"
	userdomain "github.com/AlibekovAA/blog-api/internal/user/domain"
)

type TokenIssuer struct {
	jwtSecret      []byte
	clock          clock.Clock
	accessTokenTTL time.Duration
}

func NewTokenIssuer(jwtSecret string, accessTokenTTL time.Duration, clk clock.Clock) *TokenIssuer {
	if clk == nil {
		clk = clock.NewRealClock()
	}
	return &TokenIssuer{
		jwtSecret:      []byte(jwtSecret),
		clock:          clk,
		accessTokenTTL: accessTokenTTL,
	}
}

// IssueAccessToken signs an HS256 token carrying the user's id and email.
func (ti *TokenIssuer) IssueAccessToken(user userdomain.User) (string, time.Time, error) {
	now := ti.clock.Now()
	expiresAt := now.Add(ti.accessTokenTTL)
	claims := jwt.MapClaims{
		jwtverify.ClaimSubject:   string(user.ID),
		jwtverify.ClaimEmail:     user.Email,
		jwtverify.ClaimIssuedAt:  now.Unix(),
		jwtverify.ClaimExpiresAt: expiresAt.Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := t.SignedString(ti.jwtSecret)
	if err != nil {
		return "", time.Time{}, err
	}

	incrementAccessTokensIssued()
	return tokenString, expiresAt, nil
}
