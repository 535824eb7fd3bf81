package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/AlibekovAA/blog-api/internal/auth/service"
	commonerrors "github.com/AlibekovAA/blog-api/internal/common/errors"
	"github.com/AlibekovAA/blog-api/internal/common/jwtverify"
	userdomain "github.com/AlibekovAA/blog-api/internal/user/domain"
)

func existingUser(f authFixture) userdomain.User {
	return userdomain.User{
		ID:           testUserID,
		Name:         "Alice",
		Email:        "alice@example.com",
		PasswordHash: "hashed:password123",
		CreatedAt:    f.clock.Now(),
		UpdatedAt:    f.clock.Now(),
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	f := setupAuthService(t)

	var lookedUp string
	f.repo.findByEmailFunc = func(ctx context.Context, email string) (userdomain.User, error) {
		lookedUp = email
		return existingUser(f), nil
	}

	result, err := f.svc.Login(context.Background(), service.LoginInput{
		Email:    "ALICE@example.com",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if lookedUp != "alice@example.com" {
		t.Errorf("expected normalized lookup, got %q", lookedUp)
	}
	if result.User.ID != testUserID || result.User.Email != "alice@example.com" {
		t.Errorf("unexpected user %+v", result.User)
	}

	claims, err := jwtverify.NewVerifier(testJWTSecret, f.clock).ParseToken(result.Token)
	if err != nil {
		t.Fatalf("expected issued token to verify, got %v", err)
	}
	if claims.UserID != testUserID {
		t.Errorf("expected sub %s, got %s", testUserID, claims.UserID)
	}
}

func TestAuthService_Login_UserNotFound(t *testing.T) {
	f := setupAuthService(t)

	_, err := f.svc.Login(context.Background(), service.LoginInput{
		Email:    "nobody@example.com",
		Password: "password123",
	})
	if !errors.Is(err, service.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestAuthService_Login_NotFoundDoesNotOpenCircuit(t *testing.T) {
	f := setupAuthService(t)

	for i := 0; i < 5; i++ {
		_, err := f.svc.Login(context.Background(), service.LoginInput{
			Email:    "nobody@example.com",
			Password: "password123",
		})
		if !errors.Is(err, service.ErrUserNotFound) {
			t.Fatalf("attempt %d: expected ErrUserNotFound, got %v", i, err)
		}
	}
}

func TestAuthService_Login_InvalidPassword(t *testing.T) {
	f := setupAuthService(t)
	f.repo.findByEmailFunc = func(ctx context.Context, email string) (userdomain.User, error) {
		return existingUser(f), nil
	}

	result, err := f.svc.Login(context.Background(), service.LoginInput{
		Email:    "alice@example.com",
		Password: "wrong-password",
	})
	if !errors.Is(err, service.ErrInvalidPassword) {
		t.Fatalf("expected ErrInvalidPassword, got %v", err)
	}
	if result.Token != "" {
		t.Error("expected no token on failure")
	}
}

func TestAuthService_Login_ValidationFails(t *testing.T) {
	testCases := []struct {
		name  string
		input service.LoginInput
	}{
		{"missing email", service.LoginInput{Password: "password123"}},
		{"malformed email", service.LoginInput{Email: "alice", Password: "password123"}},
		{"missing password", service.LoginInput{Email: "alice@example.com"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := setupAuthService(t)
			f.repo.findByEmailFunc = func(ctx context.Context, email string) (userdomain.User, error) {
				t.Fatal("store must not be touched")
				return userdomain.User{}, nil
			}

			_, err := f.svc.Login(context.Background(), tc.input)
			if !errors.Is(err, commonerrors.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestAuthService_Login_StoreFailure(t *testing.T) {
	f := setupAuthService(t)
	boom := errors.New("connection reset")
	f.repo.findByEmailFunc = func(ctx context.Context, email string) (userdomain.User, error) {
		return userdomain.User{}, boom
	}

	_, err := f.svc.Login(context.Background(), service.LoginInput{
		Email:    "alice@example.com",
		Password: "password123",
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
}
