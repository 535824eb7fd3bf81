package service_test

import (
	"context"
	"errors"
	"strings"

	userdomain "github.com/AlibekovAA/blog-api/internal/user/domain"
	userrepo "github.com/AlibekovAA/blog-api/internal/user/repository"
)

type mockUserRepo struct {
	createFunc        func(ctx context.Context, user userdomain.User) (userdomain.User, error)
	findByEmailFunc   func(ctx context.Context, email string) (userdomain.User, error)
	findByIDFunc      func(ctx context.Context, id userdomain.ID) (userdomain.User, error)
	existsByEmailFunc func(ctx context.Context, email string) (bool, error)
}

func (m *mockUserRepo) Create(ctx context.Context, user userdomain.User) (userdomain.User, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, user)
	}
	return user, nil
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (userdomain.User, error) {
	if m.findByEmailFunc != nil {
		return m.findByEmailFunc(ctx, email)
	}
	return userdomain.User{}, userrepo.ErrUserNotFound
}

func (m *mockUserRepo) FindByID(ctx context.Context, id userdomain.ID) (userdomain.User, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return userdomain.User{}, userrepo.ErrUserNotFound
}

func (m *mockUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if m.existsByEmailFunc != nil {
		return m.existsByEmailFunc(ctx, email)
	}
	return false, nil
}

type mockHasher struct {
	hashFunc    func(password string) (string, error)
	compareFunc func(hash string, password string) error
}

var errMismatch = errors.New("password mismatch")

func (m *mockHasher) Hash(password string) (string, error) {
	if m.hashFunc != nil {
		return m.hashFunc(password)
	}
	return "hashed:" + password, nil
}

func (m *mockHasher) Compare(hash string, password string) error {
	if m.compareFunc != nil {
		return m.compareFunc(hash, password)
	}
	if strings.TrimPrefix(hash, "hashed:") != password {
		return errMismatch
	}
	return nil
}

type mockIDGenerator struct {
	newIDFunc func() (string, error)
}

func (m *mockIDGenerator) NewID() (string, error) {
	if m.newIDFunc != nil {
		return m.newIDFunc()
	}
	return "7c9e6679-7425-40de-944b-e07fc1f90ae7", nil
}
