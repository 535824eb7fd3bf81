package repository

import (
	"context"
	"errors"
	"time"

	"github.com/AlibekovAA/blog-api/internal/common/db"
	"github.com/AlibekovAA/blog-api/internal/user/domain"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
)

type Repository interface {
	Create(ctx context.Context, user domain.User) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
	FindByID(ctx context.Context, id domain.ID) (domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

type PgRepository struct {
	db db.Querier
}

func NewPgRepository(q db.Querier) *PgRepository {
	return &PgRepository{db: q}
}

func (r *PgRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	start := time.Now()
	row := r.db.QueryRow(
		ctx,
		`INSERT INTO users (id, name, email, password_hash)
		 VALUES ($1, $2, $3, $4)
		 RETURNING created_at, updated_at`,
		string(user.ID),
		user.Name,
		user.Email,
		user.PasswordHash,
	)

	err := row.Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil && db.IsUniqueViolation(err) {
		db.MeasureQueryDuration("create user", start)
		return domain.User{}, ErrEmailAlreadyExists
	}
	if err := db.HandleExecError(err, "create user", start); err != nil {
		return domain.User{}, err
	}

	return user, nil
}

func (r *PgRepository) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	start := time.Now()
	row := r.db.QueryRow(
		ctx,
		`SELECT id, name, email, password_hash, created_at, updated_at FROM users WHERE email = $1`,
		email,
	)

	var user domain.User
	err := row.Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)
	if err := db.HandleQueryError(err, ErrUserNotFound, "find user by email", start); err != nil {
		return domain.User{}, err
	}

	return user, nil
}

func (r *PgRepository) FindByID(ctx context.Context, id domain.ID) (domain.User, error) {
	start := time.Now()
	row := r.db.QueryRow(
		ctx,
		`SELECT id, name, email, password_hash, created_at, updated_at FROM users WHERE id = $1`,
		string(id),
	)

	var user domain.User
	err := row.Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)
	if err := db.HandleQueryError(err, ErrUserNotFound, "find user by id", start); err != nil {
		return domain.User{}, err
	}

	return user, nil
}

func (r *PgRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	start := time.Now()
	var exists bool
	err := r.db.QueryRow(
		ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`,
		email,
	).Scan(&exists)
	if err := db.HandleQueryError(err, ErrUserNotFound, "check user email", start); err != nil {
		return false, err
	}

	return exists, nil
}
