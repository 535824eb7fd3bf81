package service

import (
	"net/http"

	commonerrors "github.com/AlibekovAA/blog-api/internal/common/errors"
)

var (
	ErrEmailTaken = commonerrors.NewDomainError(
		"EMAIL_TAKEN",
		commonerrors.CategoryConflict,
		http.StatusConflict,
		"User with this email already exists!",
	)

	ErrUserNotFound = commonerrors.NewDomainError(
		"USER_NOT_FOUND",
		commonerrors.CategoryNotFound,
		http.StatusNotFound,
		"User does not exist or invalid email!",
	)

	ErrInvalidPassword = commonerrors.NewDomainError(
		"INVALID_PASSWORD",
		commonerrors.CategoryUnauthorized,
		http.StatusUnauthorized,
		"Invalid password!",
	)

	ErrServiceUnavailable = commonerrors.ErrServiceUnavailable
)
