package service

import (
	"net/http"

	commonerrors "github.com/AlibekovAA/blog-api/internal/common/errors"
)

var (
	ErrPostNotFound = commonerrors.NewDomainError(
		"POST_NOT_FOUND",
		commonerrors.CategoryNotFound,
		http.StatusNotFound,
		"Post not found!",
	)

	ErrNotPostOwner = commonerrors.NewDomainError(
		"NOT_POST_OWNER",
		commonerrors.CategoryUnauthorized,
		http.StatusUnauthorized,
		"You are not authorized to modify this post!",
	)

	ErrServiceUnavailable = commonerrors.ErrServiceUnavailable
)
