package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/AlibekovAA/blog-api/internal/common/constants"
	commonerrors "github.com/AlibekovAA/blog-api/internal/common/errors"
)

func ValidateUUID(s string) error {
	if s == "" {
		return commonerrors.ErrEmptyUUID
	}
	if _, err := uuid.Parse(s); err != nil {
		return commonerrors.ErrInvalidID.WithCause(err)
	}
	return nil
}

// PathID reads a uuid path wildcard registered on the mux pattern.
func PathID(r *http.Request, name string) (string, error) {
	id := strings.TrimSpace(r.PathValue(name))
	if err := ValidateUUID(id); err != nil {
		return "", err
	}
	return strings.ToLower(id), nil
}

type PageQuery struct {
	Page   int
	Limit  int
	Search string
}

func ParsePageQuery(r *http.Request) (PageQuery, error) {
	q := r.URL.Query()

	page, err := parsePositiveInt(q.Get("page"), constants.DefaultPage)
	if err != nil {
		return PageQuery{}, commonerrors.ErrValidation.WithMessage(`"page" must be a positive integer`)
	}

	limit, err := parsePositiveInt(q.Get("limit"), constants.DefaultPageLimit)
	if err != nil || limit > constants.MaxPageLimit {
		return PageQuery{}, commonerrors.ErrValidation.WithMessage(`"limit" must be between 1 and 100`)
	}

	return PageQuery{
		Page:   page,
		Limit:  limit,
		Search: strings.TrimSpace(q.Get("search")),
	}, nil
}

func parsePositiveInt(raw string, fallback int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	if v < 1 {
		return 0, strconv.ErrRange
	}
	return v, nil
}
