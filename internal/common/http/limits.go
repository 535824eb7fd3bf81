package http

import (
	"net/http"

	"github.com/AlibekovAA/blog-api/internal/common/constants"
	commonerrors "github.com/AlibekovAA/blog-api/internal/common/errors"
)

// MaxRequestSizeMiddleware rejects bodies whose declared length is over
// maxBytes and caps the rest, so an undeclared oversized body fails inside
// DecodeJSONBody with the same 413.
func MaxRequestSizeMiddleware(maxBytes int64) func(http.Handler) http.Handler {
	if maxBytes <= 0 {
		maxBytes = constants.DefaultMaxRequestSize
	}
	tooLarge := commonerrors.ErrRequestTooLarge

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > maxBytes {
				WriteErrorEnvelope(w, tooLarge.HTTPStatus(), tooLarge.Code(), tooLarge.Message(), nil, TraceIDFromContext(r.Context()))
				return
			}

			if r.Body != nil && r.Body != http.NoBody {
				r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			}
			next.ServeHTTP(w, r)
		})
	}
}
