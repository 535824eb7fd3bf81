package http

import (
	"net/http"

	"github.com/AlibekovAA/blog-api/internal/common/httpmetrics"
	"github.com/AlibekovAA/blog-api/internal/common/logger"
)

func BuildBaseHandler(log *logger.Logger, maxRequestSize int64, limiter *StrictRateLimiter, handler http.Handler) http.Handler {
	collector := httpmetrics.New()
	recovery := RecoveryMiddleware(log)
	maxSize := MaxRequestSizeMiddleware(maxRequestSize)

	inner := collector.Wrap(handler)
	if limiter != nil {
		inner = limiter.Middleware(inner)
	}

	return SecurityHeadersMiddleware(TraceIDMiddleware(recovery(maxSize(inner))))
}
