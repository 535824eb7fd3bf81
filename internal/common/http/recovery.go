package http

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/AlibekovAA/blog-api/internal/common/logger"
)

func RecoveryMiddleware(log *logger.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					if err == http.ErrAbortHandler {
						panic(err)
					}
					log.WithFields(r.Context(), logger.Fields{
						"path":   r.URL.Path,
						"method": r.Method,
						"action": "panic_recovered",
					}).Critical(fmt.Sprintf("panic recovered: %v\n%s", err, debug.Stack()))
					WriteErrorEnvelope(w, http.StatusInternalServerError, CodeInternal, genericFailureMessage, nil, TraceIDFromContext(r.Context()))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
