package http

import (
	"context"
	"net/http"
	"strconv"

	"github.com/AlibekovAA/blog-api/internal/common/constants"
	commonerrors "github.com/AlibekovAA/blog-api/internal/common/errors"
	"github.com/AlibekovAA/blog-api/internal/common/httpmetrics"
	"github.com/AlibekovAA/blog-api/internal/common/logger"
	"github.com/AlibekovAA/blog-api/internal/observability/metrics"
)

type ErrorHandler struct {
	log *logger.Logger
}

func NewErrorHandler(log *logger.Logger) *ErrorHandler {
	return &ErrorHandler{log: log}
}

func (h *ErrorHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	if domainErr, ok := commonerrors.AsDomainError(err); ok && domainErr.Category() != commonerrors.CategoryInternal {
		h.handleDomainError(w, r, domainErr)
		return
	}

	ctx := r.Context()
	traceID := TraceIDFromContext(ctx)

	h.log.WithFields(ctx, logger.Fields{
		"error":  err.Error(),
		"path":   r.URL.Path,
		"method": r.Method,
		"action": "unhandled_error",
	}).Errorf("unhandled error: %v", err)

	metrics.HTTPErrorsTotal.WithLabelValues(
		strconv.Itoa(http.StatusInternalServerError),
		httpmetrics.NormalizePath(r.URL.Path),
		r.Method,
	).Inc()

	code := CodeInternal
	if domainErr, ok := commonerrors.AsDomainError(err); ok {
		code = domainErr.Code()
	}

	WriteErrorEnvelope(w, http.StatusInternalServerError, code, genericFailureMessage, nil, traceID)
}

func (h *ErrorHandler) handleDomainError(w http.ResponseWriter, r *http.Request, domainErr commonerrors.DomainError) {
	ctx := r.Context()
	traceID := TraceIDFromContext(ctx)

	status := domainErr.HTTPStatus()

	if h.log.ShouldLog(logger.DEBUG) {
		h.log.WithFields(ctx, logger.Fields{
			"error_code": domainErr.Code(),
			"category":   string(domainErr.Category()),
			"status":     status,
			"action":     "domain_error",
		}).Debugf("domain error: %s", domainErr.Error())
	}

	metrics.DomainErrorsTotal.WithLabelValues(
		string(domainErr.Category()),
		domainErr.Code(),
		strconv.Itoa(status),
	).Inc()

	metrics.HTTPErrorsTotal.WithLabelValues(
		strconv.Itoa(status),
		httpmetrics.NormalizePath(r.URL.Path),
		r.Method,
	).Inc()

	WriteErrorEnvelope(w, status, domainErr.Code(), domainErr.Message(), nil, traceID)
}

// NotFoundHandler answers every request that no route claimed.
func NotFoundHandler(log *logger.Logger) http.HandlerFunc {
	handler := NewErrorHandler(log)
	return func(w http.ResponseWriter, r *http.Request) {
		handler.HandleError(w, r, commonerrors.ErrRouteNotFound)
	}
}

func TraceIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	traceID, ok := ctx.Value(constants.TraceIDKey).(string)
	if !ok {
		return ""
	}
	return traceID
}
