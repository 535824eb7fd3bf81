package http

import (
	"context"
	"net/http"
	"time"

	"github.com/AlibekovAA/blog-api/internal/auth/service"
	commonhttp "github.com/AlibekovAA/blog-api/internal/common/http"
	"github.com/AlibekovAA/blog-api/internal/common/logger"
)

const (
	RegisterPath = "/api/auth/registration"
	LoginPath    = "/api/auth/login"

	registerSuccessMessage = "User registration successfully!"
	loginSuccessMessage    = "User login successfully!"
)

type AuthService interface {
	Register(ctx context.Context, input service.RegisterInput) (service.AuthResult, error)
	Login(ctx context.Context, input service.LoginInput) (service.AuthResult, error)
}

type Handler struct {
	auth       AuthService
	log        *logger.Logger
	errHandler *commonhttp.ErrorHandler
	timeout    time.Duration
}

func NewHandler(auth AuthService, log *logger.Logger, timeout time.Duration) *Handler {
	return &Handler{
		auth:       auth,
		log:        log,
		errHandler: commonhttp.NewErrorHandler(log),
		timeout:    timeout,
	}
}

func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	withTimeout := commonhttp.WithTimeout(h.timeout)
	mux.HandleFunc("POST "+RegisterPath, withTimeout(h.register))
	mux.HandleFunc("POST "+LoginPath, withTimeout(h.login))
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterInput
	if err := commonhttp.DecodeJSONBody(r, &req); err != nil {
		h.log.WithFields(r.Context(), logger.Fields{
			"action": "register_decode_failed",
		}).Warnf("register failed: %v", err)
		h.errHandler.HandleError(w, r, err)
		return
	}

	result, err := h.auth.Register(r.Context(), req)
	if err != nil {
		h.errHandler.HandleError(w, r, err)
		return
	}

	commonhttp.WriteSuccess(w, http.StatusCreated, commonhttp.Envelope{
		Message: registerSuccessMessage,
		User:    result.User,
		Token:   result.Token,
	})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req service.LoginInput
	if err := commonhttp.DecodeJSONBody(r, &req); err != nil {
		h.log.WithFields(r.Context(), logger.Fields{
			"action": "login_decode_failed",
		}).Warnf("login failed: %v", err)
		h.errHandler.HandleError(w, r, err)
		return
	}

	result, err := h.auth.Login(r.Context(), req)
	if err != nil {
		h.errHandler.HandleError(w, r, err)
		return
	}

	commonhttp.WriteSuccess(w, http.StatusOK, commonhttp.Envelope{
		Message: loginSuccessMessage,
		User:    result.User,
		Token:   result.Token,
	})
}
