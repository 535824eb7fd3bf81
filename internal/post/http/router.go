package http

import (
	"context"
	"net/http"
	"time"

	"github.com/AlibekovAA/blog-api/internal/common/dto"
	commonhttp "github.com/AlibekovAA/blog-api/internal/common/http"
	"github.com/AlibekovAA/blog-api/internal/common/jwtverify"
	"github.com/AlibekovAA/blog-api/internal/common/logger"
	postdomain "github.com/AlibekovAA/blog-api/internal/post/domain"
	"github.com/AlibekovAA/blog-api/internal/post/service"
	userdomain "github.com/AlibekovAA/blog-api/internal/user/domain"
)

const (
	createdMessage = "New post created successfully!"
	updatedMessage = "Post updated successfully!"
	deletedMessage = "Post deleted successfully!"
)

type PostService interface {
	List(ctx context.Context, input service.ListInput) (service.ListResult, error)
	ListMine(ctx context.Context, authorID userdomain.ID, input service.ListInput) (service.ListResult, error)
	Get(ctx context.Context, id postdomain.ID) (dto.PostWithAuthor, error)
	Create(ctx context.Context, authorID userdomain.ID, input service.CreateInput) (dto.Post, error)
	Update(ctx context.Context, authorID userdomain.ID, id postdomain.ID, input service.UpdateInput) (dto.Post, error)
	Delete(ctx context.Context, authorID userdomain.ID, id postdomain.ID) error
}

type Handler struct {
	posts      PostService
	verifier   *jwtverify.Verifier
	log        *logger.Logger
	errHandler *commonhttp.ErrorHandler
	timeout    time.Duration
}

func NewHandler(posts PostService, verifier *jwtverify.Verifier, log *logger.Logger, timeout time.Duration) *Handler {
	return &Handler{
		posts:      posts,
		verifier:   verifier,
		log:        log,
		errHandler: commonhttp.NewErrorHandler(log),
		timeout:    timeout,
	}
}

func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	withTimeout := commonhttp.WithTimeout(h.timeout)

	mux.HandleFunc("GET /api/posts", withTimeout(h.list))
	mux.Handle("GET /api/posts/me", h.protected(h.listMine))
	mux.HandleFunc("GET /api/posts/{id}", withTimeout(h.get))
	mux.Handle("POST /api/posts/create", h.protected(h.create))
	mux.Handle("PUT /api/posts/update/{id}", h.protected(h.update))
	mux.Handle("DELETE /api/posts/delete/{id}", h.protected(h.delete))
}

// protected runs next only for a verified bearer token, under the request
// timeout.
func (h *Handler) protected(next jwtverify.HandlerFunc) http.Handler {
	return commonhttp.WithTimeout(h.timeout)(h.verifier.Require(h.log, next).ServeHTTP)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	query, err := commonhttp.ParsePageQuery(r)
	if err != nil {
		h.errHandler.HandleError(w, r, err)
		return
	}

	result, err := h.posts.List(r.Context(), toListInput(query))
	if err != nil {
		h.errHandler.HandleError(w, r, err)
		return
	}

	writePage(w, result)
}

func (h *Handler) listMine(w http.ResponseWriter, r *http.Request, claims jwtverify.Claims) {
	query, err := commonhttp.ParsePageQuery(r)
	if err != nil {
		h.errHandler.HandleError(w, r, err)
		return
	}

	result, err := h.posts.ListMine(r.Context(), userdomain.ID(claims.UserID), toListInput(query))
	if err != nil {
		h.errHandler.HandleError(w, r, err)
		return
	}

	writePage(w, result)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := commonhttp.PathID(r, "id")
	if err != nil {
		h.errHandler.HandleError(w, r, err)
		return
	}

	post, err := h.posts.Get(r.Context(), postdomain.ID(id))
	if err != nil {
		h.errHandler.HandleError(w, r, err)
		return
	}

	commonhttp.WriteSuccess(w, http.StatusOK, commonhttp.Envelope{Data: post})
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request, claims jwtverify.Claims) {
	var req service.CreateInput
	if err := commonhttp.DecodeJSONBody(r, &req); err != nil {
		h.errHandler.HandleError(w, r, err)
		return
	}

	post, err := h.posts.Create(r.Context(), userdomain.ID(claims.UserID), req)
	if err != nil {
		h.errHandler.HandleError(w, r, err)
		return
	}

	commonhttp.WriteSuccess(w, http.StatusCreated, commonhttp.Envelope{
		Message: createdMessage,
		Data:    post,
	})
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request, claims jwtverify.Claims) {
	id, err := commonhttp.PathID(r, "id")
	if err != nil {
		h.errHandler.HandleError(w, r, err)
		return
	}

	var req service.UpdateInput
	if err := commonhttp.DecodeJSONBody(r, &req); err != nil {
		h.errHandler.HandleError(w, r, err)
		return
	}

	post, err := h.posts.Update(r.Context(), userdomain.ID(claims.UserID), postdomain.ID(id), req)
	if err != nil {
		h.errHandler.HandleError(w, r, err)
		return
	}

	commonhttp.WriteSuccess(w, http.StatusOK, commonhttp.Envelope{
		Message: updatedMessage,
		Data:    post,
	})
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request, claims jwtverify.Claims) {
	id, err := commonhttp.PathID(r, "id")
	if err != nil {
		h.errHandler.HandleError(w, r, err)
		return
	}

	if err := h.posts.Delete(r.Context(), userdomain.ID(claims.UserID), postdomain.ID(id)); err != nil {
		h.errHandler.HandleError(w, r, err)
		return
	}

	commonhttp.WriteSuccess(w, http.StatusOK, commonhttp.Envelope{Message: deletedMessage})
}

func toListInput(q commonhttp.PageQuery) service.ListInput {
	return service.ListInput{Page: q.Page, Limit: q.Limit, Search: q.Search}
}

func writePage(w http.ResponseWriter, result service.ListResult) {
	commonhttp.WriteSuccess(w, http.StatusOK, commonhttp.Envelope{
		Data: result.Posts,
		Pagination: &commonhttp.Pagination{
			CurrentPage: result.CurrentPage,
			TotalPages:  result.TotalPages,
			TotalItems:  result.TotalItems,
		},
	})
}
