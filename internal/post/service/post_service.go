package service

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/AlibekovAA/blog-api/internal/common/clock"
	"github.com/AlibekovAA/blog-api/internal/common/constants"
	commoncrypto "github.com/AlibekovAA/blog-api/internal/common/crypto"
	"github.com/AlibekovAA/blog-api/internal/common/db"
	"github.com/AlibekovAA/blog-api/internal/common/dto"
	commonerrors "github.com/AlibekovAA/blog-api/internal/common/errors"
	"github.com/AlibekovAA/blog-api/internal/common/logger"
	"github.com/AlibekovAA/blog-api/internal/common/mapper"
	"github.com/AlibekovAA/blog-api/internal/common/resilience"
	"github.com/AlibekovAA/blog-api/internal/common/validation"
	postdomain "github.com/AlibekovAA/blog-api/internal/post/domain"
	postrepo "github.com/AlibekovAA/blog-api/internal/post/repository"
	userdomain "github.com/AlibekovAA/blog-api/internal/user/domain"
)

type PostService struct {
	repo           postrepo.Repository
	idGenerator    commoncrypto.IDGenerator
	circuitBreaker *resilience.CircuitBreaker
	retry          db.RetryConfig
	clock          clock.Clock
	log            *logger.Logger
}

type PostServiceDeps struct {
	Repo        postrepo.Repository
	IDGenerator commoncrypto.IDGenerator
	Clock       clock.Clock
	Log         *logger.Logger
}

type PostServiceConfig struct {
	CircuitBreakerThreshold int32
	CircuitBreakerTimeout   time.Duration
	CircuitBreakerReset     time.Duration
	Retry                   db.RetryConfig
}

func NewPostService(deps PostServiceDeps, config PostServiceConfig) *PostService {
	clk := deps.Clock
	if clk == nil {
		clk = clock.NewRealClock()
	}

	retry := config.Retry
	if retry.MaxAttempts == 0 {
		retry = db.DefaultRetryConfig
	}

	return &PostService{
		repo:        deps.Repo,
		idGenerator: deps.IDGenerator,
		circuitBreaker: resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
			Threshold:  config.CircuitBreakerThreshold,
			Timeout:    config.CircuitBreakerTimeout,
			ResetAfter: config.CircuitBreakerReset,
			Name:       "post_store",
			Logger:     deps.Log,
			Clock:      clk,
		}),
		retry: retry,
		clock: clk,
		log:   deps.Log,
	}
}

type ListInput struct {
	Page   int
	Limit  int
	Search string
}

type ListResult struct {
	Posts       []dto.Post
	CurrentPage int
	TotalPages  int
	TotalItems  int64
}

type CreateInput struct {
	Title   string `json:"title" validate:"required,min=1,max=255"`
	Content string `json:"content" validate:"required,min=1,max=50000"`
}

// UpdateInput fields left empty keep their stored value.
type UpdateInput struct {
	Title   string `json:"title" validate:"omitempty,max=255"`
	Content string `json:"content" validate:"omitempty,max=50000"`
}

func (s *PostService) callStore(ctx context.Context, fn func(context.Context) error) error {
	err := s.circuitBreaker.Call(ctx, func(ctx context.Context) error {
		return db.RetryWithBackoff(ctx, s.log, s.retry, fn)
	})
	return commonerrors.FromCircuitBreaker(err)
}

func (s *PostService) List(ctx context.Context, input ListInput) (ListResult, error) {
	result, err := s.list(ctx, "", input)
	recordOperation("list", err)
	return result, err
}

func (s *PostService) ListMine(ctx context.Context, authorID userdomain.ID, input ListInput) (ListResult, error) {
	result, err := s.list(ctx, authorID, input)
	recordOperation("list_mine", err)
	return result, err
}

func (s *PostService) list(ctx context.Context, authorID userdomain.ID, input ListInput) (ListResult, error) {
	if input.Page < 1 {
		return ListResult{}, commonerrors.ErrValidation.WithMessage(`"page" must be a positive integer`)
	}
	if input.Limit < 1 || input.Limit > constants.MaxPageLimit {
		return ListResult{}, commonerrors.ErrValidation.WithMessage(`"limit" must be between 1 and 100`)
	}

	filter := postdomain.Filter{
		AuthorID: authorID,
		Search:   strings.TrimSpace(input.Search),
		Limit:    input.Limit,
		Offset:   pageOffset(input.Page, input.Limit),
	}

	var page postdomain.Page
	err := s.callStore(ctx, func(ctx context.Context) error {
		var err error
		page, err = s.repo.List(ctx, filter)
		return err
	})
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"author_id": string(authorID),
			"action":    "post_list_failed",
		}).Errorf("list posts failed: %v", err)
		return ListResult{}, commonerrors.WrapInternal("POST_LIST_FAILED", "failed to list posts", err)
	}

	return ListResult{
		Posts:       mapper.PostsToDTO(page.Posts),
		CurrentPage: input.Page,
		TotalPages:  totalPages(page.Total, input.Limit),
		TotalItems:  page.Total,
	}, nil
}

func (s *PostService) Get(ctx context.Context, id postdomain.ID) (dto.PostWithAuthor, error) {
	var post postdomain.PostWithAuthor
	err := s.callStore(ctx, func(ctx context.Context) error {
		var err error
		post, err = s.repo.FindByIDWithAuthor(ctx, id)
		if errors.Is(err, postrepo.ErrPostNotFound) {
			return ErrPostNotFound
		}
		return err
	})
	recordOperation("get", err)
	if err != nil {
		if !errors.Is(err, ErrPostNotFound) {
			s.log.WithFields(ctx, logger.Fields{
				"post_id": string(id),
				"action":  "post_get_failed",
			}).Errorf("get post failed: %v", err)
		}
		return dto.PostWithAuthor{}, commonerrors.WrapInternal("POST_FETCH_FAILED", "failed to fetch post", err)
	}

	return mapper.PostWithAuthorToDTO(post), nil
}

func (s *PostService) Create(ctx context.Context, authorID userdomain.ID, input CreateInput) (dto.Post, error) {
	if err := validation.Struct(input); err != nil {
		recordOperation("create", err)
		return dto.Post{}, err
	}

	id, err := s.idGenerator.NewID()
	if err != nil {
		recordOperation("create", err)
		return dto.Post{}, commonerrors.WrapInternal("ID_GENERATION_FAILED", "failed to generate id", err)
	}

	now := s.clock.Now()
	post := postdomain.Post{
		ID:        postdomain.ID(id),
		Title:     input.Title,
		Content:   input.Content,
		AuthorID:  authorID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = s.callStore(ctx, func(ctx context.Context) error {
		created, err := s.repo.Create(ctx, post)
		if err != nil {
			return err
		}
		post = created
		return nil
	})
	recordOperation("create", err)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"author_id": string(authorID),
			"action":    "post_create_failed",
		}).Errorf("create post failed: %v", err)
		return dto.Post{}, commonerrors.WrapInternal("POST_CREATE_FAILED", "failed to create post", err)
	}

	s.log.WithFields(ctx, logger.Fields{
		"author_id": string(authorID),
		"post_id":   string(post.ID),
		"action":    "post_created",
	}).Info("post created")

	return mapper.PostToDTO(post), nil
}

func (s *PostService) Update(ctx context.Context, authorID userdomain.ID, id postdomain.ID, input UpdateInput) (dto.Post, error) {
	post, err := s.update(ctx, authorID, id, input)
	recordOperation("update", err)
	return post, err
}

func (s *PostService) update(ctx context.Context, authorID userdomain.ID, id postdomain.ID, input UpdateInput) (dto.Post, error) {
	if err := validation.Struct(input); err != nil {
		return dto.Post{}, err
	}

	existing, err := s.findOwned(ctx, authorID, id, "update")
	if err != nil {
		return dto.Post{}, err
	}

	if input.Title != "" {
		existing.Title = input.Title
	}
	if input.Content != "" {
		existing.Content = input.Content
	}

	err = s.callStore(ctx, func(ctx context.Context) error {
		updated, err := s.repo.Update(ctx, existing)
		if errors.Is(err, postrepo.ErrPostNotFound) {
			return ErrPostNotFound
		}
		if err != nil {
			return err
		}
		existing = updated
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrPostNotFound) {
			s.log.WithFields(ctx, logger.Fields{
				"post_id": string(id),
				"action":  "post_update_failed",
			}).Errorf("update post failed: %v", err)
		}
		return dto.Post{}, commonerrors.WrapInternal("POST_UPDATE_FAILED", "failed to update post", err)
	}

	s.log.WithFields(ctx, logger.Fields{
		"author_id": string(authorID),
		"post_id":   string(id),
		"action":    "post_updated",
	}).Info("post updated")

	return mapper.PostToDTO(existing), nil
}

func (s *PostService) Delete(ctx context.Context, authorID userdomain.ID, id postdomain.ID) error {
	err := s.delete(ctx, authorID, id)
	recordOperation("delete", err)
	return err
}

func (s *PostService) delete(ctx context.Context, authorID userdomain.ID, id postdomain.ID) error {
	if _, err := s.findOwned(ctx, authorID, id, "delete"); err != nil {
		return err
	}

	err := s.callStore(ctx, func(ctx context.Context) error {
		err := s.repo.Delete(ctx, id, authorID)
		if errors.Is(err, postrepo.ErrPostNotFound) {
			return ErrPostNotFound
		}
		return err
	})
	if err != nil {
		if !errors.Is(err, ErrPostNotFound) {
			s.log.WithFields(ctx, logger.Fields{
				"post_id": string(id),
				"action":  "post_delete_failed",
			}).Errorf("delete post failed: %v", err)
		}
		return commonerrors.WrapInternal("POST_DELETE_FAILED", "failed to delete post", err)
	}

	s.log.WithFields(ctx, logger.Fields{
		"author_id": string(authorID),
		"post_id":   string(id),
		"action":    "post_deleted",
	}).Info("post deleted")

	return nil
}

// findOwned loads the post and checks it belongs to authorID. verb only
// shapes the client-facing message.
func (s *PostService) findOwned(ctx context.Context, authorID userdomain.ID, id postdomain.ID, verb string) (postdomain.Post, error) {
	var post postdomain.Post
	err := s.callStore(ctx, func(ctx context.Context) error {
		var err error
		post, err = s.repo.FindByID(ctx, id)
		if errors.Is(err, postrepo.ErrPostNotFound) {
			return ErrPostNotFound
		}
		return err
	})
	if errors.Is(err, ErrPostNotFound) {
		return postdomain.Post{}, ErrPostNotFound
	}
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"post_id": string(id),
			"action":  "post_fetch_failed",
		}).Errorf("fetch post failed: %v", err)
		return postdomain.Post{}, commonerrors.WrapInternal("POST_FETCH_FAILED", "failed to fetch post", err)
	}

	if post.AuthorID != authorID {
		s.log.WithFields(ctx, logger.Fields{
			"author_id": string(authorID),
			"post_id":   string(id),
			"action":    "post_" + verb + "_forbidden",
		}).Warn("post ownership check failed")
		return postdomain.Post{}, ErrNotPostOwner.WithMessage("You are not authorized to " + verb + " this post!")
	}

	return post, nil
}

func pageOffset(page, limit int) int {
	if page-1 > math.MaxInt/limit {
		return math.MaxInt
	}
	return (page - 1) * limit
}

func totalPages(total int64, limit int) int {
	if total <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
