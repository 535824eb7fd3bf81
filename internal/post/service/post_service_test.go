package service_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/AlibekovAA/blog-api/internal/common/clock"
	"github.com/AlibekovAA/blog-api/internal/common/db"
	commonerrors "github.com/AlibekovAA/blog-api/internal/common/errors"
	"github.com/AlibekovAA/blog-api/internal/common/logger"
	postdomain "github.com/AlibekovAA/blog-api/internal/post/domain"
	"github.com/AlibekovAA/blog-api/internal/post/service"
	userdomain "github.com/AlibekovAA/blog-api/internal/user/domain"
)

const (
	alice userdomain.ID = "11111111-1111-4111-8111-111111111111"
	bob   userdomain.ID = "22222222-2222-4222-8222-222222222222"
)

func postIDFor(n int) string {
	return fmt.Sprintf("00000000-0000-4000-8000-%012d", n)
}

type postFixture struct {
	svc   *service.PostService
	repo  *memoryRepo
	clock *clock.MockClock
}

func setupPostService(t *testing.T) postFixture {
	t.Helper()
	f := postFixture{
		repo:  newMemoryRepo(),
		clock: clock.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)),
	}
	f.repo.users[alice] = userdomain.User{ID: alice, Name: "Alice", Email: "alice@example.com", PasswordHash: "secret-hash"}
	f.repo.users[bob] = userdomain.User{ID: bob, Name: "Bob", Email: "bob@example.com"}

	f.svc = service.NewPostService(
		service.PostServiceDeps{
			Repo:        f.repo,
			IDGenerator: &sequenceIDs{},
			Clock:       f.clock,
			Log:         logger.NewWithWriter(&bytes.Buffer{}, "test", "error"),
		},
		service.PostServiceConfig{
			CircuitBreakerThreshold: 3,
			CircuitBreakerTimeout:   time.Second,
			CircuitBreakerReset:     time.Minute,
			Retry:                   db.RetryConfig{MaxAttempts: 1, InitialDelay: time.Millisecond, MaxDelay: time.Millisecond},
		},
	)
	return f
}

func (f postFixture) seed(t *testing.T, author userdomain.ID, n int) []string {
	t.Helper()
	ids := make([]string, 0, n)
	for i := 0; i < n; i++ {
		f.clock.Advance(time.Minute)
		post, err := f.svc.Create(context.Background(), author, service.CreateInput{
			Title:   fmt.Sprintf("Post %d", i),
			Content: fmt.Sprintf("Content %d", i),
		})
		if err != nil {
			t.Fatalf("seed post %d: %v", i, err)
		}
		ids = append(ids, post.ID)
	}
	return ids
}

func TestPostService_List_Pagination(t *testing.T) {
	f := setupPostService(t)
	f.seed(t, alice, 25)

	result, err := f.svc.List(context.Background(), service.ListInput{Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(result.Posts) != 10 || result.TotalItems != 25 || result.TotalPages != 3 || result.CurrentPage != 1 {
		t.Errorf("unexpected page: len=%d total=%d pages=%d current=%d",
			len(result.Posts), result.TotalItems, result.TotalPages, result.CurrentPage)
	}
	if result.Posts[0].Title != "Post 24" {
		t.Errorf("expected newest first, got %q", result.Posts[0].Title)
	}

	last, err := f.svc.List(context.Background(), service.ListInput{Page: 3, Limit: 10})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(last.Posts) != 5 {
		t.Errorf("expected 5 posts on last page, got %d", len(last.Posts))
	}
}

func TestPostService_List_PageBeyondRange(t *testing.T) {
	f := setupPostService(t)
	f.seed(t, alice, 3)

	result, err := f.svc.List(context.Background(), service.ListInput{Page: 5, Limit: 10})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.Posts == nil || len(result.Posts) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", result.Posts)
	}
	if result.TotalItems != 3 || result.TotalPages != 1 {
		t.Errorf("expected totals to be unchanged, got %d/%d", result.TotalItems, result.TotalPages)
	}
}

func TestPostService_List_EmptyStore(t *testing.T) {
	f := setupPostService(t)

	result, err := f.svc.List(context.Background(), service.ListInput{Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.TotalPages != 0 || result.TotalItems != 0 || len(result.Posts) != 0 {
		t.Errorf("unexpected result %+v", result)
	}
}

func TestPostService_List_Search(t *testing.T) {
	f := setupPostService(t)
	ctx := context.Background()
	for _, in := range []service.CreateInput{
		{Title: "Learning Go", Content: "channels"},
		{Title: "Rust notes", Content: "borrow checker"},
		{Title: "Misc", Content: "more GO tips"},
	} {
		f.clock.Advance(time.Second)
		if _, err := f.svc.Create(ctx, alice, in); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	result, err := f.svc.List(ctx, service.ListInput{Page: 1, Limit: 10, Search: "  go "})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.TotalItems != 2 {
		t.Errorf("expected 2 matches, got %d", result.TotalItems)
	}
	if f.repo.lastList.Search != "go" {
		t.Errorf("expected trimmed search, got %q", f.repo.lastList.Search)
	}
}

func TestPostService_List_InvalidPaging(t *testing.T) {
	f := setupPostService(t)

	for _, in := range []service.ListInput{
		{Page: 0, Limit: 10},
		{Page: 1, Limit: 0},
		{Page: 1, Limit: 101},
	} {
		if _, err := f.svc.List(context.Background(), in); !errors.Is(err, commonerrors.ErrValidation) {
			t.Errorf("%+v: expected validation error, got %v", in, err)
		}
	}
}

func TestPostService_List_HugePageDoesNotOverflow(t *testing.T) {
	f := setupPostService(t)

	_, err := f.svc.List(context.Background(), service.ListInput{Page: int(^uint(0) >> 1), Limit: 100})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if f.repo.lastList.Offset < 0 {
		t.Errorf("expected non-negative offset, got %d", f.repo.lastList.Offset)
	}
}

func TestPostService_ListMine_ScopedToAuthor(t *testing.T) {
	f := setupPostService(t)
	f.seed(t, alice, 4)
	f.seed(t, bob, 2)

	result, err := f.svc.ListMine(context.Background(), bob, service.ListInput{Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.TotalItems != 2 {
		t.Errorf("expected 2 posts, got %d", result.TotalItems)
	}
	for _, p := range result.Posts {
		if p.AuthorID != string(bob) {
			t.Errorf("expected only bob's posts, got author %s", p.AuthorID)
		}
	}
}

func TestPostService_Get(t *testing.T) {
	f := setupPostService(t)
	ids := f.seed(t, alice, 1)

	post, err := f.svc.Get(context.Background(), postdomain.ID(ids[0]))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if post.Author.Name != "Alice" || post.AuthorID != string(alice) {
		t.Errorf("expected author embedded, got %+v", post)
	}

	_, err = f.svc.Get(context.Background(), postdomain.ID(postIDFor(999)))
	if !errors.Is(err, service.ErrPostNotFound) {
		t.Errorf("expected ErrPostNotFound, got %v", err)
	}
}

func TestPostService_Create_Validation(t *testing.T) {
	f := setupPostService(t)

	testCases := []service.CreateInput{
		{Title: "", Content: "body"},
		{Title: "title", Content: ""},
		{Title: strings.Repeat("t", 256), Content: "body"},
		{Title: "title", Content: strings.Repeat("c", 50001)},
	}

	for _, in := range testCases {
		if _, err := f.svc.Create(context.Background(), alice, in); !errors.Is(err, commonerrors.ErrValidation) {
			t.Errorf("expected validation error, got %v", err)
		}
	}
	if len(f.repo.posts) != 0 {
		t.Errorf("expected nothing persisted, got %d posts", len(f.repo.posts))
	}
}

func TestPostService_Create_OwnerIsCaller(t *testing.T) {
	f := setupPostService(t)

	post, err := f.svc.Create(context.Background(), bob, service.CreateInput{Title: "Hello", Content: "World"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if post.AuthorID != string(bob) {
		t.Errorf("expected author bob, got %s", post.AuthorID)
	}
}

func TestPostService_Update_PartialKeepsPriorValues(t *testing.T) {
	f := setupPostService(t)
	ids := f.seed(t, alice, 1)

	updated, err := f.svc.Update(context.Background(), alice, postdomain.ID(ids[0]), service.UpdateInput{Title: "New title"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if updated.Title != "New title" || updated.Content != "Content 0" {
		t.Errorf("unexpected post %+v", updated)
	}

	updated, err = f.svc.Update(context.Background(), alice, postdomain.ID(ids[0]), service.UpdateInput{})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if updated.Title != "New title" || updated.Content != "Content 0" {
		t.Errorf("expected empty update to keep values, got %+v", updated)
	}
}

func TestPostService_Update_NotOwner(t *testing.T) {
	f := setupPostService(t)
	ids := f.seed(t, alice, 1)

	_, err := f.svc.Update(context.Background(), bob, postdomain.ID(ids[0]), service.UpdateInput{Title: "hijack"})
	if !errors.Is(err, service.ErrNotPostOwner) {
		t.Fatalf("expected ErrNotPostOwner, got %v", err)
	}
	if f.repo.posts[postdomain.ID(ids[0])].Title != "Post 0" {
		t.Error("expected post to be unchanged")
	}
}

func TestPostService_Update_Missing(t *testing.T) {
	f := setupPostService(t)

	_, err := f.svc.Update(context.Background(), alice, postdomain.ID(postIDFor(42)), service.UpdateInput{Title: "x"})
	if !errors.Is(err, service.ErrPostNotFound) {
		t.Fatalf("expected ErrPostNotFound, got %v", err)
	}
}

func TestPostService_Update_TooLong(t *testing.T) {
	f := setupPostService(t)
	ids := f.seed(t, alice, 1)

	_, err := f.svc.Update(context.Background(), alice, postdomain.ID(ids[0]), service.UpdateInput{Title: strings.Repeat("t", 256)})
	if !errors.Is(err, commonerrors.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestPostService_Delete(t *testing.T) {
	f := setupPostService(t)
	ids := f.seed(t, alice, 2)

	if err := f.svc.Delete(context.Background(), bob, postdomain.ID(ids[0])); !errors.Is(err, service.ErrNotPostOwner) {
		t.Fatalf("expected ErrNotPostOwner, got %v", err)
	}
	if err := f.svc.Delete(context.Background(), alice, postdomain.ID(ids[0])); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if _, ok := f.repo.posts[postdomain.ID(ids[0])]; ok {
		t.Error("expected post to be removed")
	}
	if err := f.svc.Delete(context.Background(), alice, postdomain.ID(ids[0])); !errors.Is(err, service.ErrPostNotFound) {
		t.Errorf("expected ErrPostNotFound on second delete, got %v", err)
	}
}

func TestPostService_Delete_VanishedBetweenCheckAndDelete(t *testing.T) {
	f := setupPostService(t)
	ids := f.seed(t, alice, 1)
	id := postdomain.ID(ids[0])

	svc := service.NewPostService(
		service.PostServiceDeps{
			Repo:        &vanishingRepo{memoryRepo: f.repo, vanish: id},
			IDGenerator: &sequenceIDs{},
			Clock:       f.clock,
			Log:         logger.NewWithWriter(&bytes.Buffer{}, "test", "error"),
		},
		service.PostServiceConfig{CircuitBreakerThreshold: 3, CircuitBreakerTimeout: time.Second, CircuitBreakerReset: time.Minute},
	)

	if err := svc.Delete(context.Background(), alice, id); !errors.Is(err, service.ErrPostNotFound) {
		t.Errorf("expected ErrPostNotFound, got %v", err)
	}
}

// vanishingRepo drops the post right after it is read, as a concurrent
// delete would.
type vanishingRepo struct {
	*memoryRepo
	vanish postdomain.ID
}

func (r *vanishingRepo) FindByID(ctx context.Context, id postdomain.ID) (postdomain.Post, error) {
	p, err := r.memoryRepo.FindByID(ctx, id)
	if err == nil && id == r.vanish {
		r.memoryRepo.mu.Lock()
		delete(r.memoryRepo.posts, id)
		r.memoryRepo.mu.Unlock()
	}
	return p, err
}

func TestPostService_StoreFailureOpensCircuit(t *testing.T) {
	f := setupPostService(t)
	f.repo.listErr = errors.New("connection refused")

	for i := 0; i < 3; i++ {
		_, err := f.svc.List(context.Background(), service.ListInput{Page: 1, Limit: 10})
		domainErr, ok := commonerrors.AsDomainError(err)
		if !ok || domainErr.HTTPStatus() != 500 {
			t.Fatalf("attempt %d: expected 500 domain error, got %v", i, err)
		}
	}

	_, err := f.svc.List(context.Background(), service.ListInput{Page: 1, Limit: 10})
	if !errors.Is(err, service.ErrServiceUnavailable) {
		t.Fatalf("expected ErrServiceUnavailable, got %v", err)
	}
}

func TestPostService_NotFoundDoesNotOpenCircuit(t *testing.T) {
	f := setupPostService(t)

	for i := 0; i < 10; i++ {
		_, err := f.svc.Get(context.Background(), postdomain.ID(postIDFor(i)))
		if !errors.Is(err, service.ErrPostNotFound) {
			t.Fatalf("attempt %d: expected ErrPostNotFound, got %v", i, err)
		}
	}
}

func TestPostService_Update_StoreFailure(t *testing.T) {
	f := setupPostService(t)
	ids := f.seed(t, alice, 1)
	boom := errors.New("connection reset")
	f.repo.updateErr = boom

	_, err := f.svc.Update(context.Background(), alice, postdomain.ID(ids[0]), service.UpdateInput{Title: "x"})
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
	domainErr, ok := commonerrors.AsDomainError(err)
	if !ok || domainErr.Category() != commonerrors.CategoryInternal {
		t.Errorf("expected internal domain error, got %v", err)
	}
}

func TestPostService_Get_StoreFailure(t *testing.T) {
	f := setupPostService(t)
	f.repo.findErr = errors.New("connection reset")

	_, err := f.svc.Get(context.Background(), postdomain.ID(postIDFor(1)))
	domainErr, ok := commonerrors.AsDomainError(err)
	if !ok || domainErr.HTTPStatus() != 500 {
		t.Errorf("expected 500 domain error, got %v", err)
	}
}
