package service_test

import (
	"context"
	"sort"
	"strings"
	"sync"

	postdomain "github.com/AlibekovAA/blog-api/internal/post/domain"
	postrepo "github.com/AlibekovAA/blog-api/internal/post/repository"
	userdomain "github.com/AlibekovAA/blog-api/internal/user/domain"
)

// memoryRepo is an in-memory post store with the same ownership guards as
// the postgres repository.
type memoryRepo struct {
	mu    sync.Mutex
	posts map[postdomain.ID]postdomain.Post
	users map[userdomain.ID]userdomain.User

	listErr   error
	findErr   error
	updateErr error
	deleteErr error
	lastList  postdomain.Filter
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		posts: make(map[postdomain.ID]postdomain.Post),
		users: make(map[userdomain.ID]userdomain.User),
	}
}

func (r *memoryRepo) List(ctx context.Context, filter postdomain.Filter) (postdomain.Page, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastList = filter
	if r.listErr != nil {
		return postdomain.Page{}, r.listErr
	}

	search := strings.ToLower(filter.Search)
	var matched []postdomain.Post
	for _, p := range r.posts {
		if filter.AuthorID != "" && p.AuthorID != filter.AuthorID {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(p.Title), search) && !strings.Contains(strings.ToLower(p.Content), search) {
			continue
		}
		matched = append(matched, p)
	}

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID > matched[j].ID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	if filter.Offset >= len(matched) {
		return postdomain.Page{Posts: nil, Total: total}, nil
	}
	end := filter.Offset + filter.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return postdomain.Page{Posts: matched[filter.Offset:end], Total: total}, nil
}

func (r *memoryRepo) FindByID(ctx context.Context, id postdomain.ID) (postdomain.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return postdomain.Post{}, r.findErr
	}
	p, ok := r.posts[id]
	if !ok {
		return postdomain.Post{}, postrepo.ErrPostNotFound
	}
	return p, nil
}

func (r *memoryRepo) FindByIDWithAuthor(ctx context.Context, id postdomain.ID) (postdomain.PostWithAuthor, error) {
	p, err := r.FindByID(ctx, id)
	if err != nil {
		return postdomain.PostWithAuthor{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return postdomain.PostWithAuthor{Post: p, Author: r.users[p.AuthorID]}, nil
}

func (r *memoryRepo) Create(ctx context.Context, post postdomain.Post) (postdomain.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.posts[post.ID] = post
	return post, nil
}

func (r *memoryRepo) Update(ctx context.Context, post postdomain.Post) (postdomain.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateErr != nil {
		return postdomain.Post{}, r.updateErr
	}
	existing, ok := r.posts[post.ID]
	if !ok || existing.AuthorID != post.AuthorID {
		return postdomain.Post{}, postrepo.ErrPostNotFound
	}
	existing.Title = post.Title
	existing.Content = post.Content
	r.posts[post.ID] = existing
	return existing, nil
}

func (r *memoryRepo) Delete(ctx context.Context, id postdomain.ID, authorID userdomain.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.deleteErr != nil {
		return r.deleteErr
	}
	existing, ok := r.posts[id]
	if !ok || existing.AuthorID != authorID {
		return postrepo.ErrPostNotFound
	}
	delete(r.posts, id)
	return nil
}

type sequenceIDs struct {
	mu   sync.Mutex
	next int
}

func (g *sequenceIDs) NewID() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.next++
	return postIDFor(g.next), nil
}
