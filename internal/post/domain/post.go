package domain

import (
	"time"

	userdomain "github.com/AlibekovAA/blog-api/internal/user/domain"
)

type ID string

type Post struct {
	ID        ID
	Title     string
	Content   string
	AuthorID  userdomain.ID
	CreatedAt time.Time
	UpdatedAt time.Time
}

type PostWithAuthor struct {
	Post
	Author userdomain.User
}

// Filter narrows a post listing. A zero AuthorID lists every author.
type Filter struct {
	AuthorID userdomain.ID
	Search   string
	Limit    int
	Offset   int
}

// Page is one slice of a listing together with the total match count.
type Page struct {
	Posts []Post
	Total int64
}
