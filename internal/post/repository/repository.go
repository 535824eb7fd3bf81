package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	pgx "github.com/jackc/pgx/v4"

	"github.com/AlibekovAA/blog-api/internal/common/db"
	"github.com/AlibekovAA/blog-api/internal/post/domain"
	userdomain "github.com/AlibekovAA/blog-api/internal/user/domain"
)

var ErrPostNotFound = errors.New("post not found")

type Repository interface {
	List(ctx context.Context, filter domain.Filter) (domain.Page, error)
	FindByID(ctx context.Context, id domain.ID) (domain.Post, error)
	FindByIDWithAuthor(ctx context.Context, id domain.ID) (domain.PostWithAuthor, error)
	Create(ctx context.Context, post domain.Post) (domain.Post, error)
	Update(ctx context.Context, post domain.Post) (domain.Post, error)
	Delete(ctx context.Context, id domain.ID, authorID userdomain.ID) error
}

type PgRepository struct {
	db db.Querier
}

func NewPgRepository(q db.Querier) *PgRepository {
	return &PgRepository{db: q}
}

const postColumns = `id, title, content, author_id, created_at, updated_at`

func scanPost(row pgx.Row) (domain.Post, error) {
	var p domain.Post
	err := row.Scan(&p.ID, &p.Title, &p.Content, &p.AuthorID, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (r *PgRepository) List(ctx context.Context, filter domain.Filter) (domain.Page, error) {
	where, args := buildWhere(filter)

	start := time.Now()
	var total int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM posts`+where, args...).Scan(&total)
	if err := db.HandleExecError(err, "count posts", start); err != nil {
		return domain.Page{}, err
	}

	start = time.Now()
	limitArg := len(args) + 1
	query := fmt.Sprintf(
		`SELECT %s FROM posts%s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`,
		postColumns, where, limitArg, limitArg+1,
	)
	rows, err := r.db.Query(ctx, query, append(args, filter.Limit, filter.Offset)...)
	if err != nil {
		return domain.Page{}, db.HandleExecError(err, "list posts", start)
	}
	defer rows.Close()

	posts := make([]domain.Post, 0, filter.Limit)
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return domain.Page{}, db.HandleExecError(err, "scan posts", start)
		}
		posts = append(posts, p)
	}
	if err := db.HandleExecError(rows.Err(), "list posts", start); err != nil {
		return domain.Page{}, err
	}

	return domain.Page{Posts: posts, Total: total}, nil
}

func (r *PgRepository) FindByID(ctx context.Context, id domain.ID) (domain.Post, error) {
	start := time.Now()
	p, err := scanPost(r.db.QueryRow(ctx, `SELECT `+postColumns+` FROM posts WHERE id = $1`, string(id)))
	if err := db.HandleQueryError(err, ErrPostNotFound, "find post by id", start); err != nil {
		return domain.Post{}, err
	}
	return p, nil
}

func (r *PgRepository) FindByIDWithAuthor(ctx context.Context, id domain.ID) (domain.PostWithAuthor, error) {
	start := time.Now()
	row := r.db.QueryRow(
		ctx,
		`SELECT p.id, p.title, p.content, p.author_id, p.created_at, p.updated_at,
		        u.id, u.name, u.email, u.created_at, u.updated_at
		 FROM posts p
		 JOIN users u ON u.id = p.author_id
		 WHERE p.id = $1`,
		string(id),
	)

	var pa domain.PostWithAuthor
	err := row.Scan(
		&pa.ID, &pa.Title, &pa.Content, &pa.AuthorID, &pa.CreatedAt, &pa.UpdatedAt,
		&pa.Author.ID, &pa.Author.Name, &pa.Author.Email, &pa.Author.CreatedAt, &pa.Author.UpdatedAt,
	)
	if err := db.HandleQueryError(err, ErrPostNotFound, "find post with author", start); err != nil {
		return domain.PostWithAuthor{}, err
	}
	return pa, nil
}

func (r *PgRepository) Create(ctx context.Context, post domain.Post) (domain.Post, error) {
	start := time.Now()
	created, err := scanPost(r.db.QueryRow(
		ctx,
		`INSERT INTO posts (id, title, content, author_id)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+postColumns,
		string(post.ID),
		post.Title,
		post.Content,
		string(post.AuthorID),
	))
	if err := db.HandleExecError(err, "create post", start); err != nil {
		return domain.Post{}, err
	}
	return created, nil
}

// Update rewrites title and content only when the row still belongs to
// post.AuthorID.
func (r *PgRepository) Update(ctx context.Context, post domain.Post) (domain.Post, error) {
	start := time.Now()
	updated, err := scanPost(r.db.QueryRow(
		ctx,
		`UPDATE posts
		 SET title = $3, content = $4, updated_at = NOW()
		 WHERE id = $1 AND author_id = $2
		 RETURNING `+postColumns,
		string(post.ID),
		string(post.AuthorID),
		post.Title,
		post.Content,
	))
	if err := db.HandleQueryError(err, ErrPostNotFound, "update post", start); err != nil {
		return domain.Post{}, err
	}
	return updated, nil
}

func (r *PgRepository) Delete(ctx context.Context, id domain.ID, authorID userdomain.ID) error {
	start := time.Now()
	tag, err := r.db.Exec(ctx, `DELETE FROM posts WHERE id = $1 AND author_id = $2`, string(id), string(authorID))
	if err := db.HandleExecError(err, "delete post", start); err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrPostNotFound
	}
	return nil
}

func buildWhere(filter domain.Filter) (string, []interface{}) {
	var conds []string
	var args []interface{}

	if filter.AuthorID != "" {
		args = append(args, string(filter.AuthorID))
		conds = append(conds, fmt.Sprintf("author_id = $%d", len(args)))
	}

	if filter.Search != "" {
		args = append(args, "%"+escapeLike(filter.Search)+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf(`(title ILIKE $%d ESCAPE '\' OR content ILIKE $%d ESCAPE '\')`, n, n))
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
