package mapper

import (
	"github.com/AlibekovAA/blog-api/internal/common/dto"
	postdomain "github.com/AlibekovAA/blog-api/internal/post/domain"
)

func PostToDTO(post postdomain.Post) dto.Post {
	return dto.Post{
		ID:        string(post.ID),
		Title:     post.Title,
		Content:   post.Content,
		AuthorID:  string(post.AuthorID),
		CreatedAt: post.CreatedAt,
		UpdatedAt: post.UpdatedAt,
	}
}

// PostsToDTO never returns nil so that an empty page encodes as [].
func PostsToDTO(posts []postdomain.Post) []dto.Post {
	result := make([]dto.Post, len(posts))
	for i, p := range posts {
		result[i] = PostToDTO(p)
	}
	return result
}

func PostWithAuthorToDTO(post postdomain.PostWithAuthor) dto.PostWithAuthor {
	return dto.PostWithAuthor{
		Post:   PostToDTO(post.Post),
		Author: UserToDTO(post.Author),
	}
}
