package mapper

import (
	"github.com/AlibekovAA/blog-api/internal/common/dto"
	userdomain "github.com/AlibekovAA/blog-api/internal/user/domain"
)

func UserToDTO(user userdomain.User) dto.User {
	return dto.User{
		ID:        string(user.ID),
		Name:      user.Name,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}
