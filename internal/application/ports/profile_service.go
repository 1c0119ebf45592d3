package ports

import (
	"context"
	"mime/multipart"

	"user-directory-api/internal/domain/user"
)

type ProfileService interface {
	Upload(ctx context.Context, id string, in *multipart.FileHeader) (*user.User, error)
	ProfileURL(key string) string
}
