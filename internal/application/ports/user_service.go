package ports

import (
	"context"

	"user-directory-api/internal/domain/user"
	"user-directory-api/pkg/userschema"
)

type UserService interface {
	List(ctx context.Context, search string, page, limit int) (*user.Page, error)
	GetByID(ctx context.Context, id string) (*user.User, error)
	Create(ctx context.Context, p userschema.Payload) (*user.User, error)
	Update(ctx context.Context, id string, p userschema.Payload) (*user.User, error)
	UpdateStatus(ctx context.Context, id, status string) (*user.User, error)
	Delete(ctx context.Context, id string) (*user.User, error)
	ExportAll(ctx context.Context) ([]byte, error)
}
