package user

import (
	"context"
)

// Repository is the record store. Implementations order pages and full scans
// by created_at descending, then id ascending, and report a missing row as
// ErrNotFound and an email collision as ErrEmailAlreadyExists.
type Repository interface {
	Insert(ctx context.Context, f Fields) (*User, error)
	FindByID(ctx context.Context, id ID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindPage(ctx context.Context, filter ListFilter, skip, limit int) (Users, int64, error)
	FindAll(ctx context.Context) (Users, error)
	UpdateByID(ctx context.Context, id ID, p Patch) (*User, error)
	DeleteByID(ctx context.Context, id ID) (*User, error)
}
