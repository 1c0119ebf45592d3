package ports

import (
	"context"
	"io"
)

type ObjectStorage interface {
	PutObject(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	DeleteObject(ctx context.Context, key string) error
	GetPublicURL(key string) string
	GetBucket() string
}
