package storage

import (
	"context"
	"io"
	"time"
)

// Store resolves opaque media keys against an object store. Callers
// keep only keys; bytes are never retained after upload.
type Store interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, string, error)
	Delete(ctx context.Context, key string) error
	SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
}
