package service

import (
	"context"
	"io"

	"spark/internal/errors"
)

// ErrObjectNotFound is returned when the object key does not exist.
var ErrObjectNotFound = errors.New("object not found")

// ImageStorage keeps image bytes in an object store.
type ImageStorage interface {
	// Put writes body under key.
	Put(ctx context.Context, key, contentType string, body io.Reader) error

	// Open returns a reader for key. The caller closes it.
	Open(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes key. Missing keys are not an error.
	Delete(ctx context.Context, key string) error
}
