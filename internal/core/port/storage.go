package port

import (
	"context"
	"io"
)

// FileStorage is an interface to define file storage interactions. Paths are
// relative to a configured upload root; absolute paths never cross this
// boundary.
type FileStorage interface {
	Put(ctx context.Context, path string, r io.Reader) error
	Delete(ctx context.Context, path string) error
	Exists(ctx context.Context, path string) (bool, error)
	ReadStream(ctx context.Context, path string) (io.ReadCloser, error)
}
