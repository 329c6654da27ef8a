package storage

import (
	"context"
	"errors"
	"io"
)

// PutOptions describes upload options for object storage.
type PutOptions struct {
	ContentType string
}

// ObjectInfo describes a stored object.
type ObjectInfo struct {
	ObjectName string
	Size       int64
}

// ErrObjectMissing is returned by GetObject/StatObject when the key does not
// exist. Callers treat a missing blob as not-found regardless of metadata.
var ErrObjectMissing = errors.New("object missing")

// Store abstracts object storage operations. Uploads land on a staging key
// first and are promoted once metadata is committed, so a failure on either
// side leaves nothing orphaned.
type Store interface {
	PutObject(ctx context.Context, bucket, object string, reader io.Reader, size int64, opts PutOptions) error
	GetObject(ctx context.Context, bucket, object string) (io.ReadCloser, ObjectInfo, error)
	StatObject(ctx context.Context, bucket, object string) (ObjectInfo, error)
	// RemoveObject is a no-op when the key is already absent.
	RemoveObject(ctx context.Context, bucket, object string) error
	// PromoteObject server-side copies src to dst and removes src.
	PromoteObject(ctx context.Context, bucket, src, dst string) error
}

// Default is the main object store instance.
var Default Store

// DefaultTest is the test object store instance.
var DefaultTest Store
