// Package storage holds the blob store used for uploaded document content.
package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrObjectNotFound is returned by Get when the key does not exist in the bucket.
var ErrObjectNotFound = errors.New("object not found")

// Metadata keys attached to stored documents.
const (
	MetaOriginalFilename = "original-filename"
	MetaDocumentID       = "document-id"
)

// PutObjectOptions describe an upload. Size is -1 when the length is unknown;
// the backend then switches to multipart streaming.
type PutObjectOptions struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// ObjectInfo is what the store reports back about a blob.
type ObjectInfo struct {
	Key          string
	Size         int64
	ETag         string
	ContentType  string
	LastModified time.Time
	Metadata     map[string]string
}

// Storage is the blob store behind document uploads. Content always streams;
// nothing is written to local disk.
type Storage interface {
	Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error)
	// Get returns ErrObjectNotFound for a missing key.
	Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)
	// Delete does not fail for a missing key.
	Delete(ctx context.Context, key string) error
	// PresignGet returns a time-limited download URL.
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
	// URL returns the public, non-expiring URL of an object.
	URL(key string) string
}
