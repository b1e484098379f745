package repository

import "context"

// BlobStore persists opaque values under string keys. The tracker keeps its
// whole loan list as one blob.
type BlobStore interface {
	// Get returns the value stored under key; ok is false when nothing was stored.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	// Set overwrites the value stored under key.
	Set(ctx context.Context, key string, value []byte) error
}
