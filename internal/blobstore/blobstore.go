// Package blobstore implements C1: a small typed key/value interface for
// the two JSON artifacts (users.json, timecamp_users.json) handed off
// between pipeline stages, backed by either the local filesystem or an
// S3-compatible object store.
package blobstore

import (
	"context"
	"fmt"

	"github.com/hrsync/tcsync/internal/errs"
)

// Store reads and writes whole JSON objects by logical key. Implementations
// never perform partial reads — GetJSON returns either the complete object
// or an error classified via internal/errs (NotFound, Transport, Auth).
type Store interface {
	GetJSON(ctx context.Context, key string) ([]byte, error)
	PutJSON(ctx context.Context, key string, data []byte) error
}

// ErrNotFound is returned (wrapping errs.ErrNotFound) when key does not
// exist in the backing store.
var ErrNotFound = fmt.Errorf("%w: blob key not found", errs.ErrNotFound)
