// Package remote defines the object store the ledger backs up to.
package remote

import (
	"context"
	"errors"
)

var (
	// ErrUnauthorized means the credential was rejected, expired or revoked.
	// The user has to sign in again before retrying.
	ErrUnauthorized = errors.New("remote: unauthorized")
	// ErrObjectNotFound means no backup exists under the requested name.
	ErrObjectNotFound = errors.New("remote: object not found")
)

// ObjectStore stores opaque blobs under a name. Upload replaces any existing
// object atomically from the reader's point of view.
type ObjectStore interface {
	Upload(ctx context.Context, name string, data []byte) error
	Download(ctx context.Context, name string) ([]byte, error)
}
