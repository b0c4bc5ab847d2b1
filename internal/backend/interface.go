package backend

import (
	"context"

	"golang.org/x/oauth2"

	"ledger/internal/ledger"
	"ledger/internal/remote"
)

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// PersisterResult contains the persister and an optional cleanup function.
type PersisterResult struct {
	Persister ledger.Persister
	Cleanup   CleanupFunc
}

// RemoteResult contains the object store, the credential it runs under and
// an optional cleanup function. Objects is nil when no remote is configured.
type RemoteResult struct {
	Objects     remote.ObjectStore
	TokenSource oauth2.TokenSource
	Cleanup     CleanupFunc
}

// Close runs the cleanup function if there is one.
func (r *PersisterResult) Close() error {
	if r == nil || r.Cleanup == nil {
		return nil
	}
	return r.Cleanup()
}

// Close runs the cleanup function if there is one.
func (r *RemoteResult) Close() error {
	if r == nil || r.Cleanup == nil {
		return nil
	}
	return r.Cleanup()
}

// Factory creates backends based on configuration
type Factory interface {
	CreatePersister(ctx context.Context, config Config) (*PersisterResult, error)
	CreateRemote(ctx context.Context, config Config) (*RemoteResult, error)
}

// Config holds configuration for backend creation
type Config struct {
	Type BackendType

	// File backend
	DataDirectory string

	// SQLite backend
	SQLiteDBPath string

	Remote     RemoteType
	ObjectName string

	// GCS remote
	GCSBucket string

	// Drive remote
	GoogleOAuthClientFile string
	GoogleOAuthTokenFile  string
	GoogleOAuthClientJSON string
	GoogleOAuthTokenJSON  string
}

// BackendType represents the type of local backend
type BackendType string

const (
	FileBackend   BackendType = "file"
	SQLiteBackend BackendType = "sqlite"
	MemoryBackend BackendType = "memory"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case FileBackend, SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}

// RemoteType selects the object store backups go to.
type RemoteType string

const (
	RemoteNone   RemoteType = "none"
	RemoteDrive  RemoteType = "drive"
	RemoteGCS    RemoteType = "gcs"
	RemoteMemory RemoteType = "memory"
)

func (rt RemoteType) String() string {
	return string(rt)
}

func (rt RemoteType) IsValid() bool {
	switch rt {
	case RemoteNone, RemoteDrive, RemoteGCS, RemoteMemory:
		return true
	default:
		return false
	}
}
