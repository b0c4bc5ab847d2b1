package backend

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	applog "ledger/internal/log"
	"ledger/internal/remote/drive"
	"ledger/internal/remote/gcs"
	"ledger/internal/remote/memory"
	"ledger/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{
		logger: logger.With(applog.FieldComponent, applog.ComponentBackend),
	}
}

// CreatePersister implements Factory.CreatePersister
func (f *DefaultFactory) CreatePersister(ctx context.Context, config Config) (*PersisterResult, error) {
	if !config.Type.IsValid() {
		return nil, fmt.Errorf("invalid backend type: %s", config.Type)
	}

	switch config.Type {
	case FileBackend:
		fs, err := storage.NewFileStore(config.DataDirectory, f.logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize file store: %w", err)
		}
		f.logger.InfoContext(ctx, "Initialized file backend", "data_directory", config.DataDirectory)
		return &PersisterResult{Persister: fs}, nil

	case SQLiteBackend:
		db, err := storage.NewSQLiteStore(config.SQLiteDBPath, f.logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite store: %w", err)
		}
		f.logger.InfoContext(ctx, "Initialized SQLite backend", "db_path", config.SQLiteDBPath)
		return &PersisterResult{Persister: db, Cleanup: db.Close}, nil

	case MemoryBackend:
		f.logger.InfoContext(ctx, "Initialized memory backend, changes are lost on exit")
		return &PersisterResult{Persister: storage.NewMemoryStore()}, nil

	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

// CreateRemote implements Factory.CreateRemote
func (f *DefaultFactory) CreateRemote(ctx context.Context, config Config) (*RemoteResult, error) {
	switch config.Remote {
	case "", RemoteNone:
		return &RemoteResult{}, nil

	case RemoteMemory:
		f.logger.InfoContext(ctx, "Initialized in-memory remote")
		return &RemoteResult{Objects: memory.New()}, nil

	case RemoteGCS:
		client, err := gcs.New(ctx, config.GCSBucket, f.logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize GCS client: %w", err)
		}
		f.logger.InfoContext(ctx, "Initialized GCS remote", "bucket", config.GCSBucket)
		return &RemoteResult{Objects: client, Cleanup: client.Close}, nil

	case RemoteDrive:
		clientJSON, err := readSecret(config.GoogleOAuthClientJSON, config.GoogleOAuthClientFile)
		if err != nil {
			return nil, fmt.Errorf("oauth client: %w", err)
		}
		tokenJSON, err := readSecret(config.GoogleOAuthTokenJSON, config.GoogleOAuthTokenFile)
		if err != nil {
			return nil, fmt.Errorf("oauth token: %w", err)
		}
		ts, err := drive.TokenSource(ctx, clientJSON, tokenJSON)
		if err != nil {
			return nil, err
		}
		client, err := drive.New(ctx, ts, f.logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Drive client: %w", err)
		}
		f.logger.InfoContext(ctx, "Initialized Google Drive remote")
		return &RemoteResult{Objects: client, TokenSource: ts}, nil

	default:
		return nil, fmt.Errorf("unsupported remote type: %s", config.Remote)
	}
}

// readSecret prefers the inline value and falls back to reading path.
func readSecret(inline, path string) ([]byte, error) {
	if inline != "" {
		return []byte(inline), nil
	}
	if path == "" {
		return nil, fmt.Errorf("neither inline JSON nor file path provided")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return b, nil
}
