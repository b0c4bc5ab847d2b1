// Package gcs backs up the ledger to an object in a Google Cloud Storage bucket.
package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"cloud.google.com/go/storage"
	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	applog "ledger/internal/log"
	"ledger/internal/remote"
)

type Client struct {
	client *storage.Client
	bucket string
	logger *slog.Logger
}

var _ remote.ObjectStore = (*Client)(nil)

// New creates a client for bucket. Without options it uses Application
// Default Credentials.
func New(ctx context.Context, bucket string, logger *slog.Logger, opts ...option.ClientOption) (*Client, error) {
	if bucket == "" {
		return nil, errors.New("gcs: bucket name is required")
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		client: client,
		bucket: bucket,
		logger: logger.With(applog.FieldComponent, applog.ComponentRemote, applog.FieldBackend, "gcs"),
	}, nil
}

func (c *Client) Close() error { return c.client.Close() }

// Upload writes the object. The previous version stays visible until the
// writer is closed successfully; cancelling ctx aborts the write.
func (c *Client) Upload(ctx context.Context, name string, data []byte) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	w := c.client.Bucket(c.bucket).Object(name).NewWriter(ctx)
	w.ContentType = "application/json"

	if _, err := w.Write(data); err != nil {
		cancel()
		_ = w.Close()
		return mapError("write "+name, err)
	}
	if err := w.Close(); err != nil {
		return mapError("finalize "+name, err)
	}

	c.logger.InfoContext(ctx, "Backup uploaded",
		applog.FieldObjectName, name,
		"bucket", c.bucket,
		applog.FieldBytes, len(data))
	return nil
}

func (c *Client) Download(ctx context.Context, name string) ([]byte, error) {
	r, err := c.client.Bucket(c.bucket).Object(name).NewReader(ctx)
	if err != nil {
		return nil, mapError("open "+name, err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, mapError("read "+name, err)
	}
	return data, nil
}

func mapError(op string, err error) error {
	if errors.Is(err, storage.ErrObjectNotExist) || errors.Is(err, storage.ErrBucketNotExist) {
		return fmt.Errorf("gcs %s: %w: %w", op, remote.ErrObjectNotFound, err)
	}
	var gerr *googleapi.Error
	if errors.As(err, &gerr) && gerr.Code == http.StatusUnauthorized {
		return fmt.Errorf("gcs %s: %w: %w", op, remote.ErrUnauthorized, err)
	}
	var rerr *oauth2.RetrieveError
	if errors.As(err, &rerr) {
		return fmt.Errorf("gcs %s: %w: %w", op, remote.ErrUnauthorized, err)
	}
	return fmt.Errorf("gcs %s: %w", op, err)
}
