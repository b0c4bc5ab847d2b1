// Package drive backs up the ledger to a file in the user's Google Drive.
package drive

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"golang.org/x/oauth2"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	applog "ledger/internal/log"
	"ledger/internal/remote"
)

const jsonContentType = "application/json"

type Client struct {
	svc    *drive.Service
	logger *slog.Logger
}

var _ remote.ObjectStore = (*Client)(nil)

// New creates a Drive client authorised by ts. Extra options are appended
// after the token source, so tests can point the client at a fake endpoint.
func New(ctx context.Context, ts oauth2.TokenSource, logger *slog.Logger, opts ...option.ClientOption) (*Client, error) {
	var clientOpts []option.ClientOption
	if ts != nil {
		clientOpts = append(clientOpts, option.WithTokenSource(ts))
	}
	clientOpts = append(clientOpts, opts...)

	svc, err := drive.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		svc:    svc,
		logger: logger.With(applog.FieldComponent, applog.ComponentRemote, applog.FieldBackend, "drive"),
	}, nil
}

// Upload creates the named file or replaces the content of the existing one.
func (c *Client) Upload(ctx context.Context, name string, data []byte) error {
	id, err := c.lookup(ctx, name)
	if err != nil && !errors.Is(err, remote.ErrObjectNotFound) {
		return err
	}

	media := googleapi.ContentType(jsonContentType)
	if id == "" {
		meta := &drive.File{Name: name, MimeType: jsonContentType}
		f, err := c.svc.Files.Create(meta).Media(bytes.NewReader(data), media).Fields("id").Context(ctx).Do()
		if err != nil {
			return mapError("create "+name, err)
		}
		id = f.Id
	} else {
		_, err := c.svc.Files.Update(id, &drive.File{}).Media(bytes.NewReader(data), media).Fields("id").Context(ctx).Do()
		if err != nil {
			return mapError("update "+name, err)
		}
	}

	c.logger.InfoContext(ctx, "Backup uploaded",
		applog.FieldObjectName, name,
		"file_id", id,
		applog.FieldBytes, len(data))
	return nil
}

// Download returns the content of the named file.
func (c *Client) Download(ctx context.Context, name string) ([]byte, error) {
	id, err := c.lookup(ctx, name)
	if err != nil {
		return nil, err
	}

	resp, err := c.svc.Files.Get(id).Context(ctx).Download()
	if err != nil {
		return nil, mapError("download "+name, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	c.logger.DebugContext(ctx, "Backup downloaded",
		applog.FieldObjectName, name,
		applog.FieldBytes, len(data))
	return data, nil
}

// lookup returns the id of the most recently modified, non-trashed file
// with the given name.
func (c *Client) lookup(ctx context.Context, name string) (string, error) {
	q := fmt.Sprintf("name = '%s' and trashed = false", escapeQuery(name))
	list, err := c.svc.Files.List().
		Q(q).
		Spaces("drive").
		OrderBy("modifiedTime desc").
		PageSize(1).
		Fields("files(id, name)").
		Context(ctx).
		Do()
	if err != nil {
		return "", mapError("find "+name, err)
	}
	if len(list.Files) == 0 {
		return "", fmt.Errorf("drive %s: %w", name, remote.ErrObjectNotFound)
	}
	return list.Files[0].Id, nil
}

func escapeQuery(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `'`, `\'`)
}

// mapError translates API and token errors into the remote sentinels.
func mapError(op string, err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch gerr.Code {
		case http.StatusUnauthorized:
			return fmt.Errorf("drive %s: %w: %w", op, remote.ErrUnauthorized, err)
		case http.StatusNotFound:
			return fmt.Errorf("drive %s: %w: %w", op, remote.ErrObjectNotFound, err)
		}
	}
	var rerr *oauth2.RetrieveError
	if errors.As(err, &rerr) {
		return fmt.Errorf("drive %s: %w: %w", op, remote.ErrUnauthorized, err)
	}
	return fmt.Errorf("drive %s: %w", op, err)
}
