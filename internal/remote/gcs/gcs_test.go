package gcs

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"cloud.google.com/go/storage"
	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"

	"ledger/internal/remote"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"missing object", storage.ErrObjectNotExist, remote.ErrObjectNotFound},
		{"missing bucket", fmt.Errorf("wrapped: %w", storage.ErrBucketNotExist), remote.ErrObjectNotFound},
		{"expired credential", &googleapi.Error{Code: http.StatusUnauthorized}, remote.ErrUnauthorized},
		{"revoked refresh token", &oauth2.RetrieveError{ErrorCode: "invalid_grant"}, remote.ErrUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mapError("open x", tt.err); !errors.Is(got, tt.want) {
				t.Errorf("mapError() = %v, want %v", got, tt.want)
			}
		})
	}

	plain := mapError("open x", &googleapi.Error{Code: http.StatusServiceUnavailable})
	if errors.Is(plain, remote.ErrUnauthorized) || errors.Is(plain, remote.ErrObjectNotFound) {
		t.Errorf("unavailable mapped to a sentinel: %v", plain)
	}
}

func TestNewRequiresBucket(t *testing.T) {
	if _, err := New(context.Background(), "", nil); err == nil {
		t.Fatal("New() without bucket should fail")
	}
}
