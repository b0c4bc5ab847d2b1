package drive

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
)

// Scope is the only Drive scope the ledger asks for: files it created itself.
const Scope = drive.DriveFileScope

// OAuthConfig parses a Google OAuth client JSON (the "installed" or "web"
// download from the console) for the Drive file scope.
func OAuthConfig(clientJSON []byte) (*oauth2.Config, error) {
	if len(clientJSON) == 0 {
		return nil, errors.New("empty oauth client json")
	}
	cfg, err := google.ConfigFromJSON(clientJSON, Scope)
	if err != nil {
		return nil, fmt.Errorf("oauth config: %w", err)
	}
	return cfg, nil
}

// TokenSource returns a refreshing token source for a previously granted
// token. The token JSON is the one written by oauth-init.
func TokenSource(ctx context.Context, clientJSON, tokenJSON []byte) (oauth2.TokenSource, error) {
	cfg, err := OAuthConfig(clientJSON)
	if err != nil {
		return nil, err
	}
	var tok oauth2.Token
	if err := json.Unmarshal(tokenJSON, &tok); err != nil {
		return nil, fmt.Errorf("oauth token: %w", err)
	}
	if tok.AccessToken == "" && tok.RefreshToken == "" {
		return nil, errors.New("oauth token: no access or refresh token")
	}
	return cfg.TokenSource(ctx, &tok), nil
}
