package gmail

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gmailapi "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// CredentialError reports a missing or malformed OAuth client or token file.
// It is fatal only to the harvester call, never to the web pipeline.
type CredentialError struct {
	Path string
	Err  error
}

func (e *CredentialError) Error() string {
	return fmt.Sprintf("gmail credentials %s: %v", e.Path, e.Err)
}

// Unwrap exposes the underlying read/parse error.
func (e *CredentialError) Unwrap() error { return e.Err }

// newAPIClient authenticates with the stored offline token and returns a
// client over the real Gmail API.
func newAPIClient(ctx context.Context, cfg Config) (mailClient, error) {
	clientJSON, err := os.ReadFile(cfg.CredentialsPath)
	if err != nil {
		return nil, &CredentialError{Path: cfg.CredentialsPath, Err: err}
	}
	// ConfigFromJSON accepts both "installed" and "web" client shapes.
	oauthCfg, err := google.ConfigFromJSON(clientJSON, gmailapi.GmailReadonlyScope)
	if err != nil {
		return nil, &CredentialError{Path: cfg.CredentialsPath, Err: err}
	}

	tokenJSON, err := os.ReadFile(cfg.TokenPath)
	if err != nil {
		return nil, &CredentialError{Path: cfg.TokenPath, Err: err}
	}
	var token oauth2.Token
	if err := json.Unmarshal(tokenJSON, &token); err != nil {
		return nil, &CredentialError{Path: cfg.TokenPath, Err: err}
	}

	svc, err := gmailapi.NewService(ctx, option.WithHTTPClient(oauthCfg.Client(ctx, &token)))
	if err != nil {
		return nil, fmt.Errorf("gmail service: %w", err)
	}
	return &apiClient{svc: svc}, nil
}

type apiClient struct {
	svc *gmailapi.Service
}

func (c *apiClient) ListMessageIDs(ctx context.Context, query string, maxResults int64) ([]string, error) {
	list, err := c.svc.Users.Messages.List("me").
		Q(query).
		MaxResults(maxResults).
		Context(ctx).
		Do()
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(list.Messages))
	for _, m := range list.Messages {
		if m.Id != "" {
			ids = append(ids, m.Id)
		}
	}
	return ids, nil
}

func (c *apiClient) GetMessage(ctx context.Context, id string) (*gmailapi.Message, error) {
	return c.svc.Users.Messages.Get("me", id).Format("full").Context(ctx).Do()
}
