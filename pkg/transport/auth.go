package transport

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// NewWithCredentialsFile creates a transport authenticated with a service
// account JSON key file. An empty path falls back to the
// GOOGLE_APPLICATION_CREDENTIALS environment variable.
func NewWithCredentialsFile(ctx context.Context, path string) (*Client, error) {
	if path == "" {
		path = os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")
		if path == "" {
			return nil, fmt.Errorf("no credentials file path provided and GOOGLE_APPLICATION_CREDENTIALS not set")
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read credentials file: %w", err)
	}
	return NewWithCredentialsJSON(ctx, data)
}

// NewWithCredentialsJSON creates a transport from raw service account JSON.
func NewWithCredentialsJSON(ctx context.Context, data []byte) (*Client, error) {
	creds, err := google.CredentialsFromJSON(ctx, data, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}
	return New(ctx, option.WithCredentials(creds))
}

// NewWithDefaultCredentials creates a transport using Application Default
// Credentials: the GOOGLE_APPLICATION_CREDENTIALS variable, the gcloud
// application-default login, or the GCE metadata service, in that order.
func NewWithDefaultCredentials(ctx context.Context) (*Client, error) {
	tokenSource, err := google.DefaultTokenSource(ctx, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("get default token source: %w", err)
	}
	return New(ctx, option.WithTokenSource(tokenSource))
}
