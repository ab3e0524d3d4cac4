package resource

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	stdnet "kbridge/std/net"
)

// Fetcher retrieves script sources by URI.
type Fetcher interface {
	Fetch(ctx context.Context, uri string) (body []byte, contentType string, err error)
}

// DefaultFetcher reads scripts from local files, from stdin ("-"), or over
// HTTP/HTTPS.
type DefaultFetcher struct {
	Stdin io.Reader
}

// NewFetcher creates a DefaultFetcher reading "-" from os.Stdin.
func NewFetcher() *DefaultFetcher {
	return &DefaultFetcher{Stdin: os.Stdin}
}

// Fetch retrieves the resource at the given URI.
func (f *DefaultFetcher) Fetch(ctx context.Context, uri string) ([]byte, string, error) {
	switch {
	case uri == "-":
		if f.Stdin == nil {
			return nil, "", fmt.Errorf("no stdin to read from")
		}
		body, err := io.ReadAll(f.Stdin)
		if err != nil {
			return nil, "", fmt.Errorf("reading stdin: %w", err)
		}
		return body, "text/javascript", nil
	case stdnet.IsNetworkURL(uri):
		return stdnet.Fetch(ctx, uri)
	}
	body, err := os.ReadFile(strings.TrimPrefix(uri, "file://"))
	if err != nil {
		return nil, "", err
	}
	return body, "text/javascript", nil
}

// FetchScript fetches a script URI and returns its text content.
// Returns an error if the content type does not look like script or text.
func FetchScript(ctx context.Context, f Fetcher, uri string) (string, error) {
	body, contentType, err := f.Fetch(ctx, uri)
	if err != nil {
		return "", err
	}
	ct := strings.ToLower(contentType)
	if ct != "" && !strings.HasPrefix(ct, "text/") && !strings.Contains(ct, "javascript") {
		return "", fmt.Errorf("unexpected content type for script %s: %s", uri, contentType)
	}
	return string(body), nil
}
