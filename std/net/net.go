// Package net fetches remote scripts over HTTP.
package net

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	userAgent     = "kbridge/1.0 (compatible; Go)"
	maxScriptSize = 8 << 20
)

var client = &http.Client{Timeout: 30 * time.Second}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("net: %s: HTTP %d", e.URL, e.StatusCode)
}

// Fetch GETs rawURL and returns the body and its Content-Type. Bodies larger
// than maxScriptSize are an error.
func Fetch(ctx context.Context, rawURL string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("net: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/javascript, application/javascript, text/plain;q=0.9, */*;q=0.1")

	resp, err := client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("net: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return nil, "", &StatusError{URL: rawURL, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxScriptSize+1))
	if err != nil {
		return nil, "", fmt.Errorf("net: read %s: %w", rawURL, err)
	}
	if len(body) > maxScriptSize {
		return nil, "", fmt.Errorf("net: %s is larger than %d bytes", rawURL, maxScriptSize)
	}
	return body, resp.Header.Get("Content-Type"), nil
}

// IsNetworkURL reports whether s has an http or https scheme.
func IsNetworkURL(s string) bool {
	scheme, _, ok := strings.Cut(s, "://")
	return ok && (strings.EqualFold(scheme, "http") || strings.EqualFold(scheme, "https"))
}
