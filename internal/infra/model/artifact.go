package model

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
)

// FetchArtifact reads the model artifact from an http(s) URL, a file:// URL or a local path.
func FetchArtifact(ctx context.Context, client *http.Client, location string) ([]byte, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, fmt.Errorf("model artifact location is empty")
	}

	u, err := url.Parse(location)
	if err == nil {
		switch u.Scheme {
		case "http", "https":
			return fetchHTTP(ctx, client, location)
		case "file":
			return os.ReadFile(u.Path)
		}
	}
	return os.ReadFile(location)
}

func fetchHTTP(ctx context.Context, client *http.Client, location string) ([]byte, error) {
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download model: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download model: unexpected status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("download model: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("download model: empty artifact")
	}
	return data, nil
}
