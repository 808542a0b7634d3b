package rules

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/reviewbridge/reviewbridge/logger"
)

const cachedFileName = "team-rules.md"

// Resolve turns the configured rules reference into a readable local path.
// A plain path is validated to exist; an http(s) URL is fetched into
// cacheDir and the cached path is returned. An empty reference resolves to
// an empty path with no error.
func Resolve(ctx context.Context, pathOrURL, cacheDir string) (string, error) {
	if pathOrURL == "" {
		return "", nil
	}

	if strings.HasPrefix(pathOrURL, "http://") || strings.HasPrefix(pathOrURL, "https://") {
		return fetch(ctx, pathOrURL, cacheDir)
	}

	if _, err := os.Stat(pathOrURL); err != nil {
		return "", fmt.Errorf("rules file not readable: %w", err)
	}
	return pathOrURL, nil
}

func fetch(ctx context.Context, url, cacheDir string) (string, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("building rules request: %w", err)
	}

	resp, err := NewRetryableClient(DefaultRetryConfig()).Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching rules from %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetching rules from %s: unexpected status %s", url, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading rules body: %w", err)
	}

	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return "", fmt.Errorf("creating rules cache: %w", err)
	}

	path := filepath.Join(cacheDir, cachedFileName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("caching rules: %w", err)
	}

	logger.Debugf("Cached team rules from %s at %s", url, path)
	return path, nil
}
