// ABOUTME: Remote audio fetcher for http(s) play inputs
// ABOUTME: Downloads into a content-addressed cache directory keyed by URL
package fetch

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DefaultTimeout bounds a single download
const DefaultTimeout = 60 * time.Second

// IsRemote reports whether input names an http or https resource
func IsRemote(input string) bool {
	return strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://")
}

// Fetcher downloads remote inputs once and serves later requests from disk
type Fetcher struct {
	cacheDir string
	client   *http.Client
	logger   *zap.Logger
}

// New creates a fetcher caching into cacheDir. An empty cacheDir uses a
// directory under os.TempDir.
func New(cacheDir string, logger *zap.Logger) (*Fetcher, error) {
	if cacheDir == "" {
		cacheDir = filepath.Join(os.TempDir(), "streamplay-cache")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &Fetcher{
		cacheDir: cacheDir,
		client:   &http.Client{Timeout: DefaultTimeout},
		logger:   logger,
	}, nil
}

// Fetch returns a local path holding the body of rawURL. The file keeps the
// URL's extension so the caller can pick a decoder from it.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid url %q: %w", rawURL, err)
	}

	cachePath := f.cachePath(rawURL, path.Ext(u.Path))
	if _, err := os.Stat(cachePath); err == nil {
		f.logger.Debug("cache hit", zap.String("url", rawURL), zap.String("path", cachePath))
		return cachePath, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("invalid url %q: %w", rawURL, err)
	}

	f.logger.Info("downloading", zap.String("url", rawURL))
	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to download %s: %w", rawURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download of %s failed: HTTP %d", rawURL, resp.StatusCode)
	}

	// Write to a temp name so an interrupted download never looks cached
	tmp, err := os.CreateTemp(f.cacheDir, "partial-*")
	if err != nil {
		return "", fmt.Errorf("failed to create cache file: %w", err)
	}
	n, err := io.Copy(tmp, resp.Body)
	closeErr := tmp.Close()
	if err == nil {
		err = closeErr
	}
	if err == nil {
		err = os.Rename(tmp.Name(), cachePath)
	}
	if err != nil {
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to save %s: %w", rawURL, err)
	}

	f.logger.Info("download complete", zap.String("path", cachePath), zap.Int64("bytes", n))
	return cachePath, nil
}

func (f *Fetcher) cachePath(rawURL, ext string) string {
	hash := sha256.Sum256([]byte(rawURL))
	return filepath.Join(f.cacheDir, fmt.Sprintf("%x%s", hash[:8], strings.ToLower(ext)))
}

// Cleanup removes the cache directory
func (f *Fetcher) Cleanup() error {
	return os.RemoveAll(f.cacheDir)
}
