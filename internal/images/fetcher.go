package images

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// Some hosts answer missing files with a tiny HTML error page and a
// 200 status. Anything smaller than this is treated as a placeholder.
const minDownloadSize = 1000

// Fetcher downloads sample images and model weight files over HTTP.
type Fetcher struct {
	HTTPClient *http.Client
}

// NewFetcher creates a fetcher with the given request timeout.
func NewFetcher(timeout time.Duration) *Fetcher {
	return &Fetcher{
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Download fetches a URL and writes it to outputPath. The parent
// directory must already exist.
func (f *Fetcher) Download(url, outputPath string) error {
	resp, err := f.HTTPClient.Get(url)
	if err != nil {
		return fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s returned status %d", url, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if len(data) < minDownloadSize {
		return fmt.Errorf("download too small (%d bytes, likely placeholder): %s", len(data), url)
	}

	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", outputPath, err)
	}

	return nil
}

// DownloadIfMissing fetches a URL unless outputPath already exists.
// It reports whether a download actually happened.
func (f *Fetcher) DownloadIfMissing(url, outputPath string) (bool, error) {
	if _, err := os.Stat(outputPath); err == nil {
		slog.Debug("File already exists, skipping download", "path", outputPath)
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("failed to stat %s: %w", outputPath, err)
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return false, fmt.Errorf("failed to create directory for %s: %w", outputPath, err)
	}

	if err := f.Download(url, outputPath); err != nil {
		return false, err
	}

	return true, nil
}
