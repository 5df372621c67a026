package images

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func testServer(t *testing.T, status int, body []byte) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write(body)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestDownload(t *testing.T) {
	payload := bytes.Repeat([]byte("img"), 1000)
	server := testServer(t, http.StatusOK, payload)

	dest := filepath.Join(t.TempDir(), "sample_1.jpg")
	fetcher := NewFetcher(5 * time.Second)

	if err := fetcher.Download(server.URL, dest); err != nil {
		t.Fatalf("Download() error: %v", err)
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(data, payload) {
		t.Error("downloaded file does not match served payload")
	}
}

func TestDownloadRejectsPlaceholder(t *testing.T) {
	server := testServer(t, http.StatusOK, []byte("<html>not found</html>"))

	dest := filepath.Join(t.TempDir(), "sample_1.jpg")
	fetcher := NewFetcher(5 * time.Second)

	if err := fetcher.Download(server.URL, dest); err == nil {
		t.Error("Download() = nil, want error for tiny payload")
	}
	if _, err := os.Stat(dest); !os.IsNotExist(err) {
		t.Error("placeholder payload was written to disk")
	}
}

func TestDownloadRejectsNon200(t *testing.T) {
	server := testServer(t, http.StatusNotFound, bytes.Repeat([]byte("x"), 2000))

	fetcher := NewFetcher(5 * time.Second)
	if err := fetcher.Download(server.URL, filepath.Join(t.TempDir(), "f")); err == nil {
		t.Error("Download() = nil, want error for 404")
	}
}

func TestDownloadIfMissing(t *testing.T) {
	payload := bytes.Repeat([]byte("w"), 2000)
	server := testServer(t, http.StatusOK, payload)

	dir := t.TempDir()
	dest := filepath.Join(dir, "models", "weights.hdf5")
	fetcher := NewFetcher(5 * time.Second)

	downloaded, err := fetcher.DownloadIfMissing(server.URL, dest)
	if err != nil {
		t.Fatalf("DownloadIfMissing() error: %v", err)
	}
	if !downloaded {
		t.Error("DownloadIfMissing() = false, want true on first fetch")
	}

	downloaded, err = fetcher.DownloadIfMissing(server.URL, dest)
	if err != nil {
		t.Fatalf("DownloadIfMissing() second call error: %v", err)
	}
	if downloaded {
		t.Error("DownloadIfMissing() = true, want false when file exists")
	}
}
