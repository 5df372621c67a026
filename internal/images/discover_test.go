package images

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSupported(t *testing.T) {
	tests := []struct {
		name     string
		expected bool
	}{
		{"a.jpg", true},
		{"a.jpeg", true},
		{"a.png", true},
		{"a.JPG", true},
		{"a.gif", false},
		{"a.webp", false},
		{"a.txt", false},
		{"noext", false},
	}

	for _, tt := range tests {
		if got := Supported(tt.name); got != tt.expected {
			t.Errorf("Supported(%q) = %v, want %v", tt.name, got, tt.expected)
		}
	}
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()

	for _, name := range []string{"b.png", "a.jpg", "c.gif", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	// Subdirectories are ignored, even with image-like names.
	if err := os.Mkdir(filepath.Join(dir, "nested.jpg"), 0755); err != nil {
		t.Fatal(err)
	}

	names, err := Discover(dir)
	if err != nil {
		t.Fatalf("Discover() error: %v", err)
	}

	expected := []string{"a.jpg", "b.png"}
	if len(names) != len(expected) {
		t.Fatalf("Discover() = %v, want %v", names, expected)
	}
	for i := range names {
		if names[i] != expected[i] {
			t.Errorf("Discover()[%d] = %q, want %q", i, names[i], expected[i])
		}
	}
}

func TestDiscoverEmptyDir(t *testing.T) {
	names, err := Discover(t.TempDir())
	if err != nil {
		t.Fatalf("Discover() error: %v", err)
	}
	if len(names) != 0 {
		t.Errorf("Discover() = %v, want empty", names)
	}
}

func TestDiscoverMissingDir(t *testing.T) {
	if _, err := Discover(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("Discover() = nil error, want error for missing directory")
	}
}
