package images

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// The NIMA prediction script only accepts these formats. Anything else
// (gif, webp, ...) is skipped silently.
var supportedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// Supported reports whether a file name has a supported image extension.
func Supported(name string) bool {
	return supportedExtensions[strings.ToLower(filepath.Ext(name))]
}

// Discover returns the supported image file names in a directory,
// sorted. Subdirectories are not descended into.
func Discover(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read image directory %s: %w", dir, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if Supported(entry.Name()) {
			names = append(names, entry.Name())
		}
	}

	sort.Strings(names)
	return names, nil
}
