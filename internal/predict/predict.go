// Package predict carries the container-side prediction script as an
// embedded asset. The script runs inside the TensorFlow container; the
// Go side only installs it into the mounted models directory.
package predict

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
)

//go:embed predict_script.py
var script []byte

//go:embed requirements.txt
var requirements []byte

// ScriptName is the file name the assess command passes to the
// container's python interpreter.
const ScriptName = "predict_script.py"

// RequirementsName pins the script's dependencies for anyone running
// it outside the stock TensorFlow image.
const RequirementsName = "requirements.txt"

// WriteFiles installs the prediction script and its requirements file
// into dir, overwriting stale copies from earlier versions.
func WriteFiles(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create models directory: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, ScriptName), script, 0755); err != nil {
		return fmt.Errorf("failed to write prediction script: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, RequirementsName), requirements, 0644); err != nil {
		return fmt.Errorf("failed to write requirements file: %w", err)
	}

	return nil
}
