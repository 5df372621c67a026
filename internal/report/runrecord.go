package report

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/imagequality/nima/internal/assessment"
	"gopkg.in/yaml.v3"
)

// RunConfig captures the settings an assessment run was started with.
type RunConfig struct {
	DockerImage string   `yaml:"dockerimage"`
	ImageDir    string   `yaml:"imagedir"`
	ResultsDir  string   `yaml:"resultsdir"`
	ModelTypes  []string `yaml:"modeltypes"`
	Concurrency int      `yaml:"concurrency"`
	Timestamp   string   `yaml:"timestamp"`
}

// RunFailure records one container invocation that produced no result.
type RunFailure struct {
	Image     string `yaml:"image"`
	ModelType string `yaml:"modeltype"`
	Error     string `yaml:"error"`
}

// RunRecord is the YAML document written after each assessment run.
type RunRecord struct {
	Config   RunConfig              `yaml:"config"`
	Summary  *assessment.RunSummary `yaml:"summary"`
	Failures []RunFailure           `yaml:"failures,omitempty"`
}

// SaveRunRecord writes a timestamped run record into the results
// directory and returns its path.
func SaveRunRecord(record RunRecord, resultsDir string) (string, error) {
	if err := os.MkdirAll(resultsDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create results directory: %w", err)
	}

	if record.Config.Timestamp == "" {
		record.Config.Timestamp = time.Now().Format("2006-01-02_15-04-05")
	}

	path := filepath.Join(resultsDir, fmt.Sprintf("run-%s.yaml", record.Config.Timestamp))

	data, err := yaml.Marshal(&record)
	if err != nil {
		return "", fmt.Errorf("failed to marshal run record: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write run record: %w", err)
	}

	return path, nil
}
