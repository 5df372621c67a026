package assessment

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ModelType selects which pretrained NIMA model scores an image.
type ModelType string

const (
	ModelAesthetic ModelType = "aesthetic"
	ModelTechnical ModelType = "technical"
)

// Valid reports whether the model type is one of the two known models.
func (m ModelType) Valid() bool {
	return m == ModelAesthetic || m == ModelTechnical
}

// ModelTypes returns the model types selected by the assess flags.
// Neither flag (or both) means both models, matching the original
// --both default.
func ModelTypes(aesthetic, technical bool) []ModelType {
	if aesthetic && !technical {
		return []ModelType{ModelAesthetic}
	}
	if technical && !aesthetic {
		return []ModelType{ModelTechnical}
	}
	return []ModelType{ModelAesthetic, ModelTechnical}
}

// Result is the per-(image, model type) record produced by one
// container invocation.
type Result struct {
	Image     string    `json:"image"`
	ModelType ModelType `json:"model_type"`
	MeanScore float64   `json:"mean_score"`
	Scores    []float64 `json:"scores"`
}

// StdScore derives the standard deviation of the score distribution.
func (r *Result) StdScore() float64 {
	return StdScore(r.Scores)
}

// ResultFilename returns the result file name for an image and model
// type: <base>_<model_type>_results.json.
func ResultFilename(imageName string, mt ModelType) string {
	base := strings.TrimSuffix(imageName, filepath.Ext(imageName))
	return fmt.Sprintf("%s_%s_results.json", base, mt)
}

// LoadResult loads a single result file.
func LoadResult(path string) (*Result, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open result file: %w", err)
	}
	defer file.Close()

	var result Result
	if err := json.NewDecoder(file).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode result file %s: %w", path, err)
	}

	if len(result.Scores) != NumBuckets {
		return nil, fmt.Errorf("result file %s has %d score buckets, want %d", path, len(result.Scores), NumBuckets)
	}
	if !result.ModelType.Valid() {
		return nil, fmt.Errorf("result file %s has unknown model type %q", path, result.ModelType)
	}

	if sum := DistributionSum(result.Scores); math.Abs(sum-1) > 0.05 {
		slog.Warn("Score distribution does not sum to 1", "path", path, "sum", sum)
	}

	return &result, nil
}

// SaveResult writes a result file into the results directory using the
// canonical file name. The container normally writes result files
// itself; this is used by tests and by tools that regenerate results.
func SaveResult(result *Result, resultsDir string) error {
	if err := os.MkdirAll(resultsDir, 0755); err != nil {
		return fmt.Errorf("failed to create results directory: %w", err)
	}

	path := filepath.Join(resultsDir, ResultFilename(result.Image, result.ModelType))
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create result file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(result); err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}

	return nil
}

// LoadResultsDir loads every *_results.json file in a directory,
// sorted by image name then model type. Malformed files are skipped
// with a warning rather than failing the whole load.
func LoadResultsDir(resultsDir string) ([]Result, error) {
	paths, err := filepath.Glob(filepath.Join(resultsDir, "*_results.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to list results directory: %w", err)
	}

	results := make([]Result, 0, len(paths))
	for _, path := range paths {
		result, err := LoadResult(path)
		if err != nil {
			slog.Warn("Skipping malformed result file", "path", path, "error", err)
			continue
		}
		results = append(results, *result)
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Image != results[j].Image {
			return results[i].Image < results[j].Image
		}
		return results[i].ModelType < results[j].ModelType
	})

	return results, nil
}
