package report

import (
	"bytes"
	"encoding/csv"
	"math"
	"strings"
	"testing"

	"github.com/imagequality/nima/internal/assessment"
)

func testResults() []assessment.Result {
	uniform := []float64{0.1, 0.1, 0.1, 0.1, 0.1, 0.1, 0.1, 0.1, 0.1, 0.1}
	return []assessment.Result{
		{Image: "a.jpg", ModelType: assessment.ModelAesthetic, MeanScore: 4, Scores: uniform},
		{Image: "a.jpg", ModelType: assessment.ModelTechnical, MeanScore: 6, Scores: uniform},
		{Image: "b.png", ModelType: assessment.ModelAesthetic, MeanScore: 7, Scores: uniform},
	}
}

func TestBuildRows(t *testing.T) {
	tests := []struct {
		name     string
		filter   assessment.ModelType
		expected int
	}{
		{"both keeps everything", assessment.ModelType("both"), 3},
		{"aesthetic filter", assessment.ModelAesthetic, 2},
		{"technical filter", assessment.ModelTechnical, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := BuildRows(testResults(), tt.filter)
			if len(rows) != tt.expected {
				t.Errorf("len(rows) = %d, want %d", len(rows), tt.expected)
			}
		})
	}
}

func TestBuildRowsDerivesStd(t *testing.T) {
	rows := BuildRows(testResults(), assessment.ModelAesthetic)
	if len(rows) == 0 {
		t.Fatal("no rows")
	}
	// Uniform distribution over 1..10.
	if math.Abs(rows[0].StdScore-2.8722813232690143) > 1e-9 {
		t.Errorf("StdScore = %v, want uniform distribution std", rows[0].StdScore)
	}
}

func TestGroupByImage(t *testing.T) {
	groups := GroupByImage(BuildRows(testResults(), assessment.ModelType("both")))

	if len(groups) != 2 {
		t.Fatalf("len(groups) = %d, want 2", len(groups))
	}

	a := groups[0]
	if a.Image != "a.jpg" {
		t.Fatalf("groups[0].Image = %q, want a.jpg (sorted)", a.Image)
	}
	if a.Aesthetic == nil || a.Technical == nil {
		t.Fatal("a.jpg should have both model rows")
	}
	if a.Overall != 5 {
		t.Errorf("a.jpg Overall = %v, want 5", a.Overall)
	}

	b := groups[1]
	if b.Technical != nil {
		t.Error("b.png should have no technical row")
	}
	if b.Overall != 0 {
		t.Errorf("b.png Overall = %v, want 0 (unset without both models)", b.Overall)
	}
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	groups := GroupByImage(BuildRows(testResults(), assessment.ModelType("both")))

	if err := WriteText(&buf, groups); err != nil {
		t.Fatalf("WriteText() error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"a.jpg", "b.png", "Aesthetic: 4.00/10", "Overall:   5.00/10", "Images: 2"} {
		if !strings.Contains(out, want) {
			t.Errorf("text report missing %q:\n%s", want, out)
		}
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	rows := BuildRows(testResults(), assessment.ModelType("both"))

	if err := WriteCSV(&buf, rows); err != nil {
		t.Fatalf("WriteCSV() error: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("failed to parse CSV output: %v", err)
	}

	if len(records) != 4 {
		t.Fatalf("CSV has %d records, want header + 3 rows", len(records))
	}
	// image, model_type, mean, std, ten buckets
	if len(records[0]) != 14 {
		t.Errorf("CSV header has %d columns, want 14", len(records[0]))
	}
	if records[1][0] != "a.jpg" || records[1][1] != "aesthetic" {
		t.Errorf("first CSV row = %v, want a.jpg aesthetic", records[1][:2])
	}
}

func TestWriteJSONAndYAML(t *testing.T) {
	rows := BuildRows(testResults(), assessment.ModelType("both"))

	var jsonBuf bytes.Buffer
	if err := WriteJSON(&jsonBuf, rows); err != nil {
		t.Fatalf("WriteJSON() error: %v", err)
	}
	if !strings.Contains(jsonBuf.String(), `"mean_score": 4`) {
		t.Errorf("JSON output missing mean_score:\n%s", jsonBuf.String())
	}

	var yamlBuf bytes.Buffer
	if err := WriteYAML(&yamlBuf, rows); err != nil {
		t.Fatalf("WriteYAML() error: %v", err)
	}
	if !strings.Contains(yamlBuf.String(), "image: a.jpg") {
		t.Errorf("YAML output missing image name:\n%s", yamlBuf.String())
	}
}
