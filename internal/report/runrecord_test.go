package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/imagequality/nima/internal/assessment"
	"github.com/parquet-go/parquet-go"
)

func TestSaveRunRecord(t *testing.T) {
	dir := t.TempDir()

	record := RunRecord{
		Config: RunConfig{
			DockerImage: "tensorflow/tensorflow:2.9.1",
			ImageDir:    "sample_images",
			ResultsDir:  dir,
			ModelTypes:  []string{"aesthetic", "technical"},
			Concurrency: 1,
		},
		Summary: assessment.Summarize([]assessment.Result{
			{Image: "a.jpg", ModelType: assessment.ModelAesthetic, MeanScore: 5},
		}, 1),
		Failures: []RunFailure{
			{Image: "b.png", ModelType: "aesthetic", Error: "container run failed"},
		},
	}

	path, err := SaveRunRecord(record, dir)
	if err != nil {
		t.Fatalf("SaveRunRecord() error: %v", err)
	}

	if filepath.Dir(path) != dir {
		t.Errorf("record written to %s, want inside %s", path, dir)
	}
	if !strings.HasPrefix(filepath.Base(path), "run-") || !strings.HasSuffix(path, ".yaml") {
		t.Errorf("record file name = %s, want run-<timestamp>.yaml", filepath.Base(path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"dockerimage: tensorflow/tensorflow:2.9.1", "succeeded: 1", "failed: 1", "b.png"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("run record missing %q:\n%s", want, data)
		}
	}
}

func TestWriteParquetRoundTrip(t *testing.T) {
	rows := BuildRows(testResults(), assessment.ModelType("both"))
	path := filepath.Join(t.TempDir(), "scores.parquet")

	if err := WriteParquet(path, rows); err != nil {
		t.Fatalf("WriteParquet() error: %v", err)
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		t.Fatal(err)
	}

	pf, err := parquet.OpenFile(file, info.Size())
	if err != nil {
		t.Fatalf("failed to open parquet output: %v", err)
	}

	reader := parquet.NewGenericReader[Row](pf)
	defer reader.Close()

	loaded := make([]Row, len(rows)+1)
	n, _ := reader.Read(loaded)
	if n != len(rows) {
		t.Fatalf("read %d parquet rows, want %d", n, len(rows))
	}
	if loaded[0].Image != rows[0].Image || loaded[0].ModelType != rows[0].ModelType {
		t.Errorf("first parquet row = %+v, want %+v", loaded[0], rows[0])
	}
	if len(loaded[0].Scores) != assessment.NumBuckets {
		t.Errorf("parquet row has %d score buckets, want %d", len(loaded[0].Scores), assessment.NumBuckets)
	}
}
