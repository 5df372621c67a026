// Package report turns persisted assessment results into user-facing
// reports in several formats.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/imagequality/nima/internal/assessment"
	"gopkg.in/yaml.v3"
)

// Row is one (image, model type) line of a report, with the derived
// statistics filled in.
type Row struct {
	Image     string    `json:"image" yaml:"image" parquet:"image"`
	ModelType string    `json:"model_type" yaml:"modeltype" parquet:"model_type"`
	MeanScore float64   `json:"mean_score" yaml:"meanscore" parquet:"mean_score"`
	StdScore  float64   `json:"std_score" yaml:"stdscore" parquet:"std_score"`
	Scores    []float64 `json:"scores" yaml:"scores" parquet:"scores,list"`
}

// BuildRows converts results into report rows. filter narrows the rows
// to a single model type; an invalid filter (e.g. "both") keeps all.
func BuildRows(results []assessment.Result, filter assessment.ModelType) []Row {
	rows := make([]Row, 0, len(results))
	for _, r := range results {
		if filter.Valid() && r.ModelType != filter {
			continue
		}
		rows = append(rows, Row{
			Image:     r.Image,
			ModelType: string(r.ModelType),
			MeanScore: r.MeanScore,
			StdScore:  r.StdScore(),
			Scores:    r.Scores,
		})
	}
	return rows
}

// ImageReport groups the rows for one image. Overall is only set when
// both model types scored the image.
type ImageReport struct {
	Image     string
	Aesthetic *Row
	Technical *Row
	Overall   float64
}

// GroupByImage folds rows into per-image reports, sorted by image name.
func GroupByImage(rows []Row) []ImageReport {
	byImage := make(map[string]*ImageReport)
	for i := range rows {
		row := &rows[i]
		group, ok := byImage[row.Image]
		if !ok {
			group = &ImageReport{Image: row.Image}
			byImage[row.Image] = group
		}
		switch assessment.ModelType(row.ModelType) {
		case assessment.ModelAesthetic:
			group.Aesthetic = row
		case assessment.ModelTechnical:
			group.Technical = row
		}
	}

	groups := make([]ImageReport, 0, len(byImage))
	for _, group := range byImage {
		if group.Aesthetic != nil && group.Technical != nil {
			group.Overall = assessment.OverallScore(group.Aesthetic.MeanScore, group.Technical.MeanScore)
		}
		groups = append(groups, *group)
	}

	sort.Slice(groups, func(i, j int) bool { return groups[i].Image < groups[j].Image })
	return groups
}

// WriteText prints a human-readable report.
func WriteText(w io.Writer, groups []ImageReport) error {
	fmt.Fprintln(w, "========================================")
	fmt.Fprintln(w, "Image Quality Assessment Report")
	fmt.Fprintln(w, "========================================")

	for i, group := range groups {
		fmt.Fprintf(w, "\n[%d] %s\n", i+1, group.Image)
		if group.Aesthetic != nil {
			fmt.Fprintf(w, "  Aesthetic: %.2f/10 (std %.2f)\n", group.Aesthetic.MeanScore, group.Aesthetic.StdScore)
		}
		if group.Technical != nil {
			fmt.Fprintf(w, "  Technical: %.2f/10 (std %.2f)\n", group.Technical.MeanScore, group.Technical.StdScore)
		}
		if group.Aesthetic != nil && group.Technical != nil {
			fmt.Fprintf(w, "  Overall:   %.2f/10\n", group.Overall)
		}
	}

	fmt.Fprintln(w, "\n========================================")
	fmt.Fprintf(w, "Images: %d\n", len(groups))
	return nil
}

// WriteJSON prints the rows as indented JSON.
func WriteJSON(w io.Writer, rows []Row) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(rows)
}

// WriteYAML prints the rows as YAML.
func WriteYAML(w io.Writer, rows []Row) error {
	data, err := yaml.Marshal(rows)
	if err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}
	_, err = w.Write(data)
	return err
}

// WriteCSV prints one row per (image, model type) with a header line.
func WriteCSV(w io.Writer, rows []Row) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	header := []string{"image", "model_type", "mean_score", "std_score"}
	for i := 1; i <= assessment.NumBuckets; i++ {
		header = append(header, "p"+strconv.Itoa(i))
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, row := range rows {
		record := []string{
			row.Image,
			row.ModelType,
			strconv.FormatFloat(row.MeanScore, 'f', 4, 64),
			strconv.FormatFloat(row.StdScore, 'f', 4, 64),
		}
		for _, p := range row.Scores {
			record = append(record, strconv.FormatFloat(p, 'f', 6, 64))
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	return nil
}
